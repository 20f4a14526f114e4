package ai

import (
	"context"
)

// IntentParser extracts a structured trip request from free-form user text.
// The interface allows swapping model providers without touching handlers.
type IntentParser interface {
	ParseTripIntent(ctx context.Context, userMessage string, currentContext map[string]string) (*TripIntent, error)
}
