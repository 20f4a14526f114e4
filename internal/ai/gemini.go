package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiParser implements IntentParser using Google's Gemini models.
type GeminiParser struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiParser initializes a new Gemini client.
// apiKey should be provided from environment variables.
func NewGeminiParser(ctx context.Context, apiKey string) (*GeminiParser, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	// Gemini 2.0 Flash for low latency and cost.
	model := client.GenerativeModel("gemini-2.0-flash")

	// Force JSON response for structured parsing.
	model.ResponseMIMEType = "application/json"
	model.SetTemperature(0.2)

	return &GeminiParser{
		client: client,
		model:  model,
	}, nil
}

// Close cleans up the Gemini client resources.
func (p *GeminiParser) Close() {
	p.client.Close()
}

// ParseTripIntent analyzes user input to extract a trip request.
func (p *GeminiParser) ParseTripIntent(ctx context.Context, userMessage string, currentContext map[string]string) (*TripIntent, error) {
	fullPrompt := fmt.Sprintf("%s\n\nUser Message: %s", buildSystemPrompt(currentContext), userMessage)

	resp, err := p.model.GenerateContent(ctx, genai.Text(fullPrompt))
	if err != nil {
		return nil, fmt.Errorf("gemini generation error: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("no response candidates from Gemini")
	}

	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			responseText.WriteString(string(txt))
		}
	}

	cleanJSON := cleanJSONString(responseText.String())

	var result TripIntent
	if err := json.Unmarshal([]byte(cleanJSON), &result); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w. Raw: %s", err, cleanJSON)
	}

	return &result, nil
}

// buildSystemPrompt constructs the instructions for the model.
func buildSystemPrompt(ctxMap map[string]string) string {
	currentTime := ctxMap["current_time"]
	if currentTime == "" {
		currentTime = "UNKNOWN_TIME"
	}

	return fmt.Sprintf(`Role: You are the booking assistant for an Indian intercity cab operator.
Context:
- Current System Time: %s

Your ONLY job is to extract a structured trip request from the user's message.

Output JSON with these fields:
- "pickup": pickup place name, or null if not given.
- "drop": drop place name, or null if not given.
- "vehicle_class": one of "hatchback", "sedan", "suv", "luxury", or "" if no preference.
- "trip_type": "local" (within one city), "outstation" (between cities), or "hourly" (rental by the hour). Infer from the places when obvious: two different cities means "outstation".
- "hours": integer rental duration, only for hourly trips, 1 to 24.
- "needs_clarification": true when pickup or drop is missing (or hours, for an hourly trip).
- "reply": one short sentence. When needs_clarification is true, ask ONLY for the missing detail. Otherwise summarize the understood trip.

RULES:
1. NEVER invent places the user did not mention.
2. Keywords "from", "starting at" imply pickup; "to", "towards" imply drop.
3. "full day", "whole day" -> trip_type "hourly", hours 8 unless stated.
4. "big car", "7 seater", "family" -> vehicle_class "suv".
5. If the message is not about booking a cab at all, set needs_clarification true and politely redirect.`, currentTime)
}

// cleanJSONString removes markdown code blocks if present (e.g. ```json ... ```)
func cleanJSONString(input string) string {
	input = strings.TrimSpace(input)
	input = strings.TrimPrefix(input, "```json")
	input = strings.TrimPrefix(input, "```")
	input = strings.TrimSuffix(input, "```")
	return strings.TrimSpace(input)
}
