// README: Delivery of finished bookings to the operator's mail relay.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"cabfare/internal/modules/booking"
)

// HTTPSink posts booking records as JSON to a relay endpoint. The relay
// owns formatting and delivery of the operator email; this side only
// guarantees the record reaches it.
type HTTPSink struct {
	url    string
	client *http.Client
	log    *zap.Logger
}

func NewHTTPSink(url string, timeout time.Duration, log *zap.Logger) *HTTPSink {
	return &HTTPSink{
		url:    url,
		client: &http.Client{Timeout: timeout},
		log:    log,
	}
}

func (s *HTTPSink) Submit(ctx context.Context, b *booking.Booking) error {
	body, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("encode booking: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build relay request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("post to relay: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("relay rejected booking: status %d", resp.StatusCode)
	}

	s.log.Debug("booking delivered to relay",
		zap.String("booking_id", b.Ref),
		zap.Int("status", resp.StatusCode))
	return nil
}

// NopSink discards bookings. Used when no relay URL is configured.
type NopSink struct{}

func (NopSink) Submit(context.Context, *booking.Booking) error { return nil }
