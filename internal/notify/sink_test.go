package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"cabfare/internal/modules/booking"
)

func testBooking() *booking.Booking {
	return &booking.Booking{
		Ref:           "VK250614042",
		CustomerName:  "Priya",
		CustomerPhone: "9876543210",
		PickupAddress: "Chennai Central",
		DropAddress:   "Bangalore Majestic",
		Status:        booking.StatusPending,
	}
}

func TestHTTPSinkSubmit(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	sink := NewHTTPSink(srv.URL, 5*time.Second, zap.NewNop())
	err := sink.Submit(context.Background(), testBooking())
	require.NoError(t, err)
	assert.Equal(t, "VK250614042", got["booking_id"])
	assert.Equal(t, "Priya", got["customer_name"])
}

func TestHTTPSinkRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	sink := NewHTTPSink(srv.URL, 5*time.Second, zap.NewNop())
	err := sink.Submit(context.Background(), testBooking())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}

func TestHTTPSinkUnreachable(t *testing.T) {
	sink := NewHTTPSink("http://127.0.0.1:1/relay", time.Second, zap.NewNop())
	err := sink.Submit(context.Background(), testBooking())
	assert.Error(t, err)
}

func TestNopSink(t *testing.T) {
	assert.NoError(t, NopSink{}.Submit(context.Background(), testBooking()))
}
