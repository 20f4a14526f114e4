// README: Handler tests over a wired Gin engine with stub providers.
package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"cabfare/internal/ai"
	"cabfare/internal/geo"
	"cabfare/internal/http/handlers"
	"cabfare/internal/modules/booking"
	"cabfare/internal/modules/estimate"
	"cabfare/internal/modules/fare"
	"cabfare/internal/types"
)

// stubGeocoder resolves a fixed set of place names.
type stubGeocoder struct {
	known map[string]geo.ResolvedLocation
}

func (s *stubGeocoder) Geocode(_ context.Context, address string) (geo.ResolvedLocation, error) {
	loc, ok := s.known[address]
	if !ok {
		return geo.ResolvedLocation{}, &geo.GeocodeError{Query: address, Reason: "no results"}
	}
	return loc, nil
}

type stubRouter struct {
	metrics geo.RouteMetrics
}

func (s *stubRouter) Route(context.Context, types.Point, types.Point) (geo.RouteMetrics, error) {
	return s.metrics, nil
}

type stubSuggester struct{}

func (stubSuggester) Suggest(_ context.Context, input string) ([]geo.PlacePrediction, error) {
	return []geo.PlacePrediction{
		{Description: input + " Central", Coordinate: types.Point{Lat: 13.08, Lng: 80.27}},
	}, nil
}

// stubParser returns a canned intent or a fixed error.
type stubParser struct {
	intent *ai.TripIntent
	err    error
}

func (s *stubParser) ParseTripIntent(context.Context, string, map[string]string) (*ai.TripIntent, error) {
	return s.intent, s.err
}

type stubSink struct{ fail bool }

func (s *stubSink) Submit(context.Context, *booking.Booking) error {
	if s.fail {
		return assert.AnError
	}
	return nil
}

func newTestEstimates() *estimate.Service {
	geocoder := &stubGeocoder{known: map[string]geo.ResolvedLocation{
		"Chennai":   {Coordinate: types.Point{Lat: 13.0827, Lng: 80.2707}, DisplayAddress: "Chennai, Tamil Nadu"},
		"Bangalore": {Coordinate: types.Point{Lat: 12.9716, Lng: 77.5946}, DisplayAddress: "Bengaluru, Karnataka"},
	}}
	router := &stubRouter{metrics: geo.RouteMetrics{DistanceKm: 120, DurationMinutes: 40}}
	return estimate.NewService(geocoder, router, fare.NewService(fare.DefaultCatalog()), zap.NewNop())
}

func buildTestRouter(t *testing.T, sinkFails bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	catalog := fare.DefaultCatalog()
	estimates := newTestEstimates()

	repo := booking.NewMemoryStore()
	upi := booking.UPILink{PayeeID: "cabs@upi", PayeeName: "Vel Kumar Cabs"}
	bookings := booking.NewService(repo, &stubSink{fail: sinkFails}, upi, "VK", zap.NewNop())

	r := gin.New()
	eh := handlers.NewEstimateHandler(estimates)
	r.POST("/api/estimate", eh.Estimate)
	vh := handlers.NewVehicleHandler(catalog)
	r.GET("/api/vehicles", vh.List)
	ph := handlers.NewPlaceHandler(stubSuggester{})
	r.GET("/api/places/suggest", ph.Suggest)
	bh := handlers.NewBookingHandler(bookings, estimates)
	r.POST("/api/bookings", bh.Create)
	r.GET("/api/bookings", bh.ListByPhone)
	r.GET("/api/bookings/:ref", bh.Get)
	r.POST("/api/bookings/:ref/payment/confirm", bh.ConfirmPayment)
	r.POST("/api/bookings/:ref/status", bh.UpdateStatus)
	return r
}

func doRequest(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestEstimateEndpoint(t *testing.T) {
	r := buildTestRouter(t, false)
	w := doRequest(r, http.MethodPost, "/api/estimate", map[string]any{
		"pickup":        "Chennai",
		"drop":          "Bangalore",
		"vehicle_class": "sedan",
		"trip_type":     "outstation",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Fare struct {
			TotalFare int64 `json:"total_fare"`
		} `json:"fare"`
		UsedFallback bool `json:"used_fallback"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Positive(t, resp.Fare.TotalFare)
	assert.False(t, resp.UsedFallback)
}

func TestEstimateEndpointUnknownPlace(t *testing.T) {
	r := buildTestRouter(t, false)
	w := doRequest(r, http.MethodPost, "/api/estimate", map[string]any{
		"pickup":        "Atlantis",
		"drop":          "Bangalore",
		"vehicle_class": "sedan",
		"trip_type":     "local",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "Atlantis")
}

func TestEstimateEndpointBadInput(t *testing.T) {
	r := buildTestRouter(t, false)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"empty pickup", map[string]any{"pickup": "", "drop": "Bangalore", "vehicle_class": "sedan", "trip_type": "local"}},
		{"bad trip type", map[string]any{"pickup": "Chennai", "drop": "Bangalore", "vehicle_class": "sedan", "trip_type": "charter"}},
		{"bad class", map[string]any{"pickup": "Chennai", "drop": "Bangalore", "vehicle_class": "rickshaw", "trip_type": "local"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(r, http.MethodPost, "/api/estimate", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestVehiclesEndpoint(t *testing.T) {
	r := buildTestRouter(t, false)
	w := doRequest(r, http.MethodGet, "/api/vehicles", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Vehicles []fare.VehicleClass `json:"vehicles"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Vehicles, 4)
	assert.Equal(t, fare.ClassHatchback, resp.Vehicles[0].Class)
}

func TestSuggestEndpoint(t *testing.T) {
	r := buildTestRouter(t, false)

	w := doRequest(r, http.MethodGet, "/api/places/suggest?q=Che", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Che Central")

	// Short queries return an empty list, not an error.
	w = doRequest(r, http.MethodGet, "/api/places/suggest?q=C", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"predictions":[]`)
}

func validBookingBody() map[string]any {
	return map[string]any{
		"customer_name":  "Priya",
		"customer_phone": "9876543210",
		"pickup":         "Chennai",
		"drop":           "Bangalore",
		"trip_type":      "outstation",
		"vehicle_class":  "sedan",
		"scheduled_date": "2025-06-15",
		"scheduled_time": "08:00",
		"payment_method": "upi",
	}
}

func TestBookingLifecycle(t *testing.T) {
	r := buildTestRouter(t, false)

	w := doRequest(r, http.MethodPost, "/api/bookings", validBookingBody())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Booking struct {
			Ref    string `json:"booking_id"`
			Status string `json:"status"`
		} `json:"booking"`
		UPILink string `json:"upi_link"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.Booking.Ref)
	assert.Equal(t, "pending", created.Booking.Status)
	assert.Contains(t, created.UPILink, "upi://pay?pa=cabs@upi")

	ref := created.Booking.Ref
	w = doRequest(r, http.MethodGet, "/api/bookings/"+ref, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(r, http.MethodGet, "/api/bookings?phone=9876543210", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), ref)

	w = doRequest(r, http.MethodPost, "/api/bookings/"+ref+"/payment/confirm", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"payment_status":"paid"`)

	w = doRequest(r, http.MethodPost, "/api/bookings/"+ref+"/status", map[string]any{"status": "accepted"})
	assert.Equal(t, http.StatusOK, w.Code)

	// There is no way back to pending.
	w = doRequest(r, http.MethodPost, "/api/bookings/"+ref+"/status", map[string]any{"status": "pending"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestBookingUnknownRef(t *testing.T) {
	r := buildTestRouter(t, false)
	w := doRequest(r, http.MethodGet, "/api/bookings/VK000000000", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBookingValidationError(t *testing.T) {
	r := buildTestRouter(t, false)
	body := validBookingBody()
	body["customer_phone"] = "12"
	w := doRequest(r, http.MethodPost, "/api/bookings", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookingSinkFailureKeepsBooking(t *testing.T) {
	r := buildTestRouter(t, true)

	w := doRequest(r, http.MethodPost, "/api/bookings", validBookingBody())
	require.Equal(t, http.StatusBadGateway, w.Code)

	var resp struct {
		Booking struct {
			Ref string `json:"booking_id"`
		} `json:"booking"`
		Warning string `json:"warning"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Booking.Ref, "reference must survive a notification failure")
	assert.NotEmpty(t, resp.Warning)

	// The record is retrievable afterwards.
	w = doRequest(r, http.MethodGet, "/api/bookings/"+resp.Booking.Ref, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func buildAssistantRouter(parser ai.IntentParser) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handlers.NewAssistantHandler(parser, newTestEstimates())
	r.POST("/api/assistant/estimate", h.Estimate)
	return r
}

func strPtr(s string) *string { return &s }

func TestAssistantClarificationTurn(t *testing.T) {
	r := buildAssistantRouter(&stubParser{intent: &ai.TripIntent{
		Pickup:             strPtr("Chennai"),
		NeedsClarification: true,
		Reply:              "Where would you like to go?",
	}})

	w := doRequest(r, http.MethodPost, "/api/assistant/estimate", map[string]any{"message": "cab from Chennai"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Result *json.RawMessage `json:"result"`
		Reply  string           `json:"reply"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Nil(t, resp.Result, "no fare on a clarification turn")
	assert.Equal(t, "Where would you like to go?", resp.Reply)
}

func TestAssistantCompleteIntentDefaults(t *testing.T) {
	// No class or trip type from the model: sedan outstation is assumed.
	r := buildAssistantRouter(&stubParser{intent: &ai.TripIntent{
		Pickup: strPtr("Chennai"),
		Drop:   strPtr("Bangalore"),
		Reply:  "Chennai to Bangalore, coming up.",
	}})

	w := doRequest(r, http.MethodPost, "/api/assistant/estimate", map[string]any{"message": "cab from Chennai to Bangalore"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Result struct {
			Fare struct {
				TotalFare    int64  `json:"total_fare"`
				VehicleClass string `json:"vehicle_class"`
				TripType     string `json:"trip_type"`
			} `json:"fare"`
		} `json:"result"`
		Reply string `json:"reply"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Positive(t, resp.Result.Fare.TotalFare)
	assert.Equal(t, "sedan", resp.Result.Fare.VehicleClass)
	assert.Equal(t, "outstation", resp.Result.Fare.TripType)
	assert.Equal(t, "Chennai to Bangalore, coming up.", resp.Reply)
}

func TestAssistantHonorsParsedTrip(t *testing.T) {
	r := buildAssistantRouter(&stubParser{intent: &ai.TripIntent{
		Pickup:       strPtr("Chennai"),
		Drop:         strPtr("Bangalore"),
		VehicleClass: "suv",
		TripType:     "hourly",
		Hours:        3,
		Reply:        "An SUV for 3 hours.",
	}})

	w := doRequest(r, http.MethodPost, "/api/assistant/estimate", map[string]any{"message": "suv for 3 hours from Chennai"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Result struct {
			Fare struct {
				TimeFare     int64  `json:"time_fare"`
				VehicleClass string `json:"vehicle_class"`
			} `json:"fare"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "suv", resp.Result.Fare.VehicleClass)
	assert.Equal(t, int64(450), resp.Result.Fare.TimeFare, "150/hour for 3 hours")
}

func TestAssistantBadInput(t *testing.T) {
	r := buildAssistantRouter(&stubParser{intent: &ai.TripIntent{}})

	w := doRequest(r, http.MethodPost, "/api/assistant/estimate", map[string]any{"message": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAssistantParserFailure(t *testing.T) {
	r := buildAssistantRouter(&stubParser{err: assert.AnError})

	w := doRequest(r, http.MethodPost, "/api/assistant/estimate", map[string]any{"message": "cab to Bangalore"})
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestAssistantUnknownPlaceSurfaces(t *testing.T) {
	r := buildAssistantRouter(&stubParser{intent: &ai.TripIntent{
		Pickup: strPtr("Atlantis"),
		Drop:   strPtr("Bangalore"),
	}})

	w := doRequest(r, http.MethodPost, "/api/assistant/estimate", map[string]any{"message": "cab from Atlantis"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
