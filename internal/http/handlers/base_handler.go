// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"cabfare/internal/geo"
	"cabfare/internal/modules/booking"
	"cabfare/internal/modules/estimate"
	"cabfare/internal/modules/fare"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

// writeEstimateError maps estimate flow failures. Geocoding failures are
// the caller's problem (bad address) and say which side failed; routing
// failures never reach here because the flow falls back to great-circle
// metrics.
func writeEstimateError(c *gin.Context, err error) {
	var geocodeErr *geo.GeocodeError
	switch {
	case errors.Is(err, estimate.ErrEmptyPickup),
		errors.Is(err, estimate.ErrEmptyDrop),
		errors.Is(err, estimate.ErrInvalidTrip),
		errors.Is(err, fare.ErrUnknownVehicleClass):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.As(err, &geocodeErr):
		writeError(c, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

func writeBookingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, booking.ErrValidation):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, booking.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, booking.ErrInvalidTransition), errors.Is(err, booking.ErrConflict):
		writeError(c, http.StatusConflict, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
