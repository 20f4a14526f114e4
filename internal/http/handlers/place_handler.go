// README: Place autocomplete handler.
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"cabfare/internal/geo"
)

type PlaceHandler struct {
	suggester geo.Suggester
}

func NewPlaceHandler(s geo.Suggester) *PlaceHandler {
	return &PlaceHandler{suggester: s}
}

// Suggest handles GET /api/places/suggest?q=...
func (h *PlaceHandler) Suggest(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if len(q) < 3 {
		// Too short to be useful; the UI debounces but we guard anyway.
		writeJSON(c, http.StatusOK, gin.H{"predictions": []geo.PlacePrediction{}})
		return
	}

	predictions, err := h.suggester.Suggest(c.Request.Context(), q)
	if err != nil {
		// Autocomplete is best-effort; an upstream failure is an empty list.
		writeJSON(c, http.StatusOK, gin.H{"predictions": []geo.PlacePrediction{}})
		return
	}
	if predictions == nil {
		predictions = []geo.PlacePrediction{}
	}
	writeJSON(c, http.StatusOK, gin.H{"predictions": predictions})
}
