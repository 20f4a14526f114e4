// README: Fare estimate handler.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cabfare/internal/modules/estimate"
	"cabfare/internal/modules/fare"
)

type EstimateHandler struct {
	estimates *estimate.Service
}

func NewEstimateHandler(svc *estimate.Service) *EstimateHandler {
	return &EstimateHandler{estimates: svc}
}

type estimateReq struct {
	Pickup       string `json:"pickup"`
	Drop         string `json:"drop"`
	VehicleClass string `json:"vehicle_class"`
	TripType     string `json:"trip_type"`
	Hours        int    `json:"hours"`
}

// Estimate handles POST /api/estimate.
func (h *EstimateHandler) Estimate(c *gin.Context) {
	var req estimateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}

	result, err := h.estimates.Estimate(c.Request.Context(), estimate.Request{
		Pickup:       req.Pickup,
		Drop:         req.Drop,
		VehicleClass: fare.Class(req.VehicleClass),
		TripType:     fare.TripType(req.TripType),
		Hours:        req.Hours,
	})
	if err != nil {
		writeEstimateError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, result)
}
