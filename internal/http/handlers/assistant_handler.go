// README: Assistant handler (natural-language trip parsing + estimate).
package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"cabfare/internal/ai"
	"cabfare/internal/modules/estimate"
	"cabfare/internal/modules/fare"
)

type AssistantHandler struct {
	parser    ai.IntentParser
	estimates *estimate.Service
}

func NewAssistantHandler(parser ai.IntentParser, estimates *estimate.Service) *AssistantHandler {
	return &AssistantHandler{parser: parser, estimates: estimates}
}

type assistantReq struct {
	Message string `json:"message"`
}

type assistantResp struct {
	Intent *ai.TripIntent   `json:"intent"`
	Result *estimate.Result `json:"result,omitempty"`
	Reply  string           `json:"reply"`
}

// Estimate handles POST /api/assistant/estimate. The model extracts a trip
// request from free text; when complete, the normal estimate flow runs on
// it. A clarification turn returns the model's follow-up question and no
// fare.
func (h *AssistantHandler) Estimate(c *gin.Context) {
	var req assistantReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		writeError(c, http.StatusBadRequest, "missing message")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	intent, err := h.parser.ParseTripIntent(ctx, req.Message, map[string]string{
		"current_time": time.Now().Format(time.RFC3339),
	})
	if err != nil {
		writeError(c, http.StatusBadGateway, "assistant unavailable")
		return
	}

	if intent.NeedsClarification || intent.Pickup == nil || intent.Drop == nil {
		writeJSON(c, http.StatusOK, assistantResp{Intent: intent, Reply: intent.Reply})
		return
	}

	class := fare.Class(intent.VehicleClass)
	if intent.VehicleClass == "" {
		class = fare.ClassSedan
	}
	tripType := fare.TripType(intent.TripType)
	if intent.TripType == "" {
		tripType = fare.TripOutstation
	}

	result, err := h.estimates.Estimate(ctx, estimate.Request{
		Pickup:       *intent.Pickup,
		Drop:         *intent.Drop,
		VehicleClass: class,
		TripType:     tripType,
		Hours:        intent.Hours,
	})
	if err != nil {
		writeEstimateError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, assistantResp{Intent: intent, Result: &result, Reply: intent.Reply})
}
