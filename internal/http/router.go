// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cabfare/internal/ai"
	"cabfare/internal/geo"
	"cabfare/internal/http/handlers"
	"cabfare/internal/http/middleware"
	"cabfare/internal/modules/booking"
	"cabfare/internal/modules/estimate"
	"cabfare/internal/modules/fare"
)

type RouterDeps struct {
	Estimates *estimate.Service
	Bookings  *booking.Service
	Catalog   *fare.Catalog
	Suggester geo.Suggester
	// Assistant is optional; the route is only registered when a parser is
	// configured.
	Assistant ai.IntentParser
	Log       *zap.Logger
}

func NewRouter(deps RouterDeps) http.Handler {
	r := gin.New()
	r.Use(middleware.Recovery(deps.Log))
	r.Use(middleware.Logging(deps.Log))

	estimateHandler := handlers.NewEstimateHandler(deps.Estimates)
	r.POST("/api/estimate", estimateHandler.Estimate)

	vehicleHandler := handlers.NewVehicleHandler(deps.Catalog)
	r.GET("/api/vehicles", vehicleHandler.List)

	placeHandler := handlers.NewPlaceHandler(deps.Suggester)
	r.GET("/api/places/suggest", placeHandler.Suggest)

	bookingHandler := handlers.NewBookingHandler(deps.Bookings, deps.Estimates)
	r.POST("/api/bookings", bookingHandler.Create)
	r.GET("/api/bookings", bookingHandler.ListByPhone)
	r.GET("/api/bookings/:ref", bookingHandler.Get)
	r.POST("/api/bookings/:ref/payment/confirm", bookingHandler.ConfirmPayment)
	r.POST("/api/bookings/:ref/status", bookingHandler.UpdateStatus)

	if deps.Assistant != nil {
		assistantHandler := handlers.NewAssistantHandler(deps.Assistant, deps.Estimates)
		r.POST("/api/assistant/estimate", assistantHandler.Estimate)
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	return r
}
