// README: Booking handlers for create/lookup/payment/status.
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"cabfare/internal/modules/booking"
	"cabfare/internal/modules/estimate"
	"cabfare/internal/modules/fare"
	"cabfare/internal/types"
)

type BookingHandler struct {
	bookings  *booking.Service
	estimates *estimate.Service
}

func NewBookingHandler(bookings *booking.Service, estimates *estimate.Service) *BookingHandler {
	return &BookingHandler{bookings: bookings, estimates: estimates}
}

type createBookingReq struct {
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
	CustomerEmail string `json:"customer_email"`
	Pickup        string `json:"pickup"`
	Drop          string `json:"drop"`
	TripType      string `json:"trip_type"`
	VehicleClass  string `json:"vehicle_class"`
	Hours         int    `json:"hours"`
	ScheduledDate string `json:"scheduled_date"`
	ScheduledTime string `json:"scheduled_time"`
	PaymentMethod string `json:"payment_method"`
	Notes         string `json:"notes"`
}

type createBookingResp struct {
	Booking *booking.Booking `json:"booking"`
	UPILink string           `json:"upi_link,omitempty"`
	Warning string           `json:"warning,omitempty"`
}

// Create handles POST /api/bookings. The estimate is recomputed server-side
// from the submitted addresses so the stored fare never trusts the client.
func (h *BookingHandler) Create(c *gin.Context) {
	var req createBookingReq
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

	pickupPt := result.Pickup.Coordinate
	dropPt := result.Drop.Coordinate
	b, link, err := h.bookings.Create(c.Request.Context(), booking.CreateCommand{
		CustomerName:     req.CustomerName,
		CustomerPhone:    req.CustomerPhone,
		CustomerEmail:    req.CustomerEmail,
		PickupAddress:    req.Pickup,
		PickupCoordinate: &types.Point{Lat: pickupPt.Lat, Lng: pickupPt.Lng},
		DropAddress:      req.Drop,
		DropCoordinate:   &types.Point{Lat: dropPt.Lat, Lng: dropPt.Lng},
		TripType:         fare.TripType(req.TripType),
		VehicleClass:     fare.Class(req.VehicleClass),
		ScheduledDate:    req.ScheduledDate,
		ScheduledTime:    req.ScheduledTime,
		Estimate:         &result.Fare,
		PaymentMethod:    booking.PaymentMethod(req.PaymentMethod),
		Notes:            req.Notes,
	})
	if err != nil {
		if errors.Is(err, booking.ErrSinkFailed) {
			// The booking is stored; the user keeps their reference and a
			// warning instead of losing the submission.
			writeJSON(c, http.StatusBadGateway, createBookingResp{
				Booking: b,
				UPILink: link,
				Warning: "booking saved but the operator could not be notified; please call to confirm",
			})
			return
		}
		writeBookingError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, createBookingResp{Booking: b, UPILink: link})
}

// Get handles GET /api/bookings/:ref.
func (h *BookingHandler) Get(c *gin.Context) {
	ref := strings.TrimSpace(c.Param("ref"))
	b, err := h.bookings.Get(c.Request.Context(), ref)
	if err != nil {
		writeBookingError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, b)
}

// ListByPhone handles GET /api/bookings?phone=...
func (h *BookingHandler) ListByPhone(c *gin.Context) {
	phone := strings.TrimSpace(c.Query("phone"))
	list, err := h.bookings.FindByPhone(c.Request.Context(), phone)
	if err != nil {
		writeBookingError(c, err)
		return
	}
	if list == nil {
		list = []*booking.Booking{}
	}
	writeJSON(c, http.StatusOK, gin.H{"bookings": list})
}

// ConfirmPayment handles POST /api/bookings/:ref/payment/confirm.
func (h *BookingHandler) ConfirmPayment(c *gin.Context) {
	ref := strings.TrimSpace(c.Param("ref"))
	b, err := h.bookings.ConfirmPayment(c.Request.Context(), ref)
	if err != nil {
		if errors.Is(err, booking.ErrSinkFailed) {
			writeJSON(c, http.StatusBadGateway, createBookingResp{
				Booking: b,
				Warning: "payment recorded but the operator could not be notified",
			})
			return
		}
		writeBookingError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, b)
}

type statusReq struct {
	Status string `json:"status"`
}

// UpdateStatus handles POST /api/bookings/:ref/status.
func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	ref := strings.TrimSpace(c.Param("ref"))
	var req statusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Status == "" {
		writeError(c, http.StatusBadRequest, "missing status")
		return
	}

	b, err := h.bookings.Transition(c.Request.Context(), ref, booking.Status(req.Status))
	if err != nil {
		writeBookingError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, b)
}
