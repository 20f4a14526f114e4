// README: Booking aggregate, status flow and reference generation.
package booking

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/google/uuid"

	"cabfare/internal/modules/fare"
	"cabfare/internal/types"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusAssigned  Status = "assigned"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentPartial PaymentStatus = "partial"
)

type PaymentMethod string

const (
	MethodCash PaymentMethod = "cash"
	MethodUPI  PaymentMethod = "upi"
)

// Booking is the record handed to the persistence/notification sink. It is
// only ever appended and transitioned, never deleted.
type Booking struct {
	ID               uuid.UUID      `json:"id"`
	Ref              string         `json:"booking_id"`
	CustomerName     string         `json:"customer_name"`
	CustomerPhone    string         `json:"customer_phone"`
	CustomerEmail    string         `json:"customer_email"`
	PickupAddress    string         `json:"pickup_address"`
	PickupCoordinate *types.Point   `json:"pickup_coordinate,omitempty"`
	DropAddress      string         `json:"drop_address"`
	DropCoordinate   *types.Point   `json:"drop_coordinate,omitempty"`
	TripType         fare.TripType  `json:"trip_type"`
	VehicleClass     fare.Class     `json:"vehicle_class"`
	ScheduledDate    string         `json:"scheduled_date"`
	ScheduledTime    string         `json:"scheduled_time"`
	EstimatedFare    types.Money    `json:"estimated_fare"`
	Status           Status         `json:"status"`
	PaymentStatus    PaymentStatus  `json:"payment_status"`
	PaymentMethod    PaymentMethod  `json:"payment_method"`
	Notes            string         `json:"notes,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// Event records one status or payment transition, append-only.
type Event struct {
	ID         int64
	BookingRef string
	FromStatus Status
	ToStatus   Status
	Note       string
	CreatedAt  time.Time
}

// AllowedTransitions represents the booking state flow as code. Terminal
// states have no entry.
var AllowedTransitions = map[Status][]Status{
	StatusPending:  {StatusAccepted, StatusCancelled},
	StatusAccepted: {StatusAssigned, StatusCancelled},
	StatusAssigned: {StatusCompleted, StatusCancelled},
}

func CanTransition(from, to Status) bool {
	next, ok := AllowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range next {
		if s == to {
			return true
		}
	}
	return false
}

// NewRef builds a customer-facing booking reference:
// two-letter prefix + YYMMDD + three random digits. If the random source
// fails it degrades to a timestamp-derived reference.
func NewRef(prefix string, now time.Time) string {
	n, err := rand.Int(rand.Reader, big.NewInt(1000))
	if err != nil {
		return fallbackRef(now)
	}
	return fmt.Sprintf("%s%s%03d", prefix, now.Format("060102"), n.Int64())
}

func fallbackRef(now time.Time) string {
	ms := strconv.FormatInt(now.UnixMilli(), 10)
	if len(ms) > 8 {
		ms = ms[len(ms)-8:]
	}
	return "BK" + ms
}
