// README: Booking assembly service; validates, persists and forwards to the sink.
package booking

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"cabfare/internal/modules/fare"
	"cabfare/internal/types"
)

var (
	ErrValidation        = errors.New("invalid booking input")
	ErrNotFound          = errors.New("booking not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrConflict          = errors.New("booking state conflict")
	// ErrSinkFailed means the booking was assembled and stored but the
	// notification sink rejected it. The booking is never dropped.
	ErrSinkFailed = errors.New("booking stored but notification failed")
)

var (
	phonePattern = regexp.MustCompile(`^[0-9]{10}$`)
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// Repository is the injectable backing store for bookings. Records are
// appended and transitioned, never removed.
type Repository interface {
	Append(ctx context.Context, b *Booking) error
	FindByRef(ctx context.Context, ref string) (*Booking, error)
	FindByPhone(ctx context.Context, phone string) ([]*Booking, error)
	UpdateStatus(ctx context.Context, ref string, from, to Status, at time.Time) (bool, error)
	UpdatePayment(ctx context.Context, ref string, method PaymentMethod, status PaymentStatus, at time.Time) error
	AppendEvent(ctx context.Context, e *Event) error
}

// Sink receives finished booking records. Implementations live in
// internal/notify.
type Sink interface {
	Submit(ctx context.Context, b *Booking) error
}

type Service struct {
	repo      Repository
	sink      Sink
	upi       UPILink
	refPrefix string
	log       *zap.Logger
	now       func() time.Time
}

func NewService(repo Repository, sink Sink, upi UPILink, refPrefix string, log *zap.Logger) *Service {
	return &Service{repo: repo, sink: sink, upi: upi, refPrefix: refPrefix, log: log, now: time.Now}
}

type CreateCommand struct {
	CustomerName     string
	CustomerPhone    string
	CustomerEmail    string
	PickupAddress    string
	PickupCoordinate *types.Point
	DropAddress      string
	DropCoordinate   *types.Point
	TripType         fare.TripType
	VehicleClass     fare.Class
	ScheduledDate    string
	ScheduledTime    string
	Estimate         *fare.Estimate
	PaymentMethod    PaymentMethod
	Notes            string
}

// Create assembles an immutable booking record from form state plus the
// computed estimate, stores it, and forwards it to the sink. A sink failure
// surfaces as ErrSinkFailed with the stored booking still returned: the
// user-visible outcome is "fare computed, submission failed", never a
// silent drop.
func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*Booking, string, error) {
	if err := validate(cmd); err != nil {
		return nil, "", err
	}

	method := cmd.PaymentMethod
	if method == "" {
		method = MethodCash
	}

	var estimated types.Money
	if cmd.Estimate != nil {
		estimated = types.Money{Amount: cmd.Estimate.TotalFare, Currency: "INR"}
	}

	now := s.now()
	b := &Booking{
		ID:               uuid.New(),
		Ref:              NewRef(s.refPrefix, now),
		CustomerName:     strings.TrimSpace(cmd.CustomerName),
		CustomerPhone:    cmd.CustomerPhone,
		CustomerEmail:    cmd.CustomerEmail,
		PickupAddress:    cmd.PickupAddress,
		PickupCoordinate: cmd.PickupCoordinate,
		DropAddress:      cmd.DropAddress,
		DropCoordinate:   cmd.DropCoordinate,
		TripType:         cmd.TripType,
		VehicleClass:     cmd.VehicleClass,
		ScheduledDate:    cmd.ScheduledDate,
		ScheduledTime:    cmd.ScheduledTime,
		EstimatedFare:    estimated,
		Status:           StatusPending,
		PaymentStatus:    PaymentPending,
		PaymentMethod:    method,
		Notes:            cmd.Notes,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.repo.Append(ctx, b); err != nil {
		return nil, "", fmt.Errorf("store booking: %w", err)
	}
	_ = s.repo.AppendEvent(ctx, &Event{
		BookingRef: b.Ref,
		ToStatus:   StatusPending,
		Note:       "created",
		CreatedAt:  now,
	})

	link := ""
	if method == MethodUPI {
		link = s.upi.Link(b.Ref, b.EstimatedFare.Amount)
	}

	if err := s.sink.Submit(ctx, b); err != nil {
		s.log.Error("booking sink submit failed",
			zap.String("booking_id", b.Ref),
			zap.Error(err))
		return b, link, fmt.Errorf("%w: %v", ErrSinkFailed, err)
	}

	s.log.Info("booking created",
		zap.String("booking_id", b.Ref),
		zap.String("vehicle_class", string(b.VehicleClass)),
		zap.Int64("estimated_fare", b.EstimatedFare.Amount))
	return b, link, nil
}

// ConfirmPayment records the out-of-band UPI acknowledgment. This is a
// manual user confirmation, not a verified transaction.
func (s *Service) ConfirmPayment(ctx context.Context, ref string) (*Booking, error) {
	b, err := s.repo.FindByRef(ctx, ref)
	if err != nil {
		return nil, err
	}
	if b.PaymentStatus == PaymentPaid {
		return b, nil
	}
	if b.PaymentMethod != MethodUPI {
		return nil, fmt.Errorf("%w: booking pays by %s, nothing to confirm", ErrConflict, b.PaymentMethod)
	}

	now := s.now()
	if err := s.repo.UpdatePayment(ctx, ref, MethodUPI, PaymentPaid, now); err != nil {
		return nil, err
	}
	b.PaymentMethod = MethodUPI
	b.PaymentStatus = PaymentPaid
	b.UpdatedAt = now
	_ = s.repo.AppendEvent(ctx, &Event{
		BookingRef: ref,
		FromStatus: b.Status,
		ToStatus:   b.Status,
		Note:       "payment confirmed",
		CreatedAt:  now,
	})

	if err := s.sink.Submit(ctx, b); err != nil {
		s.log.Error("booking sink submit failed",
			zap.String("booking_id", ref),
			zap.Error(err))
		return b, fmt.Errorf("%w: %v", ErrSinkFailed, err)
	}
	return b, nil
}

// Transition moves a booking along the AllowedTransitions map.
func (s *Service) Transition(ctx context.Context, ref string, to Status) (*Booking, error) {
	b, err := s.repo.FindByRef(ctx, ref)
	if err != nil {
		return nil, err
	}
	if !CanTransition(b.Status, to) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, b.Status, to)
	}

	now := s.now()
	ok, err := s.repo.UpdateStatus(ctx, ref, b.Status, to, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrConflict
	}
	_ = s.repo.AppendEvent(ctx, &Event{
		BookingRef: ref,
		FromStatus: b.Status,
		ToStatus:   to,
		CreatedAt:  now,
	})
	b.Status = to
	b.UpdatedAt = now
	return b, nil
}

func (s *Service) Get(ctx context.Context, ref string) (*Booking, error) {
	return s.repo.FindByRef(ctx, ref)
}

func (s *Service) FindByPhone(ctx context.Context, phone string) ([]*Booking, error) {
	if !phonePattern.MatchString(phone) {
		return nil, fmt.Errorf("%w: phone must be 10 digits", ErrValidation)
	}
	return s.repo.FindByPhone(ctx, phone)
}

func validate(cmd CreateCommand) error {
	switch {
	case strings.TrimSpace(cmd.CustomerName) == "":
		return fmt.Errorf("%w: customer name is required", ErrValidation)
	case !phonePattern.MatchString(cmd.CustomerPhone):
		return fmt.Errorf("%w: phone must be 10 digits", ErrValidation)
	case cmd.CustomerEmail != "" && !emailPattern.MatchString(cmd.CustomerEmail):
		return fmt.Errorf("%w: malformed email address", ErrValidation)
	case strings.TrimSpace(cmd.PickupAddress) == "":
		return fmt.Errorf("%w: pickup address is required", ErrValidation)
	case strings.TrimSpace(cmd.DropAddress) == "":
		return fmt.Errorf("%w: drop address is required", ErrValidation)
	case !cmd.TripType.Valid():
		return fmt.Errorf("%w: invalid trip type %q", ErrValidation, cmd.TripType)
	case cmd.PaymentMethod != "" && cmd.PaymentMethod != MethodCash && cmd.PaymentMethod != MethodUPI:
		return fmt.Errorf("%w: unsupported payment method %q", ErrValidation, cmd.PaymentMethod)
	}
	return nil
}
