// README: Fare estimation orchestrator; chains geocoding, routing and the fare engine.
package estimate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"cabfare/internal/geo"
	"cabfare/internal/modules/fare"
)

var (
	ErrEmptyPickup = errors.New("pickup address is required")
	ErrEmptyDrop   = errors.New("drop address is required")
	ErrInvalidTrip = errors.New("invalid trip type")
)

// maxDistanceKm is a sanity bound on any routed or fallback distance.
const maxDistanceKm = 500

// Service runs one estimate per call. It holds no state across calls; two
// concurrent invocations never share anything but the injected
// collaborators.
type Service struct {
	geocoder geo.Geocoder
	router   geo.Router
	fares    *fare.Service
	log      *zap.Logger
}

func NewService(geocoder geo.Geocoder, router geo.Router, fares *fare.Service, log *zap.Logger) *Service {
	return &Service{geocoder: geocoder, router: router, fares: fares, log: log}
}

// Estimate resolves both addresses sequentially, routes between them (or
// substitutes the great-circle fallback when routing fails), and prices the
// trip. Geocoding failures are fatal and name the failing side; routing
// failures are swallowed.
func (s *Service) Estimate(ctx context.Context, req Request) (Result, error) {
	state := StateIdle

	if strings.TrimSpace(req.Pickup) == "" {
		return Result{}, s.fail(state, ErrEmptyPickup)
	}
	if strings.TrimSpace(req.Drop) == "" {
		return Result{}, s.fail(state, ErrEmptyDrop)
	}
	if !req.TripType.Valid() {
		return Result{}, s.fail(state, fmt.Errorf("%w: %q", ErrInvalidTrip, req.TripType))
	}

	state = StateGeocodingPickup
	pickup, err := s.geocoder.Geocode(ctx, req.Pickup)
	if err != nil {
		return Result{}, s.fail(state, fmt.Errorf("pickup: %w", err))
	}

	state = StateGeocodingDrop
	drop, err := s.geocoder.Geocode(ctx, req.Drop)
	if err != nil {
		return Result{}, s.fail(state, fmt.Errorf("drop: %w", err))
	}

	state = StateRoutingOrFallback
	usedFallback := false
	metrics, err := s.router.Route(ctx, pickup.Coordinate, drop.Coordinate)
	if err != nil {
		// Routing failure is recoverable: substitute straight-line
		// metrics and keep going.
		s.log.Warn("route lookup failed, using great-circle fallback",
			zap.String("pickup", pickup.DisplayAddress),
			zap.String("drop", drop.DisplayAddress),
			zap.Error(err))
		metrics = geo.FallbackMetrics(pickup.Coordinate, drop.Coordinate)
		usedFallback = true
	}
	metrics = capMetrics(metrics, usedFallback)

	state = StateComputing
	est, err := s.fares.Compute(req.VehicleClass, req.TripType, metrics.DistanceKm, metrics.DurationMinutes, req.Hours)
	if err != nil {
		return Result{}, s.fail(state, err)
	}

	state = StateDone
	s.log.Debug("estimate complete",
		zap.String("state", string(state)),
		zap.Float64("distance_km", est.DistanceKm),
		zap.Int64("total_fare", est.TotalFare),
		zap.Bool("used_fallback", usedFallback))

	return Result{
		Fare:         est,
		Pickup:       pickup,
		Drop:         drop,
		UsedFallback: usedFallback,
	}, nil
}

func (s *Service) fail(state State, err error) error {
	s.log.Debug("estimate failed", zap.String("state", string(state)), zap.Error(err))
	return err
}

// capMetrics bounds any distance, routed or fallback, at the 500 km sanity
// limit. Adapters already return kilometres, so no unit conversion happens
// here. The fallback duration is derived from the distance, so it is
// rescaled with the cap; a routed duration is real and kept as-is.
func capMetrics(m geo.RouteMetrics, usedFallback bool) geo.RouteMetrics {
	if m.DistanceKm <= maxDistanceKm {
		return m
	}
	if usedFallback {
		m.DurationMinutes *= maxDistanceKm / m.DistanceKm
	}
	m.DistanceKm = maxDistanceKm
	return m
}
