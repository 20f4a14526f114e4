// README: Provider-neutral geocoding and routing contracts.
package geo

import (
	"context"
	"fmt"
	"math"

	"cabfare/internal/types"
)

// ResolvedLocation is a geocoded address. It is consumed immediately by the
// estimate flow and never persisted.
type ResolvedLocation struct {
	Coordinate     types.Point `json:"coordinate"`
	DisplayAddress string      `json:"display_address"`
}

// RouteMetrics describes a driving route between two coordinates.
// DistanceKm is kilometres; adapters convert from provider units before
// returning.
type RouteMetrics struct {
	DistanceKm      float64 `json:"distance_km"`
	DurationMinutes float64 `json:"duration_minutes"`
}

// PlacePrediction is a typed autocomplete suggestion, validated at the
// adapter boundary so callers never see raw provider shapes.
type PlacePrediction struct {
	Description string      `json:"description"`
	Coordinate  types.Point `json:"coordinate"`
}

// Geocoder resolves free-text addresses to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (ResolvedLocation, error)
}

// Router resolves a coordinate pair to route metrics.
type Router interface {
	Route(ctx context.Context, origin, dest types.Point) (RouteMetrics, error)
}

// Suggester returns address predictions for partial input.
type Suggester interface {
	Suggest(ctx context.Context, input string) ([]PlacePrediction, error)
}

// GeocodeError means an address could not be resolved to a usable
// coordinate. There is no fallback for it: without a coordinate the
// estimate cannot proceed.
type GeocodeError struct {
	Query  string
	Reason string
}

func (e *GeocodeError) Error() string {
	return fmt.Sprintf("geocode %q: %s", e.Query, e.Reason)
}

// RouteError means the routing provider returned no usable route. Callers
// treat "no route" and transport failures the same way: both trigger the
// great-circle fallback.
type RouteError struct {
	Reason string
	Err    error
}

func (e *RouteError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("route: %s: %v", e.Reason, e.Err)
	}
	return "route: " + e.Reason
}

func (e *RouteError) Unwrap() error { return e.Err }

// nullIslandEpsilon bounds the dead zone around (0,0). Providers that fail
// quietly tend to return coordinates there (Gulf of Guinea), never a real
// pickup point.
const nullIslandEpsilon = 0.0001

// CheckCoordinate reports why a provider coordinate is unusable, or ""
// when it is valid.
func CheckCoordinate(p types.Point) string {
	switch {
	case math.IsNaN(p.Lat) || math.IsNaN(p.Lng):
		return "coordinate is NaN"
	case p.Lat < -90 || p.Lat > 90 || p.Lng < -180 || p.Lng > 180:
		return "coordinate out of range"
	case math.Abs(p.Lat) < nullIslandEpsilon && math.Abs(p.Lng) < nullIslandEpsilon:
		return "coordinate at (0,0)"
	default:
		return ""
	}
}
