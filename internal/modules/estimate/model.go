// README: Estimate request/result shapes and the per-request state machine.
package estimate

import (
	"cabfare/internal/geo"
	"cabfare/internal/modules/fare"
)

// State names a step of the estimate flow. Each request walks
// Idle → GeocodingPickup → GeocodingDrop → RoutingOrFallback → Computing
// and ends in Done or Failed.
type State string

const (
	StateIdle              State = "idle"
	StateGeocodingPickup   State = "geocoding_pickup"
	StateGeocodingDrop     State = "geocoding_drop"
	StateRoutingOrFallback State = "routing_or_fallback"
	StateComputing         State = "computing"
	StateDone              State = "done"
	StateFailed            State = "failed"
)

// Request is one fare-estimate invocation. Hours applies to hourly trips
// only.
type Request struct {
	Pickup       string
	Drop         string
	VehicleClass fare.Class
	TripType     fare.TripType
	Hours        int
}

// Result carries the itemized fare plus the resolved endpoints.
// UsedFallback records that the router failed and great-circle metrics were
// substituted; the failure itself is never surfaced to the caller.
type Result struct {
	Fare         fare.Estimate        `json:"fare"`
	Pickup       geo.ResolvedLocation `json:"pickup"`
	Drop         geo.ResolvedLocation `json:"drop"`
	UsedFallback bool                 `json:"used_fallback"`
}
