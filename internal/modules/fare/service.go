// README: Fare rule engine; pure tiered pricing over the vehicle catalog.
package fare

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrUnknownVehicleClass means the requested class has no catalog entry.
// This is a data mismatch between what the UI offers and what the engine
// knows, and is fatal to the estimate.
var ErrUnknownVehicleClass = errors.New("unknown vehicle class")

const (
	nightChargeAmount  = 50
	nightStartHour     = 22
	nightEndHour       = 6
	tollSlabKm         = 50
	tollSlabCharge     = 50
	tollMinDistanceKm  = 100
	waitingSlabMinutes = 15
	waitingSlabCharge  = 10
	minHours           = 1
	maxHours           = 24
)

// Service computes itemized fares. The clock is injected because night
// charges depend on the wall-clock hour at estimate time: the same route
// legitimately prices differently at 14:00 and 23:00.
type Service struct {
	catalog *Catalog
	now     func() time.Time
}

func NewService(catalog *Catalog) *Service {
	return &Service{catalog: catalog, now: time.Now}
}

func NewServiceWithClock(catalog *Catalog, now func() time.Time) *Service {
	return &Service{catalog: catalog, now: now}
}

// Compute maps {vehicle class, trip type, distance, duration, hours} to an
// itemized estimate. Hours apply only to hourly trips and are clamped to
// [1,24], defaulting to 1. Waiting charges are always derived from the
// route (or fallback) duration, hourly trips included.
func (s *Service) Compute(class Class, trip TripType, distanceKm, durationMin float64, hours int) (Estimate, error) {
	vehicle, ok := s.catalog.Get(class)
	if !ok {
		return Estimate{}, fmt.Errorf("%w: %q", ErrUnknownVehicleClass, class)
	}

	if hours < minHours {
		hours = minHours
	} else if hours > maxHours {
		hours = maxHours
	}

	var distanceFare, timeFare int64
	if trip == TripHourly {
		timeFare = roundMoney(vehicle.PerHourRate * float64(hours))
	} else {
		distanceFare = roundMoney(vehicle.PerKmRate * distanceKm)
	}

	var tollCharges int64
	if trip == TripOutstation && distanceKm > tollMinDistanceKm {
		tollCharges = int64(math.Floor(distanceKm/tollSlabKm)) * tollSlabCharge
	}

	var nightCharges int64
	if hour := s.now().Hour(); hour >= nightStartHour || hour <= nightEndHour {
		nightCharges = nightChargeAmount
	}

	waitingCharges := int64(math.Floor(durationMin/waitingSlabMinutes)) * waitingSlabCharge

	baseFare := roundMoney(vehicle.BaseFare)
	totalFare := baseFare + distanceFare + timeFare + tollCharges + nightCharges + waitingCharges

	return Estimate{
		DistanceKm:      round2(distanceKm),
		DurationMinutes: round2(durationMin),
		BaseFare:        baseFare,
		DistanceFare:    distanceFare,
		TimeFare:        timeFare,
		TollCharges:     tollCharges,
		NightCharges:    nightCharges,
		WaitingCharges:  waitingCharges,
		TotalFare:       totalFare,
		VehicleClass:    class,
		TripType:        trip,
	}, nil
}

func roundMoney(v float64) int64 {
	return int64(math.Round(v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
