// README: Vehicle class definitions and the itemized fare estimate.
package fare

// Class identifies a vehicle pricing tier.
type Class string

const (
	ClassHatchback Class = "hatchback"
	ClassSedan     Class = "sedan"
	ClassSUV       Class = "suv"
	ClassLuxury    Class = "luxury"
)

// TripType selects the pricing mode: local and outstation are
// distance-rated, hourly is time-rated.
type TripType string

const (
	TripLocal      TripType = "local"
	TripOutstation TripType = "outstation"
	TripHourly     TripType = "hourly"
)

func (t TripType) Valid() bool {
	switch t {
	case TripLocal, TripOutstation, TripHourly:
		return true
	}
	return false
}

// VehicleClass carries the immutable pricing attributes of a tier. The
// catalog is static reference data and never mutated at runtime.
type VehicleClass struct {
	Class        Class   `json:"class"`
	Name         string  `json:"name"`
	BaseFare     float64 `json:"base_fare"`
	PerKmRate    float64 `json:"per_km_rate"`
	PerHourRate  float64 `json:"per_hour_rate"`
	SeatCapacity int     `json:"seat_capacity"`
}

// Estimate is an itemized fare. Currency fields are whole units rounded to
// the nearest integer; distance and duration are rounded to two decimals.
// TotalFare is always the sum of the rounded components.
type Estimate struct {
	DistanceKm      float64  `json:"distance_km"`
	DurationMinutes float64  `json:"duration_minutes"`
	BaseFare        int64    `json:"base_fare"`
	DistanceFare    int64    `json:"distance_fare"`
	TimeFare        int64    `json:"time_fare"`
	TollCharges     int64    `json:"toll_charges"`
	NightCharges    int64    `json:"night_charges"`
	WaitingCharges  int64    `json:"waiting_charges"`
	TotalFare       int64    `json:"total_fare"`
	VehicleClass    Class    `json:"vehicle_class"`
	TripType        TripType `json:"trip_type"`
}

// defaultClasses is the reference pricing table.
var defaultClasses = []VehicleClass{
	{Class: ClassHatchback, Name: "Hatchback", BaseFare: 10, PerKmRate: 12, PerHourRate: 100, SeatCapacity: 4},
	{Class: ClassSedan, Name: "Sedan", BaseFare: 15, PerKmRate: 15, PerHourRate: 120, SeatCapacity: 4},
	{Class: ClassSUV, Name: "SUV", BaseFare: 20, PerKmRate: 18, PerHourRate: 150, SeatCapacity: 6},
	{Class: ClassLuxury, Name: "Luxury", BaseFare: 30, PerKmRate: 25, PerHourRate: 200, SeatCapacity: 4},
}

// Catalog is a lookup of vehicle classes, keyed by Class.
type Catalog struct {
	ordered []VehicleClass
	byClass map[Class]VehicleClass
}

func NewCatalog(classes []VehicleClass) *Catalog {
	c := &Catalog{
		ordered: classes,
		byClass: make(map[Class]VehicleClass, len(classes)),
	}
	for _, v := range classes {
		c.byClass[v.Class] = v
	}
	return c
}

// DefaultCatalog returns the built-in pricing table.
func DefaultCatalog() *Catalog {
	return NewCatalog(defaultClasses)
}

func (c *Catalog) Get(class Class) (VehicleClass, bool) {
	v, ok := c.byClass[class]
	return v, ok
}

func (c *Catalog) List() []VehicleClass {
	out := make([]VehicleClass, len(c.ordered))
	copy(out, c.ordered)
	return out
}
