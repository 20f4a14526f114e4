package ai

// TripIntent is the structured output of the model for one user message.
type TripIntent struct {
	// Pickup and Drop are free-text place names, ready for geocoding.
	// Nil when the user did not supply them.
	Pickup *string `json:"pickup,omitempty"`
	Drop   *string `json:"drop,omitempty"`

	// VehicleClass is one of hatchback, sedan, suv, luxury, or empty when
	// the user expressed no preference.
	VehicleClass string `json:"vehicle_class,omitempty"`

	// TripType is local, outstation or hourly.
	TripType string `json:"trip_type,omitempty"`

	// Hours applies only to hourly rentals.
	Hours int `json:"hours,omitempty"`

	// NeedsClarification is true when the message is missing a required
	// detail; Reply then carries the follow-up question.
	NeedsClarification bool `json:"needs_clarification"`

	// Reply is a short response to show the user.
	Reply string `json:"reply"`
}
