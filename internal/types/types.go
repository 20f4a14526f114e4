// README: Common value types shared across modules.
package types

// Point is a WGS84 coordinate pair in decimal degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Money is an integer amount in whole currency units.
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}
