// README: Alternative geo provider backed by the Google Maps APIs.
package geo

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"

	"cabfare/internal/types"
)

// GoogleService implements Geocoder, Router and Suggester on top of the
// Google Geocoding, Directions and Places APIs.
type GoogleService struct {
	client *maps.Client
}

// NewGoogleService creates a GoogleService with the given API key.
func NewGoogleService(apiKey string) (*GoogleService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &GoogleService{client: client}, nil
}

func (s *GoogleService) Geocode(ctx context.Context, address string) (ResolvedLocation, error) {
	results, err := s.client.Geocode(ctx, &maps.GeocodingRequest{Address: address})
	if err != nil {
		return ResolvedLocation{}, &GeocodeError{Query: address, Reason: err.Error()}
	}
	if len(results) == 0 {
		return ResolvedLocation{}, &GeocodeError{Query: address, Reason: "no results"}
	}

	loc := results[0].Geometry.Location
	p := types.Point{Lat: loc.Lat, Lng: loc.Lng}
	if reason := CheckCoordinate(p); reason != "" {
		return ResolvedLocation{}, &GeocodeError{Query: address, Reason: reason}
	}
	return ResolvedLocation{Coordinate: p, DisplayAddress: results[0].FormattedAddress}, nil
}

func (s *GoogleService) Route(ctx context.Context, origin, dest types.Point) (RouteMetrics, error) {
	r := &maps.DirectionsRequest{
		Origin:      fmt.Sprintf("%f,%f", origin.Lat, origin.Lng),
		Destination: fmt.Sprintf("%f,%f", dest.Lat, dest.Lng),
		Mode:        maps.TravelModeDriving,
		Units:       maps.UnitsMetric,
	}

	routes, _, err := s.client.Directions(ctx, r)
	if err != nil {
		return RouteMetrics{}, &RouteError{Reason: "directions request failed", Err: err}
	}
	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return RouteMetrics{}, &RouteError{Reason: "no route found"}
	}

	leg := routes[0].Legs[0]
	return RouteMetrics{
		DistanceKm:      float64(leg.Distance.Meters) / 1000,
		DurationMinutes: leg.Duration.Minutes(),
	}, nil
}

func (s *GoogleService) Suggest(ctx context.Context, input string) ([]PlacePrediction, error) {
	resp, err := s.client.TextSearch(ctx, &maps.TextSearchRequest{Query: input})
	if err != nil {
		return nil, &GeocodeError{Query: input, Reason: err.Error()}
	}

	var predictions []PlacePrediction
	for _, result := range resp.Results {
		p := types.Point{Lat: result.Geometry.Location.Lat, Lng: result.Geometry.Location.Lng}
		if CheckCoordinate(p) != "" {
			continue
		}
		predictions = append(predictions, PlacePrediction{
			Description: result.FormattedAddress,
			Coordinate:  p,
		})
		if len(predictions) >= 5 {
			break
		}
	}
	return predictions, nil
}
