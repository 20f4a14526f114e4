// README: Default geo provider backed by Nominatim search and OSRM routing.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"cabfare/internal/types"
)

const osmUserAgent = "cabfare/1.0"

// OSMService resolves addresses via Nominatim and routes via OSRM. Both are
// plain REST endpoints; no retries are attempted here, and the only timeout
// is whatever the injected http.Client enforces.
type OSMService struct {
	client        *http.Client
	nominatimBase string
	osrmBase      string
}

func NewOSMService(nominatimBase, osrmBase string, client *http.Client) *OSMService {
	if client == nil {
		client = http.DefaultClient
	}
	return &OSMService{
		client:        client,
		nominatimBase: nominatimBase,
		osrmBase:      osrmBase,
	}
}

type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

func (s *OSMService) Geocode(ctx context.Context, address string) (ResolvedLocation, error) {
	u := fmt.Sprintf("%s/search?format=json&limit=1&q=%s", s.nominatimBase, url.QueryEscape(address))
	var results []nominatimResult
	if err := s.getJSON(ctx, u, &results); err != nil {
		return ResolvedLocation{}, &GeocodeError{Query: address, Reason: err.Error()}
	}
	if len(results) == 0 {
		return ResolvedLocation{}, &GeocodeError{Query: address, Reason: "no results"}
	}

	r := results[0]
	lat, latErr := strconv.ParseFloat(r.Lat, 64)
	lng, lngErr := strconv.ParseFloat(r.Lon, 64)
	if latErr != nil || lngErr != nil {
		return ResolvedLocation{}, &GeocodeError{Query: address, Reason: "malformed coordinate"}
	}

	p := types.Point{Lat: lat, Lng: lng}
	if reason := CheckCoordinate(p); reason != "" {
		return ResolvedLocation{}, &GeocodeError{Query: address, Reason: reason}
	}
	return ResolvedLocation{Coordinate: p, DisplayAddress: r.DisplayName}, nil
}

type osrmResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64 `json:"distance"` // meters
		Duration float64 `json:"duration"` // seconds
	} `json:"routes"`
}

func (s *OSMService) Route(ctx context.Context, origin, dest types.Point) (RouteMetrics, error) {
	u := fmt.Sprintf("%s/route/v1/driving/%f,%f;%f,%f?overview=false&alternatives=false&steps=false",
		s.osrmBase, origin.Lng, origin.Lat, dest.Lng, dest.Lat)

	var resp osrmResponse
	if err := s.getJSON(ctx, u, &resp); err != nil {
		return RouteMetrics{}, &RouteError{Reason: "osrm request failed", Err: err}
	}
	if resp.Code != "Ok" || len(resp.Routes) == 0 {
		return RouteMetrics{}, &RouteError{Reason: "no route found"}
	}

	r := resp.Routes[0]
	return RouteMetrics{
		DistanceKm:      r.Distance / 1000,
		DurationMinutes: r.Duration / 60,
	}, nil
}

func (s *OSMService) Suggest(ctx context.Context, input string) ([]PlacePrediction, error) {
	u := fmt.Sprintf("%s/search?format=json&addressdetails=1&limit=5&q=%s", s.nominatimBase, url.QueryEscape(input))
	var results []nominatimResult
	if err := s.getJSON(ctx, u, &results); err != nil {
		return nil, &GeocodeError{Query: input, Reason: err.Error()}
	}

	var predictions []PlacePrediction
	for _, r := range results {
		lat, latErr := strconv.ParseFloat(r.Lat, 64)
		lng, lngErr := strconv.ParseFloat(r.Lon, 64)
		if latErr != nil || lngErr != nil {
			continue
		}
		p := types.Point{Lat: lat, Lng: lng}
		if CheckCoordinate(p) != "" {
			continue
		}
		predictions = append(predictions, PlacePrediction{
			Description: r.DisplayName,
			Coordinate:  p,
		})
	}
	return predictions, nil
}

func (s *OSMService) getJSON(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept-Language", "en")
	req.Header.Set("User-Agent", osmUserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
