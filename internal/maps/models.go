package maps

import (
	"errors"

	"googlemaps.github.io/maps"
)

var (
	// ErrInsufficientLocations is returned when fewer than two locations are given.
	ErrInsufficientLocations = errors.New("need at least 2 locations to calculate a route")
	// ErrNoRouteFound is returned when the directions service yields no usable route.
	ErrNoRouteFound = errors.New("no route found")
	// ErrLocationNotFound is returned when geocoding yields no result.
	ErrLocationNotFound = errors.New("could not geocode location")
	// ErrNetwork wraps transport, timeout and API failures from the mapping service.
	ErrNetwork = errors.New("maps service request failed")
)

// RouteSummary is the human-readable digest of a walking route.
type RouteSummary struct {
	StartAddress string `json:"start_address"`
	EndAddress   string `json:"end_address"`

	// Distance and Duration are formatted from the leg totals below.
	Distance string `json:"distance"`
	Duration string `json:"duration"`

	DistanceMeters  int `json:"distance_meters"`
	DurationSeconds int `json:"duration_seconds"`

	Steps []string `json:"steps"`
}

// RouteResult bundles the summary, a shareable link, and the raw route
// for callers needing fields the summary does not cover.
type RouteResult struct {
	Summary RouteSummary `json:"summary"`
	MapsURL string       `json:"maps_url"`
	Raw     maps.Route   `json:"raw"`
}

// Coordinates is a geocoded point.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
