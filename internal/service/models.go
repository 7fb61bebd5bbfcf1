package service

import (
	"errors"

	"vista/internal/maps"
)

var (
	// ErrSchemaViolation means a recommended destination lacks a required field.
	ErrSchemaViolation = errors.New("destination schema violation")
	// ErrImageProcessing wraps local image load, decode and encode failures.
	ErrImageProcessing = errors.New("error preprocessing image")
)

// TravelDestination is one recommended point of interest.
// Duration and best time are kept as free text.
type TravelDestination struct {
	Name                string   `json:"name"`
	Description         string   `json:"description"`
	RecommendedDuration string   `json:"recommended_duration"`
	BestTimeToVisit     string   `json:"best_time_to_visit"`
	Highlights          []string `json:"highlights"`
}

// LocationHint is where a photo was taken. Address and Landmark are optional.
type LocationHint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address,omitempty"`
	Landmark  string  `json:"landmark,omitempty"`
}

// Tour is a set of recommended destinations and the walking route through them.
type Tour struct {
	Destinations []TravelDestination `json:"destinations"`
	Route        *maps.RouteResult   `json:"route"`
}

// Names returns the destination names in order.
func Names(destinations []TravelDestination) []string {
	names := make([]string, 0, len(destinations))
	for _, d := range destinations {
		names = append(names, d.Name)
	}
	return names
}
