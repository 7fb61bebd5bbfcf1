package maps

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"googlemaps.github.io/maps"
)

// mapsClient is the subset of *maps.Client used by RouteService.
type mapsClient interface {
	Directions(ctx context.Context, r *maps.DirectionsRequest) ([]maps.Route, []maps.GeocodedWaypoint, error)
	Geocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
}

// RouteService handles interactions with Google Maps API.
type RouteService struct {
	client mapsClient
	logger *zap.Logger
}

// NewRouteService creates a new RouteService with the given API Key.
func NewRouteService(apiKey string, logger *zap.Logger, opts ...maps.ClientOption) (*RouteService, error) {
	if apiKey == "" {
		return nil, errors.New("maps: missing api key")
	}
	client, err := maps.NewClient(append([]maps.ClientOption{maps.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return newRouteService(client, logger), nil
}

func newRouteService(client mapsClient, logger *zap.Logger) *RouteService {
	return &RouteService{client: client, logger: logger.Named("routes")}
}

// PlanRoute computes a walking route from the first to the last location,
// visiting the interior ones as waypoints. When optimizeWaypoints is set the
// directions service may reorder them. The first returned route is used as is.
func (s *RouteService) PlanRoute(ctx context.Context, locations []string, optimizeWaypoints bool) (*RouteResult, error) {
	if len(locations) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrInsufficientLocations, len(locations))
	}

	origin := locations[0]
	destination := locations[len(locations)-1]
	waypoints := locations[1 : len(locations)-1]

	s.logger.Info("calculating route",
		zap.String("origin", origin),
		zap.String("destination", destination),
		zap.Strings("waypoints", waypoints),
	)

	r := &maps.DirectionsRequest{
		Origin:      origin,
		Destination: destination,
		Waypoints:   waypoints,
		Optimize:    optimizeWaypoints && len(waypoints) > 0,
		Mode:        maps.TravelModeWalking,
		Units:       maps.UnitsMetric,
	}

	routes, _, err := s.client.Directions(ctx, r)
	if err != nil {
		s.logger.Error("directions request failed", zap.Error(err))
		return nil, fmt.Errorf("%w: maps api error: %w", ErrNetwork, err)
	}
	if len(routes) == 0 {
		s.logger.Warn("no route found", zap.Strings("locations", locations))
		return nil, ErrNoRouteFound
	}

	route := routes[0]
	summary, err := summarizeRoute(route)
	if err != nil {
		s.logger.Error("failed to parse route", zap.Error(err))
		return nil, err
	}

	return &RouteResult{
		Summary: summary,
		MapsURL: RouteURL(locations),
		Raw:     route,
	}, nil
}

// Geocode resolves a location name to coordinates. When area is given the
// query "<name>, <area>" is tried first, then the bare name.
func (s *RouteService) Geocode(ctx context.Context, name, area string) (Coordinates, error) {
	queries := []string{name}
	if area != "" {
		queries = []string{fmt.Sprintf("%s, %s", name, area), name}
	}

	for _, q := range queries {
		results, err := s.client.Geocode(ctx, &maps.GeocodingRequest{Address: q})
		if err != nil {
			s.logger.Error("geocoding failed", zap.String("query", q), zap.Error(err))
			return Coordinates{}, fmt.Errorf("%w: maps api error: %w", ErrNetwork, err)
		}
		if len(results) > 0 {
			loc := results[0].Geometry.Location
			return Coordinates{Lat: loc.Lat, Lng: loc.Lng}, nil
		}
		s.logger.Debug("no geocoding result", zap.String("query", q))
	}
	return Coordinates{}, fmt.Errorf("%w: %s", ErrLocationNotFound, name)
}
