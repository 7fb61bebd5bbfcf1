package maps

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"googlemaps.github.io/maps"
)

// fakeMapsClient is a test double for the googlemaps client.
type fakeMapsClient struct {
	routes     []maps.Route
	err        error
	geocodes   map[string][]maps.GeocodingResult
	directions []*maps.DirectionsRequest
	queries    []string
}

func (f *fakeMapsClient) Directions(_ context.Context, r *maps.DirectionsRequest) ([]maps.Route, []maps.GeocodedWaypoint, error) {
	f.directions = append(f.directions, r)
	return f.routes, nil, f.err
}

func (f *fakeMapsClient) Geocode(_ context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error) {
	f.queries = append(f.queries, r.Address)
	if f.err != nil {
		return nil, f.err
	}
	return f.geocodes[r.Address], nil
}

func leg(start, end string, meters int, seconds int, steps ...string) *maps.Leg {
	l := &maps.Leg{
		StartAddress: start,
		EndAddress:   end,
		Distance:     maps.Distance{Meters: meters},
		Duration:     time.Duration(seconds) * time.Second,
	}
	for _, s := range steps {
		l.Steps = append(l.Steps, &maps.Step{HTMLInstructions: s})
	}
	return l
}

func TestPlanRoute_SumsLegs(t *testing.T) {
	fake := &fakeMapsClient{routes: []maps.Route{{
		Legs: []*maps.Leg{
			leg("College Hall", "Fisher Fine Arts Library", 1000, 100, "<b>Head</b> north"),
			leg("Fisher Fine Arts Library", "Huntsman Hall", 500, 25, "Turn <b>right</b>"),
		},
	}, {
		Legs: []*maps.Leg{leg("x", "y", 1, 1)},
	}}}
	svc := newRouteService(fake, zaptest.NewLogger(t))

	res, err := svc.PlanRoute(context.Background(), []string{"College Hall", "Fisher Fine Arts Library", "Huntsman Hall"}, true)
	require.NoError(t, err)

	assert.Equal(t, "1.50 km", res.Summary.Distance)
	assert.Equal(t, "2 min 5 sec", res.Summary.Duration)
	assert.Equal(t, 1500, res.Summary.DistanceMeters)
	assert.Equal(t, 125, res.Summary.DurationSeconds)
	assert.Equal(t, "College Hall", res.Summary.StartAddress)
	assert.Equal(t, "Huntsman Hall", res.Summary.EndAddress)
	assert.Equal(t, []string{"Head north", "Turn right"}, res.Summary.Steps)
	assert.Equal(t, "https://www.google.com/maps/dir/College+Hall/Fisher+Fine+Arts+Library/Huntsman+Hall", res.MapsURL)
	assert.Len(t, res.Raw.Legs, 2)

	require.Len(t, fake.directions, 1)
	req := fake.directions[0]
	assert.Equal(t, "College Hall", req.Origin)
	assert.Equal(t, "Huntsman Hall", req.Destination)
	assert.Equal(t, []string{"Fisher Fine Arts Library"}, req.Waypoints)
	assert.True(t, req.Optimize)
	assert.Equal(t, maps.TravelModeWalking, req.Mode)
	assert.Equal(t, maps.UnitsMetric, req.Units)
}

func TestPlanRoute_ShortDistanceInMeters(t *testing.T) {
	fake := &fakeMapsClient{routes: []maps.Route{{Legs: []*maps.Leg{leg("A", "B", 500, 59)}}}}
	svc := newRouteService(fake, zaptest.NewLogger(t))

	res, err := svc.PlanRoute(context.Background(), []string{"A", "B"}, false)
	require.NoError(t, err)
	assert.Equal(t, "500 m", res.Summary.Distance)
	assert.Equal(t, "0 min 59 sec", res.Summary.Duration)
	assert.Empty(t, fake.directions[0].Waypoints)
	assert.False(t, fake.directions[0].Optimize)
}

func TestPlanRoute_InsufficientLocations(t *testing.T) {
	for _, locs := range [][]string{nil, {"College Hall"}} {
		fake := &fakeMapsClient{}
		svc := newRouteService(fake, zaptest.NewLogger(t))

		_, err := svc.PlanRoute(context.Background(), locs, true)
		require.ErrorIs(t, err, ErrInsufficientLocations)
		assert.Empty(t, fake.directions, "no directions call expected")
	}
}

func TestPlanRoute_NoRoutes(t *testing.T) {
	svc := newRouteService(&fakeMapsClient{}, zaptest.NewLogger(t))
	_, err := svc.PlanRoute(context.Background(), []string{"A", "B"}, true)
	require.ErrorIs(t, err, ErrNoRouteFound)
}

func TestPlanRoute_RouteWithoutLegs(t *testing.T) {
	svc := newRouteService(&fakeMapsClient{routes: []maps.Route{{}}}, zaptest.NewLogger(t))
	_, err := svc.PlanRoute(context.Background(), []string{"A", "B"}, true)
	require.ErrorIs(t, err, ErrNoRouteFound)
}

func TestPlanRoute_ClientError(t *testing.T) {
	boom := errors.New("maps: REQUEST_DENIED - bad key")
	svc := newRouteService(&fakeMapsClient{err: boom}, zaptest.NewLogger(t))
	_, err := svc.PlanRoute(context.Background(), []string{"A", "B"}, true)
	require.ErrorIs(t, err, boom)
	assert.ErrorIs(t, err, ErrNetwork)
}

func TestTransportFailureIsNetworkError(t *testing.T) {
	dialErr := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
	svc := newRouteService(&fakeMapsClient{err: dialErr}, zaptest.NewLogger(t))

	_, err := svc.PlanRoute(context.Background(), []string{"College Hall", "Houston Hall"}, true)
	require.ErrorIs(t, err, ErrNetwork)
	assert.ErrorIs(t, err, dialErr)
	assert.NotErrorIs(t, err, ErrNoRouteFound)

	_, err = svc.Geocode(context.Background(), "Houston Hall", "Philadelphia")
	require.ErrorIs(t, err, ErrNetwork)
	assert.NotErrorIs(t, err, ErrLocationNotFound)
}

func TestFormatDistanceAndDuration(t *testing.T) {
	assert.Equal(t, "999 m", formatDistance(999))
	assert.Equal(t, "1.00 km", formatDistance(1000))
	assert.Equal(t, "12.34 km", formatDistance(12340))
	assert.Equal(t, "0 min 0 sec", formatDuration(0))
	assert.Equal(t, "61 min 1 sec", formatDuration(3661))
}

func TestCleanInstruction(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`<b>Turn left</b><div style="font-size:0.9em">onto Main St</div>`, "Turn left - onto Main St"},
		{`Head <b>east</b> on <b>Walnut St</b>`, "Head east on Walnut St"},
		{`Cross <span>here</span>`, "Cross <span>here</span>"},
		{`<div style="color:red">Careful</div>`, `<div style="color:red">Careful`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cleanInstruction(tt.in))
	}
}

func TestRouteURL(t *testing.T) {
	got := RouteURL([]string{"Van Pelt Library", "3730 Walnut St, Philadelphia"})
	assert.Equal(t, "https://www.google.com/maps/dir/Van+Pelt+Library/3730+Walnut+St%2C+Philadelphia", got)
}

func TestGeocode_FallsBackToBareName(t *testing.T) {
	fake := &fakeMapsClient{geocodes: map[string][]maps.GeocodingResult{
		"Houston Hall": {{Geometry: maps.AddressGeometry{Location: maps.LatLng{Lat: 39.9509, Lng: -75.1936}}}},
	}}
	svc := newRouteService(fake, zaptest.NewLogger(t))

	got, err := svc.Geocode(context.Background(), "Houston Hall", "University of Pennsylvania, Philadelphia, PA")
	require.NoError(t, err)
	assert.Equal(t, Coordinates{Lat: 39.9509, Lng: -75.1936}, got)
	assert.Equal(t, []string{"Houston Hall, University of Pennsylvania, Philadelphia, PA", "Houston Hall"}, fake.queries)
}

func TestGeocode_NotFound(t *testing.T) {
	svc := newRouteService(&fakeMapsClient{}, zaptest.NewLogger(t))
	_, err := svc.Geocode(context.Background(), "Nowhere", "")
	require.ErrorIs(t, err, ErrLocationNotFound)
}

// TestPlanRoute_GoogleMapsClient runs the real client against a fake Directions API.
func TestPlanRoute_GoogleMapsClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/maps/api/directions/json", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "walking", q.Get("mode"))
		assert.Equal(t, "metric", q.Get("units"))
		assert.Equal(t, "optimize:true|B", q.Get("waypoints"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": "OK",
			"routes": [{
				"summary": "Locust Walk",
				"legs": [
					{"start_address": "A St", "end_address": "B St",
					 "distance": {"value": 1200, "text": "1.2 km"}, "duration": {"value": 900, "text": "15 mins"},
					 "steps": [{"html_instructions": "<b>Head</b> west", "distance": {"value": 1200}, "duration": {"value": 900}}]},
					{"start_address": "B St", "end_address": "C St",
					 "distance": {"value": 300, "text": "0.3 km"}, "duration": {"value": 240, "text": "4 mins"},
					 "steps": [{"html_instructions": "Arrive", "distance": {"value": 300}, "duration": {"value": 240}}]}
				]
			}]
		}`))
	}))
	defer srv.Close()

	svc, err := NewRouteService("test-key", zaptest.NewLogger(t), maps.WithBaseURL(srv.URL))
	require.NoError(t, err)

	res, err := svc.PlanRoute(context.Background(), []string{"A", "B", "C"}, true)
	require.NoError(t, err)
	assert.Equal(t, "1.50 km", res.Summary.Distance)
	assert.Equal(t, "19 min 0 sec", res.Summary.Duration)
	assert.Equal(t, "A St", res.Summary.StartAddress)
	assert.Equal(t, "C St", res.Summary.EndAddress)
	assert.Equal(t, []string{"Head west", "Arrive"}, res.Summary.Steps)
	assert.Equal(t, "Locust Walk", res.Raw.Summary)
}

func TestNewRouteService_RequiresKey(t *testing.T) {
	_, err := NewRouteService("", zaptest.NewLogger(t))
	require.Error(t, err)
}
