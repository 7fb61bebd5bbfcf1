package maps

import (
	"fmt"
	"strings"
	"time"

	"googlemaps.github.io/maps"
)

const mapsDirURL = "https://www.google.com/maps/dir/"

// instructionMarkup lists the tokens stripped from step instructions, in order.
var instructionMarkup = strings.NewReplacer(
	"<b>", "",
	"</b>", "",
	`<div style="font-size:0.9em">`, " - ",
	"</div>", "",
)

// summarizeRoute totals every leg of route and flattens its steps.
func summarizeRoute(route maps.Route) (RouteSummary, error) {
	if len(route.Legs) == 0 {
		return RouteSummary{}, fmt.Errorf("%w: route has no legs", ErrNoRouteFound)
	}

	var meters, seconds int
	var steps []string
	for _, leg := range route.Legs {
		if leg == nil {
			continue
		}
		meters += leg.Distance.Meters
		seconds += int(leg.Duration / time.Second)
		for _, step := range leg.Steps {
			if step == nil {
				continue
			}
			steps = append(steps, cleanInstruction(step.HTMLInstructions))
		}
	}

	first, last := route.Legs[0], route.Legs[len(route.Legs)-1]
	summary := RouteSummary{
		DistanceMeters:  meters,
		DurationSeconds: seconds,
		Distance:        formatDistance(meters),
		Duration:        formatDuration(seconds),
		Steps:           steps,
	}
	if first != nil {
		summary.StartAddress = first.StartAddress
	}
	if last != nil {
		summary.EndAddress = last.EndAddress
	}
	return summary, nil
}

// formatDistance renders meters as "1.50 km" from 1000 m upwards, else "500 m".
func formatDistance(meters int) string {
	if meters >= 1000 {
		return fmt.Sprintf("%.2f km", float64(meters)/1000)
	}
	return fmt.Sprintf("%d m", meters)
}

// formatDuration renders seconds as "2 min 5 sec".
func formatDuration(seconds int) string {
	return fmt.Sprintf("%d min %d sec", seconds/60, seconds%60)
}

// cleanInstruction strips the known directions markup. Anything else passes through.
func cleanInstruction(html string) string {
	return instructionMarkup.Replace(html)
}

// RouteURL builds a Google Maps directions link through locations in order.
// Only spaces and commas are escaped.
func RouteURL(locations []string) string {
	encoded := make([]string, 0, len(locations))
	for _, loc := range locations {
		loc = strings.ReplaceAll(loc, " ", "+")
		loc = strings.ReplaceAll(loc, ",", "%2C")
		encoded = append(encoded, loc)
	}
	return mapsDirURL + strings.Join(encoded, "/")
}
