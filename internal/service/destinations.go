package service

import (
	"encoding/json"
	"fmt"
	"regexp"

	"vista/internal/ai"
)

// jsonArrayPattern spans from the first '[' to the last ']'.
var jsonArrayPattern = regexp.MustCompile(`(?s)\[.*\]`)

// requiredFields are the keys every destination object must carry.
var requiredFields = []string{"name", "description", "recommended_duration", "best_time_to_visit", "highlights"}

// ParseDestinations decodes the generated content into destinations, keeping
// source order. Content is parsed as JSON first; only when it is not valid
// JSON is the bracketed array embedded in it parsed instead. Valid JSON that
// is not an array is malformed.
func ParseDestinations(content string) ([]TravelDestination, error) {
	var items []map[string]json.RawMessage
	cleaned := []byte(ai.CleanJSONString(content))
	if json.Valid(cleaned) {
		if err := json.Unmarshal(cleaned, &items); err != nil {
			return nil, fmt.Errorf("%w: %w", ai.ErrMalformedResponse, err)
		}
		if items == nil {
			return nil, fmt.Errorf("%w: content is not a JSON array", ai.ErrMalformedResponse)
		}
	} else {
		match := jsonArrayPattern.FindString(content)
		if match == "" {
			return nil, fmt.Errorf("%w: could not extract JSON from response", ai.ErrMalformedResponse)
		}
		if err := json.Unmarshal([]byte(match), &items); err != nil {
			return nil, fmt.Errorf("%w: %w", ai.ErrMalformedResponse, err)
		}
	}

	destinations := make([]TravelDestination, 0, len(items))
	for i, item := range items {
		d, err := decodeDestination(item)
		if err != nil {
			return nil, fmt.Errorf("destination %d: %w", i, err)
		}
		destinations = append(destinations, d)
	}
	return destinations, nil
}

func decodeDestination(item map[string]json.RawMessage) (TravelDestination, error) {
	for _, key := range requiredFields {
		raw, ok := item[key]
		if !ok || string(raw) == "null" {
			return TravelDestination{}, fmt.Errorf("%w: missing %q", ErrSchemaViolation, key)
		}
	}

	var d TravelDestination
	targets := map[string]any{
		"name":                 &d.Name,
		"description":          &d.Description,
		"recommended_duration": &d.RecommendedDuration,
		"best_time_to_visit":   &d.BestTimeToVisit,
		"highlights":           &d.Highlights,
	}
	for _, key := range requiredFields {
		if err := json.Unmarshal(item[key], targets[key]); err != nil {
			return TravelDestination{}, fmt.Errorf("%w: field %q: %w", ErrSchemaViolation, key, err)
		}
	}
	return d, nil
}
