package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"vista/internal/ai"
)

// recommendOptions are the generation parameters for destination lists.
var recommendOptions = ai.TextOptions{
	MaxTokens:    1500,
	Temperature:  0.7,
	ResultFormat: ai.ResultFormatJSON,
}

// TravelPlanner turns a travel question into recommended destinations.
type TravelPlanner struct {
	generator ai.TextGenerator
	logger    *zap.Logger
}

// NewTravelPlanner creates a TravelPlanner backed by the given generator.
func NewTravelPlanner(generator ai.TextGenerator, logger *zap.Logger) *TravelPlanner {
	return &TravelPlanner{generator: generator, logger: logger.Named("travel-planner")}
}

// Recommend asks the generation service for 3-5 destinations answering question.
func (p *TravelPlanner) Recommend(ctx context.Context, question string) ([]TravelDestination, error) {
	prompt := buildTravelPrompt(question)
	p.logger.Debug("requesting destinations", zap.String("question", question))

	content, err := p.generator.CompleteText(ctx, prompt, recommendOptions)
	if err != nil {
		p.logger.Error("generation failed", zap.Error(err))
		return nil, fmt.Errorf("recommend destinations: %w", err)
	}
	p.logger.Debug("generated content", zap.String("content", content))

	destinations, err := ParseDestinations(content)
	if err != nil {
		p.logger.Error("failed to extract destinations", zap.Error(err), zap.String("content", content))
		return nil, fmt.Errorf("failed to extract destinations from response: %w", err)
	}

	p.logger.Info("destinations recommended", zap.Strings("names", Names(destinations)))
	return destinations, nil
}

// buildTravelPrompt constructs the instructions for the recommendation.
func buildTravelPrompt(question string) string {
	return fmt.Sprintf(`You are VISTA, an expert travel planner. Based on the following question, suggest 3-5 specific locations/buildings that would be perfect for the user's needs.

User Question: %s

Keep it simple - I only need the location names with minimal information. For each location, provide:
1. Name of the location/building
2. A very brief description (1 sentence only)
3. Duration (keep it simple like "30 minutes")
4. When to visit (keep it simple like "anytime" or "weekdays")
5. Just 2-3 brief highlights

Format the response as a JSON array with the following structure:
[
    {
        "name": "Location Name",
        "description": "One brief sentence",
        "recommended_duration": "30 minutes",
        "best_time_to_visit": "anytime",
        "highlights": ["Brief point 1", "Brief point 2"]
    }
]

Keep everything concise - I mainly just need the location names.`, question)
}
