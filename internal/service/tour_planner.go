package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"vista/internal/maps"
)

// Recommender produces destinations for a travel question.
type Recommender interface {
	Recommend(ctx context.Context, question string) ([]TravelDestination, error)
}

// RoutePlanner computes a walking route through named locations.
type RoutePlanner interface {
	PlanRoute(ctx context.Context, locations []string, optimizeWaypoints bool) (*maps.RouteResult, error)
}

// TourPlanner orchestrates destination recommendation and walking-route planning.
type TourPlanner struct {
	recommender Recommender
	routes      RoutePlanner
	logger      *zap.Logger
}

// NewTourPlanner creates a TourPlanner with initialized dependencies.
func NewTourPlanner(recommender Recommender, routes RoutePlanner, logger *zap.Logger) *TourPlanner {
	return &TourPlanner{
		recommender: recommender,
		routes:      routes,
		logger:      logger.Named("tour-planner"),
	}
}

// PlanTour recommends destinations for question and routes through them in
// the order they were recommended.
func (p *TourPlanner) PlanTour(ctx context.Context, question string, optimizeWaypoints bool) (*Tour, error) {
	// 1. Recommend destinations
	destinations, err := p.recommender.Recommend(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("plan tour: %w", err)
	}

	// 2. Route through them
	names := Names(destinations)
	p.logger.Info("planning route", zap.Strings("locations", names))

	route, err := p.routes.PlanRoute(ctx, names, optimizeWaypoints)
	if err != nil {
		p.logger.Error("route planning failed", zap.Error(err))
		return nil, fmt.Errorf("plan tour: %w", err)
	}

	return &Tour{Destinations: destinations, Route: route}, nil
}
