// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vista/internal/http/handlers"
	"vista/internal/http/middleware"
)

type RouterDeps struct {
	Recommender handlers.DestinationRecommender
	Routes      handlers.RoutePlanner
	Tours       handlers.TourPlanner
	Describer   handlers.ImageDescriber

	// Quota meters the generation-backed routes; nil disables metering.
	Quota middleware.QuotaMeter

	Logger *zap.Logger
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery(deps.Logger), middleware.Logging(deps.Logger))

	h := handlers.NewTourHandler(deps.Recommender, deps.Routes, deps.Tours, deps.Describer)

	api := r.Group("/api")
	api.POST("/routes", h.Routes)

	generation := api.Group("")
	if deps.Quota != nil {
		generation.Use(middleware.Quota(deps.Quota, deps.Logger))
	}
	generation.POST("/destinations", h.Destinations)
	generation.POST("/tours", h.Tours)
	generation.POST("/descriptions", h.Descriptions)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	return r
}
