// README: Tour handlers for destinations, routes, tours and photo descriptions.
package handlers

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"vista/internal/maps"
	"vista/internal/service"
)

type DestinationRecommender interface {
	Recommend(ctx context.Context, question string) ([]service.TravelDestination, error)
}

type RoutePlanner interface {
	PlanRoute(ctx context.Context, locations []string, optimizeWaypoints bool) (*maps.RouteResult, error)
}

type TourPlanner interface {
	PlanTour(ctx context.Context, question string, optimizeWaypoints bool) (*service.Tour, error)
}

type ImageDescriber interface {
	DescribeReader(ctx context.Context, r io.Reader, loc service.LocationHint) (string, error)
}

type TourHandler struct {
	recommender DestinationRecommender
	routes      RoutePlanner
	tours       TourPlanner
	describer   ImageDescriber
}

func NewTourHandler(recommender DestinationRecommender, routes RoutePlanner, tours TourPlanner, describer ImageDescriber) *TourHandler {
	return &TourHandler{
		recommender: recommender,
		routes:      routes,
		tours:       tours,
		describer:   describer,
	}
}

type questionReq struct {
	Question string `json:"question"`
	// OptimizeWaypoints defaults to true when omitted.
	OptimizeWaypoints *bool `json:"optimize_waypoints"`
}

type routeReq struct {
	Locations         []string `json:"locations"`
	OptimizeWaypoints *bool    `json:"optimize_waypoints"`
}

func optimize(v *bool) bool {
	return v == nil || *v
}

// Destinations handles POST /api/destinations.
func (h *TourHandler) Destinations(c *gin.Context) {
	var req questionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	question := strings.TrimSpace(req.Question)
	if question == "" {
		writeError(c, http.StatusBadRequest, "missing question")
		return
	}

	destinations, err := h.recommender.Recommend(c.Request.Context(), question)
	if err != nil {
		writeTourError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"destinations": destinations})
}

// Routes handles POST /api/routes.
func (h *TourHandler) Routes(c *gin.Context) {
	var req routeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	locations := make([]string, 0, len(req.Locations))
	for _, l := range req.Locations {
		if l = strings.TrimSpace(l); l != "" {
			locations = append(locations, l)
		}
	}

	route, err := h.routes.PlanRoute(c.Request.Context(), locations, optimize(req.OptimizeWaypoints))
	if err != nil {
		writeTourError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, route)
}

// Tours handles POST /api/tours.
func (h *TourHandler) Tours(c *gin.Context) {
	var req questionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	question := strings.TrimSpace(req.Question)
	if question == "" {
		writeError(c, http.StatusBadRequest, "missing question")
		return
	}

	tour, err := h.tours.PlanTour(c.Request.Context(), question, optimize(req.OptimizeWaypoints))
	if err != nil {
		writeTourError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, tour)
}

// Descriptions handles POST /api/descriptions (multipart: image, lat, lng, address, landmark).
func (h *TourHandler) Descriptions(c *gin.Context) {
	header, err := c.FormFile("image")
	if err != nil {
		writeError(c, http.StatusBadRequest, "missing image")
		return
	}
	lat, err := strconv.ParseFloat(c.PostForm("lat"), 64)
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid lat")
		return
	}
	lng, err := strconv.ParseFloat(c.PostForm("lng"), 64)
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid lng")
		return
	}

	file, err := header.Open()
	if err != nil {
		writeError(c, http.StatusBadRequest, "unreadable image")
		return
	}
	defer file.Close()

	description, err := h.describer.DescribeReader(c.Request.Context(), file, service.LocationHint{
		Latitude:  lat,
		Longitude: lng,
		Address:   strings.TrimSpace(c.PostForm("address")),
		Landmark:  strings.TrimSpace(c.PostForm("landmark")),
	})
	if err != nil {
		writeTourError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"description": description})
}
