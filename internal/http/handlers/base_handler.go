// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"vista/internal/ai"
	"vista/internal/maps"
	"vista/internal/service"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

// statusFor maps a domain error to the response status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, maps.ErrInsufficientLocations),
		errors.Is(err, service.ErrImageProcessing):
		return http.StatusBadRequest
	case errors.Is(err, maps.ErrNoRouteFound),
		errors.Is(err, maps.ErrLocationNotFound):
		return http.StatusNotFound
	case errors.Is(err, ai.ErrNetwork),
		errors.Is(err, maps.ErrNetwork),
		errors.Is(err, ai.ErrResponseShape),
		errors.Is(err, ai.ErrMalformedResponse),
		errors.Is(err, ai.ErrEmptyResponse),
		errors.Is(err, service.ErrSchemaViolation):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeTourError(c *gin.Context, err error) {
	status := statusFor(err)
	_ = c.Error(err)
	if status == http.StatusInternalServerError {
		writeError(c, status, "internal error")
		return
	}
	writeError(c, status, err.Error())
}
