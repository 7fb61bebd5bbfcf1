// README: Per-client generation quota middleware.
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vista/internal/modules/aiusage"
)

const (
	ClientIDHeader       = "X-Client-ID"
	QuotaRemainingHeader = "X-Quota-Remaining"
)

// QuotaMeter consumes one generation token for a client.
type QuotaMeter interface {
	UseToken(ctx context.Context, clientID string) (int, error)
}

// Quota charges one token per request to the client named in X-Client-ID.
func Quota(meter QuotaMeter, logger *zap.Logger) gin.HandlerFunc {
	logger = logger.Named("quota")
	return func(c *gin.Context) {
		clientID := strings.TrimSpace(c.GetHeader(ClientIDHeader))
		if clientID == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "missing " + ClientIDHeader + " header"})
			return
		}

		remaining, err := meter.UseToken(c.Request.Context(), clientID)
		switch {
		case errors.Is(err, aiusage.ErrInsufficientTokens):
			c.Header(QuotaRemainingHeader, "0")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
			return
		case err != nil:
			logger.Error("quota check failed", zap.String("client_id", clientID), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.Header(QuotaRemainingHeader, strconv.Itoa(remaining))
		c.Next()
	}
}
