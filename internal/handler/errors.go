package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"tourneyrecap/internal/recap"
	"tourneyrecap/internal/session"
	"tourneyrecap/pkg/golfgenius"
	"tourneyrecap/pkg/llm"

	"github.com/gin-gonic/gin"
)

// writeError maps the error kinds of the recap flow onto status codes.
// action names what the user tried, e.g. "fetching seasons".
func writeError(c *gin.Context, action string, err error) {
	var (
		verr   *session.ValidationError
		merr   *recap.MalformedResultError
		perr   *golfgenius.ProviderRequestError
		genErr *llm.RecapGenerationError
	)

	switch {
	case errors.As(err, &verr):
		slog.Warn("rejected request", "action", action, "field", verr.Field, "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message, "field": verr.Field})
	case errors.As(err, &merr):
		slog.Error("malformed tournament result", "action", action, "error", err)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": fmt.Sprintf("Error %s: %v", action, merr)})
	case errors.As(err, &perr):
		slog.Error("results provider error", "action", action, "status", perr.StatusCode, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": fmt.Sprintf("Error %s: %v", action, perr)})
	case errors.As(err, &genErr):
		slog.Error("recap backend error", "action", action, "backend", genErr.Backend, "status", genErr.StatusCode, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": fmt.Sprintf("Error getting %s response: %v", genErr.Backend.DisplayName(), genErr.Err)})
	default:
		slog.Error("unexpected error", "action", action, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
	}
}
