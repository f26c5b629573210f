package handler

import (
	"log/slog"
	"net/http"
	"time"

	"tourneyrecap/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const SessionCookie = "recap_session"

// sessionID returns the caller's session id, issuing a new cookie when the
// request has none or an invalid one.
func sessionID(c *gin.Context, ttl time.Duration) string {
	if id, err := c.Cookie(SessionCookie); err == nil {
		if _, err := uuid.Parse(id); err == nil {
			return id
		}
	}

	id := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, id, int(ttl.Seconds()), "/", "", c.Request.TLS != nil, true)
	return id
}

// loadFlow writes the error response itself and returns ok=false when the
// store fails.
func loadFlow(c *gin.Context, store session.Store, ttl time.Duration) (string, *session.Flow, bool) {
	id := sessionID(c, ttl)
	flow, err := store.Load(c.Request.Context(), id)
	if err != nil {
		slog.Error("error loading session", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Session store error"})
		return "", nil, false
	}
	return id, flow, true
}

func saveFlow(c *gin.Context, store session.Store, id string, flow *session.Flow) bool {
	if err := store.Save(c.Request.Context(), id, flow); err != nil {
		slog.Error("error saving session", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Session store error"})
		return false
	}
	return true
}
