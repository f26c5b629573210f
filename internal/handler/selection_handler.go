package handler

import (
	"net/http"
	"time"

	"tourneyrecap/internal/render"
	"tourneyrecap/internal/session"
	"tourneyrecap/pkg/golfgenius"

	"github.com/gin-gonic/gin"
)

type SelectionHandler struct {
	sessions   session.Store
	results    golfgenius.ResultsClient
	renderer   *render.Renderer
	sessionTTL time.Duration
}

func NewSelectionHandler(sessions session.Store, results golfgenius.ResultsClient, renderer *render.Renderer, sessionTTL time.Duration) *SelectionHandler {
	return &SelectionHandler{
		sessions:   sessions,
		results:    results,
		renderer:   renderer,
		sessionTTL: sessionTTL,
	}
}

func (h *SelectionHandler) GetSession(c *gin.Context) {
	_, flow, ok := loadFlow(c, h.sessions, h.sessionTTL)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toSessionResponse(flow, h.renderer))
}

func (h *SelectionHandler) ResetSession(c *gin.Context) {
	id := sessionID(c, h.sessionTTL)
	if err := h.sessions.Delete(c.Request.Context(), id); err != nil {
		writeError(c, "resetting the session", err)
		return
	}
	c.JSON(http.StatusOK, toSessionResponse(session.NewFlow(), h.renderer))
}

func (h *SelectionHandler) FetchOptions(c *gin.Context) {
	step, err := session.ParseStep(c.Param("stage"))
	if err != nil {
		writeError(c, "fetching options", err)
		return
	}

	var req FetchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	id, flow, ok := loadFlow(c, h.sessions, h.sessionTTL)
	if !ok {
		return
	}

	if err := flow.Fetch(c.Request.Context(), h.results, step, req.GolfAPIKey); err != nil {
		writeError(c, "fetching "+step.String()+"s", err)
		return
	}

	if !saveFlow(c, h.sessions, id, flow) {
		return
	}
	c.JSON(http.StatusOK, toSessionResponse(flow, h.renderer))
}

func (h *SelectionHandler) SelectOption(c *gin.Context) {
	step, err := session.ParseStep(c.Param("stage"))
	if err != nil {
		writeError(c, "choosing an option", err)
		return
	}

	var req SelectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	id, flow, ok := loadFlow(c, h.sessions, h.sessionTTL)
	if !ok {
		return
	}

	if err := flow.Select(step, req.Label); err != nil {
		writeError(c, "choosing a "+step.String(), err)
		return
	}

	if !saveFlow(c, h.sessions, id, flow) {
		return
	}
	c.JSON(http.StatusOK, toSessionResponse(flow, h.renderer))
}

func (h *SelectionHandler) GetHealth(c *gin.Context) {
	if _, err := h.sessions.Load(c.Request.Context(), "healthcheck"); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"sessions": "disconnected",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"sessions": "connected",
	})
}
