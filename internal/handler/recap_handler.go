package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"tourneyrecap/internal/model"
	"tourneyrecap/internal/render"
	"tourneyrecap/internal/session"
	"tourneyrecap/pkg/golfgenius"
	"tourneyrecap/pkg/llm"

	"github.com/gin-gonic/gin"
)

const RecapFilename = "tournament_recap.txt"

type RecapHandler struct {
	sessions     session.Store
	results      golfgenius.ResultsClient
	clients      session.RecapClientFactory
	renderer     *render.Renderer
	sessionTTL   time.Duration
	recapTimeout time.Duration
}

func NewRecapHandler(sessions session.Store, results golfgenius.ResultsClient, clients session.RecapClientFactory, renderer *render.Renderer, sessionTTL, recapTimeout time.Duration) *RecapHandler {
	return &RecapHandler{
		sessions:     sessions,
		results:      results,
		clients:      clients,
		renderer:     renderer,
		sessionTTL:   sessionTTL,
		recapTimeout: recapTimeout,
	}
}

func (h *RecapHandler) GenerateRecap(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	id, flow, ok := loadFlow(c, h.sessions, h.sessionTTL)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if h.recapTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.recapTimeout)
		defer cancel()
	}

	result, err := flow.Generate(ctx, h.results, h.clients, session.GenerateRequest{
		GolfAPIKey: req.GolfAPIKey,
		LLMAPIKey:  req.LLMAPIKey,
		Backend:    llm.Backend(req.Backend),
		ScoreType:  model.ScoreType(req.ScoreType),
	})
	if err != nil {
		writeError(c, "generating the recap", err)
		return
	}

	if !saveFlow(c, h.sessions, id, flow) {
		return
	}

	slog.Info("recap generated", "backend", result.Backend, "model", result.Model, "event", result.Summary.EventName)
	c.JSON(http.StatusOK, toSessionResponse(flow, h.renderer))
}

func (h *RecapHandler) DownloadRecap(c *gin.Context) {
	_, flow, ok := loadFlow(c, h.sessions, h.sessionTTL)
	if !ok {
		return
	}

	if flow.Recap == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Generate a recap to download it"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+RecapFilename+`"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(flow.Recap.Text))
}

func (h *RecapHandler) GetRawResult(c *gin.Context) {
	_, flow, ok := loadFlow(c, h.sessions, h.sessionTTL)
	if !ok {
		return
	}

	if flow.Recap == nil || len(flow.Recap.RawResult) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No tournament data available"})
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", flow.Recap.RawResult)
}
