package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"tourneyrecap/db"
	"tourneyrecap/internal/config"
	"tourneyrecap/internal/handler"
	"tourneyrecap/internal/render"
	"tourneyrecap/internal/session"
	"tourneyrecap/pkg/golfgenius"
	"tourneyrecap/pkg/llm"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	var sessions session.Store
	if cfg.RedisURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		redisClient, err := db.ConnectRedis(ctx, cfg.RedisURL)
		cancel()
		if err != nil {
			log.Fatalf("error connecting to Redis: %v", err)
		}
		defer db.CloseRedis(redisClient)

		sessions = session.NewRedisStore(redisClient, cfg.SessionTTL)
		slog.Info("using redis session store")
	} else {
		sessions = session.NewMemoryStore(cfg.SessionTTL)
		slog.Info("using in-memory session store")
	}

	results := golfgenius.NewClient(cfg.GolfGeniusBaseURL, cfg.ProviderTimeout)
	recapClients := llm.Factory{
		OpenAIBaseURL:    cfg.OpenAIBaseURL,
		GeminiBaseURL:    cfg.GeminiBaseURL,
		AnthropicBaseURL: cfg.AnthropicBaseURL,
		Timeout:          cfg.RecapTimeout,
	}
	renderer := render.NewRenderer()

	selectionHandler := handler.NewSelectionHandler(sessions, results, renderer, cfg.SessionTTL)
	recapHandler := handler.NewRecapHandler(sessions, results, recapClients, renderer, cfg.SessionTTL, cfg.RecapTimeout)

	r := gin.Default()
	r.SetHTMLTemplate(handler.Templates())

	allowedOrigins := []string{"http://localhost:3000"}

	if cfg.FrontendURL != "" {
		allowedOrigins = append(allowedOrigins, cfg.FrontendURL)
	}

	slog.Info("AllowOrigins URL:", "urls", allowedOrigins)

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		AllowCredentials: true,
	}))

	r.GET("/", handler.GetIndex)
	r.GET("/health", selectionHandler.GetHealth)
	r.GET("/session", selectionHandler.GetSession)
	r.POST("/session/reset", selectionHandler.ResetSession)
	r.POST("/selection/:stage/fetch", selectionHandler.FetchOptions)
	r.POST("/selection/:stage/select", selectionHandler.SelectOption)
	r.POST("/recap", recapHandler.GenerateRecap)
	r.GET("/recap/download", recapHandler.DownloadRecap)
	r.GET("/recap/raw", recapHandler.GetRawResult)

	err = r.Run(cfg.Addr())
	if err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}
