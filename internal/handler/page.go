package handler

import (
	"embed"
	"html/template"
	"net/http"

	"tourneyrecap/internal/model"
	"tourneyrecap/pkg/llm"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFS embed.FS

func Templates() *template.Template {
	return template.Must(template.ParseFS(templateFS, "templates/*.html"))
}

type backendOption struct {
	ID   string
	Name string
}

func GetIndex(c *gin.Context) {
	backends := []backendOption{}
	for _, b := range []llm.Backend{llm.BackendOpenAI, llm.BackendGemini, llm.BackendAnthropic} {
		backends = append(backends, backendOption{ID: string(b), Name: b.DisplayName()})
	}

	c.HTML(http.StatusOK, "index.html", gin.H{
		"Title":      "Golf Tournament Recap Generator",
		"Backends":   backends,
		"ScoreTypes": []model.ScoreType{model.ScoreGross, model.ScoreNet},
		"Filename":   RecapFilename,
	})
}
