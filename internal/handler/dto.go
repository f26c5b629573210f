package handler

import (
	"time"

	"tourneyrecap/internal/model"
	"tourneyrecap/internal/render"
	"tourneyrecap/internal/session"
	"tourneyrecap/pkg/golfgenius"
)

type StepResponse struct {
	Name     string                  `json:"name"`
	Chosen   *golfgenius.NamedOption `json:"chosen"`
	Labels   []string                `json:"labels"`
	Fetched  bool                    `json:"fetched"`
	CanFetch bool                    `json:"can_fetch"`
}

type RecapResponse struct {
	Text        string                 `json:"text"`
	HTML        string                 `json:"html"`
	Backend     string                 `json:"backend"`
	Model       string                 `json:"model"`
	ScoreType   string                 `json:"score_type"`
	EventName   string                 `json:"event_name"`
	FormatName  string                 `json:"format_name"`
	TopPlayers  []model.PlayerStanding `json:"top_players"`
	GeneratedAt string                 `json:"generated_at"`
}

type SessionResponse struct {
	Stage string         `json:"stage"`
	Ready bool           `json:"ready"`
	Steps []StepResponse `json:"steps"`
	Recap *RecapResponse `json:"recap"`
}

type FetchRequest struct {
	GolfAPIKey string `json:"golf_api_key"`
}

type SelectRequest struct {
	Label string `json:"label"`
}

type GenerateRequest struct {
	GolfAPIKey string `json:"golf_api_key"`
	LLMAPIKey  string `json:"llm_api_key"`
	Backend    string `json:"backend"`
	ScoreType  string `json:"score_type"`
}

func toSessionResponse(flow *session.Flow, renderer *render.Renderer) SessionResponse {
	res := SessionResponse{
		Stage: flow.Stage().String(),
		Ready: flow.Ready(),
		Steps: make([]StepResponse, 0, len(session.Steps())),
	}

	for _, step := range session.Steps() {
		options := flow.OptionsFor(step)
		labels := make([]string, 0, len(options))
		for _, o := range options {
			labels = append(labels, o.Label)
		}

		res.Steps = append(res.Steps, StepResponse{
			Name:     step.String(),
			Chosen:   flow.Chosen(step),
			Labels:   labels,
			Fetched:  options != nil,
			CanFetch: flow.CanFetch(step),
		})
	}

	if r := flow.Recap; r != nil {
		res.Recap = &RecapResponse{
			Text:        r.Text,
			HTML:        string(renderer.Markdown(r.Text)),
			Backend:     r.Backend.DisplayName(),
			Model:       r.Model,
			ScoreType:   string(r.ScoreType),
			EventName:   r.Summary.EventName,
			FormatName:  r.Summary.FormatName,
			TopPlayers:  r.Summary.TopPlayers,
			GeneratedAt: r.GeneratedAt.Format(time.RFC3339),
		}
	}

	return res
}
