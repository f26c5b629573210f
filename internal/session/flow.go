package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"tourneyrecap/internal/model"
	"tourneyrecap/internal/recap"
	"tourneyrecap/pkg/golfgenius"
	"tourneyrecap/pkg/llm"
)

// Step is one level of the season -> event -> round -> tournament chain.
type Step int

const (
	StepSeason Step = iota
	StepEvent
	StepRound
	StepTournament
	stepCount
)

var stepNames = [stepCount]string{"season", "event", "round", "tournament"}

func (s Step) String() string {
	if s < 0 || s >= stepCount {
		return fmt.Sprintf("step(%d)", int(s))
	}
	return stepNames[s]
}

func (s Step) plural() string {
	return s.String() + "s"
}

// Steps lists every step in selection order.
func Steps() []Step {
	return []Step{StepSeason, StepEvent, StepRound, StepTournament}
}

// ParseStep accepts the singular or plural step name.
func ParseStep(name string) (Step, error) {
	key := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(name)), "s")
	for i, n := range stepNames {
		if n == key {
			return Step(i), nil
		}
	}
	return 0, &ValidationError{Field: "stage", Message: fmt.Sprintf("unknown selection stage %q", name)}
}

type Stage int

const (
	StageNoSeason Stage = iota
	StageSeasonChosen
	StageEventChosen
	StageRoundChosen
	StageTournamentChosen
	StageResultReady
)

func (s Stage) String() string {
	switch s {
	case StageNoSeason:
		return "NoSeason"
	case StageSeasonChosen:
		return "SeasonChosen"
	case StageEventChosen:
		return "EventChosen"
	case StageRoundChosen:
		return "RoundChosen"
	case StageTournamentChosen:
		return "TournamentChosen"
	case StageResultReady:
		return "ResultReady"
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

// ValidationError rejects an action before any network call is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// SelectionState holds the chosen option per step. A nil field is unset.
type SelectionState struct {
	Season     *golfgenius.NamedOption `json:"season,omitempty"`
	Event      *golfgenius.NamedOption `json:"event,omitempty"`
	Round      *golfgenius.NamedOption `json:"round,omitempty"`
	Tournament *golfgenius.NamedOption `json:"tournament,omitempty"`
}

func (s *SelectionState) slot(step Step) **golfgenius.NamedOption {
	switch step {
	case StepSeason:
		return &s.Season
	case StepEvent:
		return &s.Event
	case StepRound:
		return &s.Round
	default:
		return &s.Tournament
	}
}

// Recap is the outcome of the last successful generate action.
type Recap struct {
	Text        string                  `json:"text"`
	Backend     llm.Backend             `json:"backend"`
	Model       string                  `json:"model"`
	ScoreType   model.ScoreType         `json:"score_type"`
	Summary     model.TournamentSummary `json:"summary"`
	RawResult   json.RawMessage         `json:"raw_result"`
	GeneratedAt time.Time               `json:"generated_at"`
}

// Flow is the selection state of one browser session. It only moves
// forward; Reset is the single way back.
type Flow struct {
	Selection SelectionState                      `json:"selection"`
	Options   [stepCount][]golfgenius.NamedOption `json:"options"`
	Recap     *Recap                              `json:"recap,omitempty"`
}

func NewFlow() *Flow {
	return &Flow{}
}

func (f *Flow) Chosen(step Step) *golfgenius.NamedOption {
	return *f.Selection.slot(step)
}

// OptionsFor returns the fetched options for step, nil when not fetched yet.
func (f *Flow) OptionsFor(step Step) []golfgenius.NamedOption {
	return f.Options[step]
}

func (f *Flow) Stage() Stage {
	if f.Recap != nil {
		return StageResultReady
	}
	stage := StageNoSeason
	for _, step := range Steps() {
		if f.Chosen(step) == nil {
			break
		}
		stage++
	}
	return stage
}

// Ready reports whether a tournament is chosen and a recap may be generated.
func (f *Flow) Ready() bool {
	return f.Chosen(StepTournament) != nil
}

// CanFetch reports whether the fetch action for step is currently allowed.
func (f *Flow) CanFetch(step Step) bool {
	return f.checkOrder(step) == nil
}

func (f *Flow) Reset() {
	*f = Flow{}
}

func (f *Flow) checkOrder(step Step) error {
	if step < 0 || step >= stepCount {
		return &ValidationError{Field: "stage", Message: fmt.Sprintf("unknown selection stage %d", int(step))}
	}
	for prev := StepSeason; prev < step; prev++ {
		if f.Chosen(prev) == nil {
			return &ValidationError{
				Field:   prev.String(),
				Message: fmt.Sprintf("choose a %s first", prev),
			}
		}
	}
	if chosen := f.Chosen(step); chosen != nil {
		return &ValidationError{
			Field:   step.String(),
			Message: fmt.Sprintf("%s %q is already chosen, reset to start over", step, chosen.Label),
		}
	}
	return nil
}

// Fetch loads the options for step from the results provider. On failure
// the flow is left as it was.
func (f *Flow) Fetch(ctx context.Context, results golfgenius.ResultsClient, step Step, apiKey string) error {
	if strings.TrimSpace(apiKey) == "" {
		return &ValidationError{Field: "golf_api_key", Message: "Golf Genius API key is required"}
	}
	if err := f.checkOrder(step); err != nil {
		return err
	}

	var (
		options []golfgenius.NamedOption
		err     error
	)
	switch step {
	case StepSeason:
		options, err = results.ListSeasons(ctx, apiKey)
	case StepEvent:
		options, err = results.ListEvents(ctx, apiKey, f.Selection.Season.ID)
	case StepRound:
		options, err = results.ListRounds(ctx, apiKey, f.Selection.Event.ID)
	case StepTournament:
		options, err = results.ListTournaments(ctx, apiKey, f.Selection.Event.ID, f.Selection.Round.ID)
	}
	if err != nil {
		return fmt.Errorf("fetch %s: %w", step.plural(), err)
	}

	if options == nil {
		options = []golfgenius.NamedOption{}
	}
	f.Options[step] = options
	return nil
}

// Select picks the option labelled label for step.
func (f *Flow) Select(step Step, label string) error {
	if err := f.checkOrder(step); err != nil {
		return err
	}

	options := f.Options[step]
	if options == nil {
		return &ValidationError{Field: step.String(), Message: fmt.Sprintf("fetch %s before choosing one", step.plural())}
	}

	option, ok := golfgenius.FindOption(options, label)
	if !ok {
		return &ValidationError{Field: step.String(), Message: fmt.Sprintf("no %s named %q", step, label)}
	}
	if option.ID == "" {
		return &ValidationError{Field: step.String(), Message: fmt.Sprintf("%s %q has no id", step, label)}
	}

	*f.Selection.slot(step) = &option
	return nil
}

type RecapClientFactory interface {
	New(ctx context.Context, backend llm.Backend, apiKey string) (llm.RecapClient, error)
}

type GenerateRequest struct {
	GolfAPIKey string
	LLMAPIKey  string
	Backend    llm.Backend
	ScoreType  model.ScoreType
}

func (r GenerateRequest) validate() error {
	if strings.TrimSpace(r.GolfAPIKey) == "" || strings.TrimSpace(r.LLMAPIKey) == "" {
		return &ValidationError{Field: "api_key", Message: "Please enter all required API keys"}
	}
	if _, err := llm.ParseBackend(string(r.Backend)); err != nil {
		return &ValidationError{Field: "backend", Message: err.Error()}
	}
	if _, err := model.ParseScoreType(string(r.ScoreType)); err != nil {
		return &ValidationError{Field: "score_type", Message: err.Error()}
	}
	return nil
}

// Generate fetches the chosen tournament's result and asks the selected
// backend for a recap. A new recap replaces the previous one; on failure the
// previous one is kept.
func (f *Flow) Generate(ctx context.Context, results golfgenius.ResultsClient, clients RecapClientFactory, req GenerateRequest) (*Recap, error) {
	if !f.Ready() {
		return nil, &ValidationError{Field: "tournament", Message: "choose a tournament before generating a recap"}
	}
	if err := req.validate(); err != nil {
		return nil, err
	}
	backend, _ := llm.ParseBackend(string(req.Backend))
	scoreType, _ := model.ParseScoreType(string(req.ScoreType))

	sel := f.Selection
	raw, err := results.GetResult(ctx, req.GolfAPIKey, sel.Event.ID, sel.Round.ID, sel.Tournament.ID)
	if err != nil {
		return nil, fmt.Errorf("fetch tournament results: %w", err)
	}

	summary, err := recap.Shape(raw)
	if err != nil {
		return nil, err
	}
	prompt := recap.BuildPrompt(summary, scoreType)

	client, err := clients.New(ctx, backend, req.LLMAPIKey)
	if err != nil {
		return nil, err
	}

	text, err := client.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	result := &Recap{
		Text:        text,
		Backend:     backend,
		Model:       client.Name(),
		ScoreType:   scoreType,
		Summary:     *summary,
		RawResult:   json.RawMessage(raw),
		GeneratedAt: time.Now().UTC(),
	}
	f.Recap = result
	return result, nil
}
