package session

import (
	"context"
	"errors"
	"strings"
	"testing"

	"tourneyrecap/internal/model"
	"tourneyrecap/internal/recap"
	"tourneyrecap/pkg/golfgenius"
	"tourneyrecap/pkg/llm"

	"github.com/go-playground/assert/v2"
)

type fakeResults struct {
	seasons, events, rounds, tournaments []golfgenius.NamedOption
	result                               []byte
	err                                  error
	calls                                []string
}

func (f *fakeResults) ListSeasons(ctx context.Context, apiKey string) ([]golfgenius.NamedOption, error) {
	f.calls = append(f.calls, "seasons")
	return f.seasons, f.err
}

func (f *fakeResults) ListEvents(ctx context.Context, apiKey, seasonID string) ([]golfgenius.NamedOption, error) {
	f.calls = append(f.calls, "events:"+seasonID)
	return f.events, f.err
}

func (f *fakeResults) ListRounds(ctx context.Context, apiKey, eventID string) ([]golfgenius.NamedOption, error) {
	f.calls = append(f.calls, "rounds:"+eventID)
	return f.rounds, f.err
}

func (f *fakeResults) ListTournaments(ctx context.Context, apiKey, eventID, roundID string) ([]golfgenius.NamedOption, error) {
	f.calls = append(f.calls, "tournaments:"+eventID+"/"+roundID)
	return f.tournaments, f.err
}

func (f *fakeResults) GetResult(ctx context.Context, apiKey, eventID, roundID, tournamentID string) ([]byte, error) {
	f.calls = append(f.calls, "result:"+eventID+"/"+roundID+"/"+tournamentID)
	return f.result, f.err
}

type fakeRecapClient struct {
	backend llm.Backend
	prompts []string
	err     error
}

func (c *fakeRecapClient) Generate(ctx context.Context, prompt string) (string, error) {
	c.prompts = append(c.prompts, prompt)
	if c.err != nil {
		return "", c.err
	}
	return "recap from " + string(c.backend), nil
}

func (c *fakeRecapClient) Name() string {
	return "fake-" + string(c.backend)
}

type fakeFactory struct {
	clients map[llm.Backend]*fakeRecapClient
	err     error
}

func newFakeFactory() *fakeFactory {
	return &fakeFactory{clients: map[llm.Backend]*fakeRecapClient{
		llm.BackendOpenAI:    {backend: llm.BackendOpenAI},
		llm.BackendGemini:    {backend: llm.BackendGemini},
		llm.BackendAnthropic: {backend: llm.BackendAnthropic},
	}}
}

func (f *fakeFactory) New(ctx context.Context, backend llm.Backend, apiKey string) (llm.RecapClient, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.clients[backend], nil
}

const testResult = `{"event": {"name": "Spring Classic", "scopes": [{"aggregates": [
	{"rank": "2", "name": "B", "total": "70", "to_par_gross": -2, "to_par_net": -7},
	{"rank": "1", "name": "A", "total": "68", "to_par_gross": -4, "to_par_net": -9},
	{"rank": "3", "name": "C", "total": "71", "to_par_gross": -1, "to_par_net": -6}
]}]}}`

func newFakeResults() *fakeResults {
	return &fakeResults{
		seasons:     []golfgenius.NamedOption{{Label: "2024", ID: "s1"}, {Label: "2025", ID: "s2"}},
		events:      []golfgenius.NamedOption{{Label: "Club Championship", ID: "e1"}},
		rounds:      []golfgenius.NamedOption{{Label: "Round 1", ID: "r1"}},
		tournaments: []golfgenius.NamedOption{{Label: "Gross Stroke Play", ID: "t1"}},
		result:      []byte(testResult),
	}
}

// walk fetches and selects the first option at every step.
func walk(t *testing.T, flow *Flow, results *fakeResults) {
	t.Helper()
	ctx := context.Background()
	for _, step := range Steps() {
		if err := flow.Fetch(ctx, results, step, "golf-key"); err != nil {
			t.Fatalf("fetch %s: %v", step, err)
		}
		if err := flow.Select(step, flow.OptionsFor(step)[0].Label); err != nil {
			t.Fatalf("select %s: %v", step, err)
		}
	}
}

func isValidation(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

func TestFlowWalksForward(t *testing.T) {
	flow := NewFlow()
	results := newFakeResults()
	ctx := context.Background()

	assert.Equal(t, StageNoSeason, flow.Stage())
	assert.Equal(t, false, flow.Ready())

	assert.Equal(t, nil, flow.Fetch(ctx, results, StepSeason, "golf-key"))
	assert.Equal(t, StageNoSeason, flow.Stage())
	assert.Equal(t, nil, flow.Select(StepSeason, "2025"))
	assert.Equal(t, StageSeasonChosen, flow.Stage())

	assert.Equal(t, nil, flow.Fetch(ctx, results, StepEvent, "golf-key"))
	assert.Equal(t, nil, flow.Select(StepEvent, "Club Championship"))
	assert.Equal(t, StageEventChosen, flow.Stage())

	assert.Equal(t, nil, flow.Fetch(ctx, results, StepRound, "golf-key"))
	assert.Equal(t, nil, flow.Select(StepRound, "Round 1"))
	assert.Equal(t, StageRoundChosen, flow.Stage())

	assert.Equal(t, nil, flow.Fetch(ctx, results, StepTournament, "golf-key"))
	assert.Equal(t, nil, flow.Select(StepTournament, "Gross Stroke Play"))
	assert.Equal(t, StageTournamentChosen, flow.Stage())
	assert.Equal(t, true, flow.Ready())

	assert.Equal(t, []string{"seasons", "events:s2", "rounds:e1", "tournaments:e1/r1"}, results.calls)
	assert.Equal(t, "s2", flow.Selection.Season.ID)
	assert.Equal(t, "t1", flow.Selection.Tournament.ID)
}

func TestFetchRoundsBeforeEventIsRejected(t *testing.T) {
	flow := NewFlow()
	results := newFakeResults()
	ctx := context.Background()

	err := flow.Fetch(ctx, results, StepRound, "golf-key")
	assert.Equal(t, true, isValidation(err))
	assert.Equal(t, StageNoSeason, flow.Stage())

	assert.Equal(t, nil, flow.Fetch(ctx, results, StepSeason, "golf-key"))
	assert.Equal(t, nil, flow.Select(StepSeason, "2024"))

	err = flow.Fetch(ctx, results, StepRound, "golf-key")
	assert.Equal(t, true, isValidation(err))
	assert.Equal(t, StageSeasonChosen, flow.Stage())
	assert.Equal(t, []string{"seasons"}, results.calls)
}

func TestFetchRequiresAPIKey(t *testing.T) {
	flow := NewFlow()
	results := newFakeResults()

	err := flow.Fetch(context.Background(), results, StepSeason, "  ")

	assert.Equal(t, true, isValidation(err))
	assert.Equal(t, 0, len(results.calls))
}

func TestFetchFailureLeavesStateUnchanged(t *testing.T) {
	flow := NewFlow()
	results := newFakeResults()
	ctx := context.Background()

	assert.Equal(t, nil, flow.Fetch(ctx, results, StepSeason, "golf-key"))
	assert.Equal(t, nil, flow.Select(StepSeason, "2024"))

	providerErr := &golfgenius.ProviderRequestError{Op: "events", StatusCode: 503, Err: errors.New("unavailable")}
	results.err = providerErr

	err := flow.Fetch(ctx, results, StepEvent, "golf-key")

	var perr *golfgenius.ProviderRequestError
	assert.Equal(t, true, errors.As(err, &perr))
	assert.Equal(t, 503, perr.StatusCode)
	assert.Equal(t, StageSeasonChosen, flow.Stage())
	assert.Equal(t, true, flow.OptionsFor(StepEvent) == nil)
}

func TestSelectValidation(t *testing.T) {
	flow := NewFlow()
	results := newFakeResults()
	ctx := context.Background()

	err := flow.Select(StepSeason, "2024")
	assert.Equal(t, true, isValidation(err))

	assert.Equal(t, nil, flow.Fetch(ctx, results, StepSeason, "golf-key"))

	err = flow.Select(StepSeason, "1999")
	assert.Equal(t, true, isValidation(err))
	assert.Equal(t, StageNoSeason, flow.Stage())

	assert.Equal(t, nil, flow.Select(StepSeason, "2024"))

	err = flow.Select(StepSeason, "2025")
	assert.Equal(t, true, isValidation(err))
	assert.Equal(t, "s1", flow.Selection.Season.ID)

	err = flow.Fetch(ctx, results, StepSeason, "golf-key")
	assert.Equal(t, true, isValidation(err))
}

func TestSelectOptionWithoutID(t *testing.T) {
	flow := NewFlow()
	results := newFakeResults()
	results.seasons = []golfgenius.NamedOption{{Label: "No Name Available"}}

	assert.Equal(t, nil, flow.Fetch(context.Background(), results, StepSeason, "golf-key"))

	err := flow.Select(StepSeason, "No Name Available")
	assert.Equal(t, true, isValidation(err))
	assert.Equal(t, StageNoSeason, flow.Stage())
}

func TestResetFromAnyStage(t *testing.T) {
	for stop := 0; stop <= len(Steps()); stop++ {
		flow := NewFlow()
		results := newFakeResults()
		ctx := context.Background()

		for _, step := range Steps()[:stop] {
			assert.Equal(t, nil, flow.Fetch(ctx, results, step, "golf-key"))
			assert.Equal(t, nil, flow.Select(step, flow.OptionsFor(step)[0].Label))
		}
		if stop < len(Steps()) {
			assert.Equal(t, nil, flow.Fetch(ctx, results, Steps()[stop], "golf-key"))
		}

		flow.Reset()

		assert.Equal(t, StageNoSeason, flow.Stage())
		assert.Equal(t, SelectionState{}, flow.Selection)
		for _, step := range Steps() {
			assert.Equal(t, true, flow.OptionsFor(step) == nil)
		}
		assert.Equal(t, true, flow.Recap == nil)
	}
}

func TestResetClearsRecap(t *testing.T) {
	flow := NewFlow()
	results := newFakeResults()
	walk(t, flow, results)

	_, err := flow.Generate(context.Background(), results, newFakeFactory(), GenerateRequest{
		GolfAPIKey: "golf-key", LLMAPIKey: "llm-key", Backend: llm.BackendOpenAI, ScoreType: model.ScoreGross,
	})
	assert.Equal(t, nil, err)
	assert.Equal(t, StageResultReady, flow.Stage())

	flow.Reset()

	assert.Equal(t, StageNoSeason, flow.Stage())
	assert.Equal(t, true, flow.Recap == nil)
}

func TestGenerateRequiresTournament(t *testing.T) {
	flow := NewFlow()
	results := newFakeResults()

	_, err := flow.Generate(context.Background(), results, newFakeFactory(), GenerateRequest{
		GolfAPIKey: "golf-key", LLMAPIKey: "llm-key", Backend: llm.BackendOpenAI,
	})

	assert.Equal(t, true, isValidation(err))
	assert.Equal(t, 0, len(results.calls))
}

func TestGenerateRequiresBothKeys(t *testing.T) {
	for _, req := range []GenerateRequest{
		{GolfAPIKey: "", LLMAPIKey: "llm-key", Backend: llm.BackendOpenAI},
		{GolfAPIKey: "golf-key", LLMAPIKey: "", Backend: llm.BackendGemini},
	} {
		flow := NewFlow()
		results := newFakeResults()
		walk(t, flow, results)
		before := len(results.calls)
		factory := newFakeFactory()

		_, err := flow.Generate(context.Background(), results, factory, req)

		assert.Equal(t, true, isValidation(err))
		assert.Equal(t, before, len(results.calls))
		assert.Equal(t, 0, len(factory.clients[req.Backend].prompts))
		assert.Equal(t, StageTournamentChosen, flow.Stage())
	}
}

func TestGenerateRejectsUnknownBackend(t *testing.T) {
	flow := NewFlow()
	results := newFakeResults()
	walk(t, flow, results)

	_, err := flow.Generate(context.Background(), results, newFakeFactory(), GenerateRequest{
		GolfAPIKey: "golf-key", LLMAPIKey: "llm-key", Backend: llm.Backend("mistral"),
	})

	assert.Equal(t, true, isValidation(err))
}

func TestGenerateUsesSelectedBackendOnly(t *testing.T) {
	for _, backend := range []llm.Backend{llm.BackendOpenAI, llm.BackendGemini} {
		flow := NewFlow()
		results := newFakeResults()
		walk(t, flow, results)
		factory := newFakeFactory()

		result, err := flow.Generate(context.Background(), results, factory, GenerateRequest{
			GolfAPIKey: "golf-key", LLMAPIKey: "llm-key", Backend: backend, ScoreType: model.ScoreGross,
		})

		assert.Equal(t, nil, err)
		assert.Equal(t, "recap from "+string(backend), result.Text)
		assert.Equal(t, backend, result.Backend)
		assert.Equal(t, StageResultReady, flow.Stage())
		for b, client := range factory.clients {
			if b == backend {
				assert.Equal(t, 1, len(client.prompts))
			} else {
				assert.Equal(t, 0, len(client.prompts))
			}
		}
	}
}

func TestGeneratePromptFollowsScoreType(t *testing.T) {
	flow := NewFlow()
	results := newFakeResults()
	walk(t, flow, results)
	factory := newFakeFactory()

	result, err := flow.Generate(context.Background(), results, factory, GenerateRequest{
		GolfAPIKey: "golf-key", LLMAPIKey: "llm-key", Backend: llm.BackendAnthropic, ScoreType: "net",
	})
	assert.Equal(t, nil, err)
	assert.Equal(t, model.ScoreNet, result.ScoreType)
	assert.Equal(t, []string{"A", "B", "C"}, []string{
		result.Summary.TopPlayers[0].Name, result.Summary.TopPlayers[1].Name, result.Summary.TopPlayers[2].Name,
	})

	prompt := factory.clients[llm.BackendAnthropic].prompts[0]
	assert.Equal(t, true, strings.Contains(prompt, "To Par Net: -9"))
	assert.Equal(t, true, strings.Index(prompt, "Rank 1: A") < strings.Index(prompt, "Rank 2: B"))
	assert.Equal(t, "result:e1/r1/t1", results.calls[len(results.calls)-1])
}

func TestGenerateFailureKeepsPreviousRecap(t *testing.T) {
	flow := NewFlow()
	results := newFakeResults()
	walk(t, flow, results)
	factory := newFakeFactory()
	req := GenerateRequest{GolfAPIKey: "golf-key", LLMAPIKey: "llm-key", Backend: llm.BackendOpenAI}

	first, err := flow.Generate(context.Background(), results, factory, req)
	assert.Equal(t, nil, err)

	factory.clients[llm.BackendOpenAI].err = &llm.RecapGenerationError{Backend: llm.BackendOpenAI, StatusCode: 429, Err: errors.New("quota")}

	_, err = flow.Generate(context.Background(), results, factory, req)

	var genErr *llm.RecapGenerationError
	assert.Equal(t, true, errors.As(err, &genErr))
	assert.Equal(t, first, flow.Recap)
	assert.Equal(t, StageResultReady, flow.Stage())
}

func TestGenerateMalformedResult(t *testing.T) {
	flow := NewFlow()
	results := newFakeResults()
	results.result = []byte(`{"event": {"scopes": [{"aggregates": [{"rank": "T1"}]}]}}`)
	walk(t, flow, results)
	factory := newFakeFactory()

	_, err := flow.Generate(context.Background(), results, factory, GenerateRequest{
		GolfAPIKey: "golf-key", LLMAPIKey: "llm-key", Backend: llm.BackendOpenAI,
	})

	var merr *recap.MalformedResultError
	assert.Equal(t, true, errors.As(err, &merr))
	assert.Equal(t, 0, len(factory.clients[llm.BackendOpenAI].prompts))
	assert.Equal(t, StageTournamentChosen, flow.Stage())
}

func TestParseStep(t *testing.T) {
	for name, want := range map[string]Step{"season": StepSeason, "seasons": StepSeason, "Events": StepEvent, "round": StepRound, "tournaments": StepTournament} {
		got, err := ParseStep(name)
		assert.Equal(t, nil, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseStep("holes")
	assert.Equal(t, true, isValidation(err))
	assert.Equal(t, `unknown selection stage "holes"`, err.Error())
}
