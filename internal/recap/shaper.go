package recap

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"tourneyrecap/internal/model"
	"tourneyrecap/pkg/golfgenius"
)

// MalformedResultError means the tournament result could not be read,
// either because it is not JSON or because a rank is not an integer.
type MalformedResultError struct {
	Reason string
	Err    error
}

func (e *MalformedResultError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed tournament result: %s: %v", e.Reason, e.Err)
	}
	return "malformed tournament result: " + e.Reason
}

func (e *MalformedResultError) Unwrap() error {
	return e.Err
}

type resultDocument struct {
	Event *resultEvent `json:"event"`
}

type resultEvent struct {
	Name   *string       `json:"name"`
	Format *string       `json:"format"`
	Scopes []resultScope `json:"scopes"`
}

type resultScope struct {
	Aggregates []aggregate `json:"aggregates"`
}

type aggregate struct {
	Rank       *golfgenius.FlexString `json:"rank"`
	Name       *golfgenius.FlexString `json:"name"`
	Score      *golfgenius.FlexString `json:"score"`
	Total      *golfgenius.FlexString `json:"total"`
	ToParNet   toPar                  `json:"to_par_net"`
	ToParGross toPar                  `json:"to_par_gross"`
}

// toPar accepts a number, a numeric string, or "E" for even par. Anything
// else reads as 0.
type toPar float64

func (p *toPar) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	text := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		text = strings.TrimSpace(text)
		if text == "" || strings.EqualFold(text, "E") {
			*p = 0
			return nil
		}
	}

	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		*p = 0
		return nil
	}
	*p = toPar(v)
	return nil
}

func textOr(s *golfgenius.FlexString, fallback string) string {
	if s == nil {
		return fallback
	}
	return string(*s)
}

// Shape extracts the event metadata and the three best ranked players from
// a raw tournament result. Missing structure yields defaults, not errors.
func Shape(raw []byte) (*model.TournamentSummary, error) {
	var doc resultDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &MalformedResultError{Reason: "decode", Err: err}
	}

	event := doc.Event
	if event == nil {
		event = &resultEvent{}
	}

	summary := &model.TournamentSummary{
		EventName:  model.DefaultEventName,
		FormatName: model.DefaultFormatName,
		TopPlayers: []model.PlayerStanding{},
	}
	if event.Name != nil {
		summary.EventName = *event.Name
	}
	if event.Format != nil {
		summary.FormatName = *event.Format
	}

	if len(event.Scopes) == 0 {
		return summary, nil
	}

	type ranked struct {
		ordinal int
		player  model.PlayerStanding
	}

	aggregates := event.Scopes[0].Aggregates
	players := make([]ranked, 0, len(aggregates))
	for _, agg := range aggregates {
		rank := textOr(agg.Rank, "0")
		ordinal, err := strconv.Atoi(strings.TrimSpace(rank))
		if err != nil {
			return nil, &MalformedResultError{Reason: fmt.Sprintf("rank %q is not an integer", rank)}
		}

		players = append(players, ranked{
			ordinal: ordinal,
			player: model.PlayerStanding{
				Rank:       rank,
				Name:       textOr(agg.Name, "Unknown"),
				Score:      textOr(agg.Score, "N/A"),
				Total:      textOr(agg.Total, "N/A"),
				ToParNet:   float64(agg.ToParNet),
				ToParGross: float64(agg.ToParGross),
			},
		})
	}

	sort.SliceStable(players, func(i, j int) bool {
		return players[i].ordinal < players[j].ordinal
	})

	for i := 0; i < len(players) && i < model.TopPlayerCount; i++ {
		summary.TopPlayers = append(summary.TopPlayers, players[i].player)
	}

	return summary, nil
}
