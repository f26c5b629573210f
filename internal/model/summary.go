package model

import (
	"fmt"
	"strings"
)

const (
	DefaultEventName  = "[Event Name Not Found]"
	DefaultFormatName = "Best Ball"
	TopPlayerCount    = 3
)

type ScoreType string

const (
	ScoreGross ScoreType = "Gross"
	ScoreNet   ScoreType = "Net"
)

// ParseScoreType accepts either convention in any case. Empty means Gross.
func ParseScoreType(s string) (ScoreType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "gross":
		return ScoreGross, nil
	case "net":
		return ScoreNet, nil
	}
	return "", fmt.Errorf("unknown score type %q", s)
}

type PlayerStanding struct {
	Rank       string  `json:"rank"`
	Name       string  `json:"name"`
	Score      string  `json:"score"`
	Total      string  `json:"total"`
	ToParNet   float64 `json:"to_par_net"`
	ToParGross float64 `json:"to_par_gross"`
}

// ToPar picks the to-par value matching the scoring convention.
func (p PlayerStanding) ToPar(scoreType ScoreType) float64 {
	if scoreType == ScoreNet {
		return p.ToParNet
	}
	return p.ToParGross
}

type TournamentSummary struct {
	EventName  string           `json:"event_name"`
	FormatName string           `json:"format_name"`
	TopPlayers []PlayerStanding `json:"top_players"`
}
