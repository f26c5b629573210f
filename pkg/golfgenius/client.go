package golfgenius

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

const noName = "No Name Available"

// NamedOption pairs a display label with the provider id behind it.
type NamedOption struct {
	Label string `json:"label"`
	ID    string `json:"id"`
}

type ResultsClient interface {
	ListSeasons(ctx context.Context, apiKey string) ([]NamedOption, error)
	ListEvents(ctx context.Context, apiKey, seasonID string) ([]NamedOption, error)
	ListRounds(ctx context.Context, apiKey, eventID string) ([]NamedOption, error)
	ListTournaments(ctx context.Context, apiKey, eventID, roundID string) ([]NamedOption, error)
	GetResult(ctx context.Context, apiKey, eventID, roundID, tournamentID string) ([]byte, error)
}

// ProviderRequestError reports a failed call to the results provider.
// StatusCode is zero when the request never got a response.
type ProviderRequestError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *ProviderRequestError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("golf genius %s: status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("golf genius %s: %v", e.Op, e.Err)
}

func (e *ProviderRequestError) Unwrap() error {
	return e.Err
}

// FlexString decodes a JSON string or number into its text form.
// The provider is not consistent about quoting ids and ranks.
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = FlexString(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*s = FlexString(num.String())
	return nil
}

type namedItem struct {
	Name *string    `json:"name"`
	ID   FlexString `json:"id"`
}

func (n namedItem) option() NamedOption {
	label := noName
	if n.Name != nil {
		label = *n.Name
	}
	return NamedOption{Label: label, ID: string(n.ID)}
}

// decodeOptions reads a list of single-key envelopes such as
// [{"season": {"name": "2024", "id": 7}}].
func decodeOptions(body []byte, envelope string) ([]NamedOption, error) {
	var raw []map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}

	options := make([]NamedOption, 0, len(raw))
	for _, entry := range raw {
		inner, ok := entry[envelope]
		if !ok {
			continue
		}
		var item namedItem
		if err := json.Unmarshal(inner, &item); err != nil {
			return nil, fmt.Errorf("decode %s: %w", envelope, err)
		}
		options = append(options, item.option())
	}
	return options, nil
}

// FindOption returns the first option carrying label.
func FindOption(options []NamedOption, label string) (NamedOption, bool) {
	for _, o := range options {
		if o.Label == label {
			return o, true
		}
	}
	return NamedOption{}, false
}
