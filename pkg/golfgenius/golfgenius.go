package golfgenius

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultBaseURL = "https://www.golfgenius.com/api_v2"

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) ListSeasons(ctx context.Context, apiKey string) ([]NamedOption, error) {
	body, err := c.get(ctx, "seasons", apiKey, nil, "seasons")
	if err != nil {
		return nil, err
	}
	return c.options("seasons", body, "season")
}

func (c *Client) ListEvents(ctx context.Context, apiKey, seasonID string) ([]NamedOption, error) {
	query := url.Values{}
	query.Set("page", "1")
	query.Set("season", seasonID)
	query.Set("category", "")
	query.Set("directory", "")
	query.Set("archived", "")

	body, err := c.get(ctx, "events", apiKey, query, "events")
	if err != nil {
		return nil, err
	}
	return c.options("events", body, "event")
}

func (c *Client) ListRounds(ctx context.Context, apiKey, eventID string) ([]NamedOption, error) {
	body, err := c.get(ctx, "rounds", apiKey, nil, "events", eventID, "rounds")
	if err != nil {
		return nil, err
	}
	return c.options("rounds", body, "round")
}

// ListTournaments lists the tournaments of a round. The provider wraps each
// tournament in an "event" envelope.
func (c *Client) ListTournaments(ctx context.Context, apiKey, eventID, roundID string) ([]NamedOption, error) {
	body, err := c.get(ctx, "tournaments", apiKey, nil, "events", eventID, "rounds", roundID, "tournaments")
	if err != nil {
		return nil, err
	}
	return c.options("tournaments", body, "event")
}

// GetResult returns the raw tournament result document.
func (c *Client) GetResult(ctx context.Context, apiKey, eventID, roundID, tournamentID string) ([]byte, error) {
	return c.get(ctx, "tournament results", apiKey, nil,
		"events", eventID, "rounds", roundID, "tournaments", tournamentID+".json")
}

func (c *Client) options(op string, body []byte, envelope string) ([]NamedOption, error) {
	options, err := decodeOptions(body, envelope)
	if err != nil {
		return nil, &ProviderRequestError{Op: op, Err: fmt.Errorf("decode: %w", err)}
	}
	return options, nil
}

func (c *Client) get(ctx context.Context, op, apiKey string, query url.Values, segments ...string) ([]byte, error) {
	parts := make([]string, 0, len(segments)+1)
	parts = append(parts, url.PathEscape(apiKey))
	for _, s := range segments {
		parts = append(parts, url.PathEscape(s))
	}

	endpoint := c.baseURL + "/" + strings.Join(parts, "/")
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &ProviderRequestError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &ProviderRequestError{Op: op, Err: redact(err, apiKey)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ProviderRequestError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ProviderRequestError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	return body, nil
}

// redact keeps the API key, which is part of the request path, out of
// transport errors that end up in logs and responses. The URL in those
// errors carries the escaped form.
func redact(err error, apiKey string) error {
	if apiKey == "" {
		return err
	}
	msg := err.Error()
	redacted := msg
	for _, k := range []string{url.PathEscape(apiKey), apiKey} {
		redacted = strings.ReplaceAll(redacted, k, "***")
	}
	if redacted == msg {
		return err
	}
	return fmt.Errorf("%s", redacted)
}
