package llm

import (
	"context"
	"fmt"
	"time"
)

// Factory builds the recap client for one backend. Base URLs are empty in
// production and point at a proxy or test server otherwise.
type Factory struct {
	OpenAIBaseURL    string
	GeminiBaseURL    string
	AnthropicBaseURL string
	Timeout          time.Duration
}

func (f Factory) New(ctx context.Context, backend Backend, apiKey string) (RecapClient, error) {
	switch backend {
	case BackendOpenAI:
		return NewOpenAIClient(apiKey, f.OpenAIBaseURL, f.Timeout), nil
	case BackendGemini:
		client, err := NewGeminiClient(ctx, apiKey, f.GeminiBaseURL, f.Timeout)
		if err != nil {
			return nil, err
		}
		return client, nil
	case BackendAnthropic:
		return NewAnthropicClient(apiKey, f.AnthropicBaseURL, f.Timeout), nil
	}
	return nil, fmt.Errorf("unknown recap backend %q", backend)
}
