package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/genai"
)

type GeminiClient struct {
	client    *genai.Client
	modelName string
}

func NewGeminiClient(ctx context.Context, apiKey, baseURL string, timeout time.Duration) (*GeminiClient, error) {
	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: timeout},
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, &RecapGenerationError{Backend: BackendGemini, Err: fmt.Errorf("gemini client: %w", err)}
	}

	return &GeminiClient{
		client:    client,
		modelName: "gemini-2.0-flash",
	}, nil
}

func (c *GeminiClient) Name() string {
	return c.modelName
}

func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.modelName, genai.Text(prompt), &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{genai.NewPartFromText(RecapPreamble)}},
		Temperature:       genai.Ptr[float32](temperature),
		MaxOutputTokens:   maxOutputTokens,
		PresencePenalty:   genai.Ptr[float32](presencePenalty),
		FrequencyPenalty:  genai.Ptr[float32](frequencyPenalty),
	})

	if err != nil {
		genErr := &RecapGenerationError{Backend: BackendGemini, Err: fmt.Errorf("gemini API error: %w", err)}
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			genErr.StatusCode = apiErr.Code
		}
		return "", genErr
	}

	content := cleanRecapText(resp.Text())
	if content == "" {
		return "", &RecapGenerationError{Backend: BackendGemini, Err: fmt.Errorf("no response from gemini")}
	}

	return content, nil
}
