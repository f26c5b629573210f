package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type OpenAIClient struct {
	client    *openai.Client
	model     openai.ChatModel
	modelName string
}

func NewOpenAIClient(apiKey, baseURL string, timeout time.Duration) *OpenAIClient {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(timeout))
	}

	client := openai.NewClient(opts...)
	return &OpenAIClient{
		client:    &client,
		model:     openai.ChatModelGPT4o,
		modelName: "gpt-4o",
	}
}

func (c *OpenAIClient) Name() string {
	return c.modelName
}

func (c *OpenAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(RecapPreamble),
			openai.UserMessage(prompt),
		},
		Temperature:         openai.Float(temperature),
		MaxCompletionTokens: openai.Int(maxOutputTokens),
		PresencePenalty:     openai.Float(presencePenalty),
		FrequencyPenalty:    openai.Float(frequencyPenalty),
	})

	if err != nil {
		genErr := &RecapGenerationError{Backend: BackendOpenAI, Err: fmt.Errorf("openai API error: %w", err)}
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			genErr.StatusCode = apiErr.StatusCode
		}
		return "", genErr
	}

	if len(resp.Choices) == 0 {
		return "", &RecapGenerationError{Backend: BackendOpenAI, Err: fmt.Errorf("no response from openai")}
	}

	content := cleanRecapText(resp.Choices[0].Message.Content)
	if content == "" {
		return "", &RecapGenerationError{Backend: BackendOpenAI, Err: fmt.Errorf("empty response from openai")}
	}

	return content, nil
}
