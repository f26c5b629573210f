package llm

import (
	"context"
	"fmt"
	"strings"
)

type Backend string

const (
	BackendOpenAI    Backend = "openai"
	BackendGemini    Backend = "gemini"
	BackendAnthropic Backend = "anthropic"
)

// ParseBackend accepts the backend id or its display name.
func ParseBackend(s string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "openai":
		return BackendOpenAI, nil
	case "gemini", "google gemini":
		return BackendGemini, nil
	case "anthropic", "claude":
		return BackendAnthropic, nil
	}
	return "", fmt.Errorf("unknown recap backend %q", s)
}

func (b Backend) DisplayName() string {
	switch b {
	case BackendOpenAI:
		return "OpenAI"
	case BackendGemini:
		return "Google Gemini"
	case BackendAnthropic:
		return "Anthropic Claude"
	}
	return string(b)
}

// RecapClient turns a rendered standings prompt into recap prose.
type RecapClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Name() string
}

// RecapGenerationError wraps any vendor failure. StatusCode is the vendor's
// HTTP status when one was returned (401 auth, 429 quota).
type RecapGenerationError struct {
	Backend    Backend
	StatusCode int
	Err        error
}

func (e *RecapGenerationError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s recap generation failed (status %d): %v", e.Backend.DisplayName(), e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s recap generation failed: %v", e.Backend.DisplayName(), e.Err)
}

func (e *RecapGenerationError) Unwrap() error {
	return e.Err
}

// cleanRecapText drops a markdown code fence some models wrap the whole
// answer in.
func cleanRecapText(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}

	content = strings.TrimPrefix(content, "```markdown")
	content = strings.TrimPrefix(content, "```md")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}
