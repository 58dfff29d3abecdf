package insights

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"inventory-tracker/core/reconcile"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
)

// DefaultBaseURL is the Generative Language API endpoint.
const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

type geminiRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	Temperature     float32 `json:"temperature,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
}

type geminiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// GeminiGenerator asks a Gemini model for the insight document.
type GeminiGenerator struct {
	client     *http.Client
	apiKey     string
	baseURL    string
	model      string
	timeout    time.Duration
	maxRetries int
	// initialInterval is the first retry delay
	initialInterval time.Duration
	logger          *zap.Logger
}

// NewGeminiGenerator creates a generator calling the configured Gemini model.
func NewGeminiGenerator(cfg Config, logger *zap.Logger) *GeminiGenerator {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = "gemini-1.5-flash"
	}
	retries := cfg.MaxRetries
	if retries <= 0 {
		retries = 1
	}

	return &GeminiGenerator{
		client:          &http.Client{},
		apiKey:          cfg.APIKey,
		baseURL:         baseURL,
		model:           model,
		timeout:         cfg.Timeout(),
		maxRetries:      retries,
		initialInterval: 500 * time.Millisecond,
		logger:          logger,
	}
}

// Generate renders the prompt and returns the model's text.
// Rate limiting and server errors are retried with exponential backoff.
func (g *GeminiGenerator) Generate(ctx context.Context, products []reconcile.Product, today time.Time) (string, error) {
	if g.apiKey == "" {
		return "", ErrNotConfigured
	}

	prompt, err := RenderPrompt(products, today)
	if err != nil {
		return "", err
	}

	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: &geminiGenerationConfig{
			Temperature:     0.2,
			MaxOutputTokens: 1024,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	// The key travels in a header so it never shows up in URL-bearing errors.
	url := fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, g.model)
	attempt := 0

	op := func() (string, error) {
		attempt++
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return "", backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-goog-api-key", g.apiKey)

		resp, err := g.client.Do(req)
		if err != nil {
			g.logger.Warn("Gemini request failed", zap.Int("attempt", attempt), zap.Error(err))
			return "", fmt.Errorf("%w: %v", ErrProvider, err)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", fmt.Errorf("failed to read response: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			apiErr := fmt.Errorf("%w: status %d: %s", ErrProvider, resp.StatusCode, errorMessage(data))
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
				g.logger.Warn("Gemini returned a retryable status", zap.Int("attempt", attempt), zap.Int("status", resp.StatusCode))
				return "", apiErr
			}
			return "", backoff.Permanent(apiErr)
		}

		var parsed geminiResponse
		if err := json.Unmarshal(data, &parsed); err != nil {
			return "", backoff.Permanent(fmt.Errorf("%w: invalid response: %v", ErrProvider, err))
		}
		if len(parsed.Candidates) == 0 {
			return "", backoff.Permanent(fmt.Errorf("%w: no candidates", ErrProvider))
		}

		var text strings.Builder
		for _, part := range parsed.Candidates[0].Content.Parts {
			text.WriteString(part.Text)
		}
		if strings.TrimSpace(text.String()) == "" {
			return "", backoff.Permanent(fmt.Errorf("%w: empty response", ErrProvider))
		}
		return text.String(), nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = g.initialInterval

	return backoff.Retry(ctx, op, backoff.WithBackOff(b), backoff.WithMaxTries(uint(g.maxRetries)))
}

func errorMessage(data []byte) string {
	var e geminiError
	if err := json.Unmarshal(data, &e); err == nil && e.Error.Message != "" {
		return e.Error.Message
	}
	if len(data) > 200 {
		return string(data[:200])
	}
	return string(data)
}
