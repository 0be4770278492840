package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"shopkeeper/internal/platform/config"
	perr "shopkeeper/internal/platform/errors"
)

// Message is one turn of a chat-completion conversation
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// GenerateConfig configures the generation client
type GenerateConfig struct {
	URL     string // chat-completions style endpoint
	Model   string
	APIKey  string
	Timeout time.Duration
}

// GenerateConfigFromEnv reads GEN_URL, GEN_MODEL, GEN_API_KEY and GEN_TIMEOUT
func GenerateConfigFromEnv(cfg config.Conf) GenerateConfig {
	return GenerateConfig{
		URL:     cfg.MustString("GEN_URL"),
		Model:   cfg.MayString("GEN_MODEL", "midm-mini"),
		APIKey:  cfg.MayString("GEN_API_KEY", ""),
		Timeout: cfg.MayDuration("GEN_TIMEOUT", 90*time.Second),
	}
}

// Generator calls the generation oracle over a chat-completions wire shape
type Generator struct {
	cfg    GenerateConfig
	client *http.Client
}

// NewGenerator constructs a Generator
func NewGenerator(cfg GenerateConfig) *Generator {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	return &Generator{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}
}

type generateReq struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

type generateResp struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Generate runs one blocking round trip, no retry. Deterministic mode pins
// temperature to zero for greedy decoding
func (g *Generator) Generate(ctx context.Context, messages []Message, maxTokens int, deterministic bool) (string, error) {
	temp := 0.7
	if deterministic {
		temp = 0
	}

	body, err := json.Marshal(generateReq{
		Model:       g.cfg.Model,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: temp,
	})
	if err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeUnknown, "marshal generate request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeUnknown, "build generate request")
	}
	req.Header.Set("Content-Type", "application/json")
	if g.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.cfg.APIKey)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeUpstream, "generation oracle call")
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeUpstream, "read generate response")
	}
	if resp.StatusCode != http.StatusOK {
		return "", perr.Upstreamf("generation oracle returned %d: %s", resp.StatusCode, string(raw))
	}

	var gr generateResp
	if err := json.Unmarshal(raw, &gr); err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeUpstream, "parse generate response")
	}
	if len(gr.Choices) == 0 {
		return "", perr.Upstreamf("generation oracle returned no choices")
	}
	return gr.Choices[0].Message.Content, nil
}
