// Package oracle holds the HTTP clients for the two external model services:
// the embedding oracle and the generation oracle
package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"time"

	"shopkeeper/internal/platform/config"
	perr "shopkeeper/internal/platform/errors"
)

// EmbedConfig configures the embedding client
type EmbedConfig struct {
	URL     string // /api/embed style endpoint
	Model   string
	Timeout time.Duration
}

// EmbedConfigFromEnv reads EMBED_URL, EMBED_MODEL and EMBED_TIMEOUT
func EmbedConfigFromEnv(cfg config.Conf) EmbedConfig {
	return EmbedConfig{
		URL:     cfg.MustString("EMBED_URL"),
		Model:   cfg.MayString("EMBED_MODEL", "nomic-embed-text"),
		Timeout: cfg.MayDuration("EMBED_TIMEOUT", 30*time.Second),
	}
}

// Embedder calls the embedding oracle. Vectors are unit-normalized on return
// so ranking by dot product equals ranking by cosine
type Embedder struct {
	cfg    EmbedConfig
	client *http.Client
}

// NewEmbedder constructs an Embedder
func NewEmbedder(cfg EmbedConfig) *Embedder {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Embedder{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}
}

type embedReq struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResp struct {
	Embeddings [][]float32 `json:"embeddings"`
}

// Embed returns one vector per input text, in input order
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	body, err := json.Marshal(embedReq{Model: e.cfg.Model, Input: texts})
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnknown, "marshal embed request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnknown, "build embed request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUpstream, "embed oracle call")
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUpstream, "read embed response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, perr.Upstreamf("embed oracle returned %d: %s", resp.StatusCode, string(raw))
	}

	var er embedResp
	if err := json.Unmarshal(raw, &er); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUpstream, "parse embed response")
	}
	if len(er.Embeddings) != len(texts) {
		return nil, perr.Upstreamf("embed oracle returned %d vectors for %d inputs", len(er.Embeddings), len(texts))
	}

	for i, v := range er.Embeddings {
		er.Embeddings[i] = unitNormalize(v)
	}
	return er.Embeddings, nil
}

// EmbedOne embeds a single text
func (e *Embedder) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vecs) == 0 || len(vecs[0]) == 0 {
		return nil, perr.Upstreamf("embed oracle returned empty vector")
	}
	return vecs[0], nil
}

// unitNormalize divides by the L2 norm; a zero vector is returned unchanged
func unitNormalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		return v
	}
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = x / float32(norm)
	}
	return out
}
