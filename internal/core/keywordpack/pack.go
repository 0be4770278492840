// Package keywordpack loads the embedded keywords.json: the keyword families
// behind the deterministic category gate, the spam tokens, and the sector
// synonym table used to scope retrieval
package keywordpack

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
)

//go:embed keywords.json
var embedded []byte

type rawFamilies struct {
	Reject  []string `json:"reject"`
	Region  []string `json:"region"`
	Policy  []string `json:"policy"`
	Startup []string `json:"startup"`
	Trend   []string `json:"trend"`
}

type rawSector struct {
	Label    string   `json:"label"`
	Synonyms []string `json:"synonyms"`
}

type rawPack struct {
	Version        int            `json:"version"`
	Meta           map[string]any `json:"meta"`
	Families       rawFamilies    `json:"families"`
	SpamTokens     []string       `json:"spam_tokens"`
	FallbackSector string         `json:"fallback_sector"`
	Sectors        []rawSector    `json:"sectors"`
}

// Sector is one business-category entry of the synonym table.
// Slice order in keywords.json is the tie-break order for detection
type Sector struct {
	Label    string
	Synonyms []string
}

// Pack holds the compiled keyword tables. Immutable after Load
type Pack struct {
	Version int
	Meta    map[string]any

	// Keyword families, lowercased and deduped, original order kept
	Reject  []string
	Region  []string
	Policy  []string
	Startup []string
	Trend   []string

	// Doubled special-character tokens checked literally against the raw question
	SpamTokens []string

	// Sector synonym table plus the zero-vote sentinel label
	Sectors        []Sector
	FallbackSector string
}

// Load returns the compiled pack from the embedded keywords.json
func Load() (*Pack, error) {
	var rp rawPack
	if err := json.Unmarshal(embedded, &rp); err != nil {
		return nil, fmt.Errorf("keywordpack: parse keywords.json: %w", err)
	}
	if rp.Version != 1 {
		return nil, fmt.Errorf("keywordpack: unsupported keywords.json version %d (want 1)", rp.Version)
	}
	if rp.FallbackSector == "" {
		return nil, fmt.Errorf("keywordpack: fallback_sector missing")
	}

	p := &Pack{
		Version:        rp.Version,
		Meta:           rp.Meta,
		Reject:         cleanTerms(rp.Families.Reject),
		Region:         cleanTerms(rp.Families.Region),
		Policy:         cleanTerms(rp.Families.Policy),
		Startup:        cleanTerms(rp.Families.Startup),
		Trend:          cleanTerms(rp.Families.Trend),
		FallbackSector: rp.FallbackSector,
	}

	// Spam tokens stay verbatim; they are matched against the raw question
	for _, tok := range rp.SpamTokens {
		tok = strings.TrimSpace(tok)
		if tok != "" {
			p.SpamTokens = append(p.SpamTokens, tok)
		}
	}

	for _, s := range rp.Sectors {
		label := strings.ToLower(strings.TrimSpace(s.Label))
		if label == "" {
			continue
		}
		p.Sectors = append(p.Sectors, Sector{
			Label:    label,
			Synonyms: cleanTerms(s.Synonyms),
		})
	}

	if len(p.Reject) == 0 || len(p.Policy) == 0 {
		return nil, fmt.Errorf("keywordpack: reject and policy families must be non-empty")
	}

	return p, nil
}

// MustLoad panics on a broken embedded pack; used at process start
func MustLoad() *Pack {
	p, err := Load()
	if err != nil {
		panic(err)
	}
	return p
}

// cleanTerms lowercases, trims and dedupes while keeping first-seen order
func cleanTerms(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, t := range in {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
