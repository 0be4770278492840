// Package gate implements the deterministic pre-classifier: a keyword scorer,
// a sentence-picking preprocessor and a fixed-precedence category gate that
// decides reject/policy without touching the generation oracle
package gate

import (
	"sort"
	"strings"

	"shopkeeper/internal/core/keywordpack"
	"shopkeeper/internal/core/normalize"
)

// DefaultMaxLen bounds the summary forwarded to the letter classifier
const DefaultMaxLen = 300

// Verdict is the gate outcome
type Verdict int

const (
	// Undetermined falls through to the letter classifier
	Undetermined Verdict = iota
	// Reject maps to the unknown category without an oracle call
	Reject
	// Policy fast-paths to the policy category without an oracle call
	Policy
)

// Summary is the preprocessed question plus the two gate flags
type Summary struct {
	Text      string
	RejectHit bool
	PolicyHit bool
}

// family weights; presence per family only, count never matters
const (
	weightReject  = 10
	weightRegion  = 2
	weightPolicy  = 2
	weightStartup = 1
	weightTrend   = 1
)

func anyContains(haystack string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(haystack, t) {
			return true
		}
	}
	return false
}

// ScoreSentence returns the additive family score of one sentence
func ScoreSentence(p *keywordpack.Pack, sent string) int {
	score := 0
	if anyContains(sent, p.Reject) {
		score += weightReject
	}
	if anyContains(sent, p.Region) {
		score += weightRegion
	}
	if anyContains(sent, p.Policy) {
		score += weightPolicy
	}
	if anyContains(sent, p.Startup) {
		score += weightStartup
	}
	if anyContains(sent, p.Trend) {
		score += weightTrend
	}
	return score
}

// spamHit checks the raw question for doubled special-character tokens
func spamHit(p *keywordpack.Pack, question string) bool {
	for _, tok := range p.SpamTokens {
		if strings.Contains(question, tok) {
			return true
		}
	}
	return false
}

// Preprocess computes the gate flags over the full lowercased question, then
// condenses the question to its top two sentences by (score, length) for the
// classifier. maxLen <= 0 uses DefaultMaxLen
func Preprocess(p *keywordpack.Pack, question string, maxLen int) Summary {
	if maxLen <= 0 {
		maxLen = DefaultMaxLen
	}

	lower := strings.ToLower(question)
	s := Summary{
		RejectHit: anyContains(lower, p.Reject) || spamHit(p, question),
		PolicyHit: anyContains(lower, p.Policy),
	}

	q := normalize.Space(question)
	sents := normalize.Sentences(q)
	if len(sents) == 0 {
		s.Text = truncate(q, maxLen)
		return s
	}

	type scored struct {
		score int
		sent  string
		pos   int
	}
	ranked := make([]scored, len(sents))
	for i, sent := range sents {
		ranked[i] = scored{score: ScoreSentence(p, strings.ToLower(sent)), sent: sent, pos: i}
	}
	// score first, longer sentence breaks ties, original order last
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return len(ranked[i].sent) > len(ranked[j].sent)
	})

	n := 2
	if len(ranked) < n {
		n = len(ranked)
	}
	picked := make([]string, 0, n)
	for _, r := range ranked[:n] {
		picked = append(picked, r.sent)
	}

	s.Text = truncate(normalize.Space(strings.Join(picked, ". ")), maxLen)
	return s
}

// Resolve applies the hard precedence rule: policy overrides reject, but
// reject alone always wins over nothing
func Resolve(s Summary) Verdict {
	switch {
	case s.RejectHit && !s.PolicyHit:
		return Reject
	case s.PolicyHit:
		return Policy
	default:
		return Undetermined
	}
}

// truncate cuts at a rune boundary, never mid-character
func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
