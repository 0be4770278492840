package retrieval

import (
	"context"
	"sort"
	"strings"

	"shopkeeper/internal/core/keywordpack"
	"shopkeeper/internal/core/normalize"
	"shopkeeper/internal/core/sector"
	"shopkeeper/internal/corpus"
	"shopkeeper/internal/modkit"
	"shopkeeper/internal/platform/logger"
)

// Service retrieves evidence from the frozen indexes. Safe for concurrent use
type Service struct {
	pack  *keywordpack.Pack
	stats *corpus.Index
	biz   *corpus.Index
	emb   Embedder
	log   logger.Logger
}

// New constructs a retrieval service over the two indexes
func New(d modkit.Deps, pack *keywordpack.Pack, stats, biz *corpus.Index, emb Embedder) *Service {
	return &Service{pack: pack, stats: stats, biz: biz, emb: emb, log: d.Named("retrieval")}
}

// SectorStatistics returns statistics records mentioning the sector, most
// recent year first; records without a parsable year sort last
func (s *Service) SectorStatistics(sec string) []corpus.Record {
	needle := strings.ToLower(sec)
	var out []corpus.Record
	for _, r := range s.stats.Records() {
		if r.Kind != corpus.KindStatistic || !strings.Contains(r.Text, corpus.MarkStatistic) {
			continue
		}
		if !strings.Contains(strings.ToLower(r.Text), needle) {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Year > out[j].Year
	})
	return out
}

// SectorBusinesses waterfall-selects up to PickBudget examples for the
// sector: keyword+open, other+open, keyword+closed, other+closed, keeping
// original order inside each tier. The second return is the total number of
// sector-matching candidates
func (s *Service) SectorBusinesses(sec string, userKeywords []string) ([]Pick, int) {
	needle := strings.ToLower(sec)

	var keywordOpen, otherOpen, keywordClosed, otherClosed []Pick
	total := 0
	for _, r := range s.biz.Records() {
		if r.Kind != corpus.KindBusiness || !strings.Contains(r.Text, corpus.MarkBusiness) {
			continue
		}
		if !strings.Contains(strings.ToLower(r.Text), needle) {
			continue
		}
		total++

		pick := Pick{Name: r.Name, Status: r.Status}
		matched := nameMatches(r.Name, userKeywords)
		open := r.Status == corpus.StatusOpen
		switch {
		case matched && open:
			keywordOpen = append(keywordOpen, pick)
		case open:
			otherOpen = append(otherOpen, pick)
		case matched:
			keywordClosed = append(keywordClosed, pick)
		default:
			otherClosed = append(otherClosed, pick)
		}
	}

	selected := make([]Pick, 0, PickBudget)
	for _, tier := range [][]Pick{keywordOpen, otherOpen, keywordClosed, otherClosed} {
		for _, p := range tier {
			if len(selected) == PickBudget {
				return selected, total
			}
			selected = append(selected, p)
		}
	}
	return selected, total
}

// nameMatches reports whether any user keyword appears in the display name
func nameMatches(name string, keywords []string) bool {
	lower := strings.ToLower(name)
	for _, k := range keywords {
		if k != "" && strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

// UserKeywords folds the question and keeps whitespace tokens of at least
// two runes; these drive the keyword tiers of the business waterfall
func UserKeywords(question string) []string {
	var out []string
	for _, tok := range strings.Fields(normalize.Fold(question)) {
		if len([]rune(tok)) >= 2 {
			out = append(out, tok)
		}
	}
	return out
}

// Assemble embeds the question once and merges sector-targeted statistics
// with the dual-index similarity pass, deduplicated and capped
func (s *Service) Assemble(ctx context.Context, question string) (Assembly, error) {
	qvec, err := s.emb.EmbedOne(ctx, question)
	if err != nil {
		return Assembly{}, err
	}

	basic := make([]corpus.Record, 0, statisticsTopK+businessTopK)
	basic = append(basic, s.stats.TopK(qvec, statisticsTopK)...)
	basic = append(basic, s.biz.TopK(qvec, businessTopK)...)

	a := Assembly{Sector: sector.Detect(s.pack, question)}
	var lead []corpus.Record
	if a.Sector != s.pack.FallbackSector {
		lead = s.SectorStatistics(a.Sector)
		if len(lead) > sectorStatsTake {
			lead = lead[:sectorStatsTake]
		}
		a.Picks, a.TotalBusinesses = s.SectorBusinesses(a.Sector, UserKeywords(question))
	}

	seen := make(map[string]struct{}, ContextBudget)
	for _, r := range append(lead, basic...) {
		if len(a.Contexts) == ContextBudget {
			break
		}
		if _, dup := seen[r.Text]; dup {
			continue
		}
		seen[r.Text] = struct{}{}
		a.Contexts = append(a.Contexts, r.Text)
	}

	s.log.Debug().
		Str("sector", a.Sector).
		Int("contexts", len(a.Contexts)).
		Int("businesses", a.TotalBusinesses).
		Msg("evidence assembled")
	return a, nil
}
