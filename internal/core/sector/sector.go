// Package sector identifies the single business sector a question is about
// by frequency voting over the synonym table
package sector

import (
	"strings"

	"shopkeeper/internal/core/keywordpack"
)

// Detect votes once per matching synonym plus once for the sector's own label
// appearing as a substring of the lowercased question. Most votes wins; ties
// fall to the sector listed first in the table. Zero votes returns the
// fallback label
func Detect(p *keywordpack.Pack, question string) string {
	q := strings.ToLower(question)

	best := p.FallbackSector
	bestVotes := 0
	for _, s := range p.Sectors {
		votes := 0
		for _, syn := range s.Synonyms {
			if strings.Contains(q, syn) {
				votes++
			}
		}
		if strings.Contains(q, s.Label) {
			votes++
		}
		if votes > bestVotes {
			bestVotes = votes
			best = s.Label
		}
	}
	return best
}
