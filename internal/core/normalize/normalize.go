// Package normalize provides deterministic text cleanup used by the gate and retrieval
// Pipeline order for Fold
// 1 UTF-8 repair drop invalid bytes
// 2 Unicode NFKC normalization
// 3 Case folding
// 4 Remove format chars ZWJ ZWNJ FEFF etc
// 5 Width fold fullwidth to ASCII
package normalize

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// pool of fresh transformer chains
var chainPool = sync.Pool{
	New: func() any {
		// order matters and mirrors the documented pipeline
		return transform.Chain(
			norm.NFKC,
			cases.Fold(),                       // unicode case folding
			runes.Remove(runes.In(unicode.Cf)), // strip format chars ZWJ ZWNJ FEFF etc
			width.Fold,                         // map fullwidth forms to ASCII
		)
	},
}

// Fold returns the canonical form of s following the pipeline described above
func Fold(s string) string {
	if s == "" {
		return ""
	}

	// 1 repair UTF-8 drop invalid bytes
	s = strings.ToValidUTF8(s, "")

	// 2-5 transform via pooled chain then reset and return it
	tr := chainPool.Get().(transform.Transformer)
	ns, _, _ := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)

	return Space(ns)
}

// Space converts whitespace runs to a single ASCII space and trims the edges
func Space(s string) string {
	if s == "" {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	inWS := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			inWS = true
			continue
		}
		if inWS && b.Len() > 0 {
			b.WriteByte(' ')
		}
		inWS = false
		b.WriteRune(r)
	}
	return b.String()
}

// sentence boundary lookalikes rewritten to a period before splitting
var boundaryRewriter = strings.NewReplacer(
	"\n", ".",
	"?", ".",
	"!", ".",
	"|", ".",
	"/", ".",
	"-", ".",
)

// Sentences splits s on sentence boundaries, trims each piece and drops empties.
// Question marks, bangs, pipes, slashes, dashes and newlines all count as boundaries
func Sentences(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(boundaryRewriter.Replace(s), ".")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
