// Package retrieval turns a question into a bounded, deduplicated evidence
// set: generic similarity hits from the dual index plus sector-targeted
// statistics and business examples
package retrieval

import (
	"context"

	"shopkeeper/internal/corpus"
)

// ContextBudget caps the assembled evidence handed to the generation oracle
const ContextBudget = 8

// default per-index cuts for the basic similarity pass
const (
	statisticsTopK = 5
	businessTopK   = 3
)

// sectorStatsTake bounds how many sector statistics lead the assembly
const sectorStatsTake = 3

// PickBudget caps the business examples surfaced per request
const PickBudget = 3

// Pick is one selected business example
type Pick struct {
	Name   string
	Status corpus.Status
}

// Assembly is the full retrieval result for one question
type Assembly struct {
	Contexts        []string
	Sector          string // detected sector label, or the fallback sentinel
	Picks           []Pick
	TotalBusinesses int // sector-matching candidates, not just the ones shown
}

// Embedder is the embedding oracle port
type Embedder interface {
	EmbedOne(ctx context.Context, text string) ([]float32, error)
}
