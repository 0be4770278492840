package corpus

import (
	"context"

	"shopkeeper/internal/platform/logger"
)

// Embedder vectorizes evidence texts; satisfied by the embedding oracle client
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// embedBatch bounds one oracle round trip during index builds
const embedBatch = 64

// Build loads every source, projects its records and embeds them into one
// index. A failed source degrades to zero records, a failed embedding call
// degrades the whole index to empty; Build never fails the process
func Build(ctx context.Context, log logger.Logger, emb Embedder, sources ...Source) *Index {
	var records []Record
	for _, src := range sources {
		recs, err := src.Load(ctx)
		if err != nil {
			log.Warn().Err(err).Str("source", src.Name()).Msg("corpus source failed, skipping")
			continue
		}
		log.Info().Str("source", src.Name()).Int("records", len(recs)).Msg("corpus source loaded")
		records = append(records, recs...)
	}
	if len(records) == 0 {
		return Empty()
	}

	vectors := make([][]float32, 0, len(records))
	for start := 0; start < len(records); start += embedBatch {
		end := start + embedBatch
		if end > len(records) {
			end = len(records)
		}
		texts := make([]string, 0, end-start)
		for _, r := range records[start:end] {
			texts = append(texts, r.Text)
		}
		vecs, err := emb.Embed(ctx, texts)
		if err != nil {
			log.Warn().Err(err).Int("records", len(records)).Msg("corpus embedding failed, index degraded to empty")
			return Empty()
		}
		vectors = append(vectors, vecs...)
	}

	log.Info().Int("records", len(records)).Msg("corpus index built")
	return NewIndex(records, vectors)
}
