// Package meta exposes liveness and readiness endpoints
package meta

import (
	"net/http"

	"shopkeeper/internal/corpus"
	"shopkeeper/internal/modkit"
	"shopkeeper/internal/modkit/httpkit"
	phttp "shopkeeper/internal/platform/net/http"
)

// Indexes reports the sizes of the process-wide corpora
type Indexes struct {
	Statistics *corpus.Index
	Business   *corpus.Index
	Policy     *corpus.Index
}

// Module serves /healthz and /readyz
type Module struct {
	ix    Indexes
	built modkit.Built
}

// New constructs the meta module
func New(ix Indexes, opts ...modkit.Option) *Module {
	m := &Module{ix: ix}
	m.built = modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithRegister(m.register),
	}, opts...)...)
	return m
}

func (m *Module) register(r phttp.Router) {
	httpkit.Get(r, "/healthz", func(*http.Request) (any, error) {
		return map[string]string{"status": "ok"}, nil
	})
	httpkit.Get(r, "/readyz", func(*http.Request) (any, error) {
		return map[string]any{
			"status": "ok",
			"corpora": map[string]int{
				"statistics": m.ix.Statistics.Len(),
				"business":   m.ix.Business.Len(),
				"policy":     m.ix.Policy.Len(),
			},
		}, nil
	})
}

// MountRoutes implements modkit.Module
func (m *Module) MountRoutes(r phttp.Router) { modkit.Mount(r, m.built) }

// Name implements modkit.Module
func (m *Module) Name() string { return m.built.Name }
