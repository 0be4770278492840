package chat

import (
	"shopkeeper/internal/modkit"
	phttp "shopkeeper/internal/platform/net/http"
)

// Module mounts the chat service under /api
type Module struct {
	svc   *Service
	built modkit.Built
}

// NewModule wraps a Service as a mountable module
func NewModule(svc *Service, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("chat"),
		modkit.WithPrefix("/api"),
		modkit.WithRegister(func(r phttp.Router) { svc.RegisterRoutes(r) }),
	}, opts...)...)
	return &Module{svc: svc, built: b}
}

// MountRoutes implements modkit.Module
func (m *Module) MountRoutes(r phttp.Router) { modkit.Mount(r, m.built) }

// Name implements modkit.Module
func (m *Module) Name() string { return m.built.Name }
