// Package modkit provides module wiring and core deps
package modkit

import (
	"shopkeeper/internal/platform/config"
	"shopkeeper/internal/platform/logger"
	"shopkeeper/internal/platform/store/ch"
	"shopkeeper/internal/platform/store/pg"
)

// Deps holds core dependencies passed to modules
// this is wiring only and does not introduce new abstractions
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	PG  *pg.PG // optional; nil when the business corpus comes from CSV only
	CH  *ch.CH // optional; nil disables answer logging
}

// Named returns the shared logger tagged with a component field
func (d Deps) Named(component string) logger.Logger {
	return d.Log.With().Str("component", component).Logger()
}
