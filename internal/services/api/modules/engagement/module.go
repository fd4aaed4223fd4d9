// Package engagement exposes likes, bookmarks, and comments over HTTP.
package engagement

import (
	module "github.com/lumeapp/lume/internal/services/api/module"
)

// Module provides engagement routes.
type Module struct{}

// New returns an engagement module.
func New() Module {
	return Module{}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "engagement" }

// Mount wires engagement route handlers.
func (Module) Mount(deps module.Dependencies) (module.Mount, error) {
	h := newHandlers(deps.Engagement)
	return module.Mount{Routes: routes(h)}, nil
}
