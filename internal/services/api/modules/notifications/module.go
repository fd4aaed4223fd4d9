// Package notifications exposes the per-user notification inbox over HTTP.
package notifications

import (
	module "github.com/lumeapp/lume/internal/services/api/module"
)

// Module provides inbox routes.
type Module struct{}

// New returns a notifications module.
func New() Module {
	return Module{}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "notifications" }

// Mount wires inbox route handlers.
func (Module) Mount(deps module.Dependencies) (module.Mount, error) {
	h := newHandlers(deps.Notify)
	return module.Mount{Routes: routes(h)}, nil
}
