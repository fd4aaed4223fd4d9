// Package users exposes the user directory and follow graph over HTTP.
package users

import (
	module "github.com/lumeapp/lume/internal/services/api/module"
)

// Module provides user directory and follow routes.
type Module struct{}

// New returns a users module.
func New() Module {
	return Module{}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "users" }

// Mount wires user route handlers.
func (Module) Mount(deps module.Dependencies) (module.Mount, error) {
	h := newHandlers(deps.Directory, deps.Graph)
	return module.Mount{Routes: routes(h)}, nil
}
