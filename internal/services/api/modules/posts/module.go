// Package posts exposes post lifecycle and the home feed over HTTP.
package posts

import (
	module "github.com/lumeapp/lume/internal/services/api/module"
)

// Module provides post routes.
type Module struct{}

// New returns a posts module.
func New() Module {
	return Module{}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "posts" }

// Mount wires post route handlers.
func (Module) Mount(deps module.Dependencies) (module.Mount, error) {
	h := newHandlers(deps.Posts)
	return module.Mount{Routes: routes(h)}, nil
}
