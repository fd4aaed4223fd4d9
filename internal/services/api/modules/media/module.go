// Package media exposes image blob upload and serving over HTTP.
package media

import (
	"github.com/lumeapp/lume/internal/platform/id"
	module "github.com/lumeapp/lume/internal/services/api/module"
)

// Module provides media routes.
type Module struct {
	newID func() (string, error)
}

// New returns a media module.
func New() Module {
	return Module{newID: id.NewID}
}

// NewWithIDGenerator returns a media module with an explicit storage ID
// generator.
func NewWithIDGenerator(newID func() (string, error)) Module {
	return Module{newID: newID}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "media" }

// Mount wires media route handlers.
func (m Module) Mount(deps module.Dependencies) (module.Mount, error) {
	newID := m.newID
	if newID == nil {
		newID = id.NewID
	}
	h := newHandlers(deps.Media, deps.Uploads, newID)
	return module.Mount{Routes: routes(h)}, nil
}
