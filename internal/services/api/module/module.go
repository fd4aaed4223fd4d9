// Package module defines the contract API feature modules mount through.
package module

import (
	"net/http"

	"github.com/lumeapp/lume/internal/platform/storage/blobstore"
	"github.com/lumeapp/lume/internal/services/api/domain/directory"
	"github.com/lumeapp/lume/internal/services/api/domain/engagement"
	"github.com/lumeapp/lume/internal/services/api/domain/graph"
	"github.com/lumeapp/lume/internal/services/api/domain/notify"
	"github.com/lumeapp/lume/internal/services/api/domain/posts"
	"github.com/lumeapp/lume/internal/services/api/storage"
)

// Dependencies carries the shared services feature modules build handlers
// from.
type Dependencies struct {
	Directory  *directory.Service
	Graph      *graph.Service
	Posts      *posts.Service
	Engagement *engagement.Service
	Notify     *notify.Service
	Media      blobstore.Store
	Uploads    storage.UploadStore
}

// Route pairs one ServeMux pattern with its handler.
type Route struct {
	Pattern string
	Handler http.HandlerFunc
}

// Mount lists the routes a module contributes to the root mux.
type Mount struct {
	Routes []Route
}

// Module is one mountable API feature.
type Module interface {
	// ID returns a stable module identifier.
	ID() string
	// Mount builds the module's route table.
	Mount(deps Dependencies) (Mount, error)
}
