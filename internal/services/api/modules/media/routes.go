package media

import (
	"net/http"

	module "github.com/lumeapp/lume/internal/services/api/module"
)

func routes(h handlers) []module.Route {
	return []module.Route{
		{Pattern: http.MethodPost + " /v1/media/uploads", Handler: h.handleCreateUpload},
		{Pattern: http.MethodPut + " /v1/media/uploads/{storageID}", Handler: h.handleUpload},
		{Pattern: http.MethodGet + " /v1/media/{storageID}", Handler: h.handleServe},
	}
}
