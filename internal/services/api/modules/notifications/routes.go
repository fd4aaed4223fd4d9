package notifications

import (
	"net/http"

	module "github.com/lumeapp/lume/internal/services/api/module"
)

func routes(h handlers) []module.Route {
	return []module.Route{
		{Pattern: http.MethodGet + " /v1/notifications", Handler: h.handleInbox},
	}
}
