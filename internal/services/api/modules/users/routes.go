package users

import (
	"net/http"

	module "github.com/lumeapp/lume/internal/services/api/module"
)

func routes(h handlers) []module.Route {
	return []module.Route{
		{Pattern: http.MethodPost + " /v1/users", Handler: h.handleCreate},
		{Pattern: http.MethodGet + " /v1/users/me", Handler: h.handleMe},
		{Pattern: http.MethodPatch + " /v1/users/me", Handler: h.handleUpdateProfile},
		{Pattern: http.MethodGet + " /v1/users/by-email", Handler: h.handleByEmail},
		{Pattern: http.MethodGet + " /v1/users/{userID}", Handler: h.handleGet},
		{Pattern: http.MethodGet + " /v1/users/{userID}/followers", Handler: h.handleFollowers},
		{Pattern: http.MethodGet + " /v1/users/{userID}/following", Handler: h.handleFollowing},
		{Pattern: http.MethodGet + " /v1/users/{userID}/follow", Handler: h.handleFollowState},
		{Pattern: http.MethodPost + " /v1/users/{userID}/follow", Handler: h.handleFollowToggle},
	}
}
