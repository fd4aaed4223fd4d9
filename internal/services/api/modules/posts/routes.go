package posts

import (
	"net/http"

	module "github.com/lumeapp/lume/internal/services/api/module"
)

func routes(h handlers) []module.Route {
	return []module.Route{
		{Pattern: http.MethodPost + " /v1/posts", Handler: h.handleCreate},
		{Pattern: http.MethodGet + " /v1/posts", Handler: h.handleFeed},
		{Pattern: http.MethodDelete + " /v1/posts/{postID}", Handler: h.handleDelete},
		{Pattern: http.MethodGet + " /v1/posts/{postID}/likers", Handler: h.handleLikers},
		{Pattern: http.MethodGet + " /v1/users/{userID}/posts", Handler: h.handlePostsByUser},
	}
}
