package engagement

import (
	"net/http"

	module "github.com/lumeapp/lume/internal/services/api/module"
)

func routes(h handlers) []module.Route {
	return []module.Route{
		{Pattern: http.MethodPost + " /v1/posts/{postID}/like", Handler: h.handleLikeToggle},
		{Pattern: http.MethodPost + " /v1/posts/{postID}/bookmark", Handler: h.handleBookmarkToggle},
		{Pattern: http.MethodGet + " /v1/bookmarks", Handler: h.handleBookmarks},
		{Pattern: http.MethodPost + " /v1/posts/{postID}/comments", Handler: h.handleAddComment},
		{Pattern: http.MethodGet + " /v1/posts/{postID}/comments", Handler: h.handleComments},
	}
}
