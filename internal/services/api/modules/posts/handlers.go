package posts

import (
	"net/http"
	"time"

	"github.com/lumeapp/lume/internal/services/api/domain/posts"
	"github.com/lumeapp/lume/internal/services/api/httpjson"
	module "github.com/lumeapp/lume/internal/services/api/module"
	"github.com/lumeapp/lume/internal/services/api/storage"
)

type handlers struct {
	posts *posts.Service
}

func newHandlers(postsService *posts.Service) handlers {
	return handlers{posts: postsService}
}

type authorResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

func toAuthorResponse(summary storage.UserSummary) authorResponse {
	return authorResponse{
		ID:        summary.ID,
		Username:  summary.Username,
		AvatarURL: summary.AvatarURL,
	}
}

type postResponse struct {
	ID           string         `json:"id"`
	Author       authorResponse `json:"author"`
	ImageURL     string         `json:"image_url"`
	Caption      string         `json:"caption,omitempty"`
	Likes        int64          `json:"likes"`
	Comments     int64          `json:"comments"`
	IsLiked      bool           `json:"is_liked"`
	IsBookmarked bool           `json:"is_bookmarked"`
	CreatedAt    string         `json:"created_at"`
}

func toPostResponse(item posts.FeedPost) postResponse {
	return postResponse{
		ID:           item.ID,
		Author:       toAuthorResponse(item.Author),
		ImageURL:     item.ImageURL,
		Caption:      item.Caption,
		Likes:        item.Likes,
		Comments:     item.Comments,
		IsLiked:      item.IsLiked,
		IsBookmarked: item.IsBookmarked,
		CreatedAt:    item.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toPostResponses(items []posts.FeedPost) []postResponse {
	out := make([]postResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toPostResponse(item))
	}
	return out
}

type createPostRequest struct {
	StorageID string `json:"storage_id"`
	Caption   string `json:"caption"`
}

type createPostResponse struct {
	ID        string `json:"id"`
	ImageURL  string `json:"image_url"`
	Caption   string `json:"caption,omitempty"`
	CreatedAt string `json:"created_at"`
}

func (h handlers) handleCreate(w http.ResponseWriter, r *http.Request) {
	caller, ok := module.RequireCaller(w, r)
	if !ok {
		return
	}
	var body createPostRequest
	if err := httpjson.Decode(w, r, &body); err != nil {
		httpjson.WriteError(w, err)
		return
	}
	post, err := h.posts.Create(r.Context(), posts.CreateInput{
		OwnerID:   caller.UserID,
		StorageID: body.StorageID,
		Caption:   body.Caption,
	})
	if err != nil {
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusCreated, createPostResponse{
		ID:        post.ID,
		ImageURL:  post.ImageURL,
		Caption:   post.Caption,
		CreatedAt: post.CreatedAt.UTC().Format(time.RFC3339),
	})
}

func (h handlers) handleFeed(w http.ResponseWriter, r *http.Request) {
	caller, ok := module.RequireCaller(w, r)
	if !ok {
		return
	}
	feed, err := h.posts.Feed(r.Context(), caller.UserID)
	if err != nil {
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, toPostResponses(feed))
}

func (h handlers) handleDelete(w http.ResponseWriter, r *http.Request) {
	caller, ok := module.RequireCaller(w, r)
	if !ok {
		return
	}
	if err := h.posts.Delete(r.Context(), r.PathValue("postID"), caller.UserID); err != nil {
		httpjson.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h handlers) handlePostsByUser(w http.ResponseWriter, r *http.Request) {
	caller, ok := module.RequireCaller(w, r)
	if !ok {
		return
	}
	feed, err := h.posts.PostsByUser(r.Context(), r.PathValue("userID"), caller.UserID)
	if err != nil {
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, toPostResponses(feed))
}

func (h handlers) handleLikers(w http.ResponseWriter, r *http.Request) {
	if _, ok := module.RequireCaller(w, r); !ok {
		return
	}
	likers, err := h.posts.Likers(r.Context(), r.PathValue("postID"))
	if err != nil {
		httpjson.WriteError(w, err)
		return
	}
	out := make([]authorResponse, 0, len(likers))
	for _, liker := range likers {
		out = append(out, toAuthorResponse(liker))
	}
	httpjson.Write(w, http.StatusOK, out)
}
