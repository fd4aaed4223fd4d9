package engagement

import (
	"net/http"
	"time"

	"github.com/lumeapp/lume/internal/services/api/domain/engagement"
	"github.com/lumeapp/lume/internal/services/api/httpjson"
	module "github.com/lumeapp/lume/internal/services/api/module"
	"github.com/lumeapp/lume/internal/services/api/storage"
)

type handlers struct {
	engagement *engagement.Service
}

func newHandlers(engagementService *engagement.Service) handlers {
	return handlers{engagement: engagementService}
}

type likeStateResponse struct {
	Liked bool `json:"liked"`
}

func (h handlers) handleLikeToggle(w http.ResponseWriter, r *http.Request) {
	caller, ok := module.RequireCaller(w, r)
	if !ok {
		return
	}
	liked, err := h.engagement.ToggleLike(r.Context(), caller.UserID, r.PathValue("postID"))
	if err != nil {
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, likeStateResponse{Liked: liked})
}

type bookmarkStateResponse struct {
	Bookmarked bool `json:"bookmarked"`
}

func (h handlers) handleBookmarkToggle(w http.ResponseWriter, r *http.Request) {
	caller, ok := module.RequireCaller(w, r)
	if !ok {
		return
	}
	bookmarked, err := h.engagement.ToggleBookmark(r.Context(), caller.UserID, r.PathValue("postID"))
	if err != nil {
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, bookmarkStateResponse{Bookmarked: bookmarked})
}

type bookmarkedPostResponse struct {
	ID        string `json:"id"`
	ImageURL  string `json:"image_url"`
	Caption   string `json:"caption,omitempty"`
	Likes     int64  `json:"likes"`
	Comments  int64  `json:"comments"`
	CreatedAt string `json:"created_at"`
}

func (h handlers) handleBookmarks(w http.ResponseWriter, r *http.Request) {
	caller, ok := module.RequireCaller(w, r)
	if !ok {
		return
	}
	posts, err := h.engagement.BookmarkedPosts(r.Context(), caller.UserID)
	if err != nil {
		httpjson.WriteError(w, err)
		return
	}
	out := make([]bookmarkedPostResponse, 0, len(posts))
	for _, post := range posts {
		out = append(out, bookmarkedPostResponse{
			ID:        post.ID,
			ImageURL:  post.ImageURL,
			Caption:   post.Caption,
			Likes:     post.Likes,
			Comments:  post.Comments,
			CreatedAt: post.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	httpjson.Write(w, http.StatusOK, out)
}

type addCommentRequest struct {
	Content string `json:"content"`
}

type commentResponse struct {
	ID        string                `json:"id"`
	Author    commentAuthorResponse `json:"author"`
	Content   string                `json:"content"`
	CreatedAt string                `json:"created_at"`
}

type commentAuthorResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

func toCommentAuthorResponse(summary storage.UserSummary) commentAuthorResponse {
	return commentAuthorResponse{
		ID:        summary.ID,
		Username:  summary.Username,
		AvatarURL: summary.AvatarURL,
	}
}

func (h handlers) handleAddComment(w http.ResponseWriter, r *http.Request) {
	caller, ok := module.RequireCaller(w, r)
	if !ok {
		return
	}
	var body addCommentRequest
	if err := httpjson.Decode(w, r, &body); err != nil {
		httpjson.WriteError(w, err)
		return
	}
	comment, err := h.engagement.AddComment(r.Context(), caller.UserID, r.PathValue("postID"), body.Content)
	if err != nil {
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusCreated, commentResponse{
		ID:        comment.ID,
		Author:    commentAuthorResponse{ID: caller.UserID},
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt.UTC().Format(time.RFC3339),
	})
}

func (h handlers) handleComments(w http.ResponseWriter, r *http.Request) {
	if _, ok := module.RequireCaller(w, r); !ok {
		return
	}
	views, err := h.engagement.Comments(r.Context(), r.PathValue("postID"))
	if err != nil {
		httpjson.WriteError(w, err)
		return
	}
	out := make([]commentResponse, 0, len(views))
	for _, view := range views {
		out = append(out, commentResponse{
			ID:        view.ID,
			Author:    toCommentAuthorResponse(view.Author),
			Content:   view.Content,
			CreatedAt: view.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	httpjson.Write(w, http.StatusOK, out)
}
