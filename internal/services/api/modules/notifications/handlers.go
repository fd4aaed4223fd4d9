package notifications

import (
	"net/http"
	"time"

	"github.com/lumeapp/lume/internal/services/api/domain/notify"
	"github.com/lumeapp/lume/internal/services/api/httpjson"
	module "github.com/lumeapp/lume/internal/services/api/module"
)

type handlers struct {
	notify *notify.Service
}

func newHandlers(notifyService *notify.Service) handlers {
	return handlers{notify: notifyService}
}

type senderResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

type notificationResponse struct {
	ID           string         `json:"id"`
	Type         string         `json:"type"`
	Sender       senderResponse `json:"sender"`
	PostID       string         `json:"post_id,omitempty"`
	PostImageURL string         `json:"post_image_url,omitempty"`
	CommentText  string         `json:"comment_text,omitempty"`
	CreatedAt    string         `json:"created_at"`
}

func (h handlers) handleInbox(w http.ResponseWriter, r *http.Request) {
	caller, ok := module.RequireCaller(w, r)
	if !ok {
		return
	}
	items, err := h.notify.Inbox(r.Context(), caller.UserID)
	if err != nil {
		httpjson.WriteError(w, err)
		return
	}
	out := make([]notificationResponse, 0, len(items))
	for _, item := range items {
		out = append(out, notificationResponse{
			ID:   item.ID,
			Type: item.Type,
			Sender: senderResponse{
				ID:        item.Sender.ID,
				Username:  item.Sender.Username,
				AvatarURL: item.Sender.AvatarURL,
			},
			PostID:       item.PostID,
			PostImageURL: item.PostImageURL,
			CommentText:  item.CommentText,
			CreatedAt:    item.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	httpjson.Write(w, http.StatusOK, out)
}
