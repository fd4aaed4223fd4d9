package users

import (
	"net/http"
	"time"

	"github.com/lumeapp/lume/internal/services/api/domain/directory"
	"github.com/lumeapp/lume/internal/services/api/domain/graph"
	"github.com/lumeapp/lume/internal/services/api/httpjson"
	module "github.com/lumeapp/lume/internal/services/api/module"
	"github.com/lumeapp/lume/internal/services/api/storage"
)

type handlers struct {
	directory *directory.Service
	graph     *graph.Service
}

func newHandlers(directoryService *directory.Service, graphService *graph.Service) handlers {
	return handlers{directory: directoryService, graph: graphService}
}

type userResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Fullname  string `json:"fullname"`
	Email     string `json:"email"`
	Bio       string `json:"bio,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Posts     int64  `json:"posts"`
	Followers int64  `json:"followers"`
	Following int64  `json:"following"`
	CreatedAt string `json:"created_at"`
}

func toUserResponse(user storage.User) userResponse {
	return userResponse{
		ID:        user.ID,
		Username:  user.Username,
		Fullname:  user.Fullname,
		Email:     user.Email,
		Bio:       user.Bio,
		AvatarURL: user.AvatarURL,
		Posts:     user.Posts,
		Followers: user.Followers,
		Following: user.Following,
		CreatedAt: user.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toUserResponses(users []storage.User) []userResponse {
	out := make([]userResponse, 0, len(users))
	for _, user := range users {
		out = append(out, toUserResponse(user))
	}
	return out
}

type createUserRequest struct {
	Username  string `json:"username"`
	Fullname  string `json:"fullname"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

func (h handlers) handleCreate(w http.ResponseWriter, r *http.Request) {
	subject, ok := module.RequireSubject(w, r)
	if !ok {
		return
	}
	var body createUserRequest
	if err := httpjson.Decode(w, r, &body); err != nil {
		httpjson.WriteError(w, err)
		return
	}
	user, err := h.directory.CreateUser(r.Context(), directory.CreateUserInput{
		Subject:   subject,
		Username:  body.Username,
		Fullname:  body.Fullname,
		Email:     body.Email,
		AvatarURL: body.AvatarURL,
	})
	if err != nil {
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, toUserResponse(user))
}

func (h handlers) handleMe(w http.ResponseWriter, r *http.Request) {
	caller, ok := module.RequireCaller(w, r)
	if !ok {
		return
	}
	user, err := h.directory.GetByID(r.Context(), caller.UserID)
	if err != nil {
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, toUserResponse(user))
}

type updateProfileRequest struct {
	Fullname string `json:"fullname"`
	Bio      string `json:"bio"`
}

func (h handlers) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	caller, ok := module.RequireCaller(w, r)
	if !ok {
		return
	}
	var body updateProfileRequest
	if err := httpjson.Decode(w, r, &body); err != nil {
		httpjson.WriteError(w, err)
		return
	}
	user, err := h.directory.UpdateProfile(r.Context(), directory.UpdateProfileInput{
		UserID:   caller.UserID,
		Fullname: body.Fullname,
		Bio:      body.Bio,
	})
	if err != nil {
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, toUserResponse(user))
}

func (h handlers) handleByEmail(w http.ResponseWriter, r *http.Request) {
	if _, ok := module.RequireCaller(w, r); !ok {
		return
	}
	user, err := h.directory.GetByEmail(r.Context(), r.URL.Query().Get("email"))
	if err != nil {
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, toUserResponse(user))
}

func (h handlers) handleGet(w http.ResponseWriter, r *http.Request) {
	if _, ok := module.RequireCaller(w, r); !ok {
		return
	}
	user, err := h.directory.GetByID(r.Context(), r.PathValue("userID"))
	if err != nil {
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, toUserResponse(user))
}

func (h handlers) handleFollowers(w http.ResponseWriter, r *http.Request) {
	if _, ok := module.RequireCaller(w, r); !ok {
		return
	}
	users, err := h.graph.Followers(r.Context(), r.PathValue("userID"))
	if err != nil {
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, toUserResponses(users))
}

func (h handlers) handleFollowing(w http.ResponseWriter, r *http.Request) {
	if _, ok := module.RequireCaller(w, r); !ok {
		return
	}
	users, err := h.graph.Following(r.Context(), r.PathValue("userID"))
	if err != nil {
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, toUserResponses(users))
}

type followStateResponse struct {
	Following bool `json:"following"`
}

func (h handlers) handleFollowState(w http.ResponseWriter, r *http.Request) {
	caller, ok := module.RequireCaller(w, r)
	if !ok {
		return
	}
	following, err := h.graph.IsFollowing(r.Context(), caller.UserID, r.PathValue("userID"))
	if err != nil {
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, followStateResponse{Following: following})
}

func (h handlers) handleFollowToggle(w http.ResponseWriter, r *http.Request) {
	caller, ok := module.RequireCaller(w, r)
	if !ok {
		return
	}
	following, err := h.graph.Toggle(r.Context(), caller.UserID, r.PathValue("userID"))
	if err != nil {
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, followStateResponse{Following: following})
}
