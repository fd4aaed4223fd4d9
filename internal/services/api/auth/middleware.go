// Package auth resolves bearer tokens into the request caller identity.
package auth

import (
	"net/http"
	"strings"

	apperrors "github.com/lumeapp/lume/internal/platform/errors"
	"github.com/lumeapp/lume/internal/platform/requestctx"
	"github.com/lumeapp/lume/internal/services/api/domain/directory"
	"github.com/lumeapp/lume/internal/services/api/httpjson"
	"github.com/lumeapp/lume/internal/services/api/identity"
)

// Middleware verifies the bearer token on every request and attaches the
// caller identity to the request context. The directory lookup is optional:
// a verified subject without a record still reaches handlers, so first
// sign-in can create one.
func Middleware(cfg identity.Config, directoryService *directory.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.NotFoundHandler()
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				httpjson.WriteError(w, apperrors.New(apperrors.CodeUnauthorized, "bearer token is required"))
				return
			}
			verified, err := identity.VerifyToken(token, cfg)
			if err != nil {
				httpjson.WriteError(w, err)
				return
			}

			caller := requestctx.Caller{Subject: verified.Subject}
			user, err := directoryService.GetBySubject(r.Context(), verified.Subject)
			if err == nil {
				caller.UserID = user.ID
			} else if apperrors.CodeOf(err) != apperrors.CodeUserNotFound {
				httpjson.WriteError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(requestctx.WithCaller(r.Context(), caller)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
