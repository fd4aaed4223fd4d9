package module

import (
	"net/http"

	apperrors "github.com/lumeapp/lume/internal/platform/errors"
	"github.com/lumeapp/lume/internal/platform/requestctx"
	"github.com/lumeapp/lume/internal/services/api/httpjson"
)

// RequireCaller resolves the authenticated caller with a directory record,
// rendering the error envelope when the request carries none.
func RequireCaller(w http.ResponseWriter, r *http.Request) (requestctx.Caller, bool) {
	caller, ok := requestctx.CallerFromContext(r.Context())
	if !ok {
		httpjson.WriteError(w, apperrors.New(apperrors.CodeUserNotFound, "caller has no user record"))
		return requestctx.Caller{}, false
	}
	return caller, true
}

// RequireSubject resolves the verified identity subject, rendering the
// error envelope when the request carries none.
func RequireSubject(w http.ResponseWriter, r *http.Request) (string, bool) {
	subject, ok := requestctx.SubjectFromContext(r.Context())
	if !ok {
		httpjson.WriteError(w, apperrors.New(apperrors.CodeUnauthorized, "authentication required"))
		return "", false
	}
	return subject, true
}
