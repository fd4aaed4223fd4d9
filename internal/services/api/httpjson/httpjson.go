// Package httpjson renders JSON responses and the shared error envelope.
package httpjson

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	apperrors "github.com/lumeapp/lume/internal/platform/errors"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// errorBody is the wire shape of the error envelope.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Write renders v as a JSON response with the given status.
func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}

// WriteError renders err as the error envelope. Errors without a domain
// code become opaque 500 responses so internals stay out of the wire.
func WriteError(w http.ResponseWriter, err error) {
	code := apperrors.CodeOf(err)
	status := code.HTTPStatus()
	message := "internal error"
	if code != apperrors.CodeUnknown {
		message = err.Error()
	} else {
		log.Printf("request failed: %v", err)
	}
	Write(w, status, errorBody{Error: errorDetail{
		Code:    string(code),
		Message: message,
	}})
}

// Decode parses the JSON request body into v, rejecting unknown fields and
// oversized bodies.
func Decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return apperrors.New(apperrors.CodeInvalidArgument, "request body is required")
		}
		return apperrors.Wrap(apperrors.CodeInvalidArgument, fmt.Sprintf("malformed request body: %v", err), err)
	}
	return nil
}
