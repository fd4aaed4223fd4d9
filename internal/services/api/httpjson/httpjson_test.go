package httpjson

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "github.com/lumeapp/lume/internal/platform/errors"
)

func TestWriteRendersJSON(t *testing.T) {
	recorder := httptest.NewRecorder()
	Write(recorder, http.StatusCreated, map[string]string{"id": "post-1"})

	if recorder.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", recorder.Code, http.StatusCreated)
	}
	if got := recorder.Header().Get("Content-Type"); !strings.HasPrefix(got, "application/json") {
		t.Fatalf("content type = %q", got)
	}
	var body map[string]string
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if body["id"] != "post-1" {
		t.Fatalf("body = %v", body)
	}
}

func TestWriteErrorRendersDomainCode(t *testing.T) {
	recorder := httptest.NewRecorder()
	WriteError(recorder, apperrors.New(apperrors.CodePostNotFound, "post not found"))

	if recorder.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", recorder.Code, http.StatusNotFound)
	}
	var body errorBody
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if body.Error.Code != string(apperrors.CodePostNotFound) {
		t.Fatalf("code = %q", body.Error.Code)
	}
	if body.Error.Message != "post not found" {
		t.Fatalf("message = %q", body.Error.Message)
	}
}

func TestWriteErrorHidesUnclassifiedErrors(t *testing.T) {
	recorder := httptest.NewRecorder()
	WriteError(recorder, errors.New("db: disk I/O error at offset 4096"))

	if recorder.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", recorder.Code, http.StatusInternalServerError)
	}
	var body errorBody
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if body.Error.Message != "internal error" {
		t.Fatalf("message = %q, want opaque internal error", body.Error.Message)
	}
}

func TestDecode(t *testing.T) {
	type payload struct {
		Caption string `json:"caption"`
	}

	request := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"caption":"hi"}`))
	var got payload
	if err := Decode(httptest.NewRecorder(), request, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Caption != "hi" {
		t.Fatalf("caption = %q", got.Caption)
	}
}

func TestDecodeRejectsBadBodies(t *testing.T) {
	type payload struct {
		Caption string `json:"caption"`
	}

	tests := []struct {
		name string
		body string
	}{
		{name: "empty body", body: ""},
		{name: "malformed json", body: "{"},
		{name: "unknown field", body: `{"surprise":true}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))
			var got payload
			err := Decode(httptest.NewRecorder(), request, &got)
			if apperrors.CodeOf(err) != apperrors.CodeInvalidArgument {
				t.Fatalf("err = %v, want code %s", err, apperrors.CodeInvalidArgument)
			}
		})
	}
}
