package media

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/lumeapp/lume/internal/platform/errors"
	"github.com/lumeapp/lume/internal/platform/storage/blobstore"
	"github.com/lumeapp/lume/internal/services/api/httpjson"
	module "github.com/lumeapp/lume/internal/services/api/module"
	"github.com/lumeapp/lume/internal/services/api/storage"
)

// maxUploadBytes caps a single image upload.
const maxUploadBytes = 10 << 20

type handlers struct {
	blobs   blobstore.Store
	uploads storage.UploadStore
	newID   func() (string, error)
}

func newHandlers(blobs blobstore.Store, uploads storage.UploadStore, newID func() (string, error)) handlers {
	return handlers{blobs: blobs, uploads: uploads, newID: newID}
}

type createUploadResponse struct {
	StorageID string `json:"storage_id"`
	UploadURL string `json:"upload_url"`
}

func (h handlers) handleCreateUpload(w http.ResponseWriter, r *http.Request) {
	subject, ok := module.RequireSubject(w, r)
	if !ok {
		return
	}
	storageID, err := h.newID()
	if err != nil {
		httpjson.WriteError(w, err)
		return
	}
	if err := h.uploads.InsertUpload(r.Context(), storage.Upload{
		StorageID: storageID,
		Subject:   subject,
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, createUploadResponse{
		StorageID: storageID,
		UploadURL: "/v1/media/uploads/" + storageID,
	})
}

func (h handlers) handleUpload(w http.ResponseWriter, r *http.Request) {
	subject, ok := module.RequireSubject(w, r)
	if !ok {
		return
	}
	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		httpjson.WriteError(w, apperrors.New(apperrors.CodeInvalidArgument, "content type must be an image"))
		return
	}
	storageID := r.PathValue("storageID")
	if err := h.uploads.ConsumeUpload(r.Context(), storageID, subject, time.Now().UTC()); err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			httpjson.WriteError(w, apperrors.New(apperrors.CodeMediaNotFound, "upload slot not found"))
		case errors.Is(err, storage.ErrNotOwner):
			httpjson.WriteError(w, apperrors.New(apperrors.CodeForbidden, "upload slot belongs to another user"))
		case errors.Is(err, storage.ErrAlreadyExists):
			httpjson.WriteError(w, apperrors.New(apperrors.CodeForbidden, "upload slot already used"))
		default:
			httpjson.WriteError(w, err)
		}
		return
	}
	body := http.MaxBytesReader(w, r.Body, maxUploadBytes)
	defer body.Close()

	if err := h.blobs.Put(r.Context(), storageID, contentType, body); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			httpjson.WriteError(w, apperrors.New(apperrors.CodeInvalidArgument, "image exceeds upload limit"))
			return
		}
		httpjson.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h handlers) handleServe(w http.ResponseWriter, r *http.Request) {
	content, contentType, err := h.blobs.Open(r.Context(), r.PathValue("storageID"))
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			httpjson.WriteError(w, apperrors.New(apperrors.CodeMediaNotFound, "media not found"))
			return
		}
		httpjson.WriteError(w, err)
		return
	}
	defer content.Close()

	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	w.Header().Set("Cache-Control", "private, max-age=86400")
	if _, err := io.Copy(w, content); err != nil {
		log.Printf("serve media %s: %v", r.PathValue("storageID"), err)
	}
}
