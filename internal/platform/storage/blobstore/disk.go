package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const contentTypeSuffix = ".type"

// DiskStore persists media objects as flat files under a root directory.
type DiskStore struct {
	root string
}

// OpenDisk creates a disk-backed media store rooted at path.
func OpenDisk(path string) (*DiskStore, error) {
	root := strings.TrimSpace(path)
	if root == "" {
		return nil, fmt.Errorf("media storage path is required")
	}
	root = filepath.Clean(root)
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create media storage dir: %w", err)
	}
	return &DiskStore{root: root}, nil
}

func (s *DiskStore) objectPath(storageID string) (string, error) {
	storageID = strings.TrimSpace(storageID)
	if storageID == "" {
		return "", fmt.Errorf("storage id is required")
	}
	// Storage IDs are generated internally; reject anything path-like anyway.
	if storageID != filepath.Base(storageID) || strings.ContainsAny(storageID, "./\\") {
		return "", fmt.Errorf("storage id %q is invalid", storageID)
	}
	return filepath.Join(s.root, storageID), nil
}

// Put writes one object, replacing any previous content.
func (s *DiskStore) Put(ctx context.Context, storageID string, contentType string, content io.Reader) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.root == "" {
		return fmt.Errorf("media storage is not configured")
	}
	path, err := s.objectPath(storageID)
	if err != nil {
		return err
	}
	if content == nil {
		return fmt.Errorf("content is required")
	}

	file, err := os.CreateTemp(s.root, ".upload-*")
	if err != nil {
		return fmt.Errorf("create media temp file: %w", err)
	}
	tempName := file.Name()
	if _, err := io.Copy(file, content); err != nil {
		_ = file.Close()
		_ = os.Remove(tempName)
		return fmt.Errorf("write media object: %w", err)
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(tempName)
		return fmt.Errorf("close media object: %w", err)
	}
	if err := os.Rename(tempName, path); err != nil {
		_ = os.Remove(tempName)
		return fmt.Errorf("commit media object: %w", err)
	}
	contentType = strings.TrimSpace(contentType)
	if contentType != "" {
		if err := os.WriteFile(path+contentTypeSuffix, []byte(contentType), 0o644); err != nil {
			return fmt.Errorf("record media content type: %w", err)
		}
	}
	return nil
}

// Open returns the object content and its recorded content type.
func (s *DiskStore) Open(ctx context.Context, storageID string) (io.ReadCloser, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	if s == nil || s.root == "" {
		return nil, "", fmt.Errorf("media storage is not configured")
	}
	path, err := s.objectPath(storageID)
	if err != nil {
		return nil, "", err
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, "", ErrNotFound
		}
		return nil, "", fmt.Errorf("open media object: %w", err)
	}
	contentType := "application/octet-stream"
	if raw, err := os.ReadFile(path + contentTypeSuffix); err == nil {
		if value := strings.TrimSpace(string(raw)); value != "" {
			contentType = value
		}
	}
	return file, contentType, nil
}

// Exists reports whether an object is present.
func (s *DiskStore) Exists(ctx context.Context, storageID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if s == nil || s.root == "" {
		return false, fmt.Errorf("media storage is not configured")
	}
	path, err := s.objectPath(storageID)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("stat media object: %w", err)
	}
	return true, nil
}

// Delete removes one object. Deleting a missing object is not an error.
func (s *DiskStore) Delete(ctx context.Context, storageID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.root == "" {
		return fmt.Errorf("media storage is not configured")
	}
	path, err := s.objectPath(storageID)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete media object: %w", err)
	}
	if err := os.Remove(path + contentTypeSuffix); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete media content type: %w", err)
	}
	return nil
}

var _ Store = (*DiskStore)(nil)
