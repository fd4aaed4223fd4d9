// Package directory manages the user directory keyed by external identity
// subject.
package directory

import (
	"context"
	"errors"
	"strings"
	"time"

	apperrors "github.com/lumeapp/lume/internal/platform/errors"
	"github.com/lumeapp/lume/internal/platform/id"
	"github.com/lumeapp/lume/internal/services/api/storage"
)

// ErrStoreNotConfigured indicates the service is missing persistence wiring.
var ErrStoreNotConfigured = errors.New("user store is not configured")

// Service orchestrates user directory use-cases.
type Service struct {
	store storage.UserStore
	clock func() time.Time
	newID func() (string, error)
}

// NewService constructs directory use-cases.
func NewService(store storage.UserStore, clock func() time.Time, newID func() (string, error)) *Service {
	if clock == nil {
		clock = time.Now
	}
	if newID == nil {
		newID = id.NewID
	}
	return &Service{
		store: store,
		clock: clock,
		newID: newID,
	}
}

// CreateUserInput carries the profile fields for a first sign-in.
type CreateUserInput struct {
	Subject   string
	Username  string
	Fullname  string
	Email     string
	AvatarURL string
}

// CreateUser registers the subject's directory record. The operation is
// idempotent: a subject that already has a record gets that record back
// unchanged.
func (s *Service) CreateUser(ctx context.Context, input CreateUserInput) (storage.User, error) {
	if s == nil || s.store == nil {
		return storage.User{}, ErrStoreNotConfigured
	}
	subject := strings.TrimSpace(input.Subject)
	if subject == "" {
		return storage.User{}, apperrors.New(apperrors.CodeUserEmptySubject, "subject is required")
	}

	existing, err := s.store.GetUserBySubject(ctx, subject)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return storage.User{}, err
	}

	username := strings.TrimSpace(input.Username)
	if username == "" {
		return storage.User{}, apperrors.New(apperrors.CodeUserEmptyUsername, "username is required")
	}
	fullname := strings.TrimSpace(input.Fullname)
	if fullname == "" {
		return storage.User{}, apperrors.New(apperrors.CodeUserEmptyFullname, "fullname is required")
	}
	email := strings.TrimSpace(input.Email)
	if email == "" {
		return storage.User{}, apperrors.New(apperrors.CodeUserEmptyEmail, "email is required")
	}

	userID, err := s.newID()
	if err != nil {
		return storage.User{}, err
	}
	now := s.nowUTC()
	user := storage.User{
		ID:        userID,
		Subject:   subject,
		Username:  username,
		Fullname:  fullname,
		Email:     email,
		AvatarURL: strings.TrimSpace(input.AvatarURL),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.PutUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			// Lost a concurrent first sign-in race for the same subject.
			existing, lookupErr := s.store.GetUserBySubject(ctx, subject)
			if lookupErr == nil {
				return existing, nil
			}
			return storage.User{}, apperrors.Wrap(apperrors.CodeUserExists, "user already exists", err)
		}
		return storage.User{}, err
	}
	return user, nil
}

// GetBySubject resolves the directory record behind an identity subject.
func (s *Service) GetBySubject(ctx context.Context, subject string) (storage.User, error) {
	if s == nil || s.store == nil {
		return storage.User{}, ErrStoreNotConfigured
	}
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return storage.User{}, apperrors.New(apperrors.CodeUserEmptySubject, "subject is required")
	}
	user, err := s.store.GetUserBySubject(ctx, subject)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.User{}, apperrors.New(apperrors.CodeUserNotFound, "user not found")
		}
		return storage.User{}, err
	}
	return user, nil
}

// GetByID returns one directory record.
func (s *Service) GetByID(ctx context.Context, userID string) (storage.User, error) {
	if s == nil || s.store == nil {
		return storage.User{}, ErrStoreNotConfigured
	}
	user, err := s.store.GetUserByID(ctx, strings.TrimSpace(userID))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.User{}, apperrors.New(apperrors.CodeUserNotFound, "user not found")
		}
		return storage.User{}, err
	}
	return user, nil
}

// GetByEmail returns the directory record claiming an email address.
func (s *Service) GetByEmail(ctx context.Context, email string) (storage.User, error) {
	if s == nil || s.store == nil {
		return storage.User{}, ErrStoreNotConfigured
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return storage.User{}, apperrors.New(apperrors.CodeUserEmptyEmail, "email is required")
	}
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.User{}, apperrors.New(apperrors.CodeUserNotFound, "user not found")
		}
		return storage.User{}, err
	}
	return user, nil
}

// UpdateProfileInput carries the caller-editable profile fields.
type UpdateProfileInput struct {
	UserID   string
	Fullname string
	Bio      string
}

// UpdateProfile rewrites the caller's display name and bio.
func (s *Service) UpdateProfile(ctx context.Context, input UpdateProfileInput) (storage.User, error) {
	if s == nil || s.store == nil {
		return storage.User{}, ErrStoreNotConfigured
	}
	fullname := strings.TrimSpace(input.Fullname)
	if fullname == "" {
		return storage.User{}, apperrors.New(apperrors.CodeUserEmptyFullname, "fullname is required")
	}
	user, err := s.store.UpdateUserProfile(ctx, storage.ProfileUpdate{
		UserID:    strings.TrimSpace(input.UserID),
		Fullname:  fullname,
		Bio:       strings.TrimSpace(input.Bio),
		UpdatedAt: s.nowUTC(),
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.User{}, apperrors.New(apperrors.CodeUserNotFound, "user not found")
		}
		return storage.User{}, err
	}
	return user, nil
}

func (s *Service) nowUTC() time.Time {
	if s.clock == nil {
		return time.Now().UTC()
	}
	return s.clock().UTC()
}
