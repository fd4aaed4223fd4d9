// Package graph manages the directed follow graph between users.
package graph

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
var ErrStoreNotConfigured = errors.New("follow store is not configured")

// Service orchestrates follow graph use-cases.
type Service struct {
	store storage.FollowStore
	clock func() time.Time
	newID func() (string, error)
}

// NewService constructs follow graph use-cases.
func NewService(store storage.FollowStore, clock func() time.Time, newID func() (string, error)) *Service {
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

// Toggle flips the (follower, following) edge and reports the resulting
// presence. Inserting the edge notifies the followed user.
func (s *Service) Toggle(ctx context.Context, followerID string, followingID string) (bool, error) {
	if s == nil || s.store == nil {
		return false, ErrStoreNotConfigured
	}
	followerID = strings.TrimSpace(followerID)
	followingID = strings.TrimSpace(followingID)
	if followerID == "" || followingID == "" {
		return false, apperrors.New(apperrors.CodeUserNotFound, "both user ids are required")
	}
	if followerID == followingID {
		return false, apperrors.New(apperrors.CodeFollowSelf, "users cannot follow themselves")
	}

	notificationID, err := s.newID()
	if err != nil {
		return false, err
	}
	now := s.nowUTC()
	following, err := s.store.ToggleFollow(ctx, storage.FollowToggle{
		FollowerID:  followerID,
		FollowingID: followingID,
		Now:         now,
		Notification: storage.Notification{
			ID:         notificationID,
			ReceiverID: followingID,
			SenderID:   followerID,
			Type:       storage.NotificationTypeFollow,
			CreatedAt:  now,
		},
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return false, apperrors.New(apperrors.CodeUserNotFound, "user not found")
		}
		return false, err
	}
	return following, nil
}

// IsFollowing reports whether followerID currently follows followingID.
func (s *Service) IsFollowing(ctx context.Context, followerID string, followingID string) (bool, error) {
	if s == nil || s.store == nil {
		return false, ErrStoreNotConfigured
	}
	return s.store.IsFollowing(ctx, strings.TrimSpace(followerID), strings.TrimSpace(followingID))
}

// Followers returns the users following userID, oldest follow first.
func (s *Service) Followers(ctx context.Context, userID string) ([]storage.User, error) {
	if s == nil || s.store == nil {
		return nil, ErrStoreNotConfigured
	}
	return s.store.ListFollowers(ctx, strings.TrimSpace(userID))
}

// Following returns the users userID follows, oldest follow first.
func (s *Service) Following(ctx context.Context, userID string) ([]storage.User, error) {
	if s == nil || s.store == nil {
		return nil, ErrStoreNotConfigured
	}
	return s.store.ListFollowing(ctx, strings.TrimSpace(userID))
}

func (s *Service) nowUTC() time.Time {
	if s.clock == nil {
		return time.Now().UTC()
	}
	return s.clock().UTC()
}
