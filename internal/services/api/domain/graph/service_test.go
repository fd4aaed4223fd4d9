package graph

import (
	"context"
	"testing"
	"time"

	apperrors "github.com/lumeapp/lume/internal/platform/errors"
	"github.com/lumeapp/lume/internal/services/api/storage"
)

type fakeFollowStore struct {
	lastToggle storage.FollowToggle
	toggleOut  bool
	toggleErr  error
	edges      map[[2]string]bool
	followers  []storage.User
	following  []storage.User
}

func (f *fakeFollowStore) ToggleFollow(_ context.Context, toggle storage.FollowToggle) (bool, error) {
	f.lastToggle = toggle
	if f.toggleErr != nil {
		return false, f.toggleErr
	}
	return f.toggleOut, nil
}

func (f *fakeFollowStore) IsFollowing(_ context.Context, followerID string, followingID string) (bool, error) {
	return f.edges[[2]string{followerID, followingID}], nil
}

func (f *fakeFollowStore) ListFollowers(_ context.Context, _ string) ([]storage.User, error) {
	return f.followers, nil
}

func (f *fakeFollowStore) ListFollowing(_ context.Context, _ string) ([]storage.User, error) {
	return f.following, nil
}

func fixedClock() func() time.Time {
	return func() time.Time {
		return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	}
}

func staticID(id string) func() (string, error) {
	return func() (string, error) { return id, nil }
}

func TestToggleRejectsSelfFollow(t *testing.T) {
	service := NewService(&fakeFollowStore{}, fixedClock(), staticID("notif-1"))

	_, err := service.Toggle(context.Background(), "alice", "alice")
	if apperrors.CodeOf(err) != apperrors.CodeFollowSelf {
		t.Fatalf("err = %v, want code %s", err, apperrors.CodeFollowSelf)
	}
}

func TestTogglePassesNotificationForFollowedUser(t *testing.T) {
	store := &fakeFollowStore{toggleOut: true}
	service := NewService(store, fixedClock(), staticID("notif-1"))

	following, err := service.Toggle(context.Background(), "bob", "alice")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !following {
		t.Fatal("expected following = true")
	}

	notification := store.lastToggle.Notification
	if notification.ID != "notif-1" {
		t.Fatalf("notification id = %q, want notif-1", notification.ID)
	}
	if notification.ReceiverID != "alice" || notification.SenderID != "bob" {
		t.Fatalf("notification receiver/sender = %q/%q", notification.ReceiverID, notification.SenderID)
	}
	if notification.Type != storage.NotificationTypeFollow {
		t.Fatalf("notification type = %q, want %q", notification.Type, storage.NotificationTypeFollow)
	}
}

func TestToggleMapsMissingUser(t *testing.T) {
	store := &fakeFollowStore{toggleErr: storage.ErrNotFound}
	service := NewService(store, fixedClock(), staticID("notif-1"))

	_, err := service.Toggle(context.Background(), "bob", "ghost")
	if apperrors.CodeOf(err) != apperrors.CodeUserNotFound {
		t.Fatalf("err = %v, want code %s", err, apperrors.CodeUserNotFound)
	}
}

func TestIsFollowing(t *testing.T) {
	store := &fakeFollowStore{edges: map[[2]string]bool{{"bob", "alice"}: true}}
	service := NewService(store, nil, nil)

	following, err := service.IsFollowing(context.Background(), "bob", "alice")
	if err != nil {
		t.Fatalf("is following: %v", err)
	}
	if !following {
		t.Fatal("expected edge to be reported")
	}

	following, err = service.IsFollowing(context.Background(), "alice", "bob")
	if err != nil {
		t.Fatalf("is following reversed: %v", err)
	}
	if following {
		t.Fatal("reverse edge should not be reported")
	}
}

func TestFollowersAndFollowing(t *testing.T) {
	store := &fakeFollowStore{
		followers: []storage.User{{ID: "bob"}},
		following: []storage.User{{ID: "carol"}, {ID: "dave"}},
	}
	service := NewService(store, nil, nil)

	followers, err := service.Followers(context.Background(), "alice")
	if err != nil {
		t.Fatalf("followers: %v", err)
	}
	if len(followers) != 1 || followers[0].ID != "bob" {
		t.Fatalf("followers = %+v", followers)
	}

	following, err := service.Following(context.Background(), "alice")
	if err != nil {
		t.Fatalf("following: %v", err)
	}
	if len(following) != 2 {
		t.Fatalf("following len = %d, want 2", len(following))
	}
}
