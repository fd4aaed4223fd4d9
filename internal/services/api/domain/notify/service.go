// Package notify assembles the per-user notification inbox view.
package notify

import (
	"context"
	"errors"
	"strings"

	"github.com/lumeapp/lume/internal/services/api/storage"
)

// ErrStoreNotConfigured indicates the service is missing persistence wiring.
var ErrStoreNotConfigured = errors.New("notification store is not configured")

// Service assembles inbox views.
type Service struct {
	store storage.NotificationStore
	users storage.UserStore
	posts storage.PostStore
}

// NewService constructs inbox use-cases.
func NewService(store storage.NotificationStore, users storage.UserStore, posts storage.PostStore) *Service {
	return &Service{
		store: store,
		users: users,
		posts: posts,
	}
}

// Item is a notification decorated with its sender and, for post-scoped
// notifications, the post image.
type Item struct {
	storage.Notification
	Sender       storage.UserSummary
	PostImageURL string
}

// Inbox returns a user's notifications newest first, each enriched with the
// sender profile and the referenced post image.
func (s *Service) Inbox(ctx context.Context, receiverID string) ([]Item, error) {
	if s == nil || s.store == nil {
		return nil, ErrStoreNotConfigured
	}
	rows, err := s.store.ListNotificationsByReceiver(ctx, strings.TrimSpace(receiverID))
	if err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(rows))
	senders := make(map[string]storage.UserSummary)
	images := make(map[string]string)
	for _, notification := range rows {
		item := Item{Notification: notification}

		sender, cached := senders[notification.SenderID]
		if !cached {
			user, err := s.users.GetUserByID(ctx, notification.SenderID)
			if err != nil {
				if !errors.Is(err, storage.ErrNotFound) {
					return nil, err
				}
				// Sender left the platform; keep the notification itself.
			} else {
				sender = user.Summary()
			}
			senders[notification.SenderID] = sender
		}
		item.Sender = sender

		if notification.PostID != "" {
			imageURL, cached := images[notification.PostID]
			if !cached {
				post, err := s.posts.GetPost(ctx, notification.PostID)
				if err != nil {
					if !errors.Is(err, storage.ErrNotFound) {
						return nil, err
					}
				} else {
					imageURL = post.ImageURL
				}
				images[notification.PostID] = imageURL
			}
			item.PostImageURL = imageURL
		}

		items = append(items, item)
	}
	return items, nil
}
