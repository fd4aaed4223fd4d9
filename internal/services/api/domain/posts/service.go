// Package posts manages photo post lifecycle and the home feed view.
package posts

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	apperrors "github.com/lumeapp/lume/internal/platform/errors"
	"github.com/lumeapp/lume/internal/platform/id"
	"github.com/lumeapp/lume/internal/platform/storage/blobstore"
	"github.com/lumeapp/lume/internal/services/api/storage"
)

// ErrStoreNotConfigured indicates the service is missing persistence wiring.
var ErrStoreNotConfigured = errors.New("post store is not configured")

// ImageResolver maps a blob storage ID to the URL clients load the image
// from.
type ImageResolver interface {
	ImageURL(storageID string) string
}

// Service orchestrates post lifecycle use-cases.
type Service struct {
	posts      storage.PostStore
	users      storage.UserStore
	engagement storage.EngagementStore
	blobs      blobstore.Store
	images     ImageResolver
	clock      func() time.Time
	newID      func() (string, error)
}

// NewService constructs post use-cases.
func NewService(
	posts storage.PostStore,
	users storage.UserStore,
	engagement storage.EngagementStore,
	blobs blobstore.Store,
	images ImageResolver,
	clock func() time.Time,
	newID func() (string, error),
) *Service {
	if clock == nil {
		clock = time.Now
	}
	if newID == nil {
		newID = id.NewID
	}
	return &Service{
		posts:      posts,
		users:      users,
		engagement: engagement,
		blobs:      blobs,
		images:     images,
		clock:      clock,
		newID:      newID,
	}
}

// CreateInput describes one new post.
type CreateInput struct {
	OwnerID   string
	StorageID string
	Caption   string
}

// Create publishes a post backed by a previously uploaded image blob.
func (s *Service) Create(ctx context.Context, input CreateInput) (storage.Post, error) {
	if s == nil || s.posts == nil {
		return storage.Post{}, ErrStoreNotConfigured
	}
	ownerID := strings.TrimSpace(input.OwnerID)
	if ownerID == "" {
		return storage.Post{}, apperrors.New(apperrors.CodeUserNotFound, "owner user id is required")
	}
	storageID := strings.TrimSpace(input.StorageID)
	if storageID == "" {
		return storage.Post{}, apperrors.New(apperrors.CodePostEmptyStorage, "storage id is required")
	}
	if s.blobs != nil {
		found, err := s.blobs.Exists(ctx, storageID)
		if err != nil {
			return storage.Post{}, err
		}
		if !found {
			return storage.Post{}, apperrors.New(apperrors.CodePostImageMissing, "uploaded image not found")
		}
	}

	postID, err := s.newID()
	if err != nil {
		return storage.Post{}, err
	}
	post := storage.Post{
		ID:        postID,
		OwnerID:   ownerID,
		StorageID: storageID,
		ImageURL:  s.imageURL(storageID),
		Caption:   strings.TrimSpace(input.Caption),
		CreatedAt: s.nowUTC(),
	}
	if err := s.posts.InsertPost(ctx, post); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.Post{}, apperrors.New(apperrors.CodeUserNotFound, "owner user not found")
		}
		return storage.Post{}, err
	}
	return post, nil
}

// Delete removes the caller's post together with every dependent record,
// then releases the image blob. A blob that fails to release is logged and
// left behind for later cleanup.
func (s *Service) Delete(ctx context.Context, postID string, callerID string) error {
	if s == nil || s.posts == nil {
		return ErrStoreNotConfigured
	}
	storageID, err := s.posts.DeletePostCascade(ctx, strings.TrimSpace(postID), strings.TrimSpace(callerID))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperrors.New(apperrors.CodePostNotFound, "post not found")
		}
		if errors.Is(err, storage.ErrNotOwner) {
			return apperrors.New(apperrors.CodeForbidden, "post is owned by another user")
		}
		return err
	}
	if s.blobs != nil && storageID != "" {
		if err := s.blobs.Delete(ctx, storageID); err != nil {
			log.Printf("release post image %s: %v", storageID, err)
		}
	}
	return nil
}

// FeedPost is a post decorated with its author and the viewer's engagement
// state.
type FeedPost struct {
	storage.Post
	Author       storage.UserSummary
	IsLiked      bool
	IsBookmarked bool
}

// Feed returns all posts newest first, decorated for the viewing user.
func (s *Service) Feed(ctx context.Context, viewerID string) ([]FeedPost, error) {
	if s == nil || s.posts == nil {
		return nil, ErrStoreNotConfigured
	}
	viewerID = strings.TrimSpace(viewerID)
	rows, err := s.posts.ListPosts(ctx)
	if err != nil {
		return nil, err
	}
	return s.decorate(ctx, viewerID, rows)
}

// PostsByUser returns one user's posts newest first, decorated for the
// viewing user.
func (s *Service) PostsByUser(ctx context.Context, ownerID string, viewerID string) ([]FeedPost, error) {
	if s == nil || s.posts == nil {
		return nil, ErrStoreNotConfigured
	}
	rows, err := s.posts.ListPostsByOwner(ctx, strings.TrimSpace(ownerID))
	if err != nil {
		return nil, err
	}
	return s.decorate(ctx, strings.TrimSpace(viewerID), rows)
}

// Likers returns the public profiles of the users who like a post, oldest
// like first.
func (s *Service) Likers(ctx context.Context, postID string) ([]storage.UserSummary, error) {
	if s == nil || s.engagement == nil {
		return nil, ErrStoreNotConfigured
	}
	users, err := s.engagement.ListLikers(ctx, strings.TrimSpace(postID))
	if err != nil {
		return nil, err
	}
	summaries := make([]storage.UserSummary, 0, len(users))
	for _, user := range users {
		summaries = append(summaries, user.Summary())
	}
	return summaries, nil
}

func (s *Service) decorate(ctx context.Context, viewerID string, rows []storage.Post) ([]FeedPost, error) {
	feed := make([]FeedPost, 0, len(rows))
	authors := make(map[string]storage.UserSummary)
	for _, post := range rows {
		author, cached := authors[post.OwnerID]
		if !cached {
			user, err := s.users.GetUserByID(ctx, post.OwnerID)
			if err != nil {
				return nil, err
			}
			author = user.Summary()
			authors[post.OwnerID] = author
		}

		item := FeedPost{Post: post, Author: author}
		if viewerID != "" {
			liked, err := s.engagement.LikeExists(ctx, viewerID, post.ID)
			if err != nil {
				return nil, err
			}
			bookmarked, err := s.engagement.BookmarkExists(ctx, viewerID, post.ID)
			if err != nil {
				return nil, err
			}
			item.IsLiked = liked
			item.IsBookmarked = bookmarked
		}
		feed = append(feed, item)
	}
	return feed, nil
}

func (s *Service) imageURL(storageID string) string {
	if s.images == nil {
		return ""
	}
	return s.images.ImageURL(storageID)
}

func (s *Service) nowUTC() time.Time {
	if s.clock == nil {
		return time.Now().UTC()
	}
	return s.clock().UTC()
}
