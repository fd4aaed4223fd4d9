// Package engagement manages likes, bookmarks, and comments on posts.
package engagement

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
var ErrStoreNotConfigured = errors.New("engagement store is not configured")

// Service orchestrates engagement use-cases.
type Service struct {
	store storage.EngagementStore
	posts storage.PostStore
	users storage.UserStore
	clock func() time.Time
	newID func() (string, error)
}

// NewService constructs engagement use-cases.
func NewService(
	store storage.EngagementStore,
	posts storage.PostStore,
	users storage.UserStore,
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
		store: store,
		posts: posts,
		users: users,
		clock: clock,
		newID: newID,
	}
}

// ToggleLike flips the caller's like on a post and reports the resulting
// state. Liking someone else's post notifies the owner; self-likes stay
// silent.
func (s *Service) ToggleLike(ctx context.Context, userID string, postID string) (bool, error) {
	if s == nil || s.store == nil {
		return false, ErrStoreNotConfigured
	}
	userID = strings.TrimSpace(userID)
	postID = strings.TrimSpace(postID)

	post, err := s.getPost(ctx, postID)
	if err != nil {
		return false, err
	}

	now := s.nowUTC()
	toggle := storage.EngagementToggle{UserID: userID, PostID: postID, Now: now}
	if post.OwnerID != userID {
		notificationID, err := s.newID()
		if err != nil {
			return false, err
		}
		toggle.Notification = storage.Notification{
			ID:         notificationID,
			ReceiverID: post.OwnerID,
			SenderID:   userID,
			Type:       storage.NotificationTypeLike,
			PostID:     postID,
			CreatedAt:  now,
		}
	}

	liked, err := s.store.ToggleLike(ctx, toggle)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return false, apperrors.New(apperrors.CodePostNotFound, "post not found")
		}
		return false, err
	}
	return liked, nil
}

// ToggleBookmark flips the caller's bookmark on a post and reports the
// resulting state.
func (s *Service) ToggleBookmark(ctx context.Context, userID string, postID string) (bool, error) {
	if s == nil || s.store == nil {
		return false, ErrStoreNotConfigured
	}
	bookmarked, err := s.store.ToggleBookmark(ctx, storage.EngagementToggle{
		UserID: strings.TrimSpace(userID),
		PostID: strings.TrimSpace(postID),
		Now:    s.nowUTC(),
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return false, apperrors.New(apperrors.CodePostNotFound, "post not found")
		}
		return false, err
	}
	return bookmarked, nil
}

// AddComment appends one comment to a post. Commenting on someone else's
// post notifies the owner with the comment text.
func (s *Service) AddComment(ctx context.Context, userID string, postID string, content string) (storage.Comment, error) {
	if s == nil || s.store == nil {
		return storage.Comment{}, ErrStoreNotConfigured
	}
	userID = strings.TrimSpace(userID)
	postID = strings.TrimSpace(postID)
	content = strings.TrimSpace(content)
	if content == "" {
		return storage.Comment{}, apperrors.New(apperrors.CodeCommentEmptyContent, "comment content is required")
	}

	post, err := s.getPost(ctx, postID)
	if err != nil {
		return storage.Comment{}, err
	}

	commentID, err := s.newID()
	if err != nil {
		return storage.Comment{}, err
	}
	now := s.nowUTC()
	insert := storage.CommentInsert{
		Comment: storage.Comment{
			ID:        commentID,
			PostID:    postID,
			UserID:    userID,
			Content:   content,
			CreatedAt: now,
		},
	}
	if post.OwnerID != userID {
		notificationID, err := s.newID()
		if err != nil {
			return storage.Comment{}, err
		}
		insert.Notification = storage.Notification{
			ID:          notificationID,
			ReceiverID:  post.OwnerID,
			SenderID:    userID,
			Type:        storage.NotificationTypeComment,
			PostID:      postID,
			CommentText: content,
			CreatedAt:   now,
		}
	}

	if err := s.store.InsertComment(ctx, insert); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.Comment{}, apperrors.New(apperrors.CodePostNotFound, "post not found")
		}
		return storage.Comment{}, err
	}
	return insert.Comment, nil
}

// CommentView is a comment decorated with its author's public profile.
type CommentView struct {
	storage.Comment
	Author storage.UserSummary
}

// Comments returns a post's comments oldest first, each with its author.
func (s *Service) Comments(ctx context.Context, postID string) ([]CommentView, error) {
	if s == nil || s.store == nil {
		return nil, ErrStoreNotConfigured
	}
	rows, err := s.store.ListCommentsByPost(ctx, strings.TrimSpace(postID))
	if err != nil {
		return nil, err
	}

	views := make([]CommentView, 0, len(rows))
	authors := make(map[string]storage.UserSummary)
	for _, comment := range rows {
		author, cached := authors[comment.UserID]
		if !cached {
			user, err := s.users.GetUserByID(ctx, comment.UserID)
			if err != nil {
				return nil, err
			}
			author = user.Summary()
			authors[comment.UserID] = author
		}
		views = append(views, CommentView{Comment: comment, Author: author})
	}
	return views, nil
}

// BookmarkedPosts returns the caller's bookmarked posts, newest bookmark
// first.
func (s *Service) BookmarkedPosts(ctx context.Context, userID string) ([]storage.Post, error) {
	if s == nil || s.store == nil {
		return nil, ErrStoreNotConfigured
	}
	return s.store.ListBookmarkedPosts(ctx, strings.TrimSpace(userID))
}

func (s *Service) getPost(ctx context.Context, postID string) (storage.Post, error) {
	post, err := s.posts.GetPost(ctx, postID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.Post{}, apperrors.New(apperrors.CodePostNotFound, "post not found")
		}
		return storage.Post{}, err
	}
	return post, nil
}

func (s *Service) nowUTC() time.Time {
	if s.clock == nil {
		return time.Now().UTC()
	}
	return s.clock().UTC()
}
