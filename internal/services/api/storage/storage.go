// Package storage defines persistence contracts for the social API state.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness-constrained record already exists.
var ErrAlreadyExists = errors.New("record already exists")

// ErrNotOwner indicates the caller does not own the targeted record.
var ErrNotOwner = errors.New("record is owned by another user")

// User stores one directory record keyed by external identity subject.
type User struct {
	ID        string
	Subject   string
	Username  string
	Fullname  string
	Email     string
	Bio       string
	AvatarURL string
	Posts     int64
	Followers int64
	Following int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserSummary is the public slice of a user attached to feed and list rows.
type UserSummary struct {
	ID        string
	Username  string
	AvatarURL string
}

// Summary returns the public fields of a user.
func (u User) Summary() UserSummary {
	return UserSummary{
		ID:        u.ID,
		Username:  u.Username,
		AvatarURL: u.AvatarURL,
	}
}

// Post stores one photo post with denormalized engagement counters.
type Post struct {
	ID        string
	OwnerID   string
	StorageID string
	ImageURL  string
	Caption   string
	Likes     int64
	Comments  int64
	CreatedAt time.Time
}

// Comment stores one comment on a post.
type Comment struct {
	ID        string
	PostID    string
	UserID    string
	Content   string
	CreatedAt time.Time
}

// Notification type values written by the engagement and graph services.
const (
	NotificationTypeLike    = "like"
	NotificationTypeFollow  = "follow"
	NotificationTypeComment = "comment"
)

// Notification stores one engagement notification addressed to a user.
type Notification struct {
	ID          string
	ReceiverID  string
	SenderID    string
	Type        string
	PostID      string
	CommentText string
	CreatedAt   time.Time
}

// ProfileUpdate carries the caller-editable profile fields.
type ProfileUpdate struct {
	UserID    string
	Fullname  string
	Bio       string
	UpdatedAt time.Time
}

// FollowToggle describes one follow toggle. Notification is applied only
// when the toggle inserts the edge and Notification.ID is non-empty.
type FollowToggle struct {
	FollowerID   string
	FollowingID  string
	Now          time.Time
	Notification Notification
}

// EngagementToggle describes one like or bookmark toggle. Notification is
// applied only when the toggle inserts the join row and Notification.ID is
// non-empty.
type EngagementToggle struct {
	UserID       string
	PostID       string
	Now          time.Time
	Notification Notification
}

// CommentInsert describes one comment insert. Notification is applied only
// when Notification.ID is non-empty.
type CommentInsert struct {
	Comment      Comment
	Notification Notification
}

// Upload reserves one media upload slot for the subject that requested
// it. A slot accepts exactly one upload.
type Upload struct {
	StorageID string
	Subject   string
	CreatedAt time.Time
}

// UserStore persists directory records.
type UserStore interface {
	// PutUser inserts one user. ErrAlreadyExists is returned when the
	// subject or email is already claimed.
	PutUser(ctx context.Context, user User) error
	GetUserByID(ctx context.Context, userID string) (User, error)
	GetUserBySubject(ctx context.Context, subject string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	UpdateUserProfile(ctx context.Context, update ProfileUpdate) (User, error)
}

// FollowStore persists the directed follow graph and its denormalized
// counters.
type FollowStore interface {
	// ToggleFollow inserts or removes the (follower, following) edge and
	// adjusts both endpoint counters in the same transaction. It returns
	// the resulting edge presence.
	ToggleFollow(ctx context.Context, toggle FollowToggle) (bool, error)
	IsFollowing(ctx context.Context, followerID string, followingID string) (bool, error)
	ListFollowers(ctx context.Context, userID string) ([]User, error)
	ListFollowing(ctx context.Context, userID string) ([]User, error)
}

// PostStore persists posts and the owner post counter.
type PostStore interface {
	// InsertPost writes the post and increments the owner's post counter
	// in the same transaction.
	InsertPost(ctx context.Context, post Post) error
	GetPost(ctx context.Context, postID string) (Post, error)
	// ListPosts returns all posts, newest first.
	ListPosts(ctx context.Context) ([]Post, error)
	// ListPostsByOwner returns one user's posts, newest first.
	ListPostsByOwner(ctx context.Context, ownerID string) ([]Post, error)
	// DeletePostCascade removes the post together with every like,
	// comment, bookmark, and post-scoped notification referencing it and
	// decrements the owner's post counter, all in one transaction. It
	// returns the storage ID of the post image so the caller can release
	// the blob after commit. ErrNotOwner is returned when ownerID does
	// not own the post.
	DeletePostCascade(ctx context.Context, postID string, ownerID string) (string, error)
}

// EngagementStore persists like and bookmark join rows, comments, and the
// post engagement counters.
type EngagementStore interface {
	// ToggleLike inserts or removes the (user, post) like row and adjusts
	// the post like counter in the same transaction. It returns the
	// resulting row presence.
	ToggleLike(ctx context.Context, toggle EngagementToggle) (bool, error)
	// ToggleBookmark behaves like ToggleLike for bookmark rows. Bookmarks
	// carry no counter and no notification.
	ToggleBookmark(ctx context.Context, toggle EngagementToggle) (bool, error)
	LikeExists(ctx context.Context, userID string, postID string) (bool, error)
	BookmarkExists(ctx context.Context, userID string, postID string) (bool, error)
	// ListLikers returns the users who like a post, oldest like first.
	ListLikers(ctx context.Context, postID string) ([]User, error)
	// ListBookmarkedPosts returns a user's bookmarked posts, newest
	// bookmark first.
	ListBookmarkedPosts(ctx context.Context, userID string) ([]Post, error)
	// InsertComment writes the comment and increments the post comment
	// counter in the same transaction.
	InsertComment(ctx context.Context, insert CommentInsert) error
	// ListCommentsByPost returns a post's comments, oldest first.
	ListCommentsByPost(ctx context.Context, postID string) ([]Comment, error)
}

// UploadStore persists one-shot media upload reservations.
type UploadStore interface {
	// InsertUpload reserves an upload slot. ErrAlreadyExists is returned
	// when the storage ID is already reserved.
	InsertUpload(ctx context.Context, upload Upload) error
	// ConsumeUpload marks a reserved slot as used. ErrNotFound is
	// returned for an unknown slot, ErrNotOwner when the slot was issued
	// to a different subject, and ErrAlreadyExists when the slot has
	// already accepted an upload.
	ConsumeUpload(ctx context.Context, storageID string, subject string, now time.Time) error
}

// NotificationStore reads the per-user notification inbox.
type NotificationStore interface {
	// ListNotificationsByReceiver returns a user's notifications, newest
	// first.
	ListNotificationsByReceiver(ctx context.Context, receiverID string) ([]Notification, error)
}
