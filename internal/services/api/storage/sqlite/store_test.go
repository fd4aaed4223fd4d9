package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/lumeapp/lume/internal/services/api/storage"
)

func openStoreForTest(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "api.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func seedUser(t *testing.T, store *Store, userID string) storage.User {
	t.Helper()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	user := storage.User{
		ID:        userID,
		Subject:   "ext|" + userID,
		Username:  userID,
		Fullname:  "User " + userID,
		Email:     userID + "@example.com",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := store.PutUser(context.Background(), user); err != nil {
		t.Fatalf("seed user %s: %v", userID, err)
	}
	return user
}

func seedPost(t *testing.T, store *Store, postID string, ownerID string) storage.Post {
	t.Helper()
	post := storage.Post{
		ID:        postID,
		OwnerID:   ownerID,
		StorageID: "blob-" + postID,
		ImageURL:  "/v1/media/blob-" + postID,
		Caption:   "caption " + postID,
		CreatedAt: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
	}
	if err := store.InsertPost(context.Background(), post); err != nil {
		t.Fatalf("seed post %s: %v", postID, err)
	}
	return post
}

func TestPutUserRejectsDuplicateSubject(t *testing.T) {
	store := openStoreForTest(t)
	seedUser(t, store, "user-1")

	duplicate := storage.User{
		ID:      "user-2",
		Subject: "ext|user-1",
		Email:   "other@example.com",
	}
	err := store.PutUser(context.Background(), duplicate)
	if !errors.Is(err, storage.ErrAlreadyExists) {
		t.Fatalf("put duplicate subject err = %v, want %v", err, storage.ErrAlreadyExists)
	}
}

func TestGetUserLookups(t *testing.T) {
	store := openStoreForTest(t)
	seeded := seedUser(t, store, "user-1")
	ctx := context.Background()

	byID, err := store.GetUserByID(ctx, seeded.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if byID.Email != seeded.Email {
		t.Fatalf("email = %q, want %q", byID.Email, seeded.Email)
	}

	bySubject, err := store.GetUserBySubject(ctx, seeded.Subject)
	if err != nil {
		t.Fatalf("get by subject: %v", err)
	}
	if bySubject.ID != seeded.ID {
		t.Fatalf("id = %q, want %q", bySubject.ID, seeded.ID)
	}

	byEmail, err := store.GetUserByEmail(ctx, seeded.Email)
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if byEmail.ID != seeded.ID {
		t.Fatalf("id = %q, want %q", byEmail.ID, seeded.ID)
	}

	if _, err := store.GetUserByID(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("get missing err = %v, want %v", err, storage.ErrNotFound)
	}
}

func TestUpdateUserProfile(t *testing.T) {
	store := openStoreForTest(t)
	seeded := seedUser(t, store, "user-1")

	updated, err := store.UpdateUserProfile(context.Background(), storage.ProfileUpdate{
		UserID:    seeded.ID,
		Fullname:  "New Name",
		Bio:       "new bio",
		UpdatedAt: time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if updated.Fullname != "New Name" || updated.Bio != "new bio" {
		t.Fatalf("profile = %q/%q, want New Name/new bio", updated.Fullname, updated.Bio)
	}

	_, err = store.UpdateUserProfile(context.Background(), storage.ProfileUpdate{
		UserID:   "missing",
		Fullname: "x",
	})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("update missing err = %v, want %v", err, storage.ErrNotFound)
	}
}

func TestToggleFollowMovesBothCountersInLockstep(t *testing.T) {
	store := openStoreForTest(t)
	seedUser(t, store, "alice")
	seedUser(t, store, "bob")
	ctx := context.Background()

	toggle := storage.FollowToggle{
		FollowerID:  "bob",
		FollowingID: "alice",
		Now:         time.Now(),
		Notification: storage.Notification{
			ID:         "notif-1",
			ReceiverID: "alice",
			SenderID:   "bob",
			Type:       "follow",
			CreatedAt:  time.Now(),
		},
	}

	following, err := store.ToggleFollow(ctx, toggle)
	if err != nil {
		t.Fatalf("toggle follow: %v", err)
	}
	if !following {
		t.Fatal("expected edge to be present after first toggle")
	}

	alice, _ := store.GetUserByID(ctx, "alice")
	bob, _ := store.GetUserByID(ctx, "bob")
	if alice.Followers != 1 || bob.Following != 1 {
		t.Fatalf("counters = followers %d / following %d, want 1/1", alice.Followers, bob.Following)
	}
	if alice.Following != 0 || bob.Followers != 0 {
		t.Fatal("unexpected counter movement on untouched sides")
	}

	inbox, err := store.ListNotificationsByReceiver(ctx, "alice")
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	if len(inbox) != 1 || inbox[0].Type != "follow" {
		t.Fatalf("inbox = %+v, want one follow notification", inbox)
	}

	following, err = store.ToggleFollow(ctx, toggle)
	if err != nil {
		t.Fatalf("toggle follow back: %v", err)
	}
	if following {
		t.Fatal("expected edge to be absent after second toggle")
	}

	alice, _ = store.GetUserByID(ctx, "alice")
	bob, _ = store.GetUserByID(ctx, "bob")
	if alice.Followers != 0 || bob.Following != 0 {
		t.Fatalf("counters after untoggle = %d/%d, want 0/0", alice.Followers, bob.Following)
	}
}

func TestToggleFollowNeverDrivesCountersNegative(t *testing.T) {
	store := openStoreForTest(t)
	seedUser(t, store, "alice")
	seedUser(t, store, "bob")
	ctx := context.Background()

	// Simulate counter drift: edge exists but counters are already zero.
	if _, err := store.sqlDB.Exec(
		"INSERT INTO follows (follower_id, following_id, created_at) VALUES ('bob', 'alice', 0)",
	); err != nil {
		t.Fatalf("seed drifted edge: %v", err)
	}

	following, err := store.ToggleFollow(ctx, storage.FollowToggle{
		FollowerID:  "bob",
		FollowingID: "alice",
		Now:         time.Now(),
	})
	if err != nil {
		t.Fatalf("toggle follow: %v", err)
	}
	if following {
		t.Fatal("expected edge removal")
	}

	alice, _ := store.GetUserByID(ctx, "alice")
	bob, _ := store.GetUserByID(ctx, "bob")
	if alice.Followers != 0 || bob.Following != 0 {
		t.Fatalf("counters = %d/%d, want floor at 0/0", alice.Followers, bob.Following)
	}
}

func TestToggleFollowUnknownUser(t *testing.T) {
	store := openStoreForTest(t)
	seedUser(t, store, "alice")

	_, err := store.ToggleFollow(context.Background(), storage.FollowToggle{
		FollowerID:  "alice",
		FollowingID: "ghost",
		Now:         time.Now(),
	})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("toggle follow err = %v, want %v", err, storage.ErrNotFound)
	}
}

func TestInsertPostIncrementsOwnerCounter(t *testing.T) {
	store := openStoreForTest(t)
	seedUser(t, store, "alice")
	seedPost(t, store, "post-1", "alice")

	alice, err := store.GetUserByID(context.Background(), "alice")
	if err != nil {
		t.Fatalf("get alice: %v", err)
	}
	if alice.Posts != 1 {
		t.Fatalf("posts counter = %d, want 1", alice.Posts)
	}
}

func TestListPostsNewestFirst(t *testing.T) {
	store := openStoreForTest(t)
	seedUser(t, store, "alice")
	ctx := context.Background()

	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	for i, postID := range []string{"post-1", "post-2", "post-3"} {
		post := storage.Post{
			ID:        postID,
			OwnerID:   "alice",
			StorageID: "blob-" + postID,
			ImageURL:  "/v1/media/blob-" + postID,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := store.InsertPost(ctx, post); err != nil {
			t.Fatalf("insert %s: %v", postID, err)
		}
	}

	posts, err := store.ListPosts(ctx)
	if err != nil {
		t.Fatalf("list posts: %v", err)
	}
	if len(posts) != 3 {
		t.Fatalf("posts len = %d, want 3", len(posts))
	}
	if posts[0].ID != "post-3" || posts[2].ID != "post-1" {
		t.Fatalf("order = %s..%s, want post-3..post-1", posts[0].ID, posts[2].ID)
	}
}

func TestToggleLikeTwiceRestoresCounter(t *testing.T) {
	store := openStoreForTest(t)
	seedUser(t, store, "alice")
	seedUser(t, store, "bob")
	seedPost(t, store, "post-1", "alice")
	ctx := context.Background()

	toggle := storage.EngagementToggle{
		UserID: "bob",
		PostID: "post-1",
		Now:    time.Now(),
		Notification: storage.Notification{
			ID:         "notif-1",
			ReceiverID: "alice",
			SenderID:   "bob",
			Type:       "like",
			PostID:     "post-1",
			CreatedAt:  time.Now(),
		},
	}

	liked, err := store.ToggleLike(ctx, toggle)
	if err != nil {
		t.Fatalf("toggle like: %v", err)
	}
	if !liked {
		t.Fatal("expected liked after first toggle")
	}
	post, _ := store.GetPost(ctx, "post-1")
	if post.Likes != 1 {
		t.Fatalf("likes = %d, want 1", post.Likes)
	}

	liked, err = store.ToggleLike(ctx, toggle)
	if err != nil {
		t.Fatalf("toggle like back: %v", err)
	}
	if liked {
		t.Fatal("expected unliked after second toggle")
	}
	post, _ = store.GetPost(ctx, "post-1")
	if post.Likes != 0 {
		t.Fatalf("likes after untoggle = %d, want 0", post.Likes)
	}

	// The notification generated by the like is not removed retroactively.
	inbox, err := store.ListNotificationsByReceiver(ctx, "alice")
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	if len(inbox) != 1 {
		t.Fatalf("inbox len = %d, want 1", len(inbox))
	}
}

func TestToggleLikeMissingPost(t *testing.T) {
	store := openStoreForTest(t)
	seedUser(t, store, "bob")

	_, err := store.ToggleLike(context.Background(), storage.EngagementToggle{
		UserID: "bob",
		PostID: "ghost",
		Now:    time.Now(),
	})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("toggle like err = %v, want %v", err, storage.ErrNotFound)
	}
}

func TestToggleBookmarkRoundTrip(t *testing.T) {
	store := openStoreForTest(t)
	seedUser(t, store, "alice")
	seedUser(t, store, "bob")
	seedPost(t, store, "post-1", "alice")
	ctx := context.Background()

	toggle := storage.EngagementToggle{UserID: "bob", PostID: "post-1", Now: time.Now()}

	bookmarked, err := store.ToggleBookmark(ctx, toggle)
	if err != nil {
		t.Fatalf("toggle bookmark: %v", err)
	}
	if !bookmarked {
		t.Fatal("expected bookmarked")
	}

	saved, err := store.ListBookmarkedPosts(ctx, "bob")
	if err != nil {
		t.Fatalf("list bookmarked: %v", err)
	}
	if len(saved) != 1 || saved[0].ID != "post-1" {
		t.Fatalf("bookmarked = %+v, want post-1", saved)
	}

	bookmarked, err = store.ToggleBookmark(ctx, toggle)
	if err != nil {
		t.Fatalf("toggle bookmark back: %v", err)
	}
	if bookmarked {
		t.Fatal("expected bookmark removed")
	}
}

func TestInsertCommentIncrementsCounterAndNotifies(t *testing.T) {
	store := openStoreForTest(t)
	seedUser(t, store, "alice")
	seedUser(t, store, "bob")
	seedPost(t, store, "post-1", "alice")
	ctx := context.Background()

	err := store.InsertComment(ctx, storage.CommentInsert{
		Comment: storage.Comment{
			ID:        "comment-1",
			PostID:    "post-1",
			UserID:    "bob",
			Content:   "nice shot",
			CreatedAt: time.Now(),
		},
		Notification: storage.Notification{
			ID:          "notif-1",
			ReceiverID:  "alice",
			SenderID:    "bob",
			Type:        "comment",
			PostID:      "post-1",
			CommentText: "nice shot",
			CreatedAt:   time.Now(),
		},
	})
	if err != nil {
		t.Fatalf("insert comment: %v", err)
	}

	post, _ := store.GetPost(ctx, "post-1")
	if post.Comments != 1 {
		t.Fatalf("comments counter = %d, want 1", post.Comments)
	}

	comments, err := store.ListCommentsByPost(ctx, "post-1")
	if err != nil {
		t.Fatalf("list comments: %v", err)
	}
	if len(comments) != 1 || comments[0].Content != "nice shot" {
		t.Fatalf("comments = %+v", comments)
	}

	inbox, _ := store.ListNotificationsByReceiver(ctx, "alice")
	if len(inbox) != 1 || inbox[0].CommentText != "nice shot" {
		t.Fatalf("inbox = %+v, want one comment notification", inbox)
	}
}

func TestDeletePostCascadeRemovesAllDependents(t *testing.T) {
	store := openStoreForTest(t)
	seedUser(t, store, "alice")
	seedUser(t, store, "bob")
	seedPost(t, store, "post-1", "alice")
	ctx := context.Background()
	now := time.Now()

	if _, err := store.ToggleLike(ctx, storage.EngagementToggle{
		UserID: "bob", PostID: "post-1", Now: now,
		Notification: storage.Notification{
			ID: "notif-like", ReceiverID: "alice", SenderID: "bob",
			Type: "like", PostID: "post-1", CreatedAt: now,
		},
	}); err != nil {
		t.Fatalf("toggle like: %v", err)
	}
	if _, err := store.ToggleBookmark(ctx, storage.EngagementToggle{
		UserID: "bob", PostID: "post-1", Now: now,
	}); err != nil {
		t.Fatalf("toggle bookmark: %v", err)
	}
	if err := store.InsertComment(ctx, storage.CommentInsert{
		Comment: storage.Comment{
			ID: "comment-1", PostID: "post-1", UserID: "bob",
			Content: "hello", CreatedAt: now,
		},
	}); err != nil {
		t.Fatalf("insert comment: %v", err)
	}

	storageID, err := store.DeletePostCascade(ctx, "post-1", "alice")
	if err != nil {
		t.Fatalf("delete cascade: %v", err)
	}
	if storageID != "blob-post-1" {
		t.Fatalf("storage id = %q, want blob-post-1", storageID)
	}

	if _, err := store.GetPost(ctx, "post-1"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("get deleted post err = %v, want %v", err, storage.ErrNotFound)
	}
	posts, _ := store.ListPosts(ctx)
	if len(posts) != 0 {
		t.Fatalf("feed still returns %d posts after delete", len(posts))
	}
	for _, table := range []string{"likes", "comments", "bookmarks"} {
		var count int64
		if err := store.sqlDB.QueryRow(
			"SELECT COUNT(*) FROM " + table,
		).Scan(&count); err != nil {
			t.Fatalf("count %s: %v", table, err)
		}
		if count != 0 {
			t.Fatalf("%s rows after cascade = %d, want 0", table, count)
		}
	}
	// The like notification matches by post id, so the cascade removes it.
	inbox, _ := store.ListNotificationsByReceiver(ctx, "alice")
	if len(inbox) != 0 {
		t.Fatalf("inbox after cascade = %+v, want empty", inbox)
	}

	alice, _ := store.GetUserByID(ctx, "alice")
	if alice.Posts != 0 {
		t.Fatalf("posts counter = %d, want 0", alice.Posts)
	}
}

func TestDeletePostCascadeRejectsNonOwner(t *testing.T) {
	store := openStoreForTest(t)
	seedUser(t, store, "alice")
	seedUser(t, store, "bob")
	seedPost(t, store, "post-1", "alice")
	ctx := context.Background()

	_, err := store.DeletePostCascade(ctx, "post-1", "bob")
	if !errors.Is(err, storage.ErrNotOwner) {
		t.Fatalf("delete as non-owner err = %v, want %v", err, storage.ErrNotOwner)
	}

	// No state changed.
	if _, err := store.GetPost(ctx, "post-1"); err != nil {
		t.Fatalf("post should survive: %v", err)
	}
	alice, _ := store.GetUserByID(ctx, "alice")
	if alice.Posts != 1 {
		t.Fatalf("posts counter = %d, want 1", alice.Posts)
	}
}

func TestListLikersOldestFirst(t *testing.T) {
	store := openStoreForTest(t)
	seedUser(t, store, "alice")
	seedUser(t, store, "bob")
	seedUser(t, store, "carol")
	seedPost(t, store, "post-1", "alice")
	ctx := context.Background()

	base := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	for i, userID := range []string{"bob", "carol"} {
		if _, err := store.ToggleLike(ctx, storage.EngagementToggle{
			UserID: userID, PostID: "post-1", Now: base.Add(time.Duration(i) * time.Minute),
		}); err != nil {
			t.Fatalf("toggle like %s: %v", userID, err)
		}
	}

	likers, err := store.ListLikers(ctx, "post-1")
	if err != nil {
		t.Fatalf("list likers: %v", err)
	}
	if len(likers) != 2 || likers[0].ID != "bob" || likers[1].ID != "carol" {
		t.Fatalf("likers = %+v, want bob then carol", likers)
	}
}

func TestFollowListsReturnUsers(t *testing.T) {
	store := openStoreForTest(t)
	seedUser(t, store, "alice")
	seedUser(t, store, "bob")
	seedUser(t, store, "carol")
	ctx := context.Background()

	for _, follower := range []string{"bob", "carol"} {
		if _, err := store.ToggleFollow(ctx, storage.FollowToggle{
			FollowerID: follower, FollowingID: "alice", Now: time.Now(),
		}); err != nil {
			t.Fatalf("toggle follow %s: %v", follower, err)
		}
	}

	followers, err := store.ListFollowers(ctx, "alice")
	if err != nil {
		t.Fatalf("list followers: %v", err)
	}
	if len(followers) != 2 {
		t.Fatalf("followers len = %d, want 2", len(followers))
	}

	following, err := store.ListFollowing(ctx, "bob")
	if err != nil {
		t.Fatalf("list following: %v", err)
	}
	if len(following) != 1 || following[0].ID != "alice" {
		t.Fatalf("following = %+v, want alice", following)
	}
}

func TestConsumeUploadIsOwnerBoundAndOneShot(t *testing.T) {
	store := openStoreForTest(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	if err := store.InsertUpload(ctx, storage.Upload{
		StorageID: "blob-1", Subject: "ext|alice", CreatedAt: now,
	}); err != nil {
		t.Fatalf("insert upload: %v", err)
	}

	if err := store.InsertUpload(ctx, storage.Upload{
		StorageID: "blob-1", Subject: "ext|bob", CreatedAt: now,
	}); !errors.Is(err, storage.ErrAlreadyExists) {
		t.Fatalf("duplicate insert error = %v, want ErrAlreadyExists", err)
	}

	if err := store.ConsumeUpload(ctx, "blob-1", "ext|bob", now); !errors.Is(err, storage.ErrNotOwner) {
		t.Fatalf("foreign consume error = %v, want ErrNotOwner", err)
	}

	if err := store.ConsumeUpload(ctx, "blob-1", "ext|alice", now); err != nil {
		t.Fatalf("owner consume: %v", err)
	}

	if err := store.ConsumeUpload(ctx, "blob-1", "ext|alice", now); !errors.Is(err, storage.ErrAlreadyExists) {
		t.Fatalf("repeat consume error = %v, want ErrAlreadyExists", err)
	}

	if err := store.ConsumeUpload(ctx, "blob-2", "ext|alice", now); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("unknown slot error = %v, want ErrNotFound", err)
	}
}
