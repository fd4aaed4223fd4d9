package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lumeapp/lume/internal/services/api/storage"
)

func validateEngagementToggle(toggle storage.EngagementToggle) (string, string, error) {
	userID := strings.TrimSpace(toggle.UserID)
	postID := strings.TrimSpace(toggle.PostID)
	if userID == "" {
		return "", "", fmt.Errorf("user id is required")
	}
	if postID == "" {
		return "", "", fmt.Errorf("post id is required")
	}
	return userID, postID, nil
}

// ToggleLike inserts or removes one like row and adjusts the post like
// counter inside a single transaction.
func (s *Store) ToggleLike(ctx context.Context, toggle storage.EngagementToggle) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if err := s.ready(); err != nil {
		return false, err
	}
	userID, postID, err := validateEngagementToggle(toggle)
	if err != nil {
		return false, err
	}

	var liked bool
	err = s.inTx(ctx, func(tx *sql.Tx) error {
		postFound, err := rowExists(ctx, tx, "SELECT 1 FROM posts WHERE id = ?", postID)
		if err != nil {
			return fmt.Errorf("check post: %w", err)
		}
		if !postFound {
			return storage.ErrNotFound
		}

		exists, err := rowExists(ctx, tx,
			"SELECT 1 FROM likes WHERE user_id = ? AND post_id = ?",
			userID, postID,
		)
		if err != nil {
			return fmt.Errorf("check like: %w", err)
		}

		if exists {
			if _, err := tx.ExecContext(ctx,
				"DELETE FROM likes WHERE user_id = ? AND post_id = ?",
				userID, postID,
			); err != nil {
				return fmt.Errorf("delete like: %w", err)
			}
			if _, err := tx.ExecContext(ctx,
				"UPDATE posts SET likes = MAX(likes - 1, 0) WHERE id = ?",
				postID,
			); err != nil {
				return fmt.Errorf("update like counter: %w", err)
			}
			liked = false
			return nil
		}

		if _, err := tx.ExecContext(ctx,
			"INSERT INTO likes (user_id, post_id, created_at) VALUES (?, ?, ?)",
			userID, postID, toMillis(toggle.Now),
		); err != nil {
			if isForeignKeyViolation(err) {
				return storage.ErrNotFound
			}
			return fmt.Errorf("insert like: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			"UPDATE posts SET likes = likes + 1 WHERE id = ?",
			postID,
		); err != nil {
			return fmt.Errorf("update like counter: %w", err)
		}
		if toggle.Notification.ID != "" {
			if err := putNotificationExec(ctx, tx, toggle.Notification); err != nil {
				return err
			}
		}
		liked = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return liked, nil
}

// ToggleBookmark inserts or removes one bookmark row. Bookmarks carry no
// denormalized counter and trigger no notification.
func (s *Store) ToggleBookmark(ctx context.Context, toggle storage.EngagementToggle) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if err := s.ready(); err != nil {
		return false, err
	}
	userID, postID, err := validateEngagementToggle(toggle)
	if err != nil {
		return false, err
	}

	var bookmarked bool
	err = s.inTx(ctx, func(tx *sql.Tx) error {
		postFound, err := rowExists(ctx, tx, "SELECT 1 FROM posts WHERE id = ?", postID)
		if err != nil {
			return fmt.Errorf("check post: %w", err)
		}
		if !postFound {
			return storage.ErrNotFound
		}

		exists, err := rowExists(ctx, tx,
			"SELECT 1 FROM bookmarks WHERE user_id = ? AND post_id = ?",
			userID, postID,
		)
		if err != nil {
			return fmt.Errorf("check bookmark: %w", err)
		}

		if exists {
			if _, err := tx.ExecContext(ctx,
				"DELETE FROM bookmarks WHERE user_id = ? AND post_id = ?",
				userID, postID,
			); err != nil {
				return fmt.Errorf("delete bookmark: %w", err)
			}
			bookmarked = false
			return nil
		}

		if _, err := tx.ExecContext(ctx,
			"INSERT INTO bookmarks (user_id, post_id, created_at) VALUES (?, ?, ?)",
			userID, postID, toMillis(toggle.Now),
		); err != nil {
			if isForeignKeyViolation(err) {
				return storage.ErrNotFound
			}
			return fmt.Errorf("insert bookmark: %w", err)
		}
		bookmarked = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return bookmarked, nil
}

func (s *Store) joinRowExists(ctx context.Context, table string, userID string, postID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if err := s.ready(); err != nil {
		return false, err
	}
	userID = strings.TrimSpace(userID)
	postID = strings.TrimSpace(postID)
	if userID == "" || postID == "" {
		return false, fmt.Errorf("user id and post id are required")
	}
	exists, err := rowExists(ctx, s.sqlDB,
		"SELECT 1 FROM "+table+" WHERE user_id = ? AND post_id = ?",
		userID, postID,
	)
	if err != nil {
		return false, fmt.Errorf("check %s: %w", table, err)
	}
	return exists, nil
}

// LikeExists reports whether the (user, post) like row is present.
func (s *Store) LikeExists(ctx context.Context, userID string, postID string) (bool, error) {
	return s.joinRowExists(ctx, "likes", userID, postID)
}

// BookmarkExists reports whether the (user, post) bookmark row is present.
func (s *Store) BookmarkExists(ctx context.Context, userID string, postID string) (bool, error) {
	return s.joinRowExists(ctx, "bookmarks", userID, postID)
}

// ListLikers returns the users who like a post, oldest like first.
func (s *Store) ListLikers(ctx context.Context, postID string) ([]storage.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}
	postID = strings.TrimSpace(postID)
	if postID == "" {
		return nil, fmt.Errorf("post id is required")
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT `+userColumnsQualified+`
		 FROM users
		 JOIN likes ON likes.user_id = users.id
		 WHERE likes.post_id = ?
		 ORDER BY likes.created_at ASC`,
		postID,
	)
	if err != nil {
		return nil, fmt.Errorf("list likers: %w", err)
	}
	defer rows.Close()

	var users []storage.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("list likers: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list likers: %w", err)
	}
	return users, nil
}

// ListBookmarkedPosts returns a user's bookmarked posts, newest bookmark
// first.
func (s *Store) ListBookmarkedPosts(ctx context.Context, userID string) ([]storage.Post, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("user id is required")
	}
	return s.listPosts(ctx,
		`SELECT posts.id, posts.owner_id, posts.storage_id, posts.image_url,
		   posts.caption, posts.likes, posts.comments, posts.created_at
		 FROM posts
		 JOIN bookmarks ON bookmarks.post_id = posts.id
		 WHERE bookmarks.user_id = ?
		 ORDER BY bookmarks.created_at DESC`,
		userID,
	)
}

// InsertComment writes one comment and increments the post comment counter
// in the same transaction.
func (s *Store) InsertComment(ctx context.Context, insert storage.CommentInsert) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	comment := insert.Comment
	if strings.TrimSpace(comment.ID) == "" {
		return fmt.Errorf("comment id is required")
	}
	if strings.TrimSpace(comment.PostID) == "" {
		return fmt.Errorf("comment post id is required")
	}
	if strings.TrimSpace(comment.UserID) == "" {
		return fmt.Errorf("comment user id is required")
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO comments (id, post_id, user_id, content, created_at)
			 VALUES (?, ?, ?, ?, ?)`,
			comment.ID,
			comment.PostID,
			comment.UserID,
			comment.Content,
			toMillis(comment.CreatedAt),
		)
		if err != nil {
			if isForeignKeyViolation(err) {
				return storage.ErrNotFound
			}
			return fmt.Errorf("insert comment: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			"UPDATE posts SET comments = comments + 1 WHERE id = ?",
			comment.PostID,
		); err != nil {
			return fmt.Errorf("update comment counter: %w", err)
		}
		if insert.Notification.ID != "" {
			if err := putNotificationExec(ctx, tx, insert.Notification); err != nil {
				return err
			}
		}
		return nil
	})
}

// ListCommentsByPost returns a post's comments, oldest first.
func (s *Store) ListCommentsByPost(ctx context.Context, postID string) ([]storage.Comment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}
	postID = strings.TrimSpace(postID)
	if postID == "" {
		return nil, fmt.Errorf("post id is required")
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, post_id, user_id, content, created_at
		 FROM comments
		 WHERE post_id = ?
		 ORDER BY created_at ASC, id ASC`,
		postID,
	)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var comments []storage.Comment
	for rows.Next() {
		var comment storage.Comment
		var createdAt int64
		if err := rows.Scan(
			&comment.ID,
			&comment.PostID,
			&comment.UserID,
			&comment.Content,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("list comments: %w", err)
		}
		comment.CreatedAt = fromMillis(createdAt)
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}
