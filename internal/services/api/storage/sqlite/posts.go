package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lumeapp/lume/internal/services/api/storage"
)

const postColumns = `id, owner_id, storage_id, image_url, caption, likes,
	 comments, created_at`

func scanPost(row rowScanner) (storage.Post, error) {
	var post storage.Post
	var createdAt int64
	err := row.Scan(
		&post.ID,
		&post.OwnerID,
		&post.StorageID,
		&post.ImageURL,
		&post.Caption,
		&post.Likes,
		&post.Comments,
		&createdAt,
	)
	if err != nil {
		return storage.Post{}, err
	}
	post.CreatedAt = fromMillis(createdAt)
	return post, nil
}

// InsertPost writes one post and increments the owner post counter in the
// same transaction.
func (s *Store) InsertPost(ctx context.Context, post storage.Post) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	if strings.TrimSpace(post.ID) == "" {
		return fmt.Errorf("post id is required")
	}
	if strings.TrimSpace(post.OwnerID) == "" {
		return fmt.Errorf("post owner id is required")
	}
	if strings.TrimSpace(post.StorageID) == "" {
		return fmt.Errorf("post storage id is required")
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO posts (`+postColumns+`)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			post.ID,
			post.OwnerID,
			post.StorageID,
			post.ImageURL,
			post.Caption,
			post.Likes,
			post.Comments,
			toMillis(post.CreatedAt),
		)
		if err != nil {
			if isForeignKeyViolation(err) {
				return storage.ErrNotFound
			}
			if isUniqueViolation(err) {
				return storage.ErrAlreadyExists
			}
			return fmt.Errorf("insert post: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			"UPDATE users SET posts = posts + 1 WHERE id = ?",
			post.OwnerID,
		); err != nil {
			return fmt.Errorf("update post counter: %w", err)
		}
		return nil
	})
}

// GetPost returns one post by ID.
func (s *Store) GetPost(ctx context.Context, postID string) (storage.Post, error) {
	if err := ctx.Err(); err != nil {
		return storage.Post{}, err
	}
	if err := s.ready(); err != nil {
		return storage.Post{}, err
	}
	postID = strings.TrimSpace(postID)
	if postID == "" {
		return storage.Post{}, fmt.Errorf("post id is required")
	}
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT `+postColumns+` FROM posts WHERE id = ?`, postID,
	)
	post, err := scanPost(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Post{}, storage.ErrNotFound
		}
		return storage.Post{}, fmt.Errorf("get post: %w", err)
	}
	return post, nil
}

func (s *Store) listPosts(ctx context.Context, query string, args ...any) ([]storage.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var posts []storage.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("list posts: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

// ListPosts returns all posts, newest first.
func (s *Store) ListPosts(ctx context.Context) ([]storage.Post, error) {
	return s.listPosts(ctx,
		`SELECT `+postColumns+` FROM posts ORDER BY created_at DESC, id DESC`,
	)
}

// ListPostsByOwner returns one user's posts, newest first.
func (s *Store) ListPostsByOwner(ctx context.Context, ownerID string) ([]storage.Post, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, fmt.Errorf("owner id is required")
	}
	return s.listPosts(ctx,
		`SELECT `+postColumns+`
		 FROM posts
		 WHERE owner_id = ?
		 ORDER BY created_at DESC, id DESC`,
		ownerID,
	)
}

// DeletePostCascade removes one post together with all dependent rows and
// decrements the owner post counter, all inside a single transaction. The
// returned storage ID identifies the image blob released by the caller
// after commit.
func (s *Store) DeletePostCascade(ctx context.Context, postID string, ownerID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := s.ready(); err != nil {
		return "", err
	}
	postID = strings.TrimSpace(postID)
	ownerID = strings.TrimSpace(ownerID)
	if postID == "" {
		return "", fmt.Errorf("post id is required")
	}
	if ownerID == "" {
		return "", fmt.Errorf("owner id is required")
	}

	var storageID string
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var postOwnerID string
		err := tx.QueryRowContext(ctx,
			"SELECT owner_id, storage_id FROM posts WHERE id = ?", postID,
		).Scan(&postOwnerID, &storageID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return storage.ErrNotFound
			}
			return fmt.Errorf("get post for delete: %w", err)
		}
		if postOwnerID != ownerID {
			return storage.ErrNotOwner
		}

		for _, stmt := range []string{
			"DELETE FROM likes WHERE post_id = ?",
			"DELETE FROM comments WHERE post_id = ?",
			"DELETE FROM bookmarks WHERE post_id = ?",
			"DELETE FROM notifications WHERE post_id = ?",
			"DELETE FROM posts WHERE id = ?",
		} {
			if _, err := tx.ExecContext(ctx, stmt, postID); err != nil {
				return fmt.Errorf("cascade delete post: %w", err)
			}
		}
		if _, err := tx.ExecContext(ctx,
			"UPDATE users SET posts = MAX(posts - 1, 0) WHERE id = ?",
			ownerID,
		); err != nil {
			return fmt.Errorf("update post counter: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return storageID, nil
}
