package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lumeapp/lume/internal/services/api/storage"
)

// ToggleFollow inserts or removes one directed follow edge and adjusts both
// endpoint counters inside a single transaction.
func (s *Store) ToggleFollow(ctx context.Context, toggle storage.FollowToggle) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if err := s.ready(); err != nil {
		return false, err
	}
	followerID := strings.TrimSpace(toggle.FollowerID)
	followingID := strings.TrimSpace(toggle.FollowingID)
	if followerID == "" {
		return false, fmt.Errorf("follower user id is required")
	}
	if followingID == "" {
		return false, fmt.Errorf("following user id is required")
	}
	if followerID == followingID {
		return false, fmt.Errorf("following user id must differ from follower user id")
	}

	var following bool
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		for _, userID := range []string{followerID, followingID} {
			found, err := userExists(ctx, tx, userID)
			if err != nil {
				return fmt.Errorf("check user %s: %w", userID, err)
			}
			if !found {
				return storage.ErrNotFound
			}
		}

		exists, err := rowExists(ctx, tx,
			"SELECT 1 FROM follows WHERE follower_id = ? AND following_id = ?",
			followerID, followingID,
		)
		if err != nil {
			return fmt.Errorf("check follow edge: %w", err)
		}

		if exists {
			if _, err := tx.ExecContext(ctx,
				"DELETE FROM follows WHERE follower_id = ? AND following_id = ?",
				followerID, followingID,
			); err != nil {
				return fmt.Errorf("delete follow edge: %w", err)
			}
			if err := adjustFollowCounters(ctx, tx, followerID, followingID, -1); err != nil {
				return err
			}
			following = false
			return nil
		}

		if _, err := tx.ExecContext(ctx,
			"INSERT INTO follows (follower_id, following_id, created_at) VALUES (?, ?, ?)",
			followerID, followingID, toMillis(toggle.Now),
		); err != nil {
			return fmt.Errorf("insert follow edge: %w", err)
		}
		if err := adjustFollowCounters(ctx, tx, followerID, followingID, 1); err != nil {
			return err
		}
		if toggle.Notification.ID != "" {
			if err := putNotificationExec(ctx, tx, toggle.Notification); err != nil {
				return err
			}
		}
		following = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return following, nil
}

// adjustFollowCounters moves follower.following and following.followers by
// delta, flooring both at zero.
func adjustFollowCounters(ctx context.Context, tx *sql.Tx, followerID string, followingID string, delta int64) error {
	if _, err := tx.ExecContext(ctx,
		"UPDATE users SET following = MAX(following + ?, 0) WHERE id = ?",
		delta, followerID,
	); err != nil {
		return fmt.Errorf("update following counter: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE users SET followers = MAX(followers + ?, 0) WHERE id = ?",
		delta, followingID,
	); err != nil {
		return fmt.Errorf("update followers counter: %w", err)
	}
	return nil
}

// IsFollowing reports whether the directed follow edge exists.
func (s *Store) IsFollowing(ctx context.Context, followerID string, followingID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if err := s.ready(); err != nil {
		return false, err
	}
	followerID = strings.TrimSpace(followerID)
	followingID = strings.TrimSpace(followingID)
	if followerID == "" || followingID == "" {
		return false, fmt.Errorf("both user ids are required")
	}
	exists, err := rowExists(ctx, s.sqlDB,
		"SELECT 1 FROM follows WHERE follower_id = ? AND following_id = ?",
		followerID, followingID,
	)
	if err != nil {
		return false, fmt.Errorf("check follow edge: %w", err)
	}
	return exists, nil
}

func (s *Store) listFollowUsers(ctx context.Context, query string, userID string) ([]storage.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("user id is required")
	}

	rows, err := s.sqlDB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list follow users: %w", err)
	}
	defer rows.Close()

	var users []storage.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("list follow users: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list follow users: %w", err)
	}
	return users, nil
}

// ListFollowers returns the users following userID, oldest follow first.
func (s *Store) ListFollowers(ctx context.Context, userID string) ([]storage.User, error) {
	return s.listFollowUsers(ctx,
		`SELECT `+userColumnsQualified+`
		 FROM users
		 JOIN follows ON follows.follower_id = users.id
		 WHERE follows.following_id = ?
		 ORDER BY follows.created_at ASC`,
		userID,
	)
}

// ListFollowing returns the users userID follows, oldest follow first.
func (s *Store) ListFollowing(ctx context.Context, userID string) ([]storage.User, error) {
	return s.listFollowUsers(ctx,
		`SELECT `+userColumnsQualified+`
		 FROM users
		 JOIN follows ON follows.following_id = users.id
		 WHERE follows.follower_id = ?
		 ORDER BY follows.created_at ASC`,
		userID,
	)
}
