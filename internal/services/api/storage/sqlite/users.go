package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lumeapp/lume/internal/services/api/storage"
)

const userColumns = `id, subject, username, fullname, email, bio, avatar_url,
	 posts, followers, following, created_at, updated_at`

// userColumnsQualified avoids ambiguous column names in joined queries.
const userColumnsQualified = `users.id, users.subject, users.username,
	 users.fullname, users.email, users.bio, users.avatar_url, users.posts,
	 users.followers, users.following, users.created_at, users.updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (storage.User, error) {
	var user storage.User
	var createdAt int64
	var updatedAt int64
	err := row.Scan(
		&user.ID,
		&user.Subject,
		&user.Username,
		&user.Fullname,
		&user.Email,
		&user.Bio,
		&user.AvatarURL,
		&user.Posts,
		&user.Followers,
		&user.Following,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return storage.User{}, err
	}
	user.CreatedAt = fromMillis(createdAt)
	user.UpdatedAt = fromMillis(updatedAt)
	return user, nil
}

// PutUser inserts one directory record.
func (s *Store) PutUser(ctx context.Context, user storage.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	if strings.TrimSpace(user.ID) == "" {
		return fmt.Errorf("user id is required")
	}
	if strings.TrimSpace(user.Subject) == "" {
		return fmt.Errorf("user subject is required")
	}
	if strings.TrimSpace(user.Email) == "" {
		return fmt.Errorf("user email is required")
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO users (`+userColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Subject,
		user.Username,
		user.Fullname,
		user.Email,
		user.Bio,
		user.AvatarURL,
		user.Posts,
		user.Followers,
		user.Following,
		toMillis(user.CreatedAt),
		toMillis(user.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("put user: %w", err)
	}
	return nil
}

func (s *Store) getUserWhere(ctx context.Context, clause string, arg string) (storage.User, error) {
	if err := ctx.Err(); err != nil {
		return storage.User{}, err
	}
	if err := s.ready(); err != nil {
		return storage.User{}, err
	}
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return storage.User{}, fmt.Errorf("lookup value is required")
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT `+userColumns+` FROM users WHERE `+clause,
		arg,
	)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.User{}, storage.ErrNotFound
		}
		return storage.User{}, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// GetUserByID returns one directory record by internal ID.
func (s *Store) GetUserByID(ctx context.Context, userID string) (storage.User, error) {
	return s.getUserWhere(ctx, "id = ?", userID)
}

// GetUserBySubject returns one directory record by external identity subject.
func (s *Store) GetUserBySubject(ctx context.Context, subject string) (storage.User, error) {
	return s.getUserWhere(ctx, "subject = ?", subject)
}

// GetUserByEmail returns one directory record by email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (storage.User, error) {
	return s.getUserWhere(ctx, "email = ?", email)
}

// UpdateUserProfile updates the caller-editable profile fields.
func (s *Store) UpdateUserProfile(ctx context.Context, update storage.ProfileUpdate) (storage.User, error) {
	if err := ctx.Err(); err != nil {
		return storage.User{}, err
	}
	if err := s.ready(); err != nil {
		return storage.User{}, err
	}
	userID := strings.TrimSpace(update.UserID)
	if userID == "" {
		return storage.User{}, fmt.Errorf("user id is required")
	}

	result, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE users SET fullname = ?, bio = ?, updated_at = ? WHERE id = ?`,
		update.Fullname,
		update.Bio,
		toMillis(update.UpdatedAt),
		userID,
	)
	if err != nil {
		return storage.User{}, fmt.Errorf("update user profile: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return storage.User{}, fmt.Errorf("update user profile: %w", err)
	}
	if affected == 0 {
		return storage.User{}, storage.ErrNotFound
	}
	return s.GetUserByID(ctx, userID)
}
