package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lumeapp/lume/internal/services/api/storage"
)

// InsertUpload reserves one media upload slot.
func (s *Store) InsertUpload(ctx context.Context, upload storage.Upload) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	if strings.TrimSpace(upload.StorageID) == "" {
		return fmt.Errorf("storage id is required")
	}
	if strings.TrimSpace(upload.Subject) == "" {
		return fmt.Errorf("subject is required")
	}

	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO media_uploads (storage_id, subject, created_at) VALUES (?, ?, ?)`,
		upload.StorageID, upload.Subject, toMillis(upload.CreatedAt),
	)
	if isUniqueViolation(err) {
		return storage.ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("insert media upload: %w", err)
	}
	return nil
}

// ConsumeUpload marks a reserved slot as used by its owning subject.
func (s *Store) ConsumeUpload(ctx context.Context, storageID string, subject string, now time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		var owner string
		var consumedAt sql.NullInt64
		err := tx.QueryRowContext(ctx,
			`SELECT subject, consumed_at FROM media_uploads WHERE storage_id = ?`,
			storageID,
		).Scan(&owner, &consumedAt)
		if errors.Is(err, sql.ErrNoRows) {
			return storage.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get media upload: %w", err)
		}
		if owner != subject {
			return storage.ErrNotOwner
		}
		if consumedAt.Valid {
			return storage.ErrAlreadyExists
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE media_uploads SET consumed_at = ? WHERE storage_id = ?`,
			toMillis(now), storageID,
		); err != nil {
			return fmt.Errorf("consume media upload: %w", err)
		}
		return nil
	})
}
