package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/lumeapp/lume/internal/services/api/storage"
)

// putNotificationExec inserts one notification row using the provided
// executor so toggles can append notifications inside their transaction.
func putNotificationExec(ctx context.Context, q execer, notification storage.Notification) error {
	if strings.TrimSpace(notification.ID) == "" {
		return fmt.Errorf("notification id is required")
	}
	if strings.TrimSpace(notification.ReceiverID) == "" {
		return fmt.Errorf("notification receiver id is required")
	}
	if strings.TrimSpace(notification.SenderID) == "" {
		return fmt.Errorf("notification sender id is required")
	}
	if strings.TrimSpace(notification.Type) == "" {
		return fmt.Errorf("notification type is required")
	}

	_, err := q.ExecContext(ctx,
		`INSERT INTO notifications (id, receiver_id, sender_id, type, post_id, comment_text, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		notification.ID,
		notification.ReceiverID,
		notification.SenderID,
		notification.Type,
		notification.PostID,
		notification.CommentText,
		toMillis(notification.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// ListNotificationsByReceiver returns a user's notifications, newest first.
func (s *Store) ListNotificationsByReceiver(ctx context.Context, receiverID string) ([]storage.Notification, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}
	receiverID = strings.TrimSpace(receiverID)
	if receiverID == "" {
		return nil, fmt.Errorf("receiver id is required")
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, receiver_id, sender_id, type, post_id, comment_text, created_at
		 FROM notifications
		 WHERE receiver_id = ?
		 ORDER BY created_at DESC, id DESC`,
		receiverID,
	)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []storage.Notification
	for rows.Next() {
		var notification storage.Notification
		var createdAt int64
		if err := rows.Scan(
			&notification.ID,
			&notification.ReceiverID,
			&notification.SenderID,
			&notification.Type,
			&notification.PostID,
			&notification.CommentText,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("list notifications: %w", err)
		}
		notification.CreatedAt = fromMillis(createdAt)
		notifications = append(notifications, notification)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return notifications, nil
}
