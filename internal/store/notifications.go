// Package store provides the persistence layer for the two queue tables,
// notifications and scheduled_notifications.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"careerhub-notifications/internal/common/errors"
	"careerhub-notifications/internal/models"

	"github.com/google/uuid"
)

// NotificationStore owns the notifications table. The dispatcher is the only
// writer of processed_at; producers only insert.
type NotificationStore struct {
	db *sql.DB
}

func NewNotificationStore(db *sql.DB) *NotificationStore {
	return &NotificationStore{db: db}
}

// Insert creates a new unprocessed notification row and returns its id.
func (s *NotificationStore) Insert(ctx context.Context, n *models.Notification) (string, error) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	payload, err := json.Marshal(n.Payload)
	if err != nil {
		return "", errors.NewInvalidInputError("payload is not serializable: " + err.Error())
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO notifications (id, recipient_user_id, organization_id, type, channel, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		n.ID, n.RecipientID, n.OrganizationID, string(n.Type), string(n.Channel), payload, time.Now().UTC(),
	)
	if err != nil {
		return "", errors.NewQueryError("insert notification: " + err.Error())
	}
	return n.ID, nil
}

// FindPendingEmail loads an unprocessed email notification joined with its
// recipient's contact info. The join is a LEFT JOIN so company invitations
// addressed to non-members still come back, with null recipient fields.
// Returns (nil, nil) when no such row exists (already processed or unknown
// id), which the dispatcher reports as an idempotency no-op, not an error.
func (s *NotificationStore) FindPendingEmail(ctx context.Context, id string) (*models.PendingEmail, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT n.id, n.recipient_user_id, n.organization_id, n.type, n.channel, n.payload, n.created_at,
		       u.email, u.full_name
		FROM notifications n
		LEFT JOIN users u ON u.id = n.recipient_user_id
		WHERE n.id = $1 AND n.channel = 'email' AND n.processed_at IS NULL`,
		id,
	)

	var (
		out     models.PendingEmail
		typ     string
		channel string
		payload []byte
	)
	err := row.Scan(&out.ID, &out.RecipientID, &out.OrganizationID, &typ, &channel, &payload, &out.CreatedAt,
		&out.RecipientEmail, &out.RecipientName)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewQueryError("load notification: " + err.Error())
	}

	out.Type = models.NotificationType(typ)
	out.Channel = models.Channel(channel)
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &out.Payload); err != nil {
			return nil, errors.NewQueryError("decode payload: " + err.Error())
		}
	}
	return &out, nil
}

// Claim atomically marks a notification processed. Returns false when the
// row was already processed (or never existed), which makes concurrent
// dispatch attempts race-safe: exactly one caller wins the claim.
func (s *NotificationStore) Claim(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE notifications SET processed_at = $2
		WHERE id = $1 AND processed_at IS NULL`,
		id, time.Now().UTC(),
	)
	if err != nil {
		return false, errors.NewQueryError("claim notification: " + err.Error())
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, errors.NewQueryError("claim notification: " + err.Error())
	}
	return affected == 1, nil
}

// Release reverts a claim after a failed send so re-invocation can retry.
func (s *NotificationStore) Release(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE notifications SET processed_at = NULL WHERE id = $1`,
		id,
	)
	if err != nil {
		return errors.NewQueryError("release notification: " + err.Error())
	}
	return nil
}

// MarkRead records that the recipient has seen an in-app notification.
func (s *NotificationStore) MarkRead(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE notifications SET read_at = $2 WHERE id = $1 AND read_at IS NULL`,
		id, time.Now().UTC(),
	)
	if err != nil {
		return errors.NewQueryError("mark read: " + err.Error())
	}
	return nil
}
