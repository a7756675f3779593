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

// ScheduledStore owns the scheduled_notifications table. The scheduling
// helper only inserts; the promoter claims due rows and transitions them.
type ScheduledStore struct {
	db *sql.DB
}

func NewScheduledStore(db *sql.DB) *ScheduledStore {
	return &ScheduledStore{db: db}
}

// Insert creates a pending scheduled notification and returns its id.
func (s *ScheduledStore) Insert(ctx context.Context, n *models.ScheduledNotification) (string, error) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	data, err := json.Marshal(n.Data)
	if err != nil {
		return "", errors.NewInvalidInputError("data is not serializable: " + err.Error())
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO scheduled_notifications
			(id, user_id, notification_type, title, message, data, channel, scheduled_for, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		n.ID, n.UserID, string(n.Type), n.Title, n.Message, data, string(n.Channel),
		n.ScheduledFor.UTC(), string(models.ScheduledStatusPending), time.Now().UTC(),
	)
	if err != nil {
		return "", errors.NewSchedulePersistError(err.Error())
	}
	return n.ID, nil
}

// ClaimDue atomically transitions up to limit due pending rows to sent and
// returns them. The subselect takes row locks with SKIP LOCKED so two
// promoter instances never claim the same row.
func (s *ScheduledStore) ClaimDue(ctx context.Context, limit int) ([]models.ScheduledNotification, error) {
	rows, err := s.db.QueryContext(ctx, `
		UPDATE scheduled_notifications SET status = 'sent', sent_at = now()
		WHERE id IN (
			SELECT id FROM scheduled_notifications
			WHERE status = 'pending' AND scheduled_for <= now()
			ORDER BY scheduled_for
			LIMIT $1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, user_id, notification_type, title, message, data, channel, scheduled_for, created_at`,
		limit,
	)
	if err != nil {
		return nil, errors.NewQueryError("claim due notifications: " + err.Error())
	}
	defer rows.Close()

	var out []models.ScheduledNotification
	for rows.Next() {
		var (
			n       models.ScheduledNotification
			typ     string
			channel string
			data    []byte
		)
		if err := rows.Scan(&n.ID, &n.UserID, &typ, &n.Title, &n.Message, &data, &channel, &n.ScheduledFor, &n.CreatedAt); err != nil {
			return nil, errors.NewQueryError("scan scheduled notification: " + err.Error())
		}
		n.Type = models.NotificationType(typ)
		n.Channel = models.Channel(channel)
		n.Status = models.ScheduledStatusSent
		if len(data) > 0 {
			if err := json.Unmarshal(data, &n.Data); err != nil {
				return nil, errors.NewQueryError("decode scheduled data: " + err.Error())
			}
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewQueryError("claim due notifications: " + err.Error())
	}
	return out, nil
}

// MarkFailed records that a claimed row could not be promoted.
func (s *ScheduledStore) MarkFailed(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE scheduled_notifications SET status = 'failed' WHERE id = $1`,
		id,
	)
	if err != nil {
		return errors.NewQueryError("mark scheduled failed: " + err.Error())
	}
	return nil
}

// Cancel flips a still-pending row to cancelled. Returns false when the row
// already left the pending state.
func (s *ScheduledStore) Cancel(ctx context.Context, id, userID string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE scheduled_notifications SET status = 'cancelled'
		WHERE id = $1 AND user_id = $2 AND status = 'pending'`,
		id, userID,
	)
	if err != nil {
		return false, errors.NewQueryError("cancel scheduled notification: " + err.Error())
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, errors.NewQueryError("cancel scheduled notification: " + err.Error())
	}
	return affected == 1, nil
}
