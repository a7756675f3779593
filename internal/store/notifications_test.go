package store

import (
	"context"
	"errors"
	"testing"
	"time"

	stderrors "careerhub-notifications/internal/common/errors"
	"careerhub-notifications/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pendingEmailColumns() []string {
	return []string{"id", "recipient_user_id", "organization_id", "type", "channel", "payload", "created_at", "email", "full_name"}
}

func TestNotificationStore_Insert_GeneratesID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO notifications`).
		WithArgs(
			sqlmock.AnyArg(), // generated UUID
			"user-1",
			"org-1",
			"welcome",
			"email",
			sqlmock.AnyArg(), // JSON payload
			sqlmock.AnyArg(), // created_at
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	store := NewNotificationStore(db)
	id, err := store.Insert(context.Background(), &models.Notification{
		RecipientID:    "user-1",
		OrganizationID: "org-1",
		Type:           models.TypeWelcome,
		Channel:        models.ChannelEmail,
		Payload:        map[string]interface{}{"title": "Welcome"},
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Contains(t, id, "-")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationStore_Insert_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO notifications`).
		WillReturnError(errors.New("connection refused"))

	store := NewNotificationStore(db)
	_, err = store.Insert(context.Background(), &models.Notification{
		RecipientID:    "user-1",
		OrganizationID: "org-1",
		Type:           models.TypeWelcome,
		Channel:        models.ChannelInApp,
	})

	require.Error(t, err)
	assert.Equal(t, stderrors.ErrCodeQueryFailed, stderrors.AsStandard(err).Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationStore_FindPendingEmail_Found(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	created := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT n.id, n.recipient_user_id`).
		WithArgs("notif-1").
		WillReturnRows(sqlmock.NewRows(pendingEmailColumns()).
			AddRow("notif-1", "user-1", "org-1", "welcome", "email", []byte(`{"title":"Welcome"}`), created, "jo@example.com", "Jo Park"))

	store := NewNotificationStore(db)
	pending, err := store.FindPendingEmail(context.Background(), "notif-1")

	require.NoError(t, err)
	require.NotNil(t, pending)
	assert.Equal(t, "notif-1", pending.ID)
	assert.Equal(t, models.TypeWelcome, pending.Type)
	assert.Equal(t, "jo@example.com", pending.RecipientEmail.String)
	assert.Equal(t, "Jo Park", pending.RecipientName.String)
	assert.Equal(t, "Welcome", pending.Payload["title"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationStore_FindPendingEmail_NoRowIsNotAnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT n.id, n.recipient_user_id`).
		WithArgs("notif-gone").
		WillReturnRows(sqlmock.NewRows(pendingEmailColumns()))

	store := NewNotificationStore(db)
	pending, err := store.FindPendingEmail(context.Background(), "notif-gone")

	assert.NoError(t, err)
	assert.Nil(t, pending)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationStore_FindPendingEmail_NullRecipient(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	created := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT n.id, n.recipient_user_id`).
		WithArgs("notif-2").
		WillReturnRows(sqlmock.NewRows(pendingEmailColumns()).
			AddRow("notif-2", "invitee-1", "org-1", "company_invitation", "email",
				[]byte(`{"companyName":"Acme","inviterName":"Sam","email":"guest@example.com"}`), created, nil, nil))

	store := NewNotificationStore(db)
	pending, err := store.FindPendingEmail(context.Background(), "notif-2")

	require.NoError(t, err)
	require.NotNil(t, pending)
	assert.False(t, pending.RecipientEmail.Valid)
	assert.Equal(t, "guest@example.com", pending.Payload["email"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationStore_Claim_WinsOnUnprocessedRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE notifications SET processed_at`).
		WithArgs("notif-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	store := NewNotificationStore(db)
	claimed, err := store.Claim(context.Background(), "notif-1")

	assert.NoError(t, err)
	assert.True(t, claimed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationStore_Claim_LosesOnProcessedRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE notifications SET processed_at`).
		WithArgs("notif-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	store := NewNotificationStore(db)
	claimed, err := store.Claim(context.Background(), "notif-1")

	assert.NoError(t, err)
	assert.False(t, claimed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationStore_Release(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE notifications SET processed_at = NULL`).
		WithArgs("notif-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	store := NewNotificationStore(db)
	assert.NoError(t, store.Release(context.Background(), "notif-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationStore_MarkRead(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE notifications SET read_at`).
		WithArgs("notif-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	store := NewNotificationStore(db)
	assert.NoError(t, store.MarkRead(context.Background(), "notif-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
