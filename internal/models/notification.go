package models

import (
	"database/sql"
	"time"
)

// Channel is the delivery medium for a notification.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelInApp Channel = "in_app"
	ChannelPush  Channel = "push"
)

func (c Channel) Valid() bool {
	switch c {
	case ChannelEmail, ChannelInApp, ChannelPush:
		return true
	}
	return false
}

// ScheduledStatus is the lifecycle state of a scheduled notification.
type ScheduledStatus string

const (
	ScheduledStatusPending   ScheduledStatus = "pending"
	ScheduledStatusSent      ScheduledStatus = "sent"
	ScheduledStatusFailed    ScheduledStatus = "failed"
	ScheduledStatusCancelled ScheduledStatus = "cancelled"
)

// Notification is the unit of outbound communication tracked for
// at-most-once delivery. Created by a producer, consumed once by the
// dispatcher, never mutated after ProcessedAt is set.
type Notification struct {
	ID             string                 `json:"id"`
	RecipientID    string                 `json:"recipientId"`
	OrganizationID string                 `json:"organizationId"`
	Type           NotificationType       `json:"type"`
	Channel        Channel                `json:"channel"`
	Payload        map[string]interface{} `json:"payload"`
	ReadAt         sql.NullTime           `json:"readAt"`
	ProcessedAt    sql.NullTime           `json:"processedAt"`
	CreatedAt      time.Time              `json:"createdAt"`
}

// ScheduledNotification is a deferred instruction to deliver a notification
// no earlier than ScheduledFor.
type ScheduledNotification struct {
	ID           string                 `json:"id"`
	UserID       string                 `json:"userId"`
	Type         NotificationType       `json:"notificationType"`
	Title        string                 `json:"title"`
	Message      string                 `json:"message"`
	Data         map[string]interface{} `json:"data,omitempty"`
	Channel      Channel                `json:"channel"`
	ScheduledFor time.Time              `json:"scheduledFor"`
	Status       ScheduledStatus        `json:"status"`
	CreatedAt    time.Time              `json:"createdAt"`
}

// Recipient is the contact info resolved from the user directory at
// dispatch time.
type Recipient struct {
	UserID   string `json:"userId"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
}

// PendingEmail is a notification row joined with its recipient's contact
// info, as read by the dispatcher. Recipient fields are null when the row
// addresses a non-member (company invitations).
type PendingEmail struct {
	Notification
	RecipientEmail sql.NullString `json:"recipientEmail"`
	RecipientName  sql.NullString `json:"recipientName"`
}
