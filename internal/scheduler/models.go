package scheduler

import (
	"time"

	"careerhub-notifications/internal/models"
)

// DefaultMinDelay applies when a caller does not specify a minimum delay.
const DefaultMinDelay = 15 * time.Minute

// ScheduleInput describes a notification to deliver at a computed future
// time. Smart scheduling defaults to on; NoSmart opts out.
type ScheduleInput struct {
	UserID   string                  `json:"userId"`
	Type     models.NotificationType `json:"notificationType"`
	Title    string                  `json:"title"`
	Message  string                  `json:"message"`
	Data     map[string]interface{}  `json:"data,omitempty"`
	Channel  models.Channel          `json:"channel"`
	NoSmart  bool                    `json:"noSmart,omitempty"`
	MinDelay time.Duration           `json:"-"`
}

// ScheduleOutput reports the persisted scheduled notification.
type ScheduleOutput struct {
	ID           string    `json:"id"`
	ScheduledFor time.Time `json:"scheduledFor"`
	Smart        bool      `json:"smart"` // whether the optimizer supplied the time
}

// SendNowInput describes an immediate in-app notification. OrganizationID is
// required from the caller; there is no ambient tenant fallback.
type SendNowInput struct {
	UserID         string                  `json:"userId"`
	OrganizationID string                  `json:"organizationId"`
	Type           models.NotificationType `json:"notificationType"`
	Title          string                  `json:"title"`
	Message        string                  `json:"message"`
	Data           map[string]interface{}  `json:"data,omitempty"`
}

// SendNowOutput reports the created notification row.
type SendNowOutput struct {
	ID string `json:"id"`
}
