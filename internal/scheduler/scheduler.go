// Package scheduler implements the producer-facing scheduling helper:
// deferred delivery via scheduled_notifications and immediate in-app
// delivery via notifications.
package scheduler

import (
	"context"
	"time"

	"careerhub-notifications/internal/common/errors"
	"careerhub-notifications/internal/common/logger"
	"careerhub-notifications/internal/common/metrics"
	"careerhub-notifications/internal/models"
	"careerhub-notifications/internal/sendtime"
)

// ScheduledWriter is the slice of the scheduled store the scheduler needs.
type ScheduledWriter interface {
	Insert(ctx context.Context, n *models.ScheduledNotification) (string, error)
}

// NotificationWriter is the slice of the notification store the scheduler
// needs.
type NotificationWriter interface {
	Insert(ctx context.Context, n *models.Notification) (string, error)
}

// Config carries the scheduler's tunables.
type Config struct {
	DefaultMinDelay time.Duration
}

type Scheduler struct {
	config        Config
	scheduled     ScheduledWriter
	notifications NotificationWriter
	optimizer     sendtime.Optimizer
	logger        logger.Logger
	now           func() time.Time
}

func New(cfg Config, scheduled ScheduledWriter, notifications NotificationWriter, optimizer sendtime.Optimizer, log logger.Logger) *Scheduler {
	if cfg.DefaultMinDelay <= 0 {
		cfg.DefaultMinDelay = DefaultMinDelay
	}
	return &Scheduler{
		config:        cfg,
		scheduled:     scheduled,
		notifications: notifications,
		optimizer:     optimizer,
		logger:        log.WithFields(map[string]interface{}{"component": "scheduler"}),
		now:           time.Now,
	}
}

// Schedule computes a delivery time and persists a pending scheduled
// notification. Optimizer failure is recovered locally with the fixed
// fallback delay; only validation and persistence failures surface.
//
// Invariant: the returned ScheduledFor is never earlier than now+minDelay.
func (s *Scheduler) Schedule(ctx context.Context, input *ScheduleInput) (*ScheduleOutput, error) {
	if err := s.validateSchedule(input); err != nil {
		return nil, err
	}

	minDelay := input.MinDelay
	if minDelay == 0 {
		minDelay = s.config.DefaultMinDelay
	}

	now := s.now().UTC()
	floor := now.Add(minDelay)
	scheduledFor := floor
	smart := false

	if !input.NoSmart && s.optimizer != nil {
		optimal, err := s.optimizer.OptimalSendTime(ctx, input.UserID, input.Type, minDelay)
		if err != nil {
			s.logger.Warn("send-time optimization failed, using fallback delay", map[string]interface{}{
				"userId": input.UserID,
				"type":   string(input.Type),
				"error":  err.Error(),
			})
		} else {
			smart = true
			scheduledFor = optimal.UTC()
			if scheduledFor.Before(floor) {
				scheduledFor = floor
			}
		}
	}

	channel := input.Channel
	if channel == "" {
		channel = models.ChannelInApp
	}

	id, err := s.scheduled.Insert(ctx, &models.ScheduledNotification{
		UserID:       input.UserID,
		Type:         input.Type,
		Title:        input.Title,
		Message:      input.Message,
		Data:         input.Data,
		Channel:      channel,
		ScheduledFor: scheduledFor,
		Status:       models.ScheduledStatusPending,
	})
	if err != nil {
		return nil, errors.AsStandard(err)
	}

	metrics.NotificationsScheduled.WithLabelValues(string(input.Type), string(channel), boolLabel(smart)).Inc()
	s.logger.Info("notification scheduled", map[string]interface{}{
		"id":           id,
		"userId":       input.UserID,
		"type":         string(input.Type),
		"scheduledFor": scheduledFor,
		"smart":        smart,
	})

	return &ScheduleOutput{ID: id, ScheduledFor: scheduledFor, Smart: smart}, nil
}

// SendNow writes an in-app notification directly, bypassing scheduling.
func (s *Scheduler) SendNow(ctx context.Context, input *SendNowInput) (*SendNowOutput, error) {
	if input.UserID == "" {
		return nil, errors.NewInvalidInputError("userId is required")
	}
	if input.OrganizationID == "" {
		return nil, errors.NewInvalidInputError("organizationId is required")
	}
	if !input.Type.Valid() {
		return nil, errors.NewInvalidInputError("unknown notification type: " + string(input.Type))
	}

	payload := map[string]interface{}{
		"title":   input.Title,
		"message": input.Message,
	}
	for k, v := range input.Data {
		payload[k] = v
	}

	id, err := s.notifications.Insert(ctx, &models.Notification{
		RecipientID:    input.UserID,
		OrganizationID: input.OrganizationID,
		Type:           input.Type,
		Channel:        models.ChannelInApp,
		Payload:        payload,
	})
	if err != nil {
		return nil, errors.AsStandard(err)
	}

	metrics.NotificationsScheduled.WithLabelValues(string(input.Type), string(models.ChannelInApp), "false").Inc()
	return &SendNowOutput{ID: id}, nil
}

func (s *Scheduler) validateSchedule(input *ScheduleInput) error {
	if input.UserID == "" {
		return errors.NewInvalidInputError("userId is required")
	}
	if !input.Type.Valid() {
		return errors.NewInvalidInputError("unknown notification type: " + string(input.Type))
	}
	if input.MinDelay < 0 {
		return errors.NewInvalidInputError("minimum delay must not be negative")
	}
	if input.Channel != "" && !input.Channel.Valid() {
		return errors.NewInvalidInputError("unknown channel: " + string(input.Channel))
	}
	return nil
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
