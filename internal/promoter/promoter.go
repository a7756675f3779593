// Package promoter is the background worker that turns due scheduled
// notifications into notification records and hands them to their delivery
// channel.
package promoter

import (
	"context"
	"time"

	"careerhub-notifications/internal/common/logger"
	"careerhub-notifications/internal/common/metrics"
	"careerhub-notifications/internal/dispatcher"
	"careerhub-notifications/internal/models"
)

// ScheduledStore is the slice of the scheduled store the promoter needs.
type ScheduledStore interface {
	ClaimDue(ctx context.Context, limit int) ([]models.ScheduledNotification, error)
	MarkFailed(ctx context.Context, id string) error
}

// NotificationStore is the slice of the notification store the promoter
// needs.
type NotificationStore interface {
	Insert(ctx context.Context, n *models.Notification) (string, error)
	Claim(ctx context.Context, id string) (bool, error)
}

// EmailDispatcher dispatches one queued notification by id.
type EmailDispatcher interface {
	Dispatch(ctx context.Context, req *dispatcher.Request) (*dispatcher.Result, error)
}

// PushSender publishes a push payload and returns the provider message id.
type PushSender interface {
	PublishPush(ctx context.Context, topicARN, subject, message string) (string, error)
}

type Config struct {
	Interval  time.Duration
	BatchSize int
	PushTopic string
}

type Promoter struct {
	config        Config
	scheduled     ScheduledStore
	notifications NotificationStore
	emails        EmailDispatcher
	pushes        PushSender
	logger        logger.Logger
}

func New(cfg Config, scheduled ScheduledStore, notifications NotificationStore, emails EmailDispatcher, pushes PushSender, log logger.Logger) *Promoter {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	return &Promoter{
		config:        cfg,
		scheduled:     scheduled,
		notifications: notifications,
		emails:        emails,
		pushes:        pushes,
		logger:        log.WithFields(map[string]interface{}{"component": "promoter"}),
	}
}

// Run polls for due rows until the context is cancelled.
func (p *Promoter) Run(ctx context.Context) {
	ticker := time.NewTicker(p.config.Interval)
	defer ticker.Stop()

	p.logger.Info("promoter started", map[string]interface{}{
		"interval":  p.config.Interval.String(),
		"batchSize": p.config.BatchSize,
	})

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("promoter stopped", nil)
			return
		case <-ticker.C:
			if _, err := p.Tick(ctx); err != nil {
				p.logger.Error("promotion tick failed", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}
	}
}

// Tick claims one batch of due rows and promotes each. Per-row failures
// mark that row failed and do not abort the batch. Returns the number of
// rows promoted successfully.
func (p *Promoter) Tick(ctx context.Context) (int, error) {
	due, err := p.scheduled.ClaimDue(ctx, p.config.BatchSize)
	if err != nil {
		return 0, err
	}

	promoted := 0
	for _, row := range due {
		if err := p.promote(ctx, row); err != nil {
			p.logger.Warn("failed to promote scheduled notification", map[string]interface{}{
				"id":      row.ID,
				"type":    string(row.Type),
				"channel": string(row.Channel),
				"error":   err.Error(),
			})
			if markErr := p.scheduled.MarkFailed(ctx, row.ID); markErr != nil {
				p.logger.Error("failed to mark scheduled notification failed", map[string]interface{}{
					"id":    row.ID,
					"error": markErr.Error(),
				})
			}
			metrics.NotificationsPromoted.WithLabelValues(string(row.Channel), "error").Inc()
			continue
		}
		metrics.NotificationsPromoted.WithLabelValues(string(row.Channel), "ok").Inc()
		promoted++
	}
	return promoted, nil
}

func (p *Promoter) promote(ctx context.Context, row models.ScheduledNotification) error {
	payload := map[string]interface{}{
		"title":   row.Title,
		"message": row.Message,
	}
	for k, v := range row.Data {
		payload[k] = v
	}

	id, err := p.notifications.Insert(ctx, &models.Notification{
		RecipientID: row.UserID,
		Type:        row.Type,
		Channel:     row.Channel,
		Payload:     payload,
	})
	if err != nil {
		return err
	}

	switch row.Channel {
	case models.ChannelEmail:
		// Send failures leave the notification row unprocessed; the
		// dispatch trigger can retry it later by id.
		_, err := p.emails.Dispatch(ctx, &dispatcher.Request{NotificationID: id})
		return err
	case models.ChannelPush:
		if p.pushes == nil {
			return nil
		}
		if _, err := p.pushes.PublishPush(ctx, p.config.PushTopic, row.Title, row.Message); err != nil {
			return err
		}
		_, err := p.notifications.Claim(ctx, id)
		return err
	default:
		// in_app: the row itself is the delivery; the UI marks it read.
		return nil
	}
}
