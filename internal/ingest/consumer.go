// Package ingest consumes producer domain events from Kafka and turns them
// into scheduler calls, so backend services can produce notifications
// without linking this module.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"careerhub-notifications/internal/common/config"
	"careerhub-notifications/internal/common/errors"
	"careerhub-notifications/internal/common/logger"
	"careerhub-notifications/internal/common/metrics"
	"careerhub-notifications/internal/models"
	"careerhub-notifications/internal/scheduler"

	"github.com/segmentio/kafka-go"
	"github.com/xeipuuv/gojsonschema"
)

// eventSchema is the contract producers must honor. Validation happens
// before anything touches the scheduler so malformed events fail with a
// field-level message.
const eventSchema = `{
	"type": "object",
	"required": ["user_id", "type", "title", "message"],
	"properties": {
		"user_id": {"type": "string", "minLength": 1},
		"type": {"type": "string", "minLength": 1},
		"title": {"type": "string"},
		"message": {"type": "string"},
		"data": {"type": "object"},
		"channel": {"type": "string", "enum": ["email", "in_app", "push"]},
		"no_smart": {"type": "boolean"},
		"min_delay_minutes": {"type": "integer", "minimum": 0}
	},
	"additionalProperties": false
}`

// Event is one producer notification event.
type Event struct {
	UserID          string                 `json:"user_id"`
	Type            string                 `json:"type"`
	Title           string                 `json:"title"`
	Message         string                 `json:"message"`
	Data            map[string]interface{} `json:"data,omitempty"`
	Channel         string                 `json:"channel,omitempty"`
	NoSmart         bool                   `json:"no_smart,omitempty"`
	MinDelayMinutes int                    `json:"min_delay_minutes,omitempty"`
}

// SchedulerAPI is the slice of the scheduler the consumer needs.
type SchedulerAPI interface {
	Schedule(ctx context.Context, input *scheduler.ScheduleInput) (*scheduler.ScheduleOutput, error)
}

type Consumer struct {
	reader    *kafka.Reader
	scheduler SchedulerAPI
	schema    *gojsonschema.Schema
	logger    logger.Logger
}

func NewConsumer(cfg config.IngestConfig, s SchedulerAPI, log logger.Logger) (*Consumer, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(eventSchema))
	if err != nil {
		return nil, fmt.Errorf("compile event schema: %w", err)
	}

	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:        strings.Split(cfg.Brokers, ","),
			GroupID:        cfg.GroupID,
			Topic:          cfg.Topic,
			MinBytes:       10e3,
			MaxBytes:       10e6,
			CommitInterval: time.Second,
		}),
		scheduler: s,
		schema:    schema,
		logger:    log.WithFields(map[string]interface{}{"component": "ingest"}),
	}, nil
}

// NewHandlerOnly builds a consumer without a Kafka reader, for tests that
// exercise HandleEvent directly.
func NewHandlerOnly(s SchedulerAPI, log logger.Logger) (*Consumer, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(eventSchema))
	if err != nil {
		return nil, fmt.Errorf("compile event schema: %w", err)
	}
	return &Consumer{scheduler: s, schema: schema, logger: log}, nil
}

// Run consumes until the context is cancelled. Malformed events are logged
// and committed so a poison message never wedges the partition; scheduler
// failures are logged and committed too, since redelivery would hit the
// same validation result.
func (c *Consumer) Run(ctx context.Context) error {
	defer func() {
		_ = c.reader.Close()
	}()

	c.logger.Info("ingest consumer started", map[string]interface{}{
		"topic":   c.reader.Config().Topic,
		"groupId": c.reader.Config().GroupID,
	})

	for {
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.logger.Info("ingest consumer stopped", nil)
				return nil
			}
			c.logger.Error("fetch failed", map[string]interface{}{"error": err.Error()})
			time.Sleep(time.Second)
			continue
		}

		if err := c.HandleEvent(ctx, m.Value); err != nil {
			c.logger.Warn("event rejected", map[string]interface{}{
				"offset": m.Offset,
				"error":  err.Error(),
			})
		}

		if err := c.reader.CommitMessages(ctx, m); err != nil {
			c.logger.Error("commit failed", map[string]interface{}{"error": err.Error()})
		}
	}
}

// HandleEvent validates and schedules one producer event.
func (c *Consumer) HandleEvent(ctx context.Context, value []byte) error {
	result, err := c.schema.Validate(gojsonschema.NewBytesLoader(value))
	if err != nil {
		metrics.IngestEvents.WithLabelValues("invalid").Inc()
		return errors.NewEventParseError(err.Error())
	}
	if !result.Valid() {
		metrics.IngestEvents.WithLabelValues("invalid").Inc()
		details := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			details = append(details, e.String())
		}
		return errors.NewEventParseError(strings.Join(details, "; "))
	}

	var event Event
	if err := json.Unmarshal(value, &event); err != nil {
		metrics.IngestEvents.WithLabelValues("invalid").Inc()
		return errors.NewEventParseError(err.Error())
	}

	_, err = c.scheduler.Schedule(ctx, &scheduler.ScheduleInput{
		UserID:   event.UserID,
		Type:     models.NotificationType(event.Type),
		Title:    event.Title,
		Message:  event.Message,
		Data:     event.Data,
		Channel:  models.Channel(event.Channel),
		NoSmart:  event.NoSmart,
		MinDelay: time.Duration(event.MinDelayMinutes) * time.Minute,
	})
	if err != nil {
		metrics.IngestEvents.WithLabelValues("error").Inc()
		return err
	}

	metrics.IngestEvents.WithLabelValues("ok").Inc()
	return nil
}
