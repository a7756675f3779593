// Package dispatcher renders a notification's template and performs the
// actual email send, with an atomic claim making delivery at-most-once.
package dispatcher

import (
	"context"
	"strings"
	"time"

	"careerhub-notifications/internal/common/errors"
	"careerhub-notifications/internal/common/logger"
	"careerhub-notifications/internal/common/metrics"
	"careerhub-notifications/internal/common/observability"
	"careerhub-notifications/internal/models"
	"careerhub-notifications/internal/templates"
)

// NotificationStore is the slice of the store the dispatcher needs.
type NotificationStore interface {
	FindPendingEmail(ctx context.Context, id string) (*models.PendingEmail, error)
	Claim(ctx context.Context, id string) (bool, error)
	Release(ctx context.Context, id string) error
}

// EmailSender sends one HTML email and returns the provider message id.
type EmailSender interface {
	SendHTML(ctx context.Context, from, to, subject, html string) (string, error)
}

// DeliveryRecorder receives a record of each successful send. Recording is
// best-effort; failures are logged and never fail the dispatch.
type DeliveryRecorder interface {
	RecordDelivery(ctx context.Context, d Delivery)
}

// Delivery describes one successful email send.
type Delivery struct {
	NotificationID string    `json:"notificationId,omitempty"`
	Type           string    `json:"type"`
	Recipient      string    `json:"recipient"`
	Subject        string    `json:"subject"`
	EmailID        string    `json:"emailId"`
	SentAt         time.Time `json:"sentAt"`
}

type Config struct {
	FromEmail string
	BaseURL   string
}

type Dispatcher struct {
	config     Config
	store      NotificationStore
	emails     EmailSender
	deliveries DeliveryRecorder
	obs        *observability.Observability
	logger     logger.Logger
}

func New(cfg Config, store NotificationStore, emails EmailSender, deliveries DeliveryRecorder, obs *observability.Observability, log logger.Logger) *Dispatcher {
	return &Dispatcher{
		config:     cfg,
		store:      store,
		emails:     emails,
		deliveries: deliveries,
		obs:        obs,
		logger:     log.WithFields(map[string]interface{}{"component": "dispatcher"}),
	}
}

// Dispatch produces exactly one outbound email send attempt for the request
// and records the outcome. See Request for the two invocation shapes.
func (d *Dispatcher) Dispatch(ctx context.Context, req *Request) (*Result, error) {
	start := time.Now()
	result, err := d.dispatch(ctx, req)

	status := StatusSent
	if err != nil {
		status = string(errors.AsStandard(err).Code)
	} else if !result.Success {
		status = result.Status
	}
	metrics.DispatchDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())
	if d.obs != nil {
		d.obs.RecordDispatch(ctx, status)
		d.obs.RecordDispatchDuration(ctx, time.Since(start), status)
	}
	return result, err
}

func (d *Dispatcher) dispatch(ctx context.Context, req *Request) (*Result, error) {
	switch {
	case req.Template != "":
		return d.dispatchDirect(ctx, req)
	case req.NotificationID != "":
		return d.dispatchQueued(ctx, req.NotificationID)
	default:
		return nil, errors.NewInvalidInputError("either notificationId or template is required")
	}
}

// dispatchDirect renders the named template against the supplied data and
// sends to the supplied address. The template name accepts both dashed and
// underscored forms ("interview-scheduled" and "interview_scheduled").
func (d *Dispatcher) dispatchDirect(ctx context.Context, req *Request) (*Result, error) {
	if req.To == "" {
		return nil, errors.NewInvalidInputError("recipient address is required for direct sends")
	}

	t := models.NotificationType(strings.ReplaceAll(req.Template, "-", "_"))
	payload := templates.Payload(req.Data)

	email, err := templates.Render(t, payload, payload.Str("recipientName"), d.config.BaseURL)
	if err != nil {
		return nil, err
	}

	subject := req.Subject
	if subject == "" {
		subject = email.Subject
	}

	emailID, err := d.emails.SendHTML(ctx, d.config.FromEmail, req.To, subject, email.HTML)
	if err != nil {
		metrics.EmailsDispatched.WithLabelValues(string(t), "error").Inc()
		return nil, errors.NewEmailSendError(err.Error())
	}

	metrics.EmailsDispatched.WithLabelValues(string(t), "sent").Inc()
	d.recordDelivery(ctx, Delivery{
		Type:      string(t),
		Recipient: req.To,
		Subject:   subject,
		EmailID:   emailID,
		SentAt:    time.Now().UTC(),
	})

	return &Result{Success: true, Status: StatusSent, EmailID: emailID}, nil
}

// dispatchQueued loads the notification row, resolves the recipient, claims
// the row, and sends. A failed send releases the claim so re-invocation can
// retry; a lost claim race or an already-processed row is a no-op result.
func (d *Dispatcher) dispatchQueued(ctx context.Context, id string) (*Result, error) {
	row, err := d.store.FindPendingEmail(ctx, id)
	if err != nil {
		return nil, errors.AsStandard(err)
	}
	if row == nil {
		return &Result{Success: false, Status: StatusAlreadyProcessed}, nil
	}

	payload := templates.Payload(row.Payload)

	to := row.RecipientEmail.String
	if to == "" && row.Type == models.TypeCompanyInvitation {
		// Invitations may address someone with no account yet; the
		// address then comes from the payload itself.
		to = payload.Str("email")
	}
	if to == "" {
		return nil, errors.NewRecipientNotFoundError("no email address for notification " + id)
	}

	name := row.RecipientName.String
	if name == "" {
		name = payload.Str("recipientName")
	}

	email, err := templates.Render(row.Type, payload, name, d.config.BaseURL)
	if err != nil {
		return nil, err
	}

	claimed, err := d.store.Claim(ctx, id)
	if err != nil {
		return nil, errors.AsStandard(err)
	}
	if !claimed {
		return &Result{Success: false, Status: StatusAlreadyProcessed}, nil
	}

	emailID, err := d.emails.SendHTML(ctx, d.config.FromEmail, to, email.Subject, email.HTML)
	if err != nil {
		if releaseErr := d.store.Release(ctx, id); releaseErr != nil {
			d.logger.Error("failed to release claim after send failure", map[string]interface{}{
				"notificationId": id,
				"error":          releaseErr.Error(),
			})
		}
		metrics.EmailsDispatched.WithLabelValues(string(row.Type), "error").Inc()
		return nil, errors.NewEmailSendError(err.Error())
	}

	metrics.EmailsDispatched.WithLabelValues(string(row.Type), "sent").Inc()
	d.logger.Info("email dispatched", map[string]interface{}{
		"notificationId": id,
		"type":           string(row.Type),
		"emailId":        emailID,
	})
	d.recordDelivery(ctx, Delivery{
		NotificationID: id,
		Type:           string(row.Type),
		Recipient:      to,
		Subject:        email.Subject,
		EmailID:        emailID,
		SentAt:         time.Now().UTC(),
	})

	return &Result{Success: true, Status: StatusSent, EmailID: emailID}, nil
}

func (d *Dispatcher) recordDelivery(ctx context.Context, delivery Delivery) {
	if d.deliveries != nil {
		d.deliveries.RecordDelivery(ctx, delivery)
	}
}
