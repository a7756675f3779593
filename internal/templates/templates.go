// Package templates maps a notification type and payload to a rendered
// subject and self-contained HTML document. The catalogue is a closed
// registry: one builder per notification type, unknown types fail loudly.
package templates

import (
	"sort"
	"strings"

	"careerhub-notifications/internal/common/errors"
	"careerhub-notifications/internal/models"
)

// Email is the rendered output of one template builder.
type Email struct {
	Subject string
	HTML    string
}

// Render produces the subject and HTML for the given notification type.
// Returns TEMPLATE_NOT_FOUND for an unregistered type and
// PAYLOAD_VALIDATION_FAILED when required fields are missing.
func Render(t models.NotificationType, p Payload, recipientName, baseURL string) (*Email, error) {
	def, ok := catalogue[t]
	if !ok {
		return nil, errors.NewTemplateNotFoundError(string(t))
	}

	if missing := missingFields(def.required, p); len(missing) > 0 {
		return nil, errors.NewPayloadValidationError(string(t),
			"missing required fields: "+strings.Join(missing, ", "))
	}

	v := def.build(p, buildCtx{Name: recipientName, BaseURL: strings.TrimRight(baseURL, "/")})
	v.RecipientName = recipientName

	html, err := renderLayout(v)
	if err != nil {
		return nil, errors.AsStandard(err)
	}

	return &Email{Subject: v.Subject, HTML: html}, nil
}

// RequiredFields returns the payload fields the given type's template
// requires, or TEMPLATE_NOT_FOUND for an unregistered type.
func RequiredFields(t models.NotificationType) ([]string, error) {
	def, ok := catalogue[t]
	if !ok {
		return nil, errors.NewTemplateNotFoundError(string(t))
	}
	return def.required, nil
}

// Registered returns every type the catalogue has a builder for, sorted.
func Registered() []models.NotificationType {
	out := make([]models.NotificationType, 0, len(catalogue))
	for t := range catalogue {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func missingFields(required []string, p Payload) []string {
	var missing []string
	for _, f := range required {
		if !p.Has(f) {
			missing = append(missing, f)
		}
	}
	return missing
}
