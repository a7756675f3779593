package dispatcher

// Request triggers one dispatch. Exactly one of NotificationID (queued path)
// or Template (direct path) must be set. The direct path carries a recipient
// address and fully formed data; the queued path resolves everything from
// the notification row.
type Request struct {
	NotificationID string                 `json:"notificationId,omitempty"`
	Template       string                 `json:"template,omitempty"`
	To             string                 `json:"to,omitempty"`
	Subject        string                 `json:"subject,omitempty"`
	Data           map[string]interface{} `json:"data,omitempty"`
}

// Dispatch outcome statuses.
const (
	StatusSent             = "sent"
	StatusAlreadyProcessed = "already_processed"
)

// Result reports one dispatch attempt. AlreadyProcessed is a success-shaped
// no-op, distinct from an error: the record was already sent or never
// existed.
type Result struct {
	Success bool   `json:"success"`
	Status  string `json:"status"`
	EmailID string `json:"emailId,omitempty"`
}
