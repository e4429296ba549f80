package models

import "time"

// Notification is transient: constructed only to be persisted and to trigger
// a push fan-out. It is never read back by this system.
type Notification struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Body  string `json:"body"`

	TimestampCreated *time.Time `json:"timestampCreated"`
}
