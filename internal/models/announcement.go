package models

import "time"

// Announcement is a dated broadcast with an optional link and image.
// TimestampCreated is write-once: the update path never sends it back.
type Announcement struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Link        string `json:"link,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`

	TimestampCreated *time.Time `json:"timestampCreated"`
	TimestampUpdated *time.Time `json:"timestampUpdated"`
}
