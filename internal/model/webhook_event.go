// internal/model/webhook_event.go
package model

import "time"

// WebhookEvent records a processed provider event so that webhook replays
// short-circuit instead of re-applying their effects.
type WebhookEvent struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	ProviderEventID string    `gorm:"type:varchar(191);not null;uniqueIndex" json:"provider_event_id"`
	EventType       string    `gorm:"type:varchar(100);not null;index" json:"event_type"`
	ProcessedAt     time.Time `gorm:"not null" json:"processed_at"`
	CreatedAt       time.Time `json:"created_at"`
}
