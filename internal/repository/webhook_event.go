// internal/repository/webhook_event.go
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/opsledger/billingd/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WebhookEventRepositoryIface interface {
	MarkProcessed(ctx context.Context, providerEventID, eventType string) (bool, error)
	Seen(ctx context.Context, providerEventID string) (bool, error)
}

type WebhookEventRepository struct {
	db *gorm.DB
}

func NewWebhookEventRepository(db *gorm.DB) *WebhookEventRepository {
	return &WebhookEventRepository{db: db}
}

// MarkProcessed records the event and reports whether this delivery was the
// first one. A conflicting insert means the event was already applied.
func (r *WebhookEventRepository) MarkProcessed(ctx context.Context, providerEventID, eventType string) (bool, error) {
	event := model.WebhookEvent{
		ProviderEventID: providerEventID,
		EventType:       eventType,
		ProcessedAt:     time.Now().UTC(),
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "provider_event_id"}},
			DoNothing: true,
		}).
		Create(&event)
	if result.Error != nil {
		return false, fmt.Errorf("recording webhook event: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *WebhookEventRepository) Seen(ctx context.Context, providerEventID string) (bool, error) {
	var event model.WebhookEvent
	err := r.db.WithContext(ctx).Where("provider_event_id = ?", providerEventID).First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("checking webhook event: %w", err)
	}
	return true, nil
}
