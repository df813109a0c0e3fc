// internal/repository/usage_report.go
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/opsledger/billingd/internal/domain"
	"github.com/opsledger/billingd/internal/model"
	"gorm.io/gorm"
)

type UsageReportRepositoryIface interface {
	Create(ctx context.Context, report *model.UsageReport) error
	FindRecentByOrganization(ctx context.Context, orgID uuid.UUID, limit int) ([]*model.UsageReport, error)
	FindLatestByOrganization(ctx context.Context, orgID uuid.UUID) (*model.UsageReport, error)
	FindUnsyncedByOrganization(ctx context.Context, orgID uuid.UUID) ([]*model.UsageReport, error)
	FindSince(ctx context.Context, since time.Time) ([]*model.UsageReport, error)
	MarkSynced(ctx context.Context, reportID uuid.UUID, syncID string) error
}

type UsageReportRepository struct {
	db *gorm.DB
}

func NewUsageReportRepository(db *gorm.DB) *UsageReportRepository {
	return &UsageReportRepository{db: db}
}

func (r *UsageReportRepository) Create(ctx context.Context, report *model.UsageReport) error {
	if err := r.db.WithContext(ctx).Create(report).Error; err != nil {
		return fmt.Errorf("creating usage report: %w", err)
	}
	return nil
}

// FindRecentByOrganization returns the most recent reports first.
func (r *UsageReportRepository) FindRecentByOrganization(ctx context.Context, orgID uuid.UUID, limit int) ([]*model.UsageReport, error) {
	var reports []*model.UsageReport
	result := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Order("reported_at DESC").
		Limit(limit).
		Find(&reports)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find usage reports: %w", result.Error)
	}
	return reports, nil
}

func (r *UsageReportRepository) FindLatestByOrganization(ctx context.Context, orgID uuid.UUID) (*model.UsageReport, error) {
	var report model.UsageReport
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Order("reported_at DESC").
		First(&report).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("finding latest usage report: %w", err)
	}
	return &report, nil
}

// FindUnsyncedByOrganization returns reports never confirmed by the
// provider, oldest first, so a resync replays them in submission order.
func (r *UsageReportRepository) FindUnsyncedByOrganization(ctx context.Context, orgID uuid.UUID) ([]*model.UsageReport, error) {
	var reports []*model.UsageReport
	result := r.db.WithContext(ctx).
		Where("organization_id = ? AND stripe_sync_id IS NULL", orgID).
		Order("reported_at").
		Find(&reports)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find unsynced usage reports: %w", result.Error)
	}
	return reports, nil
}

// FindSince returns all reports in the window with their organizations
// preloaded, for read-side aggregation.
func (r *UsageReportRepository) FindSince(ctx context.Context, since time.Time) ([]*model.UsageReport, error) {
	var reports []*model.UsageReport
	result := r.db.WithContext(ctx).
		Preload("Organization").
		Where("reported_at >= ?", since).
		Order("reported_at").
		Find(&reports)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find usage reports since %s: %w", since, result.Error)
	}
	return reports, nil
}

// MarkSynced backfills the provider confirmation reference. This is the
// only mutation usage reports ever see.
func (r *UsageReportRepository) MarkSynced(ctx context.Context, reportID uuid.UUID, syncID string) error {
	if err := r.db.WithContext(ctx).
		Model(&model.UsageReport{}).
		Where("id = ?", reportID).
		Update("stripe_sync_id", syncID).Error; err != nil {
		return fmt.Errorf("marking usage report synced: %w", err)
	}
	return nil
}
