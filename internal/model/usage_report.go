// internal/model/usage_report.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// UsageReport is one point-in-time active-user count submitted by a remote
// deployment. Rows are append-only: corrections are new reports, and the
// only permitted update is backfilling StripeSyncID after a resync.
type UsageReport struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;index" json:"organization_id"`
	UserCount      int       `gorm:"not null" json:"user_count"`

	// DeploymentType is snapshotted from the organization at report time,
	// "unknown" when the plan has not been configured yet.
	DeploymentType string    `gorm:"type:varchar(20);not null" json:"deployment_type"`
	ReportedAt     time.Time `gorm:"not null;index" json:"reported_at"`

	// StripeSyncID references the confirmed provider-side quantity update,
	// nil when the report was stored without a successful push.
	StripeSyncID *string `gorm:"type:text" json:"stripe_sync_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`

	Organization Organization `gorm:"foreignKey:OrganizationID" json:"-"`
}

// Synced reports whether the provider confirmed the quantity update for
// this report.
func (r *UsageReport) Synced() bool {
	return r.StripeSyncID != nil && *r.StripeSyncID != ""
}
