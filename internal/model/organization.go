// internal/model/organization.go
package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type DeploymentType string

const (
	DeploymentOnPremise    DeploymentType = "on-premise"
	DeploymentManagedCloud DeploymentType = "managed-cloud"

	// DeploymentUnknown labels usage reports received before an operator has
	// configured the organization's plan.
	DeploymentUnknown = "unknown"
)

func (d DeploymentType) Valid() bool {
	return d == DeploymentOnPremise || d == DeploymentManagedCloud
}

type BillingPeriod string

const (
	BillingMonthly BillingPeriod = "monthly"
	BillingYearly  BillingPeriod = "yearly"
)

func (b BillingPeriod) Valid() bool {
	return b == BillingMonthly || b == BillingYearly
}

type SubscriptionStatus string

const (
	StatusPending  SubscriptionStatus = "pending"
	StatusTrial    SubscriptionStatus = "trial"
	StatusActive   SubscriptionStatus = "active"
	StatusPastDue  SubscriptionStatus = "past_due"
	StatusCanceled SubscriptionStatus = "canceled"
)

// statusTransitions enumerates the legal status moves. Pending is only left
// by linking, and every linked status can fall back to pending via unlink.
var statusTransitions = map[SubscriptionStatus][]SubscriptionStatus{
	StatusPending:  {StatusTrial},
	StatusTrial:    {StatusTrial, StatusActive, StatusPastDue, StatusCanceled, StatusPending},
	StatusActive:   {StatusActive, StatusTrial, StatusPastDue, StatusCanceled, StatusPending},
	StatusPastDue:  {StatusPastDue, StatusActive, StatusTrial, StatusCanceled, StatusPending},
	StatusCanceled: {StatusCanceled, StatusTrial, StatusActive, StatusPastDue, StatusPending},
}

// CanTransitionTo reports whether moving from s to next is a legal status
// transition.
func (s SubscriptionStatus) CanTransitionTo(next SubscriptionStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// StatusFromProvider folds a provider subscription status string into the
// local status enumeration. Anything unrecognized is treated as canceled.
func StatusFromProvider(providerStatus string) SubscriptionStatus {
	switch providerStatus {
	case "trialing":
		return StatusTrial
	case "active":
		return StatusActive
	case "past_due":
		return StatusPastDue
	default:
		return StatusCanceled
	}
}

// TagExcludeFromStats removes an organization from every statistics
// aggregate (totals, per-day evolution, revenue).
const TagExcludeFromStats = "exclude_from_stats"

// Tags is a free-form string set stored as jsonb.
type Tags []string

// Scan implements the sql.Scanner interface
func (t *Tags) Scan(value interface{}) error {
	if value == nil {
		*t = Tags{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported Scan, storing driver.Value type %T into type %T", value, t)
	}

	return json.Unmarshal(data, t)
}

// Value implements the driver.Valuer interface
func (t Tags) Value() (driver.Value, error) {
	if len(t) == 0 {
		return "[]", nil
	}

	data, err := json.Marshal([]string(t))
	if err != nil {
		return nil, fmt.Errorf("marshaling tags: %w", err)
	}
	return string(data), nil
}

// Contains reports whether the tag set carries tag.
func (t Tags) Contains(tag string) bool {
	for _, v := range t {
		if v == tag {
			return true
		}
	}
	return false
}

// Organization is a tenant of the remote product, tracked purely for
// billing. The ID is assigned by the remote deployment, never generated
// here.
type Organization struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name        string    `gorm:"type:text;not null" json:"name"`
	DisplayName *string   `gorm:"type:text" json:"display_name,omitempty"`
	InstanceURL *string   `gorm:"type:text" json:"instance_url,omitempty"`

	// Billing linkage; both are set by Link and cleared by Unlink, never
	// one without the other.
	StripeCustomerID     *string `gorm:"type:text;uniqueIndex" json:"stripe_customer_id,omitempty"`
	StripeSubscriptionID *string `gorm:"type:text;uniqueIndex" json:"stripe_subscription_id,omitempty"`

	DeploymentType *DeploymentType    `gorm:"type:varchar(20)" json:"deployment_type,omitempty"`
	BillingPeriod  *BillingPeriod     `gorm:"type:varchar(20)" json:"billing_period,omitempty"`
	Status         SubscriptionStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"subscription_status"`
	TrialEnd       *time.Time         `json:"trial_end,omitempty"`

	AdminEmail *string `gorm:"type:text" json:"admin_email,omitempty"`
	Tags       Tags    `gorm:"type:jsonb;not null;default:'[]'" json:"tags"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Reports []UsageReport `gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE" json:"-"`
}

// Linked reports whether the organization carries both provider references.
func (o *Organization) Linked() bool {
	return o.StripeCustomerID != nil && *o.StripeCustomerID != "" &&
		o.StripeSubscriptionID != nil && *o.StripeSubscriptionID != ""
}

// ExcludedFromStats reports whether the organization is tagged out of
// statistics aggregation.
func (o *Organization) ExcludedFromStats() bool {
	return o.Tags.Contains(TagExcludeFromStats)
}
