// internal/repository/organization.go
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

type OrganizationRepositoryIface interface {
	Create(ctx context.Context, org *model.Organization) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Organization, error)
	FindByStripeCustomer(ctx context.Context, customerID string) (*model.Organization, error)
	FindAll(ctx context.Context) ([]*model.Organization, error)
	Update(ctx context.Context, org *model.Organization) error
	RefreshDisplayFields(ctx context.Context, id uuid.UUID, name string, instanceURL *string) error
	Link(ctx context.Context, org *model.Organization) error
	Unlink(ctx context.Context, id uuid.UUID) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.SubscriptionStatus, trialEnd *time.Time) error
}

type OrganizationRepository struct {
	db *gorm.DB
}

func NewOrganizationRepository(db *gorm.DB) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

func (r *OrganizationRepository) Create(ctx context.Context, org *model.Organization) error {
	if err := r.db.WithContext(ctx).Create(org).Error; err != nil {
		return fmt.Errorf("creating organization: %w", err)
	}
	return nil
}

func (r *OrganizationRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Organization, error) {
	var org model.Organization
	if err := r.db.WithContext(ctx).First(&org, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("finding organization: %w", err)
	}
	return &org, nil
}

func (r *OrganizationRepository) FindByStripeCustomer(ctx context.Context, customerID string) (*model.Organization, error) {
	var org model.Organization
	if err := r.db.WithContext(ctx).First(&org, "stripe_customer_id = ?", customerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("finding organization by customer: %w", err)
	}
	return &org, nil
}

// FindAll returns all organizations ordered by creation time.
func (r *OrganizationRepository) FindAll(ctx context.Context) ([]*model.Organization, error) {
	var orgs []*model.Organization
	result := r.db.WithContext(ctx).Order("created_at").Find(&orgs)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find all organizations: %w", result.Error)
	}
	return orgs, nil
}

func (r *OrganizationRepository) Update(ctx context.Context, org *model.Organization) error {
	if err := r.db.WithContext(ctx).Save(org).Error; err != nil {
		return fmt.Errorf("updating organization: %w", err)
	}
	return nil
}

// RefreshDisplayFields updates the mutable display fields reported by the
// deployment without touching billing linkage or configuration.
func (r *OrganizationRepository) RefreshDisplayFields(ctx context.Context, id uuid.UUID, name string, instanceURL *string) error {
	updates := map[string]interface{}{"name": name}
	if instanceURL != nil && *instanceURL != "" {
		updates["instance_url"] = *instanceURL
	}
	if err := r.db.WithContext(ctx).Model(&model.Organization{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return fmt.Errorf("refreshing organization display fields: %w", err)
	}
	return nil
}

// Link persists the provider references and plan configuration in one
// transaction so linkage fields stay all-or-nothing.
func (r *OrganizationRepository) Link(ctx context.Context, org *model.Organization) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"stripe_customer_id":     org.StripeCustomerID,
			"stripe_subscription_id": org.StripeSubscriptionID,
			"deployment_type":        org.DeploymentType,
			"billing_period":         org.BillingPeriod,
			"admin_email":            org.AdminEmail,
			"status":                 org.Status,
			"trial_end":              org.TrialEnd,
		}
		if err := tx.Model(&model.Organization{}).Where("id = ?", org.ID).Updates(updates).Error; err != nil {
			return fmt.Errorf("linking organization: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}
	return nil
}

// Unlink clears provider references and plan configuration together and
// resets the status to pending.
func (r *OrganizationRepository) Unlink(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"stripe_customer_id":     nil,
			"stripe_subscription_id": nil,
			"deployment_type":        nil,
			"billing_period":         nil,
			"trial_end":              nil,
			"status":                 model.StatusPending,
		}
		if err := tx.Model(&model.Organization{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return fmt.Errorf("unlinking organization: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}
	return nil
}

func (r *OrganizationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.SubscriptionStatus, trialEnd *time.Time) error {
	updates := map[string]interface{}{"status": status}
	if trialEnd != nil {
		updates["trial_end"] = trialEnd
	}
	if err := r.db.WithContext(ctx).Model(&model.Organization{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return fmt.Errorf("updating organization status: %w", err)
	}
	return nil
}
