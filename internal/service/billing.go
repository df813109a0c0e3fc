// internal/service/billing.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/opsledger/billingd/internal/domain"
	"github.com/opsledger/billingd/internal/gateway"
	"github.com/opsledger/billingd/internal/model"
	"github.com/opsledger/billingd/internal/repository"
)

// OrganizationStatus values returned to reporting deployments.
const (
	LinkageLinked  = "linked"
	LinkagePending = "pending"
)

// BillingService reconciles incoming usage reports with local organization
// state and the external subscription quantity.
type BillingService struct {
	orgRepo    repository.OrganizationRepositoryIface
	reportRepo repository.UsageReportRepositoryIface
	gateway    gateway.SubscriptionGateway
	validate   *validator.Validate
}

func NewBillingService(
	orgRepo repository.OrganizationRepositoryIface,
	reportRepo repository.UsageReportRepositoryIface,
	gw gateway.SubscriptionGateway,
) *BillingService {
	return &BillingService{
		orgRepo:    orgRepo,
		reportRepo: reportRepo,
		gateway:    gw,
		validate:   validator.New(),
	}
}

type IngestInput struct {
	OrganizationID   string     `json:"organization_id" validate:"required,uuid"`
	OrganizationName string     `json:"organization_name" validate:"required"`
	InstanceURL      string     `json:"instance_url"`
	UserCount        *int       `json:"user_count" validate:"required,gte=0"`
	Timestamp        *time.Time `json:"timestamp"`
}

type IngestOutput struct {
	ReportID           uuid.UUID `json:"report_id"`
	OrganizationStatus string    `json:"organization_status"`
}

// Ingest records one usage report. The organization is created on first
// contact (status pending) or has its display fields refreshed; if it is
// linked, the reported count is pushed to the provider as the new
// subscription quantity. Gateway failures are soft: the report is stored
// either way, marked unsynced when the push did not succeed.
func (s *BillingService) Ingest(ctx context.Context, input IngestInput) (*IngestOutput, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, err)
	}

	orgID, err := uuid.Parse(input.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("%w: organization_id is not a valid id", domain.ErrInvalidInput)
	}

	org, err := s.orgRepo.FindByID(ctx, orgID)
	switch {
	case errors.Is(err, domain.ErrOrganizationNotFound):
		org = &model.Organization{
			ID:     orgID,
			Name:   input.OrganizationName,
			Status: model.StatusPending,
			Tags:   model.Tags{},
		}
		if input.InstanceURL != "" {
			org.InstanceURL = &input.InstanceURL
		}
		if err := s.orgRepo.Create(ctx, org); err != nil {
			return nil, fmt.Errorf("creating organization: %w", err)
		}
		slog.InfoContext(ctx, "organization created from usage report",
			"organization_id", orgID, "name", input.OrganizationName)

	case err != nil:
		return nil, fmt.Errorf("looking up organization: %w", err)

	default:
		var instanceURL *string
		if input.InstanceURL != "" {
			instanceURL = &input.InstanceURL
		}
		if err := s.orgRepo.RefreshDisplayFields(ctx, orgID, input.OrganizationName, instanceURL); err != nil {
			return nil, fmt.Errorf("refreshing organization: %w", err)
		}
		org.Name = input.OrganizationName
		if instanceURL != nil {
			org.InstanceURL = instanceURL
		}
	}

	linkage := LinkagePending
	deploymentType := model.DeploymentUnknown
	var syncID *string

	if org.Linked() {
		linkage = LinkageLinked
		if org.DeploymentType != nil {
			deploymentType = string(*org.DeploymentType)
		}

		update, err := s.gateway.SetSubscriptionQuantity(ctx, *org.StripeSubscriptionID, *input.UserCount)
		if err != nil {
			// Soft failure: local persistence is the source of truth for
			// report receipt; the push can be replayed by a resync.
			slog.WarnContext(ctx, "failed to push subscription quantity",
				"organization_id", orgID, "user_count", *input.UserCount, "error", err)
		} else {
			syncID = &update.ItemID
		}
	}

	reportedAt := time.Now().UTC()
	if input.Timestamp != nil {
		reportedAt = input.Timestamp.UTC()
	}

	report := &model.UsageReport{
		OrganizationID: orgID,
		UserCount:      *input.UserCount,
		DeploymentType: deploymentType,
		ReportedAt:     reportedAt,
		StripeSyncID:   syncID,
	}
	if err := s.reportRepo.Create(ctx, report); err != nil {
		return nil, fmt.Errorf("storing usage report: %w", err)
	}

	return &IngestOutput{
		ReportID:           report.ID,
		OrganizationStatus: linkage,
	}, nil
}

// BillingStatus is the billing state a deployment displays to its users.
type BillingStatus struct {
	OrganizationID     uuid.UUID                   `json:"organization_id"`
	OrganizationName   string                      `json:"organization_name"`
	SubscriptionStatus model.SubscriptionStatus    `json:"subscription_status"`
	TrialActive        bool                        `json:"trial_active"`
	TrialEnd           *time.Time                  `json:"trial_end,omitempty"`
	DeploymentType     *model.DeploymentType       `json:"deployment_type,omitempty"`
	BillingPeriod      *model.BillingPeriod        `json:"billing_period,omitempty"`
	Subscription       *gateway.SubscriptionDetail `json:"stripe_subscription,omitempty"`
}

// Status returns the local billing state of an organization, enriched with
// the provider's subscription detail when one is linked. The provider read
// is best-effort: a gateway failure degrades the response to local state.
func (s *BillingService) Status(ctx context.Context, orgID uuid.UUID) (*BillingStatus, error) {
	org, err := s.orgRepo.FindByID(ctx, orgID)
	if err != nil {
		return nil, err
	}

	status := &BillingStatus{
		OrganizationID:     org.ID,
		OrganizationName:   org.Name,
		SubscriptionStatus: org.Status,
		TrialActive:        org.TrialEnd != nil && org.TrialEnd.After(time.Now()),
		TrialEnd:           org.TrialEnd,
		DeploymentType:     org.DeploymentType,
		BillingPeriod:      org.BillingPeriod,
	}

	if org.StripeSubscriptionID != nil && *org.StripeSubscriptionID != "" {
		detail, err := s.gateway.GetSubscription(ctx, *org.StripeSubscriptionID)
		if err != nil {
			slog.WarnContext(ctx, "failed to retrieve subscription detail",
				"organization_id", org.ID, "error", err)
		} else {
			status.Subscription = detail
		}
	}
	return status, nil
}
