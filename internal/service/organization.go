// internal/service/organization.go
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/opsledger/billingd/internal/domain"
	"github.com/opsledger/billingd/internal/email"
	"github.com/opsledger/billingd/internal/email/mailer"
	"github.com/opsledger/billingd/internal/gateway"
	"github.com/opsledger/billingd/internal/model"
	"github.com/opsledger/billingd/internal/repository"
)

// DefaultTrialDays is applied when a link request does not specify a trial
// window.
const DefaultTrialDays = 4

const recentReportLimit = 100

// OrganizationService covers the operator-triggered mutations and reads on
// organizations: linking, unlinking, tagging, renaming, forced quantity
// pushes, resync of unsynced reports, and detail queries.
type OrganizationService struct {
	orgRepo      repository.OrganizationRepositoryIface
	reportRepo   repository.UsageReportRepositoryIface
	gateway      gateway.SubscriptionGateway
	emailService *email.Service
	validate     *validator.Validate
}

func NewOrganizationService(
	orgRepo repository.OrganizationRepositoryIface,
	reportRepo repository.UsageReportRepositoryIface,
	gw gateway.SubscriptionGateway,
	emailService *email.Service,
) *OrganizationService {
	return &OrganizationService{
		orgRepo:      orgRepo,
		reportRepo:   reportRepo,
		gateway:      gw,
		emailService: emailService,
		validate:     validator.New(),
	}
}

type LinkInput struct {
	AdminEmail     string               `json:"admin_email" validate:"required,email"`
	DeploymentType model.DeploymentType `json:"deployment_type" validate:"required"`
	BillingPeriod  model.BillingPeriod  `json:"billing_period" validate:"required"`
	TrialDays      int                  `json:"trial_days" validate:"gte=0"`
}

// Link creates the provider-side customer and subscription for an
// organization and persists the references locally. The provider objects
// are created first: a crash before the local update leaves an orphaned
// subscription that operators can detect, never a local record pointing at
// nothing.
func (s *OrganizationService) Link(ctx context.Context, orgID uuid.UUID, input LinkInput) (*model.Organization, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, err)
	}
	if !input.DeploymentType.Valid() {
		return nil, fmt.Errorf("%w: deployment_type must be %q or %q",
			domain.ErrInvalidInput, model.DeploymentOnPremise, model.DeploymentManagedCloud)
	}
	if !input.BillingPeriod.Valid() {
		return nil, fmt.Errorf("%w: billing_period must be %q or %q",
			domain.ErrInvalidInput, model.BillingMonthly, model.BillingYearly)
	}

	trialDays := input.TrialDays
	if trialDays == 0 {
		trialDays = DefaultTrialDays
	}

	org, err := s.orgRepo.FindByID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if org.StripeCustomerID != nil && *org.StripeCustomerID != "" {
		return nil, domain.ErrAlreadyLinked
	}

	// Seed the subscription quantity with the latest reported count so the
	// first invoice reflects actual usage.
	quantity := 1
	if latest, err := s.reportRepo.FindLatestByOrganization(ctx, orgID); err == nil && latest.UserCount > 0 {
		quantity = latest.UserCount
	}

	instanceURL := ""
	if org.InstanceURL != nil {
		instanceURL = *org.InstanceURL
	}

	customerID, err := s.gateway.CreateCustomer(ctx, gateway.CreateCustomerInput{
		Email:          input.AdminEmail,
		Name:           org.Name,
		OrganizationID: orgID.String(),
		InstanceURL:    instanceURL,
		DeploymentType: input.DeploymentType,
		BillingPeriod:  input.BillingPeriod,
	})
	if err != nil {
		return nil, err
	}

	subscription, err := s.gateway.CreateSubscription(ctx, gateway.CreateSubscriptionInput{
		CustomerID:     customerID,
		OrganizationID: orgID.String(),
		DeploymentType: input.DeploymentType,
		BillingPeriod:  input.BillingPeriod,
		Quantity:       quantity,
		TrialDays:      trialDays,
	})
	if err != nil {
		// The customer exists provider-side but carries no subscription;
		// operators can spot and clean it up from the provider dashboard.
		slog.ErrorContext(ctx, "subscription creation failed after customer creation",
			"organization_id", orgID, "stripe_customer_id", customerID, "error", err)
		return nil, err
	}

	trialEnd := time.Now().UTC().AddDate(0, 0, trialDays)
	deploymentType := input.DeploymentType
	billingPeriod := input.BillingPeriod

	org.StripeCustomerID = &customerID
	org.StripeSubscriptionID = &subscription.ID
	org.DeploymentType = &deploymentType
	org.BillingPeriod = &billingPeriod
	org.AdminEmail = &input.AdminEmail
	org.Status = model.StatusTrial
	org.TrialEnd = &trialEnd

	if err := s.orgRepo.Link(ctx, org); err != nil {
		return nil, fmt.Errorf("persisting billing linkage: %w", err)
	}

	slog.InfoContext(ctx, "organization linked to billing provider",
		"organization_id", orgID,
		"stripe_customer_id", customerID,
		"stripe_subscription_id", subscription.ID,
		"trial_days", trialDays)

	if s.emailService != nil {
		if err := mailer.SendOrganizationLinked(s.emailService, input.AdminEmail, org.Name, trialEnd); err != nil {
			slog.WarnContext(ctx, "failed to send linked notification",
				"organization_id", orgID, "error", err)
		}
	}

	return org, nil
}

// Unlink cancels the provider subscription and clears linkage locally.
// Cancellation failure is logged but never blocks the local cleanup: local
// state always ends up unlinked.
func (s *OrganizationService) Unlink(ctx context.Context, orgID uuid.UUID) (*model.Organization, error) {
	org, err := s.orgRepo.FindByID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if !org.Linked() {
		return nil, domain.ErrNotLinked
	}

	if err := s.gateway.CancelSubscription(ctx, *org.StripeSubscriptionID); err != nil {
		slog.WarnContext(ctx, "failed to cancel provider subscription, clearing local state anyway",
			"organization_id", orgID, "stripe_subscription_id", *org.StripeSubscriptionID, "error", err)
	}

	if err := s.orgRepo.Unlink(ctx, orgID); err != nil {
		return nil, fmt.Errorf("clearing billing linkage: %w", err)
	}

	org.StripeCustomerID = nil
	org.StripeSubscriptionID = nil
	org.DeploymentType = nil
	org.BillingPeriod = nil
	org.TrialEnd = nil
	org.Status = model.StatusPending

	slog.InfoContext(ctx, "organization unlinked from billing provider", "organization_id", orgID)
	return org, nil
}

// UpdateTags replaces the organization's tag set, dropping blank entries.
func (s *OrganizationService) UpdateTags(ctx context.Context, orgID uuid.UUID, tags []string) (*model.Organization, error) {
	org, err := s.orgRepo.FindByID(ctx, orgID)
	if err != nil {
		return nil, err
	}

	cleaned := make(model.Tags, 0, len(tags))
	for _, tag := range tags {
		if trimmed := strings.TrimSpace(tag); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}

	org.Tags = cleaned
	if err := s.orgRepo.Update(ctx, org); err != nil {
		return nil, err
	}
	return org, nil
}

// UpdateDisplayName sets the operator-assigned display name; an empty name
// clears it back to the deployment-reported name.
func (s *OrganizationService) UpdateDisplayName(ctx context.Context, orgID uuid.UUID, displayName string) (*model.Organization, error) {
	org, err := s.orgRepo.FindByID(ctx, orgID)
	if err != nil {
		return nil, err
	}

	trimmed := strings.TrimSpace(displayName)
	if trimmed == "" {
		org.DisplayName = nil
	} else {
		org.DisplayName = &trimmed
	}

	if err := s.orgRepo.Update(ctx, org); err != nil {
		return nil, err
	}
	return org, nil
}

// ForceQuantity pushes an operator-supplied quantity to the provider,
// bypassing usage reports. Unlike ingestion, gateway failures surface to
// the operator.
func (s *OrganizationService) ForceQuantity(ctx context.Context, orgID uuid.UUID, quantity int) (*gateway.QuantityUpdate, error) {
	if quantity < 0 {
		return nil, fmt.Errorf("%w: quantity must be non-negative", domain.ErrInvalidInput)
	}

	org, err := s.orgRepo.FindByID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if !org.Linked() {
		return nil, domain.ErrNotLinked
	}

	update, err := s.gateway.SetSubscriptionQuantity(ctx, *org.StripeSubscriptionID, quantity)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "subscription quantity forced",
		"organization_id", orgID, "quantity", quantity, "item_id", update.ItemID)
	return update, nil
}

type ResyncResult struct {
	SyncedCount int      `json:"synced_count"`
	FailedCount int      `json:"failed_count"`
	Errors      []string `json:"errors,omitempty"`
}

// ResyncReports replays unsynced usage reports against the provider, oldest
// first, backfilling the sync reference on each success. Per-report
// failures are collected and the batch carries on.
func (s *OrganizationService) ResyncReports(ctx context.Context, orgID uuid.UUID) (*ResyncResult, error) {
	org, err := s.orgRepo.FindByID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if !org.Linked() {
		return nil, domain.ErrNotLinked
	}

	reports, err := s.reportRepo.FindUnsyncedByOrganization(ctx, orgID)
	if err != nil {
		return nil, err
	}

	result := &ResyncResult{}
	for _, report := range reports {
		update, err := s.gateway.SetSubscriptionQuantity(ctx, *org.StripeSubscriptionID, report.UserCount)
		if err != nil {
			result.FailedCount++
			result.Errors = append(result.Errors, fmt.Sprintf("report %s: %s", report.ID, err))
			continue
		}
		if err := s.reportRepo.MarkSynced(ctx, report.ID, update.ItemID); err != nil {
			result.FailedCount++
			result.Errors = append(result.Errors, fmt.Sprintf("report %s: %s", report.ID, err))
			continue
		}
		result.SyncedCount++
	}

	slog.InfoContext(ctx, "usage report resync finished",
		"organization_id", orgID, "synced", result.SyncedCount, "failed", result.FailedCount)
	return result, nil
}

type OrganizationSummary struct {
	Total   int `json:"total"`
	Linked  int `json:"linked"`
	Pending int `json:"pending"`
}

type OrganizationList struct {
	Summary OrganizationSummary   `json:"summary"`
	Linked  []*model.Organization `json:"linked"`
	Pending []*model.Organization `json:"pending"`
}

// List returns all organizations split by linkage state.
func (s *OrganizationService) List(ctx context.Context) (*OrganizationList, error) {
	orgs, err := s.orgRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	list := &OrganizationList{
		Linked:  []*model.Organization{},
		Pending: []*model.Organization{},
	}
	for _, org := range orgs {
		if org.Linked() {
			list.Linked = append(list.Linked, org)
		} else {
			list.Pending = append(list.Pending, org)
		}
	}
	list.Summary = OrganizationSummary{
		Total:   len(orgs),
		Linked:  len(list.Linked),
		Pending: len(list.Pending),
	}
	return list, nil
}

type ReportStatistics struct {
	TotalReports int                `json:"total_reports"`
	AvgUsers     int                `json:"avg_users"`
	MaxUsers     int                `json:"max_users"`
	LatestReport *model.UsageReport `json:"latest_report,omitempty"`
}

type OrganizationDetail struct {
	Organization *model.Organization  `json:"organization"`
	Statistics   ReportStatistics     `json:"statistics"`
	Reports      []*model.UsageReport `json:"reports"`
}

// Get returns one organization with its recent reports and summary
// statistics over them.
func (s *OrganizationService) Get(ctx context.Context, orgID uuid.UUID) (*OrganizationDetail, error) {
	org, err := s.orgRepo.FindByID(ctx, orgID)
	if err != nil {
		return nil, err
	}

	reports, err := s.reportRepo.FindRecentByOrganization(ctx, orgID, recentReportLimit)
	if err != nil {
		return nil, err
	}

	stats := ReportStatistics{TotalReports: len(reports)}
	if len(reports) > 0 {
		stats.LatestReport = reports[0]
		sum := 0
		for _, report := range reports {
			sum += report.UserCount
			if report.UserCount > stats.MaxUsers {
				stats.MaxUsers = report.UserCount
			}
		}
		stats.AvgUsers = (sum + len(reports)/2) / len(reports)
	}

	return &OrganizationDetail{
		Organization: org,
		Statistics:   stats,
		Reports:      reports,
	}, nil
}

type OrganizationInvoices struct {
	Invoices *gateway.InvoiceList `json:"invoices"`
	Upcoming *gateway.Invoice     `json:"upcoming_invoice,omitempty"`
}

// Invoices fetches the provider invoices for a linked organization. An
// unlinked organization yields an empty result rather than an error.
func (s *OrganizationService) Invoices(ctx context.Context, orgID uuid.UUID) (*OrganizationInvoices, error) {
	org, err := s.orgRepo.FindByID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if !org.Linked() {
		return &OrganizationInvoices{Invoices: &gateway.InvoiceList{Paid: []gateway.Invoice{}, Pending: []gateway.Invoice{}}}, nil
	}

	invoices, err := s.gateway.ListInvoices(ctx, *org.StripeCustomerID)
	if err != nil {
		return nil, err
	}

	upcoming, err := s.gateway.UpcomingInvoice(ctx, *org.StripeCustomerID, *org.StripeSubscriptionID)
	if err != nil {
		// The invoice list is still useful without the upcoming preview.
		slog.WarnContext(ctx, "failed to resolve upcoming invoice",
			"organization_id", orgID, "error", err)
		upcoming = nil
	}

	return &OrganizationInvoices{Invoices: invoices, Upcoming: upcoming}, nil
}
