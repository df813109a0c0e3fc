// internal/service/webhook.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/opsledger/billingd/internal/domain"
	"github.com/opsledger/billingd/internal/email"
	"github.com/opsledger/billingd/internal/email/mailer"
	"github.com/opsledger/billingd/internal/model"
	"github.com/opsledger/billingd/internal/repository"
)

// WebhookService folds provider lifecycle events into local organization
// status. Application is idempotent: the status fold converges, and
// processed event IDs are recorded so replays short-circuit.
type WebhookService struct {
	orgRepo      repository.OrganizationRepositoryIface
	eventRepo    repository.WebhookEventRepositoryIface
	emailService *email.Service
}

func NewWebhookService(
	orgRepo repository.OrganizationRepositoryIface,
	eventRepo repository.WebhookEventRepositoryIface,
	emailService *email.Service,
) *WebhookService {
	return &WebhookService{
		orgRepo:      orgRepo,
		eventRepo:    eventRepo,
		emailService: emailService,
	}
}

// AlreadyProcessed reports whether the event was applied by an earlier
// delivery.
func (s *WebhookService) AlreadyProcessed(ctx context.Context, eventID string) (bool, error) {
	return s.eventRepo.Seen(ctx, eventID)
}

// MarkProcessed records a successfully applied event. Called after the
// apply so a failed delivery is retried by the provider, not skipped.
func (s *WebhookService) MarkProcessed(ctx context.Context, eventID, eventType string) error {
	if _, err := s.eventRepo.MarkProcessed(ctx, eventID, eventType); err != nil {
		return err
	}
	return nil
}

// SubscriptionUpdated folds a subscription created/updated event into the
// organization referenced by the event metadata.
func (s *WebhookService) SubscriptionUpdated(ctx context.Context, orgID string, subscriptionID, providerStatus string, trialEnd *time.Time) error {
	id, err := uuid.Parse(orgID)
	if err != nil {
		// Subscriptions created outside this service carry no usable
		// metadata; nothing to fold.
		slog.InfoContext(ctx, "subscription event without organization metadata ignored",
			"subscription_id", subscriptionID)
		return nil
	}

	org, err := s.orgRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrOrganizationNotFound) {
			slog.WarnContext(ctx, "subscription event for unknown organization ignored",
				"organization_id", orgID, "subscription_id", subscriptionID)
			return nil
		}
		return err
	}

	next := model.StatusFromProvider(providerStatus)
	if !org.Status.CanTransitionTo(next) {
		slog.WarnContext(ctx, "illegal status transition from provider event skipped",
			"organization_id", orgID, "from", org.Status, "to", next)
		return nil
	}

	if err := s.orgRepo.UpdateStatus(ctx, id, next, trialEnd); err != nil {
		return fmt.Errorf("applying subscription status: %w", err)
	}

	slog.InfoContext(ctx, "organization status updated from provider event",
		"organization_id", orgID, "status", next)
	return nil
}

// SubscriptionDeleted marks the organization canceled.
func (s *WebhookService) SubscriptionDeleted(ctx context.Context, orgID string) error {
	id, err := uuid.Parse(orgID)
	if err != nil {
		return nil
	}

	org, err := s.orgRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrOrganizationNotFound) {
			return nil
		}
		return err
	}

	if !org.Status.CanTransitionTo(model.StatusCanceled) {
		return nil
	}
	if err := s.orgRepo.UpdateStatus(ctx, id, model.StatusCanceled, nil); err != nil {
		return fmt.Errorf("applying cancellation: %w", err)
	}

	slog.InfoContext(ctx, "organization subscription canceled by provider", "organization_id", orgID)
	return nil
}

// InvoicePaymentFailed moves the customer's organization to past_due and
// notifies the billing contact.
func (s *WebhookService) InvoicePaymentFailed(ctx context.Context, customerID string) error {
	org, err := s.orgRepo.FindByStripeCustomer(ctx, customerID)
	if err != nil {
		if errors.Is(err, domain.ErrOrganizationNotFound) {
			return nil
		}
		return err
	}

	if org.Status == model.StatusPastDue {
		return nil
	}
	if !org.Status.CanTransitionTo(model.StatusPastDue) {
		return nil
	}
	if err := s.orgRepo.UpdateStatus(ctx, org.ID, model.StatusPastDue, nil); err != nil {
		return fmt.Errorf("applying past_due status: %w", err)
	}

	slog.WarnContext(ctx, "invoice payment failed", "organization_id", org.ID, "stripe_customer_id", customerID)

	if s.emailService != nil && org.AdminEmail != nil {
		if err := mailer.SendPaymentFailed(s.emailService, *org.AdminEmail, org.Name); err != nil {
			slog.WarnContext(ctx, "failed to send payment-failed notification",
				"organization_id", org.ID, "error", err)
		}
	}
	return nil
}

// InvoicePaymentSucceeded restores an organization from past_due to active.
// A payment for any other status is a no-op.
func (s *WebhookService) InvoicePaymentSucceeded(ctx context.Context, customerID string) error {
	org, err := s.orgRepo.FindByStripeCustomer(ctx, customerID)
	if err != nil {
		if errors.Is(err, domain.ErrOrganizationNotFound) {
			return nil
		}
		return err
	}

	if org.Status != model.StatusPastDue {
		return nil
	}
	if err := s.orgRepo.UpdateStatus(ctx, org.ID, model.StatusActive, nil); err != nil {
		return fmt.Errorf("restoring active status: %w", err)
	}

	slog.InfoContext(ctx, "organization restored to active after payment",
		"organization_id", org.ID, "stripe_customer_id", customerID)
	return nil
}
