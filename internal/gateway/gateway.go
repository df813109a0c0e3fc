// internal/gateway/gateway.go
package gateway

import (
	"context"
	"time"

	"github.com/opsledger/billingd/internal/domain"
	"github.com/opsledger/billingd/internal/model"
)

// SubscriptionGateway wraps the external billing provider. All provider
// quirks (error codes, upcoming-invoice fallbacks, line-item resolution)
// stay behind this interface so core logic never branches on them.
type SubscriptionGateway interface {
	CreateCustomer(ctx context.Context, in CreateCustomerInput) (string, error)
	CreateSubscription(ctx context.Context, in CreateSubscriptionInput) (*SubscriptionRef, error)
	CancelSubscription(ctx context.Context, subscriptionID string) error

	// SetSubscriptionQuantity overwrites the quantity of the subscription's
	// single billable line item. Idempotent: pushing the same quantity
	// twice yields the same provider state.
	SetSubscriptionQuantity(ctx context.Context, subscriptionID string, quantity int) (*QuantityUpdate, error)

	// GetSubscription retrieves the provider-side state of a subscription
	// for deployment-facing status reads.
	GetSubscription(ctx context.Context, subscriptionID string) (*SubscriptionDetail, error)

	ListInvoices(ctx context.Context, customerID string) (*InvoiceList, error)
	UpcomingInvoice(ctx context.Context, customerID, subscriptionID string) (*Invoice, error)
	PriceAmounts(ctx context.Context) (*PriceAmounts, error)
}

type CreateCustomerInput struct {
	Email          string
	Name           string
	OrganizationID string
	InstanceURL    string
	DeploymentType model.DeploymentType
	BillingPeriod  model.BillingPeriod
}

type CreateSubscriptionInput struct {
	CustomerID     string
	OrganizationID string
	DeploymentType model.DeploymentType
	BillingPeriod  model.BillingPeriod
	Quantity       int
	TrialDays      int
}

// SubscriptionRef identifies a provider-side subscription.
type SubscriptionRef struct {
	ID      string
	PriceID string
}

// QuantityUpdate is the provider's confirmation of a quantity overwrite.
type QuantityUpdate struct {
	ItemID   string
	Quantity int64
}

// SubscriptionDetail is the provider-side view of one subscription, as
// shown to remote deployments.
type SubscriptionDetail struct {
	ID                 string     `json:"id"`
	Status             string     `json:"status"`
	CurrentPeriodStart *time.Time `json:"current_period_start,omitempty"`
	CurrentPeriodEnd   *time.Time `json:"current_period_end,omitempty"`
	TrialEnd           *time.Time `json:"trial_end,omitempty"`
	CancelAtPeriodEnd  bool       `json:"cancel_at_period_end"`
}

type InvoiceLine struct {
	Description string     `json:"description"`
	Amount      float64    `json:"amount"`
	Quantity    int64      `json:"quantity"`
	PeriodStart *time.Time `json:"period_start,omitempty"`
	PeriodEnd   *time.Time `json:"period_end,omitempty"`
}

type Invoice struct {
	ID               string        `json:"id"`
	Number           string        `json:"number"`
	Status           string        `json:"status"`
	AmountDue        float64       `json:"amount_due"`
	AmountPaid       float64       `json:"amount_paid"`
	Currency         string        `json:"currency"`
	Created          time.Time     `json:"created"`
	DueDate          *time.Time    `json:"due_date,omitempty"`
	PeriodStart      *time.Time    `json:"period_start,omitempty"`
	PeriodEnd        *time.Time    `json:"period_end,omitempty"`
	HostedInvoiceURL string        `json:"hosted_invoice_url,omitempty"`
	InvoicePDF       string        `json:"invoice_pdf,omitempty"`
	Lines            []InvoiceLine `json:"line_items"`
}

type InvoiceList struct {
	Paid    []Invoice `json:"paid"`
	Pending []Invoice `json:"pending"`
}

// PriceAmounts holds the per-seat unit amounts of the four price tiers in
// major currency units.
type PriceAmounts struct {
	ManagedCloudMonthly float64
	ManagedCloudYearly  float64
	OnPremiseMonthly    float64
	OnPremiseYearly     float64
	Currency            string
}

// PerUserPerDay returns the estimated daily per-seat price for a plan:
// monthly price over 30 days, yearly price over 365.
func (p *PriceAmounts) PerUserPerDay(dt model.DeploymentType, bp model.BillingPeriod) float64 {
	switch dt {
	case model.DeploymentManagedCloud:
		if bp == model.BillingYearly {
			return p.ManagedCloudYearly / 365
		}
		return p.ManagedCloudMonthly / 30
	default:
		if bp == model.BillingYearly {
			return p.OnPremiseYearly / 365
		}
		return p.OnPremiseMonthly / 30
	}
}

// PerUserPerMonth returns the monthly-equivalent per-seat price for a plan.
func (p *PriceAmounts) PerUserPerMonth(dt model.DeploymentType, bp model.BillingPeriod) float64 {
	switch dt {
	case model.DeploymentManagedCloud:
		if bp == model.BillingYearly {
			return p.ManagedCloudYearly / 12
		}
		return p.ManagedCloudMonthly
	default:
		if bp == model.BillingYearly {
			return p.OnPremiseYearly / 12
		}
		return p.OnPremiseMonthly
	}
}

// PriceCatalog maps the (deployment type, billing period) pairs to the four
// configured provider price IDs.
type PriceCatalog struct {
	ManagedCloudMonthly string
	ManagedCloudYearly  string
	OnPremiseMonthly    string
	OnPremiseYearly     string
}

// PriceFor resolves the price ID for a plan.
func (c PriceCatalog) PriceFor(dt model.DeploymentType, bp model.BillingPeriod) (string, error) {
	var priceID string
	switch {
	case dt == model.DeploymentManagedCloud && bp == model.BillingMonthly:
		priceID = c.ManagedCloudMonthly
	case dt == model.DeploymentManagedCloud && bp == model.BillingYearly:
		priceID = c.ManagedCloudYearly
	case dt == model.DeploymentOnPremise && bp == model.BillingMonthly:
		priceID = c.OnPremiseMonthly
	case dt == model.DeploymentOnPremise && bp == model.BillingYearly:
		priceID = c.OnPremiseYearly
	}
	if priceID == "" {
		return "", domain.ErrPlanNotConfigured
	}
	return priceID, nil
}
