// internal/gateway/stripe.go
package gateway

import (
	"context"
	"fmt"
	"time"

	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
	"github.com/opsledger/billingd/internal/domain"
)

const invoicePageLimit = 50

// StripeGateway implements SubscriptionGateway against the Stripe API.
type StripeGateway struct {
	sc      *client.API
	catalog PriceCatalog
	timeout time.Duration
}

func NewStripeGateway(secretKey string, catalog PriceCatalog, timeout time.Duration) *StripeGateway {
	sc := &client.API{}
	sc.Init(secretKey, nil)
	return &StripeGateway{
		sc:      sc,
		catalog: catalog,
		timeout: timeout,
	}
}

// callCtx bounds every provider call; a timed-out call surfaces as a
// GatewayError which callers treat as a soft failure.
func (g *StripeGateway) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, g.timeout)
}

func (g *StripeGateway) CreateCustomer(ctx context.Context, in CreateCustomerInput) (string, error) {
	ctx, cancel := g.callCtx(ctx)
	defer cancel()

	params := &stripe.CustomerParams{
		Email: stripe.String(in.Email),
		Name:  stripe.String(in.Name),
	}
	params.Context = ctx
	params.AddMetadata("organization_id", in.OrganizationID)
	params.AddMetadata("deployment_type", string(in.DeploymentType))
	params.AddMetadata("billing_period", string(in.BillingPeriod))
	if in.InstanceURL != "" {
		params.AddMetadata("instance_url", in.InstanceURL)
	}

	customer, err := g.sc.Customers.New(params)
	if err != nil {
		return "", &domain.GatewayError{Op: "create customer", Err: err}
	}
	return customer.ID, nil
}

func (g *StripeGateway) CreateSubscription(ctx context.Context, in CreateSubscriptionInput) (*SubscriptionRef, error) {
	priceID, err := g.catalog.PriceFor(in.DeploymentType, in.BillingPeriod)
	if err != nil {
		return nil, err
	}

	ctx, cancel := g.callCtx(ctx)
	defer cancel()

	quantity := in.Quantity
	if quantity < 1 {
		quantity = 1
	}

	params := &stripe.SubscriptionParams{
		Customer: stripe.String(in.CustomerID),
		Items: []*stripe.SubscriptionItemsParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(int64(quantity)),
			},
		},
		TrialPeriodDays: stripe.Int64(int64(in.TrialDays)),
	}
	params.Context = ctx
	params.AddMetadata("organization_id", in.OrganizationID)
	params.AddMetadata("deployment_type", string(in.DeploymentType))
	params.AddMetadata("billing_period", string(in.BillingPeriod))

	subscription, err := g.sc.Subscriptions.New(params)
	if err != nil {
		return nil, &domain.GatewayError{Op: "create subscription", Err: err}
	}
	return &SubscriptionRef{ID: subscription.ID, PriceID: priceID}, nil
}

func (g *StripeGateway) CancelSubscription(ctx context.Context, subscriptionID string) error {
	ctx, cancel := g.callCtx(ctx)
	defer cancel()

	params := &stripe.SubscriptionCancelParams{}
	params.Context = ctx
	if _, err := g.sc.Subscriptions.Cancel(subscriptionID, params); err != nil {
		return &domain.GatewayError{Op: "cancel subscription", Err: err}
	}
	return nil
}

// SetSubscriptionQuantity resolves the subscription's first line item and
// overwrites its quantity. Each tracked subscription has exactly one
// billable item; a subscription with none is a configuration error.
func (g *StripeGateway) SetSubscriptionQuantity(ctx context.Context, subscriptionID string, quantity int) (*QuantityUpdate, error) {
	ctx, cancel := g.callCtx(ctx)
	defer cancel()

	getParams := &stripe.SubscriptionParams{}
	getParams.Context = ctx
	subscription, err := g.sc.Subscriptions.Get(subscriptionID, getParams)
	if err != nil {
		return nil, &domain.GatewayError{Op: "retrieve subscription", Err: err}
	}

	if subscription.Items == nil || len(subscription.Items.Data) == 0 {
		return nil, &domain.GatewayError{Op: "resolve line item", Err: domain.ErrNoSubscriptionItem}
	}
	itemID := subscription.Items.Data[0].ID

	updateParams := &stripe.SubscriptionItemParams{
		Quantity: stripe.Int64(int64(quantity)),
	}
	updateParams.Context = ctx
	item, err := g.sc.SubscriptionItems.Update(itemID, updateParams)
	if err != nil {
		return nil, &domain.GatewayError{Op: "update quantity", Err: err}
	}

	return &QuantityUpdate{ItemID: item.ID, Quantity: item.Quantity}, nil
}

// GetSubscription maps the provider's subscription record into a
// SubscriptionDetail. Period bounds live on the line item since the
// provider moved them off the subscription itself.
func (g *StripeGateway) GetSubscription(ctx context.Context, subscriptionID string) (*SubscriptionDetail, error) {
	ctx, cancel := g.callCtx(ctx)
	defer cancel()

	params := &stripe.SubscriptionParams{}
	params.Context = ctx
	subscription, err := g.sc.Subscriptions.Get(subscriptionID, params)
	if err != nil {
		return nil, &domain.GatewayError{Op: "retrieve subscription", Err: err}
	}

	detail := &SubscriptionDetail{
		ID:                subscription.ID,
		Status:            string(subscription.Status),
		CancelAtPeriodEnd: subscription.CancelAtPeriodEnd,
	}
	if subscription.TrialEnd > 0 {
		t := time.Unix(subscription.TrialEnd, 0).UTC()
		detail.TrialEnd = &t
	}
	if subscription.Items != nil && len(subscription.Items.Data) > 0 {
		item := subscription.Items.Data[0]
		if item.CurrentPeriodStart > 0 {
			t := time.Unix(item.CurrentPeriodStart, 0).UTC()
			detail.CurrentPeriodStart = &t
		}
		if item.CurrentPeriodEnd > 0 {
			t := time.Unix(item.CurrentPeriodEnd, 0).UTC()
			detail.CurrentPeriodEnd = &t
		}
	}
	return detail, nil
}

func (g *StripeGateway) ListInvoices(ctx context.Context, customerID string) (*InvoiceList, error) {
	ctx, cancel := g.callCtx(ctx)
	defer cancel()

	paid, err := g.listInvoicesByStatus(ctx, customerID, "", string(stripe.InvoiceStatusPaid))
	if err != nil {
		return nil, err
	}
	pending, err := g.listInvoicesByStatus(ctx, customerID, "", string(stripe.InvoiceStatusOpen))
	if err != nil {
		return nil, err
	}

	return &InvoiceList{Paid: paid, Pending: pending}, nil
}

// UpcomingInvoice returns the draft invoice for the subscription's next
// period, or nil when the provider has not generated one yet (fresh trials
// have no draft until the first cycle closes).
func (g *StripeGateway) UpcomingInvoice(ctx context.Context, customerID, subscriptionID string) (*Invoice, error) {
	ctx, cancel := g.callCtx(ctx)
	defer cancel()

	drafts, err := g.listInvoicesByStatus(ctx, customerID, subscriptionID, string(stripe.InvoiceStatusDraft))
	if err != nil {
		return nil, err
	}
	if len(drafts) == 0 {
		return nil, nil
	}
	return &drafts[0], nil
}

func (g *StripeGateway) listInvoicesByStatus(ctx context.Context, customerID, subscriptionID, status string) ([]Invoice, error) {
	params := &stripe.InvoiceListParams{
		Customer: stripe.String(customerID),
		Status:   stripe.String(status),
	}
	params.Context = ctx
	params.Limit = stripe.Int64(invoicePageLimit)
	if subscriptionID != "" {
		params.Subscription = stripe.String(subscriptionID)
	}

	var invoices []Invoice
	it := g.sc.Invoices.List(params)
	for it.Next() {
		invoices = append(invoices, convertInvoice(it.Invoice()))
	}
	if err := it.Err(); err != nil {
		return nil, &domain.GatewayError{Op: fmt.Sprintf("list %s invoices", status), Err: err}
	}
	return invoices, nil
}

func (g *StripeGateway) PriceAmounts(ctx context.Context) (*PriceAmounts, error) {
	ctx, cancel := g.callCtx(ctx)
	defer cancel()

	amounts := &PriceAmounts{}
	for _, entry := range []struct {
		priceID string
		dest    *float64
	}{
		{g.catalog.ManagedCloudMonthly, &amounts.ManagedCloudMonthly},
		{g.catalog.ManagedCloudYearly, &amounts.ManagedCloudYearly},
		{g.catalog.OnPremiseMonthly, &amounts.OnPremiseMonthly},
		{g.catalog.OnPremiseYearly, &amounts.OnPremiseYearly},
	} {
		if entry.priceID == "" {
			continue
		}
		params := &stripe.PriceParams{}
		params.Context = ctx
		price, err := g.sc.Prices.Get(entry.priceID, params)
		if err != nil {
			return nil, &domain.GatewayError{Op: "retrieve price", Err: err}
		}
		*entry.dest = float64(price.UnitAmount) / 100
		amounts.Currency = string(price.Currency)
	}
	return amounts, nil
}

func convertInvoice(invoice *stripe.Invoice) Invoice {
	out := Invoice{
		ID:               invoice.ID,
		Number:           invoice.Number,
		Status:           string(invoice.Status),
		AmountDue:        float64(invoice.AmountDue) / 100,
		AmountPaid:       float64(invoice.AmountPaid) / 100,
		Currency:         string(invoice.Currency),
		Created:          time.Unix(invoice.Created, 0).UTC(),
		HostedInvoiceURL: invoice.HostedInvoiceURL,
		InvoicePDF:       invoice.InvoicePDF,
	}
	if invoice.DueDate > 0 {
		due := time.Unix(invoice.DueDate, 0).UTC()
		out.DueDate = &due
	}
	if invoice.PeriodStart > 0 {
		start := time.Unix(invoice.PeriodStart, 0).UTC()
		out.PeriodStart = &start
	}
	if invoice.PeriodEnd > 0 {
		end := time.Unix(invoice.PeriodEnd, 0).UTC()
		out.PeriodEnd = &end
	}
	if invoice.Lines != nil {
		for _, line := range invoice.Lines.Data {
			converted := InvoiceLine{
				Description: line.Description,
				Amount:      float64(line.Amount) / 100,
				Quantity:    line.Quantity,
			}
			if line.Period != nil {
				if line.Period.Start > 0 {
					start := time.Unix(line.Period.Start, 0).UTC()
					converted.PeriodStart = &start
				}
				if line.Period.End > 0 {
					end := time.Unix(line.Period.End, 0).UTC()
					converted.PeriodEnd = &end
				}
			}
			out.Lines = append(out.Lines, converted)
		}
	}
	return out
}
