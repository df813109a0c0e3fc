// internal/handler/webhook.go
package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	chmw "github.com/go-chi/chi/v5/middleware"
	stripelib "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/opsledger/billingd/internal/service"
)

const webhookBodyLimit = 1024 * 1024 // 1 MiB

// WebhookHandler verifies Stripe webhook signatures and folds subscription
// lifecycle events into local organization state.
type WebhookHandler struct {
	secret         string
	webhookService *service.WebhookService
}

func NewWebhookHandler(secret string, webhookService *service.WebhookService) *WebhookHandler {
	return &WebhookHandler{
		secret:         secret,
		webhookService: webhookService,
	}
}

type webhookReceivedResponse struct {
	Received bool `json:"received"`
}

// subscriptionEvent is the subset of the provider subscription payload the
// service needs. Decoded from raw JSON so API version drift in unrelated
// fields cannot break event handling.
type subscriptionEvent struct {
	ID       string            `json:"id"`
	Customer string            `json:"customer"`
	Status   string            `json:"status"`
	TrialEnd int64             `json:"trial_end"`
	Metadata map[string]string `json:"metadata"`
}

type invoiceEvent struct {
	ID       string `json:"id"`
	Customer string `json:"customer"`
}

func (e *subscriptionEvent) organizationID() string {
	return strings.TrimSpace(e.Metadata["organization_id"])
}

func (e *subscriptionEvent) trialEnd() *time.Time {
	if e.TrialEnd == 0 {
		return nil
	}
	t := time.Unix(e.TrialEnd, 0).UTC()
	return &t
}

func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if strings.TrimSpace(h.secret) == "" {
		respondWithError(w, http.StatusServiceUnavailable, "Webhook secret not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, webhookBodyLimit)
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	sigHeader := r.Header.Get("Stripe-Signature")
	if strings.TrimSpace(sigHeader) == "" {
		respondWithError(w, http.StatusBadRequest, "Missing Stripe signature")
		return
	}

	event, err := webhook.ConstructEventWithOptions(payload, sigHeader, h.secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid Stripe signature")
		return
	}

	seen, err := h.webhookService.AlreadyProcessed(r.Context(), event.ID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Webhook dedup lookup failed",
			"error", err, "event_id", event.ID, "requestID", chmw.GetReqID(r.Context()))
		respondWithError(w, http.StatusInternalServerError, "Processing failed")
		return
	}
	if seen {
		respondWithJSON(w, http.StatusOK, webhookReceivedResponse{Received: true})
		return
	}

	if err := h.handleEvent(r, &event); err != nil {
		slog.ErrorContext(r.Context(), "Webhook processing failed",
			"error", err, "event_id", event.ID, "type", string(event.Type),
			"requestID", chmw.GetReqID(r.Context()))
		respondWithError(w, http.StatusInternalServerError, "Processing failed")
		return
	}

	// Recorded only after a successful apply so failed deliveries get
	// retried by the provider.
	if err := h.webhookService.MarkProcessed(r.Context(), event.ID, string(event.Type)); err != nil {
		slog.WarnContext(r.Context(), "Failed to record processed webhook event",
			"error", err, "event_id", event.ID)
	}

	respondWithJSON(w, http.StatusOK, webhookReceivedResponse{Received: true})
}

func (h *WebhookHandler) handleEvent(r *http.Request, event *stripelib.Event) error {
	switch event.Type {
	case "customer.subscription.created", "customer.subscription.updated":
		var sub subscriptionEvent
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return fmt.Errorf("decode subscription: %w", err)
		}
		return h.webhookService.SubscriptionUpdated(r.Context(), sub.organizationID(), sub.ID, sub.Status, sub.trialEnd())

	case "customer.subscription.deleted":
		var sub subscriptionEvent
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return fmt.Errorf("decode subscription: %w", err)
		}
		return h.webhookService.SubscriptionDeleted(r.Context(), sub.organizationID())

	case "invoice.payment_failed":
		var inv invoiceEvent
		if err := json.Unmarshal(event.Data.Raw, &inv); err != nil {
			return fmt.Errorf("decode invoice: %w", err)
		}
		return h.webhookService.InvoicePaymentFailed(r.Context(), inv.Customer)

	case "invoice.payment_succeeded":
		var inv invoiceEvent
		if err := json.Unmarshal(event.Data.Raw, &inv); err != nil {
			return fmt.Errorf("decode invoice: %w", err)
		}
		return h.webhookService.InvoicePaymentSucceeded(r.Context(), inv.Customer)

	default:
		slog.InfoContext(r.Context(), "Webhook event ignored",
			"type", string(event.Type), "event_id", event.ID)
		return nil
	}
}
