// internal/handler/admin.go
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chmw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/opsledger/billingd/internal/domain"
	"github.com/opsledger/billingd/internal/service"
)

// AdminHandler exposes the operator console endpoints: organization
// listing and detail, subscription linkage, and manual reconciliation.
type AdminHandler struct {
	orgService   *service.OrganizationService
	statsService *service.StatsService
}

func NewAdminHandler(orgService *service.OrganizationService, statsService *service.StatsService) *AdminHandler {
	return &AdminHandler{
		orgService:   orgService,
		statsService: statsService,
	}
}

func organizationID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "id"))
}

func (h *AdminHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrOrganizationNotFound):
		respondWithError(w, http.StatusNotFound, "Organization not found")
	case errors.Is(err, domain.ErrInvalidInput):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrAlreadyLinked):
		respondWithError(w, http.StatusConflict, "Organization is already linked")
	case errors.Is(err, domain.ErrNotLinked):
		respondWithError(w, http.StatusConflict, "Organization is not linked")
	case errors.Is(err, domain.ErrPlanNotConfigured):
		respondWithError(w, http.StatusUnprocessableEntity, "No price configured for this plan")
	case domain.IsGatewayError(err):
		slog.ErrorContext(r.Context(), "Billing provider error", "error", err, "requestID", chmw.GetReqID(r.Context()))
		respondWithError(w, http.StatusBadGateway, "Billing provider request failed")
	default:
		slog.ErrorContext(r.Context(), "Admin request error", "error", err, "requestID", chmw.GetReqID(r.Context()))
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func (h *AdminHandler) ListOrganizations(w http.ResponseWriter, r *http.Request) {
	list, err := h.orgService.List(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, list)
}

func (h *AdminHandler) GetOrganization(w http.ResponseWriter, r *http.Request) {
	id, err := organizationID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid organization ID")
		return
	}

	detail, err := h.orgService.Get(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, detail)
}

func (h *AdminHandler) LinkOrganization(w http.ResponseWriter, r *http.Request) {
	id, err := organizationID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid organization ID")
		return
	}

	var input service.LinkInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	org, err := h.orgService.Link(r.Context(), id, input)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, org)
}

func (h *AdminHandler) UnlinkOrganization(w http.ResponseWriter, r *http.Request) {
	id, err := organizationID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid organization ID")
		return
	}

	org, err := h.orgService.Unlink(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, org)
}

type UpdateTagsRequest struct {
	Tags []string `json:"tags"`
}

func (h *AdminHandler) UpdateTags(w http.ResponseWriter, r *http.Request) {
	id, err := organizationID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid organization ID")
		return
	}

	var req UpdateTagsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	org, err := h.orgService.UpdateTags(r.Context(), id, req.Tags)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, org)
}

type UpdateDisplayNameRequest struct {
	DisplayName string `json:"display_name"`
}

func (h *AdminHandler) UpdateDisplayName(w http.ResponseWriter, r *http.Request) {
	id, err := organizationID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid organization ID")
		return
	}

	var req UpdateDisplayNameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	org, err := h.orgService.UpdateDisplayName(r.Context(), id, req.DisplayName)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, org)
}

type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity"`
}

// UpdateQuantity overrides the subscription quantity directly, bypassing
// the reported user count.
func (h *AdminHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	id, err := organizationID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid organization ID")
		return
	}

	var req UpdateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	if req.Quantity == nil || *req.Quantity < 0 {
		respondWithError(w, http.StatusBadRequest, "Quantity must be a non-negative integer")
		return
	}

	update, err := h.orgService.ForceQuantity(r.Context(), id, *req.Quantity)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, update)
}

func (h *AdminHandler) ResyncOrganization(w http.ResponseWriter, r *http.Request) {
	id, err := organizationID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid organization ID")
		return
	}

	result, err := h.orgService.ResyncReports(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

func (h *AdminHandler) OrganizationInvoices(w http.ResponseWriter, r *http.Request) {
	id, err := organizationID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid organization ID")
		return
	}

	invoices, err := h.orgService.Invoices(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, invoices)
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	overview, err := h.statsService.Overview(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, overview)
}

// StatsEvolution returns the daily time series on its own, with an
// optional ?days= window.
func (h *AdminHandler) StatsEvolution(w http.ResponseWriter, r *http.Request) {
	days := service.StatsWindowDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 365 {
			respondWithError(w, http.StatusBadRequest, "days must be between 1 and 365")
			return
		}
		days = parsed
	}

	evolution, err := h.statsService.Evolution(r.Context(), days)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, evolution)
}
