// internal/handler/usage_report.go
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chmw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/opsledger/billingd/internal/domain"
	"github.com/opsledger/billingd/internal/service"
)

type UsageReportHandler struct {
	billingService *service.BillingService
}

func NewUsageReportHandler(billingService *service.BillingService) *UsageReportHandler {
	return &UsageReportHandler{billingService: billingService}
}

type IngestResponse struct {
	BaseResponse
	ReportID           string `json:"report_id"`
	OrganizationStatus string `json:"organization_status"`
}

// IngestHandler accepts a usage report from a remote deployment.
func (h *UsageReportHandler) IngestHandler(w http.ResponseWriter, r *http.Request) {
	var input service.IngestInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	output, err := h.billingService.Ingest(r.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			respondWithError(w, http.StatusBadRequest, err.Error())
		default:
			slog.ErrorContext(r.Context(), "Usage report ingest error", "error", err, "requestID", chmw.GetReqID(r.Context()))
			respondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondWithJSON(w, http.StatusCreated, IngestResponse{
		BaseResponse:       BaseResponse{Ok: true},
		ReportID:           output.ReportID.String(),
		OrganizationStatus: output.OrganizationStatus,
	})
}

type StatusResponse struct {
	BaseResponse
	*service.BillingStatus
}

// StatusHandler returns the billing status a remote deployment displays to
// its users.
func (h *UsageReportHandler) StatusHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid organization ID")
		return
	}

	status, err := h.billingService.Status(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrOrganizationNotFound):
			respondWithError(w, http.StatusNotFound, "Organization not found")
		default:
			slog.ErrorContext(r.Context(), "Billing status error", "error", err, "requestID", chmw.GetReqID(r.Context()))
			respondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, StatusResponse{
		BaseResponse:  BaseResponse{Ok: true},
		BillingStatus: status,
	})
}
