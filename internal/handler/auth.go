// internal/handler/auth.go
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	chmw "github.com/go-chi/chi/v5/middleware"
	"github.com/opsledger/billingd/internal/domain"
	"github.com/opsledger/billingd/internal/model"
	"github.com/opsledger/billingd/internal/service"
)

type AuthHandler struct {
	operatorService *service.OperatorService
}

func NewAuthHandler(operatorService *service.OperatorService) *AuthHandler {
	return &AuthHandler{operatorService: operatorService}
}

type LoginResponse struct {
	BaseResponse
	Operator *model.Operator `json:"operator"`
	Token    string          `json:"token"`
}

func (h *AuthHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var input service.LoginInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	output, err := h.operatorService.Login(r.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			respondWithError(w, http.StatusUnauthorized, "Invalid email or password")
		case errors.Is(err, domain.ErrInvalidInput):
			respondWithError(w, http.StatusBadRequest, err.Error())
		default:
			slog.ErrorContext(r.Context(), "Operator login error", "error", err, "requestID", chmw.GetReqID(r.Context()))
			respondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, LoginResponse{
		BaseResponse: BaseResponse{Ok: true},
		Operator:     output.Operator,
		Token:        output.Token,
	})
}
