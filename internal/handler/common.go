package handler

import (
	"encoding/json"
	"net/http"
)

type BaseResponse struct {
	Ok bool `json:"ok"`
}

type ErrorResponse struct {
	BaseResponse
	Error   string    `json:"error"`
	Details *[]string `json:"details,omitempty"`
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, ErrorResponse{Error: message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
