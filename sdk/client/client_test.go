package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewClient(t *testing.T) {
	// Test with nil config
	client := NewClient(nil)
	if client.config.BaseURL != "http://localhost:8080" {
		t.Errorf("Expected default BaseURL, got %s", client.config.BaseURL)
	}
	if client.client != http.DefaultClient {
		t.Error("Expected default HTTP client")
	}

	// Test with custom config
	customConfig := &Config{
		BaseURL:    "http://example.com",
		Token:      "deploy_token",
		Timeout:    5 * time.Second,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
	client = NewClient(customConfig)
	if client.config.BaseURL != "http://example.com" {
		t.Errorf("Expected custom BaseURL, got %s", client.config.BaseURL)
	}
	if client.client != customConfig.HTTPClient {
		t.Error("Expected custom HTTP client")
	}
}

func TestSubmitUsageReport(t *testing.T) {
	orgID := uuid.New()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST request, got %s", r.Method)
		}
		if r.URL.Path != "/api/usage-reports" {
			t.Errorf("Expected /api/usage-reports path, got %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer deploy_token" {
			t.Errorf("Expected ingest token header, got %q", got)
		}

		var req UsageReportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Failed to decode request: %v", err)
			http.Error(w, "Bad request", http.StatusBadRequest)
			return
		}
		if req.OrganizationID != orgID {
			t.Errorf("Expected organization ID %s, got %s", orgID, req.OrganizationID)
		}
		if req.UserCount != 42 {
			t.Errorf("Expected user count 42, got %d", req.UserCount)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(UsageReportResponse{
			Ok:                 true,
			ReportID:           uuid.NewString(),
			OrganizationStatus: "linked",
		})
	}))
	defer server.Close()

	client := NewClient(&Config{
		BaseURL: server.URL,
		Token:   "deploy_token",
		Timeout: 5 * time.Second,
	})

	resp, err := client.SubmitUsageReport(context.Background(), &UsageReportRequest{
		OrganizationID:   orgID,
		OrganizationName: "Acme",
		UserCount:        42,
	})
	if err != nil {
		t.Fatalf("SubmitUsageReport failed: %v", err)
	}
	if !resp.Ok {
		t.Error("Expected ok response")
	}
	if resp.OrganizationStatus != "linked" {
		t.Errorf("Expected linked status, got %s", resp.OrganizationStatus)
	}
}

func TestSubmitUsageReportValidation(t *testing.T) {
	client := NewClient(nil)

	if _, err := client.SubmitUsageReport(context.Background(), nil); err == nil {
		t.Error("Expected error for nil request")
	}

	if _, err := client.SubmitUsageReport(context.Background(), &UsageReportRequest{
		OrganizationName: "Acme",
		UserCount:        1,
	}); err == nil {
		t.Error("Expected error for missing organization ID")
	}

	if _, err := client.SubmitUsageReport(context.Background(), &UsageReportRequest{
		OrganizationID:   uuid.New(),
		OrganizationName: "Acme",
		UserCount:        -1,
	}); err == nil {
		t.Error("Expected error for negative user count")
	}
}

func TestSubmitUsageReportUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(UsageReportResponse{Error: "Invalid token"})
	}))
	defer server.Close()

	client := NewClient(&Config{BaseURL: server.URL, Token: "stale"})

	_, err := client.SubmitUsageReport(context.Background(), &UsageReportRequest{
		OrganizationID:   uuid.New(),
		OrganizationName: "Acme",
		UserCount:        3,
	})
	if err == nil {
		t.Fatal("Expected error for rejected token")
	}
}
