package core

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	m "github.com/s1de-walker/Pairs-Watch/models"
)

// getTestServiceContext builds a context with no live connections, good
// enough for every handler path that fails before reaching postgres or yahoo
func getTestServiceContext(t *testing.T) ServiceContext {
	t.Helper()
	return ServiceContext{Context: context.Background()}
}

func getTestHandler(t *testing.T) http.Handler {
	t.Helper()
	return GetHttpServer(getTestServiceContext(t), DefaultAddr).Handler
}

func TestPingEndpoint(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	rec := httptest.NewRecorder()

	getTestHandler(t).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if body["message"] != "pong" {
		t.Errorf("Expected pong, got %q", body["message"])
	}
}

func TestAnalysisOptionsEndpoint(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/analysis/options", nil)
	rec := httptest.NewRecorder()

	getTestHandler(t).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var body m.ServiceResponse[m.AnalysisOptionsResources]
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if body.Data == nil {
		t.Fatal("Expected option data, got nil")
	}

	if len(body.Data.Tickers) != 13 {
		t.Errorf("Expected 13 tickers, got %d", len(body.Data.Tickers))
	}
	if body.Data.DefaultRollingWindow != m.DefaultRollingWindow {
		t.Errorf("Expected default window %d, got %d", m.DefaultRollingWindow, body.Data.DefaultRollingWindow)
	}
	if body.Data.DefaultPercentile != m.DefaultPercentile {
		t.Errorf("Expected default percentile %d, got %d", m.DefaultPercentile, body.Data.DefaultPercentile)
	}
}

func TestPostAnalysisRejectsBadJson(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/analysis", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	getTestHandler(t).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", rec.Code)
	}
}

func TestPostAnalysisRejectsInvalidRequest(t *testing.T) {
	// invalid requests never reach postgres, so no connection is needed
	payload := `{
		"ticker1": "SPY",
		"ticker2": "SPY",
		"startDate": "2025-01-01",
		"endDate": "2025-03-01",
		"rollingWindow": 30,
		"percentile": 3
	}`

	req := httptest.NewRequest(http.MethodPost, "/api/analysis", strings.NewReader(payload))
	rec := httptest.NewRecorder()

	getTestHandler(t).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", rec.Code)
	}

	var body m.ServiceResponse[any]
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if body.Error == "" {
		t.Error("Expected an error message in the response")
	}
}

func TestChartsEndpointRejectsBadQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/charts?rollingWindow=lots", nil)
	rec := httptest.NewRecorder()

	getTestHandler(t).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", rec.Code)
	}
}

func TestChartsEndpointRejectsUnknownTicker(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/charts?ticker1=NOPE", nil)
	rec := httptest.NewRecorder()

	getTestHandler(t).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", rec.Code)
	}
}

func TestHistoryEndpointRejectsBadLimit(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/analysis/history?limit=-2", nil)
	rec := httptest.NewRecorder()

	getTestHandler(t).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", rec.Code)
	}
}

func TestAnalysisErrorStatusMapping(t *testing.T) {
	if got := analysisErrorStatus(newValidationError("bad input")); got != http.StatusBadRequest {
		t.Errorf("Validation errors should map to 400, got %d", got)
	}
	if got := analysisErrorStatus(context.DeadlineExceeded); got != http.StatusBadGateway {
		t.Errorf("Other errors should map to 502, got %d", got)
	}
}
