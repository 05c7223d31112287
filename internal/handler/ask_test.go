package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/MarcelloBorromeo/yellowbird-query-grove/internal/backend"
	"github.com/MarcelloBorromeo/yellowbird-query-grove/internal/handler"
	"github.com/MarcelloBorromeo/yellowbird-query-grove/internal/mock"
	"github.com/MarcelloBorromeo/yellowbird-query-grove/internal/models"
	"github.com/MarcelloBorromeo/yellowbird-query-grove/internal/service"
)

func askHandlerFor(upstreamURL string) *handler.AskHandler {
	client := backend.NewClient(upstreamURL, 5*time.Second)
	proc := service.NewProcessor(client, mock.NewSynthesizer(upstreamURL), true)
	return handler.NewAskHandler(proc)
}

func deadUpstream(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()
	return url
}

func TestAskBadBody(t *testing.T) {
	h := askHandlerFor(deadUpstream(t))

	for name, body := range map[string]string{
		"not json":       "not json",
		"empty question": `{"question": "  "}`,
		"no question":    `{}`,
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/ask", strings.NewReader(body))
			rr := httptest.NewRecorder()
			h.Ask(rr, req)

			if rr.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rr.Code)
			}
			var resp models.ErrorResponse
			if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil || resp.Message == "" {
				t.Errorf("error body = %+v, err = %v", resp, err)
			}
		})
	}
}

func TestAskDegradedStillOK(t *testing.T) {
	h := askHandlerFor(deadUpstream(t))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/ask", strings.NewReader(`{"question": "sales by month"}`))
	rr := httptest.NewRecorder()
	h.Ask(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 even with a dead upstream", rr.Code)
	}
	var result models.QueryResult
	if err := json.Unmarshal(rr.Body.Bytes(), &result); err != nil {
		t.Fatal(err)
	}
	if !result.IsMockData {
		t.Error("isMockData = false, want degraded-mode result")
	}
}

func TestAskUpstreamStructuredError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.Write([]byte(`{"status": "ok"}`))
			return
		}
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "cannot parse question"}`))
	}))
	defer srv.Close()

	h := askHandlerFor(srv.URL)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ask", strings.NewReader(`{"question": "???"}`))
	rr := httptest.NewRecorder()
	h.Ask(rr, req)

	if rr.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rr.Code)
	}
	var resp models.ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(resp.Message, "there was an error processing your query") {
		t.Errorf("message = %q, want the fixed failure prefix", resp.Message)
	}
	if !strings.Contains(resp.Message, "cannot parse question") {
		t.Errorf("message = %q, want the upstream message", resp.Message)
	}
}

func TestHealthDegradedUpstream(t *testing.T) {
	h := handler.NewHealthHandler(backend.NewClient(deadUpstream(t), 1*time.Second))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	h.Health(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; a dead upstream does not fail the gateway", rr.Code)
	}
	var resp models.HealthResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Status != "degraded" {
		t.Errorf("Status = %q, want degraded", resp.Status)
	}
	if !strings.Contains(resp.Checks["upstream"], "unreachable") {
		t.Errorf("upstream check = %q", resp.Checks["upstream"])
	}
}

func TestHealthUpstreamOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "ok"}`))
	}))
	defer srv.Close()

	h := handler.NewHealthHandler(backend.NewClient(srv.URL, 5*time.Second))
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	h.Health(rr, req)

	var resp models.HealthResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Status != "healthy" || resp.Checks["upstream"] != "ok" {
		t.Errorf("resp = %+v", resp)
	}
}
