package backend_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MarcelloBorromeo/yellowbird-query-grove/internal/backend"
)

func TestAskReturnsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/query" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body struct {
			Question string `json:"question"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Question != "top sales" {
			t.Errorf("question = %q, err = %v", body.Question, err)
		}
		w.Write([]byte(`{"RESULT": "fine"}`))
	}))
	defer srv.Close()

	client := backend.NewClient(srv.URL, 5*time.Second)
	body, err := client.Ask(context.Background(), "top sales")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if string(body) != `{"RESULT": "fine"}` {
		t.Errorf("body = %s", body)
	}
}

func TestAskStructuredError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "bad question"}`))
	}))
	defer srv.Close()

	client := backend.NewClient(srv.URL, 5*time.Second)
	_, err := client.Ask(context.Background(), "???")
	if err == nil {
		t.Fatal("want error for 400 response")
	}

	var appErr *backend.Error
	if !errors.As(err, &appErr) {
		t.Fatalf("err = %v, want *backend.Error", err)
	}
	if appErr.StatusCode != http.StatusBadRequest || appErr.Message != "bad question" {
		t.Errorf("appErr = %+v", appErr)
	}
	if backend.IsUnreachable(err) {
		t.Error("a structured error is not a connectivity failure")
	}
}

func TestAskErrorBodyNotDecodable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`<html>gateway exploded</html>`))
	}))
	defer srv.Close()

	client := backend.NewClient(srv.URL, 5*time.Second)
	_, err := client.Ask(context.Background(), "q")

	var appErr *backend.Error
	if !errors.As(err, &appErr) {
		t.Fatalf("err = %v, want *backend.Error", err)
	}
	if appErr.Message != "upstream returned status 500" {
		t.Errorf("Message = %q, want generic fallback", appErr.Message)
	}
}

func TestAskUnreachable(t *testing.T) {
	// Grab a port that is guaranteed closed.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := backend.NewClient(url, 1*time.Second)
	_, err := client.Ask(context.Background(), "q")
	if err == nil {
		t.Fatal("want error for closed port")
	}
	if !backend.IsUnreachable(err) {
		t.Errorf("IsUnreachable(%v) = false, want true", err)
	}
}

func TestProbe(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			hits++
		}
		// Even an unhealthy answer proves reachability.
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := backend.NewClient(srv.URL, 5*time.Second)
	if err := client.Probe(context.Background()); err != nil {
		t.Errorf("Probe: %v", err)
	}
	if hits != 1 {
		t.Errorf("hits = %d, want 1", hits)
	}
}

func TestProbeUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := backend.NewClient(url, 1*time.Second)
	if err := client.Probe(context.Background()); err == nil {
		t.Error("Probe should fail against a closed port")
	}
}
