package evaluator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/vitals/vitals/internal/platform/middleware"
	"github.com/vitals/vitals/pkg/vitals"
)

func intPtr(v int) *int { return &v }

func testReadings() []*vitals.Reading {
	return []*vitals.Reading{{
		ReadingID:  "r-1",
		PatientID:  "p-1",
		CapturedAt: "2025-08-01T12:00:00Z",
		Type:       vitals.TypeHR,
		HR:         intPtr(120),
	}}
}

func TestClient_Evaluate(t *testing.T) {
	var gotPath, gotContentType string
	var gotBody []*vitals.Reading

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode([]vitals.Alert{{AlertID: "a-1", ReadingID: "r-1", AlertType: vitals.AlertHigh}})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 2*time.Second, zerolog.Nop())
	alerts, err := c.Evaluate(context.Background(), testReadings())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/evaluate" {
		t.Errorf("expected POST /evaluate, got %s", gotPath)
	}
	if gotContentType != "application/json" {
		t.Errorf("expected application/json, got %s", gotContentType)
	}
	if len(gotBody) != 1 || gotBody[0].ReadingID != "r-1" {
		t.Errorf("unexpected forwarded batch: %v", gotBody)
	}
	if len(alerts) != 1 || alerts[0].AlertID != "a-1" {
		t.Errorf("unexpected alerts: %v", alerts)
	}
}

func TestClient_Evaluate_PropagatesRequestID(t *testing.T) {
	var gotHeader string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get(middleware.RequestIDHeader)
		w.Write([]byte("[]"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 2*time.Second, zerolog.Nop())
	ctx := middleware.WithRequestID(context.Background(), "batch-7")
	if _, err := c.Evaluate(ctx, testReadings()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotHeader != "batch-7" {
		t.Errorf("expected request id forwarded to the alert service, got %q", gotHeader)
	}
}

func TestClient_Evaluate_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 2*time.Second, zerolog.Nop())
	if _, err := c.Evaluate(context.Background(), testReadings()); err == nil {
		t.Fatal("expected error for 500 response")
	}
}

func TestClient_Evaluate_Unreachable(t *testing.T) {
	// Closed server: connection refused.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewClient(srv.URL, 2*time.Second, zerolog.Nop())
	if _, err := c.Evaluate(context.Background(), testReadings()); err == nil {
		t.Fatal("expected error for unreachable server")
	}
}

func TestClient_Evaluate_Timeout(t *testing.T) {
	done := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-done:
		}
	}))
	defer srv.Close()
	defer close(done)

	c := NewClient(srv.URL, 50*time.Millisecond, zerolog.Nop())
	start := time.Now()
	_, err := c.Evaluate(context.Background(), testReadings())
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if time.Since(start) > time.Second {
		t.Errorf("call should be abandoned at the timeout, took %v", time.Since(start))
	}
}

func TestClient_Evaluate_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not":"an array"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 2*time.Second, zerolog.Nop())
	if _, err := c.Evaluate(context.Background(), testReadings()); err == nil {
		t.Fatal("expected decode error")
	}
}
