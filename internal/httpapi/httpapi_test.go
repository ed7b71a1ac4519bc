// ABOUTME: Tests for the /solve ack-then-callback flow and /healthz

package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stojg/ga-assign/internal/dispatch"
	"github.com/stojg/ga-assign/internal/ga"
)

func smallDispatcher() *dispatch.Dispatcher {
	return dispatch.NewDispatcher(2, ga.SolveOptions{
		Runs:   1,
		Params: ga.Params{PopulationSize: 10, Generations: 2, CrossoverRate: 1, MutationRate: 0.2, Elitism: 1},
	})
}

func TestHandleHealthz_ReturnsOK(t *testing.T) {
	s := NewServer(smallDispatcher(), 100)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("got status %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestHandleSolve_AcksImmediatelyAndCallsBack(t *testing.T) {
	callbackCh := make(chan map[string]any, 1)
	callbackSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		callbackCh <- body
		w.WriteHeader(http.StatusOK)
	}))
	defer callbackSrv.Close()

	s := NewServer(smallDispatcher(), 100)

	reqBody, _ := json.Marshal(map[string]any{
		"deferredId":  "abc-123",
		"callbackUrl": callbackSrv.URL,
		"input": map[string]any{
			"groups":   []map[string]any{{"id": 1, "size": 1}},
			"students": []map[string]any{{"id": 1, "possible_groups": []int{1}}},
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/solve", bytes.NewReader(reqBody))
	rec := httptest.NewRecorder()

	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("got status %d, want %d, body: %s", rec.Code, http.StatusAccepted, rec.Body.String())
	}

	var ack solveAck
	if err := json.Unmarshal(rec.Body.Bytes(), &ack); err != nil {
		t.Fatalf("failed to decode ack: %v", err)
	}
	if !ack.Acknowledged || ack.DeferredID != "abc-123" {
		t.Errorf("got ack %+v, want acknowledged=true deferredId=abc-123", ack)
	}

	select {
	case body := <-callbackCh:
		if body["deferredId"] != "abc-123" {
			t.Errorf("callback deferredId %v, want abc-123", body["deferredId"])
		}
	case <-time.After(5 * time.Second):
		t.Fatal("callback was never delivered")
	}
}

func TestHandleSolve_RejectsMissingCallbackURL(t *testing.T) {
	s := NewServer(smallDispatcher(), 100)

	reqBody, _ := json.Marshal(map[string]any{
		"deferredId": "no-callback",
		"input": map[string]any{
			"groups":   []map[string]any{{"id": 1, "size": 1}},
			"students": []map[string]any{{"id": 1, "possible_groups": []int{1}}},
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/solve", bytes.NewReader(reqBody))
	rec := httptest.NewRecorder()

	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("got status %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHandleSolve_RejectsInvalidInput(t *testing.T) {
	s := NewServer(smallDispatcher(), 100)

	reqBody, _ := json.Marshal(map[string]any{
		"deferredId":  "bad-input",
		"callbackUrl": "http://example.invalid/cb",
		"input": map[string]any{
			"groups":   []map[string]any{{"id": 1, "size": -1}},
			"students": []map[string]any{},
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/solve", bytes.NewReader(reqBody))
	rec := httptest.NewRecorder()

	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("got status %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHandleSolve_RejectsMalformedJSON(t *testing.T) {
	s := NewServer(smallDispatcher(), 100)

	req := httptest.NewRequest(http.MethodPost, "/solve", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()

	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("got status %d, want %d", rec.Code, http.StatusBadRequest)
	}
}
