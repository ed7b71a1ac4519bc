// ABOUTME: HTTP dispatcher surface — POST /solve ack-then-callback, GET /healthz
// ABOUTME: Thin external shell over internal/dispatch and internal/model (spec.md §7)

package httpapi

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"go.uber.org/ratelimit"

	"github.com/stojg/ga-assign/internal/dispatch"
	"github.com/stojg/ga-assign/internal/model"
)

// solveRequest is the wire shape POST /solve consumes (spec.md §7.3).
type solveRequest struct {
	DeferredID  string             `json:"deferredId"`
	CallbackURL string             `json:"callbackUrl"`
	Input       model.ProblemInput `json:"input"`
}

// solveAck is the immediate acknowledgement POST /solve returns.
type solveAck struct {
	Acknowledged bool   `json:"acknowledged"`
	DeferredID   string `json:"deferredId"`
}

// Server wires the dispatcher and a request-rate limiter behind the two
// HTTP routes spec.md §7 / SPEC_FULL §4 describe.
type Server struct {
	dispatcher *dispatch.Dispatcher
	limiter    ratelimit.Limiter
	mux        *http.ServeMux
}

// NewServer builds a Server that handles at most requestsPerSecond
// POST /solve requests per second, dispatching each request through d.
// Requests above that rate wait for the limiter; none are rejected.
func NewServer(d *dispatch.Dispatcher, requestsPerSecond int) *Server {
	if requestsPerSecond < 1 {
		requestsPerSecond = 1
	}
	s := &Server{
		dispatcher: d,
		limiter:    ratelimit.New(requestsPerSecond),
		mux:        http.NewServeMux(),
	}
	s.mux.HandleFunc("POST /solve", s.handleSolve)
	s.mux.HandleFunc("GET /healthz", s.handleHealthz)
	return s
}

// ServeHTTP implements http.Handler so Server can be passed directly to
// http.ListenAndServe.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	s.limiter.Take()

	var req solveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := req.Input.Validate(); err != nil {
		http.Error(w, "invalid problem input: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.CallbackURL == "" {
		http.Error(w, "callbackUrl is required", http.StatusBadRequest)
		return
	}

	log.Printf("httpapi: accepted solve job %s, dispatching", req.DeferredID)
	s.dispatcher.Dispatch(context.Background(), dispatch.Job{
		DeferredID:  req.DeferredID,
		CallbackURL: req.CallbackURL,
		Input:       &req.Input,
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(solveAck{Acknowledged: true, DeferredID: req.DeferredID})
}
