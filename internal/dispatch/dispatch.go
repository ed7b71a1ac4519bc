// ABOUTME: Bounded-concurrency background solve-job runner behind POST /solve
// ABOUTME: Each job runs the single-threaded GA core on its own goroutine; jobs never share state

package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/stojg/ga-assign/internal/ga"
	"github.com/stojg/ga-assign/internal/model"
)

// callbackTimeout bounds the POST back to the caller-supplied callback URL
// (spec.md §7.3: "JSON, 30 s timeout").
const callbackTimeout = 30 * time.Second

// Job is one dispatched solve: the caller-supplied correlation id, the
// callback URL to post the result to, and the validated problem to solve.
type Job struct {
	DeferredID  string
	CallbackURL string
	Input       *model.ProblemInput
}

// callbackSuccess and callbackFailure are the two shapes a dispatcher
// posts to CallbackURL (spec.md §7.3): either the winning assignments
// and stats, or an error string. Exactly one of the two payloads is
// ever sent per job.
type callbackSuccess struct {
	DeferredID  string                   `json:"deferredId"`
	Assignments []model.AssignmentResult `json:"assignments"`
	Stats       *model.ProblemStats      `json:"stats,omitempty"`
}

type callbackFailure struct {
	DeferredID string `json:"deferredId"`
	Error      string `json:"error"`
}

// Dispatcher runs Jobs on a bounded pool of goroutines, one GA solve per
// goroutine, posting the result to each job's callback URL. No two solves
// share mutable state: each job gets its own ProblemInput, Population, and
// Chromosome set (spec.md §7's sole requirement on any background
// dispatcher).
//
// Both Run and Dispatch submit work through the same errgroup.Group,
// sized once at construction, so a burst of /solve requests and a batch
// passed to Run are bounded by the identical primitive rather than two
// independent ones.
type Dispatcher struct {
	maxConcurrent int
	pool          *errgroup.Group
	solveOpts     ga.SolveOptions
	httpClient    *http.Client
}

// NewDispatcher builds a Dispatcher that runs at most maxConcurrent solves
// at a time, each using solveOpts (Runs/Params; Tracker is typically nil
// for dispatched jobs since there is no CLI progress bar to feed).
func NewDispatcher(maxConcurrent int, solveOpts ga.SolveOptions) *Dispatcher {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	pool := &errgroup.Group{}
	pool.SetLimit(maxConcurrent)
	return &Dispatcher{
		maxConcurrent: maxConcurrent,
		pool:          pool,
		solveOpts:     solveOpts,
		httpClient:    &http.Client{Timeout: callbackTimeout},
	}
}

// Run solves every job in jobs with at most d.maxConcurrent running
// concurrently, and waits for all of them (including their callback
// deliveries) to finish before returning. A panicking solve is recovered
// and reported through that job's callback error field rather than
// crashing the dispatcher (SPEC_FULL §2.2).
func (d *Dispatcher) Run(ctx context.Context, jobs []Job) error {
	for _, job := range jobs {
		job := job
		d.pool.Go(func() error {
			d.runOne(ctx, job)
			return nil
		})
	}
	return d.pool.Wait()
}

// Dispatch enqueues a single job without blocking the caller; errors from
// the solve or callback delivery are logged, matching an HTTP handler that
// must ack the request immediately (spec.md §7.3). d.pool.Go blocks until
// a slot is free, so that wait is pushed onto its own goroutine here,
// leaving Dispatch itself non-blocking. A burst of /solve requests can
// never run more than maxConcurrent solves at once, through the same pool
// Run uses.
func (d *Dispatcher) Dispatch(ctx context.Context, job Job) {
	go func() {
		d.pool.Go(func() error {
			d.runOne(ctx, job)
			return nil
		})
	}()
}

func (d *Dispatcher) runOne(ctx context.Context, job Job) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("dispatch: job %s panicked: %v", job.DeferredID, r)
			d.postFailure(job, fmt.Errorf("internal error: %v", r))
		}
	}()

	out, err := ga.Solve(ctx, job.Input, d.solveOpts)
	if err != nil {
		log.Printf("dispatch: job %s failed: %v", job.DeferredID, err)
		d.postFailure(job, err)
		return
	}
	d.postSuccess(job, out)
}

func (d *Dispatcher) postSuccess(job Job, out model.ProblemOutput) {
	body := callbackSuccess{
		DeferredID:  job.DeferredID,
		Assignments: out.Assignments,
		Stats:       out.Stats,
	}
	d.postCallback(job.CallbackURL, body)
}

func (d *Dispatcher) postFailure(job Job, solveErr error) {
	body := callbackFailure{
		DeferredID: job.DeferredID,
		Error:      solveErr.Error(),
	}
	d.postCallback(job.CallbackURL, body)
}

func (d *Dispatcher) postCallback(url string, body any) {
	payload, err := json.Marshal(body)
	if err != nil {
		log.Printf("dispatch: failed to marshal callback payload: %v", err)
		return
	}

	resp, err := d.httpClient.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		log.Printf("dispatch: callback POST to %s failed: %v", url, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		log.Printf("dispatch: callback POST to %s returned status %d", url, resp.StatusCode)
	}
}
