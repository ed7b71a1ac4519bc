// ABOUTME: Progress update plumbing between a running GA and its CLI/HTTP observers
// ABOUTME: Rate-limits updates and computes generations/sec using an injectable clock

package progress

import (
	"sync"

	"github.com/benbjohnson/clock"
)

// reportInterval is the generation stride at which an update is sent even
// without a fitness improvement, mirroring the teacher's progressTracker
// (gen%50==0 heartbeat) so a long plateau still produces visible output.
const reportInterval = 50

// Update describes the state of one GA run at one generation.
type Update struct {
	Run         int
	Generation  int
	BestFitness float64
	GenPerSec   float64
}

// Tracker emits rate-limited Updates on a channel. It is safe to pass a
// nil *Tracker anywhere one is accepted; SendUpdate becomes a no-op.
type Tracker struct {
	updates      chan<- Update
	clock        clock.Clock
	lastGenTime  map[int]int64 // run -> unix nanos of last send
	lastGenCount map[int]int
	mu           sync.Mutex
}

// NewTracker wraps updates (which may be nil to disable reporting
// entirely) with clk (use clock.New() in production, clock.NewMock() in
// tests so generation-rate math doesn't depend on wall-clock sleeps).
func NewTracker(updates chan<- Update, clk clock.Clock) *Tracker {
	if clk == nil {
		clk = clock.New()
	}
	return &Tracker{
		updates:      updates,
		clock:        clk,
		lastGenTime:  make(map[int]int64),
		lastGenCount: make(map[int]int),
	}
}

// SendUpdate reports generation gen of run as the current all-time best
// for that run. It is skipped when neither improved nor the heartbeat
// interval has elapsed, and it never blocks: a full channel drops the
// update rather than stalling the GA.
func (t *Tracker) SendUpdate(run, gen int, bestFitness float64, improved bool) {
	if t == nil || t.updates == nil {
		return
	}
	if !improved && gen%reportInterval != 0 {
		return
	}

	t.mu.Lock()
	now := t.clock.Now().UnixNano()
	elapsed := float64(now-t.lastGenTime[run]) / 1e9
	genPerSec := 0.0
	if elapsed > 0 {
		genPerSec = float64(gen-t.lastGenCount[run]) / elapsed
	}
	t.lastGenTime[run] = now
	t.lastGenCount[run] = gen
	t.mu.Unlock()

	select {
	case t.updates <- Update{Run: run, Generation: gen, BestFitness: bestFitness, GenPerSec: genPerSec}:
	default:
	}
}
