package report

import (
	"sync"

	"github.com/san-kum/coinflip/internal/coin"
	"github.com/san-kum/coinflip/internal/engine"
	"github.com/san-kum/coinflip/internal/stats"
)

// Recorder is an engine observer that keeps every snapshot of the current
// run and a bounded history of the outcomes they carried.
type Recorder struct {
	mu        sync.Mutex
	capacity  int
	snapshots []stats.Progress
	history   []coin.Outcome
}

func NewRecorder(historyCapacity int) *Recorder {
	return &Recorder{
		capacity:  historyCapacity,
		snapshots: make([]stats.Progress, 0),
		history:   make([]coin.Outcome, 0, max(historyCapacity, 0)),
	}
}

func (r *Recorder) OnStart(requested int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots = r.snapshots[:0]
	r.history = r.history[:0]
}

func (r *Recorder) OnProgress(p stats.Progress) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots = append(r.snapshots, p)
	if p.HasOutcome() && r.capacity > 0 {
		if len(r.history) == r.capacity {
			copy(r.history, r.history[1:])
			r.history = r.history[:len(r.history)-1]
		}
		r.history = append(r.history, p.Latest)
	}
}

func (r *Recorder) OnStop(engine.Result) {}

func (r *Recorder) Snapshots() []stats.Progress {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]stats.Progress(nil), r.snapshots...)
}

// History returns the most recent sampled outcomes, oldest first.
func (r *Recorder) History() []coin.Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]coin.Outcome(nil), r.history...)
}

// HeadsSeries returns the heads probability of every sampled snapshot.
func (r *Recorder) HeadsSeries() []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	series := make([]float64, 0, len(r.snapshots))
	for _, p := range r.snapshots {
		if p.HasOutcome() {
			series = append(series, p.HeadsProbability)
		}
	}
	return series
}
