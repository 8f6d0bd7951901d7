// Package engine schedules coin-flip runs: trials are processed in batches,
// control is yielded between batches, and progress snapshots are pushed to
// observers at a sampling cadence.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/san-kum/coinflip/internal/coin"
	"github.com/san-kum/coinflip/internal/stats"
)

type Engine struct {
	src       coin.Source
	cfg       Config
	logger    *slog.Logger
	observers []Observer

	mu    sync.Mutex
	state State
	run   *activeRun
}

type activeRun struct {
	id     int
	cancel context.CancelFunc
	done   chan struct{}
	result Result
}

func New(src coin.Source, cfg Config) *Engine {
	return &Engine{
		src:       src,
		cfg:       cfg,
		logger:    slog.New(slog.DiscardHandler),
		observers: make([]Observer, 0),
	}
}

func (e *Engine) AddObserver(o Observer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.observers = append(e.observers, o)
}

func (e *Engine) SetLogger(l *slog.Logger) {
	if l != nil {
		e.logger = l
	}
}

func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Start begins a run of the given number of trials in the background.
// Invalid counts and starts while a run is active are rejected without
// touching engine state or notifying observers.
func (e *Engine) Start(ctx context.Context, trials int) error {
	_, err := e.start(ctx, trials)
	return err
}

// Run starts a run and blocks until it completes or is cancelled.
func (e *Engine) Run(ctx context.Context, trials int) (Result, error) {
	r, err := e.start(ctx, trials)
	if err != nil {
		return Result{}, err
	}
	<-r.done
	return r.result, nil
}

// Cancel asks the active run to stop. The run observes it at the next
// batch boundary; trials of the current batch still complete.
func (e *Engine) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == Running && e.run != nil {
		e.run.cancel()
	}
}

// Wait blocks until the most recently started run has ended and returns
// its result. It reports false if no run was ever started.
func (e *Engine) Wait() (Result, bool) {
	e.mu.Lock()
	r := e.run
	e.mu.Unlock()
	if r == nil {
		return Result{}, false
	}
	<-r.done
	return r.result, true
}

func (e *Engine) start(ctx context.Context, trials int) (*activeRun, error) {
	if trials <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTrials, trials)
	}
	if err := e.cfg.validate(); err != nil {
		return nil, err
	}

	e.mu.Lock()
	if e.state == Running {
		e.mu.Unlock()
		return nil, ErrRunning
	}
	if e.state != Idle {
		e.logger.Debug("engine reset", "from", e.state)
		e.state = Idle
	}

	runCtx, cancel := context.WithCancel(ctx)
	id := 1
	if e.run != nil {
		id = e.run.id + 1
	}
	r := &activeRun{id: id, cancel: cancel, done: make(chan struct{})}
	e.run = r
	e.state = Running
	observers := slices.Clone(e.observers)
	e.mu.Unlock()

	go e.execute(runCtx, r, trials, observers)
	return r, nil
}

func (e *Engine) execute(ctx context.Context, r *activeRun, trials int, observers []Observer) {
	defer close(r.done)
	defer r.cancel()

	begin := time.Now()
	batchSize := e.cfg.BatchSize
	delay := e.cfg.delayFor(trials)

	log := e.logger.With("run", r.id)
	log.Debug("run started", "trials", trials, "batch_size", batchSize, "delay", delay)

	for _, o := range observers {
		o.OnStart(trials)
	}

	st := stats.New()
	cancelled := false

	// Batch bounds are computed from the remaining count so that huge batch
	// sizes or trial counts cannot overflow.
	for start := 0; start < trials; {
		if ctx.Err() != nil {
			cancelled = true
			break
		}

		end := start + min(batchSize, trials-start)
		for i := start; i < end; i++ {
			o := e.src.Next()
			st.Record(o)

			if i%e.cfg.SampleEvery == 0 || i == trials-1 {
				p := stats.Snapshot(st, trials, stats.PercentOf(i+1, trials), o)
				for _, obs := range observers {
					obs.OnProgress(p)
				}
			}
		}

		start = end
		if start < trials && !yield(ctx, delay) {
			cancelled = true
			break
		}
	}

	percent := 100.0
	if cancelled {
		percent = stats.PercentOf(st.Total(), trials)
	}
	final := stats.Snapshot(st, trials, percent, 0)
	for _, obs := range observers {
		obs.OnProgress(final)
	}

	res := Result{
		Requested: trials,
		Trials:    st.Total(),
		Cancelled: cancelled,
		Elapsed:   time.Since(begin),
		Final:     final,
		Stats:     st,
	}

	log.Info("run finished",
		"trials", res.Trials,
		"requested", trials,
		"cancelled", cancelled,
		"heads", final.Heads,
		"tails", final.Tails,
		"elapsed", res.Elapsed,
	)

	// The engine stays Running until every observer has seen OnStop.
	for _, obs := range observers {
		obs.OnStop(res)
	}

	e.mu.Lock()
	if cancelled {
		e.state = Cancelled
	} else {
		e.state = Completed
	}
	r.result = res
	e.mu.Unlock()
}

// yield hands control back to the scheduler between batches. It reports
// false if the run was cancelled before or during the gap.
func yield(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		runtime.Gosched()
		return ctx.Err() == nil
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
