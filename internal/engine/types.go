package engine

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/san-kum/coinflip/internal/stats"
)

const (
	DefaultBatchSize   = 1000
	DefaultSampleEvery = 100

	// Runs up to this many trials pause between batches when AutoDelay is
	// set; larger runs only yield.
	autoDelayThreshold = 10000
	autoDelay          = time.Millisecond
)

type State int

const (
	Idle State = iota
	Running
	Completed
	Cancelled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Cancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

type Config struct {
	BatchSize   int
	SampleEvery int
	// Delay is the gap between batches. Ignored when AutoDelay is set.
	Delay     time.Duration
	AutoDelay bool
}

func DefaultConfig() Config {
	return Config{
		BatchSize:   DefaultBatchSize,
		SampleEvery: DefaultSampleEvery,
		AutoDelay:   true,
	}
}

func (c Config) delayFor(trials int) time.Duration {
	if !c.AutoDelay {
		return c.Delay
	}
	if trials <= autoDelayThreshold {
		return autoDelay
	}
	return 0
}

func (c Config) validate() error {
	if c.BatchSize <= 0 {
		return fmt.Errorf("%w: batch size must be positive, got %d", ErrInvalidConfig, c.BatchSize)
	}
	if c.SampleEvery <= 0 {
		return fmt.Errorf("%w: sample interval must be positive, got %d", ErrInvalidConfig, c.SampleEvery)
	}
	if c.Delay < 0 {
		return fmt.Errorf("%w: delay must not be negative, got %s", ErrInvalidConfig, c.Delay)
	}
	return nil
}

// Result describes a finished run.
type Result struct {
	Requested int
	Trials    int
	Cancelled bool
	Elapsed   time.Duration
	Final     stats.Progress
	// Stats is owned by the caller once the run has ended.
	Stats *stats.RunStatistics
}

// Observer receives lifecycle and progress events. All calls for a run
// happen on that run's goroutine, in order. The engine stays Running until
// every OnStop has returned, so a Start issued from OnStop is rejected with
// ErrRunning.
type Observer interface {
	OnStart(requested int)
	OnProgress(p stats.Progress)
	OnStop(r Result)
}

// ObserverFuncs adapts plain functions to Observer; nil fields are skipped.
type ObserverFuncs struct {
	Start    func(requested int)
	Progress func(p stats.Progress)
	Stop     func(r Result)
}

func (f ObserverFuncs) OnStart(requested int) {
	if f.Start != nil {
		f.Start(requested)
	}
}

func (f ObserverFuncs) OnProgress(p stats.Progress) {
	if f.Progress != nil {
		f.Progress(p)
	}
}

func (f ObserverFuncs) OnStop(r Result) {
	if f.Stop != nil {
		f.Stop(r)
	}
}

// ParseTrials validates a user supplied trial count.
func ParseTrials(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTrials, s)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidTrials, n)
	}
	return n, nil
}
