package engine_test

import (
	"context"
	"math"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/coinflip/internal/coin"
	"github.com/san-kum/coinflip/internal/engine"
	"github.com/san-kum/coinflip/internal/stats"
)

type recorder struct {
	mu       sync.Mutex
	starts   []int
	progress []stats.Progress
	stops    []engine.Result
	onProg   func(p stats.Progress)
}

func (r *recorder) OnStart(requested int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.starts = append(r.starts, requested)
}

func (r *recorder) OnProgress(p stats.Progress) {
	r.mu.Lock()
	r.progress = append(r.progress, p)
	hook := r.onProg
	r.mu.Unlock()
	if hook != nil {
		hook(p)
	}
}

func (r *recorder) OnStop(res engine.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stops = append(r.stops, res)
}

func (r *recorder) snapshots() []stats.Progress {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]stats.Progress(nil), r.progress...)
}

func (r *recorder) events() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.starts) + len(r.progress) + len(r.stops)
}

func (r *recorder) lastTrials() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.progress) == 0 {
		return 0
	}
	return r.progress[len(r.progress)-1].Trials
}

var _ = Describe("Engine", func() {
	var (
		eng *engine.Engine
		rec *recorder
		ctx context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		rec = &recorder{}
		eng = engine.New(coin.NewRandSource(42), engine.DefaultConfig())
		eng.AddObserver(rec)
	})

	It("starts idle", func() {
		Expect(eng.State()).To(Equal(engine.Idle))
		_, ok := eng.Wait()
		Expect(ok).To(BeFalse())
	})

	Describe("a completed run", func() {
		It("processes every requested trial", func() {
			res, err := eng.Run(ctx, 5000)
			Expect(err).NotTo(HaveOccurred())

			Expect(res.Cancelled).To(BeFalse())
			Expect(res.Trials).To(Equal(5000))
			Expect(res.Stats.Heads + res.Stats.Tails).To(Equal(5000))
			Expect(res.Final.Percent).To(Equal(100.0))
			Expect(res.Final.HasOutcome()).To(BeFalse())
			Expect(eng.State()).To(Equal(engine.Completed))
		})

		It("notifies observers once at start and stop", func() {
			_, err := eng.Run(ctx, 1500)
			Expect(err).NotTo(HaveOccurred())

			Expect(rec.starts).To(Equal([]int{1500}))
			Expect(rec.stops).To(HaveLen(1))
			Expect(rec.stops[0].Trials).To(Equal(1500))
		})

		It("keeps the streak invariants", func() {
			res, err := eng.Run(ctx, 3000)
			Expect(err).NotTo(HaveOccurred())

			st := res.Stats
			Expect(st.CurrentHeadsStreak == 0 || st.CurrentTailsStreak == 0).To(BeTrue())
			for _, v := range st.HeadsStreaks {
				Expect(st.MaxHeadsStreak).To(BeNumerically(">=", v))
			}
			for _, v := range st.TailsStreaks {
				Expect(st.MaxTailsStreak).To(BeNumerically(">=", v))
			}
			Expect(st.MaxHeadsStreak).To(BeNumerically(">=", st.CurrentHeadsStreak))
			Expect(st.MaxTailsStreak).To(BeNumerically(">=", st.CurrentTailsStreak))
		})

		It("can be started again once finished", func() {
			_, err := eng.Run(ctx, 10)
			Expect(err).NotTo(HaveOccurred())

			res, err := eng.Run(ctx, 20)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Trials).To(Equal(20))
			Expect(res.Stats.Total()).To(Equal(20))
			Expect(rec.starts).To(Equal([]int{10, 20}))
		})
	})

	Describe("batch sizing", func() {
		It("runs every trial when the batch size exceeds any trial count", func() {
			cfg := engine.DefaultConfig()
			cfg.BatchSize = math.MaxInt
			eng = engine.New(coin.NewRandSource(3), cfg)

			res, err := eng.Run(ctx, 5)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Cancelled).To(BeFalse())
			Expect(res.Trials).To(Equal(5))
			Expect(res.Stats.Heads + res.Stats.Tails).To(Equal(5))
			Expect(res.Final.Percent).To(Equal(100.0))
		})

		It("handles a final partial batch", func() {
			cfg := engine.DefaultConfig()
			cfg.BatchSize = 300
			eng = engine.New(coin.NewRandSource(3), cfg)

			res, err := eng.Run(ctx, 1000)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Trials).To(Equal(1000))
		})
	})

	Describe("stop notification", func() {
		It("delivers OnStop to every observer before accepting a new run", func() {
			var (
				stateInStop []engine.State
				startErr    error
			)
			eng.AddObserver(engine.ObserverFuncs{
				Stop: func(engine.Result) {
					stateInStop = append(stateInStop, eng.State())
					startErr = eng.Start(ctx, 10)
				},
			})
			second := &recorder{}
			eng.AddObserver(second)

			_, err := eng.Run(ctx, 50)
			Expect(err).NotTo(HaveOccurred())

			Expect(stateInStop).To(Equal([]engine.State{engine.Running}))
			Expect(startErr).To(MatchError(engine.ErrRunning))
			Expect(second.stops).To(HaveLen(1))
			Expect(second.starts).To(Equal([]int{50}))
			Expect(eng.State()).To(Equal(engine.Completed))
		})
	})

	Describe("snapshot cadence", func() {
		It("emits on every sampled index, the last trial and a final snapshot", func() {
			_, err := eng.Run(ctx, 250)
			Expect(err).NotTo(HaveOccurred())

			snaps := rec.snapshots()
			Expect(snaps).To(HaveLen(5))

			trials := make([]int, len(snaps))
			for i, p := range snaps {
				trials[i] = p.Trials
			}
			Expect(trials).To(Equal([]int{1, 101, 201, 250, 250}))
			Expect(snaps[0].Percent).To(BeNumerically("~", 0.4, 1e-9))

			for _, p := range snaps[:4] {
				Expect(p.HasOutcome()).To(BeTrue())
			}
			Expect(snaps[4].HasOutcome()).To(BeFalse())
			Expect(snaps[4].Percent).To(Equal(100.0))
		})

		It("emits for a single trial run", func() {
			_, err := eng.Run(ctx, 1)
			Expect(err).NotTo(HaveOccurred())

			snaps := rec.snapshots()
			Expect(snaps).To(HaveLen(2))
			Expect(snaps[0].HasOutcome()).To(BeTrue())
			Expect(snaps[0].Percent).To(Equal(100.0))
		})
	})

	Describe("with an injected sequence", func() {
		It("produces the expected statistics", func() {
			seq, err := coin.ParseOutcomes("HHTHTTT")
			Expect(err).NotTo(HaveOccurred())

			eng = engine.New(coin.NewSequence(seq...), engine.DefaultConfig())
			res, err := eng.Run(ctx, len(seq))
			Expect(err).NotTo(HaveOccurred())

			st := res.Stats
			Expect(st.Heads).To(Equal(3))
			Expect(st.Tails).To(Equal(4))
			Expect(st.HeadsStreaks).To(Equal([]int{2, 1}))
			Expect(st.TailsStreaks).To(Equal([]int{1}))
			Expect(st.CurrentTailsStreak).To(Equal(3))
			Expect(st.MaxHeadsStreak).To(Equal(2))
			Expect(st.MaxTailsStreak).To(Equal(3))
		})
	})

	Describe("rejected starts", func() {
		DescribeTable("non-positive trial counts",
			func(n int) {
				err := eng.Start(ctx, n)
				Expect(err).To(MatchError(engine.ErrInvalidTrials))
				Expect(eng.State()).To(Equal(engine.Idle))
				Consistently(rec.events, 20*time.Millisecond).Should(BeZero())
			},
			Entry("zero", 0),
			Entry("negative", -5),
		)

		It("rejects an invalid configuration", func() {
			cfg := engine.DefaultConfig()
			cfg.BatchSize = 0
			eng = engine.New(coin.NewRandSource(1), cfg)
			Expect(eng.Start(ctx, 10)).To(MatchError(engine.ErrInvalidConfig))

			cfg = engine.DefaultConfig()
			cfg.AutoDelay = false
			cfg.Delay = -time.Millisecond
			eng = engine.New(coin.NewRandSource(1), cfg)
			Expect(eng.Start(ctx, 10)).To(MatchError(engine.ErrInvalidConfig))
			Expect(eng.State()).To(Equal(engine.Idle))
		})

		It("rejects a second start while running", func() {
			cfg := engine.DefaultConfig()
			cfg.AutoDelay = false
			cfg.Delay = time.Hour
			eng = engine.New(coin.NewRandSource(1), cfg)

			Expect(eng.Start(ctx, 3000)).To(Succeed())
			Expect(eng.State()).To(Equal(engine.Running))
			Expect(eng.Start(ctx, 10)).To(MatchError(engine.ErrRunning))

			eng.Cancel()
			res, ok := eng.Wait()
			Expect(ok).To(BeTrue())
			Expect(res.Requested).To(Equal(3000))
		})
	})

	Describe("cancellation", func() {
		It("stops at a batch boundary", func() {
			rec.onProg = func(p stats.Progress) {
				if p.HasOutcome() {
					eng.Cancel()
				}
			}

			res, err := eng.Run(ctx, 5000)
			Expect(err).NotTo(HaveOccurred())

			Expect(res.Cancelled).To(BeTrue())
			Expect(res.Trials).To(Equal(1000))
			Expect(res.Stats.Heads + res.Stats.Tails).To(Equal(1000))
			Expect(res.Final.Percent).To(Equal(20.0))
			Expect(res.Final.HasOutcome()).To(BeFalse())
			Expect(eng.State()).To(Equal(engine.Cancelled))
		})

		It("honours the caller's context", func() {
			runCtx, cancel := context.WithCancel(ctx)
			defer cancel()
			rec.onProg = func(p stats.Progress) {
				if p.Trials >= 1500 {
					cancel()
				}
			}

			res, err := eng.Run(runCtx, 5000)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Cancelled).To(BeTrue())
			Expect(res.Trials).To(Equal(2000))
			Expect(res.Trials % engine.DefaultBatchSize).To(BeZero())
		})

		It("interrupts the gap between batches", func() {
			cfg := engine.DefaultConfig()
			cfg.AutoDelay = false
			cfg.Delay = time.Hour
			eng = engine.New(coin.NewRandSource(7), cfg)
			eng.AddObserver(rec)

			Expect(eng.Start(ctx, 4000)).To(Succeed())
			// Index 900 is the last sampled trial of the first batch.
			Eventually(rec.lastTrials).Should(Equal(901))

			eng.Cancel()
			done := make(chan engine.Result, 1)
			go func() {
				res, _ := eng.Wait()
				done <- res
			}()

			var res engine.Result
			Eventually(done, time.Second).Should(Receive(&res))
			Expect(res.Cancelled).To(BeTrue())
			Expect(res.Trials).To(Equal(1000))
			Expect(res.Trials).To(BeNumerically("<=", res.Requested))
		})

		It("is a no-op once the run has finished", func() {
			res, err := eng.Run(ctx, 1200)
			Expect(err).NotTo(HaveOccurred())

			eng.Cancel()
			Expect(eng.State()).To(Equal(engine.Completed))
			Expect(res.Final.Percent).To(Equal(100.0))
		})
	})
})
