package stats

import "github.com/san-kum/coinflip/internal/coin"

// Progress is an immutable point-in-time view of a run's derived
// statistics.
type Progress struct {
	Heads          int `json:"heads" yaml:"heads"`
	Tails          int `json:"tails" yaml:"tails"`
	MaxHeadsStreak int `json:"max_heads_streak" yaml:"max_heads_streak"`
	MaxTailsStreak int `json:"max_tails_streak" yaml:"max_tails_streak"`

	AvgHeadsStreak float64 `json:"avg_heads_streak" yaml:"avg_heads_streak"`
	AvgTailsStreak float64 `json:"avg_tails_streak" yaml:"avg_tails_streak"`
	StdHeadsStreak float64 `json:"std_heads_streak" yaml:"std_heads_streak"`
	StdTailsStreak float64 `json:"std_tails_streak" yaml:"std_tails_streak"`

	HeadsProbability float64 `json:"heads_probability" yaml:"heads_probability"`
	TailsProbability float64 `json:"tails_probability" yaml:"tails_probability"`

	Percent   float64 `json:"percent" yaml:"percent"`
	Trials    int     `json:"trials" yaml:"trials"`
	Requested int     `json:"requested" yaml:"requested"`

	// Latest is the outcome of the trial that triggered the snapshot; zero
	// for the final snapshot.
	Latest coin.Outcome `json:"-" yaml:"-"`
}

func (p Progress) HasOutcome() bool { return p.Latest.Valid() }

// Snapshot derives a Progress from s. Aggregates are recomputed from the
// streak sequences every time.
func Snapshot(s *RunStatistics, requested int, percent float64, latest coin.Outcome) Progress {
	total := s.Total()
	return Progress{
		Heads:            s.Heads,
		Tails:            s.Tails,
		MaxHeadsStreak:   s.MaxHeadsStreak,
		MaxTailsStreak:   s.MaxTailsStreak,
		AvgHeadsStreak:   Average(s.HeadsStreaks),
		AvgTailsStreak:   Average(s.TailsStreaks),
		StdHeadsStreak:   StdDev(s.HeadsStreaks),
		StdTailsStreak:   StdDev(s.TailsStreaks),
		HeadsProbability: ProbabilityPercent(s.Heads, total),
		TailsProbability: ProbabilityPercent(s.Tails, total),
		Percent:          percent,
		Trials:           total,
		Requested:        requested,
		Latest:           latest,
	}
}

// PercentOf reports done/total as a percentage, 0 when total is 0.
func PercentOf(done, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(done) / float64(total) * 100
}
