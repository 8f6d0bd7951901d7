package stats

import "github.com/san-kum/coinflip/internal/coin"

// RunStatistics holds the running counters and streak bookkeeping of one
// run. Only the run that owns it may call Record.
type RunStatistics struct {
	Heads int `json:"heads" yaml:"heads"`
	Tails int `json:"tails" yaml:"tails"`

	CurrentHeadsStreak int `json:"current_heads_streak" yaml:"current_heads_streak"`
	CurrentTailsStreak int `json:"current_tails_streak" yaml:"current_tails_streak"`
	MaxHeadsStreak     int `json:"max_heads_streak" yaml:"max_heads_streak"`
	MaxTailsStreak     int `json:"max_tails_streak" yaml:"max_tails_streak"`

	// Completed streak lengths; the open streak is not included.
	HeadsStreaks []int `json:"heads_streaks" yaml:"heads_streaks"`
	TailsStreaks []int `json:"tails_streaks" yaml:"tails_streaks"`
}

func New() *RunStatistics {
	return &RunStatistics{
		HeadsStreaks: make([]int, 0),
		TailsStreaks: make([]int, 0),
	}
}

// Record folds one outcome into the statistics. A streak closes the moment
// the opposite side comes up.
func (s *RunStatistics) Record(o coin.Outcome) {
	switch o {
	case coin.Heads:
		s.Heads++
		s.CurrentHeadsStreak++
		if s.CurrentTailsStreak > 0 {
			s.TailsStreaks = append(s.TailsStreaks, s.CurrentTailsStreak)
			s.CurrentTailsStreak = 0
		}
	case coin.Tails:
		s.Tails++
		s.CurrentTailsStreak++
		if s.CurrentHeadsStreak > 0 {
			s.HeadsStreaks = append(s.HeadsStreaks, s.CurrentHeadsStreak)
			s.CurrentHeadsStreak = 0
		}
	default:
		return
	}

	s.MaxHeadsStreak = max(s.MaxHeadsStreak, s.CurrentHeadsStreak)
	s.MaxTailsStreak = max(s.MaxTailsStreak, s.CurrentTailsStreak)
}

func (s *RunStatistics) Total() int { return s.Heads + s.Tails }
