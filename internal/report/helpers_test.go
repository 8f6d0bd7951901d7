package report

import (
	"github.com/san-kum/coinflip/internal/coin"
	"github.com/san-kum/coinflip/internal/stats"
)

func progressWith(o coin.Outcome) stats.Progress {
	s := stats.New()
	s.Record(o)
	return stats.Snapshot(s, 1, 100, o)
}
