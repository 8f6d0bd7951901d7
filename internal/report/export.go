package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/san-kum/coinflip/internal/coin"
	"github.com/san-kum/coinflip/internal/engine"
	"github.com/san-kum/coinflip/internal/stats"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatText, FormatJSON, FormatYAML, FormatCSV:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format: %s (available: text, json, yaml, csv)", s)
	}
}

type Summary struct {
	Seed         int64          `json:"seed" yaml:"seed"`
	Requested    int            `json:"requested" yaml:"requested"`
	Trials       int            `json:"trials" yaml:"trials"`
	Cancelled    bool           `json:"cancelled" yaml:"cancelled"`
	ElapsedMs    float64        `json:"elapsed_ms" yaml:"elapsed_ms"`
	Final        stats.Progress `json:"final" yaml:"final"`
	Recent       string         `json:"recent,omitempty" yaml:"recent,omitempty"`
	HeadsStreaks []int          `json:"heads_streaks,omitempty" yaml:"heads_streaks,omitempty"`
	TailsStreaks []int          `json:"tails_streaks,omitempty" yaml:"tails_streaks,omitempty"`
}

// NewSummary builds an export view of a finished run. history is the
// recent-outcome strip, oldest first. Streak sequences are only included
// when withStreaks is set since they grow with the run.
func NewSummary(res engine.Result, seed int64, history []coin.Outcome, withStreaks bool) Summary {
	s := Summary{
		Seed:      seed,
		Requested: res.Requested,
		Trials:    res.Trials,
		Cancelled: res.Cancelled,
		ElapsedMs: float64(res.Elapsed) / float64(time.Millisecond),
		Final:     res.Final,
		Recent:    FormatHistory(history),
	}
	if withStreaks && res.Stats != nil {
		s.HeadsStreaks = res.Stats.HeadsStreaks
		s.TailsStreaks = res.Stats.TailsStreaks
	}
	return s
}

// FormatHistory renders outcomes as a compact "HHT..." strip.
func FormatHistory(history []coin.Outcome) string {
	var b strings.Builder
	b.Grow(len(history))
	for _, o := range history {
		switch o {
		case coin.Heads:
			b.WriteByte('H')
		case coin.Tails:
			b.WriteByte('T')
		}
	}
	return b.String()
}

func WriteJSON(w io.Writer, s Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

func WriteYAML(w io.Writer, s Summary) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return err
	}
	return enc.Close()
}

func WriteText(w io.Writer, s Summary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	p := s.Final

	status := "completed"
	if s.Cancelled {
		status = "cancelled"
	}
	fmt.Fprintf(tw, "trials\t%d / %d (%s)\n", s.Trials, s.Requested, status)
	fmt.Fprintf(tw, "elapsed\t%.2fms\n", s.ElapsedMs)
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "\tHEADS\tTAILS")
	fmt.Fprintf(tw, "count\t%d\t%d\n", p.Heads, p.Tails)
	fmt.Fprintf(tw, "probability\t%.2f%%\t%.2f%%\n", p.HeadsProbability, p.TailsProbability)
	fmt.Fprintf(tw, "max streak\t%d\t%d\n", p.MaxHeadsStreak, p.MaxTailsStreak)
	fmt.Fprintf(tw, "avg streak\t%.2f\t%.2f\n", p.AvgHeadsStreak, p.AvgTailsStreak)
	fmt.Fprintf(tw, "std streak\t%.2f\t%.2f\n", p.StdHeadsStreak, p.StdTailsStreak)
	if s.Recent != "" {
		fmt.Fprintln(tw)
		fmt.Fprintf(tw, "recent\t%s\n", s.Recent)
	}
	return tw.Flush()
}

var csvHeader = []string{
	"trials", "percent", "outcome", "heads", "tails",
	"max_heads_streak", "max_tails_streak",
	"avg_heads_streak", "avg_tails_streak",
	"std_heads_streak", "std_tails_streak",
	"heads_probability", "tails_probability",
}

// WriteCSV writes one row per snapshot.
func WriteCSV(w io.Writer, snapshots []stats.Progress) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	ff := func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }
	for _, p := range snapshots {
		outcome := ""
		if p.HasOutcome() {
			outcome = p.Latest.String()
		}
		row := []string{
			strconv.Itoa(p.Trials), ff(p.Percent), outcome,
			strconv.Itoa(p.Heads), strconv.Itoa(p.Tails),
			strconv.Itoa(p.MaxHeadsStreak), strconv.Itoa(p.MaxTailsStreak),
			ff(p.AvgHeadsStreak), ff(p.AvgTailsStreak),
			ff(p.StdHeadsStreak), ff(p.StdTailsStreak),
			ff(p.HeadsProbability), ff(p.TailsProbability),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func Write(w io.Writer, f Format, s Summary, snapshots []stats.Progress) error {
	switch f {
	case FormatJSON:
		return WriteJSON(w, s)
	case FormatYAML:
		return WriteYAML(w, s)
	case FormatCSV:
		return WriteCSV(w, snapshots)
	default:
		return WriteText(w, s)
	}
}
