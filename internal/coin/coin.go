package coin

import (
	"fmt"
	"math/rand"
	"strings"
)

// Outcome is the result of a single trial. The zero value means no trial.
type Outcome uint8

const (
	Heads Outcome = iota + 1
	Tails
)

func (o Outcome) String() string {
	switch o {
	case Heads:
		return "heads"
	case Tails:
		return "tails"
	default:
		return "none"
	}
}

// Opposite returns the other side of the coin.
func (o Outcome) Opposite() Outcome {
	if o == Heads {
		return Tails
	}
	return Heads
}

func (o Outcome) Valid() bool { return o == Heads || o == Tails }

// Source produces independent fair trials.
type Source interface {
	Next() Outcome
}

type RandSource struct {
	rng *rand.Rand
}

func NewRandSource(seed int64) *RandSource {
	return &RandSource{rng: rand.New(rand.NewSource(seed))}
}

func (s *RandSource) Next() Outcome {
	if s.rng.Float64() < 0.5 {
		return Heads
	}
	return Tails
}

// Sequence replays a fixed list of outcomes, wrapping around at the end.
type Sequence struct {
	outcomes []Outcome
	pos      int
}

func NewSequence(outcomes ...Outcome) *Sequence {
	return &Sequence{outcomes: outcomes}
}

func (s *Sequence) Next() Outcome {
	if len(s.outcomes) == 0 {
		return Heads
	}
	o := s.outcomes[s.pos]
	s.pos = (s.pos + 1) % len(s.outcomes)
	return o
}

// ParseOutcomes reads strings such as "HHTHTTT" (case-insensitive,
// whitespace and commas ignored).
func ParseOutcomes(s string) ([]Outcome, error) {
	out := make([]Outcome, 0, len(s))
	for i, r := range strings.ToUpper(s) {
		switch r {
		case 'H':
			out = append(out, Heads)
		case 'T':
			out = append(out, Tails)
		case ' ', ',', '\t', '\n':
		default:
			return nil, fmt.Errorf("invalid outcome %q at offset %d", r, i)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty outcome sequence")
	}
	return out, nil
}
