package stats

import "math"

// Round2 rounds to two decimal places, halves away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func mean(seq []int) float64 {
	sum := 0
	for _, v := range seq {
		sum += v
	}
	return float64(sum) / float64(len(seq))
}

// Average is the arithmetic mean of seq rounded to two decimals, or 0 for
// an empty sequence.
func Average(seq []int) float64 {
	if len(seq) == 0 {
		return 0
	}
	return Round2(mean(seq))
}

// StdDev is the population standard deviation of seq rounded to two
// decimals, or 0 for an empty sequence.
func StdDev(seq []int) float64 {
	if len(seq) == 0 {
		return 0
	}
	avg := mean(seq)
	var sq float64
	for _, v := range seq {
		d := float64(v) - avg
		sq += d * d
	}
	return Round2(math.Sqrt(sq / float64(len(seq))))
}

// ProbabilityPercent returns count/total as a percentage rounded to two
// decimals, or 0 when total is 0.
func ProbabilityPercent(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return Round2(float64(count) / float64(total) * 100)
}
