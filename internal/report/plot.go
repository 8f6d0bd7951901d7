package report

import (
	"github.com/guptarohit/asciigraph"
)

const maxPlotPoints = 400

// PlotConvergence draws how the heads probability settles toward 50%.
func PlotConvergence(series []float64, width, height int) string {
	if len(series) == 0 {
		return ""
	}
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 10
	}

	return asciigraph.Plot(downsample(series, maxPlotPoints),
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.LowerBound(0),
		asciigraph.UpperBound(100),
		asciigraph.Caption("heads probability (%)"),
	)
}

// PlotStreaks draws the completed streak lengths of one side in order.
func PlotStreaks(streaks []int, caption string, width, height int) string {
	if len(streaks) == 0 {
		return ""
	}
	data := make([]float64, len(streaks))
	for i, v := range streaks {
		data[i] = float64(v)
	}
	return asciigraph.Plot(downsample(data, maxPlotPoints),
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.LowerBound(0),
		asciigraph.Caption(caption),
	)
}

// downsample keeps at most n evenly spaced points, always including the
// last one.
func downsample(data []float64, n int) []float64 {
	if len(data) <= n || n < 2 {
		return data
	}
	out := make([]float64, n)
	step := float64(len(data)-1) / float64(n-1)
	for i := range out {
		out[i] = data[int(float64(i)*step+0.5)]
	}
	return out
}
