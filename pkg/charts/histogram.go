package charts

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
	"github.com/wcharczuk/go-chart/v2"

	"github.com/perseids/meteorfall/pkg/meteorite"
)

const (
	// massCutoff caps the histogram domain. A handful of multi-tonne
	// outliers would otherwise flatten the rest of the distribution
	// into the first bin.
	massCutoff = 100_000.0

	histogramBins = 100
)

// MassDistribution renders a histogram of landing masses up to
// [massCutoff] grams, overlaid with a Gaussian kernel density estimate
// and dashed vertical lines at the mean and median. The mean and
// median cover every row within the cutoff, zero masses included; the
// bars themselves only show positive masses because the x axis is
// logarithmic, and a reference line whose value is zero is left off
// for the same reason.
func MassDistribution(table meteorite.Table) ([]byte, error) {
	plotted, sample := massSubsets(table)
	if len(plotted) == 0 {
		return nil, emptyTableError("mass distribution")
	}

	centers, counts := binCounts(plotted, histogramBins)

	top := 0.0
	for _, c := range counts {
		if c > top {
			top = c
		}
	}

	mean, _ := stats.Mean(sample)
	median, _ := stats.Median(sample)

	series := []chart.Series{
		chart.ContinuousSeries{
			Name:    "Count",
			XValues: centers,
			YValues: counts,
			Style: chart.Style{
				StrokeWidth: 1.0,
				StrokeColor: chart.ColorBlue,
				FillColor:   chart.ColorBlue.WithAlpha(90),
			},
		},
		kdeSeries(plotted, centers, top),
	}
	if mean > 0 {
		series = append(series, verticalLine(fmt.Sprintf("Mean: %.2fg", mean), mean, top, chart.ColorRed))
	}
	if median > 0 {
		series = append(series, verticalLine(fmt.Sprintf("Median: %.2fg", median), median, top, chart.ColorGreen))
	}

	graph := chart.Chart{
		Title:  "Meteorite Mass Distribution",
		Width:  chartWidth,
		Height: chartHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		XAxis: chart.XAxis{
			Name:  "Mass (g)",
			Range: &chart.LogarithmicRange{},
		},
		YAxis:  chart.YAxis{Name: "Count"},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	return render(&graph)
}

// massSubsets filters the table's masses down to the histogram domain.
// sample holds every mass within the cutoff and feeds the mean and
// median; plotted additionally drops zeros, which cannot sit on a
// logarithmic axis. Cleaning already rejects negative masses.
func massSubsets(table meteorite.Table) (plotted, sample []float64) {
	for _, m := range table.Masses() {
		if m > massCutoff {
			continue
		}
		sample = append(sample, m)
		if m > 0 {
			plotted = append(plotted, m)
		}
	}
	return plotted, sample
}

// binCounts splits values into equal-width bins over [min, max] and
// returns each bin's center and count. The final bin is closed on both
// sides so the maximum value lands inside it.
func binCounts(values []float64, bins int) (centers, counts []float64) {
	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	if max == min {
		// Degenerate single-value input: one bar at the value.
		return []float64{min}, []float64{float64(len(values))}
	}

	width := (max - min) / float64(bins)
	counts = make([]float64, bins)
	for _, v := range values {
		i := int((v - min) / width)
		if i >= bins {
			i = bins - 1
		}
		counts[i]++
	}

	centers = make([]float64, bins)
	for i := range centers {
		centers[i] = min + (float64(i)+0.5)*width
	}
	return centers, counts
}

// kdeSeries evaluates a Gaussian kernel density estimate at the bin
// centers and rescales it so its peak matches the tallest bin, which
// keeps the smoothed curve readable on the count axis.
func kdeSeries(values, centers []float64, top float64) chart.ContinuousSeries {
	h := silvermanBandwidth(values)

	density := make([]float64, len(centers))
	peak := 0.0
	for i, x := range centers {
		var sum float64
		for _, v := range values {
			u := (x - v) / h
			sum += math.Exp(-0.5 * u * u)
		}
		density[i] = sum / (float64(len(values)) * h * math.Sqrt(2*math.Pi))
		if density[i] > peak {
			peak = density[i]
		}
	}
	if peak > 0 {
		for i := range density {
			density[i] *= top / peak
		}
	}

	return chart.ContinuousSeries{
		Name:    "Density",
		XValues: centers,
		YValues: density,
		Style: chart.Style{
			StrokeWidth: 2.0,
			StrokeColor: chart.ColorOrange,
		},
	}
}

// silvermanBandwidth is the rule-of-thumb kernel bandwidth
// 1.06 * stddev * n^(-1/5), floored to stay positive when the sample
// has no spread.
func silvermanBandwidth(values []float64) float64 {
	sd, _ := stats.StandardDeviation(values)
	h := 1.06 * sd * math.Pow(float64(len(values)), -0.2)
	if h <= 0 {
		return 1
	}
	return h
}
