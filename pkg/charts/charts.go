// Package charts renders the analysis charts as PNG images.
//
// Each renderer takes a cleaned table and returns the encoded image
// bytes; callers decide where the bytes go. Rendering an empty table
// (or a table left empty by a chart's own filter) returns an
// EMPTY_TABLE error so callers can skip the chart instead of writing a
// blank image.
package charts

import (
	"bytes"
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	apperrors "github.com/perseids/meteorfall/pkg/errors"
	"github.com/perseids/meteorfall/pkg/meteorite"
)

const (
	chartWidth  = 1024
	chartHeight = 640

	// Bar labels overlap badly when every year is printed, so only
	// every fifth year gets one.
	yearLabelEvery = 5
)

func emptyTableError(chartName string) error {
	return apperrors.New(apperrors.ErrCodeEmptyTable, "no rows to render for %s", chartName)
}

// CountsPerYear renders a bar chart of landings per year. Years absent
// from the table are not drawn as zero-height bars; the x axis only
// carries years with at least one landing.
func CountsPerYear(table meteorite.Table) ([]byte, error) {
	if table.Empty() {
		return nil, emptyTableError("counts per year")
	}

	years := table.Years()
	counts := table.YearCounts()

	bars := make([]chart.Value, 0, len(years))
	maxCount := 0
	for i, year := range years {
		label := ""
		if i%yearLabelEvery == 0 {
			label = fmt.Sprintf("%d", year)
		}
		if counts[year] > maxCount {
			maxCount = counts[year]
		}
		bars = append(bars, chart.Value{Value: float64(counts[year]), Label: label})
	}

	graph := chart.BarChart{
		Title:    "Meteorite Landings per Year",
		Width:    chartWidth,
		Height:   chartHeight,
		BarWidth: barWidthFor(len(bars)),
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 40},
		},
		XAxis: chart.Style{TextRotationDegrees: 45},
		// A single bar leaves the auto-range with zero spread, so pin
		// the axis from zero to the tallest bar explicitly.
		YAxis: chart.YAxis{
			ValueFormatter: chart.IntValueFormatter,
			Range:          &chart.ContinuousRange{Min: 0, Max: float64(maxCount)},
		},
		Bars: bars,
	}

	return render(&graph)
}

// MassVsYear renders a scatter plot of landing mass against year. The
// y axis is logarithmic, so zero-mass rows cannot be placed and are
// left out.
func MassVsYear(table meteorite.Table) ([]byte, error) {
	var xs, ys []float64
	for _, row := range table.Rows {
		if row.Mass <= 0 {
			continue
		}
		xs = append(xs, float64(row.Year))
		ys = append(ys, row.Mass)
	}
	if len(xs) == 0 {
		return nil, emptyTableError("mass vs year")
	}

	graph := chart.Chart{
		Title:  "Meteorite Mass vs Year",
		Width:  chartWidth,
		Height: chartHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		XAxis: chart.XAxis{Name: "Year"},
		YAxis: chart.YAxis{
			Name:  "Mass (g)",
			Range: &chart.LogarithmicRange{},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Landings",
				XValues: xs,
				YValues: ys,
				Style:   dotStyle(chart.ColorBlue),
			},
		},
	}

	return render(&graph)
}

// dotStyle makes a marker-only series style at 70% opacity. Stacked
// markers stay readable because the overlap darkens.
func dotStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    4,
		DotColor:    col.WithAlpha(178),
	}
}

// verticalLine builds a two-point series spanning the plot height at
// x, used for the mean and median markers on the histogram.
func verticalLine(name string, x, top float64, col drawing.Color) chart.ContinuousSeries {
	return chart.ContinuousSeries{
		Name:    name,
		XValues: []float64{x, x},
		YValues: []float64{0, top},
		Style: chart.Style{
			StrokeWidth:     2.0,
			StrokeColor:     col,
			StrokeDashArray: []float64{4.0, 3.0},
		},
	}
}

// barWidthFor sizes bars so the full span of years fits the canvas.
func barWidthFor(n int) int {
	if n == 0 {
		return 1
	}
	w := (chartWidth - 60) / n
	if w < 1 {
		return 1
	}
	if w > 40 {
		return 40
	}
	return w
}

func render(graph interface {
	Render(chart.RendererProvider, io.Writer) error
}) ([]byte, error) {
	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "render chart")
	}
	return buf.Bytes(), nil
}
