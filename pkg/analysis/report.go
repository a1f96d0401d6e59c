// Package analysis computes summary statistics over a cleaned meteorite
// table. Analyze is a pure function: it never mutates the table and has
// no side effects.
package analysis

import (
	"github.com/montanaflynn/stats"

	apperrors "github.com/perseids/meteorfall/pkg/errors"
	"github.com/perseids/meteorfall/pkg/meteorite"
)

// Report holds the statistics derived from a cleaned table.
type Report struct {
	// TotalEntries is the number of rows that survived cleaning.
	TotalEntries int `json:"total_entries"`

	// MostMassiveName and MostMassiveMass identify the row with the
	// maximum mass. On exact mass ties the first row in table order wins.
	MostMassiveName string  `json:"most_massive_name"`
	MostMassiveMass float64 `json:"most_massive_mass"`

	// MostFrequentYear is the year appearing in the most rows, with
	// MostFrequentCount occurrences. Ties resolve to the smallest year.
	MostFrequentYear  int `json:"most_frequent_year"`
	MostFrequentCount int `json:"most_frequent_count"`

	// MassMean and MassMedian summarize the full mass column in grams.
	MassMean   float64 `json:"mass_mean"`
	MassMedian float64 `json:"mass_median"`
}

// Analyze computes a [Report] for the table.
//
// Selecting a maximum over an empty set is undefined, so an empty table
// yields an EMPTY_TABLE error rather than a zero-valued report; callers
// that want the degenerate "0 entries" answer should check
// [meteorite.Table.Empty] first.
func Analyze(table meteorite.Table) (Report, error) {
	if table.Empty() {
		return Report{}, apperrors.New(apperrors.ErrCodeEmptyTable, "no rows to analyze")
	}

	report := Report{TotalEntries: table.Len()}

	heaviest := table.Rows[0]
	for _, row := range table.Rows[1:] {
		if row.Mass > heaviest.Mass {
			heaviest = row
		}
	}
	report.MostMassiveName = heaviest.Name
	report.MostMassiveMass = heaviest.Mass

	report.MostFrequentYear, report.MostFrequentCount = modalYear(table)

	masses := table.Masses()
	// Errors are impossible here: the slice is non-empty and cleaning
	// guarantees finite values.
	report.MassMean, _ = stats.Mean(masses)
	report.MassMedian, _ = stats.Median(masses)

	return report, nil
}

// modalYear returns the year with the highest row count. When two years
// tie, the smallest year wins; iterating the sorted year list and
// requiring a strictly greater count makes the rule deterministic.
func modalYear(table meteorite.Table) (year, count int) {
	counts := table.YearCounts()
	for _, y := range table.Years() {
		if counts[y] > count {
			year, count = y, counts[y]
		}
	}
	return year, count
}
