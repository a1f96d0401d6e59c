// Package meteorite fetches and cleans the NASA Meteorite Landings dataset.
//
// The package covers the first two stages of the analysis pipeline:
//
//  1. Fetch: [Client] issues a single GET against the dataset endpoint and
//     decodes the JSON array into [Record] values.
//  2. Clean: [Clean] validates the records, coerces mass and year into
//     typed values, and drops rows that fail coercion.
//
// Records are loosely typed at the wire boundary (every field is a string
// in the upstream Socrata export, and optional fields may be absent
// entirely); [Landing] is the validated, typed row produced by cleaning.
package meteorite

import "sort"

// Record is one raw dataset entry as served by the endpoint.
//
// Mass and Year are pointers so the cleaner can distinguish a key that is
// absent from the record from one that is present but unparsable. The
// remaining fields are carried through to [Landing] when present but are
// never required.
type Record struct {
	Name     string  `json:"name"`
	ID       string  `json:"id"`
	NameType string  `json:"nametype,omitempty"`
	RecClass string  `json:"recclass,omitempty"`
	Mass     *string `json:"mass,omitempty"`
	Fall     string  `json:"fall,omitempty"`
	Year     *string `json:"year,omitempty"`
	RecLat   string  `json:"reclat,omitempty"`
	RecLong  string  `json:"reclong,omitempty"`
}

// Landing is a validated row of the cleaned table. Mass is always finite
// and non-negative; Year is the calendar-year component of the parsed
// landing timestamp.
type Landing struct {
	Name     string  `json:"name"`
	ID       string  `json:"id"`
	RecClass string  `json:"recclass,omitempty"`
	Fall     string  `json:"fall,omitempty"`
	Mass     float64 `json:"mass"`
	Year     int     `json:"year"`
	Lat      float64 `json:"lat,omitempty"`
	Long     float64 `json:"long,omitempty"`
}

// Table is the cleaned, ordered dataset consumed by the analyzer and the
// chart renderers. Stages never mutate a Table in place; each produces a
// new one.
type Table struct {
	Rows []Landing `json:"rows"`
}

// Len returns the number of rows in the table.
func (t Table) Len() int { return len(t.Rows) }

// Empty reports whether the table has no rows.
func (t Table) Empty() bool { return len(t.Rows) == 0 }

// Years returns the distinct years present in the table in ascending order.
func (t Table) Years() []int {
	seen := make(map[int]bool, len(t.Rows))
	var years []int
	for _, row := range t.Rows {
		if !seen[row.Year] {
			seen[row.Year] = true
			years = append(years, row.Year)
		}
	}
	sort.Ints(years)
	return years
}

// YearCounts returns the number of rows per year.
func (t Table) YearCounts() map[int]int {
	counts := make(map[int]int, len(t.Rows))
	for _, row := range t.Rows {
		counts[row.Year]++
	}
	return counts
}

// Masses returns the mass column as a slice, in row order.
func (t Table) Masses() []float64 {
	masses := make([]float64, len(t.Rows))
	for i, row := range t.Rows {
		masses[i] = row.Mass
	}
	return masses
}
