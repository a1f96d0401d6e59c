package meteorite

import (
	"math"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/perseids/meteorfall/pkg/errors"
)

// Timestamp layouts seen in the dataset's year column, tried in order.
// The Socrata export uses the first; the others cover re-exported copies.
var yearLayouts = []string{
	"2006-01-02T15:04:05.000",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006",
}

// CleanStats reports what cleaning did to the raw input. Rows are dropped
// silently by design (a malformed value is missing data, not a fault), so
// the counts are the only record of how much was discarded.
type CleanStats struct {
	RawCount    int // records received from the fetcher
	CleanCount  int // rows that survived cleaning
	DroppedMass int // rows dropped because mass was absent or unparsable
	DroppedYear int // rows dropped because year was absent or unparsable
}

// Dropped returns the total number of rows removed during cleaning.
// A row missing both fields counts once, under mass.
func (s CleanStats) Dropped() int { return s.RawCount - s.CleanCount }

// Clean converts raw records into a validated [Table].
//
// The contract mirrors a best-effort dataframe cleaning pass:
//
//  1. If no record in the input exposes a mass key, or none exposes a
//     year key, the whole dataset is considered malformed: Clean returns
//     an empty table and a SCHEMA_MISSING_FIELD error naming the column.
//  2. Mass is coerced to a float; year is parsed as a timestamp and
//     reduced to its calendar-year component. Either coercion failing
//     marks the value missing, never an error.
//  3. Rows with a missing mass or year are dropped, not repaired.
//
// All rows failing coercion is a degenerate input, not a fault: the
// result is an empty table and a nil error. Clean never mutates its
// input and is idempotent over its own output shape.
func Clean(records []Record) (Table, CleanStats, error) {
	stats := CleanStats{RawCount: len(records)}

	if len(records) == 0 {
		return Table{}, stats, nil
	}

	if field, ok := missingField(records); !ok {
		return Table{}, stats, apperrors.New(apperrors.ErrCodeSchemaMissingField,
			"dataset has no %q column", field)
	}

	rows := make([]Landing, 0, len(records))
	for _, rec := range records {
		mass, ok := coerceMass(rec.Mass)
		if !ok {
			stats.DroppedMass++
			continue
		}
		year, ok := coerceYear(rec.Year)
		if !ok {
			stats.DroppedYear++
			continue
		}

		row := Landing{
			Name:     rec.Name,
			ID:       rec.ID,
			RecClass: rec.RecClass,
			Fall:     rec.Fall,
			Mass:     mass,
			Year:     year,
		}
		// Coordinates are optional; keep them when they parse, zero otherwise.
		if lat, err := strconv.ParseFloat(rec.RecLat, 64); err == nil {
			row.Lat = lat
		}
		if long, err := strconv.ParseFloat(rec.RecLong, 64); err == nil {
			row.Long = long
		}
		rows = append(rows, row)
	}

	stats.CleanCount = len(rows)
	return Table{Rows: rows}, stats, nil
}

// missingField checks that at least one record exposes each required
// column. Returns the name of the first missing column and false if a
// column is absent across the entire input.
func missingField(records []Record) (string, bool) {
	var hasMass, hasYear bool
	for _, rec := range records {
		hasMass = hasMass || rec.Mass != nil
		hasYear = hasYear || rec.Year != nil
		if hasMass && hasYear {
			return "", true
		}
	}
	if !hasMass {
		return "mass", false
	}
	return "year", false
}

// coerceMass parses a mass value in grams. Absent keys, unparsable
// strings, non-finite values, and negative masses all coerce to missing.
// Zero is a valid mass: the upstream dataset contains genuine zero
// entries and the original analysis kept them.
func coerceMass(raw *string) (float64, bool) {
	if raw == nil {
		return 0, false
	}
	mass, err := strconv.ParseFloat(strings.TrimSpace(*raw), 64)
	if err != nil || math.IsNaN(mass) || math.IsInf(mass, 0) || mass < 0 {
		return 0, false
	}
	return mass, true
}

// coerceYear parses a landing timestamp and extracts its calendar year.
// Month, day, and time components are discarded.
func coerceYear(raw *string) (int, bool) {
	if raw == nil {
		return 0, false
	}
	s := strings.TrimSpace(*raw)
	if s == "" {
		return 0, false
	}
	for _, layout := range yearLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.Year(), true
		}
	}
	return 0, false
}
