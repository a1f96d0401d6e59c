package analysis

import (
	"math"
	"testing"

	apperrors "github.com/perseids/meteorfall/pkg/errors"
	"github.com/perseids/meteorfall/pkg/meteorite"
)

func table(rows ...meteorite.Landing) meteorite.Table {
	return meteorite.Table{Rows: rows}
}

func TestAnalyze(t *testing.T) {
	got, err := Analyze(table(
		meteorite.Landing{Name: "A", Mass: 10, Year: 1990},
		meteorite.Landing{Name: "B", Mass: 500, Year: 1990},
		meteorite.Landing{Name: "C", Mass: 50, Year: 1991},
	))
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if got.TotalEntries != 3 {
		t.Errorf("TotalEntries = %d, want 3", got.TotalEntries)
	}
	if got.MostMassiveName != "B" || got.MostMassiveMass != 500 {
		t.Errorf("most massive = %s/%v, want B/500", got.MostMassiveName, got.MostMassiveMass)
	}
	if got.MostFrequentYear != 1990 || got.MostFrequentCount != 2 {
		t.Errorf("most frequent year = %d (%d rows), want 1990 (2 rows)", got.MostFrequentYear, got.MostFrequentCount)
	}
	if want := 560.0 / 3; math.Abs(got.MassMean-want) > 1e-9 {
		t.Errorf("MassMean = %v, want %v", got.MassMean, want)
	}
	if got.MassMedian != 50 {
		t.Errorf("MassMedian = %v, want 50", got.MassMedian)
	}
}

func TestAnalyze_SingleRow(t *testing.T) {
	got, err := Analyze(table(meteorite.Landing{Name: "Hoba", Mass: 60000000, Year: 1920}))
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if got.MostMassiveName != "Hoba" || got.MostFrequentYear != 1920 || got.MostFrequentCount != 1 {
		t.Errorf("Analyze() = %+v", got)
	}
	if got.MassMean != 60000000 || got.MassMedian != 60000000 {
		t.Errorf("mean/median = %v/%v, want 6e7 for both", got.MassMean, got.MassMedian)
	}
}

func TestAnalyze_MassTieKeepsFirstRow(t *testing.T) {
	got, err := Analyze(table(
		meteorite.Landing{Name: "First", Mass: 100, Year: 1990},
		meteorite.Landing{Name: "Second", Mass: 100, Year: 1991},
	))
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if got.MostMassiveName != "First" {
		t.Errorf("MostMassiveName = %q, want First (earlier row wins ties)", got.MostMassiveName)
	}
}

func TestAnalyze_YearTieKeepsSmallestYear(t *testing.T) {
	got, err := Analyze(table(
		meteorite.Landing{Name: "A", Mass: 1, Year: 1995},
		meteorite.Landing{Name: "B", Mass: 1, Year: 1995},
		meteorite.Landing{Name: "C", Mass: 1, Year: 1980},
		meteorite.Landing{Name: "D", Mass: 1, Year: 1980},
	))
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if got.MostFrequentYear != 1980 || got.MostFrequentCount != 2 {
		t.Errorf("most frequent year = %d (%d rows), want 1980 (2 rows)", got.MostFrequentYear, got.MostFrequentCount)
	}
}

func TestAnalyze_ZeroMassRows(t *testing.T) {
	got, err := Analyze(table(
		meteorite.Landing{Name: "A", Mass: 0, Year: 1990},
		meteorite.Landing{Name: "B", Mass: 0, Year: 1990},
	))
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if got.MostMassiveName != "A" || got.MostMassiveMass != 0 {
		t.Errorf("most massive = %s/%v, want A/0", got.MostMassiveName, got.MostMassiveMass)
	}
	if got.MassMean != 0 || got.MassMedian != 0 {
		t.Errorf("mean/median = %v/%v, want 0/0", got.MassMean, got.MassMedian)
	}
}

func TestAnalyze_EmptyTable(t *testing.T) {
	_, err := Analyze(meteorite.Table{})
	if !apperrors.Is(err, apperrors.ErrCodeEmptyTable) {
		t.Fatalf("Analyze() error = %v, want EMPTY_TABLE", err)
	}
}
