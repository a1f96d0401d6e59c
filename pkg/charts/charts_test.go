package charts

import (
	"bytes"
	"math/rand"
	"reflect"
	"testing"

	apperrors "github.com/perseids/meteorfall/pkg/errors"
	"github.com/perseids/meteorfall/pkg/meteorite"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func sampleTable(n int) meteorite.Table {
	rng := rand.New(rand.NewSource(42))
	rows := make([]meteorite.Landing, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, meteorite.Landing{
			Name: "sample",
			Mass: 1 + rng.Float64()*5000,
			Year: 1850 + rng.Intn(160),
		})
	}
	return meteorite.Table{Rows: rows}
}

func assertPNG(t *testing.T, img []byte) {
	t.Helper()
	if !bytes.HasPrefix(img, pngMagic) {
		t.Fatalf("output does not start with the PNG signature (got %d bytes)", len(img))
	}
}

func TestCountsPerYear(t *testing.T) {
	img, err := CountsPerYear(sampleTable(500))
	if err != nil {
		t.Fatalf("CountsPerYear() error = %v", err)
	}
	assertPNG(t, img)
}

func TestCountsPerYear_FewYears(t *testing.T) {
	img, err := CountsPerYear(meteorite.Table{Rows: []meteorite.Landing{
		{Name: "A", Mass: 10, Year: 1990},
		{Name: "B", Mass: 20, Year: 1990},
		{Name: "C", Mass: 30, Year: 2001},
	}})
	if err != nil {
		t.Fatalf("CountsPerYear() error = %v", err)
	}
	assertPNG(t, img)
}

func TestCountsPerYear_SingleYear(t *testing.T) {
	// One distinct year means one bar and no spread for the y axis to
	// infer; the pinned range has to carry it.
	img, err := CountsPerYear(meteorite.Table{Rows: []meteorite.Landing{
		{Name: "A", Mass: 10, Year: 1975},
		{Name: "B", Mass: 20, Year: 1975},
		{Name: "C", Mass: 30, Year: 1975},
	}})
	if err != nil {
		t.Fatalf("CountsPerYear() error = %v", err)
	}
	assertPNG(t, img)
}

func TestMassDistribution(t *testing.T) {
	img, err := MassDistribution(sampleTable(500))
	if err != nil {
		t.Fatalf("MassDistribution() error = %v", err)
	}
	assertPNG(t, img)
}

func TestMassDistribution_FilteredToNothing(t *testing.T) {
	// Every row is outside the histogram domain: zero mass or above
	// the outlier cutoff.
	table := meteorite.Table{Rows: []meteorite.Landing{
		{Name: "zero", Mass: 0, Year: 1990},
		{Name: "huge", Mass: 60000000, Year: 1920},
	}}
	_, err := MassDistribution(table)
	if !apperrors.Is(err, apperrors.ErrCodeEmptyTable) {
		t.Fatalf("MassDistribution() error = %v, want EMPTY_TABLE", err)
	}
}

func TestMassVsYear(t *testing.T) {
	img, err := MassVsYear(sampleTable(500))
	if err != nil {
		t.Fatalf("MassVsYear() error = %v", err)
	}
	assertPNG(t, img)
}

func TestEmptyTable(t *testing.T) {
	renderers := map[string]func(meteorite.Table) ([]byte, error){
		"CountsPerYear":    CountsPerYear,
		"MassDistribution": MassDistribution,
		"MassVsYear":       MassVsYear,
	}
	for name, fn := range renderers {
		t.Run(name, func(t *testing.T) {
			if _, err := fn(meteorite.Table{}); !apperrors.Is(err, apperrors.ErrCodeEmptyTable) {
				t.Fatalf("error = %v, want EMPTY_TABLE", err)
			}
		})
	}
}

func TestRenderersDoNotMutateTable(t *testing.T) {
	table := sampleTable(50)
	snapshot := sampleTable(50)

	for _, fn := range []func(meteorite.Table) ([]byte, error){CountsPerYear, MassDistribution, MassVsYear} {
		if _, err := fn(table); err != nil {
			t.Fatalf("render error = %v", err)
		}
	}
	if !reflect.DeepEqual(table, snapshot) {
		t.Error("rendering mutated the table")
	}
}

func TestMassSubsets(t *testing.T) {
	table := meteorite.Table{Rows: []meteorite.Landing{
		{Name: "zero", Mass: 0, Year: 1990},
		{Name: "small", Mass: 50, Year: 1991},
		{Name: "at cutoff", Mass: 100000, Year: 1992},
		{Name: "outlier", Mass: 100001, Year: 1993},
	}}

	plotted, sample := massSubsets(table)
	if want := []float64{50, 100000}; !reflect.DeepEqual(plotted, want) {
		t.Errorf("plotted = %v, want %v", plotted, want)
	}
	// Zero-mass rows stay in the sample so the mean and median cover
	// the full filtered table, not just what the log axis can draw.
	if want := []float64{0, 50, 100000}; !reflect.DeepEqual(sample, want) {
		t.Errorf("sample = %v, want %v", sample, want)
	}
}

func TestMassDistribution_ZeroHeavyTable(t *testing.T) {
	// Zeros drag the median to zero, so no median line can be placed
	// on the logarithmic axis; the chart must still render.
	rows := []meteorite.Landing{
		{Name: "positive", Mass: 120, Year: 1990},
		{Name: "positive", Mass: 340, Year: 1991},
	}
	for i := 0; i < 5; i++ {
		rows = append(rows, meteorite.Landing{Name: "zero", Mass: 0, Year: 1980 + i})
	}

	img, err := MassDistribution(meteorite.Table{Rows: rows})
	if err != nil {
		t.Fatalf("MassDistribution() error = %v", err)
	}
	assertPNG(t, img)
}

func TestBinCounts(t *testing.T) {
	centers, counts := binCounts([]float64{0.5, 1.5, 1.6, 9.5}, 10)
	if len(centers) != 10 || len(counts) != 10 {
		t.Fatalf("got %d centers, %d counts, want 10 each", len(centers), len(counts))
	}
	total := 0.0
	for _, c := range counts {
		total += c
	}
	if total != 4 {
		t.Errorf("counts sum to %v, want 4", total)
	}
	// The maximum value must land in the last bin, not fall off the edge.
	if counts[len(counts)-1] != 1 {
		t.Errorf("last bin = %v, want 1", counts[len(counts)-1])
	}
}

func TestBinCounts_SingleValue(t *testing.T) {
	centers, counts := binCounts([]float64{7, 7, 7}, 100)
	if len(centers) != 1 || centers[0] != 7 || counts[0] != 3 {
		t.Errorf("binCounts() = %v, %v; want single bin at 7 with count 3", centers, counts)
	}
}
