package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	apperrors "github.com/perseids/meteorfall/pkg/errors"
)

func TestSplitCharts(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"meteorite_counts_per_year", []string{"meteorite_counts_per_year"}},
		{"a,b", []string{"a", "b"}},
		{" a , b ,", []string{"a", "b"}},
		{"", nil},
	}

	for _, tt := range tests {
		if got := splitCharts(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitCharts(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFormatGrams(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{500, "500"},
		{105.75, "105.75"},
		{13.278, "13.28"},
		{0, "0"},
	}

	for _, tt := range tests {
		if got := formatGrams(tt.in); got != tt.want {
			t.Errorf("formatGrams(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCacheDir_XDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error = %v", err)
	}
	if dir != filepath.Join("/tmp/xdg-cache", appName) {
		t.Errorf("cacheDir() = %q", dir)
	}
}

func TestReadDataset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.json")
	body := `[{"name":"Aachen","mass":"21","year":"1880-01-01T00:00:00.000"}]`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	records, err := readDataset(path)
	if err != nil {
		t.Fatalf("readDataset() error = %v", err)
	}
	if len(records) != 1 || records[0].Name != "Aachen" {
		t.Errorf("readDataset() = %+v", records)
	}
}

func TestReadDataset_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.json")
	if err := os.WriteFile(path, []byte(`{"not":"an array"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := readDataset(path); !apperrors.Is(err, apperrors.ErrCodeInvalidInput) {
		t.Fatalf("readDataset() error = %v, want INVALID_INPUT", err)
	}
}

func TestFormatError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "coded error shows message and code",
			err:  apperrors.New(apperrors.ErrCodeEmptyTable, "no rows to analyze"),
			want: "no rows to analyze (EMPTY_TABLE)",
		},
		{
			name: "wrapped coded error keeps its code",
			err:  fmt.Errorf("pipeline: %w", apperrors.New(apperrors.ErrCodeNotFound, "dataset not found (status 404)")),
			want: "dataset not found (status 404) (NOT_FOUND)",
		},
		{
			name: "plain error passes through",
			err:  errors.New("something odd"),
			want: "something odd",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatError(tt.err); got != tt.want {
				t.Errorf("formatError() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCommonOpts_LoadConfigFlagWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`url = "https://example.com/file.json"`), 0o644); err != nil {
		t.Fatal(err)
	}

	opts := commonOpts{configPath: path, url: "https://override.example.com"}
	cfg, err := opts.loadConfig()
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.URL != "https://override.example.com" {
		t.Errorf("URL = %q, want the flag override", cfg.URL)
	}
}
