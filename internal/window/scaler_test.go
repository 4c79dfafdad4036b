// internal/window/scaler_test.go
package window

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadScaler(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scaler.json")

	content := `{
  "mean_freqs": [3.0, 5.0],
  "std_freqs": [1.0, 0.0],
  "non_zero_std": [true, false]
}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := LoadScaler(path)
	if err != nil {
		t.Fatalf("LoadScaler() error = %v", err)
	}

	if want := []float64{3, 5}; !reflect.DeepEqual(s.Mean, want) {
		t.Errorf("Mean = %v, want %v", s.Mean, want)
	}
	if want := []bool{true, false}; !reflect.DeepEqual(s.NonZeroStd, want) {
		t.Errorf("NonZeroStd = %v, want %v", s.NonZeroStd, want)
	}

	spect := mustMatrix(t, [][]float64{{2, 4}, {5, 5}})
	got, err := s.Standardize(spect)
	if err != nil {
		t.Fatalf("Standardize() error = %v", err)
	}
	if want := []float64{-1, 1}; !reflect.DeepEqual(got.Row(0), want) {
		t.Errorf("band 0 = %v, want %v", got.Row(0), want)
	}
	if want := []float64{0, 0}; !reflect.DeepEqual(got.Row(1), want) {
		t.Errorf("band 1 = %v, want %v", got.Row(1), want)
	}
}

func TestLoadScaler_LengthMismatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scaler.json")

	content := `{"mean_freqs": [1.0], "std_freqs": [1.0, 2.0], "non_zero_std": [true]}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadScaler(path); err == nil {
		t.Error("expected error for mismatched lengths")
	}
}

func TestLoadScaler_BadJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scaler.json")

	if err := os.WriteFile(path, []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadScaler(path); err == nil {
		t.Error("expected error for unparsable file")
	}
}

func TestLoadScaler_MissingFile(t *testing.T) {
	if _, err := LoadScaler(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
