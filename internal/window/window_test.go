// internal/window/window_test.go
package window

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func mustMatrix(t *testing.T, rows [][]float64) Array {
	t.Helper()
	arr, err := Matrix(rows)
	if err != nil {
		t.Fatalf("Matrix() error = %v", err)
	}
	return arr
}

func TestMatrix_Ragged(t *testing.T) {
	_, err := Matrix([][]float64{{1, 2}, {3}})
	if !errors.Is(err, ErrInvalidShape) {
		t.Errorf("expected ErrInvalidShape, got %v", err)
	}
}

func TestMatrix_Empty(t *testing.T) {
	_, err := Matrix(nil)
	if !errors.Is(err, ErrInvalidShape) {
		t.Errorf("expected ErrInvalidShape, got %v", err)
	}
}

func TestStandardize(t *testing.T) {
	spect := mustMatrix(t, [][]float64{{2, 4}})

	got, err := Standardize(spect, []float64{3}, []float64{1}, []bool{true})
	if err != nil {
		t.Fatalf("Standardize() error = %v", err)
	}

	want := []float64{-1, 1}
	if !reflect.DeepEqual(got.Row(0), want) {
		t.Errorf("Standardize() = %v, want %v", got.Row(0), want)
	}
}

func TestStandardize_ZeroStdBand(t *testing.T) {
	spect := mustMatrix(t, [][]float64{
		{2, 4},
		{5, 5},
	})
	mean := []float64{3, 5}
	std := []float64{0.5, 0}
	nonZero := []bool{true, false}

	got, err := Standardize(spect, mean, std, nonZero)
	if err != nil {
		t.Fatalf("Standardize() error = %v", err)
	}

	if want := []float64{-2, 2}; !reflect.DeepEqual(got.Row(0), want) {
		t.Errorf("band 0 = %v, want %v", got.Row(0), want)
	}
	// Zero-std band is only mean-subtracted, never divided.
	if want := []float64{0, 0}; !reflect.DeepEqual(got.Row(1), want) {
		t.Errorf("band 1 = %v, want %v", got.Row(1), want)
	}
	for _, v := range got.Row(1) {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("zero-std band produced %v", v)
		}
	}
}

func TestStandardize_DoesNotMutateInput(t *testing.T) {
	spect := mustMatrix(t, [][]float64{{2, 4}})
	if _, err := Standardize(spect, []float64{3}, []float64{1}, []bool{true}); err != nil {
		t.Fatalf("Standardize() error = %v", err)
	}
	if want := []float64{2, 4}; !reflect.DeepEqual(spect.Row(0), want) {
		t.Errorf("input was mutated: %v", spect.Row(0))
	}
}

func TestStandardize_ShapeErrors(t *testing.T) {
	spect := mustMatrix(t, [][]float64{{1, 2}, {3, 4}})

	tests := []struct {
		name    string
		arr     Array
		mean    []float64
		std     []float64
		nonZero []bool
	}{
		{"1d input", Vector([]float64{1, 2}), []float64{0}, []float64{1}, []bool{true}},
		{"short mean", spect, []float64{0}, []float64{1, 1}, []bool{true, true}},
		{"short std", spect, []float64{0, 0}, []float64{1}, []bool{true, true}},
		{"short mask", spect, []float64{0, 0}, []float64{1, 1}, []bool{true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Standardize(tt.arr, tt.mean, tt.std, tt.nonZero)
			if !errors.Is(err, ErrInvalidShape) {
				t.Errorf("expected ErrInvalidShape, got %v", err)
			}
		})
	}
}

func TestPadToWindow_1D(t *testing.T) {
	arr := Vector([]float64{1, 2, 3, 4, 5})

	padded, mask, err := PadToWindow(arr, 3, 0)
	if err != nil {
		t.Fatalf("PadToWindow() error = %v", err)
	}

	if padded.Width() != 6 {
		t.Errorf("padded width = %d, want 6", padded.Width())
	}
	if want := []float64{1, 2, 3, 4, 5, 0}; !reflect.DeepEqual(padded.Values(), want) {
		t.Errorf("padded = %v, want %v", padded.Values(), want)
	}
	if want := []bool{true, true, true, true, true, false}; !reflect.DeepEqual(mask, want) {
		t.Errorf("mask = %v, want %v", mask, want)
	}
}

func TestPadToWindow_2D(t *testing.T) {
	arr := mustMatrix(t, [][]float64{
		{1, 2, 3, 4, 5},
		{6, 7, 8, 9, 10},
	})

	padded, mask, err := PadToWindow(arr, 4, -1)
	if err != nil {
		t.Fatalf("PadToWindow() error = %v", err)
	}

	if padded.Height() != 2 || padded.Width() != 8 {
		t.Fatalf("padded shape = (%d, %d), want (2, 8)", padded.Height(), padded.Width())
	}
	if want := []float64{1, 2, 3, 4, 5, -1, -1, -1}; !reflect.DeepEqual(padded.Row(0), want) {
		t.Errorf("band 0 = %v, want %v", padded.Row(0), want)
	}
	if want := []float64{6, 7, 8, 9, 10, -1, -1, -1}; !reflect.DeepEqual(padded.Row(1), want) {
		t.Errorf("band 1 = %v, want %v", padded.Row(1), want)
	}

	kept := 0
	for _, m := range mask {
		if m {
			kept++
		}
	}
	if kept != 5 {
		t.Errorf("mask keeps %d columns, want 5", kept)
	}
}

func TestPadToWindow_AlreadyMultiple(t *testing.T) {
	arr := Vector([]float64{1, 2, 3, 4})

	padded, mask, err := PadToWindow(arr, 2, 0)
	if err != nil {
		t.Fatalf("PadToWindow() error = %v", err)
	}
	if padded.Width() != 4 {
		t.Errorf("padded width = %d, want 4 (no padding added)", padded.Width())
	}
	for i, m := range mask {
		if !m {
			t.Errorf("mask[%d] = false, want all true", i)
		}
	}
}

func TestPadToWindow_BadWindowSize(t *testing.T) {
	_, _, err := PadToWindow(Vector([]float64{1}), 0, 0)
	if !errors.Is(err, ErrInvalidShape) {
		t.Errorf("expected ErrInvalidShape, got %v", err)
	}
}

func TestReshapeToWindow_1D(t *testing.T) {
	arr := Vector([]float64{1, 2, 3, 4, 5, 6})

	windows, err := ReshapeToWindow(arr, 3)
	if err != nil {
		t.Fatalf("ReshapeToWindow() error = %v", err)
	}

	if len(windows) != 2 {
		t.Fatalf("got %d windows, want 2", len(windows))
	}
	if want := []float64{1, 2, 3}; !reflect.DeepEqual(windows[0].Values(), want) {
		t.Errorf("window 0 = %v, want %v", windows[0].Values(), want)
	}
	if want := []float64{4, 5, 6}; !reflect.DeepEqual(windows[1].Values(), want) {
		t.Errorf("window 1 = %v, want %v", windows[1].Values(), want)
	}
}

func TestReshapeToWindow_2D(t *testing.T) {
	arr := mustMatrix(t, [][]float64{
		{1, 2, 3, 4},
		{5, 6, 7, 8},
	})

	windows, err := ReshapeToWindow(arr, 2)
	if err != nil {
		t.Fatalf("ReshapeToWindow() error = %v", err)
	}

	if len(windows) != 2 {
		t.Fatalf("got %d windows, want 2", len(windows))
	}
	if windows[0].Height() != 2 || windows[0].Width() != 2 {
		t.Fatalf("window shape = (%d, %d), want (2, 2)", windows[0].Height(), windows[0].Width())
	}
	if want := []float64{3, 4}; !reflect.DeepEqual(windows[1].Row(0), want) {
		t.Errorf("window 1 band 0 = %v, want %v", windows[1].Row(0), want)
	}
	if want := []float64{7, 8}; !reflect.DeepEqual(windows[1].Row(1), want) {
		t.Errorf("window 1 band 1 = %v, want %v", windows[1].Row(1), want)
	}
}

func TestReshapeToWindow_NotMultiple(t *testing.T) {
	_, err := ReshapeToWindow(Vector([]float64{1, 2, 3, 4, 5}), 3)
	if !errors.Is(err, ErrInvalidShape) {
		t.Errorf("expected ErrInvalidShape, got %v", err)
	}
}

// Pad, reshape, concatenate, crop: the round trip must reproduce the
// original columns exactly.
func TestPadReshapeCropRoundTrip(t *testing.T) {
	tests := []struct {
		name       string
		arr        Array
		windowSize int
		wantN      int
	}{
		{"1d w=5 k=3", Vector([]float64{1, 2, 3, 4, 5}), 3, 2},
		{"1d exact", Vector([]float64{1, 2, 3, 4}), 2, 2},
		{"2d w=5 k=2", mustMatrix(t, [][]float64{{1, 2, 3, 4, 5}, {6, 7, 8, 9, 10}}), 2, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			padded, mask, err := PadToWindow(tt.arr, tt.windowSize, 0)
			if err != nil {
				t.Fatalf("PadToWindow() error = %v", err)
			}
			windows, err := ReshapeToWindow(padded, tt.windowSize)
			if err != nil {
				t.Fatalf("ReshapeToWindow() error = %v", err)
			}
			if len(windows) != tt.wantN {
				t.Fatalf("got %d windows, want %d", len(windows), tt.wantN)
			}

			flat, err := Concat(windows)
			if err != nil {
				t.Fatalf("Concat() error = %v", err)
			}
			cropped, err := Crop(flat, mask)
			if err != nil {
				t.Fatalf("Crop() error = %v", err)
			}

			if !reflect.DeepEqual(cropped, tt.arr) {
				t.Errorf("round trip = %+v, want %+v", cropped, tt.arr)
			}
		})
	}
}

func TestCrop_MaskLengthMismatch(t *testing.T) {
	_, err := Crop(Vector([]float64{1, 2, 3}), []bool{true})
	if !errors.Is(err, ErrInvalidShape) {
		t.Errorf("expected ErrInvalidShape, got %v", err)
	}
}

func TestConcat_HeightMismatch(t *testing.T) {
	a := mustMatrix(t, [][]float64{{1}, {2}})
	b := Vector([]float64{3})
	_, err := Concat([]Array{a, b})
	if !errors.Is(err, ErrInvalidShape) {
		t.Errorf("expected ErrInvalidShape, got %v", err)
	}
}
