// internal/window/window.go
// Array transforms that turn a continuous model input stream into
// fixed-size inference windows: standardization, padding to a multiple
// of the window size, and reshaping into consecutive windows.
package window

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidShape reports an array with the wrong dimensionality or an
// inconsistent width. It indicates a usage error, never a transient
// condition.
var ErrInvalidShape = errors.New("invalid shape")

// Array is a dense 1d or 2d float64 array stored row-major.
// 2d arrays are laid out as (bands, time bins), the shape spectrogram
// chunks arrive in. A 1d array has Height() == 0.
type Array struct {
	data   []float64
	height int // 0 for 1d
	width  int
}

// Vector wraps a 1d slice as an Array. The slice is not copied.
func Vector(data []float64) Array {
	return Array{data: data, width: len(data)}
}

// Matrix builds a 2d Array from band rows. All rows must have the same
// length.
func Matrix(rows [][]float64) (Array, error) {
	if len(rows) == 0 {
		return Array{}, fmt.Errorf("%w: matrix needs at least one row", ErrInvalidShape)
	}
	width := len(rows[0])
	data := make([]float64, 0, len(rows)*width)
	for i, row := range rows {
		if len(row) != width {
			return Array{}, fmt.Errorf("%w: row %d has length %d, want %d", ErrInvalidShape, i, len(row), width)
		}
		data = append(data, row...)
	}
	return Array{data: data, height: len(rows), width: width}, nil
}

// NDim reports 1 or 2.
func (a Array) NDim() int {
	if a.height == 0 {
		return 1
	}
	return 2
}

// Width is the size of the trailing (time) axis.
func (a Array) Width() int { return a.width }

// Height is the number of bands, or 0 for a 1d array.
func (a Array) Height() int { return a.height }

// Row returns band b of a 2d array as a view into the backing data.
func (a Array) Row(b int) []float64 {
	return a.data[b*a.width : (b+1)*a.width]
}

// Values returns the elements of a 1d array.
func (a Array) Values() []float64 { return a.data }

// Standardize subtracts meanPerBand from each band and, where
// nonZeroStd is true, divides by stdPerBand. Bands with zero standard
// deviation are only mean-subtracted, so they never divide by zero.
// The input is not modified.
func Standardize(spect Array, meanPerBand, stdPerBand []float64, nonZeroStd []bool) (Array, error) {
	if spect.NDim() != 2 {
		return Array{}, fmt.Errorf("%w: standardize needs a 2d array", ErrInvalidShape)
	}
	if len(meanPerBand) != spect.height || len(stdPerBand) != spect.height || len(nonZeroStd) != spect.height {
		return Array{}, fmt.Errorf("%w: per-band vectors have lengths %d/%d/%d, want %d bands",
			ErrInvalidShape, len(meanPerBand), len(stdPerBand), len(nonZeroStd), spect.height)
	}

	out := Array{data: make([]float64, len(spect.data)), height: spect.height, width: spect.width}
	for b := 0; b < spect.height; b++ {
		src := spect.Row(b)
		dst := out.Row(b)
		for t, v := range src {
			v -= meanPerBand[b]
			if nonZeroStd[b] {
				v /= stdPerBand[b]
			}
			dst[t] = v
		}
	}
	return out, nil
}

// PadToWindow pads the trailing axis of a 1d or 2d array with padValue
// up to the next multiple of windowSize, so the result can be reshaped
// into consecutive windows. The returned mask has one entry per padded
// column: true for original columns, false for padding. Cropping by the
// mask recovers the original width exactly.
func PadToWindow(arr Array, windowSize int, padValue float64) (Array, []bool, error) {
	if windowSize <= 0 {
		return Array{}, nil, fmt.Errorf("%w: window size must be positive, got %d", ErrInvalidShape, windowSize)
	}

	targetWidth := int(math.Ceil(float64(arr.width)/float64(windowSize))) * windowSize

	rows := arr.height
	if rows == 0 {
		rows = 1
	}
	padded := Array{data: make([]float64, rows*targetWidth), height: arr.height, width: targetWidth}
	for i := range padded.data {
		padded.data[i] = padValue
	}
	for b := 0; b < rows; b++ {
		copy(padded.data[b*targetWidth:], arr.data[b*arr.width:(b+1)*arr.width])
	}

	mask := make([]bool, targetWidth)
	for i := 0; i < arr.width; i++ {
		mask[i] = true
	}
	return padded, mask, nil
}

// ReshapeToWindow splits a padded array into consecutive windows of
// windowSize columns. A 1d array of width n*windowSize yields n 1d
// windows; a 2d array of shape (h, n*windowSize) yields n 2d windows of
// shape (h, windowSize). Grouping only, no masking: cropping padding
// back out is the caller's job, using the mask from PadToWindow.
func ReshapeToWindow(arr Array, windowSize int) ([]Array, error) {
	if windowSize <= 0 {
		return nil, fmt.Errorf("%w: window size must be positive, got %d", ErrInvalidShape, windowSize)
	}
	if arr.width%windowSize != 0 {
		return nil, fmt.Errorf("%w: width %d is not a multiple of window size %d", ErrInvalidShape, arr.width, windowSize)
	}

	n := arr.width / windowSize
	windows := make([]Array, 0, n)
	rows := arr.height
	if rows == 0 {
		rows = 1
	}
	for w := 0; w < n; w++ {
		data := make([]float64, 0, rows*windowSize)
		for b := 0; b < rows; b++ {
			start := b*arr.width + w*windowSize
			data = append(data, arr.data[start:start+windowSize]...)
		}
		windows = append(windows, Array{data: data, height: arr.height, width: windowSize})
	}
	return windows, nil
}

// Crop keeps only the columns where mask is true. Used to strip the
// padding added by PadToWindow after windows are flattened back.
func Crop(arr Array, mask []bool) (Array, error) {
	if len(mask) != arr.width {
		return Array{}, fmt.Errorf("%w: mask has length %d, array width is %d", ErrInvalidShape, len(mask), arr.width)
	}

	kept := 0
	for _, m := range mask {
		if m {
			kept++
		}
	}

	rows := arr.height
	if rows == 0 {
		rows = 1
	}
	out := Array{data: make([]float64, 0, rows*kept), height: arr.height, width: kept}
	for b := 0; b < rows; b++ {
		row := arr.data[b*arr.width : (b+1)*arr.width]
		for t, m := range mask {
			if m {
				out.data = append(out.data, row[t])
			}
		}
	}
	return out, nil
}

// Concat joins windows of equal height back into one array along the
// time axis, the inverse of ReshapeToWindow.
func Concat(windows []Array) (Array, error) {
	if len(windows) == 0 {
		return Array{}, fmt.Errorf("%w: nothing to concatenate", ErrInvalidShape)
	}
	height := windows[0].height
	total := 0
	for i, w := range windows {
		if w.height != height {
			return Array{}, fmt.Errorf("%w: window %d has height %d, want %d", ErrInvalidShape, i, w.height, height)
		}
		total += w.width
	}

	rows := height
	if rows == 0 {
		rows = 1
	}
	out := Array{data: make([]float64, 0, rows*total), height: height, width: total}
	for b := 0; b < rows; b++ {
		for _, w := range windows {
			out.data = append(out.data, w.data[b*w.width:(b+1)*w.width]...)
		}
	}
	return out, nil
}
