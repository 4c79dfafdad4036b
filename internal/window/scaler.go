// internal/window/scaler.go
package window

import (
	"encoding/json"
	"fmt"
	"os"
)

// Scaler holds per-band statistics fitted offline, used to normalize
// incoming spectrogram chunks the same way the training set was
// normalized.
type Scaler struct {
	Mean       []float64 `json:"mean_freqs"`
	Std        []float64 `json:"std_freqs"`
	NonZeroStd []bool    `json:"non_zero_std"`
}

// LoadScaler reads scaler statistics from a JSON file.
func LoadScaler(path string) (*Scaler, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scaler file: %w", err)
	}

	var s Scaler
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing scaler file: %w", err)
	}

	if len(s.Mean) != len(s.Std) || len(s.Mean) != len(s.NonZeroStd) {
		return nil, fmt.Errorf("scaler file %s: mean/std/non_zero_std lengths differ (%d/%d/%d)",
			path, len(s.Mean), len(s.Std), len(s.NonZeroStd))
	}
	return &s, nil
}

// Standardize applies the fitted statistics to a spectrogram chunk.
func (s *Scaler) Standardize(spect Array) (Array, error) {
	return Standardize(spect, s.Mean, s.Std, s.NonZeroStd)
}
