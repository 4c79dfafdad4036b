// cmd/songwatchd/predictor.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/avocetlabs/songwatch/internal/window"
)

// unlabeled is emitted for windows whose strongest band has no
// labelmap entry.
const unlabeled = "-"

// peakPredictor is a stand-in for the neural model: it labels each
// window with the labelmap entry of its highest-energy band. Real
// deployments implement session.Predictor against their own inference
// runtime.
type peakPredictor struct {
	labels map[int]string
}

// newPeakPredictor loads a labelmap.json file mapping labels to class
// indices, e.g. {"intro": 0, "verse": 1}.
func newPeakPredictor(path string) (*peakPredictor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading labelmap: %w", err)
	}

	var labelmap map[string]int
	if err := json.Unmarshal(data, &labelmap); err != nil {
		return nil, fmt.Errorf("parsing labelmap: %w", err)
	}
	if len(labelmap) == 0 {
		return nil, fmt.Errorf("labelmap %s is empty", path)
	}

	labels := make(map[int]string, len(labelmap))
	for label, idx := range labelmap {
		labels[idx] = label
	}
	return &peakPredictor{labels: labels}, nil
}

func (p *peakPredictor) Predict(ctx context.Context, windows []window.Array) ([]string, error) {
	labels := make([]string, 0, len(windows))
	for _, w := range windows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if w.NDim() != 2 {
			return nil, fmt.Errorf("window is not 2d")
		}

		best, bestEnergy := -1, 0.0
		for b := 0; b < w.Height(); b++ {
			energy := 0.0
			for _, v := range w.Row(b) {
				energy += v * v
			}
			if best < 0 || energy > bestEnergy {
				best, bestEnergy = b, energy
			}
		}

		label, ok := p.labels[best]
		if !ok {
			label = unlabeled
		}
		labels = append(labels, label)
	}
	return labels, nil
}
