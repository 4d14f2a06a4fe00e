// Package evaluation scores ranked predictions against ground truth.
package evaluation

import (
	"errors"
	"math"
)

var (
	// ErrNoPredictions is returned by the metrics on empty input.
	ErrNoPredictions = errors.New("evaluation: no predictions")
	ErrInvalidK      = errors.New("evaluation: k must be positive")
)

// Ranked pairs a ground-truth label with a predicted ranking, best first.
type Ranked struct {
	Truth  string   `msgpack:"truth" json:"truth"`
	Ranked []string `msgpack:"ranked" json:"ranked"`
}

// MRR is the mean over predictions of 1/rank of the truth, counting 0 when
// the truth is absent.
func MRR(preds []Ranked) (float64, error) {
	if len(preds) == 0 {
		return 0, ErrNoPredictions
	}
	sum := 0.0
	for _, p := range preds {
		for i, label := range p.Ranked {
			if label == p.Truth {
				sum += 1 / float64(i+1)
				break
			}
		}
	}
	return sum / float64(len(preds)), nil
}

// RecallAtK is the fraction of predictions whose truth is among the first k.
func RecallAtK(preds []Ranked, k int) (float64, error) {
	if len(preds) == 0 {
		return 0, ErrNoPredictions
	}
	if k <= 0 {
		return 0, ErrInvalidK
	}
	hits := 0
	for _, p := range preds {
		for _, label := range p.Ranked[:min(k, len(p.Ranked))] {
			if label == p.Truth {
				hits++
				break
			}
		}
	}
	return float64(hits) / float64(len(preds)), nil
}

func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}
