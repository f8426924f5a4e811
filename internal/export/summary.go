package export

import (
	"github.com/0xlemi/notescribe/internal/pitch"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary aggregates a note sequence.
type Summary struct {
	Count          int     `json:"count"`
	Distinct       int     `json:"distinct"`
	Lowest         string  `json:"lowest,omitempty"`
	Highest        string  `json:"highest,omitempty"`
	MeanConfidence float64 `json:"mean_confidence"`
	MeanDuration   float64 `json:"mean_duration"`
	Coverage       float64 `json:"coverage"` // Seconds covered by notes
}

// Summarize computes a Summary. Mean confidence is weighted by duration.
func Summarize(notes []pitch.Note) Summary {
	if len(notes) == 0 {
		return Summary{}
	}

	frequencies := make([]float64, len(notes))
	confidences := make([]float64, len(notes))
	durations := make([]float64, len(notes))
	distinct := make(map[string]struct{})

	for i, n := range notes {
		frequencies[i] = n.Frequency()
		confidences[i] = n.Confidence()
		durations[i] = n.Duration()
		distinct[n.DisplayName()] = struct{}{}
	}

	weights := durations
	if floats.Sum(durations) == 0 {
		weights = nil
	}

	return Summary{
		Count:          len(notes),
		Distinct:       len(distinct),
		Lowest:         notes[floats.MinIdx(frequencies)].DisplayName(),
		Highest:        notes[floats.MaxIdx(frequencies)].DisplayName(),
		MeanConfidence: stat.Mean(confidences, weights),
		MeanDuration:   stat.Mean(durations, nil),
		Coverage:       floats.Sum(durations),
	}
}
