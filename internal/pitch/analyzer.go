package pitch

import (
	"context"

	"github.com/0xlemi/notescribe/internal/logging"
)

// FrameResult describes the outcome of one analysis frame.
type FrameResult struct {
	Index  int   // Frame number, from 0
	Offset int   // Sample offset into the buffer
	Length int   // Samples in the frame before padding
	Total  int   // Number of frames in the buffer
	Note   *Note // Detected note, nil when the frame was skipped
	Err    error // Why the frame was skipped
}

// FrameVisitor is called once per frame in buffer order.
type FrameVisitor func(FrameResult)

// Analyzer splits a sample buffer into frames, estimates a note per frame
// and merges sustained tones.
type Analyzer struct {
	estimator       Estimator
	sampleRate      float64
	mergeGap        float64
	minFrameSamples int
	logger          logging.Logger
}

// NewAnalyzer creates an FFT-based analyzer for buffers recorded at
// sampleRate Hz.
func NewAnalyzer(sampleRate float64, cfg Config) (*Analyzer, error) {
	estimator, err := NewFFTEstimator(sampleRate, cfg)
	if err != nil {
		return nil, err
	}
	return NewAnalyzerWithEstimator(estimator, cfg), nil
}

// NewAnalyzerWithEstimator creates an analyzer around a custom estimator.
// Frame timing uses the estimator's sample rate and frame size; only the
// merge gap and trailing frame policy are read from cfg.
func NewAnalyzerWithEstimator(estimator Estimator, cfg Config) *Analyzer {
	return &Analyzer{
		estimator:       estimator,
		sampleRate:      estimator.SampleRate(),
		mergeGap:        cfg.MergeGap,
		minFrameSamples: cfg.TrailingFrameSamples(estimator.FrameSize()),
		logger:          &logging.NoOpLogger{},
	}
}

// SetLogger sets the logger used for per-frame diagnostics.
func (a *Analyzer) SetLogger(logger logging.Logger) {
	if logger == nil {
		logger = &logging.NoOpLogger{}
	}
	a.logger = logger
}

// Analyze returns the merged note sequence of samples.
func (a *Analyzer) Analyze(samples []float32) ([]Note, error) {
	return a.AnalyzeContext(context.Background(), samples, nil)
}

// AnalyzeContext is Analyze with cancellation checked at every frame
// boundary and an optional visitor for progress reporting.
func (a *Analyzer) AnalyzeContext(ctx context.Context, samples []float32, visit FrameVisitor) ([]Note, error) {
	if len(samples) == 0 {
		return nil, ErrNoSamples
	}

	frameSize := a.estimator.FrameSize()
	total := (len(samples) + frameSize - 1) / frameSize

	notes := make([]Note, 0, total)
	padded := make([]float32, frameSize)
	skipped := 0

	for index, offset := 0, 0; offset < len(samples); index, offset = index+1, offset+frameSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		end := min(offset+frameSize, len(samples))
		result := FrameResult{Index: index, Offset: offset, Length: end - offset, Total: total}

		note, err := a.analyzeFrame(samples[offset:end], padded)
		if err != nil {
			skipped++
			result.Err = err
			a.logger.Debug("Frame skipped", logging.Fields{
				"frame":  index,
				"offset": offset,
				"reason": err.Error(),
			})
		} else {
			note = note.withTiming(float64(offset)/a.sampleRate, float64(result.Length)/a.sampleRate)
			notes = append(notes, note)
			result.Note = &note
		}

		if visit != nil {
			visit(result)
		}
	}

	merged := Merge(notes, a.mergeGap)

	a.logger.Debug("Analysis completed", logging.Fields{
		"frames":       total,
		"skipped":      skipped,
		"frame_notes":  len(notes),
		"merged_notes": len(merged),
	})

	return merged, nil
}

// analyzeFrame estimates one frame, zero-padding a short trailing frame into
// scratch when it holds at least minFrameSamples samples.
func (a *Analyzer) analyzeFrame(frame, scratch []float32) (Note, error) {
	if len(frame) < len(scratch) {
		if len(frame) < a.minFrameSamples {
			return Note{}, &InsufficientSamplesError{Required: a.minFrameSamples, Actual: len(frame)}
		}
		n := copy(scratch, frame)
		clear(scratch[n:])
		frame = scratch
	}

	frequency, err := a.estimator.Estimate(frame)
	if err != nil {
		return Note{}, err
	}

	return FromFrequency(frequency, 1.0)
}
