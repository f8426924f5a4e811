package pitch

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
	"gonum.org/v1/gonum/floats"
)

// Estimator estimates the single dominant frequency of one frame.
type Estimator interface {
	// Estimate returns the dominant frequency of frame in Hz
	Estimate(frame []float32) (float64, error)

	// FrameSize returns the number of samples Estimate expects
	FrameSize() int

	// SampleRate returns the rate, in Hz, of the frames Estimate expects
	SampleRate() float64
}

// FFTEstimator implements frequency estimation using a Hann-windowed FFT
// magnitude spectrum and parabolic peak interpolation.
type FFTEstimator struct {
	sampleRate   float64
	frameSize    int
	minFrequency float64 // Lowest accepted estimate (Hz)
	maxFrequency float64 // Highest accepted estimate (Hz)
	window       []float64
}

// NewFFTEstimator creates an estimator for frames of cfg.FrameSize samples
// recorded at sampleRate Hz.
func NewFFTEstimator(sampleRate float64, cfg Config) (*FFTEstimator, error) {
	if !(sampleRate > 0) {
		return nil, ErrInvalidSampleRate
	}
	if !isPowerOfTwo(cfg.FrameSize) || cfg.FrameSize < 4 {
		return nil, ErrInvalidFrameSize
	}

	return &FFTEstimator{
		sampleRate:   sampleRate,
		frameSize:    cfg.FrameSize,
		minFrequency: cfg.MinFrequency,
		maxFrequency: cfg.MaxFrequency,
		window:       window.Hann(cfg.FrameSize),
	}, nil
}

// FrameSize returns the FFT length.
func (e *FFTEstimator) FrameSize() int {
	return e.frameSize
}

// SampleRate returns the configured sample rate in Hz.
func (e *FFTEstimator) SampleRate() float64 {
	return e.sampleRate
}

// BinWidth returns the spacing between FFT bins in Hz.
func (e *FFTEstimator) BinWidth() float64 {
	return e.sampleRate / float64(e.frameSize)
}

// Estimate analyzes the first FrameSize samples of frame and returns the
// interpolated frequency of the strongest spectral peak.
func (e *FFTEstimator) Estimate(frame []float32) (float64, error) {
	if len(frame) < e.frameSize {
		return 0, &InsufficientSamplesError{Required: e.frameSize, Actual: len(frame)}
	}

	windowed := make([]float64, e.frameSize)
	for i := range windowed {
		windowed[i] = float64(frame[i]) * e.window[i]
	}

	spectrum := fft.FFTReal(windowed)

	// Bins [0, N/2) cover 0 .. Nyquist
	magnitudes := make([]float64, e.frameSize/2)
	for i := range magnitudes {
		magnitudes[i] = cmplx.Abs(spectrum[i])
	}

	peak := floats.MaxIdx(magnitudes)
	bin := float64(peak) + parabolicOffset(magnitudes, peak)
	frequency := bin * e.BinWidth()

	if math.IsNaN(frequency) || frequency < e.minFrequency || frequency > e.maxFrequency {
		return 0, &FrequencyOutOfRangeError{
			Min:    e.minFrequency,
			Max:    e.maxFrequency,
			Actual: frequency,
		}
	}

	return frequency, nil
}

// parabolicOffset fits a parabola through the peak and its neighbours and
// returns the vertex offset from k in bins. Neighbours are clamped at the
// spectrum edges; a flat neighbourhood yields 0.
func parabolicOffset(y []float64, k int) float64 {
	lower := max(k-1, 0)
	upper := min(k+1, len(y)-1)

	prev, current, next := y[lower], y[k], y[upper]

	denominator := 2 * (2*current - prev - next)
	if denominator == 0 {
		return 0
	}

	delta := (next - prev) / denominator
	if math.IsNaN(delta) || math.IsInf(delta, 0) {
		return 0
	}
	return delta
}
