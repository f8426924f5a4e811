package audio

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/0xlemi/notescribe/internal/logging"
	"github.com/gordonklaus/portaudio"
)

// PortAudioRecorder records from the default input device using PortAudio
type PortAudioRecorder struct {
	sampleRate      float64
	framesPerBuffer int
	amplification   float32 // Audio signal amplification factor
}

// NewPortAudioRecorder creates a mono recorder
func NewPortAudioRecorder(sampleRate float64, framesPerBuffer int) *PortAudioRecorder {
	return &PortAudioRecorder{
		sampleRate:      sampleRate,
		framesPerBuffer: framesPerBuffer,
		amplification:   1.0,
	}
}

// SetAmplification sets the audio amplification factor
func (r *PortAudioRecorder) SetAmplification(factor float32) {
	// Ensure amplification is positive
	if factor < 0.1 {
		factor = 0.1
	}
	r.amplification = factor
}

// Record captures d of audio. A cancelled context stops the recording early
// and returns what was captured so far along with the context error.
func (r *PortAudioRecorder) Record(ctx context.Context, d time.Duration) (*AudioBuffer, error) {
	if d <= 0 {
		return nil, errors.New("record duration must be positive")
	}

	logger := logging.WithFields(logging.Fields{
		"component":   "recorder",
		"sample_rate": r.sampleRate,
		"duration":    d.Seconds(),
	})

	if err := portaudio.Initialize(); err != nil {
		return nil, err
	}
	defer portaudio.Terminate()

	target := int(d.Seconds() * r.sampleRate)
	samples := make([]float32, 0, target)
	done := make(chan struct{})

	var (
		mu   sync.Mutex
		once sync.Once
	)

	process := func(in []float32) {
		mu.Lock()
		defer mu.Unlock()

		for _, sample := range in {
			if len(samples) >= target {
				break
			}
			samples = append(samples, sample*r.amplification)
		}
		if len(samples) >= target {
			once.Do(func() { close(done) })
		}
	}

	stream, err := portaudio.OpenDefaultStream(1, 0, r.sampleRate, r.framesPerBuffer, process)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return nil, err
	}

	logger.Debug("Recording started")

	var ctxErr error
	select {
	case <-done:
	case <-ctx.Done():
		ctxErr = ctx.Err()
	}

	if err := stream.Stop(); err != nil {
		return nil, err
	}

	mu.Lock()
	captured := make([]float32, len(samples))
	copy(captured, samples)
	mu.Unlock()

	logger.Debug("Recording stopped", logging.Fields{"samples": len(captured)})

	return &AudioBuffer{
		Name:       "microphone",
		Samples:    captured,
		SampleRate: r.sampleRate,
		Channels:   1,
	}, ctxErr
}
