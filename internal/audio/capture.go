package audio

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Errors
var (
	ErrEmptyBuffer   = errors.New("empty audio buffer")
	ErrInvalidFormat = errors.New("invalid audio format")
)

// AudioBuffer represents a buffer of mono audio samples. Samples hold the
// first channel of the source; Channels records the source's channel count.
type AudioBuffer struct {
	Name       string
	Samples    []float32
	SampleRate float64
	Channels   int
}

// Duration returns the length of the buffer.
func (b *AudioBuffer) Duration() time.Duration {
	if b == nil || b.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(len(b.Samples)) / b.SampleRate * float64(time.Second))
}

// Recorder defines the interface for capturing a fixed-length buffer
type Recorder interface {
	// Record captures audio for d or until ctx is done
	Record(ctx context.Context, d time.Duration) (*AudioBuffer, error)
}

// InvalidChannelError reports a channel index outside the source.
type InvalidChannelError struct {
	Requested int
	Available int
}

func (e *InvalidChannelError) Error() string {
	return fmt.Sprintf("invalid channel %d: only %d channels available", e.Requested, e.Available)
}

// Channel extracts channel ch from interleaved samples.
func Channel(interleaved []float32, channels, ch int) ([]float32, error) {
	if channels <= 0 {
		return nil, fmt.Errorf("%w: %d channels", ErrInvalidFormat, channels)
	}
	if ch < 0 || ch >= channels {
		return nil, &InvalidChannelError{Requested: ch, Available: channels}
	}
	if channels == 1 {
		return interleaved, nil
	}

	out := make([]float32, len(interleaved)/channels)
	for i := range out {
		out[i] = interleaved[i*channels+ch]
	}
	return out, nil
}
