package audio

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mjibson/go-dsp/wav"
)

// LoadWAV reads an 8/16-bit PCM or 32-bit float WAV file and keeps its
// first channel.
func LoadWAV(path string) (*AudioBuffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf, err := ReadWAV(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	buf.Name = filepath.Base(path)
	return buf, nil
}

// ReadWAV decodes WAV data from r.
func ReadWAV(r io.Reader) (*AudioBuffer, error) {
	w, err := wav.New(r)
	if err != nil {
		return nil, err
	}
	if w.NumChannels == 0 || w.SampleRate == 0 {
		return nil, fmt.Errorf("%w: %d channels at %d Hz", ErrInvalidFormat, w.NumChannels, w.SampleRate)
	}

	data, err := w.ReadSamples(w.Samples)
	if err != nil {
		return nil, err
	}

	interleaved, err := normalizeSamples(data)
	if err != nil {
		return nil, err
	}

	channels := int(w.NumChannels)
	samples, err := Channel(interleaved, channels, 0)
	if err != nil {
		return nil, err
	}

	return &AudioBuffer{
		Samples:    samples,
		SampleRate: float64(w.SampleRate),
		Channels:   channels,
	}, nil
}

// normalizeSamples converts raw WAV samples to [-1, 1) floats centred on 0.
func normalizeSamples(data any) ([]float32, error) {
	switch d := data.(type) {
	case []uint8:
		out := make([]float32, len(d))
		for i, v := range d {
			out[i] = (float32(v) - 128) / 128
		}
		return out, nil
	case []int16:
		out := make([]float32, len(d))
		for i, v := range d {
			out[i] = float32(v) / 32768
		}
		return out, nil
	case []float32:
		return d, nil
	}
	return nil, fmt.Errorf("%w: unsupported sample type %T", ErrInvalidFormat, data)
}
