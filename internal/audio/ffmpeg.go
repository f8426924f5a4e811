package audio

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/0xlemi/notescribe/internal/logging"
)

// DecoderConfig holds decoder configuration
type DecoderConfig struct {
	FFmpegPath  string        // Path to ffmpeg binary
	FFprobePath string        // Path to ffprobe binary
	Timeout     time.Duration // Timeout for each ffmpeg/ffprobe run
}

// DefaultDecoderConfig returns default decoder configuration
func DefaultDecoderConfig() DecoderConfig {
	return DecoderConfig{
		FFmpegPath:  "ffmpeg",  // Assume in PATH
		FFprobePath: "ffprobe", // Assume in PATH
		Timeout:     60 * time.Second,
	}
}

// Decoder decodes compressed or container audio with FFmpeg
type Decoder struct {
	config DecoderConfig
}

// Metadata holds audio properties detected by ffprobe
type Metadata struct {
	SampleRate int
	Channels   int
	Codec      string
	Duration   float64
}

// NewDecoder creates a new audio decoder
func NewDecoder(config DecoderConfig) *Decoder {
	return &Decoder{config: config}
}

// DecodeFile decodes the first audio stream of filename at its native sample
// rate and keeps the first channel.
func (d *Decoder) DecodeFile(ctx context.Context, filename string) (*AudioBuffer, error) {
	logger := logging.WithFields(logging.Fields{
		"component": "audio_decoder",
		"filename":  filename,
	})

	metadata, err := d.Probe(ctx, filename)
	if err != nil {
		return nil, err
	}

	logger.Debug("Audio metadata detected", logging.Fields{
		"sample_rate": metadata.SampleRate,
		"channels":    metadata.Channels,
		"codec":       metadata.Codec,
		"duration":    metadata.Duration,
	})

	args := []string{
		"-v", "error",
		"-i", filename,
		"-map", "0:a:0",
		"-vn",
		"-f", "f32le",
		"-acodec", "pcm_f32le",
		"pipe:1",
	}

	output, err := d.run(ctx, d.config.FFmpegPath, args)
	if err != nil {
		return nil, fmt.Errorf("ffmpeg decode failed: %w", err)
	}

	interleaved := bytesToFloat32(output)
	samples, err := Channel(interleaved, metadata.Channels, 0)
	if err != nil {
		return nil, err
	}

	logger.Debug("Decode completed", logging.Fields{
		"output_bytes": len(output),
		"samples":      len(samples),
	})

	return &AudioBuffer{
		Name:       filepath.Base(filename),
		Samples:    samples,
		SampleRate: float64(metadata.SampleRate),
		Channels:   metadata.Channels,
	}, nil
}

// Probe uses ffprobe to read the first audio stream's properties
func (d *Decoder) Probe(ctx context.Context, filename string) (*Metadata, error) {
	args := []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_streams",
		"-select_streams", "a:0",
		filename,
	}

	output, err := d.run(ctx, d.config.FFprobePath, args)
	if err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}
	return parseProbeOutput(output)
}

func (d *Decoder) run(ctx context.Context, bin string, args []string) ([]byte, error) {
	if d.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.config.Timeout)
		defer cancel()
	}

	logging.Debug("Running command", logging.Fields{
		"command": bin + " " + strings.Join(args, " "),
	})

	output, err := exec.CommandContext(ctx, bin, args...).Output()
	if err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			return nil, fmt.Errorf("%w, stderr: %s", err, strings.TrimSpace(string(exitError.Stderr)))
		}
		return nil, err
	}
	return output, nil
}

// parseProbeOutput parses ffprobe JSON to extract audio metadata
func parseProbeOutput(jsonData []byte) (*Metadata, error) {
	var probe struct {
		Streams []struct {
			CodecType  string `json:"codec_type"`
			CodecName  string `json:"codec_name"`
			SampleRate string `json:"sample_rate"`
			Channels   int    `json:"channels"`
			Duration   string `json:"duration"`
		} `json:"streams"`
	}

	if err := json.Unmarshal(jsonData, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	if len(probe.Streams) == 0 {
		return nil, fmt.Errorf("%w: no audio streams found", ErrInvalidFormat)
	}

	stream := probe.Streams[0]
	if stream.CodecType != "audio" {
		return nil, fmt.Errorf("%w: stream is not audio type: %s", ErrInvalidFormat, stream.CodecType)
	}

	sampleRate, err := strconv.Atoi(stream.SampleRate)
	if err != nil || sampleRate <= 0 {
		return nil, fmt.Errorf("%w: invalid sample rate %q", ErrInvalidFormat, stream.SampleRate)
	}

	if stream.Channels <= 0 {
		return nil, fmt.Errorf("%w: invalid channel count: %d", ErrInvalidFormat, stream.Channels)
	}

	duration, err := strconv.ParseFloat(stream.Duration, 64)
	if err != nil {
		duration = 0
	}

	return &Metadata{
		SampleRate: sampleRate,
		Channels:   stream.Channels,
		Codec:      stream.CodecName,
		Duration:   duration,
	}, nil
}

// bytesToFloat32 converts little-endian f32 PCM, ignoring a trailing partial sample
func bytesToFloat32(data []byte) []float32 {
	samples := make([]float32, len(data)/4)
	for i := range samples {
		samples[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return samples
}
