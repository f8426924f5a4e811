package config

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/0xlemi/notescribe/internal/audio"
	"github.com/0xlemi/notescribe/internal/pitch"
	"gopkg.in/ini.v1"
)

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatCSV  = "csv"
)

var formats = []string{FormatText, FormatJSON, FormatCSV}

// Config is the complete application configuration.
type Config struct {
	Analysis pitch.Config
	Decoder  audio.DecoderConfig
	Record   RecordConfig
	Output   OutputConfig
}

// RecordConfig controls microphone capture.
type RecordConfig struct {
	Duration        time.Duration
	SampleRate      float64
	FramesPerBuffer int
	Amplification   float64
}

// OutputConfig controls how results are reported.
type OutputConfig struct {
	Format   string // text|json|csv
	LogLevel string // debug|info|warn|error
}

// Default returns the built-in configuration. Analysis.MinFrameSamples is 0,
// meaning a quarter of the frame size.
func Default() Config {
	return Config{
		Analysis: pitch.DefaultConfig(),
		Decoder:  audio.DefaultDecoderConfig(),
		Record: RecordConfig{
			Duration:        5 * time.Second,
			SampleRate:      44100,
			FramesPerBuffer: 1024,
			Amplification:   1.0,
		},
		Output: OutputConfig{
			Format:   FormatText,
			LogLevel: "info",
		},
	}
}

// AnalysisConfig returns the analysis parameters with defaults resolved.
func (c Config) AnalysisConfig() pitch.Config {
	a := c.Analysis
	a.MinFrameSamples = a.TrailingFrameSamples(a.FrameSize)
	return a
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	a := c.Analysis
	switch {
	case a.FrameSize < 4 || a.FrameSize&(a.FrameSize-1) != 0:
		return fmt.Errorf("frame size %d: %w", a.FrameSize, pitch.ErrInvalidFrameSize)
	case a.MinFrequency <= 0 || a.MaxFrequency <= a.MinFrequency:
		return fmt.Errorf("invalid frequency range %.1f-%.1f Hz", a.MinFrequency, a.MaxFrequency)
	case a.MergeGap < 0:
		return fmt.Errorf("merge gap must not be negative, got %.3f", a.MergeGap)
	case a.MinFrameSamples > a.FrameSize:
		return fmt.Errorf("minimum frame samples %d exceeds frame size %d", a.MinFrameSamples, a.FrameSize)
	case !slices.Contains(formats, c.Output.Format):
		return fmt.Errorf("unknown output format %q", c.Output.Format)
	case c.Record.SampleRate <= 0:
		return errors.New("record sample rate must be positive")
	}
	return nil
}

// LoadFile overlays the settings found in an INI file onto c. Missing keys
// keep their current values.
func (c *Config) LoadFile(path string) error {
	file, err := ini.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load config file: %w", err)
	}

	analysis := file.Section("analysis")
	if v, err := analysis.Key("frame_size").Int(); err == nil {
		c.Analysis.FrameSize = v
	}
	if v, err := analysis.Key("min_frequency").Float64(); err == nil {
		c.Analysis.MinFrequency = v
	}
	if v, err := analysis.Key("max_frequency").Float64(); err == nil {
		c.Analysis.MaxFrequency = v
	}
	if v, err := analysis.Key("merge_gap").Float64(); err == nil {
		c.Analysis.MergeGap = v
	}
	if v, err := analysis.Key("min_frame_samples").Int(); err == nil {
		c.Analysis.MinFrameSamples = v
	}

	decoder := file.Section("decoder")
	if v := decoder.Key("ffmpeg").String(); len(v) > 0 {
		c.Decoder.FFmpegPath = v
	}
	if v := decoder.Key("ffprobe").String(); len(v) > 0 {
		c.Decoder.FFprobePath = v
	}
	if v, err := decoder.Key("timeout").Duration(); err == nil {
		c.Decoder.Timeout = v
	}

	record := file.Section("record")
	if v, err := record.Key("duration").Duration(); err == nil {
		c.Record.Duration = v
	}
	if v, err := record.Key("sample_rate").Float64(); err == nil {
		c.Record.SampleRate = v
	}
	if v, err := record.Key("frames_per_buffer").Int(); err == nil {
		c.Record.FramesPerBuffer = v
	}
	if v, err := record.Key("amplification").Float64(); err == nil {
		c.Record.Amplification = v
	}

	output := file.Section("output")
	if v := output.Key("format").String(); len(v) > 0 {
		c.Output.Format = v
	}
	if v := output.Key("log_level").String(); len(v) > 0 {
		c.Output.LogLevel = v
	}

	return nil
}
