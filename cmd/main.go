package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/0xlemi/notescribe/internal/config"
	"github.com/0xlemi/notescribe/internal/logging"
	"github.com/spf13/cobra"
)

// options holds flag values; they override the config file only when set
type options struct {
	configPath string
	verbose    bool
	quiet      bool
	format     string
	tui        bool

	frameSize       int
	minFrequency    float64
	maxFrequency    float64
	mergeGap        float64
	minFrameSamples int
	ffmpegPath      string
	ffprobePath     string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &options{}
	defaults := config.Default()

	root := &cobra.Command{
		Use:           "notescribe",
		Short:         "Detect musical notes in audio recordings",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "INI configuration file")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "only log warnings and errors")
	flags.StringVarP(&opts.format, "format", "f", defaults.Output.Format, "output format: text, json or csv")
	flags.BoolVar(&opts.tui, "tui", false, "show results in an interactive viewer")
	flags.IntVar(&opts.frameSize, "frame-size", defaults.Analysis.FrameSize, "FFT frame size (power of two)")
	flags.Float64Var(&opts.minFrequency, "min-freq", defaults.Analysis.MinFrequency, "lowest accepted frequency (Hz)")
	flags.Float64Var(&opts.maxFrequency, "max-freq", defaults.Analysis.MaxFrequency, "highest accepted frequency (Hz)")
	flags.Float64Var(&opts.mergeGap, "merge-gap", defaults.Analysis.MergeGap, "max gap between same-pitch frames to merge (seconds)")
	flags.IntVar(&opts.minFrameSamples, "min-frame-samples", 0, "shortest trailing frame to zero-pad (0 = frame size / 4)")
	flags.StringVar(&opts.ffmpegPath, "ffmpeg", defaults.Decoder.FFmpegPath, "ffmpeg binary")
	flags.StringVar(&opts.ffprobePath, "ffprobe", defaults.Decoder.FFprobePath, "ffprobe binary")

	root.AddCommand(newAnalyzeCommand(opts), newRecordCommand(opts))
	return root
}

// loadConfig layers defaults, the config file and explicitly set flags, and
// configures the global logger.
func loadConfig(cmd *cobra.Command, opts *options) (config.Config, error) {
	cfg := config.Default()

	if opts.configPath != "" {
		if err := cfg.LoadFile(opts.configPath); err != nil {
			return cfg, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Output.Format = opts.format
	}
	if flags.Changed("frame-size") {
		cfg.Analysis.FrameSize = opts.frameSize
	}
	if flags.Changed("min-freq") {
		cfg.Analysis.MinFrequency = opts.minFrequency
	}
	if flags.Changed("max-freq") {
		cfg.Analysis.MaxFrequency = opts.maxFrequency
	}
	if flags.Changed("merge-gap") {
		cfg.Analysis.MergeGap = opts.mergeGap
	}
	if flags.Changed("min-frame-samples") {
		cfg.Analysis.MinFrameSamples = opts.minFrameSamples
	}
	if flags.Changed("ffmpeg") {
		cfg.Decoder.FFmpegPath = opts.ffmpegPath
	}
	if flags.Changed("ffprobe") {
		cfg.Decoder.FFprobePath = opts.ffprobePath
	}

	switch {
	case opts.verbose:
		cfg.Output.LogLevel = "debug"
	case opts.quiet:
		cfg.Output.LogLevel = "warn"
	}

	level, err := logging.ParseLevel(cfg.Output.LogLevel)
	if err != nil {
		return cfg, err
	}
	logging.SetLevel(level)

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
