package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/0xlemi/notescribe/internal/audio"
	"github.com/0xlemi/notescribe/internal/config"
	"github.com/0xlemi/notescribe/internal/export"
	"github.com/0xlemi/notescribe/internal/logging"
	"github.com/spf13/cobra"
)

func newRecordCommand(opts *options) *cobra.Command {
	var (
		duration      time.Duration
		sampleRate    float64
		amplification float64
	)

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record from the default microphone, then detect notes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("duration") {
				cfg.Record.Duration = duration
			}
			if flags.Changed("sample-rate") {
				cfg.Record.SampleRate = sampleRate
			}
			if flags.Changed("amplification") {
				cfg.Record.Amplification = amplification
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			recorder := audio.NewPortAudioRecorder(cfg.Record.SampleRate, cfg.Record.FramesPerBuffer)
			recorder.SetAmplification(float32(cfg.Record.Amplification))

			logging.Info("Recording", logging.Fields{"duration": cfg.Record.Duration.String()})

			buf, err := recorder.Record(cmd.Context(), cfg.Record.Duration)
			if errors.Is(err, context.Canceled) && buf != nil {
				logging.Warn("Recording interrupted, analyzing captured audio")
			} else if err != nil {
				return fmt.Errorf("record: %w", err)
			}

			// The interrupt that stopped the recording must not abort analysis
			notes, err := analyzeBuffer(context.WithoutCancel(cmd.Context()), cfg, buf, false)
			if err != nil {
				return err
			}

			return report(cmd.OutOrStdout(), cfg, []export.Result{export.NewResult(buf, notes)}, opts.tui)
		},
	}

	defaults := config.Default().Record
	cmd.Flags().DurationVarP(&duration, "duration", "d", defaults.Duration, "recording length")
	cmd.Flags().Float64Var(&sampleRate, "sample-rate", defaults.SampleRate, "capture sample rate (Hz)")
	cmd.Flags().Float64Var(&amplification, "amplification", defaults.Amplification, "input gain")
	return cmd
}
