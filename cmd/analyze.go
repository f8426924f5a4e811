package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"

	"github.com/0xlemi/notescribe/internal/audio"
	"github.com/0xlemi/notescribe/internal/config"
	"github.com/0xlemi/notescribe/internal/export"
	"github.com/0xlemi/notescribe/internal/logging"
	"github.com/0xlemi/notescribe/internal/pitch"
	"github.com/0xlemi/notescribe/internal/ui"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newAnalyzeCommand(opts *options) *cobra.Command {
	var progress bool

	cmd := &cobra.Command{
		Use:   "analyze FILE...",
		Short: "Detect notes in one or more audio files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			if opts.tui && len(args) > 1 {
				return errors.New("--tui takes a single file")
			}

			results, err := analyzeFiles(cmd.Context(), cfg, args, progress)
			if err != nil {
				return err
			}
			return report(cmd.OutOrStdout(), cfg, results, opts.tui)
		},
	}

	cmd.Flags().BoolVar(&progress, "progress", false, "log analysis progress")
	return cmd
}

// analyzeFiles loads and analyzes files concurrently, keeping argument order.
func analyzeFiles(ctx context.Context, cfg config.Config, paths []string, progress bool) ([]export.Result, error) {
	results := make([]export.Result, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, path := range paths {
		g.Go(func() error {
			buf, err := audio.Load(ctx, path, cfg.Decoder)
			if err != nil {
				return fmt.Errorf("load %s: %w", path, err)
			}

			notes, err := analyzeBuffer(ctx, cfg, buf, progress)
			if err != nil {
				return err
			}

			results[i] = export.NewResult(buf, notes)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// analyzeBuffer runs the note detector over one buffer.
func analyzeBuffer(ctx context.Context, cfg config.Config, buf *audio.AudioBuffer, progress bool) ([]pitch.Note, error) {
	logger := logging.WithFields(logging.Fields{
		"source":      buf.Name,
		"sample_rate": buf.SampleRate,
	})

	analyzer, err := pitch.NewAnalyzer(buf.SampleRate, cfg.AnalysisConfig())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", buf.Name, err)
	}
	analyzer.SetLogger(logger)

	var visit pitch.FrameVisitor
	if progress {
		visit = progressVisitor(logger)
	}

	notes, err := analyzer.AnalyzeContext(ctx, buf.Samples, visit)
	if errors.Is(err, pitch.ErrNoSamples) {
		return nil, fmt.Errorf("%s: audio contains no samples", buf.Name)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", buf.Name, err)
	}

	logger.Info("Analysis finished", logging.Fields{
		"notes":    len(notes),
		"duration": buf.Duration().Seconds(),
	})
	return notes, nil
}

// progressVisitor logs every ten percent of frames.
func progressVisitor(logger logging.Logger) pitch.FrameVisitor {
	lastDecile := -1
	return func(r pitch.FrameResult) {
		decile := (r.Index + 1) * 10 / r.Total
		if decile == lastDecile {
			return
		}
		lastDecile = decile
		logger.Info("Analyzing", logging.Fields{"progress": fmt.Sprintf("%d%%", decile*10)})
	}
}

// report writes results in the configured format, or opens the viewer.
func report(w io.Writer, cfg config.Config, results []export.Result, tui bool) error {
	if tui {
		return ui.Run(results[0].Source, results[0].Notes)
	}

	switch cfg.Output.Format {
	case config.FormatJSON:
		return export.WriteJSON(w, results)
	case config.FormatCSV:
		return export.WriteCSV(w, results)
	default:
		return export.WriteText(w, results)
	}
}
