// Package export writes detected note sequences in interchange formats.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/0xlemi/notescribe/internal/audio"
	"github.com/0xlemi/notescribe/internal/pitch"
)

// Result is one analyzed source and its notes.
type Result struct {
	Source     string       `json:"source"`
	SampleRate float64      `json:"sample_rate"`
	Channels   int          `json:"channels"`
	Duration   float64      `json:"duration"`
	Notes      []pitch.Note `json:"notes"`
	Summary    Summary      `json:"summary"`
}

// NewResult pairs a buffer's description with its notes.
func NewResult(buf *audio.AudioBuffer, notes []pitch.Note) Result {
	if notes == nil {
		notes = []pitch.Note{}
	}
	return Result{
		Source:     buf.Name,
		SampleRate: buf.SampleRate,
		Channels:   buf.Channels,
		Duration:   buf.Duration().Seconds(),
		Notes:      notes,
		Summary:    Summarize(notes),
	}
}

// WriteJSON writes results as an indented JSON array.
func WriteJSON(w io.Writer, results []Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

var csvHeader = []string{"source", "pitch", "octave", "midi", "frequency_hz", "start_time", "duration", "confidence"}

// WriteCSV writes one row per note with a header row.
func WriteCSV(w io.Writer, results []Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, r := range results {
		for _, n := range r.Notes {
			row := []string{
				r.Source,
				n.Pitch(),
				strconv.Itoa(n.Octave()),
				strconv.Itoa(n.MIDI()),
				formatFloat(n.Frequency(), 2),
				formatFloat(n.StartTime(), 4),
				formatFloat(n.Duration(), 4),
				formatFloat(n.Confidence(), 2),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteText writes a human-readable report: source info, the note list and
// a summary line.
func WriteText(w io.Writer, results []Result) error {
	for i, r := range results {
		if i > 0 {
			fmt.Fprintln(w)
		}

		fmt.Fprintf(w, "%s\n", r.Source)
		fmt.Fprintf(w, "  duration: %.1f s | sample rate: %.0f Hz | channels: %d\n", r.Duration, r.SampleRate, r.Channels)

		if len(r.Notes) == 0 {
			fmt.Fprintln(w, "  no notes detected")
			continue
		}

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "  NOTE\tFREQ\tSTART\tEND\tCENTS")
		for _, n := range r.Notes {
			fmt.Fprintf(tw, "  %s\t%.1f Hz\t%.2f\t%.2f\t%+.0f\n",
				n.DisplayName(), n.Frequency(), n.StartTime(), n.End(), n.Cents())
		}
		if err := tw.Flush(); err != nil {
			return err
		}

		s := r.Summary
		fmt.Fprintf(w, "  %d notes, %d distinct, range %s-%s, mean confidence %.2f\n",
			s.Count, s.Distinct, s.Lowest, s.Highest, s.MeanConfidence)
	}
	return nil
}

func formatFloat(v float64, prec int) string {
	return strconv.FormatFloat(v, 'f', prec, 64)
}
