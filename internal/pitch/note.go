package pitch

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
)

// Valid frequency range for a Note (Hz)
const (
	MinNoteFrequency = 20.0
	MaxNoteFrequency = 20000.0
)

// All note names in chromatic order
var noteNames = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// PitchClasses returns the 12 canonical pitch names in chromatic order.
func PitchClasses() []string {
	return slices.Clone(noteNames)
}

// PitchIndex returns the chromatic index of name (0 = C) or -1.
func PitchIndex(name string) int {
	return slices.Index(noteNames, name)
}

// Note represents a detected musical note. The zero value is not a valid
// note; use NewNote or FromFrequency.
type Note struct {
	pitch      string  // e.g., "A", "A#", "B"
	octave     int     // e.g., 4 for middle C (C4)
	frequency  float64 // Frequency in Hz
	startTime  float64 // Seconds from buffer start
	duration   float64 // Seconds
	confidence float64 // 0..1
}

// A4 is the 440 Hz tuning reference.
var A4 = Note{pitch: "A", octave: 4, frequency: 440.0, duration: 1, confidence: 1}

// NewNote validates the pitch name and frequency and returns a Note.
// Confidence is clamped to [0, 1].
func NewNote(pitch string, octave int, frequency, startTime, duration, confidence float64) (Note, error) {
	if PitchIndex(pitch) < 0 {
		return Note{}, &InvalidPitchError{Name: pitch}
	}

	if math.IsNaN(frequency) || frequency < MinNoteFrequency || frequency > MaxNoteFrequency {
		return Note{}, &FrequencyOutOfRangeError{
			Min:    MinNoteFrequency,
			Max:    MaxNoteFrequency,
			Actual: frequency,
		}
	}

	return Note{
		pitch:      pitch,
		octave:     octave,
		frequency:  frequency,
		startTime:  startTime,
		duration:   duration,
		confidence: clamp(confidence, 0, 1),
	}, nil
}

// Pitch returns the pitch class name.
func (n Note) Pitch() string { return n.pitch }

// Octave returns the equal-tempered octave number.
func (n Note) Octave() int { return n.octave }

// Frequency returns the estimated fundamental in Hz.
func (n Note) Frequency() float64 { return n.frequency }

// StartTime returns the onset in seconds.
func (n Note) StartTime() float64 { return n.startTime }

// Duration returns the length in seconds.
func (n Note) Duration() float64 { return n.duration }

// Confidence returns a value in [0, 1].
func (n Note) Confidence() float64 { return n.confidence }

// End returns StartTime + Duration.
func (n Note) End() float64 { return n.startTime + n.duration }

// MIDI returns the nearest MIDI note number (A4 = 69).
func (n Note) MIDI() int {
	return int(math.Round(semitone(n.frequency)))
}

// Cents returns the deviation from the equal-tempered pitch (-50 to +50).
func (n Note) Cents() float64 {
	s := semitone(n.frequency)
	return 100 * (s - math.Round(s))
}

// DisplayName returns the pitch followed by the octave, e.g. "C#4".
func (n Note) DisplayName() string {
	return fmt.Sprintf("%s%d", n.pitch, n.octave)
}

func (n Note) String() string {
	return n.DisplayName()
}

// withTiming returns a copy placed at start for duration seconds.
func (n Note) withTiming(start, duration float64) Note {
	n.startTime = start
	n.duration = duration
	return n
}

// Record is the flat interchange form of a Note.
type Record struct {
	Pitch      string  `json:"pitch"`
	Octave     int     `json:"octave"`
	Frequency  float64 `json:"frequency_hz"`
	StartTime  float64 `json:"start_time"`
	Duration   float64 `json:"duration"`
	Confidence float64 `json:"confidence"`
}

// Record flattens the note.
func (n Note) Record() Record {
	return Record{
		Pitch:      n.pitch,
		Octave:     n.octave,
		Frequency:  n.frequency,
		StartTime:  n.startTime,
		Duration:   n.duration,
		Confidence: n.confidence,
	}
}

// Note validates the record and converts it back.
func (r Record) Note() (Note, error) {
	return NewNote(r.Pitch, r.Octave, r.Frequency, r.StartTime, r.Duration, r.Confidence)
}

func (n Note) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.Record())
}

func (n *Note) UnmarshalJSON(data []byte) error {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	note, err := r.Note()
	if err != nil {
		return err
	}
	*n = note
	return nil
}

// semitone returns the fractional MIDI number of freq.
func semitone(freq float64) float64 {
	return 12*math.Log2(freq/440.0) + 69
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Min(math.Max(v, lo), hi)
}
