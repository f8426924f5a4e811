package pitch

import "math"

// FromFrequency converts a frequency to the nearest equal-tempered Note with
// zero start time and duration. Confidence is clamped to [0, 1].
func FromFrequency(frequency, confidence float64) (Note, error) {
	if !(frequency > 0) || math.IsInf(frequency, 0) {
		return Note{}, &NoteCreationError{
			Frequency: frequency,
			Err:       &FrequencyOutOfRangeError{Min: MinNoteFrequency, Max: MaxNoteFrequency, Actual: frequency},
		}
	}

	rounded := math.Round(semitone(frequency))

	// Octave and pitch class both come from the rounded semitone so that
	// B3/C4 boundaries agree (MIDI 60 = C4, 69 = A4).
	index := (int(rounded)%12 + 12) % 12
	octave := int(math.Floor(rounded/12)) - 1

	note, err := NewNote(noteNames[index], octave, frequency, 0, 0, confidence)
	if err != nil {
		return Note{}, &NoteCreationError{Frequency: frequency, Err: err}
	}
	return note, nil
}
