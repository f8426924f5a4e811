package pitch

// Merge coalesces runs of notes with the same pitch class whose onsets fall
// within gap seconds of the running note's end. The merged note keeps the
// first note's pitch, octave, frequency, confidence and start time; only its
// duration grows. notes must be ordered by start time.
func Merge(notes []Note, gap float64) []Note {
	if len(notes) == 0 {
		return []Note{}
	}

	merged := make([]Note, 0, len(notes))
	current := notes[0]

	for _, note := range notes[1:] {
		if note.pitch == current.pitch && note.startTime <= current.startTime+current.duration+gap {
			current.duration = note.startTime + note.duration - current.startTime
			continue
		}
		merged = append(merged, current)
		current = note
	}

	return append(merged, current)
}
