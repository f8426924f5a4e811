package pitch

import (
	"errors"
	"fmt"
)

// Errors
var (
	ErrNoSamples           = errors.New("no samples to analyze")
	ErrInsufficientSamples = errors.New("insufficient samples")
	ErrFrequencyOutOfRange = errors.New("frequency out of range")
	ErrInvalidPitch        = errors.New("invalid pitch name")
	ErrNoteCreation        = errors.New("note creation failed")
	ErrInvalidFrameSize    = errors.New("frame size must be a power of two")
	ErrInvalidSampleRate   = errors.New("sample rate must be positive")
)

// InsufficientSamplesError is returned when a frame is shorter than the
// estimator's frame size.
type InsufficientSamplesError struct {
	Required int
	Actual   int
}

func (e *InsufficientSamplesError) Error() string {
	return fmt.Sprintf("insufficient number of samples: required %d, actual %d", e.Required, e.Actual)
}

func (e *InsufficientSamplesError) Is(target error) bool {
	return target == ErrInsufficientSamples
}

// FrequencyOutOfRangeError reports a frequency outside [Min, Max] Hz.
type FrequencyOutOfRangeError struct {
	Min    float64
	Max    float64
	Actual float64
}

func (e *FrequencyOutOfRangeError) Error() string {
	return fmt.Sprintf("frequency %.2f Hz is outside valid range (%.0f-%.0f Hz)", e.Actual, e.Min, e.Max)
}

func (e *FrequencyOutOfRangeError) Is(target error) bool {
	return target == ErrFrequencyOutOfRange
}

// InvalidPitchError reports a pitch name outside the 12-name table.
type InvalidPitchError struct {
	Name string
}

func (e *InvalidPitchError) Error() string {
	return fmt.Sprintf("invalid pitch name %q: use C, C#, D, D#, E, F, F#, G, G#, A, A# or B", e.Name)
}

func (e *InvalidPitchError) Is(target error) bool {
	return target == ErrInvalidPitch
}

// NoteCreationError wraps the reason a mapped frequency could not become a Note.
type NoteCreationError struct {
	Frequency float64
	Err       error
}

func (e *NoteCreationError) Error() string {
	return fmt.Sprintf("failed to create note for %.2f Hz: %v", e.Frequency, e.Err)
}

func (e *NoteCreationError) Is(target error) bool {
	return target == ErrNoteCreation
}

func (e *NoteCreationError) Unwrap() error {
	return e.Err
}
