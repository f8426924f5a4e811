package ui

import (
	"github.com/0xlemi/notescribe/internal/pitch"
	"github.com/lucasb-eyer/go-colorful"
)

var (
	// Warm palette used for note bars and pressed keys
	palette = []string{"#D2B48C", "#CD853F", "#A0522D", "#8B4513", "#F5DEB3"}

	// Note colors for the large now-playing badge
	noteColors = map[string]string{
		"C": "#E8D6B0", // Beige
		"D": "#A020F0", // Purple
		"E": "#FFFF00", // Yellow
		"F": "#FFA500", // Orange
		"G": "#00FF00", // Green
		"A": "#FF0000", // Red
		"B": "#0000FF", // Blue
	}

	primaryColor   = "#D2B48C"
	secondaryColor = "#2C2C2C"
	accentColor    = "#A0522D"
	whiteKeyColor  = "#FFFFFF"
	blackKeyColor  = "#000000"
)

// paletteColor returns the palette entry for a pitch class.
func paletteColor(pitchClass string) string {
	index := max(pitch.PitchIndex(pitchClass), 0)
	return palette[index%len(palette)]
}

// Get the next note in the scale (for sharp note colors)
func getNextNote(note string) string {
	switch note {
	case "C":
		return "D"
	case "D":
		return "E"
	case "E":
		return "F"
	case "F":
		return "G"
	case "G":
		return "A"
	case "A":
		return "B"
	default:
		return "C"
	}
}

// pressedColor overlays color at 70% opacity on a key's base color.
func pressedColor(keyHex, colorHex string) string {
	key, err := colorful.Hex(keyHex)
	if err != nil {
		return colorHex
	}
	c, err := colorful.Hex(colorHex)
	if err != nil {
		return keyHex
	}
	return key.BlendRgb(c, 0.7).Clamped().Hex()
}
