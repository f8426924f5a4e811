package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	firstOctave = 3
	lastOctave  = 5
	keyWidth    = 4
)

var naturals = []string{"C", "D", "E", "F", "G", "A", "B"}

// whiteKeys returns the white keys from C of first to B of last.
func whiteKeys(first, last int) []string {
	keys := make([]string, 0, len(naturals)*(last-first+1))
	for octave := first; octave <= last; octave++ {
		for _, name := range naturals {
			keys = append(keys, fmt.Sprintf("%s%d", name, octave))
		}
	}
	return keys
}

// sharpOf returns the black key to the right of a white key, or "".
func sharpOf(white string) string {
	switch white[0] {
	case 'E', 'B':
		return ""
	}
	return white[:1] + "#" + white[1:]
}

// keyboardOctaves returns the octave span that fits in width columns,
// keeping the middle octaves when the full keyboard does not fit. A zero
// width means the terminal size is unknown.
func keyboardOctaves(width int) (first, last int) {
	total := lastOctave - firstOctave + 1
	octaves := total
	if width > 0 {
		octaves = min(max(width/(len(naturals)*keyWidth), 1), total)
	}
	first = firstOctave + (total-octaves)/2
	return first, first + octaves - 1
}

// renderKeyboard draws a two-row keyboard over octaves first..last; keys
// named in active are lit.
func renderKeyboard(active map[string]bool, first, last int) string {
	var top, bottom strings.Builder

	for _, white := range whiteKeys(first, last) {
		top.WriteString(strings.Repeat(" ", keyWidth-2))
		if black := sharpOf(white); black != "" {
			bg := blackKeyColor
			if active[black] {
				bg = pressedColor(blackKeyColor, paletteColor(black[:2]))
			}
			top.WriteString(lipgloss.NewStyle().Background(lipgloss.Color(bg)).Render("  "))
		} else {
			top.WriteString("  ")
		}

		bg := whiteKeyColor
		fg := "#000000"
		if active[white] {
			bg = pressedColor(whiteKeyColor, paletteColor(white[:1]))
			fg = "#FFFFFF"
		}
		bottom.WriteString(lipgloss.NewStyle().
			Background(lipgloss.Color(bg)).
			Foreground(lipgloss.Color(fg)).
			Width(keyWidth).
			Render(white))
	}

	return top.String() + "\n" + bottom.String()
}
