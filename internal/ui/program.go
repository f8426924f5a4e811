package ui

import (
	"github.com/0xlemi/notescribe/internal/pitch"
	tea "github.com/charmbracelet/bubbletea"
)

// Run shows notes in a full-screen viewer until the user quits.
func Run(source string, notes []pitch.Note) error {
	p := tea.NewProgram(NewModel(source, notes), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
