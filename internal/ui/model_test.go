package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/0xlemi/notescribe/internal/pitch"
	tea "github.com/charmbracelet/bubbletea"
)

func testNotes(t *testing.T) []pitch.Note {
	t.Helper()
	a4, err := pitch.NewNote("A", 4, 440, 0, 0.5, 1)
	if err != nil {
		t.Fatal(err)
	}
	c5, err := pitch.NewNote("C#", 5, 554.37, 0.5, 0.5, 1)
	if err != nil {
		t.Fatal(err)
	}
	return []pitch.Note{a4, c5}
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return model, cmd
}

func key(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewModel(t *testing.T) {
	m := NewModel("take.wav", testNotes(t))
	if m.maxTime != 1.0 {
		t.Fatalf("expected max time 1.0, got %v", m.maxTime)
	}
	if m.Init() != nil {
		t.Fatal("expected no initial command")
	}
}

func TestModel_Quit(t *testing.T) {
	m := NewModel("take.wav", testNotes(t))

	_, cmd := send(t, m, key("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.QuitMsg")
	}
}

func TestModel_Playback(t *testing.T) {
	m := NewModel("take.wav", testNotes(t))

	m, cmd := send(t, m, key(" "))
	if !m.playing || cmd == nil {
		t.Fatal("expected playback to start with a tick")
	}

	for i := 0; i < 3; i++ {
		m, _ = send(t, m, TickMsg(time.Now()))
	}
	if !m.active["A4"] || m.active["C#5"] {
		t.Fatalf("expected only A4 active at %.1fs, got %v", m.currentTime, m.active)
	}
	if m.lastActive == nil || m.lastActive.DisplayName() != "A4" {
		t.Fatalf("expected A4 as last active note, got %v", m.lastActive)
	}

	for i := 0; i < 4; i++ {
		m, _ = send(t, m, TickMsg(time.Now()))
	}
	if m.active["A4"] || !m.active["C#5"] {
		t.Fatalf("expected only C#5 active at %.1fs, got %v", m.currentTime, m.active)
	}
	if !strings.Contains(m.View(), "#5") {
		t.Errorf("expected sharp badge in view:\n%s", m.View())
	}

	ticks := 7
	for m.playing && ticks < 40 {
		m, cmd = send(t, m, TickMsg(time.Now()))
		ticks++
	}
	if m.playing {
		t.Fatal("expected playback to stop after the last note")
	}
	if cmd != nil {
		t.Error("expected no tick after playback stopped")
	}
	if ticks < 20 || ticks > 21 {
		t.Errorf("expected playback to stop one second after the last note, stopped after %d ticks", ticks)
	}
	if m.currentTime != 0 || len(m.active) != 0 {
		t.Errorf("expected reset state, got time %v active %v", m.currentTime, m.active)
	}
}

func TestModel_ToggleStops(t *testing.T) {
	m := NewModel("take.wav", testNotes(t))

	m, _ = send(t, m, key("p"))
	m, _ = send(t, m, TickMsg(time.Now()))
	m, cmd := send(t, m, key("p"))
	if m.playing || cmd != nil || m.currentTime != 0 {
		t.Fatalf("expected playback stopped and reset, got playing=%v time=%v", m.playing, m.currentTime)
	}

	// Ticks still in flight after stopping are ignored
	m, cmd = send(t, m, TickMsg(time.Now()))
	if cmd != nil || m.currentTime != 0 {
		t.Fatal("expected stale tick to be ignored")
	}
}

func TestModel_Cursor(t *testing.T) {
	var notes []pitch.Note
	for i := 0; i < 15; i++ {
		n, err := pitch.NewNote("G", 3, 196, float64(i)*0.5, 0.5, 1)
		if err != nil {
			t.Fatal(err)
		}
		notes = append(notes, n)
	}
	m := NewModel("run.wav", notes)

	m, _ = send(t, m, key("k"))
	if m.cursor != 0 {
		t.Fatalf("expected cursor clamped at 0, got %d", m.cursor)
	}

	for i := 0; i < 20; i++ {
		m, _ = send(t, m, key("j"))
	}
	if m.cursor != 14 || m.offset != 5 {
		t.Fatalf("expected cursor 14 offset 5, got %d/%d", m.cursor, m.offset)
	}
	if !strings.Contains(m.View(), "6-15 of 15") {
		t.Errorf("expected scroll indicator in view:\n%s", m.View())
	}
}

func TestModel_View(t *testing.T) {
	m := NewModel("take.wav", testNotes(t))
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	view := m.View()
	for _, want := range []string{"notescribe - take.wav", "A4", "C#5", "440.0 Hz", "C3", "B5", "Time: 0.0 s"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected %q in view:\n%s", want, view)
		}
	}

	empty := NewModel("silence.wav", nil).View()
	if !strings.Contains(empty, "No notes detected") {
		t.Errorf("expected empty notice:\n%s", empty)
	}
}

func TestModel_WindowSize(t *testing.T) {
	var notes []pitch.Note
	for i := 0; i < 15; i++ {
		n, err := pitch.NewNote("G", 3, 196, float64(i)*0.5, 0.5, 1)
		if err != nil {
			t.Fatal(err)
		}
		notes = append(notes, n)
	}
	m := NewModel("run.wav", notes)
	for i := 0; i < 20; i++ {
		m, _ = send(t, m, key("j"))
	}

	// 16 lines leave room for 4 notes
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 60, Height: 16})
	if m.listRows() != 4 {
		t.Fatalf("expected 4 list rows, got %d", m.listRows())
	}
	if m.cursor != 14 || m.offset != 11 {
		t.Fatalf("expected cursor 14 offset 11 after resize, got %d/%d", m.cursor, m.offset)
	}

	view := m.View()
	if !strings.Contains(view, "12-15 of 15") {
		t.Errorf("expected scroll indicator for 4 rows:\n%s", view)
	}
	if !strings.Contains(view, "B4") || strings.Contains(view, "C5") {
		t.Errorf("expected a two-octave keyboard for 60 columns:\n%s", view)
	}

	m, _ = send(t, m, tea.WindowSizeMsg{Width: 60, Height: 5})
	if m.listRows() != minListRows {
		t.Errorf("expected at least %d rows on a short terminal, got %d", minListRows, m.listRows())
	}
}
