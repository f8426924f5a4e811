package main

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/0xlemi/notescribe/internal/export"
	"github.com/0xlemi/notescribe/internal/logging"
	"github.com/0xlemi/notescribe/internal/pitch"
)

// writeToneWAV writes a 16-bit mono WAV holding one tone per entry of
// freqs, each lasting seconds.
func writeToneWAV(t *testing.T, dir, name string, seconds float64, freqs ...float64) string {
	t.Helper()
	const sampleRate = 44100

	var pcm []int16
	for _, f := range freqs {
		n := int(seconds * sampleRate)
		for i := 0; i < n; i++ {
			pcm = append(pcm, int16(0.5*32767*math.Sin(2*math.Pi*f*float64(i)/sampleRate)))
		}
	}

	var b bytes.Buffer
	b.WriteString("RIFF")
	binary.Write(&b, binary.LittleEndian, uint32(36+2*len(pcm)))
	b.WriteString("WAVEfmt ")
	binary.Write(&b, binary.LittleEndian, struct {
		Size                 uint32
		Format, Channels     uint16
		SampleRate, ByteRate uint32
		BlockAlign, Bits     uint16
	}{16, 1, 1, sampleRate, 2 * sampleRate, 2, 16})
	b.WriteString("data")
	binary.Write(&b, binary.LittleEndian, uint32(2*len(pcm)))
	binary.Write(&b, binary.LittleEndian, pcm)

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, b.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestAnalyze_CSV(t *testing.T) {
	dir := t.TempDir()
	path := writeToneWAV(t, dir, "melody.wav", 0.5, 440, 523.25)

	out, err := execute(t, "--quiet", "--format", "csv", "analyze", path)
	if err != nil {
		t.Fatalf("analyze failed: %v\n%s", err, out)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 notes, got:\n%s", out)
	}
	if !strings.HasPrefix(lines[1], "melody.wav,A,4,69,") || !strings.HasPrefix(lines[2], "melody.wav,C,5,72,") {
		t.Errorf("unexpected rows:\n%s", out)
	}
}

func TestAnalyze_MultipleFilesKeepOrder(t *testing.T) {
	dir := t.TempDir()
	first := writeToneWAV(t, dir, "a.wav", 0.5, 220)
	second := writeToneWAV(t, dir, "b.wav", 0.5, 880)

	out, err := execute(t, "-q", "-f", "text", "analyze", first, second)
	if err != nil {
		t.Fatalf("analyze failed: %v\n%s", err, out)
	}
	a, b := strings.Index(out, "a.wav"), strings.Index(out, "b.wav")
	if a < 0 || b < 0 || a > b {
		t.Fatalf("expected a.wav before b.wav:\n%s", out)
	}
	if !strings.Contains(out, "A3") || !strings.Contains(out, "A5") {
		t.Errorf("expected A3 and A5:\n%s", out)
	}
}

func TestAnalyze_Silence(t *testing.T) {
	path := writeToneWAV(t, t.TempDir(), "quiet.wav", 0.5, 0)

	out, err := execute(t, "-q", "analyze", path)
	if err != nil {
		t.Fatalf("analyze failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "no notes detected") {
		t.Fatalf("expected empty notice:\n%s", out)
	}
}

func TestAnalyze_EmptyAudio(t *testing.T) {
	path := writeToneWAV(t, t.TempDir(), "empty.wav", 0)

	_, err := execute(t, "-q", "analyze", path)
	if err == nil || !strings.Contains(err.Error(), "no samples") {
		t.Fatalf("expected no-samples error, got %v", err)
	}
}

func TestAnalyze_InvalidFlags(t *testing.T) {
	path := writeToneWAV(t, t.TempDir(), "tone.wav", 0.1, 440)

	if _, err := execute(t, "-q", "--frame-size", "1000", "analyze", path); err == nil {
		t.Error("expected error for invalid frame size")
	}
	if _, err := execute(t, "-q", "--format", "xml", "analyze", path); err == nil {
		t.Error("expected error for unknown format")
	}
	if _, err := execute(t, "-q", "--tui", "analyze", path, path); err == nil {
		t.Error("expected error for --tui with several files")
	}
}

func TestAnalyze_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := writeToneWAV(t, dir, "tone.wav", 0.5, 440)

	cfgPath := filepath.Join(dir, "notescribe.ini")
	content := "[analysis]\nframe_size = 4096\n\n[output]\nformat = json\nlog_level = error\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "-c", cfgPath, "analyze", path)
	if err != nil {
		t.Fatalf("analyze failed: %v\n%s", err, out)
	}

	var results []export.Result
	if err := json.Unmarshal([]byte(out), &results); err != nil {
		t.Fatalf("expected JSON output from config file format: %v\n%s", err, out)
	}
	if len(results) != 1 || len(results[0].Notes) != 1 || results[0].Notes[0].DisplayName() != "A4" {
		t.Fatalf("unexpected results %+v", results)
	}

	// Flags override the file
	out, err = execute(t, "-c", cfgPath, "-f", "csv", "analyze", path)
	if err != nil {
		t.Fatalf("analyze failed: %v\n%s", err, out)
	}
	if !strings.HasPrefix(out, "source,pitch,") {
		t.Fatalf("expected CSV output:\n%s", out)
	}
}

func TestAnalyze_MissingConfigFile(t *testing.T) {
	path := writeToneWAV(t, t.TempDir(), "tone.wav", 0.1, 440)
	if _, err := execute(t, "-q", "-c", filepath.Join(t.TempDir(), "none.ini"), "analyze", path); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

type countingLogger struct {
	*logging.NoOpLogger
	calls *int
}

func (c countingLogger) Info(msg string, fields ...logging.Fields) {
	*c.calls++
}

func TestProgressVisitor(t *testing.T) {
	var calls int
	visit := progressVisitor(countingLogger{NoOpLogger: &logging.NoOpLogger{}, calls: &calls})
	for i := 0; i < 100; i++ {
		visit(pitch.FrameResult{Index: i, Total: 100})
	}
	// 0%, 10% .. 100%
	if calls != 11 {
		t.Fatalf("expected 11 progress lines, got %d", calls)
	}
}
