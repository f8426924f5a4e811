package audio

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/0xlemi/notescribe/internal/logging"
)

// Load reads path into a buffer. WAV files are parsed directly; other
// formats, and WAV encodings the native reader rejects, go through ffmpeg.
func Load(ctx context.Context, path string, config DecoderConfig) (*AudioBuffer, error) {
	if strings.EqualFold(filepath.Ext(path), ".wav") {
		buf, err := LoadWAV(path)
		if err == nil || errors.Is(err, fs.ErrNotExist) {
			return buf, err
		}
		logging.Debug("Native WAV read failed, falling back to ffmpeg", logging.Fields{
			"filename": path,
			"error":    err.Error(),
		})
	}
	return NewDecoder(config).DecodeFile(ctx, path)
}
