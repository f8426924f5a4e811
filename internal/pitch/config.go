package pitch

// Config holds the analysis parameters.
type Config struct {
	FrameSize       int     // FFT size, power of two
	MinFrequency    float64 // Lowest accepted estimate (Hz)
	MaxFrequency    float64 // Highest accepted estimate (Hz)
	MergeGap        float64 // Max silence between same-pitch frames to merge (seconds)
	MinFrameSamples int     // Shortest trailing frame that is zero-padded instead of skipped, 0 for FrameSize/4
}

// Defaults
const (
	DefaultFrameSize    = 2048
	DefaultMinFrequency = 20.0
	DefaultMaxFrequency = 2000.0
	DefaultMergeGap     = 0.1
)

// DefaultConfig returns the default analysis parameters.
func DefaultConfig() Config {
	return Config{
		FrameSize:    DefaultFrameSize,
		MinFrequency: DefaultMinFrequency,
		MaxFrequency: DefaultMaxFrequency,
		MergeGap:     DefaultMergeGap,
	}
}

// TrailingFrameSamples returns the shortest trailing frame of frameSize
// samples that is zero-padded. Unset or out of range values fall back to a
// quarter frame.
func (c Config) TrailingFrameSamples(frameSize int) int {
	if c.MinFrameSamples > 0 && c.MinFrameSamples <= frameSize {
		return c.MinFrameSamples
	}
	return max(frameSize/4, 1)
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}
