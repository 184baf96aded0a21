package audio

// Clip is a decoded, analysis-ready waveform. Samples are mono float64 in
// [-1,1]; Path points at the decodable file handed to file-based
// transcription engines (the original upload, or a transcoded temp copy).
type Clip struct {
	Path       string
	Samples    []float64
	SampleRate int
	Channels   int
}

// Duration returns the clip length in seconds.
func (c *Clip) Duration() float64 {
	if c == nil || c.SampleRate <= 0 {
		return 0
	}
	return float64(len(c.Samples)) / float64(c.SampleRate)
}
