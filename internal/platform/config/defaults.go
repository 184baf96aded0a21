package config

import "time"

// DefaultFillerWords is the shipped single-word filler vocabulary. Matching
// happens on lower-cased, punctuation-stripped tokens.
var DefaultFillerWords = []string{
	"um", "uh", "umm", "uhh", "like", "basically", "actually", "literally",
	"right", "okay", "so", "well", "anyway", "yeah",
}

// DefaultFillerPhrases are multi-word fillers counted by substring occurrence
// over the lower-cased transcript.
var DefaultFillerPhrases = []string{
	"you know", "i mean", "sort of", "kind of", "you see",
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			IP:   "0.0.0.0",
			Port: 8000,
			Auth: AuthConfig{
				Enabled: false,
				TTL:     time.Hour,
			},
		},
		Log: LogConfig{
			Level: "INFO",
			Dir:   "data/logs",
			File:  "server.log",
		},
		Web: WebConfig{
			CORS:      true,
			StaticDir: "",
		},
		Audio: AudioConfig{
			TempDir:     "",
			FFmpegPath:  "ffmpeg",
			KeepTemp:    false,
			MaxUploadMB: 64,
		},
		ASR: map[string]ASRConfig{
			"WhisperServer": {
				Type:     "whisper-server",
				URL:      "http://127.0.0.1:9000",
				Model:    "tiny",
				Language: "en",
				BeamSize: 1,
				VAD: VADConfig{
					Enabled:      true,
					MinSilenceMs: 500,
					SpeechPadMs:  400,
				},
			},
			"OpenAI": {
				Type:     "openai",
				Model:    "whisper-1",
				Language: "en",
			},
		},
		Selected: SelectedConfig{
			ASR: "WhisperServer",
		},
		Analysis: AnalysisConfig{
			FillerWords:   append([]string(nil), DefaultFillerWords...),
			FillerPhrases: append([]string(nil), DefaultFillerPhrases...),
		},
		History: HistoryConfig{
			Enabled: true,
			Store: StoreConfig{
				Type: "memory",
				TTL:  24 * time.Hour,
				Memory: MemoryStoreConfig{
					Cleanup: 5 * time.Minute,
				},
			},
		},
		EventBus: EventBusConfig{
			Workers: 4,
		},
	}
}
