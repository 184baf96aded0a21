package config

import "time"

type Config struct {
	Server    ServerConfig         `yaml:"server"`
	Log       LogConfig            `yaml:"log"`
	Web       WebConfig            `yaml:"web"`
	Audio     AudioConfig          `yaml:"audio"`
	ASR       map[string]ASRConfig `yaml:"ASR"`
	Selected  SelectedConfig       `yaml:"selected_module"`
	Analysis  AnalysisConfig       `yaml:"analysis"`
	History   HistoryConfig        `yaml:"history"`
	EventBus  EventBusConfig       `yaml:"eventbus"`
	Observability ObservabilityConfig `yaml:"observability"`
}

type ServerConfig struct {
	IP    string     `yaml:"ip"`
	Port  int        `yaml:"port"`
	Token string     `yaml:"token"`
	Auth  AuthConfig `yaml:"auth"`
}

type AuthConfig struct {
	Enabled bool          `yaml:"enabled"`
	Secret  string        `yaml:"secret"`
	TTL     time.Duration `yaml:"ttl"`
}

type LogConfig struct {
	Level string `yaml:"log_level"`
	Dir   string `yaml:"log_dir"`
	File  string `yaml:"log_file"`
}

type WebConfig struct {
	CORS      bool   `yaml:"cors"`
	StaticDir string `yaml:"static_dir"`
}

// AudioConfig controls ingestion of uploaded clips.
type AudioConfig struct {
	TempDir     string `yaml:"temp_dir"`
	FFmpegPath  string `yaml:"ffmpeg_path"`
	KeepTemp    bool   `yaml:"keep_temp"`
	MaxUploadMB int64  `yaml:"max_upload_mb"`
}

// ASRConfig configures one transcription provider entry. Type selects the
// adapter ("whisper-server", "openai"); the rest is adapter specific.
type ASRConfig struct {
	Type     string    `yaml:"type"`
	URL      string    `yaml:"url"`
	APIKey   string    `yaml:"api_key"`
	Model    string    `yaml:"model"`
	Language string    `yaml:"language"`
	BeamSize int       `yaml:"beam_size"`
	VAD      VADConfig `yaml:"vad"`
}

// VADConfig carries the voice-activity filter parameters handed to the
// transcription engine to suppress non-speech intervals.
type VADConfig struct {
	Enabled      bool `yaml:"enabled"`
	MinSilenceMs int  `yaml:"min_silence_ms"`
	SpeechPadMs  int  `yaml:"speech_pad_ms"`
}

type SelectedConfig struct {
	ASR string `yaml:"ASR"`
}

// AnalysisConfig holds tunable analysis data, most importantly the filler
// vocabulary. The vocabulary is configuration, not code, so deployments can
// adjust it without touching the detector.
type AnalysisConfig struct {
	FillerWords    []string `yaml:"filler_words"`
	FillerPhrases  []string `yaml:"filler_phrases"`
	VocabularyFile string   `yaml:"vocabulary_file"`
}

type HistoryConfig struct {
	Enabled bool        `yaml:"enabled"`
	Store   StoreConfig `yaml:"store"`
}

type StoreConfig struct {
	Type   string           `yaml:"type"`
	TTL    time.Duration    `yaml:"ttl"`
	Redis  RedisStoreConfig `yaml:"redis,omitempty"`
	SQLite SQLiteStoreConfig `yaml:"sqlite,omitempty"`
	Memory MemoryStoreConfig `yaml:"memory,omitempty"`
}

type RedisStoreConfig struct {
	Addr     string `yaml:"addr"`
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
	DB       int    `yaml:"db,omitempty"`
	Prefix   string `yaml:"prefix,omitempty"`
}

type SQLiteStoreConfig struct {
	DSN string `yaml:"dsn,omitempty"`
}

type MemoryStoreConfig struct {
	Cleanup time.Duration `yaml:"cleanup"`
}

type EventBusConfig struct {
	Workers int `yaml:"workers"`
}

type ObservabilityConfig struct {
	Enabled bool `yaml:"enabled"`
}
