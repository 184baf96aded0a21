package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	envConfigPath = "VOICE_CONFIG_PATH"
	defaultPath   = "config.yaml"
)

// Loader reads configuration from a yaml file with .env/environment overrides.
type Loader struct {
	useDotEnv bool
	path      string
}

func NewLoader() *Loader {
	return &Loader{useDotEnv: true}
}

// WithDotEnv toggles loading variables from a .env file before reading config.
func (l *Loader) WithDotEnv(enabled bool) *Loader {
	l.useDotEnv = enabled
	return l
}

// WithPath overrides the configuration file path (useful for tests).
func (l *Loader) WithPath(path string) *Loader {
	l.path = path
	return l
}

// Result captures the loaded configuration and its origin path.
type Result struct {
	Config *Config
	Path   string
}

// Load reads the yaml config, falling back to defaults when the file does
// not exist. Secrets may arrive via environment instead of the file.
func (l *Loader) Load() (*Result, error) {
	if l.useDotEnv {
		if err := godotenv.Load(); err != nil {
			fmt.Println("no .env file found, using process environment")
		}
	}

	path := l.path
	if path == "" {
		path = os.Getenv(envConfigPath)
	}
	if path == "" {
		path = defaultPath
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
		path = "defaults"
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	applyEnvOverrides(cfg)
	normalize(cfg)

	return &Result{Config: cfg, Path: path}, nil
}

func applyEnvOverrides(cfg *Config) {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		for name, asr := range cfg.ASR {
			if asr.Type == "openai" && asr.APIKey == "" {
				asr.APIKey = key
				cfg.ASR[name] = asr
			}
		}
	}
	if secret := os.Getenv("VOICE_AUTH_SECRET"); secret != "" {
		cfg.Server.Auth.Secret = secret
	}
	if token := os.Getenv("VOICE_API_TOKEN"); token != "" {
		cfg.Server.Token = token
	}
}

// normalize fills holes a hand-edited config file commonly leaves behind.
func normalize(cfg *Config) {
	if cfg.ASR == nil {
		cfg.ASR = map[string]ASRConfig{}
	}
	if len(cfg.Analysis.FillerWords) == 0 {
		cfg.Analysis.FillerWords = append([]string(nil), DefaultFillerWords...)
	}
	if len(cfg.Analysis.FillerPhrases) == 0 {
		cfg.Analysis.FillerPhrases = append([]string(nil), DefaultFillerPhrases...)
	}
	if cfg.Audio.FFmpegPath == "" {
		cfg.Audio.FFmpegPath = "ffmpeg"
	}
	if cfg.Audio.MaxUploadMB <= 0 {
		cfg.Audio.MaxUploadMB = 64
	}
	if cfg.EventBus.Workers <= 0 {
		cfg.EventBus.Workers = 4
	}
	if cfg.History.Store.Type == "" {
		cfg.History.Store.Type = "memory"
	}
}
