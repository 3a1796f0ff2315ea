package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents runtime configuration for the service.
type Config struct {
	ServerAddress        string         `json:"server_address"`
	CORSOrigin           string         `json:"cors_origin"`
	ScratchDir           string         `json:"scratch_dir"`
	ArchiveDir           string         `json:"archive_dir"`
	MaxUploadBytes       int64          `json:"max_upload_bytes"`
	AllowedExtensions    []string       `json:"allowed_extensions"`
	AllowedContentTypes  []string       `json:"allowed_content_types"`
	ScratchTTLMinutes    int            `json:"scratch_ttl_minutes"`
	SweepIntervalMinutes int            `json:"sweep_interval_minutes"`
	Whisper              WhisperConfig  `json:"whisper"`
	Analysis             AnalysisConfig `json:"analysis"`
}

type WhisperConfig struct {
	URL            string `json:"url"`
	Model          string `json:"model"`
	Language       string `json:"language"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

type AnalysisConfig struct {
	Provider       string `json:"provider"`
	Model          string `json:"model"`
	BaseURL        string `json:"base_url"`
	APIKey         string `json:"api_key"`
	MaxTokens      int    `json:"max_tokens"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// Default returns the configuration used when no config file is present.
// The service must be runnable with zero configuration.
func Default() *Config {
	return &Config{
		ServerAddress:     ":8080",
		CORSOrigin:        "http://localhost:3000",
		ScratchDir:        filepath.Join(os.TempDir(), "sma_uploads"),
		MaxUploadBytes:    100 << 20, // 100 MiB
		AllowedExtensions: []string{".wav", ".mp3", ".m4a", ".mp4", ".ogg", ".webm", ".flac", ".mov"},
		AllowedContentTypes: []string{
			"audio/wav", "audio/x-wav", "audio/mpeg", "audio/mp3", "audio/x-mp3",
			"audio/mp4", "audio/ogg", "audio/webm", "audio/flac",
			"video/mp4", "video/webm", "video/quicktime",
			"application/octet-stream",
		},
		ScratchTTLMinutes:    60,
		SweepIntervalMinutes: 15,
		Whisper: WhisperConfig{
			Model:          "small",
			TimeoutSeconds: 120,
		},
		Analysis: AnalysisConfig{
			Provider:       "openai",
			Model:          "gpt-4o-mini",
			MaxTokens:      700,
			TimeoutSeconds: 60,
		},
	}
}

// Load reads configuration from the provided path (defaults to config.json).
// A missing file yields the defaults; a malformed file is an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if path == "" {
		path = "config.json"
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}

	file, err := os.Open(absPath)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return Default(), nil
		}
		return nil, fmt.Errorf("open config %s: %w", absPath, err)
	}
	defer file.Close()

	cfg := Default()
	if err := json.NewDecoder(file).Decode(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.MaxUploadBytes <= 0 {
		return nil, fmt.Errorf("max_upload_bytes must be positive")
	}
	if cfg.ScratchDir == "" {
		return nil, fmt.Errorf("scratch_dir must be configured")
	}
	return cfg, nil
}
