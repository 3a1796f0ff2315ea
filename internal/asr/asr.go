// Package asr provides the speech-to-text interface the pipeline consumes
// and a client for a faster-whisper HTTP sidecar.
package asr

import (
	"context"
	"errors"
	"time"

	"github.com/joffinkoshy/smart-meeting-assistant/internal/models"
)

// ErrEngineUnavailable is returned when the transcription sidecar cannot be
// reached. The orchestrator reports it as a data-level error, not an HTTP
// failure.
var ErrEngineUnavailable = errors.New("transcription engine unavailable")

// Transcriber converts an audio file on disk into text plus timed segments.
type Transcriber interface {
	Transcribe(ctx context.Context, path string) (*models.Transcription, error)
}

// Config holds settings for the whisper sidecar.
type Config struct {
	URL      string
	Model    string
	Language string
	Timeout  time.Duration
}

const (
	defaultURL     = "http://localhost:8387"
	defaultModel   = "small"
	defaultTimeout = 120 * time.Second
)

func (c Config) withDefaults() Config {
	if c.URL == "" {
		c.URL = defaultURL
	}
	if c.Model == "" {
		c.Model = defaultModel
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	return c
}
