package asr

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/joffinkoshy/smart-meeting-assistant/internal/models"
)

// Engine is the process-wide transcription handle. The sidecar client is
// created and health-checked lazily on first use; a failed probe is returned
// to the caller and retried on the next call rather than cached forever.
type Engine struct {
	cfg Config
	log zerolog.Logger

	mu     sync.Mutex
	client *Client
}

// NewEngine builds the lazy engine wrapper. No I/O happens until the first
// Transcribe call.
func NewEngine(cfg Config, log zerolog.Logger) *Engine {
	return &Engine{
		cfg: cfg.withDefaults(),
		log: log.With().Str("component", "asr").Logger(),
	}
}

// Transcribe resolves the sidecar handle and forwards the call.
func (e *Engine) Transcribe(ctx context.Context, path string) (*models.Transcription, error) {
	client, err := e.handle(ctx)
	if err != nil {
		return nil, err
	}
	e.log.Info().Str("path", path).Msg("transcribing")
	return client.Transcribe(ctx, path)
}

func (e *Engine) handle(ctx context.Context) (*Client, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.client != nil {
		return e.client, nil
	}
	client := NewClient(e.cfg)
	if !client.Healthy(ctx) {
		return nil, fmt.Errorf("%w: no healthy sidecar at %s", ErrEngineUnavailable, e.cfg.URL)
	}
	e.log.Info().Str("url", e.cfg.URL).Str("model", e.cfg.Model).Msg("transcription engine ready")
	e.client = client
	return e.client, nil
}
