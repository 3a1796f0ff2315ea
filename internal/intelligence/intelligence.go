// Package intelligence turns a meeting transcript into a structured summary
// via a configured chat model provider.
package intelligence

import (
	"context"
	"errors"

	"github.com/joffinkoshy/smart-meeting-assistant/internal/models"
)

// ErrNoCredential is returned when the configured provider has no API key,
// neither in the config file nor in the environment.
var ErrNoCredential = errors.New("no API key configured for analysis provider")

// Analyzer extracts a summary, key points and action items from transcript
// text. A nil *Analysis is never returned together with a nil error.
type Analyzer interface {
	Analyze(ctx context.Context, transcript string) (*models.Analysis, error)
}

// Config selects and parameterizes the analysis provider. An empty or "none"
// provider disables analysis entirely.
type Config struct {
	Provider  string
	Model     string
	BaseURL   string
	APIKey    string
	MaxTokens int
}

// Enabled reports whether an analysis provider is configured.
func (c Config) Enabled() bool {
	return c.Provider != "" && c.Provider != "none"
}

// Unavailable returns an Analyzer whose every call fails with err. Used when
// a provider is configured but could not be constructed, so the failure
// surfaces per-request as a data-level error instead of crashing startup.
func Unavailable(err error) Analyzer {
	return unavailableAnalyzer{err: err}
}

type unavailableAnalyzer struct{ err error }

func (u unavailableAnalyzer) Analyze(context.Context, string) (*models.Analysis, error) {
	return nil, u.err
}
