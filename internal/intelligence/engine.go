package intelligence

import (
	"context"
	"fmt"
	"os"

	"github.com/cloudwego/eino-ext/components/model/claude"
	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/joffinkoshy/smart-meeting-assistant/internal/models"
)

const systemPrompt = "You are an assistant that extracts concise meeting summaries, " +
	"key points, and action items from transcripts."

const userPromptFormat = `Transcript:
%s

Please produce a JSON object with three keys: "summary", "key_points", and "action_items".

- "summary": A 1-2 sentence concise summary of the meeting.
- "key_points": A JSON array containing up to 8 short bullet points (strings) of the most important takeaways.
- "action_items": A JSON array of objects; each object must have:
    - "task": short description
    - "owner": who was assigned (or "unassigned")
    - "due": due date if mentioned, otherwise empty string

Important: Output ONLY valid JSON (no explanation). Keep responses concise.`

const defaultMaxTokens = 700

// ChatAnalyzer implements Analyzer on top of an eino chat model.
type ChatAnalyzer struct {
	chatModel model.ToolCallingChatModel
	log       zerolog.Logger
}

// NewChatAnalyzer constructs the chat model for the configured provider.
// The API key comes from the config or falls back to the provider's
// conventional environment variable.
func NewChatAnalyzer(ctx context.Context, cfg Config, log zerolog.Logger) (*ChatAnalyzer, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv(envKeyFor(cfg.Provider))
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%w: set %s", ErrNoCredential, envKeyFor(cfg.Provider))
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	var chatModel model.ToolCallingChatModel
	var err error
	switch cfg.Provider {
	case "openai":
		chatModel, err = openai.NewChatModel(ctx, &openai.ChatModelConfig{
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			APIKey:  apiKey,
		})
	case "gemini":
		var client *genai.Client
		client, err = genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
		if err != nil {
			return nil, fmt.Errorf("create gemini client: %w", err)
		}
		chatModel, err = gemini.NewChatModel(ctx, &gemini.Config{
			Client: client,
			Model:  cfg.Model,
		})
	case "claude":
		var baseURLPtr *string
		if cfg.BaseURL != "" {
			baseURLPtr = &cfg.BaseURL
		}
		chatModel, err = claude.NewChatModel(ctx, &claude.Config{
			APIKey:    apiKey,
			Model:     cfg.Model,
			BaseURL:   baseURLPtr,
			MaxTokens: maxTokens,
		})
	default:
		return nil, fmt.Errorf("unknown analysis provider: %s", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("init %s chat model: %w", cfg.Provider, err)
	}
	return &ChatAnalyzer{
		chatModel: chatModel,
		log:       log.With().Str("component", "intelligence").Logger(),
	}, nil
}

// Analyze sends the transcript to the chat model and strictly parses its
// output. Unparseable output degrades to the {error, raw} fallback; only the
// model call itself can fail with an error.
func (a *ChatAnalyzer) Analyze(ctx context.Context, transcript string) (*models.Analysis, error) {
	messages := []*schema.Message{
		{Role: schema.System, Content: systemPrompt},
		{Role: schema.User, Content: fmt.Sprintf(userPromptFormat, transcript)},
	}
	resp, err := a.chatModel.Generate(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("generate analysis: %w", err)
	}
	analysis := ParseAnalysis(resp.Content)
	if analysis.Failed() {
		a.log.Warn().Str("reason", analysis.Error).Msg("analysis output did not parse")
	}
	return analysis, nil
}

func envKeyFor(provider string) string {
	switch provider {
	case "gemini":
		return "GEMINI_API_KEY"
	case "claude":
		return "ANTHROPIC_API_KEY"
	default:
		return "OPENAI_API_KEY"
	}
}
