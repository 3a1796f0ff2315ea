package main

import (
	"context"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/joffinkoshy/smart-meeting-assistant/internal/api"
	"github.com/joffinkoshy/smart-meeting-assistant/internal/asr"
	"github.com/joffinkoshy/smart-meeting-assistant/internal/config"
	"github.com/joffinkoshy/smart-meeting-assistant/internal/intelligence"
	"github.com/joffinkoshy/smart-meeting-assistant/internal/storage"
	"github.com/joffinkoshy/smart-meeting-assistant/internal/validate"
)

func main() {
	_ = godotenv.Load()

	logger := newLogger()

	cfg, err := config.Load(os.Getenv("SMA_CONFIG"))
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}

	store := storage.NewStore(cfg.ScratchDir, logger)
	if err := store.Init(); err != nil {
		logger.Fatal().Err(err).Msg("init scratch dir")
	}

	sweepCtx, cancelSweep := context.WithCancel(context.Background())
	defer cancelSweep()
	store.StartSweeper(sweepCtx,
		time.Duration(cfg.SweepIntervalMinutes)*time.Minute,
		time.Duration(cfg.ScratchTTLMinutes)*time.Minute)

	engine := asr.NewEngine(asr.Config{
		URL:      cfg.Whisper.URL,
		Model:    cfg.Whisper.Model,
		Language: cfg.Whisper.Language,
		Timeout:  time.Duration(cfg.Whisper.TimeoutSeconds) * time.Second,
	}, logger)

	analyzer := buildAnalyzer(cfg, logger)

	validator := validate.New(cfg.AllowedExtensions, cfg.AllowedContentTypes, cfg.MaxUploadBytes)
	handler := api.NewHandler(validator, store, engine, analyzer, cfg.ArchiveDir,
		time.Duration(cfg.Whisper.TimeoutSeconds)*time.Second,
		time.Duration(cfg.Analysis.TimeoutSeconds)*time.Second,
		logger)

	router := gin.Default()
	router.Use(api.CORS(cfg.CORSOrigin))
	handler.RegisterRoutes(router)

	logger.Info().Str("addr", cfg.ServerAddress).Msg("starting server")
	if err := router.Run(cfg.ServerAddress); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}

// buildAnalyzer keeps a misconfigured provider from crashing startup: the
// configuration error is surfaced inside each response instead.
func buildAnalyzer(cfg *config.Config, logger zerolog.Logger) intelligence.Analyzer {
	analysisCfg := intelligence.Config{
		Provider:  cfg.Analysis.Provider,
		Model:     cfg.Analysis.Model,
		BaseURL:   cfg.Analysis.BaseURL,
		APIKey:    cfg.Analysis.APIKey,
		MaxTokens: cfg.Analysis.MaxTokens,
	}
	if !analysisCfg.Enabled() {
		logger.Info().Msg("analysis disabled")
		return nil
	}
	analyzer, err := intelligence.NewChatAnalyzer(context.Background(), analysisCfg, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("analysis provider unavailable")
		return intelligence.Unavailable(err)
	}
	return analyzer
}

func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if parsed, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil && parsed != zerolog.NoLevel {
		level = parsed
	}
	return zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()
}
