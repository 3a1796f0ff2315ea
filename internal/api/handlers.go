package api

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/joffinkoshy/smart-meeting-assistant/internal/asr"
	"github.com/joffinkoshy/smart-meeting-assistant/internal/intelligence"
	"github.com/joffinkoshy/smart-meeting-assistant/internal/models"
	"github.com/joffinkoshy/smart-meeting-assistant/internal/storage"
	"github.com/joffinkoshy/smart-meeting-assistant/internal/validate"
)

// ServiceName is reported by the health endpoint.
const ServiceName = "smart-meeting-assistant"

const (
	defaultASRTimeout      = 2 * time.Minute
	defaultAnalysisTimeout = time.Minute
)

// Handler wires HTTP routes to the upload pipeline: validate, store,
// transcribe, analyze, respond, with the stored file removed on every exit
// path.
type Handler struct {
	validator       *validate.Validator
	store           *storage.Store
	transcriber     asr.Transcriber
	analyzer        intelligence.Analyzer // nil when analysis is disabled
	archiveDir      string                // keep processed audio here instead of deleting
	asrTimeout      time.Duration
	analysisTimeout time.Duration
	log             zerolog.Logger
}

// NewHandler constructs a Handler instance. analyzer may be nil, in which
// case intelligence is always null in responses; archiveDir may be empty, in
// which case processed audio is deleted.
func NewHandler(validator *validate.Validator, store *storage.Store, transcriber asr.Transcriber, analyzer intelligence.Analyzer, archiveDir string, asrTimeout, analysisTimeout time.Duration, log zerolog.Logger) *Handler {
	if asrTimeout <= 0 {
		asrTimeout = defaultASRTimeout
	}
	if analysisTimeout <= 0 {
		analysisTimeout = defaultAnalysisTimeout
	}
	return &Handler{
		validator:       validator,
		store:           store,
		transcriber:     transcriber,
		analyzer:        analyzer,
		archiveDir:      archiveDir,
		asrTimeout:      asrTimeout,
		analysisTimeout: analysisTimeout,
		log:             log.With().Str("component", "api").Logger(),
	}
}

// RegisterRoutes attaches all HTTP routes to the router.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.GET("/", h.health)
	api := router.Group("/api")
	api.POST("/transcribe_and_analyze", h.transcribeAndAnalyze)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": ServiceName})
}

func (h *Handler) transcribeAndAnalyze(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "file is required"})
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if verr := h.validator.Check(fileHeader.Filename, contentType, fileHeader.Size); verr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": verr.Detail, "kind": verr.Kind})
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "could not read upload"})
		return
	}
	data, err := io.ReadAll(src)
	_ = src.Close()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "could not read upload"})
		return
	}

	stored, err := h.store.Save(data, fileHeader.Filename)
	if err != nil {
		h.log.Error().Err(err).Msg("persist upload failed")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "could not persist upload"})
		return
	}
	// Cleanup runs on every exit path, panics included. Its failure is
	// logged inside Remove and never overrides the response.
	defer h.release(stored.Path)

	resp := models.TranscribeResponse{
		FileID:   stored.ID,
		Segments: []models.Segment{},
	}

	asrCtx, cancelASR := context.WithTimeout(c.Request.Context(), h.asrTimeout)
	defer cancelASR()
	transcription, err := h.transcriber.Transcribe(asrCtx, stored.Path)
	if err != nil {
		// Engine failure is a data outcome: the client still gets a
		// well-formed 200 payload.
		h.log.Warn().Err(err).Str("file_id", stored.ID).Msg("transcription failed")
		resp.Error = "transcription failed: " + err.Error()
		c.JSON(http.StatusOK, resp)
		return
	}
	resp.Transcript = transcription.Text
	if transcription.Segments != nil {
		resp.Segments = transcription.Segments
	}

	// Analysis only runs on a non-empty transcript; a failed or silent
	// recording yields intelligence: null.
	if h.analyzer != nil && strings.TrimSpace(resp.Transcript) != "" {
		resp.Intelligence = h.analyze(c.Request.Context(), resp.Transcript, stored.ID)
	}

	c.JSON(http.StatusOK, resp)
}

// release moves the scratch file into the archive directory when one is
// configured, and deletes it otherwise. The scratch path never survives the
// request either way.
func (h *Handler) release(path string) {
	if h.archiveDir != "" {
		_, err := h.store.Archive(path, h.archiveDir)
		if err == nil {
			return
		}
		h.log.Warn().Err(err).Str("path", path).Msg("archive failed, removing instead")
	}
	h.store.Remove(path)
}

func (h *Handler) analyze(ctx context.Context, transcript, fileID string) *models.Analysis {
	analysisCtx, cancel := context.WithTimeout(ctx, h.analysisTimeout)
	defer cancel()
	analysis, err := h.analyzer.Analyze(analysisCtx, transcript)
	if err != nil {
		h.log.Warn().Err(err).Str("file_id", fileID).Msg("analysis failed")
		return &models.Analysis{Error: "analysis failed: " + err.Error()}
	}
	return analysis
}
