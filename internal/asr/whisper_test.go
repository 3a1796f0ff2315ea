package asr

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
)

func writeAudioFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "meeting.wav")
	if err := os.WriteFile(path, []byte("fake audio"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func newSidecar(t *testing.T, healthy bool, transcribe http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		if !healthy {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	if transcribe != nil {
		mux.HandleFunc("/transcribe", transcribe)
	}
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestClientTranscribe(t *testing.T) {
	server := newSidecar(t, true, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		if r.FormValue("model") != "small" {
			t.Errorf("model = %q, want small", r.FormValue("model"))
		}
		if r.FormValue("language") != "en" {
			t.Errorf("language = %q, want en", r.FormValue("language"))
		}
		if _, _, err := r.FormFile("audio"); err != nil {
			t.Errorf("audio part missing: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"text": "hello world",
			"segments": [
				{"start": 0, "end": 1.48, "text": "hello"},
				{"start": 1.48, "end": 2.9, "text": "world"}
			],
			"language": "en"
		}`))
	})

	client := NewClient(Config{URL: server.URL, Language: "en"})
	result, err := client.Transcribe(context.Background(), writeAudioFixture(t))
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	if result.Text != "hello world" {
		t.Fatalf("text = %q", result.Text)
	}
	if len(result.Segments) != 2 {
		t.Fatalf("segments = %+v", result.Segments)
	}
	if result.Segments[0].End != 1.48 || result.Segments[1].Text != "world" {
		t.Fatalf("segment mapping wrong: %+v", result.Segments)
	}
	if result.Language != "en" {
		t.Fatalf("language = %q", result.Language)
	}
}

func TestClientTranscribeSidecarError(t *testing.T) {
	server := newSidecar(t, true, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	})
	client := NewClient(Config{URL: server.URL})
	if _, err := client.Transcribe(context.Background(), writeAudioFixture(t)); err == nil {
		t.Fatal("expected an error from a failing sidecar")
	}
}

func TestClientTranscribeMissingFile(t *testing.T) {
	server := newSidecar(t, true, nil)
	client := NewClient(Config{URL: server.URL})
	if _, err := client.Transcribe(context.Background(), filepath.Join(t.TempDir(), "gone.wav")); err == nil {
		t.Fatal("expected an error for a missing audio file")
	}
}

func TestClientHealthy(t *testing.T) {
	up := newSidecar(t, true, nil)
	if !NewClient(Config{URL: up.URL}).Healthy(context.Background()) {
		t.Fatal("healthy sidecar reported unhealthy")
	}
	down := newSidecar(t, false, nil)
	if NewClient(Config{URL: down.URL}).Healthy(context.Background()) {
		t.Fatal("unhealthy sidecar reported healthy")
	}
}

func TestEngineUnavailableIsRetried(t *testing.T) {
	var healthy atomic.Bool
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		if !healthy.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/transcribe", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text": "ok", "segments": []}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	engine := NewEngine(Config{URL: server.URL}, zerolog.Nop())
	audio := writeAudioFixture(t)

	_, err := engine.Transcribe(context.Background(), audio)
	if !errors.Is(err, ErrEngineUnavailable) {
		t.Fatalf("err = %v, want ErrEngineUnavailable", err)
	}

	// A failed probe must not be cached: the next call re-probes.
	healthy.Store(true)
	result, err := engine.Transcribe(context.Background(), audio)
	if err != nil {
		t.Fatalf("retry after recovery failed: %v", err)
	}
	if result.Text != "ok" {
		t.Fatalf("text = %q", result.Text)
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	if cfg.URL == "" || cfg.Model == "" || cfg.Timeout <= 0 {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}
