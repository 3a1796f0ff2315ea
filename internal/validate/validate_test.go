package validate

import (
	"strings"
	"testing"
)

func newTestValidator() *Validator {
	return New(
		[]string{".wav", "mp3", ".MP4"},
		[]string{"audio/wav", "Audio/MPEG", "application/octet-stream"},
		1024,
	)
}

func TestCheckAccepts(t *testing.T) {
	v := newTestValidator()
	cases := []struct {
		name        string
		filename    string
		contentType string
		size        int64
	}{
		{"plain wav", "meeting.wav", "audio/wav", 512},
		{"uppercase extension", "MEETING.WAV", "audio/wav", 512},
		{"extension without dot in config", "a.mp3", "audio/mpeg", 10},
		{"uppercase config extension", "a.mp4", "application/octet-stream", 10},
		{"missing content type tolerated", "a.wav", "", 100},
		{"content type with parameters", "a.wav", "audio/wav; codecs=1", 100},
		{"uppercase content type", "a.wav", "AUDIO/WAV", 100},
		{"exactly the limit", "a.wav", "audio/wav", 1024},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := v.Check(tc.filename, tc.contentType, tc.size); err != nil {
				t.Fatalf("Check(%q, %q, %d) = %v, want accept", tc.filename, tc.contentType, tc.size, err)
			}
		})
	}
}

func TestCheckRejects(t *testing.T) {
	v := newTestValidator()
	cases := []struct {
		name        string
		filename    string
		contentType string
		size        int64
		wantKind    Kind
	}{
		{"empty upload", "a.wav", "audio/wav", 0, EmptyFile},
		{"over the limit", "a.wav", "audio/wav", 1025, FileTooLarge},
		{"bad extension", "a.exe", "application/octet-stream", 100, InvalidExtension},
		{"no extension", "audio", "audio/wav", 100, InvalidExtension},
		{"bad content type", "a.wav", "text/html", 100, InvalidContentType},
		{"empty file wins over bad extension", "a.exe", "text/html", 0, EmptyFile},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Check(tc.filename, tc.contentType, tc.size)
			if err == nil {
				t.Fatalf("Check(%q, %q, %d) accepted, want %s", tc.filename, tc.contentType, tc.size, tc.wantKind)
			}
			if err.Kind != tc.wantKind {
				t.Fatalf("kind = %s, want %s (detail: %s)", err.Kind, tc.wantKind, err.Detail)
			}
			if err.Detail == "" {
				t.Fatalf("rejection must carry a detail string")
			}
		})
	}
}

func TestInvalidExtensionDetailListsAllowed(t *testing.T) {
	v := newTestValidator()
	err := v.Check("a.exe", "application/octet-stream", 100)
	if err == nil {
		t.Fatal("expected rejection")
	}
	for _, ext := range []string{".mp3", ".mp4", ".wav"} {
		if !strings.Contains(err.Detail, ext) {
			t.Fatalf("detail %q should mention %s", err.Detail, ext)
		}
	}
}

func TestCheckIsIdempotent(t *testing.T) {
	v := newTestValidator()
	first := v.Check("a.exe", "audio/wav", 100)
	second := v.Check("a.exe", "audio/wav", 100)
	if first == nil || second == nil {
		t.Fatal("expected rejections")
	}
	if first.Kind != second.Kind || first.Detail != second.Detail {
		t.Fatalf("identical inputs produced different decisions: %+v vs %+v", first, second)
	}
	if v.Check("a.wav", "audio/wav", 100) != nil || v.Check("a.wav", "audio/wav", 100) != nil {
		t.Fatal("identical accepted inputs must stay accepted")
	}
}
