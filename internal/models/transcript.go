package models

import "time"

// StoredFile describes an upload persisted to the scratch directory. It is
// owned by exactly one request and removed when that request finishes.
type StoredFile struct {
	ID           string    `json:"file_id"`
	Path         string    `json:"path"`
	OriginalName string    `json:"original_filename"`
	CreatedAt    time.Time `json:"created_at"`
}

// Segment is a time-aligned portion of a transcript. Start and End are
// seconds from the beginning of the recording.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Transcription is the output of the speech-to-text engine.
type Transcription struct {
	Text     string    `json:"text"`
	Segments []Segment `json:"segments"`
	Language string    `json:"language,omitempty"`
}
