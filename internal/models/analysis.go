package models

import "encoding/json"

// ActionItem is a single task extracted from a meeting transcript.
type ActionItem struct {
	Task  string `json:"task"`
	Owner string `json:"owner"`
	Due   string `json:"due"`
}

// Analysis is the structured output of the summarization engine. Either the
// structured fields are set, or Error carries a failure tag with Raw holding
// the unparsed engine output.
type Analysis struct {
	Summary     string       `json:"summary"`
	KeyPoints   []string     `json:"key_points"`
	ActionItems []ActionItem `json:"action_items"`
	Error       string       `json:"error,omitempty"`
	Raw         string       `json:"raw,omitempty"`
}

// Failed reports whether this analysis is an error/raw fallback rather than
// a structured result.
func (a *Analysis) Failed() bool { return a != nil && a.Error != "" }

// MarshalJSON keeps the two shapes distinct on the wire: a fallback carries
// only {error, raw}, a structured result only the three extraction fields.
func (a Analysis) MarshalJSON() ([]byte, error) {
	if a.Error != "" {
		return json.Marshal(struct {
			Error string `json:"error"`
			Raw   string `json:"raw"`
		}{a.Error, a.Raw})
	}
	keyPoints := a.KeyPoints
	if keyPoints == nil {
		keyPoints = []string{}
	}
	actionItems := a.ActionItems
	if actionItems == nil {
		actionItems = []ActionItem{}
	}
	return json.Marshal(struct {
		Summary     string       `json:"summary"`
		KeyPoints   []string     `json:"key_points"`
		ActionItems []ActionItem `json:"action_items"`
	}{a.Summary, keyPoints, actionItems})
}

// TranscribeResponse is the payload returned by the transcribe-and-analyze
// endpoint. Error is set when transcription itself failed; engine failures
// never surface as HTTP errors.
type TranscribeResponse struct {
	FileID       string    `json:"file_id"`
	Transcript   string    `json:"transcript"`
	Segments     []Segment `json:"segments"`
	Intelligence *Analysis `json:"intelligence"`
	Error        string    `json:"error,omitempty"`
}
