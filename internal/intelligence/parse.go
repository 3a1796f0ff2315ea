package intelligence

import (
	"encoding/json"
	"strings"

	"github.com/joffinkoshy/smart-meeting-assistant/internal/models"
)

const maxKeyPoints = 8

// ParseAnalysis validates raw chat-model output against the expected
// {summary, key_points, action_items} shape. Any mismatch yields the
// {error, raw} fallback carrying the unparsed output; it never panics and
// never returns nil.
func ParseAnalysis(raw string) *models.Analysis {
	text := stripCodeFence(raw)

	var decoded struct {
		Summary     *string `json:"summary"`
		KeyPoints   []any   `json:"key_points"`
		ActionItems []struct {
			Task  string `json:"task"`
			Owner string `json:"owner"`
			Due   string `json:"due"`
		} `json:"action_items"`
	}
	if err := json.Unmarshal([]byte(text), &decoded); err != nil {
		return fallback("model returned non-JSON or unparsable output", raw)
	}
	if decoded.Summary == nil {
		return fallback("model output is missing the summary field", raw)
	}

	keyPoints := make([]string, 0, len(decoded.KeyPoints))
	for _, kp := range decoded.KeyPoints {
		s, ok := kp.(string)
		if !ok {
			return fallback("model output has a non-string key point", raw)
		}
		keyPoints = append(keyPoints, s)
	}
	if len(keyPoints) > maxKeyPoints {
		keyPoints = keyPoints[:maxKeyPoints]
	}

	actionItems := make([]models.ActionItem, 0, len(decoded.ActionItems))
	for _, item := range decoded.ActionItems {
		owner := item.Owner
		if owner == "" {
			owner = "unassigned"
		}
		actionItems = append(actionItems, models.ActionItem{
			Task:  item.Task,
			Owner: owner,
			Due:   item.Due,
		})
	}

	return &models.Analysis{
		Summary:     *decoded.Summary,
		KeyPoints:   keyPoints,
		ActionItems: actionItems,
	}
}

func fallback(reason, raw string) *models.Analysis {
	return &models.Analysis{Error: reason, Raw: raw}
}

// stripCodeFence unwraps a ```json fenced block, which chat models emit even
// when told not to.
func stripCodeFence(raw string) string {
	text := strings.TrimSpace(raw)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimSuffix(text, "```")
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[i+1:]
	}
	return strings.TrimSpace(text)
}
