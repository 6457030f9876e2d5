package services

import (
	"encoding/json"
	"strings"
)

// RawAnalysisKey holds the model's text when it did not answer with a JSON object.
const RawAnalysisKey = "raw_analysis"

// StripCodeFence removes a surrounding ```json or ``` markdown fence.
func StripCodeFence(text string) string {
	cleaned := strings.TrimSpace(text)

	if len(cleaned) >= 7 && strings.EqualFold(cleaned[:7], "```json") {
		cleaned = cleaned[7:]
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = cleaned[3:]
	}

	cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")

	return strings.TrimSpace(cleaned)
}

// ParseAnalysis decodes the model text into a JSON object. When that fails the text is
// wrapped as {"raw_analysis": text} and ok is false; it is never an error.
func ParseAnalysis(text string) (content map[string]any, ok bool) {
	if err := json.Unmarshal([]byte(StripCodeFence(text)), &content); err != nil || content == nil {
		return map[string]any{RawAnalysisKey: text}, false
	}
	return content, true
}
