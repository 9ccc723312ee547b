package ocr

import (
	"bytes"
	"encoding/json"
)

// ParseText extracts the recognized text from a successful response body.
//
//   - a JSON object with a string "text" field yields that field
//   - a JSON string yields the decoded string
//   - any other JSON object yields its compact encoding
//   - anything else yields the body with surrounding whitespace removed
func ParseText(body []byte) string {
	trimmed := bytes.TrimSpace(body)

	var decoded any
	if err := json.Unmarshal(trimmed, &decoded); err != nil {
		return string(trimmed)
	}

	switch v := decoded.(type) {
	case string:
		return v
	case map[string]any:
		if text, ok := v["text"].(string); ok {
			return text
		}
		var compact bytes.Buffer
		if err := json.Compact(&compact, trimmed); err == nil {
			return compact.String()
		}
	}
	return string(trimmed)
}
