package extractor

import (
	"encoding/json"
	"strings"

	"extractd/internal/domain"
)

// RecoverResult parses an ExtractionResult out of arbitrary model output:
// direct JSON, a fenced ``` block, or the substring between the first '{' and
// the last '}'. Returns false when no JSON object can be recovered.
func RecoverResult(text string) (*domain.ExtractionResult, bool) {
	if res, ok := tryUnmarshal(text); ok {
		return res, true
	}

	if idx := strings.Index(text, "```"); idx != -1 {
		if end := strings.LastIndex(text, "```"); end > idx {
			fenced := strings.TrimSpace(text[idx+3 : end])
			// Drop a language tag like "json" on the opening fence
			if nl := strings.Index(fenced, "\n"); nl != -1 && !strings.HasPrefix(strings.TrimSpace(fenced), "{") {
				fenced = fenced[nl+1:]
			}
			if res, ok := tryUnmarshal(fenced); ok {
				return res, true
			}
		}
	}

	l := strings.Index(text, "{")
	r := strings.LastIndex(text, "}")
	if l != -1 && r > l {
		if res, ok := tryUnmarshal(text[l : r+1]); ok {
			return res, true
		}
	}
	return nil, false
}

func tryUnmarshal(s string) (*domain.ExtractionResult, bool) {
	var res domain.ExtractionResult
	if err := json.Unmarshal([]byte(s), &res); err != nil {
		return nil, false
	}
	return &res, true
}
