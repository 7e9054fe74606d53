package oracle

import "strings"

// cleanJSONBlock removes markdown code-fence wrappers the model sometimes
// emits despite the JSON response MIME type.
func cleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

// extractJSONObject returns the outermost {...} span of text, or "" when no
// object is present.
func extractJSONObject(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return text[start : end+1]
}

// extractJSONArray returns the outermost [...] span of text, or "" when no
// array is present.
func extractJSONArray(text string) string {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return text[start : end+1]
}

// looksInsufficient detects the model explaining, in prose, that the resume
// does not carry enough content to generate questions from.
func looksInsufficient(response string) bool {
	lower := strings.ToLower(response)
	for _, marker := range []string{"insufficient", "not enough", "more details", "resume is too short"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
