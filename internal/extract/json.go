package extract

import (
	"encoding/json"
	"regexp"
	"strings"
)

// StripMarkdownCodeBlocks returns the contents of the first fenced code
// block when the text contains one, otherwise the trimmed text.
func StripMarkdownCodeBlocks(text string) string {
	if !strings.Contains(text, "```") {
		return strings.TrimSpace(text)
	}

	var inBlock bool
	var blockLines []string
	for line := range strings.SplitSeq(text, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			if inBlock {
				break
			}
			inBlock = true
			continue
		}
		if inBlock {
			blockLines = append(blockLines, line)
		}
	}

	if len(blockLines) > 0 {
		return strings.TrimSpace(strings.Join(blockLines, "\n"))
	}
	return strings.TrimSpace(text)
}

// JSONFromResponse extracts a JSON object from an extraction agent's
// answer. Markdown fences are stripped first; when direct parsing fails
// and requiredFields are given, a regex pass looks for a flat object
// containing one of them. Returns fallback (or an empty map) when nothing
// parses.
func JSONFromResponse(text string, requiredFields []string, fallback map[string]any) map[string]any {
	if fallback == nil {
		fallback = map[string]any{}
	}
	if text == "" {
		return fallback
	}

	cleaned := StripMarkdownCodeBlocks(text)

	var parsed map[string]any
	if err := json.Unmarshal([]byte(cleaned), &parsed); err == nil {
		return parsed
	}

	if len(requiredFields) > 0 {
		quoted := make([]string, len(requiredFields))
		for i, f := range requiredFields {
			quoted[i] = regexp.QuoteMeta(`"` + f + `"`)
		}
		// Flat-object fallback, e.g. {[^{}]*"destination"[^{}]*}.
		pattern, err := regexp.Compile(`\{[^{}]*(` + strings.Join(quoted, "|") + `)[^{}]*\}`)
		if err == nil {
			if match := pattern.FindString(cleaned); match != "" {
				if err := json.Unmarshal([]byte(match), &parsed); err == nil {
					return parsed
				}
			}
		}
	}

	return fallback
}
