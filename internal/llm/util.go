package llm

import "strings"

// CleanText strips the wrappers models put around short answers, such as
// markdown code fences or one pair of enclosing quotes.
func CleanText(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		// Skip a language identifier on the first line
		if idx := strings.Index(text, "\n"); idx >= 0 {
			firstLine := text[:idx]
			if len(firstLine) < 20 && !strings.Contains(firstLine, " ") {
				text = text[idx+1:]
			}
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	}

	if len(text) > 2 && strings.HasPrefix(text, `"`) && strings.HasSuffix(text, `"`) {
		if inner := text[1 : len(text)-1]; !strings.Contains(inner, `"`) {
			return strings.TrimSpace(inner)
		}
	}

	return text
}

// SplitList parses a comma or newline separated model answer into trimmed
// entries, dropping list markers and blanks. At most limit entries are
// returned when limit > 0.
func SplitList(text string, limit int) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == '\n'
	})

	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = trimListMarker(strings.TrimSpace(f))
		if f == "" {
			continue
		}
		out = append(out, f)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// trimListMarker removes a leading bullet ("-", "*", "•") or number ("1.", "2)").
func trimListMarker(s string) string {
	s = strings.TrimLeft(s, "-*• ")
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i > 0 && i < len(s) && (s[i] == '.' || s[i] == ')') {
		s = s[i+1:]
	}
	return strings.TrimSpace(s)
}
