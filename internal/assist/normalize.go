package assist

import (
	"encoding/json"
	"fmt"
	"strings"
)

// NormalizeSkills turns a suggested_skills value into an ordered list of trimmed,
// non-empty skills. The service may answer with a JSON list or a string
// delimited by commas or newlines.
func NormalizeSkills(v any) ([]string, error) {
	switch val := v.(type) {
	case nil:
		return []string{}, nil
	case string:
		return SplitSkills(val), nil
	case []string:
		return cleanSkills(val), nil
	case []any:
		raw := make([]string, 0, len(val))
		for i, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("suggested_skills[%d] is %T, want string", i, item)
			}
			raw = append(raw, s)
		}
		return cleanSkills(raw), nil
	default:
		return nil, fmt.Errorf("suggested_skills is %T, want list or string", v)
	}
}

// SplitSkills splits a comma or newline delimited skill string.
func SplitSkills(s string) []string {
	s = strings.ReplaceAll(s, "\n", ",")
	return cleanSkills(strings.Split(s, ","))
}

func cleanSkills(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// decodeSkills decodes the raw suggested_skills JSON value.
func decodeSkills(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 {
		return []string{}, nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return NormalizeSkills(v)
}
