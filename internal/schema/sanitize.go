package schema

import (
	"strings"

	"github.com/adtech-insider/insight-cli/internal/validate"
)

// sanitizeRawCompanies coerces the basics of each raw candidate before
// decoding: a trimmed name and an id resolvable from id, slug, or the name
// itself. Rows that are not objects or have no resolvable name are dropped,
// not defaulted; the batch proceeds with whatever survives.
func sanitizeRawCompanies(items []any) []map[string]any {
	out := make([]map[string]any, 0, len(items))

	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}

		name := ""
		if s, ok := m["name"].(string); ok {
			name = strings.TrimSpace(s)
		}
		if name == "" {
			continue
		}

		id := slugOf(m, "id")
		slug := slugOf(m, "slug")
		resolved := firstNonEmpty(id, slug, validate.NormalizeSlug(name))

		cleaned := make(map[string]any, len(m))
		for k, v := range m {
			cleaned[k] = v
		}
		cleaned["name"] = name
		cleaned["id"] = resolved
		cleaned["slug"] = resolved

		out = append(out, cleaned)
	}

	return out
}

func slugOf(m map[string]any, key string) string {
	s, ok := m[key].(string)
	if !ok || strings.TrimSpace(s) == "" {
		return ""
	}
	return validate.NormalizeSlug(s)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
