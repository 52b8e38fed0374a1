// Package validate holds the shared guard primitives used by the ingestion
// and normalization layers: slug/string/array coercion, score clamping, and
// logo URL safety checks.
package validate

import (
	"math"
	"net/url"
	"regexp"
	"strings"
)

var (
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugWhitespace   = regexp.MustCompile(`\s+`)
	slugDashRuns     = regexp.MustCompile(`-+`)
)

// NormalizeSlug lowercases, strips non-alphanumerics, and hyphenates
// whitespace. Inputs that reduce to nothing yield "unknown".
func NormalizeSlug(input string) string {
	s := strings.TrimSpace(strings.ToLower(input))
	if s == "" {
		return "unknown"
	}
	s = slugInvalidChars.ReplaceAllString(s, "")
	s = slugWhitespace.ReplaceAllString(s, "-")
	s = slugDashRuns.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "unknown"
	}
	return s
}

// EnsureString trims value and falls back when empty.
func EnsureString(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}

// EnsureStringSlice trims entries and drops empties. When nothing survives,
// the fallback is returned.
func EnsureStringSlice(values, fallback []string) []string {
	cleaned := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	if len(cleaned) == 0 {
		return fallback
	}
	return cleaned
}

// ClampScore rounds v to the nearest integer, then clamps into [0,100].
// Non-finite values collapse to 0. Rounding happens before clamping.
func ClampScore(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	n := int(math.Round(v))
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}

// Clamp01 clamps v into [0,1], substituting fallback for non-finite input.
func Clamp01(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

var logoExtensions = []string{".svg", ".png", ".jpg", ".jpeg", ".webp"}

// ValidLogoURL checks that raw is a plausible, safe, official logo
// reference: https only, a known image extension, syntactically valid, and
// not an obvious placeholder. Returns the trimmed URL, or "" when rejected.
// Rejection is never an error; a missing logo is always recoverable.
func ValidLogoURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	if !strings.HasPrefix(trimmed, "https://") {
		return ""
	}

	lower := strings.ToLower(trimmed)
	ok := false
	for _, ext := range logoExtensions {
		if strings.HasSuffix(lower, ext) {
			ok = true
			break
		}
	}
	if !ok {
		return ""
	}

	// Placeholder / hallucination protection.
	if strings.Contains(lower, "placeholder") ||
		strings.Contains(lower, "default-logo") ||
		strings.HasSuffix(lower, "logo.png") {
		return ""
	}

	if _, err := url.ParseRequestURI(trimmed); err != nil {
		return ""
	}

	return trimmed
}
