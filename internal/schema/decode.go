// Package schema parses arbitrary company-marketing JSON into the loosely
// typed input model. It tolerates camelCase and snake_case field names,
// all three historical container shapes, and partially invalid batches.
package schema

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/adtech-insider/insight-cli/internal/model"
)

// Field alias tables: alternate key names in priority order, kept as data
// so the decoder stays a single generic lookup.
var companyAliases = map[string][]string{
	"id":        {"id"},
	"slug":      {"slug"},
	"name":      {"name"},
	"tagline":   {"tagline"},
	"overview":  {"overview"},
	"strategy":  {"strategy_2025_summary", "strategy2025Summary"},
	"offerings": {"offerings"},
	"quarters":  {"quarterly_data", "quarters"},
	"logo":      {"logo", "logoUrl", "logo_url"},
}

var quarterAliases = map[string][]string{
	"quarter":          {"quarter", "id"},
	"theme":            {"main_theme", "theme"},
	"brand_perception": {"brand_perception", "brandPerception"},
	"intensity":        {"marketing_intensity_score", "marketingIntensity"},
	"perception":       {"perception_score", "brandPerception"},
	"activities":       {"key_activities", "keyActivities"},
}

var quarterCodeRe = regexp.MustCompile(`(?i)Q([1-4])`)

// ParseQuarterCode extracts the canonical quarter code from any label
// containing Q1..Q4 ("Q2", "q3 2025", "Q4-update"). Unmatched labels fall
// back to Q1; the lossy default is deliberate and logged for traceability.
func ParseQuarterCode(label string) model.QuarterCode {
	m := quarterCodeRe.FindStringSubmatch(label)
	if m == nil {
		if strings.TrimSpace(label) != "" {
			zap.L().Debug("schema: unrecognized quarter label, defaulting to Q1",
				zap.String("label", label),
			)
		}
		return model.Q1
	}
	return model.QuarterCode("Q" + m[1])
}

// Result is the outcome of a successful parse. Partial reports that the
// whole-batch validation failed and only individually valid items were kept.
type Result struct {
	Companies []model.InputCompany
	Partial   bool
	Issues    []string
}

// ParseJSON decodes raw bytes and parses them as company input.
func ParseJSON(data []byte) (*Result, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, eris.Wrap(err, "schema: decode json")
	}
	return ParseInput(raw)
}

// ParseInput accepts a bare company object, an array of company-like
// objects, or a {companies: [...]} wrapper. Whole-batch validation runs
// first; on failure every item is validated individually and the valid ones
// are kept (partial success). A hard error is returned only when zero items
// validate.
func ParseInput(raw any) (*Result, error) {
	candidates := extractCandidates(raw)
	if len(candidates) == 0 {
		return nil, eris.New("schema: expected a company object, an array, or a companies wrapper")
	}

	sanitized := sanitizeRawCompanies(candidates)
	if len(sanitized) == 0 {
		return nil, eris.New("schema: no company entries with a resolvable name")
	}

	companies := make([]model.InputCompany, 0, len(sanitized))
	var issues []string
	for i, item := range sanitized {
		c, err := decodeCompany(item)
		if err != nil {
			issues = append(issues, fmt.Sprintf("companies[%d]: %v", i, err))
			continue
		}
		companies = append(companies, c)
	}

	if len(issues) == 0 {
		return &Result{Companies: companies, Partial: len(sanitized) < len(candidates)}, nil
	}

	for _, issue := range issues {
		zap.L().Debug("schema: dropping invalid company", zap.String("issue", issue))
	}

	if len(companies) > 0 {
		return &Result{Companies: companies, Partial: true, Issues: issues}, nil
	}
	return nil, eris.Errorf("schema: input validation failed: %s", strings.Join(issues, "; "))
}

// extractCandidates unwraps the three accepted container shapes into a flat
// item list.
func extractCandidates(raw any) []any {
	switch v := raw.(type) {
	case []any:
		return v
	case map[string]any:
		if inner, ok := v["companies"]; ok {
			if arr, ok := inner.([]any); ok {
				return arr
			}
			return nil
		}
		return []any{v}
	default:
		return nil
	}
}

func decodeCompany(m map[string]any) (model.InputCompany, error) {
	name := strings.TrimSpace(pickString(m, companyAliases["name"]))
	if name == "" {
		return model.InputCompany{}, eris.New("name: required")
	}

	c := model.InputCompany{
		ID:           pickString(m, companyAliases["id"]),
		Name:         name,
		Tagline:      pickString(m, companyAliases["tagline"]),
		Overview:     pickString(m, companyAliases["overview"]),
		Strategy2025: pickString(m, companyAliases["strategy"]),
		Offerings:    pickStringSlice(m, companyAliases["offerings"]),
		Logo:         pickString(m, companyAliases["logo"]),
	}

	rawQuarters := pickSlice(m, companyAliases["quarters"])
	quarters := make([]model.InputQuarter, 0, 4)
	seen := make(map[model.QuarterCode]bool, 4)
	for _, rq := range rawQuarters {
		if len(quarters) >= 4 {
			break // first four by input order only
		}
		qm, ok := rq.(map[string]any)
		if !ok {
			continue
		}
		q := decodeQuarter(qm)
		seen[model.QuarterCode(q.Quarter)] = true
		quarters = append(quarters, q)
	}
	// Back-fill to exactly four with empty defaults, using only quarter
	// codes the input did not provide so real data never collides with a
	// synthetic default downstream.
	for _, code := range model.AllQuarters {
		if len(quarters) >= 4 {
			break
		}
		if seen[code] {
			continue
		}
		quarters = append(quarters, defaultInputQuarter(code))
	}
	c.Quarters = quarters

	return c, nil
}

func decodeQuarter(m map[string]any) model.InputQuarter {
	q := model.InputQuarter{
		Quarter:       string(ParseQuarterCode(pickString(m, quarterAliases["quarter"]))),
		MainTheme:     pickString(m, quarterAliases["theme"]),
		KeyActivities: pickStringSlice(m, quarterAliases["activities"]),
	}

	// brand_perception is a string label in the snake_case shape; in the
	// camelCase shape brandPerception doubles as the numeric perception
	// score, so only string values map to the label.
	for _, key := range quarterAliases["brand_perception"] {
		if s, ok := m[key].(string); ok {
			q.BrandPerception = s
			break
		}
	}

	q.IntensityScore = pickNumber(m, quarterAliases["intensity"])
	q.PerceptionScore = pickNumber(m, quarterAliases["perception"])

	return q
}

func defaultInputQuarter(code model.QuarterCode) model.InputQuarter {
	return model.InputQuarter{Quarter: string(code), KeyActivities: []string{}}
}

func pickString(m map[string]any, keys []string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok {
			return s
		}
	}
	return ""
}

func pickNumber(m map[string]any, keys []string) float64 {
	for _, k := range keys {
		switch v := m[k].(type) {
		case float64:
			return v
		case int:
			return float64(v)
		case json.Number:
			if f, err := v.Float64(); err == nil {
				return f
			}
		}
	}
	return 0
}

func pickSlice(m map[string]any, keys []string) []any {
	for _, k := range keys {
		if arr, ok := m[k].([]any); ok {
			return arr
		}
	}
	return nil
}

func pickStringSlice(m map[string]any, keys []string) []string {
	out := []string{}
	for _, item := range pickSlice(m, keys) {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
