// Package analyze produces fully-populated company analyses from an LLM,
// with deterministic fallbacks, response sanitization, and an injected
// per-key cache so concurrent requests for the same company share one call.
package analyze

import (
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/adtech-insider/insight-cli/internal/model"
	"github.com/adtech-insider/insight-cli/internal/validate"
)

// DefaultYear is the analysis year when the caller does not specify one.
const DefaultYear = 2025

const defaultConfidence = 0.6

// Response is the structured analysis payload. Mirrors the JSON contract
// the system prompt demands from the model.
type Response struct {
	Company           CompanyInfo `json:"company"`
	Year              int         `json:"year"`
	Summary           string      `json:"summary"`
	Highlights        []string    `json:"highlights"`
	Risks             []string    `json:"risks"`
	Initiatives       []string    `json:"initiatives"`
	Quarters          []Quarter   `json:"quarters"`
	Sources           []Source    `json:"sources"`
	ConfidenceOverall float64     `json:"confidence_overall"`
}

// CompanyInfo identifies the analyzed company.
type CompanyInfo struct {
	Name    string `json:"name"`
	Slug    string `json:"slug"`
	Sector  string `json:"sector,omitempty"`
	Geo     string `json:"geo,omitempty"`
	LogoURL string `json:"logoUrl,omitempty"`
}

// Quarter is one quarter of the analysis.
type Quarter struct {
	Quarter    string     `json:"quarter"`
	Theme      string     `json:"theme"`
	Activities []Activity `json:"activities"`
	Scores     Scores     `json:"scores"`
}

// Activity is a single marketing initiative within a quarter.
type Activity struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Channel     string  `json:"channel"`
	KPI         string  `json:"kpi"`
	Notes       string  `json:"notes,omitempty"`
	Confidence  float64 `json:"confidence"`
}

// Scores holds the per-quarter 0-100 metric estimates.
type Scores struct {
	Activity   float64 `json:"activity"`
	Intensity  float64 `json:"intensity"`
	Peak       float64 `json:"peak"`
	Perception float64 `json:"perception"`
}

// Source attributes where the analysis content came from.
type Source struct {
	Title string `json:"title"`
	URL   string `json:"url,omitempty"`
	Type  string `json:"type"`
}

var defaultScores = Scores{Activity: 55, Intensity: 60, Peak: 50, Perception: 58}

var defaultActivities = []Activity{
	{
		Title:       "Planned AI optimization",
		Description: "Deploy ML-based bidding and creative iteration across key campaigns.",
		Channel:     "Programmatic",
		KPI:         "ROAS",
		Confidence:  defaultConfidence,
	},
	{
		Title:       "CTV partnerships",
		Description: "Expand audience reach via CTV publishers and measure incremental brand lift.",
		Channel:     "CTV",
		KPI:         "Brand lift",
		Confidence:  defaultConfidence,
	},
	{
		Title:       "First-party data onboarding",
		Description: "Activate CRM and first-party audiences with privacy-safe matching.",
		Channel:     "Retail Media",
		KPI:         "Reach",
		Confidence:  defaultConfidence,
	},
}

var titleCaser = cases.Title(language.English)

// DisplayNameFromSlug turns "the-trade-desk" into "The Trade Desk".
func DisplayNameFromSlug(slug string) string {
	return titleCaser.String(strings.TrimSpace(strings.ReplaceAll(slug, "-", " ")))
}

// Fallback builds a deterministic, fully-populated response for use when
// no API key is configured or the model returned unusable output.
func Fallback(companyName string, year int) *Response {
	slug := validate.NormalizeSlug(companyName)
	if slug == "unknown" {
		slug = "unknown-company"
	}

	quarters := make([]Quarter, 0, 4)
	for _, code := range model.AllQuarters {
		quarters = append(quarters, Quarter{
			Quarter:    string(code),
			Theme:      "General marketing activities",
			Activities: defaultActivities,
			Scores:     defaultScores,
		})
	}

	return &Response{
		Company: CompanyInfo{Name: companyName, Slug: slug},
		Year:    year,
		Summary: fmt.Sprintf("High-level view of %s's marketing and growth activities for %d, including always-on performance programs and brand initiatives.", companyName, year),
		Highlights: []string{
			"Consistent investment in performance and brand marketing channels.",
			"Ongoing experimentation with AI-driven optimization and new inventory.",
			"Focus on privacy-safe, first-party data activation across regions.",
		},
		Risks: []string{
			"Macroeconomic uncertainty and evolving privacy regulation.",
			"Dependence on a small number of major traffic or demand sources.",
		},
		Initiatives: []string{
			"Scale AI-driven bidding and creative optimization across key markets.",
			"Deepen partnerships across CTV, retail media, and commerce environments.",
		},
		Quarters: quarters,
		Sources: []Source{
			{Title: "Generic/industry reference or internal reasoning", Type: "model"},
		},
		ConfidenceOverall: defaultConfidence,
	}
}

// Sanitize fully populates a raw response so it always adheres to the
// contract: non-empty strings, four quarters, at least three activities per
// quarter, clamped scores and confidences, and a safe-or-empty logo URL.
func Sanitize(raw *Response, companyName string, year int) *Response {
	fallback := Fallback(companyName, year)
	if raw == nil {
		raw = fallback
	}

	name := validate.EnsureString(raw.Company.Name, companyName)
	slug := strings.TrimSpace(raw.Company.Slug)
	if slug == "" {
		slug = validate.NormalizeSlug(name)
		if slug == "unknown" {
			slug = "unknown-company"
		}
	}

	out := &Response{
		Company: CompanyInfo{
			Name:    name,
			Slug:    slug,
			Sector:  raw.Company.Sector,
			Geo:     raw.Company.Geo,
			LogoURL: validate.ValidLogoURL(raw.Company.LogoURL),
		},
		Year:              raw.Year,
		Summary:           validate.EnsureString(raw.Summary, fmt.Sprintf("High-level view of %s's marketing and strategic activities for %d.", name, year)),
		Highlights:        validate.EnsureStringSlice(raw.Highlights, []string{"Active presence across key marketing channels."}),
		Risks:             validate.EnsureStringSlice(raw.Risks, []string{"Execution risk around scaling new initiatives."}),
		Initiatives:       validate.EnsureStringSlice(raw.Initiatives, []string{"Maintain strong performance marketing while testing new growth channels."}),
		Sources:           raw.Sources,
		ConfidenceOverall: validate.Clamp01(raw.ConfidenceOverall, defaultConfidence),
	}

	if out.Year <= 1900 {
		out.Year = year
	}
	if len(out.Sources) == 0 {
		out.Sources = fallback.Sources
	}

	byCode := make(map[string]Quarter, 4)
	for _, q := range raw.Quarters {
		if q.Quarter == "" {
			continue
		}
		byCode[q.Quarter] = q
	}
	out.Quarters = make([]Quarter, 0, 4)
	for _, code := range model.AllQuarters {
		q := byCode[string(code)]
		out.Quarters = append(out.Quarters, Quarter{
			Quarter:    string(code),
			Theme:      validate.EnsureString(q.Theme, "General marketing activities"),
			Activities: ensureActivities(q.Activities),
			Scores:     sanitizeScores(q.Scores, len(byCode) > 0),
		})
	}

	return out
}

// ensureActivities cleans the provided items and pads to at least three.
func ensureActivities(activities []Activity) []Activity {
	out := make([]Activity, 0, len(activities))
	for _, a := range activities {
		out = append(out, Activity{
			Title:       validate.EnsureString(a.Title, "Planned marketing initiative"),
			Description: validate.EnsureString(a.Description, "Execute a relevant marketing or growth initiative aligned with the quarterly theme."),
			Channel:     validate.EnsureString(a.Channel, "Programmatic"),
			KPI:         validate.EnsureString(a.KPI, "ROAS"),
			Notes:       a.Notes,
			Confidence:  validate.Clamp01(a.Confidence, defaultConfidence),
		})
	}
	for len(out) < 3 {
		out = append(out, defaultActivities[len(out)%len(defaultActivities)])
	}
	return out
}

func sanitizeScores(s Scores, hasQuarters bool) Scores {
	if !hasQuarters || (s == Scores{}) {
		return defaultScores
	}
	return Scores{
		Activity:   float64(validate.ClampScore(s.Activity)),
		Intensity:  float64(validate.ClampScore(s.Intensity)),
		Peak:       float64(validate.ClampScore(s.Peak)),
		Perception: float64(validate.ClampScore(s.Perception)),
	}
}

// scoreToPerceptionLabel bands a 0-100 perception score onto a label.
func scoreToPerceptionLabel(score float64) string {
	switch {
	case score >= 90:
		return "Leadership"
	case score >= 85:
		return "Innovation"
	case score >= 80:
		return "Performance"
	case score >= 75:
		return "Scale"
	case score >= 70:
		return "Effectiveness"
	case score >= 65:
		return "Resilience"
	default:
		return "Other"
	}
}

// ToInputCompany converts a sanitized response into the loose input shape
// consumed by the normalization pipeline.
func ToInputCompany(slug string, res *Response) model.InputCompany {
	displayName := DisplayNameFromSlug(slug)
	safe := Sanitize(res, displayName, DefaultYear)

	quarters := make([]model.InputQuarter, 0, 4)
	for _, q := range safe.Quarters {
		activities := make([]string, 0, len(q.Activities))
		for _, a := range q.Activities {
			activities = append(activities, a.Title+": "+a.Description)
		}
		quarters = append(quarters, model.InputQuarter{
			Quarter:         q.Quarter + " " + fmt.Sprint(safe.Year),
			MainTheme:       q.Theme,
			BrandPerception: scoreToPerceptionLabel(q.Scores.Perception),
			IntensityScore:  q.Scores.Intensity,
			PerceptionScore: q.Scores.Perception,
			KeyActivities:   activities,
		})
	}

	name := safe.Company.Name
	if name == "" {
		name = slug
	}

	return model.InputCompany{
		ID:           slug,
		Name:         name,
		Logo:         safe.Company.LogoURL,
		Overview:     safe.Summary,
		Strategy2025: strings.Join(safe.Initiatives, " · "),
		Offerings:    safe.Highlights,
		Quarters:     quarters,
	}
}

// extractJSON pulls the outermost JSON object out of model output that may
// carry prose or fences around it.
func extractJSON(text string) (*Response, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, false
	}

	var resp Response
	if err := json.Unmarshal([]byte(text[start:end+1]), &resp); err != nil {
		return nil, false
	}
	return &resp, true
}
