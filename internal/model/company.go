package model

import "strings"

// QuarterCode identifies one of the four canonical quarters.
type QuarterCode string

const (
	Q1 QuarterCode = "Q1"
	Q2 QuarterCode = "Q2"
	Q3 QuarterCode = "Q3"
	Q4 QuarterCode = "Q4"
)

// AllQuarters lists the canonical quarter codes in order.
var AllQuarters = [4]QuarterCode{Q1, Q2, Q3, Q4}

// BrandPerception is the enumerated brand-perception label attached to a
// canonical quarter. Free-text input maps onto one of eleven known labels;
// anything else collapses to Other.
type BrandPerception string

const (
	PerceptionScale          BrandPerception = "Scale"
	PerceptionPerformance    BrandPerception = "Performance"
	PerceptionResilience     BrandPerception = "Resilience"
	PerceptionInnovation     BrandPerception = "Innovation"
	PerceptionPremium        BrandPerception = "Premium"
	PerceptionTrust          BrandPerception = "Trust"
	PerceptionEase           BrandPerception = "Ease"
	PerceptionGrowth         BrandPerception = "Growth"
	PerceptionLeadership     BrandPerception = "Leadership"
	PerceptionAccountability BrandPerception = "Accountability"
	PerceptionEffectiveness  BrandPerception = "Effectiveness"
	PerceptionOther          BrandPerception = "Other"
)

var knownPerceptions = map[string]BrandPerception{
	"Scale":          PerceptionScale,
	"Performance":    PerceptionPerformance,
	"Resilience":     PerceptionResilience,
	"Innovation":     PerceptionInnovation,
	"Premium":        PerceptionPremium,
	"Trust":          PerceptionTrust,
	"Ease":           PerceptionEase,
	"Growth":         PerceptionGrowth,
	"Leadership":     PerceptionLeadership,
	"Accountability": PerceptionAccountability,
	"Effectiveness":  PerceptionEffectiveness,
}

// ParseBrandPerception maps a free-text label onto the enumerated set.
// Matching is exact after trimming; no fuzzy matching.
func ParseBrandPerception(input string) BrandPerception {
	if p, ok := knownPerceptions[strings.TrimSpace(input)]; ok {
		return p
	}
	return PerceptionOther
}

// InputQuarter is one quarterly record after alias resolution but before
// normalization. Scores are kept as-is here; clamping happens in normalize.
type InputQuarter struct {
	Quarter         string   `json:"quarter"`
	MainTheme       string   `json:"main_theme"`
	BrandPerception string   `json:"brand_perception"`
	IntensityScore  float64  `json:"marketing_intensity_score"`
	PerceptionScore float64  `json:"perception_score"`
	KeyActivities   []string `json:"key_activities"`
}

// InputCompany is the loosely-typed company shape accepted from external
// JSON, uploads, and the analysis endpoint. It is always resolvable to a
// non-empty id and name; entries that are not get dropped at parse time.
type InputCompany struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Tagline      string         `json:"tagline"`
	Overview     string         `json:"overview"`
	Strategy2025 string         `json:"strategy_2025_summary"`
	Offerings    []string       `json:"offerings"`
	Quarters     []InputQuarter `json:"quarterly_data"`
	Logo         string         `json:"logo,omitempty"`
}

// CanonicalQuarter is a fully-populated quarterly record. Each canonical
// company carries exactly one per quarter code.
type CanonicalQuarter struct {
	Quarter          QuarterCode     `json:"quarter"`
	MarketingFocus   string          `json:"marketingFocus"`
	BrandPerception  BrandPerception `json:"brandPerception"`
	Events           []string        `json:"events"`
	ReportsPublished []string        `json:"reportsPublished"`
	PerceptionScore  int             `json:"perceptionScore"`
	IntensityScore   int             `json:"intensityScore"`
}

// CanonicalCompany is the validated internal representation: exactly four
// quarters, clamped scores, enumerated perception labels, and a logo URL
// that is either safe or absent. Treated as immutable once created; edits
// produce a new record.
type CanonicalCompany struct {
	ID            string             `json:"id"`
	Slug          string             `json:"slug"`
	CompanyName   string             `json:"companyName"`
	Logo          string             `json:"logo,omitempty"`
	Tagline       string             `json:"tagline"`
	Overview      string             `json:"overview"`
	Offerings     []string           `json:"offerings"`
	Strategy2025  string             `json:"strategy2025"`
	QuarterlyData []CanonicalQuarter `json:"quarterlyData"`
}

// QuarterData returns the quarterly record for the given code, or nil when
// the company does not carry it (which a well-formed record never is).
func (c *CanonicalCompany) QuarterData(code QuarterCode) *CanonicalQuarter {
	for i := range c.QuarterlyData {
		if c.QuarterlyData[i].Quarter == code {
			return &c.QuarterlyData[i]
		}
	}
	return nil
}
