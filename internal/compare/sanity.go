package compare

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/adtech-insider/insight-cli/internal/model"
)

// SanityResult reports the outcome of a read-only integrity audit.
type SanityResult struct {
	OK     bool     `json:"ok"`
	Errors []string `json:"errors"`
}

// RunSanityChecks audits a batch of canonical companies: exactly four
// quarters each, finite in-range scores, and non-negative activity counts.
// It never mutates data or blocks the pipeline; intended for development
// and test assertions.
func RunSanityChecks(companies []model.CanonicalCompany) SanityResult {
	var errors []string

	for _, c := range companies {
		if len(c.QuarterlyData) != 4 {
			errors = append(errors, fmt.Sprintf("%s: expected 4 quarters, got %d", c.Slug, len(c.QuarterlyData)))
		}

		for _, q := range c.QuarterlyData {
			if err := checkScore(c.Slug, q.Quarter, "perceptionScore", q.PerceptionScore); err != "" {
				errors = append(errors, err)
			}
			if err := checkScore(c.Slug, q.Quarter, "intensityScore", q.IntensityScore); err != "" {
				errors = append(errors, err)
			}

			activity := float64(len(q.Events) + len(q.ReportsPublished))
			if math.IsNaN(activity) || math.IsInf(activity, 0) || activity < 0 {
				errors = append(errors, fmt.Sprintf("%s %s: invalid activity (events+reports)", c.Slug, q.Quarter))
			}
		}
	}

	if len(errors) > 0 {
		zap.L().Warn("compare: sanity checks failed", zap.Strings("errors", errors))
	}

	return SanityResult{OK: len(errors) == 0, Errors: errors}
}

func checkScore(slug string, quarter model.QuarterCode, field string, score int) string {
	if score < 0 || score > 100 {
		return fmt.Sprintf("%s %s: %s %d out of 0-100", slug, quarter, field, score)
	}
	return ""
}
