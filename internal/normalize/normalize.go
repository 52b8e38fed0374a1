// Package normalize maps validated input companies into the canonical
// model: exactly four quarters per company, clamped scores, enumerated
// perception labels, and safe-or-absent logo URLs.
package normalize

import (
	"encoding/json"

	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"

	"github.com/adtech-insider/insight-cli/internal/model"
	"github.com/adtech-insider/insight-cli/internal/schema"
	"github.com/adtech-insider/insight-cli/internal/validate"
)

// Normalize converts input companies into canonical records. The pass is
// deterministic and idempotent: no randomness, no current-time dependence.
// A secondary validation of the canonical batch runs afterwards; failures
// are logged but never block the result, since quarter count and score
// bounds are already enforced by construction.
func Normalize(inputs []model.InputCompany) []model.CanonicalCompany {
	out := make([]model.CanonicalCompany, 0, len(inputs))
	for _, in := range inputs {
		out = append(out, normalizeCompany(in))
	}

	if err := validateCanonical(out); err != nil {
		zap.L().Warn("normalize: canonical validation failed", zap.Error(err))
	}

	return out
}

func normalizeCompany(in model.InputCompany) model.CanonicalCompany {
	id := in.ID
	if id == "" {
		id = validate.NormalizeSlug(in.Name)
	}

	// Dedup by quarter code, last-wins on collision.
	byCode := make(map[model.QuarterCode]model.InputQuarter, 4)
	for _, q := range in.Quarters {
		byCode[schema.ParseQuarterCode(q.Quarter)] = q
	}

	quarters := make([]model.CanonicalQuarter, 0, 4)
	for _, code := range model.AllQuarters {
		q, ok := byCode[code]
		if !ok {
			q = model.InputQuarter{}
		}
		quarters = append(quarters, normalizeQuarter(q, code))
	}

	offerings := in.Offerings
	if offerings == nil {
		offerings = []string{}
	}

	return model.CanonicalCompany{
		ID:            id,
		Slug:          id,
		CompanyName:   validate.EnsureString(in.Name, id),
		Logo:          validate.ValidLogoURL(in.Logo),
		Tagline:       in.Tagline,
		Overview:      in.Overview,
		Offerings:     offerings,
		Strategy2025:  in.Strategy2025,
		QuarterlyData: quarters,
	}
}

func normalizeQuarter(in model.InputQuarter, code model.QuarterCode) model.CanonicalQuarter {
	events := in.KeyActivities
	if events == nil {
		events = []string{}
	}

	return model.CanonicalQuarter{
		Quarter:         code,
		MarketingFocus:  in.MainTheme,
		BrandPerception: model.ParseBrandPerception(in.BrandPerception),
		Events:          events,
		// No synthetic derivation for published reports; the source never
		// carries them.
		ReportsPublished: []string{},
		PerceptionScore:  validate.ClampScore(in.PerceptionScore),
		IntensityScore:   validate.ClampScore(in.IntensityScore),
	}
}

func validateCanonical(companies []model.CanonicalCompany) error {
	raw, err := json.Marshal(companies)
	if err != nil {
		return err
	}

	result, err := gojsonschema.Validate(canonicalSchemaLoader, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return err
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return &validationError{issues: msgs}
	}
	return nil
}

type validationError struct {
	issues []string
}

func (e *validationError) Error() string {
	msg := "canonical schema violations:"
	for _, issue := range e.issues {
		msg += " " + issue + ";"
	}
	return msg
}
