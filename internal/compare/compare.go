// Package compare derives cross-company comparison metrics from canonical
// company data: per-company aggregation over a quarter focus, min-max
// chart-space normalization, weighted composite scoring, and ranking.
package compare

import (
	"math"

	"github.com/adtech-insider/insight-cli/internal/model"
	"github.com/adtech-insider/insight-cli/internal/schema"
)

// Engine computes comparison metrics. Nominal overrides are injected at
// construction so tests and multi-tenant callers can swap them out.
type Engine struct {
	nominal map[string]NominalMetrics
}

// NewEngine returns an engine carrying the embedded seed-company overrides.
func NewEngine() *Engine {
	return &Engine{nominal: defaultNominals()}
}

// NewEngineWithNominals returns an engine with the given override table.
// Pass nil for a pure quarter-derived computation.
func NewEngineWithNominals(nominal map[string]NominalMetrics) *Engine {
	return &Engine{nominal: nominal}
}

// rawMetrics holds one company's metrics before chart scaling and ranking.
// Nil pointers mark values that could not be derived (zero filtered
// quarters); they render as 0 downstream, never NaN.
type rawMetrics struct {
	id, name, tagline string
	perception        *float64
	intensity         *float64
	activity          *float64
	peak              *float64
	consistency       float64
	nominalComposite  *float64
	fromNominal       bool
	warnings          []string
}

// Compute derives comparison metrics for the given companies. quarters
// selects which quarterly records participate ("all", empty, or explicit
// labels such as "Q2 2025"); weights are percentages the caller keeps
// summed to 100; normalize toggles min-max chart scaling for activity and
// peak.
func (e *Engine) Compute(companies []model.CanonicalCompany, quarters []string, weights model.MetricWeights, normalize bool) model.CompareResult {
	focus := resolveQuarters(quarters)

	raws := make([]rawMetrics, 0, len(companies))
	var allWarnings []model.MetricWarning
	for _, c := range companies {
		raw, warns := e.deriveRaw(c, focus)
		raws = append(raws, raw)
		allWarnings = append(allWarnings, warns...)
	}

	bounds := deriveBounds(raws)

	metrics := make([]model.CompanyCompareMetrics, len(raws))
	composites := make([]float64, len(raws))
	for i, raw := range raws {
		m := model.CompanyCompareMetrics{
			ID:            raw.id,
			Name:          raw.name,
			Tagline:       raw.tagline,
			AvgBrandScore: orZero(raw.perception),
			AvgInnovation: orZero(raw.intensity),
			AvgPresence:   orZero(raw.perception),
			AvgIntensity:  orZero(raw.intensity),
			TotalActivity: orZero(raw.activity),
			PeakIntensity: orZero(raw.peak),
			Consistency:   raw.consistency,
			Warnings:      raw.warnings,
		}

		// Perception and intensity are already on the 0-100 scale.
		m.NormalizedBrandScore = orZero(raw.perception)
		m.NormalizedIntensity = orZero(raw.intensity)

		switch {
		case raw.fromNominal:
			// Nominal activity/peak are normalized upstream; pass through.
			m.NormalizedActivity = orZero(raw.activity)
			m.NormalizedPeakIntensity = orZero(raw.peak)
		case normalize:
			m.NormalizedActivity = chartValue(raw.activity, bounds.Activity)
			m.NormalizedPeakIntensity = chartValue(raw.peak, bounds.Peak)
		default:
			m.NormalizedActivity = math.Min(100, orZero(raw.activity))
			m.NormalizedPeakIntensity = math.Min(100, orZero(raw.peak))
		}

		composites[i] = e.composite(raw, m, weights, normalize)
		m.CompositeScore = composites[i]
		metrics[i] = m
	}

	assignRanks(metrics, composites)

	return model.CompareResult{
		Metrics: metrics,
		Debug: model.CompareDebugInfo{
			NormBounds: bounds,
			Warnings:   allWarnings,
		},
	}
}

// resolveQuarters expands the focus selection into canonical quarter codes.
// "all" or an empty selection means every quarter.
func resolveQuarters(quarters []string) map[model.QuarterCode]bool {
	focus := make(map[model.QuarterCode]bool, 4)
	explicit := false
	for _, q := range quarters {
		if q == "all" {
			explicit = false
			break
		}
		focus[schema.ParseQuarterCode(q)] = true
		explicit = true
	}
	if !explicit {
		for _, code := range model.AllQuarters {
			focus[code] = true
		}
	}
	return focus
}

func (e *Engine) deriveRaw(c model.CanonicalCompany, focus map[model.QuarterCode]bool) (rawMetrics, []model.MetricWarning) {
	raw := rawMetrics{id: c.Slug, name: c.CompanyName, tagline: c.Tagline}

	if nominal, ok := e.nominal[c.Slug]; ok {
		raw.fromNominal = true
		raw.perception = ptr(nominal.Perception)
		raw.intensity = ptr(nominal.Intensity)
		raw.activity = ptr(nominal.Activity)
		raw.peak = ptr(nominal.Peak)
		raw.consistency = nominal.Consistency
		raw.nominalComposite = ptr(nominal.Composite)
		return raw, nil
	}

	var filtered []model.CanonicalQuarter
	for _, q := range c.QuarterlyData {
		if focus[q.Quarter] {
			filtered = append(filtered, q)
		}
	}

	var warnings []model.MetricWarning
	warn := func(metric, message string) {
		raw.warnings = append(raw.warnings, metric+": "+message)
		warnings = append(warnings, model.MetricWarning{CompanyID: c.Slug, Metric: metric, Message: message})
	}

	if len(filtered) == 0 {
		warn("perception", "no quarters matched the focus selection")
		warn("intensity", "no quarters matched the focus selection")
		raw.activity = ptr(0.0)
		raw.consistency = 100
		return raw, warnings
	}

	perceptions := make([]float64, 0, len(filtered))
	intensities := make([]float64, 0, len(filtered))
	activities := make([]float64, 0, len(filtered))
	for _, q := range filtered {
		perceptions = append(perceptions, float64(q.PerceptionScore))
		intensities = append(intensities, float64(q.IntensityScore))
		activities = append(activities, float64(len(q.Events)+len(q.ReportsPublished)))
	}

	raw.perception = ptr(round1(mean(perceptions)))
	raw.intensity = ptr(round1(mean(intensities)))

	total := 0.0
	peak := 0.0
	for _, a := range activities {
		total += a
		if a > peak {
			peak = a
		}
	}
	raw.activity = ptr(total)
	raw.peak = ptr(peak)

	// Lower variance in perception yields higher consistency; the penalty
	// is doubled and capped at 100.
	raw.consistency = round1(100 - math.Min(stdDev(perceptions)*2, 100))

	return raw, warnings
}

// deriveBounds computes cross-company min/max over valid raw values.
// Degenerate fallbacks match the chart defaults: 0-100 for score metrics,
// 0-1 for counts.
func deriveBounds(raws []rawMetrics) model.NormBounds {
	collect := func(pick func(rawMetrics) *float64) []float64 {
		var vals []float64
		for _, r := range raws {
			if v := pick(r); v != nil {
				vals = append(vals, *v)
			}
		}
		return vals
	}

	return model.NormBounds{
		Perception: boundsOf(collect(func(r rawMetrics) *float64 { return r.perception }), 100),
		Intensity:  boundsOf(collect(func(r rawMetrics) *float64 { return r.intensity }), 100),
		Activity:   boundsOf(collect(func(r rawMetrics) *float64 { return r.activity }), 1),
		Peak:       boundsOf(collect(func(r rawMetrics) *float64 { return r.peak }), 1),
	}
}

func boundsOf(values []float64, defaultMax float64) model.Bounds {
	if len(values) == 0 {
		return model.Bounds{Min: 0, Max: defaultMax}
	}
	b := model.Bounds{Min: values[0], Max: values[0]}
	for _, v := range values[1:] {
		b.Min = math.Min(b.Min, v)
		b.Max = math.Max(b.Max, v)
	}
	return b
}

// chartValue min-max normalizes v into [0,100]. When the bounds collapse
// (max == min) every company sits at the fixed midpoint 50; that is a
// defined convention, not an error state.
func chartValue(v *float64, b model.Bounds) float64 {
	if v == nil {
		return 0
	}
	if b.Max == b.Min {
		return 50
	}
	scaled := (*v - b.Min) / (b.Max - b.Min) * 100
	return math.Max(0, math.Min(100, scaled))
}

func (e *Engine) composite(raw rawMetrics, m model.CompanyCompareMetrics, weights model.MetricWeights, normalize bool) float64 {
	if raw.nominalComposite != nil {
		return round3(*raw.nominalComposite)
	}

	var nBrand, nInnov, nAct float64
	if normalize {
		nBrand = m.NormalizedBrandScore / 100
		nInnov = m.NormalizedIntensity / 100
		nAct = m.NormalizedActivity / 100
	} else {
		nBrand = math.Min(1, m.AvgBrandScore/100)
		nInnov = math.Min(1, m.AvgIntensity/100)
		nAct = math.Min(1, m.TotalActivity/100)
	}
	// Presence has no metric of its own; it aliases perception.
	nPres := nBrand

	comp := (nBrand*weights.Brand + nInnov*weights.Innovation + nPres*weights.Presence + nAct*weights.Activity) / 100
	return round3(comp)
}

// assignRanks fills every Rank* field using competition ranking over the
// raw values: equal values share a rank and the next rank is skipped
// (1, 1, 3), stable by input order within a tie.
func assignRanks(metrics []model.CompanyCompareMetrics, composites []float64) {
	rank := func(pick func(model.CompanyCompareMetrics) float64, set func(*model.CompanyCompareMetrics, int)) {
		values := make([]float64, len(metrics))
		for i, m := range metrics {
			values[i] = pick(m)
		}
		ranks := competitionRanks(values)
		for i := range metrics {
			set(&metrics[i], ranks[i])
		}
	}

	rank(func(m model.CompanyCompareMetrics) float64 { return m.AvgBrandScore },
		func(m *model.CompanyCompareMetrics, r int) { m.RankAvgBrandScore = r })
	rank(func(m model.CompanyCompareMetrics) float64 { return m.AvgIntensity },
		func(m *model.CompanyCompareMetrics, r int) { m.RankAvgIntensity = r })
	rank(func(m model.CompanyCompareMetrics) float64 { return m.TotalActivity },
		func(m *model.CompanyCompareMetrics, r int) { m.RankTotalActivity = r })
	rank(func(m model.CompanyCompareMetrics) float64 { return m.PeakIntensity },
		func(m *model.CompanyCompareMetrics, r int) { m.RankPeakIntensity = r })
	rank(func(m model.CompanyCompareMetrics) float64 { return m.Consistency },
		func(m *model.CompanyCompareMetrics, r int) { m.RankConsistency = r })

	compRanks := competitionRanks(composites)
	for i := range metrics {
		metrics[i].RankCompositeScore = compRanks[i]
	}
}

// competitionRanks returns the 1-based descending competition rank of each
// value: rank = 1 + number of strictly greater values.
func competitionRanks(values []float64) []int {
	ranks := make([]int, len(values))
	for i, v := range values {
		rank := 1
		for _, other := range values {
			if other > v {
				rank++
			}
		}
		ranks[i] = rank
	}
	return ranks
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := mean(values)
	sq := 0.0
	for _, v := range values {
		sq += (v - m) * (v - m)
	}
	return math.Sqrt(sq / float64(len(values)))
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round3(v float64) float64 { return math.Round(v*1000) / 1000 }

func orZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func ptr(v float64) *float64 { return &v }
