package model

// MetricWeights are the composite-score weights, expressed as percentages.
// Callers keep them summed to 100; the engine does not re-normalize.
type MetricWeights struct {
	Brand      float64 `json:"brand" yaml:"brand"`
	Innovation float64 `json:"innovation" yaml:"innovation"`
	Presence   float64 `json:"presence" yaml:"presence"`
	Activity   float64 `json:"activity" yaml:"activity"`
}

// DefaultWeights returns the standard 40/20/20/20 split.
func DefaultWeights() MetricWeights {
	return MetricWeights{Brand: 40, Innovation: 20, Presence: 20, Activity: 20}
}

// Bounds holds the min/max of one metric across a comparison set.
type Bounds struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// NormBounds exposes the cross-company normalization bounds used for
// chart-space scaling. Surfaced verbatim for diagnostics.
type NormBounds struct {
	Perception Bounds `json:"perception"`
	Intensity  Bounds `json:"intensity"`
	Activity   Bounds `json:"activity"`
	Peak       Bounds `json:"peak"`
}

// MetricWarning records a non-fatal data problem found while deriving one
// company's metrics.
type MetricWarning struct {
	CompanyID string `json:"companyId"`
	Metric    string `json:"metric"`
	Message   string `json:"message"`
}

// CompareDebugInfo bundles normalization bounds and accumulated warnings.
type CompareDebugInfo struct {
	NormBounds NormBounds      `json:"normBounds"`
	Warnings   []MetricWarning `json:"warnings"`
}

// CompanyCompareMetrics is the derived, ephemeral per-company comparison
// record. Raw values drive ranking; Normalized* values are chart-space
// (0-100). Recomputed on every pass, never persisted.
type CompanyCompareMetrics struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Tagline string `json:"tagline"`

	AvgBrandScore  float64 `json:"avgBrandScore"`
	AvgInnovation  float64 `json:"avgInnovation"`
	AvgPresence    float64 `json:"avgPresence"`
	AvgIntensity   float64 `json:"avgIntensity"`
	TotalActivity  float64 `json:"totalActivity"`
	PeakIntensity  float64 `json:"peakIntensity"`
	Consistency    float64 `json:"consistency"`
	CompositeScore float64 `json:"compositeScore"`

	RankAvgBrandScore  int `json:"rankAvgBrandScore"`
	RankAvgIntensity   int `json:"rankAvgIntensity"`
	RankTotalActivity  int `json:"rankTotalActivity"`
	RankPeakIntensity  int `json:"rankPeakIntensity"`
	RankConsistency    int `json:"rankConsistency"`
	RankCompositeScore int `json:"rankCompositeScore"`

	NormalizedBrandScore    float64 `json:"normalizedBrandScore"`
	NormalizedIntensity     float64 `json:"normalizedIntensity"`
	NormalizedActivity      float64 `json:"normalizedActivity"`
	NormalizedPeakIntensity float64 `json:"normalizedPeakIntensity"`

	Warnings []string `json:"warnings"`
}

// CompareResult is the full output of one metrics computation.
type CompareResult struct {
	Metrics []CompanyCompareMetrics `json:"metrics"`
	Debug   CompareDebugInfo        `json:"debugInfo"`
}
