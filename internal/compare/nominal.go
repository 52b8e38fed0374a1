package compare

import (
	_ "embed"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// NominalMetrics is a hand-curated, externally validated metrics record for
// one of the seed companies. When present for a company id, it bypasses
// quarter-based derivation entirely. Activity and peak are already on the
// 0-100 chart scale.
type NominalMetrics struct {
	Activity    float64 `yaml:"activity"`
	Intensity   float64 `yaml:"intensity"`
	Peak        float64 `yaml:"peak"`
	Perception  float64 `yaml:"perception"`
	Consistency float64 `yaml:"consistency"`
	Composite   float64 `yaml:"composite"`
}

//go:embed nominal.yaml
var nominalYAML []byte

// LoadNominals parses a nominal-metrics document keyed by company id.
func LoadNominals(data []byte) (map[string]NominalMetrics, error) {
	var doc struct {
		Companies map[string]NominalMetrics `yaml:"companies"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, eris.Wrap(err, "compare: parse nominal metrics")
	}
	return doc.Companies, nil
}

// defaultNominals holds the embedded seed-company records. The embedded
// document is part of the build; a parse failure here is a programming
// error.
func defaultNominals() map[string]NominalMetrics {
	nominals, err := LoadNominals(nominalYAML)
	if err != nil {
		panic(err)
	}
	return nominals
}
