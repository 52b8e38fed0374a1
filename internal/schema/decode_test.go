package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adtech-insider/insight-cli/internal/model"
)

func TestParseQuarterCode(t *testing.T) {
	tests := []struct {
		name  string
		label string
		want  model.QuarterCode
	}{
		{"bare code", "Q2", model.Q2},
		{"with year", "Q3 2025", model.Q3},
		{"lowercase", "q4", model.Q4},
		{"embedded", "update for Q1 onwards", model.Q1},
		{"unmatched defaults to Q1", "H2 2025", model.Q1},
		{"empty defaults to Q1", "", model.Q1},
		{"out of range digit defaults to Q1", "Q7", model.Q1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseQuarterCode(tt.label))
		})
	}
}

func TestParseJSON_WrapperShape(t *testing.T) {
	data := []byte(`{
		"companies": [{
			"id": "acme",
			"name": "Acme",
			"tagline": "ads",
			"strategy_2025_summary": "grow",
			"offerings": ["DSP"],
			"quarterly_data": [
				{"quarter": "Q1 2025", "main_theme": "launch", "brand_perception": "Trust",
				 "marketing_intensity_score": 70, "perception_score": 80,
				 "key_activities": ["a", "b"]}
			]
		}]
	}`)

	res, err := ParseJSON(data)
	require.NoError(t, err)
	assert.False(t, res.Partial)
	require.Len(t, res.Companies, 1)

	c := res.Companies[0]
	assert.Equal(t, "acme", c.ID)
	assert.Equal(t, "Acme", c.Name)
	assert.Equal(t, "grow", c.Strategy2025)
	require.Len(t, c.Quarters, 4)
	assert.Equal(t, "Q1", c.Quarters[0].Quarter)
	assert.Equal(t, "launch", c.Quarters[0].MainTheme)
	assert.Equal(t, "Trust", c.Quarters[0].BrandPerception)
	assert.Equal(t, 70.0, c.Quarters[0].IntensityScore)
	assert.Equal(t, 80.0, c.Quarters[0].PerceptionScore)
	assert.Equal(t, []string{"a", "b"}, c.Quarters[0].KeyActivities)
	// Back-filled quarters carry empty defaults by position.
	assert.Equal(t, "Q2", c.Quarters[1].Quarter)
	assert.Equal(t, "Q4", c.Quarters[3].Quarter)
	assert.Zero(t, c.Quarters[3].PerceptionScore)
}

func TestParseJSON_BareObjectAndArray(t *testing.T) {
	single, err := ParseJSON([]byte(`{"name": "Solo Co"}`))
	require.NoError(t, err)
	require.Len(t, single.Companies, 1)
	assert.Equal(t, "solo-co", single.Companies[0].ID)
	assert.Len(t, single.Companies[0].Quarters, 4)

	arr, err := ParseJSON([]byte(`[{"name": "A"}, {"name": "B"}]`))
	require.NoError(t, err)
	assert.Len(t, arr.Companies, 2)
	assert.False(t, arr.Partial)
}

func TestParseJSON_CamelCaseAliases(t *testing.T) {
	data := []byte(`{
		"slug": "beta-corp",
		"name": "Beta Corp",
		"strategy2025Summary": "expand",
		"quarters": [
			{"id": "Q2", "theme": "brand push", "marketingIntensity": 66,
			 "keyActivities": ["event"]}
		]
	}`)

	res, err := ParseJSON(data)
	require.NoError(t, err)
	c := res.Companies[0]
	assert.Equal(t, "beta-corp", c.ID)
	assert.Equal(t, "expand", c.Strategy2025)
	assert.Equal(t, "Q2", c.Quarters[0].Quarter)
	assert.Equal(t, "brand push", c.Quarters[0].MainTheme)
	assert.Equal(t, 66.0, c.Quarters[0].IntensityScore)
	assert.Equal(t, []string{"event"}, c.Quarters[0].KeyActivities)
}

func TestParseJSON_PartialBatch(t *testing.T) {
	data := []byte(`[
		{"name": "Valid One"},
		{"tagline": "missing name"},
		{"name": "Valid Two"}
	]`)

	res, err := ParseJSON(data)
	require.NoError(t, err)
	assert.True(t, res.Partial)
	require.Len(t, res.Companies, 2)
	assert.Equal(t, "Valid One", res.Companies[0].Name)
	assert.Equal(t, "Valid Two", res.Companies[1].Name)
}

func TestParseJSON_ZeroValidItems(t *testing.T) {
	_, err := ParseJSON([]byte(`[{"tagline": "nameless"}, 42]`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resolvable name")
}

func TestParseJSON_InvalidJSON(t *testing.T) {
	_, err := ParseJSON([]byte(`{not json`))
	require.Error(t, err)
}

func TestParseJSON_UnsupportedShape(t *testing.T) {
	_, err := ParseJSON([]byte(`"just a string"`))
	require.Error(t, err)
}

func TestParseJSON_TruncatesExtraQuarters(t *testing.T) {
	data := []byte(`{
		"name": "Lots Of Quarters",
		"quarterly_data": [
			{"quarter": "Q1"}, {"quarter": "Q2"}, {"quarter": "Q3"},
			{"quarter": "Q4"}, {"quarter": "Q1 again"}, {"quarter": "Q2 again"}
		]
	}`)

	res, err := ParseJSON(data)
	require.NoError(t, err)
	require.Len(t, res.Companies[0].Quarters, 4)
	assert.Equal(t, "Q4", res.Companies[0].Quarters[3].Quarter)
}

func TestParseJSON_NonObjectQuarterEntries(t *testing.T) {
	data := []byte(`{"name": "Odd", "quarterly_data": ["Q1", {"quarter": "Q2"}]}`)

	res, err := ParseJSON(data)
	require.NoError(t, err)
	qs := res.Companies[0].Quarters
	require.Len(t, qs, 4)
	assert.Equal(t, "Q2", qs[0].Quarter) // the bad entry is dropped, real data first
	assert.Equal(t, "Q1", qs[1].Quarter)
	assert.Equal(t, "Q3", qs[2].Quarter)
	assert.Equal(t, "Q4", qs[3].Quarter)
}

func TestParseJSON_BackfillSkipsProvidedQuarters(t *testing.T) {
	data := []byte(`{
		"name": "Sparse Co",
		"quarterly_data": [{"quarter": "Q2", "perception_score": 150}]
	}`)

	res, err := ParseJSON(data)
	require.NoError(t, err)
	qs := res.Companies[0].Quarters
	require.Len(t, qs, 4)

	counts := map[string]int{}
	for _, q := range qs {
		counts[q.Quarter]++
	}
	// Each code exactly once: a synthetic default must never share a code
	// with a real quarter, or it could overwrite it during normalization.
	for _, code := range []string{"Q1", "Q2", "Q3", "Q4"} {
		assert.Equal(t, 1, counts[code], code)
	}
	assert.Equal(t, "Q2", qs[0].Quarter)
	assert.Equal(t, 150.0, qs[0].PerceptionScore)
}

func TestParseInput_IDResolutionOrder(t *testing.T) {
	res, err := ParseInput(map[string]any{"id": "Explicit ID", "slug": "the-slug", "name": "Name Co"})
	require.NoError(t, err)
	assert.Equal(t, "explicit-id", res.Companies[0].ID)

	res, err = ParseInput(map[string]any{"slug": "the-slug", "name": "Name Co"})
	require.NoError(t, err)
	assert.Equal(t, "the-slug", res.Companies[0].ID)

	res, err = ParseInput(map[string]any{"name": "Name Co"})
	require.NoError(t, err)
	assert.Equal(t, "name-co", res.Companies[0].ID)
}
