package mockgen

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adtech-insider/insight-cli/internal/model"
	"github.com/adtech-insider/insight-cli/internal/normalize"
)

func TestCreateMockCompany_Deterministic(t *testing.T) {
	first := CreateMockCompany(42)
	second := CreateMockCompany(42)
	assert.Equal(t, first, second)

	other := CreateMockCompany(43)
	assert.NotEqual(t, first.Quarters, other.Quarters)
}

func TestCreateMockCompany_Shape(t *testing.T) {
	c := CreateMockCompany(7)

	assert.Equal(t, "mock-7", c.ID)
	assert.Equal(t, "Mock Company 7", c.Name)
	require.Len(t, c.Quarters, 4)

	for _, q := range c.Quarters {
		assert.Equal(t, "Innovation", q.BrandPerception)
		assert.GreaterOrEqual(t, q.PerceptionScore, 60.0)
		assert.LessOrEqual(t, q.PerceptionScore, 95.0)
		assert.GreaterOrEqual(t, q.IntensityScore, 65.0)
		assert.LessOrEqual(t, q.IntensityScore, 95.0)
		assert.Len(t, q.KeyActivities, 3)
	}

	// Intensity draws from the even seed offsets and perception from the
	// odd ones, so the two series never share a sample.
	r0 := seededRandom(7)
	r1 := seededRandom(8)
	assert.Equal(t, math.Round(65+r0*30), c.Quarters[0].IntensityScore)
	assert.Equal(t, math.Round(60+r1*35), c.Quarters[0].PerceptionScore)
}

func TestCreateMockCompany_NormalizesCleanly(t *testing.T) {
	companies := normalize.Normalize([]model.InputCompany{
		CreateMockCompany(1),
		CreateMockCompany(2),
	})

	require.Len(t, companies, 2)
	for _, c := range companies {
		require.Len(t, c.QuarterlyData, 4)
		for _, q := range c.QuarterlyData {
			assert.GreaterOrEqual(t, q.PerceptionScore, 0)
			assert.LessOrEqual(t, q.PerceptionScore, 100)
		}
	}
}
