// Package mockgen produces deterministic demo companies from an integer
// seed, for tests and demos that need stable data without real randomness.
package mockgen

import (
	"fmt"
	"math"

	"github.com/adtech-insider/insight-cli/internal/model"
)

// seededRandom returns the fractional part of sin(seed)*10000, a cheap
// deterministic pseudo-random value in [0,1).
func seededRandom(seed float64) float64 {
	x := math.Sin(seed) * 10000
	return x - math.Floor(x)
}

// CreateMockCompany builds a fully-populated input company from a seed.
// The same seed always yields the same company: four quarters with
// perception roughly in 60-95 and intensity roughly in 65-95.
func CreateMockCompany(seed int) model.InputCompany {
	r := func(offset int) float64 {
		return seededRandom(float64(seed + offset))
	}

	name := fmt.Sprintf("Mock Company %d", seed)
	quarters := make([]model.InputQuarter, 0, 4)
	for i, code := range model.AllQuarters {
		quarters = append(quarters, model.InputQuarter{
			Quarter:         string(code),
			MainTheme:       fmt.Sprintf("Theme Q%d", i+1),
			BrandPerception: "Innovation",
			IntensityScore:  math.Round(65 + r(i*10)*30),
			PerceptionScore: math.Round(60 + r(i*10+1)*35),
			KeyActivities:   []string{"Activity 1", "Activity 2", "Activity 3"},
		})
	}

	return model.InputCompany{
		ID:           fmt.Sprintf("mock-%d", seed),
		Name:         name,
		Tagline:      fmt.Sprintf("AI-powered advertising platform %d", seed),
		Overview:     fmt.Sprintf("Mock company %d overview.", seed),
		Strategy2025: fmt.Sprintf("2025 strategy for %s.", name),
		Offerings:    []string{"Platform A", "Platform B", "Platform C"},
		Quarters:     quarters,
	}
}
