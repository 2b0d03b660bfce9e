package destiny

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"memelaunch-sim/internal/domain"
	"memelaunch-sim/internal/rng"
)

func TestFromValue_Thresholds(t *testing.T) {
	tests := []struct {
		v    float64
		want domain.Destiny
	}{
		{0, domain.DestinyGraduated},
		{0.0499, domain.DestinyGraduated},
		{0.05, domain.DestinyDeath5Min},
		{0.3999, domain.DestinyDeath5Min},
		{0.40, domain.DestinyDeath10Min},
		{0.60, domain.DestinyRugPull},
		{0.7499, domain.DestinyRugPull},
		{0.75, domain.DestinySurvival},
		{0.9999, domain.DestinySurvival},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FromValue(tt.v), "v=%f", tt.v)
	}
}

func TestSelect_Distribution(t *testing.T) {
	const draws = 100_000
	src := rng.New(20240601)

	counts := make(map[domain.Destiny]int)
	for i := 0; i < draws; i++ {
		counts[Select(src)]++
	}

	for d, p := range Probabilities() {
		observed := float64(counts[d]) / draws
		// ~5 standard deviations of a binomial proportion at n=100k
		assert.InDelta(t, p, observed, 0.008, "destiny %s", d)
	}
}

func TestProbabilities_SumToOne(t *testing.T) {
	var sum float64
	for _, p := range Probabilities() {
		sum += p
	}
	assert.InDelta(t, 1.0, sum, 1e-12)
	assert.InDelta(t, 0.35, Probabilities()[domain.DestinyDeath5Min], 1e-12)
}
