package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"countries/internal/country/models"
)

func TestSampleCountries(t *testing.T) {
	samples, err := SampleCountries()
	require.NoError(t, err)
	require.Len(t, samples, 60)

	perContinent := map[string]int{}
	seen := map[string]bool{}
	for _, in := range samples {
		require.NoError(t, in.Validate(), "sample %q must be valid", in.Name)
		assert.False(t, seen[in.Name], "duplicate sample %q", in.Name)
		seen[in.Name] = true
		perContinent[in.Continent]++
	}
	assert.Equal(t, 10, perContinent[string(models.ContinentAsia)])
	assert.Equal(t, 10, perContinent[string(models.ContinentAustralia)])
	assert.Zero(t, perContinent[string(models.ContinentAntarctica)])
	assert.Equal(t, "Nuku'alofa", *samples[59].Capital)
}
