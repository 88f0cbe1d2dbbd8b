package reference

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSectorProportionsSumToOne(t *testing.T) {
	t.Parallel()

	for _, c := range Countries {
		props, ok := SectorProportions[c]
		require.True(t, ok, c)
		var sum float64
		for _, s := range Sectors {
			sum += props[s]
		}
		assert.InDelta(t, 1.0, sum, 1e-9, c)
	}
}

func TestTablesCoverEveryCountry(t *testing.T) {
	t.Parallel()

	for _, c := range Countries {
		assert.Contains(t, CountryColors, c)
		assert.Contains(t, Population, c)
		assert.Contains(t, Coordinates, c)
	}
}

func TestPopulationAt(t *testing.T) {
	t.Parallel()

	cases := []struct {
		year int
		want float64
	}{
		{1990, 873.3},
		{1994, 873.3},
		{1995, 873.3}, // tie keeps the earlier census
		{1996, 1056.6},
		{2014, 1234.3},
		{2015, 1352.6},
		{2018, 1352.6},
	}
	for _, tc := range cases {
		got, ok := PopulationAt("India", tc.year)
		require.True(t, ok)
		assert.Equal(t, tc.want, got, "year %d", tc.year)
	}

	_, ok := PopulationAt("Atlantis", 2000)
	assert.False(t, ok)
}

func TestEventFor(t *testing.T) {
	t.Parallel()

	e, ok := EventFor(1997)
	require.True(t, ok)
	assert.Equal(t, "Kyoto Protocol", e.Title)

	_, ok = EventFor(1996)
	assert.False(t, ok)
}

func TestColorOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "#e74c3c", ColorOf("China"))
	assert.Equal(t, "#95a5a6", ColorOf("Atlantis"))
}
