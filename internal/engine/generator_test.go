package engine

import (
	"errors"
	"math"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"emissions/internal/models"
)

func mustFind(t *testing.T, ds *models.Dataset, country string) models.CountrySeries {
	t.Helper()
	s, ok := ds.Find(country)
	require.True(t, ok, "missing %s", country)
	return s
}

func TestGenerate_ShapeAndOrder(t *testing.T) {
	t.Parallel()

	ds := New(WithoutNoise()).Generate()

	require.Len(t, ds.Series, 5)
	require.Len(t, ds.Years, 29)
	assert.Equal(t, 1990, ds.Years[0])
	assert.Equal(t, 2018, ds.Years[28])

	want := []string{"Brazil", "Russia", "India", "China", "South Africa"}
	for i, s := range ds.Series {
		assert.Equal(t, want[i], s.Country)
		assert.Len(t, s.Values, 29)
		assert.Equal(t, "Synthetic", s.Source)
		assert.Equal(t, "All", s.Sector)
		assert.Equal(t, "All GHG", s.Gas)
		assert.Equal(t, "Mt CO2 equivalent", s.Unit)
	}
}

func TestGenerate_NoNoiseGoldens(t *testing.T) {
	t.Parallel()

	ds := New(WithoutNoise()).Generate()

	cases := []struct {
		country string
		year    int
		want    float64
	}{
		{"Brazil", 1990, 1500},
		{"Brazil", 2003, 1979},
		{"Brazil", 2004, 2700},
		{"Brazil", 2005, 2673},
		{"Russia", 1991, 3000},
		{"Russia", 1998, 2200},
		{"Russia", 1999, 2222},
		{"India", 2001, 1601},
		{"India", 2002, 1697},
		{"China", 2000, 3461},
		{"China", 2001, math.Round(2500 * math.Pow(1.03, 11) * 1.08)},
		{"China", 2001, 3737},
		{"China", 2011, 8069},
		{"China", 2012, 8311},
		{"South Africa", 2009, 520},
		{"South Africa", 2010, 523},
	}
	for _, tc := range cases {
		got, ok := mustFind(t, ds, tc.country).At(tc.year)
		require.True(t, ok)
		assert.Equal(t, tc.want, got, "%s@%d", tc.country, tc.year)
	}
}

func TestGenerate_BranchMultipliers(t *testing.T) {
	t.Parallel()

	// Rounded values hide the exact rate, so compare against the running
	// state recomputed here.
	china := DefaultModels()[3]
	running := china.Base
	for y := FirstYear; y <= LastYear; y++ {
		prev := running
		running = evaluate(china.Rule, china.Base, y, running)
		switch {
		case y < 2001:
			assert.InDelta(t, 1.03, running/prev, 1e-12, "year %d", y)
		case y < 2012:
			assert.InDelta(t, 1.08, running/prev, 1e-12, "year %d", y)
		default:
			assert.InDelta(t, 1.03, running/prev, 1e-12, "year %d", y)
		}
	}

	india := DefaultModels()[2]
	v2001 := india.Base * math.Pow(1.04, 12)
	assert.InDelta(t, v2001*1.06, evaluate(india.Rule, india.Base, 2002, v2001), 1e-9)
	assert.InDelta(t, v2001*1.04, evaluate(india.Rule, india.Base, 2001, v2001), 1e-9)
}

func TestGenerate_BaseYearIsBaseConstant(t *testing.T) {
	t.Parallel()

	for _, seed := range []uint64{1, 7, 99} {
		ds := New(WithSeed(seed)).Generate()
		for i, m := range DefaultModels() {
			assert.Equal(t, m.Base, ds.Series[i].Values[1990], "seed %d %s", seed, m.Country)
		}
	}
}

func TestGenerate_PositiveIntegers(t *testing.T) {
	t.Parallel()

	for seed := uint64(0); seed < 20; seed++ {
		ds := New(WithSeed(seed)).Generate()
		for _, s := range ds.Series {
			for _, y := range ds.Years {
				v := s.Values[y]
				require.Greater(t, v, 0.0, "%s@%d", s.Country, y)
				require.False(t, math.IsInf(v, 0) || math.IsNaN(v))
				require.Equal(t, math.Trunc(v), v, "%s@%d not integral", s.Country, y)
			}
		}
	}
}

func TestGenerate_Idempotent(t *testing.T) {
	t.Parallel()

	assert.Equal(t, New(WithoutNoise()).Generate(), New(WithoutNoise()).Generate())

	g := New(WithSeed(1234))
	assert.Equal(t, g.Generate(), g.Generate())
	assert.NotEqual(t, g.Generate(), New(WithSeed(4321)).Generate())
}

func TestGenerate_RussiaDrop(t *testing.T) {
	t.Parallel()

	russia := mustFind(t, New(WithoutNoise()).Generate(), "Russia")

	prev := russia.Values[1991]
	for y := 1992; y <= 1998; y++ {
		v := russia.Values[y]
		assert.LessOrEqual(t, v, prev, "year %d", y)
		if y < 1998 {
			assert.Less(t, v, 3000.0)
			assert.Greater(t, v, 2200.0)
		}
		prev = v
	}
}

func TestGenerate_RussiaDropIgnoresNoise(t *testing.T) {
	t.Parallel()

	// The interpolation is anchored on the static base, so the drop years
	// only carry that year's own noise.
	ds := New(WithSeed(5)).Generate()
	russia := mustFind(t, ds, "Russia")
	for y := 1992; y <= 1998; y++ {
		exact := 3000 - float64(y-1991)/7*800
		assert.InDelta(t, exact, russia.Values[y], exact*0.02+1, "year %d", y)
	}
}

func TestGenerateRange(t *testing.T) {
	t.Parallel()

	g := New(WithSeed(77))
	full := g.Generate()

	sub, err := g.GenerateRange(2000, 2005)
	require.NoError(t, err)
	assert.Equal(t, []int{2000, 2001, 2002, 2003, 2004, 2005}, sub.Years)
	for i, s := range sub.Series {
		assert.Len(t, s.Values, 6)
		for _, y := range sub.Years {
			assert.Equal(t, full.Series[i].Values[y], s.Values[y])
		}
	}
}

func TestSelect_MatchesFullSeries(t *testing.T) {
	t.Parallel()

	g := New(WithSeed(77))
	full := g.Generate()

	china, err := g.GenerateCountries("China")
	require.NoError(t, err)
	assert.Equal(t, mustFind(t, full, "China"), china.Series[0])

	// order and range of the selection must not shift any country's noise
	sub, err := g.Select(1995, 2003, "South Africa", "Russia", "India")
	require.NoError(t, err)
	for _, s := range sub.Series {
		want := mustFind(t, full, s.Country)
		for _, y := range sub.Years {
			assert.Equal(t, want.Values[y], s.Values[y], "%s@%d", s.Country, y)
		}
	}
}

func TestGenerateRange_Invalid(t *testing.T) {
	t.Parallel()

	g := New()
	for _, r := range [][2]int{{1989, 2000}, {1990, 2019}, {2005, 2000}, {2019, 2020}} {
		ds, err := g.GenerateRange(r[0], r[1])
		assert.Nil(t, ds)
		require.ErrorIs(t, err, ErrInvalidRange)

		var re *InvalidRangeError
		require.True(t, errors.As(err, &re))
		assert.Equal(t, r[0], re.From)
		assert.Equal(t, r[1], re.To)
	}
}

func TestGenerateCountries(t *testing.T) {
	t.Parallel()

	g := New(WithoutNoise())
	ds, err := g.GenerateCountries("China", "India")
	require.NoError(t, err)
	require.Len(t, ds.Series, 2)
	assert.Equal(t, "China", ds.Series[0].Country)
	assert.Equal(t, "India", ds.Series[1].Country)
	assert.Equal(t, 3737.0, ds.Series[0].Values[2001])

	_, err = g.GenerateCountries("India", "Atlantis")
	require.ErrorIs(t, err, ErrUnknownCountry)
	var ue *UnknownCountryError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "Atlantis", ue.Country)
}

func TestWithModels(t *testing.T) {
	t.Parallel()

	g := New(WithoutNoise(), WithModels(Model{
		Country: "Flatland",
		Base:    100,
		Rule:    Plateau{Growth: 0, Year: 2000, Plateau: 0},
	}))
	ds := g.Generate()
	require.Len(t, ds.Series, 1)
	for _, y := range ds.Years {
		assert.Equal(t, 100.0, ds.Series[0].Values[y])
	}
}

func TestWithNoiseBand(t *testing.T) {
	t.Parallel()

	g := New(WithNoiseBand(0.5, 1.5))
	assert.Equal(t, 0.5, g.lo)
	assert.Equal(t, 1.5, g.hi)

	for _, band := range [][2]float64{{0, 1}, {-1, 1}, {1.2, 1.1}, {math.NaN(), 1}, {0.9, math.Inf(1)}} {
		g := New(WithSeed(3), WithNoiseBand(band[0], band[1]))
		assert.Equal(t, defaultNoiseLo, g.lo, "band %v", band)
		assert.Equal(t, defaultNoiseHi, g.hi, "band %v", band)
		for _, s := range g.Generate().Series {
			for _, v := range s.Values {
				require.Greater(t, v, 0.0)
			}
		}
	}
}

func TestUniformNoise_Band(t *testing.T) {
	t.Parallel()

	n := &uniformNoise{r: rand.New(rand.NewPCG(1, 2)), lo: defaultNoiseLo, span: defaultNoiseHi - defaultNoiseLo}
	for i := 0; i < 10000; i++ {
		f := n.Factor()
		require.GreaterOrEqual(t, f, 0.98)
		require.LessOrEqual(t, f, 1.02)
	}
	assert.Equal(t, 1.0, fixedNoise(1).Factor())
}

func TestGenerate_ConcurrentCalls(t *testing.T) {
	t.Parallel()

	g := New(WithSeed(9))
	want := g.Generate()

	var wg sync.WaitGroup
	results := make([]*models.Dataset, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = g.Generate()
		}()
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}
