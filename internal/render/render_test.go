package render

import (
	"bytes"
	"image/png"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"emissions/internal/dashboard"
	"emissions/internal/engine"
)

func TestLineChart(t *testing.T) {
	t.Parallel()

	ds := engine.New(engine.WithSeed(1)).Generate()
	for _, mode := range []dashboard.Mode{dashboard.ModeTotal, dashboard.ModePerCapita} {
		var buf bytes.Buffer
		require.NoError(t, LineChart(&buf, ds, mode))

		img, err := png.Decode(&buf)
		require.NoError(t, err)
		assert.Equal(t, chartWidth, img.Bounds().Dx())
		assert.Equal(t, chartHeight, img.Bounds().Dy())
	}
}

func TestLineChart_TooShort(t *testing.T) {
	t.Parallel()

	ds, err := engine.New().GenerateRange(2000, 2000)
	require.NoError(t, err)
	assert.Error(t, LineChart(&bytes.Buffer{}, ds, dashboard.ModeTotal))
}

func TestAxisName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Emissions (Mt CO2e)", axisName(dashboard.ModeTotal))
	assert.Equal(t, "Emissions per capita (t CO2e per person)", axisName(dashboard.ModePerCapita))
}

func TestSectorChart(t *testing.T) {
	t.Parallel()

	ds := engine.New(engine.WithoutNoise()).Generate()

	var buf bytes.Buffer
	require.NoError(t, SectorChart(&buf, ds, 2010))
	_, err := png.Decode(&buf)
	require.NoError(t, err)

	assert.Error(t, SectorChart(&bytes.Buffer{}, ds, 2030))
}

func TestReport(t *testing.T) {
	t.Parallel()

	ds := engine.New(engine.WithoutNoise()).Generate()

	var buf bytes.Buffer
	require.NoError(t, Report(&buf, ds, 2001))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "<!doctype html>"))
	assert.Contains(t, out, "China joins WTO")
	assert.Contains(t, out, "data:image/png;base64,")
	assert.Contains(t, out, "<td>3737</td>")
	assert.Equal(t, 2, strings.Count(out, "<img "))

	assert.Error(t, Report(&bytes.Buffer{}, ds, 1989))
}

func TestFmtPercent(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "+1.5%", fmtPercent(1.5))
	assert.Equal(t, "-2.0%", fmtPercent(-2))
	assert.Equal(t, "N/A", fmtPercent(math.NaN()))
	assert.Equal(t, "up", changeClass(3))
	assert.Equal(t, "down", changeClass(-3))
	assert.Equal(t, "neutral", changeClass(0.1))
}
