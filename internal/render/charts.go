package render

import (
	"fmt"
	"io"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"emissions/internal/dashboard"
	"emissions/internal/models"
	"emissions/internal/reference"
)

const (
	chartWidth  = 960
	chartHeight = 540
)

func hexColor(hex string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}

func yearFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return fmt.Sprintf("%.0f", f)
	}
	return ""
}

// LineChart draws every country over every year as a PNG.
func LineChart(w io.Writer, ds *models.Dataset, mode dashboard.Mode) error {
	if len(ds.Years) < 2 {
		return fmt.Errorf("line chart needs at least two years, got %d", len(ds.Years))
	}
	points, err := dashboard.LinePoints(ds, mode)
	if err != nil {
		return err
	}

	n := len(ds.Years)
	series := make([]chart.Series, 0, len(ds.Series))
	for i, s := range ds.Series {
		xs := make([]float64, n)
		ys := make([]float64, n)
		for j, p := range points[i*n : (i+1)*n] {
			xs[j] = float64(p.Year)
			ys[j] = p.Value
		}
		col := hexColor(reference.ColorOf(s.Country))
		series = append(series, chart.ContinuousSeries{
			Name:    s.Country,
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: col,
				StrokeWidth: 2,
				DotColor:    col,
				DotWidth:    2,
			},
		})
	}

	graph := chart.Chart{
		Title:      "BRICS greenhouse-gas emissions",
		Width:      chartWidth,
		Height:     chartHeight,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      chart.XAxis{Name: "Year", ValueFormatter: yearFormatter},
		YAxis:      chart.YAxis{Name: axisName(mode)},
		Series:     series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	return graph.Render(chart.PNG, w)
}

func axisName(mode dashboard.Mode) string {
	if mode == dashboard.ModePerCapita {
		return "Emissions per capita (t CO2e per person)"
	}
	return "Emissions (Mt CO2e)"
}

// SectorChart draws one stacked bar per country for year, split by sector.
func SectorChart(w io.Writer, ds *models.Dataset, year int) error {
	bars := make([]chart.StackedBar, 0, len(ds.Series))
	for _, s := range ds.Series {
		shares, err := dashboard.Sectors(ds, s.Country, year)
		if err != nil {
			return err
		}
		values := make([]chart.Value, 0, len(shares))
		for _, sh := range shares {
			col := hexColor(sh.Color)
			values = append(values, chart.Value{
				Label: sh.Sector,
				Value: sh.Value,
				Style: chart.Style{FillColor: col, StrokeColor: col},
			})
		}
		bars = append(bars, chart.StackedBar{Name: s.Country, Values: values})
	}

	sbc := chart.StackedBarChart{
		Title:      fmt.Sprintf("Emissions by sector, %d", year),
		Width:      chartWidth,
		Height:     chartHeight,
		Background: chart.Style{Padding: chart.Box{Top: 40}},
		BarSpacing: 40,
		Bars:       bars,
	}
	return sbc.Render(chart.PNG, w)
}
