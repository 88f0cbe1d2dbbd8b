package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html"
	"io"
	"math"
	"strings"

	"emissions/internal/dashboard"
	"emissions/internal/models"
	"emissions/internal/reference"
)

// helper: signed percent with one decimal, "N/A" for NaN
func fmtPercent(pct float64) string {
	if math.IsNaN(pct) || math.IsInf(pct, 0) {
		return "N/A"
	}
	sign := ""
	if pct >= 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.1f%%", sign, pct)
}

// positive -> red (more emissions), negative -> green
func changeClass(pct float64) string {
	switch {
	case pct > 0.5:
		return "up"
	case pct < -0.5:
		return "down"
	}
	return "neutral"
}

// Report writes a self-contained HTML page for year: insight cards,
// narrative, both charts inlined as PNG data URIs and the full table.
func Report(w io.Writer, ds *models.Dataset, year int) error {
	insights, err := dashboard.BuildInsights(ds, year)
	if err != nil {
		return err
	}
	narrative, err := dashboard.BuildNarrative(ds, year)
	if err != nil {
		return err
	}

	var line, sectors bytes.Buffer
	if err := LineChart(&line, ds, dashboard.ModeTotal); err != nil {
		return fmt.Errorf("line chart: %w", err)
	}
	if err := SectorChart(&sectors, ds, year); err != nil {
		return fmt.Errorf("sector chart: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("<!doctype html><html><head><meta charset='utf-8'><title>BRICS Emissions</title>")
	sb.WriteString("<style>body{font-family:sans-serif;margin:24px}table{border-collapse:collapse}td,th{border:1px solid #ddd;padding:4px 8px;text-align:right}th:first-child,td:first-child{text-align:left}.up{color:#c0392b}.down{color:#27ae60}.neutral{color:#7f8c8d}.cards{display:flex;gap:16px}.card{border:1px solid #ddd;padding:12px}</style>")
	sb.WriteString("</head><body>")
	sb.WriteString(fmt.Sprintf("<h1>BRICS greenhouse-gas emissions, %d</h1>", year))

	// cards
	sb.WriteString("<div class='cards'>")
	sb.WriteString(fmt.Sprintf("<div class='card'><h4>Total emissions</h4><p>%.0f Mt CO2e</p><p class='%s'>%s from %d</p></div>",
		insights.Total, changeClass(insights.YoYChangePct), fmtPercent(insights.YoYChangePct), insights.PrevYear))
	sb.WriteString(fmt.Sprintf("<div class='card'><h4>Largest emitter</h4><p>%s</p><p>%.0f Mt CO2e (%.0f%% of total)</p></div>",
		html.EscapeString(insights.LargestEmitter), insights.LargestValue, insights.LargestSharePct))
	if insights.FastestGrowing != "" {
		sb.WriteString(fmt.Sprintf("<div class='card'><h4>Fastest growing</h4><p>%s</p><p>%s since %d</p></div>",
			html.EscapeString(insights.FastestGrowing), fmtPercent(insights.FastestGrowthPct), insights.CompareYear))
	}
	sb.WriteString("</div>")

	// narrative
	for _, p := range narrative.Paragraphs {
		sb.WriteString("<p>" + html.EscapeString(p) + "</p>")
	}
	if e := narrative.Event; e != nil {
		sb.WriteString(fmt.Sprintf("<div class='event'><h3>%d: %s</h3><p>%s</p></div>",
			e.Year, html.EscapeString(e.Title), html.EscapeString(e.Description)))
	}

	// charts
	sb.WriteString("<img alt='emissions over time' src='data:image/png;base64," + base64.StdEncoding.EncodeToString(line.Bytes()) + "'>")
	sb.WriteString("<img alt='emissions by sector' src='data:image/png;base64," + base64.StdEncoding.EncodeToString(sectors.Bytes()) + "'>")

	// table
	sb.WriteString("<table><thead><tr><th>Country</th>")
	for _, y := range ds.Years {
		sb.WriteString(fmt.Sprintf("<th>%d</th>", y))
	}
	sb.WriteString("</tr></thead><tbody>")
	for _, s := range ds.Series {
		sb.WriteString(fmt.Sprintf("<tr><td style='color:%s'>%s</td>", reference.ColorOf(s.Country), html.EscapeString(s.Country)))
		for _, y := range ds.Years {
			sb.WriteString(fmt.Sprintf("<td>%.0f</td>", s.Values[y]))
		}
		sb.WriteString("</tr>")
	}
	sb.WriteString("</tbody></table></body></html>")

	_, err = io.WriteString(w, sb.String())
	return err
}
