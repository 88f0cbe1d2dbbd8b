// Package reference holds the fixed lookup tables the dashboard uses next to
// the emission series: colours, sector shares, population, historical events
// and map coordinates.
package reference

import (
	"math"
	"sort"

	"emissions/internal/models"
)

// Countries in dashboard order.
var Countries = []string{"Brazil", "Russia", "India", "China", "South Africa"}

// Sectors in stacked-bar order.
var Sectors = []string{"Energy", "Industrial Processes", "Agriculture", "Waste", "Land-Use Change"}

var CountryColors = map[string]string{
	"Brazil":       "#2ecc71",
	"Russia":       "#3498db",
	"India":        "#f1c40f",
	"China":        "#e74c3c",
	"South Africa": "#9b59b6",
}

var SectorColors = map[string]string{
	"Energy":               "#e67e22",
	"Industrial Processes": "#f39c12",
	"Agriculture":          "#16a085",
	"Waste":                "#27ae60",
	"Land-Use Change":      "#2980b9",
}

// SectorProportions splits a country's total by sector. Each row sums to 1.
var SectorProportions = map[string]map[string]float64{
	"Brazil":       {"Energy": 0.33, "Industrial Processes": 0.07, "Agriculture": 0.32, "Waste": 0.05, "Land-Use Change": 0.23},
	"Russia":       {"Energy": 0.78, "Industrial Processes": 0.11, "Agriculture": 0.06, "Waste": 0.03, "Land-Use Change": 0.02},
	"India":        {"Energy": 0.68, "Industrial Processes": 0.08, "Agriculture": 0.16, "Waste": 0.03, "Land-Use Change": 0.05},
	"China":        {"Energy": 0.73, "Industrial Processes": 0.14, "Agriculture": 0.09, "Waste": 0.02, "Land-Use Change": 0.02},
	"South Africa": {"Energy": 0.80, "Industrial Processes": 0.10, "Agriculture": 0.05, "Waste": 0.03, "Land-Use Change": 0.02},
}

// Population in millions at the census years.
var Population = map[string]map[int]float64{
	"Brazil":       {1990: 149.4, 2000: 174.8, 2010: 195.7, 2018: 209.5},
	"Russia":       {1990: 147.7, 2000: 146.6, 2010: 142.8, 2018: 144.5},
	"India":        {1990: 873.3, 2000: 1056.6, 2010: 1234.3, 2018: 1352.6},
	"China":        {1990: 1135.2, 2000: 1262.6, 2010: 1337.7, 2018: 1392.7},
	"South Africa": {1990: 36.8, 2000: 44.0, 2010: 51.2, 2018: 57.8},
}

// Coordinates are map marker positions as [lon, lat].
var Coordinates = map[string][2]float64{
	"Brazil":       {-55, -15},
	"Russia":       {90, 60},
	"India":        {80, 22},
	"China":        {105, 35},
	"South Africa": {25, -30},
}

var Events = []models.HistoricalEvent{
	{Year: 1992, Title: "Earth Summit", Description: "The United Nations Conference on Environment and Development (Earth Summit) was held in Rio de Janeiro. It resulted in the UN Framework Convention on Climate Change, which set non-binding limits on greenhouse gas emissions for individual countries."},
	{Year: 1997, Title: "Kyoto Protocol", Description: "The Kyoto Protocol was adopted, committing industrialized countries to reduce greenhouse gas emissions. While Russia eventually ratified it, other BRICS nations were not obligated to reduce emissions as developing countries."},
	{Year: 2001, Title: "China joins WTO", Description: "China's entry into the World Trade Organization accelerated its industrial growth and export-oriented manufacturing, leading to a significant increase in emissions in the following years."},
	{Year: 2008, Title: "Global Financial Crisis", Description: "The economic downturn temporarily reduced emissions growth in BRICS countries, particularly affecting industrial output and energy consumption in Russia and Brazil."},
	{Year: 2015, Title: "Paris Agreement", Description: "All BRICS countries signed the Paris Agreement, pledging to limit global warming. China committed to peaking its carbon emissions by around 2030, while India focused on increasing renewable energy capacity."},
}

// EventFor returns the event of year, if any.
func EventFor(year int) (models.HistoricalEvent, bool) {
	for _, e := range Events {
		if e.Year == year {
			return e, true
		}
	}
	return models.HistoricalEvent{}, false
}

// PopulationAt returns the population of the census year closest to year.
// On a tie the earlier census year wins.
func PopulationAt(country string, year int) (float64, bool) {
	byYear, ok := Population[country]
	if !ok || len(byYear) == 0 {
		return 0, false
	}
	census := make([]int, 0, len(byYear))
	for y := range byYear {
		census = append(census, y)
	}
	sort.Ints(census)

	best := census[0]
	for _, y := range census[1:] {
		if math.Abs(float64(y-year)) < math.Abs(float64(best-year)) {
			best = y
		}
	}
	return byYear[best], true
}

// ColorOf returns the country colour, grey for unknown countries.
func ColorOf(country string) string {
	if c, ok := CountryColors[country]; ok {
		return c
	}
	return "#95a5a6"
}
