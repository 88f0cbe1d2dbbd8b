// Package dashboard derives what the dashboard shows for one year from a
// dataset: map circles, line points, the sector split, narrative text and key
// insights. The selected year, view mode and sector country travel in a View
// value; nothing here keeps state between calls.
package dashboard

import (
	"errors"
	"fmt"
	"math"

	"emissions/internal/models"
	"emissions/internal/reference"
)

type Mode string

const (
	ModeTotal     Mode = "total"
	ModePerCapita Mode = "perCapita"
)

var (
	ErrUnknownYear    = errors.New("year not in dataset")
	ErrUnknownCountry = errors.New("country not in dataset")
	ErrUnknownMode    = errors.New("unknown view mode")
)

// View is the user's current selection.
type View struct {
	Year    int
	Mode    Mode
	Country string // stacked-bar country; empty means the first series
}

// ParseMode accepts "total", "perCapita" or the empty string (total).
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeTotal:
		return ModeTotal, nil
	case ModePerCapita:
		return ModePerCapita, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Build assembles the full snapshot for v.
func Build(ds *models.Dataset, v View) (*models.DashboardData, error) {
	if !ds.HasYear(v.Year) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownYear, v.Year)
	}
	mode, err := ParseMode(string(v.Mode))
	if err != nil {
		return nil, err
	}
	country := v.Country
	if country == "" && len(ds.Series) > 0 {
		country = ds.Series[0].Country
	}

	circles, err := MapCircles(ds, v.Year)
	if err != nil {
		return nil, err
	}
	lines, err := LinePoints(ds, mode)
	if err != nil {
		return nil, err
	}
	sectors, err := Sectors(ds, country, v.Year)
	if err != nil {
		return nil, err
	}
	narrative, err := BuildNarrative(ds, v.Year)
	if err != nil {
		return nil, err
	}
	insights, err := BuildInsights(ds, v.Year)
	if err != nil {
		return nil, err
	}

	return &models.DashboardData{
		Year:      v.Year,
		Mode:      string(mode),
		Circles:   circles,
		Lines:     lines,
		Sectors:   sectors,
		Country:   country,
		Narrative: narrative,
		Insights:  insights,
		Event:     narrative.Event,
	}, nil
}

// PerCapita divides value by the population of the census year closest to
// year.
func PerCapita(country string, year int, value float64) (float64, error) {
	pop, ok := reference.PopulationAt(country, year)
	if !ok || pop == 0 {
		return 0, fmt.Errorf("%w: no population for %q", ErrUnknownCountry, country)
	}
	return value / pop, nil
}

// LinePoints flattens the dataset into chart points, country-major.
func LinePoints(ds *models.Dataset, mode Mode) ([]models.LinePoint, error) {
	out := make([]models.LinePoint, 0, len(ds.Series)*len(ds.Years))
	for _, s := range ds.Series {
		for _, y := range ds.Years {
			v := s.Values[y]
			if mode == ModePerCapita {
				pc, err := PerCapita(s.Country, y, v)
				if err != nil {
					return nil, err
				}
				v = pc
			}
			out = append(out, models.LinePoint{Country: s.Country, Year: y, Value: v})
		}
	}
	return out, nil
}

// Sectors splits the country's total for year by the fixed sector shares.
func Sectors(ds *models.Dataset, country string, year int) ([]models.SectorShare, error) {
	s, ok := ds.Find(country)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCountry, country)
	}
	total, ok := s.At(year)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownYear, year)
	}
	props, ok := reference.SectorProportions[country]
	if !ok {
		return nil, fmt.Errorf("%w: no sector split for %q", ErrUnknownCountry, country)
	}

	out := make([]models.SectorShare, 0, len(reference.Sectors))
	for _, sector := range reference.Sectors {
		out = append(out, models.SectorShare{
			Sector: sector,
			Value:  total * props[sector],
			Color:  reference.SectorColors[sector],
		})
	}
	return out, nil
}

// MapCircles places one marker per country; radius is sqrt(value)/10.
func MapCircles(ds *models.Dataset, year int) ([]models.MapCircle, error) {
	if !ds.HasYear(year) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownYear, year)
	}
	out := make([]models.MapCircle, 0, len(ds.Series))
	for _, s := range ds.Series {
		coord, ok := reference.Coordinates[s.Country]
		if !ok {
			// not drawable on the map
			continue
		}
		v := s.Values[year]
		out = append(out, models.MapCircle{
			Country: s.Country,
			Lon:     coord[0],
			Lat:     coord[1],
			Value:   v,
			Radius:  math.Sqrt(v) / 10,
			Color:   reference.ColorOf(s.Country),
		})
	}
	return out, nil
}
