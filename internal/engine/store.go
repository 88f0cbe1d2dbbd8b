package engine

import (
	"fmt"

	"emissions/internal/models"
)

// ColumnStore holds a dataset in Struct-of-Arrays format.
// Values is flattened [Country][Year] -> [CountryID*NumYears + (Year-FirstYear)].
type ColumnStore struct {
	Values []float64

	// Dictionary (ID -> Country)
	CountryDict []string

	FirstYear int
	NumYears  int

	// Descriptive columns, one per country
	Sources []string
	Sectors []string
	Gases   []string
	Units   []string
}

// NewColumnStore flattens ds. Missing country-years are stored as zero.
func NewColumnStore(ds *models.Dataset) *ColumnStore {
	cs := &ColumnStore{NumYears: len(ds.Years)}
	if cs.NumYears > 0 {
		cs.FirstYear = ds.Years[0]
	}
	cs.Values = make([]float64, len(ds.Series)*cs.NumYears)

	for cid, s := range ds.Series {
		cs.CountryDict = append(cs.CountryDict, s.Country)
		cs.Sources = append(cs.Sources, s.Source)
		cs.Sectors = append(cs.Sectors, s.Sector)
		cs.Gases = append(cs.Gases, s.Gas)
		cs.Units = append(cs.Units, s.Unit)

		row := cs.Values[cid*cs.NumYears : (cid+1)*cs.NumYears]
		for i := range row {
			row[i] = s.Values[cs.FirstYear+i]
		}
	}
	return cs
}

// Dataset converts the store back into the view contract.
func (cs *ColumnStore) Dataset() *models.Dataset {
	ds := &models.Dataset{
		Series: make([]models.CountrySeries, 0, len(cs.CountryDict)),
		Years:  Years(cs.FirstYear, cs.FirstYear+cs.NumYears-1),
	}
	for cid, name := range cs.CountryDict {
		s := models.CountrySeries{
			Country: name,
			Source:  cs.Sources[cid],
			Sector:  cs.Sectors[cid],
			Gas:     cs.Gases[cid],
			Unit:    cs.Units[cid],
			Values:  make(map[int]float64, cs.NumYears),
		}
		for i, v := range cs.Row(cid) {
			s.Values[cs.FirstYear+i] = v
		}
		ds.Series = append(ds.Series, s)
	}
	return ds
}

// Row returns the values of one country, indexed from FirstYear.
func (cs *ColumnStore) Row(cid int) []float64 {
	return cs.Values[cid*cs.NumYears : (cid+1)*cs.NumYears]
}

// CountryID resolves a name through the dictionary.
func (cs *ColumnStore) CountryID(name string) (int, bool) {
	for i, c := range cs.CountryDict {
		if c == name {
			return i, true
		}
	}
	return 0, false
}

// At returns the value of country cid in year.
func (cs *ColumnStore) At(cid, year int) (float64, error) {
	idx := year - cs.FirstYear
	if cid < 0 || cid >= len(cs.CountryDict) {
		return 0, fmt.Errorf("country id %d out of range", cid)
	}
	if idx < 0 || idx >= cs.NumYears {
		return 0, &InvalidRangeError{From: year, To: year}
	}
	return cs.Values[cid*cs.NumYears+idx], nil
}

// YearTotal sums every country for year.
func (cs *ColumnStore) YearTotal(year int) (float64, error) {
	idx := year - cs.FirstYear
	if idx < 0 || idx >= cs.NumYears {
		return 0, &InvalidRangeError{From: year, To: year}
	}
	var total float64
	for cid := range cs.CountryDict {
		total += cs.Values[cid*cs.NumYears+idx]
	}
	return total, nil
}
