// Package export writes datasets in the formats the dashboard and external
// tools consume.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"emissions/internal/models"
)

type Format string

const (
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatArrow Format = "arrow"
)

var Formats = []Format{FormatCSV, FormatJSON, FormatYAML, FormatArrow}

func ParseFormat(s string) (Format, error) {
	switch s {
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "arrow", "ipc":
		return FormatArrow, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// Write encodes ds to w in format f.
func Write(w io.Writer, ds *models.Dataset, f Format) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, ds)
	case FormatJSON:
		return WriteJSON(w, ds)
	case FormatYAML:
		return WriteYAML(w, ds)
	case FormatArrow:
		return WriteArrow(w, ds)
	}
	return fmt.Errorf("unknown export format %q", f)
}

// WriteCSV writes the wide layout read back by engine.ParseWide:
// Country,Data source,Sector,Gas,Unit,<year>...
func WriteCSV(w io.Writer, ds *models.Dataset) error {
	cw := csv.NewWriter(w)

	header := []string{"Country", "Data source", "Sector", "Gas", "Unit"}
	for _, y := range ds.Years {
		header = append(header, strconv.Itoa(y))
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, s := range ds.Series {
		row := []string{s.Country, s.Source, s.Sector, s.Gas, s.Unit}
		for _, y := range ds.Years {
			row = append(row, strconv.FormatFloat(s.Values[y], 'f', -1, 64))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func WriteYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
