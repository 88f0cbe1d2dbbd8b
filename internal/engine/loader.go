package engine

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"
	"unsafe"

	"github.com/labstack/gommon/log"
)

// Wide CSV layout (ClimateWatch export):
// Country,Data source,Sector,Gas,Unit,1990,1991,...
const wideLeadingColumns = 5

// --- 1. FAST ZERO-ALLOC PARSERS ---

func unsafeToString(b []byte) string {
	return unsafe.String(unsafe.SliceData(b), len(b))
}

// fastInt parses "123" -> 123
func fastInt(b []byte) (int, bool) {
	if len(b) == 0 {
		return 0, false
	}
	var n int
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}

// fastFloat parses "123.45" -> 123.45
func fastFloat(b []byte) (float64, bool) {
	if len(b) == 0 {
		return 0, false
	}
	var num float64
	var i int
	for i < len(b) && b[i] != '.' {
		if b[i] < '0' || b[i] > '9' {
			return 0, false
		}
		num = num*10 + float64(b[i]-'0')
		i++
	}
	if i < len(b) {
		i++
		div := 10.0
		for i < len(b) {
			if b[i] < '0' || b[i] > '9' {
				return 0, false
			}
			num += float64(b[i]-'0') / div
			div *= 10
			i++
		}
	}
	return num, true
}

// --- 2. LOADER ---

// LoadWide reads a wide emissions CSV from path.
func LoadWide(path string) (*ColumnStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ParseWide(f)
}

// ParseWide reads a wide emissions CSV. Year columns must be contiguous and
// inside [FirstYear, LastYear]; every cell must hold a number.
func ParseWide(r io.Reader) (*ColumnStore, error) {
	start := time.Now()

	content, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	// A. Header
	header, content, _ := bytes.Cut(content, []byte{'\n'})
	header = bytes.TrimSuffix(header, []byte{'\r'})
	first, numYears, err := parseWideHeader(header)
	if err != nil {
		return nil, err
	}

	store := &ColumnStore{FirstYear: first, NumYears: numYears}
	seen := make(map[string]struct{})
	sep := []byte{','}

	// B. Rows
	for lineNo := 2; len(content) > 0; lineNo++ {
		var line []byte
		line, content, _ = bytes.Cut(content, []byte{'\n'})
		line = bytes.TrimSuffix(line, []byte{'\r'})
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}

		name, rest, found := bytes.Cut(line, sep)
		if !found {
			return nil, fmt.Errorf("line %d: expected %d leading columns", lineNo, wideLeadingColumns)
		}
		if _, dup := seen[unsafeToString(name)]; dup {
			return nil, fmt.Errorf("line %d: duplicate country %q", lineNo, name)
		}

		var lead [wideLeadingColumns]string
		lead[0] = string(name)
		seen[lead[0]] = struct{}{}
		for i := 1; i < wideLeadingColumns; i++ {
			field, tail, found := bytes.Cut(rest, sep)
			if !found {
				return nil, fmt.Errorf("line %d: expected %d leading columns", lineNo, wideLeadingColumns)
			}
			lead[i] = string(field)
			rest = tail
		}

		row := make([]float64, numYears)
		for i := 0; i < numYears; i++ {
			field, tail, found := bytes.Cut(rest, sep)
			if !found && i != numYears-1 {
				return nil, fmt.Errorf("line %d: expected %d year columns, got %d", lineNo, numYears, i+1)
			}
			if found && i == numYears-1 {
				return nil, fmt.Errorf("line %d: expected %d year columns, got more", lineNo, numYears)
			}
			v, ok := fastFloat(bytes.TrimSpace(field))
			if !ok {
				return nil, fmt.Errorf("line %d: bad value %q for %d", lineNo, field, first+i)
			}
			row[i] = v
			rest = tail
		}

		store.CountryDict = append(store.CountryDict, lead[0])
		store.Sources = append(store.Sources, lead[1])
		store.Sectors = append(store.Sectors, lead[2])
		store.Gases = append(store.Gases, lead[3])
		store.Units = append(store.Units, lead[4])
		store.Values = append(store.Values, row...)
	}

	log.Infof("wide csv loaded: %d countries x %d years in %v", len(store.CountryDict), numYears, time.Since(start))
	return store, nil
}

func parseWideHeader(header []byte) (first, numYears int, err error) {
	fields := bytes.Split(header, []byte{','})
	if len(fields) <= wideLeadingColumns {
		return 0, 0, fmt.Errorf("header has no year columns")
	}
	years := fields[wideLeadingColumns:]
	for i, f := range years {
		y, ok := fastInt(bytes.TrimSpace(f))
		if !ok {
			return 0, 0, fmt.Errorf("header column %q is not a year", f)
		}
		if i == 0 {
			first = y
		} else if y != first+i {
			return 0, 0, fmt.Errorf("header years are not contiguous at %d", y)
		}
	}
	last := first + len(years) - 1
	if err := CheckRange(first, last); err != nil {
		return 0, 0, err
	}
	return first, len(years), nil
}
