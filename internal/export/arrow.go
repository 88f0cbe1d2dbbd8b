package export

import (
	"fmt"
	"io"
	"sort"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/ipc"
	"github.com/apache/arrow/go/v18/arrow/memory"

	"emissions/internal/engine"
	"emissions/internal/models"
)

// Long layout: one row per country-year.
var arrowSchema = arrow.NewSchema([]arrow.Field{
	{Name: "country", Type: arrow.BinaryTypes.String},
	{Name: "data_source", Type: arrow.BinaryTypes.String},
	{Name: "sector", Type: arrow.BinaryTypes.String},
	{Name: "gas", Type: arrow.BinaryTypes.String},
	{Name: "unit", Type: arrow.BinaryTypes.String},
	{Name: "year", Type: arrow.PrimitiveTypes.Int32},
	{Name: "emissions", Type: arrow.PrimitiveTypes.Float64},
}, nil)

// WriteArrow writes ds as a single-record Arrow IPC stream.
func WriteArrow(w io.Writer, ds *models.Dataset) error {
	mem := memory.NewGoAllocator()

	b := array.NewRecordBuilder(mem, arrowSchema)
	defer b.Release()

	country := b.Field(0).(*array.StringBuilder)
	source := b.Field(1).(*array.StringBuilder)
	sector := b.Field(2).(*array.StringBuilder)
	gas := b.Field(3).(*array.StringBuilder)
	unit := b.Field(4).(*array.StringBuilder)
	year := b.Field(5).(*array.Int32Builder)
	value := b.Field(6).(*array.Float64Builder)

	for _, s := range ds.Series {
		for _, y := range ds.Years {
			country.Append(s.Country)
			source.Append(s.Source)
			sector.Append(s.Sector)
			gas.Append(s.Gas)
			unit.Append(s.Unit)
			year.Append(int32(y))
			value.Append(s.Values[y])
		}
	}

	rec := b.NewRecord()
	defer rec.Release()

	iw := ipc.NewWriter(w, ipc.WithSchema(arrowSchema), ipc.WithAllocator(mem))
	if err := iw.Write(rec); err != nil {
		iw.Close()
		return fmt.Errorf("write arrow record: %w", err)
	}
	return iw.Close()
}

// ReadArrow reads a stream written by WriteArrow. Series keep the order of
// first appearance; years are sorted.
func ReadArrow(r io.Reader) (*models.Dataset, error) {
	mem := memory.NewGoAllocator()
	rdr, err := ipc.NewReader(r, ipc.WithAllocator(mem))
	if err != nil {
		return nil, fmt.Errorf("open arrow stream: %w", err)
	}
	defer rdr.Release()

	if !rdr.Schema().Equal(arrowSchema) {
		return nil, fmt.Errorf("unexpected arrow schema: %s", rdr.Schema())
	}

	ds := &models.Dataset{}
	index := map[string]int{}
	years := map[int]struct{}{}

	for rdr.Next() {
		rec := rdr.Record()
		country := rec.Column(0).(*array.String)
		source := rec.Column(1).(*array.String)
		sector := rec.Column(2).(*array.String)
		gas := rec.Column(3).(*array.String)
		unit := rec.Column(4).(*array.String)
		year := rec.Column(5).(*array.Int32)
		value := rec.Column(6).(*array.Float64)

		for i := 0; i < int(rec.NumRows()); i++ {
			name := country.Value(i)
			idx, ok := index[name]
			if !ok {
				idx = len(ds.Series)
				index[name] = idx
				ds.Series = append(ds.Series, models.CountrySeries{
					Country: name,
					Source:  source.Value(i),
					Sector:  sector.Value(i),
					Gas:     gas.Value(i),
					Unit:    unit.Value(i),
					Values:  map[int]float64{},
				})
			}
			y := int(year.Value(i))
			ds.Series[idx].Values[y] = value.Value(i)
			years[y] = struct{}{}
		}
	}
	if err := rdr.Err(); err != nil {
		return nil, err
	}

	for y := range years {
		ds.Years = append(ds.Years, y)
	}
	sort.Ints(ds.Years)
	if err := checkComplete(ds); err != nil {
		return nil, err
	}
	return ds, nil
}

// checkComplete holds an Arrow file to the same rules as the wide CSV:
// contiguous years inside the supported range and a value for every
// country-year.
func checkComplete(ds *models.Dataset) error {
	if len(ds.Series) == 0 {
		return fmt.Errorf("arrow stream holds no rows")
	}
	first, last := ds.Years[0], ds.Years[len(ds.Years)-1]
	if err := engine.CheckRange(first, last); err != nil {
		return err
	}
	if len(ds.Years) != last-first+1 {
		return fmt.Errorf("arrow years are not contiguous between %d and %d", first, last)
	}
	for _, s := range ds.Series {
		if len(s.Values) != len(ds.Years) {
			for _, y := range ds.Years {
				if _, ok := s.Values[y]; !ok {
					return fmt.Errorf("arrow stream has no value for %s@%d", s.Country, y)
				}
			}
		}
	}
	return nil
}
