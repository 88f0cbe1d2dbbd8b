package engine

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWide(t *testing.T) {
	csvContent := []byte("Country,Data source,Sector,Gas,Unit,2000,2001,2002\r\n" +
		"Brazil,CAIT,Energy,CO2,Mt CO2 equivalent,10.5,11,12.5\r\n" +
		"India,CAIT,Energy,CO2,Mt CO2 equivalent,20,21.5,23\n" +
		"\n")

	path := filepath.Join(t.TempDir(), "wide.csv")
	require.NoError(t, os.WriteFile(path, csvContent, 0o600))

	store, err := LoadWide(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"Brazil", "India"}, store.CountryDict)
	assert.Equal(t, 2000, store.FirstYear)
	assert.Equal(t, 3, store.NumYears)
	assert.Equal(t, []float64{10.5, 11, 12.5, 20, 21.5, 23}, store.Values)
	assert.Equal(t, "CAIT", store.Sources[1])
	assert.Equal(t, "Energy", store.Sectors[0])

	ds := store.Dataset()
	assert.Equal(t, []int{2000, 2001, 2002}, ds.Years)
	assert.Equal(t, 21.5, ds.Series[1].Values[2001])
}

func TestLoadWide_MissingFile(t *testing.T) {
	_, err := LoadWide(filepath.Join(t.TempDir(), "nope.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseWide_Errors(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"no years":        "Country,Data source,Sector,Gas,Unit\n",
		"bad year":        "Country,Data source,Sector,Gas,Unit,abc\n",
		"gap in years":    "Country,Data source,Sector,Gas,Unit,2000,2002\n",
		"short row":       "Country,Data source,Sector,Gas,Unit,2000,2001\nBrazil,S,A,G,U,1\n",
		"bad value":       "Country,Data source,Sector,Gas,Unit,2000\nBrazil,S,A,G,U,N/A\n",
		"empty value":     "Country,Data source,Sector,Gas,Unit,2000,2001\nBrazil,S,A,G,U,,1\n",
		"missing columns": "Country,Data source,Sector,Gas,Unit,2000\nBrazil,S\n",
		"duplicate":       "Country,Data source,Sector,Gas,Unit,2000\nBrazil,S,A,G,U,1\nBrazil,S,A,G,U,2\n",
		"extra columns":   "Country,Data source,Sector,Gas,Unit,1990,1991\nBrazil,S,All,All GHG,Mt,1500,1530,9999,garbage\n",
		"trailing value":  "Country,Data source,Sector,Gas,Unit,2000\nBrazil,S,A,G,U,1,2\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseWide(strings.NewReader(body))
			assert.Error(t, err)
		})
	}
}

func TestParseWide_OutOfRangeYears(t *testing.T) {
	t.Parallel()

	_, err := ParseWide(strings.NewReader("Country,Data source,Sector,Gas,Unit,1989,1990\n"))
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = ParseWide(strings.NewReader("Country,Data source,Sector,Gas,Unit,2018,2019\n"))
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestFastHelpers(t *testing.T) {
	f, ok := fastFloat([]byte("123.45"))
	assert.True(t, ok)
	assert.InDelta(t, 123.45, f, 1e-9)

	i, ok := fastInt([]byte("99"))
	assert.True(t, ok)
	assert.Equal(t, 99, i)

	_, ok = fastFloat([]byte("1e5"))
	assert.False(t, ok)
	_, ok = fastInt([]byte(""))
	assert.False(t, ok)
}
