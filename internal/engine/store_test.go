package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnStore_RoundTrip(t *testing.T) {
	t.Parallel()

	ds := New(WithSeed(3)).Generate()
	cs := NewColumnStore(ds)

	require.Len(t, cs.CountryDict, 5)
	assert.Equal(t, 1990, cs.FirstYear)
	assert.Equal(t, 29, cs.NumYears)
	assert.Len(t, cs.Values, 5*29)

	assert.Equal(t, ds, cs.Dataset())
}

func TestColumnStore_Lookups(t *testing.T) {
	t.Parallel()

	cs := NewColumnStore(New(WithoutNoise()).Generate())

	cid, ok := cs.CountryID("China")
	require.True(t, ok)
	v, err := cs.At(cid, 2001)
	require.NoError(t, err)
	assert.Equal(t, 3737.0, v)

	_, ok = cs.CountryID("Atlantis")
	assert.False(t, ok)

	_, err = cs.At(cid, 2019)
	assert.ErrorIs(t, err, ErrInvalidRange)
	_, err = cs.At(42, 2000)
	assert.Error(t, err)

	total, err := cs.YearTotal(1990)
	require.NoError(t, err)
	assert.Equal(t, 1500.0+3000+1000+2500+350, total)

	_, err = cs.YearTotal(1989)
	assert.ErrorIs(t, err, ErrInvalidRange)
}
