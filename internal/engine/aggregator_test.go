package engine

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunEnsemble(t *testing.T) {
	t.Parallel()

	var done atomic.Int64
	gen := New(WithSeed(100))
	ens, err := RunEnsemble(context.Background(), gen, 40, 4, func() { done.Add(1) })
	require.NoError(t, err)

	assert.Equal(t, int64(40), done.Load())
	assert.Equal(t, 40, ens.Runs)
	require.Len(t, ens.Bands, 5)
	assert.Len(t, ens.Years, 29)

	for i, band := range ens.Bands {
		m := DefaultModels()[i]
		assert.Equal(t, m.Country, band.Country)

		// 1990 is the base constant in every run
		assert.Equal(t, m.Base, band.Mean[1990])
		assert.Equal(t, m.Base, band.Min[1990])
		assert.Equal(t, m.Base, band.Max[1990])

		for _, y := range ens.Years {
			assert.LessOrEqual(t, band.Min[y], band.Mean[y])
			assert.LessOrEqual(t, band.Mean[y], band.Max[y])
		}
	}
}

func TestRunEnsemble_Reproducible(t *testing.T) {
	t.Parallel()

	gen := New(WithSeed(8))
	a, err := RunEnsemble(context.Background(), gen, 12, 3, nil)
	require.NoError(t, err)
	b, err := RunEnsemble(context.Background(), gen, 12, 5, nil)
	require.NoError(t, err)

	// worker count changes the merge order of sums, not min/max
	for i := range a.Bands {
		assert.Equal(t, a.Bands[i].Min, b.Bands[i].Min)
		assert.Equal(t, a.Bands[i].Max, b.Bands[i].Max)
		for y, v := range a.Bands[i].Mean {
			assert.InDelta(t, v, b.Bands[i].Mean[y], 1e-6)
		}
	}
}

func TestRunEnsemble_SingleRunMatchesGenerate(t *testing.T) {
	t.Parallel()

	gen := New(WithSeed(55))
	ens, err := RunEnsemble(context.Background(), gen, 1, 0, nil)
	require.NoError(t, err)

	ds := gen.Generate()
	for i, band := range ens.Bands {
		assert.Equal(t, ds.Series[i].Values, band.Mean)
	}
}

func TestRunEnsemble_Errors(t *testing.T) {
	t.Parallel()

	_, err := RunEnsemble(context.Background(), New(), 0, 1, nil)
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = RunEnsemble(ctx, New(), 10, 2, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
