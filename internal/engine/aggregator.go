package engine

import (
	"context"
	"errors"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"emissions/internal/models"
)

type partialAgg struct {
	// Flattened [Country][Year] -> [Country*NumYears + YearIdx]
	sum []float64
	min []float64
	max []float64
}

func newPartialAgg(size int) *partialAgg {
	p := &partialAgg{
		sum: make([]float64, size),
		min: make([]float64, size),
		max: make([]float64, size),
	}
	for i := range p.min {
		p.min[i] = math.Inf(1)
		p.max[i] = math.Inf(-1)
	}
	return p
}

func (p *partialAgg) add(cs *ColumnStore) {
	for i, v := range cs.Values {
		p.sum[i] += v
		if v < p.min[i] {
			p.min[i] = v
		}
		if v > p.max[i] {
			p.max[i] = v
		}
	}
}

func (p *partialAgg) merge(o *partialAgg) {
	for i := range p.sum {
		p.sum[i] += o.sum[i]
		if o.min[i] < p.min[i] {
			p.min[i] = o.min[i]
		}
		if o.max[i] > p.max[i] {
			p.max[i] = o.max[i]
		}
	}
}

// RunEnsemble generates runs realisations and reduces them to per-country
// mean/min/max bands. Run i uses seed base+i, where base is gen's fixed seed
// (zero when unseeded), so an ensemble is reproducible. workers <= 0 means
// one per CPU. onRun, when set, is called from the worker goroutines after
// every finished run.
func RunEnsemble(ctx context.Context, gen *Generator, runs, workers int, onRun func()) (*models.Ensemble, error) {
	if runs <= 0 {
		return nil, errors.New("ensemble needs at least one run")
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > runs {
		workers = runs
	}

	base, _ := gen.Seed()
	numCountries := len(gen.models)
	numYears := LastYear - FirstYear + 1
	size := numCountries * numYears

	// 1. Parallel loop, one partial per worker
	partials := make([]*partialAgg, workers)
	chunk := runs / workers
	g, ctx := errgroup.WithContext(ctx)

	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if w == workers-1 {
			end = runs
		}

		g.Go(func() error {
			p := newPartialAgg(size)
			for run := start; run < end; run++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				ds := gen.Reseed(base + uint64(run)).Generate()
				p.add(NewColumnStore(ds))
				if onRun != nil {
					onRun()
				}
			}
			partials[w] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// 2. Merge phase
	final := newPartialAgg(size)
	for _, p := range partials {
		final.merge(p)
	}

	// 3. Build result
	out := &models.Ensemble{
		Runs:  runs,
		Years: Years(FirstYear, LastYear),
		Bands: make([]models.CountryBand, 0, numCountries),
	}
	for cid, m := range gen.models {
		band := models.CountryBand{
			Country: m.Country,
			Mean:    make(map[int]float64, numYears),
			Min:     make(map[int]float64, numYears),
			Max:     make(map[int]float64, numYears),
		}
		for yi := 0; yi < numYears; yi++ {
			idx := cid*numYears + yi
			year := FirstYear + yi
			band.Mean[year] = final.sum[idx] / float64(runs)
			band.Min[year] = final.min[idx]
			band.Max[year] = final.max[idx]
		}
		out.Bands = append(out.Bands, band)
	}
	return out, nil
}
