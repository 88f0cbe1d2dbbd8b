package engine

import (
	"math"
	"math/rand/v2"

	"github.com/zeebo/xxh3"

	"emissions/internal/models"
)

const (
	defaultNoiseLo = 0.98
	defaultNoiseHi = 1.02
)

// Noise yields the multiplicative perturbation for one country-year.
type Noise interface {
	Factor() float64
}

type uniformNoise struct {
	r        *rand.Rand
	lo, span float64
}

func (n *uniformNoise) Factor() float64 { return n.lo + n.r.Float64()*n.span }

type fixedNoise float64

func (f fixedNoise) Factor() float64 { return float64(f) }

// Generator synthesises emission series from a set of growth models.
// It is immutable after New and safe for concurrent use. Every call draws
// one stream per country, keyed on the seed and the country name, so a
// country's values do not depend on the year range or on which other
// countries are requested.
type Generator struct {
	models []Model
	index  map[string]int

	noise  bool
	lo, hi float64
	seeded bool
	seed   uint64
}

type Option func(*Generator)

// WithSeed makes every call replay the same noise stream.
func WithSeed(seed uint64) Option {
	return func(g *Generator) {
		g.seed = seed
		g.seeded = true
	}
}

// WithoutNoise fixes the noise factor at 1.0.
func WithoutNoise() Option {
	return func(g *Generator) { g.noise = false }
}

// WithNoiseBand replaces the [0.98, 1.02] band. A band with lo <= 0,
// lo > hi or a non-finite bound is ignored and the default band is kept, so
// values stay positive.
func WithNoiseBand(lo, hi float64) Option {
	return func(g *Generator) {
		if !(lo > 0 && lo <= hi) || math.IsInf(hi, 0) {
			return
		}
		g.lo, g.hi = lo, hi
	}
}

// WithModels replaces the built-in BRICS models.
func WithModels(ms ...Model) Option {
	return func(g *Generator) {
		g.models = append([]Model(nil), ms...)
	}
}

func New(opts ...Option) *Generator {
	g := &Generator{
		models: DefaultModels(),
		noise:  true,
		lo:     defaultNoiseLo,
		hi:     defaultNoiseHi,
	}
	for _, o := range opts {
		o(g)
	}
	g.index = make(map[string]int, len(g.models))
	for i, m := range g.models {
		g.index[m.Country] = i
	}
	return g
}

// Reseed returns a copy of g bound to seed.
func (g *Generator) Reseed(seed uint64) *Generator {
	cp := *g
	cp.seed = seed
	cp.seeded = true
	return &cp
}

// Seed returns the fixed seed, if any.
func (g *Generator) Seed() (uint64, bool) { return g.seed, g.seeded }

// Noisy reports whether noise is applied.
func (g *Generator) Noisy() bool { return g.noise }

// Models returns a copy of the registered models in output order.
func (g *Generator) Models() []Model {
	return append([]Model(nil), g.models...)
}

// Generate produces every registered country over the full year range.
func (g *Generator) Generate() *models.Dataset {
	return g.generate(g.models, FirstYear, LastYear)
}

// GenerateRange produces every registered country over [from, to].
func (g *Generator) GenerateRange(from, to int) (*models.Dataset, error) {
	return g.Select(from, to)
}

// GenerateCountries produces the named countries over the full range, in the
// order given.
func (g *Generator) GenerateCountries(names ...string) (*models.Dataset, error) {
	return g.Select(FirstYear, LastYear, names...)
}

// Select validates the range and the country names before generating
// anything. No names means every registered country.
func (g *Generator) Select(from, to int, names ...string) (*models.Dataset, error) {
	if err := CheckRange(from, to); err != nil {
		return nil, err
	}
	ms := g.models
	if len(names) > 0 {
		ms = make([]Model, 0, len(names))
		for _, n := range names {
			i, ok := g.index[n]
			if !ok {
				return nil, &UnknownCountryError{Country: n}
			}
			ms = append(ms, g.models[i])
		}
	}
	return g.generate(ms, from, to), nil
}

// callSeed is the seed shared by every country of one call.
func (g *Generator) callSeed() uint64 {
	if g.seeded || !g.noise {
		return g.seed
	}
	return rand.Uint64()
}

func (g *Generator) noiseFor(seed uint64, country string) Noise {
	if !g.noise {
		return fixedNoise(1)
	}
	return &uniformNoise{
		r:    rand.New(rand.NewPCG(seed, xxh3.HashString(country))),
		lo:   g.lo,
		span: g.hi - g.lo,
	}
}

func (g *Generator) generate(ms []Model, from, to int) *models.Dataset {
	seed := g.callSeed()
	ds := &models.Dataset{
		Series: make([]models.CountrySeries, 0, len(ms)),
		Years:  Years(from, to),
	}
	for _, m := range ms {
		ds.Series = append(ds.Series, synthesize(m, g.noiseFor(seed, m.Country), from, to))
	}
	return ds
}

// synthesize always simulates from FirstYear so that a sub-range is a slice
// of the full series for the same seed. The rule also runs for FirstYear
// to seed the running state, but the stored FirstYear value is the base.
func synthesize(m Model, noise Noise, from, to int) models.CountrySeries {
	s := models.CountrySeries{
		Country: m.Country,
		Source:  SourceLabel,
		Sector:  SectorAll,
		Gas:     GasAll,
		Unit:    Unit,
		Values:  make(map[int]float64, to-from+1),
	}

	running := m.Base
	for year := FirstYear; year <= to; year++ {
		running = evaluate(m.Rule, m.Base, year, running)
		running *= noise.Factor()

		if year < from {
			continue
		}
		if year == FirstYear {
			s.Values[year] = m.Base
			continue
		}
		s.Values[year] = math.Round(running)
	}
	return s
}
