package dashboard

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"emissions/internal/models"
	"emissions/internal/reference"
)

// growthLookback is how far back the "fastest growing" card compares.
const growthLookback = 5

var printer = message.NewPrinter(language.English)

func mt(v float64) string {
	return printer.Sprintf("%d", int64(math.Round(v)))
}

func total(ds *models.Dataset, year int) float64 {
	var sum float64
	for _, s := range ds.Series {
		sum += s.Values[year]
	}
	return sum
}

func largest(ds *models.Dataset, year int) (string, float64) {
	var name string
	var best float64
	for _, s := range ds.Series {
		if v := s.Values[year]; v > best {
			name, best = s.Country, v
		}
	}
	return name, best
}

// firstYear is the earliest year the dataset covers.
func firstYear(ds *models.Dataset) int {
	if len(ds.Years) == 0 {
		return 0
	}
	return ds.Years[0]
}

// BuildNarrative writes the era paragraphs for year plus the event of the
// year, if one is on record.
func BuildNarrative(ds *models.Dataset, year int) (models.Narrative, error) {
	if !ds.HasYear(year) {
		return models.Narrative{}, fmt.Errorf("%w: %d", ErrUnknownYear, year)
	}
	sum := total(ds, year)
	leader, leaderValue := largest(ds, year)

	var paras []string
	switch {
	case year <= 1995:
		paras = []string{
			printer.Sprintf("In the early 1990s, BRICS countries contributed approximately %s Mt CO2e to global emissions. %s was the largest emitter among them, reflecting its industrial legacy.", mt(sum), leader),
			"This period saw the 1992 Earth Summit in Rio de Janeiro, where the UN Framework Convention on Climate Change was established, marking the beginning of global climate negotiations.",
		}
	case year <= 2000:
		paras = []string{
			printer.Sprintf("In the late 1990s, %s became the largest emitter among BRICS countries with %s Mt CO2e.", leader, mt(leaderValue)),
			"The Kyoto Protocol was adopted in 1997, setting binding emission reduction targets for developed countries. As developing economies, most BRICS nations were exempt from reduction obligations.",
		}
	case year <= 2010:
		share := 0.0
		if sum > 0 {
			share = leaderValue / sum * 100
		}
		paras = []string{
			"The 2000s marked a period of rapid industrialization in China, which became the largest emitter among BRICS countries.",
			printer.Sprintf("By %d, total BRICS emissions had reached %s Mt CO2e, with %s accounting for %.0f%% of this total.", year, mt(sum), leader, share),
			"The 2008 global financial crisis temporarily slowed emissions growth in some BRICS countries as industrial output decreased.",
		}
	default:
		paras = []string{
			printer.Sprintf("In %d, BRICS countries collectively emitted approximately %s Mt CO2e, with %s contributing the largest share at %s Mt CO2e.", year, mt(sum), leader, mt(leaderValue)),
			"The Paris Agreement, signed in 2015, saw all BRICS nations pledge to combat climate change. China committed to peaking emissions around 2030, while India focused on increasing renewable energy capacity.",
		}
	}

	n := models.Narrative{Paragraphs: paras}
	if e, ok := reference.EventFor(year); ok {
		n.Event = &e
	}
	return n, nil
}

// BuildInsights computes the key insight cards for year. The previous and
// comparison years are clamped to the first year of the dataset.
func BuildInsights(ds *models.Dataset, year int) (models.Insights, error) {
	if !ds.HasYear(year) {
		return models.Insights{}, fmt.Errorf("%w: %d", ErrUnknownYear, year)
	}
	first := firstYear(ds)
	prev := max(year-1, first)
	compare := max(year-growthLookback, first)

	in := models.Insights{
		Year:        year,
		Total:       total(ds, year),
		PrevYear:    prev,
		CompareYear: compare,
	}

	if prevTotal := total(ds, prev); prevTotal > 0 {
		in.YoYChangePct = (in.Total - prevTotal) / prevTotal * 100
	}

	in.LargestEmitter, in.LargestValue = largest(ds, year)
	if in.Total > 0 {
		in.LargestSharePct = in.LargestValue / in.Total * 100
	}

	for _, s := range ds.Series {
		base := s.Values[compare]
		if base <= 0 {
			continue
		}
		growth := (s.Values[year] - base) / base * 100
		if growth > in.FastestGrowthPct {
			in.FastestGrowing, in.FastestGrowthPct = s.Country, growth
		}
	}
	return in, nil
}
