package engine

const (
	// FirstYear and LastYear bound every series, inclusive.
	FirstYear = 1990
	LastYear  = 2018

	SourceLabel = "Synthetic"
	SectorAll   = "All"
	GasAll      = "All GHG"
	Unit        = "Mt CO2 equivalent"
)

// Model is the growth model of a single country: its 1990 emission and the
// rule that evolves it.
type Model struct {
	Country string
	Base    float64
	Rule    GrowthRule
}

// DefaultModels returns the five BRICS models in dashboard order.
func DefaultModels() []Model {
	return []Model{
		{
			Country: "Brazil",
			Base:    1500,
			Rule:    SteadyPeakDecline{Growth: 0.02, PeakYear: 2004, PeakValue: 2700, Decline: 0.01},
		},
		{
			Country: "Russia",
			Base:    3000,
			Rule:    SteadyDropGrowth{SteadyUntil: 1991, DropUntil: 1998, DropTo: 2200, Growth: 0.01},
		},
		{
			Country: "India",
			Base:    1000,
			Rule:    AccelerateOnce{Growth: 0.04, Year: 2002, Accelerated: 0.06},
		},
		{
			Country: "China",
			Base:    2500,
			Rule:    AccelerateThenSlow{Growth: 0.03, AccelYear: 2001, Accelerated: 0.08, SlowYear: 2012, Slowed: 0.03},
		},
		{
			Country: "South Africa",
			Base:    350,
			Rule:    Plateau{Growth: 0.02, Year: 2010, Plateau: 0.005},
		},
	}
}

// Years returns from..to inclusive.
func Years(from, to int) []int {
	if to < from {
		return nil
	}
	out := make([]int, 0, to-from+1)
	for y := from; y <= to; y++ {
		out = append(out, y)
	}
	return out
}
