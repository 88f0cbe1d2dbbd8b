package engine

// GrowthRule is the piecewise shape that moves a country's running emission
// from one year to the next before noise is applied. The set of variants is
// closed; evaluate is the only place that interprets them.
type GrowthRule interface {
	isGrowthRule()
	// Name is the variant name used in logs and exports.
	Name() string
}

// SteadyPeakDecline grows until PeakYear, snaps to PeakValue in that exact
// year and declines afterwards.
type SteadyPeakDecline struct {
	Growth    float64
	PeakYear  int
	PeakValue float64
	Decline   float64
}

// SteadyDropGrowth holds steady, then drops linearly from the base value to
// DropTo, then grows. The drop is anchored on the unperturbed base, not on
// the running value.
type SteadyDropGrowth struct {
	SteadyUntil int
	DropUntil   int
	DropTo      float64
	Growth      float64
}

// AccelerateOnce switches from Growth to Accelerated starting at Year.
type AccelerateOnce struct {
	Growth      float64
	Year        int
	Accelerated float64
}

// AccelerateThenSlow has three regimes split at AccelYear and SlowYear.
type AccelerateThenSlow struct {
	Growth      float64
	AccelYear   int
	Accelerated float64
	SlowYear    int
	Slowed      float64
}

// Plateau grows at Growth until Year and at the much smaller Plateau rate
// from Year on.
type Plateau struct {
	Growth  float64
	Year    int
	Plateau float64
}

func (SteadyPeakDecline) isGrowthRule()  {}
func (SteadyDropGrowth) isGrowthRule()   {}
func (AccelerateOnce) isGrowthRule()     {}
func (AccelerateThenSlow) isGrowthRule() {}
func (Plateau) isGrowthRule()            {}

func (SteadyPeakDecline) Name() string  { return "steady-peak-decline" }
func (SteadyDropGrowth) Name() string   { return "steady-drop-growth" }
func (AccelerateOnce) Name() string     { return "accelerate-once" }
func (AccelerateThenSlow) Name() string { return "accelerate-then-slow" }
func (Plateau) Name() string            { return "plateau" }

// evaluate applies rule for year to the running value. base is the model's
// 1990 constant, only SteadyDropGrowth reads it.
func evaluate(rule GrowthRule, base float64, year int, running float64) float64 {
	switch r := rule.(type) {
	case SteadyPeakDecline:
		switch {
		case year == r.PeakYear:
			return r.PeakValue
		case year < r.PeakYear:
			return running * (1 + r.Growth)
		default:
			return running * (1 - r.Decline)
		}

	case SteadyDropGrowth:
		switch {
		case year <= r.SteadyUntil:
			return running
		case year <= r.DropUntil:
			frac := float64(year-r.SteadyUntil) / float64(r.DropUntil-r.SteadyUntil)
			return base - frac*(base-r.DropTo)
		default:
			return running * (1 + r.Growth)
		}

	case AccelerateOnce:
		if year < r.Year {
			return running * (1 + r.Growth)
		}
		return running * (1 + r.Accelerated)

	case AccelerateThenSlow:
		switch {
		case year < r.AccelYear:
			return running * (1 + r.Growth)
		case year < r.SlowYear:
			return running * (1 + r.Accelerated)
		default:
			return running * (1 + r.Slowed)
		}

	case Plateau:
		if year < r.Year {
			return running * (1 + r.Growth)
		}
		return running * (1 + r.Plateau)
	}

	// unreachable: GrowthRule is sealed
	return running
}
