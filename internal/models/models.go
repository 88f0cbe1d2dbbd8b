package models

// CountrySeries is one country's emission series. Values is keyed by year.
type CountrySeries struct {
	Country string          `json:"country" yaml:"country"`
	Source  string          `json:"data_source" yaml:"data_source"`
	Sector  string          `json:"sector" yaml:"sector"`
	Gas     string          `json:"gas" yaml:"gas"`
	Unit    string          `json:"unit" yaml:"unit"`
	Values  map[int]float64 `json:"values" yaml:"values"`
}

// At returns the value for year.
func (s CountrySeries) At(year int) (float64, bool) {
	v, ok := s.Values[year]
	return v, ok
}

// Dataset is the result of one synthesis (or load) call.
type Dataset struct {
	Series []CountrySeries `json:"series" yaml:"series"`
	Years  []int           `json:"years" yaml:"years"`
}

// Find looks a series up by country name.
func (d *Dataset) Find(country string) (CountrySeries, bool) {
	for _, s := range d.Series {
		if s.Country == country {
			return s, true
		}
	}
	return CountrySeries{}, false
}

// HasYear reports whether year is covered.
func (d *Dataset) HasYear(year int) bool {
	for _, y := range d.Years {
		if y == year {
			return true
		}
	}
	return false
}

// Ensemble holds per-country bands over many noisy realisations.
type Ensemble struct {
	Runs  int           `json:"runs" yaml:"runs"`
	Years []int         `json:"years" yaml:"years"`
	Bands []CountryBand `json:"bands" yaml:"bands"`
}

type CountryBand struct {
	Country string          `json:"country" yaml:"country"`
	Mean    map[int]float64 `json:"mean" yaml:"mean"`
	Min     map[int]float64 `json:"min" yaml:"min"`
	Max     map[int]float64 `json:"max" yaml:"max"`
}

// --- Dashboard view contracts ---

type DashboardData struct {
	Year      int              `json:"year"`
	Mode      string           `json:"mode"`
	Circles   []MapCircle      `json:"map"`
	Lines     []LinePoint      `json:"lines"`
	Sectors   []SectorShare    `json:"sectors"`
	Country   string           `json:"sector_country"`
	Narrative Narrative        `json:"narrative"`
	Insights  Insights         `json:"insights"`
	Event     *HistoricalEvent `json:"event,omitempty"`
}

type MapCircle struct {
	Country string  `json:"country"`
	Lon     float64 `json:"lon"`
	Lat     float64 `json:"lat"`
	Value   float64 `json:"value"`
	Radius  float64 `json:"radius"`
	Color   string  `json:"color"`
}

type LinePoint struct {
	Country string  `json:"country"`
	Year    int     `json:"year"`
	Value   float64 `json:"value"`
}

type SectorShare struct {
	Sector string  `json:"sector"`
	Value  float64 `json:"value"`
	Color  string  `json:"color"`
}

type Narrative struct {
	Paragraphs []string         `json:"paragraphs"`
	Event      *HistoricalEvent `json:"event,omitempty"`
}

type Insights struct {
	Year             int     `json:"year"`
	Total            float64 `json:"total"`
	PrevYear         int     `json:"prev_year"`
	YoYChangePct     float64 `json:"yoy_change_pct"`
	LargestEmitter   string  `json:"largest_emitter"`
	LargestValue     float64 `json:"largest_value"`
	LargestSharePct  float64 `json:"largest_share_pct"`
	FastestGrowing   string  `json:"fastest_growing"`
	FastestGrowthPct float64 `json:"fastest_growth_pct"`
	CompareYear      int     `json:"compare_year"`
}

type HistoricalEvent struct {
	Year        int    `json:"year" yaml:"year"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
}

type ContactMessage struct {
	Name    string `json:"name" form:"name"`
	Email   string `json:"email" form:"email"`
	Subject string `json:"subject" form:"subject"`
	Message string `json:"message" form:"message"`
}
