// Package record defines the per-institution output document.
package record

import "sort"

// Institution is the serialized result for one school. Years are keyed by
// academic-year label such as "2023-2024".
type Institution struct {
	Name  string          `json:"name"`
	Slug  string          `json:"slug"`
	Years map[string]Year `json:"years"`
}

// Year is the resolved CDS data for one academic year. Numeric fields that
// could not be resolved are zero and their dotted paths appear in Missing.
type Year struct {
	Admissions   Admissions   `json:"admissions"`
	TestScores   TestScores   `json:"testScores"`
	Demographics Demographics `json:"demographics"`
	Costs        Costs        `json:"costs"`
	FinancialAid FinancialAid `json:"financialAid"`
	Missing      []string     `json:"missing"`
}

type Admissions struct {
	Applied        int            `json:"applied"`
	Admitted       int            `json:"admitted"`
	Enrolled       int            `json:"enrolled"`
	AcceptanceRate float64        `json:"acceptanceRate"`
	Yield          float64        `json:"yield"`
	EarlyDecision  *EarlyDecision `json:"earlyDecision,omitempty"`
}

type EarlyDecision struct {
	Applied  int `json:"applied"`
	Admitted int `json:"admitted"`
}

type TestScores struct {
	SAT *SAT `json:"sat,omitempty"`
	ACT *ACT `json:"act,omitempty"`
}

type SAT struct {
	Composite      Percentiles `json:"composite"`
	ReadingWriting Percentiles `json:"readingWriting"`
	Math           Percentiles `json:"math"`
	SubmissionRate float64     `json:"submissionRate"`
}

type ACT struct {
	Composite      Percentiles `json:"composite"`
	SubmissionRate float64     `json:"submissionRate"`
}

// Percentiles holds a 25th/50th/75th percentile score band.
type Percentiles struct {
	P25 int `json:"p25"`
	P50 int `json:"p50"`
	P75 int `json:"p75"`
}

type Demographics struct {
	Enrollment  Enrollment  `json:"enrollment"`
	ByRace      ByRace      `json:"byRace"`
	ByResidency ByResidency `json:"byResidency"`
}

type Enrollment struct {
	Total         int `json:"total"`
	Undergraduate int `json:"undergraduate"`
	Graduate      int `json:"graduate"`
}

type ByRace struct {
	International                 int `json:"international"`
	HispanicLatino                int `json:"hispanicLatino"`
	BlackAfricanAmerican          int `json:"blackAfricanAmerican"`
	White                         int `json:"white"`
	Asian                         int `json:"asian"`
	AmericanIndianAlaskaNative    int `json:"americanIndianAlaskaNative"`
	NativeHawaiianPacificIslander int `json:"nativeHawaiianPacificIslander"`
	TwoOrMoreRaces                int `json:"twoOrMoreRaces"`
	Unknown                       int `json:"unknown"`
}

// RaceCategories lists the byRace keys in output order.
var RaceCategories = []string{
	"international",
	"hispanicLatino",
	"blackAfricanAmerican",
	"white",
	"asian",
	"americanIndianAlaskaNative",
	"nativeHawaiianPacificIslander",
	"twoOrMoreRaces",
	"unknown",
}

// Field returns a pointer to the count for a byRace key, or nil when the key
// is not a known category.
func (b *ByRace) Field(name string) *int {
	switch name {
	case "international":
		return &b.International
	case "hispanicLatino":
		return &b.HispanicLatino
	case "blackAfricanAmerican":
		return &b.BlackAfricanAmerican
	case "white":
		return &b.White
	case "asian":
		return &b.Asian
	case "americanIndianAlaskaNative":
		return &b.AmericanIndianAlaskaNative
	case "nativeHawaiianPacificIslander":
		return &b.NativeHawaiianPacificIslander
	case "twoOrMoreRaces":
		return &b.TwoOrMoreRaces
	case "unknown":
		return &b.Unknown
	}
	return nil
}

type ByResidency struct {
	InState       int `json:"inState"`
	OutOfState    int `json:"outOfState"`
	International int `json:"international"`
}

type Costs struct {
	Tuition      int `json:"tuition"`
	Fees         int `json:"fees"`
	RoomAndBoard int `json:"roomAndBoard"`
	TotalCOA     int `json:"totalCOA"`
}

type FinancialAid struct {
	PercentReceivingAid   float64 `json:"percentReceivingAid"`
	AverageAidPackage     int     `json:"averageAidPackage"`
	AverageNeedBasedGrant int     `json:"averageNeedBasedGrant"`
	PercentNeedFullyMet   float64 `json:"percentNeedFullyMet"`
}

// New returns an empty institution record ready to receive years.
func New(name, slug string) *Institution {
	return &Institution{Name: name, Slug: slug, Years: make(map[string]Year)}
}

// YearLabels returns the year keys in ascending order.
func (in *Institution) YearLabels() []string {
	labels := make([]string, 0, len(in.Years))
	for k := range in.Years {
		labels = append(labels, k)
	}
	sort.Strings(labels)
	return labels
}
