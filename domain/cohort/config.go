package cohort

import (
	"encoding/json"
	"fmt"
	"time"

	"qisim/domain/core"
)

// MeasurementFrequency selects how many daily readings each participant gets
type MeasurementFrequency string

const (
	FrequencyLow    MeasurementFrequency = "low"
	FrequencyMedium MeasurementFrequency = "medium"
	FrequencyHigh   MeasurementFrequency = "high"
)

// Range returns the inclusive measurement-count bounds for the tier
func (f MeasurementFrequency) Range() (min, max int) {
	switch f {
	case FrequencyLow:
		return 3, 7
	case FrequencyHigh:
		return 14, 30
	default:
		return 7, 14
	}
}

func (f MeasurementFrequency) Valid() bool {
	return f == FrequencyLow || f == FrequencyMedium || f == FrequencyHigh
}

// TimePatternMode controls how vital-sign regimes are chosen
type TimePatternMode string

const (
	TimePatternsRandom    TimePatternMode = "random"
	TimePatternsRealistic TimePatternMode = "realistic"
)

func (m TimePatternMode) Valid() bool {
	return m == TimePatternsRandom || m == TimePatternsRealistic
}

// DataVariability scales every temporal perturbation
type DataVariability string

const (
	VariabilityLow    DataVariability = "low"
	VariabilityMedium DataVariability = "medium"
	VariabilityHigh   DataVariability = "high"
)

// Factor returns the multiplicative noise factor
func (v DataVariability) Factor() float64 {
	switch v {
	case VariabilityLow:
		return 0.7
	case VariabilityHigh:
		return 1.5
	default:
		return 1.0
	}
}

func (v DataVariability) Valid() bool {
	return v == VariabilityLow || v == VariabilityMedium || v == VariabilityHigh
}

// OutcomeDistribution biases which outcomes a risk band may draw
type OutcomeDistribution string

const (
	OutcomesBalanced OutcomeDistribution = "balanced"
	OutcomesPositive OutcomeDistribution = "positive"
	OutcomesNegative OutcomeDistribution = "negative"
)

func (o OutcomeDistribution) Valid() bool {
	return o == OutcomesBalanced || o == OutcomesPositive || o == OutcomesNegative
}

// RiskBand discretizes riskScore
type RiskBand string

const (
	RiskLow    RiskBand = "low"
	RiskMedium RiskBand = "medium"
	RiskHigh   RiskBand = "high"
)

// BandFor buckets a risk score: low < 30, medium [30,70), high >= 70
func BandFor(riskScore float64) RiskBand {
	switch {
	case riskScore < 30:
		return RiskLow
	case riskScore < 70:
		return RiskMedium
	default:
		return RiskHigh
	}
}

// DependencyRelation derives TargetVariable as a noisy weighted sum of DependsOn
type DependencyRelation struct {
	TargetVariable string    `json:"targetVariable"`
	DependsOn      []string  `json:"dependsOn"`
	Coefficients   []float64 `json:"coefficients"`
	NoiseLevel     float64   `json:"noiseLevel"`
}

// Terms returns the number of usable (predictor, coefficient) pairs
func (r DependencyRelation) Terms() int {
	if len(r.Coefficients) < len(r.DependsOn) {
		return len(r.Coefficients)
	}
	return len(r.DependsOn)
}

// Validate checks the relation is well formed
func (r DependencyRelation) Validate() error {
	if _, err := core.ParseFieldKey(r.TargetVariable); err != nil {
		return core.NewConfigError("customDependencies.targetVariable", err.Error())
	}
	for _, dep := range r.DependsOn {
		if _, err := core.ParseFieldKey(dep); err != nil {
			return core.NewConfigError("customDependencies.dependsOn", err.Error())
		}
	}
	if r.NoiseLevel < 0 || r.NoiseLevel > 1 {
		return core.NewConfigError("customDependencies.noiseLevel", fmt.Sprintf("must be within [0,1], got %g", r.NoiseLevel))
	}
	return nil
}

// SimulationConfig is everything the generator needs to build a cohort
type SimulationConfig struct {
	NumParticipants        int                  `json:"numParticipants"`
	StartDate              core.Date            `json:"startDate"`
	EndDate                core.Date            `json:"endDate"`
	IncludeComorbidities   bool                 `json:"includeComorbidities"`
	IncludeMissingData     bool                 `json:"includeMissingData"`
	MissingDataProbability float64              `json:"missingDataProbability"`
	MeasurementFrequency   MeasurementFrequency `json:"measurementFrequency"`
	TimePatterns           TimePatternMode      `json:"timePatterns"`
	DataVariability        DataVariability      `json:"dataVariability"`
	OutcomeDistribution    OutcomeDistribution  `json:"outcomeDistribution"`
	EnableDeepPhenotyping  bool                 `json:"enableDeepPhenotyping"`
	CustomDependencies     []DependencyRelation `json:"customDependencies,omitempty"`
}

// DefaultMissingDataProbability applies when missing-data injection is on and no rate is set
const DefaultMissingDataProbability = 0.05

// DefaultSimulationConfig returns sensible defaults covering calendar year 2024
func DefaultSimulationConfig() SimulationConfig {
	return SimulationConfig{
		NumParticipants:        100,
		StartDate:              core.NewDate(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
		EndDate:                core.NewDate(time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)),
		IncludeComorbidities:   true,
		IncludeMissingData:     false,
		MissingDataProbability: DefaultMissingDataProbability,
		MeasurementFrequency:   FrequencyMedium,
		TimePatterns:           TimePatternsRealistic,
		DataVariability:        VariabilityMedium,
		OutcomeDistribution:    OutcomesBalanced,
	}
}

// UnmarshalJSON decodes on top of DefaultSimulationConfig so absent fields keep defaults.
// Date fields are the exception: they must be present.
func (c *SimulationConfig) UnmarshalJSON(b []byte) error {
	type plain SimulationConfig
	cfg := plain(DefaultSimulationConfig())
	cfg.StartDate = core.Date{}
	cfg.EndDate = core.Date{}
	if err := json.Unmarshal(b, &cfg); err != nil {
		return err
	}
	*c = SimulationConfig(cfg)
	return nil
}

// Validate enforces the hard configuration rules: well-formed, ordered dates and
// well-formed dependency relations.
func (c SimulationConfig) Validate() error {
	if c.StartDate.IsZero() {
		return core.NewConfigError("startDate", "is required")
	}
	if c.EndDate.IsZero() {
		return core.NewConfigError("endDate", "is required")
	}
	if !c.StartDate.Before(c.EndDate) {
		return core.NewConfigError("endDate", fmt.Sprintf("must be after startDate (%s >= %s)", c.StartDate, c.EndDate))
	}
	for _, rel := range c.CustomDependencies {
		if err := rel.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Normalize replaces out-of-range soft options with defaults and reports what changed.
// Dates are left untouched; Validate owns them.
func (c SimulationConfig) Normalize() (SimulationConfig, []string) {
	var notes []string
	def := DefaultSimulationConfig()

	if c.NumParticipants < 0 {
		notes = append(notes, fmt.Sprintf("numParticipants %d clamped to 0", c.NumParticipants))
		c.NumParticipants = 0
	}
	if c.MissingDataProbability < 0 || c.MissingDataProbability > 1 {
		notes = append(notes, fmt.Sprintf("missingDataProbability %g reset to %g", c.MissingDataProbability, DefaultMissingDataProbability))
		c.MissingDataProbability = DefaultMissingDataProbability
	}
	if c.IncludeMissingData && c.MissingDataProbability == 0 {
		notes = append(notes, fmt.Sprintf("missingDataProbability unset with includeMissingData, using %g", DefaultMissingDataProbability))
		c.MissingDataProbability = DefaultMissingDataProbability
	}
	if !c.MeasurementFrequency.Valid() {
		if c.MeasurementFrequency != "" {
			notes = append(notes, fmt.Sprintf("unknown measurementFrequency %q", c.MeasurementFrequency))
		}
		c.MeasurementFrequency = def.MeasurementFrequency
	}
	if !c.TimePatterns.Valid() {
		if c.TimePatterns != "" {
			notes = append(notes, fmt.Sprintf("unknown timePatterns %q", c.TimePatterns))
		}
		c.TimePatterns = def.TimePatterns
	}
	if !c.DataVariability.Valid() {
		if c.DataVariability != "" {
			notes = append(notes, fmt.Sprintf("unknown dataVariability %q", c.DataVariability))
		}
		c.DataVariability = def.DataVariability
	}
	if !c.OutcomeDistribution.Valid() {
		if c.OutcomeDistribution != "" {
			notes = append(notes, fmt.Sprintf("unknown outcomeDistribution %q", c.OutcomeDistribution))
		}
		c.OutcomeDistribution = def.OutcomeDistribution
	}
	return c, notes
}
