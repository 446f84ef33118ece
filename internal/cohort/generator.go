// Package cohort builds synthetic clinical cohorts and derives dependent variables over them.
package cohort

import (
	"fmt"
	"math"

	"qisim/domain/cohort"
	"qisim/domain/core"
	"qisim/internal"
	"qisim/internal/fieldpath"
	"qisim/internal/random"
	"qisim/ports"
)

// Bounds every generated participant respects
const (
	MinAge          = 18
	MaxAge          = 95
	MinLengthOfStay = 1
	MaxLengthOfStay = 45
	MaxTreatments   = 5
	MaxComorbidity  = 5
)

// Generator draws participants for one validated configuration
type Generator struct {
	config cohort.SimulationConfig
	rng    ports.RandomSource
	log    *internal.Logger
}

// NewGenerator validates config, normalizes soft options and binds the random source.
// Configuration problems are returned as core.ConfigError values naming the field.
func NewGenerator(config cohort.SimulationConfig, rng ports.RandomSource, logger *internal.Logger) (*Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	for _, rel := range config.CustomDependencies {
		if err := fieldpath.CheckAssignable(rel.TargetVariable); err != nil {
			return nil, core.NewConfigError("customDependencies.targetVariable", err.Error())
		}
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}

	normalized, notes := config.Normalize()
	for _, note := range notes {
		logger.Warn("simulation config: %s", note)
	}
	logger.Debug("generator ready: %s", describe(normalized))

	return &Generator{
		config: normalized,
		rng:    rng,
		log:    logger,
	}, nil
}

// Generate is the one-shot form of NewGenerator followed by Generator.Generate
func Generate(config cohort.SimulationConfig, rng ports.RandomSource) ([]cohort.Participant, error) {
	g, err := NewGenerator(config, rng, nil)
	if err != nil {
		return nil, err
	}
	return g.Generate()
}

// Config returns the normalized configuration in effect
func (g *Generator) Config() cohort.SimulationConfig {
	return g.config
}

// Generate draws NumParticipants participants, then applies custom dependencies
func (g *Generator) Generate() ([]cohort.Participant, error) {
	participants := make([]cohort.Participant, g.config.NumParticipants)
	for i := range participants {
		participants[i] = g.generateParticipant()
	}

	if len(g.config.CustomDependencies) > 0 {
		derived, err := EvaluateDependencies(participants, g.config.CustomDependencies, g.rng)
		if err != nil {
			return nil, err
		}
		participants = derived
	}

	g.log.Debug("generated %d participants (%s frequency, %s patterns, %s outcomes)",
		len(participants), g.config.MeasurementFrequency, g.config.TimePatterns, g.config.OutcomeDistribution)
	return participants, nil
}

// generateParticipant draws one participant in a fixed order so a seed reproduces it
func (g *Generator) generateParticipant() cohort.Participant {
	r := g.rng
	p := cohort.Participant{
		ID:        core.ParticipantID(core.NewIDFromReader(r)),
		Age:       random.IntBetween(r, MinAge, MaxAge),
		Gender:    random.Choice(r, Genders),
		Unit:      random.Choice(r, Units),
		Condition: random.Choice(r, Conditions),
		RiskScore: roundTo(random.Uniform(r, 0, 100), 1),
	}

	band := cohort.BandFor(p.RiskScore)
	p.Outcome = random.Choice(r, AllowedOutcomes(g.config.OutcomeDistribution, band))
	p.LengthOfStay = g.lengthOfStay(p)
	p.ReadmissionRisk = g.readmissionRisk(p)

	admission, count := g.admissionWindow()
	p.Measurements = g.generateMeasurements(p, admission, count)
	p.Treatments = g.generateTreatments(admission)

	if g.config.IncludeComorbidities {
		p.Comorbidities = g.generateComorbidities()
	}
	if g.config.EnableDeepPhenotyping {
		dp := g.generateDeepPhenotype(p)
		p.DeepPhenotype = &dp
	}
	return p
}

// lengthOfStay grows with risk and with unfavorable outcomes
func (g *Generator) lengthOfStay(p cohort.Participant) int {
	base := 2 + p.RiskScore*0.12
	switch p.Outcome {
	case OutcomeDeteriorated, OutcomeReadmitted, OutcomeDeceased:
		base += 4
	case OutcomeRecovered:
		base -= 1
	}
	los := base + random.Normal(g.rng, 0, 2*g.config.DataVariability.Factor())
	return int(random.Clamp(math.Round(los), MinLengthOfStay, MaxLengthOfStay))
}

func (g *Generator) readmissionRisk(p cohort.Participant) float64 {
	v := p.RiskScore*0.6 + float64(p.Age-MinAge)*0.2
	switch p.Outcome {
	case OutcomeReadmitted:
		v += 25
	case OutcomeDeteriorated:
		v += 10
	case OutcomeRecovered:
		v -= 10
	}
	v += random.Symmetric(g.rng, 10*g.config.DataVariability.Factor())
	return roundTo(random.Clamp(v, 0, 100), 1)
}

// admissionWindow draws the measurement count and an admission date that lets the
// daily series end inside the configured interval when it is long enough.
func (g *Generator) admissionWindow() (core.Date, int) {
	lo, hi := g.config.MeasurementFrequency.Range()
	count := random.IntBetween(g.rng, lo, hi)

	start, end := g.config.StartDate, g.config.EndDate
	latest := end.AddDays(-(count - 1))
	if latest.Before(start) {
		latest = start
	}
	return random.DateBetween(g.rng, start, latest), count
}

func (g *Generator) generateComorbidities() []string {
	n := random.IntBetween(g.rng, 0, MaxComorbidity)
	if n == 0 {
		return nil
	}
	return random.Sample(g.rng, Comorbidities, n)
}

func roundTo(v float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Round(v*scale) / scale
}

func describe(cfg cohort.SimulationConfig) string {
	return fmt.Sprintf("%d participants %s..%s", cfg.NumParticipants, cfg.StartDate, cfg.EndDate)
}
