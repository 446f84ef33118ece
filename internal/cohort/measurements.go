package cohort

import (
	"math"

	"qisim/domain/cohort"
	"qisim/domain/core"
	"qisim/internal/random"
	"qisim/internal/temporal"
)

// vitals holds one value per measurement field, in cohort.Measurement.Fields order
type vitals [cohort.MeasurementFieldCount]float64

// vitalPatterns assigns a regime to each vital-sign group. Systolic and diastolic
// pressure are one group.
type vitalPatterns struct {
	bloodPressure temporal.Pattern
	heartRate     temporal.Pattern
	temperature   temporal.Pattern
	oxygen        temporal.Pattern
	pain          temporal.Pattern
}

func (v vitalPatterns) forField(i int) temporal.Pattern {
	switch i {
	case 0, 1:
		return v.bloodPressure
	case 2:
		return v.heartRate
	case 3:
		return v.temperature
	case 4:
		return v.oxygen
	default:
		return v.pain
	}
}

// baseVitals centers each reading on the participant's risk and condition
func (g *Generator) baseVitals(p cohort.Participant) vitals {
	r := g.rng
	risk := p.RiskScore / 100
	pain := 2 + risk*3
	switch p.Condition {
	case "Hip Fracture", "Cellulitis":
		pain += 3
	case "Acute MI", "Sepsis":
		pain += 1.5
	}
	return vitals{
		random.Normal(r, 118+risk*20, 8),
		random.Normal(r, 76+risk*10, 5),
		random.Normal(r, 72+risk*20, 6),
		random.Normal(r, 36.8+risk*0.6, 0.2),
		random.Normal(r, 97.5-risk*4, 0.8),
		pain,
	}
}

func (g *Generator) selectPatterns(outcome string) vitalPatterns {
	if g.config.TimePatterns == cohort.TimePatternsRealistic {
		p := temporal.ForOutcome(outcome)
		return vitalPatterns{p, p, p, p, p}
	}
	return vitalPatterns{
		bloodPressure: temporal.Random(g.rng),
		heartRate:     temporal.Random(g.rng),
		temperature:   temporal.Random(g.rng),
		oxygen:        temporal.Random(g.rng),
		pain:          temporal.Random(g.rng),
	}
}

// generateMeasurements emits count daily readings starting at admission
func (g *Generator) generateMeasurements(p cohort.Participant, admission core.Date, count int) []cohort.Measurement {
	base := g.baseVitals(p)
	patterns := g.selectPatterns(p.Outcome)
	factor := g.config.DataVariability.Factor()

	out := make([]cohort.Measurement, count)
	for day := range out {
		m := cohort.Measurement{Date: admission.AddDays(day)}
		for i, field := range m.Fields() {
			v := temporal.Apply(patterns.forField(i), base[i], day, count, factor, g.rng)
			*field = cohort.Float(roundVital(i, v))
		}
		if g.config.IncludeMissingData {
			g.injectMissing(&m)
		}
		out[day] = m
	}
	return out
}

// roundVital rounds to the field's natural precision and bounds
func roundVital(i int, v float64) float64 {
	switch i {
	case 0, 1, 2:
		return math.Max(0, math.Round(v))
	case 3:
		return roundTo(v, 1)
	case 4:
		return math.Min(100, roundTo(v, 1))
	default:
		return random.Clamp(math.Round(v), 0, 10)
	}
}

// injectMissing nulls each reading independently with the configured probability
func (g *Generator) injectMissing(m *cohort.Measurement) {
	for _, field := range m.Fields() {
		if random.Chance(g.rng, g.config.MissingDataProbability) {
			*field = nil
		}
	}
}
