package cohort

import (
	"qisim/domain/cohort"
	"qisim/domain/core"
	"qisim/internal/random"
)

// EndDateProbability is the chance a treatment course has finished
const EndDateProbability = 0.7

// generateTreatments draws 1..MaxTreatments courses starting within two days of admission
func (g *Generator) generateTreatments(admission core.Date) []cohort.Treatment {
	r := g.rng
	n := random.IntBetween(r, 1, MaxTreatments)
	out := make([]cohort.Treatment, n)
	for i := range out {
		t := cohort.Treatment{
			Name:      random.Choice(r, TreatmentNames),
			StartDate: admission.AddDays(random.IntBetween(r, 0, 2)),
		}
		if random.Chance(r, EndDateProbability) {
			end := t.StartDate.AddDays(random.IntBetween(r, 1, 21))
			t.EndDate = &end
		}
		t.Effectiveness = roundTo(random.Uniform(r, 0, 100), 1)
		out[i] = t
	}
	return out
}
