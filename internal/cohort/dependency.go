package cohort

import (
	"math"

	"qisim/domain/cohort"
	"qisim/domain/core"
	"qisim/internal/fieldpath"
	"qisim/internal/random"
	"qisim/ports"
)

// EvaluateDependencies applies relations to copies of participants and returns the copies.
//
// Each relation computes Σ coefficient·value over its dependsOn paths, read from the
// participant as it was passed in, so relations never observe one another's outputs. Missing
// or non-numeric predictors are skipped. Symmetric noise U(-noise·|v|, +noise·|v|) is added
// before the value is written to the target path on the copy. The input slice is not modified.
func EvaluateDependencies(participants []cohort.Participant, relations []cohort.DependencyRelation, rng ports.RandomSource) ([]cohort.Participant, error) {
	for _, rel := range relations {
		if err := rel.Validate(); err != nil {
			return nil, err
		}
		if err := fieldpath.CheckAssignable(rel.TargetVariable); err != nil {
			return nil, core.NewConfigError("customDependencies.targetVariable", err.Error())
		}
	}

	out := make([]cohort.Participant, len(participants))
	for i := range participants {
		base := &participants[i]
		derived := base.Clone()
		for _, rel := range relations {
			value := evaluate(base, rel)
			value += random.Symmetric(rng, rel.NoiseLevel*math.Abs(value))
			if err := fieldpath.Assign(&derived, rel.TargetVariable, value); err != nil {
				return nil, err
			}
		}
		out[i] = derived
	}
	return out, nil
}

// evaluate is the noiseless weighted sum of one relation over base
func evaluate(base *cohort.Participant, rel cohort.DependencyRelation) float64 {
	sum := 0.0
	for i := 0; i < rel.Terms(); i++ {
		v, ok := fieldpath.Resolve(base, rel.DependsOn[i])
		if !ok {
			continue
		}
		sum += rel.Coefficients[i] * v
	}
	return sum
}
