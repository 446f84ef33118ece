package fieldpath

import (
	"errors"
	"math"
	"testing"

	"qisim/domain/cohort"
	"qisim/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleParticipant() *cohort.Participant {
	return &cohort.Participant{
		ID:           "p1",
		Age:          64,
		Gender:       "Female",
		RiskScore:    42.5,
		LengthOfStay: 6,
		Measurements: []cohort.Measurement{
			{HeartRate: cohort.Float(88)},
			{HeartRate: nil},
		},
		DeepPhenotype: &cohort.DeepPhenotype{
			BMI:              27.4,
			FunctionalStatus: cohort.FunctionalStatus{PhysicalFunction: 61, ADLScore: 5},
			DiseaseSpecificMeasures: cohort.DiseaseSpecificMeasures{
				HbA1c: cohort.Float(7.2),
			},
		},
		Derived: map[string]interface{}{
			"score": 3.5,
			"group": map[string]interface{}{"inner": 1.25},
		},
	}
}

func TestResolve_ScalarsAndNested(t *testing.T) {
	p := sampleParticipant()

	tests := []struct {
		path string
		want float64
		ok   bool
	}{
		{"age", 64, true},
		{"riskScore", 42.5, true},
		{"lengthOfStay", 6, true},
		{"deepPhenotype.bmi", 27.4, true},
		{"deepPhenotype.functionalStatus.physicalFunction", 61, true},
		{"deepPhenotype.functionalStatus.adlScore", 5, true},
		{"deepPhenotype.diseaseSpecificMeasures.hba1c", 7.2, true},
		{"deepPhenotype.diseaseSpecificMeasures.egfr", 0, false},
		{"measurements.0.heartRate", 88, true},
		{"measurements.1.heartRate", 0, false},
		{"measurements.9.heartRate", 0, false},
		{"score", 3.5, true},
		{"derivedValues.score", 3.5, true},
		{"group.inner", 1.25, true},
		{"gender", 0, false},
		{"deepPhenotype.nope", 0, false},
		{"nothing", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, ok := Resolve(p, tt.path)
		assert.Equal(t, tt.ok, ok, tt.path)
		if tt.ok {
			assert.InDelta(t, tt.want, got, 1e-12, tt.path)
		}
	}
}

func TestResolve_NilPhenotypeAndNaN(t *testing.T) {
	p := &cohort.Participant{RiskScore: math.NaN()}
	_, ok := Resolve(p, "deepPhenotype.bmi")
	assert.False(t, ok)
	_, ok = Resolve(p, "riskScore")
	assert.False(t, ok, "NaN is missing")
	_, ok = Resolve(nil, "age")
	assert.False(t, ok)
}

func TestAssign_ExistingFields(t *testing.T) {
	p := sampleParticipant()

	require.NoError(t, Assign(p, "lengthOfStay", 9.6))
	assert.Equal(t, 10, p.LengthOfStay)

	require.NoError(t, Assign(p, "deepPhenotype.functionalStatus.physicalFunction", 70.5))
	assert.Equal(t, 70.5, p.DeepPhenotype.FunctionalStatus.PhysicalFunction)

	require.NoError(t, Assign(p, "deepPhenotype.diseaseSpecificMeasures.egfr", 55))
	require.NotNil(t, p.DeepPhenotype.DiseaseSpecificMeasures.EGFR)
	assert.Equal(t, 55.0, *p.DeepPhenotype.DiseaseSpecificMeasures.EGFR)
}

func TestAssign_AllocatesPhenotype(t *testing.T) {
	p := &cohort.Participant{}
	require.NoError(t, Assign(p, "deepPhenotype.bmi", 31))
	require.NotNil(t, p.DeepPhenotype)
	assert.Equal(t, 31.0, p.DeepPhenotype.BMI)
}

func TestAssign_DerivedContainers(t *testing.T) {
	p := &cohort.Participant{}
	require.NoError(t, Assign(p, "derived", 1.5))
	require.NoError(t, Assign(p, "composite.severity.index", 2.5))
	require.NoError(t, Assign(p, "derivedValues.other", 4))

	v, ok := Resolve(p, "derived")
	assert.True(t, ok)
	assert.Equal(t, 1.5, v)

	v, ok = Resolve(p, "composite.severity.index")
	assert.True(t, ok)
	assert.Equal(t, 2.5, v)

	v, ok = Resolve(p, "other")
	assert.True(t, ok)
	assert.Equal(t, 4.0, v)
}

func TestAssign_Rejections(t *testing.T) {
	p := sampleParticipant()

	err := Assign(p, "gender", 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrUnknownField))

	assert.Error(t, Assign(p, "deepPhenotype.unknownThing", 1))
	assert.Error(t, Assign(p, "measurements.0.heartRate", 1))
	assert.Error(t, Assign(p, "derivedValues", 1))
	assert.Error(t, Assign(p, "a..b", 1))
	assert.Equal(t, "Female", p.Gender)
}

func TestNumericFields(t *testing.T) {
	p := sampleParticipant()
	fields := NumericFields(p)

	assert.Contains(t, fields, "age")
	assert.Contains(t, fields, "riskScore")
	assert.Contains(t, fields, "deepPhenotype.functionalStatus.physicalFunction")
	assert.Contains(t, fields, "deepPhenotype.diseaseSpecificMeasures.hba1c")
	assert.Contains(t, fields, "score")
	assert.Contains(t, fields, "group.inner")
	assert.NotContains(t, fields, "gender")

	for _, f := range fields {
		if f == "score" || f == "group.inner" {
			continue
		}
		assert.NoError(t, CheckAssignable(f), f)
	}
}
