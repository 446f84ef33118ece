package cohort

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"qisim/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrequencyRanges(t *testing.T) {
	tests := []struct {
		freq     MeasurementFrequency
		min, max int
	}{
		{FrequencyLow, 3, 7},
		{FrequencyMedium, 7, 14},
		{FrequencyHigh, 14, 30},
	}
	for _, tt := range tests {
		min, max := tt.freq.Range()
		assert.Equal(t, tt.min, min, string(tt.freq))
		assert.Equal(t, tt.max, max, string(tt.freq))
	}
}

func TestVariabilityFactor(t *testing.T) {
	assert.Equal(t, 0.7, VariabilityLow.Factor())
	assert.Equal(t, 1.0, VariabilityMedium.Factor())
	assert.Equal(t, 1.5, VariabilityHigh.Factor())
}

func TestBandFor(t *testing.T) {
	assert.Equal(t, RiskLow, BandFor(0))
	assert.Equal(t, RiskLow, BandFor(29.999))
	assert.Equal(t, RiskMedium, BandFor(30))
	assert.Equal(t, RiskMedium, BandFor(69.9))
	assert.Equal(t, RiskHigh, BandFor(70))
	assert.Equal(t, RiskHigh, BandFor(100))
}

func TestSimulationConfig_UnmarshalDefaults(t *testing.T) {
	var cfg SimulationConfig
	err := json.Unmarshal([]byte(`{
		"numParticipants": 12,
		"startDate": "2024-02-01",
		"endDate": "2024-03-01",
		"somethingElse": true
	}`), &cfg)
	require.NoError(t, err)

	assert.Equal(t, 12, cfg.NumParticipants)
	assert.Equal(t, "2024-02-01", cfg.StartDate.String())
	assert.Equal(t, FrequencyMedium, cfg.MeasurementFrequency)
	assert.Equal(t, DefaultMissingDataProbability, cfg.MissingDataProbability)
	assert.NoError(t, cfg.Validate())
}

func TestSimulationConfig_MissingDatesAreErrors(t *testing.T) {
	var cfg SimulationConfig
	require.NoError(t, json.Unmarshal([]byte(`{"numParticipants": 3}`), &cfg))

	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, core.IsConfigError(err))

	var cfgErr *core.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "startDate", cfgErr.Field)
}

func TestSimulationConfig_BadDateIsDecodeError(t *testing.T) {
	var cfg SimulationConfig
	err := json.Unmarshal([]byte(`{"startDate": "not-a-date", "endDate": "2024-01-01"}`), &cfg)
	assert.Error(t, err)
}

func TestSimulationConfig_OrderedDates(t *testing.T) {
	cfg := DefaultSimulationConfig()
	cfg.StartDate, cfg.EndDate = cfg.EndDate, cfg.StartDate

	err := cfg.Validate()
	require.Error(t, err)
	var cfgErr *core.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "endDate", cfgErr.Field)

	cfg.EndDate = cfg.StartDate
	assert.Error(t, cfg.Validate())
}

func TestSimulationConfig_Normalize(t *testing.T) {
	cfg := DefaultSimulationConfig()
	cfg.NumParticipants = -4
	cfg.MissingDataProbability = 2
	cfg.MeasurementFrequency = "hourly"
	cfg.TimePatterns = ""

	out, notes := cfg.Normalize()
	assert.Equal(t, 0, out.NumParticipants)
	assert.Equal(t, DefaultMissingDataProbability, out.MissingDataProbability)
	assert.Equal(t, FrequencyMedium, out.MeasurementFrequency)
	assert.Equal(t, TimePatternsRealistic, out.TimePatterns)
	assert.Len(t, notes, 3)
}

func TestSimulationConfig_NormalizeMissingDataDefault(t *testing.T) {
	cfg := SimulationConfig{IncludeMissingData: true}
	out, notes := cfg.Normalize()
	assert.Equal(t, DefaultMissingDataProbability, out.MissingDataProbability)
	assert.Len(t, notes, 1)

	off := SimulationConfig{}
	out, notes = off.Normalize()
	assert.Zero(t, out.MissingDataProbability)
	assert.Empty(t, notes)
}

func TestDependencyRelation_Validate(t *testing.T) {
	ok := DependencyRelation{TargetVariable: "derived.score", DependsOn: []string{"age"}, Coefficients: []float64{1}}
	assert.NoError(t, ok.Validate())

	noisy := ok
	noisy.NoiseLevel = 1.5
	assert.Error(t, noisy.Validate())

	blank := ok
	blank.TargetVariable = ""
	assert.Error(t, blank.Validate())

	short := DependencyRelation{TargetVariable: "x", DependsOn: []string{"a", "b"}, Coefficients: []float64{1}}
	assert.Equal(t, 1, short.Terms())
}

func TestParticipantClone_Independent(t *testing.T) {
	end := core.NewDate(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	p := Participant{
		ID:            "p1",
		Measurements:  []Measurement{{SystolicBP: Float(120)}},
		Treatments:    []Treatment{{Name: "Physical Therapy", EndDate: &end}},
		Comorbidities: []string{"Obesity"},
		DeepPhenotype: &DeepPhenotype{
			RiskFactors:             RiskFactors{FamilyHistory: []string{"Diabetes"}},
			DiseaseSpecificMeasures: DiseaseSpecificMeasures{HbA1c: Float(7.1)},
		},
		Derived: map[string]interface{}{"nested": map[string]interface{}{"v": 1.0}},
	}

	c := p.Clone()
	*c.Measurements[0].SystolicBP = 99
	*c.Treatments[0].EndDate = c.Treatments[0].EndDate.AddDays(3)
	c.Comorbidities[0] = "Anemia"
	c.DeepPhenotype.RiskFactors.FamilyHistory[0] = "Stroke"
	*c.DeepPhenotype.DiseaseSpecificMeasures.HbA1c = 9
	c.Derived["nested"].(map[string]interface{})["v"] = 2.0

	assert.Equal(t, 120.0, *p.Measurements[0].SystolicBP)
	assert.Equal(t, end, *p.Treatments[0].EndDate)
	assert.Equal(t, "Obesity", p.Comorbidities[0])
	assert.Equal(t, "Diabetes", p.DeepPhenotype.RiskFactors.FamilyHistory[0])
	assert.Equal(t, 7.1, *p.DeepPhenotype.DiseaseSpecificMeasures.HbA1c)
	assert.Equal(t, 1.0, p.Derived["nested"].(map[string]interface{})["v"])
}

func TestMeasurement_MissingCount(t *testing.T) {
	m := Measurement{SystolicBP: Float(120), PainLevel: Float(2)}
	assert.Equal(t, 4, m.MissingCount())
}
