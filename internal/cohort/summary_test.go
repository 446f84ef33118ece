package cohort

import (
	"testing"
	"time"

	"qisim/domain/cohort"
	"qisim/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	end := core.NewDate(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	ps := []cohort.Participant{
		{ID: "a", Gender: "Female", Unit: "ICU", Condition: "Sepsis", Outcome: OutcomeStable, Age: 60, RiskScore: 80, LengthOfStay: 10,
			Measurements: []cohort.Measurement{{HeartRate: cohort.Float(80)}, {}},
			Treatments:   []cohort.Treatment{{Name: "Antibiotics"}, {Name: "Insulin", EndDate: &end}}},
		{ID: "b", Gender: "Male", Unit: "ICU", Condition: "Stroke", Outcome: OutcomeRecovered, Age: 40, RiskScore: 20, LengthOfStay: 4,
			DeepPhenotype: &cohort.DeepPhenotype{}},
	}

	s := Summarize(ps)
	assert.Equal(t, 2, s.Participants)
	assert.Equal(t, 2, s.Measurements)
	assert.Equal(t, 11, s.MissingValues)
	assert.InDelta(t, 11.0/12.0, s.MissingRate, 1e-12)
	assert.Equal(t, 2, s.Treatments)
	assert.Equal(t, 1, s.OngoingTreatment)
	assert.Equal(t, 1, s.DeepPhenotyped)
	assert.InDelta(t, 50.0, s.Age.Mean, 1e-12)
	assert.InDelta(t, 7.0, s.LengthOfStay.Mean, 1e-12)

	require.Len(t, s.Units, 1)
	assert.Equal(t, "ICU", s.Units[0].Name)
	assert.Equal(t, 2.0, s.Units[0].Value)
	require.Len(t, s.RiskBands, 2)
	assert.Equal(t, "high", s.RiskBands[0].Name, "ties order by name")

	// fingerprint ignores participant order
	reversed := []cohort.Participant{ps[1], ps[0]}
	assert.Equal(t, s.Fingerprint, Summarize(reversed).Fingerprint)
	assert.NotEmpty(t, s.Fingerprint)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	assert.Equal(t, 0, s.Participants)
	assert.Equal(t, 0.0, s.MissingRate)
	assert.Empty(t, s.Outcomes)
}
