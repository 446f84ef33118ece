package cohort

import (
	"sort"

	"qisim/domain/cohort"
	"qisim/domain/core"
	"qisim/domain/stats"
	"qisim/internal/analysis"
)

// CohortSummary is the at-a-glance profile of a participant set
type CohortSummary struct {
	Participants     int                `json:"participants"`
	Fingerprint      string             `json:"fingerprint"`
	Genders          []stats.NamedValue `json:"genders"`
	Units            []stats.NamedValue `json:"units"`
	Conditions       []stats.NamedValue `json:"conditions"`
	Outcomes         []stats.NamedValue `json:"outcomes"`
	RiskBands        []stats.NamedValue `json:"riskBands"`
	Age              stats.Summary      `json:"age"`
	RiskScore        stats.Summary      `json:"riskScore"`
	LengthOfStay     stats.Summary      `json:"lengthOfStay"`
	ReadmissionRisk  stats.Summary      `json:"readmissionRisk"`
	Measurements     int                `json:"measurements"`
	MissingValues    int                `json:"missingValues"`
	MissingRate      float64            `json:"missingRate"` // Null readings over all measurement fields
	Treatments       int                `json:"treatments"`
	OngoingTreatment int                `json:"ongoingTreatments"`
	DeepPhenotyped   int                `json:"deepPhenotyped"`
}

// Summarize profiles ps without modifying it
func Summarize(ps []cohort.Participant) CohortSummary {
	s := CohortSummary{Participants: len(ps)}

	genders := map[string]float64{}
	units := map[string]float64{}
	conditions := map[string]float64{}
	outcomes := map[string]float64{}
	bands := map[string]float64{}

	ids := make([]string, len(ps))
	ages := make([]float64, len(ps))
	risks := make([]float64, len(ps))
	stays := make([]float64, len(ps))
	readmits := make([]float64, len(ps))

	for i, p := range ps {
		ids[i] = p.ID.String()
		ages[i] = float64(p.Age)
		risks[i] = p.RiskScore
		stays[i] = float64(p.LengthOfStay)
		readmits[i] = p.ReadmissionRisk

		genders[p.Gender]++
		units[p.Unit]++
		conditions[p.Condition]++
		outcomes[p.Outcome]++
		bands[string(cohort.BandFor(p.RiskScore))]++

		s.Measurements += len(p.Measurements)
		for _, m := range p.Measurements {
			s.MissingValues += m.MissingCount()
		}
		s.Treatments += len(p.Treatments)
		for _, t := range p.Treatments {
			if t.Ongoing() {
				s.OngoingTreatment++
			}
		}
		if p.DeepPhenotype != nil {
			s.DeepPhenotyped++
		}
	}

	s.Genders = counts(genders)
	s.Units = counts(units)
	s.Conditions = counts(conditions)
	s.Outcomes = counts(outcomes)
	s.RiskBands = counts(bands)

	s.Age = analysis.Summarize(ages)
	s.RiskScore = analysis.Summarize(risks)
	s.LengthOfStay = analysis.Summarize(stays)
	s.ReadmissionRisk = analysis.Summarize(readmits)

	if fields := s.Measurements * cohort.MeasurementFieldCount; fields > 0 {
		s.MissingRate = float64(s.MissingValues) / float64(fields)
	}

	s.Fingerprint = core.ComputeCohortHash(ids, map[string]interface{}{
		"measurements": s.Measurements,
		"treatments":   s.Treatments,
	}).String()
	return s
}

// counts orders categories by descending count, then name
func counts(m map[string]float64) []stats.NamedValue {
	out := make([]stats.NamedValue, 0, len(m))
	for k, v := range m {
		out = append(out, stats.NamedValue{Name: k, Value: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Name < out[j].Name
	})
	return out
}
