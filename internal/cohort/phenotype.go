package cohort

import (
	"math"

	"qisim/domain/cohort"
	"qisim/internal/random"
)

// generateDeepPhenotype draws the extended characterization. Clinical burden, utilization
// and cost scale with risk so the bundle carries plausible correlations for analysis.
func (g *Generator) generateDeepPhenotype(p cohort.Participant) cohort.DeepPhenotype {
	r := g.rng
	risk := p.RiskScore / 100
	elderly := p.Age >= 65

	dp := cohort.DeepPhenotype{
		Ethnicity:        random.Choice(r, ethnicities),
		EducationLevel:   random.Choice(r, educationLevels),
		EmploymentStatus: random.Choice(r, employmentStatus),
		MaritalStatus:    random.Choice(r, maritalStatus),
		InsuranceType:    random.Choice(r, insuranceTypes),
		PrimaryLanguage:  random.Choice(r, primaryLanguages),

		TimeToTreatmentHours:   roundTo(random.Uniform(r, 0.5, 12)+risk*6, 1),
		MedicationAdherence:    roundTo(random.Clamp(random.Normal(r, 80-risk*15, 10), 0, 100), 1),
		CarePlanDocumented:     random.Chance(r, 0.85),
		DischargeEducationDone: random.Chance(r, 0.75),
		FollowUpScheduled:      random.Chance(r, 0.7),
		GuidelineAdherence:     roundTo(random.Uniform(r, 60, 100), 1),

		PatientSatisfaction: roundTo(random.Clamp(random.Normal(r, 80-risk*20, 10), 0, 100), 1),
		QualityOfLife:       roundTo(random.Clamp(random.Normal(r, 70-risk*30, 12), 0, 100), 1),
		AnxietyScore:        float64(random.IntBetween(r, 0, 21)),
		DepressionScore:     float64(random.IntBetween(r, 0, 27)),
		PainInterference:    roundTo(random.Uniform(r, 0, 10), 1),
		FatigueScore:        roundTo(random.Uniform(r, 0, 10), 1),

		EDVisitsPastYear:         random.IntBetween(r, 0, 1+int(risk*5)),
		HospitalizationsPastYear: random.IntBetween(r, 0, 1+int(risk*3)),
		OutpatientVisitsPastYear: random.IntBetween(r, 1, 12),
		SpecialistReferrals:      random.IntBetween(r, 0, 4),

		CharlsonIndex:  random.IntBetween(r, 0, 2+int(risk*8)),
		FrailtyIndex:   roundTo(random.Clamp(random.Normal(r, 0.1+risk*0.4, 0.08), 0, 1), 2),
		Polypharmacy:   random.IntBetween(r, 0, 4+int(risk*10)),
		BMI:            roundTo(random.Clamp(random.Normal(r, 27, 5), 15, 55), 1),
		CognitiveScore: roundTo(random.Clamp(random.Normal(r, 27-risk*5, 2), 0, 30), 0),
	}

	dp.TotalCost = roundTo(2000+float64(p.LengthOfStay)*random.Uniform(r, 1500, 3500), 2)
	dp.MedicationCost = roundTo(dp.TotalCost*random.Uniform(r, 0.05, 0.25), 2)
	dp.OutOfPocketCost = roundTo(dp.TotalCost*outOfPocketShare(dp.InsuranceType)*random.Uniform(r, 0.5, 1.5), 2)

	dp.FunctionalStatus = cohort.FunctionalStatus{
		ADLScore:         random.IntBetween(r, int(math.Max(0, 6-risk*6)), 6),
		IADLScore:        random.IntBetween(r, int(math.Max(0, 8-risk*8)), 8),
		MobilityScore:    roundTo(random.Clamp(random.Normal(r, 80-risk*40, 10), 0, 100), 1),
		PhysicalFunction: roundTo(random.Clamp(random.Normal(r, 75-risk*35-ageBurden(p.Age), 10), 0, 100), 1),
		FallRisk:         fallRisk(risk, elderly),
	}

	dp.SocialDeterminants = cohort.SocialDeterminants{
		HousingStability:     random.Choice(r, housingStability),
		FoodSecurity:         random.Choice(r, foodSecurity),
		TransportationAccess: random.Chance(r, 0.8),
		SocialSupport:        roundTo(random.Uniform(r, 0, 10), 1),
		IncomeLevel:          random.Choice(r, incomeLevels),
	}

	dp.RiskFactors = cohort.RiskFactors{
		SmokingStatus:           random.Choice(r, smokingStatus),
		AlcoholUse:              random.Choice(r, alcoholUse),
		PhysicalActivityMinutes: roundTo(random.Clamp(random.Normal(r, 120-risk*80, 40), 0, 600), 0),
	}
	if n := random.IntBetween(r, 0, 3); n > 0 {
		dp.RiskFactors.FamilyHistory = random.Sample(r, familyHistoryPool, n)
	}

	dp.DiseaseSpecificMeasures = g.diseaseMarkers(p)
	return dp
}

// diseaseMarkers draws the markers relevant to the condition and comorbidities; eGFR is
// always drawn.
func (g *Generator) diseaseMarkers(p cohort.Participant) cohort.DiseaseSpecificMeasures {
	r := g.rng
	has := func(label string) bool {
		for _, c := range p.Comorbidities {
			if c == label {
				return true
			}
		}
		return false
	}

	var m cohort.DiseaseSpecificMeasures
	if p.Condition == "Diabetes" || has("Type 2 Diabetes") {
		m.HbA1c = cohort.Float(roundTo(random.Clamp(random.Normal(r, 7.8, 1.2), 5, 14), 1))
	}
	switch p.Condition {
	case "Heart Failure":
		m.EjectionFraction = cohort.Float(roundTo(random.Uniform(r, 15, 45), 0))
		m.NTproBNP = cohort.Float(roundTo(random.Uniform(r, 400, 9000), 0))
		m.LDLCholesterol = cohort.Float(roundTo(random.Normal(r, 110, 30), 0))
	case "Acute MI", "Stroke":
		m.EjectionFraction = cohort.Float(roundTo(random.Uniform(r, 30, 65), 0))
		m.LDLCholesterol = cohort.Float(roundTo(random.Normal(r, 130, 35), 0))
	case "COPD Exacerbation", "Pneumonia":
		m.FEV1Percent = cohort.Float(roundTo(random.Clamp(random.Normal(r, 55, 15), 15, 110), 0))
	}
	if has("COPD") && m.FEV1Percent == nil {
		m.FEV1Percent = cohort.Float(roundTo(random.Clamp(random.Normal(r, 60, 15), 15, 110), 0))
	}

	egfr := random.Normal(r, 90-float64(p.Age-MinAge)*0.5, 12)
	if p.Condition == "Chronic Kidney Disease" || has("Chronic Kidney Disease") {
		egfr = random.Uniform(r, 10, 59)
	}
	m.EGFR = cohort.Float(roundTo(random.Clamp(egfr, 5, 130), 0))
	return m
}

func outOfPocketShare(insurance string) float64 {
	switch insurance {
	case "Uninsured":
		return 0.6
	case "Medicaid":
		return 0.02
	case "Medicare", "Military":
		return 0.08
	default:
		return 0.15
	}
}

func ageBurden(age int) float64 {
	if age <= 50 {
		return 0
	}
	return float64(age-50) * 0.3
}

func fallRisk(risk float64, elderly bool) string {
	score := risk
	if elderly {
		score += 0.3
	}
	switch {
	case score < 0.4:
		return fallRiskLevels[0]
	case score < 0.8:
		return fallRiskLevels[1]
	default:
		return fallRiskLevels[2]
	}
}
