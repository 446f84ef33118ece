package cohort

import (
	domain "qisim/domain/cohort"
)

// Outcome labels
const (
	OutcomeRecovered    = "Recovered"
	OutcomeImproved     = "Improved"
	OutcomeStable       = "Stable"
	OutcomeDeteriorated = "Deteriorated"
	OutcomeReadmitted   = "Readmitted"
	OutcomeDeceased     = "Deceased"
)

// Reference vocabularies for categorical draws
var (
	Genders = []string{"Male", "Female", "Non-binary"}

	Units = []string{
		"ICU", "Cardiology", "Medical Ward", "Surgical Ward",
		"Emergency", "Oncology", "Neurology", "Respiratory",
	}

	Conditions = []string{
		"Heart Failure", "Pneumonia", "COPD Exacerbation", "Sepsis",
		"Diabetes", "Acute MI", "Stroke", "Hip Fracture",
		"Chronic Kidney Disease", "Cellulitis",
	}

	Outcomes = []string{
		OutcomeRecovered, OutcomeImproved, OutcomeStable,
		OutcomeDeteriorated, OutcomeReadmitted, OutcomeDeceased,
	}

	TreatmentNames = []string{
		"Antibiotics", "Diuretics", "Beta Blockers", "ACE Inhibitors",
		"Insulin", "Physical Therapy", "Oxygen Therapy", "Anticoagulants",
		"Pain Management", "Respiratory Therapy", "Corticosteroids", "Nutrition Support",
	}

	Comorbidities = []string{
		"Hypertension", "Type 2 Diabetes", "Obesity", "Chronic Kidney Disease",
		"COPD", "Atrial Fibrillation", "Depression", "Hyperlipidemia",
		"Asthma", "Osteoarthritis", "Anemia", "Dementia",
	}
)

// allowedOutcomes is the fixed (bias, band) lookup outcome draws are restricted to
var allowedOutcomes = map[domain.OutcomeDistribution]map[domain.RiskBand][]string{
	domain.OutcomesBalanced: {
		domain.RiskLow:    {OutcomeRecovered, OutcomeImproved, OutcomeStable},
		domain.RiskMedium: {OutcomeImproved, OutcomeStable, OutcomeDeteriorated},
		domain.RiskHigh:   {OutcomeStable, OutcomeDeteriorated, OutcomeReadmitted, OutcomeDeceased},
	},
	domain.OutcomesPositive: {
		domain.RiskLow:    {OutcomeRecovered, OutcomeImproved},
		domain.RiskMedium: {OutcomeRecovered, OutcomeImproved, OutcomeStable},
		domain.RiskHigh:   {OutcomeImproved, OutcomeStable, OutcomeDeteriorated},
	},
	domain.OutcomesNegative: {
		domain.RiskLow:    {OutcomeImproved, OutcomeStable, OutcomeDeteriorated},
		domain.RiskMedium: {OutcomeStable, OutcomeDeteriorated, OutcomeReadmitted},
		domain.RiskHigh:   {OutcomeDeteriorated, OutcomeReadmitted, OutcomeDeceased},
	},
}

// AllowedOutcomes returns the outcomes a participant in band may draw under bias.
// Unknown biases fall back to balanced.
func AllowedOutcomes(bias domain.OutcomeDistribution, band domain.RiskBand) []string {
	table, ok := allowedOutcomes[bias]
	if !ok {
		table = allowedOutcomes[domain.OutcomesBalanced]
	}
	return table[band]
}

// Deep phenotype vocabularies
var (
	ethnicities       = []string{"White", "Black", "Hispanic", "Asian", "Native American", "Pacific Islander", "Mixed", "Other"}
	educationLevels   = []string{"Less than High School", "High School", "Some College", "Bachelor's", "Graduate"}
	employmentStatus  = []string{"Employed", "Unemployed", "Retired", "Disabled", "Student"}
	maritalStatus     = []string{"Single", "Married", "Divorced", "Widowed", "Partnered"}
	insuranceTypes    = []string{"Medicare", "Medicaid", "Private", "Uninsured", "Military"}
	primaryLanguages  = []string{"English", "Spanish", "Chinese", "Vietnamese", "Arabic", "Other"}
	fallRiskLevels    = []string{"low", "moderate", "high"}
	housingStability  = []string{"stable", "at risk", "unstable", "homeless"}
	foodSecurity      = []string{"secure", "low security", "very low security"}
	incomeLevels      = []string{"low", "lower-middle", "middle", "upper-middle", "high"}
	smokingStatus     = []string{"never", "former", "current"}
	alcoholUse        = []string{"none", "moderate", "heavy"}
	familyHistoryPool = []string{"Heart Disease", "Diabetes", "Cancer", "Stroke", "Hypertension", "Kidney Disease", "Dementia"}
)
