package cohort

import (
	"qisim/domain/core"
)

// Participant is one simulated or imported record.
// Participants are treated as immutable snapshots once generated; derivation works on copies.
type Participant struct {
	ID              core.ParticipantID `json:"id"`
	Age             int                `json:"age"`
	Gender          string             `json:"gender"`
	Unit            string             `json:"unit"`
	Condition       string             `json:"condition"`
	RiskScore       float64            `json:"riskScore"`
	Outcome         string             `json:"outcome"`
	LengthOfStay    int                `json:"lengthOfStay"`
	ReadmissionRisk float64            `json:"readmissionRisk"`
	Measurements    []Measurement      `json:"measurements"`
	Treatments      []Treatment        `json:"treatments"`
	Comorbidities   []string           `json:"comorbidities,omitempty"`
	DeepPhenotype   *DeepPhenotype     `json:"deepPhenotype,omitempty"`

	// Derived holds dependency outputs that do not name an existing field.
	// Values are float64 or nested map[string]interface{} containers.
	Derived map[string]interface{} `json:"derivedValues,omitempty"`
}

// Measurement is one dated clinical reading. A nil field is a missing value.
type Measurement struct {
	Date             core.Date `json:"date"`
	SystolicBP       *float64  `json:"systolicBP"`
	DiastolicBP      *float64  `json:"diastolicBP"`
	HeartRate        *float64  `json:"heartRate"`
	Temperature      *float64  `json:"temperature"`
	OxygenSaturation *float64  `json:"oxygenSaturation"`
	PainLevel        *float64  `json:"painLevel"`
}

// MeasurementFieldCount is the number of nullable readings on a Measurement
const MeasurementFieldCount = 6

// Fields returns pointers to the six readings in a fixed order
func (m *Measurement) Fields() [MeasurementFieldCount]**float64 {
	return [MeasurementFieldCount]**float64{
		&m.SystolicBP, &m.DiastolicBP, &m.HeartRate,
		&m.Temperature, &m.OxygenSaturation, &m.PainLevel,
	}
}

// MissingCount counts nil readings
func (m Measurement) MissingCount() int {
	n := 0
	for _, f := range m.Fields() {
		if *f == nil {
			n++
		}
	}
	return n
}

// Treatment is a therapy course. A nil EndDate means ongoing.
type Treatment struct {
	Name          string     `json:"name"`
	StartDate     core.Date  `json:"startDate"`
	EndDate       *core.Date `json:"endDate"`
	Effectiveness float64    `json:"effectiveness"`
}

// Ongoing reports whether the treatment has no end date
func (t Treatment) Ongoing() bool { return t.EndDate == nil }

// DeepPhenotype is the optional extended characterization bundle
type DeepPhenotype struct {
	// Demographics
	Ethnicity        string `json:"ethnicity"`
	EducationLevel   string `json:"educationLevel"`
	EmploymentStatus string `json:"employmentStatus"`
	MaritalStatus    string `json:"maritalStatus"`
	InsuranceType    string `json:"insuranceType"`
	PrimaryLanguage  string `json:"primaryLanguage"`

	// Process measures
	TimeToTreatmentHours   float64 `json:"timeToTreatmentHours"`
	MedicationAdherence    float64 `json:"medicationAdherence"`
	CarePlanDocumented     bool    `json:"carePlanDocumented"`
	DischargeEducationDone bool    `json:"dischargeEducationDone"`
	FollowUpScheduled      bool    `json:"followUpScheduled"`
	GuidelineAdherence     float64 `json:"guidelineAdherence"`

	// Patient-reported outcomes
	PatientSatisfaction float64 `json:"patientSatisfaction"`
	QualityOfLife       float64 `json:"qualityOfLife"`
	AnxietyScore        float64 `json:"anxietyScore"`
	DepressionScore     float64 `json:"depressionScore"`
	PainInterference    float64 `json:"painInterference"`
	FatigueScore        float64 `json:"fatigueScore"`

	// Utilization
	EDVisitsPastYear         int `json:"edVisitsPastYear"`
	HospitalizationsPastYear int `json:"hospitalizationsPastYear"`
	OutpatientVisitsPastYear int `json:"outpatientVisitsPastYear"`
	SpecialistReferrals      int `json:"specialistReferrals"`

	// Cost
	TotalCost       float64 `json:"totalCost"`
	MedicationCost  float64 `json:"medicationCost"`
	OutOfPocketCost float64 `json:"outOfPocketCost"`

	// Clinical burden
	CharlsonIndex  int     `json:"charlsonIndex"`
	FrailtyIndex   float64 `json:"frailtyIndex"`
	Polypharmacy   int     `json:"polypharmacy"`
	BMI            float64 `json:"bmi"`
	CognitiveScore float64 `json:"cognitiveScore"`

	FunctionalStatus        FunctionalStatus        `json:"functionalStatus"`
	SocialDeterminants      SocialDeterminants      `json:"socialDeterminants"`
	RiskFactors             RiskFactors             `json:"riskFactors"`
	DiseaseSpecificMeasures DiseaseSpecificMeasures `json:"diseaseSpecificMeasures"`
}

// FunctionalStatus scores daily-living independence
type FunctionalStatus struct {
	ADLScore         int     `json:"adlScore"`
	IADLScore        int     `json:"iadlScore"`
	MobilityScore    float64 `json:"mobilityScore"`
	PhysicalFunction float64 `json:"physicalFunction"`
	FallRisk         string  `json:"fallRisk"`
}

// SocialDeterminants captures non-clinical drivers of outcomes
type SocialDeterminants struct {
	HousingStability     string  `json:"housingStability"`
	FoodSecurity         string  `json:"foodSecurity"`
	TransportationAccess bool    `json:"transportationAccess"`
	SocialSupport        float64 `json:"socialSupport"`
	IncomeLevel          string  `json:"incomeLevel"`
}

// RiskFactors are lifestyle and history attributes
type RiskFactors struct {
	SmokingStatus           string   `json:"smokingStatus"`
	AlcoholUse              string   `json:"alcoholUse"`
	PhysicalActivityMinutes float64  `json:"physicalActivityMinutes"`
	FamilyHistory           []string `json:"familyHistory,omitempty"`
}

// DiseaseSpecificMeasures holds condition markers; nil when not drawn for the condition
type DiseaseSpecificMeasures struct {
	HbA1c            *float64 `json:"hba1c,omitempty"`
	LDLCholesterol   *float64 `json:"ldlCholesterol,omitempty"`
	EjectionFraction *float64 `json:"ejectionFraction,omitempty"`
	FEV1Percent      *float64 `json:"fev1Percent,omitempty"`
	EGFR             *float64 `json:"egfr,omitempty"`
	NTproBNP         *float64 `json:"ntProBNP,omitempty"`
}

// Clone returns a deep copy that shares no mutable state with p
func (p Participant) Clone() Participant {
	out := p
	if p.Measurements != nil {
		out.Measurements = make([]Measurement, len(p.Measurements))
		for i, m := range p.Measurements {
			out.Measurements[i] = m.clone()
		}
	}
	if p.Treatments != nil {
		out.Treatments = make([]Treatment, len(p.Treatments))
		for i, t := range p.Treatments {
			out.Treatments[i] = t
			if t.EndDate != nil {
				end := *t.EndDate
				out.Treatments[i].EndDate = &end
			}
		}
	}
	if p.Comorbidities != nil {
		out.Comorbidities = append([]string(nil), p.Comorbidities...)
	}
	if p.DeepPhenotype != nil {
		dp := p.DeepPhenotype.clone()
		out.DeepPhenotype = &dp
	}
	out.Derived = cloneMap(p.Derived)
	return out
}

func (m Measurement) clone() Measurement {
	out := Measurement{Date: m.Date}
	src := m.Fields()
	dst := out.Fields()
	for i := range src {
		if *src[i] != nil {
			v := **src[i]
			*dst[i] = &v
		}
	}
	return out
}

func (d DeepPhenotype) clone() DeepPhenotype {
	out := d
	if d.RiskFactors.FamilyHistory != nil {
		out.RiskFactors.FamilyHistory = append([]string(nil), d.RiskFactors.FamilyHistory...)
	}
	dsm := &out.DiseaseSpecificMeasures
	for _, f := range []**float64{&dsm.HbA1c, &dsm.LDLCholesterol, &dsm.EjectionFraction, &dsm.FEV1Percent, &dsm.EGFR, &dsm.NTproBNP} {
		if *f != nil {
			v := **f
			*f = &v
		}
	}
	return out
}

func cloneMap(m map[string]interface{}) map[string]interface{} {
	if m == nil {
		return nil
	}
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		if nested, ok := v.(map[string]interface{}); ok {
			out[k] = cloneMap(nested)
			continue
		}
		out[k] = v
	}
	return out
}

// Float returns a pointer to v, for building measurements
func Float(v float64) *float64 { return &v }
