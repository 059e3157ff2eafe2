package matcher

// MatchAnalysis is the structured match the model is asked to return. All
// fields arrive as free-form strings; ages, dates and scores stay opaque
// because the dashboard renders them verbatim.
type MatchAnalysis struct {
	Patient            PatientRecord `json:"patient"`
	Donor              DonorRecord   `json:"donor"`
	KeyPoints          []string      `json:"key_points"`
	CompatibilityScore string        `json:"compatibility_score"`
	MatchPriority      string        `json:"match_priority"` // HIGH | MEDIUM | LOW, not enforced
}

type PatientRecord struct {
	PatientID        string `json:"patient_id"`
	BloodType        string `json:"blood_type"`
	OrganNeeded      string `json:"organ_needed"`
	MedicalUrgency   string `json:"medical_urgency"`
	WaitTime         string `json:"wait_time"`
	Location         string `json:"location"`
	Hospital         string `json:"hospital"`
	Age              string `json:"age"`
	MedicalCondition string `json:"medical_condition"`
	RegistrationDate string `json:"registration_date"`
}

type DonorRecord struct {
	DonorID        string `json:"donor_id"`
	BloodType      string `json:"blood_type"`
	OrganAvailable string `json:"organ_available"`
	Location       string `json:"location"`
	Hospital       string `json:"hospital"`
	TissueType     string `json:"tissue_type"`
	Age            string `json:"age"`
	DonationDate   string `json:"donation_date"`
	OrganCondition string `json:"organ_condition"`
}
