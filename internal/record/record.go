// Package record is the tabular form of a match analysis: one flat row with a
// fixed, total set of columns, used for CSV export and the latest endpoint.
package record

import (
	"strings"
	"time"

	"github.com/lifematch-ai/matchd/internal/matcher"
)

// KeyPointsSeparator joins the model's key points into a single CSV cell.
const KeyPointsSeparator = "; "

// TimestampFormat is the wall-clock stamp written at flattening time.
const TimestampFormat = "2006-01-02 15:04:05"

// FlatRecord is a single analysis result flattened to one row. Field order
// here is the canonical column order.
type FlatRecord struct {
	PatientID               string
	PatientBloodType        string
	PatientOrganNeeded      string
	PatientMedicalUrgency   string
	PatientWaitTime         string
	PatientLocation         string
	PatientHospital         string
	PatientAge              string
	PatientMedicalCondition string
	PatientRegistrationDate string

	DonorID             string
	DonorBloodType      string
	DonorOrganAvailable string
	DonorLocation       string
	DonorHospital       string
	DonorTissueType     string
	DonorAge            string
	DonorDonationDate   string
	DonorOrganCondition string

	CompatibilityScore string
	MatchPriority      string
	KeyPoints          string // joined with KeyPointsSeparator
	AnalysisTimestamp  string
}

// Flatten converts a validated match analysis into a flat record, stamping it
// with the given wall-clock time.
func Flatten(a *matcher.MatchAnalysis, now time.Time) FlatRecord {
	return FlatRecord{
		PatientID:               a.Patient.PatientID,
		PatientBloodType:        a.Patient.BloodType,
		PatientOrganNeeded:      a.Patient.OrganNeeded,
		PatientMedicalUrgency:   a.Patient.MedicalUrgency,
		PatientWaitTime:         a.Patient.WaitTime,
		PatientLocation:         a.Patient.Location,
		PatientHospital:         a.Patient.Hospital,
		PatientAge:              a.Patient.Age,
		PatientMedicalCondition: a.Patient.MedicalCondition,
		PatientRegistrationDate: a.Patient.RegistrationDate,

		DonorID:             a.Donor.DonorID,
		DonorBloodType:      a.Donor.BloodType,
		DonorOrganAvailable: a.Donor.OrganAvailable,
		DonorLocation:       a.Donor.Location,
		DonorHospital:       a.Donor.Hospital,
		DonorTissueType:     a.Donor.TissueType,
		DonorAge:            a.Donor.Age,
		DonorDonationDate:   a.Donor.DonationDate,
		DonorOrganCondition: a.Donor.OrganCondition,

		CompatibilityScore: a.CompatibilityScore,
		MatchPriority:      a.MatchPriority,
		KeyPoints:          strings.Join(a.KeyPoints, KeyPointsSeparator),
		AnalysisTimestamp:  now.Format(TimestampFormat),
	}
}

// Columns returns the canonical CSV header.
func Columns() []string {
	return []string{
		"patient_id", "patient_blood_type", "patient_organ_needed",
		"patient_medical_urgency", "patient_wait_time", "patient_location",
		"patient_hospital", "patient_age", "patient_medical_condition",
		"patient_registration_date",
		"donor_id", "donor_blood_type", "donor_organ_available",
		"donor_location", "donor_hospital", "donor_tissue_type", "donor_age",
		"donor_donation_date", "donor_organ_condition",
		"compatibility_score", "match_priority", "key_points",
		"analysis_timestamp",
	}
}

// Row returns the record's values in column order.
func (r FlatRecord) Row() []string {
	return []string{
		r.PatientID, r.PatientBloodType, r.PatientOrganNeeded,
		r.PatientMedicalUrgency, r.PatientWaitTime, r.PatientLocation,
		r.PatientHospital, r.PatientAge, r.PatientMedicalCondition,
		r.PatientRegistrationDate,
		r.DonorID, r.DonorBloodType, r.DonorOrganAvailable,
		r.DonorLocation, r.DonorHospital, r.DonorTissueType, r.DonorAge,
		r.DonorDonationDate, r.DonorOrganCondition,
		r.CompatibilityScore, r.MatchPriority, r.KeyPoints,
		r.AnalysisTimestamp,
	}
}

// Nested is the re-nested response shape the dashboard consumes.
type Nested struct {
	Patient       NestedPatient `json:"patient"`
	Donor         NestedDonor   `json:"donor"`
	MatchAnalysis NestedMatch   `json:"match_analysis"`
	Timestamp     string        `json:"timestamp"`
}

type NestedPatient struct {
	ID               string `json:"id"`
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

type NestedDonor struct {
	ID             string `json:"id"`
	BloodType      string `json:"blood_type"`
	OrganAvailable string `json:"organ_available"`
	Location       string `json:"location"`
	Hospital       string `json:"hospital"`
	TissueType     string `json:"tissue_type"`
	Age            string `json:"age"`
	DonationDate   string `json:"donation_date"`
	OrganCondition string `json:"organ_condition"`
}

type NestedMatch struct {
	CompatibilityScore string   `json:"compatibility_score"`
	MatchPriority      string   `json:"match_priority"`
	KeyPoints          []string `json:"key_points"`
}

// Nest rebuilds the nested response shape from the flat record. Key points
// split back into the original ordered list; every other field passes through
// unchanged.
func (r FlatRecord) Nest() Nested {
	var keyPoints []string
	if r.KeyPoints != "" {
		keyPoints = strings.Split(r.KeyPoints, KeyPointsSeparator)
	}

	return Nested{
		Patient: NestedPatient{
			ID:               r.PatientID,
			BloodType:        r.PatientBloodType,
			OrganNeeded:      r.PatientOrganNeeded,
			MedicalUrgency:   r.PatientMedicalUrgency,
			WaitTime:         r.PatientWaitTime,
			Location:         r.PatientLocation,
			Hospital:         r.PatientHospital,
			Age:              r.PatientAge,
			MedicalCondition: r.PatientMedicalCondition,
			RegistrationDate: r.PatientRegistrationDate,
		},
		Donor: NestedDonor{
			ID:             r.DonorID,
			BloodType:      r.DonorBloodType,
			OrganAvailable: r.DonorOrganAvailable,
			Location:       r.DonorLocation,
			Hospital:       r.DonorHospital,
			TissueType:     r.DonorTissueType,
			Age:            r.DonorAge,
			DonationDate:   r.DonorDonationDate,
			OrganCondition: r.DonorOrganCondition,
		},
		MatchAnalysis: NestedMatch{
			CompatibilityScore: r.CompatibilityScore,
			MatchPriority:      r.MatchPriority,
			KeyPoints:          keyPoints,
		},
		Timestamp: r.AnalysisTimestamp,
	}
}
