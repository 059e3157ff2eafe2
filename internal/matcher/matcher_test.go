package matcher

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/lifematch-ai/matchd/internal/fault"
	"github.com/lifematch-ai/matchd/internal/groq"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fullAnalysis() MatchAnalysis {
	return MatchAnalysis{
		Patient: PatientRecord{
			PatientID:        "P-4521",
			BloodType:        "O+",
			OrganNeeded:      "Kidney",
			MedicalUrgency:   "Critical",
			WaitTime:         "847",
			Location:         "Chicago",
			Hospital:         "Northwestern Memorial",
			Age:              "34",
			MedicalCondition: "End-stage renal disease",
			RegistrationDate: "2022-03-15",
		},
		Donor: DonorRecord{
			DonorID:        "D-1987",
			BloodType:      "O+",
			OrganAvailable: "Kidney",
			Location:       "Chicago",
			Hospital:       "Rush University Medical",
			TissueType:     "HLA-A2",
			Age:            "29",
			DonationDate:   "2024-01-10",
			OrganCondition: "Excellent",
		},
		KeyPoints:          []string{"Identical blood type", "Same metro area", "Critical urgency", "Long wait time", "Good tissue match"},
		CompatibilityScore: "94%",
		MatchPriority:      "HIGH",
	}
}

func completionServer(t *testing.T, text string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": text}, "finish_reason": "stop"},
			},
		})
	}))
}

func TestAnalyze_Success(t *testing.T) {
	payload, _ := json.Marshal(map[string]any{"match_analysis": fullAnalysis()})
	server := completionServer(t, string(payload))
	defer server.Close()

	llm := groq.NewClient("test-key", "test-model", 10*time.Second)
	llm.SetTestTransport(server.URL)

	m := New(llm, discardLogger())
	result, err := m.Analyze(context.Background(), "Patient P-4521 needs a kidney.\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Patient.PatientID != "P-4521" {
		t.Errorf("expected patient P-4521, got %q", result.Patient.PatientID)
	}
	if result.Donor.TissueType != "HLA-A2" {
		t.Errorf("expected tissue type HLA-A2, got %q", result.Donor.TissueType)
	}
	if result.CompatibilityScore != "94%" {
		t.Errorf("expected score 94%%, got %q", result.CompatibilityScore)
	}
	if len(result.KeyPoints) != 5 {
		t.Errorf("expected 5 key points, got %d", len(result.KeyPoints))
	}
}

func TestAnalyze_BestMatchEnvelope(t *testing.T) {
	payload, _ := json.Marshal(map[string]any{"best_match": fullAnalysis()})
	server := completionServer(t, string(payload))
	defer server.Close()

	llm := groq.NewClient("test-key", "test-model", 10*time.Second)
	llm.SetTestTransport(server.URL)

	m := New(llm, discardLogger())
	result, err := m.Analyze(context.Background(), "content")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.MatchPriority != "HIGH" {
		t.Errorf("expected HIGH priority via best_match envelope, got %q", result.MatchPriority)
	}
}

func TestAnalyze_InvalidJSON(t *testing.T) {
	server := completionServer(t, "I could not find a suitable match.")
	defer server.Close()

	llm := groq.NewClient("test-key", "test-model", 10*time.Second)
	llm.SetTestTransport(server.URL)

	m := New(llm, discardLogger())
	_, err := m.Analyze(context.Background(), "content")
	if err == nil {
		t.Fatal("expected error for non-JSON completion")
	}
	if fault.KindOf(err) != fault.KindMalformed {
		t.Errorf("expected malformed_response kind, got %s", fault.KindOf(err))
	}
}

func TestParseResponse_ReportsAllMissingFields(t *testing.T) {
	analysis := map[string]any{
		"patient": map[string]string{
			"patient_id": "P-1", "blood_type": "A+", "organ_needed": "Liver",
			"medical_urgency": "High", "wait_time": "120", "location": "Boston",
			"hospital": "MGH", "age": "51", "medical_condition": "Cirrhosis",
			// registration_date missing
		},
		"donor": map[string]string{
			"donor_id": "D-1", "blood_type": "A+", "organ_available": "Liver",
			"location": "Boston", "hospital": "BWH", "age": "40",
			"donation_date": "2024-02-02", "organ_condition": "Good",
			// tissue_type missing
		},
		"key_points":          []string{"a"},
		"compatibility_score": "88%",
		// match_priority missing
	}
	payload, _ := json.Marshal(map[string]any{"match_analysis": analysis})

	_, err := parseResponse(string(payload))
	if err == nil {
		t.Fatal("expected error for missing fields")
	}

	msg := err.Error()
	for _, want := range []string{"patient.registration_date", "donor.tissue_type", "match_priority"} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected error to name %s, got %q", want, msg)
		}
	}
	if fault.KindOf(err) != fault.KindMalformed {
		t.Errorf("expected malformed_response kind, got %s", fault.KindOf(err))
	}
}

func TestParseResponse_MissingEnvelope(t *testing.T) {
	_, err := parseResponse(`{"something_else": {}}`)
	if err == nil {
		t.Fatal("expected error when match_analysis envelope is absent")
	}
}

func TestParseResponse_PatientNotObject(t *testing.T) {
	_, err := parseResponse(`{"match_analysis":{"patient":"oops","donor":{},"key_points":[],"compatibility_score":"1%","match_priority":"LOW"}}`)
	if err == nil {
		t.Fatal("expected error when patient is not an object")
	}
	if !strings.Contains(err.Error(), "patient (not an object)") {
		t.Errorf("expected patient shape complaint, got %q", err.Error())
	}
}
