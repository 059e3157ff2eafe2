// Package matcher prompts the model for a transplant match and validates the
// JSON it sends back.
package matcher

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/lifematch-ai/matchd/internal/fault"
	"github.com/lifematch-ai/matchd/internal/groq"
)

const (
	// Low temperature keeps the model on the requested schema.
	completionTemperature = 0.1
	completionMaxTokens   = 2048
)

type Matcher struct {
	llm    *groq.Client
	logger *slog.Logger
}

func New(llm *groq.Client, logger *slog.Logger) *Matcher {
	return &Matcher{llm: llm, logger: logger}
}

// Analyze sends the relevant conversation content to the model and returns the
// validated match. An empty content string is allowed; the model is still
// asked and its answer still validated.
func (m *Matcher) Analyze(ctx context.Context, content string) (*MatchAnalysis, error) {
	prompt := fmt.Sprintf(matchUserPrompt, content)

	m.logger.Info("requesting match analysis", "content_len", len(content))

	raw, err := m.llm.Complete(ctx, systemPrompt, prompt, completionTemperature, completionMaxTokens)
	if err != nil {
		return nil, fmt.Errorf("llm match analysis: %w", err)
	}

	analysis, err := parseResponse(raw)
	if err != nil {
		m.logger.Error("failed to parse match response", "error", err, "raw", raw)
		return nil, err
	}

	m.logger.Info("match analysis complete",
		"patient_id", analysis.Patient.PatientID,
		"donor_id", analysis.Donor.DonorID,
		"match_priority", analysis.MatchPriority,
		"key_points", len(analysis.KeyPoints),
	)

	return analysis, nil
}

// requiredPatientFields and requiredDonorFields drive shape validation; every
// column of the flat record must be present in the model's answer.
var (
	requiredPatientFields = []string{
		"patient_id", "blood_type", "organ_needed", "medical_urgency", "wait_time",
		"location", "hospital", "age", "medical_condition", "registration_date",
	}
	requiredDonorFields = []string{
		"donor_id", "blood_type", "organ_available", "location", "hospital",
		"tissue_type", "age", "donation_date", "organ_condition",
	}
	requiredTopFields = []string{
		"patient", "donor", "key_points", "compatibility_score", "match_priority",
	}
)

// parseResponse parses the raw completion and validates the full nested shape
// up front, reporting every missing field in one error instead of failing on
// first access. Both "match_analysis" and the legacy "best_match" envelope
// are accepted.
func parseResponse(raw string) (*MatchAnalysis, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &top); err != nil {
		return nil, fault.Wrap(fault.KindMalformed, "model response is not valid JSON", err)
	}

	inner, ok := top["match_analysis"]
	if !ok {
		inner, ok = top["best_match"]
	}
	if !ok {
		return nil, fault.New(fault.KindMalformed, `model response missing "match_analysis" object`)
	}

	missing := collectMissing(inner)
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fault.New(fault.KindMalformed,
			"model response missing fields: "+strings.Join(missing, ", "))
	}

	var analysis MatchAnalysis
	if err := json.Unmarshal(inner, &analysis); err != nil {
		return nil, fault.Wrap(fault.KindMalformed, "decode match analysis", err)
	}

	return &analysis, nil
}

func collectMissing(inner json.RawMessage) []string {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(inner, &fields); err != nil {
		return []string{"match_analysis (not an object)"}
	}

	var missing []string
	for _, key := range requiredTopFields {
		if _, ok := fields[key]; !ok {
			missing = append(missing, key)
		}
	}

	missing = append(missing, missingObjectFields(fields["patient"], "patient", requiredPatientFields)...)
	missing = append(missing, missingObjectFields(fields["donor"], "donor", requiredDonorFields)...)
	return missing
}

func missingObjectFields(raw json.RawMessage, prefix string, required []string) []string {
	if raw == nil {
		return nil // absence of the object itself is already reported
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return []string{prefix + " (not an object)"}
	}

	var missing []string
	for _, key := range required {
		if _, ok := obj[key]; !ok {
			missing = append(missing, prefix+"."+key)
		}
	}
	return missing
}
