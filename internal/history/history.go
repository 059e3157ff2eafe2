// Package history persists each completed analysis to Postgres. Persistence
// is optional: the service runs without a database, it just keeps no history.
package history

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lifematch-ai/matchd/internal/record"
)

type Store struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

// WriteMatch inserts one flattened analysis row and returns its id.
// Table: match_analyses, one column per flat record field plus id/created_at.
func (s *Store) WriteMatch(ctx context.Context, rec record.FlatRecord) (uuid.UUID, error) {
	id := uuid.New()
	_, err := s.pool.Exec(ctx, `
		INSERT INTO match_analyses (
			id,
			patient_id, patient_blood_type, patient_organ_needed,
			patient_medical_urgency, patient_wait_time, patient_location,
			patient_hospital, patient_age, patient_medical_condition,
			patient_registration_date,
			donor_id, donor_blood_type, donor_organ_available,
			donor_location, donor_hospital, donor_tissue_type, donor_age,
			donor_donation_date, donor_organ_condition,
			compatibility_score, match_priority, key_points,
			analysis_timestamp, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, now()
		)`,
		id,
		rec.PatientID, rec.PatientBloodType, rec.PatientOrganNeeded,
		rec.PatientMedicalUrgency, rec.PatientWaitTime, rec.PatientLocation,
		rec.PatientHospital, rec.PatientAge, rec.PatientMedicalCondition,
		rec.PatientRegistrationDate,
		rec.DonorID, rec.DonorBloodType, rec.DonorOrganAvailable,
		rec.DonorLocation, rec.DonorHospital, rec.DonorTissueType, rec.DonorAge,
		rec.DonorDonationDate, rec.DonorOrganCondition,
		rec.CompatibilityScore, rec.MatchPriority, rec.KeyPoints,
		rec.AnalysisTimestamp,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert match analysis: %w", err)
	}
	return id, nil
}

// RecentMatches returns the newest analyses, most recent first.
func (s *Store) RecentMatches(ctx context.Context, limit int) ([]record.FlatRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT
			patient_id, patient_blood_type, patient_organ_needed,
			patient_medical_urgency, patient_wait_time, patient_location,
			patient_hospital, patient_age, patient_medical_condition,
			patient_registration_date,
			donor_id, donor_blood_type, donor_organ_available,
			donor_location, donor_hospital, donor_tissue_type, donor_age,
			donor_donation_date, donor_organ_condition,
			compatibility_score, match_priority, key_points,
			analysis_timestamp
		FROM match_analyses
		ORDER BY created_at DESC
		LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query match analyses: %w", err)
	}
	defer rows.Close()

	var recs []record.FlatRecord
	for rows.Next() {
		var r record.FlatRecord
		if err := rows.Scan(
			&r.PatientID, &r.PatientBloodType, &r.PatientOrganNeeded,
			&r.PatientMedicalUrgency, &r.PatientWaitTime, &r.PatientLocation,
			&r.PatientHospital, &r.PatientAge, &r.PatientMedicalCondition,
			&r.PatientRegistrationDate,
			&r.DonorID, &r.DonorBloodType, &r.DonorOrganAvailable,
			&r.DonorLocation, &r.DonorHospital, &r.DonorTissueType, &r.DonorAge,
			&r.DonorDonationDate, &r.DonorOrganCondition,
			&r.CompatibilityScore, &r.MatchPriority, &r.KeyPoints,
			&r.AnalysisTimestamp,
		); err != nil {
			return nil, fmt.Errorf("scan match analysis: %w", err)
		}
		recs = append(recs, r)
	}
	return recs, rows.Err()
}
