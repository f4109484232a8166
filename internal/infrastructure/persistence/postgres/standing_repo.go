package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/keswick-hub/registrar-engine/internal/domain/awards"
	"github.com/keswick-hub/registrar-engine/internal/domain/gpa"
	"github.com/keswick-hub/registrar-engine/internal/domain/layout"
	"github.com/keswick-hub/registrar-engine/internal/domain/rank"
	"github.com/keswick-hub/registrar-engine/internal/domain/shared"
	"github.com/keswick-hub/registrar-engine/internal/domain/standing"
)

// StandingRepository implements standing.Repository for PostgreSQL.
// Flat scalar columns carry what reporting queries filter on; the full
// nested results round-trip through JSONB documents.
type StandingRepository struct {
	conn *Connection
}

// NewStandingRepository creates a new StandingRepository.
func NewStandingRepository(conn *Connection) *StandingRepository {
	return &StandingRepository{conn: conn}
}

// Upsert stores one standing, replacing any earlier run's row.
func (r *StandingRepository) Upsert(ctx context.Context, s standing.Standing) error {
	gpaJSON, err := json.Marshal(s.GPA)
	if err != nil {
		return fmt.Errorf("failed to marshal gpa detail: %w", err)
	}
	awardsJSON, err := json.Marshal(s.Awards)
	if err != nil {
		return fmt.Errorf("failed to marshal awards: %w", err)
	}
	layoutJSON, err := json.Marshal(s.Layout)
	if err != nil {
		return fmt.Errorf("failed to marshal layout metrics: %w", err)
	}

	query := `
		INSERT INTO standings (
			student_id, graduation_year,
			weighted_gpa, unweighted_gpa, core_weighted_gpa, core_unweighted_gpa,
			credits_earned, credits_attempted,
			class_rank, cohort_size, percentile, decile, is_part_time,
			diploma_designation, gpa_detail, awards, layout_metrics,
			run_id, computed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		ON CONFLICT (student_id) DO UPDATE SET
			graduation_year = EXCLUDED.graduation_year,
			weighted_gpa = EXCLUDED.weighted_gpa,
			unweighted_gpa = EXCLUDED.unweighted_gpa,
			core_weighted_gpa = EXCLUDED.core_weighted_gpa,
			core_unweighted_gpa = EXCLUDED.core_unweighted_gpa,
			credits_earned = EXCLUDED.credits_earned,
			credits_attempted = EXCLUDED.credits_attempted,
			class_rank = EXCLUDED.class_rank,
			cohort_size = EXCLUDED.cohort_size,
			percentile = EXCLUDED.percentile,
			decile = EXCLUDED.decile,
			is_part_time = EXCLUDED.is_part_time,
			diploma_designation = EXCLUDED.diploma_designation,
			gpa_detail = EXCLUDED.gpa_detail,
			awards = EXCLUDED.awards,
			layout_metrics = EXCLUDED.layout_metrics,
			run_id = EXCLUDED.run_id,
			computed_at = EXCLUDED.computed_at
	`

	var runID any
	if s.RunID != "" {
		runID = s.RunID
	}

	_, err = r.conn.Exec(ctx, query,
		s.StudentID.Int64(),
		s.GraduationYear.Int(),
		s.GPA.Weighted,
		s.GPA.Unweighted,
		s.GPA.CoreWeighted,
		s.GPA.CoreUnweighted,
		s.GPA.CreditsEarned,
		s.GPA.CreditsAttempted,
		s.Rank.Rank.Int(),
		s.Rank.CohortSize,
		s.Rank.Percentile,
		s.Rank.Decile,
		s.Rank.IsPartTime,
		s.DiplomaDesignation,
		gpaJSON,
		awardsJSON,
		layoutJSON,
		runID,
		s.ComputedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert standing: %w", err)
	}
	return nil
}

// GetByStudent returns the latest standing for one student.
func (r *StandingRepository) GetByStudent(ctx context.Context, id shared.StudentID) (standing.Standing, error) {
	query := standingSelect + ` WHERE student_id = $1`

	row := r.conn.QueryRow(ctx, query, id.Int64())
	s, err := scanStanding(row)
	if err != nil {
		if IsNoRows(err) {
			return standing.Standing{}, shared.ErrStandingNotFound
		}
		return standing.Standing{}, fmt.Errorf("failed to load standing: %w", err)
	}
	return s, nil
}

// GetByGraduationYear returns the latest standings of one cohort.
func (r *StandingRepository) GetByGraduationYear(ctx context.Context, year shared.GraduationYear) ([]standing.Standing, error) {
	query := standingSelect + ` WHERE graduation_year = $1 ORDER BY class_rank, student_id`

	rows, err := r.conn.Query(ctx, query, year.Int())
	if err != nil {
		return nil, fmt.Errorf("failed to query cohort standings: %w", err)
	}
	defer rows.Close()

	var standings []standing.Standing
	for rows.Next() {
		s, err := scanStanding(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan standing: %w", err)
		}
		standings = append(standings, s)
	}
	return standings, rows.Err()
}

const standingSelect = `
	SELECT student_id, graduation_year,
	       class_rank, cohort_size, percentile, decile, is_part_time, core_weighted_gpa,
	       diploma_designation, gpa_detail, awards, layout_metrics,
	       COALESCE(run_id::text, ''), computed_at
	FROM standings
`

// rowScanner is satisfied by both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanStanding rebuilds a Standing from one row. The rank block is
// reconstructed from the flat columns; the nested results come from
// their JSONB documents.
func scanStanding(row rowScanner) (standing.Standing, error) {
	var s standing.Standing
	var studentID int64
	var gradYear, rankVal int
	var gpaJSON, awardsJSON, layoutJSON []byte

	err := row.Scan(
		&studentID,
		&gradYear,
		&rankVal,
		&s.Rank.CohortSize,
		&s.Rank.Percentile,
		&s.Rank.Decile,
		&s.Rank.IsPartTime,
		&s.Rank.CoreWeightedGPA,
		&s.DiplomaDesignation,
		&gpaJSON,
		&awardsJSON,
		&layoutJSON,
		&s.RunID,
		&s.ComputedAt,
	)
	if err != nil {
		return standing.Standing{}, err
	}

	s.StudentID = shared.StudentID(studentID)
	s.GraduationYear = shared.GraduationYear(gradYear)
	s.Rank.StudentID = s.StudentID
	s.Rank.Rank = rank.Rank(rankVal)

	if len(gpaJSON) > 0 {
		if err := json.Unmarshal(gpaJSON, &s.GPA); err != nil {
			return standing.Standing{}, fmt.Errorf("failed to unmarshal gpa detail: %w", err)
		}
	} else {
		s.GPA = gpa.Result{}
	}
	if len(awardsJSON) > 0 {
		if err := json.Unmarshal(awardsJSON, &s.Awards); err != nil {
			return standing.Standing{}, fmt.Errorf("failed to unmarshal awards: %w", err)
		}
	} else {
		s.Awards = []awards.Award{}
	}
	if len(layoutJSON) > 0 {
		if err := json.Unmarshal(layoutJSON, &s.Layout); err != nil {
			return standing.Standing{}, fmt.Errorf("failed to unmarshal layout metrics: %w", err)
		}
	} else {
		s.Layout = layout.Metrics{}
	}
	return s, nil
}
