// Package standing holds the computed academic standing aggregate: the
// complete derived output for one student in one batch run. Standings
// are write-once per run; a new batch run replaces them wholesale.
package standing

import (
	"context"
	"time"

	"github.com/keswick-hub/registrar-engine/internal/domain/awards"
	"github.com/keswick-hub/registrar-engine/internal/domain/gpa"
	"github.com/keswick-hub/registrar-engine/internal/domain/layout"
	"github.com/keswick-hub/registrar-engine/internal/domain/rank"
	"github.com/keswick-hub/registrar-engine/internal/domain/shared"
)

// Standing is the full computed result set for one student.
type Standing struct {
	// StudentID is the SIS student identifier.
	StudentID shared.StudentID `json:"student_id"`

	// GraduationYear is the student's cohort.
	GraduationYear shared.GraduationYear `json:"graduation_year"`

	// GPA is the complete GPA calculation.
	GPA gpa.Result `json:"gpa"`

	// Rank is the cohort rank result, zero-valued until ranking has run.
	Rank rank.Result `json:"rank"`

	// Awards are the earned distinctions in rule order.
	Awards []awards.Award `json:"awards,omitempty"`

	// DiplomaDesignation is the diploma tier string, possibly projected.
	DiplomaDesignation string `json:"diploma_designation"`

	// Layout is the rendering density estimate.
	Layout layout.Metrics `json:"layout"`

	// RunID identifies the batch run that produced this standing.
	RunID string `json:"run_id"`

	// ComputedAt is when the batch run produced this standing.
	ComputedAt time.Time `json:"computed_at"`
}

// IsRanked reports whether cohort ranking has been applied.
func (s Standing) IsRanked() bool {
	return s.Rank.Rank.IsValid() || s.Rank.IsPartTime
}

// Repository persists computed standings. Implementations live in
// infrastructure/persistence.
type Repository interface {
	// Upsert stores one standing, replacing any earlier run's row.
	Upsert(ctx context.Context, s Standing) error

	// GetByStudent returns the latest standing for one student.
	GetByStudent(ctx context.Context, id shared.StudentID) (Standing, error)

	// GetByGraduationYear returns the latest standings of one cohort.
	GetByGraduationYear(ctx context.Context, year shared.GraduationYear) ([]Standing, error)
}

// GPACache is the cohort-scoped cache of GPA results that feeds the
// ranking step. It is an explicit collaborator, not hidden module
// state: ranking reads a materialized map, never recomputes.
type GPACache interface {
	// PutCohort stores the full cohort GPA map.
	PutCohort(ctx context.Context, year shared.GraduationYear, results map[shared.StudentID]gpa.Result) error

	// GetCohort loads the full cohort GPA map; ok is false on miss.
	GetCohort(ctx context.Context, year shared.GraduationYear) (map[shared.StudentID]gpa.Result, bool, error)

	// Invalidate drops a cohort's cached map.
	Invalidate(ctx context.Context, year shared.GraduationYear) error
}
