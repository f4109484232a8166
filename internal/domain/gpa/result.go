// Package gpa aggregates one student's course-grade records into weighted,
// unweighted, and CORE grade-point averages with credit accounting.
// Results are derived data: recomputed wholesale whenever the underlying
// record set changes, never partially updated.
package gpa

import (
	"time"

	"github.com/keswick-hub/registrar-engine/internal/domain/shared"
)

// Result is the complete GPA calculation for one student.
type Result struct {
	// StudentID is the SIS student identifier.
	StudentID shared.StudentID `json:"student_id"`

	// Weighted is the cumulative weighted GPA (base + course weight).
	Weighted float64 `json:"weighted_gpa"`

	// Unweighted is the cumulative GPA on the straight 4.0 scale.
	Unweighted float64 `json:"unweighted_gpa"`

	// CoreWeighted is the weighted GPA over CORE courses only.
	// This is the value class rank is computed from.
	CoreWeighted float64 `json:"core_weighted_gpa"`

	// CoreUnweighted is the unweighted GPA over CORE courses only.
	CoreUnweighted float64 `json:"core_unweighted_gpa"`

	// WeightedByTerm maps term key to that term's weighted GPA.
	WeightedByTerm map[shared.TermKey]float64 `json:"weighted_by_term"`

	// UnweightedByTerm maps term key to that term's unweighted GPA.
	UnweightedByTerm map[shared.TermKey]float64 `json:"unweighted_by_term"`

	// CoreByTerm maps term key to that term's CORE weighted GPA.
	CoreByTerm map[shared.TermKey]float64 `json:"core_by_term"`

	// CreditsEarned counts semester credits with countable passing grades.
	CreditsEarned float64 `json:"credits_earned"`

	// CreditsAttempted counts semester credits for all non-blank records.
	CreditsAttempted float64 `json:"credits_attempted"`

	// TotalCourses is the number of semester rows that joined and counted.
	TotalCourses int `json:"total_courses"`

	// CoreCourses is the number of CORE semester rows.
	CoreCourses int `json:"core_courses"`

	// APCourses is the number of AP/IB semester rows.
	APCourses int `json:"ap_courses"`

	// HonorsCourses is the number of honors semester rows, including rows
	// elevated by title detection.
	HonorsCourses int `json:"honors_courses"`

	// DistinctCoreCourses counts distinct CORE course codes. The rank
	// engine uses it for the part-time cutoff.
	DistinctCoreCourses int `json:"distinct_core_courses"`

	// Warnings lists the data gaps encountered (orphan codes, unknown
	// grade tokens). The offending rows are already excluded.
	Warnings []shared.Warning `json:"warnings,omitempty"`

	// ComputedAt is when the calculation ran.
	ComputedAt time.Time `json:"computed_at"`
}

// HasWarnings reports whether any data gaps were recorded.
func (r Result) HasWarnings() bool {
	return len(r.Warnings) > 0
}
