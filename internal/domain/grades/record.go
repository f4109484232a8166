package grades

import (
	"context"
	"strconv"
	"strings"

	"github.com/keswick-hub/registrar-engine/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GRADE RECORD VARIANTS
// Native and transfer grades are separate types with the fields each
// actually has, instead of one superset shape with optional fields.
// ══════════════════════════════════════════════════════════════════════════════

// Record is one semester of one native course for one student.
// Created by the upstream loader per raw data row; never mutated afterwards
// except the honors-detected annotation applied once at assembly time.
type Record struct {
	// StudentID is the SIS student identifier.
	StudentID shared.StudentID

	// AcademicYear is the school-year interval label ("2021 - 2022").
	AcademicYear shared.AcademicYear

	// Semester is the course part (1 or 2).
	Semester shared.Semester

	// CourseCode joins the record to its definition.
	CourseCode shared.CourseCode

	// CourseTitle is the display title, honors suffix already stripped.
	CourseTitle string

	// RawGrade is the grade token as exported: letter, numeric, or marker.
	RawGrade string

	// ExplicitCredit overrides the semester-split default when positive.
	ExplicitCredit shared.Credit

	// HonorsDetected marks a course whose title carried an honors suffix.
	// It elevates standard-weight definitions at computation time.
	HonorsDetected bool
}

// TermKey returns the grouping key for per-term breakdowns.
func (r Record) TermKey() shared.TermKey {
	return shared.NewTermKey(r.AcademicYear, r.Semester)
}

// LetterGrade returns the displayed grade: numeric grades are normalized
// to their letter form, everything else passes through.
func (r Record) LetterGrade() string {
	token := strings.TrimSpace(r.RawGrade)
	if numeric, err := strconv.ParseFloat(token, 64); err == nil {
		return NumericToLetter(numeric)
	}
	return token
}

// Validate checks the structural contract the loader guarantees.
// A violation here is a hard error, not a data-quality warning.
func (r Record) Validate() error {
	switch {
	case !r.StudentID.IsValid():
		return shared.NewDomainError("grades", "Validate", shared.ErrMalformedRecord, "record has no student ID")
	case !r.AcademicYear.IsValid():
		return shared.NewDomainError("grades", "Validate", shared.ErrMalformedRecord, "record has malformed academic year")
	case !r.Semester.IsValid():
		return shared.NewDomainError("grades", "Validate", shared.ErrMalformedRecord, "record has invalid semester")
	case !r.CourseCode.IsValid():
		return shared.NewDomainError("grades", "Validate", shared.ErrMalformedRecord, "record has no course code")
	}
	return nil
}

// TransferRecord is one external credit from a previous school. Transfer
// rows carry no semester and always an explicit attempted-credit value.
type TransferRecord struct {
	// StudentID is the SIS student identifier.
	StudentID shared.StudentID

	// AcademicYear is the school-year interval at the source school.
	AcademicYear shared.AcademicYear

	// CourseCode is the matched local code, empty when unmatched.
	CourseCode shared.CourseCode

	// CourseTitle is the course title as reported by the source school.
	CourseTitle string

	// RawGrade is the grade token from the source transcript.
	RawGrade string

	// CreditsAttempted is the explicit credit value from the source record.
	CreditsAttempted shared.Credit

	// SourceSchool is the transferring institution, used for the transcript
	// divider rows the layout estimator weighs.
	SourceSchool string
}

// AsRecord normalizes a transfer row into the native shape for GPA
// aggregation: semester 1 by convention (transfer rows have no part
// number), numeric grade normalized to letter, explicit credit carried
// over so the semester-split default never applies.
func (t TransferRecord) AsRecord() Record {
	code := t.CourseCode
	if !code.IsValid() {
		code = "TRANSFER"
	}
	r := Record{
		StudentID:      t.StudentID,
		AcademicYear:   t.AcademicYear,
		Semester:       shared.Semester1,
		CourseCode:     code,
		CourseTitle:    t.CourseTitle,
		RawGrade:       t.RawGrade,
		ExplicitCredit: t.CreditsAttempted,
	}
	r.RawGrade = r.LetterGrade()
	return r
}

// Validate checks the structural contract for transfer rows.
func (t TransferRecord) Validate() error {
	switch {
	case !t.StudentID.IsValid():
		return shared.NewDomainError("grades", "Validate", shared.ErrMalformedRecord, "transfer record has no student ID")
	case !t.AcademicYear.IsValid():
		return shared.NewDomainError("grades", "Validate", shared.ErrMalformedRecord, "transfer record has malformed academic year")
	case !t.CreditsAttempted.IsValid():
		return shared.NewDomainError("grades", "Validate", shared.ErrMalformedRecord, "transfer record has negative credits")
	}
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACE
// ══════════════════════════════════════════════════════════════════════════════

// Repository loads validated grade records from persistent storage.
// Implementations live in infrastructure/persistence.
type Repository interface {
	// GetByStudent returns the native records for one student.
	GetByStudent(ctx context.Context, id shared.StudentID) ([]Record, error)

	// GetTransfersByStudent returns the transfer records for one student.
	GetTransfersByStudent(ctx context.Context, id shared.StudentID) ([]TransferRecord, error)

	// GetStudentsByGraduationYear returns the student IDs of one cohort.
	GetStudentsByGraduationYear(ctx context.Context, year shared.GraduationYear) ([]shared.StudentID, error)
}
