// Package shared contains common domain types, errors, and value objects
// that are used across all domain packages.
package shared

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ═══════════════════════════════════════════════════════════════════════════
// ID Value Objects
// ═══════════════════════════════════════════════════════════════════════════

// StudentID represents a unique student identifier from the SIS export.
type StudentID int64

// IsValid checks if the student ID is valid (positive number).
func (s StudentID) IsValid() bool {
	return s > 0
}

// Int64 returns the underlying int64 value.
func (s StudentID) Int64() int64 {
	return int64(s)
}

// String returns the string representation.
func (s StudentID) String() string {
	return strconv.FormatInt(int64(s), 10)
}

// NewStudentID creates a new StudentID with validation.
func NewStudentID(id int64) (StudentID, error) {
	if id <= 0 {
		return 0, NewDomainError("shared", "NewStudentID", ErrInvalidID, "student ID must be positive")
	}
	return StudentID(id), nil
}

// ParseStudentID parses a StudentID from its string form.
func ParseStudentID(s string) (StudentID, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, WrapError("shared", "ParseStudentID", ErrInvalidID, "student ID is not numeric", err)
	}
	return NewStudentID(id)
}

// CourseCode identifies a course in the definition index.
// State DOE codes are numeric strings ("1001310"), dual-enrollment codes
// are alphanumeric ("ENC1101"), so the underlying type stays a string.
type CourseCode string

// IsValid checks that the code is non-empty after trimming.
func (c CourseCode) IsValid() bool {
	return strings.TrimSpace(string(c)) != ""
}

// String returns the string representation.
func (c CourseCode) String() string {
	return string(c)
}

// NewCourseCode creates a normalized CourseCode.
func NewCourseCode(code string) (CourseCode, error) {
	c := CourseCode(strings.TrimSpace(code))
	if !c.IsValid() {
		return "", NewDomainError("shared", "NewCourseCode", ErrEmptyValue, "course code cannot be empty")
	}
	return c, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Academic Calendar Value Objects
// ═══════════════════════════════════════════════════════════════════════════

// AcademicYear represents a school-year interval label, e.g. "2021 - 2022".
type AcademicYear string

// Academic year format used throughout the SIS export.
var academicYearRegex = regexp.MustCompile(`^(\d{4})\s*-\s*(\d{4})$`)

// IsValid checks if the academic year label is well-formed and the two
// calendar years are consecutive.
func (y AcademicYear) IsValid() bool {
	m := academicYearRegex.FindStringSubmatch(string(y))
	if m == nil {
		return false
	}
	start, _ := strconv.Atoi(m[1])
	end, _ := strconv.Atoi(m[2])
	return end == start+1
}

// String returns the string representation.
func (y AcademicYear) String() string {
	return string(y)
}

// StartYear returns the fall calendar year of the interval (0 if invalid).
func (y AcademicYear) StartYear() int {
	m := academicYearRegex.FindStringSubmatch(string(y))
	if m == nil {
		return 0
	}
	start, _ := strconv.Atoi(m[1])
	return start
}

// EndYear returns the spring calendar year of the interval (0 if invalid).
func (y AcademicYear) EndYear() int {
	if s := y.StartYear(); s > 0 {
		return s + 1
	}
	return 0
}

// Next returns the following academic year.
func (y AcademicYear) Next() AcademicYear {
	s := y.StartYear()
	if s == 0 {
		return ""
	}
	return AcademicYearOf(s + 1)
}

// NewAcademicYear creates an AcademicYear with validation, normalizing
// whitespace around the dash to the canonical "YYYY - YYYY" form.
func NewAcademicYear(label string) (AcademicYear, error) {
	m := academicYearRegex.FindStringSubmatch(strings.TrimSpace(label))
	if m == nil {
		return "", NewDomainError("shared", "NewAcademicYear", ErrInvalidFormat, `academic year must be "YYYY - YYYY"`)
	}
	start, _ := strconv.Atoi(m[1])
	end, _ := strconv.Atoi(m[2])
	if end != start+1 {
		return "", NewDomainError("shared", "NewAcademicYear", ErrInvalidFormat, "academic year interval must span consecutive years")
	}
	return AcademicYearOf(start), nil
}

// AcademicYearOf builds the canonical label for the year starting in fall
// of the given calendar year.
func AcademicYearOf(startYear int) AcademicYear {
	return AcademicYear(fmt.Sprintf("%d - %d", startYear, startYear+1))
}

// Semester represents one half of an academic year.
type Semester int

const (
	Semester1 Semester = 1
	Semester2 Semester = 2
)

// IsValid checks if the semester is 1 or 2.
func (s Semester) IsValid() bool {
	return s == Semester1 || s == Semester2
}

// Int returns the underlying int value.
func (s Semester) Int() int {
	return int(s)
}

// String returns the string representation ("S1"/"S2").
func (s Semester) String() string {
	return fmt.Sprintf("S%d", int(s))
}

// NewSemester creates a Semester from the SIS course-part number.
func NewSemester(part int) (Semester, error) {
	s := Semester(part)
	if !s.IsValid() {
		return 0, NewDomainError("shared", "NewSemester", ErrValueOutOfRange, "semester must be 1 or 2")
	}
	return s, nil
}

// TermKey identifies one semester of one academic year, e.g. "2021 - 2022-S1".
// Used as the grouping key for per-term GPA breakdowns.
type TermKey string

// NewTermKey builds the term key for a year and semester.
func NewTermKey(year AcademicYear, semester Semester) TermKey {
	return TermKey(fmt.Sprintf("%s-%s", year, semester))
}

// Year returns the academic-year part of the key.
func (t TermKey) Year() AcademicYear {
	s := string(t)
	if idx := strings.LastIndex(s, "-S"); idx > 0 {
		return AcademicYear(s[:idx])
	}
	return ""
}

// Semester returns the semester part of the key (0 if malformed).
func (t TermKey) Semester() Semester {
	s := string(t)
	if idx := strings.LastIndex(s, "-S"); idx > 0 && idx+2 < len(s) {
		n, err := strconv.Atoi(s[idx+2:])
		if err == nil {
			return Semester(n)
		}
	}
	return 0
}

// String returns the string representation.
func (t TermKey) String() string {
	return string(t)
}

// ═══════════════════════════════════════════════════════════════════════════
// Credit Value Object
// ═══════════════════════════════════════════════════════════════════════════

// Credit represents credit hours. Semester credit is normally half the
// annual credit of the course definition.
type Credit float64

// IsValid checks that the credit value is non-negative.
func (c Credit) IsValid() bool {
	return c >= 0
}

// Float64 returns the underlying float64 value.
func (c Credit) Float64() float64 {
	return float64(c)
}

// IsZero reports whether the course carries no high-school credit.
func (c Credit) IsZero() bool {
	return c == 0
}

// Half returns the per-semester share of an annual credit.
func (c Credit) Half() Credit {
	return c / 2
}

// NewCredit creates a Credit with validation.
func NewCredit(value float64) (Credit, error) {
	if value < 0 {
		return 0, NewDomainError("shared", "NewCredit", ErrNegativeValue, "credit cannot be negative")
	}
	return Credit(value), nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Graduation Cohort Value Objects
// ═══════════════════════════════════════════════════════════════════════════

// GraduationYear identifies a graduating cohort. Ranking is always computed
// within one graduation year at a time.
type GraduationYear int

const (
	// MinGraduationYear and MaxGraduationYear bound the plausible range of
	// cohorts in the SIS export.
	MinGraduationYear GraduationYear = 2000
	MaxGraduationYear GraduationYear = 2060
)

// IsValid checks if the graduation year is within the plausible range.
func (g GraduationYear) IsValid() bool {
	return g >= MinGraduationYear && g <= MaxGraduationYear
}

// Int returns the underlying int value.
func (g GraduationYear) Int() int {
	return int(g)
}

// HasGraduated reports whether the cohort has graduated as of now.
// Diploma designations stay "(Projected)" until this turns true.
func (g GraduationYear) HasGraduated(now time.Time) bool {
	return now.Year() > int(g)
}

// NewGraduationYear creates a GraduationYear with validation.
func NewGraduationYear(year int) (GraduationYear, error) {
	g := GraduationYear(year)
	if !g.IsValid() {
		return 0, ErrInvalidGradYear
	}
	return g, nil
}

// GradeLevelFor returns the student's grade level (9-12, or lower) during
// the given academic year. A senior's final year maps to 12.
func (g GraduationYear) GradeLevelFor(year AcademicYear) int {
	end := year.EndYear()
	if end == 0 {
		return 0
	}
	return 12 - (int(g) - end)
}

// ═══════════════════════════════════════════════════════════════════════════
// Warnings
// ═══════════════════════════════════════════════════════════════════════════

// Warning is a non-fatal data-gap note attached to a computed result.
// The computation that produced it has already excluded the offending item.
type Warning struct {
	// Code classifies the gap ("orphan_code", "unknown_grade", "missing_score").
	Code string

	// Detail is a human-readable description for the audit trail.
	Detail string
}

// String returns the string representation.
func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Code, w.Detail)
}

// Warnf builds a Warning with a formatted detail message.
func Warnf(code, format string, args ...any) Warning {
	return Warning{Code: code, Detail: fmt.Sprintf(format, args...)}
}
