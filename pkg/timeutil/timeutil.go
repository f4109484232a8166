// Package timeutil provides school-calendar time utilities in the
// school's local timezone (US Eastern). Academic year derivation,
// semester boundaries, and graduation checks all live here so domain
// code never does calendar arithmetic against the wall clock directly.
// No external dependencies - uses only standard library.
package timeutil

import (
	"fmt"
	"time"
)

// SchoolTZ is the school's local timezone. Registrar exports carry
// local dates, so all day-boundary math happens in this zone.
var SchoolTZ = mustLoadEastern()

func mustLoadEastern() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		// EST without DST is the safe fallback when tzdata is absent.
		return time.FixedZone("EST", -5*60*60)
	}
	return loc
}

// Now returns the current time in the school timezone.
func Now() time.Time {
	return time.Now().In(SchoolTZ)
}

// ToSchool converts a time to the school timezone.
func ToSchool(t time.Time) time.Time {
	return t.In(SchoolTZ)
}

// ToUTC converts a time to UTC.
func ToUTC(t time.Time) time.Time {
	return t.UTC()
}

// Date creates a time in the school timezone with the given date.
func Date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, SchoolTZ)
}

// StartOfDay returns the start of the day (00:00:00) in school time.
func StartOfDay(t time.Time) time.Time {
	local := ToSchool(t)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, SchoolTZ)
}

// EndOfDay returns the end of the day in school time.
func EndOfDay(t time.Time) time.Time {
	local := ToSchool(t)
	return time.Date(local.Year(), local.Month(), local.Day(), 23, 59, 59, 999999999, SchoolTZ)
}

// ══════════════════════════════════════════════════════════════════════════════
// ACADEMIC CALENDAR
// ══════════════════════════════════════════════════════════════════════════════

// AcademicYearRolloverMonth is the month in which the new school year
// begins for record-keeping purposes. July keeps summer-term work in
// the upcoming year, matching the SIS export convention.
const AcademicYearRolloverMonth = time.July

// AcademicYearStart returns the calendar year in which the academic
// year containing t begins. For May 2024 it returns 2023; for
// September 2024 it returns 2024.
func AcademicYearStart(t time.Time) int {
	local := ToSchool(t)
	if local.Month() >= AcademicYearRolloverMonth {
		return local.Year()
	}
	return local.Year() - 1
}

// FormatAcademicYear renders a start year as the SIS interval label,
// "2023 - 2024".
func FormatAcademicYear(startYear int) string {
	return fmt.Sprintf("%d - %d", startYear, startYear+1)
}

// CurrentAcademicYear returns the interval label for the academic year
// containing t.
func CurrentAcademicYear(t time.Time) string {
	return FormatAcademicYear(AcademicYearStart(t))
}

// SemesterOf returns the course part (1 or 2) the date falls in:
// semester 1 runs from the rollover through December, semester 2 from
// January until the next rollover.
func SemesterOf(t time.Time) int {
	if ToSchool(t).Month() >= AcademicYearRolloverMonth {
		return 1
	}
	return 2
}

// HasGraduated reports whether a class with the given graduation year
// has graduated as of t. Graduation is end-of-May; for simplicity and
// to match transcript projection rules, the class counts as graduated
// only once the calendar year has passed.
func HasGraduated(gradYear int, t time.Time) bool {
	return ToSchool(t).Year() > gradYear
}

// GradeLevelFor returns the grade level (9-12) a student of the given
// graduation year is in during the academic year starting startYear.
// Values outside 9-12 mean the student was not in high school then.
func GradeLevelFor(gradYear, startYear int) int {
	return 12 - (gradYear - (startYear + 1))
}

// ══════════════════════════════════════════════════════════════════════════════
// FORMATS
// ══════════════════════════════════════════════════════════════════════════════

// Common date/time formats.
const (
	// FormatDate is the standard date format (YYYY-MM-DD).
	FormatDate = "2006-01-02"
	// FormatDateTime is the standard datetime format.
	FormatDateTime = "2006-01-02 15:04"
	// FormatTranscriptDate is the date format printed on transcripts.
	FormatTranscriptDate = "January 2, 2006"
	// FormatSISDate is the date format used by SIS exports (MM/DD/YYYY).
	FormatSISDate = "01/02/2006"
)

// FormatLocal formats a time in school timezone with the given layout.
func FormatLocal(t time.Time, layout string) string {
	return ToSchool(t).Format(layout)
}

// FormatDateStr formats a time as a date string (YYYY-MM-DD).
func FormatDateStr(t time.Time) string {
	return FormatLocal(t, FormatDate)
}

// FormatTranscript formats a time the way transcripts print dates.
func FormatTranscript(t time.Time) string {
	return FormatLocal(t, FormatTranscriptDate)
}

// ParseLocal parses a time string in the school timezone.
func ParseLocal(layout, value string) (time.Time, error) {
	return time.ParseInLocation(layout, value, SchoolTZ)
}

// ParseSISDate parses an SIS export date (MM/DD/YYYY) in school time.
func ParseSISDate(value string) (time.Time, error) {
	return ParseLocal(FormatSISDate, value)
}

// IsSameDay checks if two times are on the same school-time day.
func IsSameDay(t1, t2 time.Time) bool {
	a1, a2 := ToSchool(t1), ToSchool(t2)
	return a1.Year() == a2.Year() && a1.YearDay() == a2.YearDay()
}

// DaysBetween calculates the number of days between two times.
func DaysBetween(t1, t2 time.Time) int {
	a1 := StartOfDay(t1)
	a2 := StartOfDay(t2)
	days := int(a2.Sub(a1).Hours() / 24)
	if days < 0 {
		days = -days
	}
	return days
}
