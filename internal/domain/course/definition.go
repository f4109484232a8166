// Package course contains the static course-definition reference data:
// the per-code weight, credit, and CORE flags every other computation joins
// against. Definitions are immutable; honors elevation produces derived
// copies so the shared index stays auditable.
package course

import (
	"strings"

	"github.com/keswick-hub/registrar-engine/internal/domain/shared"
)

// Weight increments added to base grade points in weighted GPA calculations.
const (
	WeightStandard = 0.0
	WeightHonors   = 0.5
	WeightAP       = 1.0
)

// Definition is one course's reference data from the weight index.
type Definition struct {
	// Code is the course code identifier ("1001310", "ENC1101").
	Code shared.CourseCode

	// Title is the full course title.
	Title string

	// Core marks courses that count toward the CORE GPA.
	Core bool

	// Weight is the GPA increment (0.0 standard, 0.5 honors, >=1.0 AP/IB).
	Weight float64

	// Credit is the annual credit (0.0 = below high school).
	Credit shared.Credit
}

// IsHonors checks if the course is honors level.
func (d Definition) IsHonors() bool {
	return d.Weight == WeightHonors
}

// IsAP checks if the course is AP/IB level.
func (d Definition) IsAP() bool {
	return d.Weight >= WeightAP
}

// IsHighSchool reports whether the course carries high-school credit and
// therefore appears in GPA and credit accounting.
func (d Definition) IsHighSchool() bool {
	return !d.Credit.IsZero()
}

// LevelName returns the course level designation for display.
func (d Definition) LevelName() string {
	switch {
	case d.IsAP():
		return "AP/IB"
	case d.IsHonors():
		return "Honors"
	default:
		return "Standard"
	}
}

// Elevated returns a derived copy with honors weight. Precedence rule for
// title-detected honors: elevation applies only to standard-weight
// definitions; an explicit weight >= 0.5 always wins, and AP is never
// downgraded. The receiver is unchanged.
func (d Definition) Elevated() Definition {
	if d.Weight != WeightStandard {
		return d
	}
	out := d
	out.Weight = WeightHonors
	return out
}

// honorsSuffixes are the title decorations the SIS uses to mark honors
// sections that share a code with the standard section.
var honorsSuffixes = []string{" (H)", " Honors", " H"}

// DetectHonorsTitle reports whether the course title carries an honors
// suffix, returning the cleaned title. Patterns: "Human Geography H",
// "Calculus (H)", "English 9 Honors".
func DetectHonorsTitle(title string) (string, bool) {
	trimmed := strings.TrimRight(title, " ")
	for _, suffix := range honorsSuffixes {
		if strings.HasSuffix(trimmed, suffix) {
			return strings.TrimRight(strings.TrimSuffix(trimmed, suffix), " "), true
		}
	}
	return title, false
}

// Middle-school courses that still print on the high-school record:
// Algebra 1, Geometry, and their honors sections.
var printableMiddleSchoolCodes = map[shared.CourseCode]bool{
	"1200310": true, // Algebra 1
	"1200320": true, // Algebra 1 Honors
	"1206310": true, // Geometry
	"1206312": true, // Geometry Honors
}

// Course-code prefixes for middle-school foreign language sequences.
var printableMiddleSchoolPrefixes = []string{"708", "0717"}

// IsMiddleSchoolPrintable reports whether a below-high-school course is
// promoted onto the transcript (Algebra 1, Geometry, foreign language,
// physical science).
func IsMiddleSchoolPrintable(code shared.CourseCode, title string) bool {
	if printableMiddleSchoolCodes[code] {
		return true
	}
	for _, prefix := range printableMiddleSchoolPrefixes {
		if strings.HasPrefix(string(code), prefix) {
			return true
		}
	}
	return strings.Contains(strings.ToLower(title), "physical science")
}
