// Package awards contains the award and honors rule engine: Principal's
// List, the AP Scholar family, rank-based ACSI honors, standardized-test
// recognition, athletic distinctions, and the diploma designation. Every
// rule is a pure function; the Driver composes them and absorbs
// individual rule failures.
package awards

import (
	"strings"

	"github.com/keswick-hub/registrar-engine/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// AWARD TYPES
// ══════════════════════════════════════════════════════════════════════════════

// Category classifies an award for transcript grouping.
type Category string

// Award categories.
const (
	CategoryAcademic Category = "academic"
	CategoryAP       Category = "ap"
	CategoryTesting  Category = "testing"
	CategoryACSI     Category = "acsi"
	CategoryAthletic Category = "athletic"
)

// IsValid reports whether the category is a known one.
func (c Category) IsValid() bool {
	switch c {
	case CategoryAcademic, CategoryAP, CategoryTesting, CategoryACSI, CategoryAthletic:
		return true
	}
	return false
}

// Award is one earned distinction. Awards have no identity beyond their
// content; the rule driver appends, it never deduplicates.
type Award struct {
	// Name is the award title as printed.
	Name string `json:"name"`

	// Category groups the award for display.
	Category Category `json:"category"`

	// Year is the academic year earned, when year-scoped.
	Year shared.AcademicYear `json:"year,omitempty"`

	// Semester is the display label ("Semester 1", "Fall"), when scoped.
	Semester string `json:"semester,omitempty"`

	// Detail is the qualifying detail line.
	Detail string `json:"detail,omitempty"`
}

// ══════════════════════════════════════════════════════════════════════════════
// COLLEGE BOARD AWARD CODES
// ══════════════════════════════════════════════════════════════════════════════

// apAwardCodes maps College Board AP award type codes to award names, as
// they appear in the AP score export.
var apAwardCodes = map[int]string{
	1:  "AP Scholar",
	2:  "AP Scholar with Honor",
	3:  "AP Scholar with Distinction",
	4:  "State AP Scholar",
	5:  "National AP Scholar",
	6:  "National AP Scholar (Canada)",
	7:  "AP International Diploma",
	8:  "DoDEA AP Scholar",
	9:  "International AP Scholar",
	12: "National AP Scholar (Bermuda)",
	13: "AP Capstone Diploma",
	14: "AP Seminar and Research Certificate",
}

// APAwardName resolves a College Board award type code to its name.
func APAwardName(code int) (string, bool) {
	name, ok := apAwardCodes[code]
	return name, ok
}

// ReportedAPAward is one award row from the AP score export: the numeric
// College Board award type code plus the calendar year it was granted.
type ReportedAPAward struct {
	// Code is the College Board award type code.
	Code int `json:"code"`

	// Year is the grant year as reported ("2024"), empty when absent.
	Year string `json:"year,omitempty"`
}

// ReportedAPAwards converts College Board-reported award rows into
// transcript awards. Unrecognized codes are dropped; the export carries
// stray codes at times and they are not worth failing a run over.
func ReportedAPAwards(reported []ReportedAPAward) []Award {
	var out []Award
	for _, r := range reported {
		name, ok := APAwardName(r.Code)
		if !ok {
			continue
		}
		a := Award{Name: name, Category: CategoryAP}
		if r.Year != "" {
			a.Detail = "College Board, " + r.Year
		}
		out = append(out, a)
	}
	return out
}

// ══════════════════════════════════════════════════════════════════════════════
// ATHLETIC NAME NORMALIZATION
// ══════════════════════════════════════════════════════════════════════════════

// NormalizeSportName cleans a raw sport participation title for display.
// "Swimming - Varsity Boys & Girls" becomes "Varsity Swimming";
// "Track & Field - JV Boys" becomes "Junior Varsity Track & Field".
// The season is carried separately and never folded into the name.
func NormalizeSportName(raw string) string {
	parts := strings.Split(raw, "-")
	base := strings.TrimSpace(parts[0])
	level := ""

	if len(parts) > 1 {
		levelPart := strings.ToLower(strings.TrimSpace(parts[1]))
		switch {
		case strings.Contains(levelPart, "jv") || strings.Contains(levelPart, "junior varsity"):
			level = "Junior Varsity"
		case strings.Contains(levelPart, "varsity"):
			level = "Varsity"
		}
	}

	return strings.TrimSpace(level + " " + base)
}

// SeasonSortOrder orders athletic seasons chronologically within a school
// year: Fall, Winter, Spring, then anything unrecognized.
func SeasonSortOrder(season string) int {
	s := strings.ToLower(strings.TrimSpace(season))
	switch {
	case strings.Contains(s, "fall"):
		return 1
	case strings.Contains(s, "winter"):
		return 2
	case strings.Contains(s, "spring"):
		return 3
	default:
		return 4
	}
}
