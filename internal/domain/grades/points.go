// Package grades contains the course-grade record variants and the
// grade-point converter. Records arrive already schema-validated from the
// upstream loader; everything here is pure computation over them.
package grades

import (
	"strconv"
	"strings"
)

// Base grade points on the straight 4.0 scale. Plus/minus letters collapse
// to their base letter for point purposes even though they stay on the
// displayed record.
var basePoints = map[string]float64{
	"A": 4.0,
	"B": 3.0,
	"C": 2.0,
	"D": 1.0,
	"F": 0.0,
}

// Grade tokens excluded from the GPA numerator and denominator.
var nonCountable = map[string]bool{
	"P":          true,
	"NP":         true,
	"I":          true,
	"W":          true,
	"PASS":       true,
	"FAIL":       true,
	"INCOMPLETE": true,
	"WITHDRAWN":  true,
}

// Blank placeholder tokens. These contribute to neither attempted nor
// earned credit.
var blankTokens = map[string]bool{
	"":          true,
	"—":         true,
	"NONE":      true,
	"NAN":       true,
	"W":         true,
	"WITHDRAWN": true,
}

// Points converts a raw grade token to its base grade-point value.
// The second return value is false for non-countable grades (P/NP/I/W,
// blanks, and unknown tokens): absent from both GPA sums, not zero points.
// Numeric grades ("93") are first converted to a letter via the fixed
// cutoff ladder, then to points.
func Points(grade string) (float64, bool) {
	token := strings.ToUpper(strings.TrimSpace(grade))

	if nonCountable[token] || blankTokens[token] {
		return 0, false
	}

	// Plus/minus letters collapse to the base letter.
	base := strings.TrimRight(token, "+-")
	if pts, ok := basePoints[base]; ok && base != token {
		if len(token) == len(base)+1 {
			return pts, true
		}
		return 0, false
	}
	if pts, ok := basePoints[token]; ok {
		return pts, true
	}

	if numeric, err := strconv.ParseFloat(token, 64); err == nil {
		letter := NumericToLetter(numeric)
		base := strings.TrimRight(letter, "+-")
		pts, ok := basePoints[base]
		return pts, ok
	}

	// Unknown token. The caller logs it; conversion never fails hard.
	return 0, false
}

// NumericToLetter converts a 0-100 numeric grade to a letter grade using
// the institutional cutoffs. The plus/minus granularity matters for the
// displayed record; GPA collapses it back to the base letter.
func NumericToLetter(numeric float64) string {
	switch {
	case numeric >= 93:
		return "A"
	case numeric >= 90:
		return "A-"
	case numeric >= 87:
		return "B+"
	case numeric >= 83:
		return "B"
	case numeric >= 80:
		return "B-"
	case numeric >= 77:
		return "C+"
	case numeric >= 73:
		return "C"
	case numeric >= 70:
		return "C-"
	case numeric >= 67:
		return "D+"
	case numeric >= 63:
		return "D"
	case numeric >= 60:
		return "D-"
	default:
		return "F"
	}
}

// IsBlank reports whether the token is a blank/withdrawn placeholder that
// contributes to neither attempted nor earned credit.
func IsBlank(grade string) bool {
	return blankTokens[strings.ToUpper(strings.TrimSpace(grade))]
}

// IsCountable reports whether the grade participates in GPA sums.
func IsCountable(grade string) bool {
	_, ok := Points(grade)
	return ok
}

// IsKnown reports whether the token is a recognized grade of any kind.
// Unknown tokens are still non-countable, but callers log them.
func IsKnown(grade string) bool {
	token := strings.ToUpper(strings.TrimSpace(grade))
	if nonCountable[token] || blankTokens[token] {
		return true
	}
	if _, ok := basePoints[strings.TrimRight(token, "+-")]; ok {
		return true
	}
	_, err := strconv.ParseFloat(token, 64)
	return err == nil
}

// IsPassMarker reports whether the token is an explicit pass marker.
// Pass/fail courses count toward credit but never toward GPA.
func IsPassMarker(grade string) bool {
	token := strings.ToUpper(strings.TrimSpace(grade))
	return token == "P" || token == "PASS"
}

// IsPassing reports whether a grade earns credit. Explicit pass markers
// pass; countable grades pass above 0.0 points; everything else
// (F, NP, I, W, blanks, unknown tokens) earns nothing.
func IsPassing(grade string) bool {
	if IsPassMarker(grade) {
		return true
	}
	pts, ok := Points(grade)
	return ok && pts > 0
}
