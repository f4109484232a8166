package awards

import (
	"strings"
	"time"

	"github.com/keswick-hub/registrar-engine/internal/domain/course"
	"github.com/keswick-hub/registrar-engine/internal/domain/grades"
	"github.com/keswick-hub/registrar-engine/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// DIPLOMA DESIGNATION
// ══════════════════════════════════════════════════════════════════════════════

// Diploma tier names as printed on the transcript.
const (
	DiplomaScholars   = "Scholars Diploma"
	DiplomaSTEM       = "STEM Scholars Diploma"
	DiplomaHumanities = "Humanities Honors Diploma"
	DiplomaStandard   = "Standard Diploma"
)

// honorsYearsRequired is the distinct grade-year count a subject area
// needs at Honors-or-above to count toward a designation tier.
const honorsYearsRequired = 3

// subjectKeywords classifies core courses into the four diploma subject
// areas by title substring. Dual-enrollment catalog codes are included
// because transfer titles sometimes carry only the code.
var subjectKeywords = map[string][]string{
	"english": {"english", "composition", "literature", "enc1101", "enc1102", "lit1000"},
	"history": {"history", "government", "civics", "amh1010", "amh1020"},
	"math":    {"math", "algebra", "geometry", "calculus", "statistics", "trigonometry"},
	"science": {"biology", "chemistry", "physics", "science", "anatomy", "environmental"},
}

// classifySubject maps a course title to its diploma subject area.
func classifySubject(title string) (string, bool) {
	lower := strings.ToLower(title)
	for _, subject := range []string{"english", "history", "math", "science"} {
		for _, keyword := range subjectKeywords[subject] {
			if strings.Contains(lower, keyword) {
				return subject, true
			}
		}
	}
	return "", false
}

// DiplomaDesignation classifies a student's honors coursework into a
// diploma tier. For each subject area it counts the distinct grade years
// (9 through currentGrade) in which the student completed at least one
// Honors-or-above core course in that area. The designation is
// provisional until the cohort has graduated: evaluated against the
// injected clock, not the wall clock, so batch reruns are reproducible.
func DiplomaDesignation(
	recordsByGrade map[int][]grades.Record,
	index *course.Index,
	currentGrade int,
	gradYear shared.GraduationYear,
	now time.Time,
) string {
	if currentGrade > 12 {
		currentGrade = 12
	}

	honorsYears := map[string]int{"english": 0, "history": 0, "math": 0, "science": 0}

	for grade := 9; grade <= currentGrade; grade++ {
		yearHonors := map[string]bool{}
		for _, r := range recordsByGrade[grade] {
			def, ok := index.Lookup(r.CourseCode)
			if !ok || !def.Core || !def.IsHighSchool() {
				continue
			}
			if r.HonorsDetected {
				def = def.Elevated()
			}
			if !def.IsHonors() && !def.IsAP() {
				continue
			}
			if subject, ok := classifySubject(r.CourseTitle); ok {
				yearHonors[subject] = true
			}
		}
		for subject, had := range yearHonors {
			if had {
				honorsYears[subject]++
			}
		}
	}

	designation := DiplomaStandard
	switch {
	case honorsYears["english"] >= honorsYearsRequired &&
		honorsYears["history"] >= honorsYearsRequired &&
		honorsYears["math"] >= honorsYearsRequired &&
		honorsYears["science"] >= honorsYearsRequired:
		designation = DiplomaScholars
	case honorsYears["math"] >= honorsYearsRequired || honorsYears["science"] >= honorsYearsRequired:
		designation = DiplomaSTEM
	case honorsYears["english"] >= honorsYearsRequired || honorsYears["history"] >= honorsYearsRequired:
		designation = DiplomaHumanities
	}

	if !gradYear.HasGraduated(now) {
		designation += " (Projected)"
	}
	return designation
}
