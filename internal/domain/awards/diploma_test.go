package awards

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keswick-hub/registrar-engine/internal/domain/course"
	"github.com/keswick-hub/registrar-engine/internal/domain/grades"
	"github.com/keswick-hub/registrar-engine/internal/domain/shared"
)

func diplomaIndex() *course.Index {
	return course.NewIndex([]course.Definition{
		{Code: "ENG-H", Title: "English Honors", Core: true, Weight: 0.5, Credit: 1.0},
		{Code: "HIS-H", Title: "World History Honors", Core: true, Weight: 0.5, Credit: 1.0},
		{Code: "MTH-H", Title: "Algebra Honors", Core: true, Weight: 0.5, Credit: 1.0},
		{Code: "SCI-AP", Title: "AP Biology", Core: true, Weight: 1.0, Credit: 1.0},
		{Code: "ENG-S", Title: "English 2", Core: true, Weight: 0.0, Credit: 1.0},
		{Code: "ART", Title: "Art History Honors", Core: false, Weight: 0.5, Credit: 0.5},
	})
}

func diplomaRecord(code shared.CourseCode, title string) grades.Record {
	return grades.Record{
		StudentID:    55,
		AcademicYear: "2023 - 2024",
		Semester:     1,
		CourseCode:   code,
		CourseTitle:  title,
		RawGrade:     "A",
	}
}

// yearsOf builds three grade years of the same honors course rows.
func yearsOf(grades9to11 ...grades.Record) map[int][]grades.Record {
	byGrade := map[int][]grades.Record{}
	for grade := 9; grade <= 11; grade++ {
		byGrade[grade] = append([]grades.Record{}, grades9to11...)
	}
	return byGrade
}

var graduated = time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

func TestDiplomaDesignation_Scholars(t *testing.T) {
	byGrade := yearsOf(
		diplomaRecord("ENG-H", "English Honors"),
		diplomaRecord("HIS-H", "World History Honors"),
		diplomaRecord("MTH-H", "Algebra Honors"),
		diplomaRecord("SCI-AP", "AP Biology"),
	)

	got := DiplomaDesignation(byGrade, diplomaIndex(), 12, 2024, graduated)
	assert.Equal(t, DiplomaScholars, got)
}

func TestDiplomaDesignation_STEM(t *testing.T) {
	byGrade := yearsOf(
		diplomaRecord("MTH-H", "Algebra Honors"),
		diplomaRecord("ENG-S", "English 2"),
	)

	got := DiplomaDesignation(byGrade, diplomaIndex(), 12, 2024, graduated)
	assert.Equal(t, DiplomaSTEM, got)
}

func TestDiplomaDesignation_Humanities(t *testing.T) {
	byGrade := yearsOf(
		diplomaRecord("ENG-H", "English Honors"),
	)

	got := DiplomaDesignation(byGrade, diplomaIndex(), 12, 2024, graduated)
	assert.Equal(t, DiplomaHumanities, got)
}

func TestDiplomaDesignation_StandardWhenTwoYears(t *testing.T) {
	// Honors in only two grade years misses the three-year requirement.
	byGrade := map[int][]grades.Record{
		9:  {diplomaRecord("MTH-H", "Algebra Honors")},
		10: {diplomaRecord("MTH-H", "Algebra Honors")},
		11: {diplomaRecord("ENG-S", "English 2")},
	}

	got := DiplomaDesignation(byGrade, diplomaIndex(), 12, 2024, graduated)
	assert.Equal(t, DiplomaStandard, got)
}

func TestDiplomaDesignation_NonCoreHonorsIgnored(t *testing.T) {
	byGrade := yearsOf(
		diplomaRecord("ART", "Art History Honors"),
	)

	got := DiplomaDesignation(byGrade, diplomaIndex(), 12, 2024, graduated)
	assert.Equal(t, DiplomaStandard, got)
}

func TestDiplomaDesignation_TitleDetectedHonorsCounts(t *testing.T) {
	rec := diplomaRecord("ENG-S", "English 2")
	rec.HonorsDetected = true
	byGrade := yearsOf(rec)

	got := DiplomaDesignation(byGrade, diplomaIndex(), 12, 2024, graduated)
	assert.Equal(t, DiplomaHumanities, got)
}

func TestDiplomaDesignation_ProjectedUntilGraduation(t *testing.T) {
	byGrade := yearsOf(
		diplomaRecord("MTH-H", "Algebra Honors"),
	)

	beforeGraduation := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	got := DiplomaDesignation(byGrade, diplomaIndex(), 11, 2025, beforeGraduation)
	assert.Equal(t, DiplomaSTEM+" (Projected)", got)

	after := time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)
	got = DiplomaDesignation(byGrade, diplomaIndex(), 12, 2025, after)
	assert.Equal(t, DiplomaSTEM, got)
}

func TestDiplomaDesignation_GradeCappedAtTwelve(t *testing.T) {
	byGrade := yearsOf(diplomaRecord("MTH-H", "Algebra Honors"))

	// A post-graduate grade value behaves the same as a senior's.
	got := DiplomaDesignation(byGrade, diplomaIndex(), 14, 2024, graduated)
	assert.Equal(t, DiplomaSTEM, got)
}

func TestClassifySubject(t *testing.T) {
	cases := []struct {
		title   string
		subject string
		ok      bool
	}{
		{"AP English Language", "english", true},
		{"ENC1101 Dual Enrollment", "english", true},
		{"AMH1010 American History", "history", true},
		{"Pre-Calculus Honors", "math", true},
		{"Marine Science", "science", true},
		{"Weight Training", "", false},
	}

	for _, tc := range cases {
		subject, ok := classifySubject(tc.title)
		assert.Equal(t, tc.ok, ok, tc.title)
		assert.Equal(t, tc.subject, subject, tc.title)
	}
}

func TestDriverDesignation_AbsorbsPanic(t *testing.T) {
	// A nil index panics inside the rule; the driver degrades to the
	// standard tier instead of aborting the student.
	d := NewDriver(nil, DefaultConfig(), nil)
	byGrade := map[int][]grades.Record{9: {diplomaRecord("MTH-H", "Algebra Honors")}}

	got := d.Designation(byGrade, 12, 2024, graduated)
	assert.Equal(t, DiplomaStandard, got)
}

func TestDriverCalculateAll_SkipsOptionalSections(t *testing.T) {
	d := NewDriver(rulesIndex(), DefaultConfig(), nil)

	awards := d.CalculateAll(Input{
		StudentID: 55,
		Records: []grades.Record{
			termRecord("1001310", 1, "A"),
			termRecord("1200310", 1, "A"),
		},
	})

	// Only the Principal's List rule produces output; AP, rank, NMSQT,
	// and athletics are skipped without data.
	assert.Len(t, awards, 1)
	assert.Equal(t, "Principal's List", awards[0].Name)
}

func TestDriverCalculateAll_ReportedAPAwards(t *testing.T) {
	d := NewDriver(rulesIndex(), DefaultConfig(), nil)

	awards := d.CalculateAll(Input{
		StudentID: 55,
		Records: []grades.Record{
			termRecord("1001310", 1, "A"),
		},
		APAwardCodes: []ReportedAPAward{{Code: 2, Year: "2024"}},
	})

	require.Len(t, awards, 2)
	assert.Equal(t, "AP Scholar with Honor", awards[1].Name)
	assert.Equal(t, CategoryAP, awards[1].Category)
}

func TestDriverCalculateAll_BadScoreDoesNotAbort(t *testing.T) {
	d := NewDriver(rulesIndex(), DefaultConfig(), nil)

	awards := d.CalculateAll(Input{
		StudentID: 55,
		Records: []grades.Record{
			termRecord("1001310", 1, "A"),
		},
		TestScores: map[string]int{"PSAT": 9999},
	})

	// The out-of-range PSAT fails its rule; the academic award survives.
	assert.Len(t, awards, 1)
	assert.Equal(t, "Principal's List", awards[0].Name)
}
