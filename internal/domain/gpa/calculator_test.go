package gpa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keswick-hub/registrar-engine/internal/domain/course"
	"github.com/keswick-hub/registrar-engine/internal/domain/grades"
	"github.com/keswick-hub/registrar-engine/internal/domain/shared"
)

func testIndex() *course.Index {
	return course.NewIndex([]course.Definition{
		{Code: "1001310", Title: "English 1", Core: true, Weight: 0.0, Credit: 1.0},
		{Code: "1200310", Title: "Algebra 1", Core: true, Weight: 0.0, Credit: 1.0},
		{Code: "2000310", Title: "Biology 1", Core: true, Weight: 0.0, Credit: 1.0},
		{Code: "2100310", Title: "World History", Core: true, Weight: 0.0, Credit: 1.0},
		{Code: "1202310", Title: "Calculus Honors", Core: true, Weight: 0.5, Credit: 1.0},
		{Code: "1001420", Title: "AP English Language", Core: true, Weight: 1.0, Credit: 1.0},
		{Code: "5002000", Title: "Art Appreciation", Core: false, Weight: 0.0, Credit: 0.5},
		{Code: "1508110", Title: "PE Waiver", Core: false, Weight: 0.0, Credit: 1.0},
		{Code: "0500300", Title: "Study Hall", Core: false, Weight: 0.0, Credit: 0.0},
		{Code: "TRANSFER", Title: "Transfer Credit", Core: false, Weight: 0.0, Credit: 1.0},
	})
}

func record(code shared.CourseCode, year string, semester shared.Semester, grade string) grades.Record {
	return grades.Record{
		StudentID:    101,
		AcademicYear: shared.AcademicYear(year),
		Semester:     semester,
		CourseCode:   code,
		CourseTitle:  "Course " + string(code),
		RawGrade:     grade,
	}
}

func TestCompute_StraightAFullYear(t *testing.T) {
	calc := NewCalculator(testIndex(), nil)
	recs := []grades.Record{
		record("1001310", "2021 - 2022", 1, "A"),
		record("1001310", "2021 - 2022", 2, "A"),
	}

	result, err := calc.Compute(101, recs, nil, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, 4.0, result.Weighted)
	assert.Equal(t, 4.0, result.Unweighted)
	assert.Equal(t, 4.0, result.CoreWeighted)
	assert.Equal(t, 1.0, result.CreditsEarned)
	assert.Equal(t, 1.0, result.CreditsAttempted)
	assert.Equal(t, 2, result.TotalCourses)
	assert.Equal(t, 1, result.DistinctCoreCourses)
}

func TestCompute_APWeightIncrement(t *testing.T) {
	calc := NewCalculator(testIndex(), nil)
	recs := []grades.Record{
		record("1001420", "2022 - 2023", 1, "A"),
	}

	result, err := calc.Compute(101, recs, nil, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, 5.0, result.Weighted)
	assert.Equal(t, 4.0, result.Unweighted)
	assert.Equal(t, 1, result.APCourses)
	assert.Equal(t, 0, result.HonorsCourses)
}

func TestCompute_HonorsElevation(t *testing.T) {
	calc := NewCalculator(testIndex(), nil)

	// Standard-weight definition, honors detected from the title.
	elevated := record("1200310", "2021 - 2022", 1, "B")
	elevated.HonorsDetected = true

	// AP definition never changes under the honors annotation.
	ap := record("1001420", "2021 - 2022", 1, "B")
	ap.HonorsDetected = true

	result, err := calc.Compute(101, []grades.Record{elevated, ap}, nil, DefaultOptions())
	require.NoError(t, err)

	// (3.5*0.5 + 4.0*0.5) / 1.0
	assert.InDelta(t, 3.75, result.Weighted, 0.0001)
	assert.Equal(t, 3.0, result.Unweighted)
}

func TestCompute_FailedCourse(t *testing.T) {
	calc := NewCalculator(testIndex(), nil)
	recs := []grades.Record{
		record("1001310", "2021 - 2022", 1, "A"),
		record("1200310", "2021 - 2022", 1, "F"),
	}

	result, err := calc.Compute(101, recs, nil, DefaultOptions())
	require.NoError(t, err)

	// F counts as zero points in the denominator, not an exclusion.
	assert.Equal(t, 2.0, result.Weighted)
	assert.Equal(t, 0.5, result.CreditsEarned)
	assert.Equal(t, 1.0, result.CreditsAttempted)
}

func TestCompute_PassFailAndWithdrawn(t *testing.T) {
	calc := NewCalculator(testIndex(), nil)
	recs := []grades.Record{
		record("1001310", "2021 - 2022", 1, "A"),
		record("1508110", "2021 - 2022", 1, "P"),
		record("5002000", "2021 - 2022", 1, "W"),
	}

	result, err := calc.Compute(101, recs, nil, DefaultOptions())
	require.NoError(t, err)

	// P earns credit without touching GPA; W contributes nothing at all.
	assert.Equal(t, 4.0, result.Weighted)
	assert.Equal(t, 1.0, result.CreditsEarned)
	assert.Equal(t, 1.0, result.CreditsAttempted)
}

func TestCompute_ExplicitCreditOverride(t *testing.T) {
	calc := NewCalculator(testIndex(), nil)
	rec := record("1001310", "2021 - 2022", 1, "A")
	rec.ExplicitCredit = 1.0 // full-year block course in one semester

	result, err := calc.Compute(101, []grades.Record{rec}, nil, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, 1.0, result.CreditsEarned)
}

func TestCompute_OrphanCodeWarns(t *testing.T) {
	calc := NewCalculator(testIndex(), nil)
	recs := []grades.Record{
		record("1001310", "2021 - 2022", 1, "A"),
		record("9999999", "2021 - 2022", 1, "A"),
	}

	result, err := calc.Compute(101, recs, nil, DefaultOptions())
	require.NoError(t, err)

	// The orphan row is excluded, the rest of the computation continues.
	assert.Equal(t, 4.0, result.Weighted)
	assert.Equal(t, 1, result.TotalCourses)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "orphan_code", result.Warnings[0].Code)
}

func TestCompute_BelowHighSchoolExcluded(t *testing.T) {
	calc := NewCalculator(testIndex(), nil)
	recs := []grades.Record{
		record("1001310", "2021 - 2022", 1, "B"),
		record("0500300", "2021 - 2022", 1, "A"), // zero-credit course
	}

	result, err := calc.Compute(101, recs, nil, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, 3.0, result.Weighted)
	assert.Equal(t, 1, result.TotalCourses)
	assert.Empty(t, result.Warnings)
}

func TestCompute_TransferRecords(t *testing.T) {
	calc := NewCalculator(testIndex(), nil)
	native := []grades.Record{
		record("1001310", "2021 - 2022", 1, "A"),
	}
	transfers := []grades.TransferRecord{
		{
			StudentID:        101,
			AcademicYear:     "2020 - 2021",
			CourseTitle:      "Spanish 1",
			RawGrade:         "95",
			CreditsAttempted: 1.0,
			SourceSchool:     "Lakeside Prep",
		},
	}

	withTransfer, err := calc.Compute(101, native, transfers, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 4.0, withTransfer.Weighted)
	assert.Equal(t, 1.5, withTransfer.CreditsEarned)

	without, err := calc.Compute(101, native, transfers, Options{IncludeTransfer: false})
	require.NoError(t, err)
	assert.Equal(t, 0.5, without.CreditsEarned)
}

func TestCompute_CoreVsOverall(t *testing.T) {
	calc := NewCalculator(testIndex(), nil)
	recs := []grades.Record{
		record("1001310", "2021 - 2022", 1, "B"), // core
		record("5002000", "2021 - 2022", 1, "A"), // elective
	}

	result, err := calc.Compute(101, recs, nil, DefaultOptions())
	require.NoError(t, err)

	assert.InDelta(t, 3.33, result.Weighted, 0.01)
	assert.Equal(t, 3.0, result.CoreWeighted)
	assert.Equal(t, 3.0, result.CoreUnweighted)
	assert.Equal(t, 1, result.CoreCourses)
}

func TestCompute_PerTermBreakdown(t *testing.T) {
	calc := NewCalculator(testIndex(), nil)
	recs := []grades.Record{
		record("1001310", "2021 - 2022", 1, "A"),
		record("1200310", "2021 - 2022", 2, "C"),
		record("2000310", "2022 - 2023", 1, "B"),
	}

	result, err := calc.Compute(101, recs, nil, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, 4.0, result.WeightedByTerm[shared.NewTermKey("2021 - 2022", 1)])
	assert.Equal(t, 2.0, result.WeightedByTerm[shared.NewTermKey("2021 - 2022", 2)])
	assert.Equal(t, 3.0, result.WeightedByTerm[shared.NewTermKey("2022 - 2023", 1)])

	// Cumulative comes from the running totals, not the term averages.
	assert.InDelta(t, 3.0, result.Weighted, 0.0001)
}

func TestCompute_Idempotent(t *testing.T) {
	calc := NewCalculator(testIndex(), nil)
	recs := []grades.Record{
		record("1001310", "2021 - 2022", 1, "A"),
		record("1202310", "2021 - 2022", 1, "B+"),
		record("1001420", "2021 - 2022", 2, "88"),
	}

	first, err := calc.Compute(101, recs, nil, DefaultOptions())
	require.NoError(t, err)
	second, err := calc.Compute(101, recs, nil, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, first.Weighted, second.Weighted)
	assert.Equal(t, first.CreditsEarned, second.CreditsEarned)
	assert.Equal(t, first.WeightedByTerm, second.WeightedByTerm)
}

func TestCompute_InvalidStudentID(t *testing.T) {
	calc := NewCalculator(testIndex(), nil)
	_, err := calc.Compute(0, nil, nil, DefaultOptions())
	assert.ErrorIs(t, err, shared.ErrInvalidStudentID)
}

func TestCompute_MalformedRecordFailsHard(t *testing.T) {
	calc := NewCalculator(testIndex(), nil)
	bad := record("1001310", "not a year", 1, "A")

	_, err := calc.Compute(101, []grades.Record{bad}, nil, DefaultOptions())
	assert.ErrorIs(t, err, shared.ErrMalformedRecord)
}

func TestCompute_EmptyRecords(t *testing.T) {
	calc := NewCalculator(testIndex(), nil)
	result, err := calc.Compute(101, nil, nil, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, 0.0, result.Weighted)
	assert.Equal(t, 0.0, result.CreditsEarned)
	assert.Equal(t, 0, result.TotalCourses)
}
