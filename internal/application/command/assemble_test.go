package command

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/keswick-hub/registrar-engine/internal/domain/course"
	"github.com/keswick-hub/registrar-engine/internal/domain/grades"
	"github.com/keswick-hub/registrar-engine/internal/domain/shared"
)

func assembleIndex() *course.Index {
	return course.NewIndex([]course.Definition{
		{Code: "1001310", Title: "English 1", Core: true, Weight: 0.0, Credit: 1.0},
		{Code: "1001340", Title: "English 2", Core: true, Weight: 0.0, Credit: 1.0},
		{Code: "1001350", Title: "English 3", Core: true, Weight: 0.0, Credit: 1.0},
		{Code: "1200310", Title: "Algebra 1", Core: true, Weight: 0.0, Credit: 0.0}, // middle school section
		{Code: "7080100", Title: "Spanish 1A", Core: false, Weight: 0.0, Credit: 0.0},
		{Code: "0100300", Title: "Keyboarding", Core: false, Weight: 0.0, Credit: 0.0},
	})
}

func yearRecord(code shared.CourseCode, title, year string) grades.Record {
	return semesterRecord(code, title, year, 1)
}

func semesterRecord(code shared.CourseCode, title, year string, semester int) grades.Record {
	return grades.Record{
		StudentID:    12,
		AcademicYear: shared.AcademicYear(year),
		Semester:     shared.Semester(semester),
		CourseCode:   code,
		CourseTitle:  title,
		RawGrade:     "A",
	}
}

func TestRecordsByGradeLevel(t *testing.T) {
	records := []grades.Record{
		yearRecord("1001310", "English 1", "2021 - 2022"), // grade 9 for class of 2025
		yearRecord("1001340", "English 2", "2022 - 2023"), // grade 10
		yearRecord("1001350", "English 3", "2024 - 2025"), // grade 12
		yearRecord("1200310", "Algebra 1", "2020 - 2021"), // grade 8, dropped
	}

	byGrade := recordsByGradeLevel(records, 2025)

	assert.Len(t, byGrade[9], 1)
	assert.Len(t, byGrade[10], 1)
	assert.Empty(t, byGrade[11])
	assert.Len(t, byGrade[12], 1)
	assert.NotContains(t, byGrade, 8)
}

func TestCurrentGradeLevel(t *testing.T) {
	fall2023 := time.Date(2023, time.October, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 12, currentGradeLevel(2024, fall2023))
	assert.Equal(t, 11, currentGradeLevel(2025, fall2023))
	assert.Equal(t, 9, currentGradeLevel(2027, fall2023))

	// The spring semester still belongs to the same school year.
	spring2024 := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, 12, currentGradeLevel(2024, spring2024))

	// After graduation the grade stays capped at 12.
	later := time.Date(2026, time.October, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, 12, currentGradeLevel(2024, later))
}

func TestBuildPageContent_PageSplit(t *testing.T) {
	records := []grades.Record{
		yearRecord("1001310", "English 1", "2021 - 2022"), // grade 9 -> page 1
		yearRecord("1001340", "English 2", "2022 - 2023"), // grade 10 -> page 1
		yearRecord("1001350", "English 3", "2023 - 2024"), // grade 11 -> page 2
	}

	page1, page2 := buildPageContent(records, nil, assembleIndex(), 2025)

	assert.Equal(t, 2, page1.CourseRows)
	assert.Equal(t, 1, page2.CourseRows)
	assert.Equal(t, 0, page1.MiddleSchoolRows)
}

func TestBuildPageContent_MiddleSchoolRows(t *testing.T) {
	records := []grades.Record{
		// Algebra 1 taken in middle school prints on page 1.
		yearRecord("1200310", "Algebra 1", "2019 - 2020"),
		// Middle-school foreign language prints too.
		yearRecord("7080100", "Spanish 1A", "2019 - 2020"),
		// Other below-high-school courses stay off the transcript.
		yearRecord("0100300", "Keyboarding", "2019 - 2020"),
	}

	page1, page2 := buildPageContent(records, nil, assembleIndex(), 2025)

	assert.Equal(t, 2, page1.MiddleSchoolRows)
	assert.Equal(t, 0, page1.CourseRows)
	assert.Equal(t, 0, page2.CourseRows)
}

func TestBuildPageContent_ConsolidatesSemesterRecords(t *testing.T) {
	// A full-year course produces two semester records but prints as a
	// single row with semester grade columns.
	records := []grades.Record{
		semesterRecord("1001310", "English 1", "2021 - 2022", 1),
		semesterRecord("1001310", "English 1", "2021 - 2022", 2),
	}
	transfers := []grades.TransferRecord{
		{StudentID: 12, AcademicYear: "2021 - 2022", CourseTitle: "Biology", RawGrade: "A", CreditsAttempted: 1, SourceSchool: "Lakeside Prep"},
		{StudentID: 12, AcademicYear: "2021 - 2022", CourseTitle: "Geometry", RawGrade: "A", CreditsAttempted: 1, SourceSchool: "Lakeside Prep"},
	}

	page1, page2 := buildPageContent(records, transfers, assembleIndex(), 2025)

	// One consolidated English 1 row plus two transfer rows.
	assert.Equal(t, 3, page1.CourseRows)
	assert.Equal(t, 1, page1.TransferDividers)
	assert.Equal(t, 0, page2.CourseRows)
}

func TestBuildPageContent_RepeatedCourseAcrossYears(t *testing.T) {
	// The same title retaken in a later grade prints in both grade blocks.
	records := []grades.Record{
		semesterRecord("1001310", "English 1", "2021 - 2022", 1),
		semesterRecord("1001310", "English 1", "2021 - 2022", 2),
		semesterRecord("1001310", "English 1", "2022 - 2023", 1),
	}

	page1, _ := buildPageContent(records, nil, assembleIndex(), 2025)

	assert.Equal(t, 2, page1.CourseRows)
}

func TestBuildPageContent_ConsolidatesMiddleSchoolRows(t *testing.T) {
	records := []grades.Record{
		semesterRecord("1200310", "Algebra 1", "2019 - 2020", 1),
		semesterRecord("1200310", "Algebra 1", "2019 - 2020", 2),
	}

	page1, _ := buildPageContent(records, nil, assembleIndex(), 2025)

	assert.Equal(t, 1, page1.MiddleSchoolRows)
}

func TestBuildPageContent_TransferRowsAndDividers(t *testing.T) {
	transfers := []grades.TransferRecord{
		{StudentID: 12, AcademicYear: "2021 - 2022", CourseTitle: "Spanish 1", RawGrade: "A", CreditsAttempted: 1, SourceSchool: "Lakeside Prep"},
		{StudentID: 12, AcademicYear: "2021 - 2022", CourseTitle: "Spanish 2", RawGrade: "A", CreditsAttempted: 1, SourceSchool: "Lakeside Prep"},
		{StudentID: 12, AcademicYear: "2023 - 2024", CourseTitle: "Chemistry", RawGrade: "B", CreditsAttempted: 1, SourceSchool: "Lakeside Prep"},
		{StudentID: 12, AcademicYear: "2023 - 2024", CourseTitle: "Physics", RawGrade: "B", CreditsAttempted: 1, SourceSchool: "North High"},
		{StudentID: 12, AcademicYear: "2023 - 2024", CourseTitle: "Unknown Origin", RawGrade: "B", CreditsAttempted: 1},
	}

	page1, page2 := buildPageContent(nil, transfers, assembleIndex(), 2025)

	// Every transfer course occupies a row on its page.
	assert.Equal(t, 2, page1.CourseRows)
	assert.Equal(t, 3, page2.CourseRows)
	// One divider per (grade, school) pair; blank source schools get none.
	assert.Equal(t, 1, page1.TransferDividers)
	assert.Equal(t, 2, page2.TransferDividers)
}

func TestBuildPageContent_TransferSemestersShareRow(t *testing.T) {
	// Two semester entries of one transfer course from the same school
	// consolidate into a single row.
	transfers := []grades.TransferRecord{
		{StudentID: 12, AcademicYear: "2021 - 2022", CourseTitle: "French 1", RawGrade: "A", CreditsAttempted: 0.5, SourceSchool: "Lakeside Prep"},
		{StudentID: 12, AcademicYear: "2021 - 2022", CourseTitle: "French 1", RawGrade: "B", CreditsAttempted: 0.5, SourceSchool: "Lakeside Prep"},
	}

	page1, _ := buildPageContent(nil, transfers, assembleIndex(), 2025)

	assert.Equal(t, 1, page1.CourseRows)
	assert.Equal(t, 1, page1.TransferDividers)
}
