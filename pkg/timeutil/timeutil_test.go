package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAcademicYearStart(t *testing.T) {
	cases := []struct {
		name  string
		year  int
		month int
		day   int
		want  int
	}{
		{"spring belongs to the prior start year", 2024, 5, 15, 2023},
		{"fall starts the new year", 2024, 9, 1, 2024},
		{"july rollover day", 2024, 7, 1, 2024},
		{"last day before rollover", 2024, 6, 30, 2023},
		{"january midyear", 2025, 1, 10, 2024},
	}

	for _, tc := range cases {
		got := AcademicYearStart(Date(tc.year, tc.month, tc.day))
		assert.Equal(t, tc.want, got, tc.name)
	}
}

func TestFormatAcademicYear(t *testing.T) {
	assert.Equal(t, "2023 - 2024", FormatAcademicYear(2023))
	assert.Equal(t, "2023 - 2024", CurrentAcademicYear(Date(2024, 3, 1)))
}

func TestSemesterOf(t *testing.T) {
	assert.Equal(t, 1, SemesterOf(Date(2023, 10, 15)))
	assert.Equal(t, 1, SemesterOf(Date(2023, 7, 1)))
	assert.Equal(t, 2, SemesterOf(Date(2024, 2, 15)))
	assert.Equal(t, 2, SemesterOf(Date(2024, 6, 30)))
}

func TestHasGraduated(t *testing.T) {
	// The class of 2025 counts as graduated only once 2025 has passed.
	assert.False(t, HasGraduated(2025, Date(2025, 6, 15)))
	assert.False(t, HasGraduated(2025, Date(2025, 12, 31)))
	assert.True(t, HasGraduated(2025, Date(2026, 1, 1)))
}

func TestGradeLevelFor(t *testing.T) {
	// Class of 2025: freshman year starts 2021.
	assert.Equal(t, 9, GradeLevelFor(2025, 2021))
	assert.Equal(t, 12, GradeLevelFor(2025, 2024))
	// The year before high school comes out as grade 8.
	assert.Equal(t, 8, GradeLevelFor(2025, 2020))
}

func TestParseSISDate(t *testing.T) {
	got, err := ParseSISDate("08/14/2023")
	assert.NoError(t, err)
	assert.Equal(t, Date(2023, 8, 14), got)

	_, err = ParseSISDate("2023-08-14")
	assert.Error(t, err)
}

func TestIsSameDay(t *testing.T) {
	morning := Date(2024, 3, 1).Add(6 * time.Hour)
	evening := Date(2024, 3, 1).Add(22 * time.Hour)
	assert.True(t, IsSameDay(morning, evening))
	assert.False(t, IsSameDay(morning, Date(2024, 3, 2)))
}
