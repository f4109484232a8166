package grades

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNumericToLetter_CutoffLadder(t *testing.T) {
	cases := []struct {
		numeric float64
		letter  string
	}{
		{100, "A"},
		{93, "A"},
		{92.9, "A-"},
		{90, "A-"},
		{89.9, "B+"},
		{87, "B+"},
		{86, "B"},
		{83, "B"},
		{82, "B-"},
		{80, "B-"},
		{79, "C+"},
		{77, "C+"},
		{76, "C"},
		{73, "C"},
		{72, "C-"},
		{70, "C-"},
		{69, "D+"},
		{67, "D+"},
		{66, "D"},
		{63, "D"},
		{62, "D-"},
		{60, "D-"},
		{59.9, "F"},
		{0, "F"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.letter, NumericToLetter(tc.numeric), "numeric %v", tc.numeric)
	}
}

func TestPoints_LetterGrades(t *testing.T) {
	cases := []struct {
		grade     string
		points    float64
		countable bool
	}{
		{"A", 4.0, true},
		{"A-", 4.0, true}, // plus/minus collapses to the base letter
		{"B+", 3.0, true},
		{"b", 3.0, true}, // case-insensitive
		{" C ", 2.0, true},
		{"D-", 1.0, true},
		{"F", 0.0, true}, // countable zero, not excluded
	}

	for _, tc := range cases {
		pts, ok := Points(tc.grade)
		assert.Equal(t, tc.countable, ok, "grade %q", tc.grade)
		assert.Equal(t, tc.points, pts, "grade %q", tc.grade)
	}
}

func TestPoints_NumericGrades(t *testing.T) {
	pts, ok := Points("93")
	assert.True(t, ok)
	assert.Equal(t, 4.0, pts)

	// 90 maps to A-, which collapses back to A points.
	pts, ok = Points("90")
	assert.True(t, ok)
	assert.Equal(t, 4.0, pts)

	pts, ok = Points("85")
	assert.True(t, ok)
	assert.Equal(t, 3.0, pts)

	pts, ok = Points("59")
	assert.True(t, ok)
	assert.Equal(t, 0.0, pts)
}

func TestPoints_NonCountable(t *testing.T) {
	for _, grade := range []string{"P", "NP", "I", "W", "Pass", "FAIL", "Incomplete", "withdrawn", "", "—", "None", "NaN"} {
		pts, ok := Points(grade)
		assert.False(t, ok, "grade %q should not be countable", grade)
		assert.Equal(t, 0.0, pts)
	}
}

func TestPoints_UnknownToken(t *testing.T) {
	pts, ok := Points("AUDIT")
	assert.False(t, ok)
	assert.Equal(t, 0.0, pts)

	// Garbage plus/minus shapes stay non-countable.
	_, ok = Points("A++")
	assert.False(t, ok)
}

func TestIsPassing(t *testing.T) {
	assert.True(t, IsPassing("A"))
	assert.True(t, IsPassing("D-"))
	assert.True(t, IsPassing("P"))
	assert.True(t, IsPassing("pass"))
	assert.False(t, IsPassing("F"))
	assert.False(t, IsPassing("NP"))
	assert.False(t, IsPassing("W"))
	assert.False(t, IsPassing("Fail"))
	// Incompletes, blanks and unrecognized tokens earn nothing.
	assert.False(t, IsPassing("I"))
	assert.False(t, IsPassing(""))
	assert.False(t, IsPassing("AUDIT"))
}

func TestIsBlank(t *testing.T) {
	assert.True(t, IsBlank(""))
	assert.True(t, IsBlank("—"))
	assert.True(t, IsBlank("W"))
	assert.True(t, IsBlank("none"))
	assert.False(t, IsBlank("F"))
	assert.False(t, IsBlank("P"))
}

func TestIsKnown(t *testing.T) {
	assert.True(t, IsKnown("A+"))
	assert.True(t, IsKnown("87.5"))
	assert.True(t, IsKnown("I"))
	assert.True(t, IsKnown(""))
	assert.False(t, IsKnown("AUDIT"))
}
