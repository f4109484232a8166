package query

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keswick-hub/registrar-engine/internal/domain/gpa"
	"github.com/keswick-hub/registrar-engine/internal/domain/layout"
	"github.com/keswick-hub/registrar-engine/internal/domain/rank"
	"github.com/keswick-hub/registrar-engine/internal/domain/shared"
	"github.com/keswick-hub/registrar-engine/internal/domain/standing"
)

type fakeStandingRepo struct {
	standings []standing.Standing
}

func (f *fakeStandingRepo) Upsert(ctx context.Context, s standing.Standing) error {
	f.standings = append(f.standings, s)
	return nil
}

func (f *fakeStandingRepo) GetByStudent(ctx context.Context, id shared.StudentID) (standing.Standing, error) {
	for _, s := range f.standings {
		if s.StudentID == id {
			return s, nil
		}
	}
	return standing.Standing{}, shared.ErrStandingNotFound
}

func (f *fakeStandingRepo) GetByGraduationYear(ctx context.Context, year shared.GraduationYear) ([]standing.Standing, error) {
	var out []standing.Standing
	for _, s := range f.standings {
		if s.GraduationYear == year {
			out = append(out, s)
		}
	}
	return out, nil
}

func rankedStanding(id shared.StudentID, r rank.Rank, gpaValue float64) standing.Standing {
	return standing.Standing{
		StudentID:      id,
		GraduationYear: 2025,
		GPA:            gpa.Result{CoreWeighted: gpaValue, Weighted: gpaValue, Unweighted: gpaValue},
		Rank: rank.Result{
			StudentID:       id,
			Rank:            r,
			CohortSize:      3,
			Percentile:      float64(r) / 3 * 100,
			Decile:          "1st Decile",
			CoreWeightedGPA: gpaValue,
		},
		RunID:      "run-7",
		ComputedAt: time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
	}
}

func partTimeStanding(id shared.StudentID) standing.Standing {
	return standing.Standing{
		StudentID:      id,
		GraduationYear: 2025,
		Rank:           rank.Result{StudentID: id, Decile: "Part-Time", IsPartTime: true},
		RunID:          "run-7",
	}
}

func TestGetCohortRanking_OrdersByRank(t *testing.T) {
	repo := &fakeStandingRepo{standings: []standing.Standing{
		rankedStanding(3, 3, 3.2),
		rankedStanding(1, 1, 4.4),
		rankedStanding(2, 2, 4.0),
	}}
	h := NewGetCohortRankingHandler(repo)

	result, err := h.Handle(context.Background(), GetCohortRankingQuery{GraduationYear: 2025})
	require.NoError(t, err)

	require.Len(t, result.Entries, 3)
	assert.Equal(t, []int64{1, 2, 3}, []int64{
		result.Entries[0].StudentID,
		result.Entries[1].StudentID,
		result.Entries[2].StudentID,
	})
	assert.Equal(t, 1, result.Entries[0].Rank)
	assert.Equal(t, "1 of 3", result.Entries[0].RankDisplay)
	assert.Equal(t, 3, result.CohortSize)
	assert.Equal(t, "run-7", result.RunID)
}

func TestGetCohortRanking_PartTimeTail(t *testing.T) {
	repo := &fakeStandingRepo{standings: []standing.Standing{
		partTimeStanding(9),
		rankedStanding(1, 1, 4.4),
		partTimeStanding(5),
	}}
	h := NewGetCohortRankingHandler(repo)

	// Without the flag, part-time students stay off the list but are counted.
	result, err := h.Handle(context.Background(), GetCohortRankingQuery{GraduationYear: 2025})
	require.NoError(t, err)
	assert.Len(t, result.Entries, 1)
	assert.Equal(t, 2, result.PartTimeCount)

	// With the flag, they trail the ranked list in ID order.
	result, err = h.Handle(context.Background(), GetCohortRankingQuery{GraduationYear: 2025, IncludePartTime: true})
	require.NoError(t, err)
	require.Len(t, result.Entries, 3)
	assert.Equal(t, int64(5), result.Entries[1].StudentID)
	assert.Equal(t, int64(9), result.Entries[2].StudentID)
	assert.True(t, result.Entries[1].IsPartTime)
	assert.Equal(t, "Part-Time Student", result.Entries[1].RankDisplay)
}

func TestGetCohortRanking_Limit(t *testing.T) {
	repo := &fakeStandingRepo{standings: []standing.Standing{
		rankedStanding(1, 1, 4.4),
		rankedStanding(2, 2, 4.0),
		rankedStanding(3, 3, 3.2),
	}}
	h := NewGetCohortRankingHandler(repo)

	result, err := h.Handle(context.Background(), GetCohortRankingQuery{GraduationYear: 2025, Limit: 2})
	require.NoError(t, err)

	assert.Len(t, result.Entries, 2)
	// The cohort size reflects the whole population, not the page.
	assert.Equal(t, 3, result.CohortSize)
}

func TestGetCohortRanking_EmptyCohort(t *testing.T) {
	h := NewGetCohortRankingHandler(&fakeStandingRepo{})

	_, err := h.Handle(context.Background(), GetCohortRankingQuery{GraduationYear: 2025})
	assert.ErrorIs(t, err, shared.ErrCohortEmpty)
}

func TestGetCohortRanking_InvalidYear(t *testing.T) {
	h := NewGetCohortRankingHandler(&fakeStandingRepo{})

	_, err := h.Handle(context.Background(), GetCohortRankingQuery{GraduationYear: 1850})
	assert.ErrorIs(t, err, shared.ErrInvalidGradYear)
}

func TestGetStudentStanding_MapsDTO(t *testing.T) {
	st := rankedStanding(7, 2, 4.0)
	st.DiplomaDesignation = "STEM Scholars Diploma (Projected)"
	st.Layout = layout.Metrics{SpacingTier: layout.TierModerate, SinglePage: true}
	st.GPA.CreditsEarned = 12.5
	st.GPA.CreditsAttempted = 13.0
	st.GPA.Warnings = []shared.Warning{{Code: "orphan_code"}}

	h := NewGetStudentStandingHandler(&fakeStandingRepo{standings: []standing.Standing{st}})

	dto, err := h.Handle(context.Background(), GetStudentStandingQuery{StudentID: 7})
	require.NoError(t, err)

	assert.Equal(t, int64(7), dto.StudentID)
	assert.Equal(t, 2025, dto.GraduationYear)
	assert.Equal(t, 4.0, dto.CoreWeightedGPA)
	assert.Equal(t, 12.5, dto.CreditsEarned)
	assert.Equal(t, 13.0, dto.CreditsAttempted)
	assert.Equal(t, "2 of 3", dto.RankDisplay)
	assert.Equal(t, "1st Decile", dto.Decile)
	assert.Equal(t, "STEM Scholars Diploma (Projected)", dto.DiplomaDesignation)
	assert.Equal(t, string(layout.TierModerate), dto.SpacingTier)
	assert.True(t, dto.SinglePage)
	assert.Equal(t, 1, dto.WarningCount)
	assert.Equal(t, st.ComputedAt, dto.ComputedAt)
}

func TestGetStudentStanding_NotFound(t *testing.T) {
	h := NewGetStudentStandingHandler(&fakeStandingRepo{})

	_, err := h.Handle(context.Background(), GetStudentStandingQuery{StudentID: 404})
	assert.ErrorIs(t, err, shared.ErrStandingNotFound)
}

func TestGetStudentStanding_InvalidID(t *testing.T) {
	h := NewGetStudentStandingHandler(&fakeStandingRepo{})

	_, err := h.Handle(context.Background(), GetStudentStandingQuery{StudentID: 0})
	assert.ErrorIs(t, err, shared.ErrInvalidStudentID)
}
