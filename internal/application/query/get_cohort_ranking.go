package query

import (
	"context"
	"sort"
	"time"

	"github.com/keswick-hub/registrar-engine/internal/domain/shared"
	"github.com/keswick-hub/registrar-engine/internal/domain/standing"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET COHORT RANKING QUERY
// Возвращает ранжированный список когорты из последнего batch-прохода.
// Part-time студенты идут после ранжированных, в порядке ID.
// ══════════════════════════════════════════════════════════════════════════════

// GetCohortRankingQuery содержит параметры запроса.
type GetCohortRankingQuery struct {
	// GraduationYear - запрашиваемая когорта.
	GraduationYear int

	// Limit - максимум записей (0 = вся когорта).
	Limit int

	// IncludePartTime - включать ли part-time студентов в хвост списка.
	IncludePartTime bool
}

// Validate проверяет корректность параметров запроса.
func (q *GetCohortRankingQuery) Validate() error {
	if !shared.GraduationYear(q.GraduationYear).IsValid() {
		return shared.ErrInvalidGradYear
	}
	if q.Limit < 0 {
		q.Limit = 0
	}
	return nil
}

// RankingEntryDTO - одна строка ранжированного списка.
type RankingEntryDTO struct {
	// Rank - позиция (0 для part-time).
	Rank int `json:"rank"`

	// StudentID - идентификатор студента.
	StudentID int64 `json:"student_id"`

	// CoreWeightedGPA - GPA, по которому студент ранжирован.
	CoreWeightedGPA float64 `json:"core_weighted_gpa"`

	// Percentile - перцентиль внутри когорты.
	Percentile float64 `json:"percentile"`

	// Decile - название дециля.
	Decile string `json:"decile"`

	// RankDisplay - отображаемая строка ранга.
	RankDisplay string `json:"rank_display"`

	// IsPartTime - исключён ли студент из ранжирования.
	IsPartTime bool `json:"is_part_time"`
}

// GetCohortRankingResult содержит результат запроса.
type GetCohortRankingResult struct {
	// GraduationYear - когорта.
	GraduationYear int `json:"graduation_year"`

	// Entries - строки списка.
	Entries []RankingEntryDTO `json:"entries"`

	// CohortSize - размер ранжируемой популяции.
	CohortSize int `json:"cohort_size"`

	// PartTimeCount - число part-time студентов в когорте.
	PartTimeCount int `json:"part_time_count"`

	// RunID - batch-проход, из которого взяты данные.
	RunID string `json:"run_id"`

	// GeneratedAt - время генерации результата.
	GeneratedAt time.Time `json:"generated_at"`
}

// GetCohortRankingHandler обрабатывает запрос.
type GetCohortRankingHandler struct {
	standingRepo standing.Repository
}

// NewGetCohortRankingHandler создаёт обработчик.
func NewGetCohortRankingHandler(standingRepo standing.Repository) *GetCohortRankingHandler {
	return &GetCohortRankingHandler{standingRepo: standingRepo}
}

// Handle выполняет запрос.
func (h *GetCohortRankingHandler) Handle(ctx context.Context, q GetCohortRankingQuery) (*GetCohortRankingResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	standings, err := h.standingRepo.GetByGraduationYear(ctx, shared.GraduationYear(q.GraduationYear))
	if err != nil {
		return nil, shared.WrapError("query", "GetCohortRanking", shared.ErrNotFound, "failed to load cohort standings", err)
	}
	if len(standings) == 0 {
		return nil, shared.ErrCohortEmpty
	}

	var ranked, partTime []standing.Standing
	for _, st := range standings {
		if st.Rank.IsPartTime {
			partTime = append(partTime, st)
			continue
		}
		if st.Rank.Rank.IsValid() {
			ranked = append(ranked, st)
		}
	}

	sort.Slice(ranked, func(a, b int) bool {
		if ranked[a].Rank.Rank != ranked[b].Rank.Rank {
			return ranked[a].Rank.Rank < ranked[b].Rank.Rank
		}
		return ranked[a].StudentID < ranked[b].StudentID
	})
	sort.Slice(partTime, func(a, b int) bool {
		return partTime[a].StudentID < partTime[b].StudentID
	})

	ordered := ranked
	if q.IncludePartTime {
		ordered = append(ordered, partTime...)
	}
	if q.Limit > 0 && q.Limit < len(ordered) {
		ordered = ordered[:q.Limit]
	}

	result := &GetCohortRankingResult{
		GraduationYear: q.GraduationYear,
		Entries:        make([]RankingEntryDTO, 0, len(ordered)),
		PartTimeCount:  len(partTime),
		GeneratedAt:    time.Now().UTC(),
	}
	if len(ranked) > 0 {
		result.CohortSize = ranked[0].Rank.CohortSize
		result.RunID = ranked[0].RunID
	}

	for _, st := range ordered {
		result.Entries = append(result.Entries, RankingEntryDTO{
			Rank:            st.Rank.Rank.Int(),
			StudentID:       st.StudentID.Int64(),
			CoreWeightedGPA: st.Rank.CoreWeightedGPA,
			Percentile:      st.Rank.Percentile,
			Decile:          st.Rank.Decile,
			RankDisplay:     st.Rank.RankDisplay(),
			IsPartTime:      st.Rank.IsPartTime,
		})
	}
	return result, nil
}
