// Package query contains read operations following CQRS pattern.
// Queries never modify state - they only read and return data.
// Each query is a self-contained use case with its own request/response types.
package query

import (
	"context"
	"time"

	"github.com/keswick-hub/registrar-engine/internal/domain/awards"
	"github.com/keswick-hub/registrar-engine/internal/domain/shared"
	"github.com/keswick-hub/registrar-engine/internal/domain/standing"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET STUDENT STANDING QUERY
// Возвращает последний вычисленный standing одного студента в виде,
// готовом для шаблона транскрипта: отображаемые строки ранга и
// перцентиля уже отформатированы.
// ══════════════════════════════════════════════════════════════════════════════

// GetStudentStandingQuery содержит параметры запроса.
type GetStudentStandingQuery struct {
	// StudentID - идентификатор студента.
	StudentID int64
}

// Validate проверяет корректность параметров запроса.
func (q *GetStudentStandingQuery) Validate() error {
	if !shared.StudentID(q.StudentID).IsValid() {
		return shared.ErrInvalidStudentID
	}
	return nil
}

// StandingDTO - представление standing для рендеринга и экспорта.
type StandingDTO struct {
	// StudentID - идентификатор студента.
	StudentID int64 `json:"student_id"`

	// GraduationYear - выпускной год.
	GraduationYear int `json:"graduation_year"`

	// WeightedGPA - кумулятивный weighted GPA.
	WeightedGPA float64 `json:"weighted_gpa"`

	// UnweightedGPA - кумулятивный unweighted GPA.
	UnweightedGPA float64 `json:"unweighted_gpa"`

	// CoreWeightedGPA - CORE weighted GPA (основа ранжирования).
	CoreWeightedGPA float64 `json:"core_weighted_gpa"`

	// CreditsEarned - заработанные кредиты.
	CreditsEarned float64 `json:"credits_earned"`

	// CreditsAttempted - попытанные кредиты.
	CreditsAttempted float64 `json:"credits_attempted"`

	// RankDisplay - строка ранга ("15 of 190" / "Part-Time Student").
	RankDisplay string `json:"rank_display"`

	// PercentileDisplay - строка перцентиля ("Top 10%").
	PercentileDisplay string `json:"percentile_display"`

	// Decile - название дециля.
	Decile string `json:"decile"`

	// DiplomaDesignation - уровень диплома, возможно "(Projected)".
	DiplomaDesignation string `json:"diploma_designation"`

	// Awards - награды в порядке правил.
	Awards []awards.Award `json:"awards,omitempty"`

	// SpacingTier - итоговый tier плотности вёрстки.
	SpacingTier string `json:"spacing_tier"`

	// SinglePage - верстается ли транскрипт в одну страницу.
	SinglePage bool `json:"single_page"`

	// WarningCount - число предупреждений о пробелах данных.
	WarningCount int `json:"warning_count"`

	// ComputedAt - когда standing был вычислен.
	ComputedAt time.Time `json:"computed_at"`
}

// GetStudentStandingHandler обрабатывает запрос.
type GetStudentStandingHandler struct {
	standingRepo standing.Repository
}

// NewGetStudentStandingHandler создаёт обработчик.
func NewGetStudentStandingHandler(standingRepo standing.Repository) *GetStudentStandingHandler {
	return &GetStudentStandingHandler{standingRepo: standingRepo}
}

// Handle выполняет запрос.
func (h *GetStudentStandingHandler) Handle(ctx context.Context, q GetStudentStandingQuery) (*StandingDTO, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	st, err := h.standingRepo.GetByStudent(ctx, shared.StudentID(q.StudentID))
	if err != nil {
		return nil, shared.WrapError("query", "GetStudentStanding", shared.ErrStandingNotFound, "standing not computed", err)
	}

	dto := toStandingDTO(st)
	return &dto, nil
}

// toStandingDTO конвертирует доменный standing в DTO.
func toStandingDTO(st standing.Standing) StandingDTO {
	return StandingDTO{
		StudentID:          st.StudentID.Int64(),
		GraduationYear:     st.GraduationYear.Int(),
		WeightedGPA:        st.GPA.Weighted,
		UnweightedGPA:      st.GPA.Unweighted,
		CoreWeightedGPA:    st.GPA.CoreWeighted,
		CreditsEarned:      st.GPA.CreditsEarned,
		CreditsAttempted:   st.GPA.CreditsAttempted,
		RankDisplay:        st.Rank.RankDisplay(),
		PercentileDisplay:  st.Rank.PercentileDisplay(),
		Decile:             st.Rank.Decile,
		DiplomaDesignation: st.DiplomaDesignation,
		Awards:             st.Awards,
		SpacingTier:        string(st.Layout.SpacingTier),
		SinglePage:         st.Layout.SinglePage,
		WarningCount:       len(st.GPA.Warnings),
		ComputedAt:         st.ComputedAt,
	}
}
