package command

import (
	"context"
	"time"

	"github.com/keswick-hub/registrar-engine/internal/domain/awards"
	"github.com/keswick-hub/registrar-engine/internal/domain/course"
	"github.com/keswick-hub/registrar-engine/internal/domain/gpa"
	"github.com/keswick-hub/registrar-engine/internal/domain/grades"
	"github.com/keswick-hub/registrar-engine/internal/domain/layout"
	"github.com/keswick-hub/registrar-engine/internal/domain/rank"
	"github.com/keswick-hub/registrar-engine/internal/domain/shared"
	"github.com/keswick-hub/registrar-engine/internal/domain/standing"
	"github.com/keswick-hub/registrar-engine/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// COMPUTE STANDING COMMAND
// Вычисляет полный academic standing одного студента: GPA, награды,
// diploma designation и оценку плотности вёрстки. Ранг заполняется
// только при пересчёте когорты (RecomputeCohort) - для одиночного
// пересчёта передаётся уже известный результат ранжирования, если есть.
// ══════════════════════════════════════════════════════════════════════════════

// ComputeStandingCommand содержит параметры пересчёта одного студента.
type ComputeStandingCommand struct {
	// StudentID - идентификатор студента.
	StudentID int64

	// GraduationYear - выпускной год когорты студента.
	GraduationYear int

	// TestScores - результаты стандартизированных тестов ("PSAT" и др.).
	TestScores map[string]int

	// APExamScores - баллы AP-экзаменов (1-5), если загружены.
	APExamScores []int

	// APAwardCodes - коды наград College Board из выгрузки AP-баллов.
	APAwardCodes []awards.ReportedAPAward

	// Sports - строки спортивного ростера студента.
	Sports []awards.SportParticipation

	// RankResult - результат ранжирования из последнего batch-прохода.
	// nil, пока когорта не ранжирована.
	RankResult *rank.Result

	// ExcludeTransfer отключает слияние трансферных записей.
	ExcludeTransfer bool

	// RunID - идентификатор batch-прохода; пустой для одиночного запуска.
	RunID string
}

// Validate проверяет корректность параметров команды.
func (c *ComputeStandingCommand) Validate() error {
	if !shared.StudentID(c.StudentID).IsValid() {
		return shared.ErrInvalidStudentID
	}
	if !shared.GraduationYear(c.GraduationYear).IsValid() {
		return shared.ErrInvalidGradYear
	}
	return nil
}

// ComputeStandingResult содержит вычисленный standing и сводку по
// качеству данных.
type ComputeStandingResult struct {
	// Standing - полный вычисленный результат.
	Standing standing.Standing `json:"standing"`

	// WarningCount - число пропущенных строк из-за пробелов в данных.
	WarningCount int `json:"warning_count"`
}

// ComputeStandingHandler обрабатывает команду пересчёта одного студента.
type ComputeStandingHandler struct {
	courseRepo   course.Repository
	gradeRepo    grades.Repository
	standingRepo standing.Repository
	awardsCfg    awards.Config
	layoutCfg    layout.Config
	log          *logger.Logger

	// gpaCache - материализованная карта GPA когорты из последнего
	// batch-прохода; nil отключает ранжирование одиночного пересчёта.
	gpaCache standing.GPACache

	// now инжектируется в тестах для воспроизводимой проекции диплома.
	now func() time.Time
}

// NewComputeStandingHandler создаёт обработчик команды.
func NewComputeStandingHandler(
	courseRepo course.Repository,
	gradeRepo grades.Repository,
	standingRepo standing.Repository,
	awardsCfg awards.Config,
	layoutCfg layout.Config,
	log *logger.Logger,
) *ComputeStandingHandler {
	if log == nil {
		log = logger.Default()
	}
	return &ComputeStandingHandler{
		courseRepo:   courseRepo,
		gradeRepo:    gradeRepo,
		standingRepo: standingRepo,
		awardsCfg:    awardsCfg,
		layoutCfg:    layoutCfg,
		log:          log,
		now:          time.Now,
	}
}

// WithClock подменяет источник времени. Используется тестами проекции
// диплома; в production остаётся time.Now.
func (h *ComputeStandingHandler) WithClock(now func() time.Time) *ComputeStandingHandler {
	h.now = now
	return h
}

// WithGPACache подключает кеш GPA когорты. Одиночный пересчёт тогда
// ранжирует студента против карты последнего batch-прохода вместо
// того, чтобы оставлять его неранжированным.
func (h *ComputeStandingHandler) WithGPACache(cache standing.GPACache) *ComputeStandingHandler {
	h.gpaCache = cache
	return h
}

// Handle выполняет команду: загрузка записей, GPA, награды, диплом,
// вёрстка, сохранение.
func (h *ComputeStandingHandler) Handle(ctx context.Context, cmd ComputeStandingCommand) (*ComputeStandingResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	id := shared.StudentID(cmd.StudentID)
	gradYear := shared.GraduationYear(cmd.GraduationYear)

	index, err := h.courseRepo.LoadIndex(ctx)
	if err != nil {
		return nil, shared.WrapError("command", "ComputeStanding", shared.ErrNotFound, "failed to load course index", err)
	}

	records, err := h.gradeRepo.GetByStudent(ctx, id)
	if err != nil {
		return nil, shared.WrapError("command", "ComputeStanding", shared.ErrNotFound, "failed to load grade records", err)
	}
	transfers, err := h.gradeRepo.GetTransfersByStudent(ctx, id)
	if err != nil {
		return nil, shared.WrapError("command", "ComputeStanding", shared.ErrNotFound, "failed to load transfer records", err)
	}

	if cmd.RankResult == nil && h.gpaCache != nil {
		cmd.RankResult = h.rankFromCachedCohort(ctx, id, gradYear)
	}

	st, err := h.compute(id, gradYear, index, records, transfers, cmd)
	if err != nil {
		return nil, err
	}

	if h.standingRepo != nil {
		if err := h.standingRepo.Upsert(ctx, st); err != nil {
			return nil, shared.WrapError("command", "ComputeStanding", shared.ErrStorageFailure, "failed to persist standing", err)
		}
	}

	h.log.Info("standing computed",
		logger.StudentID(id.Int64()),
		logger.GradYear(gradYear.Int()),
		logger.GPAValue("core_weighted", st.GPA.CoreWeighted),
		logger.Int("awards", len(st.Awards)),
	)
	return &ComputeStandingResult{
		Standing:     st,
		WarningCount: len(st.GPA.Warnings),
	}, nil
}

// rankFromCachedCohort ранжирует студента против материализованной
// карты GPA когорты из последнего batch-прохода. Промах кеша или
// отсутствие студента в карте оставляет его неранжированным до
// следующего прохода; ошибка чтения кеша - best effort, не фатальна.
func (h *ComputeStandingHandler) rankFromCachedCohort(
	ctx context.Context,
	id shared.StudentID,
	gradYear shared.GraduationYear,
) *rank.Result {
	cohort, ok, err := h.gpaCache.GetCohort(ctx, gradYear)
	if err != nil {
		h.log.Warn("failed to read cohort GPA cache",
			logger.GradYear(gradYear.Int()),
			logger.Err(err),
		)
		return nil
	}
	if !ok {
		return nil
	}
	if _, present := cohort[id]; !present {
		return nil
	}

	entries := make([]rank.Entry, 0, len(cohort))
	for sid, r := range cohort {
		entries = append(entries, rank.Entry{
			StudentID:       sid,
			CoreWeightedGPA: r.CoreWeighted,
			CoreCourseCount: r.DistinctCoreCourses,
		})
	}
	ranks := rank.RankCohort(entries)
	if r, found := ranks[id]; found {
		return &r
	}
	return nil
}

// compute - чистая часть вычисления, переиспользуемая batch-проходом.
func (h *ComputeStandingHandler) compute(
	id shared.StudentID,
	gradYear shared.GraduationYear,
	index *course.Index,
	records []grades.Record,
	transfers []grades.TransferRecord,
	cmd ComputeStandingCommand,
) (standing.Standing, error) {
	now := h.now()

	calc := gpa.NewCalculator(index, h.log)
	opts := gpa.Options{IncludeTransfer: !cmd.ExcludeTransfer}
	gpaResult, err := calc.Compute(id, records, transfers, opts)
	if err != nil {
		return standing.Standing{}, err
	}

	driver := awards.NewDriver(index, h.awardsCfg, h.log)
	awardList := driver.CalculateAll(awards.Input{
		StudentID:    id,
		Records:      records,
		RankResult:   cmd.RankResult,
		APExamScores: cmd.APExamScores,
		APAwardCodes: cmd.APAwardCodes,
		TestScores:   cmd.TestScores,
		Sports:       cmd.Sports,
	})

	byGrade := recordsByGradeLevel(records, gradYear)
	designation := driver.Designation(byGrade, currentGradeLevel(gradYear, now), gradYear, now)

	page1, page2 := buildPageContent(records, transfers, index, gradYear)
	metrics := layout.NewEstimator(h.layoutCfg).Estimate(page1, page2, len(awardList))

	st := standing.Standing{
		StudentID:          id,
		GraduationYear:     gradYear,
		GPA:                gpaResult,
		Awards:             awardList,
		DiplomaDesignation: designation,
		Layout:             metrics,
		RunID:              cmd.RunID,
		ComputedAt:         now.UTC(),
	}
	if cmd.RankResult != nil {
		st.Rank = *cmd.RankResult
	}
	return st, nil
}
