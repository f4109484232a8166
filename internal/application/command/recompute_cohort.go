package command

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

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
// RECOMPUTE COHORT COMMAND
// Batch-пересчёт одной выпускной когорты. Пер-студентный GPA считается
// параллельно пулом воркеров над общим read-only индексом курсов;
// ранжирование - точка синхронизации: оно стартует только после того,
// как GPA всех участников материализованы. Затем каждому студенту
// досчитываются награды, зависящие от ранга, и standing сохраняется.
// ══════════════════════════════════════════════════════════════════════════════

// DefaultWorkerCount - размер пула воркеров по умолчанию.
const DefaultWorkerCount = 8

// RecomputeCohortCommand содержит параметры batch-пересчёта.
type RecomputeCohortCommand struct {
	// GraduationYear - пересчитываемая когорта.
	GraduationYear int

	// Workers - размер пула воркеров (по умолчанию DefaultWorkerCount).
	Workers int

	// TestScores - результаты тестов по студентам.
	TestScores map[int64]map[string]int

	// APExamScores - баллы AP-экзаменов по студентам.
	APExamScores map[int64][]int

	// APAwardCodes - коды наград College Board по студентам.
	APAwardCodes map[int64][]awards.ReportedAPAward

	// Sports - спортивные ростеры по студентам.
	Sports map[int64][]awards.SportParticipation

	// ExcludeTransfer отключает слияние трансферных записей.
	ExcludeTransfer bool
}

// Validate проверяет корректность параметров команды.
func (c *RecomputeCohortCommand) Validate() error {
	if !shared.GraduationYear(c.GraduationYear).IsValid() {
		return shared.ErrInvalidGradYear
	}
	if c.Workers <= 0 {
		c.Workers = DefaultWorkerCount
	}
	return nil
}

// RecomputeCohortResult - сводка batch-прохода.
type RecomputeCohortResult struct {
	// RunID - идентификатор прохода.
	RunID string `json:"run_id"`

	// GraduationYear - пересчитанная когорта.
	GraduationYear int `json:"graduation_year"`

	// CohortSize - число студентов в когорте.
	CohortSize int `json:"cohort_size"`

	// Ranked - число ранжированных (full-time) студентов.
	Ranked int `json:"ranked"`

	// PartTime - число part-time студентов.
	PartTime int `json:"part_time"`

	// Failed - число студентов, чей пересчёт завершился ошибкой.
	Failed int `json:"failed"`

	// WarningCount - суммарное число предупреждений о пробелах данных.
	WarningCount int `json:"warning_count"`

	// Elapsed - длительность прохода.
	Elapsed time.Duration `json:"elapsed"`
}

// RecomputeCohortHandler обрабатывает batch-пересчёт когорты.
type RecomputeCohortHandler struct {
	courseRepo   course.Repository
	gradeRepo    grades.Repository
	standingRepo standing.Repository
	gpaCache     standing.GPACache
	awardsCfg    awards.Config
	layoutCfg    layout.Config
	log          *logger.Logger
	now          func() time.Time
}

// NewRecomputeCohortHandler создаёт обработчик batch-пересчёта.
func NewRecomputeCohortHandler(
	courseRepo course.Repository,
	gradeRepo grades.Repository,
	standingRepo standing.Repository,
	gpaCache standing.GPACache,
	awardsCfg awards.Config,
	layoutCfg layout.Config,
	log *logger.Logger,
) *RecomputeCohortHandler {
	if log == nil {
		log = logger.Default()
	}
	return &RecomputeCohortHandler{
		courseRepo:   courseRepo,
		gradeRepo:    gradeRepo,
		standingRepo: standingRepo,
		gpaCache:     gpaCache,
		awardsCfg:    awardsCfg,
		layoutCfg:    layoutCfg,
		log:          log,
		now:          time.Now,
	}
}

// WithClock подменяет источник времени для тестов.
func (h *RecomputeCohortHandler) WithClock(now func() time.Time) *RecomputeCohortHandler {
	h.now = now
	return h
}

// studentData - загруженные и вычисленные данные одного студента,
// собранные воркером до точки синхронизации.
type studentData struct {
	id        shared.StudentID
	records   []grades.Record
	transfers []grades.TransferRecord
	gpa       gpa.Result
	err       error
}

// Handle выполняет batch-пересчёт когорты.
func (h *RecomputeCohortHandler) Handle(ctx context.Context, cmd RecomputeCohortCommand) (*RecomputeCohortResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	started := h.now()
	runID := uuid.New().String()
	gradYear := shared.GraduationYear(cmd.GraduationYear)
	log := h.log.WithRunID(runID)

	index, err := h.courseRepo.LoadIndex(ctx)
	if err != nil {
		return nil, shared.WrapError("command", "RecomputeCohort", shared.ErrNotFound, "failed to load course index", err)
	}

	students, err := h.gradeRepo.GetStudentsByGraduationYear(ctx, gradYear)
	if err != nil {
		return nil, shared.WrapError("command", "RecomputeCohort", shared.ErrNotFound, "failed to load cohort roster", err)
	}
	if len(students) == 0 {
		return nil, shared.ErrCohortEmpty
	}

	log.Info("cohort recompute started",
		logger.GradYear(gradYear.Int()),
		logger.Cohort(len(students)),
		logger.Int("workers", cmd.Workers),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// Фаза 1: параллельный пер-студентный GPA.
	// ─────────────────────────────────────────────────────────────────────────
	data := h.computeGPAs(ctx, index, students, cmd, log)

	results := make(map[shared.StudentID]gpa.Result, len(data))
	failed := 0
	for id, d := range data {
		if d.err != nil {
			failed++
			continue
		}
		results[id] = d.gpa
	}

	if h.gpaCache != nil {
		// Кеш - best effort: ошибка не прерывает проход.
		if err := h.gpaCache.PutCohort(ctx, gradYear, results); err != nil {
			log.Warn("failed to cache cohort GPA map", logger.Err(err))
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// Фаза 2: точка синхронизации - ранжирование когорты.
	// ─────────────────────────────────────────────────────────────────────────
	entries := make([]rank.Entry, 0, len(results))
	for id, r := range results {
		entries = append(entries, rank.Entry{
			StudentID:       id,
			CoreWeightedGPA: r.CoreWeighted,
			CoreCourseCount: r.DistinctCoreCourses,
		})
	}
	ranks := rank.RankCohort(entries)

	// ─────────────────────────────────────────────────────────────────────────
	// Фаза 3: награды, диплом, вёрстка, сохранение.
	// ─────────────────────────────────────────────────────────────────────────
	summary := &RecomputeCohortResult{
		RunID:          runID,
		GraduationYear: gradYear.Int(),
		CohortSize:     len(students),
		Failed:         failed,
	}

	single := &ComputeStandingHandler{
		courseRepo:   h.courseRepo,
		gradeRepo:    h.gradeRepo,
		standingRepo: h.standingRepo,
		awardsCfg:    h.awardsCfg,
		layoutCfg:    h.layoutCfg,
		log:          h.log,
		now:          h.now,
	}

	for _, id := range students {
		d, ok := data[id]
		if !ok || d.err != nil {
			continue
		}

		var rankResult *rank.Result
		if r, ok := ranks[id]; ok {
			rankResult = &r
			if r.IsPartTime {
				summary.PartTime++
			} else {
				summary.Ranked++
			}
		}

		cmdOne := ComputeStandingCommand{
			StudentID:       id.Int64(),
			GraduationYear:  gradYear.Int(),
			TestScores:      cmd.TestScores[id.Int64()],
			APExamScores:    cmd.APExamScores[id.Int64()],
			APAwardCodes:    cmd.APAwardCodes[id.Int64()],
			Sports:          cmd.Sports[id.Int64()],
			RankResult:      rankResult,
			ExcludeTransfer: cmd.ExcludeTransfer,
			RunID:           runID,
		}
		st, err := single.compute(id, gradYear, index, d.records, d.transfers, cmdOne)
		if err != nil {
			summary.Failed++
			log.Error("standing assembly failed", logger.StudentID(id.Int64()), logger.Err(err))
			continue
		}
		summary.WarningCount += len(st.GPA.Warnings)

		if h.standingRepo != nil {
			if err := h.standingRepo.Upsert(ctx, st); err != nil {
				summary.Failed++
				log.Error("standing persist failed", logger.StudentID(id.Int64()), logger.Err(err))
			}
		}
	}

	summary.Elapsed = h.now().Sub(started)
	log.Info("cohort recompute finished",
		logger.GradYear(gradYear.Int()),
		logger.Int("ranked", summary.Ranked),
		logger.Int("part_time", summary.PartTime),
		logger.Int("failed", summary.Failed),
		logger.Latency(summary.Elapsed),
	)
	return summary, nil
}

// computeGPAs раздаёт студентов пулу воркеров. Индекс курсов разделяется
// между воркерами только на чтение, координация не требуется.
func (h *RecomputeCohortHandler) computeGPAs(
	ctx context.Context,
	index *course.Index,
	students []shared.StudentID,
	cmd RecomputeCohortCommand,
	log *logger.Logger,
) map[shared.StudentID]*studentData {
	calc := gpa.NewCalculator(index, h.log)
	opts := gpa.Options{IncludeTransfer: !cmd.ExcludeTransfer}

	jobs := make(chan shared.StudentID)
	var mu sync.Mutex
	data := make(map[shared.StudentID]*studentData, len(students))

	var wg sync.WaitGroup
	for w := 0; w < cmd.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range jobs {
				d := h.loadAndCompute(ctx, calc, id, opts)
				if d.err != nil {
					log.Error("student GPA failed", logger.StudentID(id.Int64()), logger.Err(d.err))
				}
				mu.Lock()
				data[id] = d
				mu.Unlock()
			}
		}()
	}

	for _, id := range students {
		select {
		case <-ctx.Done():
			// Недоставленные студенты попадут в failed-подсчёт.
			close(jobs)
			wg.Wait()
			return data
		case jobs <- id:
		}
	}
	close(jobs)
	wg.Wait()
	return data
}

// loadAndCompute загружает записи одного студента и считает его GPA.
func (h *RecomputeCohortHandler) loadAndCompute(
	ctx context.Context,
	calc *gpa.Calculator,
	id shared.StudentID,
	opts gpa.Options,
) *studentData {
	d := &studentData{id: id}

	d.records, d.err = h.gradeRepo.GetByStudent(ctx, id)
	if d.err != nil {
		return d
	}
	d.transfers, d.err = h.gradeRepo.GetTransfersByStudent(ctx, id)
	if d.err != nil {
		return d
	}
	d.gpa, d.err = calc.Compute(id, d.records, d.transfers, opts)
	return d
}
