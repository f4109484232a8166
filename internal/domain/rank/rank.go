// Package rank содержит движок классного ранжирования: continuous rank с
// обработкой ничьих, перцентили и децильную классификацию когорты.
// Ранжирование всегда выполняется внутри одного выпускного года и только
// после того, как GPA всех участников когорты уже вычислены.
package rank

import (
	"fmt"
	"math"
	"sort"

	"github.com/keswick-hub/registrar-engine/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// Rank представляет позицию студента в когорте. Rank начинается с 1;
// ноль означает "вне рейтинга" (part-time студент).
type Rank int

// Unranked - студент исключён из ранжирования.
const Unranked Rank = 0

// IsValid проверяет, что ранг положительный.
func (r Rank) IsValid() bool {
	return r > 0
}

// Int возвращает числовое значение ранга.
func (r Rank) Int() int {
	return int(r)
}

// String возвращает строковое представление ранга.
func (r Rank) String() string {
	if r == Unranked {
		return "—"
	}
	return fmt.Sprintf("#%d", int(r))
}

// TieEpsilon - порог, ниже которого два GPA считаются равными.
// Совпадает с точностью, с которой реестр публикует GPA.
const TieEpsilon = 0.001

// PartTimeCourseFloor - минимальное число различных CORE-курсов для
// включения в ранжирование. Студенты с меньшим числом классифицируются
// как part-time.
const PartTimeCourseFloor = 5

// ══════════════════════════════════════════════════════════════════════════════
// ENTRIES & RESULTS
// ══════════════════════════════════════════════════════════════════════════════

// Entry - входная запись одного студента для ранжирования.
type Entry struct {
	// StudentID - идентификатор студента.
	StudentID shared.StudentID

	// CoreWeightedGPA - CORE weighted GPA, по которому сортируется когорта.
	CoreWeightedGPA float64

	// CoreCourseCount - число различных CORE-курсов (для отсечения part-time).
	CoreCourseCount int
}

// Result - результат ранжирования одного студента. Значения валидны
// только в рамках того batch-прохода, в котором они вычислены.
type Result struct {
	// StudentID - идентификатор студента.
	StudentID shared.StudentID `json:"student_id"`

	// Rank - позиция (1-based, с учётом ничьих). 0 для part-time.
	Rank Rank `json:"rank"`

	// CohortSize - размер ранжируемой популяции (без part-time).
	CohortSize int `json:"cohort_size"`

	// Percentile - rank / cohort_size * 100.
	Percentile float64 `json:"percentile"`

	// Decile - название дециля ("1st Decile" ... "10th Decile", "Part-Time").
	Decile string `json:"decile"`

	// CoreWeightedGPA - GPA, по которому студент был ранжирован.
	CoreWeightedGPA float64 `json:"core_weighted_gpa"`

	// IsPartTime - студент исключён из ранжирования.
	IsPartTime bool `json:"is_part_time"`
}

// RankDisplay возвращает строку "15 of 190" для печати на транскрипте.
func (r Result) RankDisplay() string {
	if r.IsPartTime {
		return "Part-Time Student"
	}
	return fmt.Sprintf("%d of %d", r.Rank.Int(), r.CohortSize)
}

// PercentileDisplay возвращает строку вида "Top 10%".
func (r Result) PercentileDisplay() string {
	if r.IsPartTime {
		return "Part-Time Student"
	}
	switch {
	case r.Percentile <= 1:
		return "Top 1%"
	case r.Percentile <= 5:
		return "Top 5%"
	case r.Percentile <= 10:
		return "Top 10%"
	case r.Percentile <= 25:
		return "Top 25%"
	case r.Percentile <= 50:
		return "Top Half"
	default:
		return fmt.Sprintf("Top %d%%", int(r.Percentile))
	}
}

// Quartile возвращает квартильную классификацию.
func (r Result) Quartile() string {
	switch {
	case r.IsPartTime:
		return "Part-Time"
	case r.Percentile <= 25:
		return "1st Quartile (Top 25%)"
	case r.Percentile <= 50:
		return "2nd Quartile (Top 50%)"
	case r.Percentile <= 75:
		return "3rd Quartile"
	default:
		return "4th Quartile"
	}
}

// Quintile возвращает квинтильную классификацию.
func (r Result) Quintile() string {
	switch {
	case r.IsPartTime:
		return "Part-Time"
	case r.Percentile <= 20:
		return "1st Quintile (Top 20%)"
	case r.Percentile <= 40:
		return "2nd Quintile (Top 40%)"
	case r.Percentile <= 60:
		return "3rd Quintile"
	case r.Percentile <= 80:
		return "4th Quintile"
	default:
		return "5th Quintile"
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// RANKING ENGINE
// ══════════════════════════════════════════════════════════════════════════════

// RankCohort ранжирует одну когорту (один выпускной год) за один проход.
// Пустая когорта возвращает пустую map без деления на ноль.
func RankCohort(entries []Entry) map[shared.StudentID]Result {
	results := make(map[shared.StudentID]Result, len(entries))

	fullTime := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.CoreCourseCount < PartTimeCourseFloor {
			results[e.StudentID] = Result{
				StudentID:       e.StudentID,
				Rank:            Unranked,
				Decile:          "Part-Time",
				CoreWeightedGPA: e.CoreWeightedGPA,
				IsPartTime:      true,
			}
			continue
		}
		fullTime = append(fullTime, e)
	}
	if len(fullTime) == 0 {
		return results
	}

	// Сортировка по GPA по убыванию; при равенстве - по ID для
	// детерминированности порядка обхода.
	sort.SliceStable(fullTime, func(a, b int) bool {
		if fullTime[a].CoreWeightedGPA != fullTime[b].CoreWeightedGPA {
			return fullTime[a].CoreWeightedGPA > fullTime[b].CoreWeightedGPA
		}
		return fullTime[a].StudentID < fullTime[b].StudentID
	})

	cohortSize := len(fullTime)
	bins := DecileDistribution(cohortSize)

	// Competition ranking: равные GPA получают равный ранг, следующий
	// после блока ничьих ранг перескакивает на размер блока.
	currentRank := 1
	decileIdx := 0
	inCurrentDecile := 0

	for i, e := range fullTime {
		if i > 0 && math.Abs(e.CoreWeightedGPA-fullTime[i-1].CoreWeightedGPA) >= TieEpsilon {
			currentRank = i + 1
		}

		if inCurrentDecile >= bins[decileIdx] && decileIdx < 9 {
			decileIdx++
			inCurrentDecile = 0
		}

		results[e.StudentID] = Result{
			StudentID:       e.StudentID,
			Rank:            Rank(currentRank),
			CohortSize:      cohortSize,
			Percentile:      float64(currentRank) / float64(cohortSize) * 100,
			Decile:          decileName(decileIdx + 1),
			CoreWeightedGPA: e.CoreWeightedGPA,
		}
		inCurrentDecile++
	}

	// Part-time записи получают итоговый размер когорты для отображения.
	for id, r := range results {
		if r.IsPartTime {
			r.CohortSize = cohortSize
			results[id] = r
		}
	}
	return results
}

// DecileDistribution возвращает размеры десяти децильных корзин.
// База - cohortSize/10; остаток распределяется по верхним децилям,
// поэтому верхние корзины никогда не меньше нижних, а сумма корзин
// всегда равна размеру когорты.
//
// Для 43 студентов: [5 5 5 4 4 4 4 4 4 4].
// Для 37 студентов: [4 4 4 4 4 4 4 3 3 3].
func DecileDistribution(cohortSize int) [10]int {
	var bins [10]int
	if cohortSize <= 0 {
		return bins
	}
	base := cohortSize / 10
	remainder := cohortSize % 10
	for i := range bins {
		bins[i] = base
		if i < remainder {
			bins[i]++
		}
	}
	return bins
}

// decileName форматирует номер дециля с порядковым суффиксом.
func decileName(n int) string {
	switch n {
	case 1:
		return "1st Decile"
	case 2:
		return "2nd Decile"
	case 3:
		return "3rd Decile"
	default:
		return fmt.Sprintf("%dth Decile", n)
	}
}

// TopStudents возвращает первых n студентов когорты по рангу.
func TopStudents(results map[shared.StudentID]Result, n int) []Result {
	ranked := make([]Result, 0, len(results))
	for _, r := range results {
		if !r.IsPartTime {
			ranked = append(ranked, r)
		}
	}
	sort.Slice(ranked, func(a, b int) bool {
		if ranked[a].Rank != ranked[b].Rank {
			return ranked[a].Rank < ranked[b].Rank
		}
		return ranked[a].StudentID < ranked[b].StudentID
	})
	if n > len(ranked) {
		n = len(ranked)
	}
	return ranked[:n]
}
