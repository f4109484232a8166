// Package command contains write operations following CQRS pattern.
// Each command is a self-contained use case with its own request/response
// types; commands compute derived standings and persist them.
package command

import (
	"strings"
	"time"

	"github.com/keswick-hub/registrar-engine/internal/domain/course"
	"github.com/keswick-hub/registrar-engine/internal/domain/grades"
	"github.com/keswick-hub/registrar-engine/internal/domain/layout"
	"github.com/keswick-hub/registrar-engine/internal/domain/shared"
	"github.com/keswick-hub/registrar-engine/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONTENT ASSEMBLY HELPERS
// Общие функции сборки контента транскрипта: группировка записей по
// классам (9-12), подсчёт строк и разделителей для оценки плотности.
// ══════════════════════════════════════════════════════════════════════════════

// recordsByGradeLevel группирует записи по классу (9-12), в котором они
// были получены. Записи за пределами 9-12 отбрасываются.
func recordsByGradeLevel(records []grades.Record, gradYear shared.GraduationYear) map[int][]grades.Record {
	byGrade := map[int][]grades.Record{}
	for _, r := range records {
		grade := gradYear.GradeLevelFor(r.AcademicYear)
		if grade < 9 || grade > 12 {
			continue
		}
		byGrade[grade] = append(byGrade[grade], r)
	}
	return byGrade
}

// currentGradeLevel вычисляет текущий класс студента на момент now.
// После выпуска возвращает 12.
func currentGradeLevel(gradYear shared.GraduationYear, now time.Time) int {
	startYear := timeutil.AcademicYearStart(now)
	grade := timeutil.GradeLevelFor(gradYear.Int(), startYear)
	if grade > 12 {
		return 12
	}
	return grade
}

// rowTitle нормализует название курса в ключ печатной строки: honors-
// декорации и пробелы по краям убраны. Семестровые записи одного курса
// делят ключ и печатаются одной строкой с колонками семестров.
func rowTitle(title string) string {
	clean, _ := course.DetectHonorsTitle(title)
	return strings.TrimSpace(clean)
}

// buildPageContent собирает объёмы контента обеих страниц: страница 1 -
// классы 9-10 плюс зачтённые курсы средней школы, страница 2 - классы
// 11-12. Записи консолидируются в строки по (класс, название): курс,
// пройденный в оба семестра, занимает одну строку. Трансферные курсы
// печатаются строками на своей странице; каждая школа-источник
// дополнительно даёт один разделитель на каждый класс, где её записи
// встречаются.
func buildPageContent(
	records []grades.Record,
	transfers []grades.TransferRecord,
	index *course.Index,
	gradYear shared.GraduationYear,
) (page1, page2 layout.PageContent) {
	type rowKey struct {
		grade int
		title string
	}
	nativeRows := map[rowKey]bool{}
	middleSchoolRows := map[string]bool{}

	for _, r := range records {
		def, ok := index.Lookup(r.CourseCode)
		if !ok {
			continue
		}
		grade := gradYear.GradeLevelFor(r.AcademicYear)

		if !def.IsHighSchool() {
			if course.IsMiddleSchoolPrintable(r.CourseCode, r.CourseTitle) {
				middleSchoolRows[rowTitle(r.CourseTitle)] = true
			}
			continue
		}
		if grade < 9 || grade > 12 {
			continue
		}
		nativeRows[rowKey{grade: grade, title: rowTitle(r.CourseTitle)}] = true
	}

	page1.MiddleSchoolRows = len(middleSchoolRows)
	for key := range nativeRows {
		if key.grade <= 10 {
			page1.CourseRows++
		} else {
			page2.CourseRows++
		}
	}

	// Трансферные строки: уникальные тройки (класс, школа, название);
	// разделители: уникальные пары (класс, школа) с указанной школой.
	type transferKey struct {
		grade  int
		school string
		title  string
	}
	type dividerKey struct {
		grade  int
		school string
	}
	seenRows := map[transferKey]bool{}
	seenDividers := map[dividerKey]bool{}
	for _, t := range transfers {
		grade := gradYear.GradeLevelFor(t.AcademicYear)
		if grade < 9 || grade > 12 {
			continue
		}

		row := transferKey{grade: grade, school: t.SourceSchool, title: rowTitle(t.CourseTitle)}
		if !seenRows[row] {
			seenRows[row] = true
			if grade <= 10 {
				page1.CourseRows++
			} else {
				page2.CourseRows++
			}
		}

		if t.SourceSchool == "" {
			continue
		}
		div := dividerKey{grade: grade, school: t.SourceSchool}
		if !seenDividers[div] {
			seenDividers[div] = true
			if grade <= 10 {
				page1.TransferDividers++
			} else {
				page2.TransferDividers++
			}
		}
	}
	return page1, page2
}
