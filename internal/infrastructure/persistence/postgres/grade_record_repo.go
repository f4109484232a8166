package postgres

import (
	"context"
	"fmt"

	"github.com/keswick-hub/registrar-engine/internal/domain/grades"
	"github.com/keswick-hub/registrar-engine/internal/domain/shared"
)

// GradeRecordRepository implements grades.Repository for PostgreSQL.
// Grade and transfer rows are loaded by the upstream SIS importer; the
// engine only reads them.
type GradeRecordRepository struct {
	conn *Connection
}

// NewGradeRecordRepository creates a new GradeRecordRepository.
func NewGradeRecordRepository(conn *Connection) *GradeRecordRepository {
	return &GradeRecordRepository{conn: conn}
}

// GetByStudent returns the native grade records for one student, oldest
// term first.
func (r *GradeRecordRepository) GetByStudent(ctx context.Context, id shared.StudentID) ([]grades.Record, error) {
	query := `
		SELECT student_id, academic_year, semester, course_code, course_title,
		       raw_grade, explicit_credit, honors_detected
		FROM grade_records
		WHERE student_id = $1
		ORDER BY academic_year, semester, course_code
	`

	rows, err := r.conn.Query(ctx, query, id.Int64())
	if err != nil {
		return nil, fmt.Errorf("failed to query grade records: %w", err)
	}
	defer rows.Close()

	var records []grades.Record
	for rows.Next() {
		var rec grades.Record
		var studentID int64
		var year, code string
		var semester int
		var credit float64

		err := rows.Scan(
			&studentID,
			&year,
			&semester,
			&code,
			&rec.CourseTitle,
			&rec.RawGrade,
			&credit,
			&rec.HonorsDetected,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan grade record: %w", err)
		}

		rec.StudentID = shared.StudentID(studentID)
		rec.AcademicYear = shared.AcademicYear(year)
		rec.Semester = shared.Semester(semester)
		rec.CourseCode = shared.CourseCode(code)
		rec.ExplicitCredit = shared.Credit(credit)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// GetTransfersByStudent returns the transfer records for one student.
func (r *GradeRecordRepository) GetTransfersByStudent(ctx context.Context, id shared.StudentID) ([]grades.TransferRecord, error) {
	query := `
		SELECT student_id, academic_year, course_code, course_title,
		       raw_grade, credits_attempted, source_school
		FROM transfer_records
		WHERE student_id = $1
		ORDER BY academic_year, course_code
	`

	rows, err := r.conn.Query(ctx, query, id.Int64())
	if err != nil {
		return nil, fmt.Errorf("failed to query transfer records: %w", err)
	}
	defer rows.Close()

	var records []grades.TransferRecord
	for rows.Next() {
		var rec grades.TransferRecord
		var studentID int64
		var year, code string
		var credits float64

		err := rows.Scan(
			&studentID,
			&year,
			&code,
			&rec.CourseTitle,
			&rec.RawGrade,
			&credits,
			&rec.SourceSchool,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transfer record: %w", err)
		}

		rec.StudentID = shared.StudentID(studentID)
		rec.AcademicYear = shared.AcademicYear(year)
		rec.CourseCode = shared.CourseCode(code)
		rec.CreditsAttempted = shared.Credit(credits)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// GetStudentsByGraduationYear returns the distinct student IDs of one
// graduating cohort, in ID order for deterministic batch iteration.
func (r *GradeRecordRepository) GetStudentsByGraduationYear(ctx context.Context, year shared.GraduationYear) ([]shared.StudentID, error) {
	query := `
		SELECT DISTINCT student_id
		FROM grade_records
		WHERE graduation_year = $1
		ORDER BY student_id
	`

	rows, err := r.conn.Query(ctx, query, year.Int())
	if err != nil {
		return nil, fmt.Errorf("failed to query cohort roster: %w", err)
	}
	defer rows.Close()

	var ids []shared.StudentID
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan student ID: %w", err)
		}
		ids = append(ids, shared.StudentID(id))
	}
	return ids, rows.Err()
}
