package postgres

import (
	"context"
	"fmt"

	"github.com/keswick-hub/registrar-engine/internal/domain/course"
	"github.com/keswick-hub/registrar-engine/internal/domain/shared"
)

// CourseDefinitionRepository implements course.Repository for PostgreSQL.
// The course catalog is reference data: the repository only ever reads.
type CourseDefinitionRepository struct {
	conn *Connection
}

// NewCourseDefinitionRepository creates a new CourseDefinitionRepository.
func NewCourseDefinitionRepository(conn *Connection) *CourseDefinitionRepository {
	return &CourseDefinitionRepository{conn: conn}
}

// LoadIndex loads the full course catalog into an in-memory index.
// The index is built once per batch run and shared read-only across
// workers.
func (r *CourseDefinitionRepository) LoadIndex(ctx context.Context) (*course.Index, error) {
	query := `
		SELECT code, title, is_core, weight, annual_credit
		FROM course_definitions
		ORDER BY code
	`

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query course definitions: %w", err)
	}
	defer rows.Close()

	var defs []course.Definition
	for rows.Next() {
		var d course.Definition
		var code string
		var credit float64

		if err := rows.Scan(&code, &d.Title, &d.Core, &d.Weight, &credit); err != nil {
			return nil, fmt.Errorf("failed to scan course definition: %w", err)
		}
		d.Code = shared.CourseCode(code)
		d.Credit = shared.Credit(credit)
		defs = append(defs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read course definitions: %w", err)
	}

	return course.NewIndex(defs), nil
}
