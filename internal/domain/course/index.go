package course

import (
	"context"
	"sort"

	"github.com/keswick-hub/registrar-engine/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// COURSE DEFINITION INDEX
// ══════════════════════════════════════════════════════════════════════════════

// Index is the read-only course definition lookup shared by every
// calculation. It is built once per batch and safe for concurrent readers;
// nothing mutates it after construction.
type Index struct {
	byCode map[shared.CourseCode]Definition
}

// NewIndex builds an Index from a definition list. Later duplicates of the
// same code win, matching the SIS export convention that corrections are
// appended.
func NewIndex(defs []Definition) *Index {
	byCode := make(map[shared.CourseCode]Definition, len(defs))
	for _, d := range defs {
		if !d.Code.IsValid() {
			continue
		}
		byCode[d.Code] = d
	}
	return &Index{byCode: byCode}
}

// Lookup returns the definition for a course code.
func (i *Index) Lookup(code shared.CourseCode) (Definition, bool) {
	d, ok := i.byCode[code]
	return d, ok
}

// Len returns the number of definitions in the index.
func (i *Index) Len() int {
	return len(i.byCode)
}

// Codes returns all course codes in sorted order, for audit reports.
func (i *Index) Codes() []shared.CourseCode {
	codes := make([]shared.CourseCode, 0, len(i.byCode))
	for code := range i.byCode {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(a, b int) bool { return codes[a] < codes[b] })
	return codes
}

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACE
// ══════════════════════════════════════════════════════════════════════════════

// Repository loads course definitions from persistent storage.
// Implementations live in infrastructure/persistence.
type Repository interface {
	// LoadIndex loads the complete definition index.
	LoadIndex(ctx context.Context) (*Index, error)
}
