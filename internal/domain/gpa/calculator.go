package gpa

import (
	"math"
	"time"

	"github.com/keswick-hub/registrar-engine/internal/domain/course"
	"github.com/keswick-hub/registrar-engine/internal/domain/grades"
	"github.com/keswick-hub/registrar-engine/internal/domain/shared"
	"github.com/keswick-hub/registrar-engine/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// GPA CALCULATOR
// ══════════════════════════════════════════════════════════════════════════════

// Options controls a single GPA computation.
type Options struct {
	// IncludeTransfer merges transfer-origin records into the same sets
	// after grade normalization. Default true.
	IncludeTransfer bool
}

// DefaultOptions returns the standard computation options.
func DefaultOptions() Options {
	return Options{IncludeTransfer: true}
}

// Calculator computes GPA results against a shared read-only definition
// index. A single Calculator is safe for concurrent use across students.
type Calculator struct {
	index *course.Index
	log   *logger.Logger
}

// NewCalculator creates a Calculator.
func NewCalculator(index *course.Index, log *logger.Logger) *Calculator {
	if log == nil {
		log = logger.Default()
	}
	return &Calculator{index: index, log: log}
}

// joined is one record matched to its (possibly elevated) definition.
type joined struct {
	rec grades.Record
	def course.Definition
}

// Compute aggregates one student's records into a Result. Malformed input
// (a violated loader contract) is the only hard error; data gaps degrade
// to warnings on the Result.
func (c *Calculator) Compute(id shared.StudentID, records []grades.Record, transfers []grades.TransferRecord, opts Options) (Result, error) {
	result := Result{
		StudentID:        id,
		WeightedByTerm:   map[shared.TermKey]float64{},
		UnweightedByTerm: map[shared.TermKey]float64{},
		CoreByTerm:       map[shared.TermKey]float64{},
		ComputedAt:       time.Now().UTC(),
	}
	if !id.IsValid() {
		return Result{}, shared.ErrInvalidStudentID
	}

	all, core, err := c.assemble(&result, records, transfers, opts)
	if err != nil {
		return Result{}, err
	}

	result.Weighted, result.WeightedByTerm = c.average(all, true)
	result.Unweighted, result.UnweightedByTerm = c.average(all, false)
	result.CoreWeighted, result.CoreByTerm = c.average(core, true)
	result.CoreUnweighted, _ = c.average(core, false)

	result.CreditsEarned = roundTo(c.creditsEarned(all), 2)
	result.CreditsAttempted = roundTo(c.creditsAttempted(all), 2)

	distinctCore := map[shared.CourseCode]bool{}
	for _, j := range core {
		distinctCore[j.rec.CourseCode] = true
	}
	result.TotalCourses = len(all)
	result.CoreCourses = len(core)
	result.DistinctCoreCourses = len(distinctCore)
	for _, j := range all {
		if j.def.IsAP() {
			result.APCourses++
		} else if j.def.IsHonors() {
			result.HonorsCourses++
		}
	}

	c.log.Debug("gpa computed",
		logger.StudentID(id.Int64()),
		logger.GPAValue("weighted", result.Weighted),
		logger.GPAValue("core_weighted", result.CoreWeighted),
		logger.Int("warnings", len(result.Warnings)),
	)
	return result, nil
}

// assemble joins records to definitions, applies honors elevation, and
// partitions into the all/core sets.
func (c *Calculator) assemble(result *Result, records []grades.Record, transfers []grades.TransferRecord, opts Options) (all, core []joined, err error) {
	merged := make([]grades.Record, 0, len(records)+len(transfers))
	for _, r := range records {
		if err := r.Validate(); err != nil {
			return nil, nil, err
		}
		merged = append(merged, r)
	}
	if opts.IncludeTransfer {
		for _, t := range transfers {
			if err := t.Validate(); err != nil {
				return nil, nil, err
			}
			merged = append(merged, t.AsRecord())
		}
	}

	for _, r := range merged {
		def, ok := c.index.Lookup(r.CourseCode)
		if !ok {
			result.Warnings = append(result.Warnings,
				shared.Warnf("orphan_code", "no weight info for %s - %s", r.CourseCode, r.CourseTitle))
			c.log.Warn("course code not in weight index",
				logger.StudentID(r.StudentID.Int64()), logger.CourseCode(r.CourseCode.String()))
			continue
		}

		// Below-high-school courses never count.
		if !def.IsHighSchool() {
			continue
		}

		// Title-detected honors elevates standard-weight definitions only;
		// Elevated is a no-op for explicit honors and AP.
		if r.HonorsDetected {
			def = def.Elevated()
		}

		if !grades.IsKnown(r.RawGrade) {
			result.Warnings = append(result.Warnings,
				shared.Warnf("unknown_grade", "unknown grade format %q for %s", r.RawGrade, r.CourseCode))
			c.log.Warn("unknown grade token",
				logger.StudentID(r.StudentID.Int64()), logger.CourseCode(r.CourseCode.String()),
				logger.String("grade", r.RawGrade))
		}

		j := joined{rec: r, def: def}
		all = append(all, j)
		if def.Core {
			core = append(core, j)
		}
	}
	return all, core, nil
}

// semesterCredit resolves the credit one row contributes: the explicit
// override when positive, otherwise half the annual credit.
func semesterCredit(j joined) float64 {
	if j.rec.ExplicitCredit > 0 {
		return j.rec.ExplicitCredit.Float64()
	}
	return j.def.Credit.Half().Float64()
}

// average computes the cumulative GPA and per-term breakdown for a course
// set. Non-countable grades are absent from both sums: zero credit, not
// zero points. The cumulative value is re-derived from the running totals,
// never averaged over term averages.
func (c *Calculator) average(courses []joined, weighted bool) (float64, map[shared.TermKey]float64) {
	perTerm := map[shared.TermKey]float64{}
	if len(courses) == 0 {
		return 0, perTerm
	}

	type sums struct{ points, credits float64 }
	terms := map[shared.TermKey]*sums{}
	for _, j := range courses {
		pts, countable := grades.Points(j.rec.RawGrade)
		if !countable {
			continue
		}
		if weighted {
			pts += j.def.Weight
		}
		credit := semesterCredit(j)

		key := j.rec.TermKey()
		s := terms[key]
		if s == nil {
			s = &sums{}
			terms[key] = s
		}
		s.points += pts * credit
		s.credits += credit
	}

	var totalPoints, totalCredits float64
	for key, s := range terms {
		if s.credits <= 0 {
			continue
		}
		perTerm[key] = roundTo(s.points/s.credits, 3)
		totalPoints += s.points
		totalCredits += s.credits
	}
	if totalCredits <= 0 {
		return 0, perTerm
	}
	return totalPoints / totalCredits, perTerm
}

// creditsEarned sums semester credit for rows whose grade passes: an
// explicit pass marker, or a countable grade above 0.0 points. Blank,
// withdrawn, and incomplete rows earn nothing.
func (c *Calculator) creditsEarned(courses []joined) float64 {
	var total float64
	for _, j := range courses {
		if grades.IsPassing(j.rec.RawGrade) {
			total += semesterCredit(j)
		}
	}
	return total
}

// creditsAttempted sums semester credit for every non-blank known row,
// pass or fail.
func (c *Calculator) creditsAttempted(courses []joined) float64 {
	var total float64
	for _, j := range courses {
		grade := j.rec.RawGrade
		if grades.IsBlank(grade) || !grades.IsKnown(grade) {
			continue
		}
		total += semesterCredit(j)
	}
	return total
}

// roundTo rounds to the given number of decimal places.
func roundTo(v float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(v*factor) / factor
}
