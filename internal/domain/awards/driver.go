package awards

import (
	"fmt"
	"time"

	"github.com/keswick-hub/registrar-engine/internal/domain/course"
	"github.com/keswick-hub/registrar-engine/internal/domain/grades"
	"github.com/keswick-hub/registrar-engine/internal/domain/rank"
	"github.com/keswick-hub/registrar-engine/internal/domain/shared"
	"github.com/keswick-hub/registrar-engine/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// RULE DRIVER
// ══════════════════════════════════════════════════════════════════════════════

// Config bundles the tunable rule tables.
type Config struct {
	ScholarTiers []ScholarTier    `yaml:"scholar_tiers"`
	RankHonors   RankHonorsConfig `yaml:"rank_honors"`
	NMSQT        NMSQTConfig      `yaml:"nmsqt"`
}

// DefaultConfig returns the institutional defaults for every rule table.
func DefaultConfig() Config {
	return Config{
		ScholarTiers: DefaultScholarTiers(),
		RankHonors:   DefaultRankHonorsConfig(),
		NMSQT:        DefaultNMSQTConfig(),
	}
}

// Input is everything the full rule set can consume for one student.
// Optional sections are nil/zero when the upstream source has no data;
// the corresponding rules are then skipped, not failed.
type Input struct {
	// StudentID identifies the student in rule failure logs.
	StudentID shared.StudentID

	// Records are the student's graded course records.
	Records []grades.Record

	// RankResult is set once cohort ranking has run.
	RankResult *rank.Result

	// APExamScores are the student's AP exam scores (1-5), when reported.
	APExamScores []int

	// APAwardCodes are College Board-reported award rows from the AP
	// score export, when present.
	APAwardCodes []ReportedAPAward

	// TestScores maps test name to raw score ("PSAT" drives NMSQT).
	TestScores map[string]int

	// Sports are the athletics roster rows for the student.
	Sports []SportParticipation
}

// Driver composes the award rules. One rule failing — error or panic —
// is logged and skipped; the remaining rules still run and the partial
// award list is returned.
type Driver struct {
	index *course.Index
	cfg   Config
	log   *logger.Logger
}

// NewDriver creates a Driver over a shared read-only definition index.
func NewDriver(index *course.Index, cfg Config, log *logger.Logger) *Driver {
	if log == nil {
		log = logger.Default()
	}
	if len(cfg.ScholarTiers) == 0 {
		cfg.ScholarTiers = DefaultScholarTiers()
	}
	return &Driver{index: index, cfg: cfg, log: log}
}

// CalculateAll runs every applicable rule and accumulates the results.
func (d *Driver) CalculateAll(in Input) []Award {
	var all []Award

	d.runRule(in.StudentID, "principals_list", &all, func() ([]Award, error) {
		return PrincipalsList(in.Records, d.index), nil
	})

	if len(in.APExamScores) > 0 {
		d.runRule(in.StudentID, "ap_scholar", &all, func() ([]Award, error) {
			return APScholar(in.APExamScores, d.cfg.ScholarTiers), nil
		})
	}

	if len(in.APAwardCodes) > 0 {
		d.runRule(in.StudentID, "ap_reported", &all, func() ([]Award, error) {
			return ReportedAPAwards(in.APAwardCodes), nil
		})
	}

	if in.RankResult != nil {
		d.runRule(in.StudentID, "rank_honors", &all, func() ([]Award, error) {
			return RankHonors(*in.RankResult, d.cfg.RankHonors), nil
		})
	}

	if psat, ok := in.TestScores["PSAT"]; ok {
		d.runRule(in.StudentID, "nmsqt", &all, func() ([]Award, error) {
			return TestRecognition(psat, d.cfg.NMSQT)
		})
	} else if len(in.TestScores) > 0 {
		d.log.Debug("no PSAT score reported, skipping NMSQT",
			logger.StudentID(in.StudentID.Int64()))
	}

	if len(in.Sports) > 0 {
		d.runRule(in.StudentID, "athletics", &all, func() ([]Award, error) {
			return AthleticDistinctions(in.Sports), nil
		})
	}

	return all
}

// Designation wraps DiplomaDesignation with the same failure absorption
// as the award rules: a rule failure degrades to the standard tier.
func (d *Driver) Designation(recordsByGrade map[int][]grades.Record, currentGrade int, gradYear shared.GraduationYear, now time.Time) (designation string) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("diploma designation rule panicked",
				logger.String("panic", fmt.Sprint(r)))
			designation = DiplomaStandard
		}
	}()
	return DiplomaDesignation(recordsByGrade, d.index, currentGrade, gradYear, now)
}

// runRule executes one rule, recovering panics and logging failures so a
// single bad rule never aborts the rest.
func (d *Driver) runRule(id shared.StudentID, name string, acc *[]Award, fn func() ([]Award, error)) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("award rule panicked",
				logger.StudentID(id.Int64()),
				logger.String("rule", name),
				logger.String("panic", fmt.Sprint(r)))
		}
	}()

	awards, err := fn()
	if err != nil {
		d.log.Warn("award rule failed",
			logger.StudentID(id.Int64()),
			logger.String("rule", name),
			logger.Err(err))
		return
	}
	*acc = append(*acc, awards...)
}
