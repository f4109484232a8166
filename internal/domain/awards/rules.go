package awards

import (
	"fmt"
	"math"
	"sort"

	"github.com/keswick-hub/registrar-engine/internal/domain/course"
	"github.com/keswick-hub/registrar-engine/internal/domain/grades"
	"github.com/keswick-hub/registrar-engine/internal/domain/rank"
	"github.com/keswick-hub/registrar-engine/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// PRINCIPAL'S LIST
// ══════════════════════════════════════════════════════════════════════════════

// PrincipalsListGPAFloor is the CORE weighted term GPA above which a
// non-straight-A term still qualifies.
const PrincipalsListGPAFloor = 4.4

// PrincipalsList awards one Principal's List entry per qualifying term.
// A term qualifies when every graded course is A-level, or when the CORE
// weighted GPA for that term alone exceeds the floor. Records that do not
// join the index are skipped the same way the GPA calculator skips them.
func PrincipalsList(records []grades.Record, index *course.Index) []Award {
	type termStats struct {
		year         shared.AcademicYear
		semester     shared.Semester
		graded       int
		allA         bool
		corePoints   float64
		coreCredits  float64
	}

	terms := map[shared.TermKey]*termStats{}
	for _, r := range records {
		def, ok := index.Lookup(r.CourseCode)
		if !ok || !def.IsHighSchool() {
			continue
		}
		if r.HonorsDetected {
			def = def.Elevated()
		}

		pts, countable := grades.Points(r.RawGrade)
		if !countable {
			continue
		}

		key := r.TermKey()
		t := terms[key]
		if t == nil {
			t = &termStats{year: r.AcademicYear, semester: r.Semester, allA: true}
			terms[key] = t
		}
		t.graded++
		if pts < 4.0 {
			t.allA = false
		}
		if def.Core {
			credit := def.Credit.Half().Float64()
			if r.ExplicitCredit > 0 {
				credit = r.ExplicitCredit.Float64()
			}
			t.corePoints += (pts + def.Weight) * credit
			t.coreCredits += credit
		}
	}

	keys := make([]shared.TermKey, 0, len(terms))
	for key := range terms {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(a, b int) bool { return keys[a] < keys[b] })

	var out []Award
	for _, key := range keys {
		t := terms[key]
		if t.graded == 0 {
			continue
		}
		semesterLabel := fmt.Sprintf("Semester %d", int(t.semester))

		if t.allA {
			out = append(out, Award{
				Name:     "Principal's List",
				Category: CategoryAcademic,
				Year:     t.year,
				Semester: semesterLabel,
				Detail:   "Unweighted 4.0 GPA",
			})
			continue
		}
		if t.coreCredits > 0 {
			coreGPA := t.corePoints / t.coreCredits
			if coreGPA > PrincipalsListGPAFloor {
				out = append(out, Award{
					Name:     "Principal's List",
					Category: CategoryAcademic,
					Year:     t.year,
					Semester: semesterLabel,
					Detail:   fmt.Sprintf("CORE Weighted %.2f", coreGPA),
				})
			}
		}
	}
	return out
}

// ══════════════════════════════════════════════════════════════════════════════
// AP SCHOLAR FAMILY
// ══════════════════════════════════════════════════════════════════════════════

// QualifyingAPScore is the minimum exam score that counts toward the AP
// Scholar exam count.
const QualifyingAPScore = 3

// ScholarTier is one configurable AP Scholar tier.
type ScholarTier struct {
	// Name is the award title for this tier.
	Name string `yaml:"name" json:"name"`

	// MinExams is the minimum count of qualifying exam scores.
	MinExams int `yaml:"min_exams" json:"min_exams"`

	// MinAvg is the minimum average across all exams taken.
	MinAvg float64 `yaml:"min_avg" json:"min_avg"`
}

// DefaultScholarTiers returns the institutional AP Scholar table,
// most stringent first.
func DefaultScholarTiers() []ScholarTier {
	return []ScholarTier{
		{Name: "AP Scholar with Distinction", MinExams: 5, MinAvg: 3.5},
		{Name: "AP Scholar with Honor", MinExams: 4, MinAvg: 3.25},
		{Name: "AP Scholar", MinExams: 3, MinAvg: 0},
	}
}

// APScholar evaluates exam scores against the tier table in order and
// returns the first tier matched, or nothing. Tiers must arrive in
// descending stringency; the caller owns the table.
func APScholar(examScores []int, tiers []ScholarTier) []Award {
	if len(examScores) == 0 {
		return nil
	}

	qualifying := 0
	total := 0
	for _, score := range examScores {
		total += score
		if score >= QualifyingAPScore {
			qualifying++
		}
	}
	avg := float64(total) / float64(len(examScores))

	for _, tier := range tiers {
		if qualifying >= tier.MinExams && avg >= tier.MinAvg {
			return []Award{{
				Name:     tier.Name,
				Category: CategoryAP,
				Detail:   fmt.Sprintf("%d qualifying exams, %.2f average", qualifying, avg),
			}}
		}
	}
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// RANK-BASED ACSI HONORS
// ══════════════════════════════════════════════════════════════════════════════

// RankHonorsConfig holds the thresholds for rank-based recognition. Each
// honor requires both its rank condition and its GPA floor.
type RankHonorsConfig struct {
	// ValedictorianGPAFloor applies to rank 1.
	ValedictorianGPAFloor float64 `yaml:"valedictorian_gpa_floor"`

	// SalutatorianGPAFloor applies to rank 2.
	SalutatorianGPAFloor float64 `yaml:"salutatorian_gpa_floor"`

	// DistinguishedPercentile is the percentile cutoff for the
	// Distinguished Christian High School Student recognition.
	DistinguishedPercentile float64 `yaml:"distinguished_percentile"`

	// DistinguishedGPAFloor pairs with the percentile cutoff.
	DistinguishedGPAFloor float64 `yaml:"distinguished_gpa_floor"`
}

// DefaultRankHonorsConfig returns the ACSI thresholds.
func DefaultRankHonorsConfig() RankHonorsConfig {
	return RankHonorsConfig{
		ValedictorianGPAFloor:   4.0,
		SalutatorianGPAFloor:    4.0,
		DistinguishedPercentile: 10,
		DistinguishedGPAFloor:   3.5,
	}
}

// RankHonors emits ACSI honors for a ranked student. Part-time students
// are never eligible. Valedictorian and salutatorian are mutually
// exclusive; the distinguished-student recognition stacks on top.
func RankHonors(r rank.Result, cfg RankHonorsConfig) []Award {
	if r.IsPartTime || !r.Rank.IsValid() {
		return nil
	}

	var out []Award
	switch {
	case r.Rank == 1 && r.CoreWeightedGPA >= cfg.ValedictorianGPAFloor:
		out = append(out, Award{
			Name:     "ACSI Valedictorian",
			Category: CategoryACSI,
			Detail:   "Rank #1",
		})
	case r.Rank == 2 && r.CoreWeightedGPA >= cfg.SalutatorianGPAFloor:
		out = append(out, Award{
			Name:     "ACSI Salutatorian",
			Category: CategoryACSI,
			Detail:   "Rank #2",
		})
	}

	if r.Percentile <= cfg.DistinguishedPercentile && r.CoreWeightedGPA >= cfg.DistinguishedGPAFloor {
		out = append(out, Award{
			Name:     "ACSI DCHSS",
			Category: CategoryACSI,
			Detail:   "Distinguished Christian High School Student",
		})
	}
	return out
}

// ══════════════════════════════════════════════════════════════════════════════
// NMSQT RECOGNITION
// ══════════════════════════════════════════════════════════════════════════════

// PSAT score scale bounds for the selection index transform.
const (
	psatMaxScore      = 1520
	selectionIndexMax = 228
)

// NMSQTConfig holds the selection index cutoffs. The real cutoffs vary
// by year and state; these are the candidate-screening values.
type NMSQTConfig struct {
	// MinScore is the PSAT floor below which no recognition is checked.
	MinScore int `yaml:"min_score"`

	// CommendedCutoff is the selection index for commended candidates.
	CommendedCutoff int `yaml:"commended_cutoff"`

	// SemifinalistCutoff is the selection index for semifinalist candidates.
	SemifinalistCutoff int `yaml:"semifinalist_cutoff"`
}

// DefaultNMSQTConfig returns the screening cutoffs.
func DefaultNMSQTConfig() NMSQTConfig {
	return NMSQTConfig{MinScore: 1400, CommendedCutoff: 207, SemifinalistCutoff: 212}
}

// SelectionIndex transforms a PSAT total score onto the NMSQT selection
// index scale.
func SelectionIndex(psat int) int {
	return int(math.Floor(float64(psat) / psatMaxScore * selectionIndexMax))
}

// TestRecognition buckets a PSAT score into NMSQT candidate recognition.
// An out-of-range score is the one truly malformed input an award rule
// can see and returns a hard error for the driver to absorb.
func TestRecognition(psat int, cfg NMSQTConfig) ([]Award, error) {
	if psat < 0 || psat > psatMaxScore {
		return nil, shared.NewDomainError("awards", "TestRecognition",
			shared.ErrInvalidTestScore, fmt.Sprintf("PSAT score %d outside 0-%d", psat, psatMaxScore))
	}
	if psat < cfg.MinScore {
		return nil, nil
	}

	index := SelectionIndex(psat)
	switch {
	case index >= cfg.SemifinalistCutoff:
		return []Award{{
			Name:     "NMSQT Semifinalist Candidate",
			Category: CategoryTesting,
			Detail:   fmt.Sprintf("PSAT %d", psat),
		}}, nil
	case index >= cfg.CommendedCutoff:
		return []Award{{
			Name:     "NMSQT Commended Student Candidate",
			Category: CategoryTesting,
			Detail:   fmt.Sprintf("PSAT %d", psat),
		}}, nil
	}
	return nil, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// ATHLETIC DISTINCTIONS
// ══════════════════════════════════════════════════════════════════════════════

// SportParticipation is one season of one sport, as exported from the
// athletics roster.
type SportParticipation struct {
	// Sport is the raw roster title ("Swimming - Varsity Boys & Girls").
	Sport string

	// Year is the school year of participation.
	Year shared.AcademicYear

	// Season is the roster season label ("Fall", "Winter", "Spring").
	Season string
}

// AthleticDistinctions converts sport participations into athletic
// awards, normalized names, ordered by year then season.
func AthleticDistinctions(participations []SportParticipation) []Award {
	sorted := make([]SportParticipation, len(participations))
	copy(sorted, participations)
	sort.SliceStable(sorted, func(a, b int) bool {
		if sorted[a].Year != sorted[b].Year {
			return sorted[a].Year < sorted[b].Year
		}
		return SeasonSortOrder(sorted[a].Season) < SeasonSortOrder(sorted[b].Season)
	})

	out := make([]Award, 0, len(sorted))
	for _, p := range sorted {
		name := NormalizeSportName(p.Sport)
		if name == "" {
			continue
		}
		out = append(out, Award{
			Name:     name,
			Category: CategoryAthletic,
			Year:     p.Year,
			Semester: p.Season,
		})
	}
	return out
}
