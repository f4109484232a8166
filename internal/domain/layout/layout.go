// Package layout estimates transcript rendering density. The estimator
// converts year-grouped content volumes into an effective row score per
// page, decides single versus multi page, and picks the spacing tier the
// renderer should use. The scoring constants were tuned empirically
// against the production template and load from calibration, not code.
package layout

// ══════════════════════════════════════════════════════════════════════════════
// SPACING TIERS
// ══════════════════════════════════════════════════════════════════════════════

// Tier is a renderer spacing tier, from loosest to tightest.
type Tier string

const (
	TierComfortable  Tier = "comfortable"
	TierModerate     Tier = "moderate"
	TierUltraCompact Tier = "ultra-compact"
)

// compression orders tiers for the whole-document decision.
func (t Tier) compression() int {
	switch t {
	case TierComfortable:
		return 0
	case TierModerate:
		return 1
	default:
		return 2
	}
}

// MoreCompressed returns the tighter of two tiers.
func MoreCompressed(a, b Tier) Tier {
	if b.compression() > a.compression() {
		return b
	}
	return a
}

// ══════════════════════════════════════════════════════════════════════════════
// CALIBRATION
// ══════════════════════════════════════════════════════════════════════════════

// TierThresholds are the effective-score ceilings for the loose and
// middle tiers of one page profile; above Moderate is ultra-compact.
type TierThresholds struct {
	Comfortable float64 `yaml:"comfortable"`
	Moderate    float64 `yaml:"moderate"`
}

// classify buckets an effective score.
func (t TierThresholds) classify(effective float64) Tier {
	switch {
	case effective <= t.Comfortable:
		return TierComfortable
	case effective <= t.Moderate:
		return TierModerate
	default:
		return TierUltraCompact
	}
}

// Config holds the scoring constants. A page carrying the footer and
// signature block gets stricter thresholds than one without, which is
// why single-page and page-2 tables sit far below the page-1 table.
type Config struct {
	// AwardDivisor scales award lines to course-row height.
	AwardDivisor float64 `yaml:"award_divisor"`

	// DividerWeight is the course-row height of one transfer-school
	// divider (bold text, borders, padding).
	DividerWeight float64 `yaml:"divider_weight"`

	// OverflowGuard is the page-1 effective score above which a
	// provisional single-page layout is forced to multi-page.
	OverflowGuard float64 `yaml:"overflow_guard"`

	// SinglePageTiers applies to page 1 when it carries the footer.
	SinglePageTiers TierThresholds `yaml:"single_page_tiers"`

	// Page1Tiers applies to page 1 of a multi-page layout.
	Page1Tiers TierThresholds `yaml:"page1_tiers"`

	// Page2Tiers applies to page 2, which always carries the footer.
	Page2Tiers TierThresholds `yaml:"page2_tiers"`
}

// DefaultConfig returns the constants tuned against the production
// template.
func DefaultConfig() Config {
	return Config{
		AwardDivisor:    3.0,
		DividerWeight:   2.5,
		OverflowGuard:   10.5,
		SinglePageTiers: TierThresholds{Comfortable: 6, Moderate: 9},
		Page1Tiers:      TierThresholds{Comfortable: 22, Moderate: 26},
		Page2Tiers:      TierThresholds{Comfortable: 18, Moderate: 22},
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// ESTIMATION
// ══════════════════════════════════════════════════════════════════════════════

// PageContent is the content volume of one output page. Page 1 covers
// grades 9-10 plus any middle school credit rows; page 2 covers 11-12.
type PageContent struct {
	// CourseRows counts full-height course rows, dividers excluded.
	CourseRows int

	// MiddleSchoolRows counts high-school-credit middle school rows.
	// Only ever non-zero on page 1.
	MiddleSchoolRows int

	// TransferDividers counts distinct transfer-school divider blocks.
	TransferDividers int
}

// Metrics is the estimator verdict the renderer consumes.
type Metrics struct {
	// Page1Effective is page 1's effective content score.
	Page1Effective float64 `json:"page1_effective"`

	// Page2Effective is page 2's effective content score.
	Page2Effective float64 `json:"page2_effective"`

	// Page1Tier is page 1's individually computed spacing tier.
	Page1Tier Tier `json:"page1_tier"`

	// Page2Tier is page 2's individually computed spacing tier.
	Page2Tier Tier `json:"page2_tier"`

	// SpacingTier is the whole-document tier: the more compressed of
	// the two pages, so both fit.
	SpacingTier Tier `json:"spacing_tier"`

	// SinglePage reports the final layout decision, after the overflow
	// guard has had its say.
	SinglePage bool `json:"single_page"`

	// OverflowForced reports that the guard reclassified a provisional
	// single-page layout to multi-page.
	OverflowForced bool `json:"overflow_forced"`
}

// Estimator scores transcript content against one calibration.
type Estimator struct {
	cfg Config
}

// NewEstimator creates an Estimator. A zero-valued config falls back to
// the defaults so a missing calibration file degrades safely.
func NewEstimator(cfg Config) *Estimator {
	if cfg.AwardDivisor == 0 {
		cfg = DefaultConfig()
	}
	return &Estimator{cfg: cfg}
}

// Estimate scores both pages and selects the layout. The layout is
// provisionally single-page when page 2 has no course rows; awards are
// attributed entirely to the true final page. If the provisional
// single page exceeds the overflow guard the layout is forced to
// multi-page and both scores are recomputed under the new attribution.
func (e *Estimator) Estimate(page1, page2 PageContent, awardCount int) Metrics {
	singlePage := page2.CourseRows == 0
	overflowForced := false

	p1, p2 := e.score(page1, page2, awardCount, singlePage)
	if singlePage && p1 > e.cfg.OverflowGuard {
		singlePage = false
		overflowForced = true
		p1, p2 = e.score(page1, page2, awardCount, false)
	}

	var tier1 Tier
	if singlePage {
		tier1 = e.cfg.SinglePageTiers.classify(p1)
	} else {
		tier1 = e.cfg.Page1Tiers.classify(p1)
	}
	tier2 := e.cfg.Page2Tiers.classify(p2)

	return Metrics{
		Page1Effective: p1,
		Page2Effective: p2,
		Page1Tier:      tier1,
		Page2Tier:      tier2,
		SpacingTier:    MoreCompressed(tier1, tier2),
		SinglePage:     singlePage,
		OverflowForced: overflowForced,
	}
}

// score computes both pages' effective scores under one attribution.
// Awards land on whichever page carries the footer.
func (e *Estimator) score(page1, page2 PageContent, awardCount int, singlePage bool) (p1, p2 float64) {
	awardScore := float64(awardCount) / e.cfg.AwardDivisor

	p1 = float64(page1.CourseRows) +
		float64(page1.MiddleSchoolRows) +
		float64(page1.TransferDividers)*e.cfg.DividerWeight
	if singlePage {
		return p1 + awardScore, 0
	}

	p2 = float64(page2.CourseRows) +
		float64(page2.TransferDividers)*e.cfg.DividerWeight +
		awardScore
	return p1, p2
}
