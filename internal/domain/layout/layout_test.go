package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMoreCompressed(t *testing.T) {
	assert.Equal(t, TierModerate, MoreCompressed(TierComfortable, TierModerate))
	assert.Equal(t, TierUltraCompact, MoreCompressed(TierUltraCompact, TierModerate))
	assert.Equal(t, TierComfortable, MoreCompressed(TierComfortable, TierComfortable))
}

func TestTierThresholds_Classify(t *testing.T) {
	thresholds := TierThresholds{Comfortable: 6, Moderate: 9}

	assert.Equal(t, TierComfortable, thresholds.classify(5.9))
	assert.Equal(t, TierComfortable, thresholds.classify(6.0)) // inclusive ceiling
	assert.Equal(t, TierModerate, thresholds.classify(6.1))
	assert.Equal(t, TierModerate, thresholds.classify(9.0))
	assert.Equal(t, TierUltraCompact, thresholds.classify(9.1))
}

func TestEstimate_SinglePage(t *testing.T) {
	est := NewEstimator(DefaultConfig())

	m := est.Estimate(PageContent{CourseRows: 4}, PageContent{}, 3)

	assert.True(t, m.SinglePage)
	assert.False(t, m.OverflowForced)
	// 4 course rows + 3 awards / 3.0
	assert.Equal(t, 5.0, m.Page1Effective)
	assert.Equal(t, 0.0, m.Page2Effective)
	assert.Equal(t, TierComfortable, m.Page1Tier)
	assert.Equal(t, TierComfortable, m.SpacingTier)
}

func TestEstimate_SinglePageTierLadder(t *testing.T) {
	est := NewEstimator(DefaultConfig())

	moderate := est.Estimate(PageContent{CourseRows: 8}, PageContent{}, 0)
	assert.True(t, moderate.SinglePage)
	assert.Equal(t, TierModerate, moderate.Page1Tier)

	tight := est.Estimate(PageContent{CourseRows: 10}, PageContent{}, 0)
	assert.True(t, tight.SinglePage)
	assert.Equal(t, TierUltraCompact, tight.Page1Tier)
}

func TestEstimate_OverflowGuardForcesMultiPage(t *testing.T) {
	est := NewEstimator(DefaultConfig())

	// 11 rows exceed the 10.5 guard even though page 2 is empty.
	m := est.Estimate(PageContent{CourseRows: 11}, PageContent{}, 6)

	assert.False(t, m.SinglePage)
	assert.True(t, m.OverflowForced)
	// Recomputed under multi-page attribution: awards move to page 2.
	assert.Equal(t, 11.0, m.Page1Effective)
	assert.Equal(t, 2.0, m.Page2Effective)
	assert.Equal(t, TierComfortable, m.Page1Tier) // page-1 table is far looser
}

func TestEstimate_GuardBoundary(t *testing.T) {
	est := NewEstimator(DefaultConfig())

	// Exactly at the guard stays single-page; the guard is exclusive.
	m := est.Estimate(PageContent{CourseRows: 9}, PageContent{TransferDividers: 1}, 3)
	assert.True(t, m.SinglePage)
	assert.Equal(t, 10.0, m.Page1Effective)
	assert.False(t, m.OverflowForced)
}

func TestEstimate_MultiPageAttribution(t *testing.T) {
	est := NewEstimator(DefaultConfig())

	m := est.Estimate(
		PageContent{CourseRows: 18, MiddleSchoolRows: 2, TransferDividers: 1},
		PageContent{CourseRows: 14, TransferDividers: 1},
		9,
	)

	assert.False(t, m.SinglePage)
	// 18 + 2 + 1*2.5; awards never land on page 1 of a multi-page layout.
	assert.Equal(t, 22.5, m.Page1Effective)
	// 14 + 2.5 + 9/3
	assert.Equal(t, 19.5, m.Page2Effective)
	assert.Equal(t, TierModerate, m.Page1Tier)
	assert.Equal(t, TierModerate, m.Page2Tier)
	assert.Equal(t, TierModerate, m.SpacingTier)
}

func TestEstimate_DocumentTierIsTighterPage(t *testing.T) {
	est := NewEstimator(DefaultConfig())

	m := est.Estimate(
		PageContent{CourseRows: 10},
		PageContent{CourseRows: 21, TransferDividers: 1},
		3,
	)

	assert.Equal(t, TierComfortable, m.Page1Tier)
	// 21 + 2.5 + 1 = 24.5, above the page-2 moderate ceiling of 22.
	assert.Equal(t, TierUltraCompact, m.Page2Tier)
	assert.Equal(t, TierUltraCompact, m.SpacingTier)
}

func TestNewEstimator_ZeroConfigFallsBack(t *testing.T) {
	est := NewEstimator(Config{})

	m := est.Estimate(PageContent{CourseRows: 11}, PageContent{}, 0)
	assert.True(t, m.OverflowForced) // default guard of 10.5 applied
}

func TestEstimate_EmptyTranscript(t *testing.T) {
	est := NewEstimator(DefaultConfig())

	m := est.Estimate(PageContent{}, PageContent{}, 0)
	assert.True(t, m.SinglePage)
	assert.Equal(t, 0.0, m.Page1Effective)
	assert.Equal(t, TierComfortable, m.SpacingTier)
}
