package crm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayfinder-supply/wayfinder/internal/crm"
)

func TestProfileKnownUser(t *testing.T) {
	t.Parallel()

	p := crm.Profile("user_17")
	assert.Equal(t, "Dana Whitfield", p.Name)
	assert.Equal(t, "summit", p.LoyaltyTier)
	assert.NotEmpty(t, p.PurchaseHistory)
}

func TestProfileUnknownUserGetsDefault(t *testing.T) {
	t.Parallel()

	p := crm.Profile("user_9999")
	assert.Equal(t, "user_9999", p.UserID)
	assert.Equal(t, "Unknown User", p.Name)
	assert.Equal(t, "user_9999@example.com", p.Email)
	assert.Equal(t, "none", p.LoyaltyTier)
	assert.NotNil(t, p.PurchaseHistory)
	assert.NotNil(t, p.Preferences)
}

func TestConditionsExactAlias(t *testing.T) {
	t.Parallel()

	cond := crm.Conditions("yosemite", "2026-07-10")
	require.True(t, cond.Covered)
	assert.Equal(t, 1.0, cond.Confidence)
	assert.Equal(t, "summer", cond.Season)
	assert.Equal(t, "Yosemite National Park", cond.Location["name"])
	assert.Equal(t, "hot", cond.Weather)
	assert.NotEmpty(t, cond.Recommendations)
}

func TestConditionsFuzzyMatch(t *testing.T) {
	t.Parallel()

	cond := crm.Conditions("trip to the canadian rockies", "January 12")
	require.True(t, cond.Covered)
	assert.Equal(t, "banff", cond.Location["id"])
	assert.Equal(t, "winter", cond.Season)
	assert.Equal(t, "snow_possible", cond.RoadAlert)
}

func TestConditionsSouthernHemisphereSeasonFlip(t *testing.T) {
	t.Parallel()

	// January is summer below the equator.
	cond := crm.Conditions("torres del paine", "2026-01-05")
	require.True(t, cond.Covered)
	assert.Equal(t, "summer", cond.Season)
}

func TestConditionsMonthNameParsing(t *testing.T) {
	t.Parallel()

	cond := crm.Conditions("moab", "late October, flexible")
	require.True(t, cond.Covered)
	assert.Equal(t, "fall", cond.Season)
}

func TestConditionsUncoveredWithRegionalAlternatives(t *testing.T) {
	t.Parallel()

	cond := crm.Conditions("chamonix france", "2026-02-01")
	require.False(t, cond.Covered)
	assert.Equal(t, "Europe", cond.LikelyRegion)
	assert.Contains(t, cond.Message, "chamonix france")
	require.NotEmpty(t, cond.Alternatives)
	for _, alt := range cond.Alternatives {
		assert.Contains(t, []string{"swiss-alps", "scottish-highlands"}, alt.ID)
	}
}

func TestConditionsUncoveredFallsBackToPopular(t *testing.T) {
	t.Parallel()

	cond := crm.Conditions("xyzzyplughversa", "2026-02-01")
	require.False(t, cond.Covered)
	assert.Empty(t, cond.LikelyRegion)

	ids := make([]string, 0, len(cond.Alternatives))
	for _, alt := range cond.Alternatives {
		ids = append(ids, alt.ID)
	}
	assert.Contains(t, ids, "yosemite")
	assert.Contains(t, ids, "banff")
}

func TestConditionsExtremeHeatAdvisory(t *testing.T) {
	t.Parallel()

	cond := crm.Conditions("moab", "2026-07-15")
	require.True(t, cond.Covered)
	assert.Equal(t, "heat_advisory", cond.RoadAlert)
	assert.Contains(t, cond.Recommendations, "Carry extra water and sun protection")
}

func TestCoveredLocations(t *testing.T) {
	t.Parallel()

	locs := crm.CoveredLocations()
	require.NotEmpty(t, locs)
	for i := 1; i < len(locs); i++ {
		assert.Less(t, locs[i-1].ID, locs[i].ID)
	}
}
