package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigCategories(t *testing.T) {
	cfg := DefaultConfig()

	require.Len(t, cfg.Categories, 7)
	for name, settings := range cfg.Categories {
		assert.Greater(t, settings.MaxPrice, settings.MinPrice, "category %s", name)
		assert.Greater(t, settings.CostPct, 0.0, "category %s", name)
		assert.Less(t, settings.Elasticity, 0.0, "category %s", name)
		assert.NotEmpty(t, settings.Dishes, "category %s", name)
	}

	coffee := cfg.Categories["coffee"]
	assert.Equal(t, 150, coffee.MinPrice)
	assert.Equal(t, 300, coffee.MaxPrice)
	assert.Equal(t, -1.2, coffee.Elasticity)

	assert.Equal(t, 30.0, cfg.PromoChance)
	assert.Equal(t, 60.0, cfg.LoyaltyChance)
	assert.Equal(t, 70.0, cfg.KnownCustomerChance)
}

func TestCategoryNamesSorted(t *testing.T) {
	cfg := DefaultConfig()
	names := cfg.CategoryNames()

	require.Len(t, names, len(cfg.Categories))
	for i := 1; i < len(names); i++ {
		assert.Less(t, names[i-1], names[i])
	}
}

func TestScaleCategoryPrices(t *testing.T) {
	cfg := DefaultConfig()
	before := cfg.Categories["coffee"]

	ok := cfg.ScaleCategoryPrices("coffee", 10)
	require.True(t, ok)

	after := cfg.Categories["coffee"]
	assert.Equal(t, 165, after.MinPrice)
	assert.Equal(t, 330, after.MaxPrice)
	assert.Equal(t, before.CostPct, after.CostPct)
	assert.Equal(t, before.Elasticity, after.Elasticity)
}

func TestScaleCategoryPricesUnknown(t *testing.T) {
	cfg := DefaultConfig()
	snapshot := cfg.Categories["coffee"]

	ok := cfg.ScaleCategoryPrices("sushi", 10)
	assert.False(t, ok)
	assert.Equal(t, snapshot, cfg.Categories["coffee"])
}

func TestBoostChancesClamp(t *testing.T) {
	cfg := DefaultConfig()

	cfg.PromoChance = 90
	cfg.BoostPromoChance(30)
	assert.Equal(t, 100.0, cfg.PromoChance)

	cfg.LoyaltyChance = 95
	cfg.BoostLoyaltyChance(20)
	assert.Equal(t, 100.0, cfg.LoyaltyChance)
}

func TestApplyFallbacks(t *testing.T) {
	cfg := &Config{}
	cfg.applyFallbacks()

	assert.Len(t, cfg.Categories, 7)
	assert.NotEmpty(t, cfg.AgeGroups)
	assert.NotEmpty(t, cfg.PeakHours)
	assert.False(t, cfg.StartDate.IsZero())
}
