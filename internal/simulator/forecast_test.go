package simulator

import (
	"math/rand"
	"testing"
	"time"

	"github.com/cafesim-io/cafedatasim/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newModel(t *testing.T, history []models.Transaction, seed int64) *ForecastModel {
	t.Helper()
	return NewForecastModel(models.DefaultConfig(), history, rand.New(rand.NewSource(seed)))
}

func TestForecastUntrainedDefaults(t *testing.T) {
	m := newModel(t, nil, 1)
	start := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC) // a Monday

	rows := m.ForecastFrom(start, 7, models.ChangeSummary{})
	require.Len(t, rows, 7)

	assert.Equal(t, "Mon", rows[0].WeekDay)
	assert.Equal(t, "Sun", rows[6].WeekDay)
	for i, row := range rows {
		assert.Equal(t, i+1, row.Day)
		// base 10000 with at most 15% jitter either way
		assert.GreaterOrEqual(t, row.PredictedProfit, 8500.0)
		assert.LessOrEqual(t, row.PredictedProfit, 11500.0)
		assert.Equal(t, int(row.PredictedProfit/200), row.PredictedCustomers)
		assert.InDelta(t, row.PredictedProfit/0.3, row.PredictedRevenue, 1e-9)
	}
}

func TestForecastPromoEffectCapped(t *testing.T) {
	start := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	base := newModel(t, nil, 42).ForecastFrom(start, 10, models.ChangeSummary{})
	promo := newModel(t, nil, 42).ForecastFrom(start, 10, models.ChangeSummary{PromoIncrease: 10})

	// 10 points would give +150%; the cap holds it at +50%
	for i := range base {
		assert.InDelta(t, base[i].PredictedProfit*1.5, promo[i].PredictedProfit, 1e-6)
	}
}

func TestForecastNewCustomersEffect(t *testing.T) {
	start := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	base := newModel(t, nil, 42).ForecastFrom(start, 10, models.ChangeSummary{})
	grown := newModel(t, nil, 42).ForecastFrom(start, 10, models.ChangeSummary{NewCustomersPct: 10})

	for i := range base {
		assert.InDelta(t, base[i].PredictedProfit*1.08, grown[i].PredictedProfit, 1e-6)
	}
}

func TestForecastIgnoresUntrainedCategories(t *testing.T) {
	start := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	changes := models.ChangeSummary{PriceChanges: map[string]float64{"coffee": 10}}

	base := newModel(t, nil, 42).ForecastFrom(start, 5, models.ChangeSummary{})
	priced := newModel(t, nil, 42).ForecastFrom(start, 5, changes)

	// the model never saw coffee, so the price change is a no-op
	for i := range base {
		assert.InDelta(t, base[i].PredictedProfit, priced[i].PredictedProfit, 1e-9)
	}
}

func TestForecastPriceChangeElasticity(t *testing.T) {
	history := []models.Transaction{
		{Timestamp: day(1), Category: "coffee", Quantity: 1, Profit: 100},
		{Timestamp: day(2), Category: "coffee", Quantity: 2, Profit: 200},
	}
	start := time.Date(2024, 4, 3, 0, 0, 0, 0, time.UTC) // neither training weekday
	changes := models.ChangeSummary{PriceChanges: map[string]float64{"coffee": 10}}

	base := newModel(t, history, 42).ForecastFrom(start, 1, models.ChangeSummary{})
	priced := newModel(t, history, 42).ForecastFrom(start, 1, changes)

	// elasticity -1.2: quantity -12%, profit (1.10*0.88)-1 = -3.2%, damped to -0.96%
	require.Len(t, priced, 1)
	assert.InDelta(t, base[0].PredictedProfit*0.9904, priced[0].PredictedProfit, 1e-6)
}

func TestTrainCategoryMeansFromDailySums(t *testing.T) {
	history := []models.Transaction{
		{Timestamp: day(1), Category: "coffee", Quantity: 1, Profit: 100},
		{Timestamp: day(1), Category: "coffee", Quantity: 1, Profit: 100},
		{Timestamp: day(2), Category: "coffee", Quantity: 2, Profit: 400},
	}
	m := newModel(t, history, 1)

	// two daily sums: (2, 200) and (2, 400)
	pair, ok := m.categoryMeans["coffee"]
	require.True(t, ok)
	assert.InDelta(t, 2.0, pair.Quantity, 1e-9)
	assert.InDelta(t, 300.0, pair.Profit, 1e-9)
}

func TestHourlyMeans(t *testing.T) {
	history := []models.Transaction{
		{Timestamp: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), Category: "coffee", Quantity: 1, Profit: 100},
		{Timestamp: time.Date(2024, 1, 2, 9, 30, 0, 0, time.UTC), Category: "coffee", Quantity: 3, Profit: 300},
	}
	m := newModel(t, history, 1)

	pair, ok := m.HourlyMeans()[9]
	require.True(t, ok)
	assert.InDelta(t, 2.0, pair.Quantity, 1e-9)
	assert.InDelta(t, 200.0, pair.Profit, 1e-9)
}
