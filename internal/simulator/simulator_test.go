package simulator

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cafesim-io/cafedatasim/internal/models"
	"github.com/cafesim-io/cafedatasim/internal/output"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSimulator(t *testing.T) *Simulator {
	t.Helper()
	cfg := models.DefaultConfig()
	cfg.Rows = 50
	return NewSimulator(cfg, output.NewFileSink(t.TempDir()), zerolog.Nop())
}

func TestNewSimulatorBootstrap(t *testing.T) {
	dir := t.TempDir()
	cfg := models.DefaultConfig()
	cfg.Rows = 50

	sim := NewSimulator(cfg, output.NewFileSink(dir), zerolog.Nop())

	require.Len(t, sim.Historical, 50)
	assert.Equal(t, 50, sim.CurrentState.TotalTransactions)
	assert.NotEmpty(t, sim.RunID())

	datasets, err := filepath.Glob(filepath.Join(dir, "datasets", "initial_dataset_*.csv"))
	require.NoError(t, err)
	assert.Len(t, datasets, 1)
	configs, err := filepath.Glob(filepath.Join(dir, "configs", "config_*.json"))
	require.NoError(t, err)
	assert.Len(t, configs, 1)
}

func TestApplyPriceChangeKnownCategory(t *testing.T) {
	sim := newTestSimulator(t)
	before := sim.Config.Categories["coffee"]

	effect := sim.ApplyPriceChange("coffee", 10)

	assert.InDelta(t, 0.8, effect.ProfitImpact, 1e-9)
	assert.InDelta(t, -0.5, effect.CustomerImpact, 1e-9)
	assert.Greater(t, sim.Config.Categories["coffee"].MinPrice, before.MinPrice)
	require.Len(t, sim.ChangeLog, 1)
	assert.Equal(t, models.RecPriceChange, sim.ChangeLog[0].Type)
	assert.Len(t, sim.LastSimulated, regenerationDays*50)
}

func TestApplyPriceChangeDiscount(t *testing.T) {
	sim := newTestSimulator(t)

	effect := sim.ApplyPriceChange("tea", -20)

	assert.InDelta(t, -0.6, effect.ProfitImpact, 1e-9)
	assert.InDelta(t, 1.6, effect.CustomerImpact, 1e-9)
}

func TestApplyPriceChangeUnknownCategory(t *testing.T) {
	sim := newTestSimulator(t)
	snapshot := sim.Config.Categories["coffee"]

	effect := sim.ApplyPriceChange("sushi", 10)

	assert.Zero(t, effect.ProfitImpact)
	assert.Zero(t, effect.CustomerImpact)
	assert.Contains(t, effect.Description, "not found")
	// still logged, nothing mutated
	require.Len(t, sim.ChangeLog, 1)
	assert.Equal(t, snapshot, sim.Config.Categories["coffee"])
}

func TestApplyPromoCampaignClamps(t *testing.T) {
	sim := newTestSimulator(t)
	sim.Config.PromoChance = 90

	effect := sim.ApplyPromoCampaign(15, 7)

	assert.Equal(t, 100.0, sim.Config.PromoChance)
	assert.InDelta(t, -0.10, effect.ProfitImpact, 1e-9)
	assert.InDelta(t, 0.25, effect.CustomerImpact, 1e-9)
}

func TestApplyLoyaltyProgram(t *testing.T) {
	sim := newTestSimulator(t)
	sim.Config.LoyaltyChance = 60

	effect := sim.ApplyLoyaltyProgram("new tiers")

	assert.Equal(t, 80.0, sim.Config.LoyaltyChance)
	assert.InDelta(t, 0.12, effect.ProfitImpact, 1e-9)
	assert.InDelta(t, 0.15, effect.CustomerImpact, 1e-9)
}

func TestApplyMenuChange(t *testing.T) {
	sim := newTestSimulator(t)

	add := sim.ApplyMenuChange("add", "Matcha Latte")
	assert.InDelta(t, 0.05, add.ProfitImpact, 1e-9)

	remove := sim.ApplyMenuChange("remove", "Fruit Tea")
	assert.InDelta(t, 0.02, remove.ProfitImpact, 1e-9)
	assert.InDelta(t, -0.01, remove.CustomerImpact, 1e-9)

	require.Len(t, sim.ChangeLog, 2)
}

func TestBuildChangeSummaryWindow(t *testing.T) {
	sim := &Simulator{Config: models.DefaultConfig()}
	add := func(category string, pct float64) {
		sim.ChangeLog = append(sim.ChangeLog, models.ChangeRecord{
			Type:   models.RecPriceChange,
			Params: models.RecommendationParams{Category: category, ChangePct: pct},
		})
	}

	add("coffee", 10) // falls outside the five-entry window
	add("coffee", 5)
	add("coffee", 5)
	add("tea", -10)
	sim.ChangeLog = append(sim.ChangeLog, models.ChangeRecord{Type: models.RecPromoCampaign})
	add("dessert", 20)

	summary := sim.BuildChangeSummary(models.ScenarioBase)
	assert.InDelta(t, 10.0, summary.PriceChanges["coffee"], 1e-9)
	assert.InDelta(t, -10.0, summary.PriceChanges["tea"], 1e-9)
	assert.InDelta(t, 20.0, summary.PriceChanges["dessert"], 1e-9)
	assert.Zero(t, summary.PromoIncrease)
	assert.Zero(t, summary.NewCustomersPct)
}

func TestBuildChangeSummaryScenarios(t *testing.T) {
	sim := &Simulator{Config: models.DefaultConfig()}

	optimistic := sim.BuildChangeSummary(models.ScenarioOptimistic)
	assert.Equal(t, 20.0, optimistic.NewCustomersPct)
	assert.Equal(t, 10.0, optimistic.PromoIncrease)

	pessimistic := sim.BuildChangeSummary(models.ScenarioPessimistic)
	assert.Equal(t, -10.0, pessimistic.NewCustomersPct)
	assert.Equal(t, -5.0, pessimistic.PromoIncrease)
}

func TestGetForecastCumulative(t *testing.T) {
	cfg := models.DefaultConfig()
	sim := &Simulator{
		Config: cfg,
		Model:  NewForecastModel(cfg, nil, rand.New(rand.NewSource(1))),
	}

	rows := sim.GetForecast(7, models.ScenarioBase)
	require.Len(t, rows, 7)

	sum := 0.0
	for _, row := range rows {
		sum += row.PredictedProfit
		assert.InDelta(t, sum, row.CumulativeProfit, 1e-9)
	}
}

func TestCompareScenarios(t *testing.T) {
	cfg := models.DefaultConfig()
	sim := &Simulator{
		Config: cfg,
		Model:  NewForecastModel(cfg, nil, rand.New(rand.NewSource(1))),
	}

	results := sim.CompareScenarios()
	require.Len(t, results, 4)

	assert.Equal(t, "baseline", results[0].Name)
	assert.Zero(t, results[0].GrowthPct)
	for _, r := range results {
		assert.InDelta(t, r.TotalProfit/30, r.AvgDaily, 1e-9)
	}
}

func TestGenerateROIAnalysisEquipment(t *testing.T) {
	cfg := models.DefaultConfig()
	baseline := &Simulator{
		Config: cfg,
		Model:  NewForecastModel(cfg, nil, rand.New(rand.NewSource(9))),
	}
	rows := baseline.GetForecast(90, models.ScenarioBase)
	total := 0.0
	for _, row := range rows {
		total += row.PredictedProfit
	}
	monthly := total / 3

	sim := &Simulator{
		Config: cfg,
		Model:  NewForecastModel(cfg, nil, rand.New(rand.NewSource(9))),
	}
	roi := sim.GenerateROIAnalysis(100000, "equipment")

	additional := monthly * 0.2 * 12
	assert.InDelta(t, additional, roi.AdditionalProfit, 1e-6)
	assert.InDelta(t, (additional-100000)/100000*100, roi.ROIPercent, 1e-6)
	assert.InDelta(t, 100000/(monthly*0.2), roi.PaybackMonths, 1e-6)
	assert.Equal(t, "RECOMMEND", roi.Recommendation)
}

func TestSaveCurrentStateBundle(t *testing.T) {
	dir := t.TempDir()
	cfg := models.DefaultConfig()
	cfg.Rows = 50
	sim := NewSimulator(cfg, output.NewFileSink(dir), zerolog.Nop())

	paths := sim.SaveCurrentState("snapshot")

	for _, key := range []string{"historical", "forecast", "config", "changes", "state", "readme"} {
		require.Contains(t, paths, key)
		require.NotEmpty(t, paths[key], "missing artifact %s", key)
		_, err := os.Stat(paths[key])
		assert.NoError(t, err, "artifact %s", key)
	}
}

func TestHistoricalTail(t *testing.T) {
	sim := &Simulator{Historical: make([]models.Transaction, 20)}

	assert.Len(t, sim.HistoricalTail(5), 5)
	assert.Len(t, sim.HistoricalTail(50), 20)
}

func TestMLFeatureTable(t *testing.T) {
	cfg := models.DefaultConfig()
	sim := &Simulator{
		Config: cfg,
		Historical: []models.Transaction{
			{Timestamp: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), Hour: 9, Category: "coffee", Quantity: 1, Price: 200, Profit: 100},
			{Timestamp: time.Date(2024, 1, 6, 14, 0, 0, 0, time.UTC), Hour: 14, Category: "tea", Quantity: 2, Price: 100, Profit: 300, IsWeekend: true},
		},
	}

	table := sim.MLFeatureTable()
	require.Equal(t, 2, table.Len())
	// 7 base columns, one per category, one label
	assert.Len(t, table.Headers, 7+len(cfg.Categories)+1)

	records := table.Records()
	assert.Equal(t, "1", records[0]["category_coffee"])
	assert.Equal(t, "0", records[0]["category_tea"])
	assert.Equal(t, "0", records[0]["high_profit"])
	assert.Equal(t, "1", records[1]["high_profit"])
	assert.Equal(t, "1", records[1]["is_weekend"])
}
