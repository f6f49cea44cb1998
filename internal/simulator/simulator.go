package simulator

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/cafesim-io/cafedatasim/internal/factories"
	"github.com/cafesim-io/cafedatasim/internal/models"
	"github.com/cafesim-io/cafedatasim/internal/output"
	"github.com/lucsky/cuid"
	"github.com/rs/zerolog"
)

const (
	changeSummaryWindow = 5  // change-log suffix folded into each forecast
	regenerationDays    = 30 // simulated batch size after every applied change
)

// Simulator owns the mutable session state: the business configuration, the
// historical dataset, the append-only change log and the trained forecast
// model. There is exactly one logical actor, so no locking.
type Simulator struct {
	Config       *models.Config
	Historical   []models.Transaction
	ChangeLog    []models.ChangeRecord
	CurrentState models.CurrentState
	Model        *ForecastModel

	// LastSimulated holds the most recent post-change regeneration batch.
	LastSimulated []models.Transaction

	factory *factories.TransactionFactory
	sink    output.Sink
	log     zerolog.Logger
	runID   string
}

// NewSimulator generates the initial historical dataset from the
// configuration, trains the forecast model on it and persists the starting
// artifacts.
func NewSimulator(cfg *models.Config, sink output.Sink, logger zerolog.Logger) *Simulator {
	factory := &factories.TransactionFactory{}
	historical := factory.GenerateInitialDataset(cfg, cfg.Rows, cfg.Seed, true)

	s := &Simulator{
		Config:     cfg,
		Historical: historical,
		Model:      NewForecastModel(cfg, historical, rand.New(rand.NewSource(time.Now().UnixNano()))),
		factory:    factory,
		sink:       sink,
		log:        logger,
		runID:      cuid.New(),
	}
	s.CurrentState = Summarize(s.Historical)

	s.persistTable("datasets", s.stamped("initial_dataset"), models.TransactionsTable(s.Historical))
	s.persistJSON("configs", s.stamped("config"), cfg.Snapshot())
	s.log.Info().Str("run_id", s.runID).Int("rows", len(historical)).Msg("initial dataset generated")
	return s
}

// RunID identifies this session in artifact names and reports.
func (s *Simulator) RunID() string { return s.runID }

// ApplyPriceChange scales a category's price band by pct percent. An unknown
// category mutates nothing and yields a zero-impact effect, but is still
// logged to the change history.
func (s *Simulator) ApplyPriceChange(category string, pct float64) models.Effect {
	var effect models.Effect
	if s.Config.ScaleCategoryPrices(category, pct) {
		if pct > 0 {
			effect = models.Effect{
				ProfitImpact:   0.08 * pct,
				CustomerImpact: -0.05 * math.Abs(pct),
				Description:    fmt.Sprintf("prices for %s changed by %+.1f%%", category, pct),
			}
		} else {
			effect = models.Effect{
				ProfitImpact:   -0.03 * math.Abs(pct),
				CustomerImpact: 0.08 * math.Abs(pct),
				Description:    fmt.Sprintf("discount on %s %.1f%%", category, math.Abs(pct)),
			}
		}
	} else {
		effect = models.Effect{Description: fmt.Sprintf("category %s not found", category)}
	}
	s.record(models.RecPriceChange, models.RecommendationParams{Category: category, ChangePct: pct}, effect)
	return effect
}

// ApplyPromoCampaign raises the promo probability by 30 points (clamped at
// 100). Discount and duration only flavor the description.
func (s *Simulator) ApplyPromoCampaign(discount float64, durationDays int) models.Effect {
	s.Config.BoostPromoChance(30)
	effect := models.Effect{
		ProfitImpact:   -0.10,
		CustomerImpact: 0.25,
		Description:    fmt.Sprintf("promo campaign: %.1f%% off for %d days", discount, durationDays),
	}
	s.record(models.RecPromoCampaign, models.RecommendationParams{Discount: discount, DurationDays: durationDays}, effect)
	return effect
}

// ApplyHappyHours announces a happy-hours window. No configuration mutation.
func (s *Simulator) ApplyHappyHours(hours string, discount float64) models.Effect {
	effect := models.Effect{
		ProfitImpact:   0.15,
		CustomerImpact: 0.20,
		Description:    fmt.Sprintf("happy hours %s with %.1f%% off", hours, discount),
	}
	s.record(models.RecHappyHours, models.RecommendationParams{Hours: hours, Discount: discount}, effect)
	return effect
}

// ApplyMenuChange records a dish addition or removal. No configuration
// mutation; the effect depends on the action.
func (s *Simulator) ApplyMenuChange(action, dish string) models.Effect {
	var effect models.Effect
	switch action {
	case "add":
		effect = models.Effect{
			ProfitImpact:   0.05,
			CustomerImpact: 0.03,
			Description:    fmt.Sprintf("added new dish: %s", dish),
		}
	case "remove":
		effect = models.Effect{
			ProfitImpact:   0.02,
			CustomerImpact: -0.01,
			Description:    fmt.Sprintf("removed dish: %s", dish),
		}
	default:
		effect = models.Effect{Description: fmt.Sprintf("unknown menu action %q", action)}
	}
	s.record(models.RecMenuChange, models.RecommendationParams{Action: action, Dish: dish}, effect)
	return effect
}

// ApplyLoyaltyProgram raises the loyalty-card probability by 20 points
// (clamped at 100).
func (s *Simulator) ApplyLoyaltyProgram(improvement string) models.Effect {
	s.Config.BoostLoyaltyChance(20)
	effect := models.Effect{
		ProfitImpact:   0.12,
		CustomerImpact: 0.15,
		Description:    fmt.Sprintf("loyalty program improved: %s", improvement),
	}
	s.record(models.RecLoyaltyProgram, models.RecommendationParams{Improvement: improvement}, effect)
	return effect
}

// record appends to the change log unconditionally and triggers the
// post-change persistence and regeneration side effects. Persistence failures
// are warnings; the session always continues.
func (s *Simulator) record(kind models.RecommendationType, params models.RecommendationParams, effect models.Effect) {
	record := models.ChangeRecord{
		Timestamp: time.Now(),
		Type:      kind,
		Params:    params,
		Effects:   effect,
	}
	s.ChangeLog = append(s.ChangeLog, record)

	s.persistJSON("history", s.stamped("changes_history"), s.ChangeLog)
	s.persistJSON("configs", s.stamped("config_after_change"), s.Config.Snapshot())

	s.LastSimulated = s.factory.GenerateSimulatedBatch(s.Config, time.Now(), regenerationDays, s.Config.RegenSeed)
	s.persistTable("datasets", s.stamped("simulated_data_after_changes"), models.TransactionsTable(s.LastSimulated))

	s.log.Info().
		Str("type", string(kind)).
		Str("description", effect.Description).
		Msg("recommendation applied")
}

// BuildChangeSummary folds the most recent change-log entries into the
// change set a forecast runs under. Price changes for the same category sum,
// so repeated changes compound. Scenario overlays overwrite unconditionally.
func (s *Simulator) BuildChangeSummary(scenario models.Scenario) models.ChangeSummary {
	var summary models.ChangeSummary

	start := len(s.ChangeLog) - changeSummaryWindow
	if start < 0 {
		start = 0
	}
	for _, change := range s.ChangeLog[start:] {
		if change.Type != models.RecPriceChange {
			continue
		}
		if summary.PriceChanges == nil {
			summary.PriceChanges = make(map[string]float64)
		}
		summary.PriceChanges[change.Params.Category] += change.Params.ChangePct
	}

	switch scenario {
	case models.ScenarioOptimistic:
		summary.NewCustomersPct = 20
		summary.PromoIncrease = 10
	case models.ScenarioPessimistic:
		summary.NewCustomersPct = -10
		summary.PromoIncrease = -5
	}
	return summary
}

// GetForecast projects the next days under the accumulated change log and an
// optional scenario overlay, with the running cumulative-profit column filled.
func (s *Simulator) GetForecast(days int, scenario models.Scenario) []models.ForecastRow {
	rows := s.Model.Forecast(days, s.BuildChangeSummary(scenario))
	cumulative := 0.0
	for i := range rows {
		cumulative += rows[i].PredictedProfit
		rows[i].CumulativeProfit = cumulative
	}
	return rows
}

// CompareScenarios runs the four fixed scenarios as independent 30-day
// forecasts against the trained model. The accumulated change log is not
// consulted; this compares futures from the unmodified baseline.
func (s *Simulator) CompareScenarios() []models.ScenarioResult {
	scenarios := []struct {
		name    string
		changes models.ChangeSummary
	}{
		{"baseline", models.ChangeSummary{}},
		{"aggressive_promo", models.ChangeSummary{PromoIncrease: 30, NewCustomersPct: 15}},
		{"price_increase", models.ChangeSummary{PriceChanges: map[string]float64{"coffee": 10, "dessert": 10}}},
		{"menu_optimization", models.ChangeSummary{NewCustomersPct: 5}},
	}

	results := make([]models.ScenarioResult, 0, len(scenarios))
	baseTotal := 0.0
	for _, sc := range scenarios {
		rows := s.Model.Forecast(30, sc.changes)
		total, avg := 0.0, 0.0
		for _, row := range rows {
			total += row.PredictedProfit
		}
		if len(rows) > 0 {
			avg = total / float64(len(rows))
		}
		if sc.name == "baseline" {
			baseTotal = total
		}
		growth := 0.0
		if baseTotal > 0 {
			growth = (total/baseTotal - 1) * 100
		}
		results = append(results, models.ScenarioResult{
			Name:        sc.name,
			TotalProfit: total,
			AvgDaily:    avg,
			GrowthPct:   growth,
		})
	}
	return results
}

// GenerateROIAnalysis estimates the payback of an investment from a 90-day
// forecast and a fixed per-type effect table.
func (s *Simulator) GenerateROIAnalysis(investment float64, changeType string) models.ROIAnalysis {
	forecast := s.GetForecast(90, models.ScenarioBase)
	if len(forecast) == 0 {
		return models.ROIAnalysis{
			Investment:     investment,
			ROIPercent:     -100,
			PaybackMonths:  math.Inf(1),
			Recommendation: "INSUFFICIENT DATA",
		}
	}

	total := 0.0
	for _, row := range forecast {
		total += row.PredictedProfit
	}
	monthlyProfit := total / 3

	var multiplier, durationMonths float64
	switch changeType {
	case "marketing":
		multiplier, durationMonths = 1.5, 3
	case "equipment":
		multiplier, durationMonths = 1.2, 12
	case "training":
		multiplier, durationMonths = 1.15, 6
	default:
		multiplier, durationMonths = 1.1, 6
	}

	improvedMonthly := monthlyProfit * multiplier
	additionalProfit := (improvedMonthly - monthlyProfit) * durationMonths

	roi := 0.0
	if investment > 0 {
		roi = (additionalProfit - investment) / investment * 100
	}
	payback := math.Inf(1)
	if improvedMonthly > monthlyProfit {
		payback = investment / (improvedMonthly - monthlyProfit)
	}

	recommendation := "CONSIDER"
	if roi > 30 {
		recommendation = "RECOMMEND"
	} else if roi < 0 {
		recommendation = "DO NOT RECOMMEND"
	}

	return models.ROIAnalysis{
		Investment:       investment,
		AdditionalProfit: additionalProfit,
		ROIPercent:       roi,
		PaybackMonths:    payback,
		Recommendation:   recommendation,
	}
}

// RefreshState recomputes the derived snapshot from the historical dataset.
func (s *Simulator) RefreshState() models.CurrentState {
	s.CurrentState = Summarize(s.Historical)
	return s.CurrentState
}

// HistoricalTail returns the most recent n historical transactions.
func (s *Simulator) HistoricalTail(n int) []models.Transaction {
	if n >= len(s.Historical) {
		return s.Historical
	}
	return s.Historical[len(s.Historical)-n:]
}

// SaveCurrentState persists the full session bundle: historical data, a
// 30-day forecast, the configuration snapshot, the change history, the
// current-state row and a README describing them. Returns the artifact paths
// that were written.
func (s *Simulator) SaveCurrentState(prefix string) map[string]string {
	if prefix == "" {
		prefix = "cafe_state"
	}
	paths := make(map[string]string)

	paths["historical"] = s.persistTable("datasets", s.stamped(prefix+"_historical"), models.TransactionsTable(s.Historical))
	forecast := s.GetForecast(30, models.ScenarioBase)
	if len(forecast) > 0 {
		paths["forecast"] = s.persistTable("forecasts", s.stamped(prefix+"_forecast"), models.ForecastTable(forecast))
	}
	paths["config"] = s.persistJSON("configs", s.stamped(prefix+"_config"), s.Config.Snapshot())
	paths["changes"] = s.persistJSON("history", s.stamped(prefix+"_changes"), s.ChangeLog)
	paths["state"] = s.persistTable("datasets", s.stamped(prefix+"_current_state"), models.StateTable(s.RefreshState()))
	paths["readme"] = s.persistText("reports", s.stamped(prefix+"_README"), s.buildReadme(prefix, paths))

	return paths
}

// SaveForecast persists one forecast table under the forecasts folder.
func (s *Simulator) SaveForecast(rows []models.ForecastRow, name string) string {
	return s.persistTable("forecasts", s.stamped(name), models.ForecastTable(rows))
}

func (s *Simulator) stamped(base string) string {
	return fmt.Sprintf("%s_%s", base, time.Now().Format("20060102_1504"))
}

func (s *Simulator) persistTable(folder, name string, table *models.Table) string {
	path, err := s.sink.SaveTable(folder, name, table)
	if err != nil {
		s.log.Warn().Err(err).Str("artifact", name).Msg("could not persist table")
		return ""
	}
	return path
}

func (s *Simulator) persistJSON(folder, name string, v any) string {
	path, err := s.sink.SaveJSON(folder, name, v)
	if err != nil {
		s.log.Warn().Err(err).Str("artifact", name).Msg("could not persist document")
		return ""
	}
	return path
}

func (s *Simulator) persistText(folder, name, text string) string {
	path, err := s.sink.SaveText(folder, name, text)
	if err != nil {
		s.log.Warn().Err(err).Str("artifact", name).Msg("could not persist report")
		return ""
	}
	return path
}
