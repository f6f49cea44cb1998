package models

import (
	"strconv"
	"time"
)

// Scenario names a fixed overlay of hypothetical changes for forecasting.
type Scenario string

const (
	ScenarioBase        Scenario = ""
	ScenarioOptimistic  Scenario = "optimistic"
	ScenarioPessimistic Scenario = "pessimistic"
)

// ChangeSummary is the ephemeral set of hypothetical changes one forecast call
// runs under. It is built per call by folding recent change-log entries and/or
// scenario overlays; zero values mean "no change".
type ChangeSummary struct {
	PriceChanges    map[string]float64 `json:"price_changes,omitempty"`
	PromoIncrease   float64            `json:"promo_increase,omitempty"`
	NewCustomersPct float64            `json:"new_customers_pct,omitempty"`
}

// ForecastRow is one projected day. CumulativeProfit is the running prefix sum
// of PredictedProfit within a single forecast call, filled by the caller.
type ForecastRow struct {
	Date               time.Time `json:"date"`
	Day                int       `json:"day"`
	WeekDay            string    `json:"weekday"`
	PredictedProfit    float64   `json:"predicted_profit"`
	PredictedCustomers int       `json:"predicted_customers"`
	PredictedRevenue   float64   `json:"predicted_revenue"`
	CumulativeProfit   float64   `json:"cumulative_profit"`
}

// ScenarioResult is one line of a scenario comparison.
type ScenarioResult struct {
	Name        string  `json:"scenario"`
	TotalProfit float64 `json:"total_profit"`
	AvgDaily    float64 `json:"avg_daily_profit"`
	GrowthPct   float64 `json:"growth_pct"`
}

// ROIAnalysis is the fixed-field result of an investment payback query.
type ROIAnalysis struct {
	Investment       float64 `json:"investment"`
	AdditionalProfit float64 `json:"additional_profit_expected"`
	ROIPercent       float64 `json:"roi_percent"`
	PaybackMonths    float64 `json:"payback_months"`
	Recommendation   string  `json:"recommendation"`
}

// ForecastTable renders a forecast for tabular sinks.
func ForecastTable(rows []ForecastRow) *Table {
	t := NewTable([]string{
		"date", "day", "weekday", "predicted_profit", "predicted_customers",
		"predicted_revenue", "cumulative_profit",
	})
	for _, r := range rows {
		t.AddRow(
			r.Date.Format("2006-01-02"),
			strconv.Itoa(r.Day),
			r.WeekDay,
			strconv.FormatFloat(r.PredictedProfit, 'f', 2, 64),
			strconv.Itoa(r.PredictedCustomers),
			strconv.FormatFloat(r.PredictedRevenue, 'f', 2, 64),
			strconv.FormatFloat(r.CumulativeProfit, 'f', 2, 64),
		)
	}
	return t
}

// ScenarioTable renders a scenario comparison for tabular sinks.
func ScenarioTable(results []ScenarioResult) *Table {
	t := NewTable([]string{"scenario", "total_profit_30d", "avg_daily_profit", "growth_pct"})
	for _, r := range results {
		t.AddRow(
			r.Name,
			strconv.FormatFloat(r.TotalProfit, 'f', 0, 64),
			strconv.FormatFloat(r.AvgDaily, 'f', 0, 64),
			strconv.FormatFloat(r.GrowthPct, 'f', 1, 64),
		)
	}
	return t
}
