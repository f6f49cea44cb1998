package simulator

import (
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/cafesim-io/cafedatasim/internal/models"
	"github.com/montanaflynn/stats"
)

const (
	defaultBaseProfit     = 10000.0
	defaultProfitDivisor  = 200.0
	dailyVolumeMultiplier = 50.0
	assumedMargin         = 0.3
	priceChangeDamping    = 0.3
	promoEffectPerPoint   = 0.15
	promoEffectCap        = 0.5
	newCustomerEffect     = 0.8
	jitterSpread          = 0.15
)

type MeanPair struct {
	Quantity float64
	Profit   float64
}

// ForecastModel keeps grouped-mean tables trained from a historical dataset
// and projects them forward under hypothetical changes. Training tables are
// retained for the model's lifetime; retrain by calling Train again.
type ForecastModel struct {
	cfg *models.Config
	rng *rand.Rand

	meanProfit    float64
	trained       bool
	categoryMeans map[string]MeanPair
	hourlyMeans   map[int]MeanPair
	weekdayMeans  map[int]MeanPair
}

// NewForecastModel trains a model on the given history. The jitter source is
// owned by the model and deliberately not reseeded per forecast call.
func NewForecastModel(cfg *models.Config, history []models.Transaction, rng *rand.Rand) *ForecastModel {
	m := &ForecastModel{cfg: cfg, rng: rng}
	m.Train(history)
	return m
}

// Train recomputes the per-category, per-hour and per-weekday mean tables.
func (m *ForecastModel) Train(history []models.Transaction) {
	m.categoryMeans = make(map[string]MeanPair)
	m.hourlyMeans = make(map[int]MeanPair)
	m.weekdayMeans = make(map[int]MeanPair)
	m.meanProfit = 0
	m.trained = len(history) > 0
	if !m.trained {
		return
	}

	profits := make([]float64, 0, len(history))
	for i := range history {
		profits = append(profits, history[i].Profit)
	}
	m.meanProfit, _ = stats.Mean(profits)

	// category means come from daily sums, hour and weekday means from raw rows
	type dayCat struct {
		day string
		cat string
	}
	dailySums := make(map[dayCat]MeanPair)
	hourAcc := make(map[int]*accumulator)
	weekdayAcc := make(map[int]*accumulator)

	for i := range history {
		tx := &history[i]
		key := dayCat{tx.Timestamp.Format("2006-01-02"), tx.Category}
		sums := dailySums[key]
		sums.Quantity += float64(tx.Quantity)
		sums.Profit += tx.Profit
		dailySums[key] = sums

		accumulate(hourAcc, tx.Timestamp.Hour(), tx)
		accumulate(weekdayAcc, mondayFirst(tx.Timestamp.Weekday()), tx)
	}

	catAcc := make(map[string]*accumulator)
	for key, sums := range dailySums {
		acc, ok := catAcc[key.cat]
		if !ok {
			acc = &accumulator{}
			catAcc[key.cat] = acc
		}
		acc.quantity += sums.Quantity
		acc.profit += sums.Profit
		acc.count++
	}
	for cat, acc := range catAcc {
		m.categoryMeans[cat] = acc.means()
	}
	for hour, acc := range hourAcc {
		m.hourlyMeans[hour] = acc.means()
	}
	for weekday, acc := range weekdayAcc {
		m.weekdayMeans[weekday] = acc.means()
	}
}

// Forecast projects profit, customers and revenue for the given number of
// days starting today, under the supplied change summary. Rows come back in
// day order with CumulativeProfit left at zero for the caller to fill.
func (m *ForecastModel) Forecast(days int, changes models.ChangeSummary) []models.ForecastRow {
	return m.ForecastFrom(time.Now(), days, changes)
}

// ForecastFrom is Forecast with an explicit first day, which keeps tests off
// the wall clock.
func (m *ForecastModel) ForecastFrom(start time.Time, days int, changes models.ChangeSummary) []models.ForecastRow {
	baseDailyProfit := defaultBaseProfit
	if m.trained {
		baseDailyProfit = m.meanProfit * dailyVolumeMultiplier
	}
	adjusted := baseDailyProfit

	// price changes compound sequentially, damped; only trained categories count
	for _, category := range sortedKeys(changes.PriceChanges) {
		pct := changes.PriceChanges[category]
		if _, ok := m.categoryMeans[category]; !ok {
			continue
		}
		elasticity := m.cfg.Categories[category].Elasticity
		quantityChange := elasticity * (pct / 100)
		profitChange := (1+pct/100)*(1+quantityChange) - 1
		adjusted *= 1 + profitChange*priceChangeDamping
	}

	if changes.PromoIncrease != 0 {
		effect := math.Min(changes.PromoIncrease*promoEffectPerPoint, promoEffectCap)
		adjusted *= 1 + effect
	}

	if changes.NewCustomersPct != 0 {
		adjusted *= 1 + changes.NewCustomersPct*newCustomerEffect/100
	}

	divisor := defaultProfitDivisor
	if m.trained {
		divisor = m.meanProfit
	}

	rows := make([]models.ForecastRow, 0, days)
	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i)
		weekday := mondayFirst(date.Weekday())

		weekdayFactor := 1.0
		if pair, ok := m.weekdayMeans[weekday]; ok && baseDailyProfit > 0 {
			weekdayFactor = pair.Profit / baseDailyProfit
		}

		jitter := 1 + (m.rng.Float64()*2-1)*jitterSpread
		dailyProfit := adjusted * weekdayFactor * jitter

		rows = append(rows, models.ForecastRow{
			Date:               date,
			Day:                i + 1,
			WeekDay:            weekDayNames[weekday],
			PredictedProfit:    dailyProfit,
			PredictedCustomers: int(dailyProfit / divisor),
			PredictedRevenue:   dailyProfit / assumedMargin,
		})
	}
	return rows
}

// HourlyMeans exposes the trained by-hour table for reporting.
func (m *ForecastModel) HourlyMeans() map[int]MeanPair {
	return m.hourlyMeans
}

type accumulator struct {
	quantity float64
	profit   float64
	count    int
}

func (a *accumulator) means() MeanPair {
	if a.count == 0 {
		return MeanPair{}
	}
	return MeanPair{
		Quantity: a.quantity / float64(a.count),
		Profit:   a.profit / float64(a.count),
	}
}

func accumulate(acc map[int]*accumulator, key int, tx *models.Transaction) {
	a, ok := acc[key]
	if !ok {
		a = &accumulator{}
		acc[key] = a
	}
	a.quantity += float64(tx.Quantity)
	a.profit += tx.Profit
	a.count++
}

func mondayFirst(w time.Weekday) int {
	return (int(w) + 6) % 7
}

var weekDayNames = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
