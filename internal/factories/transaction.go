package factories

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/cafesim-io/cafedatasim/internal/models"
	"github.com/jaswdr/faker"
	"github.com/schollz/progressbar/v3"
)

type quantityBucket struct {
	value  int
	weight int
}

// Two quantity tables exist on purpose: the initial historical dataset samples
// the four-bucket table, post-recommendation regeneration samples the
// three-bucket one. Do not unify them without checking both call sites.
var (
	initialQuantityDist = []quantityBucket{{1, 80}, {2, 15}, {3, 4}, {4, 1}}
	regenQuantityDist   = []quantityBucket{{1, 80}, {2, 15}, {3, 5}}

	ratingDist   = []quantityBucket{{4, 50}, {5, 30}, {3, 20}}
	weatherKinds = []string{"Sunny", "Cloudy", "Rainy", "Clear"}
	weekDayNames = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
)

type TransactionFactory struct{}

// GenerateInitialDataset produces the historical dataset: rows transactions
// scattered over the configured spread of days, with the full optional column
// set. The random source is seeded at the start of the call, so the same seed
// and configuration always reproduce the same batch.
func (tf *TransactionFactory) GenerateInitialDataset(cfg *models.Config, rows int, seed int64, showProgress bool) []models.Transaction {
	rng := rand.New(rand.NewSource(seed))
	fake := faker.NewWithSeed(rand.NewSource(seed))

	names := cfg.CategoryNames()
	hours, hourWeights := sortedIntWeights(cfg.PeakHours)
	ageNames, ageWeights := sortedStringWeights(cfg.AgeGroups)

	var bar *progressbar.ProgressBar
	if showProgress {
		bar = progressbar.Default(int64(rows), "generating transactions")
	}

	txs := make([]models.Transaction, 0, rows)
	for i := 0; i < rows; i++ {
		date := cfg.StartDate.AddDate(0, 0, rng.Intn(cfg.SpreadDays+1))
		hour := weightedChoice(rng, hours, hourWeights)
		ts := time.Date(date.Year(), date.Month(), date.Day(), hour, rng.Intn(60), 0, 0, date.Location())

		category := names[rng.Intn(len(names))]
		settings := cfg.Categories[category]

		tx := tf.buildTransaction(cfg, rng, ts, category, settings, initialQuantityDist)
		tx.ID = fmt.Sprintf("T%d", 1000+i)
		tx.DishID = fmt.Sprintf("D-%d", fake.IntBetween(100, 500))
		tx.DishName = pickDish(rng, settings)
		tx.Weather = fake.RandomStringElement(weatherKinds)
		tx.Temperature = fake.IntBetween(15, 25)
		tx.WaiterID = fmt.Sprintf("W-%02d", fake.IntBetween(1, 10))
		tx.PrepTime = prepTime(cfg, rng, category)

		// client identity is one joint decision: an anonymous customer has no
		// id, no age group and no loyalty card
		if rng.Float64()*100 < cfg.KnownCustomerChance {
			id := fmt.Sprintf("C-%d", 100+rng.Intn(900))
			tx.ClientID = &id
			ag := weightedChoice(rng, ageNames, ageWeights)
			tx.AgeGroup = &ag
			tx.IsLoyalty = rng.Float64()*100 < cfg.LoyaltyChance
		}

		if rng.Float64() < 0.7 {
			r := weightedBucket(rng, ratingDist)
			tx.Rating = &r
		}

		txs = append(txs, tx)
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	return txs
}

// GenerateSimulatedBatch regenerates data under the current (possibly mutated)
// configuration: roughly 50 transactions per day starting at start, with the
// reduced column set the regeneration path has always produced. Deterministic
// for a fixed seed, start and configuration.
func (tf *TransactionFactory) GenerateSimulatedBatch(cfg *models.Config, start time.Time, days int, seed int64) []models.Transaction {
	rng := rand.New(rand.NewSource(seed))

	names := cfg.CategoryNames()
	hours, hourWeights := sortedIntWeights(cfg.PeakHours)

	count := days * 50
	txs := make([]models.Transaction, 0, count)
	for i := 0; i < count; i++ {
		date := start.AddDate(0, 0, i/50)
		hour := weightedChoice(rng, hours, hourWeights)
		ts := time.Date(date.Year(), date.Month(), date.Day(), hour, rng.Intn(60), 0, 0, date.Location())

		category := names[rng.Intn(len(names))]
		settings := cfg.Categories[category]

		tx := tf.buildTransaction(cfg, rng, ts, category, settings, regenQuantityDist)
		tx.ID = fmt.Sprintf("T%d", 10000+i)
		tx.DishName = pickDish(rng, settings)

		if rng.Float64()*100 < cfg.KnownCustomerChance {
			id := fmt.Sprintf("C-%d", 1000+rng.Intn(9000))
			tx.ClientID = &id
		}

		txs = append(txs, tx)
	}
	return txs
}

// buildTransaction fills the economic core shared by both generation paths.
func (tf *TransactionFactory) buildTransaction(cfg *models.Config, rng *rand.Rand, ts time.Time, category string, settings models.CategorySettings, dist []quantityBucket) models.Transaction {
	price := settings.MinPrice + rng.Intn(settings.MaxPrice-settings.MinPrice+1)
	cost := float64(price) * settings.CostPct / 100
	quantity := weightedBucket(rng, dist)

	margin := 0.0
	if price > 0 {
		margin = (float64(price) - cost) / float64(price)
	}

	weekday := int(ts.Weekday()+6) % 7 // Monday first

	return models.Transaction{
		Timestamp:    ts,
		Category:     category,
		Price:        price,
		Cost:         cost,
		Quantity:     quantity,
		Profit:       (float64(price) - cost) * float64(quantity),
		ProfitMargin: margin,
		PromoApplied: rng.Float64()*100 < cfg.PromoChance,
		Hour:         ts.Hour(),
		WeekDay:      weekDayNames[weekday],
		IsWeekend:    weekday >= 5,
	}
}

func pickDish(rng *rand.Rand, settings models.CategorySettings) string {
	if len(settings.Dishes) == 0 {
		return "Special of the Day"
	}
	return settings.Dishes[rng.Intn(len(settings.Dishes))]
}

func prepTime(cfg *models.Config, rng *rand.Rand, category string) int {
	r, ok := cfg.PrepTimes[category]
	if !ok {
		r = models.PrepTimeRange{Min: 2, Max: 5}
	}
	return r.Min + rng.Intn(r.Max-r.Min+1)
}

// weightedChoice walks cumulative weights over a pre-sorted value list; map
// order never leaks into the draw, which keeps seeded runs reproducible.
func weightedChoice[T any](rng *rand.Rand, values []T, weights []int) T {
	total := 0
	for _, w := range weights {
		total += w
	}
	n := rng.Intn(total)
	for i, w := range weights {
		n -= w
		if n < 0 {
			return values[i]
		}
	}
	return values[len(values)-1]
}

func weightedBucket(rng *rand.Rand, dist []quantityBucket) int {
	values := make([]int, len(dist))
	weights := make([]int, len(dist))
	for i, b := range dist {
		values[i] = b.value
		weights[i] = b.weight
	}
	return weightedChoice(rng, values, weights)
}

func sortedIntWeights(m map[int]int) ([]int, []int) {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	weights := make([]int, len(keys))
	for i, k := range keys {
		weights[i] = m[k]
	}
	return keys, weights
}

func sortedStringWeights(m map[string]int) ([]string, []int) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	weights := make([]int, len(keys))
	for i, k := range keys {
		weights[i] = m[k]
	}
	return keys, weights
}
