package simulator

import (
	"sort"

	"github.com/cafesim-io/cafedatasim/internal/models"
	"github.com/montanaflynn/stats"
)

// Summarize derives the current-state snapshot from a transaction collection.
// An empty collection yields a zero-valued snapshot; nothing here fails.
func Summarize(txs []models.Transaction) models.CurrentState {
	state := models.CurrentState{
		TopCategory:       "N/A",
		TotalTransactions: len(txs),
	}
	if len(txs) == 0 {
		return state
	}

	prices := make([]float64, 0, len(txs))
	profits := make([]float64, 0, len(txs))
	var ratings []float64
	promoCount := 0

	dailyProfit := make(map[string]float64)
	clients := make(map[string]struct{})
	clientRows := 0
	categoryCounts := make(map[string]int)

	for i := range txs {
		tx := &txs[i]
		prices = append(prices, float64(tx.Price))
		profits = append(profits, tx.Profit)
		state.TotalProfit += tx.Profit
		dailyProfit[tx.Timestamp.Format("2006-01-02")] += tx.Profit
		categoryCounts[tx.Category]++
		if tx.PromoApplied {
			promoCount++
		}
		if tx.HasClient() {
			clients[*tx.ClientID] = struct{}{}
			clientRows++
		}
		if tx.Rating != nil {
			ratings = append(ratings, float64(*tx.Rating))
		}
	}

	meanProfit, _ := stats.Mean(profits)
	if len(dailyProfit) > 0 {
		sums := make([]float64, 0, len(dailyProfit))
		for _, sum := range dailyProfit {
			sums = append(sums, sum)
		}
		state.AvgDailyProfit, _ = stats.Mean(sums)
	} else {
		// date grouping produced nothing; estimate three transactions per day
		state.AvgDailyProfit = meanProfit * 3
	}

	state.AvgTicket, _ = stats.Mean(prices)
	state.PromoRate = float64(promoCount) / float64(len(txs))

	if clientRows > 0 {
		state.CustomerCount = len(clients)
		state.ConversionRate = float64(clientRows) / float64(len(txs))
	} else {
		// no client information captured at all: fall back to the fixed
		// 70% walk-in conversion estimate
		state.CustomerCount = int(float64(len(txs)) * 0.7)
		state.ConversionRate = 0.7
	}

	state.TopCategory = topCategory(categoryCounts)

	if len(ratings) > 0 {
		state.AvgRating, _ = stats.Mean(ratings)
	}
	return state
}

// topCategory returns the modal category; ties break lexicographically so the
// summary is stable.
func topCategory(counts map[string]int) string {
	if len(counts) == 0 {
		return "N/A"
	}
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)
	best := names[0]
	for _, name := range names[1:] {
		if counts[name] > counts[best] {
			best = name
		}
	}
	return best
}
