package models

import "strconv"

// CurrentState is the derived summary of the historical dataset. It is
// recomputed on demand and never a source of truth on its own.
type CurrentState struct {
	AvgDailyProfit    float64 `json:"avg_daily_profit"`
	AvgTicket         float64 `json:"avg_ticket"`
	CustomerCount     int     `json:"customer_count"`
	ConversionRate    float64 `json:"conversion_rate"`
	TopCategory       string  `json:"top_category"`
	PromoRate         float64 `json:"promo_rate"`
	AvgRating         float64 `json:"avg_rating"`
	TotalTransactions int     `json:"total_transactions"`
	TotalProfit       float64 `json:"total_profit"`
}

// StateTable renders the snapshot as a single-row table.
func StateTable(s CurrentState) *Table {
	t := NewTable([]string{
		"avg_daily_profit", "avg_ticket", "customer_count", "conversion_rate",
		"top_category", "promo_rate", "avg_rating", "total_transactions", "total_profit",
	})
	t.AddRow(
		strconv.FormatFloat(s.AvgDailyProfit, 'f', 2, 64),
		strconv.FormatFloat(s.AvgTicket, 'f', 2, 64),
		strconv.Itoa(s.CustomerCount),
		strconv.FormatFloat(s.ConversionRate, 'f', 4, 64),
		s.TopCategory,
		strconv.FormatFloat(s.PromoRate, 'f', 4, 64),
		strconv.FormatFloat(s.AvgRating, 'f', 2, 64),
		strconv.Itoa(s.TotalTransactions),
		strconv.FormatFloat(s.TotalProfit, 'f', 2, 64),
	)
	return t
}
