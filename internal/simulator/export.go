package simulator

import (
	"fmt"

	"github.com/cafesim-io/cafedatasim/internal/models"
	"github.com/montanaflynn/stats"
)

// MLFeatureTable flattens the historical dataset into a model-ready feature
// table: calendar features, a one-hot column per configured category and a
// binary high-profit label against the median transaction profit.
func (s *Simulator) MLFeatureTable() *models.Table {
	categories := s.Config.CategoryNames()

	headers := []string{"hour", "week_day", "is_weekend", "is_holiday", "quantity", "price", "profit_margin"}
	for _, c := range categories {
		headers = append(headers, "category_"+c)
	}
	headers = append(headers, "high_profit")

	table := models.NewTable(headers)
	if len(s.Historical) == 0 {
		return table
	}

	profits := make([]float64, len(s.Historical))
	for i, tx := range s.Historical {
		profits[i] = tx.Profit
	}
	median, err := stats.Median(profits)
	if err != nil {
		median = 0
	}

	for _, tx := range s.Historical {
		row := []string{
			fmt.Sprintf("%d", tx.Hour),
			fmt.Sprintf("%d", mondayFirst(tx.Timestamp.Weekday())),
			boolFeature(tx.IsWeekend),
			boolFeature(tx.IsHoliday),
			fmt.Sprintf("%d", tx.Quantity),
			fmt.Sprintf("%d", tx.Price),
			fmt.Sprintf("%.4f", tx.ProfitMargin),
		}
		for _, c := range categories {
			if tx.Category == c {
				row = append(row, "1")
			} else {
				row = append(row, "0")
			}
		}
		if tx.Profit > median {
			row = append(row, "1")
		} else {
			row = append(row, "0")
		}
		table.AddRow(row...)
	}
	return table
}

// SaveMLFeatures persists the feature table for downstream training jobs.
func (s *Simulator) SaveMLFeatures() string {
	return s.persistTable("ml", s.stamped("ml_features"), s.MLFeatureTable())
}

func boolFeature(v bool) string {
	if v {
		return "1"
	}
	return "0"
}
