package models

import (
	"strconv"
	"time"
)

// Transaction is one sold position. It is immutable once generated; optional
// fields are nil when the information was never captured (an anonymous walk-in
// has no client id, no age group and no loyalty card, as one joint fact).
type Transaction struct {
	ID           string    `json:"transaction_id"`
	Timestamp    time.Time `json:"timestamp"`
	ClientID     *string   `json:"client_id,omitempty"`
	AgeGroup     *string   `json:"age_group,omitempty"`
	IsLoyalty    bool      `json:"is_loyalty"`
	WeekDay      string    `json:"week_day"`
	Hour         int       `json:"hour"`
	IsWeekend    bool      `json:"is_weekend"`
	IsHoliday    bool      `json:"is_holiday"`
	DishID       string    `json:"dish_id"`
	DishName     string    `json:"dish_name"`
	Category     string    `json:"dish_category"`
	Price        int       `json:"price"`
	Cost         float64   `json:"cost"`
	Quantity     int       `json:"quantity"`
	Weather      string    `json:"weather,omitempty"`
	Temperature  int       `json:"temperature,omitempty"`
	PromoApplied bool      `json:"promo_applied"`
	WaiterID     string    `json:"waiter_id,omitempty"`
	PrepTime     int       `json:"preparation_time,omitempty"`
	Rating       *int      `json:"rating,omitempty"`
	ProfitMargin float64   `json:"profit_margin"`
	Profit       float64   `json:"profit"`
}

// HasClient reports whether the transaction belongs to a known customer.
func (t *Transaction) HasClient() bool {
	return t.ClientID != nil
}

var transactionHeaders = []string{
	"transaction_id", "timestamp", "client_id", "age_group", "is_loyalty",
	"week_day", "hour", "is_weekend", "is_holiday", "dish_id", "dish_name",
	"dish_category", "price", "cost", "quantity", "weather", "temperature",
	"promo_applied", "waiter_id", "preparation_time", "rating",
	"profit_margin", "profit",
}

// TransactionsTable renders a transaction batch in the neutral tabular form
// understood by every persistence sink.
func TransactionsTable(txs []Transaction) *Table {
	t := NewTable(transactionHeaders)
	for i := range txs {
		tx := &txs[i]
		clientID, ageGroup, rating := "", "", ""
		if tx.ClientID != nil {
			clientID = *tx.ClientID
		}
		if tx.AgeGroup != nil {
			ageGroup = *tx.AgeGroup
		}
		if tx.Rating != nil {
			rating = strconv.Itoa(*tx.Rating)
		}
		t.AddRow(
			tx.ID,
			tx.Timestamp.Format(time.RFC3339),
			clientID,
			ageGroup,
			boolCell(tx.IsLoyalty),
			tx.WeekDay,
			strconv.Itoa(tx.Hour),
			boolCell(tx.IsWeekend),
			boolCell(tx.IsHoliday),
			tx.DishID,
			tx.DishName,
			tx.Category,
			strconv.Itoa(tx.Price),
			formatFloat(tx.Cost),
			strconv.Itoa(tx.Quantity),
			tx.Weather,
			strconv.Itoa(tx.Temperature),
			boolCell(tx.PromoApplied),
			tx.WaiterID,
			strconv.Itoa(tx.PrepTime),
			rating,
			formatFloat(tx.ProfitMargin),
			formatFloat(tx.Profit),
		)
	}
	return t
}

func boolCell(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
