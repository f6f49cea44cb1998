package models

import (
	"encoding/json"
	"strconv"
	"time"
)

// RecommendationType enumerates the five operator actions the engine knows
// how to apply.
type RecommendationType string

const (
	RecPriceChange    RecommendationType = "price_change"
	RecPromoCampaign  RecommendationType = "promo_campaign"
	RecHappyHours     RecommendationType = "happy_hours"
	RecMenuChange     RecommendationType = "menu_change"
	RecLoyaltyProgram RecommendationType = "loyalty_program"
)

// RecommendationParams carries the kind-specific inputs of one recommendation.
// Only the fields relevant to the kind are set.
type RecommendationParams struct {
	Category     string  `json:"category,omitempty"`
	ChangePct    float64 `json:"change_pct,omitempty"`
	Discount     float64 `json:"discount,omitempty"`
	DurationDays int     `json:"duration,omitempty"`
	Hours        string  `json:"hours,omitempty"`
	Action       string  `json:"action,omitempty"`
	Dish         string  `json:"dish,omitempty"`
	Improvement  string  `json:"improvement,omitempty"`
}

// Effect is the heuristic projected impact of an applied recommendation.
// Impacts are fractions: 0.25 means +25%.
type Effect struct {
	ProfitImpact   float64 `json:"profit_impact"`
	CustomerImpact float64 `json:"customer_impact"`
	Description    string  `json:"description"`
}

// ChangeRecord is one entry of the append-only change log. Records are never
// edited or removed once appended.
type ChangeRecord struct {
	Timestamp time.Time            `json:"timestamp"`
	Type      RecommendationType   `json:"type"`
	Params    RecommendationParams `json:"params"`
	Effects   Effect               `json:"effects"`
}

// MarshalJSON pins change-log timestamps to second-precision ISO-8601 so the
// persisted history is stable across sinks.
func (r ChangeRecord) MarshalJSON() ([]byte, error) {
	type alias struct {
		Timestamp string               `json:"timestamp"`
		Type      RecommendationType   `json:"type"`
		Params    RecommendationParams `json:"params"`
		Effects   Effect               `json:"effects"`
	}
	return json.Marshal(alias{
		Timestamp: r.Timestamp.Format(time.RFC3339),
		Type:      r.Type,
		Params:    r.Params,
		Effects:   r.Effects,
	})
}

// ChangeLogTable renders the change history for tabular sinks.
func ChangeLogTable(records []ChangeRecord) *Table {
	t := NewTable([]string{
		"timestamp", "type", "description", "profit_impact", "customer_impact",
	})
	for _, r := range records {
		t.AddRow(
			r.Timestamp.Format(time.RFC3339),
			string(r.Type),
			r.Effects.Description,
			strconv.FormatFloat(r.Effects.ProfitImpact, 'f', -1, 64),
			strconv.FormatFloat(r.Effects.CustomerImpact, 'f', -1, 64),
		)
	}
	return t
}
