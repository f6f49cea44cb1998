package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableRecords(t *testing.T) {
	table := NewTable([]string{"a", "b"})
	table.AddRow("1", "2")
	table.AddRow("3", "4")

	records := table.Records()
	require.Len(t, records, 2)
	assert.Equal(t, "1", records[0]["a"])
	assert.Equal(t, "4", records[1]["b"])
}

func TestTransactionsTableOptionalColumns(t *testing.T) {
	client := "C-101"
	rating := 5
	txs := []Transaction{
		{ID: "T1000", Category: "coffee", ClientID: &client, Rating: &rating},
		{ID: "T1001", Category: "tea"},
	}

	table := TransactionsTable(txs)
	records := table.Records()
	require.Len(t, records, 2)
	assert.Equal(t, "C-101", records[0]["client_id"])
	assert.Equal(t, "5", records[0]["rating"])
	assert.Empty(t, records[1]["client_id"])
	assert.Empty(t, records[1]["rating"])
}

func TestChangeRecordJSONTimestampFormat(t *testing.T) {
	record := ChangeRecord{
		Timestamp: time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC),
		Type:      RecPriceChange,
		Params:    RecommendationParams{Category: "coffee", ChangePct: 10},
		Effects:   Effect{ProfitImpact: 0.8, Description: "prices for coffee changed by +10.0%"},
	}

	data, err := json.Marshal(record)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "2024-05-01T12:30:00Z", decoded["timestamp"])
	assert.Equal(t, "price_change", decoded["type"])
}
