package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mpesa-insights/internal/logging"
	"mpesa-insights/internal/models"
)

func sampleReport() *models.Report {
	return &models.Report{
		TotalTransactions: 7,
		FrequentMerchants: []models.MerchantFrequency{
			{
				Name:          "NAIVAS",
				Count:         3,
				TotalAmount:   decimal.NewFromInt(1500),
				AverageAmount: decimal.NewFromInt(500),
			},
		},
		RecurringBills: []models.RecurringBill{
			{
				PaybillNumber:     "888880",
				MerchantName:      "KPLC TOKENS",
				OccurrenceCount:   3,
				AverageAmount:     decimal.NewFromInt(510),
				SuggestedCategory: "UTILITIES",
			},
		},
	}
}

func TestMarshalJSON_Indented(t *testing.T) {
	exporter := NewExporter(&logging.MockLogger{})

	data, err := exporter.MarshalJSON(sampleReport())
	require.NoError(t, err)

	assert.Contains(t, string(data), "\"total_transactions\": 7")
	assert.Contains(t, string(data), "\"suggested_category\": \"UTILITIES\"")
}

func TestWriteJSON_RoundTrip(t *testing.T) {
	exporter := NewExporter(&logging.MockLogger{})
	path := filepath.Join(t.TempDir(), "out", "report.json")

	require.NoError(t, exporter.WriteJSON(sampleReport(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded models.Report
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, 7, decoded.TotalTransactions)
	require.Len(t, decoded.FrequentMerchants, 1)
	assert.Equal(t, "NAIVAS", decoded.FrequentMerchants[0].Name)
	assert.True(t, decoded.FrequentMerchants[0].TotalAmount.Equal(decimal.NewFromInt(1500)))
}

func TestWriteMerchantCSV(t *testing.T) {
	exporter := NewExporter(&logging.MockLogger{})
	path := filepath.Join(t.TempDir(), "merchants.csv")

	require.NoError(t, exporter.WriteMerchantCSV(sampleReport().FrequentMerchants, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	content := string(data)
	assert.Contains(t, content, "merchant")
	assert.Contains(t, content, "count")
	assert.Contains(t, content, "NAIVAS")
	assert.Contains(t, content, "1500")
}
