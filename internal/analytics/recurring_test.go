package analytics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mpesa-insights/internal/clues"
	"mpesa-insights/internal/models"
	"mpesa-insights/internal/taxonomy"
)

func newRecurringDetector() *RecurringBillDetector {
	return NewRecurringBillDetector(clues.NewDetector(taxonomy.Default()))
}

func monthlyPaybill(receipts []string, paybill string, amounts []float64, months []time.Month, clueSet []string) []models.Transaction {
	var transactions []models.Transaction
	for i := range receipts {
		transactions = append(transactions, models.Transaction{
			ReceiptNumber: receipts[i],
			PaybillNumber: paybill,
			Amount:        decimal.NewFromFloat(amounts[i]),
			Direction:     models.DirectionExpense,
			Kind:          models.KindPaybill,
			Clues:         clueSet,
			Timestamp:     time.Date(2026, months[i], 10, 9, 0, 0, 0, time.UTC),
		})
	}
	return transactions
}

func TestDetectRecurring_FlagsDistinctMonths(t *testing.T) {
	detector := newRecurringDetector()
	aggregator := NewFrequencyAggregator()

	transactions := monthlyPaybill(
		[]string{"R1", "R2", "R3"},
		"888880",
		[]float64{500, 520, 510},
		[]time.Month{time.January, time.February, time.March},
		[]string{"UTILITIES:KPLC"},
	)

	groups := aggregator.AggregateByPaybill(transactions)
	bills := detector.DetectRecurring(groups, 3)

	require.Len(t, bills, 1)
	assert.Equal(t, "888880", bills[0].PaybillNumber)
	assert.Equal(t, 3, bills[0].OccurrenceCount)
	assert.True(t, bills[0].AverageAmount.Equal(decimal.NewFromInt(510)),
		"got average %s", bills[0].AverageAmount)
	assert.Equal(t, "UTILITIES", bills[0].SuggestedCategory)
}

func TestDetectRecurring_BurstInOneMonthNotRecurring(t *testing.T) {
	detector := newRecurringDetector()
	aggregator := NewFrequencyAggregator()

	transactions := monthlyPaybill(
		[]string{"R1", "R2", "R3"},
		"888880",
		[]float64{500, 520, 510},
		[]time.Month{time.January, time.January, time.January},
		nil,
	)

	groups := aggregator.AggregateByPaybill(transactions)
	assert.Empty(t, detector.DetectRecurring(groups, 3))
}

func TestDetectRecurring_BelowThreshold(t *testing.T) {
	detector := newRecurringDetector()
	aggregator := NewFrequencyAggregator()

	transactions := monthlyPaybill(
		[]string{"R1", "R2"},
		"400200",
		[]float64{300, 300},
		[]time.Month{time.January, time.February},
		nil,
	)

	groups := aggregator.AggregateByPaybill(transactions)
	assert.Empty(t, detector.DetectRecurring(groups, 3))
}

func TestDetectRecurring_SkipsEmptyPaybillGroup(t *testing.T) {
	detector := newRecurringDetector()
	aggregator := NewFrequencyAggregator()

	// Non-paybill transactions land in the aggregator's empty-key group;
	// they are never a recurring bill.
	transactions := []models.Transaction{
		tx("R1", "NAIVAS", 500),
		tx("R2", "NAIVAS", 500),
		tx("R3", "NAIVAS", 500),
	}
	for i := range transactions {
		transactions[i].Timestamp = time.Date(2026, time.Month(i+1), 10, 0, 0, 0, 0, time.UTC)
	}

	groups := aggregator.AggregateByPaybill(transactions)
	assert.Empty(t, detector.DetectRecurring(groups, 3))
}
