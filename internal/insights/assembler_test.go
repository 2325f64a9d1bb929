package insights

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mpesa-insights/internal/clues"
	"mpesa-insights/internal/logging"
	"mpesa-insights/internal/models"
	"mpesa-insights/internal/store"
	"mpesa-insights/internal/taxonomy"
)

func newTestAssembler(txStore store.TransactionStore) *Assembler {
	tax := taxonomy.Default()
	return NewAssembler(txStore, clues.NewDetector(tax), tax, &logging.MockLogger{})
}

func merchantTx(receipt, merchant string, amount float64, month time.Month, clueSet []string) models.Transaction {
	return models.Transaction{
		ReceiptNumber: receipt,
		MerchantName:  merchant,
		Amount:        decimal.NewFromFloat(amount),
		Direction:     models.DirectionExpense,
		Kind:          models.KindTill,
		Clues:         clueSet,
		Timestamp:     time.Date(2026, month, 10, 9, 0, 0, 0, time.UTC),
	}
}

func billTx(receipt, paybill string, amount float64, month time.Month) models.Transaction {
	return models.Transaction{
		ReceiptNumber: receipt,
		MerchantName:  "KPLC TOKENS",
		PaybillNumber: paybill,
		Amount:        decimal.NewFromFloat(amount),
		Direction:     models.DirectionExpense,
		Kind:          models.KindPaybill,
		Clues:         []string{"UTILITIES:KPLC"},
		Timestamp:     time.Date(2026, month, 5, 9, 0, 0, 0, time.UTC),
	}
}

func TestAssemble_ComposesReport(t *testing.T) {
	txStore := store.NewMemoryStore()

	foodClues := []string{"FOOD:RESTAURANT"}
	transactions := []models.Transaction{
		merchantTx("R1", "MAMA OLIECH", 450, time.January, foodClues),
		merchantTx("R2", "MAMA OLIECH", 500, time.February, foodClues),
		merchantTx("R3", "MAMA OLIECH", 700, time.March, foodClues),
		merchantTx("R4", "JAVA HOUSE", 350, time.March, foodClues),
		billTx("R5", "888880", 500, time.January),
		billTx("R6", "888880", 520, time.February),
		billTx("R7", "888880", 510, time.March),
	}
	for _, tx := range transactions {
		require.NoError(t, txStore.Upsert(tx))
	}

	assembler := newTestAssembler(txStore)
	report, err := assembler.Assemble(nil, Options{
		RecurringMinOccurrences: 3,
		SuggestionMinGroupSize:  3,
		TopMerchants:            5,
	})
	require.NoError(t, err)

	assert.Equal(t, 7, report.TotalTransactions)

	require.NotEmpty(t, report.FrequentMerchants)
	assert.Equal(t, "MAMA OLIECH", report.FrequentMerchants[0].Name)
	assert.Equal(t, 3, report.FrequentMerchants[0].Count)

	require.Len(t, report.RecurringBills, 1)
	assert.Equal(t, "888880", report.RecurringBills[0].PaybillNumber)
	assert.Equal(t, "UTILITIES", report.RecurringBills[0].SuggestedCategory)

	require.Len(t, report.CategorySuggestions, 2)
	assert.Equal(t, "FOOD", report.CategorySuggestions[0].CategoryName)
	assert.Equal(t, 4, report.CategorySuggestions[0].TransactionCount)
	assert.Equal(t, "UTILITIES", report.CategorySuggestions[1].CategoryName)
}

func TestAssemble_TopMerchantsTruncated(t *testing.T) {
	txStore := store.NewMemoryStore()

	for i, name := range []string{"ALPHA", "ALPHA", "ALPHA", "BETA", "BETA", "GAMMA"} {
		tx := merchantTx(fmt.Sprintf("R%d", i), name, 100, time.January, nil)
		require.NoError(t, txStore.Upsert(tx))
	}

	assembler := newTestAssembler(txStore)
	report, err := assembler.Assemble(nil, Options{
		RecurringMinOccurrences: 3,
		SuggestionMinGroupSize:  3,
		TopMerchants:            2,
	})
	require.NoError(t, err)

	require.Len(t, report.FrequentMerchants, 2)
	assert.Equal(t, "ALPHA", report.FrequentMerchants[0].Name)
	assert.Equal(t, "BETA", report.FrequentMerchants[1].Name)
}

func TestAssemble_ExcludesMappedFromSuggestions(t *testing.T) {
	txStore := store.NewMemoryStore()

	foodClues := []string{"FOOD:RESTAURANT"}
	for i := 0; i < 4; i++ {
		tx := merchantTx(fmt.Sprintf("R%d", i), "MAMA OLIECH", 450, time.January, foodClues)
		require.NoError(t, txStore.Upsert(tx))
	}

	assembler := newTestAssembler(txStore)
	report, err := assembler.Assemble(map[string]struct{}{"MAMA OLIECH": {}}, Options{
		RecurringMinOccurrences: 3,
		SuggestionMinGroupSize:  3,
		TopMerchants:            5,
	})
	require.NoError(t, err)

	assert.Empty(t, report.CategorySuggestions)
	// Mapping only affects suggestions; frequency still counts everything.
	require.Len(t, report.FrequentMerchants, 1)
	assert.Equal(t, 4, report.FrequentMerchants[0].Count)
}

// failingStore simulates a broken snapshot read.
type failingStore struct{}

func (failingStore) Upsert(models.Transaction) error { return nil }
func (failingStore) QueryAll() ([]models.Transaction, error) {
	return nil, errors.New("snapshot read failed")
}
func (failingStore) QueryByMerchant(string, int) ([]models.Transaction, error) {
	return nil, errors.New("snapshot read failed")
}
func (failingStore) DeleteAll() error { return nil }

func TestAssemble_FailsAtomically(t *testing.T) {
	assembler := newTestAssembler(failingStore{})

	report, err := assembler.Assemble(nil, Options{
		RecurringMinOccurrences: 3,
		SuggestionMinGroupSize:  3,
		TopMerchants:            5,
	})

	require.Error(t, err)
	assert.Nil(t, report)
}
