// Package analytics derives frequency statistics, recurring-bill flags and
// category suggestions from the accumulated transaction set. Everything here
// is recomputed from the full set on every run; nothing is patched
// incrementally.
package analytics

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"mpesa-insights/internal/models"
)

// FrequencyAggregator groups the transaction set by merchant name and by
// paybill number and computes counts, sums and averages.
type FrequencyAggregator struct{}

// NewFrequencyAggregator creates a FrequencyAggregator.
func NewFrequencyAggregator() *FrequencyAggregator {
	return &FrequencyAggregator{}
}

// AggregateByMerchant groups by case-normalized merchant name. Transactions
// without a merchant fall into a single empty-name group so that the sum
// over all groups always equals the sum over all transactions.
func (a *FrequencyAggregator) AggregateByMerchant(transactions []models.Transaction) []models.MerchantFrequency {
	groups := make(map[string]*models.MerchantFrequency)
	var order []string

	for _, tx := range transactions {
		key := strings.ToUpper(strings.TrimSpace(tx.MerchantName))
		group, exists := groups[key]
		if !exists {
			group = &models.MerchantFrequency{Name: key}
			groups[key] = group
			order = append(order, key)
		}
		group.Count++
		group.TotalAmount = group.TotalAmount.Add(tx.Amount)
	}

	result := make([]models.MerchantFrequency, 0, len(order))
	for _, key := range order {
		group := groups[key]
		group.AverageAmount = group.TotalAmount.Div(decimal.NewFromInt(int64(group.Count)))
		result = append(result, *group)
	}

	sortMerchantFrequencies(result)
	return result
}

// AggregateByPaybill groups by paybill number. Transactions without a
// paybill number land in a single empty-key group, preserving the
// conservation invariant on this dimension as well; consumers that only
// care about real paybills skip that group.
func (a *FrequencyAggregator) AggregateByPaybill(transactions []models.Transaction) []models.PaybillFrequency {
	groups := make(map[string]*models.PaybillFrequency)
	var order []string

	for _, tx := range transactions {
		key := strings.TrimSpace(tx.PaybillNumber)
		group, exists := groups[key]
		if !exists {
			group = &models.PaybillFrequency{PaybillNumber: key}
			groups[key] = group
			order = append(order, key)
		}
		group.Count++
		group.TotalAmount = group.TotalAmount.Add(tx.Amount)
		group.Transactions = append(group.Transactions, tx)
		if group.MerchantName == "" && tx.MerchantName != "" {
			group.MerchantName = strings.ToUpper(strings.TrimSpace(tx.MerchantName))
		}
	}

	result := make([]models.PaybillFrequency, 0, len(order))
	for _, key := range order {
		group := groups[key]
		group.AverageAmount = group.TotalAmount.Div(decimal.NewFromInt(int64(group.Count)))
		result = append(result, *group)
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		if !result[i].TotalAmount.Equal(result[j].TotalAmount) {
			return result[i].TotalAmount.GreaterThan(result[j].TotalAmount)
		}
		return result[i].PaybillNumber < result[j].PaybillNumber
	})
	return result
}

// sortMerchantFrequencies orders by count desc, then total desc, then name
// asc. The ordering is deterministic for identical input.
func sortMerchantFrequencies(frequencies []models.MerchantFrequency) {
	sort.SliceStable(frequencies, func(i, j int) bool {
		if frequencies[i].Count != frequencies[j].Count {
			return frequencies[i].Count > frequencies[j].Count
		}
		if !frequencies[i].TotalAmount.Equal(frequencies[j].TotalAmount) {
			return frequencies[i].TotalAmount.GreaterThan(frequencies[j].TotalAmount)
		}
		return frequencies[i].Name < frequencies[j].Name
	})
}
