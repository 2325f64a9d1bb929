// Package insights composes the analytics views into the single report the
// onboarding and settings surfaces consume.
package insights

import (
	"fmt"

	"mpesa-insights/internal/analytics"
	"mpesa-insights/internal/clues"
	"mpesa-insights/internal/logging"
	"mpesa-insights/internal/models"
	"mpesa-insights/internal/store"
	"mpesa-insights/internal/taxonomy"
)

// Options tune report assembly.
type Options struct {
	// RecurringMinOccurrences is the distinct-month threshold for
	// flagging a paybill as recurring.
	RecurringMinOccurrences int

	// SuggestionMinGroupSize is the smallest category cluster worth
	// suggesting.
	SuggestionMinGroupSize int

	// TopMerchants truncates the frequent-merchant list. Presentation
	// concern, but deterministic and stable for identical input.
	TopMerchants int
}

// Assembler builds the combined insights report from the full current
// transaction set.
type Assembler struct {
	transactions store.TransactionStore
	aggregator   *analytics.FrequencyAggregator
	recurring    *analytics.RecurringBillDetector
	suggestions  *analytics.SuggestionAnalyzer
	logger       logging.Logger
}

// NewAssembler wires the analytics stages over a transaction store.
func NewAssembler(transactions store.TransactionStore, detector *clues.Detector, tax *taxonomy.Taxonomy, logger logging.Logger) *Assembler {
	return &Assembler{
		transactions: transactions,
		aggregator:   analytics.NewFrequencyAggregator(),
		recurring:    analytics.NewRecurringBillDetector(detector),
		suggestions:  analytics.NewSuggestionAnalyzer(detector, tax),
		logger:       logger,
	}
}

// Assemble computes the report from a consistent snapshot of the store. It
// fails atomically: a store read error yields no partial report.
func (a *Assembler) Assemble(alreadyMapped map[string]struct{}, opts Options) (*models.Report, error) {
	transactions, err := a.transactions.QueryAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read transactions for insights: %w", err)
	}

	merchants := a.aggregator.AggregateByMerchant(transactions)
	paybills := a.aggregator.AggregateByPaybill(transactions)

	report := &models.Report{
		TotalTransactions:   len(transactions),
		FrequentMerchants:   topMerchants(merchants, opts.TopMerchants),
		RecurringBills:      a.recurring.DetectRecurring(paybills, opts.RecurringMinOccurrences),
		CategorySuggestions: a.suggestions.Analyze(transactions, alreadyMapped, opts.SuggestionMinGroupSize),
	}

	a.logger.Info("Assembled insights report",
		logging.Field{Key: "transactions", Value: report.TotalTransactions},
		logging.Field{Key: "frequent_merchants", Value: len(report.FrequentMerchants)},
		logging.Field{Key: "recurring_bills", Value: len(report.RecurringBills)},
		logging.Field{Key: "suggestions", Value: len(report.CategorySuggestions)})

	return report, nil
}

// topMerchants truncates the already-ranked merchant list, dropping the
// empty-name group the aggregator keeps for conservation.
func topMerchants(merchants []models.MerchantFrequency, n int) []models.MerchantFrequency {
	var named []models.MerchantFrequency
	for _, m := range merchants {
		if m.Name == "" {
			continue
		}
		named = append(named, m)
	}

	if n > 0 && len(named) > n {
		named = named[:n]
	}
	return named
}
