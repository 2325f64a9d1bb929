package analytics

import (
	"mpesa-insights/internal/clues"
	"mpesa-insights/internal/models"
)

// RecurringBillDetector flags paybill groups whose payments repeat across
// distinct months.
type RecurringBillDetector struct {
	detector *clues.Detector
}

// NewRecurringBillDetector creates a detector that derives suggested
// categories for recurring bills via clue detection.
func NewRecurringBillDetector(detector *clues.Detector) *RecurringBillDetector {
	return &RecurringBillDetector{detector: detector}
}

// DetectRecurring flags a paybill group when its payments span at least
// minOccurrences distinct months. A burst of payments inside one month is
// not a recurring bill. The empty-key group produced by the aggregator for
// non-paybill transactions is skipped.
func (d *RecurringBillDetector) DetectRecurring(paybillGroups []models.PaybillFrequency, minOccurrences int) []models.RecurringBill {
	var bills []models.RecurringBill

	for _, group := range paybillGroups {
		if group.PaybillNumber == "" {
			continue
		}

		if distinctMonths(group.Transactions) < minOccurrences {
			continue
		}

		bills = append(bills, models.RecurringBill{
			PaybillNumber:     group.PaybillNumber,
			MerchantName:      group.MerchantName,
			OccurrenceCount:   group.Count,
			AverageAmount:     group.AverageAmount,
			SuggestedCategory: d.suggestedCategory(group.Transactions),
		})
	}

	return bills
}

// suggestedCategory derives a best-guess category from the most recent
// transaction in the group.
func (d *RecurringBillDetector) suggestedCategory(transactions []models.Transaction) string {
	if len(transactions) == 0 {
		return ""
	}

	latest := transactions[0]
	for _, tx := range transactions[1:] {
		if tx.Timestamp.After(latest.Timestamp) {
			latest = tx
		}
	}

	return d.detector.SuggestCategory(latest.Clues)
}

// distinctMonths counts the distinct calendar months the transactions fall
// into.
func distinctMonths(transactions []models.Transaction) int {
	months := make(map[string]struct{})
	for _, tx := range transactions {
		months[tx.Timestamp.Format("2006-01")] = struct{}{}
	}
	return len(months)
}
