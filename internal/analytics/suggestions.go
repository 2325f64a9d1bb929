package analytics

import (
	"sort"
	"strings"

	"mpesa-insights/internal/clues"
	"mpesa-insights/internal/models"
	"mpesa-insights/internal/taxonomy"
)

// SuggestionAnalyzer groups unmapped transactions by their clue-derived
// category and emits ranked suggestions for clusters large enough to be
// worth surfacing.
type SuggestionAnalyzer struct {
	detector *clues.Detector
	taxonomy *taxonomy.Taxonomy
}

// NewSuggestionAnalyzer creates a SuggestionAnalyzer.
func NewSuggestionAnalyzer(detector *clues.Detector, tax *taxonomy.Taxonomy) *SuggestionAnalyzer {
	return &SuggestionAnalyzer{
		detector: detector,
		taxonomy: tax,
	}
}

// Analyze emits a CategorySuggestion for every clue-derived category with at
// least minGroupSize unmapped transactions. alreadyMapped holds the keys the
// surrounding settings layer has already assigned a category: upper-cased
// merchant names or receipt numbers, whichever granularity is available.
// Receipt numbers inside a suggestion preserve encounter order; the output
// is ranked by transaction count desc, total desc, category name asc.
func (a *SuggestionAnalyzer) Analyze(transactions []models.Transaction, alreadyMapped map[string]struct{}, minGroupSize int) []models.CategorySuggestion {
	groups := make(map[string]*models.CategorySuggestion)
	var order []string

	for _, tx := range transactions {
		if a.isMapped(tx, alreadyMapped) {
			continue
		}

		category := a.detector.SuggestCategory(tx.Clues)
		if category == "" {
			continue
		}

		group, exists := groups[category]
		if !exists {
			style := a.taxonomy.StyleFor(category)
			group = &models.CategorySuggestion{
				CategoryName: category,
				IconTag:      style.Icon,
				ColorTag:     style.Color,
			}
			groups[category] = group
			order = append(order, category)
		}

		group.TransactionCount++
		group.TotalAmount = group.TotalAmount.Add(tx.Amount)
		group.ReceiptNumbers = append(group.ReceiptNumbers, tx.ReceiptNumber)
	}

	var suggestions []models.CategorySuggestion
	for _, category := range order {
		group := groups[category]
		if group.TransactionCount < minGroupSize {
			continue
		}
		suggestions = append(suggestions, *group)
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		if suggestions[i].TransactionCount != suggestions[j].TransactionCount {
			return suggestions[i].TransactionCount > suggestions[j].TransactionCount
		}
		if !suggestions[i].TotalAmount.Equal(suggestions[j].TotalAmount) {
			return suggestions[i].TotalAmount.GreaterThan(suggestions[j].TotalAmount)
		}
		return suggestions[i].CategoryName < suggestions[j].CategoryName
	})

	return suggestions
}

func (a *SuggestionAnalyzer) isMapped(tx models.Transaction, alreadyMapped map[string]struct{}) bool {
	if len(alreadyMapped) == 0 {
		return false
	}

	if _, ok := alreadyMapped[strings.ToUpper(strings.TrimSpace(tx.MerchantName))]; ok && tx.MerchantName != "" {
		return true
	}

	_, ok := alreadyMapped[tx.ReceiptNumber]
	return ok
}
