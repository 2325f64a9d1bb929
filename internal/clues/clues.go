// Package clues scans transaction text against the keyword taxonomy and
// turns the resulting hits into category guesses.
package clues

import (
	"sort"
	"strings"

	"mpesa-insights/internal/taxonomy"
)

// Separator joins category and keyword inside a clue tag.
const Separator = ":"

// Detector derives "CATEGORY:KEYWORD" clues from transaction text. All
// methods are pure; a Detector is safe for concurrent use.
type Detector struct {
	taxonomy *taxonomy.Taxonomy
}

// NewDetector creates a Detector over the given taxonomy.
func NewDetector(tax *taxonomy.Taxonomy) *Detector {
	return &Detector{taxonomy: tax}
}

// DetectClues returns every "CATEGORY:KEYWORD" tag whose keyword appears in
// the merchant name or message text. The result is deduplicated and sorted
// so identical inputs always yield an identical slice.
func (d *Detector) DetectClues(merchantName, text string) []string {
	haystack := strings.ToUpper(merchantName + " " + text)

	seen := make(map[string]struct{})
	var clues []string
	for _, category := range d.taxonomy.Categories() {
		for _, keyword := range d.taxonomy.Keywords(category) {
			if !strings.Contains(haystack, keyword) {
				continue
			}
			clue := category + Separator + keyword
			if _, ok := seen[clue]; ok {
				continue
			}
			seen[clue] = struct{}{}
			clues = append(clues, clue)
		}
	}

	sort.Strings(clues)
	return clues
}

// SuggestCategory tallies clues per category prefix and returns the category
// with the highest tally. Ties break to the lexicographically smallest
// category name so the result is deterministic. Returns "" when no clue
// carries a category prefix.
func (d *Detector) SuggestCategory(clues []string) string {
	tallies := make(map[string]int)
	for _, clue := range clues {
		idx := strings.Index(clue, Separator)
		if idx <= 0 {
			continue
		}
		tallies[clue[:idx]]++
	}

	best := ""
	bestCount := 0
	for category, count := range tallies {
		if count > bestCount || (count == bestCount && category < best) {
			best = category
			bestCount = count
		}
	}

	return best
}
