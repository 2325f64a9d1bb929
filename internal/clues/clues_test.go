package clues

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mpesa-insights/internal/taxonomy"
)

func TestDetectClues(t *testing.T) {
	detector := NewDetector(taxonomy.Default())

	tests := []struct {
		name     string
		merchant string
		text     string
		contains []string
		empty    bool
	}{
		{
			name:     "keyword in merchant name",
			merchant: "NAIVAS SUPERMARKET",
			text:     "paid on 6/2/26",
			contains: []string{"SHOPPING:NAIVAS", "SHOPPING:SUPERMARKET"},
		},
		{
			name:     "keyword in message text",
			merchant: "",
			text:     "You bought Ksh100.00 of airtime",
			contains: []string{"AIRTIME:AIRTIME"},
		},
		{
			name:     "case insensitive",
			merchant: "java house",
			text:     "lunch",
			contains: []string{"FOOD:JAVA"},
		},
		{
			name:     "multiple categories",
			merchant: "UBER",
			text:     "trip to the HOSPITAL",
			contains: []string{"TRANSPORT:UBER", "HEALTH:HOSPITAL"},
		},
		{
			name:     "no keywords",
			merchant: "XYZZY",
			text:     "nothing recognizable here",
			empty:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clueSet := detector.DetectClues(tt.merchant, tt.text)
			if tt.empty {
				assert.Empty(t, clueSet)
				return
			}
			for _, clue := range tt.contains {
				assert.Contains(t, clueSet, clue)
			}
		})
	}
}

func TestDetectClues_Deterministic(t *testing.T) {
	detector := NewDetector(taxonomy.Default())

	first := detector.DetectClues("NAIVAS", "paid to NAIVAS SUPERMARKET till 567890")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, detector.DetectClues("NAIVAS", "paid to NAIVAS SUPERMARKET till 567890"))
	}
}

func TestDetectClues_Sorted(t *testing.T) {
	detector := NewDetector(taxonomy.Default())

	clueSet := detector.DetectClues("UBER", "trip to the HOSPITAL after PIZZA")
	require.NotEmpty(t, clueSet)
	assert.IsIncreasing(t, clueSet)
}

func TestSuggestCategory(t *testing.T) {
	detector := NewDetector(taxonomy.Default())

	tests := []struct {
		name  string
		clues []string
		want  string
	}{
		{
			name:  "single category",
			clues: []string{"FOOD:PIZZA"},
			want:  "FOOD",
		},
		{
			name:  "majority wins",
			clues: []string{"FOOD:PIZZA", "FOOD:RESTAURANT", "SHOPPING:MALL"},
			want:  "FOOD",
		},
		{
			name:  "tie breaks to lexicographically smallest",
			clues: []string{"SHOPPING:MALL", "FOOD:PIZZA"},
			want:  "FOOD",
		},
		{
			name:  "no clues",
			clues: nil,
			want:  "",
		},
		{
			name:  "malformed clues ignored",
			clues: []string{"no-separator", ":leading"},
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, detector.SuggestCategory(tt.clues))
		})
	}
}
