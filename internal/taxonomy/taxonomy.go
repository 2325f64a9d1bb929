// Package taxonomy holds the fixed category/keyword table that clue
// detection runs against, plus the per-category presentation styles used
// when suggestions are rendered.
package taxonomy

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Category names. These are the only categories the pipeline emits.
const (
	CategoryTransport     = "TRANSPORT"
	CategoryFood          = "FOOD"
	CategoryUtilities     = "UTILITIES"
	CategoryWallet        = "WALLET"
	CategoryEntertainment = "ENTERTAINMENT"
	CategoryHealth        = "HEALTH"
	CategoryShopping      = "SHOPPING"
	CategoryAirtime       = "AIRTIME"
	CategoryData          = "DATA"
	CategoryEducation     = "EDUCATION"
)

// Style is the fixed icon and color assigned to a category. Presentation
// only; not user-configurable at this layer.
type Style struct {
	Icon  string `yaml:"icon"`
	Color string `yaml:"color"`
}

// Taxonomy is the immutable category-to-keywords table. Construct once at
// startup; never mutated afterwards.
type Taxonomy struct {
	keywords map[string][]string
	styles   map[string]Style
	names    []string
}

// overlayFile is the YAML shape for extending keyword lists per deployment.
type overlayFile struct {
	Categories []struct {
		Name     string   `yaml:"name"`
		Keywords []string `yaml:"keywords"`
	} `yaml:"categories"`
}

// Default returns the built-in taxonomy.
func Default() *Taxonomy {
	return build(defaultKeywords())
}

// Load returns the built-in taxonomy extended with keywords from an optional
// YAML overlay file. An empty path returns the defaults unchanged.
func Load(overlayPath string) (*Taxonomy, error) {
	keywords := defaultKeywords()

	if overlayPath != "" {
		data, err := os.ReadFile(overlayPath)
		if err != nil {
			if os.IsNotExist(err) {
				return build(keywords), nil
			}
			return nil, fmt.Errorf("error reading taxonomy overlay: %w", err)
		}

		var overlay overlayFile
		if err := yaml.Unmarshal(data, &overlay); err != nil {
			return nil, fmt.Errorf("error parsing taxonomy overlay: %w", err)
		}

		for _, category := range overlay.Categories {
			name := strings.ToUpper(strings.TrimSpace(category.Name))
			if _, known := keywords[name]; !known {
				// Overlays may only extend known categories; the style
				// table has no entry for anything else.
				continue
			}
			for _, keyword := range category.Keywords {
				keywords[name] = append(keywords[name], strings.ToUpper(strings.TrimSpace(keyword)))
			}
		}
	}

	return build(keywords), nil
}

func build(keywords map[string][]string) *Taxonomy {
	names := make([]string, 0, len(keywords))
	for name := range keywords {
		names = append(names, name)
	}
	sort.Strings(names)

	return &Taxonomy{
		keywords: keywords,
		styles:   defaultStyles(),
		names:    names,
	}
}

// Categories returns the category names in sorted order.
func (t *Taxonomy) Categories() []string {
	result := make([]string, len(t.names))
	copy(result, t.names)
	return result
}

// Keywords returns the uppercase keywords for a category.
func (t *Taxonomy) Keywords(category string) []string {
	keywords := t.keywords[category]
	result := make([]string, len(keywords))
	copy(result, keywords)
	return result
}

// StyleFor returns the icon/color pair for a category. Unknown categories
// get a neutral fallback style.
func (t *Taxonomy) StyleFor(category string) Style {
	if style, ok := t.styles[category]; ok {
		return style
	}
	return Style{Icon: "tag", Color: "#9E9E9E"}
}

func defaultKeywords() map[string][]string {
	return map[string][]string{
		CategoryTransport: {
			"MATATU", "BODA", "UBER", "BOLT", "LITTLE CAB", "FARE",
			"SGR", "FUEL", "PETROL", "SHELL", "TOTAL ENERGIES", "RUBIS", "PARKING",
		},
		CategoryFood: {
			"FOOD", "RESTAURANT", "HOTEL", "CAFE", "JAVA", "KFC",
			"PIZZA", "BUTCHERY", "GROCER", "CHICKEN", "DISHES",
		},
		CategoryUtilities: {
			"KPLC", "PREPAID TOKEN", "ELECTRICITY", "WATER", "NAIROBI WATER",
			"GARBAGE", "RENT", "LANDLORD",
		},
		CategoryWallet: {
			"MSHWARI", "M-SHWARI", "KCB M-PESA", "FULIZA", "POCHI",
			"WALLET", "SENT TO", "RECEIVED FROM",
		},
		CategoryEntertainment: {
			"NETFLIX", "SHOWMAX", "SPOTIFY", "DSTV", "GOTV", "CINEMA", "MOVIE",
		},
		CategoryHealth: {
			"HOSPITAL", "CLINIC", "PHARMACY", "CHEMIST", "NHIF", "SHA", "DENTAL",
		},
		CategoryShopping: {
			"SUPERMARKET", "NAIVAS", "QUICKMART", "CARREFOUR", "SHOP",
			"STORE", "BOUTIQUE", "MALL", "JUMIA", "KILIMALL",
		},
		CategoryAirtime: {
			"AIRTIME", "TOP UP", "TOPUP", "CREDIT PURCHASE",
		},
		CategoryData: {
			"DATA BUNDLE", "BUNDLES", "WIFI", "ZUKU", "FAIBA", "INTERNET", "HOME FIBRE",
		},
		CategoryEducation: {
			"SCHOOL", "FEES", "COLLEGE", "UNIVERSITY", "TUITION", "HELB",
		},
	}
}

func defaultStyles() map[string]Style {
	return map[string]Style{
		CategoryTransport:     {Icon: "bus", Color: "#1E88E5"},
		CategoryFood:          {Icon: "utensils", Color: "#F4511E"},
		CategoryUtilities:     {Icon: "bolt", Color: "#FDD835"},
		CategoryWallet:        {Icon: "wallet", Color: "#43A047"},
		CategoryEntertainment: {Icon: "film", Color: "#8E24AA"},
		CategoryHealth:        {Icon: "heartbeat", Color: "#E53935"},
		CategoryShopping:      {Icon: "shopping-cart", Color: "#FB8C00"},
		CategoryAirtime:       {Icon: "phone", Color: "#00ACC1"},
		CategoryData:          {Icon: "wifi", Color: "#3949AB"},
		CategoryEducation:     {Icon: "graduation-cap", Color: "#6D4C41"},
	}
}
