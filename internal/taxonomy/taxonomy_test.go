package taxonomy

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_CoversAllCategories(t *testing.T) {
	tax := Default()

	expected := []string{
		CategoryAirtime, CategoryData, CategoryEducation, CategoryEntertainment,
		CategoryFood, CategoryHealth, CategoryShopping, CategoryTransport,
		CategoryUtilities, CategoryWallet,
	}

	assert.ElementsMatch(t, expected, tax.Categories())

	for _, category := range tax.Categories() {
		assert.NotEmpty(t, tax.Keywords(category), "category %s has no keywords", category)
	}
}

func TestDefault_KeywordsAreUppercase(t *testing.T) {
	tax := Default()

	for _, category := range tax.Categories() {
		for _, keyword := range tax.Keywords(category) {
			assert.Equal(t, keyword, strings.ToUpper(keyword), "keyword %q in %s is not uppercase", keyword, category)
		}
	}
}

func TestStyleFor(t *testing.T) {
	tax := Default()

	style := tax.StyleFor(CategoryFood)
	assert.Equal(t, "utensils", style.Icon)
	assert.NotEmpty(t, style.Color)

	fallback := tax.StyleFor("NO_SUCH_CATEGORY")
	assert.Equal(t, "tag", fallback.Icon)
}

func TestLoad_NoOverlay(t *testing.T) {
	tax, err := Load("")
	require.NoError(t, err)
	assert.ElementsMatch(t, Default().Categories(), tax.Categories())
}

func TestLoad_MissingOverlayFile(t *testing.T) {
	tax, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.ElementsMatch(t, Default().Categories(), tax.Categories())
}

func TestLoad_OverlayExtendsKeywords(t *testing.T) {
	overlay := `categories:
  - name: food
    keywords:
      - nyama choma
  - name: UNKNOWN
    keywords:
      - ignored
`
	path := filepath.Join(t.TempDir(), "taxonomy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(overlay), 0644))

	tax, err := Load(path)
	require.NoError(t, err)

	assert.Contains(t, tax.Keywords(CategoryFood), "NYAMA CHOMA")
	// Unknown categories cannot be introduced by overlay.
	assert.NotContains(t, tax.Categories(), "UNKNOWN")
}

func TestLoad_MalformedOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taxonomy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("categories: [not: valid"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}
