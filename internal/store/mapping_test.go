package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMappingStore_MissingFileIsEmpty(t *testing.T) {
	s, err := NewMappingStore(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Empty(t, s.MappedMerchants())
}

func TestMappingStore_LoadsExistingMappings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mappings.yaml")
	content := "Mama Oliech: FOOD\nKPLC TOKENS: UTILITIES\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	s, err := NewMappingStore(path)
	require.NoError(t, err)

	mapped := s.MappedMerchants()
	assert.Contains(t, mapped, "MAMA OLIECH")
	assert.Contains(t, mapped, "KPLC TOKENS")

	category, ok := s.CategoryFor("mama oliech")
	require.True(t, ok)
	assert.Equal(t, "FOOD", category)
}

func TestMappingStore_SetMappingPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mappings.yaml")

	s, err := NewMappingStore(path)
	require.NoError(t, err)
	require.NoError(t, s.SetMapping("Naivas", "SHOPPING"))

	reopened, err := NewMappingStore(path)
	require.NoError(t, err)

	category, ok := reopened.CategoryFor("NAIVAS")
	require.True(t, ok)
	assert.Equal(t, "SHOPPING", category)
}
