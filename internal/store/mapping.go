package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// MappingStore persists the merchant-to-category overrides a user has
// confirmed. Mapped merchants are excluded from suggestion generation. The
// backing file is a flat YAML map of merchant name to category name.
type MappingStore struct {
	mu       sync.RWMutex
	file     string
	mappings map[string]string
}

// NewMappingStore creates a MappingStore backed by the given YAML file. A
// missing file is treated as an empty mapping set, not an error.
func NewMappingStore(file string) (*MappingStore, error) {
	s := &MappingStore{
		file:     file,
		mappings: make(map[string]string),
	}

	data, err := os.ReadFile(file)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("error reading mapping file: %w", err)
	}

	if err := yaml.Unmarshal(data, &s.mappings); err != nil {
		return nil, fmt.Errorf("error parsing mapping file: %w", err)
	}
	if s.mappings == nil {
		s.mappings = make(map[string]string)
	}

	return s, nil
}

// MappedMerchants returns the set of merchant names (upper-cased) that
// already have a confirmed category.
func (s *MappingStore) MappedMerchants() map[string]struct{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]struct{}, len(s.mappings))
	for merchant := range s.mappings {
		result[strings.ToUpper(strings.TrimSpace(merchant))] = struct{}{}
	}
	return result
}

// CategoryFor returns the mapped category for a merchant, if any.
func (s *MappingStore) CategoryFor(merchant string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	target := strings.ToUpper(strings.TrimSpace(merchant))
	for name, category := range s.mappings {
		if strings.ToUpper(strings.TrimSpace(name)) == target {
			return category, true
		}
	}
	return "", false
}

// SetMapping records a merchant-to-category override and saves the file.
// This write comes from the surrounding settings surface, not the analytic
// core.
func (s *MappingStore) SetMapping(merchantName, categoryName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mappings[strings.TrimSpace(merchantName)] = categoryName
	return s.save()
}

func (s *MappingStore) save() error {
	if s.file == "" {
		return nil
	}

	dir := filepath.Dir(s.file)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating mapping directory: %w", err)
	}

	data, err := yaml.Marshal(s.mappings)
	if err != nil {
		return fmt.Errorf("error marshaling mappings: %w", err)
	}

	if err := os.WriteFile(s.file, data, 0644); err != nil {
		return fmt.Errorf("error writing mapping file: %w", err)
	}

	return nil
}
