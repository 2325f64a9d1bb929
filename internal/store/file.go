package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"mpesa-insights/internal/models"
)

// FileStore is a TransactionStore persisted to a JSON file. Reads and
// upserts go through an in-memory index; Flush writes the current set back
// to disk.
type FileStore struct {
	*MemoryStore
	path string
}

// NewFileStore opens (or creates) a JSON-backed store at path.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{
		MemoryStore: NewMemoryStore(),
		path:        path,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("error reading transaction store: %w", err)
	}

	var transactions []models.Transaction
	if err := json.Unmarshal(data, &transactions); err != nil {
		return nil, fmt.Errorf("error parsing transaction store: %w", err)
	}

	for _, tx := range transactions {
		if err := s.MemoryStore.Upsert(tx); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Flush writes the current transaction set back to the backing file.
func (s *FileStore) Flush() error {
	transactions, err := s.QueryAll()
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("error creating store directory: %w", err)
	}

	data, err := json.MarshalIndent(transactions, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling transaction store: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("error writing transaction store: %w", err)
	}

	return nil
}
