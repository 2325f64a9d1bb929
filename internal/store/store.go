// Package store provides transaction persistence with idempotent upsert
// semantics, plus the merchant-to-category mapping store consumed by the
// suggestion analyzer.
package store

import (
	"sort"
	"strings"
	"sync"

	"mpesa-insights/internal/models"
)

// TransactionStore is the persistence contract for parsed transactions.
// Upsert must be atomic and idempotent by receipt number: ingesting the same
// logical message twice (for example from overlapping lookback re-scans)
// leaves exactly one stored record.
type TransactionStore interface {
	// Upsert inserts the transaction, or leaves the existing record
	// untouched when one with the same receipt number is already stored.
	Upsert(tx models.Transaction) error

	// QueryAll returns a snapshot of every stored transaction.
	QueryAll() ([]models.Transaction, error)

	// QueryByMerchant returns up to limit transactions for a merchant,
	// matched case-insensitively. limit <= 0 means no limit.
	QueryByMerchant(name string, limit int) ([]models.Transaction, error)

	// DeleteAll removes every stored transaction. Administrative reset.
	DeleteAll() error
}

// MemoryStore is an in-memory TransactionStore. The mutex makes Upsert
// atomic, so concurrent ingestion of the same receipt cannot produce
// duplicates.
type MemoryStore struct {
	mu           sync.RWMutex
	transactions map[string]models.Transaction
	order        []string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		transactions: make(map[string]models.Transaction),
	}
}

// Upsert inserts the transaction unless its receipt number is already known.
func (s *MemoryStore) Upsert(tx models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.transactions[tx.ReceiptNumber]; exists {
		return nil
	}

	s.transactions[tx.ReceiptNumber] = tx
	s.order = append(s.order, tx.ReceiptNumber)
	return nil
}

// QueryAll returns stored transactions in insertion order.
func (s *MemoryStore) QueryAll() ([]models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.Transaction, 0, len(s.order))
	for _, receipt := range s.order {
		result = append(result, s.transactions[receipt])
	}
	return result, nil
}

// QueryByMerchant returns up to limit transactions whose merchant matches
// name case-insensitively, most recent first.
func (s *MemoryStore) QueryByMerchant(name string, limit int) ([]models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	target := strings.ToUpper(strings.TrimSpace(name))

	var result []models.Transaction
	for _, receipt := range s.order {
		tx := s.transactions[receipt]
		if strings.ToUpper(strings.TrimSpace(tx.MerchantName)) == target {
			result = append(result, tx)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Timestamp.After(result[j].Timestamp)
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// DeleteAll removes every stored transaction.
func (s *MemoryStore) DeleteAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.transactions = make(map[string]models.Transaction)
	s.order = nil
	return nil
}

// Count returns the number of stored transactions.
func (s *MemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.transactions)
}
