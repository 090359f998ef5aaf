package ledger

import (
	"sync"

	"github.com/SscSPs/baki_khata/internal/core/domain"
)

// Store holds the full transaction list of one session, most recent first.
// Callers only ever see copies; the coordinator is the only writer.
type Store struct {
	mu  sync.RWMutex
	txs []domain.Transaction
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{txs: []domain.Transaction{}}
}

// ReplaceAll swaps the whole content of the store. An empty or nil slice clears it.
func (s *Store) ReplaceAll(txs []domain.Transaction) {
	s.replace(cloneTransactions(txs))
}

// Snapshot returns a full copy of the current content.
func (s *Store) Snapshot() []domain.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneTransactions(s.txs)
}

// replace takes ownership of txs without copying.
func (s *Store) replace(txs []domain.Transaction) {
	if txs == nil {
		txs = []domain.Transaction{}
	}
	s.mu.Lock()
	s.txs = txs
	s.mu.Unlock()
}

// cloneTransactions copies the slice. Transaction holds only value fields
// (decimal.Decimal is never mutated in place) so a shallow element copy is a deep copy.
func cloneTransactions(txs []domain.Transaction) []domain.Transaction {
	out := make([]domain.Transaction, len(txs))
	copy(out, txs)
	return out
}

func indexOf(txs []domain.Transaction, id string) int {
	for i := range txs {
		if txs[i].ID == id {
			return i
		}
	}
	return -1
}
