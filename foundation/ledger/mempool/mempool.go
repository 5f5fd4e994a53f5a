// Package mempool maintains the ordered pool of transactions waiting to be
// mined. Transactions are drained strictly first in, first out; there is no
// transaction-level priority.
package mempool

import (
	"sync"

	"github.com/minichain/minichain/foundation/ledger/database"
)

// Mempool represents the pending pool of signed transactions in submission
// order.
type Mempool struct {
	mu   sync.RWMutex
	pool []database.SignedTx
}

// New constructs a new mempool.
func New() *Mempool {
	return &Mempool{}
}

// Count returns the current number of transactions in the pool.
func (mp *Mempool) Count() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return len(mp.pool)
}

// Append adds a transaction to the back of the pool.
func (mp *Mempool) Append(tx database.SignedTx) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = append(mp.pool, tx)
}

// PickAll returns a copy of every pending transaction in submission order.
func (mp *Mempool) PickAll() []database.SignedTx {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	trans := make([]database.SignedTx, len(mp.pool))
	copy(trans, mp.pool)

	return trans
}

// Truncate clears all the transactions from the pool.
func (mp *Mempool) Truncate() {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = nil
}
