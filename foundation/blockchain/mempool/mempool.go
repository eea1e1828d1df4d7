// Package mempool maintains the mempool for the blockchain.
package mempool

import (
	"sync"

	"github.com/ardanlabs/minichain/foundation/blockchain/database"
)

// Mempool represents a cache of transactions waiting to be mined, kept in
// the order they were submitted.
type Mempool struct {
	pool []database.BlockTx
	mu   sync.RWMutex
}

// New constructs a new mempool.
func New() *Mempool {
	return &Mempool{}
}

// Count returns the current number of transaction in the pool.
func (mp *Mempool) Count() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return len(mp.pool)
}

// Add appends a transaction to the end of the mempool and returns the new
// number of transactions in the pool.
func (mp *Mempool) Add(tx database.BlockTx) int {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = append(mp.pool, tx)

	return len(mp.pool)
}

// Requeue puts transactions back at the front of the mempool, ahead of
// anything submitted since they were drained.
func (mp *Mempool) Requeue(trans []database.BlockTx) {
	if len(trans) == 0 {
		return
	}

	mp.mu.Lock()
	defer mp.mu.Unlock()

	pool := make([]database.BlockTx, 0, len(trans)+len(mp.pool))
	pool = append(pool, trans...)
	mp.pool = append(pool, mp.pool...)
}

// Copy returns a copy of the transactions in submission order.
func (mp *Mempool) Copy() []database.BlockTx {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	cpy := make([]database.BlockTx, len(mp.pool))
	copy(cpy, mp.pool)

	return cpy
}

// Drain returns every transaction in submission order and leaves the
// mempool empty.
func (mp *Mempool) Drain() []database.BlockTx {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	trans := mp.pool
	mp.pool = nil

	return trans
}

// Truncate clears all the transactions from the pool.
func (mp *Mempool) Truncate() {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = nil
}
