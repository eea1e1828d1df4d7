// Package database handles all the lower level support for maintaining the
// blockchain: the block and transaction model, the proof of work search, and
// the ordered set of mined blocks held by a storage implementation.
package database

import (
	"errors"
	"sync"

	"github.com/ardanlabs/minichain/foundation/blockchain/signature"
)

// ErrBlockNotFound is returned when a block number is not in the chain.
var ErrBlockNotFound = errors.New("block does not exist")

// Storage interface represents the behavior required to be implemented by any
// package providing support for storing and reading the blockchain.
type Storage interface {
	Write(blockData BlockData) error
	GetBlock(num uint64) (BlockData, error)
	ForEach() Iterator
	Close() error
	Reset() error
}

// Iterator interface represents the behavior required to be implemented by any
// package providing support to iterate over the blocks.
type Iterator interface {
	Next() (BlockData, error)
	Done() bool
}

// =============================================================================

// DatabaseIterator converts stored block data into blocks while iterating.
type DatabaseIterator struct {
	iterator Iterator
	hasher   signature.Hasher
}

// Next retrieves the next block from storage.
func (di *DatabaseIterator) Next() (Block, error) {
	blockData, err := di.iterator.Next()
	if err != nil {
		return Block{}, err
	}

	return ToBlock(blockData, di.hasher)
}

// Done returns the end of chain value.
func (di *DatabaseIterator) Done() bool {
	return di.iterator.Done()
}

// =============================================================================

// Database manages the ordered set of blocks that form the chain.
type Database struct {
	mu sync.RWMutex

	hasher      signature.Hasher
	predicate   Predicate
	latestBlock *Block
	length      uint64

	storage Storage
}

// New constructs a new database over the specified storage. Any blocks
// already held by the storage are validated in order.
func New(storage Storage, hasher signature.Hasher, predicate Predicate, evHandler func(v string, args ...any)) (*Database, error) {
	db := Database{
		hasher:    hasher,
		predicate: predicate,
		storage:   storage,
	}

	iter := db.ForEach()
	for block, err := iter.Next(); !iter.Done(); block, err = iter.Next() {
		if err != nil {
			return nil, err
		}

		if err := block.ValidateBlock(db.latestBlock, predicate, evHandler); err != nil {
			return nil, err
		}

		latest := block
		db.latestBlock = &latest
		db.length++
	}

	return &db, nil
}

// Close closes the underlying storage.
func (db *Database) Close() error {
	return db.storage.Close()
}

// Reset clears out the chain.
func (db *Database) Reset() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.latestBlock = nil
	db.length = 0

	return db.storage.Reset()
}

// Write validates the block against the latest block and adds it to
// the chain.
func (db *Database) Write(block Block) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if err := block.ValidateBlock(db.latestBlock, db.predicate, nil); err != nil {
		return err
	}

	if err := db.storage.Write(NewBlockData(block)); err != nil {
		return err
	}

	db.latestBlock = &block
	db.length++

	return nil
}

// LatestBlock returns the last block in the chain. The boolean is false
// when the chain is empty.
func (db *Database) LatestBlock() (Block, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if db.latestBlock == nil {
		return Block{}, false
	}

	return *db.latestBlock, true
}

// LatestHash returns the hash of the last block header, or the zero hash
// when the chain is empty.
func (db *Database) LatestHash() string {
	block, exists := db.LatestBlock()
	if !exists {
		return signature.ZeroHash
	}

	return block.Hash()
}

// Length returns the number of blocks in the chain.
func (db *Database) Length() uint64 {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return db.length
}

// GetBlock returns the block at the specified position, starting at 0
// for the genesis block.
func (db *Database) GetBlock(num uint64) (Block, error) {
	blockData, err := db.storage.GetBlock(num)
	if err != nil {
		return Block{}, err
	}

	return ToBlock(blockData, db.hasher)
}

// ForEach returns an iterator to walk through all the blocks starting
// with the genesis block.
func (db *Database) ForEach() DatabaseIterator {
	return DatabaseIterator{iterator: db.storage.ForEach(), hasher: db.hasher}
}
