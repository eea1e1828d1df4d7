// Package state is the core API for the blockchain and implements all the
// business rules and processing.
package state

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/ardanlabs/minichain/foundation/blockchain/accounts"
	"github.com/ardanlabs/minichain/foundation/blockchain/database"
	"github.com/ardanlabs/minichain/foundation/blockchain/mempool"
	"github.com/ardanlabs/minichain/foundation/blockchain/signature"
	"github.com/ardanlabs/minichain/foundation/blockchain/storage/memory"
)

// DefaultReward is the amount paid to the miner of a block when the
// configuration doesn't specify one.
const DefaultReward = 100.0

// Set of errors returned when configuring the chain.
var (
	ErrNoMiner           = errors.New("miner id is required")
	ErrInvalidDifficulty = errors.New("difficulty is larger than the hash length")
	ErrInvalidReward     = errors.New("reward must be a finite number")
	ErrUnknownStrategy   = errors.New("unknown difficulty strategy")
)

// =============================================================================

// EventHandler defines a function that is called when events
// occur in the processing of persisting blocks.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by any
// package providing support for mining.
type Worker interface {
	Shutdown()
	SignalStartMining()
	SignalCancelMining()
}

// =============================================================================

// Config represents the configuration required to start the blockchain.
type Config struct {
	MinerID    string
	Difficulty uint
	Reward     *float64 // Nil pays DefaultReward.
	Strategy   string
	Hasher     signature.Hasher
	Threads    int
	AutoMine   bool
	Storage    database.Storage
	Clock      func() int64
	EvHandler  EventHandler
}

// State manages the blockchain database.
type State struct {
	minerID   string
	strategy  string
	hasher    signature.Hasher
	predicate database.Predicate
	threads   int
	autoMine  bool
	clock     func() int64
	evHandler EventHandler

	mu         sync.RWMutex
	difficulty uint
	reward     float64

	// Held for the whole of a block generation so only one block is
	// assembled and appended at a time.
	mining sync.Mutex

	db       *database.Database
	mempool  *mempool.Mempool
	accounts *accounts.Accounts

	Worker Worker
}

// New constructs a new blockchain for data management. When the storage
// holds no blocks, the genesis block is mined before New returns.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	if cfg.MinerID == "" {
		return nil, ErrNoMiner
	}

	if cfg.Difficulty > signature.HashLength {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDifficulty, cfg.Difficulty)
	}

	predicate, err := database.RetrievePredicate(cfg.Strategy)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStrategy, err)
	}

	strategy := cfg.Strategy
	if strategy == "" {
		strategy = database.StrategyLeadingZeros
	}

	reward := DefaultReward
	if cfg.Reward != nil {
		reward = *cfg.Reward
	}
	if math.IsNaN(reward) || math.IsInf(reward, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidReward, reward)
	}

	clock := cfg.Clock
	if clock == nil {
		clock = func() int64 { return time.Now().UnixMilli() }
	}

	// Without a storage the chain lives in memory only.
	strg := cfg.Storage
	if strg == nil {
		if strg, err = memory.New(); err != nil {
			return nil, err
		}
	}

	// Load and validate any blocks the storage already holds.
	db, err := database.New(strg, cfg.Hasher, predicate, ev)
	if err != nil {
		return nil, err
	}

	// Replay the stored blocks to rebuild the balance sheet.
	accts := accounts.New()
	iter := db.ForEach()
	for block, err := iter.Next(); !iter.Done(); block, err = iter.Next() {
		if err != nil {
			return nil, err
		}
		accts.ApplyBlock(block)
	}

	state := State{
		minerID:   cfg.MinerID,
		strategy:  strategy,
		hasher:    cfg.Hasher,
		predicate: predicate,
		threads:   cfg.Threads,
		autoMine:  cfg.AutoMine,
		clock:     clock,
		evHandler: ev,

		difficulty: cfg.Difficulty,
		reward:     reward,

		db:       db,
		mempool:  mempool.New(),
		accounts: accts,
	}

	if db.Length() == 0 {
		ev("state: New: mining genesis block: miner[%s]: difficulty[%d]", cfg.MinerID, cfg.Difficulty)

		if _, err := state.GenerateBlock(context.Background()); err != nil {
			return nil, fmt.Errorf("genesis: %w", err)
		}
	}

	// The Worker is not set here. The call to worker.Run will assign itself
	// and start everything up and running for the node.

	return &state, nil
}

// Shutdown cleanly brings the node down.
func (s *State) Shutdown() error {
	s.evHandler("state: shutdown: started")
	defer s.evHandler("state: shutdown: completed")

	// Stop all blockchain writing activity.
	if s.Worker != nil {
		s.Worker.Shutdown()
	}

	return s.db.Close()
}

// SetDifficulty changes the difficulty used for blocks assembled from
// now on. Blocks already mined keep the difficulty in their header.
func (s *State) SetDifficulty(difficulty uint) error {
	if difficulty > signature.HashLength {
		return fmt.Errorf("%w: %d", ErrInvalidDifficulty, difficulty)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.evHandler("state: SetDifficulty: from[%d]: to[%d]", s.difficulty, difficulty)
	s.difficulty = difficulty

	return nil
}

// SetReward changes the amount paid to the miner for blocks assembled from
// now on.
func (s *State) SetReward(reward float64) error {
	if math.IsNaN(reward) || math.IsInf(reward, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidReward, reward)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.evHandler("state: SetReward: from[%g]: to[%g]", s.reward, reward)
	s.reward = reward

	return nil
}
