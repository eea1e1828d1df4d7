package state

import (
	"github.com/ardanlabs/minichain/foundation/blockchain/accounts"
	"github.com/ardanlabs/minichain/foundation/blockchain/database"
	"github.com/ardanlabs/minichain/foundation/blockchain/signature"
)

// MinerID returns the account credited with the mining rewards.
func (s *State) MinerID() string {
	return s.minerID
}

// Strategy returns the name of the difficulty strategy.
func (s *State) Strategy() string {
	return s.strategy
}

// Hasher returns the hasher used for headers and transactions.
func (s *State) Hasher() signature.Hasher {
	return s.hasher
}

// Difficulty returns the difficulty the next block will be mined with.
func (s *State) Difficulty() uint {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.difficulty
}

// Reward returns the reward the next block will pay.
func (s *State) Reward() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.reward
}

// Length returns the number of blocks in the chain.
func (s *State) Length() uint64 {
	return s.db.Length()
}

// LatestHash returns the hash of the latest block header.
func (s *State) LatestHash() string {
	return s.db.LatestHash()
}

// LatestBlock returns a copy the current latest block.
func (s *State) LatestBlock() database.Block {
	block, _ := s.db.LatestBlock()
	return block
}

// RetrieveBlocks returns every block starting with the genesis block.
func (s *State) RetrieveBlocks() ([]database.Block, error) {
	blocks := make([]database.Block, 0, s.db.Length())

	iter := s.db.ForEach()
	for block, err := iter.Next(); !iter.Done(); block, err = iter.Next() {
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, block)
	}

	return blocks, nil
}

// RetrieveMempool returns a copy of the mempool in submission order.
func (s *State) RetrieveMempool() []database.BlockTx {
	return s.mempool.Copy()
}

// RetrieveBalances returns a copy of the balance sheet.
func (s *State) RetrieveBalances() map[string]accounts.Info {
	return s.accounts.Copy()
}
