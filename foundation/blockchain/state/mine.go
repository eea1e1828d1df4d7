package state

import (
	"context"
	"fmt"

	"github.com/ardanlabs/minichain/foundation/blockchain/database"
)

// GenerateBlock drains the mempool into a new block, solves the POW puzzle
// and appends the block to the chain. The reward transaction always comes
// first, so a block is produced even when the mempool is empty. If mining
// is cancelled or the block can't be written, the drained transactions go
// back to the front of the mempool and the chain is left unchanged.
func (s *State) GenerateBlock(ctx context.Context) (database.Block, error) {
	s.mining.Lock()
	defer s.mining.Unlock()

	s.evHandler("state: GenerateBlock: MINING: started")
	defer s.evHandler("state: GenerateBlock: MINING: completed")

	// Capture the parameters in force for this block.
	s.mu.RLock()
	difficulty := s.difficulty
	reward := s.reward
	s.mu.RUnlock()

	var prevBlock *database.Block
	timeStamp := s.clock()
	if latest, exists := s.db.LatestBlock(); exists {
		prevBlock = &latest

		// A block can't be older than its parent.
		if timeStamp < latest.Header.TimeStamp {
			timeStamp = latest.Header.TimeStamp
		}
	}

	trans := s.mempool.Drain()

	s.evHandler("state: GenerateBlock: MINING: perform POW: txs[%d]", len(trans))

	// Attempt to create a new block by solving the POW puzzle. This can be cancelled.
	block, err := database.POW(ctx, database.POWArgs{
		Miner:      s.minerID,
		Reward:     reward,
		Difficulty: difficulty,
		TimeStamp:  timeStamp,
		PrevBlock:  prevBlock,
		Trans:      trans,
		Hasher:     s.hasher,
		Predicate:  s.predicate,
		Threads:    s.threads,
		EvHandler:  s.evHandler,
	})
	if err != nil {
		s.mempool.Requeue(trans)
		return database.Block{}, err
	}

	// Just check one more time we were not cancelled.
	if ctx.Err() != nil {
		s.mempool.Requeue(trans)
		return database.Block{}, ctx.Err()
	}

	s.evHandler("state: GenerateBlock: MINING: validate and update database")

	if err := s.db.Write(block); err != nil {
		s.mempool.Requeue(trans)
		return database.Block{}, fmt.Errorf("write block: %w", err)
	}

	s.evHandler("state: GenerateBlock: MINING: update accounts")

	s.accounts.ApplyBlock(block)

	s.evHandler("state: GenerateBlock: MINING: appended: blk[%s]: length[%d]", block.Hash(), s.db.Length())

	return block, nil
}

// ValidateChain walks the chain from the genesis block and re-checks every
// block against its parent: linkage, POW solution, transaction count,
// reward placement and merkle root.
func (s *State) ValidateChain() error {
	var prevBlock *database.Block
	var num uint64

	iter := s.db.ForEach()
	for block, err := iter.Next(); !iter.Done(); block, err = iter.Next() {
		if err != nil {
			return fmt.Errorf("block[%d]: %w", num, err)
		}

		if err := block.ValidateBlock(prevBlock, s.predicate, s.evHandler); err != nil {
			return fmt.Errorf("block[%d]: %w", num, err)
		}

		prev := block
		prevBlock = &prev
		num++
	}

	if num != s.db.Length() {
		return fmt.Errorf("chain length mismatch, got %d, exp %d", num, s.db.Length())
	}

	return nil
}
