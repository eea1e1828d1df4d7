package state

import (
	"errors"

	"github.com/ardanlabs/minichain/foundation/blockchain/accounts"
	"github.com/ardanlabs/minichain/foundation/blockchain/database"
)

// ErrAccountNotFound is returned when an account has never transacted.
var ErrAccountNotFound = errors.New("account not found")

// =============================================================================

// QueryBalance returns a copy of the balance information for the account.
func (s *State) QueryBalance(id string) (accounts.Info, error) {
	info, exists := s.accounts.Query(id)
	if !exists {
		return accounts.Info{}, ErrAccountNotFound
	}

	return info, nil
}

// QueryMempoolLength returns the current length of the mempool.
func (s *State) QueryMempoolLength() int {
	return s.mempool.Count()
}

// QueryBlock returns the block at the specified position, starting at 0
// for the genesis block.
func (s *State) QueryBlock(num uint64) (database.Block, error) {
	return s.db.GetBlock(num)
}

// QueryBlocksByAccount returns the set of blocks holding a transaction
// sent or received by the account. If the account is empty, all blocks
// are returned.
func (s *State) QueryBlocksByAccount(id string) ([]database.Block, error) {
	var out []database.Block

	iter := s.db.ForEach()
	for block, err := iter.Next(); !iter.Done(); block, err = iter.Next() {
		if err != nil {
			return nil, err
		}

		for _, tx := range block.Transactions() {
			if id == "" || tx.Sender == id || tx.Receiver == id {
				out = append(out, block)
				break
			}
		}
	}

	return out, nil
}
