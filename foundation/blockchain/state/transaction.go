package state

import "github.com/ardanlabs/minichain/foundation/blockchain/database"

// SubmitTransaction accepts a transaction for inclusion in the next block.
// Balances are not checked, only an amount that can't be hashed is refused.
func (s *State) SubmitTransaction(tx database.BlockTx) error {
	if err := tx.Validate(); err != nil {
		return err
	}

	n := s.mempool.Add(tx)
	s.evHandler("state: SubmitTransaction: tx[%s]: mempool[%d]", tx, n)

	if s.autoMine && s.Worker != nil {
		s.Worker.SignalStartMining()
	}

	return nil
}
