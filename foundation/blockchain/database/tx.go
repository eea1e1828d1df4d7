package database

import (
	"errors"
	"fmt"
	"math"

	"github.com/ardanlabs/minichain/foundation/blockchain/signature"
)

// RewardSender is the sender recorded on the transaction that pays the
// miner for a block. It is not a real account.
const RewardSender = "Root"

// ErrInvalidAmount is returned when a transaction amount can't be
// serialized for hashing.
var ErrInvalidAmount = errors.New("amount must be a finite number")

// =============================================================================

// BlockTx is the transactional information between two parties. Once it is
// folded into a mined block it is owned by that block.
type BlockTx struct {
	Sender   string  `json:"sender"`   // Identifier of the party sending value.
	Receiver string  `json:"receiver"` // Identifier of the party receiving value.
	Amount   float64 `json:"amount"`   // Value moved from sender to receiver.
}

// NewBlockTx constructs a new transaction.
func NewBlockTx(sender string, receiver string, amount float64) (BlockTx, error) {
	tx := BlockTx{
		Sender:   sender,
		Receiver: receiver,
		Amount:   amount,
	}

	if err := tx.Validate(); err != nil {
		return BlockTx{}, err
	}

	return tx, nil
}

// NewRewardTx constructs the transaction that pays the miner of a block.
func NewRewardTx(miner string, amount float64) BlockTx {
	return BlockTx{
		Sender:   RewardSender,
		Receiver: miner,
		Amount:   amount,
	}
}

// Validate checks the transaction can be hashed. Balances and signatures
// are not checked.
func (tx BlockTx) Validate() error {
	if math.IsNaN(tx.Amount) || math.IsInf(tx.Amount, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidAmount, tx.Amount)
	}

	return nil
}

// IsReward reports whether the transaction has the form of a mining reward.
// Only the first transaction of a block pays the miner, a transaction sent
// by RewardSender anywhere else is an ordinary transfer.
func (tx BlockTx) IsReward() bool {
	return tx.Sender == RewardSender
}

// Hash implements the merkle Hashable interface for providing a hash
// of a block transaction.
func (tx BlockTx) Hash() string {
	return signature.Hash(tx)
}

// Equals implements the merkle Hashable interface for providing an equality
// check between two block transactions.
func (tx BlockTx) Equals(otherTx BlockTx) bool {
	return tx == otherTx
}

// String implements the Stringer interface for logging.
func (tx BlockTx) String() string {
	return fmt.Sprintf("%s->%s:%g", tx.Sender, tx.Receiver, tx.Amount)
}
