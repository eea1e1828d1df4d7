package public

import (
	"github.com/ardanlabs/minichain/foundation/blockchain/database"
	"github.com/ardanlabs/minichain/foundation/blockchain/state"
)

// NewTx is what we require from clients when submitting a transaction.
type NewTx struct {
	Sender   string  `json:"sender" validate:"required"`
	Receiver string  `json:"receiver" validate:"required"`
	Amount   float64 `json:"amount" validate:"finite"`
}

// toBlockTx converts the request into a transaction for the mempool.
func (ntx NewTx) toBlockTx() (database.BlockTx, error) {
	return database.NewBlockTx(ntx.Sender, ntx.Receiver, ntx.Amount)
}

// =============================================================================

type status struct {
	Miner       string  `json:"miner"`
	Length      uint64  `json:"length"`
	LatestHash  string  `json:"latest_hash"`
	Difficulty  uint    `json:"difficulty"`
	Reward      float64 `json:"reward"`
	Strategy    string  `json:"strategy"`
	Hasher      string  `json:"hasher"`
	Uncommitted int     `json:"uncommitted"`
}

func newStatus(st *state.State) status {
	return status{
		Miner:       st.MinerID(),
		Length:      st.Length(),
		LatestHash:  st.LatestHash(),
		Difficulty:  st.Difficulty(),
		Reward:      st.Reward(),
		Strategy:    st.Strategy(),
		Hasher:      st.Hasher().String(),
		Uncommitted: st.QueryMempoolLength(),
	}
}

type balance struct {
	Account  string  `json:"account"`
	Balance  float64 `json:"balance"`
	Received uint    `json:"received"`
	Sent     uint    `json:"sent"`
}

type balances struct {
	LatestBlock string    `json:"latest_block"`
	Uncommitted int       `json:"uncommitted"`
	Balances    []balance `json:"balances"`
}

func toBlockData(blocks []database.Block) []database.BlockData {
	out := make([]database.BlockData, len(blocks))
	for i, block := range blocks {
		out[i] = database.NewBlockData(block)
	}
	return out
}
