// Package accounts maintains account balances derived from the mined blocks.
// Balances are informational only. Nothing stops a balance from going
// negative since transactions are not validated against them.
package accounts

import (
	"sync"

	"github.com/ardanlabs/minichain/foundation/blockchain/database"
)

// Info represents information stored for an individual account.
type Info struct {
	Balance  float64 `json:"balance"`
	Received uint    `json:"received"`
	Sent     uint    `json:"sent"`
}

// Accounts manages data related to accounts who have transacted on
// the blockchain.
type Accounts struct {
	info map[string]Info
	mu   sync.RWMutex
}

// New constructs an Accounts value with the transactions of the specified
// blocks applied.
func New(blocks ...database.Block) *Accounts {
	accts := Accounts{
		info: make(map[string]Info),
	}

	for _, block := range blocks {
		accts.ApplyBlock(block)
	}

	return &accts
}

// Reset clears all the account information.
func (act *Accounts) Reset() {
	act.mu.Lock()
	defer act.mu.Unlock()

	act.info = make(map[string]Info)
}

// Copy makes a copy of the current information for all accounts.
func (act *Accounts) Copy() map[string]Info {
	act.mu.RLock()
	defer act.mu.RUnlock()

	accounts := make(map[string]Info, len(act.info))
	for id, info := range act.info {
		accounts[id] = info
	}
	return accounts
}

// Query returns the information for the specified account. The boolean is
// false when the account has never transacted.
func (act *Accounts) Query(id string) (Info, bool) {
	act.mu.RLock()
	defer act.mu.RUnlock()

	info, exists := act.info[id]
	return info, exists
}

// ApplyBlock applies every transaction in the block. The first transaction
// is the mining reward and creates value, every other one moves it.
func (act *Accounts) ApplyBlock(block database.Block) {
	act.mu.Lock()
	defer act.mu.Unlock()

	for i, tx := range block.Transactions() {
		act.applyTransaction(tx, i == 0)
	}
}

// ApplyTransaction performs the business logic for applying a transaction
// to the balance sheet.
func (act *Accounts) ApplyTransaction(tx database.BlockTx) {
	act.mu.Lock()
	defer act.mu.Unlock()

	act.applyTransaction(tx, false)
}

// applyTransaction moves the amount. A minted amount has no sender to debit.
func (act *Accounts) applyTransaction(tx database.BlockTx, minted bool) {
	if !minted {
		from := act.info[tx.Sender]
		from.Balance -= tx.Amount
		from.Sent++
		act.info[tx.Sender] = from
	}

	to := act.info[tx.Receiver]
	to.Balance += tx.Amount
	to.Received++
	act.info[tx.Receiver] = to
}
