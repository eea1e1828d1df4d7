// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/ardanlabs/minichain/business/web/errs"
	"github.com/ardanlabs/minichain/foundation/blockchain/database"
	"github.com/ardanlabs/minichain/foundation/blockchain/state"
	"github.com/ardanlabs/minichain/foundation/events"
	"github.com/ardanlabs/minichain/foundation/validate"
	"github.com/ardanlabs/minichain/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of public ledger endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	WS    websocket.Upgrader
	Evts  *events.Events
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	// The upgrade took over the connection, so record the protocol switch
	// for the request logger.
	web.SetStatusCode(ctx, http.StatusSwitchingProtocols)

	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return nil
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// Status returns the current parameters and length of the chain.
func (h Handlers) Status(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, newStatus(h.State), http.StatusOK)
}

// SubmitTransaction adds a new transaction to the mempool.
func (h Handlers) SubmitTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var ntx NewTx
	if err := web.Decode(r, &ntx); err != nil {
		return errs.BadRequest(err)
	}

	if err := validate.Check(ntx); err != nil {
		return err
	}

	tx, err := ntx.toBlockTx()
	if err != nil {
		return errs.BadRequest(err)
	}

	h.Log.Infow("add tran", "traceid", v.TraceID, "sender", tx.Sender, "receiver", tx.Receiver, "amount", tx.Amount)
	if err := h.State.SubmitTransaction(tx); err != nil {
		return errs.BadRequest(err)
	}

	resp := struct {
		Status      string `json:"status"`
		Uncommitted int    `json:"uncommitted"`
	}{
		Status:      "transaction added to mempool",
		Uncommitted: h.State.QueryMempoolLength(),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Mempool returns the set of uncommitted transactions in submission order.
func (h Handlers) Mempool(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.RetrieveMempool(), http.StatusOK)
}

// Balances returns the current balances for all accounts or the one
// account specified.
func (h Handlers) Balances(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	bals := balances{
		LatestBlock: h.State.LatestHash(),
		Uncommitted: h.State.QueryMempoolLength(),
		Balances:    []balance{},
	}

	if account := web.Param(r, "account"); account != "" {
		info, err := h.State.QueryBalance(account)
		if err != nil {
			if errors.Is(err, state.ErrAccountNotFound) {
				return errs.NotFound(fmt.Errorf("account %q: %w", account, err))
			}
			return err
		}

		bals.Balances = append(bals.Balances, balance{
			Account:  account,
			Balance:  info.Balance,
			Received: info.Received,
			Sent:     info.Sent,
		})

		return web.Respond(ctx, w, bals, http.StatusOK)
	}

	for account, info := range h.State.RetrieveBalances() {
		bals.Balances = append(bals.Balances, balance{
			Account:  account,
			Balance:  info.Balance,
			Received: info.Received,
			Sent:     info.Sent,
		})
	}

	sort.Slice(bals.Balances, func(i, j int) bool {
		return bals.Balances[i].Account < bals.Balances[j].Account
	})

	return web.Respond(ctx, w, bals, http.StatusOK)
}

// Blocks returns all the blocks and their details.
func (h Handlers) Blocks(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	blocks, err := h.State.RetrieveBlocks()
	if err != nil {
		return err
	}

	return web.Respond(ctx, w, toBlockData(blocks), http.StatusOK)
}

// BlockByNumber returns the block at the specified position in the chain,
// starting at 0 for the genesis block.
func (h Handlers) BlockByNumber(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	num, err := strconv.ParseUint(web.Param(r, "num"), 10, 64)
	if err != nil {
		return errs.BadRequest(fmt.Errorf("invalid block number: %w", err))
	}

	block, err := h.State.QueryBlock(num)
	if err != nil {
		if errors.Is(err, database.ErrBlockNotFound) {
			return errs.NotFound(fmt.Errorf("block %d: %w", num, err))
		}
		return err
	}

	return web.Respond(ctx, w, database.NewBlockData(block), http.StatusOK)
}

// BlocksByAccount returns the blocks holding a transaction for the account.
func (h Handlers) BlocksByAccount(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	blocks, err := h.State.QueryBlocksByAccount(web.Param(r, "account"))
	if err != nil {
		return err
	}

	if len(blocks) == 0 {
		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}

	return web.Respond(ctx, w, toBlockData(blocks), http.StatusOK)
}
