// Package private maintains the group of handlers for node administration.
package private

import (
	"context"
	"errors"
	"net/http"

	"github.com/ardanlabs/minichain/business/web/errs"
	"github.com/ardanlabs/minichain/foundation/blockchain/state"
	"github.com/ardanlabs/minichain/foundation/validate"
	"github.com/ardanlabs/minichain/foundation/web"
	"go.uber.org/zap"
)

// Handlers manages the set of node administration endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
}

// SignalMining asks the worker to mine the transactions in the mempool.
func (h Handlers) SignalMining(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if h.State.Worker == nil {
		return errs.NewTrusted(errors.New("mining worker is not running"), http.StatusServiceUnavailable)
	}

	h.State.Worker.SignalStartMining()

	resp := struct {
		Status      string `json:"status"`
		Uncommitted int    `json:"uncommitted"`
	}{
		Status:      "mining signaled",
		Uncommitted: h.State.QueryMempoolLength(),
	}

	return web.Respond(ctx, w, resp, http.StatusAccepted)
}

// CancelMining asks the worker to stop the current mining operation. The
// transactions being mined go back to the mempool.
func (h Handlers) CancelMining(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if h.State.Worker == nil {
		return errs.NewTrusted(errors.New("mining worker is not running"), http.StatusServiceUnavailable)
	}

	h.State.Worker.SignalCancelMining()

	resp := struct {
		Status string `json:"status"`
	}{
		Status: "mining cancel signaled",
	}

	return web.Respond(ctx, w, resp, http.StatusAccepted)
}

// SetDifficulty changes the difficulty used for the next block.
func (h Handlers) SetDifficulty(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var req struct {
		Difficulty uint `json:"difficulty" validate:"lte=64"`
	}
	if err := web.Decode(r, &req); err != nil {
		return errs.BadRequest(err)
	}

	if err := validate.Check(req); err != nil {
		return err
	}

	if err := h.State.SetDifficulty(req.Difficulty); err != nil {
		return errs.BadRequest(err)
	}

	return web.Respond(ctx, w, req, http.StatusOK)
}

// SetReward changes the reward paid for the next block.
func (h Handlers) SetReward(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var req struct {
		Reward float64 `json:"reward" validate:"finite"`
	}
	if err := web.Decode(r, &req); err != nil {
		return errs.BadRequest(err)
	}

	if err := validate.Check(req); err != nil {
		return err
	}

	if err := h.State.SetReward(req.Reward); err != nil {
		return errs.BadRequest(err)
	}

	return web.Respond(ctx, w, req, http.StatusOK)
}

// ValidateChain re-checks every block in the chain.
func (h Handlers) ValidateChain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	resp := struct {
		Valid  bool   `json:"valid"`
		Length uint64 `json:"length"`
		Error  string `json:"error,omitempty"`
	}{
		Valid:  true,
		Length: h.State.Length(),
	}

	if err := h.State.ValidateChain(); err != nil {
		resp.Valid = false
		resp.Error = err.Error()
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}
