package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/ardanlabs/minichain/app/services/node/handlers"
	"github.com/ardanlabs/minichain/foundation/blockchain/database"
	"github.com/ardanlabs/minichain/foundation/blockchain/state"
	"github.com/ardanlabs/minichain/foundation/events"
	"github.com/ardanlabs/minichain/foundation/logger"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

type apiTest struct {
	public  http.Handler
	private http.Handler
	state   *state.State
}

func newAPITest(t *testing.T) *apiTest {
	log, err := logger.New("TEST", os.DevNull)
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct a logger: %s", failed, err)
	}

	st, err := state.New(state.Config{MinerID: "miner1"})
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct the chain: %s", failed, err)
	}

	cfg := handlers.MuxConfig{
		Shutdown: make(chan os.Signal, 1),
		Log:      log,
		State:    st,
		Evts:     events.New(),
		Origins:  []string{"*"},
	}

	return &apiTest{
		public:  handlers.PublicMux(cfg),
		private: handlers.PrivateMux(cfg),
		state:   st,
	}
}

func call(h http.Handler, method string, path string, body string, resp any) int {
	var r *http.Request
	switch body {
	case "":
		r = httptest.NewRequest(method, path, nil)
	default:
		r = httptest.NewRequest(method, path, strings.NewReader(body))
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if resp != nil && w.Body.Len() > 0 {
		json.NewDecoder(w.Body).Decode(resp)
	}

	return w.Code
}

func Test_PublicAPI(t *testing.T) {
	at := newAPITest(t)

	t.Log("Given the need to use the public ledger api.")
	{
		t.Logf("\tTest 0:\tWhen submitting transactions.")
		{
			if code := call(at.public, http.MethodPost, "/v1/tx/submit", `{"sender":"bob","receiver":"carol","amount":5}`, nil); code != http.StatusOK {
				t.Fatalf("\t%s\tTest 0:\tShould accept a valid transaction, got %d.", failed, code)
			}
			t.Logf("\t%s\tTest 0:\tShould accept a valid transaction.", success)

			var er struct {
				Error  string            `json:"error"`
				Fields map[string]string `json:"fields"`
			}
			if code := call(at.public, http.MethodPost, "/v1/tx/submit", `{"receiver":"carol","amount":5}`, &er); code != http.StatusBadRequest {
				t.Fatalf("\t%s\tTest 0:\tShould refuse a transaction without a sender, got %d.", failed, code)
			}
			if _, exists := er.Fields["sender"]; !exists {
				t.Fatalf("\t%s\tTest 0:\tShould report the sender field: %+v", failed, er)
			}
			t.Logf("\t%s\tTest 0:\tShould refuse a transaction without a sender.", success)

			var pool []database.BlockTx
			if code := call(at.public, http.MethodGet, "/v1/tx/uncommitted/list", "", &pool); code != http.StatusOK || len(pool) != 1 {
				t.Fatalf("\t%s\tTest 0:\tShould list the pending transaction, got %d %v.", failed, code, pool)
			}
			t.Logf("\t%s\tTest 0:\tShould list the pending transaction.", success)
		}

		t.Logf("\tTest 1:\tWhen reading the chain after mining a block.")
		{
			if _, err := at.state.GenerateBlock(context.Background()); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to mine a block: %s", failed, err)
			}

			var status struct {
				Length     uint64 `json:"length"`
				LatestHash string `json:"latest_hash"`
			}
			if code := call(at.public, http.MethodGet, "/v1/chain/status", "", &status); code != http.StatusOK {
				t.Fatalf("\t%s\tTest 1:\tShould get the chain status, got %d.", failed, code)
			}
			if status.Length != 2 || status.LatestHash != at.state.LatestHash() {
				t.Fatalf("\t%s\tTest 1:\tShould report the chain length and hash: %+v", failed, status)
			}
			t.Logf("\t%s\tTest 1:\tShould report the chain length and hash.", success)

			var block database.BlockData
			if code := call(at.public, http.MethodGet, "/v1/blocks/list/1", "", &block); code != http.StatusOK {
				t.Fatalf("\t%s\tTest 1:\tShould get block 1, got %d.", failed, code)
			}
			if block.Hash != at.state.LatestHash() || block.Count != 2 || block.Trans[1].Receiver != "carol" {
				t.Fatalf("\t%s\tTest 1:\tShould get back the mined block: %+v", failed, block)
			}
			t.Logf("\t%s\tTest 1:\tShould get back the mined block.", success)

			if code := call(at.public, http.MethodGet, "/v1/blocks/list/9", "", nil); code != http.StatusNotFound {
				t.Fatalf("\t%s\tTest 1:\tShould not find block 9, got %d.", failed, code)
			}
			if code := call(at.public, http.MethodGet, "/v1/blocks/list/x", "", nil); code != http.StatusBadRequest {
				t.Fatalf("\t%s\tTest 1:\tShould refuse a bad block number, got %d.", failed, code)
			}
			t.Logf("\t%s\tTest 1:\tShould refuse unknown and bad block numbers.", success)

			var blocks []database.BlockData
			if code := call(at.public, http.MethodGet, "/v1/blocks/list", "", &blocks); code != http.StatusOK || len(blocks) != 2 {
				t.Fatalf("\t%s\tTest 1:\tShould list every block, got %d %d.", failed, code, len(blocks))
			}
			t.Logf("\t%s\tTest 1:\tShould list every block.", success)

			if code := call(at.public, http.MethodGet, "/v1/blocks/account/nobody", "", nil); code != http.StatusNoContent {
				t.Fatalf("\t%s\tTest 1:\tShould find no blocks for an unknown account, got %d.", failed, code)
			}
			t.Logf("\t%s\tTest 1:\tShould find no blocks for an unknown account.", success)

			var bals struct {
				Balances []struct {
					Account string  `json:"account"`
					Balance float64 `json:"balance"`
				} `json:"balances"`
			}
			if code := call(at.public, http.MethodGet, "/v1/balances/list/carol", "", &bals); code != http.StatusOK {
				t.Fatalf("\t%s\tTest 1:\tShould get the balance for carol, got %d.", failed, code)
			}
			if len(bals.Balances) != 1 || bals.Balances[0].Balance != 5 {
				t.Fatalf("\t%s\tTest 1:\tShould credit carol: %+v", failed, bals)
			}
			t.Logf("\t%s\tTest 1:\tShould credit carol.", success)

			if code := call(at.public, http.MethodGet, "/v1/balances/list", "", &bals); code != http.StatusOK || len(bals.Balances) != 3 {
				t.Fatalf("\t%s\tTest 1:\tShould list the three accounts, got %d %+v.", failed, code, bals)
			}
			if bals.Balances[0].Account != "bob" || bals.Balances[2].Account != "miner1" {
				t.Fatalf("\t%s\tTest 1:\tShould sort the accounts: %+v", failed, bals)
			}
			t.Logf("\t%s\tTest 1:\tShould list the accounts in order.", success)

			if code := call(at.public, http.MethodGet, "/v1/balances/list/nobody", "", nil); code != http.StatusNotFound {
				t.Fatalf("\t%s\tTest 1:\tShould not find an unknown account, got %d.", failed, code)
			}
			t.Logf("\t%s\tTest 1:\tShould not find an unknown account.", success)
		}
	}
}

func Test_PrivateAPI(t *testing.T) {
	at := newAPITest(t)

	t.Log("Given the need to administer the node.")
	{
		t.Logf("\tTest 0:\tWhen changing the chain parameters.")
		{
			if code := call(at.private, http.MethodPut, "/v1/node/chain/difficulty", `{"difficulty":1}`, nil); code != http.StatusOK {
				t.Fatalf("\t%s\tTest 0:\tShould set the difficulty, got %d.", failed, code)
			}
			if code := call(at.private, http.MethodPut, "/v1/node/chain/reward", `{"reward":25}`, nil); code != http.StatusOK {
				t.Fatalf("\t%s\tTest 0:\tShould set the reward, got %d.", failed, code)
			}
			if at.state.Difficulty() != 1 || at.state.Reward() != 25 {
				t.Fatalf("\t%s\tTest 0:\tShould apply the new parameters.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould apply the new parameters.", success)

			if code := call(at.private, http.MethodPut, "/v1/node/chain/difficulty", `{"difficulty":65}`, nil); code != http.StatusBadRequest {
				t.Fatalf("\t%s\tTest 0:\tShould refuse a difficulty of 65, got %d.", failed, code)
			}
			t.Logf("\t%s\tTest 0:\tShould refuse a difficulty of 65.", success)
		}

		t.Logf("\tTest 1:\tWhen mining without a worker.")
		{
			if code := call(at.private, http.MethodPost, "/v1/node/mining/signal", "", nil); code != http.StatusServiceUnavailable {
				t.Fatalf("\t%s\tTest 1:\tShould report the worker is not running, got %d.", failed, code)
			}
			t.Logf("\t%s\tTest 1:\tShould report the worker is not running.", success)
		}

		t.Logf("\tTest 2:\tWhen validating the chain.")
		{
			var resp struct {
				Valid  bool   `json:"valid"`
				Length uint64 `json:"length"`
			}
			if code := call(at.private, http.MethodGet, "/v1/node/chain/validate", "", &resp); code != http.StatusOK || !resp.Valid || resp.Length != 1 {
				t.Fatalf("\t%s\tTest 2:\tShould report a valid chain, got %d %+v.", failed, code, resp)
			}
			t.Logf("\t%s\tTest 2:\tShould report a valid chain.", success)
		}
	}
}

func Test_Viewer(t *testing.T) {
	at := newAPITest(t)

	t.Log("Given the need to serve the viewer page.")
	{
		t.Logf("\tTest 0:\tWhen requesting the root path.")
		{
			w := httptest.NewRecorder()
			at.public.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

			if w.Code != http.StatusOK || !strings.HasPrefix(w.Header().Get("Content-Type"), "text/html") {
				t.Fatalf("\t%s\tTest 0:\tShould serve an html page, got %d %q.", failed, w.Code, w.Header().Get("Content-Type"))
			}
			if !strings.Contains(w.Body.String(), "/v1/events") {
				t.Fatalf("\t%s\tTest 0:\tShould follow the event stream.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould serve the viewer page.", success)
		}
	}
}
