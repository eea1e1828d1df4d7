package cmd

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/ardanlabs/minichain/foundation/blockchain/state"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_RunMenu(t *testing.T) {
	t.Log("Given the need to drive a local chain from the menu.")
	{
		t.Logf("\tTest 0:\tWhen submitting a transaction and mining a block.")
		{
			st, err := state.New(state.Config{MinerID: "miner1"})
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to start the chain: %s", failed, err)
			}

			input := strings.Join([]string{
				"1", "bob", "carol", "5",
				"1", "bob", "carol", "lots",
				"4", "50",
				"3", "99",
				"2",
				"9",
				"0",
			}, "\n") + "\n"

			var out bytes.Buffer
			if err := runMenu(context.Background(), st, strings.NewReader(input), &out); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould run the menu: %s", failed, err)
			}

			for _, exp := range []string{"transaction added", "invalid amount", "updated reward", "failed to set difficulty", "block generated successfully", "invalid option", "exiting"} {
				if !strings.Contains(out.String(), exp) {
					t.Fatalf("\t%s\tTest 0:\tShould print %q:\n%s", failed, exp, out.String())
				}
			}
			t.Logf("\t%s\tTest 0:\tShould print the result of every choice.", success)

			if st.Length() != 2 || st.QueryMempoolLength() != 0 {
				t.Fatalf("\t%s\tTest 0:\tShould mine the transaction into a second block.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould mine the transaction into a second block.", success)

			if st.LatestBlock().Transactions()[0].Amount != 50 {
				t.Fatalf("\t%s\tTest 0:\tShould pay the updated reward.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould pay the updated reward.", success)
		}
	}
}
