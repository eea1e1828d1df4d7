package accounts_test

import (
	"context"
	"testing"

	"github.com/ardanlabs/minichain/foundation/blockchain/accounts"
	"github.com/ardanlabs/minichain/foundation/blockchain/database"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func TestTransactions(t *testing.T) {
	type table struct {
		name        string
		miner       string
		minerReward float64
		txs         []database.BlockTx
		final       map[string]float64
	}

	tt := []table{
		{
			name:        "basic",
			miner:       "miner",
			minerReward: 100,
			txs: []database.BlockTx{
				{Sender: "bill", Receiver: "ale", Amount: 100},
				{Sender: "ale", Receiver: "pavel", Amount: 25.5},
			},
			final: map[string]float64{
				"miner": 100,
				"bill":  -100,
				"ale":   74.5,
				"pavel": 25.5,
			},
		},
		{
			name:        "transfer from reward sender",
			miner:       "miner",
			minerReward: 100,
			txs: []database.BlockTx{
				{Sender: database.RewardSender, Receiver: "bob", Amount: 10},
			},
			final: map[string]float64{
				"miner":               100,
				"bob":                 10,
				database.RewardSender: -10,
			},
		},
		{
			name:        "reward only",
			miner:       "alice",
			minerReward: 50,
			final: map[string]float64{
				"alice": 50,
			},
		},
	}

	t.Log("Given the need to derive balances from blocks.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen handling a set of accounts.", testID)
			{
				f := func(t *testing.T) {
					block, err := database.POW(context.Background(), database.POWArgs{
						Miner:  tst.miner,
						Reward: tst.minerReward,
						Trans:  tst.txs,
					})
					if err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to mine a block: %s", failed, testID, err)
					}
					t.Logf("\t%s\tTest %d:\tShould be able to mine a block.", success, testID)

					accts := accounts.New(block)

					cpyAccts := accts.Copy()
					if len(cpyAccts) != len(tst.final) {
						t.Fatalf("\t%s\tTest %d:\tShould have %d accounts, got %d.", failed, testID, len(tst.final), len(cpyAccts))
					}

					if _, transfers := tst.final[database.RewardSender]; !transfers {
						if _, exists := cpyAccts[database.RewardSender]; exists {
							t.Fatalf("\t%s\tTest %d:\tShould not track the reward sender.", failed, testID)
						}
						t.Logf("\t%s\tTest %d:\tShould not track the reward sender.", success, testID)
					}

					for id, finalValue := range tst.final {
						info, exists := accts.Query(id)
						if !exists {
							t.Errorf("\t%s\tTest %d:\tShould have account %s in balances.", failed, testID, id)
							continue
						}

						if finalValue != info.Balance {
							t.Errorf("\t%s\tTest %d:\tShould have correct balances for %s.", failed, testID, id)
							t.Logf("\t%s\tTest %d:\tgot: %g", failed, testID, info.Balance)
							t.Logf("\t%s\tTest %d:\texp: %g", failed, testID, finalValue)
						} else {
							t.Logf("\t%s\tTest %d:\tShould have correct balances for %s.", success, testID, id)
						}
					}

					accts.Reset()
					if len(accts.Copy()) != 0 {
						t.Fatalf("\t%s\tTest %d:\tShould be empty after reset.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould be empty after reset.", success, testID)
				}

				t.Run(tst.name, f)
			}
		}
	}
}
