package genesis_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ardanlabs/minichain/foundation/blockchain/database"
	"github.com/ardanlabs/minichain/foundation/blockchain/genesis"
	"github.com/ardanlabs/minichain/foundation/blockchain/signature"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_Load(t *testing.T) {
	type table struct {
		name    string
		content string
		exp     genesis.Genesis
		fail    bool
	}

	def := genesis.Default()

	keccak := def
	keccak.Difficulty = 3
	keccak.Algorithm = string(signature.Keccak256)

	legacy := def
	legacy.MiningReward = 12.5
	legacy.Strategy = database.StrategyDecimalPrefix

	tt := []table{
		{name: "defaults", content: `{}`, exp: def},
		{name: "keccak", content: `{"difficulty":3,"algorithm":"keccak256"}`, exp: keccak},
		{name: "legacy", content: `{"mining_reward":12.5,"strategy":"DecimalPrefix"}`, exp: legacy},
		{name: "difficulty", content: `{"difficulty":65}`, fail: true},
		{name: "strategy", content: `{"strategy":"Bogus"}`, fail: true},
		{name: "algorithm", content: `{"algorithm":"md5"}`, fail: true},
		{name: "json", content: `{`, fail: true},
	}

	t.Log("Given the need to load genesis information.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen handling the %s file.", testID, tst.name)
			{
				f := func(t *testing.T) {
					path := filepath.Join(t.TempDir(), "genesis.json")
					if err := os.WriteFile(path, []byte(tst.content), 0600); err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to write the file: %s", failed, testID, err)
					}

					gen, err := genesis.Load(path)
					if tst.fail {
						if err == nil {
							t.Fatalf("\t%s\tTest %d:\tShould fail to load the file.", failed, testID)
						}
						t.Logf("\t%s\tTest %d:\tShould fail to load the file.", success, testID)
						return
					}

					if err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to load the file: %s", failed, testID, err)
					}
					t.Logf("\t%s\tTest %d:\tShould be able to load the file.", success, testID)

					if gen != tst.exp {
						t.Logf("\t%s\tTest %d:\tgot: %+v", failed, testID, gen)
						t.Logf("\t%s\tTest %d:\texp: %+v", failed, testID, tst.exp)
						t.Fatalf("\t%s\tTest %d:\tShould get back the expected values.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould get back the expected values.", success, testID)
				}

				t.Run(tst.name, f)
			}
		}

		if _, err := genesis.Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
			t.Fatalf("\t%s\tShould fail on a missing file.", failed)
		}
		t.Logf("\t%s\tShould fail on a missing file.", success)
	}
}
