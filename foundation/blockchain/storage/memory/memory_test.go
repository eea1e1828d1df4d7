package memory_test

import (
	"errors"
	"testing"

	"github.com/ardanlabs/minichain/foundation/blockchain/database"
	"github.com/ardanlabs/minichain/foundation/blockchain/signature"
	"github.com/ardanlabs/minichain/foundation/blockchain/storage/memory"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_Memory(t *testing.T) {
	t.Log("Given the need to keep blocks in memory.")
	{
		t.Logf("\tTest 0:\tWhen writing a chain of blocks.")
		{
			m, err := memory.New()
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to construct the storage: %s", failed, err)
			}

			blocks := []database.BlockData{
				{Hash: "aa", Header: database.BlockHeader{PrevBlockHash: signature.ZeroHash}},
				{Hash: "bb", Header: database.BlockHeader{PrevBlockHash: "aa"}},
				{Hash: "cc", Header: database.BlockHeader{PrevBlockHash: "bb"}},
			}

			for i, bd := range blocks {
				if err := m.Write(bd); err != nil {
					t.Fatalf("\t%s\tTest 0:\tShould be able to write block %d: %s", failed, i, err)
				}
			}
			t.Logf("\t%s\tTest 0:\tShould be able to write the blocks.", success)

			if err := m.Write(database.BlockData{Hash: "dd", Header: database.BlockHeader{PrevBlockHash: "aa"}}); err == nil {
				t.Fatalf("\t%s\tTest 0:\tShould refuse a block that doesn't follow the last block.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould refuse a block that doesn't follow the last block.", success)

			bd, err := m.GetBlock(1)
			if err != nil || bd.Hash != "bb" {
				t.Fatalf("\t%s\tTest 0:\tShould get back block 1: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould get back block 1.", success)

			if _, err := m.GetBlock(3); !errors.Is(err, database.ErrBlockNotFound) {
				t.Fatalf("\t%s\tTest 0:\tShould not find block 3: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould not find block 3.", success)

			var hashes []string
			iter := m.ForEach()
			for bd, err := iter.Next(); !iter.Done(); bd, err = iter.Next() {
				if err != nil {
					t.Fatalf("\t%s\tTest 0:\tShould iterate without error: %s", failed, err)
				}
				hashes = append(hashes, bd.Hash)
			}

			if len(hashes) != 3 || hashes[0] != "aa" || hashes[2] != "cc" {
				t.Fatalf("\t%s\tTest 0:\tShould iterate in order, got %v.", failed, hashes)
			}
			t.Logf("\t%s\tTest 0:\tShould iterate in order.", success)

			if err := m.Reset(); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to reset: %s", failed, err)
			}
			if err := m.Write(blocks[0]); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould accept a genesis block after reset: %s", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould accept a genesis block after reset.", success)
		}
	}
}
