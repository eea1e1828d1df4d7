// Package genesis maintains access to the genesis file.
package genesis

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/ardanlabs/minichain/foundation/blockchain/database"
	"github.com/ardanlabs/minichain/foundation/blockchain/signature"
)

// DefaultMiningReward is the reward paid for a block when the genesis
// information doesn't specify one.
const DefaultMiningReward = 100.0

// Genesis represents the genesis file.
type Genesis struct {
	Date         time.Time `json:"date"`
	ChainID      uint16    `json:"chain_id"`      // The chain id represents an unique id for this running instance.
	Difficulty   uint      `json:"difficulty"`    // How difficult it needs to be to solve the work problem.
	MiningReward float64   `json:"mining_reward"` // Reward for mining a block.
	Strategy     string    `json:"strategy"`      // Name of the predicate used to judge a block hash.
	Algorithm    string    `json:"algorithm"`     // Name of the digest function.
	Encoding     string    `json:"encoding"`      // How digests are rendered as text.
}

// Default returns the genesis information used when no file is provided.
func Default() Genesis {
	return Genesis{
		Date:         time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
		ChainID:      1,
		Difficulty:   2,
		MiningReward: DefaultMiningReward,
		Strategy:     database.StrategyLeadingZeros,
		Algorithm:    string(signature.SHA256),
		Encoding:     string(signature.StrictHex),
	}
}

// =============================================================================

// Load opens and consumes the genesis file. Fields missing from the file
// keep their default values.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	genesis := Default()
	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, fmt.Errorf("unmarshal: %w", err)
	}

	if err := genesis.Validate(); err != nil {
		return Genesis{}, err
	}

	return genesis, nil
}

// Validate checks the genesis values can be used to start a chain.
func (g Genesis) Validate() error {
	if g.Difficulty > signature.HashLength {
		return fmt.Errorf("difficulty %d is larger than the hash length %d", g.Difficulty, signature.HashLength)
	}

	if _, err := database.RetrievePredicate(g.Strategy); err != nil {
		return err
	}

	if _, err := g.Hasher(); err != nil {
		return err
	}

	if err := database.NewRewardTx("", g.MiningReward).Validate(); err != nil {
		return fmt.Errorf("mining reward: %w", err)
	}

	return nil
}

// Hasher constructs the hasher described by the genesis information.
func (g Genesis) Hasher() (signature.Hasher, error) {
	return signature.New(signature.Algorithm(g.Algorithm), signature.Encoding(g.Encoding))
}
