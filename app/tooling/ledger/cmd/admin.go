package cmd

import (
	"net/http"
	"strconv"

	"github.com/spf13/cobra"
)

var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Ask the node to mine the transactions in its mempool",
	RunE: func(cmd *cobra.Command, args []string) error {
		var resp map[string]any
		if err := do(http.MethodPost, adminURL+"/v1/node/mining/signal", nil, &resp); err != nil {
			return err
		}
		return printJSON(cmd, resp)
	},
}

var difficultyCmd = &cobra.Command{
	Use:   "difficulty <value>",
	Short: "Change the difficulty used for the next block",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		difficulty, err := strconv.ParseUint(args[0], 10, 0)
		if err != nil {
			return err
		}

		req := struct {
			Difficulty uint `json:"difficulty"`
		}{
			Difficulty: uint(difficulty),
		}

		var resp map[string]any
		if err := do(http.MethodPut, adminURL+"/v1/node/chain/difficulty", req, &resp); err != nil {
			return err
		}
		return printJSON(cmd, resp)
	},
}

var rewardCmd = &cobra.Command{
	Use:   "reward <value>",
	Short: "Change the reward paid for the next block",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reward, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return err
		}

		req := struct {
			Reward float64 `json:"reward"`
		}{
			Reward: reward,
		}

		var resp map[string]any
		if err := do(http.MethodPut, adminURL+"/v1/node/chain/reward", req, &resp); err != nil {
			return err
		}
		return printJSON(cmd, resp)
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Ask the node to re-check every block in the chain",
	RunE: func(cmd *cobra.Command, args []string) error {
		var resp map[string]any
		if err := do(http.MethodGet, adminURL+"/v1/node/chain/validate", nil, &resp); err != nil {
			return err
		}
		return printJSON(cmd, resp)
	},
}

func init() {
	rootCmd.AddCommand(mineCmd)
	rootCmd.AddCommand(difficultyCmd)
	rootCmd.AddCommand(rewardCmd)
	rootCmd.AddCommand(validateCmd)
}
