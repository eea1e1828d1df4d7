package cmd

import (
	"net/http"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the chain length, latest hash and parameters",
	RunE: func(cmd *cobra.Command, args []string) error {
		var resp map[string]any
		if err := do(http.MethodGet, url+"/v1/chain/status", nil, &resp); err != nil {
			return err
		}
		return printJSON(cmd, resp)
	},
}

var blocksCmd = &cobra.Command{
	Use:   "blocks [number]",
	Short: "Print every block or the block at the specified number",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		endpoint := url + "/v1/blocks/list"
		if len(args) == 1 {
			endpoint += "/" + args[0]
		}

		var resp any
		if err := do(http.MethodGet, endpoint, nil, &resp); err != nil {
			return err
		}
		return printJSON(cmd, resp)
	},
}

var balancesCmd = &cobra.Command{
	Use:   "balances [account]",
	Short: "Print the balances of every account or the specified account",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		endpoint := url + "/v1/balances/list"
		if len(args) == 1 {
			endpoint += "/" + args[0]
		}

		var resp any
		if err := do(http.MethodGet, endpoint, nil, &resp); err != nil {
			return err
		}
		return printJSON(cmd, resp)
	},
}

var mempoolCmd = &cobra.Command{
	Use:   "mempool",
	Short: "Print the transactions waiting to be mined",
	RunE: func(cmd *cobra.Command, args []string) error {
		var resp any
		if err := do(http.MethodGet, url+"/v1/tx/uncommitted/list", nil, &resp); err != nil {
			return err
		}
		return printJSON(cmd, resp)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(blocksCmd)
	rootCmd.AddCommand(balancesCmd)
	rootCmd.AddCommand(mempoolCmd)
}
