package cmd

import (
	"net/http"

	"github.com/spf13/cobra"
)

var (
	sender   string
	receiver string
	amount   float64
)

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Submit a transaction to the node's mempool",
	RunE: func(cmd *cobra.Command, args []string) error {
		tx := struct {
			Sender   string  `json:"sender"`
			Receiver string  `json:"receiver"`
			Amount   float64 `json:"amount"`
		}{
			Sender:   sender,
			Receiver: receiver,
			Amount:   amount,
		}

		var resp map[string]any
		if err := do(http.MethodPost, url+"/v1/tx/submit", tx, &resp); err != nil {
			return err
		}

		return printJSON(cmd, resp)
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&sender, "sender", "s", "", "Account sending the amount.")
	sendCmd.Flags().StringVarP(&receiver, "receiver", "r", "", "Account receiving the amount.")
	sendCmd.Flags().Float64VarP(&amount, "amount", "a", 0, "Amount to send.")
	sendCmd.MarkFlagRequired("sender")
	sendCmd.MarkFlagRequired("receiver")
}
