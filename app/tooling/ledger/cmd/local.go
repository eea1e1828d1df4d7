package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/ardanlabs/minichain/foundation/blockchain/database"
	"github.com/ardanlabs/minichain/foundation/blockchain/genesis"
	"github.com/ardanlabs/minichain/foundation/blockchain/state"
	"github.com/spf13/cobra"
)

var (
	localMiner      string
	localDifficulty uint
	localStrategy   string
	localGenesis    string
	localThreads    int
)

// localCmd runs a chain inside this process and drives it from a menu.
var localCmd = &cobra.Command{
	Use:   "local",
	Short: "Run a chain in process and drive it from an interactive menu",
	RunE: func(cmd *cobra.Command, args []string) error {
		gen := genesis.Default()
		if localGenesis != "" {
			var err error
			if gen, err = genesis.Load(localGenesis); err != nil {
				return err
			}
		}

		if cmd.Flags().Changed("difficulty") {
			gen.Difficulty = localDifficulty
		}
		if cmd.Flags().Changed("strategy") {
			gen.Strategy = localStrategy
		}

		hasher, err := gen.Hasher()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		st, err := state.New(state.Config{
			MinerID:    localMiner,
			Difficulty: gen.Difficulty,
			Reward:     &gen.MiningReward,
			Strategy:   gen.Strategy,
			Hasher:     hasher,
			Threads:    localThreads,
		})
		if err != nil {
			return err
		}
		defer st.Shutdown()

		return runMenu(ctx, st, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(localCmd)
	localCmd.Flags().StringVarP(&localMiner, "miner", "m", "miner1", "Account credited with the mining rewards.")
	localCmd.Flags().UintVarP(&localDifficulty, "difficulty", "d", 2, "Difficulty of the genesis block.")
	localCmd.Flags().StringVar(&localStrategy, "strategy", database.StrategyLeadingZeros, "Difficulty strategy: "+strings.Join(database.Strategies(), ", "))
	localCmd.Flags().StringVarP(&localGenesis, "genesis", "g", "", "Genesis file with the chain parameters.")
	localCmd.Flags().IntVarP(&localThreads, "threads", "t", 1, "Number of goroutines searching for a nonce.")
}

// =============================================================================

// runMenu reads choices from in until it's exhausted or the exit option is
// picked. Mining honors ctx so an interrupt stops a long search.
func runMenu(ctx context.Context, st *state.State, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)

	prompt := func(label string) (string, bool) {
		fmt.Fprint(out, label)
		if !scanner.Scan() {
			return "", false
		}
		return strings.TrimSpace(scanner.Text()), true
	}

	fmt.Fprintf(out, "genesis block\n%s\n", st.LatestBlock())

	for {
		fmt.Fprintln(out, "\nMenu")
		fmt.Fprintln(out, "1) New Transaction")
		fmt.Fprintln(out, "2) Mine block")
		fmt.Fprintln(out, "3) Change Difficulty")
		fmt.Fprintln(out, "4) Change Reward")
		fmt.Fprintln(out, "5) Print Chain")
		fmt.Fprintln(out, "0) Exit")

		choice, ok := prompt("Enter your choice: ")
		if !ok {
			return scanner.Err()
		}

		switch choice {
		case "0":
			fmt.Fprintln(out, "exiting")
			return nil

		case "1":
			sender, _ := prompt("enter sender address: ")
			receiver, _ := prompt("enter receiver address: ")
			value, _ := prompt("enter amount: ")

			amount, err := strconv.ParseFloat(value, 64)
			if err != nil {
				fmt.Fprintf(out, "invalid amount: %s\n", err)
				continue
			}

			tx, err := database.NewBlockTx(sender, receiver, amount)
			if err == nil {
				err = st.SubmitTransaction(tx)
			}
			if err != nil {
				fmt.Fprintf(out, "transaction failed: %s\n", err)
				continue
			}
			fmt.Fprintln(out, "transaction added")

		case "2":
			fmt.Fprintln(out, "generating block")
			block, err := st.GenerateBlock(ctx)
			if err != nil {
				fmt.Fprintf(out, "block generation failed: %s\n", err)
				if ctx.Err() != nil {
					return ctx.Err()
				}
				continue
			}
			fmt.Fprintf(out, "block generated successfully\n%s\n", block)

		case "3":
			value, _ := prompt("enter new difficulty: ")

			difficulty, err := strconv.ParseUint(value, 10, 0)
			if err == nil {
				err = st.SetDifficulty(uint(difficulty))
			}
			if err != nil {
				fmt.Fprintf(out, "failed to set difficulty: %s\n", err)
				continue
			}
			fmt.Fprintln(out, "updated difficulty")

		case "4":
			value, _ := prompt("enter new reward: ")

			reward, err := strconv.ParseFloat(value, 64)
			if err == nil {
				err = st.SetReward(reward)
			}
			if err != nil {
				fmt.Fprintf(out, "failed to set reward: %s\n", err)
				continue
			}
			fmt.Fprintln(out, "updated reward")

		case "5":
			blocks, err := st.RetrieveBlocks()
			if err != nil {
				return err
			}
			for _, block := range blocks {
				fmt.Fprintln(out, block)
			}

		default:
			fmt.Fprintln(out, "invalid option, please retry")
		}
	}
}
