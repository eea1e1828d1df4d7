// This program is a command line client for the ledger node. It can also run
// a chain in process for experimenting without a node.
package main

import "github.com/ardanlabs/minichain/app/tooling/ledger/cmd"

func main() {
	cmd.Execute()
}
