package main

import (
	"fmt"
	"os"

	"github.com/coschain/cobra"
	"github.com/coschain/trxguard/cmd/guardd/commands"
	"github.com/coschain/trxguard/config"
)

// guardd manages a pending transaction pool guarded by the admission guard.
var rootCmd = &cobra.Command{
	Use:   config.DefaultName,
	Short: "guardd admits transactions into a pending pool",
}

func addCommands() {
	commands.AddGlobalFlags(rootCmd)
	rootCmd.AddCommand(commands.InitCmd())
	rootCmd.AddCommand(commands.KeygenCmd())
	rootCmd.AddCommand(commands.SignCmd())
	rootCmd.AddCommand(commands.FundCmd())
	rootCmd.AddCommand(commands.AdmitCmd())
	rootCmd.AddCommand(commands.PoolCmd())
}

func main() {
	addCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
