package commands

import (
	"fmt"
	"os"

	"github.com/coschain/cobra"
	"github.com/coschain/trxguard/common/constants"
	"github.com/coschain/trxguard/config"
	"github.com/coschain/trxguard/db/storage"
)

var (
	chainName  string
	memoryOnly bool
)

func InitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration files",
		Run:   initConf,
	}
	cmd.Flags().StringVarP(&chainName, "chain", "c", "main", "chain name [main/test/dev]")
	cmd.Flags().BoolVar(&memoryOnly, "memory", false, "keep everything in memory")
	return cmd
}

func initConf(cmd *cobra.Command, args []string) {
	_, _ = cmd, args
	cfg := config.DefaultGuardConfig()
	cfg.Name = instName
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	switch chainName {
	case "main":
		cfg.ChainId = constants.MainChainId
	case "test":
		cfg.ChainId = constants.TestChainId
	case "dev":
		cfg.ChainId = constants.DevChainId
	default:
		fatal(fmt.Errorf("unknown chain %s", chainName))
	}
	if memoryOnly {
		cfg.Storage.Backend = storage.BackendMemory
	}
	confdir := instanceDir()
	if _, err := os.Stat(confdir); os.IsNotExist(err) {
		if err = os.MkdirAll(confdir, 0700); err != nil {
			fatal(err)
		}
	}
	if err := config.WriteGuardConfigFile(confdir, config.DefaultConfigFile, cfg, 0600); err != nil {
		fatal(err)
	}
	fmt.Println("config written to", confdir)
}
