package commands

import (
	"fmt"
	"strconv"

	"github.com/coschain/cobra"
	"github.com/coschain/trxguard/app"
	"github.com/coschain/trxguard/prototype"
	"github.com/sirupsen/logrus"
)

func FundCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fund <address> <amount>",
		Short: "Credit a wallet",
		Args:  cobra.ExactArgs(2),
		Run:   fund,
	}
}

func fund(cmd *cobra.Command, args []string) {
	amount, err := strconv.ParseUint(args[1], 10, 64)
	if err != nil {
		fatal(err)
	}
	var w *prototype.Wallet
	err = withPool(func(pool *app.TrxPool, _ *logrus.Logger) (err error) {
		if err = pool.Ledger().Credit(args[0], amount); err != nil {
			return
		}
		w, err = pool.Ledger().GetWalletByKey(args[0])
		return
	})
	if err != nil {
		fatal(err)
	}
	fmt.Printf("%s balance %d nonce %d\n", w.Address, w.Balance, w.Nonce)
}
