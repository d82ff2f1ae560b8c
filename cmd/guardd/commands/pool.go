package commands

import (
	"fmt"
	"strconv"

	"github.com/coschain/cobra"
	"github.com/coschain/trxguard/app"
	"github.com/coschain/trxguard/prototype"
	"github.com/sirupsen/logrus"
)

var (
	poolLimit   int
	poolWallets bool
)

func PoolCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pool",
		Short: "Show pending transactions",
		Run:   showPool,
	}
	cmd.Flags().IntVarP(&poolLimit, "limit", "l", 20, "max number of transactions to show, 0 for all")
	cmd.Flags().BoolVarP(&poolWallets, "wallets", "w", false, "show wallets instead")

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <id>...",
		Short: "Remove pending transactions",
		Args:  cobra.MinimumNArgs(1),
		Run:   removeFromPool,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "maxfee <address> <fee>",
		Short: "Set the maximum fee a sender pays",
		Args:  cobra.ExactArgs(2),
		Run:   setMaxFee,
	})
	return cmd
}

func showPool(cmd *cobra.Command, args []string) {
	var (
		wallets []*prototype.Wallet
		raws    []*prototype.RawTransaction
		pending int
	)
	err := withPool(func(pool *app.TrxPool, _ *logrus.Logger) (err error) {
		if poolWallets {
			wallets, err = pool.Ledger().Wallets()
			return
		}
		raws, err = pool.Store().Pending(poolLimit)
		pending = pool.Store().Count()
		return
	})
	if err != nil {
		fatal(err)
	}
	if poolWallets {
		printJson(wallets)
		return
	}
	fmt.Printf("%d pending\n", pending)
	for _, raw := range raws {
		id, _ := raw.Id()
		fmt.Printf("%s nonce=%d amount=%d fee=%d to=%s\n", id, raw.Nonce, raw.Amount, raw.Fee, raw.Recipient)
	}
}

func removeFromPool(cmd *cobra.Command, args []string) {
	var pending int
	err := withPool(func(pool *app.TrxPool, _ *logrus.Logger) error {
		if err := pool.Remove(args...); err != nil {
			return err
		}
		pending = pool.Store().Count()
		return nil
	})
	if err != nil {
		fatal(err)
	}
	fmt.Printf("%d pending\n", pending)
}

func setMaxFee(cmd *cobra.Command, args []string) {
	fee, err := strconv.ParseUint(args[1], 10, 64)
	if err != nil {
		fatal(err)
	}
	err = withPool(func(pool *app.TrxPool, _ *logrus.Logger) error {
		return pool.FeePolicy().SetSenderMaxFee(args[0], fee)
	})
	if err != nil {
		fatal(err)
	}
}
