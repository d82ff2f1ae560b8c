package commands

import (
	"context"
	"os"
	"os/signal"

	"github.com/coschain/cobra"
	"github.com/coschain/trxguard/app"
	"github.com/coschain/trxguard/prototype"
	"github.com/sirupsen/logrus"
)

var admitBroadcast bool

func AdmitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admit <file>...",
		Short: "Run an admission of transactions read from json files",
		Args:  cobra.MinimumNArgs(1),
		Run:   admit,
	}
	cmd.Flags().BoolVarP(&admitBroadcast, "broadcast", "b", false, "treat transactions as received from the network")
	return cmd
}

type admitEntry struct {
	Id     string `json:"id"`
	Sender string `json:"sender"`
	Nonce  uint64 `json:"nonce"`
	Reason string `json:"reason,omitempty"`
}

type admitResult struct {
	Accept  []admitEntry `json:"accept"`
	Excess  []admitEntry `json:"excess"`
	Invalid []admitEntry `json:"invalid"`
	Dropped []string     `json:"dropped"`
	Pending int          `json:"pending"`
}

func admit(cmd *cobra.Command, args []string) {
	var raws []*prototype.RawTransaction
	for _, path := range args {
		trxs, err := readRawTransactions(path)
		if err != nil {
			fatal(err)
		}
		raws = append(raws, trxs...)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt)
	defer signal.Stop(sigc)

	var result *admitResult
	err := withPool(func(pool *app.TrxPool, log *logrus.Logger) (err error) {
		go func() {
			select {
			case <-sigc:
				log.Info("Got interrupt, cancelling admission...")
				cancel()
			case <-ctx.Done():
			}
		}()
		result, err = admitRaws(ctx, pool, raws, admitBroadcast)
		return
	})
	if err != nil {
		fatal(err)
	}
	printJson(result)
}

func admitRaws(ctx context.Context, pool *app.TrxPool, raws []*prototype.RawTransaction, isBroadcast bool) (*admitResult, error) {
	run, err := pool.Admit(ctx, raws, isBroadcast)
	if err != nil {
		return nil, err
	}
	entries := func(b app.Bucket) []admitEntry {
		var result []admitEntry
		for _, trx := range run.Entries(b) {
			e := admitEntry{Id: trx.Id, Sender: trx.SenderAddress, Nonce: trx.Nonce}
			if reason := run.Reason(trx.Id); reason != nil {
				e.Reason = reason.Error()
			}
			result = append(result, e)
		}
		return result
	}
	return &admitResult{
		Accept:  entries(app.BucketAccept),
		Excess:  entries(app.BucketExcess),
		Invalid: entries(app.BucketInvalid),
		Dropped: run.Dropped(),
		Pending: pool.Store().Count(),
	}, nil
}
