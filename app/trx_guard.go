package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/coschain/trxguard/common"
	"github.com/coschain/trxguard/iservices"
	"github.com/coschain/trxguard/mylog"
	"github.com/coschain/trxguard/prototype"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// TrxGuard decides which incoming transactions enter the pending pool.
//
// Each call of Validate runs 4 stages in order:
//  1. dedup and signature verification, failures are silently dropped,
//  2. fee matching, rejections go to the invalid bucket,
//  3. sequential applicability check against the wallet ledger, applied immediately when passed,
//  4. rate and capacity check, over-limit transactions go to the excess bucket.
//
// The guard holds no per-run state. Every run allocates a new GuardRun.
type TrxGuard struct {
	store   iservices.IPoolStore
	adapter iservices.ITrxAdapter
	fees    iservices.IFeePolicy
	ledger  iservices.IWalletLedger
	log     *logrus.Logger

	revertExcess bool

	lastLock sync.RWMutex
	last     *GuardRun
}

func NewTrxGuard(store iservices.IPoolStore, adapter iservices.ITrxAdapter, fees iservices.IFeePolicy, ledger iservices.IWalletLedger, logger *logrus.Logger) *TrxGuard {
	return &TrxGuard{
		store:   store,
		adapter: adapter,
		fees:    fees,
		ledger:  ledger,
		log:     mylog.OrDiscard(logger),
		last:    newGuardRun(false),
	}
}

// SetRevertExcess sets whether applied transactions classified as excess are reverted.
// It needs a ledger implementing iservices.IRevertibleLedger.
func (g *TrxGuard) SetRevertExcess(revert bool) {
	g.revertExcess = revert
}

// Validate classifies raws against the guard's own wallet ledger.
func (g *TrxGuard) Validate(ctx context.Context, raws []*prototype.RawTransaction, isBroadcast bool) (*GuardRun, error) {
	return g.ValidateOn(ctx, g.ledger, raws, isBroadcast)
}

// ValidateOn classifies raws against given wallet ledger.
// On error, the returned run holds stages finished so far and the transactions in flight are left in
// BucketTransactions. Ledger mutations already applied are not rolled back.
func (g *TrxGuard) ValidateOn(ctx context.Context, ledger iservices.IWalletLedger, raws []*prototype.RawTransaction, isBroadcast bool) (run *GuardRun, err error) {
	run = newGuardRun(isBroadcast)
	timing := common.NewTiming()
	timing.Begin()

	defer func() {
		if e := recover(); e != nil {
			err = errors.Errorf("panic: %v", e)
			g.log.Errorf("GUARD: run panicked: %v", e)
		}
		timing.End()
		run.summary = fmt.Sprintf("in=%d accept=%d excess=%d invalid=%d dropped=%d pending=%d %s",
			len(raws), run.Count(BucketAccept), run.Count(BucketExcess), run.Count(BucketInvalid),
			len(run.dropped), run.Count(BucketTransactions), timing.String())
		g.log.WithFields(logrus.Fields{
			"broadcast": isBroadcast,
			"in":        len(raws),
			"accept":    run.Count(BucketAccept),
			"excess":    run.Count(BucketExcess),
			"invalid":   run.Count(BucketInvalid),
			"dropped":   len(run.dropped),
			"timing":    timing.String(),
		}).Debug("GUARD: run finished")
		if err != nil {
			g.log.Warnf("GUARD: run aborted: %v", err)
		}
		g.setLastRun(run)
	}()

	if ledger == nil {
		return run, errors.New("no wallet ledger")
	}

	trxs, err := g.transformAndFilter(ctx, run, raws)
	run.set(BucketTransactions, trxs)
	if err != nil {
		return run, errors.WithMessage(err, "stage 1 (transform)")
	}
	timing.Mark("transform")

	if err = ctx.Err(); err != nil {
		return run, errors.WithMessage(err, "stage 2 (fee)")
	}
	trxs, err = g.matchFees(ctx, run, trxs, isBroadcast)
	run.set(BucketTransactions, trxs)
	if err != nil {
		return run, errors.WithMessage(err, "stage 2 (fee)")
	}
	timing.Mark("fee")

	applied, err := g.applyInOrder(ctx, run, ledger, trxs)
	if err != nil {
		return run, errors.WithMessage(err, "stage 3 (balance)")
	}
	run.set(BucketTransactions, applied)
	timing.Mark("balance")

	if err = ctx.Err(); err != nil {
		return run, errors.WithMessage(err, "stage 4 (excess)")
	}
	accept, excess, err := g.store.DetermineExcess(ctx, applied, isBroadcast)
	if err != nil {
		return run, errors.Wrap(err, "stage 4 (excess)")
	}
	run.set(BucketTransactions, []*prototype.Transaction{})
	run.set(BucketAccept, accept)
	for _, trx := range excess {
		run.reject(BucketExcess, trx, ErrExcess)
		g.log.Debugf("GUARD: %s excess", trx.Id)
	}
	if g.revertExcess && len(excess) > 0 {
		if err = g.revertExcessTrxs(run, ledger, applied); err != nil {
			return run, errors.WithMessage(err, "stage 4 (revert)")
		}
	}
	timing.Mark("excess")
	return run, nil
}

func (g *TrxGuard) transformAndFilter(ctx context.Context, run *GuardRun, raws []*prototype.RawTransaction) ([]*prototype.Transaction, error) {
	result := make([]*prototype.Transaction, 0, len(raws))
	seen := make(map[string]bool, len(raws))
	for _, raw := range raws {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		id, err := g.adapter.Identity(raw)
		if err != nil {
			g.log.Debugf("GUARD: dropped malformed transaction: %v", err)
			continue
		}
		exists, err := g.store.ExistsById(id)
		if err != nil {
			return result, errors.Wrapf(err, "existence check of %s", id)
		}
		if exists || seen[id] {
			g.log.Tracef("GUARD: dropped duplicate %s", id)
			run.drop(id)
			continue
		}
		seen[id] = true
		trx, err := g.adapter.DecodeAndVerify(raw)
		if err != nil || trx == nil || !trx.Verified {
			g.log.Debugf("GUARD: dropped unverified %s: %v", id, err)
			run.drop(id)
			continue
		}
		result = append(result, trx)
	}
	return result, nil
}

func (g *TrxGuard) matchFees(ctx context.Context, run *GuardRun, trxs []*prototype.Transaction, isBroadcast bool) ([]*prototype.Transaction, error) {
	matching, rejected, err := g.fees.Evaluate(ctx, trxs, isBroadcast)
	if err != nil {
		return trxs, errors.Wrap(err, "fee evaluation")
	}
	explainer, _ := g.fees.(iservices.IFeeExplainer)
	for _, trx := range rejected {
		reason := ErrFeeRejected
		if explainer != nil {
			if e := explainer.Explain(trx, isBroadcast); e != nil {
				reason = e
			}
		}
		run.reject(BucketInvalid, trx, reason)
		g.log.Debugf("GUARD: %s invalid: %v", trx.Id, reason)
	}
	return matching, nil
}

// applyInOrder checks and applies trxs one by one so that each check sees effects of all previous ones.
// If it doesn't finish, on error or panic, run's BucketTransactions holds the applied ones followed by
// unprocessed ones.
func (g *TrxGuard) applyInOrder(ctx context.Context, run *GuardRun, ledger iservices.IWalletLedger, trxs []*prototype.Transaction) (applied []*prototype.Transaction, err error) {
	applied = make([]*prototype.Transaction, 0, len(trxs))
	next := 0
	defer func() {
		if next < len(trxs) {
			inFlight := make([]*prototype.Transaction, 0, len(applied)+len(trxs)-next)
			run.set(BucketTransactions, append(append(inFlight, applied...), trxs[next:]...))
		}
	}()
	for ; next < len(trxs); next++ {
		trx := trxs[next]
		if err = ctx.Err(); err != nil {
			return
		}
		w, e := ledger.GetWalletByKey(trx.SenderKeyHex())
		if e != nil {
			return applied, errors.Wrapf(e, "wallet of %s", trx.SenderAddress)
		}
		if reason := ledger.CanApply(w, trx); reason != nil {
			run.reject(BucketInvalid, trx, reason)
			g.log.Debugf("GUARD: %s invalid: %v", trx.Id, reason)
			continue
		}
		if e = ledger.Apply(trx); e != nil {
			return applied, errors.Wrapf(e, "apply %s", trx.Id)
		}
		applied = append(applied, trx)
	}
	return applied, nil
}

// revertExcessTrxs undoes the effects of excess transactions.
// Everything applied since the first excess one is reverted in reverse order, then the accepted ones are
// applied again in order. Accepted transactions which are no longer applicable without the excess ones
// are moved to excess. If it doesn't finish, accepted ones left reverted are moved to BucketTransactions.
func (g *TrxGuard) revertExcessTrxs(run *GuardRun, ledger iservices.IWalletLedger, applied []*prototype.Transaction) error {
	rl, ok := ledger.(iservices.IRevertibleLedger)
	if !ok {
		g.log.Warn("GUARD: ledger can't revert, excess transactions stay applied")
		return nil
	}
	excess := make(map[string]bool, run.Count(BucketExcess))
	for _, trx := range run.buckets[BucketExcess] {
		excess[trx.Id] = true
	}
	first := -1
	for i, trx := range applied {
		if excess[trx.Id] {
			first = i
			break
		}
	}
	if first < 0 {
		return nil
	}

	reverted := make(map[string]bool)
	demoted := make(map[string]bool)
	defer func() {
		accept := make([]*prototype.Transaction, 0, run.Count(BucketAccept))
		var inFlight []*prototype.Transaction
		for _, trx := range run.buckets[BucketAccept] {
			switch {
			case demoted[trx.Id]:
			case reverted[trx.Id]:
				inFlight = append(inFlight, trx)
			default:
				accept = append(accept, trx)
			}
		}
		run.set(BucketAccept, accept)
		if len(inFlight) > 0 {
			run.set(BucketTransactions, inFlight)
		}
	}()

	for i := len(applied) - 1; i >= first; i-- {
		if err := rl.Revert(applied[i]); err != nil {
			return errors.Wrapf(err, "revert %s", applied[i].Id)
		}
		reverted[applied[i].Id] = true
	}
	for _, trx := range applied[first:] {
		if excess[trx.Id] {
			continue
		}
		w, err := rl.GetWalletByKey(trx.SenderKeyHex())
		if err != nil {
			return errors.Wrapf(err, "wallet of %s", trx.SenderAddress)
		}
		if reason := rl.CanApply(w, trx); reason != nil {
			demoted[trx.Id] = true
			run.reject(BucketExcess, trx, errors.WithMessage(ErrDependsOnExcess, reason.Error()))
			g.log.Debugf("GUARD: %s demoted to excess: %v", trx.Id, reason)
			continue
		}
		if err = rl.Apply(trx); err != nil {
			return errors.Wrapf(err, "reapply %s", trx.Id)
		}
		delete(reverted, trx.Id)
	}
	return nil
}

func (g *TrxGuard) setLastRun(run *GuardRun) {
	g.lastLock.Lock()
	defer g.lastLock.Unlock()
	g.last = run
}

// LastRun returns the result of the latest finished run, or an empty run if there's none.
func (g *TrxGuard) LastRun() *GuardRun {
	g.lastLock.RLock()
	defer g.lastLock.RUnlock()
	return g.last
}

func (g *TrxGuard) Ids(b Bucket) []string {
	return g.LastRun().Ids(b)
}

func (g *TrxGuard) AllIds() map[Bucket][]string {
	return g.LastRun().AllIds()
}

func (g *TrxGuard) Entries(b Bucket) []*prototype.Transaction {
	return g.LastRun().Entries(b)
}

func (g *TrxGuard) AllEntries() map[Bucket][]*prototype.Transaction {
	return g.LastRun().AllEntries()
}

func (g *TrxGuard) Count(b Bucket) int {
	return g.LastRun().Count(b)
}

func (g *TrxGuard) HasExactly(b Bucket, n int) bool {
	return g.LastRun().HasExactly(b, n)
}

func (g *TrxGuard) HasAtLeast(b Bucket, n int) bool {
	return g.LastRun().HasAtLeast(b, n)
}
