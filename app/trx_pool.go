package app

import (
	"context"
	"sync"

	"github.com/asaskevich/EventBus"
	"github.com/coschain/trxguard/common/constants"
	"github.com/coschain/trxguard/config"
	"github.com/coschain/trxguard/db/storage"
	"github.com/coschain/trxguard/mylog"
	"github.com/coschain/trxguard/prototype"
	"github.com/coschain/trxguard/utils"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const sStaminaNamespace = "stamina"

// TrxPool admits transactions into the pending pool.
// Admissions are serialized. Each one runs the guard on a snapshot of the wallet ledger, commits the
// snapshot and stores accepted transactions.
type TrxPool struct {
	db       storage.Database
	log      *logrus.Logger
	noticer  EventBus.Bus
	verifier *TrxVerifier
	fees     *DelegateFeePolicy
	ledger   *WalletLedger
	limiter  *utils.ResourceLimiter
	store    *TrxStore
	guard    *TrxGuard
	lock     sync.Mutex
}

// NewTrxPool creates a pool on db. A nil bus disables notifications.
func NewTrxPool(cfg *config.GuardConfig, db storage.Database, lg *logrus.Logger, bus EventBus.Bus) (*TrxPool, error) {
	if cfg == nil {
		return nil, errors.New("nil config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	lg = mylog.OrDiscard(lg)

	fees, err := NewDelegateFeePolicy(db, cfg.Fee.MinFee, cfg.Fee.SenderLimitCache, lg)
	if err != nil {
		return nil, errors.Wrap(err, "fee policy")
	}
	for _, d := range cfg.Fee.Delegates {
		fees.SetDelegateFee(d.Name, d.MinFee)
	}
	limiter := utils.NewResourceLimiter(
		storage.NewNamespace(db, sStaminaNamespace),
		cfg.RateLimit.Window, cfg.RateLimit.Capacity, cfg.RateLimit.RelayCapacity)
	store, err := NewTrxStore(db, limiter, cfg.RateLimit.MaxPending, lg)
	if err != nil {
		return nil, errors.Wrap(err, "trx store")
	}
	verifier := NewTrxVerifier(prototype.ChainId{Value: cfg.ChainId}, cfg.MaxFutureSeconds, lg)
	ledger := NewWalletLedger(db, lg)
	guard := NewTrxGuard(store, verifier, fees, ledger, lg)
	guard.SetRevertExcess(cfg.RevertExcess)

	return &TrxPool{
		db:       db,
		log:      lg,
		noticer:  bus,
		verifier: verifier,
		fees:     fees,
		ledger:   ledger,
		limiter:  limiter,
		store:    store,
		guard:    guard,
	}, nil
}

func (p *TrxPool) Ledger() *WalletLedger {
	return p.ledger
}

func (p *TrxPool) Store() *TrxStore {
	return p.store
}

func (p *TrxPool) FeePolicy() *DelegateFeePolicy {
	return p.fees
}

func (p *TrxPool) Guard() *TrxGuard {
	return p.guard
}

func (p *TrxPool) Verifier() *TrxVerifier {
	return p.verifier
}

func (p *TrxPool) Limiter() *utils.ResourceLimiter {
	return p.limiter
}

func (p *TrxPool) SetBus(bus EventBus.Bus) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.noticer = bus
}

// Admit runs an admission of raws.
// Ledger changes made by the run are committed even if the run failed halfway.
// Accepted transactions are stored only if the run succeeded.
func (p *TrxPool) Admit(ctx context.Context, raws []*prototype.RawTransaction, isBroadcast bool) (*GuardRun, error) {
	p.lock.Lock()
	defer p.lock.Unlock()

	snapshot := p.ledger.Snapshot()
	run, err := p.guard.ValidateOn(ctx, snapshot, raws, isBroadcast)
	if cerr := snapshot.Commit(); cerr != nil {
		p.log.Errorf("TRXPOOL: ledger commit failed: %v", cerr)
		if err == nil {
			err = errors.Wrap(cerr, "ledger commit")
		}
	}
	if err != nil {
		return run, err
	}
	if err = p.store.Add(run.Entries(BucketAccept)...); err != nil {
		return run, errors.Wrap(err, "store accepted")
	}
	p.notify(run)
	return run, nil
}

// PushTrx admits a single locally submitted transaction.
// It returns nil if the transaction was accepted, otherwise the reason.
func (p *TrxPool) PushTrx(ctx context.Context, raw *prototype.RawTransaction) error {
	run, err := p.Admit(ctx, []*prototype.RawTransaction{raw}, false)
	if err != nil {
		return err
	}
	if run.Count(BucketAccept) == 1 {
		return nil
	}
	for _, b := range []Bucket{BucketInvalid, BucketExcess} {
		for _, id := range run.Ids(b) {
			return errors.Wrap(run.Reason(id), string(b))
		}
	}
	return errors.New("dropped as duplicate or unverifiable")
}

// Remove drops pending transactions, e.g. after they were packed into a block.
func (p *TrxPool) Remove(ids ...string) error {
	return p.store.Remove(ids...)
}

func (p *TrxPool) notify(run *GuardRun) {
	if p.noticer == nil {
		return
	}
	for _, trx := range run.Entries(BucketAccept) {
		p.noticer.Publish(constants.NoticeTrxAdmitted, trx)
	}
	for _, b := range []Bucket{BucketInvalid, BucketExcess} {
		for _, trx := range run.Entries(b) {
			p.noticer.Publish(constants.NoticeTrxRejected, trx, string(b), run.Reason(trx.Id))
		}
	}
	p.noticer.Publish(constants.NoticeRunFinished, run)
}

// Close closes the underlying database.
func (p *TrxPool) Close() {
	p.db.Close()
}
