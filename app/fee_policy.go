package app

import (
	"context"
	"encoding/binary"
	"sort"
	"sync"

	"github.com/coschain/trxguard/db/storage"
	"github.com/coschain/trxguard/mylog"
	"github.com/coschain/trxguard/prototype"
	mapset "github.com/deckarep/golang-set"
	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	sFeeLimitNamespace = "feelimit"
	sDefaultLimitCache = 4096
)

// senderLimit is a cached per-sender maximum fee. set is false if the sender has no limit.
type senderLimit struct {
	max uint64
	set bool
}

// DelegateFeePolicy accepts a transaction if its fee
//   - is at least the node's minimum fee, for locally submitted transactions,
//   - is at least the lowest minimum fee of known delegates, for broadcast transactions,
//   - doesn't exceed the maximum fee registered by its sender, if any.
type DelegateFeePolicy struct {
	minFee       uint64
	delegates    mapset.Set        // names of block producers
	delegateFees map[string]uint64 // name -> minimum fee of the delegate
	limits       storage.Database  // sender address -> maximum fee
	limitCache   *lru.Cache        // sender address -> senderLimit
	log          *logrus.Logger
	lock         sync.RWMutex
}

func NewDelegateFeePolicy(db storage.Database, minFee uint64, cacheSize int, logger *logrus.Logger) (*DelegateFeePolicy, error) {
	if cacheSize <= 0 {
		cacheSize = sDefaultLimitCache
	}
	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, err
	}
	return &DelegateFeePolicy{
		minFee:       minFee,
		delegates:    mapset.NewSet(),
		delegateFees: make(map[string]uint64),
		limits:       storage.NewNamespace(db, sFeeLimitNamespace),
		limitCache:   cache,
		log:          mylog.OrDiscard(logger),
	}, nil
}

func (p *DelegateFeePolicy) MinFee() uint64 {
	p.lock.RLock()
	defer p.lock.RUnlock()
	return p.minFee
}

func (p *DelegateFeePolicy) SetMinFee(fee uint64) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.minFee = fee
}

// SetDelegateFee adds a delegate, or updates its minimum fee.
func (p *DelegateFeePolicy) SetDelegateFee(name string, minFee uint64) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.delegates.Add(name)
	p.delegateFees[name] = minFee
}

func (p *DelegateFeePolicy) RemoveDelegate(name string) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.delegates.Remove(name)
	delete(p.delegateFees, name)
}

// Delegates returns sorted names of known delegates.
func (p *DelegateFeePolicy) Delegates() []string {
	p.lock.RLock()
	defer p.lock.RUnlock()
	names := make([]string, 0, p.delegates.Cardinality())
	for _, n := range p.delegates.ToSlice() {
		names = append(names, n.(string))
	}
	sort.Strings(names)
	return names
}

// RequiredFee returns the minimum acceptable fee.
func (p *DelegateFeePolicy) RequiredFee(isBroadcast bool) uint64 {
	p.lock.RLock()
	defer p.lock.RUnlock()
	return p.requiredFee(isBroadcast)
}

func (p *DelegateFeePolicy) requiredFee(isBroadcast bool) uint64 {
	if !isBroadcast || p.delegates.Cardinality() == 0 {
		return p.minFee
	}
	lowest, first := uint64(0), true
	for _, n := range p.delegates.ToSlice() {
		if fee := p.delegateFees[n.(string)]; first || fee < lowest {
			lowest, first = fee, false
		}
	}
	return lowest
}

// SetSenderMaxFee registers the maximum fee the sender of address is willing to pay.
func (p *DelegateFeePolicy) SetSenderMaxFee(address string, max uint64) error {
	if err := prototype.ValidateAddress(address); err != nil {
		return err
	}
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, max)
	if err := p.limits.Put([]byte(address), buf); err != nil {
		return errors.Wrapf(err, "save fee limit of %s", address)
	}
	p.limitCache.Add(address, senderLimit{max: max, set: true})
	return nil
}

// ClearSenderMaxFee removes the maximum fee of address.
func (p *DelegateFeePolicy) ClearSenderMaxFee(address string) error {
	if err := p.limits.Delete([]byte(address)); err != nil {
		return errors.Wrapf(err, "delete fee limit of %s", address)
	}
	p.limitCache.Add(address, senderLimit{})
	return nil
}

// SenderMaxFee returns the maximum fee of address. ok is false if there's no limit.
func (p *DelegateFeePolicy) SenderMaxFee(address string) (max uint64, ok bool, err error) {
	if v, hit := p.limitCache.Get(address); hit {
		limit := v.(senderLimit)
		return limit.max, limit.set, nil
	}
	data, err := p.limits.Get([]byte(address))
	if err == storage.ErrNotFound {
		p.limitCache.Add(address, senderLimit{})
		return 0, false, nil
	}
	if err != nil {
		return 0, false, errors.Wrapf(err, "load fee limit of %s", address)
	}
	if len(data) != 8 {
		return 0, false, errors.Errorf("corrupted fee limit of %s", address)
	}
	max = binary.BigEndian.Uint64(data)
	p.limitCache.Add(address, senderLimit{max: max, set: true})
	return max, true, nil
}

// check returns a rejection reason, or an error if the sender limit can't be read.
func (p *DelegateFeePolicy) check(trx *prototype.Transaction, required uint64) (reason error, err error) {
	if trx.Fee < required {
		return errors.Wrapf(ErrFeeTooLow, "fee %d < %d", trx.Fee, required), nil
	}
	max, ok, err := p.SenderMaxFee(trx.SenderAddress)
	if err != nil {
		return nil, err
	}
	if ok && trx.Fee > max {
		return errors.Wrapf(ErrFeeAboveSenderMax, "fee %d > %d", trx.Fee, max), nil
	}
	return nil, nil
}

// Evaluate partitions trxs by fee acceptability. Input order is kept in both partitions.
func (p *DelegateFeePolicy) Evaluate(ctx context.Context, trxs []*prototype.Transaction, isBroadcast bool) (matching, rejected []*prototype.Transaction, err error) {
	required := p.RequiredFee(isBroadcast)
	matching = make([]*prototype.Transaction, 0, len(trxs))
	for _, trx := range trxs {
		if err = ctx.Err(); err != nil {
			return
		}
		reason, e := p.check(trx, required)
		if e != nil {
			return matching, rejected, e
		}
		if reason != nil {
			rejected = append(rejected, trx)
		} else {
			matching = append(matching, trx)
		}
	}
	return
}

// Explain tells why trx is rejected, nil if it's acceptable.
func (p *DelegateFeePolicy) Explain(trx *prototype.Transaction, isBroadcast bool) error {
	reason, err := p.check(trx, p.RequiredFee(isBroadcast))
	if err != nil {
		return err
	}
	return reason
}
