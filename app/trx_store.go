package app

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coschain/trxguard/db/storage"
	"github.com/coschain/trxguard/mylog"
	"github.com/coschain/trxguard/prototype"
	"github.com/coschain/trxguard/utils"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/willf/bloom"
)

const (
	sTrxNamespace = "trx"

	// false positive rate of the existence filter
	sFilterFalsePositive = 0.001

	// minimum number of expected items of the existence filter
	sMinFilterItems = 1024
)

// TrxStore keeps pending transactions, keyed by identity.
// A bloom filter answers most existence queries of unknown identities without touching the database.
type TrxStore struct {
	db            storage.Database
	filter        *bloom.BloomFilter
	filterItems   uint
	limiter       utils.IResourceLimiter
	maxPending    int
	count         int
	shrinkCounter uint64 // removals since the filter was rebuilt
	now           func() time.Time
	log           *logrus.Logger
	lock          sync.RWMutex
}

// NewTrxStore creates a store on db, loading existing transactions into the filter.
// A non-positive maxPending means no capacity limit.
func NewTrxStore(db storage.Database, limiter utils.IResourceLimiter, maxPending int, logger *logrus.Logger) (*TrxStore, error) {
	items := uint(maxPending) * 2
	if maxPending <= 0 || items < sMinFilterItems {
		items = sMinFilterItems
	}
	s := &TrxStore{
		db:          storage.NewNamespace(db, sTrxNamespace),
		filterItems: items,
		limiter:     limiter,
		maxPending:  maxPending,
		now:         time.Now,
		log:         mylog.OrDiscard(logger),
	}
	if err := s.rebuildFilter(); err != nil {
		return nil, err
	}
	return s, nil
}

// SetClock replaces the time source of rate limiting.
func (s *TrxStore) SetClock(now func() time.Time) {
	s.now = now
}

func (s *TrxStore) rebuildFilter() error {
	filter := bloom.NewWithEstimates(s.filterItems, sFilterFalsePositive)
	count := 0
	s.db.Iterate(nil, nil, false, func(key, value []byte) bool {
		filter.Add(key)
		count++
		return true
	})
	s.filter, s.count = filter, count
	atomic.StoreUint64(&s.shrinkCounter, 0)
	return nil
}

// ExistsById checks if a transaction of id is pending.
func (s *TrxStore) ExistsById(id string) (bool, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	if !s.filter.TestString(id) {
		return false, nil
	}
	return s.db.Has([]byte(id))
}

// DetermineExcess charges each transaction's size to its sender's stamina, in order.
// A transaction goes to excess if its sender runs out of stamina, or the pool would exceed maxPending.
func (s *TrxStore) DetermineExcess(ctx context.Context, trxs []*prototype.Transaction, isBroadcast bool) (accept, excess []*prototype.Transaction, err error) {
	s.lock.RLock()
	pending := s.count
	s.lock.RUnlock()

	now := uint64(s.now().Unix())
	accept = make([]*prototype.Transaction, 0, len(trxs))
	for _, trx := range trxs {
		if err = ctx.Err(); err != nil {
			return
		}
		if s.maxPending > 0 && pending >= s.maxPending {
			s.log.Debugf("TRXSTORE: %s excess, pool full (%d)", trx.Id, pending)
			excess = append(excess, trx)
			continue
		}
		ok, e := s.limiter.Consume(trx.SenderAddress, uint64(trx.Size), now, isBroadcast)
		if e != nil {
			return accept, excess, errors.Wrapf(e, "stamina of %s", trx.SenderAddress)
		}
		if !ok {
			s.log.Debugf("TRXSTORE: %s excess, %s out of stamina", trx.Id, trx.SenderAddress)
			excess = append(excess, trx)
			continue
		}
		accept = append(accept, trx)
		pending++
	}
	return
}

// Add stores trxs. Already stored ones are ignored.
func (s *TrxStore) Add(trxs ...*prototype.Transaction) error {
	if len(trxs) == 0 {
		return nil
	}
	s.lock.Lock()
	defer s.lock.Unlock()

	b := s.db.NewBatch()
	defer s.db.DeleteBatch(b)
	added := make(map[string]bool, len(trxs))
	for _, trx := range trxs {
		if added[trx.Id] {
			continue
		}
		if s.filter.TestString(trx.Id) {
			if has, err := s.db.Has([]byte(trx.Id)); err != nil {
				return err
			} else if has {
				continue
			}
		}
		data, err := trx.Raw.Encode()
		if err != nil {
			return err
		}
		if err = b.Put([]byte(trx.Id), data); err != nil {
			return err
		}
		added[trx.Id] = true
	}
	if err := b.Write(); err != nil {
		return err
	}
	for id := range added {
		s.filter.AddString(id)
	}
	s.count += len(added)
	return nil
}

// Get returns the raw transaction of id, storage.ErrNotFound if it's not pending.
func (s *TrxStore) Get(id string) (*prototype.RawTransaction, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	if !s.filter.TestString(id) {
		return nil, storage.ErrNotFound
	}
	data, err := s.db.Get([]byte(id))
	if err != nil {
		return nil, err
	}
	return prototype.DecodeRawTransaction(data)
}

// Remove deletes transactions of given ids, e.g. after they were packed into a block.
func (s *TrxStore) Remove(ids ...string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	b := s.db.NewBatch()
	defer s.db.DeleteBatch(b)
	removed := 0
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if has, err := s.db.Has([]byte(id)); err != nil {
			return err
		} else if !has {
			continue
		}
		if err := b.Delete([]byte(id)); err != nil {
			return err
		}
		removed++
	}
	if err := b.Write(); err != nil {
		return err
	}
	s.count -= removed

	// bloom filters can't forget, rebuild it once enough items were removed.
	if atomic.AddUint64(&s.shrinkCounter, uint64(removed)) > uint64(s.filterItems) {
		return s.rebuildFilter()
	}
	return nil
}

// Count returns the number of pending transactions.
func (s *TrxStore) Count() int {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.count
}

// Pending returns at most max pending transactions, ordered by id. A non-positive max means all.
func (s *TrxStore) Pending(max int) (trxs []*prototype.RawTransaction, err error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	s.db.Iterate(nil, nil, false, func(key, value []byte) bool {
		var raw *prototype.RawTransaction
		if raw, err = prototype.DecodeRawTransaction(value); err != nil {
			return false
		}
		trxs = append(trxs, raw)
		return max <= 0 || len(trxs) < max
	})
	return
}
