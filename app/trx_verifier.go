package app

import (
	"bytes"
	"math/big"
	"sync/atomic"
	"time"

	"github.com/coocood/freecache"
	"github.com/coschain/trxguard/common/constants"
	"github.com/coschain/trxguard/common/crypto"
	"github.com/coschain/trxguard/mylog"
	"github.com/coschain/trxguard/prototype"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	// maximum cache size (in bytes) for {trxId, publicKey} pairs.
	// a 64-byte hex id plus a 33-byte compressed key, so 4MB holds about 40,000 recently verified transactions.
	sVerifyCacheMaxSize = 4 * 1024 * 1024
)

// TrxVerifier turns raw transactions into verified ones.
// Transaction ids cover signatures, so a verified id stays verified and is cached to skip key recovery.
type TrxVerifier struct {
	chainId                prototype.ChainId
	maxFuture              uint32
	log                    *logrus.Logger
	cache                  *freecache.Cache // trxId -> sender public key
	now                    func() time.Time
	totalQueries, totalHit int64 // for hit rate stats
}

func NewTrxVerifier(chainId prototype.ChainId, maxFutureSeconds uint32, logger *logrus.Logger) *TrxVerifier {
	return &TrxVerifier{
		chainId:   chainId,
		maxFuture: maxFutureSeconds,
		log:       mylog.OrDiscard(logger),
		cache:     freecache.NewCache(sVerifyCacheMaxSize),
		now:       time.Now,
	}
}

// SetClock replaces the time source used by timestamp checks.
func (v *TrxVerifier) SetClock(now func() time.Time) {
	v.now = now
}

func (v *TrxVerifier) Identity(raw *prototype.RawTransaction) (string, error) {
	return raw.Id()
}

// DecodeAndVerify does structural, size and timestamp checks, and recovers the signer's public key.
// The result is marked verified only if the recovered key is the declared sender key.
func (v *TrxVerifier) DecodeAndVerify(raw *prototype.RawTransaction) (*prototype.Transaction, error) {
	if err := raw.Validate(); err != nil {
		return nil, err
	}
	id, err := raw.Id()
	if err != nil {
		return nil, err
	}
	trx := prototype.NewTransaction(id, raw)
	if trx.Size > constants.MaxTransactionSize {
		return trx, errors.Wrapf(ErrTrxTooLarge, "size = %d > %d", trx.Size, constants.MaxTransactionSize)
	}
	if v.maxFuture > 0 {
		if limit := uint64(v.now().Unix()) + uint64(v.maxFuture); uint64(raw.Timestamp) > limit {
			return trx, errors.Wrapf(ErrTrxFromFuture, "timestamp %d > %d", raw.Timestamp, limit)
		}
	}

	atomic.AddInt64(&v.totalQueries, 1)
	if key, err := v.cache.Get([]byte(id)); err == nil && bytes.Equal(key, raw.SenderPublicKey) {
		atomic.AddInt64(&v.totalHit, 1)
		trx.Verified = true
		return trx, nil
	}

	digest, err := raw.Digest(v.chainId)
	if err != nil {
		return trx, err
	}
	key, err := crypto.RecoverPubKey(digest, raw.Signature)
	if err != nil {
		return trx, errors.Wrap(ErrSignerMismatch, err.Error())
	}
	if !bytes.Equal(key, raw.SenderPublicKey) {
		return trx, errors.Wrapf(ErrSignerMismatch, "recovered %x, declared %x", key, raw.SenderPublicKey)
	}
	trx.Verified = true
	_ = v.cache.Set([]byte(id), key, 0)
	return trx, nil
}

// HitRate returns cache hit rate, in range [0, 1].
func (v *TrxVerifier) HitRate() (rate float64) {
	a, b := atomic.LoadInt64(&v.totalHit), atomic.LoadInt64(&v.totalQueries)
	if a > 0 && b > 0 && a <= b {
		rate, _ = big.NewRat(a, b).Float64()
	}
	return
}

// CacheCount returns number of cached verification results.
func (v *TrxVerifier) CacheCount() int64 {
	return v.cache.EntryCount()
}
