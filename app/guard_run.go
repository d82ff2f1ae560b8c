package app

import (
	"github.com/coschain/trxguard/common/constants"
	"github.com/coschain/trxguard/prototype"
)

// Bucket names a classification outcome of an admission run.
type Bucket string

const (
	// transactions still being filtered. empty after a successful run.
	BucketTransactions Bucket = constants.BucketTransactions
	BucketAccept       Bucket = constants.BucketAccept
	BucketExcess       Bucket = constants.BucketExcess
	BucketInvalid      Bucket = constants.BucketInvalid
)

// Buckets lists all bucket names.
var Buckets = []Bucket{BucketTransactions, BucketAccept, BucketExcess, BucketInvalid}

// GuardRun is the result of one admission run. It's never changed after Validate returns.
// A nil *GuardRun behaves as a run with four empty buckets.
type GuardRun struct {
	isBroadcast bool
	buckets     map[Bucket][]*prototype.Transaction
	reasons     map[string]error
	dropped     []string
	summary     string
}

func newGuardRun(isBroadcast bool) *GuardRun {
	return &GuardRun{
		isBroadcast: isBroadcast,
		buckets:     make(map[Bucket][]*prototype.Transaction, len(Buckets)),
		reasons:     make(map[string]error),
	}
}

func (r *GuardRun) set(b Bucket, trxs []*prototype.Transaction) {
	r.buckets[b] = trxs
}

func (r *GuardRun) reject(b Bucket, trx *prototype.Transaction, reason error) {
	r.buckets[b] = append(r.buckets[b], trx)
	r.reasons[trx.Id] = reason
}

func (r *GuardRun) drop(id string) {
	if len(id) > 0 {
		r.dropped = append(r.dropped, id)
	}
}

// IsBroadcast tells if the batch came from network broadcast.
func (r *GuardRun) IsBroadcast() bool {
	return r != nil && r.isBroadcast
}

// Ids returns identities of transactions in bucket b, in order.
func (r *GuardRun) Ids(b Bucket) []string {
	if r == nil {
		return []string{}
	}
	trxs := r.buckets[b]
	ids := make([]string, len(trxs))
	for i, trx := range trxs {
		ids[i] = trx.Id
	}
	return ids
}

// AllIds returns identities of all four buckets.
func (r *GuardRun) AllIds() map[Bucket][]string {
	all := make(map[Bucket][]string, len(Buckets))
	for _, b := range Buckets {
		all[b] = r.Ids(b)
	}
	return all
}

// Entries returns transactions in bucket b, in order.
func (r *GuardRun) Entries(b Bucket) []*prototype.Transaction {
	if r == nil {
		return []*prototype.Transaction{}
	}
	trxs := r.buckets[b]
	return append(make([]*prototype.Transaction, 0, len(trxs)), trxs...)
}

// AllEntries returns transactions of all four buckets.
func (r *GuardRun) AllEntries() map[Bucket][]*prototype.Transaction {
	all := make(map[Bucket][]*prototype.Transaction, len(Buckets))
	for _, b := range Buckets {
		all[b] = r.Entries(b)
	}
	return all
}

func (r *GuardRun) Count(b Bucket) int {
	if r == nil {
		return 0
	}
	return len(r.buckets[b])
}

func (r *GuardRun) HasExactly(b Bucket, n int) bool {
	return r.Count(b) == n
}

func (r *GuardRun) HasAtLeast(b Bucket, n int) bool {
	return r.Count(b) >= n
}

// Reason returns why a transaction was put into invalid or excess, nil for others.
func (r *GuardRun) Reason(id string) error {
	if r == nil {
		return nil
	}
	return r.reasons[id]
}

// Dropped returns identities of inputs silently dropped as duplicates or unverifiable.
func (r *GuardRun) Dropped() []string {
	if r == nil {
		return []string{}
	}
	return append(make([]string, 0, len(r.dropped)), r.dropped...)
}

// Summary is a one-line description of the run, for logs.
func (r *GuardRun) Summary() string {
	if r == nil {
		return ""
	}
	return r.summary
}
