package app

import (
	"context"
	"testing"

	"github.com/coschain/trxguard/common/crypto"
	"github.com/coschain/trxguard/config"
	"github.com/coschain/trxguard/db/storage"
	"github.com/coschain/trxguard/prototype"
	"github.com/stretchr/testify/require"
)

type testAccount struct {
	key     *crypto.SigPrivKey
	address string
}

func newTestAccount(t *testing.T) *testAccount {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return &testAccount{key: key, address: prototype.AddressFromPublicKey(key.Public().Compressed())}
}

func (a *testAccount) keyHex() string {
	return a.key.Public().ToString()
}

// transfer creates a signed transaction of the test chain.
func (a *testAccount) transfer(t *testing.T, to *testAccount, amount, fee, nonce uint64) *prototype.RawTransaction {
	raw := &prototype.RawTransaction{
		Recipient: to.address,
		Amount:    amount,
		Fee:       fee,
		Nonce:     nonce,
		Timestamp: 1000,
	}
	require.NoError(t, raw.Sign(a.key, testChainId))
	return raw
}

var testChainId = prototype.ChainId{Value: 0}

func testConfig() *config.GuardConfig {
	cfg := config.DefaultGuardConfig()
	cfg.DataDir = ""
	cfg.Storage.Backend = storage.BackendMemory
	cfg.ChainId = testChainId.Value
	cfg.Fee.MinFee = 0
	cfg.RateLimit.Capacity = 1 << 30
	cfg.RateLimit.RelayCapacity = 0
	cfg.RateLimit.MaxPending = 1000
	return &cfg
}

type testEnv struct {
	db   *storage.MemoryDatabase
	pool *TrxPool
}

func newTestEnv(t *testing.T, setup func(cfg *config.GuardConfig)) *testEnv {
	cfg := testConfig()
	if setup != nil {
		setup(cfg)
	}
	db := storage.NewMemoryDatabase()
	pool, err := NewTrxPool(cfg, db, nil, nil)
	require.NoError(t, err)
	return &testEnv{db: db, pool: pool}
}

func (e *testEnv) fund(t *testing.T, a *testAccount, amount uint64) {
	require.NoError(t, e.pool.Ledger().Credit(a.address, amount))
}

func (e *testEnv) balance(t *testing.T, a *testAccount) uint64 {
	w, err := e.pool.Ledger().GetWalletByKey(a.address)
	require.NoError(t, err)
	return w.Balance
}

func (e *testEnv) nonce(t *testing.T, a *testAccount) uint64 {
	w, err := e.pool.Ledger().GetWalletByKey(a.address)
	require.NoError(t, err)
	return w.Nonce
}

// validate runs the guard directly against the base ledger.
func (e *testEnv) validate(t *testing.T, isBroadcast bool, raws ...*prototype.RawTransaction) *GuardRun {
	run, err := e.pool.Guard().Validate(context.Background(), raws, isBroadcast)
	require.NoError(t, err)
	return run
}

func trxId(t *testing.T, raw *prototype.RawTransaction) string {
	id, err := raw.Id()
	require.NoError(t, err)
	return id
}

func trxIds(t *testing.T, raws ...*prototype.RawTransaction) []string {
	ids := make([]string, len(raws))
	for i, raw := range raws {
		ids[i] = trxId(t, raw)
	}
	return ids
}

// checkDisjoint checks that no transaction is in more than one bucket.
func checkDisjoint(t *testing.T, run *GuardRun) {
	seen := make(map[string]Bucket)
	for _, b := range Buckets {
		for _, id := range run.Ids(b) {
			prev, ok := seen[id]
			require.False(t, ok, "%s in both %s and %s", id, prev, b)
			seen[id] = b
		}
	}
}
