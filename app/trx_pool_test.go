package app

import (
	"context"
	"testing"

	"github.com/asaskevich/EventBus"
	"github.com/coschain/trxguard/common/constants"
	"github.com/coschain/trxguard/config"
	"github.com/coschain/trxguard/db/storage"
	"github.com/coschain/trxguard/prototype"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrxPool_Admit(t *testing.T) {
	a := assert.New(t)
	env := newTestEnv(t, func(cfg *config.GuardConfig) {
		cfg.RateLimit.MaxPending = 2
	})
	bus := EventBus.New()
	env.pool.SetBus(bus)

	var admitted, rejected []string
	var runs int
	require.NoError(t, bus.Subscribe(constants.NoticeTrxAdmitted, func(trx *prototype.Transaction) {
		admitted = append(admitted, trx.Id)
	}))
	require.NoError(t, bus.Subscribe(constants.NoticeTrxRejected, func(trx *prototype.Transaction, bucket string, reason error) {
		rejected = append(rejected, bucket+":"+trx.Id)
	}))
	require.NoError(t, bus.Subscribe(constants.NoticeRunFinished, func(run *GuardRun) {
		runs++
	}))

	alice, bob, carol := newTestAccount(t), newTestAccount(t), newTestAccount(t)
	env.fund(t, alice, 100)
	env.fund(t, bob, 100)

	t1 := alice.transfer(t, carol, 80, 0, 0)
	t2 := alice.transfer(t, carol, 30, 0, 1)
	t3 := bob.transfer(t, carol, 10, 0, 0)
	t4 := bob.transfer(t, carol, 10, 0, 1)
	run, err := env.pool.Admit(context.Background(), []*prototype.RawTransaction{t1, t2, t3, t4}, false)
	a.NoError(err)

	a.Equal(trxIds(t, t1, t3), run.Ids(BucketAccept))
	a.Equal(trxIds(t, t2), run.Ids(BucketInvalid))
	a.Equal(trxIds(t, t4), run.Ids(BucketExcess))
	a.Equal(trxIds(t, t1, t3), admitted)
	a.Equal([]string{"invalid:" + trxId(t, t2), "excess:" + trxId(t, t4)}, rejected)
	a.Equal(1, runs)

	// ledger changes were committed
	a.EqualValues(20, env.balance(t, alice))
	a.EqualValues(100, env.balance(t, carol))
	a.Equal(2, env.pool.Store().Count())

	// accepted ones are duplicates now
	run, err = env.pool.Admit(context.Background(), []*prototype.RawTransaction{t1, t3}, false)
	a.NoError(err)
	a.Equal(trxIds(t, t1, t3), run.Dropped())
	a.Equal(2, runs)

	// packed into a block, room for new ones
	a.NoError(env.pool.Remove(trxId(t, t1)))
	t5 := alice.transfer(t, carol, 10, 0, 1)
	a.NoError(env.pool.PushTrx(context.Background(), t5))
	a.Equal(2, env.pool.Store().Count())
	a.EqualValues(10, env.balance(t, alice))
}

func TestTrxPool_PushTrx(t *testing.T) {
	a := assert.New(t)
	env := newTestEnv(t, nil)
	alice, bob := newTestAccount(t), newTestAccount(t)
	env.fund(t, alice, 10)

	err := env.pool.PushTrx(context.Background(), alice.transfer(t, bob, 20, 0, 0))
	a.Equal(ErrInsufficientBalance, errors.Cause(err))

	trx := alice.transfer(t, bob, 5, 0, 0)
	a.NoError(env.pool.PushTrx(context.Background(), trx))
	a.Error(env.pool.PushTrx(context.Background(), trx))
}

func TestTrxPool_FailedRunKeepsLedgerChanges(t *testing.T) {
	a := assert.New(t)
	env := newTestEnv(t, nil)
	alice, bob := newTestAccount(t), newTestAccount(t)
	env.fund(t, alice, 100)

	// fails reading stamina in the excess stage, after the ledger stage applied the transfer
	env.pool.store.limiter = failingLimiter{}
	run, err := env.pool.Admit(context.Background(), []*prototype.RawTransaction{alice.transfer(t, bob, 10, 0, 0)}, false)
	a.Error(err)
	a.True(run.HasExactly(BucketTransactions, 1))
	a.Equal(0, env.pool.Store().Count())
	a.EqualValues(90, env.balance(t, alice))
}

type failingLimiter struct{}

func (failingLimiter) Consume(string, uint64, uint64, bool) (bool, error) {
	return false, errors.New("stamina unavailable")
}
func (failingLimiter) Get(string, bool) (uint64, error)             { return 0, nil }
func (failingLimiter) GetCapacity(bool) uint64                      { return 0 }
func (failingLimiter) GetLeft(string, uint64, bool) (uint64, error) { return 0, nil }

func TestTrxPool_Config(t *testing.T) {
	a := assert.New(t)
	cfg := testConfig()
	cfg.Fee.Delegates = []config.DelegateFee{{Name: "bp1", MinFee: 3}, {Name: "bp2", MinFee: 2}}
	cfg.RevertExcess = true
	pool, err := NewTrxPool(cfg, storage.NewMemoryDatabase(), nil, nil)
	a.NoError(err)
	a.Equal([]string{"bp1", "bp2"}, pool.FeePolicy().Delegates())
	a.EqualValues(2, pool.FeePolicy().RequiredFee(true))
	a.True(pool.Guard().revertExcess)
	a.NotNil(pool.Verifier())
	a.Equal(cfg.RateLimit.Capacity, pool.Limiter().GetCapacity(false))

	_, err = NewTrxPool(nil, storage.NewMemoryDatabase(), nil, nil)
	a.Error(err)
	cfg.Storage.Backend = "tape"
	_, err = NewTrxPool(cfg, storage.NewMemoryDatabase(), nil, nil)
	a.Error(err)
}
