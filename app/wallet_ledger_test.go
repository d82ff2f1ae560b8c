package app

import (
	"testing"
	"time"

	"github.com/coschain/trxguard/db/storage"
	"github.com/coschain/trxguard/prototype"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ledgerTrx(t *testing.T, from, to *testAccount, amount, fee, nonce uint64) *prototype.Transaction {
	raw := from.transfer(t, to, amount, fee, nonce)
	trx := prototype.NewTransaction(trxId(t, raw), raw)
	trx.Verified = true
	return trx
}

func TestWalletLedger_GetWalletByKey(t *testing.T) {
	a := assert.New(t)
	l := NewWalletLedger(storage.NewMemoryDatabase(), nil)
	alice := newTestAccount(t)

	w, err := l.GetWalletByKey(alice.address)
	a.NoError(err)
	a.Equal(alice.address, w.Address)
	a.EqualValues(0, w.Balance)
	a.False(w.HasKey())

	a.NoError(l.Credit(alice.address, 42))
	byKey, err := l.GetWalletByKey(alice.keyHex())
	a.NoError(err)
	a.Equal(alice.address, byKey.Address)
	a.EqualValues(42, byKey.Balance)

	for _, bad := range []string{"", "zz", "0203", "COS", "COS1111"} {
		_, err = l.GetWalletByKey(bad)
		a.Equal(ErrBadWalletKey, errors.Cause(err), bad)
	}
}

func TestWalletLedger_CanApply(t *testing.T) {
	a := assert.New(t)
	l := NewWalletLedger(storage.NewMemoryDatabase(), nil)
	alice, bob := newTestAccount(t), newTestAccount(t)

	w := prototype.NewWallet(alice.address)
	w.Balance = 10
	a.NoError(l.CanApply(w, ledgerTrx(t, alice, bob, 9, 1, 0)))
	a.Equal(ErrInsufficientBalance, errors.Cause(l.CanApply(w, ledgerTrx(t, alice, bob, 10, 1, 0))))
	a.Equal(ErrNonceMismatch, errors.Cause(l.CanApply(w, ledgerTrx(t, alice, bob, 1, 0, 1))))

	w.PublicKey = bob.key.Public().Compressed()
	a.Equal(ErrKeyMismatch, errors.Cause(l.CanApply(w, ledgerTrx(t, alice, bob, 1, 0, 0))))
	a.Equal(prototype.ErrNpe, l.CanApply(nil, ledgerTrx(t, alice, bob, 1, 0, 0)))
}

func TestWalletLedger_ApplyAndRevert(t *testing.T) {
	a := assert.New(t)
	l := NewWalletLedger(storage.NewMemoryDatabase(), nil)
	alice, bob := newTestAccount(t), newTestAccount(t)
	require.NoError(t, l.Credit(alice.address, 100))

	t1 := ledgerTrx(t, alice, bob, 30, 2, 0)
	t2 := ledgerTrx(t, alice, bob, 20, 1, 1)
	a.NoError(l.Apply(t1))
	a.NoError(l.Apply(t2))
	a.Equal(ErrNonceMismatch, errors.Cause(l.Apply(t1)))

	w, _ := l.GetWalletByKey(alice.address)
	a.EqualValues(47, w.Balance)
	a.EqualValues(2, w.Nonce)
	a.Equal(alice.key.Public().Compressed(), w.PublicKey)
	w, _ = l.GetWalletByKey(bob.address)
	a.EqualValues(50, w.Balance)

	// only the latest one of a sender can be reverted
	a.Equal(ErrNotRevertible, errors.Cause(l.Revert(t1)))
	a.NoError(l.Revert(t2))
	a.NoError(l.Revert(t1))

	w, _ = l.GetWalletByKey(alice.address)
	a.EqualValues(100, w.Balance)
	a.EqualValues(0, w.Nonce)
	a.False(w.HasKey())
	w, _ = l.GetWalletByKey(bob.address)
	a.EqualValues(0, w.Balance)
}

func TestWalletLedger_SelfTransfer(t *testing.T) {
	a := assert.New(t)
	l := NewWalletLedger(storage.NewMemoryDatabase(), nil)
	alice := newTestAccount(t)
	require.NoError(t, l.Credit(alice.address, 10))

	trx := ledgerTrx(t, alice, alice, 8, 1, 0)
	a.NoError(l.Apply(trx))
	w, _ := l.GetWalletByKey(alice.address)
	a.EqualValues(9, w.Balance)
	a.EqualValues(1, w.Nonce)

	a.NoError(l.Revert(trx))
	w, _ = l.GetWalletByKey(alice.address)
	a.EqualValues(10, w.Balance)
	a.EqualValues(0, w.Nonce)
}

func TestWalletLedger_Credit(t *testing.T) {
	a := assert.New(t)
	l := NewWalletLedger(storage.NewMemoryDatabase(), nil)
	alice, bob := newTestAccount(t), newTestAccount(t)

	a.Error(l.Credit("nobody", 1))
	a.NoError(l.Credit(alice.address, 1))
	a.Equal(ErrBalanceOverflow, errors.Cause(l.Credit(alice.address, ^uint64(0))))
	a.NoError(l.Credit(bob.address, 2))

	wallets, err := l.Wallets()
	a.NoError(err)
	a.Len(wallets, 2)
}

func TestWalletLedger_Snapshot(t *testing.T) {
	a := assert.New(t)
	db := storage.NewMemoryDatabase()
	l := NewWalletLedger(db, nil)
	alice, bob := newTestAccount(t), newTestAccount(t)
	require.NoError(t, l.Credit(alice.address, 100))

	s := l.Snapshot()
	a.False(s.Dirty())
	a.NoError(s.Apply(ledgerTrx(t, alice, bob, 10, 0, 0)))
	a.True(s.Dirty())

	// invisible to the base until committed
	w, _ := l.GetWalletByKey(alice.address)
	a.EqualValues(100, w.Balance)
	w, _ = s.GetWalletByKey(alice.address)
	a.EqualValues(90, w.Balance)

	s.Discard()
	s.Discard()
	a.Equal(ErrSnapshotClosed, s.Commit())
	w, _ = l.GetWalletByKey(alice.address)
	a.EqualValues(100, w.Balance)

	s = l.Snapshot()
	a.NoError(s.Apply(ledgerTrx(t, alice, bob, 20, 0, 0)))
	a.NoError(s.Commit())
	a.False(s.Dirty())
	a.Equal(ErrSnapshotClosed, s.Commit())
	w, _ = l.GetWalletByKey(alice.address)
	a.EqualValues(80, w.Balance)
	w, _ = l.GetWalletByKey(bob.address)
	a.EqualValues(20, w.Balance)
}

func TestWalletLedger_SnapshotBlocksBaseWrites(t *testing.T) {
	a := assert.New(t)
	l := NewWalletLedger(storage.NewMemoryDatabase(), nil)
	alice, bob := newTestAccount(t), newTestAccount(t)
	require.NoError(t, l.Credit(alice.address, 100))

	s := l.Snapshot()
	require.NoError(t, s.Apply(ledgerTrx(t, alice, bob, 10, 0, 0)))

	credited := make(chan error, 1)
	go func() {
		credited <- l.Credit(alice.address, 50)
	}()
	select {
	case err := <-credited:
		t.Fatalf("credit finished while a snapshot is open: %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	a.NoError(s.Commit())
	a.NoError(<-credited)
	w, _ := l.GetWalletByKey(alice.address)
	a.EqualValues(140, w.Balance)
	a.EqualValues(1, w.Nonce)
}

func TestWalletLedger_ConcurrentSnapshots(t *testing.T) {
	a := assert.New(t)
	l := NewWalletLedger(storage.NewMemoryDatabase(), nil)
	alice, bob, carol := newTestAccount(t), newTestAccount(t), newTestAccount(t)
	require.NoError(t, l.Credit(alice.address, 100))

	first := l.Snapshot()
	require.NoError(t, first.Apply(ledgerTrx(t, alice, bob, 60, 0, 0)))

	// a second snapshot spending the same nonce only starts once the first one is committed
	spend := ledgerTrx(t, alice, carol, 60, 0, 0)
	second := make(chan error, 1)
	go func() {
		s := l.Snapshot()
		defer s.Discard()
		second <- s.Apply(spend)
	}()

	a.NoError(first.Commit())
	a.Equal(ErrNonceMismatch, errors.Cause(<-second))

	w, _ := l.GetWalletByKey(alice.address)
	a.EqualValues(40, w.Balance)
	w, _ = l.GetWalletByKey(carol.address)
	a.EqualValues(0, w.Balance)
}
