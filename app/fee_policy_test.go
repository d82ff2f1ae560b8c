package app

import (
	"context"
	"testing"

	"github.com/coschain/trxguard/db/storage"
	"github.com/coschain/trxguard/prototype"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feeTrx(id, sender string, fee uint64) *prototype.Transaction {
	return &prototype.Transaction{Id: id, SenderAddress: sender, Fee: fee, Verified: true}
}

func TestDelegateFeePolicy_RequiredFee(t *testing.T) {
	a := assert.New(t)
	p, err := NewDelegateFeePolicy(storage.NewMemoryDatabase(), 10, 0, nil)
	require.NoError(t, err)

	a.EqualValues(10, p.RequiredFee(false))
	a.EqualValues(10, p.RequiredFee(true))

	p.SetDelegateFee("initminer", 7)
	p.SetDelegateFee("bp2", 3)
	p.SetDelegateFee("bp3", 20)
	a.EqualValues(10, p.RequiredFee(false))
	a.EqualValues(3, p.RequiredFee(true))
	a.Equal([]string{"bp2", "bp3", "initminer"}, p.Delegates())

	p.SetDelegateFee("bp2", 8)
	a.EqualValues(7, p.RequiredFee(true))
	p.RemoveDelegate("initminer")
	a.EqualValues(8, p.RequiredFee(true))
	p.RemoveDelegate("bp2")
	p.RemoveDelegate("bp3")
	a.Empty(p.Delegates())
	a.EqualValues(10, p.RequiredFee(true))
}

func TestDelegateFeePolicy_Evaluate(t *testing.T) {
	a := assert.New(t)
	p, err := NewDelegateFeePolicy(storage.NewMemoryDatabase(), 5, 0, nil)
	require.NoError(t, err)
	p.SetDelegateFee("bp", 2)

	trxs := []*prototype.Transaction{
		feeTrx("t1", "s", 5), feeTrx("t2", "s", 1), feeTrx("t3", "s", 4), feeTrx("t4", "s", 9),
	}
	matching, rejected, err := p.Evaluate(context.Background(), trxs, false)
	a.NoError(err)
	a.Equal([]string{"t1", "t4"}, idsOf(matching...))
	a.Equal([]string{"t2", "t3"}, idsOf(rejected...))
	a.Equal(ErrFeeTooLow, errors.Cause(p.Explain(trxs[1], false)))
	a.NoError(p.Explain(trxs[0], false))

	matching, rejected, err = p.Evaluate(context.Background(), trxs, true)
	a.NoError(err)
	a.Equal([]string{"t1", "t3", "t4"}, idsOf(matching...))
	a.Equal([]string{"t2"}, idsOf(rejected...))

	matching, rejected, err = p.Evaluate(context.Background(), nil, true)
	a.NoError(err)
	a.Empty(matching)
	a.Empty(rejected)
}

func TestDelegateFeePolicy_SenderMaxFee(t *testing.T) {
	a := assert.New(t)
	db := storage.NewMemoryDatabase()
	p, err := NewDelegateFeePolicy(db, 0, 1, nil)
	require.NoError(t, err)
	alice, bob := newTestAccount(t), newTestAccount(t)

	a.Error(p.SetSenderMaxFee("someone", 1))
	a.NoError(p.SetSenderMaxFee(alice.address, 5))
	a.NoError(p.SetSenderMaxFee(bob.address, 50))

	// alice was evicted from the cache of size 1, loaded again from the database
	max, ok, err := p.SenderMaxFee(alice.address)
	a.NoError(err)
	a.True(ok)
	a.EqualValues(5, max)

	trxs := []*prototype.Transaction{
		feeTrx("t1", alice.address, 5), feeTrx("t2", alice.address, 6), feeTrx("t3", bob.address, 6),
	}
	matching, rejected, err := p.Evaluate(context.Background(), trxs, false)
	a.NoError(err)
	a.Equal([]string{"t1", "t3"}, idsOf(matching...))
	a.Equal([]string{"t2"}, idsOf(rejected...))
	a.Equal(ErrFeeAboveSenderMax, errors.Cause(p.Explain(trxs[1], false)))

	// limits survive a new policy on the same database
	p2, err := NewDelegateFeePolicy(db, 0, 0, nil)
	require.NoError(t, err)
	max, ok, err = p2.SenderMaxFee(bob.address)
	a.NoError(err)
	a.True(ok)
	a.EqualValues(50, max)

	a.NoError(p2.ClearSenderMaxFee(bob.address))
	_, ok, err = p2.SenderMaxFee(bob.address)
	a.NoError(err)
	a.False(ok)
}

func TestDelegateFeePolicy_Cancelled(t *testing.T) {
	p, err := NewDelegateFeePolicy(storage.NewMemoryDatabase(), 0, 0, nil)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = p.Evaluate(ctx, []*prototype.Transaction{feeTrx("t1", "s", 1)}, false)
	assert.Equal(t, context.Canceled, err)
}
