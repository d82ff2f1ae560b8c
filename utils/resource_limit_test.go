package utils

import (
	"testing"

	"github.com/coschain/trxguard/db/storage"
	"github.com/stretchr/testify/assert"
)

const window = 100

func TestResourceLimiter_Consume(t *testing.T) {
	a := assert.New(t)
	rl := NewResourceLimiter(storage.NewMemoryDatabase(), window, 1000, 0)

	ok, err := rl.Consume("alice", 600, 1, false)
	a.NoError(err)
	a.True(ok)

	left, err := rl.GetLeft("alice", 1, false)
	a.NoError(err)
	a.True(left >= 399 && left <= 400, "left %d", left)

	// not enough left
	ok, err = rl.Consume("alice", 500, 1, false)
	a.NoError(err)
	a.False(ok)

	// other senders are independent
	ok, err = rl.Consume("bob", 1000, 1, false)
	a.NoError(err)
	a.True(ok)

	// half a window later half of the usage has decayed
	ok, err = rl.Consume("alice", 500, 1+window/2, false)
	a.NoError(err)
	a.True(ok)

	// a whole window later everything has decayed
	left, err = rl.GetLeft("bob", 1+window, false)
	a.NoError(err)
	a.Equal(uint64(1000), left)
}

func TestResourceLimiter_Relay(t *testing.T) {
	a := assert.New(t)
	rl := NewResourceLimiter(storage.NewMemoryDatabase(), window, 1000, 100)
	a.Equal(uint64(1000), rl.GetCapacity(false))
	a.Equal(uint64(100), rl.GetCapacity(true))

	ok, err := rl.Consume("alice", 100, 1, true)
	a.NoError(err)
	a.True(ok)
	ok, err = rl.Consume("alice", 10, 1, true)
	a.NoError(err)
	a.False(ok, "relay allowance exhausted")

	ok, err = rl.Consume("alice", 900, 1, false)
	a.NoError(err)
	a.True(ok, "local allowance is separate")

	used, err := rl.Get("alice", true)
	a.NoError(err)
	a.True(used >= 99 && used <= 100)

	// without a relay capacity, relayed transactions share the local allowance
	shared := NewResourceLimiter(storage.NewMemoryDatabase(), window, 1000, 0)
	a.Equal(uint64(1000), shared.GetCapacity(true))
	ok, _ = shared.Consume("alice", 800, 1, true)
	a.True(ok)
	ok, _ = shared.Consume("alice", 800, 1, false)
	a.False(ok)
}

func TestCalculateNewStaminaEMA(t *testing.T) {
	a := assert.New(t)
	a.Equal(uint64(0), calculateNewStaminaEMA(window, 0, 0, 0, 0))
	a.Equal(uint64(50), calculateNewStaminaEMA(window, 100, 0, 0, 50))
	a.Equal(uint64(0), calculateNewStaminaEMA(window, 100, 0, 0, window))
	a.Equal(uint64(150), calculateNewStaminaEMA(window, 100, 50, 10, 10))
}
