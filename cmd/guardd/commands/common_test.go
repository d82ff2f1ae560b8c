package commands

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/coschain/trxguard/app"
	"github.com/coschain/trxguard/common/crypto"
	"github.com/coschain/trxguard/config"
	"github.com/coschain/trxguard/db/storage"
	"github.com/coschain/trxguard/prototype"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadRawTransactions(t *testing.T) {
	a := assert.New(t)
	dir, err := ioutil.TempDir("", "guardd")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	raw := &prototype.RawTransaction{
		Recipient: prototype.AddressFromPublicKey(key.Public().Compressed()),
		Amount:    3,
		Nonce:     1,
	}
	require.NoError(t, raw.Sign(key, prototype.ChainId{}))

	single, _ := json.Marshal(raw)
	list, _ := json.Marshal([]*prototype.RawTransaction{raw, raw})
	write := func(name string, data []byte) string {
		path := filepath.Join(dir, name)
		require.NoError(t, ioutil.WriteFile(path, data, 0600))
		return path
	}

	raws, err := readRawTransactions(write("single.json", single))
	a.NoError(err)
	a.Len(raws, 1)
	a.Equal(raw, raws[0])

	raws, err = readRawTransactions(write("list.json", list))
	a.NoError(err)
	a.Len(raws, 2)

	_, err = readRawTransactions(write("bad.json", []byte("{{")))
	a.Error(err)
	_, err = readRawTransactions(filepath.Join(dir, "missing.json"))
	a.Error(err)
}

func TestWithPoolClosesOnFailure(t *testing.T) {
	a := assert.New(t)
	dir, err := ioutil.TempDir("", "guardd")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	dataDir, instName = dir, "node"
	defer func() { dataDir, instName = "", config.DefaultName }()
	cfg := config.DefaultGuardConfig()
	cfg.Name = instName
	cfg.DataDir = dir
	cfg.Storage.Backend = storage.BackendLevelDB
	require.NoError(t, os.MkdirAll(instanceDir(), 0700))
	require.NoError(t, config.WriteGuardConfigFile(instanceDir(), config.DefaultConfigFile, cfg, 0600))

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	address := prototype.AddressFromPublicKey(key.Public().Compressed())
	raw := &prototype.RawTransaction{Recipient: address, Amount: 1, Fee: cfg.Fee.MinFee}
	require.NoError(t, raw.Sign(key, prototype.ChainId{Value: cfg.ChainId}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	// leveldb can't be opened twice, every failed admission must release it
	for i := 0; i < 3; i++ {
		err = withPool(func(pool *app.TrxPool, _ *logrus.Logger) error {
			_, err := admitRaws(ctx, pool, []*prototype.RawTransaction{raw}, false)
			return err
		})
		a.Equal(context.Canceled, errors.Cause(err))
	}

	var w *prototype.Wallet
	err = withPool(func(pool *app.TrxPool, _ *logrus.Logger) (err error) {
		if err = pool.Ledger().Credit(address, 5); err != nil {
			return
		}
		w, err = pool.Ledger().GetWalletByKey(address)
		return
	})
	require.NoError(t, err)
	a.EqualValues(5, w.Balance)
}
