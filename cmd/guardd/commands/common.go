package commands

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/asaskevich/EventBus"
	"github.com/coschain/cobra"
	"github.com/coschain/trxguard/app"
	"github.com/coschain/trxguard/common"
	"github.com/coschain/trxguard/config"
	"github.com/coschain/trxguard/db/storage"
	"github.com/coschain/trxguard/iservices"
	"github.com/coschain/trxguard/mylog"
	"github.com/coschain/trxguard/prototype"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var (
	dataDir  string
	instName string
)

// AddGlobalFlags adds flags locating the instance directory.
func AddGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&dataDir, "datadir", "d", "", "data directory (default is ~/.trxguard)")
	cmd.PersistentFlags().StringVarP(&instName, "name", "n", config.DefaultName, "instance name")
}

func instanceDir() string {
	dir := dataDir
	if dir == "" {
		dir = config.DefaultDataDir()
	}
	return filepath.Join(dir, instName)
}

func loadConfig() (*config.GuardConfig, error) {
	cfg, err := config.LoadGuardConfig(instanceDir())
	if err != nil {
		return nil, err
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	cfg.Name = instName
	return cfg, nil
}

// openPool opens the pool of the instance. Logs go to stderr so that stdout only carries results.
func openPool() (*app.TrxPool, *logrus.Logger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	var logSvc iservices.ILog
	if logSvc, err = mylog.NewMyLog(cfg.ResolvePath(cfg.LogPath), cfg.LogLevel, cfg.LogAge); err != nil {
		return nil, nil, errors.Wrap(err, "logger")
	}
	log := logSvc.GetLog()
	log.Out = os.Stderr
	db, err := storage.OpenDatabase(cfg.Storage.Backend, cfg.ResolvePath(cfg.Storage.Path))
	if err != nil {
		return nil, nil, errors.Wrap(err, "database")
	}
	pool, err := app.NewTrxPool(cfg, db, log, EventBus.New())
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return pool, log, nil
}

// withPool runs fn on the opened pool and closes it before returning, so that callers can exit on the
// returned error.
func withPool(fn func(pool *app.TrxPool, log *logrus.Logger) error) error {
	pool, log, err := openPool()
	if err != nil {
		return err
	}
	defer pool.Close()
	return fn(pool, log)
}

func fatal(err error) {
	common.Fatalf("%v", err)
}

func printJson(v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fatal(err)
	}
	fmt.Println(string(data))
}

// readRawTransactions reads a json file holding a transaction or an array of transactions.
func readRawTransactions(path string) ([]*prototype.RawTransaction, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raws []*prototype.RawTransaction
	if err = json.Unmarshal(data, &raws); err == nil {
		return raws, nil
	}
	raw := new(prototype.RawTransaction)
	if err = json.Unmarshal(data, raw); err != nil {
		return nil, errors.Wrapf(err, "%s is neither a transaction nor a list of transactions", path)
	}
	return []*prototype.RawTransaction{raw}, nil
}
