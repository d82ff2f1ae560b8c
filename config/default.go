package config

import (
	"path/filepath"

	"github.com/coschain/trxguard/common/constants"
	"github.com/coschain/trxguard/db/storage"
	"github.com/coschain/trxguard/mylog"
	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
)

const (
	DefaultName       = "guardd"
	DefaultConfigName = "config"
	DefaultConfigFile = DefaultConfigName + ".toml"
)

type StorageConfig struct {
	// memory or leveldb
	Backend string
	// database path, relative paths are resolved in the instance directory
	Path string
}

// DelegateFee is the minimum fee a delegate accepts.
type DelegateFee struct {
	Name   string
	MinFee uint64
}

type FeeConfig struct {
	// minimum fee of locally submitted transactions
	MinFee uint64
	// minimum fees declared by the delegate set
	Delegates []DelegateFee
	// number of per-sender maximum fee settings kept in memory
	SenderLimitCache int
}

type RateLimitConfig struct {
	// stamina window in seconds
	Window uint64
	// stamina of a sender within a window, in bytes of transactions
	Capacity uint64
	// stamina of a sender for broadcast transactions, 0 means broadcast ones share Capacity
	RelayCapacity uint64
	// max number of pending transactions
	MaxPending int
}

type GuardConfig struct {
	// Name of the instance, also the name of its directory under DataDir
	Name    string
	DataDir string
	ChainId uint32

	LogLevel string
	// directory of rotating log files, empty for stdout only
	LogPath string
	// hours to keep log files
	LogAge uint32

	Storage   StorageConfig
	Fee       FeeConfig
	RateLimit RateLimitConfig

	// revert ledger changes of transactions classified as excess
	RevertExcess bool

	MaxFutureSeconds uint32
}

// DefaultGuardConfig contains reasonable default settings.
func DefaultGuardConfig() GuardConfig {
	return GuardConfig{
		Name:     DefaultName,
		DataDir:  DefaultDataDir(),
		ChainId:  constants.MainChainId,
		LogLevel: mylog.InfoLevel,
		LogAge:   24 * 7,
		Storage: StorageConfig{
			Backend: storage.BackendLevelDB,
			Path:    "db",
		},
		Fee: FeeConfig{
			MinFee:           constants.DefaultMinFee,
			SenderLimitCache: 4096,
		},
		RateLimit: RateLimitConfig{
			Window:        constants.WindowSize,
			Capacity:      constants.DefaultSenderCapacity,
			RelayCapacity: constants.DefaultRelayCapacity,
			MaxPending:    constants.DefaultMaxPending,
		},
		MaxFutureSeconds: constants.MaxFutureSeconds,
	}
}

func DefaultDataDir() string {
	home, err := homedir.Dir()
	if err == nil && home != "" {
		return filepath.Join(home, ".trxguard")
	}
	return ""
}

// InstanceDir is the directory holding config, database and logs of the instance.
func (c *GuardConfig) InstanceDir() string {
	return filepath.Join(c.DataDir, c.Name)
}

// ResolvePath resolves path in the instance directory.
func (c *GuardConfig) ResolvePath(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.InstanceDir(), path)
}

func (c *GuardConfig) Validate() error {
	if c.Name == "" {
		return errors.New("empty instance name")
	}
	switch c.Storage.Backend {
	case storage.BackendMemory, storage.BackendLevelDB:
	default:
		return errors.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if c.RateLimit.Window == 0 {
		return errors.New("rate limit window must be positive")
	}
	if c.RateLimit.MaxPending <= 0 {
		return errors.New("max pending must be positive")
	}
	seen := make(map[string]bool)
	for _, d := range c.Fee.Delegates {
		if d.Name == "" {
			return errors.New("delegate without name")
		}
		if seen[d.Name] {
			return errors.Errorf("duplicate delegate %s", d.Name)
		}
		seen[d.Name] = true
	}
	return nil
}
