package config

import (
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"github.com/meverselabs/farms/common"
)

// EnvPrefix is the prefix of the environment variables overriding a Config
const EnvPrefix = "FARMD_"

// ErrInvalidConfig is returned by Validate
var ErrInvalidConfig = errors.New("invalid config")

// Config is the configuration of the farm daemon
type Config struct {
	ProgramID   string `toml:"program_id"`
	TokenID     string `toml:"token_id"`
	StoreDriver string `toml:"store_driver"`
	StoreRoot   string `toml:"store_root"`
	CacheSize   int    `toml:"cache_size"`
	RPCAddress  string `toml:"rpc_address"`
	RPCWorkers  int    `toml:"rpc_workers"`
	AllowMint   bool   `toml:"allow_mint"`
	Verbose     bool   `toml:"verbose"`
}

// Default returns a Config filled with the default values
func Default() *Config {
	return &Config{
		StoreDriver: "leveldb",
		StoreRoot:   "./_data",
		CacheSize:   4096,
		RPCAddress:  ":48000",
		RPCWorkers:  50,
	}
}

// Validate reports the first missing or malformed field
func (cfg *Config) Validate() error {
	if cfg.ProgramID == "" {
		return errors.Wrap(ErrInvalidConfig, "program_id is required")
	}
	if _, err := common.ParseAddress(cfg.ProgramID); err != nil {
		return errors.Wrapf(ErrInvalidConfig, "program_id: %v", err)
	}
	if cfg.TokenID != "" {
		if _, err := common.ParseAddress(cfg.TokenID); err != nil {
			return errors.Wrapf(ErrInvalidConfig, "token_id: %v", err)
		}
	}
	if cfg.StoreDriver == "" {
		return errors.Wrap(ErrInvalidConfig, "store_driver is required")
	}
	if cfg.StoreRoot == "" {
		return errors.Wrap(ErrInvalidConfig, "store_root is required")
	}
	if cfg.CacheSize <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "cache_size %d", cfg.CacheSize)
	}
	if cfg.RPCAddress == "" {
		return errors.Wrap(ErrInvalidConfig, "rpc_address is required")
	}
	if cfg.RPCWorkers <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "rpc_workers %d", cfg.RPCWorkers)
	}
	return nil
}

// LoadEnv loads the dotenv files into the process environment
// Variables already set in the environment are kept
func LoadEnv(files ...string) error {
	if err := godotenv.Load(files...); err != nil {
		return errors.WithStack(err)
	}
	return nil
}

// ApplyEnv overrides the fields which have a FARMD_ variable in lookup
func (cfg *Config) ApplyEnv(lookup func(key string) (string, bool)) error {
	strs := map[string]*string{
		"PROGRAM_ID":   &cfg.ProgramID,
		"TOKEN_ID":     &cfg.TokenID,
		"STORE_DRIVER": &cfg.StoreDriver,
		"STORE_ROOT":   &cfg.StoreRoot,
		"RPC_ADDRESS":  &cfg.RPCAddress,
	}
	for name, p := range strs {
		if v, has := lookup(EnvPrefix + name); has {
			*p = v
		}
	}
	ints := map[string]*int{
		"CACHE_SIZE":  &cfg.CacheSize,
		"RPC_WORKERS": &cfg.RPCWorkers,
	}
	for name, p := range ints {
		if v, has := lookup(EnvPrefix + name); has {
			n, err := strconv.Atoi(v)
			if err != nil {
				return errors.Wrapf(ErrInvalidConfig, "%s%s: %v", EnvPrefix, name, err)
			}
			*p = n
		}
	}
	bools := map[string]*bool{
		"ALLOW_MINT": &cfg.AllowMint,
		"VERBOSE":    &cfg.Verbose,
	}
	for name, p := range bools {
		if v, has := lookup(EnvPrefix + name); has {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return errors.Wrapf(ErrInvalidConfig, "%s%s: %v", EnvPrefix, name, err)
			}
			*p = b
		}
	}
	return nil
}
