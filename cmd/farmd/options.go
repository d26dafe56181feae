package main

import (
	"os"

	"github.com/meverselabs/farms/cmd/config"
	"github.com/meverselabs/farms/common"
	"github.com/meverselabs/farms/core/derive"
)

func (opts *rootOptions) load() (*config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		if err := config.LoadFile(opts.configPath, cfg); err != nil {
			return nil, err
		}
	}
	if len(opts.envFiles) > 0 {
		if err := config.LoadEnv(opts.envFiles...); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if opts.verbose {
		cfg.Verbose = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// tokenAddress returns the configured token contract address or the one derived under the program
func tokenAddress(cfg *config.Config, deriver *derive.Deriver) (common.Address, error) {
	if cfg.TokenID != "" {
		return common.ParseAddress(cfg.TokenID)
	}
	d, err := deriver.Derive([][]byte{[]byte("token")})
	if err != nil {
		return common.ZeroAddr, err
	}
	return d.Address, nil
}
