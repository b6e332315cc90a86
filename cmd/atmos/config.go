// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/atmos/atmos"
	"github.com/vechain/atmos/builtin"
	"github.com/vechain/atmos/builtin/staker"
	"github.com/vechain/atmos/builtin/staker/stakes"
	"github.com/vechain/atmos/builtin/staker/tokens"
)

const defaultContract = "atmosstake"

// Config is the content of the config file.
type Config struct {
	Contract  string        `yaml:"contract"`
	Namespace string        `yaml:"namespace"`
	Weight    string        `yaml:"weight"`
	Tokens    []TokenConfig `yaml:"tokens"`
}

// TokenConfig describes one token. The symbol is taken from the round subsidy.
type TokenConfig struct {
	Contract     string `yaml:"contract"`
	RoundSubsidy string `yaml:"roundSubsidy"`
	MinClaimSecs uint64 `yaml:"minClaimSecs"`
	MinStakeSecs uint64 `yaml:"minStakeSecs"`
	MaxStakeSecs uint64 `yaml:"maxStakeSecs"`
	MinStake     string `yaml:"minStake"`
}

// Params converts the entry into configure arguments.
func (c *TokenConfig) Params() (*tokens.Params, error) {
	contract, err := atmos.ParseName(c.Contract)
	if err != nil {
		return nil, errors.WithMessage(err, "contract")
	}
	subsidy, err := atmos.ParseAsset(c.RoundSubsidy)
	if err != nil {
		return nil, errors.WithMessage(err, "roundSubsidy")
	}
	minStake, err := atmos.ParseAsset(c.MinStake)
	if err != nil {
		return nil, errors.WithMessage(err, "minStake")
	}
	if minStake.Symbol != subsidy.Symbol {
		return nil, errors.Errorf("minStake symbol %v differs from roundSubsidy symbol %v", minStake.Symbol, subsidy.Symbol)
	}
	return &tokens.Params{
		Contract:     contract,
		Symbol:       subsidy.Symbol,
		RoundSubsidy: subsidy,
		MinClaimSecs: c.MinClaimSecs,
		MinStakeSecs: c.MinStakeSecs,
		MaxStakeSecs: c.MaxStakeSecs,
		MinStake:     minStake,
	}, nil
}

// loadConfig reads the config file. An empty path gives the defaults.
func loadConfig(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path) //#nosec G304
		if err != nil {
			return nil, errors.Wrap(err, "read config")
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(err, "decode config")
		}
	}
	if cfg.Contract == "" {
		cfg.Contract = defaultContract
	}
	return cfg, nil
}

// self returns the validated contract name.
func (c *Config) self() (atmos.Name, error) {
	name, err := atmos.ParseName(c.Contract)
	if err != nil {
		return "", errors.WithMessage(err, "contract")
	}
	return name, nil
}

// newContract builds the native contract with the configured namespace and weight model.
func (c *Config) newContract() (*builtin.Contract, error) {
	weight, err := stakes.Model(c.Weight)
	if err != nil {
		return nil, err
	}
	return builtin.NewContract(&staker.Options{
		Namespace: c.Namespace,
		Weight:    weight,
	}), nil
}

// tokenParams converts every token entry, failing on the first invalid one.
func (c *Config) tokenParams() ([]*tokens.Params, error) {
	list := make([]*tokens.Params, 0, len(c.Tokens))
	for i := range c.Tokens {
		p, err := c.Tokens[i].Params()
		if err != nil {
			return nil, errors.WithMessagef(err, "tokens[%d]", i)
		}
		list = append(list, p)
	}
	return list, nil
}
