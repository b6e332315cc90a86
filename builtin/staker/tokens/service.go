// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tokens

import (
	"github.com/pkg/errors"

	"github.com/vechain/atmos/atmos"
	"github.com/vechain/atmos/builtin/staker/reverts"
	"github.com/vechain/atmos/builtin/table"
)

const tableName = "stats"

// Service is the registry of stakable tokens.
type Service struct {
	rows *table.Scoped[Token]
}

func New(ctx *table.Context) *Service {
	return &Service{
		rows: table.New[Token](ctx, tableName).Scope(0),
	}
}

// Get returns the token, nil if it is not configured.
func (s *Service) Get(symbol atmos.Symbol) (*Token, error) {
	return s.rows.Get(symbol.Raw())
}

// GetExisting returns the token or a not found revert.
func (s *Service) GetExisting(symbol atmos.Symbol) (*Token, error) {
	t, err := s.Get(symbol)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, reverts.NotFoundf("token %s is not configured", symbol)
	}
	return t, nil
}

func (s *Service) Set(t *Token) error {
	return s.rows.Set(t.Symbol.Raw(), t)
}

// Configure creates a token or updates its parameters. Aggregates of an existing token are untouched.
func (s *Service) Configure(p *Params, now uint64) (*Token, bool, error) {
	if err := p.Validate(); err != nil {
		return nil, false, err
	}
	t, err := s.Get(p.Symbol)
	if err != nil {
		return nil, false, err
	}
	created := t == nil
	if created {
		t = newToken(p, now)
	} else {
		if t.Contract != p.Contract {
			return nil, false, reverts.Unauthorizedf("cannot change the contract of token %s", p.Symbol)
		}
		t.apply(p)
	}
	if err := s.Set(t); err != nil {
		return nil, false, err
	}
	return t, created, nil
}

// AddStake adds a new position's amount and weight to the aggregates.
func (s *Service) AddStake(t *Token, amount atmos.Asset, weight atmos.Weight) error {
	supply, err := t.TotalSupply.Add(amount)
	if err != nil {
		return reverts.Policyf("total supply: %v", err)
	}
	totalWeight, err := t.TotalWeight.Add(weight)
	if err != nil {
		return reverts.Policyf("total weight: %v", err)
	}
	t.TotalSupply, t.TotalWeight = supply, totalWeight
	return s.Set(t)
}

// RemoveStake removes a closed position's balance and weight from the aggregates.
func (s *Service) RemoveStake(t *Token, balance atmos.Asset, weight atmos.Weight) error {
	supply, err := t.TotalSupply.Sub(balance)
	if err != nil {
		return reverts.Corruptionf("total supply of %s below position balance: %v", t.Symbol, err)
	}
	totalWeight, err := t.TotalWeight.Sub(weight)
	if err != nil {
		return reverts.Corruptionf("total weight of %s below position weight", t.Symbol)
	}
	t.TotalSupply, t.TotalWeight = supply, totalWeight
	return s.Set(t)
}

// AddSubsidy tops up the reward pool.
func (s *Service) AddSubsidy(amount atmos.Asset) (*Token, error) {
	t, err := s.GetExisting(amount.Symbol)
	if err != nil {
		return nil, err
	}
	supply, err := t.SubsidySupply.Add(amount)
	if err != nil {
		return nil, reverts.Policyf("subsidy supply: %v", err)
	}
	t.SubsidySupply = supply
	if err := s.Set(t); err != nil {
		return nil, err
	}
	return t, nil
}

// ResetClaim moves the claim timer back by one claim interval, saturating at zero.
func (s *Service) ResetClaim(symbol atmos.Symbol) (*Token, error) {
	t, err := s.GetExisting(symbol)
	if err != nil {
		return nil, err
	}
	if t.LastClaim > t.MinClaimSecs {
		t.LastClaim -= t.MinClaimSecs
	} else {
		t.LastClaim = 0
	}
	if err := s.Set(t); err != nil {
		return nil, err
	}
	return t, nil
}

// Iterate visits tokens in symbol order.
func (s *Service) Iterate(fn func(t *Token) (bool, error)) error {
	return s.rows.Iterate(func(_ uint64, t *Token) (bool, error) {
		return fn(t)
	})
}

// All returns every configured token.
func (s *Service) All() ([]*Token, error) {
	var all []*Token
	err := s.Iterate(func(t *Token) (bool, error) {
		all = append(all, t)
		return true, nil
	})
	if err != nil {
		return nil, errors.WithMessage(err, "list tokens")
	}
	return all, nil
}

// Clear removes every token.
func (s *Service) Clear() error {
	return s.rows.Clear()
}
