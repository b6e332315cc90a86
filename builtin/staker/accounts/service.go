// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"github.com/vechain/atmos/atmos"
	"github.com/vechain/atmos/builtin/staker/reverts"
	"github.com/vechain/atmos/builtin/table"
)

const tableName = "accounts"

// Service maintains the per depositor aggregates, uniquely indexed by key fingerprint.
type Service struct {
	table *table.Table[Account]
	ids   *table.Counter
}

func New(ctx *table.Context) *Service {
	return &Service{
		table: table.NewIndexed[Account](ctx, tableName, fingerprint, true),
		ids:   table.NewCounter(ctx, tableName),
	}
}

func (s *Service) rows(symbol atmos.Symbol) *table.Scoped[Account] {
	return s.table.Scope(symbol.Raw())
}

// GetByKey returns the account of a depositor, nil if absent.
func (s *Service) GetByKey(symbol atmos.Symbol, pk atmos.PublicKey) (*Account, error) {
	rows := s.rows(symbol)
	id, found, err := rows.Find(pk.Fingerprint())
	if err != nil || !found {
		return nil, err
	}
	a, err := rows.Get(id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, reverts.Corruptionf("index of %s refers to missing account %d", symbol, id)
	}
	return a, nil
}

// Deposit adds a new position's amount and weight to the depositor, creating the account on first deposit.
func (s *Service) Deposit(pk atmos.PublicKey, amount atmos.Asset, weight atmos.Weight) (*Account, error) {
	a, err := s.GetByKey(amount.Symbol, pk)
	if err != nil {
		return nil, err
	}
	if a == nil {
		id, err := s.ids.Next(amount.Symbol.Raw())
		if err != nil {
			return nil, err
		}
		a = &Account{
			ID:           id,
			PublicKey:    pk,
			TotalBalance: amount,
			TotalWeight:  weight,
		}
	} else {
		balance, err := a.TotalBalance.Add(amount)
		if err != nil {
			return nil, reverts.Policyf("account balance: %v", err)
		}
		totalWeight, err := a.TotalWeight.Add(weight)
		if err != nil {
			return nil, reverts.Policyf("account weight: %v", err)
		}
		a.TotalBalance, a.TotalWeight = balance, totalWeight
	}
	if err := s.rows(amount.Symbol).Set(a.ID, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Credit adds a reward to the depositor's balance. A missing account is corruption.
func (s *Service) Credit(pk atmos.PublicKey, reward atmos.Asset) error {
	a, err := s.GetByKey(reward.Symbol, pk)
	if err != nil {
		return err
	}
	if a == nil {
		return reverts.Corruptionf("account of %s for %s not found", pk, reward.Symbol)
	}
	balance, err := a.TotalBalance.Add(reward)
	if err != nil {
		return reverts.Policyf("account balance: %v", err)
	}
	a.TotalBalance = balance
	return s.rows(reward.Symbol).Set(a.ID, a)
}

// Withdraw removes a closed position from the depositor. The account is deleted
// when the position carried its whole balance, in which case the weights must agree too.
func (s *Service) Withdraw(pk atmos.PublicKey, balance atmos.Asset, weight atmos.Weight) (bool, error) {
	rows := s.rows(balance.Symbol)
	a, err := s.GetByKey(balance.Symbol, pk)
	if err != nil {
		return false, err
	}
	if a == nil {
		return false, reverts.Corruptionf("account of %s for %s not found", pk, balance.Symbol)
	}

	if a.TotalBalance == balance {
		if a.TotalWeight != weight {
			return false, reverts.Corruptionf("account %d of %s: weight %v does not match last stake weight %v",
				a.ID, balance.Symbol, a.TotalWeight, weight)
		}
		return true, rows.Delete(a.ID)
	}

	remaining, err := a.TotalBalance.Sub(balance)
	if err != nil {
		return false, reverts.Corruptionf("account %d of %s below stake balance", a.ID, balance.Symbol)
	}
	remainingWeight, err := a.TotalWeight.Sub(weight)
	if err != nil || remainingWeight.IsZero() {
		return false, reverts.Corruptionf("account %d of %s weight %v inconsistent with stake weight %v",
			a.ID, balance.Symbol, a.TotalWeight, weight)
	}
	a.TotalBalance, a.TotalWeight = remaining, remainingWeight
	return false, rows.Set(a.ID, a)
}

// Iterate visits the accounts of a token in ascending id order.
func (s *Service) Iterate(symbol atmos.Symbol, fn func(a *Account) (bool, error)) error {
	return s.rows(symbol).Iterate(func(_ uint64, a *Account) (bool, error) {
		return fn(a)
	})
}

// Clear removes every account of a token.
func (s *Service) Clear(symbol atmos.Symbol) error {
	return s.rows(symbol).Clear()
}
