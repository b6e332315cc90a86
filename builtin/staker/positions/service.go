// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package positions

import (
	"github.com/vechain/atmos/atmos"
	"github.com/vechain/atmos/builtin/staker/reverts"
	"github.com/vechain/atmos/builtin/table"
)

const tableName = "stakes"

// Service is the ledger of open positions, scoped per token and
// indexed by the fingerprint of the depositor key.
type Service struct {
	table *table.Table[Position]
	ids   *table.Counter
}

func New(ctx *table.Context) *Service {
	return &Service{
		table: table.NewIndexed[Position](ctx, tableName, fingerprint, false),
		ids:   table.NewCounter(ctx, tableName),
	}
}

func (s *Service) rows(symbol atmos.Symbol) *table.Scoped[Position] {
	return s.table.Scope(symbol.Raw())
}

// Get returns the position, nil if absent.
func (s *Service) Get(symbol atmos.Symbol, id uint64) (*Position, error) {
	return s.rows(symbol).Get(id)
}

// GetExisting returns the position or a not found revert.
func (s *Service) GetExisting(symbol atmos.Symbol, id uint64) (*Position, error) {
	p, err := s.Get(symbol, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, reverts.NotFoundf("stake %d of %s not found", id, symbol)
	}
	return p, nil
}

// Open records a new position under the next id of the token.
func (s *Service) Open(pk atmos.PublicKey, amount atmos.Asset, weight atmos.Weight, expires uint64) (*Position, error) {
	id, err := s.ids.Next(amount.Symbol.Raw())
	if err != nil {
		return nil, err
	}
	p := &Position{
		ID:             id,
		PublicKey:      pk,
		Weight:         weight,
		InitialBalance: amount,
		Balance:        amount,
		Expires:        expires,
	}
	if err := s.rows(amount.Symbol).Set(id, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Credit adds a reward to the position balance.
func (s *Service) Credit(p *Position, reward uint64) error {
	balance, err := p.Balance.Add(atmos.NewAsset(reward, p.Balance.Symbol))
	if err != nil {
		return reverts.Policyf("stake %d balance: %v", p.ID, err)
	}
	p.Balance = balance
	return s.rows(balance.Symbol).Set(p.ID, p)
}

// Close removes the position.
func (s *Service) Close(symbol atmos.Symbol, id uint64) error {
	return s.rows(symbol).Delete(id)
}

// Iterate visits the positions of a token in ascending id order.
func (s *Service) Iterate(symbol atmos.Symbol, fn func(p *Position) (bool, error)) error {
	return s.rows(symbol).Iterate(func(_ uint64, p *Position) (bool, error) {
		return fn(p)
	})
}

// ByKey returns the positions of one depositor in ascending id order.
func (s *Service) ByKey(symbol atmos.Symbol, pk atmos.PublicKey) ([]*Position, error) {
	rows := s.rows(symbol)
	var out []*Position
	err := rows.IterateIndex(pk.Fingerprint(), func(id uint64) (bool, error) {
		p, err := rows.Get(id)
		if err != nil {
			return false, err
		}
		if p == nil {
			return false, reverts.Corruptionf("index of %s refers to missing stake %d", symbol, id)
		}
		out = append(out, p)
		return true, nil
	})
	return out, err
}

// Clear removes every position of a token. Ids are not reused afterwards.
func (s *Service) Clear(symbol atmos.Symbol) error {
	return s.rows(symbol).Clear()
}

// NextID returns the id the next position of the token will get.
func (s *Service) NextID(symbol atmos.Symbol) (uint64, error) {
	return s.ids.Peek(symbol.Raw())
}
