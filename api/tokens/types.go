// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tokens

import (
	"github.com/vechain/atmos/atmos"
	"github.com/vechain/atmos/builtin/staker/accounts"
	"github.com/vechain/atmos/builtin/staker/positions"
	"github.com/vechain/atmos/builtin/staker/tokens"
)

// Token for marshal token config and aggregates.
type Token struct {
	Symbol        atmos.Symbol `json:"symbol"`
	Contract      atmos.Name   `json:"contract"`
	RoundSubsidy  atmos.Asset  `json:"roundSubsidy"`
	MinClaimSecs  uint64       `json:"minClaimSecs"`
	MinStakeSecs  uint64       `json:"minStakeSecs"`
	MaxStakeSecs  uint64       `json:"maxStakeSecs"`
	MinStake      atmos.Asset  `json:"minStake"`
	TotalWeight   atmos.Weight `json:"totalWeight"`
	TotalSupply   atmos.Asset  `json:"totalSupply"`
	SubsidySupply atmos.Asset  `json:"subsidySupply"`
	LastClaim     uint64       `json:"lastClaim"`
	Retained      atmos.Asset  `json:"retained"`
}

func convertToken(t *tokens.Token) *Token {
	return &Token{
		Symbol:        t.Symbol,
		Contract:      t.Contract,
		RoundSubsidy:  t.RoundSubsidy,
		MinClaimSecs:  t.MinClaimSecs,
		MinStakeSecs:  t.MinStakeSecs,
		MaxStakeSecs:  t.MaxStakeSecs,
		MinStake:      t.MinStake,
		TotalWeight:   t.TotalWeight,
		TotalSupply:   t.TotalSupply,
		SubsidySupply: t.SubsidySupply,
		LastClaim:     t.LastClaim,
		Retained:      t.Retained,
	}
}

// Position for marshal stake position.
type Position struct {
	ID             uint64          `json:"id"`
	PublicKey      atmos.PublicKey `json:"publicKey"`
	Weight         atmos.Weight    `json:"weight"`
	InitialBalance atmos.Asset     `json:"initialBalance"`
	Balance        atmos.Asset     `json:"balance"`
	Expires        uint64          `json:"expires"`
	Matured        bool            `json:"matured"`
}

func convertPosition(p *positions.Position, now uint64) *Position {
	return &Position{
		ID:             p.ID,
		PublicKey:      p.PublicKey,
		Weight:         p.Weight,
		InitialBalance: p.InitialBalance,
		Balance:        p.Balance,
		Expires:        p.Expires,
		Matured:        p.IsMatured(now),
	}
}

// Account for marshal depositor account.
type Account struct {
	ID           uint64          `json:"id"`
	PublicKey    atmos.PublicKey `json:"publicKey"`
	TotalBalance atmos.Asset     `json:"totalBalance"`
	TotalWeight  atmos.Weight    `json:"totalWeight"`
}

func convertAccount(a *accounts.Account) *Account {
	return &Account{
		ID:           a.ID,
		PublicKey:    a.PublicKey,
		TotalBalance: a.TotalBalance,
		TotalWeight:  a.TotalWeight,
	}
}
