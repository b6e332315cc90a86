// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tokens

import (
	"github.com/vechain/atmos/atmos"
	"github.com/vechain/atmos/builtin/staker/reverts"
)

// Token is the configuration and the aggregates of one stakable token.
type Token struct {
	Symbol       atmos.Symbol
	Contract     atmos.Name // transfer service, immutable once set
	RoundSubsidy atmos.Asset
	MinClaimSecs uint64
	MinStakeSecs uint64
	MaxStakeSecs uint64
	MinStake     atmos.Asset

	TotalWeight   atmos.Weight // sum of open position weights
	TotalSupply   atmos.Asset  // sum of open position balances
	SubsidySupply atmos.Asset  // undistributed reward pool
	LastClaim     uint64
	// Retained is the cumulative part of debited round subsidies that was paid
	// neither to positions nor to relays.
	Retained atmos.Asset
}

// Params are the administrator controlled fields of a token.
type Params struct {
	Contract     atmos.Name   `json:"contract"`
	Symbol       atmos.Symbol `json:"symbol"`
	RoundSubsidy atmos.Asset  `json:"roundSubsidy"`
	MinClaimSecs uint64       `json:"minClaimSecs"`
	MinStakeSecs uint64       `json:"minStakeSecs"`
	MaxStakeSecs uint64       `json:"maxStakeSecs"`
	MinStake     atmos.Asset  `json:"minStake"`
}

// Validate checks the parameters are consistent.
func (p *Params) Validate() error {
	if !p.Symbol.IsValid() {
		return reverts.Malformedf("invalid symbol")
	}
	if !p.Contract.IsValid() {
		return reverts.Malformedf("invalid contract name %q", p.Contract)
	}
	if !p.RoundSubsidy.IsValid() || p.RoundSubsidy.Symbol != p.Symbol {
		return reverts.Malformedf("round subsidy symbol mismatch")
	}
	if p.RoundSubsidy.Amount == 0 {
		return reverts.Policyf("round subsidy must be positive")
	}
	if !p.MinStake.IsValid() || p.MinStake.Symbol != p.Symbol {
		return reverts.Malformedf("min stake symbol mismatch")
	}
	if p.MinStake.Amount == 0 {
		return reverts.Policyf("min stake must be positive")
	}
	if p.MinClaimSecs == 0 {
		return reverts.Policyf("min claim seconds must be positive")
	}
	if p.MinStakeSecs == 0 {
		return reverts.Policyf("min stake seconds must be positive")
	}
	if p.MaxStakeSecs < p.MinStakeSecs {
		return reverts.Policyf("max stake seconds must not be less than min stake seconds")
	}
	return nil
}

func (t *Token) apply(p *Params) {
	t.RoundSubsidy = p.RoundSubsidy
	t.MinClaimSecs = p.MinClaimSecs
	t.MinStakeSecs = p.MinStakeSecs
	t.MaxStakeSecs = p.MaxStakeSecs
	t.MinStake = p.MinStake
}

func newToken(p *Params, now uint64) *Token {
	zero := atmos.NewAsset(0, p.Symbol)
	t := &Token{
		Symbol:        p.Symbol,
		Contract:      p.Contract,
		TotalSupply:   zero,
		SubsidySupply: zero,
		Retained:      zero,
		LastClaim:     now,
	}
	t.apply(p)
	return t
}
