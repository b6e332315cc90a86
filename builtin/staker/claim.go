// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"github.com/holiman/uint256"

	"github.com/vechain/atmos/atmos"
	"github.com/vechain/atmos/builtin/staker/positions"
	"github.com/vechain/atmos/builtin/staker/reverts"
)

const (
	stakersShare = 99 // percent of a round paid to positions
	relayShare   = 1  // percent of a round paid to the relay
)

// Claim distributes one round of subsidy over the open positions of a token,
// pro rata to their weight, and pays the relay fee to the caller.
func (s *Staker) Claim(symbol atmos.Symbol, relay atmos.Name, memo string, now uint64) (*atmos.Transfer, error) {
	logger.Debug("claiming", "symbol", symbol, "relay", relay)

	s.visited = 0
	transfer, err := s.claim(symbol, relay, memo, now)
	if err != nil {
		logger.Info("claim failed", "symbol", symbol, "relay", relay, "error", err)
		return nil, err
	}

	logger.Info("claimed", "symbol", symbol, "relay", relay, "fee", transfer.Quantity, "positions", s.visited)
	return transfer, nil
}

func (s *Staker) claim(symbol atmos.Symbol, relay atmos.Name, memo string, now uint64) (*atmos.Transfer, error) {
	if relay == s.self {
		return nil, reverts.Policyf("self cannot relay")
	}
	if !relay.IsValid() {
		return nil, reverts.Malformedf("invalid relay name %q", relay)
	}
	t, err := s.tokenService.GetExisting(symbol)
	if err != nil {
		return nil, err
	}

	if now < t.LastClaim {
		return nil, reverts.Policyf("last claim at %d is ahead of now %d", t.LastClaim, now)
	}
	if elapsed := now - t.LastClaim; elapsed < t.MinClaimSecs {
		return nil, reverts.Policyf("it has not been a sufficient amount of time since the last claim, remaining secs: %d",
			t.MinClaimSecs-elapsed)
	}
	if t.SubsidySupply.Cmp(t.RoundSubsidy) < 0 {
		return nil, reverts.Policyf("insufficient subsidy")
	}

	round := t.RoundSubsidy.Amount
	// round <= MaxAmount, the products cannot overflow
	stakePool := round * stakersShare / 100
	relayFee := round * relayShare / 100
	if relayFee == 0 {
		return nil, reverts.Policyf("relay subsidy must be greater than zero, increase the round subsidy")
	}
	if t.TotalWeight.IsZero() {
		return nil, reverts.Policyf("no open stake to reward")
	}

	var (
		pool        = uint256.NewInt(stakePool)
		totalWeight = t.TotalWeight.Uint256()
		share       = new(uint256.Int)
		distributed uint64
	)
	err = s.positionService.Iterate(symbol, func(p *positions.Position) (bool, error) {
		s.visited++
		// pool < 2^62 and weights are products of two uint64, no overflow in 256 bits
		share.Mul(pool, p.Weight.Uint256())
		share.Div(share, totalWeight)
		if !share.IsUint64() {
			return false, reverts.Corruptionf("stake %d of %s: weight %v exceeds total weight %v", p.ID, symbol, p.Weight, t.TotalWeight)
		}
		reward := share.Uint64()
		if reward == 0 {
			return true, nil
		}
		if err := s.accountService.Credit(p.PublicKey, atmos.NewAsset(reward, symbol)); err != nil {
			return false, err
		}
		if err := s.positionService.Credit(p, reward); err != nil {
			return false, err
		}
		distributed += reward
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	if distributed > stakePool {
		return nil, reverts.Corruptionf("distributed %d exceeds stake pool %d of %s, position weights exceed total weight %v",
			distributed, stakePool, symbol, t.TotalWeight)
	}

	if t.SubsidySupply, err = t.SubsidySupply.Sub(t.RoundSubsidy); err != nil {
		return nil, reverts.Corruptionf("subsidy supply: %v", err)
	}
	if t.TotalSupply, err = t.TotalSupply.Add(atmos.NewAsset(distributed, symbol)); err != nil {
		return nil, reverts.Policyf("total supply: %v", err)
	}
	if t.Retained, err = t.Retained.Add(atmos.NewAsset(round-relayFee-distributed, symbol)); err != nil {
		return nil, reverts.Policyf("retained: %v", err)
	}
	t.LastClaim = now
	if err := s.tokenService.Set(t); err != nil {
		return nil, err
	}

	return s.newTransfer(t, relay, atmos.NewAsset(relayFee, symbol), memo), nil
}
