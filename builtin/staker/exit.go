// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"fmt"

	"github.com/vechain/atmos/atmos"
	"github.com/vechain/atmos/builtin/staker/positions"
	"github.com/vechain/atmos/builtin/staker/reverts"
)

// EmergencyExitMemo is the memo of the transfer returning the subsidy pool on emergency exit.
const EmergencyExitMemo = "fexitstakes"

// WithdrawMessage returns the text a depositor signs to withdraw position id to the account to.
func WithdrawMessage(namespace string, id uint64, to atmos.Name, memo string) string {
	return fmt.Sprintf("%s unstake:%d %s %s", namespace, id, to, memo)
}

// WithdrawHash returns the sha256 digest of the withdrawal message.
func WithdrawHash(namespace string, id uint64, to atmos.Name, memo string) atmos.Bytes32 {
	return atmos.Sha256([]byte(WithdrawMessage(namespace, id, to, memo)))
}

// Withdraw closes a matured position on behalf of the key that signed the
// withdrawal message, and returns the transfer of its balance.
func (s *Staker) Withdraw(id uint64, symbol atmos.Symbol, to atmos.Name, memo string, sig atmos.Signature, now uint64) (*atmos.Transfer, error) {
	logger.Debug("withdrawing stake", "symbol", symbol, "id", id, "to", to)

	transfer, err := s.withdraw(id, symbol, to, memo, sig, now)
	if err != nil {
		logger.Info("withdraw failed", "symbol", symbol, "id", id, "error", err)
		return nil, err
	}

	logger.Info("withdrew stake", "symbol", symbol, "id", id, "amount", transfer.Quantity)
	return transfer, nil
}

func (s *Staker) withdraw(id uint64, symbol atmos.Symbol, to atmos.Name, memo string, sig atmos.Signature, now uint64) (*atmos.Transfer, error) {
	if to == s.self {
		return nil, reverts.Policyf("cannot exit to self")
	}
	if !to.IsValid() {
		return nil, reverts.Malformedf("invalid account name %q", to)
	}
	if !symbol.IsValid() {
		return nil, reverts.Malformedf("invalid token symbol")
	}

	p, err := s.positionService.GetExisting(symbol, id)
	if err != nil {
		return nil, err
	}
	if !p.IsMatured(now) {
		return nil, reverts.Policyf("stake is not yet expired")
	}

	signer, err := s.signing.Signer(WithdrawHash(s.namespace, id, to, memo), sig)
	if err != nil {
		return nil, reverts.Unauthorizedf("unrecoverable signature: %v", err)
	}
	if signer != p.PublicKey {
		return nil, reverts.Unauthorizedf("signature of %s does not match the stake key", signer)
	}

	t, err := s.tokenService.Get(symbol)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, reverts.Corruptionf("stake %d refers to unknown token %s", id, symbol)
	}
	if t.TotalSupply.Cmp(p.Balance) < 0 {
		return nil, reverts.Corruptionf("insufficient supply: total %s below stake balance %s", t.TotalSupply, p.Balance)
	}

	if err := s.positionService.Close(symbol, id); err != nil {
		return nil, err
	}
	if err := s.tokenService.RemoveStake(t, p.Balance, p.Weight); err != nil {
		return nil, err
	}
	if _, err := s.accountService.Withdraw(p.PublicKey, p.Balance, p.Weight); err != nil {
		return nil, err
	}

	return s.newTransfer(t, to, p.Balance, memo), nil
}

// EmergencyExit ejects every position of a token to stakesTo and, unless
// supplyTo is the contract itself, the subsidy pool to supplyTo.
func (s *Staker) EmergencyExit(actor atmos.Name, symbol atmos.Symbol, stakesTo, supplyTo atmos.Name) ([]*atmos.Transfer, error) {
	logger.Debug("emergency exit", "symbol", symbol, "stakesTo", stakesTo, "supplyTo", supplyTo)

	transfers, err := s.emergencyExit(actor, symbol, stakesTo, supplyTo)
	if err != nil {
		logger.Info("emergency exit failed", "symbol", symbol, "error", err)
		return nil, err
	}

	logger.Info("emergency exited", "symbol", symbol, "transfers", len(transfers))
	return transfers, nil
}

func (s *Staker) emergencyExit(actor atmos.Name, symbol atmos.Symbol, stakesTo, supplyTo atmos.Name) ([]*atmos.Transfer, error) {
	if err := s.requireSelf(actor); err != nil {
		return nil, err
	}
	if !stakesTo.IsValid() || !supplyTo.IsValid() {
		return nil, reverts.Malformedf("invalid account name")
	}
	t, err := s.tokenService.GetExisting(symbol)
	if err != nil {
		return nil, err
	}

	var transfers []*atmos.Transfer
	err = s.positionService.Iterate(symbol, func(p *positions.Position) (bool, error) {
		transfers = append(transfers, s.newTransfer(t, stakesTo, p.Balance, p.PublicKey.String()))
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	if err := s.positionService.Clear(symbol); err != nil {
		return nil, err
	}
	if err := s.accountService.Clear(symbol); err != nil {
		return nil, err
	}

	if supplyTo != s.self && t.SubsidySupply.Amount > 0 {
		transfers = append(transfers, s.newTransfer(t, supplyTo, t.SubsidySupply, EmergencyExitMemo))
	}

	zero := atmos.NewAsset(0, symbol)
	t.TotalSupply, t.SubsidySupply, t.TotalWeight = zero, zero, atmos.Weight{}
	if err := s.tokenService.Set(t); err != nil {
		return nil, err
	}
	return transfers, nil
}
