// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"strconv"
	"strings"

	"github.com/vechain/atmos/atmos"
	"github.com/vechain/atmos/builtin/staker/reverts"
	"github.com/vechain/atmos/cry"
)

const (
	MethodStake      = "stake"
	MethodAddSubsidy = "addsubsidy"
)

// StakeMemo returns the memo of a transfer that stakes for pk during secs.
func StakeMemo(pk atmos.PublicKey, secs uint64) string {
	return MethodStake + " " + pk.String() + " " + strconv.FormatUint(secs, 10)
}

// OnTransfer handles a transfer notification of the token service code.
// The memo selects what the quantity is for.
func (s *Staker) OnTransfer(code atmos.Name, t *atmos.Transfer, now uint64) error {
	if t.From == s.self {
		// echo of an outgoing transfer
		return nil
	}
	logger.Debug("incoming transfer", "code", code, "from", t.From, "quantity", t.Quantity, "memo", t.Memo)

	if err := s.onTransfer(code, t, now); err != nil {
		logger.Info("incoming transfer rejected", "code", code, "from", t.From, "error", err)
		return err
	}
	return nil
}

func (s *Staker) onTransfer(code atmos.Name, t *atmos.Transfer, now uint64) error {
	if t.To != s.self {
		return reverts.Unauthorizedf("transfer is not addressed to %s", s.self)
	}
	if !t.Quantity.IsValid() {
		return reverts.Malformedf("invalid quantity")
	}
	if t.Quantity.Amount == 0 {
		return reverts.Malformedf("must be positive quantity")
	}

	token, err := s.tokenService.Get(t.Quantity.Symbol)
	if err != nil {
		return err
	}
	if token == nil || token.Contract != code {
		return reverts.Unauthorizedf("token is not supported")
	}

	args := strings.Split(t.Memo, " ")
	switch args[0] {
	case MethodStake:
		if len(args) != 3 {
			return reverts.Malformedf("expected exactly 3 arguments")
		}
		pk, err := cry.ParsePublicKey(args[1])
		if err != nil {
			return reverts.Malformedf("invalid public key: %v", err)
		}
		secs, err := strconv.ParseUint(args[2], 10, 64)
		if err != nil {
			return reverts.Malformedf("invalid stake duration %q", args[2])
		}
		expires, err := atmos.AddUint64(now, secs)
		if err != nil {
			return reverts.Policyf("the staking period is too long")
		}
		_, err = s.Stake(pk, t.Quantity, expires, now)
		return err
	case MethodAddSubsidy:
		if len(args) != 1 {
			return reverts.Malformedf("expected exactly 1 argument")
		}
		return s.AddSubsidy(t.Quantity)
	}
	return reverts.Malformedf("unknown method")
}
