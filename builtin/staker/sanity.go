// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"github.com/davecgh/go-spew/spew"

	"github.com/vechain/atmos/atmos"
	"github.com/vechain/atmos/builtin/staker/accounts"
	"github.com/vechain/atmos/builtin/staker/positions"
	"github.com/vechain/atmos/builtin/staker/reverts"
	"github.com/vechain/atmos/builtin/staker/tokens"
)

// totals accumulates balance and weight of a set of positions.
type totals struct {
	Balance uint64
	Weight  atmos.Weight
}

func (t *totals) add(balance uint64, weight atmos.Weight) error {
	b, err := atmos.AddUint64(t.Balance, balance)
	if err != nil {
		return err
	}
	w, err := t.Weight.Add(weight)
	if err != nil {
		return err
	}
	t.Balance, t.Weight = b, w
	return nil
}

// Report is the outcome of the sanity check of one token.
type Report struct {
	Symbol    atmos.Symbol `json:"symbol"`
	Positions int          `json:"positions"`
	Accounts  int          `json:"accounts"`
	Weight    atmos.Weight `json:"totalWeight"`
	Supply    atmos.Asset  `json:"totalSupply"`
}

// Sanity checks that the aggregates of every token agree with its positions
// and accounts. It does not modify state.
func (s *Staker) Sanity() ([]*Report, error) {
	logger.Debug("checking sanity")

	all, err := s.tokenService.All()
	if err != nil {
		return nil, err
	}
	reports := make([]*Report, 0, len(all))
	for _, t := range all {
		report, err := s.sanity(t)
		if err != nil {
			if reverts.IsCorruption(err) {
				logger.Error("sanity check failed", "symbol", t.Symbol, "error", err)
			}
			return nil, err
		}
		reports = append(reports, report)
	}

	logger.Info("sanity is ok", "tokens", len(reports))
	return reports, nil
}

func (s *Staker) sanity(t *tokens.Token) (*Report, error) {
	var (
		fromPositions totals
		fromAccounts  totals
		byKey         = make(map[atmos.PublicKey]*totals)
		report        = &Report{Symbol: t.Symbol, Weight: t.TotalWeight, Supply: t.TotalSupply}
	)

	err := s.positionService.Iterate(t.Symbol, func(p *positions.Position) (bool, error) {
		report.Positions++
		if p.Balance.Symbol != t.Symbol {
			return false, reverts.Corruptionf("stake %d of %s holds %s", p.ID, t.Symbol, p.Balance)
		}
		if err := fromPositions.add(p.Balance.Amount, p.Weight); err != nil {
			return false, reverts.Corruptionf("stake totals of %s overflow", t.Symbol)
		}
		sum, ok := byKey[p.PublicKey]
		if !ok {
			sum = &totals{}
			byKey[p.PublicKey] = sum
		}
		return true, sum.add(p.Balance.Amount, p.Weight)
	})
	if err != nil {
		return nil, err
	}
	if fromPositions.Weight != t.TotalWeight || fromPositions.Balance != t.TotalSupply.Amount {
		logger.Debug("stake totals mismatch", "token", spew.Sdump(t), "stakes", spew.Sdump(fromPositions))
		return nil, reverts.Corruptionf("%s: stat total_weight=%v total_supply=%s, stakes total_weight=%v total_supply=%s",
			t.Symbol, t.TotalWeight, t.TotalSupply, fromPositions.Weight, atmos.NewAsset(fromPositions.Balance, t.Symbol))
	}

	err = s.accountService.Iterate(t.Symbol, func(a *accounts.Account) (bool, error) {
		report.Accounts++
		if err := fromAccounts.add(a.TotalBalance.Amount, a.TotalWeight); err != nil {
			return false, reverts.Corruptionf("account totals of %s overflow", t.Symbol)
		}
		sum, ok := byKey[a.PublicKey]
		if !ok {
			return false, reverts.Corruptionf("%s: account %d of %s has no stake", t.Symbol, a.ID, a.PublicKey)
		}
		if sum.Balance != a.TotalBalance.Amount || sum.Weight != a.TotalWeight {
			logger.Debug("account mismatch", "account", spew.Sdump(a), "stakes", spew.Sdump(sum))
			return false, reverts.Corruptionf("%s: account %d total_weight=%v total_balance=%s, stakes total_weight=%v total_balance=%s",
				t.Symbol, a.ID, a.TotalWeight, a.TotalBalance, sum.Weight, atmos.NewAsset(sum.Balance, t.Symbol))
		}
		delete(byKey, a.PublicKey)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	if fromAccounts.Weight != t.TotalWeight || fromAccounts.Balance != t.TotalSupply.Amount {
		logger.Debug("account totals mismatch", "token", spew.Sdump(t), "accounts", spew.Sdump(fromAccounts))
		return nil, reverts.Corruptionf("%s: stat total_weight=%v total_supply=%s, accounts total_weight=%v total_supply=%s",
			t.Symbol, t.TotalWeight, t.TotalSupply, fromAccounts.Weight, atmos.NewAsset(fromAccounts.Balance, t.Symbol))
	}
	if len(byKey) > 0 {
		return nil, reverts.Corruptionf("%s: stakes of %d keys have no account", t.Symbol, len(byKey))
	}
	return report, nil
}
