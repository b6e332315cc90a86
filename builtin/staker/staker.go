// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"github.com/vechain/atmos/atmos"
	"github.com/vechain/atmos/builtin/staker/accounts"
	"github.com/vechain/atmos/builtin/staker/positions"
	"github.com/vechain/atmos/builtin/staker/reverts"
	"github.com/vechain/atmos/builtin/staker/stakes"
	"github.com/vechain/atmos/builtin/staker/tokens"
	"github.com/vechain/atmos/builtin/table"
	"github.com/vechain/atmos/cry"
	"github.com/vechain/atmos/log"
	"github.com/vechain/atmos/state"
)

var logger = log.WithContext("pkg", "staker")

func SetLogger(l log.Logger) {
	logger = l
}

// Options are the contract wide settings of a staker.
type Options struct {
	// Namespace prefixes the withdrawal message, defaults to the contract name.
	Namespace string
	// Weight computes position weights, defaults to stakes.Linear.
	Weight stakes.WeightFunc
	// Signing recovers withdrawal signers. A shared instance keeps its cache across actions.
	Signing *cry.Signing
}

// Staker implements the actions of the staking contract.
type Staker struct {
	self      atmos.Name
	namespace string
	weight    stakes.WeightFunc
	signing   *cry.Signing

	tokenService    *tokens.Service
	positionService *positions.Service
	accountService  *accounts.Service

	visited int
}

// New create a new instance bound to the given state.
func New(self atmos.Name, state *state.State, opts *Options) *Staker {
	if opts == nil {
		opts = &Options{}
	}
	tctx := table.NewContext(self, state)

	s := &Staker{
		self:      self,
		namespace: opts.Namespace,
		weight:    opts.Weight,
		signing:   opts.Signing,

		tokenService:    tokens.New(tctx),
		positionService: positions.New(tctx),
		accountService:  accounts.New(tctx),
	}
	if s.namespace == "" {
		s.namespace = string(self)
	}
	if s.weight == nil {
		s.weight = stakes.Linear
	}
	if s.signing == nil {
		s.signing = cry.NewSigning()
	}
	return s
}

// Self returns the contract name.
func (s *Staker) Self() atmos.Name {
	return s.self
}

// Namespace returns the prefix of withdrawal messages.
func (s *Staker) Namespace() string {
	return s.namespace
}

func (s *Staker) requireSelf(actor atmos.Name) error {
	if actor != s.self {
		return reverts.Unauthorizedf("missing authority of %s", s.self)
	}
	return nil
}

func (s *Staker) newTransfer(t *tokens.Token, to atmos.Name, quantity atmos.Asset, memo string) *atmos.Transfer {
	return &atmos.Transfer{
		Contract: t.Contract,
		From:     s.self,
		To:       to,
		Quantity: quantity,
		Memo:     memo,
	}
}

//
// Getters - no state change
//

// GetToken returns the token, nil if it is not configured.
func (s *Staker) GetToken(symbol atmos.Symbol) (*tokens.Token, error) {
	return s.tokenService.Get(symbol)
}

// Tokens returns every configured token in symbol order.
func (s *Staker) Tokens() ([]*tokens.Token, error) {
	return s.tokenService.All()
}

// GetPosition returns a position, nil if absent.
func (s *Staker) GetPosition(symbol atmos.Symbol, id uint64) (*positions.Position, error) {
	return s.positionService.Get(symbol, id)
}

// Positions lists the open positions of a token in ascending id order.
func (s *Staker) Positions(symbol atmos.Symbol) ([]*positions.Position, error) {
	var out []*positions.Position
	err := s.positionService.Iterate(symbol, func(p *positions.Position) (bool, error) {
		out = append(out, p)
		return true, nil
	})
	return out, err
}

// PositionsOf lists the open positions of one depositor.
func (s *Staker) PositionsOf(symbol atmos.Symbol, pk atmos.PublicKey) ([]*positions.Position, error) {
	return s.positionService.ByKey(symbol, pk)
}

// GetAccount returns the aggregate of one depositor, nil if absent.
func (s *Staker) GetAccount(symbol atmos.Symbol, pk atmos.PublicKey) (*accounts.Account, error) {
	return s.accountService.GetByKey(symbol, pk)
}

// Accounts lists the depositor aggregates of a token in ascending id order.
func (s *Staker) Accounts(symbol atmos.Symbol) ([]*accounts.Account, error) {
	var out []*accounts.Account
	err := s.accountService.Iterate(symbol, func(a *accounts.Account) (bool, error) {
		out = append(out, a)
		return true, nil
	})
	return out, err
}

// Visited returns the number of positions the last claim walked through.
func (s *Staker) Visited() int {
	return s.visited
}

//
// Setters - state change
//

// Configure creates a stakable token or updates its parameters.
func (s *Staker) Configure(actor atmos.Name, params *tokens.Params, now uint64) error {
	logger.Debug("configuring token", "symbol", params.Symbol, "contract", params.Contract, "roundSubsidy", params.RoundSubsidy)

	if err := s.requireSelf(actor); err != nil {
		logger.Info("configure failed", "symbol", params.Symbol, "error", err)
		return err
	}
	t, created, err := s.tokenService.Configure(params, now)
	if err != nil {
		logger.Info("configure failed", "symbol", params.Symbol, "error", err)
		return err
	}

	logger.Info("configured token", "symbol", t.Symbol, "created", created)
	return nil
}

// Stake opens a position for the depositor key, locked until expires.
func (s *Staker) Stake(pk atmos.PublicKey, amount atmos.Asset, expires, now uint64) (*positions.Position, error) {
	logger.Debug("staking", "key", pk, "amount", amount, "expires", expires)

	t, err := s.tokenService.GetExisting(amount.Symbol)
	if err != nil {
		logger.Info("stake failed", "amount", amount, "error", err)
		return nil, err
	}
	weighted, err := s.checkStake(t, amount, expires, now)
	if err != nil {
		logger.Info("stake failed", "amount", amount, "error", err)
		return nil, err
	}

	if err := s.tokenService.AddStake(t, amount, weighted.Weight); err != nil {
		return nil, err
	}
	p, err := s.positionService.Open(pk, amount, weighted.Weight, expires)
	if err != nil {
		return nil, err
	}
	if _, err := s.accountService.Deposit(pk, amount, weighted.Weight); err != nil {
		return nil, err
	}

	logger.Info("staked", "symbol", amount.Symbol, "id", p.ID, "weight", p.Weight)
	return p, nil
}

func (s *Staker) checkStake(t *tokens.Token, amount atmos.Asset, expires, now uint64) (*stakes.WeightedStake, error) {
	if amount.Cmp(t.MinStake) < 0 {
		return nil, reverts.Policyf("amount does not meet the minimum stake requirement")
	}
	if expires < now || expires-now < t.MinStakeSecs {
		return nil, reverts.Policyf("the staking period is too short")
	}
	if expires-now > t.MaxStakeSecs {
		return nil, reverts.Policyf("the staking period is too long")
	}
	weighted, err := stakes.NewWeightedStake(s.weight, amount.Amount, expires-now)
	if err != nil {
		return nil, reverts.Policyf("weight overflows: %v", err)
	}
	if weighted.Weight.IsZero() {
		return nil, reverts.Policyf("weight must be greater than zero")
	}
	return weighted, nil
}

// AddSubsidy tops up the reward pool of a token.
func (s *Staker) AddSubsidy(amount atmos.Asset) error {
	logger.Debug("adding subsidy", "amount", amount)

	t, err := s.tokenService.AddSubsidy(amount)
	if err != nil {
		logger.Info("add subsidy failed", "amount", amount, "error", err)
		return err
	}

	logger.Info("added subsidy", "symbol", t.Symbol, "subsidySupply", t.SubsidySupply)
	return nil
}

// ResetClaim moves the claim timer of a token back by one interval.
func (s *Staker) ResetClaim(actor atmos.Name, symbol atmos.Symbol) error {
	logger.Debug("resetting claim", "symbol", symbol)

	if err := s.requireSelf(actor); err != nil {
		logger.Info("reset claim failed", "symbol", symbol, "error", err)
		return err
	}
	t, err := s.tokenService.ResetClaim(symbol)
	if err != nil {
		logger.Info("reset claim failed", "symbol", symbol, "error", err)
		return err
	}

	logger.Info("reset claim", "symbol", symbol, "lastClaim", t.LastClaim)
	return nil
}

// Destroy wipes every token with its positions and accounts. Id counters survive.
func (s *Staker) Destroy(actor atmos.Name) error {
	logger.Debug("destroying")

	if err := s.requireSelf(actor); err != nil {
		logger.Info("destroy failed", "error", err)
		return err
	}
	all, err := s.tokenService.All()
	if err != nil {
		return err
	}
	for _, t := range all {
		if err := s.positionService.Clear(t.Symbol); err != nil {
			return err
		}
		if err := s.accountService.Clear(t.Symbol); err != nil {
			return err
		}
	}
	if err := s.tokenService.Clear(); err != nil {
		return err
	}

	logger.Info("destroyed", "tokens", len(all))
	return nil
}
