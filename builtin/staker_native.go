// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/vechain/atmos/atmos"
	"github.com/vechain/atmos/builtin/staker"
	"github.com/vechain/atmos/builtin/staker/tokens"
	"github.com/vechain/atmos/metrics"
	"github.com/vechain/atmos/xenv"
)

// Action names.
const (
	ActionConfigure     = "configure"
	ActionClaim         = "claim"
	ActionWithdraw      = "withdraw"
	ActionEmergencyExit = "emergencyexit"
	ActionResetClaim    = "resetclaim"
	ActionSanity        = "sanity"
	ActionDestroy       = "destroy"
	ActionTransfer      = "transfer"
)

var metricClaimPositions = metrics.LazyLoadHistogram("claim_positions", metrics.BucketClaimPositions)

type ClaimArgs struct {
	Symbol atmos.Symbol `json:"symbol"`
	Relay  atmos.Name   `json:"relay"`
	Memo   string       `json:"memo"`
}

type WithdrawArgs struct {
	ID        uint64          `json:"id"`
	Symbol    atmos.Symbol    `json:"symbol"`
	To        atmos.Name      `json:"to"`
	Memo      string          `json:"memo"`
	Signature atmos.Signature `json:"sig"`
}

type EmergencyExitArgs struct {
	Symbol   atmos.Symbol `json:"symbol"`
	StakesTo atmos.Name   `json:"stakesTo"`
	SupplyTo atmos.Name   `json:"supplyTo"`
}

type ResetClaimArgs struct {
	Symbol atmos.Symbol `json:"symbol"`
}

// TransferArgs is the notification of a transfer made on the token service that is the actor.
type TransferArgs struct {
	From     atmos.Name  `json:"from"`
	To       atmos.Name  `json:"to"`
	Quantity atmos.Asset `json:"quantity"`
	Memo     string      `json:"memo"`
}

func init() {
	defines := []struct {
		name     string
		readOnly bool
		run      func(env *xenv.Environment, s *staker.Staker) any
	}{
		{ActionConfigure, false, func(env *xenv.Environment, s *staker.Staker) any {
			var args tokens.Params
			env.ParseArgs(&args)

			env.Must(s.Configure(env.Actor(), &args, env.Time()))
			return nil
		}},
		{ActionClaim, false, func(env *xenv.Environment, s *staker.Staker) any {
			var args ClaimArgs
			env.ParseArgs(&args)

			transfer, err := s.Claim(args.Symbol, args.Relay, args.Memo, env.Time())
			metricClaimPositions().Observe(int64(s.Visited()))
			env.Must(err)
			env.Transfer(transfer)
			return transfer
		}},
		{ActionWithdraw, false, func(env *xenv.Environment, s *staker.Staker) any {
			var args WithdrawArgs
			env.ParseArgs(&args)

			transfer, err := s.Withdraw(args.ID, args.Symbol, args.To, args.Memo, args.Signature, env.Time())
			env.Must(err)
			env.Transfer(transfer)
			return transfer
		}},
		{ActionEmergencyExit, false, func(env *xenv.Environment, s *staker.Staker) any {
			var args EmergencyExitArgs
			env.ParseArgs(&args)

			transfers, err := s.EmergencyExit(env.Actor(), args.Symbol, args.StakesTo, args.SupplyTo)
			env.Must(err)
			env.Transfer(transfers...)
			return transfers
		}},
		{ActionResetClaim, false, func(env *xenv.Environment, s *staker.Staker) any {
			var args ResetClaimArgs
			env.ParseArgs(&args)

			env.Must(s.ResetClaim(env.Actor(), args.Symbol))
			return nil
		}},
		{ActionSanity, true, func(env *xenv.Environment, s *staker.Staker) any {
			reports, err := s.Sanity()
			env.Must(err)
			return reports
		}},
		{ActionDestroy, false, func(env *xenv.Environment, s *staker.Staker) any {
			env.Must(s.Destroy(env.Actor()))
			return nil
		}},
		{ActionTransfer, false, func(env *xenv.Environment, s *staker.Staker) any {
			var args TransferArgs
			env.ParseArgs(&args)

			env.Must(s.OnTransfer(env.Actor(), &atmos.Transfer{
				Contract: env.Actor(),
				From:     args.From,
				To:       args.To,
				Quantity: args.Quantity,
				Memo:     args.Memo,
			}, env.Time()))
			return nil
		}},
	}
	for _, def := range defines {
		if _, dup := nativeActions[def.name]; dup {
			panic("duplicated action: " + def.name)
		}
		nativeActions[def.name] = &nativeAction{
			name:     def.name,
			readOnly: def.readOnly,
			run:      def.run,
		}
	}
}
