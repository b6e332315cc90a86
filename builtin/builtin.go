// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/vechain/atmos/atmos"
	"github.com/vechain/atmos/builtin/staker"
	"github.com/vechain/atmos/builtin/staker/reverts"
	"github.com/vechain/atmos/cry"
	"github.com/vechain/atmos/state"
	"github.com/vechain/atmos/xenv"
)

// Contract binds the native actions to the settings of one staking contract.
type Contract struct {
	opts *staker.Options
}

func NewContract(opts *staker.Options) *Contract {
	o := staker.Options{}
	if opts != nil {
		o = *opts
	}
	// one signer cache shared by all actions
	if o.Signing == nil {
		o.Signing = cry.NewSigning()
	}
	return &Contract{opts: &o}
}

// Native returns the staker of contract self on the given state.
func (c *Contract) Native(self atmos.Name, state *state.State) *staker.Staker {
	return staker.New(self, state, c.opts)
}

// Call runs the named action in env.
func (c *Contract) Call(env *xenv.Environment, name string) (any, error) {
	action, ok := nativeActions[name]
	if !ok {
		return nil, reverts.Malformedf("unknown action %q", name)
	}
	out, err := env.Call(func(env *xenv.Environment) any {
		return action.run(env, c.Native(env.Self(), env.State()))
	})()
	if err != nil {
		if xenv.IsMalformedArgs(err) {
			return nil, reverts.Malformedf("%s: %v", name, err)
		}
		return nil, err
	}
	return out, nil
}
