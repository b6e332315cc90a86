// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xenv

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/vechain/atmos/atmos"
	"github.com/vechain/atmos/state"
)

// ActionContext describes who runs an action and when.
type ActionContext struct {
	// Self is the staking contract.
	Self atmos.Name
	// Actor is the authorizing account, or the token service for transfer notifications.
	Actor atmos.Name
	// Time is the unix time of the action in seconds.
	Time uint64
}

type vmError struct {
	cause error
}

// Environment an env to execute native action.
type Environment struct {
	state     *state.State
	ctx       *ActionContext
	args      json.RawMessage
	transfers []*atmos.Transfer
}

// New create a new env.
func New(state *state.State, ctx *ActionContext, args json.RawMessage) *Environment {
	return &Environment{
		state: state,
		ctx:   ctx,
		args:  args,
	}
}

func (env *Environment) State() *state.State           { return env.state }
func (env *Environment) ActionContext() *ActionContext { return env.ctx }
func (env *Environment) Self() atmos.Name              { return env.ctx.Self }
func (env *Environment) Actor() atmos.Name             { return env.ctx.Actor }
func (env *Environment) Time() uint64                  { return env.ctx.Time }
func (env *Environment) Transfers() []*atmos.Transfer  { return env.transfers }
func (env *Environment) Args() json.RawMessage         { return env.args }

// ParseArgs decodes the action arguments into val. Unknown fields are rejected.
func (env *Environment) ParseArgs(val any) {
	if len(env.args) == 0 {
		env.Stop(&errMalformedArgs{errors.New("missing arguments")})
	}
	dec := json.NewDecoder(bytes.NewReader(env.args))
	dec.DisallowUnknownFields()
	if err := dec.Decode(val); err != nil {
		env.Stop(&errMalformedArgs{errors.WithMessage(err, "decode action args")})
	}
}

// Must stops the action when err is not nil.
func (env *Environment) Must(err error) {
	if err != nil {
		env.Stop(err)
	}
}

// Transfer queues an outgoing transfer intent. Intents keep their order.
func (env *Environment) Transfer(t ...*atmos.Transfer) {
	env.transfers = append(env.transfers, t...)
}

// Stop aborts the action with err.
func (env *Environment) Stop(err error) {
	panic(&vmError{err})
}

// Call runs proc, turning a stop into an error return.
func (env *Environment) Call(proc func(env *Environment) any) func() (any, error) {
	return func() (output any, err error) {
		defer func() {
			if e := recover(); e != nil {
				if rec, ok := e.(*vmError); ok {
					output, err = nil, rec.cause
				} else {
					panic(e)
				}
			}
		}()
		return proc(env), nil
	}
}
