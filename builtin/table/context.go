// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package table

import (
	"github.com/vechain/atmos/atmos"
	"github.com/vechain/atmos/state"
)

// Context binds tables to the contract that owns them.
type Context struct {
	contract atmos.Name
	state    *state.State
}

func NewContext(contract atmos.Name, state *state.State) *Context {
	return &Context{
		contract: contract,
		state:    state,
	}
}

func (c *Context) Contract() atmos.Name {
	return c.contract
}

func (c *Context) State() *state.State {
	return c.state
}
