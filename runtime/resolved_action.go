// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"encoding/json"

	"github.com/vechain/atmos/atmos"
	"github.com/vechain/atmos/builtin"
	"github.com/vechain/atmos/builtin/staker/reverts"
)

// MaxArgsSize is the size limit of action arguments.
const MaxArgsSize = 64 * 1024

// Action is a request to run a native action.
type Action struct {
	Name  string          `json:"name"`
	Actor atmos.Name      `json:"actor"`
	Args  json.RawMessage `json:"args,omitempty"`
}

// ResolvedAction is an action checked against the native action table.
type ResolvedAction struct {
	*Action
	ReadOnly bool
}

// ResolveAction performs the basic validation of an action.
func ResolveAction(action *Action) (*ResolvedAction, error) {
	if action == nil {
		return nil, reverts.Malformedf("empty action")
	}
	if !builtin.HasAction(action.Name) {
		return nil, reverts.Malformedf("unknown action %q", action.Name)
	}
	if !action.Actor.IsValid() {
		return nil, reverts.Malformedf("invalid actor %q", action.Actor)
	}
	if len(action.Args) > MaxArgsSize {
		return nil, reverts.Malformedf("args too large: %d bytes", len(action.Args))
	}
	if len(action.Args) > 0 && !json.Valid(action.Args) {
		return nil, reverts.Malformedf("args is not valid json")
	}
	return &ResolvedAction{
		Action:   action,
		ReadOnly: builtin.IsReadOnly(action.Name),
	}, nil
}
