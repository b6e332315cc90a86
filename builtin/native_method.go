// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"sort"

	"github.com/vechain/atmos/builtin/staker"
	"github.com/vechain/atmos/xenv"
)

// nativeAction describes a native action.
type nativeAction struct {
	name     string
	readOnly bool
	run      func(env *xenv.Environment, s *staker.Staker) any
}

var nativeActions = make(map[string]*nativeAction)

// HasAction reports whether name is a known action.
func HasAction(name string) bool {
	_, ok := nativeActions[name]
	return ok
}

// IsReadOnly reports whether the action never changes state.
func IsReadOnly(name string) bool {
	a, ok := nativeActions[name]
	return ok && a.readOnly
}

// Actions returns the names of all actions, sorted.
func Actions() []string {
	names := make([]string, 0, len(nativeActions))
	for name := range nativeActions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
