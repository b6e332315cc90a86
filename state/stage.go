// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"sort"

	"github.com/vechain/atmos/kv"
)

// Stage holds the net changes of a state.
type Stage struct {
	changes map[string][]byte
}

// Len returns the number of changed keys.
func (s *Stage) Len() int {
	return len(s.changes)
}

// Commit writes all changes into the putter, in key order.
// The caller owns atomicity, normally by passing a batch.
func (s *Stage) Commit(putter kv.Putter) error {
	keys := make([]string, 0, len(s.changes))
	for k := range s.changes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v := s.changes[k]
		var err error
		if v == nil {
			err = putter.Delete([]byte(k))
		} else {
			err = putter.Put([]byte(k), v)
		}
		if err != nil {
			return &Error{err}
		}
	}
	return nil
}
