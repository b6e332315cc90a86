// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package table

import (
	"encoding/binary"

	"github.com/vechain/atmos/atmos"
)

// Counter hands out monotonically increasing primary keys per scope.
// Counters live outside of the rows, so clearing a table never resets them.
type Counter struct {
	context *Context
	name    string
}

func NewCounter(context *Context, name string) *Counter {
	return &Counter{context: context, name: name}
}

func (c *Counter) key(scope uint64) []byte {
	var s [8]byte
	binary.BigEndian.PutUint64(s[:], scope)
	base := atmos.Blake2b([]byte(c.context.contract), []byte(c.name), s[:])
	return append(base[:], counterSpace)
}

// Peek returns the next key without consuming it.
func (c *Counter) Peek(scope uint64) (uint64, error) {
	raw, err := c.context.state.Get(c.key(scope))
	if err != nil {
		return 0, err
	}
	if len(raw) == 0 {
		return 0, nil
	}
	return binary.BigEndian.Uint64(raw), nil
}

// Next consumes and returns the next key.
func (c *Counter) Next(scope uint64) (uint64, error) {
	next, err := c.Peek(scope)
	if err != nil {
		return 0, err
	}
	nextNext, err := atmos.AddUint64(next, 1)
	if err != nil {
		return 0, err
	}
	c.context.state.Put(c.key(scope), encodeID(nextNext))
	return next, nil
}
