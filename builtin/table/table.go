// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package table

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/atmos/atmos"
)

const (
	rowSpace     byte = 'r'
	indexSpace   byte = 'i'
	counterSpace byte = 'c'
)

// ErrDuplicateKey is returned when a unique index already maps the secondary key to another row.
var ErrDuplicateKey = errors.New("duplicate secondary key")

// IndexFunc derives the secondary key of a row.
type IndexFunc[V any] func(v *V) atmos.Bytes32

// Table is a rlp encoded row store, similar to a multi index table.
// Rows are addressed by a scope and an uint64 primary key and are iterated in
// ascending primary key order. A table may declare one secondary index.
type Table[V any] struct {
	context *Context
	name    string
	index   IndexFunc[V]
	unique  bool
}

// New creates a table without secondary index.
func New[V any](context *Context, name string) *Table[V] {
	return &Table[V]{context: context, name: name}
}

// NewIndexed creates a table with a secondary index.
// With unique set, a secondary key maps to at most one row.
func NewIndexed[V any](context *Context, name string, index IndexFunc[V], unique bool) *Table[V] {
	return &Table[V]{context: context, name: name, index: index, unique: unique}
}

// Scope returns the rows of the table under the given scope.
func (t *Table[V]) Scope(scope uint64) *Scoped[V] {
	var s [8]byte
	binary.BigEndian.PutUint64(s[:], scope)
	base := atmos.Blake2b([]byte(t.context.contract), []byte(t.name), s[:])
	return &Scoped[V]{table: t, base: base}
}

// Scoped is the set of rows of a table under one scope.
type Scoped[V any] struct {
	table *Table[V]
	base  atmos.Bytes32
}

func (s *Scoped[V]) key(space byte, parts ...[]byte) []byte {
	k := make([]byte, 0, 32+1+40)
	k = append(k, s.base[:]...)
	k = append(k, space)
	for _, p := range parts {
		k = append(k, p...)
	}
	return k
}

func encodeID(id uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], id)
	return b[:]
}

func (s *Scoped[V]) rowKey(id uint64) []byte {
	return s.key(rowSpace, encodeID(id))
}

func (s *Scoped[V]) indexKey(secondary atmos.Bytes32, id uint64) []byte {
	if s.table.unique {
		return s.key(indexSpace, secondary[:])
	}
	return s.key(indexSpace, secondary[:], encodeID(id))
}

// Get returns the row with the given primary key, nil if absent.
func (s *Scoped[V]) Get(id uint64) (*V, error) {
	raw, err := s.table.context.state.Get(s.rowKey(id))
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var v V
	if err := rlp.DecodeBytes(raw, &v); err != nil {
		return nil, errors.Wrapf(err, "decode %s row %d", s.table.name, id)
	}
	return &v, nil
}

// Set inserts or updates a row, maintaining the secondary index.
func (s *Scoped[V]) Set(id uint64, v *V) error {
	st := s.table.context.state

	if s.table.index != nil {
		secondary := s.table.index(v)
		old, err := s.Get(id)
		if err != nil {
			return err
		}
		if old != nil {
			if oldSecondary := s.table.index(old); oldSecondary != secondary {
				st.Delete(s.indexKey(oldSecondary, id))
			}
		}
		if s.table.unique {
			other, found, err := s.Find(secondary)
			if err != nil {
				return err
			}
			if found && other != id {
				return ErrDuplicateKey
			}
			st.Put(s.indexKey(secondary, id), encodeID(id))
		} else {
			st.Put(s.indexKey(secondary, id), []byte{1})
		}
	}

	raw, err := rlp.EncodeToBytes(v)
	if err != nil {
		return errors.Wrapf(err, "encode %s row %d", s.table.name, id)
	}
	st.Put(s.rowKey(id), raw)
	return nil
}

// Delete removes the row and its index entry. Deleting an absent row is a no-op.
func (s *Scoped[V]) Delete(id uint64) error {
	if s.table.index != nil {
		old, err := s.Get(id)
		if err != nil {
			return err
		}
		if old != nil {
			s.table.context.state.Delete(s.indexKey(s.table.index(old), id))
		}
	}
	s.table.context.state.Delete(s.rowKey(id))
	return nil
}

// Iterate visits rows in ascending primary key order until fn returns false or an error.
// fn may update or delete rows of the scope.
func (s *Scoped[V]) Iterate(fn func(id uint64, v *V) (bool, error)) error {
	prefix := s.key(rowSpace)
	return s.table.context.state.Iterate(prefix, func(key, raw []byte) (bool, error) {
		id := binary.BigEndian.Uint64(key[len(prefix):])
		var v V
		if err := rlp.DecodeBytes(raw, &v); err != nil {
			return false, errors.Wrapf(err, "decode %s row %d", s.table.name, id)
		}
		return fn(id, &v)
	})
}

// Find returns the primary key of the first row, in primary key order, with the secondary key.
func (s *Scoped[V]) Find(secondary atmos.Bytes32) (uint64, bool, error) {
	if s.table.index == nil {
		return 0, false, errors.Errorf("table %s has no secondary index", s.table.name)
	}
	var (
		id    uint64
		found bool
	)
	err := s.IterateIndex(secondary, func(rowID uint64) (bool, error) {
		id, found = rowID, true
		return false, nil
	})
	return id, found, err
}

// IterateIndex visits primary keys of rows with the secondary key in ascending order.
func (s *Scoped[V]) IterateIndex(secondary atmos.Bytes32, fn func(id uint64) (bool, error)) error {
	if s.table.index == nil {
		return errors.Errorf("table %s has no secondary index", s.table.name)
	}
	st := s.table.context.state
	if s.table.unique {
		raw, err := st.Get(s.indexKey(secondary, 0))
		if err != nil || len(raw) == 0 {
			return err
		}
		_, err = fn(binary.BigEndian.Uint64(raw))
		return err
	}
	prefix := s.key(indexSpace, secondary[:])
	return st.Iterate(prefix, func(key, _ []byte) (bool, error) {
		return fn(binary.BigEndian.Uint64(key[len(prefix):]))
	})
}

// Clear removes every row of the scope and its index entries.
func (s *Scoped[V]) Clear() error {
	return s.Iterate(func(id uint64, _ *V) (bool, error) {
		return true, s.Delete(id)
	})
}

// Len counts the rows of the scope.
func (s *Scoped[V]) Len() (int, error) {
	n := 0
	err := s.table.context.state.Iterate(s.key(rowSpace), func(_, _ []byte) (bool, error) {
		n++
		return true, nil
	})
	return n, err
}
