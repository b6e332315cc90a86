// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/vechain/atmos/kv"
	"github.com/vechain/atmos/stackedmap"
)

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// State is a revertable view over a kv store.
// A nil value in the stacked map marks a deleted key.
type State struct {
	db kv.Store
	sm *stackedmap.StackedMap[string, []byte]
}

// New create state object.
func New(db kv.Store) *State {
	s := &State{db: db}
	s.sm = stackedmap.New(s.dbGetter)
	return s
}

// dbGetter implements stackedmap.MapGetter.
func (s *State) dbGetter(key string) ([]byte, bool, error) {
	v, err := s.db.Get([]byte(key))
	if err != nil {
		if s.db.IsNotFound(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return v, true, nil
}

// Get returns the value of key, nil if absent.
// The returned slice should not be modified.
func (s *State) Get(key []byte) ([]byte, error) {
	v, _, err := s.sm.Get(string(key))
	if err != nil {
		return nil, &Error{err}
	}
	return v, nil
}

// Has returns whether key is present.
func (s *State) Has(key []byte) (bool, error) {
	v, err := s.Get(key)
	if err != nil {
		return false, err
	}
	return len(v) > 0, nil
}

// Put sets the value of key. An empty value deletes the key.
func (s *State) Put(key, value []byte) {
	if len(value) == 0 {
		s.sm.Put(string(key), nil)
		return
	}
	s.sm.Put(string(key), bytes.Clone(value))
}

// Delete removes key.
func (s *State) Delete(key []byte) {
	s.sm.Put(string(key), nil)
}

// Iterate visits present keys with the given prefix in ascending order.
// The key set is fixed when iteration starts, values are read as they are visited,
// so the callback may update or delete rows, including the visited one.
// Iteration stops when fn returns false or an error.
func (s *State) Iterate(prefix []byte, fn func(key, value []byte) (bool, error)) error {
	keys := make(map[string]struct{})

	iter := s.db.Iterate(kv.PrefixRange(prefix))
	for iter.Next() {
		keys[string(iter.Key())] = struct{}{}
	}
	iter.Release()
	if err := iter.Error(); err != nil {
		return &Error{err}
	}
	for _, k := range s.sm.Keys() {
		if len(k) >= len(prefix) && k[:len(prefix)] == string(prefix) {
			keys[k] = struct{}{}
		}
	}

	sorted := make([]string, 0, len(keys))
	for k := range keys {
		sorted = append(sorted, k)
	}
	sort.Strings(sorted)

	for _, k := range sorted {
		v, err := s.Get([]byte(k))
		if err != nil {
			return err
		}
		if len(v) == 0 {
			continue
		}
		cont, err := fn([]byte(k), v)
		if err != nil {
			return err
		}
		if !cont {
			return nil
		}
	}
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
	if s.sm.Depth() == 0 {
		s.sm.Push()
	}
}

// Stage collects the changes made since the state was created.
func (s *State) Stage() *Stage {
	changes := make(map[string][]byte)
	s.sm.Journal(func(k string, v []byte) bool {
		changes[k] = v
		return true
	})
	return &Stage{changes: changes}
}
