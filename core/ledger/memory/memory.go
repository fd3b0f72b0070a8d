// Copyright (C) 2023 Gobalsky Labs Limited
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package memory

import (
	"bytes"
	"context"
	"errors"
	"sync"

	"github.com/kazantseff/anchor-LimitlessFi/core/ledger"

	"github.com/google/btree"
)

const degree = 32

var ErrClosed = errors.New("memory store is closed")

type item struct {
	key   []byte
	value []byte
}

func less(a, b item) bool {
	return bytes.Compare(a.key, b.key) < 0
}

// Store is an ordered in-memory backend. Updates hold the write lock
// for their whole duration and work on a copy-on-write clone of the
// tree, swapped in on success.
type Store struct {
	mu     sync.RWMutex
	tree   *btree.BTreeG[item]
	closed bool
}

func New() *Store {
	return &Store{
		tree: btree.NewG[item](degree, less),
	}
}

func (s *Store) View(ctx context.Context, fn func(r ledger.Reader) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	return fn(&txn{tree: s.tree})
}

func (s *Store) Update(ctx context.Context, fn func(rw ledger.ReadWriter) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	t := &txn{tree: s.tree.Clone()}
	if err := fn(t); err != nil {
		return err
	}
	s.tree = t.tree
	return nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.tree.Clear(false)
	return nil
}

type txn struct {
	tree *btree.BTreeG[item]
}

func (t *txn) Get(key []byte) ([]byte, bool, error) {
	it, ok := t.tree.Get(item{key: key})
	if !ok {
		return nil, false, nil
	}
	return cp(it.value), true, nil
}

func (t *txn) Iterate(prefix []byte, fn func(key, value []byte) error) error {
	var err error
	t.tree.AscendGreaterOrEqual(item{key: prefix}, func(it item) bool {
		if !bytes.HasPrefix(it.key, prefix) {
			return false
		}
		err = fn(cp(it.key), cp(it.value))
		return err == nil
	})
	return err
}

func (t *txn) Set(key, value []byte) error {
	t.tree.ReplaceOrInsert(item{key: cp(key), value: cp(value)})
	return nil
}

func cp(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
