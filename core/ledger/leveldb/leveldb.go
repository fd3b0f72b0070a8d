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

package leveldb

import (
	"context"
	"errors"
	"fmt"

	"github.com/kazantseff/anchor-LimitlessFi/core/ledger"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// Store is a ledger backend on top of LevelDB. LevelDB allows a single
// open transaction at a time, which serialises concurrent updates.
type Store struct {
	db *leveldb.DB
}

func options(cfg ledger.Config) *opt.Options {
	return &opt.Options{
		Filter:          filter.NewBloomFilter(10),
		BlockCacher:     opt.NoCacher,
		OpenFilesCacher: opt.NoCacher,
		NoSync:          !cfg.SyncWrites,
	}
}

// New opens a LevelDB store in dir, or in memory if dir is empty.
func New(cfg ledger.Config, dir string) (*Store, error) {
	var (
		db  *leveldb.DB
		err error
	)
	if dir == "" {
		db, err = leveldb.Open(storage.NewMemStorage(), options(cfg))
	} else {
		db, err = leveldb.OpenFile(dir, options(cfg))
	}
	if err != nil {
		return nil, fmt.Errorf("could not open leveldb store: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) View(ctx context.Context, fn func(r ledger.Reader) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	snap, err := s.db.GetSnapshot()
	if err != nil {
		return err
	}
	defer snap.Release()
	return fn(&reader{
		get:  snap.Get,
		iter: snap.NewIterator,
	})
}

func (s *Store) Update(ctx context.Context, fn func(rw ledger.ReadWriter) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tr, err := s.db.OpenTransaction()
	if err != nil {
		return err
	}
	// releases the write lock unless the commit went through
	defer tr.Discard()

	if err := fn(&writer{
		reader: reader{get: tr.Get, iter: tr.NewIterator},
		tr:     tr,
	}); err != nil {
		return err
	}
	return tr.Commit()
}

func (s *Store) Close() error {
	return s.db.Close()
}

type reader struct {
	get  func(key []byte, ro *opt.ReadOptions) ([]byte, error)
	iter func(slice *util.Range, ro *opt.ReadOptions) iterator.Iterator
}

func (r *reader) Get(key []byte) ([]byte, bool, error) {
	value, err := r.get(key, nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (r *reader) Iterate(prefix []byte, fn func(key, value []byte) error) error {
	it := r.iter(util.BytesPrefix(prefix), nil)
	defer it.Release()
	for it.Next() {
		key := append([]byte{}, it.Key()...)
		value := append([]byte{}, it.Value()...)
		if err := fn(key, value); err != nil {
			return err
		}
	}
	return it.Error()
}

type writer struct {
	reader
	tr *leveldb.Transaction
}

func (w *writer) Set(key, value []byte) error {
	return w.tr.Put(key, value, nil)
}
