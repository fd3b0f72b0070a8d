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

package badger

import (
	"context"
	"errors"
	"fmt"

	"github.com/kazantseff/anchor-LimitlessFi/core/ledger"
	"github.com/kazantseff/anchor-LimitlessFi/logging"

	"github.com/cenkalti/backoff/v4"
	"github.com/dgraph-io/badger/v2"
)

const badgerNamedLogger = "badger"

// Store is a ledger backend on top of badger. Badger transactions are
// optimistic: a commit racing with another writer on the same keys fails
// with badger.ErrConflict and the whole transaction is replayed, so the
// replay observes the state committed by the winner.
type Store struct {
	log *logging.Logger
	cfg ledger.Config
	db  *badger.DB
}

// New opens a badger store in dir, or in memory if dir is empty.
func New(log *logging.Logger, cfg ledger.Config, dir string) (*Store, error) {
	log = log.Named(badgerNamedLogger)
	log.SetLevel(cfg.Level.Get())

	opts := badger.DefaultOptions(dir).
		WithLogger(log).
		WithSyncWrites(cfg.SyncWrites)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("could not open badger store: %w", err)
	}
	return &Store{
		log: log,
		cfg: cfg,
		db:  db,
	}, nil
}

func (s *Store) View(ctx context.Context, fn func(r ledger.Reader) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.View(func(txn *badger.Txn) error {
		return fn(&rw{txn: txn})
	})
}

func (s *Store) Update(ctx context.Context, fn func(rw ledger.ReadWriter) error) error {
	attempt := 0
	op := func() error {
		if err := ctx.Err(); err != nil {
			return backoff.Permanent(err)
		}
		attempt++
		txn := s.db.NewTransaction(true)
		defer txn.Discard()

		if err := fn(&rw{txn: txn}); err != nil {
			return backoff.Permanent(err)
		}
		err := txn.Commit()
		if errors.Is(err, badger.ErrConflict) {
			s.log.Debug("transaction conflict, replaying", logging.Int("attempt", attempt))
			return err
		}
		if err != nil {
			return backoff.Permanent(err)
		}
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	if timeout := s.cfg.CommitRetryTimeout.Get(); timeout > 0 {
		policy.MaxElapsedTime = timeout
	}
	return backoff.Retry(op, backoff.WithContext(policy, ctx))
}

func (s *Store) Close() error {
	return s.db.Close()
}

type rw struct {
	txn *badger.Txn
}

func (r *rw) Get(key []byte) ([]byte, bool, error) {
	item, err := r.txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	value, err := item.ValueCopy(nil)
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (r *rw) Iterate(prefix []byte, fn func(key, value []byte) error) error {
	it := r.txn.NewIterator(badger.DefaultIteratorOptions)
	defer it.Close()
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		item := it.Item()
		value, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		if err := fn(item.KeyCopy(nil), value); err != nil {
			return err
		}
	}
	return nil
}

func (r *rw) Set(key, value []byte) error {
	return r.txn.Set(key, value)
}
