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

package ledger

import "context"

// Reader reads from a consistent view of the underlying store.
type Reader interface {
	// Get returns the value stored at key, found is false if the key
	// is not present.
	Get(key []byte) (value []byte, found bool, err error)
	// Iterate calls fn for every key starting with prefix, in key order.
	Iterate(prefix []byte, fn func(key, value []byte) error) error
}

// ReadWriter is a Reader that can stage writes inside a transaction.
type ReadWriter interface {
	Reader
	Set(key, value []byte) error
}

// Backend is the transactional key/value store the ledger is built on.
// Update must be atomic: either every write staged by fn is committed,
// or none is. Concurrent updates touching the same keys must be
// serialised by the backend.
type Backend interface {
	View(ctx context.Context, fn func(r Reader) error) error
	Update(ctx context.Context, fn func(rw ReadWriter) error) error
	Close() error
}
