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

package context

import (
	"context"
	"errors"
)

type key int

const txIDKey key = iota

var ErrTxIDMissing = errors.New("no transaction id in context")

// WithTxID returns a copy of ctx carrying the transaction id.
func WithTxID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, txIDKey, id)
}

// TxIDFromContext returns the transaction id carried by ctx.
func TxIDFromContext(ctx context.Context) (string, error) {
	id, ok := ctx.Value(txIDKey).(string)
	if !ok {
		return "", ErrTxIDMissing
	}
	return id, nil
}
