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

package logging

import (
	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
)

// String constructs a field with the given key and value.
func String(key, val string) zap.Field {
	return zap.String(key, val)
}

// Error constructs a field that lazily stores err.Error() under the key "error".
func Error(val error) zap.Field {
	return zap.Error(val)
}

func Uint64(key string, val uint64) zap.Field {
	return zap.Uint64(key, val)
}

func Uint8(key string, val uint8) zap.Field {
	return zap.Uint8(key, val)
}

func Int(key string, val int) zap.Field {
	return zap.Int(key, val)
}

// Address logs a ledger address in its base58 form.
func Address(key string, val solana.PublicKey) zap.Field {
	return zap.Stringer(key, val)
}

func Instruction(name string) zap.Field {
	return zap.String("instruction", name)
}

func TxID(id string) zap.Field {
	return zap.String("tx-id", id)
}
