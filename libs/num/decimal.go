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

package num

import (
	"github.com/shopspring/decimal"
)

type Decimal = decimal.Decimal

// Unscale returns the decimal value of a fixed point integer
// carrying the given number of decimals, e.g. Unscale(100e18, 18) == 100.
func Unscale(u *Uint, decimals int32) Decimal {
	return decimal.NewFromBigInt(u.BigInt(), -decimals)
}

// UnscaleUint64 is Unscale for values fitting in 64 bits.
func UnscaleUint64(v uint64, decimals int32) Decimal {
	return Unscale(NewUint(v), decimals)
}
