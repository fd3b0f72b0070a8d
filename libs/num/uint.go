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
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
)

// Uint A wrapper for a big unsigned int.
type Uint struct {
	u uint256.Int
}

// NewUint creates a new Uint with the value of the
// uint64 passed as a parameter.
func NewUint(val uint64) *Uint {
	return &Uint{*uint256.NewInt(val)}
}

// UintFromUint128 builds a Uint from the two little endian
// 64 bits limbs of a 128 bits integer.
func UintFromUint128(lo, hi uint64) *Uint {
	return &Uint{uint256.Int{lo, hi, 0, 0}}
}

// Pow10 returns 10^exp.
func Pow10(exp uint64) *Uint {
	z := &Uint{}
	z.u.Exp(uint256.NewInt(10), uint256.NewInt(exp))
	return z
}

// Uint128 returns the two little endian 64 bits limbs of the value,
// overflow is true if the value does not fit in 128 bits.
func (z Uint) Uint128() (lo, hi uint64, overflow bool) {
	return z.u[0], z.u[1], z.u[2] != 0 || z.u[3] != 0
}

func (z Uint) BigInt() *big.Int {
	return z.u.ToBig()
}

// Mul will multiply x and y then store the result
// into z
// this is equivalent to:
// `z = x * y`
// z is returned for convenience, no
// new variable is created.
func (z *Uint) Mul(x, y *Uint) *Uint {
	z.u.Mul(&x.u, &y.u)
	return z
}

// EQ with check if the value stored in u is
// equal to oth
// this is equivalent to:
// `u == oth`.
func (u Uint) EQ(oth *Uint) bool {
	return u.u.Eq(&oth.u)
}

// String returns the stored value as a string
// this is internally using big.Int.String().
func (u Uint) String() string {
	return u.u.ToBig().String()
}

// Format implement fmt.Formatter.
func (u Uint) Format(s fmt.State, ch rune) {
	u.u.Format(s, ch)
}
