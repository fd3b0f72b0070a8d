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

package events

import "context"

// TxErr is emitted when an instruction is rejected.
type TxErr struct {
	*Base
	instruction string
	err         error
}

func NewTxErrEvent(ctx context.Context, err error, instruction string) *TxErr {
	return &TxErr{
		Base:        newBase(ctx, TxErrEvent),
		instruction: instruction,
		err:         err,
	}
}

func (t TxErr) Instruction() string {
	return t.instruction
}

func (t TxErr) Err() error {
	return t.err
}
