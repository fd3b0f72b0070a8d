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

package accounts

import (
	"bytes"

	"github.com/kazantseff/anchor-LimitlessFi/core/ledger"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
)

var (
	ErrAccountDiscriminatorMismatch = errors.New("account discriminator mismatch")
	ErrAccountOwnedByWrongProgram   = errors.New("account owned by a different program")
)

// EncodeRecord returns the discriminator of name followed by the borsh
// encoding of v.
func EncodeRecord(name string, v bin.BinaryMarshaler) ([]byte, error) {
	d := Discriminator(name)
	buf := bytes.NewBuffer(d[:])
	if err := v.MarshalWithEncoder(bin.NewBorshEncoder(buf)); err != nil {
		return nil, errors.Wrapf(err, "could not encode %s", name)
	}
	return buf.Bytes(), nil
}

// DecodeRecord checks the discriminator of data and decodes the rest into v.
func DecodeRecord(name string, data []byte, v bin.BinaryUnmarshaler) error {
	d := Discriminator(name)
	if len(data) < DiscriminatorSize || !bytes.Equal(data[:DiscriminatorSize], d[:]) {
		return errors.Wrap(ErrAccountDiscriminatorMismatch, name)
	}
	if err := v.UnmarshalWithDecoder(bin.NewBorshDecoder(data[DiscriminatorSize:])); err != nil {
		return errors.Wrapf(err, "could not decode %s", name)
	}
	return nil
}

// LoadRecord reads the record stored at address by program.
func LoadRecord(view ledger.View, programID, address solana.PublicKey, name string, v bin.BinaryUnmarshaler) error {
	acc, err := view.GetAccount(address)
	if err != nil {
		return err
	}
	if !acc.Owner.Equals(programID) {
		return errors.Wrapf(ErrAccountOwnedByWrongProgram, "%s at %s is owned by %s", name, address, acc.Owner)
	}
	return DecodeRecord(name, acc.Data, v)
}
