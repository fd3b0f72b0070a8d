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

import (
	"bytes"
	"encoding/binary"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
)

const (
	// AccountStorageOverhead is the per account size charged on top of
	// its data when computing rent.
	AccountStorageOverhead = 128
	LamportsPerByteYear    = 3480
	ExemptionThreshold     = 2
)

// MinimumBalance returns the lamports an account with space bytes of data
// must hold to be rent exempt.
func MinimumBalance(space uint64) uint64 {
	return (AccountStorageOverhead + space) * LamportsPerByteYear * ExemptionThreshold
}

// Account is the state stored at a ledger address.
type Account struct {
	Owner    solana.PublicKey
	Lamports uint64
	Data     []byte
}

// IsAllocated returns true once the account holds data or was assigned
// to a program.
func (a *Account) IsAllocated() bool {
	return len(a.Data) > 0 || !a.Owner.Equals(solana.SystemProgramID)
}

func (a *Account) Clone() *Account {
	data := make([]byte, len(a.Data))
	copy(data, a.Data)
	return &Account{
		Owner:    a.Owner,
		Lamports: a.Lamports,
		Data:     data,
	}
}

func (a *Account) MarshalWithEncoder(enc *bin.Encoder) error {
	if err := enc.WriteBytes(a.Owner.Bytes(), false); err != nil {
		return err
	}
	if err := enc.WriteUint64(a.Lamports, binary.LittleEndian); err != nil {
		return err
	}
	return enc.WriteBytes(a.Data, true)
}

func (a *Account) UnmarshalWithDecoder(dec *bin.Decoder) error {
	owner, err := dec.ReadNBytes(solana.PublicKeyLength)
	if err != nil {
		return err
	}
	a.Owner = solana.PublicKeyFromBytes(owner)
	if a.Lamports, err = dec.ReadUint64(binary.LittleEndian); err != nil {
		return err
	}
	a.Data, err = dec.ReadByteSlice()
	return err
}

func encodeAccount(a *Account) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := a.MarshalWithEncoder(bin.NewBorshEncoder(buf)); err != nil {
		return nil, errors.Wrap(err, "could not encode account")
	}
	return buf.Bytes(), nil
}

func decodeAccount(data []byte) (*Account, error) {
	a := &Account{}
	if err := a.UnmarshalWithDecoder(bin.NewBorshDecoder(data)); err != nil {
		return nil, errors.Wrap(err, "could not decode account")
	}
	return a, nil
}

// KeyedAccount is an account along with its address.
type KeyedAccount struct {
	Address solana.PublicKey
	*Account
}
