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

package tokens

import (
	"bytes"
	"context"
	"encoding/binary"

	"github.com/kazantseff/anchor-LimitlessFi/core/ledger"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
)

const (
	// MintSize is the length of an encoded mint.
	MintSize = 82
	// AccountSize is the length of an encoded token account.
	AccountSize = 165
)

// AccountState is the lifecycle state of a token account.
type AccountState uint8

const (
	AccountStateUninitialized AccountState = iota
	AccountStateInitialized
	AccountStateFrozen
)

var (
	// ProgramID owns every mint and token account.
	ProgramID = solana.TokenProgramID

	ErrInvalidMintState    = errors.New("invalid mint state")
	ErrInvalidAccountState = errors.New("invalid token account state")
)

// Mint is a fungible token definition.
type Mint struct {
	MintAuthority   *solana.PublicKey
	Supply          uint64
	Decimals        uint8
	IsInitialized   bool
	FreezeAuthority *solana.PublicKey
}

func (m *Mint) MarshalWithEncoder(enc *bin.Encoder) error {
	if err := writeOptionalKey(enc, m.MintAuthority); err != nil {
		return err
	}
	if err := enc.WriteUint64(m.Supply, binary.LittleEndian); err != nil {
		return err
	}
	if err := enc.WriteUint8(m.Decimals); err != nil {
		return err
	}
	if err := enc.WriteBool(m.IsInitialized); err != nil {
		return err
	}
	return writeOptionalKey(enc, m.FreezeAuthority)
}

func (m *Mint) UnmarshalWithDecoder(dec *bin.Decoder) (err error) {
	if m.MintAuthority, err = readOptionalKey(dec); err != nil {
		return err
	}
	if m.Supply, err = dec.ReadUint64(binary.LittleEndian); err != nil {
		return err
	}
	if m.Decimals, err = dec.ReadUint8(); err != nil {
		return err
	}
	if m.IsInitialized, err = dec.ReadBool(); err != nil {
		return err
	}
	m.FreezeAuthority, err = readOptionalKey(dec)
	return err
}

// Account holds a balance of a single mint on behalf of its owner.
type Account struct {
	Mint            solana.PublicKey
	Owner           solana.PublicKey
	Amount          uint64
	Delegate        *solana.PublicKey
	State           AccountState
	IsNative        *uint64
	DelegatedAmount uint64
	CloseAuthority  *solana.PublicKey
}

func (a *Account) MarshalWithEncoder(enc *bin.Encoder) error {
	if err := enc.WriteBytes(a.Mint.Bytes(), false); err != nil {
		return err
	}
	if err := enc.WriteBytes(a.Owner.Bytes(), false); err != nil {
		return err
	}
	if err := enc.WriteUint64(a.Amount, binary.LittleEndian); err != nil {
		return err
	}
	if err := writeOptionalKey(enc, a.Delegate); err != nil {
		return err
	}
	if err := enc.WriteUint8(uint8(a.State)); err != nil {
		return err
	}
	if err := writeOptionTag(enc, a.IsNative != nil); err != nil {
		return err
	}
	var native uint64
	if a.IsNative != nil {
		native = *a.IsNative
	}
	if err := enc.WriteUint64(native, binary.LittleEndian); err != nil {
		return err
	}
	if err := enc.WriteUint64(a.DelegatedAmount, binary.LittleEndian); err != nil {
		return err
	}
	return writeOptionalKey(enc, a.CloseAuthority)
}

func (a *Account) UnmarshalWithDecoder(dec *bin.Decoder) error {
	mint, err := dec.ReadNBytes(solana.PublicKeyLength)
	if err != nil {
		return err
	}
	a.Mint = solana.PublicKeyFromBytes(mint)
	owner, err := dec.ReadNBytes(solana.PublicKeyLength)
	if err != nil {
		return err
	}
	a.Owner = solana.PublicKeyFromBytes(owner)
	if a.Amount, err = dec.ReadUint64(binary.LittleEndian); err != nil {
		return err
	}
	if a.Delegate, err = readOptionalKey(dec); err != nil {
		return err
	}
	state, err := dec.ReadUint8()
	if err != nil {
		return err
	}
	a.State = AccountState(state)
	some, err := readOptionTag(dec)
	if err != nil {
		return err
	}
	native, err := dec.ReadUint64(binary.LittleEndian)
	if err != nil {
		return err
	}
	a.IsNative = nil
	if some {
		a.IsNative = &native
	}
	if a.DelegatedAmount, err = dec.ReadUint64(binary.LittleEndian); err != nil {
		return err
	}
	a.CloseAuthority, err = readOptionalKey(dec)
	return err
}

// optional values are a u32 tag followed by the payload, zeroed when absent.
func writeOptionTag(enc *bin.Encoder, some bool) error {
	var tag uint32
	if some {
		tag = 1
	}
	return enc.WriteUint32(tag, binary.LittleEndian)
}

func readOptionTag(dec *bin.Decoder) (bool, error) {
	tag, err := dec.ReadUint32(binary.LittleEndian)
	if err != nil {
		return false, err
	}
	switch tag {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, errors.Errorf("invalid option tag %d", tag)
	}
}

func writeOptionalKey(enc *bin.Encoder, key *solana.PublicKey) error {
	if err := writeOptionTag(enc, key != nil); err != nil {
		return err
	}
	var raw solana.PublicKey
	if key != nil {
		raw = *key
	}
	return enc.WriteBytes(raw.Bytes(), false)
}

func readOptionalKey(dec *bin.Decoder) (*solana.PublicKey, error) {
	some, err := readOptionTag(dec)
	if err != nil {
		return nil, err
	}
	raw, err := dec.ReadNBytes(solana.PublicKeyLength)
	if err != nil {
		return nil, err
	}
	if !some {
		return nil, nil
	}
	key := solana.PublicKeyFromBytes(raw)
	return &key, nil
}

func encode(v bin.BinaryMarshaler) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := v.MarshalWithEncoder(bin.NewBinEncoder(buf)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GetMint reads an initialized mint.
func GetMint(v ledger.View, address solana.PublicKey) (*Mint, error) {
	acc, err := v.GetAccount(address)
	if errors.Is(err, ledger.ErrAccountNotFound) {
		return nil, errors.Wrapf(ErrInvalidMintState, "no mint at %s", address)
	} else if err != nil {
		return nil, err
	}
	if !acc.Owner.Equals(ProgramID) || len(acc.Data) != MintSize {
		return nil, errors.Wrapf(ErrInvalidMintState, "%s is not a mint", address)
	}
	m := &Mint{}
	if err := m.UnmarshalWithDecoder(bin.NewBinDecoder(acc.Data)); err != nil {
		return nil, errors.Wrapf(ErrInvalidMintState, "%s: %v", address, err)
	}
	if !m.IsInitialized {
		return nil, errors.Wrapf(ErrInvalidMintState, "mint %s is not initialized", address)
	}
	return m, nil
}

// GetAccount reads an initialized token account.
func GetAccount(v ledger.View, address solana.PublicKey) (*Account, error) {
	acc, err := v.GetAccount(address)
	if errors.Is(err, ledger.ErrAccountNotFound) {
		return nil, errors.Wrapf(ErrInvalidAccountState, "no token account at %s", address)
	} else if err != nil {
		return nil, err
	}
	if !acc.Owner.Equals(ProgramID) || len(acc.Data) != AccountSize {
		return nil, errors.Wrapf(ErrInvalidAccountState, "%s is not a token account", address)
	}
	a := &Account{}
	if err := a.UnmarshalWithDecoder(bin.NewBinDecoder(acc.Data)); err != nil {
		return nil, errors.Wrapf(ErrInvalidAccountState, "%s: %v", address, err)
	}
	if a.State == AccountStateUninitialized {
		return nil, errors.Wrapf(ErrInvalidAccountState, "token account %s is not initialized", address)
	}
	return a, nil
}

// InitializeMint allocates a mint at address, paid by payer, with a zero
// supply.
func InitializeMint(tx *ledger.Tx, payer, address solana.PublicKey, decimals uint8, mintAuthority solana.PublicKey, freezeAuthority *solana.PublicKey) (*Mint, error) {
	if err := tx.CreateAccount(payer, address, MintSize, ProgramID); err != nil {
		return nil, err
	}
	m := &Mint{
		MintAuthority:   &mintAuthority,
		Decimals:        decimals,
		IsInitialized:   true,
		FreezeAuthority: freezeAuthority,
	}
	data, err := encode(m)
	if err != nil {
		return nil, err
	}
	if err := tx.WriteData(ProgramID, address, data); err != nil {
		return nil, err
	}
	return m, nil
}

// InitializeAccount allocates an empty token account of mint held by
// owner.
func InitializeAccount(tx *ledger.Tx, payer, address, mint, owner solana.PublicKey) (*Account, error) {
	if _, err := GetMint(tx, mint); err != nil {
		return nil, err
	}
	if err := tx.CreateAccount(payer, address, AccountSize, ProgramID); err != nil {
		return nil, err
	}
	a := &Account{
		Mint:  mint,
		Owner: owner,
		State: AccountStateInitialized,
	}
	data, err := encode(a)
	if err != nil {
		return nil, err
	}
	if err := tx.WriteData(ProgramID, address, data); err != nil {
		return nil, err
	}
	return a, nil
}

// CreateMint creates a mint at a fresh random address in its own
// transaction and returns that address.
func CreateMint(ctx context.Context, l *ledger.Ledger, payer, authority solana.PublicKey, freezeAuthority *solana.PublicKey, decimals uint8) (solana.PublicKey, error) {
	address := solana.NewWallet().PublicKey()
	err := l.Update(ctx, func(tx *ledger.Tx) error {
		_, err := InitializeMint(tx, payer, address, decimals, authority, freezeAuthority)
		return err
	})
	if err != nil {
		return solana.PublicKey{}, err
	}
	return address, nil
}
