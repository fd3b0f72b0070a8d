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

package market

import (
	"encoding/binary"
	"errors"

	"github.com/kazantseff/anchor-LimitlessFi/core/accounts"
	"github.com/kazantseff/anchor-LimitlessFi/core/ledger"
	"github.com/kazantseff/anchor-LimitlessFi/core/pda"
	"github.com/kazantseff/anchor-LimitlessFi/libs/num"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

const (
	// Name identifies market records.
	Name = "Market"
	// InitSpace is the encoded size of a market, without its discriminator.
	InitSpace = 3*solana.PublicKeyLength + 5*8 + 16 + 4*8 + 1
	Space     = accounts.DiscriminatorSize + InitSpace
)

// ErrMinPositionSizeOverflow is returned when encoding a minimum position
// size that does not fit in 128 bits.
var ErrMinPositionSizeOverflow = errors.New("min position size overflows 128 bits")

// Risk parameters every market starts with.
const (
	BaseDecimals      uint64 = 1_000_000_000_000_000_000
	MaxBps            uint64 = 10_000
	SecondsInYear     uint64 = 31_536_000
	LiquidationFeePct uint64 = 10
	MaxLeverage       uint64 = 5
)

// MinPositionSize is 100 units at 18 decimals.
func MinPositionSize() *num.Uint {
	return num.NewUint(0).Mul(num.NewUint(100), num.Pow10(18))
}

// Account roles of the initialize_market instruction.
const (
	RoleMarketState   = "market_state"
	RoleSigner        = "signer"
	RoleSystemProgram = "system_program"
	RoleRent          = "rent"
)

func Roles() []accounts.Role {
	return []accounts.Role{
		accounts.Derived(RoleMarketState, pda.MarketStateSeed).Initialized(),
		accounts.Signer(RoleSigner).Mut(),
		accounts.Program(RoleSystemProgram, solana.SystemProgramID),
		accounts.Sysvar(RoleRent, solana.SysVarRentPubkey),
	}
}

// Market is the singleton record holding the trading parameters and open
// interest of the protocol.
type Market struct {
	Vault                       solana.PublicKey
	Oracle                      solana.PublicKey
	CollateralToken             solana.PublicKey
	BaseDecimals                uint64
	MaxBps                      uint64
	SecondsInYear               uint64
	LiquidationFeePct           uint64
	MaxLeverage                 uint64
	MinPositionSize             *num.Uint
	OpenInterestUSDLong         uint64
	OpenInterestUSDShort        uint64
	OpenInterestUnderlyingLong  uint64
	OpenInterestUnderlyingShort uint64
	Bump                        uint8
}

// New returns a market with the default parameters and no open interest.
func New(vault, oracle, collateralToken solana.PublicKey, bump uint8) *Market {
	return &Market{
		Vault:             vault,
		Oracle:            oracle,
		CollateralToken:   collateralToken,
		BaseDecimals:      BaseDecimals,
		MaxBps:            MaxBps,
		SecondsInYear:     SecondsInYear,
		LiquidationFeePct: LiquidationFeePct,
		MaxLeverage:       MaxLeverage,
		MinPositionSize:   MinPositionSize(),
		Bump:              bump,
	}
}

func (m *Market) MarshalWithEncoder(enc *bin.Encoder) error {
	for _, key := range []solana.PublicKey{m.Vault, m.Oracle, m.CollateralToken} {
		if err := enc.WriteBytes(key.Bytes(), false); err != nil {
			return err
		}
	}
	for _, v := range []uint64{m.BaseDecimals, m.MaxBps, m.SecondsInYear, m.LiquidationFeePct, m.MaxLeverage} {
		if err := enc.WriteUint64(v, binary.LittleEndian); err != nil {
			return err
		}
	}
	lo, hi, overflow := m.minPositionSize().Uint128()
	if overflow {
		return ErrMinPositionSizeOverflow
	}
	for _, v := range []uint64{
		lo, hi,
		m.OpenInterestUSDLong, m.OpenInterestUSDShort,
		m.OpenInterestUnderlyingLong, m.OpenInterestUnderlyingShort,
	} {
		if err := enc.WriteUint64(v, binary.LittleEndian); err != nil {
			return err
		}
	}
	return enc.WriteUint8(m.Bump)
}

func (m *Market) UnmarshalWithDecoder(dec *bin.Decoder) error {
	for _, key := range []*solana.PublicKey{&m.Vault, &m.Oracle, &m.CollateralToken} {
		raw, err := dec.ReadNBytes(solana.PublicKeyLength)
		if err != nil {
			return err
		}
		*key = solana.PublicKeyFromBytes(raw)
	}
	var lo, hi uint64
	for _, v := range []*uint64{
		&m.BaseDecimals, &m.MaxBps, &m.SecondsInYear, &m.LiquidationFeePct, &m.MaxLeverage,
		&lo, &hi,
		&m.OpenInterestUSDLong, &m.OpenInterestUSDShort,
		&m.OpenInterestUnderlyingLong, &m.OpenInterestUnderlyingShort,
	} {
		var err error
		if *v, err = dec.ReadUint64(binary.LittleEndian); err != nil {
			return err
		}
	}
	m.MinPositionSize = num.UintFromUint128(lo, hi)
	var err error
	m.Bump, err = dec.ReadUint8()
	return err
}

func (m *Market) minPositionSize() *num.Uint {
	if m.MinPositionSize == nil {
		return num.NewUint(0)
	}
	return m.MinPositionSize
}

// Initialize creates the market record at the validated market_state
// address, funded by the signer. It fails with ledger.ErrAlreadyInUse if
// the market already exists.
func Initialize(tx *ledger.Tx, res *accounts.Resolved, vault, oracle, collateralToken solana.PublicKey) (*Market, error) {
	address := res.Key(RoleMarketState)
	if err := tx.CreateAccount(res.Key(RoleSigner), address, Space, res.ProgramID); err != nil {
		return nil, err
	}
	m := New(vault, oracle, collateralToken, res.Bump(RoleMarketState))
	data, err := accounts.EncodeRecord(Name, m)
	if err != nil {
		return nil, err
	}
	if err := tx.WriteData(res.ProgramID, address, data); err != nil {
		return nil, err
	}
	return m, nil
}

// Load reads the market stored at address.
func Load(view ledger.View, programID, address solana.PublicKey) (*Market, error) {
	m := &Market{}
	if err := accounts.LoadRecord(view, programID, address, Name, m); err != nil {
		return nil, err
	}
	return m, nil
}
