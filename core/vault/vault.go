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

package vault

import (
	"encoding/binary"

	"github.com/kazantseff/anchor-LimitlessFi/core/accounts"
	"github.com/kazantseff/anchor-LimitlessFi/core/ledger"
	"github.com/kazantseff/anchor-LimitlessFi/core/pda"
	"github.com/kazantseff/anchor-LimitlessFi/core/tokens"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

const (
	// Name identifies vault records.
	Name = "Vault"
	// InitSpace is the encoded size of a vault, without its discriminator.
	InitSpace = 2*solana.PublicKeyLength + 1 + 4*8
	Space     = accounts.DiscriminatorSize + InitSpace

	// ScaleFactor is the fixed point unit of share accounting.
	ScaleFactor uint64 = 1_000_000_000_000_000_000
)

// Account roles of the initialize_vault instruction.
const (
	RoleVaultState     = "vault_state"
	RoleOwner          = "token_account_owner_pda"
	RoleShareMint      = "share_mint"
	RoleCustody        = "vault_token_account"
	RoleUnderlyingMint = "mint_of_token_being_sent"
	RoleSigner         = "signer"
	RoleSystemProgram  = "system_program"
	RoleTokenProgram   = "token_program"
	RoleRent           = "rent"
)

func Roles() []accounts.Role {
	return []accounts.Role{
		accounts.Derived(RoleVaultState, pda.VaultStateSeed).Initialized(),
		accounts.Derived(RoleOwner, pda.OwnerCapabilitySeed),
		accounts.Derived(RoleShareMint, pda.ShareMintSeed).Initialized(),
		accounts.DerivedFrom(RoleCustody, pda.CustodySeed, RoleUnderlyingMint).Initialized(),
		accounts.Mint(RoleUnderlyingMint),
		accounts.Signer(RoleSigner).Mut(),
		accounts.Program(RoleSystemProgram, solana.SystemProgramID),
		accounts.Program(RoleTokenProgram, tokens.ProgramID),
		accounts.Sysvar(RoleRent, solana.SysVarRentPubkey),
	}
}

// Vault is the singleton record of the liquidity pool backing a market.
type Vault struct {
	ShareMint                solana.PublicKey
	PdaBump                  uint8
	Market                   solana.PublicKey
	ScaleFactor              uint64
	MaxUtilPercentage        uint64
	TotalUnderlyingDeposited uint64
	TotalShares              uint64
}

func (v *Vault) MarshalWithEncoder(enc *bin.Encoder) error {
	if err := enc.WriteBytes(v.ShareMint.Bytes(), false); err != nil {
		return err
	}
	if err := enc.WriteUint8(v.PdaBump); err != nil {
		return err
	}
	if err := enc.WriteBytes(v.Market.Bytes(), false); err != nil {
		return err
	}
	for _, n := range []uint64{v.ScaleFactor, v.MaxUtilPercentage, v.TotalUnderlyingDeposited, v.TotalShares} {
		if err := enc.WriteUint64(n, binary.LittleEndian); err != nil {
			return err
		}
	}
	return nil
}

func (v *Vault) UnmarshalWithDecoder(dec *bin.Decoder) error {
	raw, err := dec.ReadNBytes(solana.PublicKeyLength)
	if err != nil {
		return err
	}
	v.ShareMint = solana.PublicKeyFromBytes(raw)
	if v.PdaBump, err = dec.ReadUint8(); err != nil {
		return err
	}
	if raw, err = dec.ReadNBytes(solana.PublicKeyLength); err != nil {
		return err
	}
	v.Market = solana.PublicKeyFromBytes(raw)
	for _, n := range []*uint64{&v.ScaleFactor, &v.MaxUtilPercentage, &v.TotalUnderlyingDeposited, &v.TotalShares} {
		if *n, err = dec.ReadUint64(binary.LittleEndian); err != nil {
			return err
		}
	}
	return nil
}

// Initialize creates the vault record, its share mint and its custody
// account, all funded by the signer. The share mint uses the decimals of
// the underlying mint, and both the share mint and the custody account
// are controlled by the owner address. maxUtilPercentage is stored as
// given.
func Initialize(tx *ledger.Tx, res *accounts.Resolved, market solana.PublicKey, maxUtilPercentage uint64) (*Vault, error) {
	var (
		payer      = res.Key(RoleSigner)
		address    = res.Key(RoleVaultState)
		owner      = res.Key(RoleOwner)
		shareMint  = res.Key(RoleShareMint)
		underlying = res.Key(RoleUnderlyingMint)
	)

	if err := tx.CreateAccount(payer, address, Space, res.ProgramID); err != nil {
		return nil, err
	}

	mint, err := tokens.GetMint(tx, underlying)
	if err != nil {
		return nil, err
	}
	if _, err := tokens.InitializeMint(tx, payer, shareMint, mint.Decimals, owner, nil); err != nil {
		return nil, err
	}
	if _, err := tokens.InitializeAccount(tx, payer, res.Key(RoleCustody), underlying, owner); err != nil {
		return nil, err
	}

	v := &Vault{
		ShareMint:         shareMint,
		PdaBump:           res.Bump(RoleVaultState),
		Market:            market,
		ScaleFactor:       ScaleFactor,
		MaxUtilPercentage: maxUtilPercentage,
	}
	data, err := accounts.EncodeRecord(Name, v)
	if err != nil {
		return nil, err
	}
	if err := tx.WriteData(res.ProgramID, address, data); err != nil {
		return nil, err
	}
	return v, nil
}

// Load reads the vault stored at address.
func Load(view ledger.View, programID, address solana.PublicKey) (*Vault, error) {
	v := &Vault{}
	if err := accounts.LoadRecord(view, programID, address, Name, v); err != nil {
		return nil, err
	}
	return v, nil
}
