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

package processor

import (
	"github.com/kazantseff/anchor-LimitlessFi/core/accounts"
	"github.com/kazantseff/anchor-LimitlessFi/core/market"
	"github.com/kazantseff/anchor-LimitlessFi/core/pda"
	"github.com/kazantseff/anchor-LimitlessFi/core/tokens"
	"github.com/kazantseff/anchor-LimitlessFi/core/vault"

	"github.com/gagliardetto/solana-go"
)

// Names of the instructions.
const (
	InitializeMarket = "initialize_market"
	InitializeVault  = "initialize_vault"
)

// Instruction is a call to the program: the accounts it touches, keyed by
// role, the keys that signed it, the accounts passed as writable and its
// arguments.
type Instruction struct {
	Name     string
	Accounts map[string]solana.PublicKey
	Signers  []solana.PublicKey
	Writable []solana.PublicKey
	Args     interface{}
}

type InitializeMarketArgs struct {
	Vault           solana.PublicKey
	Oracle          solana.PublicKey
	CollateralToken solana.PublicKey
}

type InitializeVaultArgs struct {
	Market            solana.PublicKey
	MaxUtilPercentage uint64
}

// MarketAccounts returns the accounts of initialize_market.
func MarketAccounts(d *pda.Deriver, signer solana.PublicKey) (map[string]solana.PublicKey, error) {
	state, err := d.MarketState()
	if err != nil {
		return nil, err
	}
	return map[string]solana.PublicKey{
		market.RoleMarketState:   state.Address,
		market.RoleSigner:        signer,
		market.RoleSystemProgram: solana.SystemProgramID,
		market.RoleRent:          solana.SysVarRentPubkey,
	}, nil
}

// VaultAccounts returns the accounts of initialize_vault for a vault of
// the underlying mint.
func VaultAccounts(d *pda.Deriver, signer, underlying solana.PublicKey) (map[string]solana.PublicKey, error) {
	state, err := d.VaultState()
	if err != nil {
		return nil, err
	}
	owner, err := d.OwnerCapability()
	if err != nil {
		return nil, err
	}
	share, err := d.ShareMint()
	if err != nil {
		return nil, err
	}
	custody, err := d.CustodyAccount(underlying)
	if err != nil {
		return nil, err
	}
	return map[string]solana.PublicKey{
		vault.RoleVaultState:     state.Address,
		vault.RoleOwner:          owner.Address,
		vault.RoleShareMint:      share.Address,
		vault.RoleCustody:        custody.Address,
		vault.RoleUnderlyingMint: underlying,
		vault.RoleSigner:         signer,
		vault.RoleSystemProgram:  solana.SystemProgramID,
		vault.RoleTokenProgram:   tokens.ProgramID,
		vault.RoleRent:           solana.SysVarRentPubkey,
	}, nil
}

// DefaultAccounts returns every address the program derives for a vault
// of the underlying mint, along with the market state, keyed by role.
func DefaultAccounts(d *pda.Deriver, underlying solana.PublicKey) (map[string]pda.Derived, error) {
	out := map[string]pda.Derived{}
	for role, derive := range map[string]func() (pda.Derived, error){
		market.RoleMarketState: d.MarketState,
		vault.RoleVaultState:   d.VaultState,
		vault.RoleOwner:        d.OwnerCapability,
		vault.RoleShareMint:    d.ShareMint,
		vault.RoleCustody: func() (pda.Derived, error) {
			return d.CustodyAccount(underlying)
		},
	} {
		derived, err := derive()
		if err != nil {
			return nil, err
		}
		out[role] = derived
	}
	return out, nil
}

// NewInitializeMarket builds an initialize_market instruction signed by
// signer.
func NewInitializeMarket(d *pda.Deriver, signer solana.PublicKey, args InitializeMarketArgs) (Instruction, error) {
	accs, err := MarketAccounts(d, signer)
	if err != nil {
		return Instruction{}, err
	}
	return Instruction{
		Name:     InitializeMarket,
		Accounts: accs,
		Signers:  []solana.PublicKey{signer},
		Writable: writable(market.Roles(), accs),
		Args:     args,
	}, nil
}

// NewInitializeVault builds an initialize_vault instruction signed by
// signer for a vault of the underlying mint.
func NewInitializeVault(d *pda.Deriver, signer, underlying solana.PublicKey, args InitializeVaultArgs) (Instruction, error) {
	accs, err := VaultAccounts(d, signer, underlying)
	if err != nil {
		return Instruction{}, err
	}
	return Instruction{
		Name:     InitializeVault,
		Accounts: accs,
		Signers:  []solana.PublicKey{signer},
		Writable: writable(vault.Roles(), accs),
		Args:     args,
	}, nil
}

// writable lists the accounts bound to the writable roles.
func writable(roles []accounts.Role, accs map[string]solana.PublicKey) []solana.PublicKey {
	out := []solana.PublicKey{}
	for _, role := range roles {
		if role.Writable {
			out = append(out, accs[role.Name])
		}
	}
	return out
}
