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

import (
	"context"

	"github.com/kazantseff/anchor-LimitlessFi/core/market"
	"github.com/kazantseff/anchor-LimitlessFi/core/vault"

	"github.com/gagliardetto/solana-go"
)

type MarketInitialised struct {
	*Base
	address solana.PublicKey
	m       market.Market
}

func NewMarketInitialised(ctx context.Context, address solana.PublicKey, m *market.Market) *MarketInitialised {
	return &MarketInitialised{
		Base:    newBase(ctx, MarketInitialisedEvent),
		address: address,
		m:       *m,
	}
}

func (m MarketInitialised) Address() solana.PublicKey {
	return m.address
}

func (m MarketInitialised) Market() market.Market {
	return m.m
}

type VaultInitialised struct {
	*Base
	address solana.PublicKey
	v       vault.Vault
}

func NewVaultInitialised(ctx context.Context, address solana.PublicKey, v *vault.Vault) *VaultInitialised {
	return &VaultInitialised{
		Base:    newBase(ctx, VaultInitialisedEvent),
		address: address,
		v:       *v,
	}
}

func (v VaultInitialised) Address() solana.PublicKey {
	return v.address
}

func (v VaultInitialised) Vault() vault.Vault {
	return v.v
}
