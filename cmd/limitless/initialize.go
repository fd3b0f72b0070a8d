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

package main

import (
	"context"
	"io"

	"github.com/kazantseff/anchor-LimitlessFi/core/config/encoding"
	"github.com/kazantseff/anchor-LimitlessFi/core/processor"

	"github.com/jessevdk/go-flags"
)

// SignerFlag is the address signing and paying for an instruction.
type SignerFlag struct {
	Signer encoding.PublicKey `long:"signer" required:"true" description:"Funded address signing the instruction"`
}

type InitializeMarketCmd struct {
	HomeFlag
	SignerFlag

	Vault           encoding.PublicKey `long:"vault" required:"true" description:"Vault backing the market"`
	Oracle          encoding.PublicKey `long:"oracle" required:"true" description:"Price oracle of the market"`
	CollateralToken encoding.PublicKey `long:"collateral-token" required:"true" description:"Mint of the collateral token"`

	out io.Writer
}

var initializeMarketCmd InitializeMarketCmd

func (opts *InitializeMarketCmd) Execute(_ []string) error {
	n, err := loadNode(opts.Home, writerOrStdout(opts.out))
	if err != nil {
		return err
	}
	defer n.Close()

	ins, err := processor.NewInitializeMarket(n.deriver, opts.Signer.Get(), processor.InitializeMarketArgs{
		Vault:           opts.Vault.Get(),
		Oracle:          opts.Oracle.Get(),
		CollateralToken: opts.CollateralToken.Get(),
	})
	if err != nil {
		return err
	}
	return n.processor.Process(context.Background(), ins)
}

func InitializeMarket(ctx context.Context, parser *flags.Parser) error {
	initializeMarketCmd = InitializeMarketCmd{
		HomeFlag: NewHomeFlag(),
	}

	_, err := parser.AddCommand("initialize-market", "Initialize the market", "Create the market record with the default risk parameters", &initializeMarketCmd)
	return err
}

type InitializeVaultCmd struct {
	HomeFlag
	SignerFlag

	Mint              encoding.PublicKey `long:"mint" required:"true" description:"Mint of the underlying token"`
	Market            encoding.PublicKey `long:"market" required:"true" description:"Market the vault backs"`
	MaxUtilPercentage uint64             `long:"max-util-percentage" default:"85" description:"Maximum utilisation of the vault"`

	out io.Writer
}

var initializeVaultCmd InitializeVaultCmd

func (opts *InitializeVaultCmd) Execute(_ []string) error {
	n, err := loadNode(opts.Home, writerOrStdout(opts.out))
	if err != nil {
		return err
	}
	defer n.Close()

	ins, err := processor.NewInitializeVault(n.deriver, opts.Signer.Get(), opts.Mint.Get(), processor.InitializeVaultArgs{
		Market:            opts.Market.Get(),
		MaxUtilPercentage: opts.MaxUtilPercentage,
	})
	if err != nil {
		return err
	}
	return n.processor.Process(context.Background(), ins)
}

func InitializeVault(ctx context.Context, parser *flags.Parser) error {
	initializeVaultCmd = InitializeVaultCmd{
		HomeFlag: NewHomeFlag(),
	}

	_, err := parser.AddCommand("initialize-vault", "Initialize the vault", "Create the vault record, its share mint and its custody account", &initializeVaultCmd)
	return err
}
