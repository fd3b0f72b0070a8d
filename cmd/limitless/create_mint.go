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
	"fmt"
	"io"

	"github.com/kazantseff/anchor-LimitlessFi/core/config/encoding"
	"github.com/kazantseff/anchor-LimitlessFi/core/tokens"

	"github.com/gagliardetto/solana-go"
	"github.com/jessevdk/go-flags"
)

type CreateMintCmd struct {
	HomeFlag

	Payer     encoding.PublicKey `long:"payer" required:"true" description:"Funded address paying the rent of the mint"`
	Authority encoding.PublicKey `long:"authority" required:"true" description:"Mint authority"`
	Freeze    encoding.PublicKey `long:"freeze-authority" description:"Optional freeze authority"`
	Decimals  uint8              `long:"decimals" default:"9" description:"Decimals of the token"`

	out io.Writer
}

var createMintCmd CreateMintCmd

func (opts *CreateMintCmd) Execute(_ []string) error {
	out := writerOrStdout(opts.out)
	n, err := loadNode(opts.Home, out)
	if err != nil {
		return err
	}
	defer n.Close()

	var freeze *solana.PublicKey
	if !opts.Freeze.IsZero() {
		key := opts.Freeze.Get()
		freeze = &key
	}

	mint, err := tokens.CreateMint(context.Background(), n.ledger, opts.Payer.Get(), opts.Authority.Get(), freeze, opts.Decimals)
	if err != nil {
		return fmt.Errorf("couldn't create the mint: %w", err)
	}
	okColor.Fprint(out, "mint created ")
	keyColor.Fprintln(out, mint)
	return nil
}

func CreateMint(ctx context.Context, parser *flags.Parser) error {
	createMintCmd = CreateMintCmd{
		HomeFlag: NewHomeFlag(),
	}

	_, err := parser.AddCommand("create-mint", "Create a token mint", "Create a token mint at a fresh address", &createMintCmd)
	return err
}
