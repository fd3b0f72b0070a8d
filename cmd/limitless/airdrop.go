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
	"math/big"
	"os"

	"github.com/kazantseff/anchor-LimitlessFi/core/config/encoding"

	"github.com/dustin/go-humanize"
	"github.com/jessevdk/go-flags"
)

type AirdropCmd struct {
	HomeFlag

	Address  encoding.PublicKey `long:"address" required:"true" description:"Address to fund"`
	Lamports uint64             `long:"lamports" required:"true" description:"Amount to credit"`

	out io.Writer
}

var airdropCmd AirdropCmd

func (opts *AirdropCmd) Execute(_ []string) error {
	out := writerOrStdout(opts.out)
	n, err := loadNode(opts.Home, out)
	if err != nil {
		return err
	}
	defer n.Close()

	if err := n.ledger.Fund(context.Background(), opts.Address.Get(), opts.Lamports); err != nil {
		return fmt.Errorf("couldn't fund %s: %w", opts.Address, err)
	}
	acc, err := n.ledger.GetAccount(context.Background(), opts.Address.Get())
	if err != nil {
		return err
	}
	keyColor.Fprint(out, opts.Address.String())
	fmt.Fprintf(out, " holds %s lamports\n", grouped(acc.Lamports))
	return nil
}

func Airdrop(ctx context.Context, parser *flags.Parser) error {
	airdropCmd = AirdropCmd{
		HomeFlag: NewHomeFlag(),
	}

	_, err := parser.AddCommand("airdrop", "Credit lamports to an address", "Credit lamports to an address, creating it if needed", &airdropCmd)
	return err
}

// grouped renders v with thousands separators.
func grouped(v uint64) string {
	return humanize.BigComma(new(big.Int).SetUint64(v))
}

func writerOrStdout(w io.Writer) io.Writer {
	if w == nil {
		return os.Stdout
	}
	return w
}
