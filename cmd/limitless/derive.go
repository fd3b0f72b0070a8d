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
	"sort"

	"github.com/kazantseff/anchor-LimitlessFi/core/config"
	"github.com/kazantseff/anchor-LimitlessFi/core/config/encoding"
	"github.com/kazantseff/anchor-LimitlessFi/core/pda"
	"github.com/kazantseff/anchor-LimitlessFi/core/processor"
	"github.com/kazantseff/anchor-LimitlessFi/logging"

	"github.com/jessevdk/go-flags"
)

type DeriveCmd struct {
	HomeFlag

	Mint encoding.PublicKey `long:"mint" required:"true" description:"Mint of the underlying token"`

	out io.Writer
}

var deriveCmd DeriveCmd

func (opts *DeriveCmd) Execute(_ []string) error {
	out := writerOrStdout(opts.out)
	cfg, err := config.Read(opts.Home)
	if err != nil {
		return fmt.Errorf("couldn't load the configuration, did you run init: %w", err)
	}
	log := logging.NewLoggerFromConfig(cfg.Logging)
	defer log.AtExit()

	deriver, err := pda.New(log, cfg.PDA, cfg.Processor.ProgramID.Get())
	if err != nil {
		return err
	}
	derived, err := processor.DefaultAccounts(deriver, opts.Mint.Get())
	if err != nil {
		return err
	}

	roles := make([]string, 0, len(derived))
	for role := range derived {
		roles = append(roles, role)
	}
	sort.Strings(roles)

	field(out, "program", deriver.ProgramID())
	for _, role := range roles {
		boldColor.Fprintf(out, "%-32s", role)
		keyColor.Fprint(out, derived[role].Address)
		fmt.Fprintf(out, " (bump %d)\n", derived[role].Bump)
	}
	return nil
}

func Derive(ctx context.Context, parser *flags.Parser) error {
	deriveCmd = DeriveCmd{
		HomeFlag: NewHomeFlag(),
	}

	_, err := parser.AddCommand("derive", "Print the program addresses", "Print every address the program derives for a vault of the given mint", &deriveCmd)
	return err
}
