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

	"github.com/kazantseff/anchor-LimitlessFi/core/config"
	"github.com/kazantseff/anchor-LimitlessFi/core/config/encoding"
	"github.com/kazantseff/anchor-LimitlessFi/logging"

	"github.com/jessevdk/go-flags"
)

type InitCmd struct {
	HomeFlag

	Force     bool               `short:"f" long:"force" description:"Erase existing configuration at the specified path"`
	Backend   string             `long:"backend" choice:"badger" choice:"leveldb" choice:"memory" description:"Storage backend of the ledger" default:"badger"`
	ProgramID encoding.PublicKey `long:"program-id" description:"Id of the program owning the market and the vault"`
}

var initCmd InitCmd

func (opts *InitCmd) Execute(_ []string) error {
	logger := logging.NewLoggerFromConfig(logging.NewDefaultConfig())
	defer logger.AtExit()

	cfg := config.NewDefaultConfig(opts.Home)
	if opts.Backend != "" {
		cfg.Ledger.Backend = opts.Backend
	}
	if !opts.ProgramID.IsZero() {
		cfg.Processor.ProgramID = opts.ProgramID
	}

	if err := config.Write(opts.Home, cfg, opts.Force); err != nil {
		return fmt.Errorf("couldn't save configuration file: %w", err)
	}

	logger.Info("configuration generated successfully", logging.String("path", config.Path(opts.Home)))
	return nil
}

func Init(ctx context.Context, parser *flags.Parser) error {
	initCmd = InitCmd{
		HomeFlag: NewHomeFlag(),
	}

	short := "Initializes a limitless home"
	long := "Generate the configuration and the ledger location of a limitless home"

	_, err := parser.AddCommand("init", short, long, &initCmd)
	return err
}
