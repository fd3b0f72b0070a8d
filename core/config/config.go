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

//lint:file-ignore SA5008 duplicated struct tags are ok for config

package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kazantseff/anchor-LimitlessFi/core/broker"
	"github.com/kazantseff/anchor-LimitlessFi/core/ledger"
	"github.com/kazantseff/anchor-LimitlessFi/core/metrics"
	"github.com/kazantseff/anchor-LimitlessFi/core/pda"
	"github.com/kazantseff/anchor-LimitlessFi/core/processor"
	"github.com/kazantseff/anchor-LimitlessFi/logging"

	"github.com/BurntSushi/toml"
	"github.com/gagliardetto/solana-go"
)

const configFileName = "config.toml"

var ErrEmptyProgramID = fmt.Errorf("program id cannot be empty")

// Config ties together all other application configuration types.
type Config struct {
	Logging   logging.Config   `group:"Logging" namespace:"logging"`
	PDA       pda.Config       `group:"PDA" namespace:"pda"`
	Ledger    ledger.Config    `group:"Ledger" namespace:"ledger"`
	Processor processor.Config `group:"Processor" namespace:"processor"`
	Broker    broker.Config    `group:"Broker" namespace:"broker"`
	Metrics   metrics.Config   `group:"Metrics" namespace:"metrics"`
}

// NewDefaultConfig returns a set of default configs for all packages, the
// ledger is persisted under home.
func NewDefaultConfig(home string) Config {
	cfg := Config{
		Logging:   logging.NewDefaultConfig(),
		PDA:       pda.NewDefaultConfig(),
		Ledger:    ledger.NewDefaultConfig(),
		Processor: processor.NewDefaultConfig(),
		Broker:    broker.NewDefaultConfig(),
		Metrics:   metrics.NewDefaultConfig(),
	}
	cfg.Ledger.Backend = ledger.BadgerBackend
	cfg.Ledger.Dir = filepath.Join(home, "ledger")
	return cfg
}

// Validate checks the values that cannot be checked while decoding.
func (c Config) Validate() error {
	if c.Processor.ProgramID.Get().Equals(solana.PublicKey{}) {
		return ErrEmptyProgramID
	}
	switch c.Ledger.Backend {
	case ledger.MemoryBackend, ledger.BadgerBackend, ledger.LevelDBBackend:
	default:
		return fmt.Errorf("unknown ledger backend %q", c.Ledger.Backend)
	}
	return nil
}

// Path returns the location of the configuration file under home.
func Path(home string) string {
	return filepath.Join(home, configFileName)
}

// Read loads the configuration file stored under home, on top of the
// default configuration.
func Read(home string) (*Config, error) {
	buf, err := os.ReadFile(Path(home))
	if err != nil {
		return nil, err
	}
	cfg := NewDefaultConfig(home)
	if _, err := toml.Decode(string(buf), &cfg); err != nil {
		return nil, fmt.Errorf("could not decode %s: %w", Path(home), err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Write saves the configuration under home, creating the directory if
// needed. An existing file is only replaced if overwrite is set.
func Write(home string, cfg Config, overwrite bool) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(home, 0o700); err != nil {
		return err
	}
	path := Path(home)
	if _, err := os.Stat(path); err == nil && !overwrite {
		return fmt.Errorf("%s already exists", path)
	}

	buf := new(bytes.Buffer)
	if err := toml.NewEncoder(buf).Encode(cfg); err != nil {
		return fmt.Errorf("could not encode the configuration: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o600)
}
