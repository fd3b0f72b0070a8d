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
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/kazantseff/anchor-LimitlessFi/core/broker"
	"github.com/kazantseff/anchor-LimitlessFi/core/config"
	"github.com/kazantseff/anchor-LimitlessFi/core/ledger"
	"github.com/kazantseff/anchor-LimitlessFi/core/ledger/backends"
	"github.com/kazantseff/anchor-LimitlessFi/core/metrics"
	"github.com/kazantseff/anchor-LimitlessFi/core/pda"
	"github.com/kazantseff/anchor-LimitlessFi/core/processor"
	vgclose "github.com/kazantseff/anchor-LimitlessFi/libs/close"
	"github.com/kazantseff/anchor-LimitlessFi/logging"

	"github.com/prometheus/client_golang/prometheus"
)

// HomeFlag points at the directory holding the configuration and the
// ledger.
type HomeFlag struct {
	Home string `long:"home" description:"Path to the limitless home directory"`
}

func NewHomeFlag() HomeFlag {
	return HomeFlag{Home: defaultHome()}
}

func defaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".limitless"
	}
	return filepath.Join(home, ".limitless")
}

// node wires the engines of a configured home directory.
type node struct {
	log       *logging.Logger
	cfg       config.Config
	ledger    *ledger.Ledger
	deriver   *pda.Deriver
	broker    *broker.Broker
	metrics   *metrics.Metrics
	processor *processor.Processor
	closer    *vgclose.Closer
}

func loadNode(home string, out io.Writer) (*node, error) {
	cfg, err := config.Read(home)
	if err != nil {
		return nil, fmt.Errorf("couldn't load the configuration, did you run init: %w", err)
	}

	log := logging.NewLoggerFromConfig(cfg.Logging)
	closer := vgclose.NewCloser()
	closer.Add("logger", func() error {
		log.AtExit()
		return nil
	})

	backend, err := backends.Open(log, cfg.Ledger)
	if err != nil {
		_ = closer.CloseAll()
		return nil, fmt.Errorf("couldn't open the ledger: %w", err)
	}
	l := ledger.New(log, cfg.Ledger, backend)
	closer.Add("ledger", l.Close)

	deriver, err := pda.New(log, cfg.PDA, cfg.Processor.ProgramID.Get())
	if err != nil {
		_ = closer.CloseAll()
		return nil, err
	}

	m, err := metrics.New(prometheus.NewRegistry())
	if err != nil {
		_ = closer.CloseAll()
		return nil, err
	}
	if cfg.Metrics.Textfile != "" {
		path := cfg.Metrics.Textfile
		closer.Add("metrics", func() error {
			if err := m.WriteTextfile(path); err != nil {
				log.Error("couldn't write the metrics", logging.String("path", path), logging.Error(err))
				return err
			}
			return nil
		})
	}

	b := broker.New(log, cfg.Broker)
	b.Subscribe(newEventPrinter(out))

	return &node{
		log:       log,
		cfg:       *cfg,
		ledger:    l,
		deriver:   deriver,
		broker:    b,
		metrics:   m,
		processor: processor.New(log, cfg.Processor, l, deriver, b, m),
		closer:    closer,
	}, nil
}

func (n *node) Close() error {
	return n.closer.CloseAll()
}
