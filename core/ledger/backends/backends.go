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

package backends

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kazantseff/anchor-LimitlessFi/core/ledger"
	"github.com/kazantseff/anchor-LimitlessFi/core/ledger/badger"
	"github.com/kazantseff/anchor-LimitlessFi/core/ledger/leveldb"
	"github.com/kazantseff/anchor-LimitlessFi/core/ledger/memory"
	"github.com/kazantseff/anchor-LimitlessFi/logging"
)

// Open creates the backend selected in the configuration. Persistent
// backends keep their files in a sub directory of cfg.Dir, named after
// the backend.
func Open(log *logging.Logger, cfg ledger.Config) (ledger.Backend, error) {
	switch cfg.Backend {
	case ledger.MemoryBackend, "":
		return memory.New(), nil
	case ledger.BadgerBackend:
		dir, err := ensureDir(cfg.Dir, ledger.BadgerBackend)
		if err != nil {
			return nil, err
		}
		return badger.New(log, cfg, dir)
	case ledger.LevelDBBackend:
		dir, err := ensureDir(cfg.Dir, ledger.LevelDBBackend)
		if err != nil {
			return nil, err
		}
		return leveldb.New(cfg, dir)
	default:
		return nil, fmt.Errorf("unknown ledger backend %q", cfg.Backend)
	}
}

func ensureDir(root, name string) (string, error) {
	if root == "" {
		return "", fmt.Errorf("the %s backend requires a directory", name)
	}
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("could not create %s: %w", dir, err)
	}
	return dir, nil
}
