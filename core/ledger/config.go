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

package ledger

import (
	"time"

	"github.com/kazantseff/anchor-LimitlessFi/core/config/encoding"
	"github.com/kazantseff/anchor-LimitlessFi/logging"
)

const namedLogger = "ledger"

const (
	MemoryBackend  = "memory"
	BadgerBackend  = "badger"
	LevelDBBackend = "leveldb"
)

// Config represents the configuration of the ledger and of its storage backend.
type Config struct {
	Level   encoding.LogLevel `long:"log-level"`
	Backend string            `long:"backend" choice:"memory" choice:"badger" choice:"leveldb" description:"Storage backend of the ledger"`

	// Dir is where persistent backends keep their files.
	Dir        string `long:"dir" description:"Directory of the persistent backends"`
	SyncWrites bool   `long:"sync-writes" description:"Sync every commit to disk"`

	// CommitRetryTimeout bounds the retries of a transaction that lost
	// a commit race against another writer.
	CommitRetryTimeout encoding.Duration `long:"commit-retry-timeout"`
}

// NewDefaultConfig creates an instance of the package specific configuration.
func NewDefaultConfig() Config {
	return Config{
		Level:              encoding.LogLevel{Level: logging.InfoLevel},
		Backend:            MemoryBackend,
		SyncWrites:         true,
		CommitRetryTimeout: encoding.Duration{Duration: 5 * time.Second},
	}
}
