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

package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kazantseff/anchor-LimitlessFi/core/config"
	"github.com/kazantseff/anchor-LimitlessFi/core/ledger"
	"github.com/kazantseff/anchor-LimitlessFi/core/processor"
	vgtest "github.com/kazantseff/anchor-LimitlessFi/libs/test"
	"github.com/kazantseff/anchor-LimitlessFi/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig(t *testing.T) {
	t.Run("Written configuration reads back", testWriteRead)
	t.Run("Existing configuration is not overwritten", testNoOverwrite)
	t.Run("Values from the file override the defaults", testOverride)
	t.Run("Invalid program id is rejected", testInvalidProgramID)
	t.Run("Unknown backend is rejected", testUnknownBackend)
}

func testWriteRead(t *testing.T) {
	home := filepath.Join(t.TempDir(), "home")
	cfg := config.NewDefaultConfig(home)
	require.NoError(t, config.Write(home, cfg, false))
	vgtest.AssertPrivateDir(t, home)
	vgtest.AssertPrivateFile(t, config.Path(home))

	got, err := config.Read(home)
	require.NoError(t, err)
	assert.Equal(t, processor.DefaultProgramID, got.Processor.ProgramID.Get())
	assert.Equal(t, ledger.BadgerBackend, got.Ledger.Backend)
	assert.Equal(t, cfg.Ledger.Dir, got.Ledger.Dir)
	assert.Equal(t, 5*time.Second, got.Ledger.CommitRetryTimeout.Get())
	assert.Equal(t, logging.InfoLevel, got.Processor.Level.Get())
}

func testNoOverwrite(t *testing.T) {
	home := t.TempDir()
	cfg := config.NewDefaultConfig(home)
	require.NoError(t, config.Write(home, cfg, false))
	assert.Error(t, config.Write(home, cfg, false))
	assert.NoError(t, config.Write(home, cfg, true))
}

func testOverride(t *testing.T) {
	home := t.TempDir()
	content := `
[Ledger]
  Level = "debug"
  Backend = "leveldb"
  CommitRetryTimeout = "1s"

[Processor]
  ProgramID = "11111111111111111111111111111112"
`
	require.NoError(t, os.WriteFile(config.Path(home), []byte(content), 0o600))

	cfg, err := config.Read(home)
	require.NoError(t, err)
	assert.Equal(t, logging.DebugLevel, cfg.Ledger.Level.Get())
	assert.Equal(t, ledger.LevelDBBackend, cfg.Ledger.Backend)
	assert.Equal(t, time.Second, cfg.Ledger.CommitRetryTimeout.Get())
	assert.Equal(t, "11111111111111111111111111111112", cfg.Processor.ProgramID.String())
	// untouched values keep their defaults
	assert.Equal(t, 256, cfg.PDA.CacheSize)
}

func testInvalidProgramID(t *testing.T) {
	home := t.TempDir()
	content := "[Processor]\n  ProgramID = \"not-a-key\"\n"
	require.NoError(t, os.WriteFile(config.Path(home), []byte(content), 0o600))

	_, err := config.Read(home)
	assert.Error(t, err)

	content = "[Processor]\n  ProgramID = \"11111111111111111111111111111111\"\n"
	require.NoError(t, os.WriteFile(config.Path(home), []byte(content), 0o600))
	_, err = config.Read(home)
	assert.ErrorIs(t, err, config.ErrEmptyProgramID)
}

func testUnknownBackend(t *testing.T) {
	home := t.TempDir()
	content := "[Ledger]\n  Backend = \"postgres\"\n"
	require.NoError(t, os.WriteFile(config.Path(home), []byte(content), 0o600))

	_, err := config.Read(home)
	assert.Error(t, err)
}
