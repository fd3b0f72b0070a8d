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

package backends_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/kazantseff/anchor-LimitlessFi/core/ledger"
	"github.com/kazantseff/anchor-LimitlessFi/core/ledger/backends"
	vgtest "github.com/kazantseff/anchor-LimitlessFi/libs/test"
	"github.com/kazantseff/anchor-LimitlessFi/logging"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	t.Run("Memory backend is the default", testOpenDefault)
	t.Run("Persistent backends keep their state across reopen", testPersistentBackends)
	t.Run("Persistent backends require a directory", testPersistentRequiresDir)
	t.Run("Unknown backend is rejected", testUnknownBackend)
}

func testOpenDefault(t *testing.T) {
	cfg := ledger.NewDefaultConfig()
	cfg.Backend = ""
	b, err := backends.Open(logging.NewTestLogger(), cfg)
	require.NoError(t, err)
	assert.NoError(t, b.Close())
}

func testPersistentBackends(t *testing.T) {
	for _, name := range []string{ledger.BadgerBackend, ledger.LevelDBBackend} {
		name := name
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			cfg := ledger.NewDefaultConfig()
			cfg.Backend = name
			cfg.Dir = t.TempDir()
			address := solana.NewWallet().PublicKey()

			b, err := backends.Open(logging.NewTestLogger(), cfg)
			require.NoError(t, err)
			vgtest.AssertPrivateDir(t, filepath.Join(cfg.Dir, name))
			l := ledger.New(logging.NewTestLogger(), cfg, b)
			require.NoError(t, l.Fund(ctx, address, 42))
			require.NoError(t, l.Close())

			b, err = backends.Open(logging.NewTestLogger(), cfg)
			require.NoError(t, err)
			l = ledger.New(logging.NewTestLogger(), cfg, b)
			defer l.Close()

			acc, err := l.GetAccount(ctx, address)
			require.NoError(t, err)
			assert.Equal(t, uint64(42), acc.Lamports)
		})
	}
}

func testPersistentRequiresDir(t *testing.T) {
	cfg := ledger.NewDefaultConfig()
	cfg.Backend = ledger.BadgerBackend
	_, err := backends.Open(logging.NewTestLogger(), cfg)
	assert.Error(t, err)
}

func testUnknownBackend(t *testing.T) {
	cfg := ledger.NewDefaultConfig()
	cfg.Backend = "postgres"
	_, err := backends.Open(logging.NewTestLogger(), cfg)
	assert.Error(t, err)
}
