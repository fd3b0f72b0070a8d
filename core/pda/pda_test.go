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

package pda_test

import (
	"bytes"
	"testing"

	"github.com/kazantseff/anchor-LimitlessFi/core/pda"
	"github.com/kazantseff/anchor-LimitlessFi/logging"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var programID = solana.MustPublicKeyFromBase58("BADPqHQ6dqfb2KfHk1JiHzJNWScAfgB4SQyVP283mPuy")

func getTestDeriver(t *testing.T) *pda.Deriver {
	t.Helper()
	d, err := pda.New(logging.NewTestLogger(), pda.NewDefaultConfig(), programID)
	require.NoError(t, err)
	return d
}

func TestDerivation(t *testing.T) {
	t.Run("Derivation is deterministic", testDerivationIsDeterministic)
	t.Run("Derivation matches the reference algorithm", testDerivationMatchesReference)
	t.Run("Different namespaces give different addresses", testNamespacesDiscriminate)
	t.Run("Different assets give different custody accounts", testAssetsDiscriminate)
	t.Run("Singleton addresses do not depend on the asset", testSingletonsIgnoreAsset)
	t.Run("Derived bump verifies the address", testVerify)
	t.Run("Different programs give different addresses", testProgramsDiscriminate)
	t.Run("Cache does not change the results", testCacheIsTransparent)
	t.Run("Malformed seeds are rejected", testMalformedSeeds)
}

func testDerivationIsDeterministic(t *testing.T) {
	d1 := getTestDeriver(t)
	d2 := getTestDeriver(t)

	addr1, bump1, err := d1.Derive(pda.MarketStateSeed)
	require.NoError(t, err)
	addr2, bump2, err := d1.Derive(pda.MarketStateSeed)
	require.NoError(t, err)
	addr3, bump3, err := d2.Derive(pda.MarketStateSeed)
	require.NoError(t, err)

	assert.Equal(t, addr1, addr2)
	assert.Equal(t, bump1, bump2)
	assert.Equal(t, addr1, addr3)
	assert.Equal(t, bump1, bump3)
}

func testDerivationMatchesReference(t *testing.T) {
	d := getTestDeriver(t)
	asset := solana.NewWallet().PublicKey()

	addr, bump, err := d.Derive(pda.CustodySeed, asset.Bytes())
	require.NoError(t, err)

	expected, expectedBump, err := solana.FindProgramAddress(
		[][]byte{[]byte("token_vault"), asset.Bytes()}, programID)
	require.NoError(t, err)
	assert.Equal(t, expected, addr)
	assert.Equal(t, expectedBump, bump)
}

func testNamespacesDiscriminate(t *testing.T) {
	d := getTestDeriver(t)
	seen := map[solana.PublicKey]string{}
	for _, ns := range []string{
		pda.MarketStateSeed,
		pda.VaultStateSeed,
		pda.OwnerCapabilitySeed,
		pda.ShareMintSeed,
		pda.CustodySeed,
	} {
		addr, _, err := d.Derive(ns)
		require.NoError(t, err)
		other, dup := seen[addr]
		assert.False(t, dup, "%s collides with %s", ns, other)
		seen[addr] = ns
	}
}

func testAssetsDiscriminate(t *testing.T) {
	d := getTestDeriver(t)
	assetA := solana.NewWallet().PublicKey()
	assetB := solana.NewWallet().PublicKey()

	custodyA, err := d.CustodyAccount(assetA)
	require.NoError(t, err)
	custodyB, err := d.CustodyAccount(assetB)
	require.NoError(t, err)

	assert.NotEqual(t, custodyA.Address, custodyB.Address)
}

func testSingletonsIgnoreAsset(t *testing.T) {
	d := getTestDeriver(t)
	_, err := d.CustodyAccount(solana.NewWallet().PublicKey())
	require.NoError(t, err)
	vault1, err := d.VaultState()
	require.NoError(t, err)
	_, err = d.CustodyAccount(solana.NewWallet().PublicKey())
	require.NoError(t, err)
	vault2, err := d.VaultState()
	require.NoError(t, err)

	assert.Equal(t, vault1, vault2)
}

func testVerify(t *testing.T) {
	d := getTestDeriver(t)
	asset := solana.NewWallet().PublicKey()

	custody, err := d.CustodyAccount(asset)
	require.NoError(t, err)

	assert.True(t, d.Verify(custody.Address, pda.CustodySeed, custody.Bump, asset.Bytes()))
	assert.False(t, d.Verify(custody.Address, pda.CustodySeed, custody.Bump, solana.NewWallet().PublicKey().Bytes()))
	assert.False(t, d.Verify(custody.Address, pda.VaultStateSeed, custody.Bump))
}

func testProgramsDiscriminate(t *testing.T) {
	d := getTestDeriver(t)
	other, err := pda.New(logging.NewTestLogger(), pda.NewDefaultConfig(), solana.TokenProgramID)
	require.NoError(t, err)

	addr1, _, err := d.Derive(pda.MarketStateSeed)
	require.NoError(t, err)
	addr2, _, err := other.Derive(pda.MarketStateSeed)
	require.NoError(t, err)
	assert.NotEqual(t, addr1, addr2)
}

func testCacheIsTransparent(t *testing.T) {
	cfg := pda.NewDefaultConfig()
	cfg.CacheSize = 1
	d, err := pda.New(logging.NewTestLogger(), cfg, programID)
	require.NoError(t, err)

	first, err := d.ShareMint()
	require.NoError(t, err)
	// evicts the share mint entry
	_, err = d.MarketState()
	require.NoError(t, err)
	second, err := d.ShareMint()
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func testMalformedSeeds(t *testing.T) {
	d := getTestDeriver(t)

	_, _, err := d.Derive("")
	assert.ErrorIs(t, err, pda.ErrEmptyNamespace)

	_, _, err = d.Derive(pda.CustodySeed, bytes.Repeat([]byte{1}, pda.MaxSeedLength+1))
	assert.ErrorIs(t, err, pda.ErrSeedTooLong)

	extra := make([][]byte, pda.MaxSeeds)
	for i := range extra {
		extra[i] = []byte{byte(i)}
	}
	_, _, err = d.Derive(pda.CustodySeed, extra...)
	assert.ErrorIs(t, err, pda.ErrTooManySeeds)
}
