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

package market_test

import (
	"context"
	"encoding/binary"
	"testing"

	"github.com/kazantseff/anchor-LimitlessFi/core/accounts"
	"github.com/kazantseff/anchor-LimitlessFi/core/ledger"
	"github.com/kazantseff/anchor-LimitlessFi/core/ledger/memory"
	"github.com/kazantseff/anchor-LimitlessFi/core/market"
	"github.com/kazantseff/anchor-LimitlessFi/core/pda"
	"github.com/kazantseff/anchor-LimitlessFi/libs/num"
	"github.com/kazantseff/anchor-LimitlessFi/logging"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var programID = solana.MustPublicKeyFromBase58("BADPqHQ6dqfb2KfHk1JiHzJNWScAfgB4SQyVP283mPuy")

type testMarket struct {
	ledger    *ledger.Ledger
	deriver   *pda.Deriver
	validator *accounts.Validator
	signer    solana.PublicKey
	vault     solana.PublicKey
	oracle    solana.PublicKey
	token     solana.PublicKey
}

func getTestMarket(t *testing.T, lamports uint64) *testMarket {
	t.Helper()
	log := logging.NewTestLogger()
	deriver, err := pda.New(log, pda.NewDefaultConfig(), programID)
	require.NoError(t, err)
	l := ledger.New(log, ledger.NewDefaultConfig(), memory.New())
	t.Cleanup(func() { _ = l.Close() })

	signer := solana.NewWallet().PublicKey()
	require.NoError(t, l.Fund(context.Background(), signer, lamports))

	return &testMarket{
		ledger:    l,
		deriver:   deriver,
		validator: accounts.NewValidator(deriver),
		signer:    signer,
		vault:     solana.NewWallet().PublicKey(),
		oracle:    solana.NewWallet().PublicKey(),
		token:     solana.NewWallet().PublicKey(),
	}
}

func (tm *testMarket) supplied(t *testing.T) map[string]solana.PublicKey {
	t.Helper()
	state, err := tm.deriver.MarketState()
	require.NoError(t, err)
	return map[string]solana.PublicKey{
		market.RoleMarketState:   state.Address,
		market.RoleSigner:        tm.signer,
		market.RoleSystemProgram: solana.SystemProgramID,
		market.RoleRent:          solana.SysVarRentPubkey,
	}
}

func (tm *testMarket) initialize(t *testing.T) (*market.Market, error) {
	t.Helper()
	var m *market.Market
	err := tm.ledger.Update(context.Background(), func(tx *ledger.Tx) error {
		supplied := tm.supplied(t)
		writable := []solana.PublicKey{supplied[market.RoleMarketState], tm.signer}
		res, err := tm.validator.Validate(tx, market.Roles(), supplied, []solana.PublicKey{tm.signer}, writable)
		if err != nil {
			return err
		}
		m, err = market.Initialize(tx, res, tm.vault, tm.oracle, tm.token)
		return err
	})
	return m, err
}

func (tm *testMarket) load(t *testing.T) (*market.Market, error) {
	t.Helper()
	state, err := tm.deriver.MarketState()
	require.NoError(t, err)
	var m *market.Market
	err = tm.ledger.View(context.Background(), func(v ledger.View) error {
		m, err = market.Load(v, programID, state.Address)
		return err
	})
	return m, err
}

func TestInitialize(t *testing.T) {
	t.Run("Initialize a market with the default parameters", testInitialize)
	t.Run("Initialize a market twice fails and keeps the first market", testInitializeTwice)
	t.Run("Initialize a market without funds fails", testInitializeWithoutFunds)
	t.Run("Market record layout", testLayout)
	t.Run("Loading another record fails", testLoadWrongRecord)
	t.Run("Min position size above 128 bits cannot be encoded", testMinPositionSizeOverflow)
}

func testInitialize(t *testing.T) {
	tm := getTestMarket(t, 1_000_000_000)
	_, err := tm.initialize(t)
	require.NoError(t, err)

	m, err := tm.load(t)
	require.NoError(t, err)
	state, err := tm.deriver.MarketState()
	require.NoError(t, err)

	assert.Equal(t, tm.vault, m.Vault)
	assert.Equal(t, tm.oracle, m.Oracle)
	assert.Equal(t, tm.token, m.CollateralToken)
	assert.Equal(t, uint64(1_000_000_000_000_000_000), m.BaseDecimals)
	assert.Equal(t, uint64(10_000), m.MaxBps)
	assert.Equal(t, uint64(31_536_000), m.SecondsInYear)
	assert.Equal(t, uint64(10), m.LiquidationFeePct)
	assert.Equal(t, uint64(5), m.MaxLeverage)
	assert.Equal(t, "100000000000000000000", m.MinPositionSize.String())
	assert.Zero(t, m.OpenInterestUSDLong)
	assert.Zero(t, m.OpenInterestUSDShort)
	assert.Zero(t, m.OpenInterestUnderlyingLong)
	assert.Zero(t, m.OpenInterestUnderlyingShort)
	assert.Equal(t, state.Bump, m.Bump)

	acc, err := tm.ledger.GetAccount(context.Background(), state.Address)
	require.NoError(t, err)
	assert.Equal(t, programID, acc.Owner)
	assert.Len(t, acc.Data, market.Space)
	assert.Equal(t, ledger.MinimumBalance(market.Space), acc.Lamports)
}

func testInitializeTwice(t *testing.T) {
	tm := getTestMarket(t, 1_000_000_000)
	_, err := tm.initialize(t)
	require.NoError(t, err)
	first, err := tm.load(t)
	require.NoError(t, err)

	tm.vault = solana.NewWallet().PublicKey()
	tm.oracle = solana.NewWallet().PublicKey()
	_, err = tm.initialize(t)
	require.ErrorIs(t, err, ledger.ErrAlreadyInUse)

	second, err := tm.load(t)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func testInitializeWithoutFunds(t *testing.T) {
	tm := getTestMarket(t, ledger.MinimumBalance(market.Space)-1)
	_, err := tm.initialize(t)
	require.ErrorIs(t, err, ledger.ErrInsufficientFunds)

	_, err = tm.load(t)
	assert.ErrorIs(t, err, ledger.ErrAccountNotFound)
}

func testLayout(t *testing.T) {
	tm := getTestMarket(t, 1_000_000_000)
	_, err := tm.initialize(t)
	require.NoError(t, err)
	state, err := tm.deriver.MarketState()
	require.NoError(t, err)
	acc, err := tm.ledger.GetAccount(context.Background(), state.Address)
	require.NoError(t, err)
	data := acc.Data

	assert.Equal(t, 193, market.Space)
	d := accounts.Discriminator(market.Name)
	assert.Equal(t, d[:], data[:8])
	assert.Equal(t, tm.vault.Bytes(), data[8:40])
	assert.Equal(t, tm.oracle.Bytes(), data[40:72])
	assert.Equal(t, tm.token.Bytes(), data[72:104])
	assert.Equal(t, market.BaseDecimals, binary.LittleEndian.Uint64(data[104:112]))
	assert.Equal(t, market.MaxLeverage, binary.LittleEndian.Uint64(data[136:144]))
	assert.Equal(t, []byte{0, 0, 16, 99, 45, 94, 199, 107, 5, 0, 0, 0, 0, 0, 0, 0}, data[144:160])
	assert.Equal(t, make([]byte, 32), data[160:192])
	assert.Equal(t, state.Bump, data[192])
}

func testLoadWrongRecord(t *testing.T) {
	tm := getTestMarket(t, 1_000_000_000)
	state, err := tm.deriver.MarketState()
	require.NoError(t, err)
	require.NoError(t, tm.ledger.Update(context.Background(), func(tx *ledger.Tx) error {
		if err := tx.CreateAccount(tm.signer, state.Address, market.Space, programID); err != nil {
			return err
		}
		return tx.WriteData(programID, state.Address, make([]byte, market.Space))
	}))

	_, err = tm.load(t)
	assert.ErrorIs(t, err, accounts.ErrAccountDiscriminatorMismatch)
}

func testMinPositionSizeOverflow(t *testing.T) {
	m := market.New(solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey(), 255)
	_, err := accounts.EncodeRecord(market.Name, m)
	require.NoError(t, err)

	m.MinPositionSize = num.Pow10(40)
	_, err = accounts.EncodeRecord(market.Name, m)
	assert.ErrorIs(t, err, market.ErrMinPositionSizeOverflow)
}
