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

package ledger_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kazantseff/anchor-LimitlessFi/core/ledger"
	"github.com/kazantseff/anchor-LimitlessFi/core/ledger/badger"
	"github.com/kazantseff/anchor-LimitlessFi/core/ledger/leveldb"
	"github.com/kazantseff/anchor-LimitlessFi/core/ledger/memory"
	"github.com/kazantseff/anchor-LimitlessFi/logging"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

const space = 64

var program = solana.MustPublicKeyFromBase58("BADPqHQ6dqfb2KfHk1JiHzJNWScAfgB4SQyVP283mPuy")

type backendFactory func(t *testing.T) ledger.Backend

var factories = map[string]backendFactory{
	"memory": func(t *testing.T) ledger.Backend {
		t.Helper()
		return memory.New()
	},
	"badger": func(t *testing.T) ledger.Backend {
		t.Helper()
		b, err := badger.New(logging.NewTestLogger(), ledger.NewDefaultConfig(), "")
		require.NoError(t, err)
		return b
	},
	"leveldb": func(t *testing.T) ledger.Backend {
		t.Helper()
		b, err := leveldb.New(ledger.NewDefaultConfig(), "")
		require.NoError(t, err)
		return b
	},
}

func TestLedger(t *testing.T) {
	for name, factory := range factories {
		factory := factory
		t.Run(name, func(t *testing.T) {
			t.Run("Creating an account charges the payer the rent", func(t *testing.T) { testCreateAccount(t, factory) })
			t.Run("Creating an account twice fails without changes", func(t *testing.T) { testCreateTwice(t, factory) })
			t.Run("Creating an account without funds fails without changes", func(t *testing.T) { testInsufficientFunds(t, factory) })
			t.Run("Creating an account with an unknown payer fails", func(t *testing.T) { testUnknownPayer(t, factory) })
			t.Run("Creating over a funded address only tops it up", func(t *testing.T) { testCreateOverFundedAddress(t, factory) })
			t.Run("Failed update discards every staged change", func(t *testing.T) { testRollback(t, factory) })
			t.Run("Writing data is restricted to the owner", func(t *testing.T) { testWriteData(t, factory) })
			t.Run("Program accounts are listed by owner", func(t *testing.T) { testProgramAccounts(t, factory) })
			t.Run("Racing creators produce a single account", func(t *testing.T) { testRacingCreators(t, factory) })
			t.Run("Funding with zero lamports fails", func(t *testing.T) { testFundZero(t, factory) })
			t.Run("An account cannot pay for its own creation", func(t *testing.T) { testSelfFundedCreation(t, factory) })
			t.Run("Panicking update releases the backend", func(t *testing.T) { testPanickingUpdate(t, factory) })
		})
	}
}

func getTestLedger(t *testing.T, factory backendFactory) *ledger.Ledger {
	t.Helper()
	l := ledger.New(logging.NewTestLogger(), ledger.NewDefaultConfig(), factory(t))
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func fundedPayer(t *testing.T, l *ledger.Ledger, lamports uint64) solana.PublicKey {
	t.Helper()
	payer := solana.NewWallet().PublicKey()
	require.NoError(t, l.Fund(context.Background(), payer, lamports))
	return payer
}

func create(l *ledger.Ledger, payer, address solana.PublicKey) error {
	return l.Update(context.Background(), func(tx *ledger.Tx) error {
		return tx.CreateAccount(payer, address, space, program)
	})
}

func testCreateAccount(t *testing.T, factory backendFactory) {
	l := getTestLedger(t, factory)
	ctx := context.Background()
	rent := ledger.MinimumBalance(space)
	payer := fundedPayer(t, l, rent+1)
	address := solana.NewWallet().PublicKey()

	require.NoError(t, create(l, payer, address))

	acc, err := l.GetAccount(ctx, address)
	require.NoError(t, err)
	assert.Equal(t, program, acc.Owner)
	assert.Equal(t, rent, acc.Lamports)
	assert.Len(t, acc.Data, space)

	from, err := l.GetAccount(ctx, payer)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), from.Lamports)
}

func testCreateTwice(t *testing.T, factory backendFactory) {
	l := getTestLedger(t, factory)
	ctx := context.Background()
	payer := fundedPayer(t, l, 10*ledger.MinimumBalance(space))
	address := solana.NewWallet().PublicKey()

	require.NoError(t, create(l, payer, address))
	payerBefore, err := l.GetAccount(ctx, payer)
	require.NoError(t, err)
	before, err := l.GetAccount(ctx, address)
	require.NoError(t, err)

	err = create(l, payer, address)
	require.ErrorIs(t, err, ledger.ErrAlreadyInUse)
	assert.Contains(t, err.Error(), "already in use")

	after, err := l.GetAccount(ctx, address)
	require.NoError(t, err)
	payerAfter, err := l.GetAccount(ctx, payer)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, payerBefore, payerAfter)
}

func testInsufficientFunds(t *testing.T, factory backendFactory) {
	l := getTestLedger(t, factory)
	ctx := context.Background()
	payer := fundedPayer(t, l, ledger.MinimumBalance(space)-1)
	address := solana.NewWallet().PublicKey()

	require.ErrorIs(t, create(l, payer, address), ledger.ErrInsufficientFunds)

	_, err := l.GetAccount(ctx, address)
	assert.ErrorIs(t, err, ledger.ErrAccountNotFound)
	from, err := l.GetAccount(ctx, payer)
	require.NoError(t, err)
	assert.Equal(t, ledger.MinimumBalance(space)-1, from.Lamports)
}

func testUnknownPayer(t *testing.T, factory backendFactory) {
	l := getTestLedger(t, factory)
	err := create(l, solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey())
	assert.ErrorIs(t, err, ledger.ErrInsufficientFunds)
}

func testCreateOverFundedAddress(t *testing.T, factory backendFactory) {
	l := getTestLedger(t, factory)
	ctx := context.Background()
	rent := ledger.MinimumBalance(space)
	payer := fundedPayer(t, l, rent)
	address := fundedPayer(t, l, 1000)

	require.NoError(t, create(l, payer, address))

	acc, err := l.GetAccount(ctx, address)
	require.NoError(t, err)
	assert.Equal(t, rent, acc.Lamports)
	from, err := l.GetAccount(ctx, payer)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), from.Lamports)
}

func testRollback(t *testing.T, factory backendFactory) {
	l := getTestLedger(t, factory)
	ctx := context.Background()
	rent := ledger.MinimumBalance(space)
	payer := fundedPayer(t, l, 10*rent)
	first := solana.NewWallet().PublicKey()
	second := solana.NewWallet().PublicKey()
	boom := errors.New("boom")

	err := l.Update(ctx, func(tx *ledger.Tx) error {
		if err := tx.CreateAccount(payer, first, space, program); err != nil {
			return err
		}
		// staged changes are visible inside the transaction
		acc, err := tx.GetAccount(first)
		require.NoError(t, err)
		assert.Equal(t, program, acc.Owner)
		if err := tx.CreateAccount(payer, second, space, program); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	for _, address := range []solana.PublicKey{first, second} {
		_, err := l.GetAccount(ctx, address)
		assert.ErrorIs(t, err, ledger.ErrAccountNotFound)
	}
	from, err := l.GetAccount(ctx, payer)
	require.NoError(t, err)
	assert.Equal(t, 10*rent, from.Lamports)
}

func testWriteData(t *testing.T, factory backendFactory) {
	l := getTestLedger(t, factory)
	ctx := context.Background()
	payer := fundedPayer(t, l, 10*ledger.MinimumBalance(space))
	address := solana.NewWallet().PublicKey()
	require.NoError(t, create(l, payer, address))

	data := make([]byte, space)
	data[0] = 42

	err := l.Update(ctx, func(tx *ledger.Tx) error {
		return tx.WriteData(solana.TokenProgramID, address, data)
	})
	assert.ErrorIs(t, err, ledger.ErrIllegalOwner)

	err = l.Update(ctx, func(tx *ledger.Tx) error {
		return tx.WriteData(program, address, data[:space-1])
	})
	assert.ErrorIs(t, err, ledger.ErrInvalidAccountData)

	err = l.Update(ctx, func(tx *ledger.Tx) error {
		return tx.WriteData(program, address, data)
	})
	require.NoError(t, err)

	acc, err := l.GetAccount(ctx, address)
	require.NoError(t, err)
	assert.Equal(t, data, acc.Data)
}

func testProgramAccounts(t *testing.T, factory backendFactory) {
	l := getTestLedger(t, factory)
	ctx := context.Background()
	payer := fundedPayer(t, l, 10*ledger.MinimumBalance(space))
	address := solana.NewWallet().PublicKey()
	require.NoError(t, create(l, payer, address))

	owned, err := l.ProgramAccounts(ctx, program)
	require.NoError(t, err)
	require.Len(t, owned, 1)
	assert.Equal(t, address, owned[0].Address)

	system, err := l.ProgramAccounts(ctx, solana.SystemProgramID)
	require.NoError(t, err)
	require.Len(t, system, 1)
	assert.Equal(t, payer, system[0].Address)
}

func testRacingCreators(t *testing.T, factory backendFactory) {
	const creators = 8
	l := getTestLedger(t, factory)
	ctx := context.Background()
	payer := fundedPayer(t, l, creators*ledger.MinimumBalance(space))
	address := solana.NewWallet().PublicKey()

	var succeeded, inUse atomic.Int32
	var g errgroup.Group
	for i := 0; i < creators; i++ {
		g.Go(func() error {
			err := create(l, payer, address)
			switch {
			case err == nil:
				succeeded.Add(1)
			case errors.Is(err, ledger.ErrAlreadyInUse):
				inUse.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int32(1), succeeded.Load())
	assert.Equal(t, int32(creators-1), inUse.Load())

	from, err := l.GetAccount(ctx, payer)
	require.NoError(t, err)
	assert.Equal(t, (creators-1)*ledger.MinimumBalance(space), from.Lamports)
}

func testFundZero(t *testing.T, factory backendFactory) {
	l := getTestLedger(t, factory)
	err := l.Fund(context.Background(), solana.NewWallet().PublicKey(), 0)
	assert.ErrorIs(t, err, ledger.ErrInvalidFundingValue)
}

func testSelfFundedCreation(t *testing.T, factory backendFactory) {
	l := getTestLedger(t, factory)
	ctx := context.Background()
	funded := ledger.MinimumBalance(space)/2 + 1
	address := fundedPayer(t, l, funded)

	err := create(l, address, address)
	require.ErrorIs(t, err, ledger.ErrPayerIsNewAccount)

	acc, err := l.GetAccount(ctx, address)
	require.NoError(t, err)
	assert.Equal(t, funded, acc.Lamports)
	assert.Equal(t, solana.SystemProgramID, acc.Owner)
	assert.Empty(t, acc.Data)
}

func testPanickingUpdate(t *testing.T, factory backendFactory) {
	l := getTestLedger(t, factory)
	payer := fundedPayer(t, l, 10*ledger.MinimumBalance(space))

	assert.Panics(t, func() {
		_ = l.Update(context.Background(), func(tx *ledger.Tx) error {
			panic("boom")
		})
	})

	done := make(chan error, 1)
	go func() {
		done <- create(l, payer, solana.NewWallet().PublicKey())
	}()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("the backend is still locked by the panicking update")
	}
}

func TestMinimumBalance(t *testing.T) {
	// rent exempt minimums of the token program accounts
	assert.Equal(t, uint64(1461600), ledger.MinimumBalance(82))
	assert.Equal(t, uint64(2039280), ledger.MinimumBalance(165))
}
