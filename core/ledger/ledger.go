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
	"bytes"
	"context"
	"sort"

	"github.com/kazantseff/anchor-LimitlessFi/logging"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
)

var (
	// ErrAlreadyInUse is returned when creating an account at an address
	// that is already allocated.
	ErrAlreadyInUse = errors.New("account already in use")
	// ErrInsufficientFunds is returned when the payer cannot cover the
	// rent exempt balance of a new account.
	ErrInsufficientFunds = errors.New("insufficient funds for rent")
	ErrAccountNotFound   = errors.New("account not found")
	// ErrIllegalOwner is returned when a program writes to an account it
	// does not own.
	ErrIllegalOwner        = errors.New("account is not owned by the writing program")
	ErrInvalidAccountData  = errors.New("invalid account data length")
	ErrInvalidFundingValue = errors.New("funding amount must be positive")
	// ErrPayerIsNewAccount is returned when an account is asked to pay for
	// its own creation.
	ErrPayerIsNewAccount = errors.New("payer cannot be the created account")
)

var accountPrefix = []byte("acc/")

func accountKey(address solana.PublicKey) []byte {
	key := make([]byte, 0, len(accountPrefix)+solana.PublicKeyLength)
	key = append(key, accountPrefix...)
	return append(key, address.Bytes()...)
}

// View is a read only access to the ledger accounts.
type View interface {
	GetAccount(address solana.PublicKey) (*Account, error)
}

// Ledger stores accounts on a transactional backend.
type Ledger struct {
	log     *logging.Logger
	backend Backend
}

func New(log *logging.Logger, cfg Config, backend Backend) *Ledger {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())

	return &Ledger{
		log:     log,
		backend: backend,
	}
}

// View runs fn against a consistent snapshot of the ledger.
func (l *Ledger) View(ctx context.Context, fn func(v View) error) error {
	return l.backend.View(ctx, func(r Reader) error {
		return fn(&readView{r: r})
	})
}

// Update runs fn in a transaction. Every change staged through the Tx is
// committed if fn returns nil, none is otherwise.
func (l *Ledger) Update(ctx context.Context, fn func(tx *Tx) error) error {
	return l.backend.Update(ctx, func(rw ReadWriter) error {
		tx := newTx(rw)
		if err := fn(tx); err != nil {
			return err
		}
		return tx.flush()
	})
}

// GetAccount reads a single account.
func (l *Ledger) GetAccount(ctx context.Context, address solana.PublicKey) (*Account, error) {
	var acc *Account
	err := l.View(ctx, func(v View) error {
		var err error
		acc, err = v.GetAccount(address)
		return err
	})
	return acc, err
}

// Fund credits lamports to an address, creating a system account if
// needed.
func (l *Ledger) Fund(ctx context.Context, address solana.PublicKey, lamports uint64) error {
	if lamports == 0 {
		return ErrInvalidFundingValue
	}
	err := l.Update(ctx, func(tx *Tx) error {
		acc, err := tx.GetAccount(address)
		if errors.Is(err, ErrAccountNotFound) {
			acc = &Account{Owner: solana.SystemProgramID}
		} else if err != nil {
			return err
		}
		acc.Lamports += lamports
		tx.put(address, acc)
		return nil
	})
	if err != nil {
		return err
	}
	l.log.Debug("account funded",
		logging.Address("address", address),
		logging.Uint64("lamports", lamports),
	)
	return nil
}

// ProgramAccounts lists the accounts owned by a program, in address order.
func (l *Ledger) ProgramAccounts(ctx context.Context, owner solana.PublicKey) ([]KeyedAccount, error) {
	out := []KeyedAccount{}
	err := l.backend.View(ctx, func(r Reader) error {
		return r.Iterate(accountPrefix, func(key, value []byte) error {
			acc, err := decodeAccount(value)
			if err != nil {
				return err
			}
			if !acc.Owner.Equals(owner) {
				return nil
			}
			out = append(out, KeyedAccount{
				Address: solana.PublicKeyFromBytes(key[len(accountPrefix):]),
				Account: acc,
			})
			return nil
		})
	})
	return out, err
}

func (l *Ledger) Close() error {
	return l.backend.Close()
}

type readView struct {
	r Reader
}

func (v *readView) GetAccount(address solana.PublicKey) (*Account, error) {
	return getAccount(v.r, address)
}

func getAccount(r Reader, address solana.PublicKey) (*Account, error) {
	value, found, err := r.Get(accountKey(address))
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.Wrap(ErrAccountNotFound, address.String())
	}
	return decodeAccount(value)
}

// Tx stages account changes until the enclosing Update commits.
type Tx struct {
	rw    ReadWriter
	dirty map[solana.PublicKey]*Account
}

func newTx(rw ReadWriter) *Tx {
	return &Tx{
		rw:    rw,
		dirty: map[solana.PublicKey]*Account{},
	}
}

// GetAccount returns a copy of the account, including the changes
// staged in this transaction.
func (t *Tx) GetAccount(address solana.PublicKey) (*Account, error) {
	if acc, ok := t.dirty[address]; ok {
		return acc.Clone(), nil
	}
	return getAccount(t.rw, address)
}

// CreateAccount allocates space bytes at address, assigns it to owner and
// funds it to the rent exempt minimum from payer. It fails with
// ErrAlreadyInUse if the address is already allocated.
func (t *Tx) CreateAccount(payer, address solana.PublicKey, space uint64, owner solana.PublicKey) error {
	if payer.Equals(address) {
		return errors.Wrapf(ErrPayerIsNewAccount, "address %s", address)
	}

	target, err := t.GetAccount(address)
	switch {
	case errors.Is(err, ErrAccountNotFound):
		target = &Account{Owner: solana.SystemProgramID}
	case err != nil:
		return err
	case target.IsAllocated():
		return errors.Wrapf(ErrAlreadyInUse, "address %s", address)
	}

	rent := MinimumBalance(space)
	var due uint64
	if target.Lamports < rent {
		due = rent - target.Lamports
	}

	if due > 0 {
		from, err := t.GetAccount(payer)
		if errors.Is(err, ErrAccountNotFound) {
			return errors.Wrapf(ErrInsufficientFunds, "payer %s has no account", payer)
		} else if err != nil {
			return err
		}
		if from.IsAllocated() {
			return errors.Wrapf(ErrIllegalOwner, "payer %s is not a system account", payer)
		}
		if from.Lamports < due {
			return errors.Wrapf(ErrInsufficientFunds, "payer %s holds %d, needs %d", payer, from.Lamports, due)
		}
		from.Lamports -= due
		t.put(payer, from)
	}

	target.Lamports += due
	target.Owner = owner
	target.Data = make([]byte, space)
	t.put(address, target)
	return nil
}

// WriteData replaces the data of an account owned by program. The data
// must fill the allocated space exactly.
func (t *Tx) WriteData(program, address solana.PublicKey, data []byte) error {
	acc, err := t.GetAccount(address)
	if err != nil {
		return err
	}
	if !acc.Owner.Equals(program) {
		return errors.Wrapf(ErrIllegalOwner, "account %s is owned by %s", address, acc.Owner)
	}
	if len(data) != len(acc.Data) {
		return errors.Wrapf(ErrInvalidAccountData, "got %d bytes, allocated %d", len(data), len(acc.Data))
	}
	acc.Data = append(acc.Data[:0], data...)
	t.put(address, acc)
	return nil
}

func (t *Tx) put(address solana.PublicKey, acc *Account) {
	t.dirty[address] = acc
}

// flush writes the staged accounts in address order, so every backend
// sees the same sequence of writes.
func (t *Tx) flush() error {
	addresses := make([]solana.PublicKey, 0, len(t.dirty))
	for address := range t.dirty {
		addresses = append(addresses, address)
	}
	sort.Slice(addresses, func(i, j int) bool {
		return bytes.Compare(addresses[i][:], addresses[j][:]) < 0
	})
	for _, address := range addresses {
		value, err := encodeAccount(t.dirty[address])
		if err != nil {
			return err
		}
		if err := t.rw.Set(accountKey(address), value); err != nil {
			return err
		}
	}
	return nil
}
