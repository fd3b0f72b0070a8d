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

package processor

import (
	"context"
	"fmt"
	"time"

	"github.com/kazantseff/anchor-LimitlessFi/core/accounts"
	"github.com/kazantseff/anchor-LimitlessFi/core/broker"
	"github.com/kazantseff/anchor-LimitlessFi/core/events"
	"github.com/kazantseff/anchor-LimitlessFi/core/ledger"
	"github.com/kazantseff/anchor-LimitlessFi/core/market"
	"github.com/kazantseff/anchor-LimitlessFi/core/metrics"
	"github.com/kazantseff/anchor-LimitlessFi/core/pda"
	"github.com/kazantseff/anchor-LimitlessFi/core/tokens"
	"github.com/kazantseff/anchor-LimitlessFi/core/vault"
	vgcontext "github.com/kazantseff/anchor-LimitlessFi/libs/context"
	"github.com/kazantseff/anchor-LimitlessFi/logging"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var (
	ErrUnknownInstruction = errors.New("unknown instruction")
	ErrInvalidArguments   = errors.New("invalid instruction arguments")
)

type handler struct {
	roles func() []accounts.Role
	run   func(ctx context.Context, tx *ledger.Tx, res *accounts.Resolved, args interface{}) (events.Event, error)
}

// Processor executes the instructions of the program against the ledger.
type Processor struct {
	log       *logging.Logger
	ledger    *ledger.Ledger
	deriver   *pda.Deriver
	validator *accounts.Validator
	broker    broker.BrokerI
	metrics   *metrics.Metrics
	handlers  map[string]handler
}

func New(
	log *logging.Logger,
	cfg Config,
	l *ledger.Ledger,
	deriver *pda.Deriver,
	broker broker.BrokerI,
	metrics *metrics.Metrics,
) *Processor {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())

	p := &Processor{
		log:       log,
		ledger:    l,
		deriver:   deriver,
		validator: accounts.NewValidator(deriver),
		broker:    broker,
		metrics:   metrics,
	}
	p.handlers = map[string]handler{
		InitializeMarket: {roles: market.Roles, run: p.initializeMarket},
		InitializeVault:  {roles: vault.Roles, run: p.initializeVault},
	}
	return p
}

func (p *Processor) ProgramID() solana.PublicKey {
	return p.deriver.ProgramID()
}

// Process validates the accounts of the instruction then runs it in a
// single ledger transaction. On error, nothing is written.
func (p *Processor) Process(ctx context.Context, ins Instruction) error {
	start := time.Now()
	txID := uuid.NewString()
	ctx = vgcontext.WithTxID(ctx, txID)
	log := p.log.With(logging.TxID(txID), logging.Instruction(ins.Name))

	h, ok := p.handlers[ins.Name]
	if !ok {
		err := errors.Wrap(ErrUnknownInstruction, ins.Name)
		p.reject(ctx, log, ins.Name, err, start)
		return err
	}

	var evt events.Event
	err := p.ledger.Update(ctx, func(tx *ledger.Tx) error {
		res, err := p.validator.Validate(tx, h.roles(), ins.Accounts, ins.Signers, ins.Writable)
		if err != nil {
			return err
		}
		evt, err = h.run(ctx, tx, res, ins.Args)
		return err
	})
	if err != nil {
		p.reject(ctx, log, ins.Name, err, start)
		return err
	}

	p.metrics.ObserveInstruction(ins.Name, metrics.ResultOK, time.Since(start))
	p.broker.Send(evt)
	log.Info("instruction processed")
	return nil
}

func (p *Processor) reject(ctx context.Context, log *logging.Logger, name string, err error, start time.Time) {
	p.metrics.ObserveInstruction(name, result(err), time.Since(start))
	p.broker.Send(events.NewTxErrEvent(ctx, err, name))
	log.Warn("instruction rejected", logging.Error(err))
}

func result(err error) string {
	switch {
	case err == nil:
		return metrics.ResultOK
	case errors.Is(err, ledger.ErrAlreadyInUse):
		return metrics.ResultAlreadyInUse
	case errors.Is(err, accounts.ErrConstraintViolation):
		return metrics.ResultConstraintViolation
	case errors.Is(err, tokens.ErrInvalidMintState):
		return metrics.ResultInvalidMint
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return metrics.ResultInsufficientFunds
	default:
		return metrics.ResultError
	}
}

func (p *Processor) initializeMarket(ctx context.Context, tx *ledger.Tx, res *accounts.Resolved, args interface{}) (events.Event, error) {
	a, ok := args.(InitializeMarketArgs)
	if !ok {
		return nil, fmt.Errorf("%w: expected market arguments, got %T", ErrInvalidArguments, args)
	}
	m, err := market.Initialize(tx, res, a.Vault, a.Oracle, a.CollateralToken)
	if err != nil {
		return nil, err
	}
	address := res.Key(market.RoleMarketState)
	p.log.Debug("market initialised",
		logging.Address("market", address),
		logging.Address("vault", a.Vault),
		logging.Address("oracle", a.Oracle),
		logging.Address("collateral-token", a.CollateralToken),
		logging.Uint8("bump", m.Bump),
	)
	return events.NewMarketInitialised(ctx, address, m), nil
}

func (p *Processor) initializeVault(ctx context.Context, tx *ledger.Tx, res *accounts.Resolved, args interface{}) (events.Event, error) {
	a, ok := args.(InitializeVaultArgs)
	if !ok {
		return nil, fmt.Errorf("%w: expected vault arguments, got %T", ErrInvalidArguments, args)
	}
	v, err := vault.Initialize(tx, res, a.Market, a.MaxUtilPercentage)
	if err != nil {
		return nil, err
	}
	address := res.Key(vault.RoleVaultState)
	p.log.Debug("vault initialised",
		logging.Address("vault", address),
		logging.Address("share-mint", v.ShareMint),
		logging.Address("underlying", res.Key(vault.RoleUnderlyingMint)),
		logging.Uint64("max-util-percentage", v.MaxUtilPercentage),
	)
	return events.NewVaultInitialised(ctx, address, v), nil
}

// Market reads the market record.
func (p *Processor) Market(ctx context.Context) (*market.Market, error) {
	state, err := p.deriver.MarketState()
	if err != nil {
		return nil, err
	}
	var m *market.Market
	err = p.ledger.View(ctx, func(v ledger.View) error {
		m, err = market.Load(v, p.ProgramID(), state.Address)
		return err
	})
	return m, err
}

// Vault reads the vault record.
func (p *Processor) Vault(ctx context.Context) (*vault.Vault, error) {
	state, err := p.deriver.VaultState()
	if err != nil {
		return nil, err
	}
	var v *vault.Vault
	err = p.ledger.View(ctx, func(view ledger.View) error {
		v, err = vault.Load(view, p.ProgramID(), state.Address)
		return err
	})
	return v, err
}
