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
	"context"
	"fmt"
	"io"

	"github.com/kazantseff/anchor-LimitlessFi/core/ledger"
	"github.com/kazantseff/anchor-LimitlessFi/core/tokens"
	"github.com/kazantseff/anchor-LimitlessFi/libs/num"

	"github.com/jessevdk/go-flags"
)

// wadDecimals is the precision of the fixed point values of the records.
const wadDecimals = 18

type ShowMarketCmd struct {
	HomeFlag

	out io.Writer
}

var showMarketCmd ShowMarketCmd

func (opts *ShowMarketCmd) Execute(_ []string) error {
	out := writerOrStdout(opts.out)
	n, err := loadNode(opts.Home, out)
	if err != nil {
		return err
	}
	defer n.Close()

	m, err := n.processor.Market(context.Background())
	if err != nil {
		return fmt.Errorf("couldn't load the market: %w", err)
	}
	state, err := n.deriver.MarketState()
	if err != nil {
		return err
	}

	field(out, "address", state.Address)
	field(out, "vault", m.Vault)
	field(out, "oracle", m.Oracle)
	field(out, "collateral token", m.CollateralToken)
	field(out, "base decimals", m.BaseDecimals)
	field(out, "max bps", grouped(m.MaxBps))
	field(out, "seconds in year", grouped(m.SecondsInYear))
	field(out, "liquidation fee", fmt.Sprintf("%d%%", m.LiquidationFeePct))
	field(out, "max leverage", fmt.Sprintf("%dx", m.MaxLeverage))
	field(out, "min position size", num.Unscale(m.MinPositionSize, wadDecimals))
	field(out, "open interest usd long", grouped(m.OpenInterestUSDLong))
	field(out, "open interest usd short", grouped(m.OpenInterestUSDShort))
	field(out, "open interest underlying long", grouped(m.OpenInterestUnderlyingLong))
	field(out, "open interest underlying short", grouped(m.OpenInterestUnderlyingShort))
	field(out, "bump", m.Bump)
	return nil
}

func ShowMarket(ctx context.Context, parser *flags.Parser) error {
	showMarketCmd = ShowMarketCmd{
		HomeFlag: NewHomeFlag(),
	}

	_, err := parser.AddCommand("show-market", "Show the market", "Print the market record", &showMarketCmd)
	return err
}

type ShowVaultCmd struct {
	HomeFlag

	out io.Writer
}

var showVaultCmd ShowVaultCmd

func (opts *ShowVaultCmd) Execute(_ []string) error {
	out := writerOrStdout(opts.out)
	n, err := loadNode(opts.Home, out)
	if err != nil {
		return err
	}
	defer n.Close()

	ctx := context.Background()
	v, err := n.processor.Vault(ctx)
	if err != nil {
		return fmt.Errorf("couldn't load the vault: %w", err)
	}
	state, err := n.deriver.VaultState()
	if err != nil {
		return err
	}
	var share *tokens.Mint
	err = n.ledger.View(ctx, func(view ledger.View) error {
		share, err = tokens.GetMint(view, v.ShareMint)
		return err
	})
	if err != nil {
		return fmt.Errorf("couldn't load the share mint: %w", err)
	}
	decimals := int32(share.Decimals)

	field(out, "address", state.Address)
	field(out, "share mint", v.ShareMint)
	field(out, "share decimals", share.Decimals)
	field(out, "pda bump", v.PdaBump)
	field(out, "market", v.Market)
	field(out, "scale factor", num.UnscaleUint64(v.ScaleFactor, wadDecimals))
	field(out, "max utilisation", fmt.Sprintf("%d%%", v.MaxUtilPercentage))
	field(out, "total underlying deposited", num.UnscaleUint64(v.TotalUnderlyingDeposited, decimals))
	field(out, "total shares", num.UnscaleUint64(v.TotalShares, decimals))
	return nil
}

func ShowVault(ctx context.Context, parser *flags.Parser) error {
	showVaultCmd = ShowVaultCmd{
		HomeFlag: NewHomeFlag(),
	}

	_, err := parser.AddCommand("show-vault", "Show the vault", "Print the vault record and its share mint", &showVaultCmd)
	return err
}

func field(out io.Writer, name string, value interface{}) {
	boldColor.Fprintf(out, "%-32s", name)
	fmt.Fprintln(out, value)
}
