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
	"io"

	"github.com/kazantseff/anchor-LimitlessFi/core/events"

	"github.com/fatih/color"
)

var (
	okColor   = color.New(color.FgGreen)
	errColor  = color.New(color.FgRed)
	keyColor  = color.New(color.FgCyan)
	boldColor = color.New(color.Bold)
)

// eventPrinter reports the outcome of the processed instructions.
type eventPrinter struct {
	out io.Writer
}

func newEventPrinter(out io.Writer) *eventPrinter {
	return &eventPrinter{out: out}
}

func (p *eventPrinter) Types() []events.Type {
	return []events.Type{events.All}
}

func (p *eventPrinter) Push(evts ...events.Event) {
	for _, e := range evts {
		switch evt := e.(type) {
		case *events.MarketInitialised:
			okColor.Fprint(p.out, "market initialised ")
			keyColor.Fprintln(p.out, evt.Address())
		case *events.VaultInitialised:
			okColor.Fprint(p.out, "vault initialised ")
			keyColor.Fprintln(p.out, evt.Address())
		case *events.TxErr:
			errColor.Fprintf(p.out, "%s rejected: %v\n", evt.Instruction(), evt.Err())
		}
	}
}
