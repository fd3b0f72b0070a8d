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

package accounts

import (
	"fmt"
	"sort"

	"github.com/kazantseff/anchor-LimitlessFi/core/ledger"
	"github.com/kazantseff/anchor-LimitlessFi/core/pda"
	"github.com/kazantseff/anchor-LimitlessFi/core/tokens"
	vgerrors "github.com/kazantseff/anchor-LimitlessFi/libs/errors"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
)

// ErrConstraintViolation is returned when a supplied account set does not
// match the roles of an instruction.
var ErrConstraintViolation = errors.New("account constraint violated")

func violation(role, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s: %s", ErrConstraintViolation, role, fmt.Sprintf(format, args...))
}

// Resolved is a validated account set.
type Resolved struct {
	ProgramID solana.PublicKey
	keys      map[string]solana.PublicKey
	bumps     map[string]uint8
}

// Key returns the address supplied for a role.
func (r *Resolved) Key(role string) solana.PublicKey {
	return r.keys[role]
}

// Bump returns the bump of a derived role.
func (r *Resolved) Bump(role string) uint8 {
	return r.bumps[role]
}

// Validator checks account sets against instruction roles.
type Validator struct {
	deriver *pda.Deriver
}

func NewValidator(deriver *pda.Deriver) *Validator {
	return &Validator{deriver: deriver}
}

// Validate checks the supplied accounts against roles. The set of names
// must match exactly, then every role is checked in declaration order and
// the first failure is returned. Nothing is written to the view.
func (v *Validator) Validate(
	view ledger.View,
	roles []Role,
	supplied map[string]solana.PublicKey,
	signers, writable []solana.PublicKey,
) (*Resolved, error) {
	if err := checkSet(roles, supplied); err != nil {
		return nil, err
	}

	in := input{
		supplied: supplied,
		signed:   keySet(signers),
		writable: keySet(writable),
	}
	res := &Resolved{
		ProgramID: v.deriver.ProgramID(),
		keys:      make(map[string]solana.PublicKey, len(roles)),
		bumps:     map[string]uint8{},
	}
	for _, role := range roles {
		address := supplied[role.Name]
		if err := v.checkRole(view, role, address, in, res); err != nil {
			return nil, err
		}
		res.keys[role.Name] = address
	}
	return res, nil
}

type input struct {
	supplied map[string]solana.PublicKey
	signed   map[solana.PublicKey]struct{}
	writable map[solana.PublicKey]struct{}
}

func keySet(keys []solana.PublicKey) map[solana.PublicKey]struct{} {
	set := make(map[solana.PublicKey]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return set
}

func (v *Validator) checkRole(view ledger.View, role Role, address solana.PublicKey, in input, res *Resolved) error {
	switch role.Kind {
	case KindSigner:
		// program derived addresses have no private key
		if !address.IsOnCurve() {
			return violation(role.Name, "%s is a derived address and cannot sign", address)
		}
		if _, ok := in.signed[address]; !ok {
			return violation(role.Name, "%s did not sign", address)
		}
	case KindProgram, KindSysvar:
		if !address.Equals(role.Address) {
			return violation(role.Name, "expected %s %s, got %s", role.Kind, role.Address, address)
		}
	case KindDerived:
		var extra [][]byte
		if role.SeedFrom != "" {
			extra = append(extra, in.supplied[role.SeedFrom].Bytes())
		}
		expected, bump, err := v.deriver.Derive(role.Namespace, extra...)
		if err != nil {
			return violation(role.Name, "%v", err)
		}
		if !address.Equals(expected) {
			return violation(role.Name, "seeds constraint, expected %s, got %s", expected, address)
		}
		res.bumps[role.Name] = bump
	case KindMint:
		if _, err := tokens.GetMint(view, address); err != nil {
			return errors.Wrap(err, role.Name)
		}
	default:
		return violation(role.Name, "unknown kind %d", role.Kind)
	}

	if _, ok := in.writable[address]; role.Writable && !ok {
		return violation(role.Name, "%s is not writable", address)
	}
	if role.Init {
		return checkUnallocated(view, role, address)
	}
	return nil
}

func checkUnallocated(view ledger.View, role Role, address solana.PublicKey) error {
	acc, err := view.GetAccount(address)
	if errors.Is(err, ledger.ErrAccountNotFound) {
		return nil
	} else if err != nil {
		return err
	}
	if acc.IsAllocated() {
		return errors.Wrapf(ledger.ErrAlreadyInUse, "%s: address %s", role.Name, address)
	}
	return nil
}

func checkSet(roles []Role, supplied map[string]solana.PublicKey) error {
	errs := vgerrors.NewCumulatedErrors()
	known := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		known[role.Name] = struct{}{}
		if _, ok := supplied[role.Name]; !ok {
			errs.Add(violation(role.Name, "missing account"))
		}
	}

	extra := []string{}
	for name := range supplied {
		if _, ok := known[name]; !ok {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	for _, name := range extra {
		errs.Add(violation(name, "unexpected account"))
	}

	if errs.HasAny() {
		return errs
	}
	return nil
}
