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
	"crypto/sha256"

	"github.com/gagliardetto/solana-go"
)

// Kind is the constraint a supplied account must satisfy.
type Kind int

const (
	// KindSigner accounts must have signed the instruction.
	KindSigner Kind = iota + 1
	// KindProgram accounts must be a given program id.
	KindProgram
	// KindSysvar accounts must be a given sysvar id.
	KindSysvar
	// KindDerived accounts must be the program derived address of their
	// seeds.
	KindDerived
	// KindMint accounts must hold an initialized token mint.
	KindMint
)

func (k Kind) String() string {
	switch k {
	case KindSigner:
		return "signer"
	case KindProgram:
		return "program"
	case KindSysvar:
		return "sysvar"
	case KindDerived:
		return "derived"
	case KindMint:
		return "mint"
	default:
		return "unknown"
	}
}

// Role is a named account slot of an instruction.
type Role struct {
	Name string
	Kind Kind
	// Address is the expected id of program and sysvar roles.
	Address solana.PublicKey
	// Namespace is the first seed of a derived role. SeedFrom, if set,
	// names the role whose address is the second seed.
	Namespace string
	SeedFrom  string
	// Init roles are created by the instruction, their address must not
	// be allocated yet.
	Init bool
	// Writable roles must be passed as writable accounts.
	Writable bool
}

func Signer(name string) Role {
	return Role{Name: name, Kind: KindSigner}
}

func Program(name string, id solana.PublicKey) Role {
	return Role{Name: name, Kind: KindProgram, Address: id}
}

func Sysvar(name string, id solana.PublicKey) Role {
	return Role{Name: name, Kind: KindSysvar, Address: id}
}

func Derived(name, namespace string) Role {
	return Role{Name: name, Kind: KindDerived, Namespace: namespace}
}

// DerivedFrom is a derived role seeded with the address supplied for
// another role.
func DerivedFrom(name, namespace, seedFrom string) Role {
	return Role{Name: name, Kind: KindDerived, Namespace: namespace, SeedFrom: seedFrom}
}

func Mint(name string) Role {
	return Role{Name: name, Kind: KindMint}
}

// Mut marks the role writable.
func (r Role) Mut() Role {
	r.Writable = true
	return r
}

// Initialized marks the role as created by the instruction.
func (r Role) Initialized() Role {
	r.Init = true
	r.Writable = true
	return r
}

// DiscriminatorSize is the length of the tag prefixing program records.
const DiscriminatorSize = 8

// Discriminator is the tag identifying a record type.
func Discriminator(name string) [DiscriminatorSize]byte {
	var d [DiscriminatorSize]byte
	sum := sha256.Sum256([]byte("account:" + name))
	copy(d[:], sum[:DiscriminatorSize])
	return d
}
