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

package pda

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/kazantseff/anchor-LimitlessFi/logging"

	"github.com/gagliardetto/solana-go"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Namespaces of the program derived addresses.
const (
	MarketStateSeed     = "market_state"
	VaultStateSeed      = "vault_state"
	OwnerCapabilitySeed = "token_account_owner_pda"
	ShareMintSeed       = "share_mint"
	CustodySeed         = "token_vault"
)

const (
	MaxSeeds      = 16
	MaxSeedLength = 32
)

var (
	ErrEmptyNamespace = errors.New("namespace cannot be empty")
	ErrTooManySeeds   = errors.New("too many seeds")
	ErrSeedTooLong    = errors.New("seed is too long")
)

// Derived is an address computed from seeds, with the bump that moved
// it off the ed25519 curve.
type Derived struct {
	Address solana.PublicKey
	Bump    uint8
}

// Deriver computes the program derived addresses of a single program.
type Deriver struct {
	log       *logging.Logger
	cfg       Config
	programID solana.PublicKey
	cache     *lru.Cache[string, Derived]
}

func New(log *logging.Logger, cfg Config, programID solana.PublicKey) (*Deriver, error) {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())

	size := cfg.CacheSize
	if size <= 0 {
		size = 1
	}
	cache, err := lru.New[string, Derived](size)
	if err != nil {
		return nil, fmt.Errorf("could not create the derivation cache: %w", err)
	}

	return &Deriver{
		log:       log,
		cfg:       cfg,
		programID: programID,
		cache:     cache,
	}, nil
}

func (d *Deriver) ProgramID() solana.PublicKey {
	return d.programID
}

// Derive returns the address derived from the namespace and the extra seeds,
// along with its bump. The result only depends on the seeds and the program id.
func (d *Deriver) Derive(namespace string, extra ...[]byte) (solana.PublicKey, uint8, error) {
	seeds, err := buildSeeds(namespace, extra)
	if err != nil {
		return solana.PublicKey{}, 0, err
	}

	key := cacheKey(seeds)
	if cached, ok := d.cache.Get(key); ok {
		return cached.Address, cached.Bump, nil
	}

	address, bump, err := solana.FindProgramAddress(seeds, d.programID)
	if err != nil {
		return solana.PublicKey{}, 0, fmt.Errorf("could not derive address for %q: %w", namespace, err)
	}
	d.cache.Add(key, Derived{Address: address, Bump: bump})

	if d.log.GetLevel() == logging.DebugLevel {
		d.log.Debug("derived program address",
			logging.String("namespace", namespace),
			logging.Address("address", address),
			logging.Uint8("bump", bump),
		)
	}
	return address, bump, nil
}

// Verify checks that address is the one derived from the seeds with the
// given bump.
func (d *Deriver) Verify(address solana.PublicKey, namespace string, bump uint8, extra ...[]byte) bool {
	seeds, err := buildSeeds(namespace, extra)
	if err != nil {
		return false
	}
	expected, err := solana.CreateProgramAddress(append(seeds, []byte{bump}), d.programID)
	if err != nil {
		return false
	}
	return expected.Equals(address)
}

func (d *Deriver) MarketState() (Derived, error) {
	return d.derived(MarketStateSeed)
}

func (d *Deriver) VaultState() (Derived, error) {
	return d.derived(VaultStateSeed)
}

// OwnerCapability is the address holding the mint authority of the share
// mint and the ownership of the custody account.
func (d *Deriver) OwnerCapability() (Derived, error) {
	return d.derived(OwnerCapabilitySeed)
}

func (d *Deriver) ShareMint() (Derived, error) {
	return d.derived(ShareMintSeed)
}

// CustodyAccount is the token account holding the underlying asset.
func (d *Deriver) CustodyAccount(underlying solana.PublicKey) (Derived, error) {
	return d.derived(CustodySeed, underlying.Bytes())
}

func (d *Deriver) derived(namespace string, extra ...[]byte) (Derived, error) {
	address, bump, err := d.Derive(namespace, extra...)
	if err != nil {
		return Derived{}, err
	}
	return Derived{Address: address, Bump: bump}, nil
}

func buildSeeds(namespace string, extra [][]byte) ([][]byte, error) {
	if namespace == "" {
		return nil, ErrEmptyNamespace
	}
	// one seed is reserved for the bump
	if len(extra)+1 >= MaxSeeds {
		return nil, ErrTooManySeeds
	}
	seeds := make([][]byte, 0, len(extra)+1)
	seeds = append(seeds, []byte(namespace))
	seeds = append(seeds, extra...)
	for _, s := range seeds {
		if len(s) > MaxSeedLength {
			return nil, fmt.Errorf("%w: %d bytes", ErrSeedTooLong, len(s))
		}
	}
	return seeds, nil
}

func cacheKey(seeds [][]byte) string {
	buf := make([]byte, 0, 64)
	for _, s := range seeds {
		buf = binary.AppendUvarint(buf, uint64(len(s)))
		buf = append(buf, s...)
	}
	return string(buf)
}
