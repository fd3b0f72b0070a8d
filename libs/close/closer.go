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

package close

import (
	"fmt"

	vgerrors "github.com/kazantseff/anchor-LimitlessFi/libs/errors"
)

type closeFn struct {
	name string
	fn   func() error
}

// Closer releases resources in the reverse order they were acquired.
type Closer struct {
	fns []closeFn
}

func NewCloser() *Closer {
	return &Closer{}
}

// Add registers a resource to release during CloseAll.
func (c *Closer) Add(name string, fn func() error) {
	c.fns = append(c.fns, closeFn{name: name, fn: fn})
}

// CloseAll releases every resource, last added first, and reports all
// the failures at once. The closer is empty afterwards.
func (c *Closer) CloseAll() error {
	errs := vgerrors.NewCumulatedErrors()
	for i := len(c.fns) - 1; i >= 0; i-- {
		if err := c.fns[i].fn(); err != nil {
			errs.Add(fmt.Errorf("couldn't close %s: %w", c.fns[i].name, err))
		}
	}
	c.fns = nil

	if errs.HasAny() {
		return errs
	}
	return nil
}
