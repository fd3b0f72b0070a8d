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

package close_test

import (
	"errors"
	"testing"

	vgclose "github.com/kazantseff/anchor-LimitlessFi/libs/close"

	"github.com/stretchr/testify/assert"
)

func TestCloser(t *testing.T) {
	t.Run("Resources are released in reverse order", testReverseOrder)
	t.Run("Every failure is reported", testFailures)
}

func testReverseOrder(t *testing.T) {
	c := vgclose.NewCloser()
	order := []string{}
	for _, name := range []string{"logger", "ledger", "metrics"} {
		name := name
		c.Add(name, func() error {
			order = append(order, name)
			return nil
		})
	}

	assert.NoError(t, c.CloseAll())
	assert.Equal(t, []string{"metrics", "ledger", "logger"}, order)

	// closing again is a no-op
	assert.NoError(t, c.CloseAll())
	assert.Len(t, order, 3)
}

func testFailures(t *testing.T) {
	c := vgclose.NewCloser()
	boom := errors.New("boom")
	c.Add("ledger", func() error { return boom })
	c.Add("metrics", func() error { return errors.New("disk full") })

	err := c.CloseAll()
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "couldn't close ledger")
	assert.Contains(t, err.Error(), "couldn't close metrics")
}
