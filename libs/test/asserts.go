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

package test

import (
	"io/fs"
	"os"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertPrivateDir checks path is a directory only its owner can access.
func AssertPrivateDir(t *testing.T, path string) {
	t.Helper()
	assertPerm(t, path, true, 0o700)
}

// AssertPrivateFile checks path is a file only its owner can read and
// write.
func AssertPrivateFile(t *testing.T, path string) {
	t.Helper()
	assertPerm(t, path, false, 0o600)
}

func assertPerm(t *testing.T, path string, dir bool, perm fs.FileMode) {
	t.Helper()
	stats, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, dir, stats.IsDir(), path)
	// permission bits are not enforced on windows
	if runtime.GOOS == "windows" {
		return
	}
	assert.Equal(t, perm, stats.Mode().Perm(), path)
}
