// Copyright 2025 The FlowStack Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureStateDir(t *testing.T) {
	base := t.TempDir()

	dir, err := EnsureStateDir(base)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, StateDirName), dir)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// idempotent
	_, err = EnsureStateDir(base)
	assert.NoError(t, err)
}

func TestEnsureStateDir_BlockedByFile(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(base, StateDirName), []byte("x"), 0o644))

	_, err := EnsureStateDir(base)
	assert.Error(t, err)
}

func TestWriteFileAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "build.json")

	require.NoError(t, WriteFileAtomic(path, []byte("first"), 0o644))
	require.NoError(t, WriteFileAtomic(path, []byte("second"), 0o644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}
