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
	"fmt"
	"os"
	"path/filepath"
)

// StateDirName is the per-project directory for generated artifacts.
const StateDirName = ".flowstack"

// EnsureStateDir ensures the .flowstack directory exists at the given base path.
// If basePath is empty or ".", it creates ./.flowstack in the current directory.
// Otherwise, it creates {basePath}/.flowstack.
//
// Used for the build cache: {project}/.flowstack/build.json
//
// Returns the full path to the .flowstack directory and any error.
func EnsureStateDir(basePath string) (string, error) {
	var stateDir string
	if basePath == "" || basePath == "." {
		stateDir = StateDirName
	} else {
		stateDir = filepath.Join(basePath, StateDirName)
	}

	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create %s directory at '%s': %w", StateDirName, stateDir, err)
	}

	return stateDir, nil
}

// WriteFileAtomic writes data to a temporary file beside path and renames
// it into place, so readers never observe a partial file.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to set permissions on %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
