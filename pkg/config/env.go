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

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// envFiles are loaded in order; earlier files take precedence because
// godotenv never overrides a variable that is already set.
var envFiles = []string{".env.local", ".env"}

// LoadEnvFiles loads .env.local and .env from each directory in order.
// Missing files are ignored. Variables already present in the process
// environment are never overridden.
func LoadEnvFiles(dirs ...string) error {
	if len(dirs) == 0 {
		dirs = []string{"."}
	}

	seen := make(map[string]bool)
	for _, dir := range dirs {
		for _, name := range envFiles {
			path := filepath.Join(dir, name)
			if abs, err := filepath.Abs(path); err == nil {
				if seen[abs] {
					continue
				}
				seen[abs] = true
			}

			if err := godotenv.Load(path); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("failed to load %s: %w", path, err)
			}
		}
	}

	return nil
}
