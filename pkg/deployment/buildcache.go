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

package deployment

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/flowstack/flowstack-go/pkg/utils"
)

// BuildFileName is the cached payload inside the project state directory.
const BuildFileName = "build.json"

// BuildPath returns where WriteBuild stores the payload for projectDir.
func BuildPath(projectDir string) string {
	return filepath.Join(projectDir, utils.StateDirName, BuildFileName)
}

// WriteBuild stores the payload at .flowstack/build.json under projectDir
// and returns the file path.
func WriteBuild(projectDir string, p *Payload) (string, error) {
	data, err := p.JSON()
	if err != nil {
		return "", err
	}

	dir, err := utils.EnsureStateDir(projectDir)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, BuildFileName)
	if err := WritePayloadFile(path, data); err != nil {
		return "", err
	}
	return path, nil
}

// WritePayloadFile writes encoded payload data to path.
func WritePayloadFile(path string, data []byte) error {
	if err := utils.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write build output: %w", err)
	}
	return nil
}

// ReadBuild loads a payload file and validates it.
func ReadBuild(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := ValidateJSON(data); err != nil {
		return nil, err
	}
	return data, nil
}
