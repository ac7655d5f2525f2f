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

package tool

import (
	"errors"
	"fmt"
)

// ExtractSource returns the literal source of the tool function starting at
// its func line. Doc comments and //flowstack: directives are stripped.
func ExtractSource(t *Tool) (string, error) {
	if t == nil {
		return "", &SourceExtractionError{Tool: "<nil>", Err: errors.New("no tool")}
	}
	if !t.HasSource() {
		return "", &SourceExtractionError{Tool: t.Name, Err: errors.New("no backing source text")}
	}

	// Decl.Pos is the func keyword, so attached comments, including block
	// comments holding func lines, are never part of the slice.
	start, end := t.Decl.Pos(), t.Decl.End()

	file := t.fset.File(start)
	if file == nil || !start.IsValid() || !end.IsValid() {
		return "", &SourceExtractionError{Tool: t.Name, Err: errors.New("declaration has no position information")}
	}

	startOff, endOff := file.Offset(start), file.Offset(end)
	if startOff < 0 || endOff > len(t.src) || startOff >= endOff {
		return "", &SourceExtractionError{
			Tool: t.Name,
			Err:  fmt.Errorf("declaration range %d:%d outside source of %d bytes", startOff, endOff, len(t.src)),
		}
	}

	return string(t.src[startOff:endOff]), nil
}
