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

import "fmt"

// SourceExtractionError is returned when a tool's source text cannot be recovered.
type SourceExtractionError struct {
	Tool string
	Err  error
}

func (e *SourceExtractionError) Error() string {
	return fmt.Sprintf("cannot extract source for function %s: %v", e.Tool, e.Err)
}

func (e *SourceExtractionError) Unwrap() error {
	return e.Err
}

// UnsafeToolError is returned when tool source contains a denylisted construct.
type UnsafeToolError struct {
	Tool      string
	Construct string
	Kind      string
}

func (e *UnsafeToolError) Error() string {
	return fmt.Sprintf("function %s contains forbidden operation: %s (%s)", e.Tool, e.Construct, e.Kind)
}

// InvalidSourceError is returned when tool source does not parse as Go.
type InvalidSourceError struct {
	Tool string
	Err  error
}

func (e *InvalidSourceError) Error() string {
	return fmt.Sprintf("invalid Go syntax in %s: %v", e.Tool, e.Err)
}

func (e *InvalidSourceError) Unwrap() error {
	return e.Err
}

// MetadataExtractionError is returned when a tool's parameter list cannot be introspected.
type MetadataExtractionError struct {
	Tool string
	Err  error
}

func (e *MetadataExtractionError) Error() string {
	return fmt.Sprintf("cannot extract metadata for function %s: %v", e.Tool, e.Err)
}

func (e *MetadataExtractionError) Unwrap() error {
	return e.Err
}
