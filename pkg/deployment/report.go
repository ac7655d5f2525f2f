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
	"errors"
	"fmt"
	"log/slog"

	"github.com/flowstack/flowstack-go/pkg/tool"
)

// Stage is a step of compilation. Stages only move forward.
type Stage int

const (
	StageStarted Stage = iota
	StageConfigLoaded
	StageToolsDiscovered
	StageToolsFiltered
	StageToolsCompiled
	StagePayloadAssembled
)

func (s Stage) String() string {
	switch s {
	case StageStarted:
		return "started"
	case StageConfigLoaded:
		return "config_loaded"
	case StageToolsDiscovered:
		return "tools_discovered"
	case StageToolsFiltered:
		return "tools_filtered"
	case StageToolsCompiled:
		return "tools_compiled"
	case StagePayloadAssembled:
		return "payload_assembled"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// Skip kinds, one per per-tool error type.
const (
	SkipSourceExtraction   = "source_extraction"
	SkipUnsafe             = "unsafe"
	SkipInvalidSource      = "invalid_source"
	SkipMetadataExtraction = "metadata_extraction"
	SkipOther              = "other"
)

// SkipReason explains why a tool was left out of the payload.
type SkipReason struct {
	Tool      string
	Namespace string
	Err       error
}

// Kind classifies the underlying error.
func (s SkipReason) Kind() string {
	var (
		srcErr    *tool.SourceExtractionError
		unsafeErr *tool.UnsafeToolError
		invalid   *tool.InvalidSourceError
		metaErr   *tool.MetadataExtractionError
	)
	switch {
	case errors.As(s.Err, &unsafeErr):
		return SkipUnsafe
	case errors.As(s.Err, &srcErr):
		return SkipSourceExtraction
	case errors.As(s.Err, &invalid):
		return SkipInvalidSource
	case errors.As(s.Err, &metaErr):
		return SkipMetadataExtraction
	default:
		return SkipOther
	}
}

func (s SkipReason) String() string {
	return fmt.Sprintf("Skipping tool %s: %v", s.Tool, s.Err)
}

// ToolOutcome is the result of compiling a single tool: exactly one of
// Compiled and Skip is set.
type ToolOutcome struct {
	Name     string
	Compiled *CompiledTool
	Skip     *SkipReason
}

// OK reports whether the tool compiled.
func (o ToolOutcome) OK() bool {
	return o.Compiled != nil
}

// Report describes everything a compilation left out or had to decide.
type Report struct {
	// Stage is the last stage reached.
	Stage Stage

	// Discovered is the number of tools found in the tools directory.
	Discovered int
	// Included lists the compiled tool names in payload order.
	Included []string
	// Skipped lists tools that were selected but failed to compile.
	Skipped []SkipReason
	// Excluded lists discovered tools not in the allow-list.
	Excluded []string
	// Missing lists allow-list names that matched no discovered tool.
	Missing []string

	FileFailures []tool.FileFailure
	Collisions   []tool.Collision
}

// HasWarnings reports whether anything was skipped, missing or ambiguous.
func (r *Report) HasWarnings() bool {
	return len(r.Skipped) > 0 || len(r.Missing) > 0 || len(r.FileFailures) > 0 || len(r.Collisions) > 0
}

// Log writes the report's warnings to logger.
func (r *Report) Log(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	for _, f := range r.FileFailures {
		logger.Warn("Failed to load tool file", "path", f.Path, "error", f.Err)
	}
	for _, c := range r.Collisions {
		logger.Warn("Duplicate tool name, later file wins",
			"tool", c.Name, "previous", c.Previous, "winner", c.Winner)
	}
	for _, s := range r.Skipped {
		logger.Warn(s.String(), "tool", s.Tool, "kind", s.Kind())
	}
	for _, name := range r.Missing {
		logger.Warn("Configured tool not found in tools directory", "tool", name)
	}
	if len(r.Excluded) > 0 {
		logger.Debug("Tools not in allow-list", "tools", r.Excluded)
	}
}
