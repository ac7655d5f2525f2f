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
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/flowstack/flowstack-go/pkg/tool"
)

func TestSkipReason_Kind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&tool.UnsafeToolError{Tool: "t", Construct: "eval"}, SkipUnsafe},
		{&tool.SourceExtractionError{Tool: "t", Err: errors.New("x")}, SkipSourceExtraction},
		{&tool.InvalidSourceError{Tool: "t", Err: errors.New("x")}, SkipInvalidSource},
		{&tool.MetadataExtractionError{Tool: "t", Err: errors.New("x")}, SkipMetadataExtraction},
		{fmt.Errorf("wrapped: %w", &tool.UnsafeToolError{Tool: "t"}), SkipUnsafe},
		{errors.New("other"), SkipOther},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, SkipReason{Tool: "t", Err: tt.err}.Kind())
		})
	}
}

func TestStage_String(t *testing.T) {
	assert.Equal(t, "config_loaded", StageConfigLoaded.String())
	assert.Equal(t, "payload_assembled", StagePayloadAssembled.String())
	assert.Equal(t, "stage(42)", Stage(42).String())
	assert.True(t, StageToolsDiscovered < StageToolsFiltered)
}

func TestReport_Log(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))

	r := &Report{
		Skipped:      []SkipReason{{Tool: "calc", Err: &tool.UnsafeToolError{Tool: "calc", Construct: "eval", Kind: "dynamic-eval"}}},
		Missing:      []string{"ghost"},
		Collisions:   []tool.Collision{{Name: "shared", Previous: "a", Winner: "b"}},
		FileFailures: []tool.FileFailure{{Path: "tools/bad.go", Err: errors.New("parse error")}},
	}
	assert.True(t, r.HasWarnings())

	r.Log(logger)
	out := buf.String()
	assert.Contains(t, out, "Skipping tool calc")
	assert.Contains(t, out, "kind=unsafe")
	assert.Contains(t, out, "tool=ghost")
	assert.Contains(t, out, "winner=b")
	assert.Contains(t, out, "tools/bad.go")
}
