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

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/flowstack/flowstack-go/pkg/deployment"
)

// ValidateCmd re-validates a payload written by build.
type ValidateCmd struct {
	File   string `arg:"" name:"file" help:"Payload file (e.g. .flowstack/build.json)." placeholder:"PATH"`
	Format string `short:"f" help:"Output format: compact, verbose, json." default:"compact" enum:"compact,verbose,json"`
}

// ValidationError is one problem found in a payload.
type ValidationError struct {
	Path    string `json:"path,omitempty"`
	Message string `json:"message"`
}

type jsonOutput struct {
	Valid  bool              `json:"valid"`
	File   string            `json:"file"`
	Agent  string            `json:"agent,omitempty"`
	Tools  int               `json:"tools,omitempty"`
	Errors []ValidationError `json:"errors,omitempty"`
}

func (c *ValidateCmd) Run(a *app) error {
	data, err := deployment.ReadBuild(c.File)
	if err != nil {
		printFailure(a.out, c.Format, c.File, err)
		return errors.New("payload validation failed")
	}

	var payload deployment.Payload
	if err := json.Unmarshal(data, &payload); err != nil {
		printFailure(a.out, c.Format, c.File, err)
		return errors.New("payload validation failed")
	}

	printValid(a.out, c.Format, c.File, &payload)
	return nil
}

func printFailure(w io.Writer, format, file string, err error) {
	verr := ValidationError{Message: err.Error()}
	var perr *deployment.PayloadValidationError
	if errors.As(err, &perr) {
		verr.Path = perr.Path
	}

	switch format {
	case "json":
		printJSON(w, jsonOutput{File: file, Errors: []ValidationError{verr}})
	case "verbose":
		fmt.Fprintln(w, "Payload Validation Failed")
		fmt.Fprintln(w, "=========================")
		fmt.Fprintf(w, "\nFile:  %s\n", file)
		if verr.Path != "" {
			fmt.Fprintf(w, "Path:  %s\n", verr.Path)
		}
		fmt.Fprintf(w, "Error: %s\n", verr.Message)
	default:
		if verr.Path != "" {
			fmt.Fprintf(w, "%s: %s: %s\n", file, verr.Path, verr.Message)
			return
		}
		fmt.Fprintf(w, "%s: %s\n", file, verr.Message)
	}
}

func printValid(w io.Writer, format, file string, p *deployment.Payload) {
	agent := ""
	if a := p.Agent(); a != nil {
		agent = a.Name
	}

	switch format {
	case "json":
		printJSON(w, jsonOutput{Valid: true, File: file, Agent: agent, Tools: len(p.Tools)})
	case "verbose":
		fmt.Fprintln(w, "Payload Validation Successful")
		fmt.Fprintln(w, "=============================")
		fmt.Fprintf(w, "\nFile:   %s\n", file)
		fmt.Fprintf(w, "Agent:  %s\n", agent)
		fmt.Fprintf(w, "Tools:  %d\n", len(p.Tools))
		fmt.Fprintln(w, "Status: OK Valid")
	default:
		fmt.Fprintf(w, "%s: valid\n", file)
	}
}

func printJSON(w io.Writer, v jsonOutput) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
