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
	"fmt"

	"github.com/flowstack/flowstack-go/pkg/config"
	"github.com/flowstack/flowstack-go/pkg/scaffold"
)

// InitCmd scaffolds a new project.
type InitCmd struct {
	Name  string `arg:"" help:"Project name."`
	Path  string `help:"Directory to create the project in (default: current directory)." type:"path"`
	Force bool   `help:"Overwrite an existing project."`
}

func (c *InitCmd) Run(a *app) error {
	result, err := scaffold.Create(scaffold.Options{
		Name:   c.Name,
		Path:   c.Path,
		Force:  c.Force,
		APIURL: config.DefaultAPIURL,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Created FlowStack project: %s\n", result.Dir)
	fmt.Fprintln(a.out, "\nNext steps:")
	fmt.Fprintf(a.out, "  cd %s\n", c.Name)
	fmt.Fprintln(a.out, "  cp .env.example .env  # set your API key")
	fmt.Fprintln(a.out, "  flowstack build       # verify compilation")
	return nil
}
