// Copyright 2025 ScyllaDB
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
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

const gonumPackage = "gonum.org/v1/gonum"

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type (
	ComponentInfo struct {
		Version    string `json:"version"`
		CommitDate string `json:"commit_date,omitempty"`
		CommitSHA  string `json:"commit_sha,omitempty"`
	}

	VersionInfo struct {
		Entropy ComponentInfo `json:"entropy"`
		Gonum   ComponentInfo `json:"gonum"`
	}
)

func Version() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := NewVersionInfo()
			if versionJSONOutput {
				data, err := json.Marshal(info)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return err
			}

			_, err := fmt.Fprintln(cmd.OutOrStdout(), info.String())
			return err
		},
	}

	cmd.Flags().BoolVarP(&versionJSONOutput, "json", "", false, "Print version information in JSON format")

	return cmd
}

func NewVersionInfo() VersionInfo {
	v := VersionInfo{
		Entropy: ComponentInfo{
			Version:    version,
			CommitDate: date,
			CommitSHA:  commit,
		},
		Gonum: ComponentInfo{Version: "unknown"},
	}

	if info, ok := debug.ReadBuildInfo(); ok {
		for _, dep := range info.Deps {
			if dep.Path != gonumPackage {
				continue
			}
			v.Gonum.Version = dep.Version
			if dep.Replace != nil {
				v.Gonum.Version = dep.Replace.Version
			}
		}
	}

	return v
}

func (v VersionInfo) String() string {
	return fmt.Sprintf(`entropy:
    version: %s
    commit sha: %s
    commit date: %s
gonum:
    version: %s`,
		v.Entropy.Version,
		v.Entropy.CommitSHA,
		v.Entropy.CommitDate,
		v.Gonum.Version,
	)
}
