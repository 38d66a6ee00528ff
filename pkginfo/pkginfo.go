// Copyright 2024
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package pkginfo exposes build metadata stamped in at link time.
package pkginfo

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"sort"

	"github.com/rs/zerolog/log"
)

// Set via -ldflags at build time.
var (
	BuildDate  string
	CommitHash string
	Version    string
)

// BuildVersionString returns a multi-line version banner for the CLI.
func BuildVersionString() string {
	return fmt.Sprintf(`mgdata %s %s/%s

Build Date: %s
Commit: %s
Built with: %s`, Version, runtime.GOOS, runtime.GOARCH, BuildDate, CommitHash,
		runtime.Version())
}

// GetDependencyList returns every module linked into the binary, one
// `path="version"` string per dependency, sorted.
func GetDependencyList() []string {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		log.Error().Msg("could not read package build info")
		return nil
	}

	deps := make([]string, 0, len(buildInfo.Deps))
	for _, dep := range buildInfo.Deps {
		deps = append(deps, fmt.Sprintf("%s=%q", dep.Path, dep.Version))
	}
	sort.Strings(deps)

	return deps
}
