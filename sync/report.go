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
package sync

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/marketgrid/mgdata/data"
)

// Report is the structured summary returned to the operational caller. The
// caller decides whether to alert, retry, or accept a partial run.
type Report struct {
	Run    *data.SyncRun
	Errors []string
}

func newReport(kind data.FilingKind) *Report {
	return &Report{Run: data.NewSyncRun(kind)}
}

func (report *Report) addError(cik string, err error) {
	report.Run.NumErrors++
	report.Errors = append(report.Errors, fmt.Sprintf("%s: %s", cik, err.Error()))
}

// finish derives the final status and persists the audit row. A store that
// cannot even record the run only logs; the in-memory report still reflects
// what happened.
func (report *Report) finish(ctx context.Context, store Store) *Report {
	report.Run.Notes = strings.Join(report.Errors, "; ")
	report.Run.Finish()

	if err := store.SaveSyncRun(ctx, report.Run); err != nil {
		log.Error().Err(err).Msg("could not record sync run")
	}

	return report
}

// Status is the overall outcome of the run.
func (report *Report) Status() data.SyncStatus {
	return report.Run.Status
}

// Duration is the wall-clock runtime.
func (report *Report) Duration() time.Duration {
	return report.Run.Duration()
}

func (report *Report) MarshalZerologObject(e *zerolog.Event) {
	e.Object("Run", report.Run)
	e.Strs("Errors", report.Errors)
}
