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

	"github.com/rs/zerolog"

	"github.com/marketgrid/mgdata/data"
	"github.com/marketgrid/mgdata/xbrl"
)

// SyncFinancials ingests normalized financial statements for each filer: one
// company-facts fetch per filer, normalized into income, balance, and
// cash-flow statements and upserted. A filer whose facts cannot be fetched
// or parsed is recorded as an error and the run moves on.
func (orchestrator *Orchestrator) SyncFinancials(ctx context.Context, ciks []string) *Report {
	subLog := zerolog.Ctx(ctx)
	report := newReport(data.FinancialsKind)
	report.Run.NumFilers = len(ciks)

	for idx, cik := range ciks {
		if ctx.Err() != nil {
			report.addError(cik, ctx.Err())
			break
		}

		if idx > 0 {
			orchestrator.pause(ctx)
		}

		if err := orchestrator.syncFilerFinancials(ctx, cik); err != nil {
			subLog.Error().Err(err).Str("CIK", cik).Msg("financials sync failed for filer")
			report.addError(cik, err)
			continue
		}

		report.Run.NumProcessed++
	}

	return report.finish(ctx, orchestrator.Store)
}

func (orchestrator *Orchestrator) syncFilerFinancials(ctx context.Context, cik string) error {
	subLog := zerolog.Ctx(ctx)

	submissions, err := orchestrator.API.GetSubmissions(ctx, cik)
	if err != nil {
		return err
	}

	if err := orchestrator.saveFilerProfile(ctx, cik, submissions); err != nil {
		return err
	}

	facts, err := orchestrator.API.GetCompanyFacts(ctx, cik)
	if err != nil {
		return err
	}

	statements := xbrl.Normalize(ctx, cik, facts)
	numCreated, err := orchestrator.Store.SaveStatements(ctx, statements)
	if err != nil {
		return err
	}

	subLog.Info().
		Str("CIK", cik).
		Object("Statements", statements).
		Int("NumCreated", numCreated).
		Msg("saved normalized statements")

	return nil
}
