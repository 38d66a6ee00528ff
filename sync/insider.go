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

	"github.com/marketgrid/mgdata/data"
	"github.com/marketgrid/mgdata/edgar"
	"github.com/marketgrid/mgdata/filings"
)

// SyncInsiders ingests Form 4 ownership filings for each issuer. A filing
// whose document parses to zero transactions (a holdings-only statement) is
// legitimate: it is marked processed without persisting a filing row.
func (orchestrator *Orchestrator) SyncInsiders(ctx context.Context, ciks []string) *Report {
	subLog := zerolog.Ctx(ctx)
	report := newReport(data.InsiderKind)
	report.Run.NumFilers = len(ciks)

	for idx, cik := range ciks {
		if ctx.Err() != nil {
			report.addError(cik, ctx.Err())
			break
		}

		if idx > 0 {
			orchestrator.pause(ctx)
		}

		if err := orchestrator.syncFilerInsiders(ctx, cik, report); err != nil {
			subLog.Error().Err(err).Str("CIK", cik).Msg("insider sync failed for filer")
			report.addError(cik, err)
		}
	}

	return report.finish(ctx, orchestrator.Store)
}

func (orchestrator *Orchestrator) syncFilerInsiders(ctx context.Context, cik string, report *Report) error {
	subLog := zerolog.Ctx(ctx)

	submissions, err := orchestrator.API.GetSubmissions(ctx, cik)
	if err != nil {
		return err
	}

	if err := orchestrator.saveFilerProfile(ctx, cik, submissions); err != nil {
		return err
	}

	for _, filing := range orchestrator.selectFilings(submissions, "4", "4/A") {
		processed, err := orchestrator.Store.IsFilingProcessed(ctx, filing.AccessionNumber, data.InsiderKind)
		if err != nil {
			return err
		}

		if processed && !orchestrator.ForceRefresh {
			report.Run.NumSkipped++
			continue
		}

		if err := orchestrator.ingestInsiderFiling(ctx, cik, filing); err != nil {
			subLog.Error().Err(err).Str("CIK", cik).Str("Accession", filing.AccessionNumber).Msg("could not ingest insider filing")
			report.addError(cik, fmt.Errorf("%s: %w", filing.AccessionNumber, err))
			continue
		}

		if err := orchestrator.Store.MarkFilingProcessed(ctx, filing.AccessionNumber, data.InsiderKind); err != nil {
			return err
		}

		report.Run.NumProcessed++
	}

	return nil
}

func (orchestrator *Orchestrator) ingestInsiderFiling(ctx context.Context, cik string, filing edgar.Filing) error {
	subLog := zerolog.Ctx(ctx)

	documentName := filing.PrimaryDocument
	if !strings.HasSuffix(strings.ToLower(documentName), ".xml") {
		entries, err := orchestrator.API.GetFilingIndex(ctx, cik, filing.AccessionNumber)
		if err != nil {
			return err
		}
		documentName = findOwnershipDocument(entries)
		if documentName == "" {
			return fmt.Errorf("%w: no ownership document in filing index", filings.ErrParse)
		}
	}

	doc, err := orchestrator.API.GetDocument(ctx, cik, filing.AccessionNumber, documentName)
	if err != nil {
		return err
	}

	orchestrator.archive(ctx, fmt.Sprintf("%s/%s/%s", cik, filing.AccessionNumber, documentName), doc)

	insiderFiling, err := filings.ParseForm4(doc)
	if err != nil {
		return err
	}

	if insiderFiling == nil {
		// holdings-only statement; nothing to persist
		subLog.Debug().Str("Accession", filing.AccessionNumber).Msg("form 4 has no transactions")
		return nil
	}

	insiderFiling.Accession = filing.AccessionNumber
	insiderFiling.LastUpdated = time.Now()
	if filingDate, err := time.Parse("2006-01-02", filing.FilingDate); err == nil {
		insiderFiling.FilingDate = filingDate
	}

	if err := orchestrator.Store.SaveInsiderFiling(ctx, insiderFiling); err != nil {
		return err
	}

	subLog.Info().Object("Filing", insiderFiling).Msg("saved insider filing")
	return nil
}

// findOwnershipDocument picks the ownership XML from the archive index.
// Named form documents are preferred; any XML entry is accepted as a
// fallback.
func findOwnershipDocument(entries []edgar.IndexEntry) string {
	for _, entry := range entries {
		name := strings.ToLower(entry.Name)
		if strings.HasSuffix(name, ".xml") && (strings.Contains(name, "form4") || strings.Contains(name, "ownership")) {
			return entry.Name
		}
	}

	for _, entry := range entries {
		if strings.HasSuffix(strings.ToLower(entry.Name), ".xml") {
			return entry.Name
		}
	}

	return ""
}
