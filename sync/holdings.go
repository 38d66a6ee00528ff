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
	"time"

	"github.com/rs/zerolog"

	"github.com/marketgrid/mgdata/data"
	"github.com/marketgrid/mgdata/edgar"
	"github.com/marketgrid/mgdata/filings"
)

// SyncHoldings ingests 13F information tables for each manager. Filings
// already marked processed are skipped unless ForceRefresh is set.
func (orchestrator *Orchestrator) SyncHoldings(ctx context.Context, ciks []string) *Report {
	subLog := zerolog.Ctx(ctx)
	report := newReport(data.HoldingsKind)
	report.Run.NumFilers = len(ciks)

	for idx, cik := range ciks {
		if ctx.Err() != nil {
			report.addError(cik, ctx.Err())
			break
		}

		if idx > 0 {
			orchestrator.pause(ctx)
		}

		if err := orchestrator.syncFilerHoldings(ctx, cik, report); err != nil {
			subLog.Error().Err(err).Str("CIK", cik).Msg("holdings sync failed for filer")
			report.addError(cik, err)
		}
	}

	return report.finish(ctx, orchestrator.Store)
}

func (orchestrator *Orchestrator) syncFilerHoldings(ctx context.Context, cik string, report *Report) error {
	subLog := zerolog.Ctx(ctx)

	submissions, err := orchestrator.API.GetSubmissions(ctx, cik)
	if err != nil {
		return err
	}

	if err := orchestrator.saveFilerProfile(ctx, cik, submissions); err != nil {
		return err
	}

	for _, filing := range orchestrator.selectFilings(submissions, "13F-HR", "13F-HR/A") {
		processed, err := orchestrator.Store.IsFilingProcessed(ctx, filing.AccessionNumber, data.HoldingsKind)
		if err != nil {
			return err
		}

		if processed && !orchestrator.ForceRefresh {
			report.Run.NumSkipped++
			continue
		}

		if err := orchestrator.ingestHoldingsFiling(ctx, cik, submissions.Name, filing); err != nil {
			subLog.Error().Err(err).Str("CIK", cik).Str("Accession", filing.AccessionNumber).Msg("could not ingest holdings filing")
			report.addError(cik, fmt.Errorf("%s: %w", filing.AccessionNumber, err))
			continue
		}

		if err := orchestrator.Store.MarkFilingProcessed(ctx, filing.AccessionNumber, data.HoldingsKind); err != nil {
			return err
		}

		report.Run.NumProcessed++
	}

	return nil
}

func (orchestrator *Orchestrator) ingestHoldingsFiling(ctx context.Context, cik, filerName string, filing edgar.Filing) error {
	subLog := zerolog.Ctx(ctx)

	entries, err := orchestrator.API.GetFilingIndex(ctx, cik, filing.AccessionNumber)
	if err != nil {
		return err
	}

	tableName, ok := edgar.FindInformationTable(entries)
	if !ok {
		return fmt.Errorf("%w: no information table in filing index", filings.ErrParse)
	}

	doc, err := orchestrator.API.GetDocument(ctx, cik, filing.AccessionNumber, tableName)
	if err != nil {
		return err
	}

	orchestrator.archive(ctx, fmt.Sprintf("%s/%s/%s", cik, filing.AccessionNumber, tableName), doc)

	holdings, err := filings.ParseInformationTable(doc)
	if err != nil {
		return err
	}

	orchestrator.resolveTickers(ctx, holdings)

	holdingsFiling := &data.HoldingsFiling{
		Accession:   filing.AccessionNumber,
		CIK:         cik,
		FilerName:   filerName,
		LastUpdated: time.Now(),
		Holdings:    holdings,
	}

	if reportPeriod, err := time.Parse("2006-01-02", filing.ReportDate); err == nil {
		holdingsFiling.ReportPeriod = reportPeriod
	}
	if filingDate, err := time.Parse("2006-01-02", filing.FilingDate); err == nil {
		holdingsFiling.FilingDate = filingDate
	}

	holdingsFiling.TotalValue = holdingsFiling.TotalPortfolioValue()

	if err := orchestrator.Store.SaveHoldingsFiling(ctx, holdingsFiling); err != nil {
		return err
	}

	subLog.Info().Object("Filing", holdingsFiling).Msg("saved holdings filing")
	return nil
}

// resolveTickers attaches tickers to positions where a mapping is known.
// Resolution is best effort; unresolved positions keep an empty ticker.
func (orchestrator *Orchestrator) resolveTickers(ctx context.Context, holdings []*data.Holding) {
	if orchestrator.Cusips == nil || len(holdings) == 0 {
		return
	}

	subLog := zerolog.Ctx(ctx)

	cusips := make([]string, 0, len(holdings))
	for _, holding := range holdings {
		cusips = append(cusips, holding.CUSIP)
	}

	resolved, err := orchestrator.Cusips.ResolveAll(ctx, cusips)
	if err != nil {
		subLog.Warn().Err(err).Msg("cusip resolution failed; holdings keep empty tickers")
		return
	}

	for _, holding := range holdings {
		if mapping, ok := resolved[holding.CUSIP]; ok {
			holding.Ticker = mapping.Ticker
		}
	}
}

func (orchestrator *Orchestrator) archive(ctx context.Context, name string, doc []byte) {
	if orchestrator.Archiver == nil {
		return
	}

	if err := orchestrator.Archiver.ArchiveDocument(ctx, name, doc); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("Name", name).Msg("could not archive raw document")
	}
}
