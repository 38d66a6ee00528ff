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

// Package sync orchestrates ingestion runs: fetch a filer's history, pull
// and parse the relevant filings, persist the results, and summarize the run
// for the operational caller. One filer failing never aborts the run.
package sync

import (
	"context"
	"time"

	"github.com/marketgrid/mgdata/cusip"
	"github.com/marketgrid/mgdata/data"
	"github.com/marketgrid/mgdata/edgar"
	"github.com/marketgrid/mgdata/xbrl"
)

// EdgarAPI is the slice of the EDGAR client the orchestrator consumes.
type EdgarAPI interface {
	GetSubmissions(ctx context.Context, cik string) (*edgar.Submissions, error)
	GetCompanyFacts(ctx context.Context, cik string) (*edgar.CompanyFacts, error)
	GetFilingIndex(ctx context.Context, cik, accession string) ([]edgar.IndexEntry, error)
	GetDocument(ctx context.Context, cik, accession, filename string) ([]byte, error)
}

// Store is the persistence surface the orchestrator writes through.
type Store interface {
	SaveFiler(ctx context.Context, filer *data.Filer) error
	SaveStatements(ctx context.Context, statements *xbrl.Statements) (int, error)
	SaveHoldingsFiling(ctx context.Context, filing *data.HoldingsFiling) error
	SaveInsiderFiling(ctx context.Context, filing *data.InsiderFiling) error
	SaveSyncRun(ctx context.Context, run *data.SyncRun) error
	IsFilingProcessed(ctx context.Context, accession string, kind data.FilingKind) (bool, error)
	MarkFilingProcessed(ctx context.Context, accession string, kind data.FilingKind) error
}

// Archiver stores raw filing documents before parsing. Archival failures are
// logged but never fail the filing.
type Archiver interface {
	ArchiveDocument(ctx context.Context, name string, doc []byte) error
}

// Orchestrator drives one kind of sync across a list of filers.
type Orchestrator struct {
	API      EdgarAPI
	Store    Store
	Cusips   *cusip.Service
	Archiver Archiver

	// MaxFilings caps per-filer work to the newest N matching filings.
	// Zero means no cap.
	MaxFilings int

	// ForceRefresh re-ingests filings already marked processed.
	ForceRefresh bool

	// FilerDelay is a politeness pause between filers, separate from the
	// request-level rate limit.
	FilerDelay time.Duration
}

func (orchestrator *Orchestrator) pause(ctx context.Context) {
	if orchestrator.FilerDelay <= 0 {
		return
	}

	timer := time.NewTimer(orchestrator.FilerDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// saveFilerProfile upserts the descriptive profile from a submissions
// document.
func (orchestrator *Orchestrator) saveFilerProfile(ctx context.Context, cik string, submissions *edgar.Submissions) error {
	return orchestrator.Store.SaveFiler(ctx, &data.Filer{
		CIK:         cik,
		Name:        submissions.Name,
		Tickers:     submissions.Tickers,
		Exchanges:   submissions.Exchanges,
		LastUpdated: time.Now(),
	})
}

// selectFilings filters the filing history to the requested forms, keeping
// document order (newest first) and honoring the MaxFilings cap.
func (orchestrator *Orchestrator) selectFilings(submissions *edgar.Submissions, forms ...string) []edgar.Filing {
	wanted := make(map[string]bool, len(forms))
	for _, form := range forms {
		wanted[form] = true
	}

	var selected []edgar.Filing
	for i := 0; i < submissions.Filings.Len(); i++ {
		filing := submissions.Filings.Index(i)
		if !wanted[filing.Form] {
			continue
		}

		selected = append(selected, filing)
		if orchestrator.MaxFilings > 0 && len(selected) == orchestrator.MaxFilings {
			break
		}
	}

	return selected
}
