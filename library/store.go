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
package library

import (
	"context"

	"github.com/marketgrid/mgdata/data"
	"github.com/marketgrid/mgdata/xbrl"
)

const (
	FilersTable              = "filers"
	IncomeStatementsTable    = "income_statements"
	BalanceSheetsTable       = "balance_sheets"
	CashFlowStatementsTable  = "cash_flow_statements"
	HoldingsFilingsTable     = "holdings_filings"
	HoldingsTable            = "holdings"
	InsiderFilingsTable      = "insider_filings"
	InsiderTransactionsTable = "insider_transactions"
	TickersTable             = "tickers"
	SyncRunsTable            = "sync_runs"
	ProcessedFilingsTable    = "processed_filings"
	CusipMappingsTable       = "cusip_mappings"
)

// SaveFiler upserts a filer profile.
func (myLibrary *Library) SaveFiler(ctx context.Context, filer *data.Filer) error {
	conn, err := myLibrary.Pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	return filer.SaveDB(ctx, FilersTable, conn)
}

// SaveStatements upserts every normalized statement for a filer and reports
// how many rows were newly created. Re-saving unchanged statements counts
// zero creations, which is what makes repeat syncs idempotent.
func (myLibrary *Library) SaveStatements(ctx context.Context, statements *xbrl.Statements) (int, error) {
	conn, err := myLibrary.Pool.Acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Release()

	numCreated := 0

	for _, income := range statements.Income {
		created, err := income.SaveDB(ctx, IncomeStatementsTable, conn)
		if err != nil {
			return numCreated, err
		}
		if created {
			numCreated++
		}
	}

	for _, balance := range statements.Balance {
		created, err := balance.SaveDB(ctx, BalanceSheetsTable, conn)
		if err != nil {
			return numCreated, err
		}
		if created {
			numCreated++
		}
	}

	for _, cashFlow := range statements.CashFlow {
		created, err := cashFlow.SaveDB(ctx, CashFlowStatementsTable, conn)
		if err != nil {
			return numCreated, err
		}
		if created {
			numCreated++
		}
	}

	return numCreated, nil
}

// SaveHoldingsFiling upserts a 13F filing and its positions.
func (myLibrary *Library) SaveHoldingsFiling(ctx context.Context, filing *data.HoldingsFiling) error {
	conn, err := myLibrary.Pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	return filing.SaveDB(ctx, HoldingsFilingsTable, HoldingsTable, conn)
}

// SaveInsiderFiling upserts a Form 4 filing and its transactions.
func (myLibrary *Library) SaveInsiderFiling(ctx context.Context, filing *data.InsiderFiling) error {
	conn, err := myLibrary.Pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	return filing.SaveDB(ctx, InsiderFilingsTable, InsiderTransactionsTable, conn)
}

// SaveSyncRun records a completed orchestrator run.
func (myLibrary *Library) SaveSyncRun(ctx context.Context, run *data.SyncRun) error {
	conn, err := myLibrary.Pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	return run.SaveDB(ctx, SyncRunsTable, conn)
}

// SaveTicker upserts one ticker-to-CIK mapping.
func (myLibrary *Library) SaveTicker(ctx context.Context, mapping *data.TickerMapping) error {
	conn, err := myLibrary.Pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	return mapping.SaveDB(ctx, TickersTable, conn)
}
