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
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/marketgrid/mgdata/data"
)

type Library struct {
	DBUrl string
	Name  string
	Owner string

	Pool *pgxpool.Pool
}

// Connect to the database configured for the library
func (myLibrary *Library) Connect(ctx context.Context) error {
	if myLibrary.Pool != nil {
		return nil
	}

	pool, err := pgxpool.New(context.Background(), myLibrary.DBUrl)
	if err != nil {
		return err
	}
	myLibrary.Pool = pool

	return nil
}

// Close the database pool
func (myLibrary *Library) Close() {
	myLibrary.Pool.Close()
}

// NewFromDB creates a new library object with values from the database
func NewFromDB(ctx context.Context, dbURL string) (*Library, error) {
	pool, err := pgxpool.New(context.Background(), dbURL)
	if err != nil {
		return nil, err
	}

	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	myLibrary := Library{
		DBUrl: dbURL,
		Pool:  pool,
	}

	if err := conn.QueryRow(ctx, "SELECT name, owner FROM library").Scan(&myLibrary.Name, &myLibrary.Owner); err != nil {
		return nil, err
	}

	return &myLibrary, nil
}

// SaveDB creates a new record in the library table for this library
func (myLibrary *Library) SaveDB(ctx context.Context) error {
	conn, err := myLibrary.Pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `INSERT INTO library ("name", "owner") VALUES ($1, $2)`, myLibrary.Name, myLibrary.Owner)
	return err
}

// NumFilers returns the total count of filers tracked in the database
func (myLibrary *Library) NumFilers(ctx context.Context) (int, error) {
	conn, err := myLibrary.Pool.Acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Release()

	count := 0
	err = conn.QueryRow(ctx, "SELECT count(*) FROM filers").Scan(&count)
	return count, err
}

// NumStatements returns the total count of normalized statements across all
// three statement tables
func (myLibrary *Library) NumStatements(ctx context.Context) (int, error) {
	conn, err := myLibrary.Pool.Acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Release()

	count := 0
	err = conn.QueryRow(ctx, `SELECT
		(SELECT count(*) FROM income_statements) +
		(SELECT count(*) FROM balance_sheets) +
		(SELECT count(*) FROM cash_flow_statements)`).Scan(&count)
	return count, err
}

// NumHoldings returns the total count of 13F positions
func (myLibrary *Library) NumHoldings(ctx context.Context) (int, error) {
	conn, err := myLibrary.Pool.Acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Release()

	count := 0
	err = conn.QueryRow(ctx, "SELECT count(*) FROM holdings").Scan(&count)
	return count, err
}

// NumInsiderTransactions returns the total count of Form 4 transaction rows
func (myLibrary *Library) NumInsiderTransactions(ctx context.Context) (int, error) {
	conn, err := myLibrary.Pool.Acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Release()

	count := 0
	err = conn.QueryRow(ctx, "SELECT count(*) FROM insider_transactions").Scan(&count)
	return count, err
}

// LastUpdated returns the finish time of the most recent sync run
func (myLibrary *Library) LastUpdated(ctx context.Context) (time.Time, error) {
	conn, err := myLibrary.Pool.Acquire(ctx)
	if err != nil {
		return time.Time{}, err
	}
	defer conn.Release()

	var lastUpdated time.Time
	err = conn.QueryRow(ctx, "SELECT coalesce(max(finished_at), '0001-01-01'::timestamp) FROM sync_runs").Scan(&lastUpdated)
	if err != nil {
		return time.Time{}, err
	}

	return lastUpdated, nil
}

// RecentRuns returns the most recent sync runs, newest first
func (myLibrary *Library) RecentRuns(ctx context.Context, limit int) ([]*data.SyncRun, error) {
	var runs []*data.SyncRun
	err := pgxscan.Select(ctx, myLibrary.Pool, &runs,
		`SELECT id, kind, status, started_at, finished_at, num_filers, num_processed,
num_skipped, num_errors, notes FROM sync_runs ORDER BY started_at DESC LIMIT $1`, limit)
	return runs, err
}

// Filers returns every filer tracked in the database
func (myLibrary *Library) Filers(ctx context.Context) ([]*data.Filer, error) {
	var filers []*data.Filer
	err := pgxscan.Select(ctx, myLibrary.Pool, &filers,
		`SELECT cik, name, tickers, exchanges, last_updated FROM filers ORDER BY cik`)
	return filers, err
}
