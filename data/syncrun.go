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
package data

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SyncRun records one orchestrator execution. Rows are insert-only; a run is
// never re-keyed or updated after Finish.
type SyncRun struct {
	ID           uuid.UUID  `db:"id"`
	Kind         FilingKind `db:"kind"`
	Status       SyncStatus `db:"status"`
	StartedAt    time.Time  `db:"started_at"`
	FinishedAt   time.Time  `db:"finished_at"`
	NumFilers    int        `db:"num_filers"`
	NumProcessed int        `db:"num_processed"`
	NumSkipped   int        `db:"num_skipped"`
	NumErrors    int        `db:"num_errors"`
	Notes        string     `db:"notes"`
}

// NewSyncRun starts a run record with a fresh identifier.
func NewSyncRun(kind FilingKind) *SyncRun {
	return &SyncRun{
		ID:        uuid.New(),
		Kind:      kind,
		StartedAt: time.Now(),
	}
}

// Duration is the wall-clock time of the run. Zero until Finish is called.
func (run *SyncRun) Duration() time.Duration {
	if run.FinishedAt.IsZero() {
		return 0
	}
	return run.FinishedAt.Sub(run.StartedAt)
}

// Finish stamps the end time and derives the final status: any error with
// zero successes fails the run, errors alongside successes mark it partial.
func (run *SyncRun) Finish() {
	run.FinishedAt = time.Now()
	switch {
	case run.NumErrors == 0:
		run.Status = SyncCompleted
	case run.NumProcessed == 0:
		run.Status = SyncFailed
	default:
		run.Status = SyncPartial
	}
}

func (run *SyncRun) MarshalZerologObject(e *zerolog.Event) {
	e.Str("ID", run.ID.String())
	e.Str("Kind", string(run.Kind))
	e.Str("Status", string(run.Status))
	e.Int("NumProcessed", run.NumProcessed)
	e.Int("NumErrors", run.NumErrors)
}

func (run *SyncRun) SaveDB(ctx context.Context, tbl string, dbConn *pgxpool.Conn) error {
	tx, err := dbConn.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if err := tx.Commit(ctx); err != nil {
			log.Error().Err(err).Msg("error committing sync run transaction to database")
		}
	}()

	sql := fmt.Sprintf(`INSERT INTO %[1]s (
		"id",
		"kind",
		"status",
		"started_at",
		"finished_at",
		"num_filers",
		"num_processed",
		"num_skipped",
		"num_errors",
		"notes"
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
	)`, tbl)

	if _, err := tx.Exec(ctx, sql,
		run.ID,
		run.Kind,
		run.Status,
		run.StartedAt,
		run.FinishedAt,
		run.NumFilers,
		run.NumProcessed,
		run.NumSkipped,
		run.NumErrors,
		run.Notes,
	); err != nil {
		log.Error().Err(err).Str("SQL", sql).Msg("save sync run to DB failed")
		if err := tx.Rollback(ctx); err != nil {
			log.Error().Err(err).Msg("error rolling back transaction")
		}
		return err
	}

	return nil
}
