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

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// TickerMapping links an exchange ticker to the filer's CIK, sourced from
// the daily company ticker index.
type TickerMapping struct {
	Ticker      string    `db:"ticker"`
	CIK         string    `db:"cik"`
	Title       string    `db:"title"`
	LastUpdated time.Time `db:"last_updated"`
}

func (mapping *TickerMapping) SaveDB(ctx context.Context, tbl string, dbConn *pgxpool.Conn) error {
	tx, err := dbConn.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if err := tx.Commit(ctx); err != nil {
			log.Error().Err(err).Msg("error committing ticker transaction to database")
		}
	}()

	sql := fmt.Sprintf(`INSERT INTO %[1]s (
		"ticker",
		"cik",
		"title",
		"last_updated"
	) VALUES (
		$1, $2, $3, $4
	) ON CONFLICT (ticker) DO UPDATE SET
		cik = EXCLUDED.cik,
		title = EXCLUDED.title,
		last_updated = EXCLUDED.last_updated`, tbl)

	if _, err := tx.Exec(ctx, sql,
		mapping.Ticker,
		mapping.CIK,
		mapping.Title,
		mapping.LastUpdated,
	); err != nil {
		log.Error().Err(err).Str("SQL", sql).Str("Ticker", mapping.Ticker).Msg("save ticker to DB failed")
		if err := tx.Rollback(ctx); err != nil {
			log.Error().Err(err).Msg("error rolling back transaction")
		}
		return err
	}

	return nil
}
