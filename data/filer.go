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
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Filer is a registrant known to the regulator. The CIK never changes; the
// descriptive fields are refreshed on every submissions fetch.
type Filer struct {
	CIK         string    `db:"cik"`
	Name        string    `db:"name"`
	Tickers     []string  `db:"tickers"`
	Exchanges   []string  `db:"exchanges"`
	LastUpdated time.Time `db:"last_updated"`
}

func (filer *Filer) MarshalZerologObject(e *zerolog.Event) {
	e.Str("CIK", filer.CIK)
	e.Str("Name", filer.Name)
	e.Strs("Tickers", filer.Tickers)
}

func (filer *Filer) SaveDB(ctx context.Context, tbl string, dbConn *pgxpool.Conn) error {
	tx, err := dbConn.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if err := tx.Commit(ctx); err != nil {
			log.Error().Err(err).Msg("error committing filer transaction to database")
		}
	}()

	sql := fmt.Sprintf(`INSERT INTO %[1]s (
		"cik",
		"name",
		"tickers",
		"exchanges",
		"last_updated"
	) VALUES (
		$1, $2, $3, $4, $5
	) ON CONFLICT (cik) DO UPDATE SET
		name = EXCLUDED.name,
		tickers = EXCLUDED.tickers,
		exchanges = EXCLUDED.exchanges,
		last_updated = EXCLUDED.last_updated`, tbl)

	_, err = tx.Exec(ctx, sql, filer.CIK, filer.Name, filer.Tickers, filer.Exchanges, filer.LastUpdated)
	if err != nil {
		log.Error().Err(err).Str("SQL", sql).Msg("save filer to DB failed")
		return err
	}

	return nil
}
