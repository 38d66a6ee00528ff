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
package cusip

import (
	"context"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// TableResolver serves mappings previously persisted to the database. It
// sits first in the resolver chain so external lookups only run for
// identifiers never seen before.
type TableResolver struct {
	Pool *pgxpool.Pool
	Tbl  string
}

func NewTableResolver(pool *pgxpool.Pool, tbl string) *TableResolver {
	return &TableResolver{Pool: pool, Tbl: tbl}
}

func (resolver *TableResolver) Resolve(ctx context.Context, cusips []string) (map[string]*Mapping, error) {
	var mappings []*Mapping
	sql := fmt.Sprintf("SELECT cusip, ticker, name, figi FROM %s WHERE cusip = ANY($1)", resolver.Tbl)
	if err := pgxscan.Select(ctx, resolver.Pool, &mappings, sql, cusips); err != nil {
		return nil, err
	}

	result := make(map[string]*Mapping, len(mappings))
	for _, mapping := range mappings {
		result[mapping.CUSIP] = mapping
	}

	return result, nil
}

// Save persists newly resolved mappings so future runs hit the table instead
// of the external service.
func (resolver *TableResolver) Save(ctx context.Context, mappings map[string]*Mapping) error {
	conn, err := resolver.Pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	sql := fmt.Sprintf(`INSERT INTO %s ("cusip", "ticker", "name", "figi", "last_updated")
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (cusip) DO UPDATE SET
			ticker = EXCLUDED.ticker,
			name = EXCLUDED.name,
			figi = EXCLUDED.figi,
			last_updated = EXCLUDED.last_updated`, resolver.Tbl)

	now := time.Now()
	for _, mapping := range mappings {
		if _, err := conn.Exec(ctx, sql, mapping.CUSIP, mapping.Ticker, mapping.Name, mapping.Figi, now); err != nil {
			log.Error().Err(err).Str("CUSIP", mapping.CUSIP).Msg("save cusip mapping to DB failed")
			return err
		}
	}

	return nil
}
