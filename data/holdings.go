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

// HoldingsFiling is one 13F information table along with its parsed
// positions. Positions replace any previously stored set for the same
// accession when re-saved.
type HoldingsFiling struct {
	Accession    string    `db:"accession"`
	CIK          string    `db:"cik"`
	FilerName    string    `db:"filer_name"`
	ReportPeriod time.Time `db:"report_period"`
	FilingDate   time.Time `db:"filing_date"`
	TotalValue   float64   `db:"total_value"`
	LastUpdated  time.Time `db:"last_updated"`

	Holdings []*Holding
}

// Holding is a single reported position. Value is in whole dollars; the
// raw form reports thousands and the parser scales it up.
type Holding struct {
	Accession    string  `db:"accession"`
	NameOfIssuer string  `db:"name_of_issuer"`
	TitleOfClass string  `db:"title_of_class"`
	CUSIP        string  `db:"cusip"`
	Ticker       string  `db:"ticker"`
	Value        float64 `db:"value"`
	Shares       float64 `db:"shares"`
	ShareType    string  `db:"share_type"`
	PutCall      string  `db:"put_call"`
	InvestDiscr  string  `db:"investment_discretion"`
	VotingSole   int64   `db:"voting_sole"`
	VotingShared int64   `db:"voting_shared"`
	VotingNone   int64   `db:"voting_none"`
}

func (filing *HoldingsFiling) MarshalZerologObject(e *zerolog.Event) {
	e.Str("Accession", filing.Accession)
	e.Str("CIK", filing.CIK)
	e.Time("ReportPeriod", filing.ReportPeriod)
	e.Int("NumHoldings", len(filing.Holdings))
}

// TotalPortfolioValue sums position values in whole dollars.
func (filing *HoldingsFiling) TotalPortfolioValue() float64 {
	var total float64
	for _, holding := range filing.Holdings {
		total += holding.Value
	}
	return total
}

// SaveDB writes the filing header and its positions in a single transaction.
// The header upserts on accession; positions replace any previously stored
// set for the same accession so the header total always matches the rows.
func (filing *HoldingsFiling) SaveDB(ctx context.Context, filingTbl, holdingTbl string, dbConn *pgxpool.Conn) error {
	tx, err := dbConn.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if err := tx.Commit(ctx); err != nil {
			log.Error().Err(err).Msg("error committing holdings transaction to database")
		}
	}()

	filingSQL := fmt.Sprintf(`INSERT INTO %[1]s (
		"accession",
		"cik",
		"filer_name",
		"report_period",
		"filing_date",
		"total_value",
		"last_updated"
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7
	) ON CONFLICT (accession) DO UPDATE SET
		cik = EXCLUDED.cik,
		filer_name = EXCLUDED.filer_name,
		report_period = EXCLUDED.report_period,
		filing_date = EXCLUDED.filing_date,
		total_value = EXCLUDED.total_value,
		last_updated = EXCLUDED.last_updated`, filingTbl)

	if _, err := tx.Exec(ctx, filingSQL,
		filing.Accession,
		filing.CIK,
		filing.FilerName,
		filing.ReportPeriod,
		filing.FilingDate,
		filing.TotalValue,
		filing.LastUpdated,
	); err != nil {
		log.Error().Err(err).Str("SQL", filingSQL).Msg("save holdings filing to DB failed")
		if err := tx.Rollback(ctx); err != nil {
			log.Error().Err(err).Msg("error rolling back transaction")
		}
		return err
	}

	// a re-save replaces the position set wholesale so a refreshed filing
	// with fewer rows leaves no stale children behind
	clearSQL := fmt.Sprintf(`DELETE FROM %[1]s WHERE accession = $1`, holdingTbl)
	if _, err := tx.Exec(ctx, clearSQL, filing.Accession); err != nil {
		log.Error().Err(err).Str("SQL", clearSQL).Msg("clear stored holdings failed")
		if err := tx.Rollback(ctx); err != nil {
			log.Error().Err(err).Msg("error rolling back transaction")
		}
		return err
	}

	holdingSQL := fmt.Sprintf(`INSERT INTO %[1]s (
		"accession",
		"name_of_issuer",
		"title_of_class",
		"cusip",
		"ticker",
		"value",
		"shares",
		"share_type",
		"put_call",
		"investment_discretion",
		"voting_sole",
		"voting_shared",
		"voting_none"
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
	) ON CONFLICT (accession, cusip, put_call) DO UPDATE SET
		name_of_issuer = EXCLUDED.name_of_issuer,
		title_of_class = EXCLUDED.title_of_class,
		ticker = EXCLUDED.ticker,
		value = EXCLUDED.value,
		shares = EXCLUDED.shares,
		share_type = EXCLUDED.share_type,
		investment_discretion = EXCLUDED.investment_discretion,
		voting_sole = EXCLUDED.voting_sole,
		voting_shared = EXCLUDED.voting_shared,
		voting_none = EXCLUDED.voting_none`, holdingTbl)

	for _, holding := range filing.Holdings {
		if _, err := tx.Exec(ctx, holdingSQL,
			filing.Accession,
			holding.NameOfIssuer,
			holding.TitleOfClass,
			holding.CUSIP,
			holding.Ticker,
			holding.Value,
			holding.Shares,
			holding.ShareType,
			holding.PutCall,
			holding.InvestDiscr,
			holding.VotingSole,
			holding.VotingShared,
			holding.VotingNone,
		); err != nil {
			log.Error().Err(err).Str("SQL", holdingSQL).Str("CUSIP", holding.CUSIP).Msg("save holding to DB failed")
			if err := tx.Rollback(ctx); err != nil {
				log.Error().Err(err).Msg("error rolling back transaction")
			}
			return err
		}
	}

	return nil
}
