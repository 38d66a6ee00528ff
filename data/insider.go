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

// InsiderFiling is one Form 4 statement of changes in beneficial ownership.
type InsiderFiling struct {
	Accession      string    `db:"accession"`
	IssuerCIK      string    `db:"issuer_cik"`
	IssuerName     string    `db:"issuer_name"`
	IssuerTicker   string    `db:"issuer_ticker"`
	OwnerCIK       string    `db:"owner_cik"`
	OwnerName      string    `db:"owner_name"`
	OwnerTitle     string    `db:"owner_title"`
	IsDirector     bool      `db:"is_director"`
	IsOfficer      bool      `db:"is_officer"`
	IsTenPctOwner  bool      `db:"is_ten_pct_owner"`
	PeriodOfReport time.Time `db:"period_of_report"`
	FilingDate     time.Time `db:"filing_date"`
	LastUpdated    time.Time `db:"last_updated"`

	Transactions []*InsiderTransaction
}

// InsiderTransaction is one non-derivative or derivative transaction row.
// Seq preserves document order; (accession, seq) is the conflict key.
type InsiderTransaction struct {
	Accession        string     `db:"accession"`
	Seq              int        `db:"seq"`
	SecurityTitle    string     `db:"security_title"`
	TransactionDate  time.Time  `db:"transaction_date"`
	TransactionCode  string     `db:"transaction_code"`
	Action           string     `db:"action"`
	Shares           *float64   `db:"shares"`
	PricePerShare    *float64   `db:"price_per_share"`
	AcquiredDisposed string     `db:"acquired_disposed"`
	SharesOwnedAfter *float64   `db:"shares_owned_after"`
	OwnershipNature  string     `db:"ownership_nature"`
	IsDerivative     bool       `db:"is_derivative"`
	ExercisePrice    *float64   `db:"exercise_price"`
	ExpirationDate   *time.Time `db:"expiration_date"`
	UnderlyingTitle  string     `db:"underlying_title"`
	UnderlyingShares *float64   `db:"underlying_shares"`
}

// Value returns the dollar value of the transaction (shares times price per
// share), or nil when either side was not reported.
func (transaction *InsiderTransaction) Value() *float64 {
	if transaction.Shares == nil || transaction.PricePerShare == nil {
		return nil
	}
	value := *transaction.Shares * *transaction.PricePerShare
	return &value
}

func (filing *InsiderFiling) MarshalZerologObject(e *zerolog.Event) {
	e.Str("Accession", filing.Accession)
	e.Str("IssuerCIK", filing.IssuerCIK)
	e.Str("OwnerName", filing.OwnerName)
	e.Int("NumTransactions", len(filing.Transactions))
}

// SaveDB writes the filing and its transactions in a single transaction.
// The stored transaction set is replaced wholesale on a re-save.
func (filing *InsiderFiling) SaveDB(ctx context.Context, filingTbl, transactionTbl string, dbConn *pgxpool.Conn) error {
	tx, err := dbConn.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if err := tx.Commit(ctx); err != nil {
			log.Error().Err(err).Msg("error committing insider transaction to database")
		}
	}()

	filingSQL := fmt.Sprintf(`INSERT INTO %[1]s (
		"accession",
		"issuer_cik",
		"issuer_name",
		"issuer_ticker",
		"owner_cik",
		"owner_name",
		"owner_title",
		"is_director",
		"is_officer",
		"is_ten_pct_owner",
		"period_of_report",
		"filing_date",
		"last_updated"
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
	) ON CONFLICT (accession) DO UPDATE SET
		issuer_cik = EXCLUDED.issuer_cik,
		issuer_name = EXCLUDED.issuer_name,
		issuer_ticker = EXCLUDED.issuer_ticker,
		owner_cik = EXCLUDED.owner_cik,
		owner_name = EXCLUDED.owner_name,
		owner_title = EXCLUDED.owner_title,
		is_director = EXCLUDED.is_director,
		is_officer = EXCLUDED.is_officer,
		is_ten_pct_owner = EXCLUDED.is_ten_pct_owner,
		period_of_report = EXCLUDED.period_of_report,
		filing_date = EXCLUDED.filing_date,
		last_updated = EXCLUDED.last_updated`, filingTbl)

	if _, err := tx.Exec(ctx, filingSQL,
		filing.Accession,
		filing.IssuerCIK,
		filing.IssuerName,
		filing.IssuerTicker,
		filing.OwnerCIK,
		filing.OwnerName,
		filing.OwnerTitle,
		filing.IsDirector,
		filing.IsOfficer,
		filing.IsTenPctOwner,
		filing.PeriodOfReport,
		filing.FilingDate,
		filing.LastUpdated,
	); err != nil {
		log.Error().Err(err).Str("SQL", filingSQL).Msg("save insider filing to DB failed")
		if err := tx.Rollback(ctx); err != nil {
			log.Error().Err(err).Msg("error rolling back transaction")
		}
		return err
	}

	clearSQL := fmt.Sprintf(`DELETE FROM %[1]s WHERE accession = $1`, transactionTbl)
	if _, err := tx.Exec(ctx, clearSQL, filing.Accession); err != nil {
		log.Error().Err(err).Str("SQL", clearSQL).Msg("clear stored insider transactions failed")
		if err := tx.Rollback(ctx); err != nil {
			log.Error().Err(err).Msg("error rolling back transaction")
		}
		return err
	}

	transactionSQL := fmt.Sprintf(`INSERT INTO %[1]s (
		"accession",
		"seq",
		"security_title",
		"transaction_date",
		"transaction_code",
		"action",
		"shares",
		"price_per_share",
		"transaction_value",
		"acquired_disposed",
		"shares_owned_after",
		"ownership_nature",
		"is_derivative",
		"exercise_price",
		"expiration_date",
		"underlying_title",
		"underlying_shares"
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17
	) ON CONFLICT (accession, seq) DO UPDATE SET
		security_title = EXCLUDED.security_title,
		transaction_date = EXCLUDED.transaction_date,
		transaction_code = EXCLUDED.transaction_code,
		action = EXCLUDED.action,
		shares = EXCLUDED.shares,
		price_per_share = EXCLUDED.price_per_share,
		transaction_value = EXCLUDED.transaction_value,
		acquired_disposed = EXCLUDED.acquired_disposed,
		shares_owned_after = EXCLUDED.shares_owned_after,
		ownership_nature = EXCLUDED.ownership_nature,
		is_derivative = EXCLUDED.is_derivative,
		exercise_price = EXCLUDED.exercise_price,
		expiration_date = EXCLUDED.expiration_date,
		underlying_title = EXCLUDED.underlying_title,
		underlying_shares = EXCLUDED.underlying_shares`, transactionTbl)

	for _, transaction := range filing.Transactions {
		if _, err := tx.Exec(ctx, transactionSQL,
			filing.Accession,
			transaction.Seq,
			transaction.SecurityTitle,
			transaction.TransactionDate,
			transaction.TransactionCode,
			transaction.Action,
			transaction.Shares,
			transaction.PricePerShare,
			transaction.Value(),
			transaction.AcquiredDisposed,
			transaction.SharesOwnedAfter,
			transaction.OwnershipNature,
			transaction.IsDerivative,
			transaction.ExercisePrice,
			transaction.ExpirationDate,
			transaction.UnderlyingTitle,
			transaction.UnderlyingShares,
		); err != nil {
			log.Error().Err(err).Str("SQL", transactionSQL).Int("Seq", transaction.Seq).Msg("save insider transaction to DB failed")
			if err := tx.Rollback(ctx); err != nil {
				log.Error().Err(err).Msg("error rolling back transaction")
			}
			return err
		}
	}

	return nil
}
