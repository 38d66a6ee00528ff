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

// StatementKey identifies one normalized statement row. The upsert conflict
// key is (cik, report_period, period_kind) within each statement table; at
// most one statement exists per key per statement type.
type StatementKey struct {
	CIK          string     `db:"cik"`
	ReportPeriod time.Time  `db:"report_period"`
	PeriodKind   PeriodKind `db:"period_kind"`
}

// IncomeStatement is a normalized income statement for one reporting period.
// Every value field is optional: filers report under many taxonomy vintages
// and a missing concept is normal, never an error.
type IncomeStatement struct {
	StatementKey

	PeriodStart     time.Time `db:"period_start"`
	FiscalYear      int       `db:"fiscal_year"`
	FiscalPeriod    string    `db:"fiscal_period"`
	SourceAccession string    `db:"source_accession"`
	LastUpdated     time.Time `db:"last_updated"`

	Revenue           *float64 `db:"revenue"`
	CostOfRevenue     *float64 `db:"cost_of_revenue"`
	GrossProfit       *float64 `db:"gross_profit"`
	OperatingExpenses *float64 `db:"operating_expenses"`
	OperatingIncome   *float64 `db:"operating_income"`
	InterestExpense   *float64 `db:"interest_expense"`
	IncomeTaxExpense  *float64 `db:"income_tax_expense"`
	NetIncome         *float64 `db:"net_income"`
	EPS               *float64 `db:"eps"`
	EPSDiluted        *float64 `db:"eps_diluted"`
}

// BalanceSheet is a normalized balance sheet as of one report date.
type BalanceSheet struct {
	StatementKey

	FiscalYear      int       `db:"fiscal_year"`
	FiscalPeriod    string    `db:"fiscal_period"`
	SourceAccession string    `db:"source_accession"`
	LastUpdated     time.Time `db:"last_updated"`

	TotalAssets        *float64 `db:"total_assets"`
	CurrentAssets      *float64 `db:"current_assets"`
	CashAndEquivalents *float64 `db:"cash_and_equivalents"`
	Inventory          *float64 `db:"inventory"`
	Receivables        *float64 `db:"receivables"`
	TotalLiabilities   *float64 `db:"total_liabilities"`
	CurrentLiabilities *float64 `db:"current_liabilities"`
	TotalDebt          *float64 `db:"total_debt"`
	Equity             *float64 `db:"equity"`
}

// CashFlowStatement is a normalized cash-flow statement for one reporting
// period. CapitalExpenditure keeps the sign reported by the filer (an
// outflow, so negative).
type CashFlowStatement struct {
	StatementKey

	PeriodStart     time.Time `db:"period_start"`
	FiscalYear      int       `db:"fiscal_year"`
	FiscalPeriod    string    `db:"fiscal_period"`
	SourceAccession string    `db:"source_accession"`
	LastUpdated     time.Time `db:"last_updated"`

	OperatingCashFlow        *float64 `db:"operating_cash_flow"`
	CapitalExpenditure       *float64 `db:"capital_expenditure"`
	FreeCashFlow             *float64 `db:"free_cash_flow"`
	InvestingCashFlow        *float64 `db:"investing_cash_flow"`
	FinancingCashFlow        *float64 `db:"financing_cash_flow"`
	DepreciationAmortization *float64 `db:"depreciation_amortization"`
	DividendsPaid            *float64 `db:"dividends_paid"`
	ShareBasedCompensation   *float64 `db:"share_based_compensation"`
	NetChangeInCash          *float64 `db:"net_change_in_cash"`
}

func (statement *IncomeStatement) MarshalZerologObject(e *zerolog.Event) {
	e.Str("CIK", statement.CIK)
	e.Time("ReportPeriod", statement.ReportPeriod)
	e.Str("PeriodKind", string(statement.PeriodKind))
}

// upsertReturningCreated runs an upsert and reports whether the row was newly
// inserted. xmax is zero for rows created in the current transaction, which
// lets a single statement distinguish insert from update.
func upsertReturningCreated(ctx context.Context, dbConn *pgxpool.Conn, sql string, args ...any) (bool, error) {
	tx, err := dbConn.Begin(ctx)
	if err != nil {
		return false, err
	}

	defer func() {
		if err := tx.Commit(ctx); err != nil {
			log.Error().Err(err).Msg("error committing statement transaction to database")
		}
	}()

	var created bool
	if err := tx.QueryRow(ctx, sql, args...).Scan(&created); err != nil {
		log.Error().Err(err).Str("SQL", sql).Msg("save statement to DB failed")
		return false, err
	}

	return created, nil
}

func (statement *IncomeStatement) SaveDB(ctx context.Context, tbl string, dbConn *pgxpool.Conn) (bool, error) {
	sql := fmt.Sprintf(`INSERT INTO %[1]s (
		"cik",
		"report_period",
		"period_kind",
		"period_start",
		"fiscal_year",
		"fiscal_period",
		"source_accession",
		"last_updated",
		"revenue",
		"cost_of_revenue",
		"gross_profit",
		"operating_expenses",
		"operating_income",
		"interest_expense",
		"income_tax_expense",
		"net_income",
		"eps",
		"eps_diluted"
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18
	) ON CONFLICT (cik, report_period, period_kind) DO UPDATE SET
		period_start = EXCLUDED.period_start,
		fiscal_year = EXCLUDED.fiscal_year,
		fiscal_period = EXCLUDED.fiscal_period,
		source_accession = EXCLUDED.source_accession,
		last_updated = EXCLUDED.last_updated,
		revenue = EXCLUDED.revenue,
		cost_of_revenue = EXCLUDED.cost_of_revenue,
		gross_profit = EXCLUDED.gross_profit,
		operating_expenses = EXCLUDED.operating_expenses,
		operating_income = EXCLUDED.operating_income,
		interest_expense = EXCLUDED.interest_expense,
		income_tax_expense = EXCLUDED.income_tax_expense,
		net_income = EXCLUDED.net_income,
		eps = EXCLUDED.eps,
		eps_diluted = EXCLUDED.eps_diluted
	RETURNING (xmax = 0)`, tbl)

	return upsertReturningCreated(ctx, dbConn, sql,
		statement.CIK,
		statement.ReportPeriod,
		statement.PeriodKind,
		statement.PeriodStart,
		statement.FiscalYear,
		statement.FiscalPeriod,
		statement.SourceAccession,
		statement.LastUpdated,
		statement.Revenue,
		statement.CostOfRevenue,
		statement.GrossProfit,
		statement.OperatingExpenses,
		statement.OperatingIncome,
		statement.InterestExpense,
		statement.IncomeTaxExpense,
		statement.NetIncome,
		statement.EPS,
		statement.EPSDiluted,
	)
}

func (statement *BalanceSheet) SaveDB(ctx context.Context, tbl string, dbConn *pgxpool.Conn) (bool, error) {
	sql := fmt.Sprintf(`INSERT INTO %[1]s (
		"cik",
		"report_period",
		"period_kind",
		"fiscal_year",
		"fiscal_period",
		"source_accession",
		"last_updated",
		"total_assets",
		"current_assets",
		"cash_and_equivalents",
		"inventory",
		"receivables",
		"total_liabilities",
		"current_liabilities",
		"total_debt",
		"equity"
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16
	) ON CONFLICT (cik, report_period, period_kind) DO UPDATE SET
		fiscal_year = EXCLUDED.fiscal_year,
		fiscal_period = EXCLUDED.fiscal_period,
		source_accession = EXCLUDED.source_accession,
		last_updated = EXCLUDED.last_updated,
		total_assets = EXCLUDED.total_assets,
		current_assets = EXCLUDED.current_assets,
		cash_and_equivalents = EXCLUDED.cash_and_equivalents,
		inventory = EXCLUDED.inventory,
		receivables = EXCLUDED.receivables,
		total_liabilities = EXCLUDED.total_liabilities,
		current_liabilities = EXCLUDED.current_liabilities,
		total_debt = EXCLUDED.total_debt,
		equity = EXCLUDED.equity
	RETURNING (xmax = 0)`, tbl)

	return upsertReturningCreated(ctx, dbConn, sql,
		statement.CIK,
		statement.ReportPeriod,
		statement.PeriodKind,
		statement.FiscalYear,
		statement.FiscalPeriod,
		statement.SourceAccession,
		statement.LastUpdated,
		statement.TotalAssets,
		statement.CurrentAssets,
		statement.CashAndEquivalents,
		statement.Inventory,
		statement.Receivables,
		statement.TotalLiabilities,
		statement.CurrentLiabilities,
		statement.TotalDebt,
		statement.Equity,
	)
}

func (statement *CashFlowStatement) SaveDB(ctx context.Context, tbl string, dbConn *pgxpool.Conn) (bool, error) {
	sql := fmt.Sprintf(`INSERT INTO %[1]s (
		"cik",
		"report_period",
		"period_kind",
		"period_start",
		"fiscal_year",
		"fiscal_period",
		"source_accession",
		"last_updated",
		"operating_cash_flow",
		"capital_expenditure",
		"free_cash_flow",
		"investing_cash_flow",
		"financing_cash_flow",
		"depreciation_amortization",
		"dividends_paid",
		"share_based_compensation",
		"net_change_in_cash"
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17
	) ON CONFLICT (cik, report_period, period_kind) DO UPDATE SET
		period_start = EXCLUDED.period_start,
		fiscal_year = EXCLUDED.fiscal_year,
		fiscal_period = EXCLUDED.fiscal_period,
		source_accession = EXCLUDED.source_accession,
		last_updated = EXCLUDED.last_updated,
		operating_cash_flow = EXCLUDED.operating_cash_flow,
		capital_expenditure = EXCLUDED.capital_expenditure,
		free_cash_flow = EXCLUDED.free_cash_flow,
		investing_cash_flow = EXCLUDED.investing_cash_flow,
		financing_cash_flow = EXCLUDED.financing_cash_flow,
		depreciation_amortization = EXCLUDED.depreciation_amortization,
		dividends_paid = EXCLUDED.dividends_paid,
		share_based_compensation = EXCLUDED.share_based_compensation,
		net_change_in_cash = EXCLUDED.net_change_in_cash
	RETURNING (xmax = 0)`, tbl)

	return upsertReturningCreated(ctx, dbConn, sql,
		statement.CIK,
		statement.ReportPeriod,
		statement.PeriodKind,
		statement.PeriodStart,
		statement.FiscalYear,
		statement.FiscalPeriod,
		statement.SourceAccession,
		statement.LastUpdated,
		statement.OperatingCashFlow,
		statement.CapitalExpenditure,
		statement.FreeCashFlow,
		statement.InvestingCashFlow,
		statement.FinancingCashFlow,
		statement.DepreciationAmortization,
		statement.DividendsPaid,
		statement.ShareBasedCompensation,
		statement.NetChangeInCash,
	)
}
