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
package xbrl

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/marketgrid/mgdata/data"
	"github.com/marketgrid/mgdata/edgar"
)

// Statements is the normalized output for one filer: one entry per statement
// type per reporting period that cleared its anchor gate.
type Statements struct {
	Income   []*data.IncomeStatement
	Balance  []*data.BalanceSheet
	CashFlow []*data.CashFlowStatement
}

// sourceMeta tracks provenance of the values matched for one period. The
// latest-filed matching fact wins so restatements supersede originals.
type sourceMeta struct {
	accn  string
	fy    int
	fp    string
	filed string
}

func (meta *sourceMeta) observe(fact edgar.FactValue) {
	if meta.accn == "" || fact.Filed > meta.filed {
		meta.accn = fact.Accn
		meta.fy = fact.FY
		meta.fp = fact.FP
		meta.filed = fact.Filed
	}
}

// durationValue finds the first synonym with a fact whose start and end both
// equal the target period. Instant facts never satisfy a duration lookup.
// Within the winning synonym the latest-filed matching fact is used.
func durationValue(facts *edgar.CompanyFacts, list conceptList, period Period, meta *sourceMeta) *float64 {
	startStr := period.Start.Format(dateLayout)
	endStr := period.End.Format(dateLayout)

	for _, name := range list.concepts {
		concept, ok := facts.Concept(taxonomyGAAP, name)
		if !ok {
			continue
		}

		var best *edgar.FactValue
		for idx, fact := range concept.Units[list.unit] {
			if fact.IsInstant() {
				continue
			}
			if fact.Start != startStr || fact.End != endStr {
				continue
			}
			if best == nil || fact.Filed > best.Filed {
				best = &concept.Units[list.unit][idx]
			}
		}

		if best != nil {
			meta.observe(*best)
			val := best.Val
			if list.negate && val > 0 {
				val = -val
			}
			return &val
		}
	}

	return nil
}

// instantValue finds the first synonym with a fact that has no start date and
// whose end equals the target date. Duration facts never satisfy an instant
// lookup.
func instantValue(facts *edgar.CompanyFacts, list conceptList, end time.Time, meta *sourceMeta) *float64 {
	endStr := end.Format(dateLayout)

	for _, name := range list.concepts {
		concept, ok := facts.Concept(taxonomyGAAP, name)
		if !ok {
			continue
		}

		var best *edgar.FactValue
		for idx, fact := range concept.Units[list.unit] {
			if !fact.IsInstant() {
				continue
			}
			if fact.End != endStr {
				continue
			}
			if best == nil || fact.Filed > best.Filed {
				best = &concept.Units[list.unit][idx]
			}
		}

		if best != nil {
			meta.observe(*best)
			val := best.Val
			if list.negate && val > 0 {
				val = -val
			}
			return &val
		}
	}

	return nil
}

func fieldList(lists []conceptList, field string) conceptList {
	for _, list := range lists {
		if list.field == field {
			return list
		}
	}
	return conceptList{field: field}
}

// Normalize converts a filer's raw fact set into normalized statements. Each
// distinct duration period yields at most one income statement, one cash-flow
// statement, and one balance sheet dated at the period end. Periods missing
// their anchor field (revenue or net income; total assets; operating cash
// flow) are skipped as noise. Missing non-anchor fields stay nil.
func Normalize(ctx context.Context, cik string, facts *edgar.CompanyFacts) *Statements {
	subLog := zerolog.Ctx(ctx)
	now := time.Now()

	statements := &Statements{}
	balanceSeen := make(map[data.StatementKey]bool)

	for _, period := range CollectPeriods(facts) {
		kind := period.Kind()
		key := data.StatementKey{CIK: cik, ReportPeriod: period.End, PeriodKind: kind}

		if income := normalizeIncome(facts, key, period, now); income != nil {
			statements.Income = append(statements.Income, income)
		}

		if cashFlow := normalizeCashFlow(facts, key, period, now); cashFlow != nil {
			statements.CashFlow = append(statements.CashFlow, cashFlow)
		}

		if !balanceSeen[key] {
			if balance := normalizeBalance(facts, key, period.End, now); balance != nil {
				balanceSeen[key] = true
				statements.Balance = append(statements.Balance, balance)
			}
		}
	}

	subLog.Debug().
		Str("CIK", cik).
		Int("NumIncome", len(statements.Income)).
		Int("NumBalance", len(statements.Balance)).
		Int("NumCashFlow", len(statements.CashFlow)).
		Msg("normalized company facts")

	return statements
}

func normalizeIncome(facts *edgar.CompanyFacts, key data.StatementKey, period Period, now time.Time) *data.IncomeStatement {
	var meta sourceMeta

	statement := &data.IncomeStatement{
		StatementKey: key,
		PeriodStart:  period.Start,
		LastUpdated:  now,
	}

	statement.Revenue = durationValue(facts, fieldList(incomeConcepts, "revenue"), period, &meta)
	statement.NetIncome = durationValue(facts, fieldList(incomeConcepts, "netIncome"), period, &meta)

	if statement.Revenue == nil && statement.NetIncome == nil {
		return nil
	}

	statement.CostOfRevenue = durationValue(facts, fieldList(incomeConcepts, "costOfRevenue"), period, &meta)
	statement.GrossProfit = durationValue(facts, fieldList(incomeConcepts, "grossProfit"), period, &meta)
	statement.OperatingExpenses = durationValue(facts, fieldList(incomeConcepts, "operatingExpenses"), period, &meta)
	statement.OperatingIncome = durationValue(facts, fieldList(incomeConcepts, "operatingIncome"), period, &meta)
	statement.InterestExpense = durationValue(facts, fieldList(incomeConcepts, "interestExpense"), period, &meta)
	statement.IncomeTaxExpense = durationValue(facts, fieldList(incomeConcepts, "incomeTaxExpense"), period, &meta)
	statement.EPS = durationValue(facts, fieldList(incomeConcepts, "eps"), period, &meta)
	statement.EPSDiluted = durationValue(facts, fieldList(incomeConcepts, "epsDiluted"), period, &meta)

	if statement.GrossProfit == nil && statement.Revenue != nil && statement.CostOfRevenue != nil {
		statement.GrossProfit = data.Float(*statement.Revenue - *statement.CostOfRevenue)
	}

	statement.FiscalYear = meta.fy
	statement.FiscalPeriod = meta.fp
	statement.SourceAccession = meta.accn

	return statement
}

func normalizeCashFlow(facts *edgar.CompanyFacts, key data.StatementKey, period Period, now time.Time) *data.CashFlowStatement {
	var meta sourceMeta

	statement := &data.CashFlowStatement{
		StatementKey: key,
		PeriodStart:  period.Start,
		LastUpdated:  now,
	}

	statement.OperatingCashFlow = durationValue(facts, fieldList(cashFlowConcepts, "operatingCashFlow"), period, &meta)
	if statement.OperatingCashFlow == nil {
		return nil
	}

	statement.CapitalExpenditure = durationValue(facts, fieldList(cashFlowConcepts, "capitalExpenditure"), period, &meta)
	statement.FreeCashFlow = durationValue(facts, fieldList(cashFlowConcepts, "freeCashFlow"), period, &meta)
	statement.InvestingCashFlow = durationValue(facts, fieldList(cashFlowConcepts, "investingCashFlow"), period, &meta)
	statement.FinancingCashFlow = durationValue(facts, fieldList(cashFlowConcepts, "financingCashFlow"), period, &meta)
	statement.DepreciationAmortization = durationValue(facts, fieldList(cashFlowConcepts, "depreciationAmortization"), period, &meta)
	statement.DividendsPaid = durationValue(facts, fieldList(cashFlowConcepts, "dividendsPaid"), period, &meta)
	statement.ShareBasedCompensation = durationValue(facts, fieldList(cashFlowConcepts, "shareBasedCompensation"), period, &meta)
	statement.NetChangeInCash = durationValue(facts, fieldList(cashFlowConcepts, "netChangeInCash"), period, &meta)

	// Capex is stored as an outflow, so free cash flow is a sum.
	if statement.FreeCashFlow == nil && statement.CapitalExpenditure != nil {
		statement.FreeCashFlow = data.Float(*statement.OperatingCashFlow + *statement.CapitalExpenditure)
	}

	statement.FiscalYear = meta.fy
	statement.FiscalPeriod = meta.fp
	statement.SourceAccession = meta.accn

	return statement
}

func normalizeBalance(facts *edgar.CompanyFacts, key data.StatementKey, end time.Time, now time.Time) *data.BalanceSheet {
	var meta sourceMeta

	statement := &data.BalanceSheet{
		StatementKey: key,
		LastUpdated:  now,
	}

	statement.TotalAssets = instantValue(facts, fieldList(balanceConcepts, "totalAssets"), end, &meta)
	if statement.TotalAssets == nil {
		return nil
	}

	statement.CurrentAssets = instantValue(facts, fieldList(balanceConcepts, "currentAssets"), end, &meta)
	statement.CashAndEquivalents = instantValue(facts, fieldList(balanceConcepts, "cashAndEquivalents"), end, &meta)
	statement.Inventory = instantValue(facts, fieldList(balanceConcepts, "inventory"), end, &meta)
	statement.Receivables = instantValue(facts, fieldList(balanceConcepts, "receivables"), end, &meta)
	statement.TotalLiabilities = instantValue(facts, fieldList(balanceConcepts, "totalLiabilities"), end, &meta)
	statement.CurrentLiabilities = instantValue(facts, fieldList(balanceConcepts, "currentLiabilities"), end, &meta)
	statement.TotalDebt = instantValue(facts, fieldList(balanceConcepts, "totalDebt"), end, &meta)
	statement.Equity = instantValue(facts, fieldList(balanceConcepts, "equity"), end, &meta)

	statement.FiscalYear = meta.fy
	statement.FiscalPeriod = meta.fp
	statement.SourceAccession = meta.accn

	return statement
}

// NumStatements is the total count across all three statement types.
func (statements *Statements) NumStatements() int {
	return len(statements.Income) + len(statements.Balance) + len(statements.CashFlow)
}

func (statements *Statements) MarshalZerologObject(e *zerolog.Event) {
	e.Int("NumIncome", len(statements.Income))
	e.Int("NumBalance", len(statements.Balance))
	e.Int("NumCashFlow", len(statements.CashFlow))
}
