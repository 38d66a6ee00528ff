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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketgrid/mgdata/data"
	"github.com/marketgrid/mgdata/edgar"
)

func usdConcept(values ...edgar.FactValue) edgar.ConceptFacts {
	return edgar.ConceptFacts{Units: map[string][]edgar.FactValue{"USD": values}}
}

func annualFact(val float64) edgar.FactValue {
	return edgar.FactValue{
		Start: "2023-01-01",
		End:   "2023-12-31",
		Val:   val,
		Accn:  "0000320193-24-000001",
		FY:    2023,
		FP:    "FY",
		Form:  "10-K",
		Filed: "2024-02-01",
	}
}

func instantFact(val float64) edgar.FactValue {
	fact := annualFact(val)
	fact.Start = ""
	return fact
}

func testFacts(concepts map[string]edgar.ConceptFacts) *edgar.CompanyFacts {
	return &edgar.CompanyFacts{
		CIK:        320193,
		EntityName: "Test Corp",
		Facts:      map[string]map[string]edgar.ConceptFacts{"us-gaap": concepts},
	}
}

func TestNormalizeSynonymPriority(t *testing.T) {
	facts := testFacts(map[string]edgar.ConceptFacts{
		"Revenues":        usdConcept(annualFact(100)),
		"SalesRevenueNet": usdConcept(annualFact(200)),
	})

	statements := Normalize(context.Background(), "320193", facts)
	require.Len(t, statements.Income, 1)
	require.NotNil(t, statements.Income[0].Revenue)
	assert.InDelta(t, 100, *statements.Income[0].Revenue, 1e-9)
}

func TestNormalizeInstantNeverMatchesDuration(t *testing.T) {
	// a start-less fact whose end matches the period must not satisfy an
	// income-statement lookup
	facts := testFacts(map[string]edgar.ConceptFacts{
		"Revenues":      usdConcept(instantFact(999), annualFact(100)),
		"NetIncomeLoss": usdConcept(instantFact(50)),
	})

	statements := Normalize(context.Background(), "320193", facts)
	require.Len(t, statements.Income, 1)

	income := statements.Income[0]
	require.NotNil(t, income.Revenue)
	assert.InDelta(t, 100, *income.Revenue, 1e-9)
	assert.Nil(t, income.NetIncome)
}

func TestNormalizeDurationNeverMatchesInstant(t *testing.T) {
	facts := testFacts(map[string]edgar.ConceptFacts{
		"Revenues": usdConcept(annualFact(100)),
		// Assets reported only as a duration fact is malformed input and
		// must not produce a balance sheet
		"Assets": usdConcept(annualFact(5000)),
	})

	statements := Normalize(context.Background(), "320193", facts)
	assert.Len(t, statements.Income, 1)
	assert.Empty(t, statements.Balance)
}

func TestNormalizeDerivedFields(t *testing.T) {
	facts := testFacts(map[string]edgar.ConceptFacts{
		"Revenues":      usdConcept(annualFact(1000)),
		"CostOfRevenue": usdConcept(annualFact(600)),
		"NetCashProvidedByUsedInOperatingActivities": usdConcept(annualFact(300)),
		"PaymentsToAcquirePropertyPlantAndEquipment": usdConcept(annualFact(120)),
	})

	statements := Normalize(context.Background(), "320193", facts)

	require.Len(t, statements.Income, 1)
	require.NotNil(t, statements.Income[0].GrossProfit)
	assert.InDelta(t, 400, *statements.Income[0].GrossProfit, 1e-9)

	require.Len(t, statements.CashFlow, 1)
	cashFlow := statements.CashFlow[0]
	require.NotNil(t, cashFlow.CapitalExpenditure)
	assert.InDelta(t, -120, *cashFlow.CapitalExpenditure, 1e-9)
	require.NotNil(t, cashFlow.FreeCashFlow)
	assert.InDelta(t, 180, *cashFlow.FreeCashFlow, 1e-9)
}

func TestNormalizeAnchorGate(t *testing.T) {
	// operating expenses alone cannot anchor an income statement; total
	// assets anchors a balance sheet only when a duration period exists to
	// date it
	facts := testFacts(map[string]edgar.ConceptFacts{
		"OperatingExpenses": usdConcept(annualFact(250)),
		"Assets":            usdConcept(instantFact(5000)),
	})

	statements := Normalize(context.Background(), "320193", facts)
	assert.Empty(t, statements.Income)
	assert.Empty(t, statements.CashFlow)
	require.Len(t, statements.Balance, 1)
	assert.InDelta(t, 5000, *statements.Balance[0].TotalAssets, 1e-9)
	assert.Equal(t, data.Annual, statements.Balance[0].PeriodKind)
}

func TestNormalizeRestatementWins(t *testing.T) {
	restated := annualFact(105)
	restated.Filed = "2025-02-01"
	restated.Accn = "0000320193-25-000001"

	facts := testFacts(map[string]edgar.ConceptFacts{
		"Revenues": usdConcept(annualFact(100), restated),
	})

	statements := Normalize(context.Background(), "320193", facts)
	require.Len(t, statements.Income, 1)
	assert.InDelta(t, 105, *statements.Income[0].Revenue, 1e-9)
	assert.Equal(t, "0000320193-25-000001", statements.Income[0].SourceAccession)
}

func TestNormalizeProvenance(t *testing.T) {
	facts := testFacts(map[string]edgar.ConceptFacts{
		"Revenues": usdConcept(annualFact(100)),
	})

	statements := Normalize(context.Background(), "320193", facts)
	require.Len(t, statements.Income, 1)

	income := statements.Income[0]
	assert.Equal(t, 2023, income.FiscalYear)
	assert.Equal(t, "FY", income.FiscalPeriod)
	assert.Equal(t, "0000320193-24-000001", income.SourceAccession)
	assert.Equal(t, "320193", income.CIK)
	assert.Equal(t, data.Annual, income.PeriodKind)
}

func TestNormalizeMultiplePeriods(t *testing.T) {
	fy22 := edgar.FactValue{
		Start: "2022-01-01", End: "2022-12-31",
		Accn: "0000320193-23-000001", FY: 2022, FP: "FY", Form: "10-K", Filed: "2023-02-01",
	}
	fy23 := edgar.FactValue{
		Start: "2023-01-01", End: "2023-12-31",
		Accn: "0000320193-24-000001", FY: 2023, FP: "FY", Form: "10-K", Filed: "2024-02-01",
	}
	q1 := edgar.FactValue{
		Start: "2023-01-01", End: "2023-03-31",
		Accn: "0000320193-23-000042", FY: 2023, FP: "Q1", Form: "10-Q", Filed: "2023-05-01",
	}

	with := func(fact edgar.FactValue, val float64) edgar.FactValue {
		fact.Val = val
		return fact
	}

	facts := testFacts(map[string]edgar.ConceptFacts{
		"Revenues":      usdConcept(with(fy22, 1000), with(fy23, 1200), with(q1, 280)),
		"NetIncomeLoss": usdConcept(with(fy22, 100), with(fy23, 150), with(q1, 30)),
	})

	statements := Normalize(context.Background(), "320193", facts)
	require.Len(t, statements.Income, 3)

	keys := make(map[data.StatementKey]bool)
	var annual, quarterly int
	for _, income := range statements.Income {
		assert.False(t, keys[income.StatementKey], "duplicate key %+v", income.StatementKey)
		keys[income.StatementKey] = true

		switch income.PeriodKind {
		case data.Annual:
			annual++
		case data.Quarterly:
			quarterly++
		}

		// costOfRevenue was never reported so grossProfit must not be derived
		assert.Nil(t, income.GrossProfit)
	}

	assert.Equal(t, 2, annual)
	assert.Equal(t, 1, quarterly)
}
