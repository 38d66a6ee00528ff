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

// Package xbrl maps company-facts concept data onto normalized financial
// statements. Filers tag the same economic line item under different concept
// names across taxonomy vintages, so every canonical field carries an
// ordered synonym list; the first synonym with a value for the target period
// wins and later synonyms are never consulted.
package xbrl

const taxonomyGAAP = "us-gaap"

const (
	unitUSD       = "USD"
	unitUSDShares = "USD/shares"
)

// conceptList binds one canonical field to its synonyms in priority order.
// negate flips the sign of matched values; payment concepts are tagged as
// positive magnitudes but normalized statements store outflows as negative.
type conceptList struct {
	field    string
	unit     string
	negate   bool
	concepts []string
}

var incomeConcepts = []conceptList{
	{field: "revenue", unit: unitUSD, concepts: []string{
		"Revenues",
		"RevenueFromContractWithCustomerExcludingAssessedTax",
		"RevenueFromContractWithCustomerIncludingAssessedTax",
		"SalesRevenueNet",
		"SalesRevenueGoodsNet",
		"SalesRevenueServicesNet",
	}},
	{field: "costOfRevenue", unit: unitUSD, concepts: []string{
		"CostOfRevenue",
		"CostOfGoodsAndServicesSold",
		"CostOfGoodsSold",
		"CostOfServices",
	}},
	{field: "grossProfit", unit: unitUSD, concepts: []string{
		"GrossProfit",
	}},
	{field: "operatingExpenses", unit: unitUSD, concepts: []string{
		"OperatingExpenses",
		"CostsAndExpenses",
	}},
	{field: "operatingIncome", unit: unitUSD, concepts: []string{
		"OperatingIncomeLoss",
	}},
	{field: "interestExpense", unit: unitUSD, concepts: []string{
		"InterestExpense",
		"InterestExpenseDebt",
		"InterestIncomeExpenseNet",
	}},
	{field: "incomeTaxExpense", unit: unitUSD, concepts: []string{
		"IncomeTaxExpenseBenefit",
		"CurrentIncomeTaxExpenseBenefit",
	}},
	{field: "netIncome", unit: unitUSD, concepts: []string{
		"NetIncomeLoss",
		"ProfitLoss",
		"NetIncomeLossAvailableToCommonStockholdersBasic",
	}},
	{field: "eps", unit: unitUSDShares, concepts: []string{
		"EarningsPerShareBasic",
		"IncomeLossFromContinuingOperationsPerBasicShare",
	}},
	{field: "epsDiluted", unit: unitUSDShares, concepts: []string{
		"EarningsPerShareDiluted",
		"IncomeLossFromContinuingOperationsPerDilutedShare",
	}},
}

var balanceConcepts = []conceptList{
	{field: "totalAssets", unit: unitUSD, concepts: []string{
		"Assets",
	}},
	{field: "currentAssets", unit: unitUSD, concepts: []string{
		"AssetsCurrent",
	}},
	{field: "cashAndEquivalents", unit: unitUSD, concepts: []string{
		"CashAndCashEquivalentsAtCarryingValue",
		"CashCashEquivalentsRestrictedCashAndRestrictedCashEquivalents",
	}},
	{field: "inventory", unit: unitUSD, concepts: []string{
		"InventoryNet",
		"InventoryGross",
	}},
	{field: "receivables", unit: unitUSD, concepts: []string{
		"AccountsReceivableNetCurrent",
		"ReceivablesNetCurrent",
	}},
	{field: "totalLiabilities", unit: unitUSD, concepts: []string{
		"Liabilities",
	}},
	{field: "currentLiabilities", unit: unitUSD, concepts: []string{
		"LiabilitiesCurrent",
	}},
	{field: "totalDebt", unit: unitUSD, concepts: []string{
		"DebtLongtermAndShorttermCombinedAmount",
		"LongTermDebt",
		"LongTermDebtNoncurrent",
	}},
	{field: "equity", unit: unitUSD, concepts: []string{
		"StockholdersEquity",
		"StockholdersEquityIncludingPortionAttributableToNoncontrollingInterest",
	}},
}

var cashFlowConcepts = []conceptList{
	{field: "operatingCashFlow", unit: unitUSD, concepts: []string{
		"NetCashProvidedByUsedInOperatingActivities",
		"NetCashProvidedByUsedInOperatingActivitiesContinuingOperations",
	}},
	{field: "capitalExpenditure", unit: unitUSD, negate: true, concepts: []string{
		"PaymentsToAcquirePropertyPlantAndEquipment",
		"PaymentsToAcquireProductiveAssets",
	}},
	{field: "freeCashFlow", unit: unitUSD, concepts: []string{
		"FreeCashFlow",
	}},
	{field: "investingCashFlow", unit: unitUSD, concepts: []string{
		"NetCashProvidedByUsedInInvestingActivities",
		"NetCashProvidedByUsedInInvestingActivitiesContinuingOperations",
	}},
	{field: "financingCashFlow", unit: unitUSD, concepts: []string{
		"NetCashProvidedByUsedInFinancingActivities",
		"NetCashProvidedByUsedInFinancingActivitiesContinuingOperations",
	}},
	{field: "depreciationAmortization", unit: unitUSD, concepts: []string{
		"DepreciationDepletionAndAmortization",
		"DepreciationAmortizationAndAccretionNet",
		"Depreciation",
	}},
	{field: "dividendsPaid", unit: unitUSD, negate: true, concepts: []string{
		"PaymentsOfDividends",
		"PaymentsOfDividendsCommonStock",
	}},
	{field: "shareBasedCompensation", unit: unitUSD, concepts: []string{
		"ShareBasedCompensation",
	}},
	{field: "netChangeInCash", unit: unitUSD, concepts: []string{
		"CashCashEquivalentsRestrictedCashAndRestrictedCashEquivalentsPeriodIncreaseDecreaseIncludingExchangeRateEffect",
		"CashAndCashEquivalentsPeriodIncreaseDecrease",
	}},
}
