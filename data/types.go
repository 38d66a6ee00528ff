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

// PeriodKind labels the reporting span covered by a normalized statement.
type PeriodKind string

const (
	Annual    PeriodKind = "annual"
	Quarterly PeriodKind = "quarterly"
	TTM       PeriodKind = "ttm"
)

// StatementType identifies which financial statement a normalized row
// belongs to.
type StatementType string

const (
	IncomeStatementType   StatementType = "income"
	BalanceSheetType      StatementType = "balance"
	CashFlowStatementType StatementType = "cashflow"
)

// SyncStatus is the terminal status of an orchestrator run. A run that
// persisted nothing and collected at least one error is FAILED; any mix of
// persisted units and errors is PARTIAL.
type SyncStatus string

const (
	SyncCompleted SyncStatus = "COMPLETED"
	SyncPartial   SyncStatus = "PARTIAL"
	SyncFailed    SyncStatus = "FAILED"
)

// FilingKind tags processed-filing state rows.
type FilingKind string

const (
	HoldingsKind   FilingKind = "holdings"
	InsiderKind    FilingKind = "insider"
	FinancialsKind FilingKind = "financials"
)

// Float returns a pointer to v; convenience for optional statement fields.
func Float(v float64) *float64 {
	return &v
}
