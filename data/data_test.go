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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSyncRunFinish(t *testing.T) {
	tests := []struct {
		name      string
		processed int
		errors    int
		want      SyncStatus
	}{
		{"no errors", 5, 0, SyncCompleted},
		{"nothing processed no errors", 0, 0, SyncCompleted},
		{"all failed", 0, 3, SyncFailed},
		{"mixed", 4, 1, SyncPartial},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run := NewSyncRun(HoldingsKind)
			run.NumProcessed = tt.processed
			run.NumErrors = tt.errors
			run.Finish()
			assert.Equal(t, tt.want, run.Status)
			assert.False(t, run.FinishedAt.IsZero())
		})
	}
}

func TestInsiderTransactionValue(t *testing.T) {
	transaction := &InsiderTransaction{
		TransactionCode: "P",
		Action:          "Buy",
		Shares:          Float(500),
		PricePerShare:   Float(10),
	}
	value := transaction.Value()
	if assert.NotNil(t, value) {
		assert.InDelta(t, 5000.0, *value, 1e-9)
	}

	noPrice := &InsiderTransaction{Shares: Float(500)}
	assert.Nil(t, noPrice.Value())
}

func TestHoldingsFilingTotalPortfolioValue(t *testing.T) {
	filing := &HoldingsFiling{
		Holdings: []*Holding{
			{CUSIP: "037833100", Value: 1500000},
			{CUSIP: "594918104", Value: 250000},
		},
	}
	assert.InDelta(t, 1750000.0, filing.TotalPortfolioValue(), 1e-9)
}
