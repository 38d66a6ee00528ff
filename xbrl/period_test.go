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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/marketgrid/mgdata/data"
	"github.com/marketgrid/mgdata/edgar"
)

func day(value string) time.Time {
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return parsed
}

func TestClassifyPeriod(t *testing.T) {
	end := day("2023-12-31")

	testCases := []struct {
		name     string
		spanDays int
		expected data.PeriodKind
	}{
		{name: "leap year annual", spanDays: 366, expected: data.Annual},
		{name: "standard annual", spanDays: 365, expected: data.Annual},
		{name: "just above annual boundary", spanDays: 351, expected: data.Annual},
		{name: "exactly 350 days is quarterly", spanDays: 350, expected: data.Quarterly},
		{name: "just below 350 days is ttm", spanDays: 349, expected: data.TTM},
		{name: "200 day stub is ttm", spanDays: 200, expected: data.TTM},
		{name: "just above ttm boundary", spanDays: 181, expected: data.TTM},
		{name: "exactly 180 days is quarterly", spanDays: 180, expected: data.Quarterly},
		{name: "calendar quarter", spanDays: 92, expected: data.Quarterly},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			start := end.AddDate(0, 0, -testCase.spanDays)
			assert.Equal(t, testCase.expected, ClassifyPeriod(start, end))
		})
	}
}

func TestCollectPeriods(t *testing.T) {
	facts := &edgar.CompanyFacts{
		CIK:        320193,
		EntityName: "Test Corp",
		Facts: map[string]map[string]edgar.ConceptFacts{
			"us-gaap": {
				"Revenues": {
					Units: map[string][]edgar.FactValue{
						"USD": {
							{Start: "2023-01-01", End: "2023-12-31", Val: 400},
							{Start: "2023-10-01", End: "2023-12-31", Val: 100},
							// restatement of the same period is not a new period
							{Start: "2023-01-01", End: "2023-12-31", Val: 401, Filed: "2024-06-01"},
						},
					},
				},
				"Assets": {
					Units: map[string][]edgar.FactValue{
						"USD": {
							// instant facts define no periods
							{End: "2023-12-31", Val: 9000},
						},
					},
				},
			},
		},
	}

	periods := CollectPeriods(facts)
	assert.Len(t, periods, 2)
	assert.Equal(t, day("2023-01-01"), periods[0].Start)
	assert.Equal(t, day("2023-12-31"), periods[0].End)
	assert.Equal(t, day("2023-10-01"), periods[1].Start)
	assert.Equal(t, day("2023-12-31"), periods[1].End)

	assert.Equal(t, data.Annual, periods[0].Kind())
	assert.Equal(t, data.Quarterly, periods[1].Kind())
}
