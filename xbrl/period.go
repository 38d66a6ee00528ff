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
	"sort"
	"time"

	"github.com/marketgrid/mgdata/data"
	"github.com/marketgrid/mgdata/edgar"
)

const dateLayout = "2006-01-02"

// Period is one distinct (start, end) duration span observed in a filer's
// facts.
type Period struct {
	Start time.Time
	End   time.Time
}

// Span is the length of the period in days.
func (period Period) Span() int {
	return int(period.End.Sub(period.Start).Hours() / 24)
}

// Kind classifies the period by its day span. This is a heuristic over the
// span alone, not an authoritative filing-type field: a stub first fiscal
// year can land in the ttm bucket. Boundaries are exclusive on the lower
// side, so exactly 350 days is quarterly and exactly 180 days is quarterly.
func (period Period) Kind() data.PeriodKind {
	span := period.Span()
	switch {
	case span > 350:
		return data.Annual
	case span > 180 && span < 350:
		return data.TTM
	default:
		return data.Quarterly
	}
}

// ClassifyPeriod classifies a raw (start, end) span.
func ClassifyPeriod(start, end time.Time) data.PeriodKind {
	return Period{Start: start, End: end}.Kind()
}

// CollectPeriods walks every duration fact in the GAAP taxonomy and returns
// the distinct (start, end) pairs, oldest end date first. Instant facts do
// not define periods; they attach to duration periods by end date during
// normalization.
func CollectPeriods(facts *edgar.CompanyFacts) []Period {
	seen := make(map[Period]bool)

	for _, concept := range facts.Facts[taxonomyGAAP] {
		for _, values := range concept.Units {
			for _, fact := range values {
				if fact.IsInstant() {
					continue
				}

				start, err := time.Parse(dateLayout, fact.Start)
				if err != nil {
					continue
				}

				end, err := time.Parse(dateLayout, fact.End)
				if err != nil {
					continue
				}

				seen[Period{Start: start, End: end}] = true
			}
		}
	}

	periods := make([]Period, 0, len(seen))
	for period := range seen {
		periods = append(periods, period)
	}

	sort.Slice(periods, func(i, j int) bool {
		if !periods[i].End.Equal(periods[j].End) {
			return periods[i].End.Before(periods[j].End)
		}
		return periods[i].Start.Before(periods[j].Start)
	})

	return periods
}
