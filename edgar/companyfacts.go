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
package edgar

import (
	"context"
	"fmt"
)

// CompanyFacts is the complete XBRL fact set reported by a filer: every
// concept in every taxonomy, every unit, every period. No selection happens
// at fetch time -- one fetch has to serve all three statement types because
// re-fetching per concept would blow the SEC rate budget.
type CompanyFacts struct {
	CIK        int64                              `json:"cik"`
	EntityName string                             `json:"entityName"`
	Facts      map[string]map[string]ConceptFacts `json:"facts"`
}

// ConceptFacts holds every reported value for one taxonomy concept, grouped
// by reporting unit (e.g. "USD", "shares", "USD/shares").
type ConceptFacts struct {
	Label       string                 `json:"label"`
	Description string                 `json:"description"`
	Units       map[string][]FactValue `json:"units"`
}

// FactValue is a single reported observation. Instant facts (balance-sheet
// items) have an empty Start; duration facts (income and cash-flow items)
// carry both Start and End. Dates are YYYY-MM-DD strings as reported.
type FactValue struct {
	Start string  `json:"start,omitempty"`
	End   string  `json:"end"`
	Val   float64 `json:"val"`
	Accn  string  `json:"accn"`
	FY    int     `json:"fy"`
	FP    string  `json:"fp"`
	Form  string  `json:"form"`
	Filed string  `json:"filed"`
}

// IsInstant reports whether the fact covers a point in time rather than a
// start-end span.
func (fact FactValue) IsInstant() bool {
	return fact.Start == ""
}

// Concept looks up the fact list for a concept within a taxonomy. The second
// return value is false when the filer never reported the concept.
func (facts *CompanyFacts) Concept(taxonomy, name string) (ConceptFacts, bool) {
	concepts, ok := facts.Facts[taxonomy]
	if !ok {
		return ConceptFacts{}, false
	}

	concept, ok := concepts[name]
	return concept, ok
}

// GetCompanyFacts retrieves the full reported-facts document for a filer. A
// document without the top-level facts structure is malformed and yields
// ErrParse; individual missing concepts are normal and left to the normalizer.
func (client *Client) GetCompanyFacts(ctx context.Context, cik string) (*CompanyFacts, error) {
	url := fmt.Sprintf("%s/api/xbrl/companyfacts/CIK%s.json", client.DataBaseURL, PadCIK(cik))

	var facts CompanyFacts
	if err := client.getJSON(ctx, url, &facts); err != nil {
		return nil, err
	}

	if facts.Facts == nil {
		return nil, fmt.Errorf("%w: company facts document has no facts section", ErrParse)
	}

	return &facts, nil
}
