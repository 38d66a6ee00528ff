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

// Submissions holds a filer's metadata and filing history as returned by the
// EDGAR submissions endpoint. The filing history arrives as parallel arrays;
// callers that want per-filing records use Filings.Index.
type Submissions struct {
	CIK       string   `json:"cik"`
	Name      string   `json:"name"`
	Tickers   []string `json:"tickers"`
	Exchanges []string `json:"exchanges"`
	Filings   Filings  `json:"filings"`
}

type Filings struct {
	Recent RecentFilings `json:"recent"`
}

// RecentFilings is the parallel-array filing table. All slices share a common
// length and ordering (newest filing first).
type RecentFilings struct {
	AccessionNumber []string `json:"accessionNumber"`
	FilingDate      []string `json:"filingDate"`
	ReportDate      []string `json:"reportDate"`
	Form            []string `json:"form"`
	Size            []int64  `json:"size"`
	IsXBRL          []int    `json:"isXBRL"`
	PrimaryDocument []string `json:"primaryDocument"`
}

// Filing is a single row of the filing-history table.
type Filing struct {
	AccessionNumber string
	FilingDate      string
	ReportDate      string
	Form            string
	Size            int64
	IsXBRL          bool
	PrimaryDocument string
}

// Len returns the number of filings in the table.
func (filings Filings) Len() int {
	return len(filings.Recent.AccessionNumber)
}

// Index assembles the i-th filing from the parallel arrays. The size and XBRL
// columns are optional in the source document and default to zero values when
// the arrays are short.
func (filings Filings) Index(i int) Filing {
	filing := Filing{
		AccessionNumber: filings.Recent.AccessionNumber[i],
		FilingDate:      filings.Recent.FilingDate[i],
		Form:            filings.Recent.Form[i],
	}

	if i < len(filings.Recent.ReportDate) {
		filing.ReportDate = filings.Recent.ReportDate[i]
	}

	if i < len(filings.Recent.PrimaryDocument) {
		filing.PrimaryDocument = filings.Recent.PrimaryDocument[i]
	}

	if i < len(filings.Recent.Size) {
		filing.Size = filings.Recent.Size[i]
	}

	if i < len(filings.Recent.IsXBRL) {
		filing.IsXBRL = filings.Recent.IsXBRL[i] == 1
	}

	return filing
}

// GetSubmissions retrieves the filing history and descriptive metadata for
// the filer identified by cik. The history is returned unmodified; filtering
// by form type and conversion into per-filing records is the caller's job.
func (client *Client) GetSubmissions(ctx context.Context, cik string) (*Submissions, error) {
	url := fmt.Sprintf("%s/submissions/CIK%s.json", client.DataBaseURL, PadCIK(cik))

	var submissions Submissions
	if err := client.getJSON(ctx, url, &submissions); err != nil {
		return nil, err
	}

	return &submissions, nil
}
