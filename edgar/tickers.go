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
	"strconv"
)

// CompanyTicker is one row of the SEC company ticker index, which maps
// exchange tickers to CIK numbers for every registrant with a listed class
// of securities.
type CompanyTicker struct {
	CIK    int64  `json:"cik_str"`
	Ticker string `json:"ticker"`
	Title  string `json:"title"`
}

// CIKString returns the CIK as an unpadded decimal string.
func (ticker CompanyTicker) CIKString() string {
	return strconv.FormatInt(ticker.CIK, 10)
}

// GetCompanyTickers downloads the full company ticker index. The index is the
// authoritative ticker-to-CIK source and replaces any fixed in-code table.
func (client *Client) GetCompanyTickers(ctx context.Context) ([]CompanyTicker, error) {
	indexed := make(map[string]CompanyTicker)
	if err := client.getJSON(ctx, client.TickerIndexURL, &indexed); err != nil {
		return nil, err
	}

	tickers := make([]CompanyTicker, 0, len(indexed))
	for _, entry := range indexed {
		tickers = append(tickers, entry)
	}

	return tickers, nil
}
