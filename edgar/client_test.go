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
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientRequiresUserAgent(t *testing.T) {
	_, err := NewClient("", nil)
	assert.ErrorIs(t, err, ErrNoUserAgent)

	_, err = NewClient("   ", nil)
	assert.ErrorIs(t, err, ErrNoUserAgent)

	client, err := NewClient("Sample Company admin@sample.com", nil)
	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestPadCIK(t *testing.T) {
	assert.Equal(t, "0000320193", PadCIK("320193"))
	assert.Equal(t, "0000320193", PadCIK("0000320193"))
	assert.Equal(t, "0000320193", PadCIK(" 320193 "))
	assert.Equal(t, "0001067983", PadCIK("1067983"))
}

func TestStripAccession(t *testing.T) {
	assert.Equal(t, "000106798324000001", StripAccession("0001067983-24-000001"))
	assert.Equal(t, "000106798324000001", StripAccession("000106798324000001"))
}

func testClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient("Sample Company admin@sample.com", Governor(1000))
	require.NoError(t, err)

	client.DataBaseURL = server.URL
	client.ArchiveBaseURL = server.URL
	client.TickerIndexURL = server.URL + "/files/company_tickers.json"

	return client, server
}

func TestGetSubmissions(t *testing.T) {
	var requestedPath, userAgent string

	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestedPath = r.URL.Path
		userAgent = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(`{
			"cik": "320193",
			"name": "Apple Inc.",
			"tickers": ["AAPL"],
			"exchanges": ["Nasdaq"],
			"filings": {"recent": {
				"accessionNumber": ["0000320193-24-000001"],
				"filingDate": ["2024-02-01"],
				"reportDate": ["2023-12-30"],
				"form": ["10-K"],
				"primaryDocument": ["aapl-20231230.htm"],
				"isXBRL": [1]
			}}
		}`))
	}))

	submissions, err := client.GetSubmissions(context.Background(), "320193")
	require.NoError(t, err)

	assert.Equal(t, "/submissions/CIK0000320193.json", requestedPath)
	assert.Equal(t, "Sample Company admin@sample.com", userAgent)

	assert.Equal(t, "Apple Inc.", submissions.Name)
	assert.Equal(t, []string{"AAPL"}, submissions.Tickers)
	require.Equal(t, 1, submissions.Filings.Len())

	filing := submissions.Filings.Index(0)
	assert.Equal(t, "0000320193-24-000001", filing.AccessionNumber)
	assert.Equal(t, "10-K", filing.Form)
	assert.True(t, filing.IsXBRL)
}

func TestGetSubmissionsNotFound(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := client.GetSubmissions(context.Background(), "999999999")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetStatusError(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))

	_, err := client.GetSubmissions(context.Background(), "320193")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidStatusCode)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusForbidden, statusErr.Code)
}

func TestGetCompanyFactsMalformed(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"cik": 320193, "entityName": "Apple Inc."}`))
	}))

	_, err := client.GetCompanyFacts(context.Background(), "320193")
	assert.ErrorIs(t, err, ErrParse)
}

func TestGetFilingIndex(t *testing.T) {
	var requestedPath string

	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestedPath = r.URL.Path
		_, _ = w.Write([]byte(`{"directory": {"item": [
			{"name": "primary_doc.xml", "type": "text.gif", "size": "4301"},
			{"name": "infotable.xml", "type": "text.gif", "size": "98745"}
		]}}`))
	}))

	entries, err := client.GetFilingIndex(context.Background(), "0001067983", "0001067983-24-000001")
	require.NoError(t, err)

	// leading zeros trimmed from cik, hyphens stripped from accession
	assert.Equal(t, "/Archives/edgar/data/1067983/000106798324000001/index.json", requestedPath)
	require.Len(t, entries, 2)
	assert.Equal(t, "primary_doc.xml", entries[0].Name)
}

func TestGetCompanyTickers(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"0": {"cik_str": 320193, "ticker": "AAPL", "title": "Apple Inc."},
			"1": {"cik_str": 789019, "ticker": "MSFT", "title": "MICROSOFT CORP"}
		}`))
	}))

	tickers, err := client.GetCompanyTickers(context.Background())
	require.NoError(t, err)
	require.Len(t, tickers, 2)

	byTicker := make(map[string]CompanyTicker)
	for _, ticker := range tickers {
		byTicker[ticker.Ticker] = ticker
	}

	assert.Equal(t, "320193", byTicker["AAPL"].CIKString())
	assert.Equal(t, "MICROSOFT CORP", byTicker["MSFT"].Title)
}

func TestFindInformationTable(t *testing.T) {
	name, ok := FindInformationTable([]IndexEntry{
		{Name: "primary_doc.xml"},
		{Name: "infotable.xml"},
	})
	require.True(t, ok)
	assert.Equal(t, "infotable.xml", name)

	// naming varies by filing agent
	name, ok = FindInformationTable([]IndexEntry{
		{Name: "primary_doc.xml"},
		{Name: "form13fInfoTable.xml"},
	})
	require.True(t, ok)
	assert.Equal(t, "form13fInfoTable.xml", name)

	// any non-cover XML is accepted as a fallback
	name, ok = FindInformationTable([]IndexEntry{
		{Name: "primary_doc.xml"},
		{Name: "holdings.xml"},
	})
	require.True(t, ok)
	assert.Equal(t, "holdings.xml", name)

	_, ok = FindInformationTable([]IndexEntry{
		{Name: "primary_doc.xml"},
		{Name: "report.pdf"},
	})
	assert.False(t, ok)
}
