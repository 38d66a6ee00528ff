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
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

var (
	ErrInvalidStatusCode = errors.New("invalid status code received")
	ErrNotFound          = errors.New("filer or filing not found")
	ErrNoUserAgent       = errors.New("a user agent identifying the caller is required by the SEC fair access policy")
	ErrParse             = errors.New("document structure not recognized")
)

// StatusError reports a non-2xx HTTP response from EDGAR.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("invalid status code received (%d): %s", e.Code, e.Status)
}

func (e *StatusError) Unwrap() error {
	return ErrInvalidStatusCode
}

// Governor returns a rate limiter suitable for EDGAR traffic. The SEC limits
// automated clients to 10 requests per second per calling program, so a single
// governor must be shared by every client in the process.
func Governor(requestsPerSecond float64) *rate.Limiter {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 10
	}

	return rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
}

// Client fetches submissions, XBRL company facts, and archived filing
// documents from EDGAR. All requests carry the configured User-Agent header
// and wait on the shared governor before dispatch.
type Client struct {
	// DataBaseURL serves the structured JSON APIs (submissions, company facts).
	DataBaseURL string

	// ArchiveBaseURL serves raw filing documents and directory indexes.
	ArchiveBaseURL string

	// TickerIndexURL serves the SEC company ticker index.
	TickerIndexURL string

	userAgent string
	client    *resty.Client
	limiter   *rate.Limiter
}

// NewClient creates an EDGAR API client. The userAgent must identify the
// calling organization (e.g. "Sample Company admin@sample.com"); the SEC
// rejects unidentified traffic, so an empty value is a configuration error
// rather than something to paper over with a default.
func NewClient(userAgent string, governor *rate.Limiter) (*Client, error) {
	if strings.TrimSpace(userAgent) == "" {
		return nil, ErrNoUserAgent
	}

	if governor == nil {
		governor = Governor(10)
	}

	return &Client{
		DataBaseURL:    "https://data.sec.gov",
		ArchiveBaseURL: "https://www.sec.gov",
		TickerIndexURL: "https://www.sec.gov/files/company_tickers.json",
		userAgent:      userAgent,
		client:         resty.New().SetHeader("User-Agent", userAgent),
		limiter:        governor,
	}, nil
}

// PadCIK normalizes a filer identifier to the zero-padded 10-digit form used
// in EDGAR request paths.
func PadCIK(cik string) string {
	cik = strings.TrimLeft(strings.TrimSpace(cik), "0")
	return fmt.Sprintf("%010s", cik)
}

// StripAccession removes the hyphens from an accession number for use in
// archive paths.
func StripAccession(accession string) string {
	return strings.ReplaceAll(accession, "-", "")
}

// get fetches url and returns the response body. Non-2xx responses map to
// ErrNotFound (404) or a StatusError.
func (client *Client) get(ctx context.Context, url string) ([]byte, error) {
	logger := zerolog.Ctx(ctx)

	if err := client.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := client.client.R().SetContext(ctx).Get(url)
	if err != nil {
		logger.Error().Err(err).Str("URL", url).Msg("resty returned an error when querying edgar")
		return nil, err
	}

	if resp.StatusCode() == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, url)
	}

	if resp.StatusCode() >= 300 {
		logger.Error().Int("StatusCode", resp.StatusCode()).Str("URL", url).
			Msg("received an invalid status code when querying edgar")
		return nil, &StatusError{Code: resp.StatusCode(), Status: resp.Status()}
	}

	return resp.Body(), nil
}

// getJSON fetches url and unmarshals the response body into out.
func (client *Client) getJSON(ctx context.Context, url string, out any) error {
	body, err := client.get(ctx, url)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("URL", url).Msg("could not unmarshal edgar response")
		return fmt.Errorf("%w: %s", ErrParse, err.Error())
	}

	return nil
}
