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
package cusip

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"golang.org/x/time/rate"
)

const (
	OPENFIGI_MAPPING_URL string = "https://api.openfigi.com/v3/mapping"

	maxBatchSize = 100
)

var ErrStatus = errors.New("openfigi returned an invalid status code")

type MappingResponse struct {
	Data []*OpenFigiAsset `json:"data"`
}

type OpenFigiAsset struct {
	Figi                string `json:"figi"`
	SecurityType        string `json:"securityType"`
	MarketSector        string `json:"marketSector"`
	Ticker              string `json:"ticker"`
	Name                string `json:"name"`
	ExchangeCode        string `json:"exchCode"`
	ShareClassFIGI      string `json:"shareClassFIGI"`
	CompositeFIGI       string `json:"compositeFIGI"`
	SecurityType2       string `json:"securityType2"`
	SecurityDescription string `json:"securityDescription"`
}

type OpenFigiQuery struct {
	IdType                  string `json:"idType"`
	IdValue                 string `json:"idValue"`
	ExchangeCode            string `json:"exchCode"`
	MarketSectorDescription string `json:"marketSecDes"`
}

// OpenFigiResolver maps 13F security identifiers to tickers via the OpenFigi
// mapping endpoint. It sits after the table resolver so only never-seen
// identifiers burn the request budget.
type OpenFigiResolver struct {
	// MappingURL overrides the public mapping endpoint.
	MappingURL string

	client      *resty.Client
	rateLimiter *rate.Limiter
}

func NewOpenFigiResolver() *OpenFigiResolver {
	dur := (time.Second * 6) / 25
	openFigiRate := rate.Every(dur)

	return &OpenFigiResolver{
		MappingURL:  OPENFIGI_MAPPING_URL,
		client:      resty.New(),
		rateLimiter: rate.NewLimiter(openFigiRate, 10),
	}
}

func (resolver *OpenFigiResolver) mapBatch(ctx context.Context, query []*OpenFigiQuery) ([]*MappingResponse, error) {
	if len(query) > maxBatchSize {
		log.Error().Msg("programming error - too many identifiers in request")
	}

	apiKey := viper.GetString("openfigi.apikey")
	mappingResponse := make([]*MappingResponse, 0)
	resp, err := resolver.client.R().
		SetContext(ctx).
		SetHeader("X-OPENFIGI-APIKEY", apiKey).
		SetBody(query).
		SetResult(&mappingResponse).
		Post(resolver.MappingURL)

	log.Debug().Str("URL", resolver.MappingURL).Int("NumIdentifiers", len(query)).Msg("map cusips to FIGIs")

	if err != nil {
		log.Error().Err(err).Msg("OpenFigi api call errored out")
		return []*MappingResponse{}, err
	}

	if resp.StatusCode() >= 400 {
		log.Error().Int("StatusCode", resp.StatusCode()).Str("Body", string(resp.Body())).Msg("openfigi api call returned invalid status code")
		return []*MappingResponse{}, fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode())
	}

	return mappingResponse, nil
}

func (resolver *OpenFigiResolver) Resolve(ctx context.Context, cusips []string) (map[string]*Mapping, error) {
	result := make(map[string]*Mapping, len(cusips))
	query := make([]*OpenFigiQuery, 0, maxBatchSize)
	batch := make([]string, 0, maxBatchSize)

	flush := func() error {
		if len(query) == 0 {
			return nil
		}

		if err := resolver.rateLimiter.Wait(ctx); err != nil {
			return err
		}

		mappingResponse, err := resolver.mapBatch(ctx, query)
		if err != nil {
			return err
		}

		// responses are positional: entry i answers query i
		for idx, resp := range mappingResponse {
			if idx >= len(batch) || len(resp.Data) == 0 {
				continue
			}

			asset := resp.Data[0]
			result[batch[idx]] = &Mapping{
				CUSIP:  batch[idx],
				Ticker: asset.Ticker,
				Name:   asset.Name,
				Figi:   asset.CompositeFIGI,
			}
		}

		query = query[:0]
		batch = batch[:0]
		return nil
	}

	for _, cusip := range cusips {
		query = append(query, &OpenFigiQuery{
			IdType:                  "ID_CUSIP",
			IdValue:                 cusip,
			ExchangeCode:            "US",
			MarketSectorDescription: "Equity",
		})
		batch = append(batch, cusip)

		if len(query) == maxBatchSize {
			if err := flush(); err != nil {
				return result, err
			}
		}
	}

	if err := flush(); err != nil {
		return result, err
	}

	return result, nil
}
