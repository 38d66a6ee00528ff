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
package cmd

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/marketgrid/mgdata/data"
	"github.com/marketgrid/mgdata/edgar"
	"github.com/marketgrid/mgdata/library"
)

// tickersCmd represents the tickers command
var tickersCmd = &cobra.Command{
	Use:   "tickers",
	Short: "Refresh the ticker-to-CIK mapping from the EDGAR company index",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := log.Logger.WithContext(context.Background())

		myLibrary, err := library.NewFromDB(ctx, viper.GetString("db.url"))
		if err != nil {
			log.Fatal().Err(err).Msg("could not connect to library")
		}
		defer myLibrary.Close()

		client, err := edgar.NewClient(viper.GetString("edgar.useragent"),
			edgar.Governor(viper.GetFloat64("edgar.requests_per_second")))
		if err != nil {
			log.Fatal().Err(err).Msg("could not create EDGAR client")
		}

		tickers, err := client.GetCompanyTickers(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("could not fetch company tickers")
		}

		now := time.Now()
		numSaved := 0
		for _, ticker := range tickers {
			mapping := &data.TickerMapping{
				Ticker:      ticker.Ticker,
				CIK:         ticker.CIKString(),
				Title:       ticker.Title,
				LastUpdated: now,
			}

			if err := myLibrary.SaveTicker(ctx, mapping); err != nil {
				log.Error().Err(err).Str("Ticker", ticker.Ticker).Msg("could not save ticker mapping")
				continue
			}
			numSaved++
		}

		log.Info().Int("NumSaved", numSaved).Int("NumFetched", len(tickers)).Msg("ticker mappings refreshed")
	},
}

func init() {
	rootCmd.AddCommand(tickersCmd)
}
