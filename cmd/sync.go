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

	"github.com/hako/durafmt"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/marketgrid/mgdata/backblaze"
	"github.com/marketgrid/mgdata/cusip"
	"github.com/marketgrid/mgdata/data"
	"github.com/marketgrid/mgdata/edgar"
	"github.com/marketgrid/mgdata/healthcheck"
	"github.com/marketgrid/mgdata/library"
	"github.com/marketgrid/mgdata/sync"
)

var (
	maxFilings   int
	forceRefresh bool
	filerDelay   time.Duration
)

// syncCmd represents the sync command
var syncCmd = &cobra.Command{
	Use:       "sync [financials|holdings|insider] [cik...]",
	Short:     "Fetch filings from EDGAR and update the data library",
	ValidArgs: []string{"financials", "holdings", "insider"},
	Args:      cobra.MinimumNArgs(2),
	Long: `The sync sub-command runs one ingestion pass for the named filing kind
across the CIKs given as arguments. Filings already ingested are skipped
unless --force-refresh is set. The SEC fair access policy caps request
throughput; large filer lists take time.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := log.Logger.WithContext(context.Background())

		kind := args[0]
		ciks := args[1:]

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

		orchestrator := &sync.Orchestrator{
			API:          client,
			Store:        myLibrary,
			MaxFilings:   maxFilings,
			ForceRefresh: forceRefresh,
			FilerDelay:   filerDelay,
		}

		if kind == "holdings" {
			resolvers := []cusip.Resolver{cusip.NewTableResolver(myLibrary.Pool, library.CusipMappingsTable)}
			if viper.GetString("openfigi.apikey") != "" {
				resolvers = append(resolvers, cusip.NewOpenFigiResolver())
			}
			orchestrator.Cusips = cusip.NewService(resolvers...)
		}

		if bucket := viper.GetString("backblaze.bucket"); bucket != "" {
			orchestrator.Archiver = backblaze.NewDocumentArchiver(bucket)
		}

		healthCheckID := viper.GetString("healthchecks.checkid")
		if healthCheckID != "" {
			if err := healthcheck.PingStart(healthCheckID); err != nil {
				log.Warn().Err(err).Msg("could not ping health check start")
			}
		}

		var report *sync.Report
		switch kind {
		case "financials":
			report = orchestrator.SyncFinancials(ctx, ciks)
		case "holdings":
			report = orchestrator.SyncHoldings(ctx, ciks)
		case "insider":
			report = orchestrator.SyncInsiders(ctx, ciks)
		default:
			log.Fatal().Str("Kind", kind).Msg("unknown sync kind")
		}

		if healthCheckID != "" {
			ping := healthcheck.PingSuccess
			if report.Status() != data.SyncCompleted {
				ping = healthcheck.PingFailure
			}
			if err := ping(healthCheckID); err != nil {
				log.Warn().Err(err).Msg("could not ping health check result")
			}
		}

		log.Info().
			Object("Report", report).
			Str("RunTime", durafmt.Parse(report.Duration()).String()).
			Msg("sync finished")
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)

	syncCmd.Flags().IntVar(&maxFilings, "max-filings", 0, "only ingest the newest N matching filings per filer (0 = all)")
	syncCmd.Flags().BoolVar(&forceRefresh, "force-refresh", false, "re-ingest filings already marked processed")
	syncCmd.Flags().DurationVar(&filerDelay, "filer-delay", 0, "pause between filers (e.g. 500ms)")
}
