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
	"fmt"
	"os"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/gocarina/gocsv"
	"github.com/gosimple/slug"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/marketgrid/mgdata/library"
)

type statementExportRow struct {
	CIK             string    `db:"cik" csv:"cik"`
	ReportPeriod    time.Time `db:"report_period" csv:"report_period"`
	PeriodKind      string    `db:"period_kind" csv:"period_kind"`
	FiscalYear      int       `db:"fiscal_year" csv:"fiscal_year"`
	FiscalPeriod    string    `db:"fiscal_period" csv:"fiscal_period"`
	Revenue         *float64  `db:"revenue" csv:"revenue"`
	GrossProfit     *float64  `db:"gross_profit" csv:"gross_profit"`
	OperatingIncome *float64  `db:"operating_income" csv:"operating_income"`
	NetIncome       *float64  `db:"net_income" csv:"net_income"`
	EPS             *float64  `db:"eps" csv:"eps"`
	EPSDiluted      *float64  `db:"eps_diluted" csv:"eps_diluted"`
}

type holdingExportRow struct {
	Accession    string    `db:"accession" csv:"accession"`
	ReportPeriod time.Time `db:"report_period" csv:"report_period"`
	NameOfIssuer string    `db:"name_of_issuer" csv:"name_of_issuer"`
	CUSIP        string    `db:"cusip" csv:"cusip"`
	Ticker       string    `db:"ticker" csv:"ticker"`
	Value        float64   `db:"value" csv:"value"`
	Shares       float64   `db:"shares" csv:"shares"`
	PutCall      string    `db:"put_call" csv:"put_call"`
}

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:       "export [statements|holdings] [cik]",
	Short:     "Export library data to CSV",
	ValidArgs: []string{"statements", "holdings"},
	Args:      cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		kind := args[0]
		cik := args[1]

		myLibrary, err := library.NewFromDB(ctx, viper.GetString("db.url"))
		if err != nil {
			log.Fatal().Err(err).Msg("could not connect to library")
		}
		defer myLibrary.Close()

		outFN := fmt.Sprintf("%s.csv", slug.Make(fmt.Sprintf("%s %s", cik, kind)))

		switch kind {
		case "statements":
			var rows []*statementExportRow
			err = pgxscan.Select(ctx, myLibrary.Pool, &rows,
				`SELECT cik, report_period, period_kind, fiscal_year, fiscal_period, revenue,
gross_profit, operating_income, net_income, eps, eps_diluted
FROM income_statements WHERE cik=$1 ORDER BY report_period`, cik)
			if err != nil {
				log.Fatal().Err(err).Msg("could not read statements from database")
			}
			writeCSV(outFN, rows)
		case "holdings":
			var rows []*holdingExportRow
			err = pgxscan.Select(ctx, myLibrary.Pool, &rows,
				`SELECT h.accession, f.report_period, h.name_of_issuer, h.cusip, h.ticker,
h.value, h.shares, h.put_call
FROM holdings h JOIN holdings_filings f ON f.accession = h.accession
WHERE f.cik=$1 ORDER BY f.report_period, h.value DESC`, cik)
			if err != nil {
				log.Fatal().Err(err).Msg("could not read holdings from database")
			}
			writeCSV(outFN, rows)
		default:
			log.Fatal().Str("Kind", kind).Msg("unknown export kind")
		}

		log.Info().Str("FileName", outFN).Msg("export complete")
	},
}

func writeCSV[T any](outFN string, rows []T) {
	fh, err := os.Create(outFN)
	if err != nil {
		log.Fatal().Err(err).Str("FileName", outFN).Msg("could not create output file")
	}
	defer fh.Close()

	if err := gocsv.MarshalFile(&rows, fh); err != nil {
		log.Fatal().Err(err).Str("FileName", outFN).Msg("could not write csv")
	}
}

func init() {
	rootCmd.AddCommand(exportCmd)
}
