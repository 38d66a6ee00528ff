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
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/gosimple/slug"
	"github.com/jackc/pgx/v5"
	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/marketgrid/mgdata/db"
	"github.com/marketgrid/mgdata/healthcheck"
	"github.com/marketgrid/mgdata/library"
)

type initSettings struct {
	Name              string `toml:"name"`
	Owner             string `toml:"owner"`
	DBUrl             string `toml:"dburl"`
	UserAgent         string `toml:"useragent"`
	HealthCheckAPIKey string `toml:"healthcheckapikey"`
}

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Gather database configuration and setup schema",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		settings := &initSettings{}

		form := huh.NewForm(
			// Gather details about the library and who owns it
			huh.NewGroup(
				huh.NewInput().
					Title("Give the library a name:").
					Value(&settings.Name),

				huh.NewInput().
					Title("Who owns the library?").
					Value(&settings.Owner),
			),

			// EDGAR requires every request to identify its operator
			huh.NewGroup(
				huh.NewInput().
					Title("Contact details sent with each EDGAR request (e.g. 'Acme Research research@example.com')").
					Value(&settings.UserAgent).
					Validate(func(agent string) error {
						if strings.TrimSpace(agent) == "" {
							return errors.New("a user agent is required by the SEC fair access policy")
						}
						return nil
					}),
			),

			// Optional sync-run monitoring through healthchecks.io
			huh.NewGroup(
				huh.NewInput().
					Title("healthchecks.io API key (optional, pings a check around each sync run)").
					Value(&settings.HealthCheckAPIKey),
			),

			// Get details about the database
			huh.NewGroup(
				huh.NewInput().
					Title("Provide the DSN for connecting to your PostgreSQL database (postgres://[user[:password]@][netloc][:port][/dbname][?param1=value1&...])").
					Value(&settings.DBUrl).
					Validate(func(dsn string) error {
						_, err := pgx.ParseConfig(dsn)
						return err
					}),
			),
		)

		err := form.Run()
		if err != nil {
			log.Fatal().Err(err).Msg("error gathering database settings")
		}

		log.Info().Msg("creating database tables")

		// run migration
		dbURL := strings.Replace(settings.DBUrl, "postgres://", "pgx5://", -1)
		err = db.Migrate(dbURL)
		if err != nil {
			log.Fatal().Err(err).Msg("error running database migration")
		}

		log.Info().Msg("database tables created")
		log.Info().Msg("Saving library name and owner to database")

		myLibrary := &library.Library{
			DBUrl: settings.DBUrl,
			Name:  settings.Name,
			Owner: settings.Owner,
		}

		if err := myLibrary.Connect(ctx); err != nil {
			log.Fatal().Err(err).Msg("could not connect to database")
		}
		defer myLibrary.Close()

		err = myLibrary.SaveDB(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("error saving library settings to database")
		}

		config := map[string]any{
			"db":    map[string]string{"url": settings.DBUrl},
			"edgar": map[string]string{"useragent": settings.UserAgent},
		}

		if settings.HealthCheckAPIKey != "" {
			// Create reads the API key through viper
			viper.Set("healthchecks.apikey", settings.HealthCheckAPIKey)

			// a re-init replaces any check registered by a previous init
			if oldID := viper.GetString("healthchecks.checkid"); oldID != "" {
				if err := healthcheck.Delete(oldID); err != nil {
					log.Warn().Err(err).Str("CheckID", oldID).Msg("could not remove previous health check")
				}
			}

			checkID, err := healthcheck.Create(settings.Name+" sync",
				slug.Make(settings.Name+" sync"), []string{"mgdata"}, "0 8 * * *")
			if err != nil {
				log.Warn().Err(err).Msg("could not create health check; sync monitoring disabled")
			} else {
				config["healthchecks"] = map[string]string{
					"apikey":  settings.HealthCheckAPIKey,
					"checkid": checkID,
				}
			}
		}

		// save settings to config file
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatal().Err(err).Msg("could not determine user home directory")
		}

		configFN := filepath.Join(home, ".mgdata.toml")
		log.Info().Str("ConfigFile", configFN).Msg("Saving settings to config file")

		configData, err := toml.Marshal(config)
		if err != nil {
			log.Fatal().Err(err).Msg("could not marshal configuration data")
		}

		err = os.WriteFile(configFN, configData, 0644)
		if err != nil {
			log.Fatal().Err(err).Str("FileName", configFN).Msg("could not save configuration to file")
		}

		log.Info().Msg("Your data library has been initialized")
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
