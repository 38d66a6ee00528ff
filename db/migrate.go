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

// Package db owns the library schema. Migrations are embedded in the binary
// so `mgdata init` can bootstrap a fresh database without external files.
package db

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog/log"
)

//go:embed migrations/*
var migrationFS embed.FS

// Migrate brings the database at databaseURL up to the current schema
// version. An already up-to-date database is not an error.
func Migrate(databaseURL string) error {
	source, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return fmt.Errorf("could not load embedded migrations: %w", err)
	}

	migration, err := migrate.NewWithSourceInstance("iofs", source, databaseURL)
	if err != nil {
		return fmt.Errorf("could not initialize migration runner: %w", err)
	}

	if err := migration.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Debug().Msg("database schema already up to date")
			return nil
		}
		return fmt.Errorf("could not apply migrations: %w", err)
	}

	version, dirty, err := migration.Version()
	if err != nil {
		return fmt.Errorf("could not read schema version: %w", err)
	}
	log.Info().Uint("SchemaVersion", version).Bool("Dirty", dirty).Msg("database migrated")
	return nil
}
