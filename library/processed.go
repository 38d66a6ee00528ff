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
package library

import (
	"context"
	"fmt"
	"time"

	"github.com/marketgrid/mgdata/data"
)

// IsFilingProcessed reports whether a filing has already been ingested for
// the given kind. The same accession can appear once per kind; a 13F marked
// processed for holdings says nothing about insider processing.
func (myLibrary *Library) IsFilingProcessed(ctx context.Context, accession string, kind data.FilingKind) (bool, error) {
	conn, err := myLibrary.Pool.Acquire(ctx)
	if err != nil {
		return false, err
	}
	defer conn.Release()

	count := 0
	sql := fmt.Sprintf("SELECT count(*) FROM %s WHERE accession=$1 AND kind=$2", ProcessedFilingsTable)
	if err := conn.QueryRow(ctx, sql, accession, kind).Scan(&count); err != nil {
		return false, err
	}

	return count > 0, nil
}

// MarkFilingProcessed records a filing as ingested. Marking twice is a no-op.
func (myLibrary *Library) MarkFilingProcessed(ctx context.Context, accession string, kind data.FilingKind) error {
	conn, err := myLibrary.Pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	sql := fmt.Sprintf(`INSERT INTO %s ("accession", "kind", "processed_at") VALUES ($1, $2, $3)
		ON CONFLICT (accession, kind) DO NOTHING`, ProcessedFilingsTable)
	_, err = conn.Exec(ctx, sql, accession, kind, time.Now())
	return err
}
