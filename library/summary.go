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
	"strings"
	"time"

	"github.com/xeonx/timeago"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Summary returns a description of the library in markdown
func (myLibrary *Library) Summary(ctx context.Context) (string, error) {
	p := message.NewPrinter(language.English)
	builder := strings.Builder{}

	if _, err := builder.WriteString(fmt.Sprintf("# %s\n", myLibrary.Name)); err != nil {
		return "", err
	}

	if _, err := builder.WriteString("## Details\n\n"); err != nil {
		return "", err
	}

	// Database connection string
	if _, err := builder.WriteString(fmt.Sprintf("Database: %s\n\n", myLibrary.DBUrl)); err != nil {
		return "", err
	}

	// Number of filers
	numFilers, err := myLibrary.NumFilers(ctx)
	if err != nil {
		return "", err
	}

	if _, err := builder.WriteString(p.Sprintf("  * Filers Tracked: %d\n", numFilers)); err != nil {
		return "", err
	}

	// Normalized statement count
	numStatements, err := myLibrary.NumStatements(ctx)
	if err != nil {
		return "", err
	}

	if _, err := builder.WriteString(p.Sprintf("  * Normalized Statements: %d\n", numStatements)); err != nil {
		return "", err
	}

	// Holdings count
	numHoldings, err := myLibrary.NumHoldings(ctx)
	if err != nil {
		return "", err
	}

	if _, err := builder.WriteString(p.Sprintf("  * Holdings Positions: %d\n", numHoldings)); err != nil {
		return "", err
	}

	// Insider transaction count
	numInsider, err := myLibrary.NumInsiderTransactions(ctx)
	if err != nil {
		return "", err
	}

	if _, err := builder.WriteString(p.Sprintf("  * Insider Transactions: %d\n\n", numInsider)); err != nil {
		return "", err
	}

	// Last updated time
	lastUpdated, err := myLibrary.LastUpdated(ctx)
	if err != nil {
		return "", err
	}

	age := timeago.English.Format(lastUpdated)

	if lastUpdated.Equal(time.Time{}) {
		if _, err := builder.WriteString("Last Updated: Never\n\n"); err != nil {
			return "", err
		}
	} else {
		if _, err := builder.WriteString(fmt.Sprintf("Last Updated: %s (%s)\n\n", age, lastUpdated.Local().Format("01/02/2006"))); err != nil {
			return "", err
		}
	}

	// Recent runs
	if _, err := builder.WriteString("## Recent Runs\n\n"); err != nil {
		return "", err
	}

	runs, err := myLibrary.RecentRuns(ctx, 10)
	if err != nil {
		return "", err
	}

	for _, run := range runs {
		if _, err := builder.WriteString(p.Sprintf("  * %s %s %s: %d processed, %d skipped, %d errors [%s]\n",
			run.StartedAt.Local().Format("01/02/2006"), run.Kind, run.Status, run.NumProcessed,
			run.NumSkipped, run.NumErrors, run.ID.String()[:6])); err != nil {
			return "", err
		}
	}

	return builder.String(), nil
}
