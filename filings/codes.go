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

// Package filings parses raw disclosure documents retrieved from the EDGAR
// archive: 13F information tables and Form 4 ownership statements.
package filings

// Action labels the economic meaning of a Form 4 transaction code.
type Action string

const (
	Buy         Action = "Buy"
	Sell        Action = "Sell"
	Grant       Action = "Grant"
	Disposition Action = "Disposition"
	TaxPayment  Action = "TaxPayment"
	Exercise    Action = "Exercise"
	Conversion  Action = "Conversion"
	Gift        Action = "Gift"
	Other       Action = "Other"
)

// ClassifyTransaction maps a Form 4 transaction code to its action. Codes
// outside the table classify as Other rather than failing the filing.
func ClassifyTransaction(code string) Action {
	switch code {
	case "P":
		return Buy
	case "S":
		return Sell
	case "A":
		return Grant
	case "D":
		return Disposition
	case "F":
		return TaxPayment
	case "M", "X", "O":
		return Exercise
	case "C":
		return Conversion
	case "G":
		return Gift
	default:
		return Other
	}
}
