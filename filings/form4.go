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
package filings

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/marketgrid/mgdata/data"
)

// valueOrText extracts a field that filers encode two ways: wrapped in a
// nested <value> element or as direct character data. A non-blank nested
// value always wins; the two are never concatenated.
type valueOrText struct {
	Value string `xml:"value"`
	Text  string `xml:",chardata"`
}

func (field valueOrText) String() string {
	if value := strings.TrimSpace(field.Value); value != "" {
		return value
	}
	return strings.TrimSpace(field.Text)
}

func (field valueOrText) Float() *float64 {
	raw := field.String()
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &value
}

func (field valueOrText) Date() (time.Time, bool) {
	parsed, err := time.Parse("2006-01-02", field.String())
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}

// Bool treats "1" and "true" as set; issuers use both encodings.
func (field valueOrText) Bool() bool {
	raw := strings.ToLower(field.String())
	return raw == "1" || raw == "true"
}

type form4Transaction struct {
	SecurityTitle   valueOrText `xml:"securityTitle"`
	TransactionDate valueOrText `xml:"transactionDate"`
	Coding          struct {
		TransactionCode string `xml:"transactionCode"`
	} `xml:"transactionCoding"`
	Amounts struct {
		Shares               valueOrText `xml:"transactionShares"`
		PricePerShare        valueOrText `xml:"transactionPricePerShare"`
		AcquiredDisposedCode valueOrText `xml:"transactionAcquiredDisposedCode"`
	} `xml:"transactionAmounts"`
	PostAmounts struct {
		SharesOwned valueOrText `xml:"sharesOwnedFollowingTransaction"`
	} `xml:"postTransactionAmounts"`
	Ownership struct {
		DirectOrIndirect valueOrText `xml:"directOrIndirectOwnership"`
	} `xml:"ownershipNature"`

	// derivative-only fields
	ConversionOrExercisePrice valueOrText `xml:"conversionOrExercisePrice"`
	ExpirationDate            valueOrText `xml:"expirationDate"`
	UnderlyingSecurity        struct {
		Title  valueOrText `xml:"underlyingSecurityTitle"`
		Shares valueOrText `xml:"underlyingSecurityShares"`
	} `xml:"underlyingSecurity"`
}

type ownershipDocument struct {
	XMLName        xml.Name `xml:"ownershipDocument"`
	PeriodOfReport string   `xml:"periodOfReport"`
	Issuer         struct {
		CIK           string `xml:"issuerCik"`
		Name          string `xml:"issuerName"`
		TradingSymbol string `xml:"issuerTradingSymbol"`
	} `xml:"issuer"`
	ReportingOwner struct {
		ID struct {
			CIK  string `xml:"rptOwnerCik"`
			Name string `xml:"rptOwnerName"`
		} `xml:"reportingOwnerId"`
		Relationship struct {
			IsDirector        valueOrText `xml:"isDirector"`
			IsOfficer         valueOrText `xml:"isOfficer"`
			IsTenPercentOwner valueOrText `xml:"isTenPercentOwner"`
			OfficerTitle      valueOrText `xml:"officerTitle"`
		} `xml:"reportingOwnerRelationship"`
	} `xml:"reportingOwner"`
	NonDerivativeTable struct {
		Transactions []form4Transaction `xml:"nonDerivativeTransaction"`
	} `xml:"nonDerivativeTable"`
	DerivativeTable struct {
		Transactions []form4Transaction `xml:"derivativeTransaction"`
	} `xml:"derivativeTable"`
}

// ParseForm4 parses a Form 4 ownership document. Holdings-only filings (no
// transactions in either table) return nil with no error; the caller marks
// the filing processed. Unparseable documents return ErrParse.
func ParseForm4(doc []byte) (*data.InsiderFiling, error) {
	var parsed ownershipDocument
	if err := xml.Unmarshal(doc, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrParse, err.Error())
	}

	filing := &data.InsiderFiling{
		IssuerCIK:     strings.TrimLeft(strings.TrimSpace(parsed.Issuer.CIK), "0"),
		IssuerName:    strings.TrimSpace(parsed.Issuer.Name),
		IssuerTicker:  strings.TrimSpace(parsed.Issuer.TradingSymbol),
		OwnerCIK:      strings.TrimLeft(strings.TrimSpace(parsed.ReportingOwner.ID.CIK), "0"),
		OwnerName:     strings.TrimSpace(parsed.ReportingOwner.ID.Name),
		OwnerTitle:    parsed.ReportingOwner.Relationship.OfficerTitle.String(),
		IsDirector:    parsed.ReportingOwner.Relationship.IsDirector.Bool(),
		IsOfficer:     parsed.ReportingOwner.Relationship.IsOfficer.Bool(),
		IsTenPctOwner: parsed.ReportingOwner.Relationship.IsTenPercentOwner.Bool(),
	}

	if period, err := time.Parse("2006-01-02", strings.TrimSpace(parsed.PeriodOfReport)); err == nil {
		filing.PeriodOfReport = period
	}

	seq := 0
	for _, transaction := range parsed.NonDerivativeTable.Transactions {
		filing.Transactions = append(filing.Transactions, convertTransaction(transaction, seq, false))
		seq++
	}
	for _, transaction := range parsed.DerivativeTable.Transactions {
		filing.Transactions = append(filing.Transactions, convertTransaction(transaction, seq, true))
		seq++
	}

	if len(filing.Transactions) == 0 {
		return nil, nil
	}

	return filing, nil
}

func convertTransaction(transaction form4Transaction, seq int, derivative bool) *data.InsiderTransaction {
	code := strings.TrimSpace(transaction.Coding.TransactionCode)

	converted := &data.InsiderTransaction{
		Seq:              seq,
		SecurityTitle:    transaction.SecurityTitle.String(),
		TransactionCode:  code,
		Action:           string(ClassifyTransaction(code)),
		Shares:           transaction.Amounts.Shares.Float(),
		PricePerShare:    transaction.Amounts.PricePerShare.Float(),
		AcquiredDisposed: transaction.Amounts.AcquiredDisposedCode.String(),
		SharesOwnedAfter: transaction.PostAmounts.SharesOwned.Float(),
		OwnershipNature:  transaction.Ownership.DirectOrIndirect.String(),
		IsDerivative:     derivative,
	}

	if date, ok := transaction.TransactionDate.Date(); ok {
		converted.TransactionDate = date
	}

	if derivative {
		converted.ExercisePrice = transaction.ConversionOrExercisePrice.Float()
		converted.UnderlyingTitle = transaction.UnderlyingSecurity.Title.String()
		converted.UnderlyingShares = transaction.UnderlyingSecurity.Shares.Float()
		if expiration, ok := transaction.ExpirationDate.Date(); ok {
			converted.ExpirationDate = &expiration
		}
	}

	return converted
}
