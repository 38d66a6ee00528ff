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
	"errors"
	"fmt"
	"strings"

	"github.com/marketgrid/mgdata/data"
)

// ErrParse indicates an unusable filing document. The orchestrator logs and
// skips the filing; it is never fatal to the run.
var ErrParse = errors.New("unable to parse filing document")

// infoTable mirrors one <infoTable> entry. Element names match local names
// only, so the document's namespace prefix does not matter.
type infoTable struct {
	NameOfIssuer string  `xml:"nameOfIssuer"`
	TitleOfClass string  `xml:"titleOfClass"`
	CUSIP        string  `xml:"cusip"`
	Value        float64 `xml:"value"`
	ShrsOrPrnAmt struct {
		SshPrnamt     float64 `xml:"sshPrnamt"`
		SshPrnamtType string  `xml:"sshPrnamtType"`
	} `xml:"shrsOrPrnAmt"`
	PutCall              string `xml:"putCall"`
	InvestmentDiscretion string `xml:"investmentDiscretion"`
	VotingAuthority      struct {
		Sole   int64 `xml:"Sole"`
		Shared int64 `xml:"Shared"`
		None   int64 `xml:"None"`
	} `xml:"votingAuthority"`
}

type informationTable struct {
	XMLName xml.Name    `xml:"informationTable"`
	Entries []infoTable `xml:"infoTable"`
}

// ParseInformationTable parses a 13F information table document into holding
// positions. Reported values are in thousands of dollars and are scaled to
// whole dollars here. Entries with a non-positive scaled value are dropped.
func ParseInformationTable(doc []byte) ([]*data.Holding, error) {
	var table informationTable
	if err := xml.Unmarshal(doc, &table); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrParse, err.Error())
	}

	holdings := make([]*data.Holding, 0, len(table.Entries))
	for _, entry := range table.Entries {
		value := entry.Value * 1000
		if value <= 0 {
			continue
		}

		holdings = append(holdings, &data.Holding{
			NameOfIssuer: strings.TrimSpace(entry.NameOfIssuer),
			TitleOfClass: strings.TrimSpace(entry.TitleOfClass),
			CUSIP:        strings.ToUpper(strings.TrimSpace(entry.CUSIP)),
			Value:        value,
			Shares:       entry.ShrsOrPrnAmt.SshPrnamt,
			ShareType:    strings.TrimSpace(entry.ShrsOrPrnAmt.SshPrnamtType),
			PutCall:      strings.TrimSpace(entry.PutCall),
			InvestDiscr:  strings.TrimSpace(entry.InvestmentDiscretion),
			VotingSole:   entry.VotingAuthority.Sole,
			VotingShared: entry.VotingAuthority.Shared,
			VotingNone:   entry.VotingAuthority.None,
		})
	}

	return holdings, nil
}
