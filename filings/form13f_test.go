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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const informationTableDoc = `<?xml version="1.0" encoding="UTF-8"?>
<ns1:informationTable xmlns:ns1="http://www.sec.gov/edgar/document/thirteenf/informationtable">
  <ns1:infoTable>
    <ns1:nameOfIssuer>APPLE INC</ns1:nameOfIssuer>
    <ns1:titleOfClass>COM</ns1:titleOfClass>
    <ns1:cusip>037833100</ns1:cusip>
    <ns1:value>1500</ns1:value>
    <ns1:shrsOrPrnAmt>
      <ns1:sshPrnamt>8100</ns1:sshPrnamt>
      <ns1:sshPrnamtType>SH</ns1:sshPrnamtType>
    </ns1:shrsOrPrnAmt>
    <ns1:investmentDiscretion>SOLE</ns1:investmentDiscretion>
    <ns1:votingAuthority>
      <ns1:Sole>8100</ns1:Sole>
      <ns1:Shared>0</ns1:Shared>
      <ns1:None>0</ns1:None>
    </ns1:votingAuthority>
  </ns1:infoTable>
  <ns1:infoTable>
    <ns1:nameOfIssuer>MICROSOFT CORP</ns1:nameOfIssuer>
    <ns1:titleOfClass>COM</ns1:titleOfClass>
    <ns1:cusip>594918104</ns1:cusip>
    <ns1:value>0</ns1:value>
    <ns1:shrsOrPrnAmt>
      <ns1:sshPrnamt>0</ns1:sshPrnamt>
      <ns1:sshPrnamtType>SH</ns1:sshPrnamtType>
    </ns1:shrsOrPrnAmt>
    <ns1:investmentDiscretion>SOLE</ns1:investmentDiscretion>
    <ns1:votingAuthority>
      <ns1:Sole>0</ns1:Sole>
      <ns1:Shared>0</ns1:Shared>
      <ns1:None>0</ns1:None>
    </ns1:votingAuthority>
  </ns1:infoTable>
  <ns1:infoTable>
    <ns1:nameOfIssuer>NVIDIA CORP</ns1:nameOfIssuer>
    <ns1:titleOfClass>COM</ns1:titleOfClass>
    <ns1:cusip>67066g104</ns1:cusip>
    <ns1:value>250</ns1:value>
    <ns1:shrsOrPrnAmt>
      <ns1:sshPrnamt>500</ns1:sshPrnamt>
      <ns1:sshPrnamtType>SH</ns1:sshPrnamtType>
    </ns1:shrsOrPrnAmt>
    <ns1:putCall>Put</ns1:putCall>
    <ns1:investmentDiscretion>DFND</ns1:investmentDiscretion>
    <ns1:votingAuthority>
      <ns1:Sole>0</ns1:Sole>
      <ns1:Shared>500</ns1:Shared>
      <ns1:None>0</ns1:None>
    </ns1:votingAuthority>
  </ns1:infoTable>
</ns1:informationTable>`

func TestParseInformationTable(t *testing.T) {
	holdings, err := ParseInformationTable([]byte(informationTableDoc))
	require.NoError(t, err)

	// zero-value position is dropped
	require.Len(t, holdings, 2)

	apple := holdings[0]
	assert.Equal(t, "APPLE INC", apple.NameOfIssuer)
	assert.Equal(t, "COM", apple.TitleOfClass)
	assert.Equal(t, "037833100", apple.CUSIP)
	assert.InDelta(t, 1500000, apple.Value, 1e-9)
	assert.InDelta(t, 8100, apple.Shares, 1e-9)
	assert.Equal(t, "SH", apple.ShareType)
	assert.Equal(t, "", apple.PutCall)
	assert.Equal(t, int64(8100), apple.VotingSole)

	nvidia := holdings[1]
	assert.Equal(t, "67066G104", nvidia.CUSIP)
	assert.InDelta(t, 250000, nvidia.Value, 1e-9)
	assert.Equal(t, "Put", nvidia.PutCall)
	assert.Equal(t, int64(500), nvidia.VotingShared)
}

func TestParseInformationTableMalformed(t *testing.T) {
	holdings, err := ParseInformationTable([]byte("not xml at all <"))
	assert.Nil(t, holdings)
	assert.ErrorIs(t, err, ErrParse)
}

func TestParseInformationTableEmpty(t *testing.T) {
	doc := `<informationTable xmlns="http://www.sec.gov/edgar/document/thirteenf/informationtable"></informationTable>`
	holdings, err := ParseInformationTable([]byte(doc))
	require.NoError(t, err)
	assert.Empty(t, holdings)
}
