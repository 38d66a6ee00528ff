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

const form4Doc = `<?xml version="1.0"?>
<ownershipDocument>
  <periodOfReport>2024-03-15</periodOfReport>
  <issuer>
    <issuerCik>0000320193</issuerCik>
    <issuerName>Apple Inc.</issuerName>
    <issuerTradingSymbol>AAPL</issuerTradingSymbol>
  </issuer>
  <reportingOwner>
    <reportingOwnerId>
      <rptOwnerCik>0001214156</rptOwnerCik>
      <rptOwnerName>DOE JANE</rptOwnerName>
    </reportingOwnerId>
    <reportingOwnerRelationship>
      <isDirector>0</isDirector>
      <isOfficer>1</isOfficer>
      <isTenPercentOwner>false</isTenPercentOwner>
      <officerTitle>Chief Financial Officer</officerTitle>
    </reportingOwnerRelationship>
  </reportingOwner>
  <nonDerivativeTable>
    <nonDerivativeTransaction>
      <securityTitle>
        <value>Common Stock</value>
      </securityTitle>
      <transactionDate>
        <value>2024-03-15</value>
      </transactionDate>
      <transactionCoding>
        <transactionCode>S</transactionCode>
      </transactionCoding>
      <transactionAmounts>
        <transactionShares>
          <value>5000</value>
        </transactionShares>
        <transactionPricePerShare>
          <value>172.45</value>
        </transactionPricePerShare>
        <transactionAcquiredDisposedCode>
          <value>D</value>
        </transactionAcquiredDisposedCode>
      </transactionAmounts>
      <postTransactionAmounts>
        <sharesOwnedFollowingTransaction>
          <value>120000</value>
        </sharesOwnedFollowingTransaction>
      </postTransactionAmounts>
      <ownershipNature>
        <directOrIndirectOwnership>
          <value>D</value>
        </directOrIndirectOwnership>
      </ownershipNature>
    </nonDerivativeTransaction>
  </nonDerivativeTable>
  <derivativeTable>
    <derivativeTransaction>
      <securityTitle>
        <value>Restricted Stock Unit</value>
      </securityTitle>
      <conversionOrExercisePrice>
        <value>0.0</value>
      </conversionOrExercisePrice>
      <transactionDate>2024-03-14</transactionDate>
      <transactionCoding>
        <transactionCode>M</transactionCode>
      </transactionCoding>
      <transactionAmounts>
        <transactionShares>
          <value>10000</value>
        </transactionShares>
        <transactionAcquiredDisposedCode>A</transactionAcquiredDisposedCode>
      </transactionAmounts>
      <expirationDate>
        <value>2030-01-01</value>
      </expirationDate>
      <underlyingSecurity>
        <underlyingSecurityTitle>
          <value>Common Stock</value>
        </underlyingSecurityTitle>
        <underlyingSecurityShares>
          <value>10000</value>
        </underlyingSecurityShares>
      </underlyingSecurity>
    </derivativeTransaction>
  </derivativeTable>
</ownershipDocument>`

func TestParseForm4(t *testing.T) {
	filing, err := ParseForm4([]byte(form4Doc))
	require.NoError(t, err)
	require.NotNil(t, filing)

	assert.Equal(t, "320193", filing.IssuerCIK)
	assert.Equal(t, "Apple Inc.", filing.IssuerName)
	assert.Equal(t, "AAPL", filing.IssuerTicker)
	assert.Equal(t, "1214156", filing.OwnerCIK)
	assert.Equal(t, "DOE JANE", filing.OwnerName)
	assert.Equal(t, "Chief Financial Officer", filing.OwnerTitle)
	assert.False(t, filing.IsDirector)
	assert.True(t, filing.IsOfficer)
	assert.False(t, filing.IsTenPctOwner)
	assert.Equal(t, "2024-03-15", filing.PeriodOfReport.Format("2006-01-02"))

	require.Len(t, filing.Transactions, 2)

	sale := filing.Transactions[0]
	assert.Equal(t, 0, sale.Seq)
	assert.False(t, sale.IsDerivative)
	assert.Equal(t, "Common Stock", sale.SecurityTitle)
	assert.Equal(t, "S", sale.TransactionCode)
	assert.Equal(t, "Sell", sale.Action)
	require.NotNil(t, sale.Shares)
	assert.InDelta(t, 5000, *sale.Shares, 1e-9)
	require.NotNil(t, sale.PricePerShare)
	assert.InDelta(t, 172.45, *sale.PricePerShare, 1e-9)
	assert.Equal(t, "D", sale.AcquiredDisposed)
	require.NotNil(t, sale.SharesOwnedAfter)
	assert.InDelta(t, 120000, *sale.SharesOwnedAfter, 1e-9)
	assert.Equal(t, "D", sale.OwnershipNature)

	exercise := filing.Transactions[1]
	assert.Equal(t, 1, exercise.Seq)
	assert.True(t, exercise.IsDerivative)
	assert.Equal(t, "M", exercise.TransactionCode)
	assert.Equal(t, "Exercise", exercise.Action)
	// direct-text transactionDate (no nested value element)
	assert.Equal(t, "2024-03-14", exercise.TransactionDate.Format("2006-01-02"))
	// direct-text acquiredDisposed code
	assert.Equal(t, "A", exercise.AcquiredDisposed)
	require.NotNil(t, exercise.ExercisePrice)
	assert.InDelta(t, 0, *exercise.ExercisePrice, 1e-9)
	require.NotNil(t, exercise.ExpirationDate)
	assert.Equal(t, "2030-01-01", exercise.ExpirationDate.Format("2006-01-02"))
	assert.Equal(t, "Common Stock", exercise.UnderlyingTitle)
	require.NotNil(t, exercise.UnderlyingShares)
	assert.InDelta(t, 10000, *exercise.UnderlyingShares, 1e-9)
}

func TestParseForm4NestedValuePrecedence(t *testing.T) {
	// a nested value element wins over surrounding character data and the
	// two are never concatenated
	doc := `<ownershipDocument>
  <periodOfReport>2024-03-15</periodOfReport>
  <issuer><issuerCik>320193</issuerCik></issuer>
  <nonDerivativeTable>
    <nonDerivativeTransaction>
      <securityTitle>ignored<value>Common Stock</value></securityTitle>
      <transactionCoding><transactionCode>P</transactionCode></transactionCoding>
      <transactionAmounts>
        <transactionShares>999<value>100</value></transactionShares>
      </transactionAmounts>
    </nonDerivativeTransaction>
  </nonDerivativeTable>
</ownershipDocument>`

	filing, err := ParseForm4([]byte(doc))
	require.NoError(t, err)
	require.NotNil(t, filing)
	require.Len(t, filing.Transactions, 1)

	transaction := filing.Transactions[0]
	assert.Equal(t, "Common Stock", transaction.SecurityTitle)
	assert.Equal(t, "Buy", transaction.Action)
	require.NotNil(t, transaction.Shares)
	assert.InDelta(t, 100, *transaction.Shares, 1e-9)
}

func TestParseForm4NoTransactions(t *testing.T) {
	doc := `<ownershipDocument>
  <periodOfReport>2024-03-15</periodOfReport>
  <issuer><issuerCik>320193</issuerCik></issuer>
</ownershipDocument>`

	filing, err := ParseForm4([]byte(doc))
	require.NoError(t, err)
	assert.Nil(t, filing)
}

func TestParseForm4Malformed(t *testing.T) {
	filing, err := ParseForm4([]byte("<ownershipDocument><unclosed"))
	assert.Nil(t, filing)
	assert.ErrorIs(t, err, ErrParse)
}

func TestClassifyTransaction(t *testing.T) {
	testCases := map[string]Action{
		"P": Buy,
		"S": Sell,
		"A": Grant,
		"D": Disposition,
		"F": TaxPayment,
		"M": Exercise,
		"X": Exercise,
		"O": Exercise,
		"C": Conversion,
		"G": Gift,
		"J": Other,
		"":  Other,
	}

	for code, expected := range testCases {
		assert.Equal(t, expected, ClassifyTransaction(code), "code %q", code)
	}
}
