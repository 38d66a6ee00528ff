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
package cusip

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResolver struct {
	mappings map[string]*Mapping
	calls    [][]string
}

func (resolver *fakeResolver) Resolve(_ context.Context, cusips []string) (map[string]*Mapping, error) {
	resolver.calls = append(resolver.calls, append([]string(nil), cusips...))

	result := make(map[string]*Mapping)
	for _, cusip := range cusips {
		if mapping, ok := resolver.mappings[cusip]; ok {
			result[cusip] = mapping
		}
	}
	return result, nil
}

func TestServiceChainPriority(t *testing.T) {
	first := &fakeResolver{mappings: map[string]*Mapping{
		"037833100": {CUSIP: "037833100", Ticker: "AAPL"},
	}}
	second := &fakeResolver{mappings: map[string]*Mapping{
		"037833100": {CUSIP: "037833100", Ticker: "WRONG"},
		"594918104": {CUSIP: "594918104", Ticker: "MSFT"},
	}}

	service := NewService(first, second)
	resolved, err := service.ResolveAll(context.Background(), []string{"037833100", "594918104", "88160R101"})
	require.NoError(t, err)

	require.Contains(t, resolved, "037833100")
	assert.Equal(t, "AAPL", resolved["037833100"].Ticker)
	require.Contains(t, resolved, "594918104")
	assert.Equal(t, "MSFT", resolved["594918104"].Ticker)
	assert.NotContains(t, resolved, "88160R101")

	// the second resolver only sees identifiers the first could not answer
	require.Len(t, second.calls, 1)
	assert.Equal(t, []string{"594918104", "88160R101"}, second.calls[0])
}

func TestServiceCache(t *testing.T) {
	resolver := &fakeResolver{mappings: map[string]*Mapping{
		"037833100": {CUSIP: "037833100", Ticker: "AAPL"},
	}}

	service := NewService(resolver)

	mapping, ok := service.Lookup(context.Background(), "037833100")
	require.True(t, ok)
	assert.Equal(t, "AAPL", mapping.Ticker)

	// second lookup is served from cache without another resolver call
	_, ok = service.Lookup(context.Background(), "037833100")
	require.True(t, ok)
	assert.Len(t, resolver.calls, 1)
}

func TestServiceNormalizesInput(t *testing.T) {
	resolver := &fakeResolver{mappings: map[string]*Mapping{
		"67066G104": {CUSIP: "67066G104", Ticker: "NVDA"},
	}}

	service := NewService(resolver)

	mapping, ok := service.Lookup(context.Background(), "  67066g104 ")
	require.True(t, ok)
	assert.Equal(t, "NVDA", mapping.Ticker)

	_, ok = service.Lookup(context.Background(), "")
	assert.False(t, ok)
}

type fakeWritingResolver struct {
	fakeResolver
	saved []map[string]*Mapping
}

func (resolver *fakeWritingResolver) Save(_ context.Context, mappings map[string]*Mapping) error {
	saved := make(map[string]*Mapping, len(mappings))
	for cusip, mapping := range mappings {
		saved[cusip] = mapping
	}
	resolver.saved = append(resolver.saved, saved)
	return nil
}

func TestServiceWritesBackDownstreamResults(t *testing.T) {
	table := &fakeWritingResolver{fakeResolver: fakeResolver{mappings: map[string]*Mapping{
		"037833100": {CUSIP: "037833100", Ticker: "AAPL"},
	}}}
	external := &fakeResolver{mappings: map[string]*Mapping{
		"594918104": {CUSIP: "594918104", Ticker: "MSFT"},
	}}

	service := NewService(table, external)
	resolved, err := service.ResolveAll(context.Background(), []string{"037833100", "594918104"})
	require.NoError(t, err)
	require.Len(t, resolved, 2)

	// only the externally resolved mapping is written back; the table's
	// own hit is not re-saved
	require.Len(t, table.saved, 1)
	require.Contains(t, table.saved[0], "594918104")
	assert.Equal(t, "MSFT", table.saved[0]["594918104"].Ticker)
	assert.NotContains(t, table.saved[0], "037833100")
}

func TestOpenFigiResolverStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	resolver := NewOpenFigiResolver()
	resolver.MappingURL = server.URL

	_, err := resolver.Resolve(context.Background(), []string{"037833100"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStatus)
}
