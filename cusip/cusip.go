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

// Package cusip resolves security identifiers reported in 13F filings to
// exchange tickers. Resolution is best effort: a position with no known
// mapping keeps an empty ticker and is persisted anyway.
package cusip

import (
	"context"
	"strings"

	"github.com/alphadose/haxmap"
	"github.com/rs/zerolog"
)

// Mapping links one security identifier to its ticker.
type Mapping struct {
	CUSIP  string `db:"cusip"`
	Ticker string `db:"ticker"`
	Name   string `db:"name"`
	Figi   string `db:"figi"`
}

// Resolver looks up tickers for a batch of identifiers. Missing identifiers
// are simply absent from the result map, never an error.
type Resolver interface {
	Resolve(ctx context.Context, cusips []string) (map[string]*Mapping, error)
}

// MappingWriter is implemented by resolvers that can persist mappings.
// When a later resolver in the chain answers a lookup, the result is
// written back through every earlier MappingWriter so the next run hits
// the cheaper resolver.
type MappingWriter interface {
	Save(ctx context.Context, mappings map[string]*Mapping) error
}

// Service chains resolvers in priority order behind a process-wide cache.
// Earlier resolvers win; later resolvers only see identifiers still missing.
type Service struct {
	resolvers []Resolver
	cache     *haxmap.Map[string, *Mapping]
}

func NewService(resolvers ...Resolver) *Service {
	return &Service{
		resolvers: resolvers,
		cache:     haxmap.New[string, *Mapping](),
	}
}

// Lookup resolves a single identifier, consulting the cache first.
func (service *Service) Lookup(ctx context.Context, cusip string) (*Mapping, bool) {
	cusip = strings.ToUpper(strings.TrimSpace(cusip))
	if cusip == "" {
		return nil, false
	}

	if mapping, ok := service.cache.Get(cusip); ok {
		return mapping, true
	}

	resolved, err := service.ResolveAll(ctx, []string{cusip})
	if err != nil {
		return nil, false
	}

	mapping, ok := resolved[cusip]
	return mapping, ok
}

// ResolveAll resolves a batch of identifiers through the resolver chain.
// Cached entries are served without touching any resolver.
func (service *Service) ResolveAll(ctx context.Context, cusips []string) (map[string]*Mapping, error) {
	result := make(map[string]*Mapping, len(cusips))
	missing := make([]string, 0, len(cusips))

	for _, cusip := range cusips {
		cusip = strings.ToUpper(strings.TrimSpace(cusip))
		if cusip == "" {
			continue
		}

		if mapping, ok := service.cache.Get(cusip); ok {
			result[cusip] = mapping
		} else {
			missing = append(missing, cusip)
		}
	}

	for idx, resolver := range service.resolvers {
		if len(missing) == 0 {
			break
		}

		resolved, err := resolver.Resolve(ctx, missing)
		if err != nil {
			return result, err
		}

		found := make(map[string]*Mapping)
		stillMissing := make([]string, 0, len(missing))
		for _, cusip := range missing {
			if mapping, ok := resolved[cusip]; ok {
				result[cusip] = mapping
				found[cusip] = mapping
				service.cache.Set(cusip, mapping)
			} else {
				stillMissing = append(stillMissing, cusip)
			}
		}
		missing = stillMissing

		if idx > 0 && len(found) > 0 {
			service.writeBack(ctx, service.resolvers[:idx], found)
		}
	}

	return result, nil
}

// writeBack persists downstream results through every earlier writer.
// Failures only cost the write-back, never the resolution itself.
func (service *Service) writeBack(ctx context.Context, resolvers []Resolver, mappings map[string]*Mapping) {
	for _, resolver := range resolvers {
		writer, ok := resolver.(MappingWriter)
		if !ok {
			continue
		}

		if err := writer.Save(ctx, mappings); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Int("NumMappings", len(mappings)).
				Msg("could not persist resolved cusip mappings")
		}
	}
}
