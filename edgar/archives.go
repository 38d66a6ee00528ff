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
package edgar

import (
	"context"
	"fmt"
	"strings"
)

// IndexEntry is one file within a filing's archive directory.
type IndexEntry struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Size string `json:"size"`
}

type archiveIndex struct {
	Directory struct {
		Items []IndexEntry `json:"item"`
	} `json:"directory"`
}

// GetFilingIndex lists the documents attached to a filing. The accession
// number may be given with or without hyphens.
func (client *Client) GetFilingIndex(ctx context.Context, cik, accession string) ([]IndexEntry, error) {
	url := fmt.Sprintf("%s/Archives/edgar/data/%s/%s/index.json",
		client.ArchiveBaseURL, strings.TrimLeft(cik, "0"), StripAccession(accession))

	var index archiveIndex
	if err := client.getJSON(ctx, url, &index); err != nil {
		return nil, err
	}

	return index.Directory.Items, nil
}

// GetDocument fetches a single document from a filing's archive directory.
func (client *Client) GetDocument(ctx context.Context, cik, accession, filename string) ([]byte, error) {
	url := fmt.Sprintf("%s/Archives/edgar/data/%s/%s/%s",
		client.ArchiveBaseURL, strings.TrimLeft(cik, "0"), StripAccession(accession), filename)

	return client.get(ctx, url)
}

// FindInformationTable picks the holdings information-table document out of a
// 13F filing's directory listing. Filers attach the table as a separate XML
// document whose name varies; the primary_doc.xml holds only the cover page.
func FindInformationTable(entries []IndexEntry) (string, bool) {
	var fallback string

	for _, entry := range entries {
		name := strings.ToLower(entry.Name)
		if !strings.HasSuffix(name, ".xml") {
			continue
		}

		if strings.Contains(name, "infotable") || strings.Contains(name, "informationtable") {
			return entry.Name, true
		}

		if name != "primary_doc.xml" && fallback == "" {
			fallback = entry.Name
		}
	}

	if fallback != "" {
		return fallback, true
	}

	return "", false
}
