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
package backblaze

import (
	"bytes"
	"context"
	"errors"

	"github.com/kothar/go-backblaze"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// DocumentArchiver stores raw filing documents in a backblaze bucket before
// parsing so the original bytes survive parser changes.
type DocumentArchiver struct {
	BucketName string

	bucket *backblaze.Bucket
}

func NewDocumentArchiver(bucketName string) *DocumentArchiver {
	return &DocumentArchiver{BucketName: bucketName}
}

func (archiver *DocumentArchiver) connect() error {
	if archiver.bucket != nil {
		return nil
	}

	b2, err := backblaze.NewB2(backblaze.Credentials{
		KeyID:          viper.GetString("backblaze.application_id"),
		ApplicationKey: viper.GetString("backblaze.application_key"),
	})
	if err != nil {
		log.Error().Err(err).Str("BucketName", archiver.BucketName).Msg("authorize backblaze failed")
		return err
	}

	bucket, err := b2.Bucket(archiver.BucketName)
	if err != nil {
		log.Error().Err(err).Str("BucketName", archiver.BucketName).Msg("lookup bucket failed")
		return err
	}
	if bucket == nil {
		log.Error().Str("BucketName", archiver.BucketName).Msg("bucket does not exist")
		return errors.New("bucket not found")
	}

	archiver.bucket = bucket
	return nil
}

// ArchiveDocument uploads one raw document under the given object name.
func (archiver *DocumentArchiver) ArchiveDocument(_ context.Context, name string, doc []byte) error {
	if err := archiver.connect(); err != nil {
		return err
	}

	metadata := make(map[string]string)
	file, err := archiver.bucket.UploadFile(name, metadata, bytes.NewReader(doc))
	if err != nil {
		log.Error().Err(err).Str("FileName", name).Str("BucketName", archiver.BucketName).Msg("save file to backblaze failed")
		return err
	}

	log.Info().Str("FileName", file.Name).Int64("Size", file.ContentLength).Str("ID", file.ID).Msg("uploaded file to backblaze")
	return nil
}
