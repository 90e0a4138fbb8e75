// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package upload

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/docker/go-units"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

var (
	ErrEmptyResult = errors.Base("uploader returned no results")
	ErrMissingURL  = errors.Base("uploader result has no url")
)

// 📤 Executor performs a single upload attempt for one image
type Executor struct {
	uploader   Uploader
	stagingDir string // empty disables staging
	now        func() time.Time
}

// ExecutorOption configures an Executor
type ExecutorOption func(*Executor)

// WithStagingDir copies every image to a uniquely named file in dir before
// uploading it. An empty dir uploads the source file directly.
func WithStagingDir(dir string) ExecutorOption {
	return func(e *Executor) {
		e.stagingDir = dir
	}
}

// WithClock overrides the time source used for staging names
func WithClock(now func() time.Time) ExecutorOption {
	return func(e *Executor) {
		e.now = now
	}
}

// 🏭 NewExecutor creates a new executor around uploader
func NewExecutor(uploader Uploader, opts ...ExecutorOption) *Executor {
	e := &Executor{
		uploader: uploader,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// 🎯 Attempt uploads resolvedPath once and returns the remote url.
// The staging copy, when enabled, is removed on every return path.
func (e *Executor) Attempt(ctx context.Context, resolvedPath, documentBaseName string) (string, error) {
	logger := zerolog.Ctx(ctx)

	uploadPath := resolvedPath
	if e.stagingDir != "" {
		name, err := StagingName(documentBaseName, resolvedPath, e.now())
		if err != nil {
			return "", errors.Errorf("generating staging name: %w", err)
		}

		staged := filepath.Join(e.stagingDir, name)
		size, err := copyFile(resolvedPath, staged)
		if err != nil {
			return "", errors.Errorf("staging %s: %w", resolvedPath, err)
		}
		defer func() {
			if err := os.Remove(staged); err != nil && !errors.Is(err, os.ErrNotExist) {
				logger.Warn().Err(err).Str("staged", staged).Msg("removing staging file")
			}
		}()

		logger.Debug().
			Str("source", resolvedPath).
			Str("staged", staged).
			Str("size", units.HumanSize(float64(size))).
			Msg("staged image")
		uploadPath = staged
	} else if _, err := os.Stat(resolvedPath); err != nil {
		return "", errors.Errorf("checking %s: %w", resolvedPath, err)
	}

	results, err := e.uploader.Upload(ctx, []string{uploadPath})
	if err != nil {
		return "", errors.Errorf("uploading with %s: %w", e.uploader.Name(), err)
	}

	if len(results) == 0 {
		return "", errors.WithStack(ErrEmptyResult)
	}
	if results[0].URL == "" {
		return "", errors.WithDetails(ErrMissingURL, "file_name", results[0].FileName)
	}

	return results[0].URL, nil
}

// 🏷️ StagingName builds `{document}_{image}_{unixMillis}_{randomHex}{ext}`.
// Base names are taken without their extensions.
func StagingName(documentBaseName, imagePath string, now time.Time) (string, error) {
	suffix := make([]byte, 4)
	if _, err := rand.Read(suffix); err != nil {
		return "", errors.Errorf("reading random bytes: %w", err)
	}

	doc := strings.TrimSuffix(documentBaseName, filepath.Ext(documentBaseName))
	base := filepath.Base(imagePath)
	ext := filepath.Ext(base)
	image := strings.TrimSuffix(base, ext)

	return doc + "_" + image + "_" + strconv.FormatInt(now.UnixMilli(), 10) + "_" + hex.EncodeToString(suffix) + ext, nil
}

// copyFile copies src to dst and returns the number of bytes written
func copyFile(src, dst string) (int64, error) {
	source, err := os.Open(src)
	if err != nil {
		return 0, errors.Errorf("opening source file: %w", err)
	}
	defer source.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return 0, errors.Errorf("creating staging directory: %w", err)
	}

	destination, err := os.Create(dst)
	if err != nil {
		return 0, errors.Errorf("creating staging file: %w", err)
	}

	n, err := io.Copy(destination, source)
	if cerr := destination.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(dst)
		return 0, errors.Errorf("copying file: %w", err)
	}

	return n, nil
}
