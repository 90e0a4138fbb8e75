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

package picgo

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/walteh/mdpic/pkg/config"
	"github.com/walteh/mdpic/pkg/upload"
	"gitlab.com/tozd/go/errors"
)

func init() {
	upload.Register("picgo", New)
}

// 🖼️ Uploader sends local paths to a running PicGo server, which uploads
// them with whatever image bed it is configured for
type Uploader struct {
	endpoint string
	client   *http.Client
}

type uploadRequest struct {
	List []string `json:"list"`
}

type uploadResponse struct {
	Success bool     `json:"success"`
	Result  []string `json:"result"`
	Message string   `json:"message"`
}

// 🏭 New creates a new PicGo uploader
func New(ctx context.Context, cfg *config.Config) (upload.Uploader, error) {
	if cfg.Uploader.PicGo == nil || cfg.Uploader.PicGo.Endpoint == "" {
		return nil, errors.New("picgo endpoint is required")
	}
	return NewWithClient(cfg.Uploader.PicGo.Endpoint, &http.Client{Timeout: 2 * time.Minute}), nil
}

// NewWithClient creates a PicGo uploader using client
func NewWithClient(endpoint string, client *http.Client) *Uploader {
	return &Uploader{
		endpoint: endpoint,
		client:   client,
	}
}

// Name implements upload.Uploader
func (u *Uploader) Name() string {
	return "picgo"
}

// 📤 Upload implements upload.Uploader
func (u *Uploader) Upload(ctx context.Context, paths []string) ([]upload.Result, error) {
	body, err := json.Marshal(uploadRequest{List: paths})
	if err != nil {
		return nil, errors.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	zerolog.Ctx(ctx).Debug().Str("endpoint", u.endpoint).Strs("paths", paths).Msg("posting to picgo")

	resp, err := u.client.Do(req)
	if err != nil {
		return nil, errors.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var out uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, errors.Errorf("decoding response: %w", err)
	}

	if !out.Success {
		if out.Message == "" {
			out.Message = "no message"
		}
		return nil, errors.Errorf("picgo reported failure: %s", out.Message)
	}

	results := make([]upload.Result, 0, len(out.Result))
	for i, url := range out.Result {
		r := upload.Result{URL: url}
		if i < len(paths) {
			r.FileName = filepath.Base(paths[i])
		}
		results = append(results, r)
	}
	return results, nil
}
