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

package github

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-github/v60/github"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/mdpic/pkg/config"
	"github.com/walteh/mdpic/pkg/upload"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *github.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := github.NewClient(nil)
	base, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)
	client.BaseURL = base
	return client
}

func TestUpload(t *testing.T) {
	tests := []struct {
		name        string
		args        config.GitHubArgs
		status      int
		response    string
		wantURL     string
		errContains string
	}{
		{
			name: "download_url",
			args: config.GitHubArgs{Repo: "me/images", Branch: "main", Path: "blog", Message: "upload {name}"},
			status: http.StatusCreated,
			response: `{"content": {"name": "a.png", "path": "blog/a.png",
				"download_url": "https://raw.githubusercontent.com/me/images/main/blog/a.png"}}`,
			wantURL: "https://raw.githubusercontent.com/me/images/main/blog/a.png",
		},
		{
			name:     "custom_url",
			args:     config.GitHubArgs{Repo: "github.com/me/images", Path: "blog", CustomURL: "https://cdn.example.com/", Message: "upload {name}"},
			status:   http.StatusCreated,
			response: `{"content": {"download_url": "https://raw.githubusercontent.com/ignored"}}`,
			wantURL:  "https://cdn.example.com/blog/a.png",
		},
		{
			name:     "no_content_in_response",
			args:     config.GitHubArgs{Repo: "me/images", Message: "upload {name}"},
			status:   http.StatusCreated,
			response: `{}`,
			wantURL:  "",
		},
		{
			name:        "api_error",
			args:        config.GitHubArgs{Repo: "me/images", Message: "upload {name}"},
			status:      http.StatusUnprocessableEntity,
			response:    `{"message": "sha wasn't supplied"}`,
			errContains: "creating file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
			src := filepath.Join(t.TempDir(), "a.png")
			require.NoError(t, os.WriteFile(src, []byte("png-bytes"), 0644))

			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPut, r.Method)
				wantPath := "/repos/me/images/contents/" + filepath.ToSlash(filepath.Join(tt.args.Path, "a.png"))
				assert.Equal(t, wantPath, r.URL.Path)

				var body github.RepositoryContentFileOptions
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				assert.Equal(t, "upload a.png", body.GetMessage())
				assert.Equal(t, []byte("png-bytes"), body.Content)
				assert.Equal(t, tt.args.Branch, body.GetBranch())

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.response))
			})

			u, err := NewWithClient(client, tt.args)
			require.NoError(t, err)

			results, err := u.Upload(ctx, []string{src})
			if tt.errContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
			require.Len(t, results, 1)
			assert.Equal(t, tt.wantURL, results[0].URL)
			assert.Equal(t, "a.png", results[0].FileName)
		})
	}
}

func TestParseRepo(t *testing.T) {
	owner, name, err := parseRepo("github.com/me/images")
	require.NoError(t, err)
	assert.Equal(t, "me", owner)
	assert.Equal(t, "images", name)

	_, _, err = parseRepo("images")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid repository format")
}

func TestNew(t *testing.T) {
	ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())

	cfg := &config.Config{
		MaxRetries: 1,
		Uploader: config.UploaderArgs{
			Type:   "github",
			GitHub: &config.GitHubArgs{Repo: "me/images", TokenEnv: "MDPIC_TEST_GITHUB_TOKEN"},
		},
	}
	require.NoError(t, cfg.Validate())

	t.Setenv("MDPIC_TEST_GITHUB_TOKEN", "")
	_, err := upload.New(ctx, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MDPIC_TEST_GITHUB_TOKEN environment variable not set")

	t.Setenv("MDPIC_TEST_GITHUB_TOKEN", "secret")
	u, err := upload.New(ctx, cfg)
	require.NoError(t, err)
	assert.Equal(t, "github", u.Name())
}
