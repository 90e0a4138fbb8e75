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
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/go-github/v60/github"
	"github.com/rs/zerolog"
	"github.com/walteh/mdpic/pkg/config"
	"github.com/walteh/mdpic/pkg/upload"
	"gitlab.com/tozd/go/errors"
)

func init() {
	upload.Register("github", New)
}

// 🐙 Uploader commits images into a GitHub repository and serves them from
// the raw download url or a configured CDN prefix
type Uploader struct {
	client *github.Client
	owner  string
	repo   string
	args   config.GitHubArgs
}

// 🏭 New creates a new GitHub uploader
func New(ctx context.Context, cfg *config.Config) (upload.Uploader, error) {
	if cfg.Uploader.GitHub == nil {
		return nil, errors.New("github uploader config is required")
	}
	args := *cfg.Uploader.GitHub

	token := os.Getenv(args.TokenEnv)
	if token == "" {
		return nil, errors.Errorf("%s environment variable not set", args.TokenEnv)
	}

	return NewWithClient(github.NewClient(nil).WithAuthToken(token), args)
}

// NewWithClient creates a GitHub uploader using an existing client
func NewWithClient(client *github.Client, args config.GitHubArgs) (*Uploader, error) {
	owner, repo, err := parseRepo(args.Repo)
	if err != nil {
		return nil, errors.Errorf("parsing repo: %w", err)
	}

	return &Uploader{
		client: client,
		owner:  owner,
		repo:   repo,
		args:   args,
	}, nil
}

// 🔍 parseRepo parses owner/name, tolerating a github.com/ prefix
func parseRepo(repo string) (owner, name string, err error) {
	parts := strings.Split(strings.Trim(repo, "/"), "/")
	if len(parts) < 2 || parts[len(parts)-2] == "" || parts[len(parts)-1] == "" {
		return "", "", errors.Errorf("invalid repository format: %s", repo)
	}

	return parts[len(parts)-2], parts[len(parts)-1], nil
}

// Name implements upload.Uploader
func (u *Uploader) Name() string {
	return "github"
}

// 📤 Upload implements upload.Uploader. Each file becomes one commit.
func (u *Uploader) Upload(ctx context.Context, paths []string) ([]upload.Result, error) {
	results := make([]upload.Result, 0, len(paths))
	for _, p := range paths {
		r, err := u.uploadOne(ctx, p)
		if err != nil {
			return nil, errors.Errorf("uploading %s: %w", filepath.Base(p), err)
		}
		results = append(results, r)
	}
	return results, nil
}

func (u *Uploader) uploadOne(ctx context.Context, localPath string) (upload.Result, error) {
	content, err := os.ReadFile(localPath)
	if err != nil {
		return upload.Result{}, errors.Errorf("reading file: %w", err)
	}

	name := filepath.Base(localPath)
	repoPath := path.Join(u.args.Path, name)

	opts := &github.RepositoryContentFileOptions{
		Message: github.String(strings.ReplaceAll(u.args.Message, "{name}", name)),
		Content: content,
	}
	if u.args.Branch != "" {
		opts.Branch = github.String(u.args.Branch)
	}

	zerolog.Ctx(ctx).Debug().
		Str("repo", u.owner+"/"+u.repo).
		Str("path", repoPath).
		Msg("committing image")

	resp, _, err := u.client.Repositories.CreateFile(ctx, u.owner, u.repo, repoPath, opts)
	if err != nil {
		return upload.Result{}, errors.Errorf("creating file: %w", err)
	}

	result := upload.Result{FileName: name}
	if u.args.CustomURL != "" {
		result.URL = strings.TrimRight(u.args.CustomURL, "/") + "/" + repoPath
	} else if resp != nil && resp.Content != nil {
		result.URL = resp.Content.GetDownloadURL()
	}

	return result, nil
}
