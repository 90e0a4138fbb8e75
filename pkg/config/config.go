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

package config

import (
	"context"
	"os"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// ⚙️ Defaults
const (
	DefaultUploadInterval = 2000 // milliseconds
	DefaultMaxRetries     = 3
	DefaultUploader       = "picgo"
	DefaultPicGoEndpoint  = "http://127.0.0.1:36677/upload"
	DefaultGitHubBranch   = "main"
	DefaultGitHubTokenEnv = "GITHUB_TOKEN"
	DefaultGitHubMessage  = "upload {name}"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📦 StagingArgs controls the renamed copy made before each upload
type StagingArgs struct {
	Enabled *bool  `json:"enabled,omitempty" yaml:"enabled,omitempty"` // Copy to a unique name before uploading (default true)
	Dir     string `json:"dir,omitempty" yaml:"dir,omitempty"`         // Where staging copies live (default os temp dir)
}

// 🖼️ PicGoArgs configures the PicGo server uploader
type PicGoArgs struct {
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
}

// 🐙 GitHubArgs configures the GitHub repository uploader
type GitHubArgs struct {
	Repo      string `json:"repo" yaml:"repo"`                                 // owner/name
	Branch    string `json:"branch,omitempty" yaml:"branch,omitempty"`         // Branch to commit to
	Path      string `json:"path,omitempty" yaml:"path,omitempty"`             // Directory inside the repo
	CustomURL string `json:"custom_url,omitempty" yaml:"custom_url,omitempty"` // CDN prefix used instead of the download url
	TokenEnv  string `json:"token_env,omitempty" yaml:"token_env,omitempty"`   // Environment variable holding the token
	Message   string `json:"message,omitempty" yaml:"message,omitempty"`       // Commit message, {name} is the file name
}

// 🚀 UploaderArgs selects and configures the uploader backend
type UploaderArgs struct {
	Type   string      `json:"type" yaml:"type"`
	PicGo  *PicGoArgs  `json:"picgo,omitempty" yaml:"picgo,omitempty"`
	GitHub *GitHubArgs `json:"github,omitempty" yaml:"github,omitempty"`
}

// 📚 Config represents the complete configuration
type Config struct {
	UploadInterval int          `json:"upload_interval" yaml:"upload_interval"` // Pause between images and between retries, in milliseconds
	MaxRetries     int          `json:"max_retries" yaml:"max_retries"`         // Attempts per image
	Ignore         []string     `json:"ignore,omitempty" yaml:"ignore,omitempty"`
	Staging        StagingArgs  `json:"staging,omitempty" yaml:"staging,omitempty"`
	Uploader       UploaderArgs `json:"uploader" yaml:"uploader"`
}

// 🏭 Default returns a config with every default applied
func Default() *Config {
	cfg := &Config{
		UploadInterval: DefaultUploadInterval,
		MaxRetries:     DefaultMaxRetries,
		Uploader:       UploaderArgs{Type: DefaultUploader},
	}
	cfg.SetDefaults()
	return cfg
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	// Read config file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	// Get parser
	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	// Parse config
	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault loads path, falling back to Default when the file does not exist
func LoadOrDefault(ctx context.Context, path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		zerolog.Ctx(ctx).Debug().Str("path", path).Msg("config file not found, using defaults")
		return Default(), nil
	}
	return Load(ctx, path)
}

// SetDefaults fills in uploader specific defaults
func (cfg *Config) SetDefaults() {
	if cfg.Staging.Enabled == nil {
		enabled := true
		cfg.Staging.Enabled = &enabled
	}
	if cfg.Uploader.Type == "" {
		cfg.Uploader.Type = DefaultUploader
	}
	switch cfg.Uploader.Type {
	case "picgo":
		if cfg.Uploader.PicGo == nil {
			cfg.Uploader.PicGo = &PicGoArgs{}
		}
		if cfg.Uploader.PicGo.Endpoint == "" {
			cfg.Uploader.PicGo.Endpoint = DefaultPicGoEndpoint
		}
	case "github":
		if cfg.Uploader.GitHub == nil {
			cfg.Uploader.GitHub = &GitHubArgs{}
		}
		gh := cfg.Uploader.GitHub
		if gh.Branch == "" {
			gh.Branch = DefaultGitHubBranch
		}
		if gh.TokenEnv == "" {
			gh.TokenEnv = DefaultGitHubTokenEnv
		}
		if gh.Message == "" {
			gh.Message = DefaultGitHubMessage
		}
	}
}

// 🔍 Validate checks if the configuration is valid
func (cfg *Config) Validate() error {
	cfg.SetDefaults()

	if cfg.UploadInterval < 0 {
		return errors.Errorf("upload_interval must not be negative")
	}
	if cfg.MaxRetries < 1 {
		return errors.Errorf("max_retries must be at least 1")
	}

	for i, pattern := range cfg.Ignore {
		if !doublestar.ValidatePattern(pattern) {
			return errors.Errorf("ignore %d: invalid pattern %q", i, pattern)
		}
	}

	switch cfg.Uploader.Type {
	case "picgo":
	case "github":
		if cfg.Uploader.GitHub.Repo == "" {
			return errors.Errorf("uploader.github.repo is required")
		}
	default:
		return errors.Errorf("unknown uploader type %q", cfg.Uploader.Type)
	}

	return nil
}

// Interval returns the upload interval as a duration
func (cfg *Config) Interval() time.Duration {
	return time.Duration(cfg.UploadInterval) * time.Millisecond
}

// StagingEnabled reports whether images are copied to a unique name first
func (cfg *Config) StagingEnabled() bool {
	return cfg.Staging.Enabled == nil || *cfg.Staging.Enabled
}

// StagingDir returns the directory staging copies are written to
func (cfg *Config) StagingDir() string {
	if cfg.Staging.Dir != "" {
		return cfg.Staging.Dir
	}
	return os.TempDir()
}
