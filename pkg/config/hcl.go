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
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

// 📝 Parse parses the config from HCL
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "config.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	// Create evaluation context
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}

	// Define HCL schema
	type hclConfig struct {
		UploadInterval *int     `hcl:"upload_interval,optional"`
		MaxRetries     *int     `hcl:"max_retries,optional"`
		Ignore         []string `hcl:"ignore,optional"`
		Staging        *struct {
			Enabled *bool   `hcl:"enabled,optional"`
			Dir     *string `hcl:"dir,optional"`
		} `hcl:"staging,block"`
		Uploader *struct {
			Type  string `hcl:"type,label"`
			PicGo *struct {
				Endpoint *string `hcl:"endpoint,optional"`
			} `hcl:"picgo,block"`
			GitHub *struct {
				Repo      string  `hcl:"repo"`
				Branch    *string `hcl:"branch,optional"`
				Path      *string `hcl:"path,optional"`
				CustomURL *string `hcl:"custom_url,optional"`
				TokenEnv  *string `hcl:"token_env,optional"`
				Message   *string `hcl:"message,optional"`
			} `hcl:"github,block"`
		} `hcl:"uploader,block"`
	}

	// Decode HCL
	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	// Convert to model
	cfg := &Config{
		UploadInterval: DefaultUploadInterval,
		MaxRetries:     DefaultMaxRetries,
		Ignore:         hclCfg.Ignore,
	}
	if hclCfg.UploadInterval != nil {
		cfg.UploadInterval = *hclCfg.UploadInterval
	}
	if hclCfg.MaxRetries != nil {
		cfg.MaxRetries = *hclCfg.MaxRetries
	}

	if hclCfg.Staging != nil {
		cfg.Staging.Enabled = hclCfg.Staging.Enabled
		cfg.Staging.Dir = deref(hclCfg.Staging.Dir)
	}

	if up := hclCfg.Uploader; up != nil {
		cfg.Uploader.Type = up.Type
		if up.PicGo != nil {
			cfg.Uploader.PicGo = &PicGoArgs{
				Endpoint: deref(up.PicGo.Endpoint),
			}
		}
		if up.GitHub != nil {
			cfg.Uploader.GitHub = &GitHubArgs{
				Repo:      up.GitHub.Repo,
				Branch:    deref(up.GitHub.Branch),
				Path:      deref(up.GitHub.Path),
				CustomURL: deref(up.GitHub.CustomURL),
				TokenEnv:  deref(up.GitHub.TokenEnv),
				Message:   deref(up.GitHub.Message),
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
