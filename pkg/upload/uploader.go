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
	"sort"
	"strings"

	"github.com/walteh/mdpic/pkg/config"
	"gitlab.com/tozd/go/errors"
)

// 🌐 Result is one uploaded file as reported by the image host
type Result struct {
	URL      string // Remote URL of the image, empty when the host gave none
	FileName string // Name the host stored the image under
}

// 🔌 Uploader is the interface for image hosting backends
type Uploader interface {
	// Name returns the backend name (e.g. "picgo")
	Name() string

	// 📤 Upload sends local files to the host. A nil error with an empty or
	// URL-less result is still a failed upload; callers must check.
	Upload(ctx context.Context, paths []string) ([]Result, error)
}

// 🏭 Factory creates a new uploader from config
type Factory func(ctx context.Context, cfg *config.Config) (Uploader, error)

var (
	// 🗺️ factories is a map of uploader names to factories
	factories = make(map[string]Factory)
)

// 📝 Register registers an uploader factory
func Register(name string, factory Factory) {
	factories[name] = factory
}

// 🎯 New creates the uploader selected by cfg.Uploader.Type
func New(ctx context.Context, cfg *config.Config) (Uploader, error) {
	factory, ok := factories[cfg.Uploader.Type]
	if !ok {
		options := make([]string, 0, len(factories))
		for k := range factories {
			options = append(options, k)
		}
		sort.Strings(options)
		return nil, errors.Errorf("uploader %s not found, options: %s", cfg.Uploader.Type, strings.Join(options, ", "))
	}

	u, err := factory(ctx, cfg)
	if err != nil {
		return nil, errors.Errorf("creating %s uploader: %w", cfg.Uploader.Type, err)
	}
	return u, nil
}
