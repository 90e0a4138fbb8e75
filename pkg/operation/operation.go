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

package operation

import (
	"context"
	"time"

	"gitlab.com/tozd/go/errors"

	"github.com/walteh/mdpic/pkg/status"
	"github.com/walteh/mdpic/pkg/text"
	"github.com/walteh/mdpic/pkg/upload"
)

// 📄 Document is the editing surface a session reads from and writes to
type Document interface {
	// Text returns the document text; spans are measured against it
	Text() string
	// Dir is the directory relative image paths are resolved against
	Dir() string
	// BaseName is the document's file name, used in staging names
	BaseName() string
	// ApplyEdits applies every replacement as one edit
	ApplyEdits(ctx context.Context, reps []text.Replacement) (bool, error)
}

// 📤 Attempter performs a single upload attempt for a resolved image path
type Attempter interface {
	Attempt(ctx context.Context, resolvedPath, documentBaseName string) (string, error)
}

var _ Attempter = (*upload.Executor)(nil)

// 🔧 Options contains configuration for one session
type Options struct {
	// Document is the Markdown document being processed
	Document Document
	// Executor performs upload attempts
	Executor Attempter
	// Reporter receives progress and notices
	Reporter status.Reporter
	// MaxRetries bounds attempts per image
	MaxRetries int
	// Interval is the pause between images and between retry attempts
	Interval time.Duration
	// Ignore holds doublestar globs matched against raw image paths
	Ignore []string
	// Sleeper waits out delays; defaults to upload.Sleep
	Sleeper upload.Sleeper
	// SessionID identifies the session in logs; generated when empty
	SessionID string
	// Title is shown while uploading
	Title string
}

func (o *Options) validate() error {
	if o.Document == nil {
		return errors.Errorf("document is required")
	}
	if o.Executor == nil {
		return errors.Errorf("executor is required")
	}
	if o.Reporter == nil {
		return errors.Errorf("reporter is required")
	}
	if o.Interval < 0 {
		return errors.Errorf("interval must not be negative, got %s", o.Interval)
	}
	return nil
}

func (o *Options) setDefaults() {
	if o.MaxRetries < 1 {
		o.MaxRetries = 1
	}
	if o.Sleeper == nil {
		o.Sleeper = upload.Sleep
	}
	if o.Title == "" {
		o.Title = "uploading images"
	}
}
