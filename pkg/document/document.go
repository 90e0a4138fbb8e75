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

// Package document is the on-disk Markdown editing surface: it snapshots a
// file's text when opened and writes a batch of span edits back in one
// atomic rename.
package document

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/mdpic/pkg/text"
)

var (
	// ErrNotMarkdown is returned by Open for files without a Markdown extension
	ErrNotMarkdown = errors.Base("not a markdown document")

	// ErrChanged is returned by ApplyEdits when the file on disk no longer
	// matches the snapshot the edits were computed against
	ErrChanged = errors.Base("document changed since it was opened")
)

var markdownExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
	".mdown":    true,
	".mkd":      true,
}

// IsMarkdown reports whether path has a Markdown extension
func IsMarkdown(path string) bool {
	return markdownExtensions[strings.ToLower(filepath.Ext(path))]
}

// 📄 File is a Markdown document on disk
type File struct {
	path     string
	mode     os.FileMode
	replacer text.TextReplacer

	mu       sync.Mutex
	snapshot []byte
}

// Option configures a File
type Option func(*File)

// WithReplacer sets the replacer used by ApplyEdits
func WithReplacer(r text.TextReplacer) Option {
	return func(f *File) {
		f.replacer = r
	}
}

// 🏭 Open reads the document at path and takes the snapshot used for edits
func Open(path string, opts ...Option) (*File, error) {
	if !IsMarkdown(path) {
		return nil, errors.WithDetails(ErrNotMarkdown, "path", path)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Errorf("resolving document path: %w", err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, errors.Errorf("opening document: %w", err)
	}
	if info.IsDir() {
		return nil, errors.Errorf("opening document: %s is a directory", abs)
	}

	content, err := os.ReadFile(abs)
	if err != nil {
		return nil, errors.Errorf("reading document: %w", err)
	}

	f := &File{
		path:     abs,
		mode:     info.Mode().Perm(),
		replacer: text.NewSpanReplacer(),
		snapshot: content,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Path returns the absolute path of the document
func (f *File) Path() string {
	return f.path
}

// Text returns the snapshot taken when the document was opened
func (f *File) Text() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return string(f.snapshot)
}

// Dir returns the directory containing the document
func (f *File) Dir() string {
	return filepath.Dir(f.path)
}

// BaseName returns the document's file name
func (f *File) BaseName() string {
	return filepath.Base(f.path)
}

// ✏️ ApplyEdits applies all replacements against the snapshot and writes the
// result atomically. The snapshot is refreshed on success, so a second batch
// computed from Text() is valid against it.
func (f *File) ApplyEdits(ctx context.Context, reps []text.Replacement) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	logger := zerolog.Ctx(ctx)

	if len(reps) == 0 {
		return false, nil
	}

	if err := f.replacer.ValidateReplacements(reps, len(f.snapshot)); err != nil {
		return false, errors.Errorf("validating edits: %w", err)
	}

	current, err := os.ReadFile(f.path)
	if err != nil {
		return false, errors.Errorf("reading document: %w", err)
	}
	if !bytes.Equal(current, f.snapshot) {
		return false, errors.WithDetails(ErrChanged, "path", f.path)
	}

	result, err := f.replacer.ReplaceText(ctx, bytes.NewReader(f.snapshot), reps)
	if err != nil {
		return false, errors.Errorf("applying edits: %w", err)
	}

	if !result.WasModified {
		logger.Debug().Str("path", f.path).Msg("edits left document unchanged")
		return false, nil
	}

	if err := writeFileAtomic(f.path, result.ModifiedContent, f.mode); err != nil {
		return false, err
	}

	logger.Debug().
		Str("path", f.path).
		Int("replacements", result.ReplacementCount).
		Msg("document updated")

	f.snapshot = result.ModifiedContent
	return true, nil
}

// writeFileAtomic writes content to a temp file next to path and renames it
// over path
func writeFileAtomic(path string, content []byte, mode os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Errorf("creating temporary file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return errors.Errorf("writing temporary file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return errors.Errorf("closing temporary file: %w", err)
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		os.Remove(tmpPath)
		return errors.Errorf("setting file mode: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath) // Clean up temp file
		return errors.Errorf("renaming temporary file: %w", err)
	}

	return nil
}
