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

package text

import (
	"context"
	"io"

	"github.com/walteh/mdpic/pkg/markdown"
)

// Replacement swaps the bytes covered by Span for NewText
type Replacement struct {
	// Span is measured against the original content, never against a
	// partially edited copy
	Span markdown.Span

	// NewText is the text written in place of the span
	NewText string
}

// ReplacementResult contains the results of a text replacement operation
type ReplacementResult struct {
	// WasModified indicates if any replacements were made
	WasModified bool

	// ReplacementCount is the number of replacements made
	ReplacementCount int

	// OriginalContent is the content before replacements
	OriginalContent []byte

	// ModifiedContent is the content after replacements
	ModifiedContent []byte
}

// TextReplacer applies a batch of span replacements as one edit
type TextReplacer interface {
	// ReplaceText applies every replacement against the original offsets of content
	ReplaceText(ctx context.Context, content io.Reader, reps []Replacement) (*ReplacementResult, error)

	// ValidateReplacements checks that the spans fit in size bytes and do not overlap
	ValidateReplacements(reps []Replacement, size int) error
}
