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
	"bytes"
	"context"
	"io"
	"slices"

	"gitlab.com/tozd/go/errors"
)

var (
	ErrOverlappingSpans = errors.Base("overlapping replacement spans")
	ErrSpanOutOfRange   = errors.Base("replacement span out of range")
)

// SpanReplacer implements TextReplacer over byte offsets
type SpanReplacer struct{}

// NewSpanReplacer creates a new SpanReplacer
func NewSpanReplacer() *SpanReplacer {
	return &SpanReplacer{}
}

// ReplaceText implements TextReplacer.ReplaceText
func (r *SpanReplacer) ReplaceText(ctx context.Context, content io.Reader, reps []Replacement) (*ReplacementResult, error) {
	originalContent, err := io.ReadAll(content)
	if err != nil {
		return nil, errors.Errorf("reading content: %w", err)
	}

	return ApplySpans(originalContent, reps)
}

// ValidateReplacements implements TextReplacer.ValidateReplacements
func (r *SpanReplacer) ValidateReplacements(reps []Replacement, size int) error {
	_, err := sortedReplacements(reps, size)
	return err
}

// ✂️ ApplySpans applies all replacements to content in a single pass.
// Offsets always refer to content as given; the order of reps does not matter.
func ApplySpans(content []byte, reps []Replacement) (*ReplacementResult, error) {
	result := &ReplacementResult{
		OriginalContent: content,
		ModifiedContent: content,
	}

	if len(reps) == 0 {
		return result, nil
	}

	sorted, err := sortedReplacements(reps, len(content))
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Grow(len(content))

	last := 0
	for _, rep := range sorted {
		buf.Write(content[last:rep.Span.Start])
		buf.WriteString(rep.NewText)
		last = rep.Span.End
	}
	buf.Write(content[last:])

	result.ModifiedContent = buf.Bytes()
	result.ReplacementCount = len(sorted)
	result.WasModified = !bytes.Equal(content, result.ModifiedContent)
	return result, nil
}

// sortedReplacements returns a copy of reps ordered by start offset, after
// checking every span against size and its neighbours
func sortedReplacements(reps []Replacement, size int) ([]Replacement, error) {
	sorted := slices.Clone(reps)
	slices.SortStableFunc(sorted, func(a, b Replacement) int {
		return a.Span.Start - b.Span.Start
	})

	prevEnd := 0
	for i, rep := range sorted {
		if rep.Span.Start < 0 || rep.Span.End > size || rep.Span.Start > rep.Span.End {
			return nil, errors.WithDetails(ErrSpanOutOfRange, "index", i, "start", rep.Span.Start, "end", rep.Span.End, "size", size)
		}
		if rep.Span.Start < prevEnd {
			return nil, errors.WithDetails(ErrOverlappingSpans, "index", i, "start", rep.Span.Start, "previous_end", prevEnd)
		}
		prevEnd = rep.Span.End
	}

	return sorted, nil
}
