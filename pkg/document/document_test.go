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

package document

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/mdpic/pkg/markdown"
	"github.com/walteh/mdpic/pkg/text"
)

func testContext(t *testing.T) context.Context {
	t.Helper()
	logger := zerolog.New(zerolog.NewTestWriter(t)).Level(zerolog.DebugLevel)
	return logger.WithContext(context.Background())
}

func writeDoc(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestOpen(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T) string
		wantErr error
	}{
		{
			name: "markdown_file",
			setup: func(t *testing.T) string {
				return writeDoc(t, "notes.md", "# hi")
			},
		},
		{
			name: "uppercase_extension",
			setup: func(t *testing.T) string {
				return writeDoc(t, "README.MARKDOWN", "# hi")
			},
		},
		{
			name: "not_markdown",
			setup: func(t *testing.T) string {
				return writeDoc(t, "notes.txt", "# hi")
			},
			wantErr: ErrNotMarkdown,
		},
		{
			name: "missing_file",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "missing.md")
			},
			wantErr: os.ErrNotExist,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Open(tt.setup(t))
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, doc)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "# hi", doc.Text())
		})
	}
}

func TestOpenDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "folder.md")
	require.NoError(t, os.Mkdir(dir, 0755))

	_, err := Open(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is a directory")
}

func TestFileAccessors(t *testing.T) {
	path := writeDoc(t, "post.md", "body")

	doc, err := Open(path)
	require.NoError(t, err)

	assert.Equal(t, filepath.Dir(path), doc.Dir())
	assert.Equal(t, "post.md", doc.BaseName())
	assert.True(t, filepath.IsAbs(doc.Path()))
}

func TestApplyEdits(t *testing.T) {
	ctx := testContext(t)
	content := "a ![x](one.png) b ![y](two.png)"
	path := writeDoc(t, "doc.md", content)

	doc, err := Open(path)
	require.NoError(t, err)

	refs := markdown.Scan(doc.Text())
	require.Len(t, refs, 2)

	reps := []text.Replacement{
		{Span: refs[1].Span, NewText: "![](https://h/2.png)"},
		{Span: refs[0].Span, NewText: "![](https://h/1.png)"},
	}

	changed, err := doc.ApplyEdits(ctx, reps)
	require.NoError(t, err)
	assert.True(t, changed)

	onDisk, err := os.ReadFile(path)
	require.NoError(t, err)
	want := "a ![](https://h/1.png) b ![](https://h/2.png)"
	assert.Equal(t, want, string(onDisk))
	assert.Equal(t, want, doc.Text(), "snapshot should follow the written content")

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files should be left behind")
}

func TestApplyEditsPreservesMode(t *testing.T) {
	ctx := testContext(t)
	path := writeDoc(t, "doc.md", "![a](a.png)")
	require.NoError(t, os.Chmod(path, 0600))

	doc, err := Open(path)
	require.NoError(t, err)

	refs := markdown.Scan(doc.Text())
	_, err = doc.ApplyEdits(ctx, []text.Replacement{{Span: refs[0].Span, NewText: "![](u)"}})
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestApplyEditsEmpty(t *testing.T) {
	ctx := testContext(t)
	path := writeDoc(t, "doc.md", "nothing")

	doc, err := Open(path)
	require.NoError(t, err)

	changed, err := doc.ApplyEdits(ctx, nil)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestApplyEditsRejectsChangedDocument(t *testing.T) {
	ctx := testContext(t)
	path := writeDoc(t, "doc.md", "![a](a.png)")

	doc, err := Open(path)
	require.NoError(t, err)
	refs := markdown.Scan(doc.Text())

	require.NoError(t, os.WriteFile(path, []byte("edited elsewhere ![a](a.png)"), 0644))

	changed, err := doc.ApplyEdits(ctx, []text.Replacement{{Span: refs[0].Span, NewText: "![](u)"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrChanged))
	assert.False(t, changed)

	onDisk, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "edited elsewhere ![a](a.png)", string(onDisk), "file must not be touched")
}

func TestApplyEditsRejectsOverlap(t *testing.T) {
	ctx := testContext(t)
	path := writeDoc(t, "doc.md", "0123456789")

	doc, err := Open(path)
	require.NoError(t, err)

	_, err = doc.ApplyEdits(ctx, []text.Replacement{
		{Span: markdown.Span{Start: 0, End: 5}, NewText: "a"},
		{Span: markdown.Span{Start: 3, End: 7}, NewText: "b"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, text.ErrOverlappingSpans)
}

// 🔧 MockReplacer is a mock implementation of text.TextReplacer
type MockReplacer struct {
	mock.Mock
}

func (m *MockReplacer) ReplaceText(ctx context.Context, content io.Reader, reps []text.Replacement) (*text.ReplacementResult, error) {
	args := m.Called(ctx, content, reps)
	res, _ := args.Get(0).(*text.ReplacementResult)
	return res, args.Error(1)
}

func (m *MockReplacer) ValidateReplacements(reps []text.Replacement, size int) error {
	return m.Called(reps, size).Error(0)
}

func TestApplyEditsUsesReplacer(t *testing.T) {
	tests := []struct {
		name        string
		setup       func(m *MockReplacer)
		wantErr     error
		wantChanged bool
		wantContent string
	}{
		{
			name: "replacer_output_is_written",
			setup: func(m *MockReplacer) {
				m.On("ValidateReplacements", mock.Anything, len("![a](a.png)")).Return(nil)
				m.On("ReplaceText", mock.Anything, mock.Anything, mock.Anything).Return(&text.ReplacementResult{
					WasModified:      true,
					ReplacementCount: 1,
					ModifiedContent:  []byte("replaced"),
				}, nil)
			},
			wantChanged: true,
			wantContent: "replaced",
		},
		{
			name: "validation_failure_leaves_file_untouched",
			setup: func(m *MockReplacer) {
				m.On("ValidateReplacements", mock.Anything, mock.Anything).Return(text.ErrSpanOutOfRange)
			},
			wantErr:     text.ErrSpanOutOfRange,
			wantContent: "![a](a.png)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testContext(t)
			path := writeDoc(t, "doc.md", "![a](a.png)")

			replacer := &MockReplacer{}
			tt.setup(replacer)

			doc, err := Open(path, WithReplacer(replacer))
			require.NoError(t, err)

			changed, err := doc.ApplyEdits(ctx, []text.Replacement{{Span: markdown.Span{Start: 0, End: 11}, NewText: "x"}})
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				replacer.AssertNotCalled(t, "ReplaceText", mock.Anything, mock.Anything, mock.Anything)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantChanged, changed)

			onDisk, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, tt.wantContent, string(onDisk))
			replacer.AssertExpectations(t)
		})
	}
}
