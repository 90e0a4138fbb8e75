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

package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScan(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantPaths []string
		wantLocal int
	}{
		{
			name:      "no_images",
			text:      "# Title\n\nJust text and a [link](./doc.md).",
			wantPaths: []string{},
			wantLocal: 0,
		},
		{
			name:      "mixed_local_and_remote",
			text:      "![a](./img1.png)\n![b](http://x.com/img2.png)\n![c](HTTPS://x.com/img3.png)",
			wantPaths: []string{"./img1.png", "http://x.com/img2.png", "HTTPS://x.com/img3.png"},
			wantLocal: 1,
		},
		{
			name:      "duplicates_are_independent",
			text:      "![](a.png) and again ![](a.png)",
			wantPaths: []string{"a.png", "a.png"},
			wantLocal: 2,
		},
		{
			name:      "non_greedy_on_one_line",
			text:      "![x](one.png)(not an image) ![y](two.png)",
			wantPaths: []string{"one.png", "two.png"},
			wantLocal: 2,
		},
		{
			name:      "empty_alt_and_path",
			text:      "![]()",
			wantPaths: []string{""},
			wantLocal: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			refs := Scan(tt.text)

			paths := make([]string, 0, len(refs))
			for _, ref := range refs {
				paths = append(paths, ref.RawPath)
				assert.Equal(t, ref.Match, tt.text[ref.Span.Start:ref.Span.End], "span should cover the match")
			}
			assert.Equal(t, tt.wantPaths, paths, "paths should match in order")
			assert.Equal(t, tt.wantLocal, CountLocal(refs), "local count should match")
			assert.Len(t, Local(refs), tt.wantLocal, "local filter should match count")
		})
	}
}

func TestScanSpansDoNotOverlap(t *testing.T) {
	text := "![a](1.png)![b](2.png) text ![c](3.png)"
	refs := Scan(text)
	require.Len(t, refs, 3)

	for i := 1; i < len(refs); i++ {
		assert.LessOrEqual(t, refs[i-1].Span.End, refs[i].Span.Start, "span %d should end before span %d", i-1, i)
	}
	assert.Equal(t, "a", refs[0].Alt)
	assert.Equal(t, Span{Start: 0, End: 11}, refs[0].Span)
	assert.Equal(t, 11, refs[0].Span.Len())
}

func TestScanIsRestartable(t *testing.T) {
	text := "![a](1.png) ![b](https://cdn/2.png)"
	first := Scan(text)
	second := Scan(text)
	assert.Equal(t, first, second, "scanning the same snapshot twice should give the same references")
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		dir         string
		want        string
		errContains string
	}{
		{
			name: "relative_dot_slash",
			raw:  "./img/a.png",
			dir:  "/docs/post",
			want: "/docs/post/img/a.png",
		},
		{
			name: "relative_parent",
			raw:  "../shared/a.png",
			dir:  "/docs/post",
			want: "/docs/shared/a.png",
		},
		{
			name: "absolute_kept",
			raw:  "/var/images/a.png",
			dir:  "/docs/post",
			want: "/var/images/a.png",
		},
		{
			name: "percent_encoded",
			raw:  "./my%20image%E5%9B%BE.png",
			dir:  "/docs",
			want: "/docs/my image图.png",
		},
		{
			name: "backslashes_normalized",
			raw:  `img\sub\a.png`,
			dir:  "/docs",
			want: "/docs/img/sub/a.png",
		},
		{
			name: "windows_drive_kept",
			raw:  `C:\Users\me\a.png`,
			dir:  "/docs",
			want: "C:/Users/me/a.png",
		},
		{
			name:        "malformed_escape",
			raw:         "./bad%zz.png",
			dir:         "/docs",
			errContains: "decoding path",
		},
		{
			name: "percent_in_document_dir",
			raw:  "img.png",
			dir:  "/home/u/100%done",
			want: "/home/u/100%done/img.png",
		},
		{
			name: "escaped_looking_document_dir_kept",
			raw:  "a%20b.png",
			dir:  "/docs/a%20b",
			want: "/docs/a%20b/a b.png",
		},
		{
			name: "encoded_absolute_path",
			raw:  "%2Fvar%2Fimages%2Fa.png",
			dir:  "/docs",
			want: "/var/images/a.png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.raw, tt.dir)
			if tt.errContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
