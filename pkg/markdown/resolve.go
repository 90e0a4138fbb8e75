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
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 📂 Resolve turns a raw image path into an absolute, decoded path.
// Percent escapes in rawPath are decoded, then relative paths are taken
// relative to documentDir. Back-slashes are normalized to forward slashes.
func Resolve(rawPath, documentDir string) (string, error) {
	decoded, err := url.PathUnescape(rawPath)
	if err != nil {
		return "", errors.Errorf("decoding path %q: %w", rawPath, err)
	}

	full := decoded
	if !filepath.IsAbs(decoded) && !isWindowsAbs(decoded) {
		full = filepath.Join(documentDir, decoded)
	}

	return path.Clean(strings.ReplaceAll(full, `\`, "/")), nil
}

// isWindowsAbs catches drive-letter paths written in documents edited on
// windows, which filepath.IsAbs does not recognize on other platforms.
func isWindowsAbs(p string) bool {
	if len(p) < 3 || p[1] != ':' {
		return false
	}
	c := p[0]
	isLetter := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
	return isLetter && (p[2] == '\\' || p[2] == '/')
}
