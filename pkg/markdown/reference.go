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
	"regexp"
	"strings"
)

// imagePattern matches `![alt](path)` non-greedily, the same way a plain
// editor search would.
var imagePattern = regexp.MustCompile(`!\[(.*?)\]\((.*?)\)`)

// 📍 Span is a byte offset range into the scanned text snapshot
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes covered by the span
func (s Span) Len() int {
	return s.End - s.Start
}

// 🖼️ ImageReference is one `![alt](path)` occurrence in a document
type ImageReference struct {
	Alt      string // alt text between the brackets
	RawPath  string // path exactly as written between the parentheses
	Match    string // the whole matched text
	Span     Span   // location of Match in the snapshot
	IsRemote bool   // http:// or https:// reference, never uploaded
}

// 🔍 Scan returns every image reference in text, left to right.
// The result is materialized once so callers can iterate it as often as
// they like against the same snapshot.
func Scan(text string) []ImageReference {
	matches := imagePattern.FindAllStringSubmatchIndex(text, -1)
	refs := make([]ImageReference, 0, len(matches))
	for _, m := range matches {
		raw := text[m[4]:m[5]]
		refs = append(refs, ImageReference{
			Alt:      text[m[2]:m[3]],
			RawPath:  raw,
			Match:    text[m[0]:m[1]],
			Span:     Span{Start: m[0], End: m[1]},
			IsRemote: IsRemote(raw),
		})
	}
	return refs
}

// IsRemote reports whether a raw path already points at an http(s) URL
func IsRemote(raw string) bool {
	lower := strings.ToLower(raw)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// Local returns the non-remote references, keeping their order
func Local(refs []ImageReference) []ImageReference {
	local := make([]ImageReference, 0, len(refs))
	for _, ref := range refs {
		if !ref.IsRemote {
			local = append(local, ref)
		}
	}
	return local
}

// CountLocal counts the references that would be uploaded
func CountLocal(refs []ImageReference) int {
	n := 0
	for _, ref := range refs {
		if !ref.IsRemote {
			n++
		}
	}
	return n
}
