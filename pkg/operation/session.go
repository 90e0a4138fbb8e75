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
	"github.com/walteh/mdpic/pkg/markdown"
	"github.com/walteh/mdpic/pkg/text"
)

// ❌ Failure is an image that could not be uploaded
type Failure struct {
	Reference markdown.ImageReference
	Attempts  int
	Err       error
}

// 📊 Session is the state of one upload run over one document
type Session struct {
	ID    string
	State State

	// Total is the number of local, non-ignored images found by the scan.
	// It is fixed for the whole session.
	Total    int
	Uploaded int
	Failed   int
	Skipped  int

	// Replacements are collected in document order
	Replacements []text.Replacement
	Failures     []Failure

	// Applied reports whether the document was rewritten
	Applied bool
}

func newSession(id string) *Session {
	return &Session{ID: id, State: StateIdle}
}

func (s *Session) recordSuccess(ref markdown.ImageReference, url string) {
	s.Uploaded++
	s.Replacements = append(s.Replacements, text.Replacement{
		Span:    ref.Span,
		NewText: ReplacementText(url),
	})
}

func (s *Session) recordFailure(ref markdown.ImageReference, attempts int, err error) {
	s.Failed++
	s.Failures = append(s.Failures, Failure{Reference: ref, Attempts: attempts, Err: err})
}

// ReplacementText is the Markdown written in place of an uploaded image
func ReplacementText(url string) string {
	return "![](" + url + ")"
}
