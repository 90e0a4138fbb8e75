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

	"github.com/rs/zerolog"
)

// State is a step of a session
type State int

const (
	StateIdle State = iota
	StateScanning
	StateResolving
	StateUploading
	StateRecording
	StateApplying
	StateReporting
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateScanning:
		return "scanning"
	case StateResolving:
		return "resolving"
	case StateUploading:
		return "uploading"
	case StateRecording:
		return "recording"
	case StateApplying:
		return "applying"
	case StateReporting:
		return "reporting"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

func (s *Session) transition(ctx context.Context, next State) {
	zerolog.Ctx(ctx).Debug().
		Str("session", s.ID).
		Stringer("from", s.State).
		Stringer("to", next).
		Msg("session state")
	s.State = next
}
