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
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/mdpic/pkg/log"
	"github.com/walteh/mdpic/pkg/markdown"
	"github.com/walteh/mdpic/pkg/status"
	"github.com/walteh/mdpic/pkg/upload"
)

// 🚀 Run uploads every local image referenced by the document and rewrites
// the references to the returned urls in one batch.
//
// Per-image failures are counted on the session and never returned. The
// returned error is reserved for cancellation, failed edits and panics; the
// session is returned alongside it with whatever was recorded.
func Run(ctx context.Context, opts Options) (sess *Session, err error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	opts.setDefaults()

	if opts.SessionID == "" {
		opts.SessionID = uuid.NewString()
	}

	sess = newSession(opts.SessionID)

	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("unexpected panic in session %s: %v", sess.ID, r)
		}
	}()

	logger := zerolog.Ctx(ctx).With().
		Str("session", sess.ID).
		Str("document", opts.Document.BaseName()).
		Logger()
	ctx = logger.WithContext(ctx)
	diag := log.FromContext(ctx)

	sess.transition(ctx, StateScanning)

	pending, skipped, err := partition(markdown.Scan(opts.Document.Text()), opts.Ignore)
	if err != nil {
		return sess, err
	}
	sess.Total = len(pending)
	sess.Skipped = len(skipped)

	diag.StartDocumentOperation(ctx, log.DocumentOperation{
		Path:      opts.Document.BaseName(),
		SessionID: sess.ID,
		Total:     sess.Total,
	})
	defer diag.EndDocumentOperation(ctx)

	for _, ref := range skipped {
		diag.LogImageOperation(ctx, log.ImageOperation{
			Path:   ref.RawPath,
			Status: log.ImageSkipped,
			Reason: "ignored",
		})
	}

	if sess.Total == 0 {
		sess.transition(ctx, StateReporting)
		opts.Reporter.Info(status.FormatNothingToUpload())
		sess.transition(ctx, StateDone)
		return sess, nil
	}

	opts.Reporter.Start(opts.Title)
	runErr := process(ctx, &opts, sess, pending)
	opts.Reporter.Done()

	if len(sess.Replacements) > 0 {
		sess.transition(ctx, StateApplying)
		// cancellation must not lose images that already reached the host
		applied, err := opts.Document.ApplyEdits(context.WithoutCancel(ctx), sess.Replacements)
		if err != nil {
			return sess, errors.Errorf("applying %d replacements: %w", len(sess.Replacements), err)
		}
		sess.Applied = applied
	}

	sess.transition(ctx, StateReporting)
	opts.Reporter.Info(status.FormatSummary(sess.Uploaded, sess.Failed))

	if runErr != nil {
		return sess, runErr
	}

	sess.transition(ctx, StateDone)
	logger.Info().
		Int("total", sess.Total).
		Int("uploaded", sess.Uploaded).
		Int("failed", sess.Failed).
		Bool("applied", sess.Applied).
		Msg("session complete")

	return sess, nil
}

// process uploads pending references in order, pausing opts.Interval
// between them. It only returns an error when ctx is done.
func process(ctx context.Context, opts *Options, sess *Session, pending []markdown.ImageReference) error {
	logger := zerolog.Ctx(ctx)
	diag := log.FromContext(ctx)
	increment := 100 / float64(sess.Total)

	for i, ref := range pending {
		if i > 0 {
			if err := opts.Sleeper(ctx, opts.Interval); err != nil {
				return errors.Errorf("pacing uploads: %w", err)
			}
		}

		sess.transition(ctx, StateResolving)
		resolved, err := markdown.Resolve(ref.RawPath, opts.Document.Dir())
		if err != nil {
			sess.transition(ctx, StateRecording)
			fail(ctx, opts, sess, ref, 0, err)
			continue
		}

		sess.transition(ctx, StateUploading)
		url, attempts, err := upload.WithRetry(ctx, func(ctx context.Context) (string, error) {
			return opts.Executor.Attempt(ctx, resolved, opts.Document.BaseName())
		}, opts.MaxRetries, opts.Interval, opts.Sleeper)
		if err != nil && ctx.Err() != nil {
			logger.Warn().Str("image", ref.RawPath).Int("attempts", attempts).Msg("session cancelled mid upload")
			return errors.Errorf("uploading %s: %w", ref.RawPath, ctx.Err())
		}

		sess.transition(ctx, StateRecording)
		if err != nil {
			fail(ctx, opts, sess, ref, attempts, err)
			continue
		}

		sess.recordSuccess(ref, url)
		opts.Reporter.Progress(increment, status.FormatProgress(sess.Uploaded, sess.Total))
		diag.LogImageOperation(ctx, log.ImageOperation{
			Path:     ref.RawPath,
			Status:   log.ImageUploaded,
			URL:      url,
			Attempts: attempts,
		})
	}

	return nil
}

func fail(ctx context.Context, opts *Options, sess *Session, ref markdown.ImageReference, attempts int, err error) {
	sess.recordFailure(ref, attempts, err)
	opts.Reporter.Error(status.FormatFailure(ref.RawPath, err))
	log.FromContext(ctx).LogImageOperation(ctx, log.ImageOperation{
		Path:     ref.RawPath,
		Status:   log.ImageFailed,
		Attempts: attempts,
		Reason:   err.Error(),
	})
	zerolog.Ctx(ctx).Debug().Err(err).Str("image", ref.RawPath).Int("attempts", attempts).Msg("image failed")
}

// partition splits scanned references into those to upload and those
// skipped by an ignore glob. Remote references are dropped.
func partition(refs []markdown.ImageReference, ignore []string) (pending, skipped []markdown.ImageReference, err error) {
	for _, ref := range refs {
		if ref.IsRemote {
			continue
		}
		matched, err := Ignored(ref.RawPath, ignore)
		if err != nil {
			return nil, nil, err
		}
		if matched {
			skipped = append(skipped, ref)
			continue
		}
		pending = append(pending, ref)
	}
	return pending, skipped, nil
}

// Ignored reports whether rawPath matches any of the doublestar patterns
func Ignored(rawPath string, patterns []string) (bool, error) {
	for _, pattern := range patterns {
		match, err := doublestar.Match(pattern, rawPath)
		if err != nil {
			return false, errors.Errorf("matching ignore pattern %q: %w", pattern, err)
		}
		if match {
			return true, nil
		}
	}
	return false, nil
}

// String implements fmt.Stringer
func (s *Session) String() string {
	return fmt.Sprintf("session %s: %d/%d uploaded, %d failed", s.ID, s.Uploaded, s.Total, s.Failed)
}
