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

package commands

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/mdpic/cmd/mdpic/opts"
	"github.com/walteh/mdpic/pkg/document"
	"github.com/walteh/mdpic/pkg/log"
	"github.com/walteh/mdpic/pkg/operation"
	"github.com/walteh/mdpic/pkg/status"
	"github.com/walteh/mdpic/pkg/upload"
)

// ErrUnexpected is returned when a session fails for a reason other than a
// single image; the cause is only logged
var ErrUnexpected = errors.Base("unexpected error, run with --debug for details")

// NewUploadCmd creates a new upload command
func NewUploadCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload <file.md>...",
		Short: "Upload local images and rewrite their references",
		Long: `Upload processes each Markdown document in turn.
For every document it will:
1. Find image references that point at local files
2. Upload them one at a time, retrying failures
3. Replace each uploaded reference with ![](url) in a single write
4. Print a summary of uploaded and failed images`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "upload").Logger().WithContext(cmd.Context())
			return runUpload(ctx, o, status.NewConsole(cmd.ErrOrStderr()), args)
		},
	}

	return cmd
}

func runUpload(ctx context.Context, o *opts.RootOpts, reporter status.Reporter, paths []string) error {
	cfg := o.Config
	diag := log.FromContext(ctx)

	uploader, err := upload.New(ctx, cfg)
	if err != nil {
		return errors.Errorf("creating uploader: %w", err)
	}

	var execOpts []upload.ExecutorOption
	if cfg.StagingEnabled() {
		execOpts = append(execOpts, upload.WithStagingDir(cfg.StagingDir()))
	}
	executor := upload.NewExecutor(uploader, execOpts...)

	// every document is checked before the first upload
	docs := make([]*document.File, 0, len(paths))
	for _, path := range paths {
		doc, err := document.Open(path)
		if err != nil {
			return errors.Errorf("opening %s: %w", path, err)
		}
		docs = append(docs, doc)
	}

	diag.Header("uploading images with " + uploader.Name())

	var uploaded, failed int
	for _, doc := range docs {
		sessionID := uuid.NewString()

		sess, err := operation.Run(ctx, operation.Options{
			Document:   doc,
			Executor:   executor,
			Reporter:   reporter,
			MaxRetries: cfg.MaxRetries,
			Interval:   cfg.Interval(),
			Ignore:     cfg.Ignore,
			SessionID:  sessionID,
			Title:      "uploading images in " + doc.BaseName(),
		})
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return errors.Errorf("uploading %s: %w", doc.Path(), err)
			}
			zerolog.Ctx(ctx).Error().
				Err(err).
				Str("session", sessionID).
				Str("document", doc.Path()).
				Msg("session failed")
			zerolog.Ctx(ctx).Debug().Str("session", sessionID).Msgf("session failure details: %+v", err)
			return errors.WithDetails(ErrUnexpected, "document", doc.Path())
		}

		uploaded += sess.Uploaded
		failed += sess.Failed
		reportSession(diag, doc.BaseName(), sess)
		diag.LogNewline()
	}

	if len(docs) > 1 {
		summary := status.FormatSummary(uploaded, failed)
		if failed > 0 {
			diag.Warningf("%d documents: %s", len(docs), summary)
		} else {
			diag.Successf("%d documents: %s", len(docs), summary)
		}
	}

	return nil
}

// reportSession writes the per-document outcome to the diagnostic log
func reportSession(diag *log.Logger, name string, sess *operation.Session) {
	switch {
	case sess.Total == 0:
		diag.Infof("%s: no local images", name)
	case sess.Failed > 0:
		diag.Errorf("%s: %d of %d images failed", name, sess.Failed, sess.Total)
	case sess.Applied:
		diag.Successf("%s: %d images uploaded and replaced", name, sess.Uploaded)
	default:
		diag.Infof("%s: %d images uploaded, document unchanged", name, sess.Uploaded)
	}
}
