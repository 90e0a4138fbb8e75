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

package main

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/mdpic/cmd/mdpic/commands"
	"github.com/walteh/mdpic/cmd/mdpic/opts"
	"github.com/walteh/mdpic/pkg/config"
	"github.com/walteh/mdpic/pkg/log"

	_ "github.com/walteh/mdpic/pkg/upload/github"
	_ "github.com/walteh/mdpic/pkg/upload/picgo"
)

// newRootCmd creates the mdpic command tree
func newRootCmd() *cobra.Command {
	rootOpts := &opts.RootOpts{}

	cmd := &cobra.Command{
		Use:   "mdpic",
		Short: "Upload the local images of Markdown documents to an image host",
		Long: `mdpic finds the local images referenced by Markdown documents, uploads
them through a configured uploader (a PicGo server or a GitHub repository)
and rewrites each reference to the returned url.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup(cmd, rootOpts)
		},
	}

	addRootFlags(cmd, rootOpts)

	cmd.AddCommand(
		commands.NewUploadCmd(rootOpts),
		commands.NewScanCmd(rootOpts),
	)

	return cmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, o *opts.RootOpts) {
	cmd.PersistentFlags().StringVarP(&o.ConfigFile, "config", "c", ".mdpic.yaml", "config file path (yaml, json or hcl)")
	cmd.PersistentFlags().BoolVarP(&o.Debug, "debug", "d", false, "enable debug logging")
	cmd.PersistentFlags().IntVar(&o.Interval, "interval", config.DefaultUploadInterval, "milliseconds to wait between uploads and retries")
	cmd.PersistentFlags().IntVar(&o.Retries, "retries", config.DefaultMaxRetries, "upload attempts per image")
	cmd.PersistentFlags().StringVar(&o.Uploader, "uploader", "", "uploader to use (picgo, github)")
}

// setup configures logging, loads .env and the config file, then applies
// flag overrides
func setup(cmd *cobra.Command, o *opts.RootOpts) error {
	level := zerolog.WarnLevel
	if o.Debug {
		level = zerolog.DebugLevel
	}
	zlog := zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).
		Level(level).
		With().Timestamp().Logger()

	ctx := zlog.WithContext(cmd.Context())
	ctx = log.NewContext(ctx, log.NewWithZerolog(cmd.ErrOrStderr(), zlog))

	envFile := filepath.Join(filepath.Dir(o.ConfigFile), ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return errors.Errorf("loading %s: %w", envFile, err)
	} else if err == nil {
		zlog.Debug().Str("path", envFile).Msg("loaded environment file")
	}

	cfg, err := config.LoadOrDefault(ctx, o.ConfigFile)
	if err != nil {
		return errors.Errorf("loading config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("interval") {
		cfg.UploadInterval = o.Interval
	}
	if flags.Changed("retries") {
		cfg.MaxRetries = o.Retries
	}
	if flags.Changed("uploader") {
		cfg.Uploader.Type = o.Uploader
	}

	if err := cfg.Validate(); err != nil {
		return errors.Errorf("validating flags: %w", err)
	}

	o.Config = cfg
	cmd.SetContext(ctx)
	return nil
}
