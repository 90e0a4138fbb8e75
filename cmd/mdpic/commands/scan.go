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
	"fmt"
	"io"
	"runtime"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"

	"github.com/walteh/mdpic/cmd/mdpic/opts"
	"github.com/walteh/mdpic/pkg/document"
	"github.com/walteh/mdpic/pkg/markdown"
	"github.com/walteh/mdpic/pkg/operation"
)

// 🏷️ ReferenceKind classifies a scanned image reference
type ReferenceKind string

const (
	KindLocal   ReferenceKind = "local"
	KindRemote  ReferenceKind = "remote"
	KindIgnored ReferenceKind = "ignored"
	KindInvalid ReferenceKind = "invalid"
)

// ScannedReference is one image reference as upload would treat it
type ScannedReference struct {
	RawPath  string
	Kind     ReferenceKind
	Resolved string
	Detail   string
}

// DocumentScan lists the references found in one document
type DocumentScan struct {
	Path       string
	References []ScannedReference
}

// Count returns the number of references of kind
func (d DocumentScan) Count(kind ReferenceKind) int {
	n := 0
	for _, ref := range d.References {
		if ref.Kind == kind {
			n++
		}
	}
	return n
}

// NewScanCmd creates a new scan command
func NewScanCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan <file.md>...",
		Short: "List image references without uploading anything",
		Long: `Scan shows, for each Markdown document, which image references upload
would process, which it would skip as remote or ignored, and the file each
local reference resolves to. Documents are scanned in parallel.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "scan").Logger().WithContext(cmd.Context())

			scans, err := ScanDocuments(ctx, args, o.Config.Ignore)
			if err != nil {
				return err
			}
			return renderScans(cmd.OutOrStdout(), scans)
		},
	}

	return cmd
}

// 🔍 ScanDocuments scans every document concurrently; results keep the
// order of paths
func ScanDocuments(ctx context.Context, paths []string, ignore []string) ([]DocumentScan, error) {
	results := make([]DocumentScan, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			scan, err := scanDocument(gctx, path, ignore)
			if err != nil {
				return errors.Errorf("scanning %s: %w", path, err)
			}
			results[i] = scan
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func scanDocument(ctx context.Context, path string, ignore []string) (DocumentScan, error) {
	doc, err := document.Open(path)
	if err != nil {
		return DocumentScan{}, err
	}

	scan := DocumentScan{Path: doc.Path()}
	for _, ref := range markdown.Scan(doc.Text()) {
		sr := ScannedReference{RawPath: ref.RawPath}
		switch {
		case ref.IsRemote:
			sr.Kind = KindRemote
		default:
			ignored, err := operation.Ignored(ref.RawPath, ignore)
			if err != nil {
				return DocumentScan{}, err
			}
			if ignored {
				sr.Kind = KindIgnored
				break
			}
			resolved, err := markdown.Resolve(ref.RawPath, doc.Dir())
			if err != nil {
				sr.Kind = KindInvalid
				sr.Detail = err.Error()
				break
			}
			sr.Kind = KindLocal
			sr.Resolved = resolved
		}
		scan.References = append(scan.References, sr)
	}

	zerolog.Ctx(ctx).Debug().
		Str("document", scan.Path).
		Int("references", len(scan.References)).
		Msg("scanned document")

	return scan, nil
}

func renderScans(w io.Writer, scans []DocumentScan) error {
	for _, scan := range scans {
		fmt.Fprintln(w, color.New(color.Bold).Sprint(scan.Path))

		if len(scan.References) == 0 {
			fmt.Fprintln(w, color.New(color.Faint).Sprint("  no images"))
			fmt.Fprintln(w)
			continue
		}

		data := pterm.TableData{{"kind", "path", "resolved"}}
		for _, ref := range scan.References {
			target := ref.Resolved
			if ref.Kind == KindInvalid {
				target = ref.Detail
			}
			data = append(data, []string{string(ref.Kind), ref.RawPath, target})
		}

		table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
		if err != nil {
			return errors.Errorf("rendering table: %w", err)
		}
		fmt.Fprintln(w, table)
		fmt.Fprintf(w, "%d local, %d remote, %d ignored, %d invalid\n\n",
			scan.Count(KindLocal), scan.Count(KindRemote), scan.Count(KindIgnored), scan.Count(KindInvalid))
	}
	return nil
}
