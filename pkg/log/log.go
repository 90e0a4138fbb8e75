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

package log

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// 🎨 Display configuration
const (
	imageIndent  = 4  // spaces to indent image entries
	pathWidth    = 35 // Base width for the image path
	statusWidth  = 10 // Width for status text
	attemptWidth = 4  // Width for the attempt counter
)

// 🎯 ImageStatus is the outcome of one image reference
type ImageStatus string

const (
	ImageUploaded ImageStatus = "uploaded"
	ImageFailed   ImageStatus = "failed"
	ImageSkipped  ImageStatus = "skipped"
)

// 🖼️ ImageOperation represents one processed image reference for logging
type ImageOperation struct {
	Path     string      // Raw path as written in the document
	Status   ImageStatus // Outcome
	URL      string      // Remote url on success
	Attempts int         // Upload attempts made
	Reason   string      // Skip or failure reason
}

// 📄 DocumentOperation represents one upload session for logging
type DocumentOperation struct {
	Path      string // Document path
	SessionID string // Session identifier
	Total     int    // Local images to upload
}

// 🎯 Logger is the diagnostic output channel: a short colored line per
// image on the console, mirrored as structured zerolog events
type Logger struct {
	zlog       zerolog.Logger
	console    io.Writer
	mu         sync.Mutex
	currentDoc *DocumentOperation
	operations []ImageOperation
}

// 🏭 New creates a new logger
func New(console io.Writer, level zerolog.Level) *Logger {
	zlog := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger().Level(level)
	return NewWithZerolog(console, zlog)
}

// NewWithZerolog creates a logger mirroring to an existing zerolog logger
func NewWithZerolog(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context, or a logger that discards
// everything when none was set
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		return NewWithZerolog(io.Discard, zerolog.Nop())
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 formatImageOperation formats an image operation for display
func (l *Logger) formatImageOperation(op ImageOperation) string {
	var symbol rune
	var symbolColor color.Attribute
	switch op.Status {
	case ImageUploaded:
		symbol = '✓'
		symbolColor = color.FgGreen
	case ImageFailed:
		symbol = '✗'
		symbolColor = color.FgRed
	default:
		symbol = '-'
		symbolColor = color.FgYellow
	}

	detail := op.URL
	if op.Status != ImageUploaded {
		detail = op.Reason
	}

	attempts := ""
	if op.Attempts > 0 {
		attempts = fmt.Sprintf("x%d", op.Attempts)
	}

	return fmt.Sprintf("%s%s %s %s %s %s",
		fmt.Sprintf("%*s", imageIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", pathWidth, op.Path),
		fmt.Sprintf("%-*s", statusWidth, op.Status),
		color.New(color.Faint).Sprint(fmt.Sprintf("%-*s", attemptWidth, attempts)),
		detail)
}

// 📝 LogImageOperation logs an image operation
func (l *Logger) LogImageOperation(ctx context.Context, op ImageOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.operations = append(l.operations, op)

	fmt.Fprintln(l.console, l.formatImageOperation(op))

	l.zlog.Info().
		Str("image", op.Path).
		Str("status", string(op.Status)).
		Str("url", op.URL).
		Int("attempts", op.Attempts).
		Str("reason", op.Reason).
		Msg("image operation")
}

// 📝 StartDocumentOperation starts logging a document's session
func (l *Logger) StartDocumentOperation(ctx context.Context, op DocumentOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.currentDoc = &op
	l.operations = nil

	fmt.Fprintf(l.console, "%s %s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint(op.Path),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgYellow).Sprintf("%d local images", op.Total))

	l.zlog.Info().
		Str("document", op.Path).
		Str("session", op.SessionID).
		Int("total", op.Total).
		Msg("starting document session")
}

// 📝 EndDocumentOperation ends the current document's session
func (l *Logger) EndDocumentOperation(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.currentDoc == nil {
		return
	}

	counts := map[ImageStatus]int{}
	for _, op := range l.operations {
		counts[op.Status]++
	}

	l.zlog.Info().
		Str("document", l.currentDoc.Path).
		Str("session", l.currentDoc.SessionID).
		Int("uploaded", counts[ImageUploaded]).
		Int("failed", counts[ImageFailed]).
		Int("skipped", counts[ImageSkipped]).
		Msg("document session complete")

	l.currentDoc = nil
	l.operations = nil
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("mdpic")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
