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

package status

import (
	"io"
	"math"
	"os"
	"sync"

	"github.com/pterm/pterm"
)

// 📈 Reporter is the user facing side of an upload session
type Reporter interface {
	// Start shows the progress indicator
	Start(title string)
	// Progress advances the indicator by increment percent
	Progress(increment float64, message string)
	// Done hides the progress indicator
	Done()

	// Info shows an informational notice
	Info(message string)
	// Error shows an error notice
	Error(message string)
}

// 🖥️ Console implements Reporter on a terminal with pterm
type Console struct {
	mu     sync.Mutex
	writer io.Writer
	bar    *pterm.ProgressbarPrinter

	percent float64 // accumulated progress, may be fractional
	shown   int     // whole percent already added to the bar
}

// 🏭 NewConsole creates a console reporter writing to w (stderr when nil)
func NewConsole(w io.Writer) *Console {
	if w == nil {
		w = os.Stderr
	}
	return &Console{writer: w}
}

// Start implements Reporter
func (c *Console) Start(title string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.percent = 0
	c.shown = 0

	bar, err := pterm.DefaultProgressbar.
		WithTotal(100).
		WithTitle(title).
		WithWriter(c.writer).
		WithRemoveWhenDone(true).
		Start()
	if err != nil {
		pterm.Warning.WithWriter(c.writer).Println(title)
		return
	}
	c.bar = bar
}

// Progress implements Reporter
func (c *Console) Progress(increment float64, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.percent = math.Min(100, c.percent+increment)
	if c.bar == nil {
		return
	}

	whole := int(math.Round(c.percent))
	if message != "" {
		c.bar.UpdateTitle(message)
	}
	if whole > c.shown {
		c.bar.Add(whole - c.shown)
		c.shown = whole
	}
}

// Percent returns the progress accumulated since Start
func (c *Console) Percent() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.percent
}

// Done implements Reporter
func (c *Console) Done() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.bar == nil {
		return
	}
	_, _ = c.bar.Stop()
	c.bar = nil
}

// Info implements Reporter
func (c *Console) Info(message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	pterm.Info.WithPrefix(pterm.Prefix{Text: "ℹ️"}).WithWriter(c.writer).Println(message)
}

// Error implements Reporter
func (c *Console) Error(message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	pterm.Error.WithPrefix(pterm.Prefix{Text: "❌"}).WithWriter(c.writer).Println(message)
}
