// Copyright 2025 The FlowStack Authors
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

package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"golang.org/x/term"
)

var defaultLogger *slog.Logger

const modulePrefix = "github.com/flowstack/flowstack-go"

// Output formats.
const (
	FormatSimple  = "simple"  // level + message + attributes
	FormatVerbose = "verbose" // time + level + message + attributes
	FormatJSON    = "json"
)

// ParseLevel converts a string log level to slog.Level.
// Valid levels: debug, info, warn, error. Anything else maps to info.
func ParseLevel(levelStr string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// filteringHandler drops records logged from outside this module unless the
// level is DEBUG.
type filteringHandler struct {
	handler  slog.Handler
	minLevel slog.Level
}

func (h *filteringHandler) Enabled(ctx context.Context, level slog.Level) bool {
	if level < h.minLevel {
		return false
	}
	return h.handler.Enabled(ctx, level)
}

func (h *filteringHandler) Handle(ctx context.Context, record slog.Record) error {
	if h.minLevel <= slog.LevelDebug || fromModule(record.PC) {
		return h.handler.Handle(ctx, record)
	}
	return nil
}

func (h *filteringHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &filteringHandler{handler: h.handler.WithAttrs(attrs), minLevel: h.minLevel}
}

func (h *filteringHandler) WithGroup(name string) slog.Handler {
	return &filteringHandler{handler: h.handler.WithGroup(name), minLevel: h.minLevel}
}

// fromModule reports whether pc belongs to a function in this module.
func fromModule(pc uintptr) bool {
	if pc == 0 {
		return false
	}
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return false
	}
	file, _ := fn.FileLine(pc)
	return strings.HasPrefix(fn.Name(), modulePrefix) || strings.Contains(file, "flowstack")
}

func levelColor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "\033[31m"
	case level >= slog.LevelWarn:
		return "\033[33m"
	case level >= slog.LevelInfo:
		return "\033[36m"
	default:
		return "\033[90m"
	}
}

func levelName(level slog.Level) string {
	name := strings.ToUpper(level.String())
	if name == "WARNING" {
		return "WARN"
	}
	return name
}

// lineHandler writes one line per record: [time] LEVEL message key=value...
type lineHandler struct {
	handler  slog.Handler
	writer   io.Writer
	color    bool
	withTime bool
	attrs    []slog.Attr
}

func (h *lineHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *lineHandler) Handle(_ context.Context, record slog.Record) error {
	var buf strings.Builder

	if h.withTime && !record.Time.IsZero() {
		buf.WriteString(record.Time.Format("2006/01/02 15:04:05 "))
	}

	if h.color {
		buf.WriteString(levelColor(record.Level))
		buf.WriteString(levelName(record.Level))
		buf.WriteString("\033[0m")
	} else {
		buf.WriteString(levelName(record.Level))
	}
	buf.WriteString(" ")
	buf.WriteString(record.Message)

	write := func(a slog.Attr) bool {
		buf.WriteString(" ")
		buf.WriteString(a.Key)
		buf.WriteString("=")
		buf.WriteString(a.Value.String())
		return true
	}
	for _, a := range h.attrs {
		write(a)
	}
	record.Attrs(write)

	buf.WriteString("\n")
	_, err := io.WriteString(h.writer, buf.String())
	return err
}

func (h *lineHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.handler = h.handler.WithAttrs(attrs)
	next.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &next
}

func (h *lineHandler) WithGroup(name string) slog.Handler {
	next := *h
	next.handler = h.handler.WithGroup(name)
	return &next
}

// New builds a logger writing to output in the given format. Colour is used
// for simple and verbose formats when output is a terminal.
func New(level slog.Level, output io.Writer, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch format {
	case FormatJSON:
		handler = slog.NewJSONHandler(output, opts)
	case FormatVerbose, FormatSimple, "":
		handler = &lineHandler{
			handler:  slog.NewTextHandler(output, opts),
			writer:   output,
			color:    isTerminal(output),
			withTime: format == FormatVerbose,
		}
	default:
		handler = slog.NewTextHandler(output, opts)
	}

	return slog.New(&filteringHandler{handler: handler, minLevel: level})
}

// Init installs a logger built by New as the slog default.
func Init(level slog.Level, output io.Writer, format string) {
	defaultLogger = New(level, output, format)
	slog.SetDefault(defaultLogger)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// OpenLogFile opens or creates a log file at the specified path
// Returns the file handle and a cleanup function, or an error
func OpenLogFile(path string) (*os.File, func(), error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return file, func() { file.Close() }, nil
}

// GetLogger returns the default logger, initialising it at INFO on stderr.
func GetLogger() *slog.Logger {
	if defaultLogger == nil {
		Init(slog.LevelInfo, os.Stderr, FormatSimple)
	}
	return defaultLogger
}
