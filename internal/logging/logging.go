// Package logging builds the process logger: a log/slog logger writing one
// human readable line per record, with the level colored when the output is
// a terminal.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// DefaultLevel is used when no level is configured.
const DefaultLevel = slog.LevelInfo

const timeFormat = "2006/01/02 15:04:05"

// ParseLevel parses a level name. Accepted names are debug, info, warn,
// warning and error, in any case.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return DefaultLevel, fmt.Errorf("unknown log level %q", s)
}

// Options configures a ConsoleHandler.
type Options struct {
	// Level is the minimum level written. Defaults to DefaultLevel.
	Level slog.Leveler
	// NoColor disables coloring regardless of the terminal. It is forced
	// on when the handler writes to a file that is not a terminal.
	NoColor bool
}

// ConsoleHandler is a slog.Handler producing lines of the form
//
//	2006/01/02 15:04:05 INFO message key=value
type ConsoleHandler struct {
	mu     *sync.Mutex
	w      io.Writer
	opts   Options
	tty    bool
	prefix string // pre-rendered attributes from WithAttrs
	group  string
}

// NewConsoleHandler creates a ConsoleHandler writing to w.
func NewConsoleHandler(w io.Writer, opts *Options) *ConsoleHandler {
	h := &ConsoleHandler{mu: &sync.Mutex{}, w: w}
	if opts != nil {
		h.opts = *opts
	}
	if h.opts.Level == nil {
		h.opts.Level = DefaultLevel
	}
	// color.NoColor only looks at stdout, so decide for w itself.
	if f, ok := w.(*os.File); ok {
		h.tty = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		if !h.tty {
			h.opts.NoColor = true
		}
	}
	return h
}

// New returns a logger writing to w at the given level.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(NewConsoleHandler(w, &Options{Level: level}))
}

// Enabled implements slog.Handler.
func (h *ConsoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

// Handle implements slog.Handler.
func (h *ConsoleHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	if !r.Time.IsZero() {
		b.WriteString(r.Time.Format(timeFormat))
		b.WriteByte(' ')
	}
	b.WriteString(h.levelLabel(r.Level))
	b.WriteByte(' ')
	b.WriteString(r.Message)
	b.WriteString(h.prefix)
	r.Attrs(func(a slog.Attr) bool {
		appendAttr(&b, h.group, a)
		return true
	})
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

// WithAttrs implements slog.Handler.
func (h *ConsoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	var b strings.Builder
	for _, a := range attrs {
		appendAttr(&b, h.group, a)
	}
	h2 := *h
	h2.prefix = h.prefix + b.String()
	return &h2
}

// WithGroup implements slog.Handler.
func (h *ConsoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := *h
	h2.group = qualify(h.group, name)
	return &h2
}

func (h *ConsoleHandler) levelLabel(level slog.Level) string {
	label := level.String()
	if h.opts.NoColor {
		return label
	}
	var c *color.Color
	switch {
	case level >= slog.LevelError:
		c = color.New(color.FgRed, color.Bold)
	case level >= slog.LevelWarn:
		c = color.New(color.FgYellow)
	case level >= slog.LevelInfo:
		c = color.New(color.FgGreen)
	default:
		c = color.New(color.FgHiBlack)
	}
	if h.tty {
		c.EnableColor()
	}
	return c.Sprint(label)
}

func appendAttr(b *strings.Builder, group string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		g := group
		if a.Key != "" {
			g = qualify(group, a.Key)
		}
		for _, ga := range a.Value.Group() {
			appendAttr(b, g, ga)
		}
		return
	}
	b.WriteByte(' ')
	b.WriteString(qualify(group, a.Key))
	b.WriteByte('=')
	b.WriteString(quoteIfNeeded(a.Value.String()))
}

func qualify(group, key string) string {
	if group == "" {
		return key
	}
	return group + "." + key
}

func quoteIfNeeded(s string) string {
	if s == "" || strings.ContainsAny(s, " \t\r\n\"=") {
		return strconv.Quote(s)
	}
	return s
}
