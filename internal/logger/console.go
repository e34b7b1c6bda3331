package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	charmlog "github.com/charmbracelet/log"
	"github.com/muesli/termenv"
)

// ConsoleHandler adapts charmbracelet/log to slog.Handler for the "pretty"
// log format.
type ConsoleHandler struct {
	logger *charmlog.Logger
	writer io.Writer
	opts   ConsoleHandlerOptions
	attrs  []slog.Attr
	groups []string
}

// ConsoleHandlerOptions configures the console handler.
type ConsoleHandlerOptions struct {
	// Level is the minimum level to log.
	Level slog.Leveler
	// NoColor disables colored output.
	NoColor bool
	// TimeFormat is the format for timestamps.
	TimeFormat string
}

// consoleStyles tones down the default charm styles: plain level tags, dim
// keys.
func consoleStyles() *charmlog.Styles {
	styles := charmlog.DefaultStyles()
	styles.Levels[charmlog.DebugLevel] = lipgloss.NewStyle().SetString("DEBUG").Foreground(lipgloss.Color("63"))
	styles.Levels[charmlog.InfoLevel] = lipgloss.NewStyle().SetString("INFO ").Foreground(lipgloss.Color("42"))
	styles.Levels[charmlog.WarnLevel] = lipgloss.NewStyle().SetString("WARN ").Bold(true).Foreground(lipgloss.Color("214"))
	styles.Levels[charmlog.ErrorLevel] = lipgloss.NewStyle().SetString("ERROR").Bold(true).Foreground(lipgloss.Color("196"))
	styles.Key = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	styles.Timestamp = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	return styles
}

// NewConsoleHandler creates a new console handler writing to w.
func NewConsoleHandler(w io.Writer, opts *ConsoleHandlerOptions) slog.Handler {
	if opts == nil {
		opts = &ConsoleHandlerOptions{}
	}
	if opts.Level == nil {
		opts.Level = slog.LevelInfo
	}
	if opts.TimeFormat == "" {
		opts.TimeFormat = "15:04:05"
	}
	return &ConsoleHandler{
		logger: newCharmLogger(w, opts),
		writer: w,
		opts:   *opts,
	}
}

func newCharmLogger(w io.Writer, opts *ConsoleHandlerOptions) *charmlog.Logger {
	logger := charmlog.NewWithOptions(w, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      opts.TimeFormat,
		Level:           charmLogLevel(opts.Level.Level()),
	})
	if opts.NoColor {
		logger.SetColorProfile(termenv.Ascii)
	}
	logger.SetStyles(consoleStyles())
	return logger
}

// Enabled implements slog.Handler.
func (h *ConsoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

// Handle implements slog.Handler.
func (h *ConsoleHandler) Handle(_ context.Context, r slog.Record) error {
	kvs := make([]interface{}, 0, (len(h.attrs)+r.NumAttrs())*2)
	for _, attr := range h.attrs {
		if k, v := h.formatAttr(attr); k != "" {
			kvs = append(kvs, k, v)
		}
	}
	r.Attrs(func(a slog.Attr) bool {
		if k, v := h.formatAttr(a); k != "" {
			kvs = append(kvs, k, v)
		}
		return true
	})

	switch {
	case r.Level >= slog.LevelError:
		h.logger.Error(r.Message, kvs...)
	case r.Level >= slog.LevelWarn:
		h.logger.Warn(r.Message, kvs...)
	case r.Level >= slog.LevelInfo:
		h.logger.Info(r.Message, kvs...)
	default:
		h.logger.Debug(r.Message, kvs...)
	}
	return nil
}

// formatAttr flattens groups into dotted keys.
func (h *ConsoleHandler) formatAttr(attr slog.Attr) (string, interface{}) {
	if attr.Key == "" {
		return "", nil
	}
	key := attr.Key
	if len(h.groups) > 0 {
		key = strings.Join(h.groups, ".") + "." + key
	}
	if attr.Value.Kind() == slog.KindGroup {
		groupAttrs := attr.Value.Group()
		if len(groupAttrs) == 0 {
			return "", nil
		}
		var parts []string
		for _, ga := range groupAttrs {
			if k, v := h.formatAttr(ga); k != "" {
				parts = append(parts, fmt.Sprintf("%s=%v", k, v))
			}
		}
		return key, strings.Join(parts, " ")
	}
	return key, formatSlogValue(attr.Value)
}

// WithAttrs implements slog.Handler.
func (h *ConsoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := h.clone()
	clone.attrs = append(clone.attrs, attrs...)
	return clone
}

// WithGroup implements slog.Handler.
func (h *ConsoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := h.clone()
	clone.groups = append(clone.groups, name)
	return clone
}

func (h *ConsoleHandler) clone() *ConsoleHandler {
	return &ConsoleHandler{
		logger: newCharmLogger(h.writer, &h.opts),
		writer: h.writer,
		opts:   h.opts,
		attrs:  append([]slog.Attr{}, h.attrs...),
		groups: append([]string{}, h.groups...),
	}
}

// formatSlogValue converts slog.Value to a display value.
func formatSlogValue(v slog.Value) interface{} {
	switch v.Kind() {
	case slog.KindTime:
		return v.Time().Format(time.RFC3339)
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return err.Error()
		}
		return v.Any()
	default:
		return v.Any()
	}
}

// charmLogLevel converts slog.Level to charmlog.Level.
func charmLogLevel(level slog.Level) charmlog.Level {
	switch {
	case level >= slog.LevelError:
		return charmlog.ErrorLevel
	case level >= slog.LevelWarn:
		return charmlog.WarnLevel
	case level >= slog.LevelInfo:
		return charmlog.InfoLevel
	default:
		return charmlog.DebugLevel
	}
}
