package logger

import (
	"context"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	runContextKey    contextKey = "run_context"
	loggerContextKey contextKey = "logger"
)

// RunContext holds metadata about one tool invocation, attached to every
// run's logs so parallel CI invocations can be told apart.
type RunContext struct {
	Command    string    `json:"command"`
	Args       []string  `json:"args"`
	WorkingDir string    `json:"working_dir"`
	StartedAt  time.Time `json:"started_at"`
	RunID      string    `json:"run_id"`
}

// NewRunContext creates a RunContext from a Cobra command.
func NewRunContext(cmd *cobra.Command, args []string) *RunContext {
	rc := &RunContext{
		Command:   cmd.CommandPath(),
		Args:      args,
		StartedAt: time.Now(),
		RunID:     uuid.NewString(),
	}
	if cwd, err := os.Getwd(); err == nil {
		rc.WorkingDir = cwd
	}
	return rc
}

// WithRunContext attaches a RunContext to ctx.
func WithRunContext(ctx context.Context, rc *RunContext) context.Context {
	return context.WithValue(ctx, runContextKey, rc)
}

// RunContextFrom extracts the RunContext from ctx, or returns an empty one.
func RunContextFrom(ctx context.Context) *RunContext {
	if rc, ok := ctx.Value(runContextKey).(*RunContext); ok {
		return rc
	}
	return &RunContext{}
}

// WithLogger attaches a Logger to ctx.
func WithLogger(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, loggerContextKey, l)
}

// FromContext extracts the Logger from ctx, or returns the default logger.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(loggerContextKey).(*Logger); ok {
		return l
	}
	return Default()
}
