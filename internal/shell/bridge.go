// Package shell runs one command at a time through the system shell and
// captures its combined output into a Scrollback.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/C0d3-5t3w/C-textedit/internal/log"
	"github.com/C0d3-5t3w/C-textedit/internal/tracing"
)

// DefaultShell is the interpreter used when none is configured.
const DefaultShell = "/bin/sh"

const chunkSize = 1024

var (
	// ErrPipe indicates the output pipe could not be created.
	ErrPipe = errors.New("failed to create pipe")

	// ErrSpawn indicates the shell could not be started.
	ErrSpawn = errors.New("failed to start shell")
)

// Result describes one finished command.
type Result struct {
	RunID    string
	Command  string
	ExitCode int
	Bytes    int64 // total output read, including bytes that slid out
	Duration time.Duration
}

// Runner executes a command into a scrollback.
type Runner interface {
	Run(command string, out *Scrollback) (Result, error)
}

// Compile-time check that Bridge implements Runner.
var _ Runner = (*Bridge)(nil)

// Bridge runs commands as `<Shell> -c <command>`, blocking until the
// child exits and has been reaped.
type Bridge struct {
	shell  string
	dir    string
	tracer trace.Tracer
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithDir sets the working directory for commands.
func WithDir(dir string) Option {
	return func(b *Bridge) { b.dir = dir }
}

// WithTracer records a span per command.
func WithTracer(t trace.Tracer) Option {
	return func(b *Bridge) {
		if t != nil {
			b.tracer = t
		}
	}
}

// NewBridge returns a bridge for shellPath ("" means DefaultShell).
func NewBridge(shellPath string, opts ...Option) *Bridge {
	if shellPath == "" {
		shellPath = DefaultShell
	}
	b := &Bridge{shell: shellPath, tracer: noop.NewTracerProvider().Tracer("noop")}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Shell returns the interpreter path.
func (b *Bridge) Shell() string { return b.shell }

// Run resets out, runs command, and copies its stdout and stderr into out
// through one pipe. It returns after the child exits. A non-zero exit is
// reported in Result.ExitCode, not as an error. When the pipe or the spawn
// fails, no child exists, both pipe ends are closed and out is untouched.
func (b *Bridge) Run(command string, out *Scrollback) (Result, error) {
	res := Result{RunID: uuid.NewString(), Command: command, ExitCode: -1}
	_, span := b.tracer.Start(context.Background(), tracing.SpanShellRun,
		trace.WithAttributes(
			attribute.String(tracing.AttrShellCommand, command),
			attribute.String(tracing.AttrShellRunID, res.RunID),
		))
	defer span.End()

	start := time.Now()
	pr, pw, err := os.Pipe()
	if err != nil {
		log.ErrorErr(log.CatShell, "pipe failed", err)
		span.SetStatus(codes.Error, err.Error())
		return res, fmt.Errorf("%w: %w", ErrPipe, err)
	}

	//nolint:gosec // G204: running user-typed commands is the point
	cmd := exec.Command(b.shell, "-c", command)
	cmd.Dir = b.dir
	cmd.Stdout = pw
	cmd.Stderr = pw

	if err := cmd.Start(); err != nil {
		_ = pr.Close()
		_ = pw.Close()
		log.ErrorErr(log.CatShell, "spawn failed", err, "shell", b.shell)
		span.SetStatus(codes.Error, err.Error())
		return res, fmt.Errorf("%w: %w", ErrSpawn, err)
	}
	// Drop the parent's write end so the read loop sees EOF when the child exits.
	_ = pw.Close()

	out.Reset()
	n, readErr := drain(out, pr)
	_ = pr.Close()
	waitErr := cmd.Wait()

	res.Bytes = n
	res.Duration = time.Since(start)
	if cmd.ProcessState != nil {
		res.ExitCode = cmd.ProcessState.ExitCode()
	}

	span.SetAttributes(
		attribute.Int(tracing.AttrShellExitCode, res.ExitCode),
		attribute.Int64(tracing.AttrShellBytes, n),
	)
	log.Info(log.CatShell, "command finished", "cmd", command, "exit", res.ExitCode, "bytes", n, "duration", res.Duration)

	var exitErr *exec.ExitError
	switch {
	case readErr != nil:
		span.SetStatus(codes.Error, readErr.Error())
		return res, fmt.Errorf("reading output: %w", readErr)
	case waitErr != nil && !errors.As(waitErr, &exitErr):
		span.SetStatus(codes.Error, waitErr.Error())
		return res, fmt.Errorf("waiting for shell: %w", waitErr)
	}
	return res, nil
}

// drain copies r into out in fixed-size chunks until EOF.
func drain(out *Scrollback, r io.Reader) (int64, error) {
	var total int64
	buf := make([]byte, chunkSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			_, _ = out.Write(buf[:n])
			total += int64(n)
		}
		if errors.Is(err, io.EOF) {
			return total, nil
		}
		if err != nil {
			return total, err
		}
	}
}
