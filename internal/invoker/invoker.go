// Package invoker runs the external inference CLI once per request.
//
// The prompt and the model identifier are passed as discrete argv entries; no shell is
// involved, so prompt text can never be interpreted as shell syntax. Every failure mode
// (timeout, nonzero exit, launch error) is folded into a diagnostic Result rather than
// returned as an error, because callers surface the diagnostic as model output.
package invoker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"sort"
	"strings"
	"time"
)

const (
	// DefaultTimeout bounds a single tool run.
	DefaultTimeout = 120 * time.Second

	// waitDelay bounds how long Wait keeps draining pipes after the process was killed.
	// Grandchildren that inherited stdout would otherwise keep Wait blocked.
	waitDelay = 2 * time.Second
)

// Result is the outcome of a single tool run. On failure, Text holds a
// human-readable diagnostic prefixed with the runner's marker.
type Result struct {
	OK   bool
	Text string
}

// Config describes how to call the external tool.
type Config struct {
	// Command is the executable name or path, e.g. "gemini".
	Command string
	// PromptFlag precedes the prompt argument, e.g. "-p".
	PromptFlag string
	// ModelFlag precedes the model argument, e.g. "--model".
	ModelFlag string
	// Label names the tool in diagnostics: "[<Label> Error]: ...".
	Label string
	// Env is added to the inherited environment of every run.
	Env map[string]string
	// Timeout is the hard deadline of a run. Zero means DefaultTimeout.
	Timeout time.Duration
}

// Runner invokes the external tool. It holds no per-request state and is safe for concurrent use.
type Runner struct {
	command    string
	promptFlag string
	modelFlag  string
	marker     string
	env        []string
	timeout    time.Duration
}

// New creates a Runner from cfg.
func New(cfg Config) (*Runner, error) {
	command := strings.TrimSpace(cfg.Command)
	if command == "" {
		return nil, errors.New("tool command is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	label := strings.TrimSpace(cfg.Label)
	if label == "" {
		label = command
	}

	return &Runner{
		command:    command,
		promptFlag: cfg.PromptFlag,
		modelFlag:  cfg.ModelFlag,
		marker:     "[" + label + " Error]: ",
		env:        mergeEnv(os.Environ(), cfg.Env),
		timeout:    timeout,
	}, nil
}

// Timeout returns the configured hard deadline.
func (r *Runner) Timeout() time.Duration {
	return r.timeout
}

// Available reports whether the tool command resolves on the execution path.
func (r *Runner) Available() bool {
	_, err := exec.LookPath(r.command)
	return err == nil
}

// Invoke runs the tool with prompt and model and captures its output.
//
// The deadline is owned by the Runner: ctx contributes values (for logging) but its
// cancellation is ignored, so a disconnecting caller does not abort a running tool.
func (r *Runner) Invoke(ctx context.Context, prompt, model string) Result {
	runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, r.command, r.args(prompt, model)...)
	cmd.Env = r.env
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	slog.DebugContext(ctx, "invoking tool", "command", r.command, "model", model, "prompt_chars", len(prompt))

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		slog.WarnContext(ctx, "tool timed out", "model", model, "timeout", r.timeout)
		return r.failure(fmt.Sprintf("Request timed out after %s", formatSeconds(r.timeout)))
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			slog.WarnContext(ctx, "tool exited with error",
				"model", model,
				"exit_code", exitErr.ExitCode(),
				"duration", elapsed,
			)
			msg := strings.TrimSpace(stderr.String())
			if msg == "" {
				msg = exitErr.Error()
			}
			return r.failure(msg)
		}

		slog.ErrorContext(ctx, "tool launch failed", "command", r.command, "error", err)
		return r.failure(err.Error())
	}

	slog.DebugContext(ctx, "tool completed", "model", model, "duration", elapsed, "output_bytes", stdout.Len())
	return Result{OK: true, Text: strings.TrimSpace(stdout.String())}
}

func (r *Runner) args(prompt, model string) []string {
	args := make([]string, 0, 4)
	if r.promptFlag != "" {
		args = append(args, r.promptFlag)
	}
	args = append(args, prompt)
	if r.modelFlag != "" {
		args = append(args, r.modelFlag)
	}
	return append(args, model)
}

func (r *Runner) failure(msg string) Result {
	return Result{OK: false, Text: r.marker + msg}
}

// formatSeconds renders whole-second durations as "120s" and others via time.Duration.
func formatSeconds(d time.Duration) string {
	if d%time.Second == 0 {
		return fmt.Sprintf("%ds", int64(d/time.Second))
	}
	return d.String()
}

// mergeEnv overlays overrides onto base, replacing existing keys in place.
// Overrides are applied in sorted key order so the result is stable.
func mergeEnv(base []string, overrides map[string]string) []string {
	out := make([]string, 0, len(base)+len(overrides))
	index := make(map[string]int, len(base))
	for _, entry := range base {
		key, _, _ := strings.Cut(entry, "=")
		if i, ok := index[key]; ok {
			out[i] = entry
			continue
		}
		index[key] = len(out)
		out = append(out, entry)
	}

	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		entry := k + "=" + overrides[k]
		if i, ok := index[k]; ok {
			out[i] = entry
			continue
		}
		index[k] = len(out)
		out = append(out, entry)
	}
	return out
}
