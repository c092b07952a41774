package invoker

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

// writeTool creates an executable shell script standing in for the inference CLI.
func writeTool(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fixtures require a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "fake-cli")
	script := "#!/bin/sh\n" + body + "\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write tool: %v", err)
	}
	return path
}

func newRunner(t *testing.T, cfg Config) *Runner {
	t.Helper()
	if cfg.PromptFlag == "" {
		cfg.PromptFlag = "-p"
	}
	if cfg.ModelFlag == "" {
		cfg.ModelFlag = "--model"
	}
	if cfg.Label == "" {
		cfg.Label = "Fake CLI"
	}
	r, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}

func TestInvokeSuccess(t *testing.T) {
	tool := writeTool(t, `printf '  model=%s prompt=%s  \n' "$4" "$2"`)
	r := newRunner(t, Config{Command: tool})

	res := r.Invoke(context.Background(), "hello there", "gemini-2.0-flash")
	if !res.OK {
		t.Fatalf("expected success, got %q", res.Text)
	}
	if want := "model=gemini-2.0-flash prompt=hello there"; res.Text != want {
		t.Errorf("Text = %q, want %q", res.Text, want)
	}
}

func TestInvokePassesPromptAsSingleArgument(t *testing.T) {
	marker := filepath.Join(t.TempDir(), "pwned")
	tool := writeTool(t, `printf '%s|%s' "$#" "$2"`)
	r := newRunner(t, Config{Command: tool})

	prompt := "it's a test'; touch " + marker + "; echo '$(id) `id`"
	res := r.Invoke(context.Background(), prompt, "m")
	if !res.OK {
		t.Fatalf("expected success, got %q", res.Text)
	}
	if want := "4|" + prompt; res.Text != want {
		t.Errorf("Text = %q, want %q", res.Text, want)
	}
	if _, err := os.Stat(marker); !os.IsNotExist(err) {
		t.Errorf("prompt text was executed by a shell")
	}
}

func TestInvokeNonZeroExit(t *testing.T) {
	tool := writeTool(t, `echo "partial" ; echo "  quota exceeded  " >&2; exit 3`)
	r := newRunner(t, Config{Command: tool})

	res := r.Invoke(context.Background(), "p", "m")
	if res.OK {
		t.Fatal("expected failure")
	}
	if want := "[Fake CLI Error]: quota exceeded"; res.Text != want {
		t.Errorf("Text = %q, want %q", res.Text, want)
	}
}

func TestInvokeNonZeroExitWithoutStderr(t *testing.T) {
	tool := writeTool(t, `exit 7`)
	r := newRunner(t, Config{Command: tool})

	res := r.Invoke(context.Background(), "p", "m")
	if res.OK {
		t.Fatal("expected failure")
	}
	if !strings.Contains(res.Text, "exit status 7") {
		t.Errorf("Text = %q, want exit status", res.Text)
	}
}

func TestInvokeTimeout(t *testing.T) {
	tool := writeTool(t, `exec sleep 10`)
	r := newRunner(t, Config{Command: tool, Timeout: 200 * time.Millisecond})

	start := time.Now()
	res := r.Invoke(context.Background(), "p", "m")
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("Invoke took %s, deadline not enforced", elapsed)
	}
	if res.OK {
		t.Fatal("expected failure")
	}
	if !strings.Contains(res.Text, "timed out") {
		t.Errorf("Text = %q, want timeout diagnostic", res.Text)
	}
	if !strings.HasPrefix(res.Text, "[Fake CLI Error]: ") {
		t.Errorf("Text = %q, missing marker", res.Text)
	}
}

func TestInvokeIgnoresCallerCancellation(t *testing.T) {
	tool := writeTool(t, `sleep 0.2; echo done`)
	r := newRunner(t, Config{Command: tool})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := r.Invoke(ctx, "p", "m")
	if !res.OK || res.Text != "done" {
		t.Errorf("Invoke = %+v, want completed run", res)
	}
}

func TestInvokeLaunchFailure(t *testing.T) {
	r := newRunner(t, Config{Command: filepath.Join(t.TempDir(), "missing-cli")})

	res := r.Invoke(context.Background(), "p", "m")
	if res.OK {
		t.Fatal("expected failure")
	}
	if !strings.HasPrefix(res.Text, "[Fake CLI Error]: ") {
		t.Errorf("Text = %q, missing marker", res.Text)
	}
}

func TestInvokeEnvironment(t *testing.T) {
	tool := writeTool(t, `printf '%s' "$GOOGLE_GENAI_USE_GCA"`)
	r := newRunner(t, Config{Command: tool, Env: map[string]string{"GOOGLE_GENAI_USE_GCA": "true"}})

	res := r.Invoke(context.Background(), "p", "m")
	if !res.OK || res.Text != "true" {
		t.Errorf("Invoke = %+v, want env passed through", res)
	}
}

func TestAvailable(t *testing.T) {
	tool := writeTool(t, `exit 0`)
	if !newRunner(t, Config{Command: tool}).Available() {
		t.Error("expected existing tool to be available")
	}
	if newRunner(t, Config{Command: "definitely-not-a-real-cli-binary"}).Available() {
		t.Error("expected missing tool to be unavailable")
	}
}

func TestNewRequiresCommand(t *testing.T) {
	if _, err := New(Config{Command: "  "}); err == nil {
		t.Error("expected error for empty command")
	}
}

func TestMergeEnv(t *testing.T) {
	got := mergeEnv([]string{"A=1", "B=2", "A=3"}, map[string]string{"B": "x", "C": "y"})
	want := []string{"A=3", "B=x", "C=y"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("mergeEnv = %v, want %v", got, want)
	}
}

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{120 * time.Second, "120s"},
		{1500 * time.Millisecond, "1.5s"},
	}
	for _, tt := range tests {
		if got := formatSeconds(tt.in); got != tt.want {
			t.Errorf("formatSeconds(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
